package story

import (
	"encoding/json"
	"fmt"
	"strings"

	"fable/pkg/locale"
	"fable/pkg/schema"
	"fable/pkg/utils"
)

// OptionCount is the exact number of branch options surfaced after a turn.
const OptionCount = 3

// FillerOption pads short option lists up to OptionCount.
const FillerOption = "Continue the story in an interesting direction"

// FallbackOptions replaces the whole set when option generation fails
// outright. Option generation never blocks story progression.
func FallbackOptions() []string {
	return []string{
		"Continue with an unexpected twist",
		"Focus on character development",
		"Introduce a new challenge",
	}
}

// BuildOptions assembles the prompt pair for branch-option generation.
func BuildOptions(premise string, archetype schema.Archetype, storySoFar, lastParagraph, loc string) TurnRequest {
	language := locale.Language(loc)

	system := fmt.Sprintf(`You are a creative storyteller. Generate 3 short, punchy story continuation options in %[1]s.

Style guide based on reader archetype:
%[2]s

Requirements:
- Generate exactly 3 options in %[1]s
- Each option should be ONE short sentence (max 8-10 words)
- Make them exciting and action-focused
- Keep them very concise and punchy
- Focus on immediate next events
- Return as a JSON array of strings`, language, optionFocus(archetype))

	user := fmt.Sprintf(`Current story: %s

Latest paragraph: %s

Generate 3 very short, exciting options for what happens next in %s. Keep each under 10 words.`, storySoFar, lastParagraph, language)

	return TurnRequest{System: system, User: user}
}

// ParseOptions turns free backend text into exactly OptionCount options.
//
// The fallback chain is fixed: a strict JSON-array parse wins; otherwise the
// text is split on newlines, trimmed, and blank lines plus bullet-marker
// lines (leading '-' or '*') are discarded; the result is padded with
// FillerOption and truncated to exactly OptionCount.
func ParseOptions(raw string) []string {
	var options []string

	cleaned := utils.CleanJSON(raw)
	if err := json.Unmarshal([]byte(cleaned), &options); err != nil {
		options = options[:0]
		for _, line := range strings.Split(raw, "\n") {
			line = strings.TrimSpace(line)
			if line == "" || strings.HasPrefix(line, "-") || strings.HasPrefix(line, "*") {
				continue
			}
			options = append(options, line)
			if len(options) == OptionCount {
				break
			}
		}
	}

	for len(options) < OptionCount {
		options = append(options, FillerOption)
	}
	return options[:OptionCount]
}
