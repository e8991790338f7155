package story

import (
	"fmt"
	"strings"

	"fable/pkg/locale"
	"fable/pkg/schema"
)

// TurnRequest is a fully-specified generation request, ready for dispatch.
// The builder is pure data transformation and performs no I/O.
type TurnRequest struct {
	System string
	User   string
}

// BuildTurn assembles the prompt pair for one paragraph turn.
//
// index 0 is a start request carrying only the premise. Later turns pass all
// prior paragraphs verbatim as context; when the user picked a branch option
// the backend is instructed to continue along exactly that direction, and
// otherwise to continue naturally. tokenBudget > 0 drops the oldest previous
// paragraphs once the context exceeds the budget.
func BuildTurn(prompt string, profile schema.Profile, env *schema.Context, index int, previous []string, selected string, tokenBudget int) TurnRequest {
	system := buildSystemPrompt(profile, env)

	var user string
	switch {
	case index == 0:
		user = fmt.Sprintf("Start a story with this premise: %s", prompt)
	case selected != "":
		user = fmt.Sprintf("Continue the story following this specific direction: %q. Previous paragraphs: %s",
			selected, joinParagraphs(previous, tokenBudget))
	default:
		user = fmt.Sprintf("Continue the story from where it left off. Previous paragraphs: %s",
			joinParagraphs(previous, tokenBudget))
	}

	return TurnRequest{System: system, User: user}
}

func buildSystemPrompt(profile schema.Profile, env *schema.Context) string {
	var b strings.Builder
	b.WriteString("You are a master storyteller. Write one compelling paragraph (3-5 sentences) that continues the story.\n\n")

	b.WriteString("Style guide based on reader archetype:\n")
	b.WriteString(archetypeStyle(profile.Archetype))
	b.WriteString("\n\nMood: ")
	b.WriteString(moodTone(profile.Mood))
	b.WriteString("\n")

	if env != nil {
		b.WriteString("\nContext-aware storytelling:\n")
		b.WriteString("Time of day: " + timeContext(env.TimeOfDay) + "\n")
		b.WriteString("Weather: " + weatherContext(env.Weather) + "\n")
		b.WriteString("Season: " + seasonContext(env.Season) + "\n")
		if env.City != "" {
			b.WriteString("Location: Consider the cultural and environmental context of " + env.City + ".\n")
		}
	}

	b.WriteString("\nEmoji usage: ")
	if profile.UseEmojis {
		b.WriteString("Use relevant emojis throughout the paragraph to enhance the storytelling and make it more engaging. Place emojis naturally within sentences to emphasize emotions, actions, or key moments.")
	} else {
		b.WriteString("Do not use any emojis in the text.")
	}

	b.WriteString("\n\nLanguage: Write in " + locale.Language(profile.Locale) + "\n")

	b.WriteString(`
Important rules:
- Write exactly ONE paragraph (3-5 sentences)
- Do not include chapter numbers or section breaks
- Continue the story naturally from where it left off
- Make each paragraph feel complete but leave room for continuation
- Use vivid imagery and engaging prose
- Match the tone and style of previous paragraphs if continuing
- Write in the specified language`)

	return b.String()
}

// joinParagraphs concatenates prior paragraphs with blank lines. When a token
// budget is set, the oldest paragraphs are dropped first; the most recent one
// is always kept even if it alone exceeds the budget.
func joinParagraphs(previous []string, tokenBudget int) string {
	if tokenBudget <= 0 || len(previous) <= 1 {
		return strings.Join(previous, "\n\n")
	}

	total := 0
	counts := make([]int, len(previous))
	for i, p := range previous {
		counts[i] = CountTokens(p)
		total += counts[i]
	}
	start := 0
	for start < len(previous)-1 && total > tokenBudget {
		total -= counts[start]
		start++
	}
	return strings.Join(previous[start:], "\n\n")
}
