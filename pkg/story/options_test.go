package story

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fable/pkg/schema"
)

func TestParseOptionsJSONArray(t *testing.T) {
	got := ParseOptions(`["Open the door", "Run away", "Call for help"]`)
	assert.Equal(t, []string{"Open the door", "Run away", "Call for help"}, got)
}

func TestParseOptionsFencedJSON(t *testing.T) {
	raw := "```json\n[\"One\", \"Two\", \"Three\"]\n```"
	got := ParseOptions(raw)
	assert.Equal(t, []string{"One", "Two", "Three"}, got)
}

func TestParseOptionsLineSplit(t *testing.T) {
	raw := "Open the door\n\n- bullet noise\n* more noise\nRun away\nCall for help\nExtra line past the cut"
	got := ParseOptions(raw)
	assert.Equal(t, []string{"Open the door", "Run away", "Call for help"}, got)
}

func TestParseOptionsPadsShortLists(t *testing.T) {
	got := ParseOptions(`["Only one"]`)
	require.Len(t, got, OptionCount)
	assert.Equal(t, "Only one", got[0])
	assert.Equal(t, FillerOption, got[1])
	assert.Equal(t, FillerOption, got[2])
}

func TestParseOptionsTruncatesLongLists(t *testing.T) {
	got := ParseOptions(`["a", "b", "c", "d", "e"]`)
	assert.Equal(t, []string{"a", "b", "c"}, got)
}

func TestParseOptionsEmptyInput(t *testing.T) {
	got := ParseOptions("")
	assert.Equal(t, []string{FillerOption, FillerOption, FillerOption}, got)
}

func TestFallbackOptions(t *testing.T) {
	assert.Equal(t, []string{
		"Continue with an unexpected twist",
		"Focus on character development",
		"Introduce a new challenge",
	}, FallbackOptions())
}

func TestBuildOptionsPrompt(t *testing.T) {
	turn := BuildOptions("a premise", schema.ArchetypeSurvivor, "Story so far.", "Last paragraph.", "es")

	assert.Contains(t, turn.System, "Generate 3 short, punchy story continuation options in Spanish.")
	assert.Contains(t, turn.System, optionFocus(schema.ArchetypeSurvivor))
	assert.Contains(t, turn.User, "Current story: Story so far.")
	assert.Contains(t, turn.User, "Latest paragraph: Last paragraph.")
	assert.Contains(t, turn.User, "what happens next in Spanish")
}

func TestBuildOptionsUnknownArchetypeDefaults(t *testing.T) {
	turn := BuildOptions("", schema.Archetype("wizard"), "s", "p", "en")
	assert.Contains(t, turn.System, optionFocus(schema.ArchetypeExplorer))
}
