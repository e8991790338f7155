package story

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"fable/pkg/schema"
)

func testProfile() schema.Profile {
	return schema.Profile{
		Archetype: schema.ArchetypeExplorer,
		Mood:      schema.MoodNeutral,
		UseEmojis: true,
		Locale:    "en",
	}
}

func TestBuildTurnStart(t *testing.T) {
	turn := BuildTurn("A detective enters a manor.", testProfile(), nil, 0, nil, "", 0)

	assert.Equal(t, "Start a story with this premise: A detective enters a manor.", turn.User)
	assert.Contains(t, turn.System, "You are a master storyteller.")
	assert.Contains(t, turn.System, archetypeStyle(schema.ArchetypeExplorer))
	assert.Contains(t, turn.System, moodTone(schema.MoodNeutral))
	assert.NotContains(t, turn.System, "Context-aware storytelling")
}

func TestBuildTurnContinueNaturally(t *testing.T) {
	previous := []string{"First paragraph.", "Second paragraph."}
	turn := BuildTurn("premise", testProfile(), nil, 2, previous, "", 0)

	assert.Equal(t, "Continue the story from where it left off. Previous paragraphs: First paragraph.\n\nSecond paragraph.", turn.User)
}

func TestBuildTurnWithSelectedOption(t *testing.T) {
	previous := []string{"First paragraph.", "Second paragraph."}
	turn := BuildTurn("premise", testProfile(), nil, 2, previous, "She opens the locked door", 0)

	want := fmt.Sprintf("Continue the story following this specific direction: %q. Previous paragraphs: First paragraph.\n\nSecond paragraph.", "She opens the locked door")
	assert.Equal(t, want, turn.User)
}

func TestBuildTurnEmojiInstruction(t *testing.T) {
	withEmojis := testProfile()
	turn := BuildTurn("p", withEmojis, nil, 0, nil, "", 0)
	assert.Contains(t, turn.System, "Use relevant emojis throughout the paragraph")

	withEmojis.UseEmojis = false
	turn = BuildTurn("p", withEmojis, nil, 0, nil, "", 0)
	assert.Contains(t, turn.System, "Do not use any emojis in the text.")
}

func TestBuildTurnLanguage(t *testing.T) {
	profile := testProfile()
	profile.Locale = "ja"
	turn := BuildTurn("p", profile, nil, 0, nil, "", 0)
	assert.Contains(t, turn.System, "Language: Write in Japanese")
}

func TestBuildTurnAmbientContext(t *testing.T) {
	env := &schema.Context{
		TimeOfDay: schema.TimeEvening,
		Weather:   schema.WeatherRainy,
		Season:    schema.SeasonAutumn,
		City:      "Lisbon",
	}
	turn := BuildTurn("p", testProfile(), env, 0, nil, "", 0)

	assert.Contains(t, turn.System, "Context-aware storytelling")
	assert.Contains(t, turn.System, timeContext(schema.TimeEvening))
	assert.Contains(t, turn.System, weatherContext(schema.WeatherRainy))
	assert.Contains(t, turn.System, seasonContext(schema.SeasonAutumn))
	assert.Contains(t, turn.System, "cultural and environmental context of Lisbon")
}

func TestBuildTurnUnknownProfileDegrades(t *testing.T) {
	profile := schema.Profile{Archetype: "wizard", Mood: "chaotic", Locale: "tlh"}
	env := &schema.Context{TimeOfDay: "dusk", Weather: "hail", Season: "monsoon"}
	turn := BuildTurn("p", profile, env, 0, nil, "", 0)

	assert.Contains(t, turn.System, archetypeStyle(schema.ArchetypeExplorer))
	assert.Contains(t, turn.System, moodTone(schema.MoodNeutral))
	assert.Contains(t, turn.System, timeContext(schema.TimeAfternoon))
	assert.Contains(t, turn.System, weatherContext(schema.WeatherUnknown))
	assert.Contains(t, turn.System, seasonContext(schema.SeasonSummer))
	assert.Contains(t, turn.System, "Language: Write in English")
}

func TestJoinParagraphsBudgetDropsOldestFirst(t *testing.T) {
	old := strings.Repeat("old words here ", 100)
	recent := "the recent paragraph"

	joined := joinParagraphs([]string{old, recent}, 10)
	assert.Equal(t, recent, joined)

	// Without a budget everything is kept.
	joined = joinParagraphs([]string{old, recent}, 0)
	assert.Equal(t, old+"\n\n"+recent, joined)
}

func TestJoinParagraphsKeepsMostRecentEvenOverBudget(t *testing.T) {
	big := strings.Repeat("many many words ", 200)
	joined := joinParagraphs([]string{"small", big}, 1)
	assert.Equal(t, big, joined)
}
