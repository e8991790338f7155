package schema

import "time"

// Archetype is the reader-personality category used to bias generation style.
type Archetype string

const (
	ArchetypeExplorer    Archetype = "explorer"
	ArchetypePhilosopher Archetype = "philosopher"
	ArchetypeSurvivor    Archetype = "survivor"
	ArchetypeCaregiver   Archetype = "caregiver"
)

// Archetypes lists every archetype in quiz-scoring order. Ties between quiz
// answers resolve to the earliest entry.
var Archetypes = []Archetype{
	ArchetypeExplorer,
	ArchetypePhilosopher,
	ArchetypeSurvivor,
	ArchetypeCaregiver,
}

// Mood tints the tone of a generated paragraph.
type Mood string

const (
	MoodNeutral Mood = "neutral"
	MoodHappy   Mood = "happy"
	MoodSad     Mood = "sad"
	MoodExcited Mood = "excited"
	MoodRelaxed Mood = "relaxed"
)

// Profile carries everything the request builder needs to personalize a turn.
// Zero values degrade to defaults rather than failing.
type Profile struct {
	Archetype Archetype `json:"archetype"`
	Mood      Mood      `json:"mood"`
	UseEmojis bool      `json:"use_emojis"`
	Locale    string    `json:"locale"`
}

func DefaultProfile() Profile {
	return Profile{
		Archetype: ArchetypeExplorer,
		Mood:      MoodNeutral,
		UseEmojis: true,
		Locale:    "en",
	}
}

// Storyline is the originating premise of a session; immutable once chosen.
type Storyline struct {
	Title  string `json:"title"`
	Prompt string `json:"prompt"`
}

// TimeOfDay buckets the local clock for context-aware prompts.
type TimeOfDay string

const (
	TimeMorning   TimeOfDay = "morning"
	TimeAfternoon TimeOfDay = "afternoon"
	TimeEvening   TimeOfDay = "evening"
	TimeNight     TimeOfDay = "night"
)

type Weather string

const (
	WeatherSunny   Weather = "sunny"
	WeatherCloudy  Weather = "cloudy"
	WeatherRainy   Weather = "rainy"
	WeatherSnowy   Weather = "snowy"
	WeatherStormy  Weather = "stormy"
	WeatherUnknown Weather = "unknown"
)

type Season string

const (
	SeasonSpring Season = "spring"
	SeasonSummer Season = "summer"
	SeasonAutumn Season = "autumn"
	SeasonWinter Season = "winter"
)

// Context holds the environmental signals folded into a generation request.
type Context struct {
	TimeOfDay TimeOfDay `json:"time_of_day"`
	Weather   Weather   `json:"weather"`
	Season    Season    `json:"season"`
	City      string    `json:"city,omitempty"`
}

// SavedStory is one entry in the persisted story collection. Saves are keyed
// by title: a save with an existing title replaces content and date in place.
type SavedStory struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   []string  `json:"content"`
	Archetype Archetype `json:"archetype"`
	Date      time.Time `json:"date"`
}

// WordMeaning is one dictionary lookup kept in the word history.
type WordMeaning struct {
	Word       string    `json:"word"`
	Meaning    string    `json:"meaning"`
	Language   string    `json:"language"`
	LookedUpAt time.Time `json:"looked_up_at"`
}

type Flashcard struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}
