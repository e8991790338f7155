package story

import "fable/pkg/schema"

// Style directive tables. Every lookup degrades to a designated default
// bucket; malformed profile input can never fail a turn.

var archetypeStyles = map[schema.Archetype]string{
	schema.ArchetypeExplorer:    "Write in an adventurous, discovery-focused style with vivid descriptions and exciting action.",
	schema.ArchetypePhilosopher: "Write with deep introspection, philosophical themes, and contemplative prose that makes readers think.",
	schema.ArchetypeSurvivor:    "Write with raw honesty, gritty realism, and emotional intensity that captures the struggle of survival.",
	schema.ArchetypeCaregiver:   "Write with warmth, empathy, and emotional depth, focusing on relationships and healing.",
}

var moodTones = map[schema.Mood]string{
	schema.MoodNeutral: "Maintain a balanced, neutral mood.",
	schema.MoodHappy:   "Make the story feel happy, uplifting, and positive.",
	schema.MoodSad:     "Give the story a sad, emotional, or bittersweet tone.",
	schema.MoodExcited: "Make the story energetic, thrilling, and full of excitement.",
	schema.MoodRelaxed: "Give the story a calm, peaceful, and relaxing mood.",
}

var timeContexts = map[schema.TimeOfDay]string{
	schema.TimeMorning:   "Create an energizing, optimistic tone perfect for starting the day.",
	schema.TimeAfternoon: "Use a balanced, engaging tone suitable for midday focus.",
	schema.TimeEvening:   "Craft a reflective, calming tone perfect for winding down.",
	schema.TimeNight:     "Write with a contemplative, peaceful tone suitable for late hours.",
}

var weatherContexts = map[schema.Weather]string{
	schema.WeatherSunny:   "Include bright, uplifting elements and outdoor scenes.",
	schema.WeatherCloudy:  "Use a balanced tone with moments of both brightness and reflection.",
	schema.WeatherRainy:   "Incorporate cozy, indoor elements and contemplative moments.",
	schema.WeatherSnowy:   "Include magical, peaceful elements and winter wonder.",
	schema.WeatherStormy:  "Use dramatic elements but balance with moments of calm.",
	schema.WeatherUnknown: "Maintain a neutral, adaptable tone.",
}

var seasonContexts = map[schema.Season]string{
	schema.SeasonSpring: "Include themes of renewal, growth, and new beginnings.",
	schema.SeasonSummer: "Incorporate warmth, adventure, and vibrant energy.",
	schema.SeasonAutumn: "Use themes of change, reflection, and cozy moments.",
	schema.SeasonWinter: "Include elements of magic, warmth, and peaceful contemplation.",
}

// Option-generation focus per archetype; shorter than the story styles.
var archetypeOptionFocus = map[schema.Archetype]string{
	schema.ArchetypeExplorer:    "Focus on adventure, discovery, and exciting new developments.",
	schema.ArchetypePhilosopher: "Emphasize deep thinking, moral dilemmas, and philosophical themes.",
	schema.ArchetypeSurvivor:    "Highlight challenges, resilience, and survival instincts.",
	schema.ArchetypeCaregiver:   "Focus on relationships, healing, and emotional connections.",
}

func archetypeStyle(a schema.Archetype) string {
	if s, ok := archetypeStyles[a]; ok {
		return s
	}
	return archetypeStyles[schema.ArchetypeExplorer]
}

func moodTone(m schema.Mood) string {
	if s, ok := moodTones[m]; ok {
		return s
	}
	return moodTones[schema.MoodNeutral]
}

func timeContext(t schema.TimeOfDay) string {
	if s, ok := timeContexts[t]; ok {
		return s
	}
	return timeContexts[schema.TimeAfternoon]
}

func weatherContext(w schema.Weather) string {
	if s, ok := weatherContexts[w]; ok {
		return s
	}
	return weatherContexts[schema.WeatherUnknown]
}

func seasonContext(s schema.Season) string {
	if v, ok := seasonContexts[s]; ok {
		return v
	}
	return seasonContexts[schema.SeasonSummer]
}

func optionFocus(a schema.Archetype) string {
	if s, ok := archetypeOptionFocus[a]; ok {
		return s
	}
	return archetypeOptionFocus[schema.ArchetypeExplorer]
}
