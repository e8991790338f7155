package story

import "fable/pkg/schema"

// QuizQuestion is one personality question; each answer credits an archetype.
type QuizQuestion struct {
	Question string   `json:"question"`
	Options  []Answer `json:"options"`
}

type Answer struct {
	Text      string           `json:"text"`
	Archetype schema.Archetype `json:"archetype"`
}

// QuizQuestions is the fixed five-question personality quiz.
var QuizQuestions = []QuizQuestion{
	{
		Question: "How do you prefer stories to end?",
		Options: []Answer{
			{Text: "🟡 With a sense of hope or adventure", Archetype: schema.ArchetypeExplorer},
			{Text: "⚫ Ambiguous and open to interpretation", Archetype: schema.ArchetypePhilosopher},
			{Text: "🔴 Realistic or even tragic, as long as it's honest", Archetype: schema.ArchetypeSurvivor},
			{Text: "🟢 Uplifting and emotionally satisfying", Archetype: schema.ArchetypeCaregiver},
		},
	},
	{
		Question: "Which word best describes how you process the world?",
		Options: []Answer{
			{Text: "🌈 Wonder", Archetype: schema.ArchetypeExplorer},
			{Text: "🔍 Reflection", Archetype: schema.ArchetypePhilosopher},
			{Text: "🔥 Survival", Archetype: schema.ArchetypeSurvivor},
			{Text: "💞 Connection", Archetype: schema.ArchetypeCaregiver},
		},
	},
	{
		Question: "Choose a setting you'd enjoy reading about:",
		Options: []Answer{
			{Text: "🚀 A crew exploring alien ruins", Archetype: schema.ArchetypeExplorer},
			{Text: "⛩️ A lone monk in a misty temple", Archetype: schema.ArchetypePhilosopher},
			{Text: "🏚️ A refugee escaping a war zone", Archetype: schema.ArchetypeSurvivor},
			{Text: "🏡 A nurse caring for a remote village", Archetype: schema.ArchetypeCaregiver},
		},
	},
	{
		Question: "How do you feel about emotional intensity in stories?",
		Options: []Answer{
			{Text: "🟢 Some is good, but I prefer action or ideas", Archetype: schema.ArchetypeExplorer},
			{Text: "⚫ I want deep emotion, but expressed subtly", Archetype: schema.ArchetypePhilosopher},
			{Text: "🔴 Give me raw, painful honesty", Archetype: schema.ArchetypeSurvivor},
			{Text: "💗 I want warmth, connection, and healing", Archetype: schema.ArchetypeCaregiver},
		},
	},
	{
		Question: "What kind of language do you prefer in books?",
		Options: []Answer{
			{Text: "✈️ Simple, energetic, quick to read", Archetype: schema.ArchetypeExplorer},
			{Text: "🌌 Rich metaphors and layered prose", Archetype: schema.ArchetypePhilosopher},
			{Text: "🪨 Minimalist, punchy, brutally clear", Archetype: schema.ArchetypeSurvivor},
			{Text: "🍃 Flowing, kind, and emotionally nuanced", Archetype: schema.ArchetypeCaregiver},
		},
	},
}

// ScoreQuiz derives an archetype by plurality vote across the answers. Ties
// resolve to the earliest archetype in schema.Archetypes. Unrecognized
// answers are ignored; an empty vote defaults to explorer.
func ScoreQuiz(answers []schema.Archetype) schema.Archetype {
	scores := make(map[schema.Archetype]int, len(schema.Archetypes))
	known := make(map[schema.Archetype]bool, len(schema.Archetypes))
	for _, a := range schema.Archetypes {
		known[a] = true
	}
	for _, a := range answers {
		if known[a] {
			scores[a]++
		}
	}

	best := schema.ArchetypeExplorer
	bestScore := -1
	for _, a := range schema.Archetypes {
		if scores[a] > bestScore {
			best, bestScore = a, scores[a]
		}
	}
	return best
}
