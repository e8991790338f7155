package story

import (
	"strings"

	"fable/pkg/schema"
)

// StorylinesByArchetype is the starter catalog shown per reader archetype.
var StorylinesByArchetype = map[schema.Archetype][]schema.Storyline{
	schema.ArchetypeExplorer: {
		{Title: "Lost City of Atlantis", Prompt: "An archaeologist discovers an ancient map leading to the lost city of Atlantis, but the journey reveals secrets that could change history forever."},
		{Title: "Space Colony Exodus", Prompt: "A group of pioneers leaves Earth to establish humanity's first interstellar colony, facing unknown dangers in deep space."},
		{Title: "Time Traveler's Dilemma", Prompt: "A scientist accidentally travels back to medieval times and must decide whether to change history or preserve the timeline."},
		{Title: "Dragon Rider Academy", Prompt: "A young orphan discovers they have the rare ability to bond with dragons and enters a secret academy to become a dragon rider."},
	},
	schema.ArchetypePhilosopher: {
		{Title: "The Mirror of Truth", Prompt: "A philosopher discovers a mirror that shows not reflections, but the true nature of reality, forcing them to question everything they know."},
		{Title: "Dreams of the Collective", Prompt: "In a world where everyone shares the same dreams, one person begins to have different dreams, leading to a philosophical awakening."},
		{Title: "The Last Library", Prompt: "In a post-apocalyptic world, a librarian guards the last repository of human knowledge, but must decide what to preserve and what to let go."},
		{Title: "Consciousness Transfer", Prompt: "A dying scientist transfers their consciousness into a computer, but discovers that digital existence raises profound questions about what it means to be human."},
	},
	schema.ArchetypeSurvivor: {
		{Title: "Nuclear Winter", Prompt: "After a nuclear war, a mother and her child must navigate a frozen wasteland to find the last safe haven, facing both human and environmental threats."},
		{Title: "Prison Break", Prompt: "A wrongfully convicted prisoner plans an elaborate escape from a maximum-security facility, but the plan goes awry when they discover a conspiracy."},
		{Title: "Zombie Apocalypse", Prompt: "A former soldier must protect a group of survivors in a world overrun by the undead, while dealing with their own traumatic past."},
		{Title: "Economic Collapse", Prompt: "When the global economy collapses, a family must adapt to a world where money is worthless and survival depends on skills and community."},
	},
	schema.ArchetypeCaregiver: {
		{Title: "The Healing Garden", Prompt: "A nurse discovers a magical garden where plants can heal any ailment, but must protect it from those who would exploit its power."},
		{Title: "Foster Family Bonds", Prompt: "A social worker takes in a troubled child with mysterious abilities, and together they learn what it means to be a real family."},
		{Title: "Animal Sanctuary", Prompt: "A veterinarian inherits a failing animal sanctuary and must find a way to save both the animals and the community that depends on it."},
		{Title: "Memory Care", Prompt: "A daughter caring for her mother with Alzheimer's discovers a way to preserve precious memories, but at what cost?"},
	},
}

// DefaultStorylines is shown when no archetype is set yet.
var DefaultStorylines = []schema.Storyline{
	{Title: "Mystery Manor", Prompt: "A detective investigates strange occurrences in an old mansion, uncovering secrets that have been hidden for generations."},
	{Title: "Cyberpunk Dreams", Prompt: "In a neon-lit future, a hacker discovers a conspiracy that could change the digital world forever."},
	{Title: "Fantasy Quest", Prompt: "A young hero embarks on a quest to save their village from an ancient evil, discovering their true destiny along the way."},
	{Title: "Romance in Paris", Prompt: "Two strangers meet in Paris and fall in love, but their different backgrounds threaten to tear them apart."},
}

// Starters returns the catalog for an archetype, or the defaults when the
// archetype is unknown or unset.
func Starters(a schema.Archetype) []schema.Storyline {
	if lines, ok := StorylinesByArchetype[a]; ok {
		return lines
	}
	return DefaultStorylines
}

// CustomStoryline titles a free-form premise from its first three words.
func CustomStoryline(prompt string) schema.Storyline {
	prompt = strings.TrimSpace(prompt)
	words := strings.Fields(prompt)
	title := strings.Join(words, " ")
	if len(words) > 3 {
		title = strings.Join(words[:3], " ") + "..."
	}
	return schema.Storyline{Title: title, Prompt: prompt}
}
