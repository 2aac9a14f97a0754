package exercise

// WritingPrompt is one leveled composition prompt
type WritingPrompt struct {
	Title    string   `json:"title"`
	Prompt   string   `json:"prompt"`
	Keywords []string `json:"keywords"`
}

var writingPrompts = map[string][]WritingPrompt{
	"A1": {
		{
			Title:    "My Daily Routine",
			Prompt:   "Describe your typical day. What time do you wake up? What do you eat for breakfast? What do you do in the evening?",
			Keywords: []string{"wake up", "breakfast", "work", "evening", "sleep"},
		},
		{
			Title:    "My Family",
			Prompt:   "Write about your family. Who are the members of your family? What do they do? What do they look like?",
			Keywords: []string{"mother", "father", "brother", "sister", "family"},
		},
		{
			Title:    "My Favorite Food",
			Prompt:   "What is your favorite food? Describe it. Why do you like it? When do you usually eat it?",
			Keywords: []string{"food", "eat", "like", "delicious", "favorite"},
		},
	},
	"A2": {
		{
			Title:    "A Memorable Trip",
			Prompt:   "Write about a trip you took. Where did you go? What did you see? What was the most interesting thing you did?",
			Keywords: []string{"trip", "travel", "visit", "interesting", "remember"},
		},
		{
			Title:    "My Hometown",
			Prompt:   "Describe your hometown or city. What is it famous for? What do you like or dislike about it? Would you recommend it to visitors?",
			Keywords: []string{"hometown", "city", "famous", "like", "recommend"},
		},
		{
			Title:    "Learning a Language",
			Prompt:   "Why are you learning this language? What do you find easy or difficult? How do you practice?",
			Keywords: []string{"learn", "language", "difficult", "practice", "study"},
		},
	},
	"B1": {
		{
			Title:    "Environmental Concerns",
			Prompt:   "What environmental issues concern you most? What can individuals do to help protect the environment? What changes have you made in your life?",
			Keywords: []string{"environment", "pollution", "recycle", "climate", "protect"},
		},
		{
			Title:    "The Impact of Social Media",
			Prompt:   "How has social media changed the way we communicate? What are the advantages and disadvantages? How do you use it?",
			Keywords: []string{"social media", "communication", "advantages", "disadvantages", "connect"},
		},
		{
			Title:    "An Inspirational Person",
			Prompt:   "Write about someone who has inspired you. Who are they? What have they achieved? Why do you admire them?",
			Keywords: []string{"inspire", "admire", "achieve", "influence", "respect"},
		},
	},
	"B2": {
		{
			Title:    "The Future of Education",
			Prompt:   "How do you think education will change in the next 20 years? What role will technology play? What traditional methods should be preserved?",
			Keywords: []string{"education", "future", "technology", "traditional", "change"},
		},
		{
			Title:    "Ethics of Artificial Intelligence",
			Prompt:   "As AI becomes more prevalent, what ethical concerns should we address? How can we ensure AI benefits society? What regulations might be needed?",
			Keywords: []string{"artificial intelligence", "ethics", "society", "regulation", "benefit"},
		},
		{
			Title:    "The Power of Habit",
			Prompt:   "How do habits shape our lives? Describe a habit you've successfully changed or developed. What strategies worked for you?",
			Keywords: []string{"habit", "change", "develop", "strategy", "routine"},
		},
	},
	"C1": {
		{
			Title:    "The Paradox of Choice",
			Prompt:   "In modern society, we have unprecedented choice in nearly every aspect of life. Analyze whether having more choices leads to greater satisfaction or increased anxiety. How do you navigate decision-making in your own life?",
			Keywords: []string{"choice", "paradox", "satisfaction", "anxiety", "decision"},
		},
		{
			Title:    "Preserving Languages and Cultures",
			Prompt:   "With globalization, many minority languages face extinction. Examine the tension between global communication and cultural preservation. What is lost when a language disappears? What solutions exist?",
			Keywords: []string{"language", "preservation", "globalization", "culture", "extinction"},
		},
		{
			Title:    "Privacy in the Digital Age",
			Prompt:   "Analyze the tradeoffs between convenience and privacy in our digital lives. Are we too willing to surrender personal data? What are the long-term implications for society?",
			Keywords: []string{"privacy", "digital", "data", "surveillance", "security"},
		},
	},
	"C2": {
		{
			Title:    "The Epistemology of Expertise",
			Prompt:   "In an era of information abundance and widespread misinformation, how should we evaluate expertise and authority? Analyze the relationship between specialized knowledge, public trust, and democratic decision-making. What frameworks might help us navigate this complexity?",
			Keywords: []string{"epistemology", "expertise", "authority", "knowledge", "trust"},
		},
		{
			Title:    "Consciousness and Artificial Intelligence",
			Prompt:   "As AI systems become more sophisticated, questions about machine consciousness gain urgency. Examine the philosophical and practical implications of potentially conscious AI. What criteria would we use to recognize machine consciousness? What ethical obligations might we have?",
			Keywords: []string{"consciousness", "AI", "philosophy", "ethics", "sentience"},
		},
		{
			Title:    "The Economics of Attention",
			Prompt:   "Analyze how the commodification of attention has reshaped media, politics, and social interaction. What are the second and third-order effects of designing systems to maximize engagement? How might we create more sustainable attention economies?",
			Keywords: []string{"attention", "economics", "media", "engagement", "commodification"},
		},
	},
}

// promptsForLevel returns the prompt bank for a CEFR level, defaulting to
// A1 when the level is unknown
func promptsForLevel(level string) []WritingPrompt {
	if prompts, ok := writingPrompts[level]; ok {
		return prompts
	}
	return writingPrompts["A1"]
}
