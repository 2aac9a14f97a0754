package achievements

import (
	"time"

	"github.com/example/lingua/pkg/models"
)

// Catalog returns the built-in badge set, seeded into the database at startup
func Catalog(now time.Time) []models.Achievement {
	badges := []models.Achievement{
		// Vocabulary
		{
			Code:              "first_word",
			Name:              "First Word",
			Description:       "Complete your first vocabulary flashcard",
			CriteriaType:      models.CriteriaCount,
			CriteriaThreshold: 1,
			CriteriaModule:    models.ModuleVocabulary,
			XPReward:          10,
			Tier:              "bronze",
			Icon:              "📚",
		},
		{
			Code:              "word_explorer",
			Name:              "Word Explorer",
			Description:       "Complete 10 vocabulary flashcards",
			CriteriaType:      models.CriteriaCount,
			CriteriaThreshold: 10,
			CriteriaModule:    models.ModuleVocabulary,
			XPReward:          50,
			Tier:              "bronze",
			Icon:              "🔍",
		},
		{
			Code:              "vocabulary_master",
			Name:              "Vocabulary Master",
			Description:       "Complete 100 vocabulary flashcards",
			CriteriaType:      models.CriteriaCount,
			CriteriaThreshold: 100,
			CriteriaModule:    models.ModuleVocabulary,
			XPReward:          200,
			Tier:              "gold",
			Icon:              "🏆",
		},

		// Grammar
		{
			Code:              "grammar_guru",
			Name:              "Grammar Guru",
			Description:       "Score 90% or higher on 5 grammar questions",
			CriteriaType:      models.CriteriaScore,
			CriteriaThreshold: 90,
			CriteriaModule:    models.ModuleGrammar,
			XPReward:          100,
			Tier:              "silver",
			Icon:              "📖",
		},
		{
			Code:              "grammar_perfectionist",
			Name:              "Grammar Perfectionist",
			Description:       "Get 10 grammar questions correct in a row",
			CriteriaType:      models.CriteriaCount,
			CriteriaThreshold: 10,
			CriteriaModule:    models.ModuleGrammar,
			XPReward:          150,
			Tier:              "gold",
			Icon:              "✨",
		},

		// Writing
		{
			Code:              "first_composition",
			Name:              "First Composition",
			Description:       "Submit your first writing piece",
			CriteriaType:      models.CriteriaCount,
			CriteriaThreshold: 1,
			CriteriaModule:    models.ModuleWriting,
			XPReward:          25,
			Tier:              "bronze",
			Icon:              "✍️",
		},
		{
			Code:              "prolific_writer",
			Name:              "Prolific Writer",
			Description:       "Submit 20 writing pieces",
			CriteriaType:      models.CriteriaCount,
			CriteriaThreshold: 20,
			CriteriaModule:    models.ModuleWriting,
			XPReward:          150,
			Tier:              "silver",
			Icon:              "📝",
		},

		// Conversation
		{
			Code:              "conversationalist",
			Name:              "Conversationalist",
			Description:       "Send 50 messages in conversation practice",
			CriteriaType:      models.CriteriaCount,
			CriteriaThreshold: 50,
			CriteriaModule:    models.ModuleConversation,
			XPReward:          100,
			Tier:              "silver",
			Icon:              "💬",
		},

		// Phonetics
		{
			Code:              "pronunciation_pro",
			Name:              "Pronunciation Pro",
			Description:       "Complete 10 pronunciation practices",
			CriteriaType:      models.CriteriaCount,
			CriteriaThreshold: 10,
			CriteriaModule:    models.ModulePhonetics,
			XPReward:          75,
			Tier:              "bronze",
			Icon:              "🎤",
		},

		// Level progression
		{
			Code:              "level_up",
			Name:              "Level Up!",
			Description:       "Advance to a new CEFR level",
			CriteriaType:      models.CriteriaLevelAdvance,
			CriteriaThreshold: 1,
			XPReward:          300,
			Tier:              "gold",
			Icon:              "⬆️",
		},
		{
			Code:              "rapid_learner",
			Name:              "Rapid Learner",
			Description:       "Advance 2 CEFR levels",
			CriteriaType:      models.CriteriaLevelAdvance,
			CriteriaThreshold: 2,
			XPReward:          500,
			Tier:              "platinum",
			Icon:              "🚀",
		},

		// XP milestones
		{
			Code:              "xp_collector",
			Name:              "XP Collector",
			Description:       "Earn 1000 total XP",
			CriteriaType:      models.CriteriaTotalXP,
			CriteriaThreshold: 1000,
			XPReward:          100,
			Tier:              "silver",
			Icon:              "💎",
		},
		{
			Code:              "xp_champion",
			Name:              "XP Champion",
			Description:       "Earn 5000 total XP",
			CriteriaType:      models.CriteriaTotalXP,
			CriteriaThreshold: 5000,
			XPReward:          500,
			Tier:              "platinum",
			Icon:              "👑",
		},

		// Dedication
		{
			Code:              "dedicated_learner",
			Name:              "Dedicated Learner",
			Description:       "Complete 100 activities across all modules",
			CriteriaType:      models.CriteriaCount,
			CriteriaThreshold: 100,
			CriteriaModule:    CriteriaModuleAll,
			XPReward:          250,
			Tier:              "gold",
			Icon:              "🌟",
		},
	}

	for i := range badges {
		badges[i].CreatedAt = now
	}
	return badges
}
