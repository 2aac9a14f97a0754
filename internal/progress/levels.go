package progress

import "github.com/example/lingua/pkg/models"

// LevelOrder is the CEFR progression from beginner to mastery
var LevelOrder = []string{"A1", "A2", "B1", "B2", "C1", "C2"}

const (
	// ScoreThreshold is the minimum module score required to advance
	ScoreThreshold = 85.0
	// MinimumAttempts is the minimum exercise count per scored module
	MinimumAttempts = 10
	// ConversationMinimum is the minimum number of sent conversation messages
	ConversationMinimum = 20
	// DefaultXPReward is granted when a level has no explicit reward entry
	DefaultXPReward = 100
)

// XPRewards maps the completed level to the XP granted for finishing it
var XPRewards = map[string]int{
	"A1": 100,
	"A2": 200,
	"B1": 300,
	"B2": 400,
	"C1": 500,
	"C2": 1000,
}

// ScoredModules carry a percentage score, unlike conversation which only
// counts engagement
var ScoredModules = []string{
	models.ModuleVocabulary,
	models.ModuleGrammar,
	models.ModuleWriting,
	models.ModulePhonetics,
}

// Weights of each scored module in the overall weighted score
const (
	WeightVocabulary = 0.30
	WeightGrammar    = 0.30
	WeightWriting    = 0.20
	WeightPhonetics  = 0.20
)

// NextLevel returns the level after current. Unknown or unset levels start
// over at A1. The second return is false only at the top of the ladder.
func NextLevel(current string) (string, bool) {
	index := -1
	for i, level := range LevelOrder {
		if level == current {
			index = i
			break
		}
	}
	if index == -1 {
		return LevelOrder[0], true
	}
	if index == len(LevelOrder)-1 {
		return "", false
	}
	return LevelOrder[index+1], true
}

// ValidLevel reports whether level is one of the six CEFR levels
func ValidLevel(level string) bool {
	for _, known := range LevelOrder {
		if level == known {
			return true
		}
	}
	return false
}

// XPRewardFor returns the XP granted for completing the given level
func XPRewardFor(level string) int {
	if xp, ok := XPRewards[level]; ok {
		return xp
	}
	return DefaultXPReward
}

// WeightedScore combines module scores with their weights, treating
// missing scores as zero
func WeightedScore(scores map[string]*float64) float64 {
	value := func(module string) float64 {
		if s, ok := scores[module]; ok && s != nil {
			return *s
		}
		return 0.0
	}
	return value(models.ModuleVocabulary)*WeightVocabulary +
		value(models.ModuleGrammar)*WeightGrammar +
		value(models.ModuleWriting)*WeightWriting +
		value(models.ModulePhonetics)*WeightPhonetics
}
