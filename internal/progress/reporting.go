package progress

import (
	"database/sql"
	"errors"
	"math"
	"sort"
	"time"

	"github.com/example/lingua/internal/database"
	"github.com/example/lingua/pkg/models"
)

// ModuleSummary is one module's row in the progress summary
type ModuleSummary struct {
	Module               string     `json:"module"`
	Score                *float64   `json:"score"`
	TotalAttempts        int        `json:"total_attempts"`
	CorrectAttempts      int        `json:"correct_attempts"`
	LastActivity         *time.Time `json:"last_activity"`
	MeetsThreshold       bool       `json:"meets_threshold"`
	MeetsMinimumAttempts bool       `json:"meets_minimum_attempts"`
}

// ConversationEngagement summarizes conversation practice volume
type ConversationEngagement struct {
	TotalMessages  int  `json:"total_messages"`
	MeetsThreshold bool `json:"meets_threshold"`
}

// Summary is the full progress dashboard payload
type Summary struct {
	CurrentLevel           string                 `json:"current_level"`
	NextLevel              *string                `json:"next_level"`
	CanAdvance             bool                   `json:"can_advance"`
	AdvancementReason      *string                `json:"advancement_reason"`
	OverallProgress        float64                `json:"overall_progress"`
	WeightedScore          float64                `json:"weighted_score"`
	Modules                []ModuleSummary        `json:"modules"`
	ConversationEngagement ConversationEngagement `json:"conversation_engagement"`
	TimeAtCurrentLevel     int                    `json:"time_at_current_level"`
	TotalXP                int                    `json:"total_xp"`
}

// Summary builds the progress dashboard for a user
func (e *Engine) Summary(userID string) (*Summary, error) {
	user, err := e.users.GetByID(database.DB, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	elig, err := e.Eligibility(userID)
	if err != nil {
		return nil, err
	}

	modules := make([]ModuleSummary, 0, len(ScoredModules))
	for _, module := range ScoredModules {
		prog, err := e.progress.GetByUserAndModule(database.DB, userID, module)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}

		if prog == nil {
			modules = append(modules, ModuleSummary{Module: module})
			continue
		}

		score := 0.0
		if prog.Score != nil {
			score = *prog.Score
		}
		modules = append(modules, ModuleSummary{
			Module:               module,
			Score:                &score,
			TotalAttempts:        prog.TotalAttempts,
			CorrectAttempts:      prog.CorrectAttempts,
			LastActivity:         prog.LastActivityAt,
			MeetsThreshold:       score >= ScoreThreshold,
			MeetsMinimumAttempts: prog.TotalAttempts >= MinimumAttempts,
		})
	}

	scores := make(map[string]*float64, len(ScoredModules))
	readyCount := 0
	for module, status := range elig.Modules {
		scores[module] = status.Score
		if status.Ready {
			readyCount++
		}
	}
	if elig.ConversationReady {
		readyCount++
	}

	// Four scored modules plus conversation
	overallProgress := float64(readyCount) / 5.0 * 100

	daysAtLevel := 0
	if user.LevelStartedAt != nil {
		daysAtLevel = int(e.now().Sub(*user.LevelStartedAt).Hours() / 24)
	}

	currentLevel := user.Level
	if currentLevel == "" {
		currentLevel = "A1"
	}
	var nextLevel *string
	if next, ok := NextLevel(user.Level); ok {
		nextLevel = &next
	}

	return &Summary{
		CurrentLevel:      currentLevel,
		NextLevel:         nextLevel,
		CanAdvance:        elig.Eligible,
		AdvancementReason: elig.Reason,
		OverallProgress:   overallProgress,
		WeightedScore:     WeightedScore(scores),
		Modules:           modules,
		ConversationEngagement: ConversationEngagement{
			TotalMessages:  elig.ConversationMessages,
			MeetsThreshold: elig.ConversationReady,
		},
		TimeAtCurrentLevel: daysAtLevel,
		TotalXP:            user.TotalXP,
	}, nil
}

// HistoryScores are the archived per-module results of a completed level
type HistoryScores struct {
	Vocabulary           *float64 `json:"vocabulary"`
	Grammar              *float64 `json:"grammar"`
	Writing              *float64 `json:"writing"`
	Phonetics            *float64 `json:"phonetics"`
	ConversationMessages int      `json:"conversation_messages"`
}

// HistoryItem is one completed level in the user's progression
type HistoryItem struct {
	Level         string        `json:"level"`
	StartedAt     time.Time     `json:"started_at"`
	CompletedAt   time.Time     `json:"completed_at"`
	DaysAtLevel   int           `json:"days_at_level"`
	WeightedScore float64       `json:"weighted_score"`
	Scores        HistoryScores `json:"scores"`
}

// History returns completed levels, most recent first
func (e *Engine) History(userID string) ([]HistoryItem, error) {
	records, err := e.history.GetForUser(database.DB, userID)
	if err != nil {
		return nil, err
	}

	items := make([]HistoryItem, 0, len(records))
	for i := range records {
		record := &records[i]
		items = append(items, HistoryItem{
			Level:         record.Level,
			StartedAt:     record.StartedAt,
			CompletedAt:   record.CompletedAt,
			DaysAtLevel:   record.DaysAtLevel,
			WeightedScore: record.WeightedScore,
			Scores: HistoryScores{
				Vocabulary:           record.VocabularyScore,
				Grammar:              record.GrammarScore,
				Writing:              record.WritingScore,
				Phonetics:            record.PhoneticsScore,
				ConversationMessages: record.ConversationMessages,
			},
		})
	}
	return items, nil
}

// ActivityOverTime is daily activity counts per module for charting
type ActivityOverTime struct {
	Dates        []string `json:"dates"`
	Vocabulary   []int    `json:"vocabulary"`
	Grammar      []int    `json:"grammar"`
	Writing      []int    `json:"writing"`
	Phonetics    []int    `json:"phonetics"`
	Conversation []int    `json:"conversation"`
}

// ModuleScoresChart pairs module labels with their current scores
type ModuleScoresChart struct {
	Modules []string  `json:"modules"`
	Scores  []float64 `json:"scores"`
}

// LevelProgression traces weighted scores across completed levels
type LevelProgression struct {
	Levels []string  `json:"levels"`
	Scores []float64 `json:"scores"`
	Dates  []string  `json:"dates"`
}

// ChartsData is the chart-ready view of a user's progress
type ChartsData struct {
	ActivityOverTime ActivityOverTime  `json:"activity_over_time"`
	ModuleScores     ModuleScoresChart `json:"module_scores"`
	LevelProgression LevelProgression  `json:"level_progression"`
}

// Charts assembles chart-ready datasets: the last 30 days of activity,
// current module scores, and the level progression curve
func (e *Engine) Charts(userID string) (*ChartsData, error) {
	user, err := e.users.GetByID(database.DB, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	now := e.now()

	activity, err := e.activityOverTime(userID, now)
	if err != nil {
		return nil, err
	}

	allProgress, err := e.progress.GetAllForUser(database.DB, userID)
	if err != nil {
		return nil, err
	}

	moduleScores := ModuleScoresChart{Modules: []string{}, Scores: []float64{}}
	for i := range allProgress {
		if allProgress[i].Score == nil {
			continue
		}
		moduleScores.Modules = append(moduleScores.Modules, titleCase(allProgress[i].Module))
		moduleScores.Scores = append(moduleScores.Scores, round1(*allProgress[i].Score))
	}

	records, err := e.history.GetForUserChronological(database.DB, userID)
	if err != nil {
		return nil, err
	}

	progression := LevelProgression{Levels: []string{}, Scores: []float64{}, Dates: []string{}}
	for i := range records {
		progression.Levels = append(progression.Levels, records[i].Level)
		progression.Scores = append(progression.Scores, round1(records[i].WeightedScore))
		progression.Dates = append(progression.Dates, records[i].CompletedAt.Format("2006-01-02"))
	}

	if user.Level != "" {
		// The running level appears as the last point, averaged over
		// whatever scores exist so far
		var sum float64
		var count int
		for i := range allProgress {
			if allProgress[i].Score != nil {
				sum += *allProgress[i].Score
				count++
			}
		}
		current := 0.0
		if count > 0 {
			current = sum / float64(count)
		}

		label := user.Level
		if len(records) > 0 {
			label = user.Level + " (Current)"
		}
		date := now
		if user.LevelStartedAt != nil {
			date = *user.LevelStartedAt
		}

		progression.Levels = append(progression.Levels, label)
		progression.Scores = append(progression.Scores, round1(current))
		progression.Dates = append(progression.Dates, date.Format("2006-01-02"))
	}

	return &ChartsData{
		ActivityOverTime: *activity,
		ModuleScores:     moduleScores,
		LevelProgression: progression,
	}, nil
}

func (e *Engine) activityOverTime(userID string, now time.Time) (*ActivityOverTime, error) {
	entries, err := e.activity.GetSince(database.DB, userID, now.AddDate(0, 0, -30))
	if err != nil {
		return nil, err
	}

	byDate := make(map[string]map[string]int)
	for i := range entries {
		date := entries[i].CreatedAt.Format("2006-01-02")
		if byDate[date] == nil {
			byDate[date] = make(map[string]int)
		}
		byDate[date][entries[i].Module]++
	}

	dates := make([]string, 0, len(byDate))
	for date := range byDate {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	chart := &ActivityOverTime{
		Dates:        dates,
		Vocabulary:   make([]int, len(dates)),
		Grammar:      make([]int, len(dates)),
		Writing:      make([]int, len(dates)),
		Phonetics:    make([]int, len(dates)),
		Conversation: make([]int, len(dates)),
	}
	for i, date := range dates {
		chart.Vocabulary[i] = byDate[date][models.ModuleVocabulary]
		chart.Grammar[i] = byDate[date][models.ModuleGrammar]
		chart.Writing[i] = byDate[date][models.ModuleWriting]
		chart.Phonetics[i] = byDate[date][models.ModulePhonetics]
		chart.Conversation[i] = byDate[date][models.ModuleConversation]
	}
	return chart, nil
}

// ModuleDetail is the drill-down view of one module
type ModuleDetail struct {
	Module          string     `json:"module"`
	CurrentScore    *float64   `json:"current_score"`
	TotalAttempts   int        `json:"total_attempts"`
	CorrectAttempts int        `json:"correct_attempts"`
	LastActivity    *time.Time `json:"last_activity,omitempty"`
	Message         string     `json:"message,omitempty"`
}

// ModuleDetail returns progress for one module by name
func (e *Engine) ModuleDetail(userID, module string) (*ModuleDetail, error) {
	if !isValidModule(module) {
		return nil, ErrInvalidModule
	}

	prog, err := e.progress.GetByUserAndModule(database.DB, userID, module)
	if errors.Is(err, sql.ErrNoRows) {
		return &ModuleDetail{
			Module:  module,
			Message: "No activity in this module yet",
		}, nil
	}
	if err != nil {
		return nil, err
	}

	return &ModuleDetail{
		Module:          module,
		CurrentScore:    prog.Score,
		TotalAttempts:   prog.TotalAttempts,
		CorrectAttempts: prog.CorrectAttempts,
		LastActivity:    prog.LastActivityAt,
	}, nil
}

func isValidModule(module string) bool {
	switch module {
	case models.ModuleVocabulary, models.ModuleGrammar, models.ModuleWriting,
		models.ModulePhonetics, models.ModuleConversation:
		return true
	}
	return false
}

func round1(x float64) float64 {
	return math.RoundToEven(x*10) / 10
}
