package achievements

import (
	"database/sql"
	"errors"
	"sort"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/example/lingua/internal/database"
	"github.com/example/lingua/pkg/models"
)

// CriteriaModuleAll matches activity across every module
const CriteriaModuleAll = "all"

// Service unlocks badges and reports badge progress
type Service struct {
	users        *database.UserRepository
	achievements *database.AchievementRepository
	progress     *database.ProgressRepository
	history      *database.LevelHistoryRepository
	activity     *database.ActivityRepository
	now          func() time.Time
}

// NewService creates an achievements service
func NewService() *Service {
	return &Service{
		users:        database.NewUserRepository(),
		achievements: database.NewAchievementRepository(),
		progress:     database.NewProgressRepository(),
		history:      database.NewLevelHistoryRepository(),
		activity:     database.NewActivityRepository(),
		now:          time.Now,
	}
}

// Seed writes the built-in catalog, skipping badges that already exist
func (s *Service) Seed() error {
	return s.achievements.SeedCatalog(database.DB, Catalog(s.now()))
}

// CheckAndUnlock grants every locked badge whose criteria the user now
// meets, awarding its XP. XP badges see the XP earned earlier in the same
// pass, so unlocks can cascade.
func (s *Service) CheckAndUnlock(userID string) ([]models.Achievement, error) {
	user, err := s.users.GetByID(database.DB, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	all, err := s.achievements.GetAll(database.DB)
	if err != nil {
		return nil, err
	}

	unlocked, err := s.achievements.GetUserAchievements(database.DB, userID)
	if err != nil {
		return nil, err
	}
	unlockedIDs := make(map[string]bool, len(unlocked))
	for i := range unlocked {
		unlockedIDs[unlocked[i].AchievementID] = true
	}

	runningXP := user.TotalXP
	var newlyUnlocked []models.Achievement

	for i := range all {
		badge := all[i]
		if unlockedIDs[badge.ID] {
			continue
		}

		met, err := s.meetsCriteria(database.DB, user, &badge, runningXP)
		if err != nil {
			return nil, err
		}
		if !met {
			continue
		}

		inserted, err := s.achievements.Unlock(database.DB, &models.UserAchievement{
			UserID:        userID,
			AchievementID: badge.ID,
			UnlockedAt:    s.now(),
		})
		if err != nil {
			return nil, err
		}
		if !inserted {
			continue
		}

		if err := s.users.AddXP(database.DB, userID, badge.XPReward); err != nil {
			return nil, err
		}
		runningXP += badge.XPReward
		newlyUnlocked = append(newlyUnlocked, badge)
	}

	return newlyUnlocked, nil
}

func (s *Service) meetsCriteria(q sqlx.Ext, user *models.User, badge *models.Achievement, totalXP int) (bool, error) {
	switch badge.CriteriaType {
	case models.CriteriaCount:
		current, err := s.countValue(q, user.ID, badge.CriteriaModule)
		if err != nil {
			return false, err
		}
		return current >= badge.CriteriaThreshold, nil

	case models.CriteriaScore:
		if badge.CriteriaModule == "" {
			return false, nil
		}
		prog, err := s.progress.GetByUserAndModule(q, user.ID, badge.CriteriaModule)
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		return prog.Score != nil && *prog.Score >= float64(badge.CriteriaThreshold), nil

	case models.CriteriaLevelAdvance:
		count, err := s.history.CountForUser(q, user.ID)
		if err != nil {
			return false, err
		}
		return count >= badge.CriteriaThreshold, nil

	case models.CriteriaTotalXP:
		return totalXP >= badge.CriteriaThreshold, nil
	}

	return false, nil
}

func (s *Service) countValue(q sqlx.Ext, userID, module string) (int, error) {
	if module == CriteriaModuleAll {
		return s.activity.CountForUser(q, userID)
	}
	prog, err := s.progress.GetByUserAndModule(q, userID, module)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return prog.TotalAttempts, nil
}

// UnlockedBadge is a badge the user holds, with when it arrived
type UnlockedBadge struct {
	models.Achievement
	UnlockedAt time.Time `json:"unlocked_at"`
	IsNew      bool      `json:"is_new"`
}

// LockedBadge is a badge still to earn, with percent progress towards it
type LockedBadge struct {
	models.Achievement
	Progress int `json:"progress"`
}

// BadgeList splits the catalog into unlocked and locked halves
type BadgeList struct {
	Unlocked []UnlockedBadge `json:"unlocked"`
	Locked   []LockedBadge   `json:"locked"`
	NewCount int             `json:"new_count"`
}

// List returns the user's badges: unlocked newest first, locked closest
// to unlocking first
func (s *Service) List(userID string) (*BadgeList, error) {
	list := &BadgeList{
		Unlocked: []UnlockedBadge{},
		Locked:   []LockedBadge{},
	}

	user, err := s.users.GetByID(database.DB, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return list, nil
	}
	if err != nil {
		return nil, err
	}

	all, err := s.achievements.GetAll(database.DB)
	if err != nil {
		return nil, err
	}

	unlocks, err := s.achievements.GetUserAchievements(database.DB, userID)
	if err != nil {
		return nil, err
	}
	unlockMap := make(map[string]*models.UserAchievement, len(unlocks))
	for i := range unlocks {
		unlockMap[unlocks[i].AchievementID] = &unlocks[i]
	}

	for i := range all {
		badge := all[i]
		if ua, ok := unlockMap[badge.ID]; ok {
			list.Unlocked = append(list.Unlocked, UnlockedBadge{
				Achievement: badge,
				UnlockedAt:  ua.UnlockedAt,
				IsNew:       !ua.IsViewed,
			})
			if !ua.IsViewed {
				list.NewCount++
			}
			continue
		}

		percent, err := s.progressPercent(database.DB, user, &badge)
		if err != nil {
			return nil, err
		}
		list.Locked = append(list.Locked, LockedBadge{
			Achievement: badge,
			Progress:    percent,
		})
	}

	sort.SliceStable(list.Unlocked, func(i, j int) bool {
		return list.Unlocked[i].UnlockedAt.After(list.Unlocked[j].UnlockedAt)
	})
	sort.SliceStable(list.Locked, func(i, j int) bool {
		return list.Locked[i].Progress > list.Locked[j].Progress
	})

	return list, nil
}

func (s *Service) progressPercent(q sqlx.Ext, user *models.User, badge *models.Achievement) (int, error) {
	if badge.CriteriaThreshold == 0 {
		return 0, nil
	}

	var current float64
	switch badge.CriteriaType {
	case models.CriteriaCount:
		count, err := s.countValue(q, user.ID, badge.CriteriaModule)
		if err != nil {
			return 0, err
		}
		current = float64(count)

	case models.CriteriaScore:
		if badge.CriteriaModule != "" {
			prog, err := s.progress.GetByUserAndModule(q, user.ID, badge.CriteriaModule)
			if err != nil && !errors.Is(err, sql.ErrNoRows) {
				return 0, err
			}
			if prog != nil && prog.Score != nil {
				current = *prog.Score
			}
		}

	case models.CriteriaLevelAdvance:
		count, err := s.history.CountForUser(q, user.ID)
		if err != nil {
			return 0, err
		}
		current = float64(count)

	case models.CriteriaTotalXP:
		current = float64(user.TotalXP)
	}

	percent := int(current / float64(badge.CriteriaThreshold) * 100)
	if percent > 100 {
		percent = 100
	}
	return percent, nil
}

// MarkViewed clears the new-badge markers for a user
func (s *Service) MarkViewed(userID string) error {
	return s.achievements.MarkAllViewed(database.DB, userID)
}
