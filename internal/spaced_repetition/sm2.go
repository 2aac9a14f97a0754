package spaced_repetition

import (
	"math"
	"time"
)

// QualityResponse represents the quality of response in SM-2
type QualityResponse int

const (
	// Complete blackout, unable to recall
	QualityBlackout QualityResponse = 0
	// Incorrect response but remembered upon seeing the correct answer
	QualityIncorrect QualityResponse = 1
	// Incorrect response but the correct answer felt familiar
	QualityIncorrectFamiliar QualityResponse = 2
	// Correct response but required significant effort
	QualityCorrectDifficult QualityResponse = 3
	// Correct response after some hesitation
	QualityCorrectHesitation QualityResponse = 4
	// Perfect response with no hesitation
	QualityPerfect QualityResponse = 5
)

const (
	// MinEasinessFactor is the floor below which EF never drops
	MinEasinessFactor = 1.3
	// InitialEasinessFactor is assigned to newly added words
	InitialEasinessFactor = 2.5
	// MasteryRepetitions is the repetition count at which a word counts as mastered
	MasteryRepetitions = 5
)

// Schedule is the updated review state produced by one grading pass
type Schedule struct {
	EasinessFactor float64
	Repetitions    int
	IntervalDays   int
	NextReviewAt   time.Time
}

// Calculate runs one SM-2 grading pass over the current review state.
//
// The easiness factor always absorbs the grade, even on failure. A failing
// grade (below 3) knocks two repetitions off the streak and schedules the
// word for tomorrow; a passing grade advances the streak and stretches the
// interval: 1 day, then 6 days, then previous interval times the new EF.
func Calculate(easinessFactor float64, repetitions, intervalDays int, quality QualityResponse, now time.Time) (Schedule, error) {
	if quality < QualityBlackout || quality > QualityPerfect {
		return Schedule{}, ErrInvalidQuality
	}

	miss := float64(QualityPerfect - quality)
	newEF := easinessFactor + (0.1 - miss*(0.08+miss*0.02))
	if newEF < MinEasinessFactor {
		newEF = MinEasinessFactor
	}
	newEF = roundHalfEven(newEF*100) / 100

	var newRepetitions, newInterval int
	if quality < QualityCorrectDifficult {
		// Failed recall: drop two repetitions, keep some credit for
		// long streaks, and review again tomorrow
		newRepetitions = repetitions - 2
		if newRepetitions < 0 {
			newRepetitions = 0
		}
		newInterval = 1
	} else {
		newRepetitions = repetitions + 1
		switch newRepetitions {
		case 1:
			newInterval = 1
		case 2:
			newInterval = 6
		default:
			newInterval = int(roundHalfEven(float64(intervalDays) * newEF))
		}
	}

	return Schedule{
		EasinessFactor: newEF,
		Repetitions:    newRepetitions,
		IntervalDays:   newInterval,
		NextReviewAt:   now.AddDate(0, 0, newInterval),
	}, nil
}

// roundHalfEven rounds to the nearest integer, ties to even
func roundHalfEven(x float64) float64 {
	return math.RoundToEven(x)
}
