// Package quiz draws question rounds, scores answers, and tracks
// per-user attempt history and learning progress.
package quiz

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/qualitydesk/qualitybot/internal/model"
	"github.com/qualitydesk/qualitybot/internal/storage"
)

// RoundSize is how many questions each round draws from the pool.
const RoundSize = 5

const (
	xpPerCorrect   = 10
	xpPerLevel     = 100
	attemptsPrefix = "quiz-attempts-"
	progressPrefix = "student-progress-"
)

// PoolSize returns the number of questions in the built-in bank.
func PoolSize() int {
	return len(pool)
}

// NewRound picks RoundSize distinct questions at random.
func NewRound() []model.QuizQuestion {
	return newRound(rand.New(rand.NewSource(time.Now().UnixNano())))
}

func newRound(rnd *rand.Rand) []model.QuizQuestion {
	picked := make([]model.QuizQuestion, len(pool))
	copy(picked, pool)
	rnd.Shuffle(len(picked), func(i, j int) {
		picked[i], picked[j] = picked[j], picked[i]
	})
	return picked[:RoundSize]
}

// Score counts correct answers. Answers beyond the round length are
// ignored; missing answers count as wrong.
func Score(questions []model.QuizQuestion, answers []int) int {
	score := 0
	for i, q := range questions {
		if i >= len(answers) {
			break
		}
		if answers[i] == q.Correct {
			score++
		}
	}
	return score
}

// Tracker persists quiz attempts and progress per user.
type Tracker struct {
	store  storage.Storage
	userID string
}

// NewTracker scopes attempt and progress records to one user.
func NewTracker(store storage.Storage, userID string) *Tracker {
	return &Tracker{store: store, userID: userID}
}

// RecordAttempt appends the attempt and folds the score into the user's
// progress: 10 XP per correct answer, one level per 100 XP.
func (t *Tracker) RecordAttempt(score, total int, timeTaken time.Duration) (model.QuizAttempt, model.Progress, error) {
	attempt := model.QuizAttempt{
		ID:        uuid.NewString(),
		Date:      time.Now().Format(time.RFC3339),
		TimeTaken: int(timeTaken.Seconds()),
		Score:     score,
		Total:     total,
	}

	attempts, err := t.Attempts()
	if err != nil {
		return model.QuizAttempt{}, model.Progress{}, err
	}
	if err := t.writeJSON(attemptsPrefix+t.userID, append(attempts, attempt)); err != nil {
		return model.QuizAttempt{}, model.Progress{}, err
	}

	progress, err := t.Progress()
	if err != nil {
		return model.QuizAttempt{}, model.Progress{}, err
	}
	progress.XP += score * xpPerCorrect
	progress.Level = progress.XP/xpPerLevel + 1
	progress.QuizzesTaken++
	if err := t.writeJSON(progressPrefix+t.userID, progress); err != nil {
		return model.QuizAttempt{}, model.Progress{}, err
	}
	return attempt, progress, nil
}

// Attempts returns the user's attempt history in record order.
func (t *Tracker) Attempts() ([]model.QuizAttempt, error) {
	var attempts []model.QuizAttempt
	if err := t.readJSON(attemptsPrefix+t.userID, &attempts); err != nil {
		return nil, err
	}
	return attempts, nil
}

// Progress returns the user's progress. A user with no records starts
// at level 1 with zero XP.
func (t *Tracker) Progress() (model.Progress, error) {
	progress := model.Progress{Level: 1}
	if err := t.readJSON(progressPrefix+t.userID, &progress); err != nil {
		return model.Progress{}, err
	}
	if progress.Level < 1 {
		progress.Level = 1
	}
	return progress, nil
}

// MarkToolViewed bumps the tools-viewed counter.
func (t *Tracker) MarkToolViewed() (model.Progress, error) {
	progress, err := t.Progress()
	if err != nil {
		return model.Progress{}, err
	}
	progress.ToolsViewed++
	if err := t.writeJSON(progressPrefix+t.userID, progress); err != nil {
		return model.Progress{}, err
	}
	return progress, nil
}

// MarkConversationSaved bumps the saved-conversations counter.
func (t *Tracker) MarkConversationSaved() (model.Progress, error) {
	progress, err := t.Progress()
	if err != nil {
		return model.Progress{}, err
	}
	progress.ConversationsSaved++
	if err := t.writeJSON(progressPrefix+t.userID, progress); err != nil {
		return model.Progress{}, err
	}
	return progress, nil
}

func (t *Tracker) readJSON(key string, out any) error {
	data, err := t.store.Get(key)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(data), out); err != nil {
		return fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return nil
}

func (t *Tracker) writeJSON(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := t.store.Set(key, string(data)); err != nil {
		return fmt.Errorf("failed to store %s: %w", key, err)
	}
	return nil
}
