package attempt

import (
	"context"
	"errors"
	"time"
)

var (
	// errors
	ErrNotFound     = errors.New("attempt not found")
	ErrAttemptLimit = errors.New("this package has already been completed and multiple attempts are not allowed")
)

// Lesson statuses (SCORM 1.2 cmi.core.lesson_status vocabulary)
const (
	StatusNotAttempted = "not_attempted"
	StatusBrowsed      = "browsed"
	StatusIncomplete   = "incomplete"
	StatusCompleted    = "completed"
	StatusFailed       = "failed"
	StatusPassed       = "passed"
)

var Statuses = []string{
	StatusNotAttempted,
	StatusBrowsed,
	StatusIncomplete,
	StatusCompleted,
	StatusFailed,
	StatusPassed,
}

func validStatus(s string) bool {
	for _, st := range Statuses {
		if st == s {
			return true
		}
	}
	return false
}

// Entry modes
const (
	EntryAbInitio = "ab-initio"
	EntryResume   = "resume"
)

// Learner identifies who is taking an attempt. This system does not model
// accounts; the embedding application supplies whatever identity it has.
type Learner struct {
	ID    string `json:"id" validate:"required"`
	Name  string `json:"name"`
	Email string `json:"email" validate:"omitempty,email"`
}

// Attempt is one learner run through a package, carrying the SCORM 1.2 CMI
// core data model.
type Attempt struct {
	ID           string `json:"id"`
	PackageID    string `json:"package_id"`
	LearnerID    string `json:"learner_id"`
	LearnerName  string `json:"learner_name"`
	LearnerEmail string `json:"-"`

	StartedAt    time.Time `json:"started_at"`    // UTC
	LastAccessed time.Time `json:"last_accessed"` // UTC
	CompletedAt  time.Time `json:"completed_at"`  // UTC; zero until finished

	LessonStatus    string   `json:"lesson_status"`
	ScoreRaw        *float64 `json:"score_raw"`
	ScoreMin        float64  `json:"score_min"`
	ScoreMax        float64  `json:"score_max"`
	ScoreScaled     *float64 `json:"score_scaled"`
	ProgressMeasure float64  `json:"progress_measure"`

	TotalTime   time.Duration `json:"total_time"`
	SessionTime time.Duration `json:"-"` // pending accumulation into TotalTime

	SuspendData    string `json:"-"`
	LessonLocation string `json:"lesson_location"`
	ExitMode       string `json:"exit_mode"`
	Credit         string `json:"credit"`
	Entry          string `json:"entry"`
}

func (a *Attempt) Finished() bool { return !a.CompletedAt.IsZero() }

func (a *Attempt) IsComplete() bool {
	return a.LessonStatus == StatusCompleted || a.LessonStatus == StatusPassed
}

// IsPassed reports whether the attempt passed given the package's passing
// score (a percentage). Without a raw score the lesson status decides.
func (a *Attempt) IsPassed(passingScore int) bool {
	if a.ScoreRaw != nil && passingScore > 0 {
		return a.PercentageScore() >= float64(passingScore)
	}
	return a.LessonStatus == StatusPassed
}

// PercentageScore returns the raw score as a percentage of the score range.
func (a *Attempt) PercentageScore() float64 {
	if a.ScoreRaw == nil || a.ScoreMax == 0 {
		return 0
	}
	return *a.ScoreRaw / a.ScoreMax * 100
}

// Interaction types (SCORM 1.2 cmi.interactions.n.type vocabulary)
const (
	InteractionTrueFalse   = "true-false"
	InteractionChoice      = "choice"
	InteractionFillIn      = "fill-in"
	InteractionMatching    = "matching"
	InteractionPerformance = "performance"
	InteractionSequencing  = "sequencing"
	InteractionLikert      = "likert"
	InteractionNumeric     = "numeric"
)

// Interaction results
const (
	ResultCorrect = "correct"
	ResultWrong   = "wrong"
	ResultNeutral = "neutral"
)

// Interaction is one recorded learner interaction inside content, keyed by
// its position in the cmi.interactions collection.
type Interaction struct {
	ID        string `json:"id"`
	AttemptID string `json:"attempt_id"`
	Index     int    `json:"index"`

	InteractionID    string        `json:"interaction_id"`
	Type             string        `json:"type"`
	Timestamp        time.Time     `json:"timestamp"`
	CorrectResponses []string      `json:"correct_responses"`
	LearnerResponse  string        `json:"learner_response"`
	Result           string        `json:"result"`
	Weighting        float64       `json:"weighting"`
	Latency          time.Duration `json:"latency"`
}

// Objective is one learning objective tracked inside content, keyed by its
// position in the cmi.objectives collection.
type Objective struct {
	ID        string `json:"id"`
	AttemptID string `json:"attempt_id"`
	Index     int    `json:"index"`

	ObjectiveID string   `json:"objective_id"`
	Status      string   `json:"status"`
	ScoreRaw    *float64 `json:"score_raw"`
	ScoreMin    float64  `json:"score_min"`
	ScoreMax    float64  `json:"score_max"`
}

// PackageProgress summarizes a learner's attempts at one package.
type PackageProgress struct {
	PackageID     string  `json:"package_id"`
	PackageTitle  string  `json:"package_title"`
	TotalAttempts int     `json:"total_attempts"`
	BestScore     float64 `json:"best_score"`
	LatestStatus  string  `json:"latest_status"`
	Completed     bool    `json:"completed"`
}

type Repository interface {
	CreateAttempt(ctx context.Context, att Attempt) (Attempt, error)
	GetAttemptByID(ctx context.Context, id string) (Attempt, error)
	// GetLatestAttempt returns the most recently started attempt of a learner
	// at a package.
	GetLatestAttempt(ctx context.Context, packageID, learnerID string) (Attempt, error)
	// QueryAttemptsByLearner returns a learner's attempts, newest first.
	QueryAttemptsByLearner(ctx context.Context, learnerID string) ([]Attempt, error)
	UpdateAttempt(ctx context.Context, att Attempt) (Attempt, error)

	// UpsertInteraction inserts or merges by (AttemptID, Index).
	UpsertInteraction(ctx context.Context, in Interaction) (Interaction, error)
	QueryInteractions(ctx context.Context, attemptID string) ([]Interaction, error)
	// UpsertObjective inserts or merges by (AttemptID, Index).
	UpsertObjective(ctx context.Context, ob Objective) (Objective, error)
	QueryObjectives(ctx context.Context, attemptID string) ([]Objective, error)
}
