package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/somolms/somo/core/attempt"
)

type attemptRow struct {
	ID              string        `db:"id"`
	PackageID       string        `db:"package_id"`
	LearnerID       string        `db:"learner_id"`
	LearnerName     string        `db:"learner_name"`
	LearnerEmail    string        `db:"learner_email"`
	StartedAt       time.Time     `db:"started_at"`
	LastAccessed    time.Time     `db:"last_accessed"`
	CompletedAt     null.Time     `db:"completed_at"`
	LessonStatus    string        `db:"lesson_status"`
	ScoreRaw        null.Float64  `db:"score_raw"`
	ScoreMin        float64       `db:"score_min"`
	ScoreMax        float64       `db:"score_max"`
	ScoreScaled     null.Float64  `db:"score_scaled"`
	ProgressMeasure float64       `db:"progress_measure"`
	TotalTime       time.Duration `db:"total_time"`
	SessionTime     time.Duration `db:"session_time"`
	SuspendData     string        `db:"suspend_data"`
	LessonLocation  string        `db:"lesson_location"`
	ExitMode        string        `db:"exit_mode"`
	Credit          string        `db:"credit"`
	Entry           string        `db:"entry"`
}

func attRow(att attempt.Attempt) attemptRow {
	return attemptRow{
		ID:              att.ID,
		PackageID:       att.PackageID,
		LearnerID:       att.LearnerID,
		LearnerName:     att.LearnerName,
		LearnerEmail:    att.LearnerEmail,
		StartedAt:       att.StartedAt.UTC(),
		LastAccessed:    att.LastAccessed.UTC(),
		CompletedAt:     null.NewTime(att.CompletedAt.UTC(), !att.CompletedAt.IsZero()),
		LessonStatus:    att.LessonStatus,
		ScoreRaw:        null.Float64FromPtr(att.ScoreRaw),
		ScoreMin:        att.ScoreMin,
		ScoreMax:        att.ScoreMax,
		ScoreScaled:     null.Float64FromPtr(att.ScoreScaled),
		ProgressMeasure: att.ProgressMeasure,
		TotalTime:       att.TotalTime,
		SessionTime:     att.SessionTime,
		SuspendData:     att.SuspendData,
		LessonLocation:  att.LessonLocation,
		ExitMode:        att.ExitMode,
		Credit:          att.Credit,
		Entry:           att.Entry,
	}
}

func (r attemptRow) unpack() attempt.Attempt {
	att := attempt.Attempt{
		ID:              r.ID,
		PackageID:       r.PackageID,
		LearnerID:       r.LearnerID,
		LearnerName:     r.LearnerName,
		LearnerEmail:    r.LearnerEmail,
		StartedAt:       r.StartedAt,
		LastAccessed:    r.LastAccessed,
		LessonStatus:    r.LessonStatus,
		ScoreRaw:        r.ScoreRaw.Ptr(),
		ScoreMin:        r.ScoreMin,
		ScoreMax:        r.ScoreMax,
		ScoreScaled:     r.ScoreScaled.Ptr(),
		ProgressMeasure: r.ProgressMeasure,
		TotalTime:       r.TotalTime,
		SessionTime:     r.SessionTime,
		SuspendData:     r.SuspendData,
		LessonLocation:  r.LessonLocation,
		ExitMode:        r.ExitMode,
		Credit:          r.Credit,
		Entry:           r.Entry,
	}
	if r.CompletedAt.Valid {
		att.CompletedAt = r.CompletedAt.Time
	}
	return att
}

type interactionRow struct {
	ID               string         `db:"id"`
	AttemptID        string         `db:"attempt_id"`
	Index            int            `db:"idx"`
	InteractionID    string         `db:"interaction_id"`
	Type             string         `db:"type"`
	OccurredAt       time.Time      `db:"occurred_at"`
	CorrectResponses pq.StringArray `db:"correct_responses"`
	LearnerResponse  string         `db:"learner_response"`
	Result           string         `db:"result"`
	Weighting        float64        `db:"weighting"`
	Latency          time.Duration  `db:"latency"`
}

type objectiveRow struct {
	ID          string       `db:"id"`
	AttemptID   string       `db:"attempt_id"`
	Index       int          `db:"idx"`
	ObjectiveID string       `db:"objective_id"`
	Status      string       `db:"status"`
	ScoreRaw    null.Float64 `db:"score_raw"`
	ScoreMin    float64      `db:"score_min"`
	ScoreMax    float64      `db:"score_max"`
}

type attemptRepository struct {
	db *sqlx.DB
}

var _ attempt.Repository = (*attemptRepository)(nil) // interface compliance check

func NewAttemptRepository(db *sqlx.DB) *attemptRepository {
	return &attemptRepository{db: db}
}

func (repo attemptRepository) CreateAttempt(ctx context.Context, att attempt.Attempt) (attempt.Attempt, error) {
	q := `
	INSERT INTO scorm_attempt (
		id, package_id, learner_id, learner_name, learner_email,
		started_at, last_accessed, completed_at, lesson_status,
		score_raw, score_min, score_max, score_scaled, progress_measure,
		total_time, session_time, suspend_data, lesson_location, exit_mode, credit, entry
	) VALUES (
		:id, :package_id, :learner_id, :learner_name, :learner_email,
		:started_at, :last_accessed, :completed_at, :lesson_status,
		:score_raw, :score_min, :score_max, :score_scaled, :progress_measure,
		:total_time, :session_time, :suspend_data, :lesson_location, :exit_mode, :credit, :entry
	)`
	if _, err := repo.db.NamedExecContext(ctx, q, attRow(att)); err != nil {
		return attempt.Attempt{}, errors.Wrap(err, "creating attempt")
	}
	return att, nil
}

func (repo attemptRepository) GetAttemptByID(ctx context.Context, id string) (attempt.Attempt, error) {
	var row attemptRow
	q := `SELECT * FROM scorm_attempt WHERE id = $1`
	if err := repo.db.GetContext(ctx, &row, q, id); err != nil {
		return attempt.Attempt{}, trapNoRowsErr(err, attempt.ErrNotFound, "getting attempt")
	}
	return row.unpack(), nil
}

func (repo attemptRepository) GetLatestAttempt(ctx context.Context, packageID, learnerID string) (attempt.Attempt, error) {
	var row attemptRow
	q := `
	SELECT * FROM scorm_attempt
	WHERE package_id = $1 AND learner_id = $2
	ORDER BY started_at DESC LIMIT 1`
	if err := repo.db.GetContext(ctx, &row, q, packageID, learnerID); err != nil {
		return attempt.Attempt{}, trapNoRowsErr(err, attempt.ErrNotFound, "getting latest attempt")
	}
	return row.unpack(), nil
}

func (repo attemptRepository) QueryAttemptsByLearner(ctx context.Context, learnerID string) ([]attempt.Attempt, error) {
	var rows []attemptRow
	q := `SELECT * FROM scorm_attempt WHERE learner_id = $1 ORDER BY started_at DESC`
	if err := repo.db.SelectContext(ctx, &rows, q, learnerID); err != nil {
		return nil, errors.Wrap(err, "querying attempts")
	}
	atts := make([]attempt.Attempt, 0, len(rows))
	for _, row := range rows {
		atts = append(atts, row.unpack())
	}
	return atts, nil
}

func (repo attemptRepository) UpdateAttempt(ctx context.Context, att attempt.Attempt) (attempt.Attempt, error) {
	q := `
	UPDATE scorm_attempt SET
		last_accessed = :last_accessed, completed_at = :completed_at,
		lesson_status = :lesson_status, score_raw = :score_raw, score_min = :score_min,
		score_max = :score_max, score_scaled = :score_scaled, progress_measure = :progress_measure,
		total_time = :total_time, session_time = :session_time, suspend_data = :suspend_data,
		lesson_location = :lesson_location, exit_mode = :exit_mode, entry = :entry
	WHERE id = :id`
	res, err := repo.db.NamedExecContext(ctx, q, attRow(att))
	if err != nil {
		return attempt.Attempt{}, errors.Wrap(err, "updating attempt")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return attempt.Attempt{}, attempt.ErrNotFound
	}
	return att, nil
}

func (repo attemptRepository) UpsertInteraction(ctx context.Context, in attempt.Interaction) (attempt.Interaction, error) {
	q := `
	INSERT INTO scorm_interaction (
		id, attempt_id, idx, interaction_id, type, occurred_at,
		correct_responses, learner_response, result, weighting, latency
	) VALUES (
		:id, :attempt_id, :idx, :interaction_id, :type, :occurred_at,
		:correct_responses, :learner_response, :result, :weighting, :latency
	)
	ON CONFLICT (attempt_id, idx) DO UPDATE SET
		interaction_id = EXCLUDED.interaction_id, type = EXCLUDED.type,
		occurred_at = EXCLUDED.occurred_at, correct_responses = EXCLUDED.correct_responses,
		learner_response = EXCLUDED.learner_response, result = EXCLUDED.result,
		weighting = EXCLUDED.weighting, latency = EXCLUDED.latency`
	row := interactionRow{
		ID:               in.ID,
		AttemptID:        in.AttemptID,
		Index:            in.Index,
		InteractionID:    in.InteractionID,
		Type:             in.Type,
		OccurredAt:       in.Timestamp.UTC(),
		CorrectResponses: in.CorrectResponses,
		LearnerResponse:  in.LearnerResponse,
		Result:           in.Result,
		Weighting:        in.Weighting,
		Latency:          in.Latency,
	}
	if _, err := repo.db.NamedExecContext(ctx, q, row); err != nil {
		return attempt.Interaction{}, errors.Wrap(err, "upserting interaction")
	}
	return in, nil
}

func (repo attemptRepository) QueryInteractions(ctx context.Context, attemptID string) ([]attempt.Interaction, error) {
	var rows []interactionRow
	q := `SELECT * FROM scorm_interaction WHERE attempt_id = $1 ORDER BY idx`
	if err := repo.db.SelectContext(ctx, &rows, q, attemptID); err != nil {
		return nil, errors.Wrap(err, "querying interactions")
	}
	ins := make([]attempt.Interaction, 0, len(rows))
	for _, row := range rows {
		ins = append(ins, attempt.Interaction{
			ID:               row.ID,
			AttemptID:        row.AttemptID,
			Index:            row.Index,
			InteractionID:    row.InteractionID,
			Type:             row.Type,
			Timestamp:        row.OccurredAt,
			CorrectResponses: row.CorrectResponses,
			LearnerResponse:  row.LearnerResponse,
			Result:           row.Result,
			Weighting:        row.Weighting,
			Latency:          row.Latency,
		})
	}
	return ins, nil
}

func (repo attemptRepository) UpsertObjective(ctx context.Context, ob attempt.Objective) (attempt.Objective, error) {
	q := `
	INSERT INTO scorm_objective (
		id, attempt_id, idx, objective_id, status, score_raw, score_min, score_max
	) VALUES (
		:id, :attempt_id, :idx, :objective_id, :status, :score_raw, :score_min, :score_max
	)
	ON CONFLICT (attempt_id, idx) DO UPDATE SET
		objective_id = EXCLUDED.objective_id, status = EXCLUDED.status,
		score_raw = EXCLUDED.score_raw, score_min = EXCLUDED.score_min,
		score_max = EXCLUDED.score_max`
	row := objectiveRow{
		ID:          ob.ID,
		AttemptID:   ob.AttemptID,
		Index:       ob.Index,
		ObjectiveID: ob.ObjectiveID,
		Status:      ob.Status,
		ScoreRaw:    null.Float64FromPtr(ob.ScoreRaw),
		ScoreMin:    ob.ScoreMin,
		ScoreMax:    ob.ScoreMax,
	}
	if _, err := repo.db.NamedExecContext(ctx, q, row); err != nil {
		return attempt.Objective{}, errors.Wrap(err, "upserting objective")
	}
	return ob, nil
}

func (repo attemptRepository) QueryObjectives(ctx context.Context, attemptID string) ([]attempt.Objective, error) {
	var rows []objectiveRow
	q := `SELECT * FROM scorm_objective WHERE attempt_id = $1 ORDER BY idx`
	if err := repo.db.SelectContext(ctx, &rows, q, attemptID); err != nil {
		return nil, errors.Wrap(err, "querying objectives")
	}
	obs := make([]attempt.Objective, 0, len(rows))
	for _, row := range rows {
		obs = append(obs, attempt.Objective{
			ID:          row.ID,
			AttemptID:   row.AttemptID,
			Index:       row.Index,
			ObjectiveID: row.ObjectiveID,
			Status:      row.Status,
			ScoreRaw:    row.ScoreRaw.Ptr(),
			ScoreMin:    row.ScoreMin,
			ScoreMax:    row.ScoreMax,
		})
	}
	return obs, nil
}
