package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/somolms/somo/core"
	"github.com/somolms/somo/core/attempt"
	"github.com/somolms/somo/core/content"
)

// NewConfig returns the app configuration used by tests.
func NewConfig() *core.Config {
	conf := core.NewConfig()
	conf.Debug = false
	conf.TestMode = true
	return conf
}

// CreatePackage persists a ready content.Package for tests.
func CreatePackage(t *testing.T, repo content.Repository, title, slug string, passingScore int, allowMultiple bool, createdAt ...time.Time) content.Package {
	t.Helper()

	now := time.Now().UTC()
	if len(createdAt) > 0 {
		now = createdAt[0].UTC()
	}
	pkg := content.Package{
		ID:                    uuid.New().String(),
		Title:                 title,
		Slug:                  slug,
		Version:               content.Version12,
		EntryPoint:            "index.html",
		Status:                content.StatusReady,
		AllowMultipleAttempts: allowMultiple,
		PassingScore:          passingScore,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	pkg, err := repo.CreatePackage(context.Background(), pkg)
	if err != nil {
		t.Fatalf("CreatePackage(): %v", err)
	}
	return pkg
}

// CreateAttempt persists an attempt.Attempt for tests. A non-empty status
// other than incomplete marks the attempt finished.
func CreateAttempt(t *testing.T, repo attempt.Repository, pkg content.Package, learner attempt.Learner, status string, scoreRaw *float64, startedAt ...time.Time) attempt.Attempt {
	t.Helper()

	now := time.Now().UTC()
	if len(startedAt) > 0 {
		now = startedAt[0].UTC()
	}
	if status == "" {
		status = attempt.StatusIncomplete
	}
	att := attempt.Attempt{
		ID:           uuid.New().String(),
		PackageID:    pkg.ID,
		LearnerID:    learner.ID,
		LearnerName:  learner.Name,
		LearnerEmail: learner.Email,
		StartedAt:    now,
		LastAccessed: now,
		LessonStatus: status,
		ScoreRaw:     scoreRaw,
		ScoreMin:     0,
		ScoreMax:     100,
		Credit:       "credit",
		Entry:        attempt.EntryAbInitio,
	}
	if status != attempt.StatusIncomplete && status != attempt.StatusNotAttempted {
		att.CompletedAt = now
	}
	att, err := repo.CreateAttempt(context.Background(), att)
	if err != nil {
		t.Fatalf("CreateAttempt(): %v", err)
	}
	return att
}

func FloatPtr(f float64) *float64 { return &f }
