package inmemdb

import (
	"context"
	"sort"

	"github.com/somolms/somo/core/attempt"
)

type attemptRepository struct {
	db *DB
}

var _ attempt.Repository = (*attemptRepository)(nil) // interface compliance check

func NewAttemptRepository(db *DB) *attemptRepository {
	return &attemptRepository{db: db}
}

func (repo *attemptRepository) CreateAttempt(ctx context.Context, att attempt.Attempt) (attempt.Attempt, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.attempts[att.ID] = &att
	return att, nil
}

func (repo *attemptRepository) GetAttemptByID(ctx context.Context, id string) (attempt.Attempt, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if att, ok := repo.db.attempts[id]; ok {
		return *att, nil
	}
	return attempt.Attempt{}, attempt.ErrNotFound
}

func (repo *attemptRepository) GetLatestAttempt(ctx context.Context, packageID, learnerID string) (attempt.Attempt, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var latest *attempt.Attempt
	for _, att := range repo.db.attempts {
		if att.PackageID != packageID || att.LearnerID != learnerID {
			continue
		}
		if latest == nil || att.StartedAt.After(latest.StartedAt) {
			latest = att
		}
	}
	if latest == nil {
		return attempt.Attempt{}, attempt.ErrNotFound
	}
	return *latest, nil
}

func (repo *attemptRepository) QueryAttemptsByLearner(ctx context.Context, learnerID string) ([]attempt.Attempt, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var atts []attempt.Attempt
	for _, att := range repo.db.attempts {
		if att.LearnerID == learnerID {
			atts = append(atts, *att)
		}
	}
	sort.Slice(atts, func(i, j int) bool { return atts[i].StartedAt.After(atts[j].StartedAt) })
	return atts, nil
}

func (repo *attemptRepository) UpdateAttempt(ctx context.Context, att attempt.Attempt) (attempt.Attempt, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.attempts[att.ID]; !ok {
		return attempt.Attempt{}, attempt.ErrNotFound
	}
	repo.db.attempts[att.ID] = &att
	return att, nil
}

func (repo *attemptRepository) UpsertInteraction(ctx context.Context, in attempt.Interaction) (attempt.Interaction, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	ins := repo.db.interactions[in.AttemptID]
	for i := range ins {
		if ins[i].Index == in.Index {
			ins[i] = in
			return in, nil
		}
	}
	repo.db.interactions[in.AttemptID] = append(ins, in)
	return in, nil
}

func (repo *attemptRepository) QueryInteractions(ctx context.Context, attemptID string) ([]attempt.Interaction, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	ins := make([]attempt.Interaction, len(repo.db.interactions[attemptID]))
	copy(ins, repo.db.interactions[attemptID])
	sort.Slice(ins, func(i, j int) bool { return ins[i].Index < ins[j].Index })
	return ins, nil
}

func (repo *attemptRepository) UpsertObjective(ctx context.Context, ob attempt.Objective) (attempt.Objective, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	obs := repo.db.objectives[ob.AttemptID]
	for i := range obs {
		if obs[i].Index == ob.Index {
			obs[i] = ob
			return ob, nil
		}
	}
	repo.db.objectives[ob.AttemptID] = append(obs, ob)
	return ob, nil
}

func (repo *attemptRepository) QueryObjectives(ctx context.Context, attemptID string) ([]attempt.Objective, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	obs := make([]attempt.Objective, len(repo.db.objectives[attemptID]))
	copy(obs, repo.db.objectives[attemptID])
	sort.Slice(obs, func(i, j int) bool { return obs[i].Index < obs[j].Index })
	return obs, nil
}
