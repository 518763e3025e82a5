package badges

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/careerforge/careerforge-backend/internal/domain/badge"
	"github.com/careerforge/careerforge-backend/internal/domain/profile"
)

var errStorage = errors.New("storage unavailable")

// memAwardRepo is an in-memory award store enforcing the (user, badge)
// uniqueness invariant the way the real storage layer does.
type memAwardRepo struct {
	mu     sync.Mutex
	awards map[string][]*badge.Award

	createErr error
	existsErr error

	// raceOnCreate simulates a concurrent writer winning between the
	// Exists check and Create.
	raceOnCreate bool
}

func newMemAwardRepo() *memAwardRepo {
	return &memAwardRepo{awards: make(map[string][]*badge.Award)}
}

func (r *memAwardRepo) Create(_ context.Context, award *badge.Award) error {
	if r.createErr != nil {
		return r.createErr
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.raceOnCreate {
		return badge.ErrAlreadyAwarded
	}

	for _, a := range r.awards[award.UserID] {
		if a.BadgeKey == award.BadgeKey {
			return badge.ErrAlreadyAwarded
		}
	}

	r.awards[award.UserID] = append(r.awards[award.UserID], award)
	return nil
}

func (r *memAwardRepo) Exists(_ context.Context, userID string, key badge.Key) (bool, error) {
	if r.existsErr != nil {
		return false, r.existsErr
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, a := range r.awards[userID] {
		if a.BadgeKey == key {
			return true, nil
		}
	}
	return false, nil
}

func (r *memAwardRepo) GetByUserID(_ context.Context, userID string) ([]*badge.Award, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*badge.Award(nil), r.awards[userID]...), nil
}

func (r *memAwardRepo) CountByUserID(_ context.Context, userID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.awards[userID]), nil
}

// staticDefinitionRepo serves the frozen catalog plus optional extras.
type staticDefinitionRepo struct {
	extras []badge.Definition
}

func (r *staticDefinitionRepo) GetByKey(_ context.Context, key badge.Key) (badge.Definition, error) {
	if def, err := badge.StaticDefinition(key); err == nil {
		return def, nil
	}
	for _, def := range r.extras {
		if def.Key == key {
			return def, nil
		}
	}
	return badge.Definition{}, badge.ErrDefinitionNotFound
}

func (r *staticDefinitionRepo) GetAll(_ context.Context) ([]badge.Definition, error) {
	return append(badge.StaticCatalog(), r.extras...), nil
}

// sourceFixture wires the four profile sources behind one struct so tests
// can describe a user's world in a single literal.
type sourceFixture struct {
	resume      *profile.ResumeRecord
	github      *profile.GitHubRecord
	connections int
	hasSkillGap bool

	resumeErr error
	githubErr error
}

func (f *sourceFixture) LatestScored(_ context.Context, _ string) (*profile.ResumeRecord, error) {
	if f.resumeErr != nil {
		return nil, f.resumeErr
	}
	if f.resume == nil {
		return nil, profile.ErrResumeNotFound
	}
	return f.resume, nil
}

func (f *sourceFixture) GetByUserID(_ context.Context, _ string) (*profile.GitHubRecord, error) {
	if f.githubErr != nil {
		return nil, f.githubErr
	}
	if f.github == nil {
		return nil, profile.ErrGitHubNotFound
	}
	return f.github, nil
}

func (f *sourceFixture) ListConnected(_ context.Context) ([]*profile.GitHubRecord, error) {
	if f.github == nil {
		return nil, nil
	}
	return []*profile.GitHubRecord{f.github}, nil
}

func (f *sourceFixture) SaveStats(_ context.Context, _ string, stats profile.GitHubStats, syncedAt time.Time) error {
	if f.github == nil {
		return profile.ErrGitHubNotFound
	}
	f.github.Stats = stats
	f.github.LastSyncedAt = syncedAt
	return nil
}

func (f *sourceFixture) SetSyncStatus(_ context.Context, _ string, status profile.SyncStatus, syncError string) error {
	if f.github == nil {
		return profile.ErrGitHubNotFound
	}
	f.github.SyncStatus = status
	f.github.SyncError = syncError
	return nil
}

func (f *sourceFixture) CountAccepted(_ context.Context, _ string) (int, error) {
	return f.connections, nil
}

func (f *sourceFixture) Exists(_ context.Context, _ string) (bool, error) {
	return f.hasSkillGap, nil
}

func (f *sourceFixture) loader() *SnapshotLoader {
	return NewSnapshotLoader(f, f, f, f)
}
