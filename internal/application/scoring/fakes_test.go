package scoring

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/careerforge/careerforge-backend/internal/domain/badge"
	"github.com/careerforge/careerforge-backend/internal/domain/profile"
	"github.com/careerforge/careerforge-backend/internal/domain/score"
)

// fakeResumeSource serves a single resume record per user.
type fakeResumeSource struct {
	records map[string]*profile.ResumeRecord
	err     error
}

func (f *fakeResumeSource) LatestScored(_ context.Context, userID string) (*profile.ResumeRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	rec, ok := f.records[userID]
	if !ok {
		return nil, profile.ErrResumeNotFound
	}
	return rec, nil
}

// fakeGitHubSource serves a single github record per user.
type fakeGitHubSource struct {
	records map[string]*profile.GitHubRecord
	err     error
}

func (f *fakeGitHubSource) GetByUserID(_ context.Context, userID string) (*profile.GitHubRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	rec, ok := f.records[userID]
	if !ok {
		return nil, profile.ErrGitHubNotFound
	}
	return rec, nil
}

func (f *fakeGitHubSource) ListConnected(_ context.Context) ([]*profile.GitHubRecord, error) {
	out := make([]*profile.GitHubRecord, 0, len(f.records))
	for _, rec := range f.records {
		out = append(out, rec)
	}
	return out, nil
}

func (f *fakeGitHubSource) SaveStats(_ context.Context, userID string, stats profile.GitHubStats, syncedAt time.Time) error {
	rec, ok := f.records[userID]
	if !ok {
		return profile.ErrGitHubNotFound
	}
	rec.Stats = stats
	rec.LastSyncedAt = syncedAt
	return nil
}

func (f *fakeGitHubSource) SetSyncStatus(_ context.Context, userID string, status profile.SyncStatus, syncError string) error {
	rec, ok := f.records[userID]
	if !ok {
		return profile.ErrGitHubNotFound
	}
	rec.SyncStatus = status
	rec.SyncError = syncError
	return nil
}

// fakeAwardRepo implements badge.AwardRepository; only counting matters here.
type fakeAwardRepo struct {
	count int
	err   error
}

func (f *fakeAwardRepo) Create(_ context.Context, _ *badge.Award) error { return nil }

func (f *fakeAwardRepo) Exists(_ context.Context, _ string, _ badge.Key) (bool, error) {
	return false, nil
}

func (f *fakeAwardRepo) GetByUserID(_ context.Context, _ string) ([]*badge.Award, error) {
	return nil, nil
}

func (f *fakeAwardRepo) CountByUserID(_ context.Context, _ string) (int, error) {
	return f.count, f.err
}

// fakeScoreRepo stores records in memory.
type fakeScoreRepo struct {
	mu        sync.Mutex
	records   map[string]*score.Record
	upsertErr error
	getErr    error
}

func newFakeScoreRepo() *fakeScoreRepo {
	return &fakeScoreRepo{records: make(map[string]*score.Record)}
}

func (f *fakeScoreRepo) Upsert(_ context.Context, record *score.Record) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records[record.UserID] = record.Clone()
	return nil
}

func (f *fakeScoreRepo) GetByUserID(_ context.Context, userID string) (*score.Record, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.records[userID]
	if !ok {
		return nil, score.ErrRecordNotFound
	}
	return rec.Clone(), nil
}

// fixedCalculator returns a constant component value.
type fixedCalculator struct {
	value float64
	err   error
}

func (f fixedCalculator) Calculate(_ context.Context, _ string) (float64, error) {
	return f.value, f.err
}

// fakeBreakdownCache records cache interactions.
type fakeBreakdownCache struct {
	mu          sync.Mutex
	entries     map[string]*Breakdown
	invalidated []string
}

func newFakeBreakdownCache() *fakeBreakdownCache {
	return &fakeBreakdownCache{entries: make(map[string]*Breakdown)}
}

func (f *fakeBreakdownCache) GetBreakdown(_ context.Context, userID string) (*Breakdown, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.entries[userID]
	return b, ok
}

func (f *fakeBreakdownCache) SetBreakdown(_ context.Context, userID string, breakdown *Breakdown) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[userID] = breakdown
}

func (f *fakeBreakdownCache) InvalidateBreakdown(_ context.Context, userID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.entries, userID)
	f.invalidated = append(f.invalidated, userID)
}

// fakeLeaderboard records score updates.
type fakeLeaderboard struct {
	mu      sync.Mutex
	updates map[string]float64
	err     error
}

func newFakeLeaderboard() *fakeLeaderboard {
	return &fakeLeaderboard{updates: make(map[string]float64)}
}

func (f *fakeLeaderboard) UpdateScore(_ context.Context, userID string, total float64) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates[userID] = total
	return nil
}

var errStorage = errors.New("storage unavailable")
