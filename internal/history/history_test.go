package history

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/mathrush/internal/config"
	"github.com/vovakirdan/mathrush/internal/game"
	"github.com/vovakirdan/mathrush/internal/quiz"
)

var errMissing = errors.New("missing")

type mapKV struct {
	mu      sync.Mutex
	data    map[string][]byte
	failSet bool
}

func newMapKV() *mapKV {
	return &mapKV{data: make(map[string][]byte)}
}

func (m *mapKV) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, errMissing
	}
	return v, nil
}

func (m *mapKV) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSet {
		return errors.New("read-only")
	}
	m.data[key] = value
	return nil
}

type memArchive struct {
	runs []Summary
}

func (a *memArchive) AppendRun(_ context.Context, s Summary) error {
	a.runs = append(a.runs, s)
	return nil
}

var t0 = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func summary(id string, score int) Summary {
	return Summary{RunID: id, Mode: quiz.ModeQuick, Difficulty: quiz.DifficultyEasy, Score: score}
}

func finishedRun(t *testing.T) game.Run {
	t.Helper()
	cfg := config.DefaultGameConfig()
	qs := []quiz.Question{
		{Index: 0, Expression: "1 + 1", Answer: 2, Result: quiz.ResultPending},
		{Index: 1, Expression: "2 + 2", Answer: 4, Result: quiz.ResultPending},
	}
	run := game.NewRun(cfg, "run-42", quiz.ModeQuick, quiz.DifficultyEasy, qs, t0)
	for _, ev := range []game.Event{
		game.StartInput{At: t0},
		game.SubmitAnswer{Input: "2", At: t0.Add(time.Second)},
		game.StartInput{At: t0.Add(time.Second)},
		game.Skip{At: t0.Add(2 * time.Second)},
		game.Advance{At: t0.Add(3 * time.Second)},
	} {
		run = game.Reduce(cfg, run, ev).Run
	}
	require.True(t, run.Finished())
	return run
}

func TestBuildSummary(t *testing.T) {
	run := finishedRun(t)

	s, ok := BuildSummary(run)
	require.True(t, ok)
	assert.Equal(t, "run-42", s.RunID)
	assert.Equal(t, quiz.ModeQuick, s.Mode)
	assert.Equal(t, run.Score, s.Score)
	assert.InDelta(t, 50.0, s.Accuracy, 0.001)
	assert.Equal(t, 2, s.QuestionsAnswered)
	assert.Equal(t, int64(3000), s.TimeTakenMs)
	assert.Equal(t, 3*time.Second, s.TimeTaken())
	assert.Equal(t, t0.Add(3*time.Second), s.CompletedAt)
}

func TestBuildSummaryRequiresFinishedRun(t *testing.T) {
	run := game.NewRun(config.DefaultGameConfig(), "r", quiz.ModeMain, quiz.DifficultyEasy, nil, t0)
	_, ok := BuildSummary(run)
	assert.False(t, ok)
}

func TestBuildSummaryClampsNegativeDuration(t *testing.T) {
	run := finishedRun(t)
	run.EndAt = run.StartAt.Add(-time.Minute)
	s, ok := BuildSummary(run)
	require.True(t, ok)
	assert.Zero(t, s.TimeTakenMs)
}

func TestStoreSaveIsMostRecentFirstAndBounded(t *testing.T) {
	ctx := context.Background()
	store := NewStore(newMapKV(), "")
	assert.Equal(t, DefaultKey, store.Key())

	for i := 0; i < 12; i++ {
		require.NoError(t, store.Save(ctx, summary(fmt.Sprintf("run-%d", i), i)))
	}

	list := store.Load(ctx)
	require.Len(t, list, MaxEntries)
	assert.Equal(t, "run-11", list[0].RunID)
	assert.Equal(t, "run-2", list[MaxEntries-1].RunID)

	assert.Len(t, store.Recent(ctx, 5), 5)
	assert.Len(t, store.Recent(ctx, 50), MaxEntries)
}

func TestStoreSaveReplacesSameRunID(t *testing.T) {
	ctx := context.Background()
	store := NewStore(newMapKV(), "")

	require.NoError(t, store.Save(ctx, summary("a", 1)))
	require.NoError(t, store.Save(ctx, summary("b", 2)))
	require.NoError(t, store.Save(ctx, summary("a", 3)))

	list := store.Load(ctx)
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].RunID)
	assert.Equal(t, 3, list[0].Score)
	assert.Equal(t, "b", list[1].RunID)
}

func TestStoreSaveRejectsEmptyRunID(t *testing.T) {
	store := NewStore(newMapKV(), "")
	assert.Error(t, store.Save(context.Background(), Summary{}))
}

func TestStoreLoadIsBestEffort(t *testing.T) {
	tests := []struct {
		name  string
		value []byte
	}{
		{"missing", nil},
		{"garbage", []byte("not json")},
		{"object", []byte(`{"runId":"x"}`)},
		{"null", []byte("null")},
		{"string", []byte(`"hello"`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := newMapKV()
			if tt.value != nil {
				kv.data[DefaultKey] = tt.value
			}
			list := NewStore(kv, "").Load(context.Background())
			assert.NotNil(t, list)
			assert.Empty(t, list)
		})
	}
}

func TestStoreClear(t *testing.T) {
	ctx := context.Background()
	kv := newMapKV()
	store := NewStore(kv, "custom")

	require.NoError(t, store.Save(ctx, summary("a", 1)))
	require.NoError(t, store.Clear(ctx))

	assert.Empty(t, store.Load(ctx))
	assert.Equal(t, "[]", string(kv.data["custom"]))
}

func TestStoreWriteErrorIsReturned(t *testing.T) {
	kv := newMapKV()
	kv.failSet = true
	err := NewStore(kv, "").Save(context.Background(), summary("a", 1))
	assert.ErrorContains(t, err, "history: cannot persist list")
}

func TestRecorder(t *testing.T) {
	ctx := context.Background()
	store := NewStore(newMapKV(), "")
	archive := &memArchive{}
	rec := NewRecorder(store, archive, nil)

	run := finishedRun(t)
	require.NoError(t, rec.RecordRun(ctx, run))
	require.NoError(t, rec.RecordRun(ctx, run))

	list := store.Load(ctx)
	require.Len(t, list, 1)
	assert.Equal(t, "run-42", list[0].RunID)
	assert.Len(t, archive.runs, 2)
}

func TestRecorderRejectsUnfinishedRun(t *testing.T) {
	rec := NewRecorder(NewStore(newMapKV(), ""), nil, nil)
	run := game.NewRun(config.DefaultGameConfig(), "r", quiz.ModeMain, quiz.DifficultyEasy, nil, t0)
	assert.Error(t, rec.RecordRun(context.Background(), run))
}
