package history

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/mathrush/internal/game"
)

// Archive keeps every finished run, beyond the bounded recent list.
type Archive interface {
	AppendRun(ctx context.Context, summary Summary) error
}

// Recorder persists finished runs to the recent list and, when configured,
// to the archive.
type Recorder struct {
	store   *Store
	archive Archive
	logger  *log.Logger
}

// NewRecorder creates a recorder. archive and logger may be nil.
func NewRecorder(store *Store, archive Archive, logger *log.Logger) *Recorder {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Recorder{store: store, archive: archive, logger: logger}
}

// RecordRun implements game.Recorder.
func (r *Recorder) RecordRun(ctx context.Context, run game.Run) error {
	summary, ok := BuildSummary(run)
	if !ok {
		return fmt.Errorf("history: run %s is not finished", run.RunID)
	}

	var errs []error
	if err := r.store.Save(ctx, summary); err != nil {
		errs = append(errs, err)
	}
	if r.archive != nil {
		if err := r.archive.AppendRun(ctx, summary); err != nil {
			errs = append(errs, fmt.Errorf("history: cannot archive run: %w", err))
		}
	}

	if len(errs) == 0 {
		r.logger.Debug("run recorded", "run", summary.RunID, "score", summary.Score, "key", r.store.Key())
	}
	return errors.Join(errs...)
}

var _ game.Recorder = (*Recorder)(nil)
