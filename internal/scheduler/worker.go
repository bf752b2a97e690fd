package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"
)

//go:generate go run github.com/golang/mock/mockgen -source=worker.go -destination=mocks/mock.go

// OffenderMarker records the borrower of an overdue book as an offender.
// Implementations must be idempotent: the store delivers at-least-once.
type OffenderMarker interface {
	MarkOffender(ctx context.Context, userID, bookID int) error
}

type Worker struct {
	store    JobStore
	marker   OffenderMarker
	interval time.Duration
	batch    int
	log      *zap.Logger
}

func NewWorker(store JobStore, marker OffenderMarker, interval time.Duration, log *zap.Logger) *Worker {
	return &Worker{
		store:    store,
		marker:   marker,
		interval: interval,
		batch:    100,
		log:      log.Named("worker"),
	}
}

// Run polls for due jobs until ctx is done.
func (w *Worker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.FireDue(ctx, time.Now().UTC()); err != nil {
				w.log.Error("fire due jobs", zap.Error(err))
			}
		}
	}
}

// FireDue marks offenders for every job whose fire time has passed. A job
// is deleted only after its marking succeeded, so a crash between the two
// steps re-fires the job; marking is idempotent.
func (w *Worker) FireDue(ctx context.Context, now time.Time) error {
	jobs, err := w.store.FetchDue(ctx, now, w.batch)
	if err != nil {
		return err
	}
	for _, job := range jobs {
		if err := w.marker.MarkOffender(ctx, job.UserID, job.BookID); err != nil {
			w.log.Error("mark offender",
				zap.String("job_id", job.JobID),
				zap.Int("user_id", job.UserID),
				zap.Int("book_id", job.BookID),
				zap.Error(err))
			continue
		}
		if err := w.store.Delete(ctx, job.JobID); err != nil {
			w.log.Error("delete fired job", zap.String("job_id", job.JobID), zap.Error(err))
			continue
		}
		w.log.Info("deferred job fired",
			zap.String("job_id", job.JobID),
			zap.Int("user_id", job.UserID),
			zap.Int("book_id", job.BookID))
	}
	return nil
}
