package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/Astemirdum/lending-service/internal/model"
	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// JobID derives the deferred-job identity from the book. A book can hold
// only one open loan at a time (enforced by the ledger), so one live job
// per book is sufficient, and a fresh Schedule for the same book
// supersedes a stale row.
func JobID(bookID int) string {
	return fmt.Sprintf("book_%d", bookID)
}

// Scheduler is the delayed-task collaborator the order lifecycle talks to.
// All operations are idempotent.
type Scheduler interface {
	Schedule(ctx context.Context, jobID string, fireTime time.Time, userID, bookID int) error
	Cancel(ctx context.Context, jobID string) error
	// CancelFor revokes the job only if it was armed for userID, leaving a
	// job keyed to the same book but another borrower untouched.
	CancelFor(ctx context.Context, jobID string, userID int) error
}

// JobStore is the durable queue backing the scheduler and its worker.
type JobStore interface {
	Scheduler
	FetchDue(ctx context.Context, now time.Time, limit int) ([]model.DeferredJob, error)
	Delete(ctx context.Context, jobID string) error
}

type store struct {
	db  *sqlx.DB
	log *zap.Logger
}

func NewStore(db *sqlx.DB, log *zap.Logger) *store {
	return &store{
		db:  db,
		log: log.Named("jobstore"),
	}
}

const deferredJobTableName = `deferred_job`

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func (s *store) Schedule(ctx context.Context, jobID string, fireTime time.Time, userID, bookID int) error {
	q := fmt.Sprintf(`insert into %s (job_id, fire_time, user_id, book_id)
	values ($1, $2, $3, $4)
	on conflict (job_id) do update set fire_time = excluded.fire_time,
	user_id = excluded.user_id, book_id = excluded.book_id`, deferredJobTableName)
	if _, err := s.db.ExecContext(ctx, q, jobID, fireTime, userID, bookID); err != nil {
		return err
	}
	s.log.Debug("job armed",
		zap.String("job_id", jobID),
		zap.Time("fire_time", fireTime))
	return nil
}

// Cancel revokes a pending job. Cancelling an absent or already fired job
// is a no-op.
func (s *store) Cancel(ctx context.Context, jobID string) error {
	return s.Delete(ctx, jobID)
}

func (s *store) CancelFor(ctx context.Context, jobID string, userID int) error {
	q, args, err := qb.Delete(deferredJobTableName).
		Where(sq.Eq{"job_id": jobID, "user_id": userID}).
		ToSql()
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, q, args...)
	return err
}

func (s *store) Delete(ctx context.Context, jobID string) error {
	q, args, err := qb.Delete(deferredJobTableName).
		Where(sq.Eq{"job_id": jobID}).
		ToSql()
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, q, args...)
	return err
}

func (s *store) FetchDue(ctx context.Context, now time.Time, limit int) ([]model.DeferredJob, error) {
	q, args, err := qb.Select("job_id", "fire_time", "user_id", "book_id").
		From(deferredJobTableName).
		Where(sq.LtOrEq{"fire_time": now}).
		OrderBy("fire_time").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, err
	}
	var jobs []model.DeferredJob
	if err := s.db.SelectContext(ctx, &jobs, q, args...); err != nil {
		return nil, err
	}
	return jobs, nil
}
