package scheduler_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Astemirdum/lending-service/internal/model"
	"github.com/Astemirdum/lending-service/internal/scheduler"

	scheduler_mocks "github.com/Astemirdum/lending-service/internal/scheduler/mocks"
)

func TestJobID(t *testing.T) {
	t.Parallel()
	require.Equal(t, "book_1", scheduler.JobID(1))
	require.Equal(t, "book_42", scheduler.JobID(42))
}

func TestWorker_FireDue(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("ok fires and deletes due jobs", func(t *testing.T) {
		t.Parallel()
		c := gomock.NewController(t)
		store := scheduler_mocks.NewMockJobStore(c)
		marker := scheduler_mocks.NewMockOffenderMarker(c)
		w := scheduler.NewWorker(store, marker, time.Second, zap.NewExample().Named("test"))

		jobs := []model.DeferredJob{
			{JobID: "book_1", FireTime: now.Add(-time.Hour), UserID: 7, BookID: 1},
			{JobID: "book_2", FireTime: now.Add(-time.Minute), UserID: 8, BookID: 2},
		}
		store.EXPECT().FetchDue(ctx, now, 100).Return(jobs, nil)
		marker.EXPECT().MarkOffender(ctx, 7, 1).Return(nil)
		store.EXPECT().Delete(ctx, "book_1").Return(nil)
		marker.EXPECT().MarkOffender(ctx, 8, 2).Return(nil)
		store.EXPECT().Delete(ctx, "book_2").Return(nil)

		require.NoError(t, w.FireDue(ctx, now))
	})

	t.Run("marking failure keeps the job for the next pass", func(t *testing.T) {
		t.Parallel()
		c := gomock.NewController(t)
		store := scheduler_mocks.NewMockJobStore(c)
		marker := scheduler_mocks.NewMockOffenderMarker(c)
		w := scheduler.NewWorker(store, marker, time.Second, zap.NewExample().Named("test"))

		jobs := []model.DeferredJob{
			{JobID: "book_1", FireTime: now.Add(-time.Hour), UserID: 7, BookID: 1},
			{JobID: "book_2", FireTime: now.Add(-time.Minute), UserID: 8, BookID: 2},
		}
		store.EXPECT().FetchDue(ctx, now, 100).Return(jobs, nil)
		marker.EXPECT().MarkOffender(ctx, 7, 1).Return(errors.New("db down"))
		// book_1 stays in the store; book_2 still fires.
		marker.EXPECT().MarkOffender(ctx, 8, 2).Return(nil)
		store.EXPECT().Delete(ctx, "book_2").Return(nil)

		require.NoError(t, w.FireDue(ctx, now))
	})

	t.Run("nothing due", func(t *testing.T) {
		t.Parallel()
		c := gomock.NewController(t)
		store := scheduler_mocks.NewMockJobStore(c)
		marker := scheduler_mocks.NewMockOffenderMarker(c)
		w := scheduler.NewWorker(store, marker, time.Second, zap.NewExample().Named("test"))

		store.EXPECT().FetchDue(ctx, now, 100).Return(nil, nil)

		require.NoError(t, w.FireDue(ctx, now))
	})

	t.Run("err. fetch fails", func(t *testing.T) {
		t.Parallel()
		c := gomock.NewController(t)
		store := scheduler_mocks.NewMockJobStore(c)
		marker := scheduler_mocks.NewMockOffenderMarker(c)
		w := scheduler.NewWorker(store, marker, time.Second, zap.NewExample().Named("test"))

		store.EXPECT().FetchDue(ctx, now, 100).Return(nil, errors.New("db down"))

		require.Error(t, w.FireDue(ctx, now))
	})
}

func TestWorker_RunStopsOnContextCancel(t *testing.T) {
	t.Parallel()
	c := gomock.NewController(t)
	store := scheduler_mocks.NewMockJobStore(c)
	marker := scheduler_mocks.NewMockOffenderMarker(c)
	w := scheduler.NewWorker(store, marker, time.Hour, zap.NewExample().Named("test"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, w.Run(ctx), context.Canceled)
}
