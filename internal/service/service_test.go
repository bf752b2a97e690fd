package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Astemirdum/lending-service/internal/errs"
	"github.com/Astemirdum/lending-service/internal/model"
	"github.com/Astemirdum/lending-service/internal/scheduler"
	"github.com/Astemirdum/lending-service/internal/service"
	"github.com/Astemirdum/lending-service/pkg/kafka"

	service_mocks "github.com/Astemirdum/lending-service/internal/service/mocks"
)

const gracePeriod = 14 * 24 * time.Hour

func newTestService(t *testing.T) (*service.Service, *service_mocks.MockRepository, *service_mocks.MockScheduler, *service_mocks.MockEventPublisher) {
	t.Helper()
	c := gomock.NewController(t)
	repo := service_mocks.NewMockRepository(c)
	sched := service_mocks.NewMockScheduler(c)
	events := service_mocks.NewMockEventPublisher(c)
	svc := service.NewService(repo, sched, events, gracePeriod, zap.NewExample().Named("test"))
	return svc, repo, sched, events
}

func TestService_CreateOrder(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	user := model.User{ID: 7, Username: "reader", Role: "READER"}

	type mockBehavior func(r *service_mocks.MockRepository, e *service_mocks.MockEventPublisher, bookIDs []int)

	tests := []struct {
		name         string
		bookIDs      []int
		mockBehavior mockBehavior
		wantStatus   model.OrderStatus
		wantErr      error
	}{
		{
			name:    "ok pending order with open loans",
			bookIDs: []int{2, 1, 2},
			mockBehavior: func(r *service_mocks.MockRepository, e *service_mocks.MockEventPublisher, _ []int) {
				r.EXPECT().GetUser(ctx, user.Username).Return(user, nil)
				r.EXPECT().GetBook(ctx, 1).Return(model.Book{ID: 1, Title: "Dune"}, nil)
				r.EXPECT().GetBook(ctx, 2).Return(model.Book{ID: 2, Title: "Solaris"}, nil)
				r.EXPECT().OffenderBooks(ctx, user.ID).Return(nil, nil)
				r.EXPECT().ListUnavailableBooks(ctx).Return(nil, nil)
				r.EXPECT().UserLoanCount(ctx, user.ID).Return(1, nil)
				r.EXPECT().CreateOrder(ctx, user.ID, []int{1, 2}).
					Return(model.Order{
						OrderUid: "9d4f9e1c-2a1e-4a63-8f0f-3a8b1f1c2d3e",
						UserID:   user.ID,
						Status:   model.StatusPending,
					}, nil)
				e.EXPECT().Enqueue(kafka.LendingEventsTopic, gomock.Any()).Return(nil)
			},
			wantStatus: model.StatusPending,
		},
		{
			name:    "err. empty book list",
			bookIDs: nil,
			mockBehavior: func(r *service_mocks.MockRepository, _ *service_mocks.MockEventPublisher, _ []int) {
				r.EXPECT().GetUser(ctx, user.Username).Return(user, nil)
				r.EXPECT().OffenderBooks(ctx, user.ID).Return(nil, nil)
				r.EXPECT().ListUnavailableBooks(ctx).Return(nil, nil)
				r.EXPECT().UserLoanCount(ctx, user.ID).Return(0, nil)
			},
			wantErr: errs.ErrNoRequestedBooks,
		},
		{
			name:    "err. unknown book",
			bookIDs: []int{404},
			mockBehavior: func(r *service_mocks.MockRepository, _ *service_mocks.MockEventPublisher, _ []int) {
				r.EXPECT().GetUser(ctx, user.Username).Return(user, nil)
				r.EXPECT().GetBook(ctx, 404).Return(model.Book{}, errs.ErrNotFound)
			},
			wantErr: errs.ErrNotFound,
		},
		{
			name:    "err. offender blocked before availability",
			bookIDs: []int{1},
			mockBehavior: func(r *service_mocks.MockRepository, _ *service_mocks.MockEventPublisher, _ []int) {
				r.EXPECT().GetUser(ctx, user.Username).Return(user, nil)
				r.EXPECT().GetBook(ctx, 1).Return(model.Book{ID: 1, Title: "Dune"}, nil)
				r.EXPECT().OffenderBooks(ctx, user.ID).
					Return([]model.Book{{ID: 9, Title: "Neuromancer"}}, nil)
				r.EXPECT().ListUnavailableBooks(ctx).
					Return([]model.Book{{ID: 1, Title: "Dune"}}, nil)
				r.EXPECT().UserLoanCount(ctx, user.ID).Return(0, nil)
			},
			wantErr: &errs.UserIsOffenderError{Books: []model.Book{{ID: 9, Title: "Neuromancer"}}},
		},
		{
			name:    "err. requested book out on loan",
			bookIDs: []int{1, 2},
			mockBehavior: func(r *service_mocks.MockRepository, _ *service_mocks.MockEventPublisher, _ []int) {
				r.EXPECT().GetUser(ctx, user.Username).Return(user, nil)
				r.EXPECT().GetBook(ctx, 1).Return(model.Book{ID: 1, Title: "Dune"}, nil)
				r.EXPECT().GetBook(ctx, 2).Return(model.Book{ID: 2, Title: "Solaris"}, nil)
				r.EXPECT().OffenderBooks(ctx, user.ID).Return(nil, nil)
				r.EXPECT().ListUnavailableBooks(ctx).
					Return([]model.Book{{ID: 2, Title: "Solaris"}}, nil)
				r.EXPECT().UserLoanCount(ctx, user.ID).Return(0, nil)
			},
			wantErr: &errs.UnavailableBooksError{Books: []model.Book{{ID: 2, Title: "Solaris"}}},
		},
		{
			name:    "err. loan cap exceeded",
			bookIDs: []int{1, 2},
			mockBehavior: func(r *service_mocks.MockRepository, _ *service_mocks.MockEventPublisher, _ []int) {
				r.EXPECT().GetUser(ctx, user.Username).Return(user, nil)
				r.EXPECT().GetBook(ctx, 1).Return(model.Book{ID: 1, Title: "Dune"}, nil)
				r.EXPECT().GetBook(ctx, 2).Return(model.Book{ID: 2, Title: "Solaris"}, nil)
				r.EXPECT().OffenderBooks(ctx, user.ID).Return(nil, nil)
				r.EXPECT().ListUnavailableBooks(ctx).Return(nil, nil)
				r.EXPECT().UserLoanCount(ctx, user.ID).Return(2, nil)
			},
			wantErr: errs.ErrTooManyBooks,
		},
		{
			name:    "err. insert loses the race for an open loan",
			bookIDs: []int{1},
			mockBehavior: func(r *service_mocks.MockRepository, _ *service_mocks.MockEventPublisher, _ []int) {
				r.EXPECT().GetUser(ctx, user.Username).Return(user, nil)
				r.EXPECT().GetBook(ctx, 1).Return(model.Book{ID: 1, Title: "Dune"}, nil)
				r.EXPECT().OffenderBooks(ctx, user.ID).Return(nil, nil)
				r.EXPECT().ListUnavailableBooks(ctx).Return(nil, nil)
				r.EXPECT().UserLoanCount(ctx, user.ID).Return(0, nil)
				r.EXPECT().CreateOrder(ctx, user.ID, []int{1}).
					Return(model.Order{}, &errs.UnavailableBooksError{Books: []model.Book{{ID: 1, Title: "Dune"}}})
			},
			wantErr: &errs.UnavailableBooksError{Books: []model.Book{{ID: 1, Title: "Dune"}}},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc, repo, _, events := newTestService(t)
			tt.mockBehavior(repo, events, tt.bookIDs)

			order, err := svc.CreateOrder(ctx, user.Username, tt.bookIDs)
			if tt.wantErr != nil {
				require.Error(t, err)
				require.EqualError(t, err, tt.wantErr.Error())
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantStatus, order.Status)
			require.Equal(t, user.Username, order.Username)
		})
	}
}

func TestService_ApproveOrder(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	const orderUid = "9d4f9e1c-2a1e-4a63-8f0f-3a8b1f1c2d3e"

	t.Run("ok arms one deferred job per book", func(t *testing.T) {
		t.Parallel()
		svc, repo, sched, events := newTestService(t)

		approved := model.Order{OrderUid: orderUid, UserID: 7, Username: "reader", Status: model.StatusApproved}
		repo.EXPECT().ApproveOrder(ctx, orderUid).Return(approved, []int{1, 2}, nil)

		before := time.Now().UTC().Add(gracePeriod)
		matchFireTime := gomock.AssignableToTypeOf(time.Time{})
		sched.EXPECT().Schedule(ctx, scheduler.JobID(1), matchFireTime, 7, 1).
			DoAndReturn(func(_ context.Context, _ string, fireTime time.Time, _, _ int) error {
				require.False(t, fireTime.Before(before))
				require.True(t, fireTime.Before(time.Now().UTC().Add(gracePeriod+time.Minute)))
				return nil
			})
		sched.EXPECT().Schedule(ctx, scheduler.JobID(2), matchFireTime, 7, 2).Return(nil)
		events.EXPECT().Enqueue(kafka.LendingEventsTopic, gomock.Any()).Return(nil)

		order, err := svc.ApproveOrder(ctx, orderUid)
		require.NoError(t, err)
		require.Equal(t, model.StatusApproved, order.Status)
	})

	t.Run("err. order already terminal", func(t *testing.T) {
		t.Parallel()
		svc, repo, _, _ := newTestService(t)

		wantErr := &errs.InvalidOrderStatusError{Status: model.StatusRejected}
		repo.EXPECT().ApproveOrder(ctx, orderUid).Return(model.Order{}, nil, wantErr)

		_, err := svc.ApproveOrder(ctx, orderUid)
		var statusErr *errs.InvalidOrderStatusError
		require.ErrorAs(t, err, &statusErr)
		require.Equal(t, model.StatusRejected, statusErr.Status)
	})

	t.Run("err. scheduler down", func(t *testing.T) {
		t.Parallel()
		svc, repo, sched, _ := newTestService(t)

		approved := model.Order{OrderUid: orderUid, UserID: 7, Status: model.StatusApproved}
		repo.EXPECT().ApproveOrder(ctx, orderUid).Return(approved, []int{1}, nil)
		sched.EXPECT().Schedule(ctx, scheduler.JobID(1), gomock.Any(), 7, 1).
			Return(errors.New("job store unavailable"))

		_, err := svc.ApproveOrder(ctx, orderUid)
		require.Error(t, err)
		require.Contains(t, err.Error(), "arm offender job for book 1")
	})
}

func TestService_RejectOrder(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	const orderUid = "9d4f9e1c-2a1e-4a63-8f0f-3a8b1f1c2d3e"

	t.Run("ok closes loans and revokes only this borrower's jobs", func(t *testing.T) {
		t.Parallel()
		svc, repo, sched, events := newTestService(t)

		// the cancel is keyed by borrower as well as book; a plain Cancel
		// by book id could delete a job armed for another order's loan of
		// the same book, and would fail these expectations
		rejected := model.Order{OrderUid: orderUid, UserID: 7, Username: "reader", Status: model.StatusRejected}
		repo.EXPECT().RejectOrder(ctx, orderUid).Return(rejected, []int{1, 2}, nil)
		sched.EXPECT().CancelFor(ctx, scheduler.JobID(1), 7).Return(nil)
		sched.EXPECT().CancelFor(ctx, scheduler.JobID(2), 7).Return(nil)
		events.EXPECT().Enqueue(kafka.LendingEventsTopic, gomock.Any()).Return(nil)

		order, err := svc.RejectOrder(ctx, orderUid)
		require.NoError(t, err)
		require.Equal(t, model.StatusRejected, order.Status)
	})

	t.Run("err. order already terminal", func(t *testing.T) {
		t.Parallel()
		svc, repo, _, _ := newTestService(t)

		repo.EXPECT().RejectOrder(ctx, orderUid).
			Return(model.Order{}, nil, &errs.InvalidOrderStatusError{Status: model.StatusApproved})

		_, err := svc.RejectOrder(ctx, orderUid)
		var statusErr *errs.InvalidOrderStatusError
		require.ErrorAs(t, err, &statusErr)
	})
}

func TestService_MarkBookReturned(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("ok closes the loan and revokes the job", func(t *testing.T) {
		t.Parallel()
		svc, repo, sched, events := newTestService(t)

		repo.EXPECT().GetBook(ctx, 1).Return(model.Book{ID: 1, Title: "Dune"}, nil)
		repo.EXPECT().CloseLoan(ctx, 1).Return(nil)
		sched.EXPECT().Cancel(ctx, scheduler.JobID(1)).Return(nil)
		events.EXPECT().Enqueue(kafka.LendingEventsTopic, gomock.Any()).Return(nil)

		require.NoError(t, svc.MarkBookReturned(ctx, 1))
	})

	t.Run("err. no open loan", func(t *testing.T) {
		t.Parallel()
		svc, repo, _, _ := newTestService(t)

		repo.EXPECT().GetBook(ctx, 1).Return(model.Book{ID: 1, Title: "Dune"}, nil)
		repo.EXPECT().CloseLoan(ctx, 1).Return(errs.ErrNoOpenLoan)

		require.ErrorIs(t, svc.MarkBookReturned(ctx, 1), errs.ErrNoOpenLoan)
	})

	t.Run("err. unknown book", func(t *testing.T) {
		t.Parallel()
		svc, repo, _, _ := newTestService(t)

		repo.EXPECT().GetBook(ctx, 404).Return(model.Book{}, errs.ErrNotFound)

		require.ErrorIs(t, svc.MarkBookReturned(ctx, 404), errs.ErrNotFound)
	})
}

func TestService_MarkOffender(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("ok marks while the borrower still holds the book", func(t *testing.T) {
		t.Parallel()
		svc, repo, _, events := newTestService(t)

		repo.EXPECT().IsLoanOpenForUser(ctx, 1, 7).Return(true, nil)
		repo.EXPECT().InsertOffender(ctx, 7, 1, gomock.AssignableToTypeOf(time.Time{})).Return(nil)
		events.EXPECT().Enqueue(kafka.LendingEventsTopic, gomock.Any()).Return(nil)

		require.NoError(t, svc.MarkOffender(ctx, 7, 1))
	})

	t.Run("ok skips when the book came back first", func(t *testing.T) {
		t.Parallel()
		svc, repo, _, _ := newTestService(t)

		repo.EXPECT().IsLoanOpenForUser(ctx, 1, 7).Return(false, nil)

		require.NoError(t, svc.MarkOffender(ctx, 7, 1))
	})

	t.Run("ok skips when the book was re-loaned to someone else", func(t *testing.T) {
		t.Parallel()
		svc, repo, _, _ := newTestService(t)

		// the book's loan is open again, but it belongs to another
		// borrower's order now; the original borrower is not marked
		repo.EXPECT().IsLoanOpenForUser(ctx, 1, 7).Return(false, nil)

		require.NoError(t, svc.MarkOffender(ctx, 7, 1))
	})
}

func TestService_ListBooks(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	available := []model.Book{{ID: 1, Title: "Dune"}}
	unavailable := []model.Book{{ID: 2, Title: "Solaris"}}

	t.Run("availability filter wins over search", func(t *testing.T) {
		t.Parallel()
		svc, repo, _, _ := newTestService(t)

		want := true
		repo.EXPECT().ListAvailableBooks(ctx).Return(available, nil)
		books, err := svc.ListBooks(ctx, "dune", &want)
		require.NoError(t, err)
		require.Equal(t, available, books)

		want = false
		repo.EXPECT().ListUnavailableBooks(ctx).Return(unavailable, nil)
		books, err = svc.ListBooks(ctx, "", &want)
		require.NoError(t, err)
		require.Equal(t, unavailable, books)
	})

	t.Run("title search without filter", func(t *testing.T) {
		t.Parallel()
		svc, repo, _, _ := newTestService(t)

		repo.EXPECT().ListBooks(ctx, "dune").Return(available, nil)
		books, err := svc.ListBooks(ctx, "dune", nil)
		require.NoError(t, err)
		require.Equal(t, available, books)
	})
}

func TestService_PublishFailureIsNotFatal(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, repo, sched, events := newTestService(t)

	repo.EXPECT().GetBook(ctx, 1).Return(model.Book{ID: 1, Title: "Dune"}, nil)
	repo.EXPECT().CloseLoan(ctx, 1).Return(nil)
	sched.EXPECT().Cancel(ctx, scheduler.JobID(1)).Return(nil)
	events.EXPECT().Enqueue(kafka.LendingEventsTopic, gomock.Any()).
		Return(errors.New("broker down"))

	require.NoError(t, svc.MarkBookReturned(ctx, 1))
}
