package service

import (
	"context"
	"time"

	"github.com/Astemirdum/lending-service/internal/model"
	"github.com/Astemirdum/lending-service/internal/policy"
	"github.com/Astemirdum/lending-service/internal/repository"
	"github.com/Astemirdum/lending-service/internal/scheduler"
	"github.com/Astemirdum/lending-service/pkg/auth"
	"github.com/Astemirdum/lending-service/pkg/kafka"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

// EventPublisher feeds the lending event topic. Publishing is best-effort:
// a failed publish never fails the operation that produced the event.
type EventPublisher interface {
	Enqueue(topic string, v any) error
}

type Service struct {
	log           *zap.Logger
	repo          repository.Repository
	sched         scheduler.Scheduler
	events        EventPublisher
	offenderAfter time.Duration
}

func NewService(repo repository.Repository, sched scheduler.Scheduler, events EventPublisher, offenderAfter time.Duration, log *zap.Logger) *Service {
	return &Service{
		log:           log,
		repo:          repo,
		sched:         sched,
		events:        events,
		offenderAfter: offenderAfter,
	}
}

// CreateOrder gates the request through the eligibility rules, then inserts
// the PENDING order with one open loan record per book. The eligibility
// pre-check and the mutation are two steps; the loan ledger's unique open
// loan constraint settles any race between them.
func (s *Service) CreateOrder(ctx context.Context, username string, bookIDs []int) (model.Order, error) {
	user, err := s.repo.GetUser(ctx, username)
	if err != nil {
		return model.Order{}, err
	}

	bookIDs = policy.Dedup(bookIDs)
	for _, id := range bookIDs {
		if _, err := s.repo.GetBook(ctx, id); err != nil {
			return model.Order{}, err
		}
	}

	in, err := s.eligibilityInput(ctx, user.ID, bookIDs)
	if err != nil {
		return model.Order{}, err
	}
	if err := policy.Evaluate(in); err != nil {
		return model.Order{}, err
	}

	order, err := s.repo.CreateOrder(ctx, user.ID, bookIDs)
	if err != nil {
		return model.Order{}, err
	}
	order.Username = user.Username

	s.publish(model.EventMsg{
		EventType: model.EventOrderCreated,
		OrderUid:  order.OrderUid,
		Username:  user.Username,
		BookIDs:   bookIDs,
	})
	return order, nil
}

func (s *Service) eligibilityInput(ctx context.Context, userID int, bookIDs []int) (policy.Input, error) {
	offenderBooks, err := s.repo.OffenderBooks(ctx, userID)
	if err != nil {
		return policy.Input{}, err
	}
	unavailable, err := s.repo.ListUnavailableBooks(ctx)
	if err != nil {
		return policy.Input{}, err
	}
	unavailableByID := make(map[int]model.Book, len(unavailable))
	for _, b := range unavailable {
		unavailableByID[b.ID] = b
	}
	loanCount, err := s.repo.UserLoanCount(ctx, userID)
	if err != nil {
		return policy.Input{}, err
	}
	return policy.Input{
		RequestedBookIDs: bookIDs,
		CurrentLoanCount: loanCount,
		OffenderBooks:    offenderBooks,
		UnavailableBooks: unavailableByID,
	}, nil
}

// ApproveOrder transitions the order to APPROVED and arms one deferred
// offender job per loaned book.
func (s *Service) ApproveOrder(ctx context.Context, orderUid string) (model.Order, error) {
	order, bookIDs, err := s.repo.ApproveOrder(ctx, orderUid)
	if err != nil {
		return model.Order{}, err
	}

	fireTime := time.Now().UTC().Add(s.offenderAfter)
	for _, bookID := range bookIDs {
		if err := s.sched.Schedule(ctx, scheduler.JobID(bookID), fireTime, order.UserID, bookID); err != nil {
			return model.Order{}, errors.Wrapf(err, "arm offender job for book %d", bookID)
		}
	}

	s.publish(model.EventMsg{
		EventType: model.EventOrderApproved,
		OrderUid:  order.OrderUid,
		Username:  order.Username,
		BookIDs:   bookIDs,
	})
	return order, nil
}

// RejectOrder transitions the order to REJECTED, closes all of its loan
// records and revokes any jobs armed for those books on this borrower's
// behalf. The cancel is keyed by borrower as well as book: a job armed for
// another order that loaned the same book in the meantime must survive.
func (s *Service) RejectOrder(ctx context.Context, orderUid string) (model.Order, error) {
	order, bookIDs, err := s.repo.RejectOrder(ctx, orderUid)
	if err != nil {
		return model.Order{}, err
	}

	for _, bookID := range bookIDs {
		if err := s.sched.CancelFor(ctx, scheduler.JobID(bookID), order.UserID); err != nil {
			return model.Order{}, errors.Wrapf(err, "cancel offender job for book %d", bookID)
		}
	}

	s.publish(model.EventMsg{
		EventType: model.EventOrderRejected,
		OrderUid:  order.OrderUid,
		Username:  order.Username,
		BookIDs:   bookIDs,
	})
	return order, nil
}

// MarkBookReturned closes the book's open loan and revokes its deferred
// job. Cancelling an already fired job is a no-op.
func (s *Service) MarkBookReturned(ctx context.Context, bookID int) error {
	if _, err := s.repo.GetBook(ctx, bookID); err != nil {
		return err
	}
	if err := s.repo.CloseLoan(ctx, bookID); err != nil {
		return err
	}
	if err := s.sched.Cancel(ctx, scheduler.JobID(bookID)); err != nil {
		return errors.Wrapf(err, "cancel offender job for book %d", bookID)
	}

	s.publish(model.EventMsg{
		EventType: model.EventBookReturned,
		BookIDs:   []int{bookID},
	})
	return nil
}

// MarkOffender is the deferred job's firing side. The job store delivers
// at-least-once, so firing must stay harmless for a book that was returned
// after the fire time passed, or returned and already loaned out again to
// someone else.
func (s *Service) MarkOffender(ctx context.Context, userID, bookID int) error {
	open, err := s.repo.IsLoanOpenForUser(ctx, bookID, userID)
	if err != nil {
		return err
	}
	if !open {
		s.log.Debug("offender job fired but the borrower no longer holds the book, skipping",
			zap.Int("user_id", userID), zap.Int("book_id", bookID))
		return nil
	}
	if err := s.repo.InsertOffender(ctx, userID, bookID, time.Now().UTC()); err != nil {
		return err
	}

	s.publish(model.EventMsg{
		EventType: model.EventOffenderMark,
		BookIDs:   []int{bookID},
	})
	return nil
}

func (s *Service) GetBookAvailability(ctx context.Context, bookID int) (bool, error) {
	if _, err := s.repo.GetBook(ctx, bookID); err != nil {
		return false, err
	}
	return s.repo.IsAvailable(ctx, bookID)
}

func (s *Service) GetBook(ctx context.Context, bookID int) (model.Book, error) {
	return s.repo.GetBook(ctx, bookID)
}

// ListBooks returns all books, optionally filtered by title search or by
// availability. The availability filter wins over search, as the two were
// never combined upstream.
func (s *Service) ListBooks(ctx context.Context, searchTerm string, available *bool) ([]model.Book, error) {
	if available != nil {
		if *available {
			return s.repo.ListAvailableBooks(ctx)
		}
		return s.repo.ListUnavailableBooks(ctx)
	}
	return s.repo.ListBooks(ctx, searchTerm)
}

func (s *Service) UserBooks(ctx context.Context, username string) ([]model.Book, error) {
	user, err := s.repo.GetUser(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.repo.UserLoanedBooks(ctx, user.ID)
}

func (s *Service) ImportBooks(ctx context.Context, books []model.Book) (int, error) {
	return s.repo.InsertBooks(ctx, books)
}

func (s *Service) GetOrder(ctx context.Context, orderUid, username string, staff bool) (model.OrderDetail, error) {
	user, err := s.repo.GetUser(ctx, username)
	if err != nil {
		return model.OrderDetail{}, err
	}
	return s.repo.GetOrderDetail(ctx, orderUid, user.ID, staff)
}

func (s *Service) ListOrders(ctx context.Context, username string, staff bool, state string) ([]model.OrderDetail, error) {
	user, err := s.repo.GetUser(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.repo.ListOrders(ctx, user.ID, staff, model.ParseStatusList(state))
}

func (s *Service) RegisterUser(ctx context.Context, req model.UserCreateRequest) error {
	role := req.Role
	if role == "" {
		role = auth.RoleReader
	}
	return s.repo.CreateUser(ctx, model.User{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     role,
	})
}

func (s *Service) GetUser(ctx context.Context, username string) (model.User, error) {
	return s.repo.GetUser(ctx, username)
}

func (s *Service) publish(msg model.EventMsg) {
	if s.events == nil {
		return
	}
	if err := s.events.Enqueue(kafka.LendingEventsTopic, msg); err != nil {
		s.log.Warn("publish lending event",
			zap.String("event_type", msg.EventType), zap.Error(err))
	}
}
