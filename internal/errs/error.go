package errs

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Astemirdum/lending-service/internal/model"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrNoRequestedBooks = errors.New("book list can't be empty. Provide book ids. Example: [1, 2]")
	ErrTooManyBooks     = errors.New("you can't have more than 3 books at the time")
	ErrNoOpenLoan       = errors.New("no open loan record for book")
	ErrUserExists       = errors.New("user already exists")
)

// InvalidOrderStatusError is returned when a transition is attempted on a
// non-PENDING order.
type InvalidOrderStatusError struct {
	Status model.OrderStatus
}

func (e *InvalidOrderStatusError) Error() string {
	return fmt.Sprintf("status must be in `PENDING` state. Status: `%s`", e.Status)
}

// UnavailableBooksError names the requested books that are already out on
// loan.
type UnavailableBooksError struct {
	Books []model.Book
}

func (e *UnavailableBooksError) Error() string {
	return fmt.Sprintf("not available: %s", enumerateBooks(e.Books))
}

// UserIsOffenderError names the overdue books that made the user an
// offender.
type UserIsOffenderError struct {
	Books []model.Book
}

func (e *UserIsOffenderError) Error() string {
	return fmt.Sprintf("user is an offender, overdue books: %s", enumerateBooks(e.Books))
}

// BookAlreadyLoanedError reports an open-loan conflict for a single book.
type BookAlreadyLoanedError struct {
	BookID int
}

func (e *BookAlreadyLoanedError) Error() string {
	return fmt.Sprintf("book %d is already loaned", e.BookID)
}

func enumerateBooks(books []model.Book) string {
	parts := make([]string, 0, len(books))
	for _, b := range books {
		parts = append(parts, fmt.Sprintf("`%d - %s`", b.ID, b.Title))
	}
	return strings.Join(parts, ", ")
}
