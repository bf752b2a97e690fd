package policy

import (
	"sort"

	"github.com/Astemirdum/lending-service/internal/errs"
	"github.com/Astemirdum/lending-service/internal/model"
)

// MaxBooksPerUser caps current loans plus requested books.
const MaxBooksPerUser = 3

// Input is a snapshot of the state the eligibility decision depends on.
// Evaluate never mutates anything; callers load the snapshot and translate
// the returned error at the boundary.
type Input struct {
	RequestedBookIDs []int
	CurrentLoanCount int
	// OffenderBooks are the books that made the user an offender, empty if
	// the user is clean.
	OffenderBooks []model.Book
	// UnavailableBooks is every book currently out on loan, keyed by id.
	UnavailableBooks map[int]model.Book
}

// Evaluate applies the lending rules in order and stops at the first
// violation.
func Evaluate(in Input) error {
	if len(in.RequestedBookIDs) == 0 {
		return errs.ErrNoRequestedBooks
	}

	if len(in.OffenderBooks) > 0 {
		return &errs.UserIsOffenderError{Books: in.OffenderBooks}
	}

	if conflicting := intersect(in.RequestedBookIDs, in.UnavailableBooks); len(conflicting) > 0 {
		return &errs.UnavailableBooksError{Books: conflicting}
	}

	if in.CurrentLoanCount+len(in.RequestedBookIDs) > MaxBooksPerUser {
		return errs.ErrTooManyBooks
	}

	return nil
}

// Dedup drops repeated ids, keeping ascending order.
func Dedup(ids []int) []int {
	seen := make(map[int]struct{}, len(ids))
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}

func intersect(ids []int, unavailable map[int]model.Book) []model.Book {
	var books []model.Book
	for _, id := range ids {
		if b, ok := unavailable[id]; ok {
			books = append(books, b)
		}
	}
	sort.Slice(books, func(i, j int) bool { return books[i].ID < books[j].ID })
	return books
}
