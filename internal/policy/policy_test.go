package policy_test

import (
	"testing"

	"github.com/Astemirdum/lending-service/internal/errs"
	"github.com/Astemirdum/lending-service/internal/model"
	"github.com/Astemirdum/lending-service/internal/policy"
	"github.com/stretchr/testify/require"
)

func TestEvaluate(t *testing.T) {
	t.Parallel()

	unavailable := map[int]model.Book{
		7: {ID: 7, Title: "Краткий курс C++ в 7 томах"},
		9: {ID: 9, Title: "Программирование на языке Rust"},
	}

	tests := []struct {
		name    string
		in      policy.Input
		wantErr error
	}{
		{
			name: "ok",
			in: policy.Input{
				RequestedBookIDs: []int{1, 2},
			},
		},
		{
			name:    "empty request",
			in:      policy.Input{},
			wantErr: errs.ErrNoRequestedBooks,
		},
		{
			name: "offender blocked",
			in: policy.Input{
				RequestedBookIDs: []int{1},
				OffenderBooks:    []model.Book{{ID: 9, Title: "Программирование на языке Rust"}},
			},
			wantErr: &errs.UserIsOffenderError{},
		},
		{
			name: "unavailable books",
			in: policy.Input{
				RequestedBookIDs: []int{1, 7},
				UnavailableBooks: unavailable,
			},
			wantErr: &errs.UnavailableBooksError{},
		},
		{
			name: "2 loaned + 2 requested over cap",
			in: policy.Input{
				RequestedBookIDs: []int{1, 2},
				CurrentLoanCount: 2,
			},
			wantErr: errs.ErrTooManyBooks,
		},
		{
			name: "2 loaned + 1 requested at cap",
			in: policy.Input{
				RequestedBookIDs: []int{1},
				CurrentLoanCount: 2,
			},
		},
		{
			name: "offender checked before availability",
			in: policy.Input{
				RequestedBookIDs: []int{7},
				OffenderBooks:    []model.Book{{ID: 7, Title: "Краткий курс C++ в 7 томах"}},
				UnavailableBooks: unavailable,
			},
			wantErr: &errs.UserIsOffenderError{},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := policy.Evaluate(tt.in)
			switch want := tt.wantErr.(type) {
			case nil:
				require.NoError(t, err)
			case *errs.UserIsOffenderError:
				var e *errs.UserIsOffenderError
				require.ErrorAs(t, err, &e)
			case *errs.UnavailableBooksError:
				var e *errs.UnavailableBooksError
				require.ErrorAs(t, err, &e)
				require.Contains(t, e.Error(), "7 - Краткий курс C++ в 7 томах")
			default:
				require.ErrorIs(t, err, want)
			}
		})
	}
}

func TestDedup(t *testing.T) {
	t.Parallel()
	require.Equal(t, []int{1, 2, 5}, policy.Dedup([]int{5, 1, 2, 1, 5}))
	require.Empty(t, policy.Dedup(nil))
}
