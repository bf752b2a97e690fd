package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Astemirdum/lending-service/internal/errs"
	"github.com/Astemirdum/lending-service/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

type Repository interface {
	// orders
	CreateOrder(ctx context.Context, userID int, bookIDs []int) (model.Order, error)
	GetOrder(ctx context.Context, orderUid string) (model.Order, error)
	GetOrderDetail(ctx context.Context, orderUid string, userID int, staff bool) (model.OrderDetail, error)
	ListOrders(ctx context.Context, userID int, staff bool, statuses []model.OrderStatus) ([]model.OrderDetail, error)
	ApproveOrder(ctx context.Context, orderUid string) (model.Order, []int, error)
	RejectOrder(ctx context.Context, orderUid string) (model.Order, []int, error)

	// loan ledger
	OpenLoan(ctx context.Context, bookID, orderID int, at time.Time) error
	CloseLoan(ctx context.Context, bookID int) error
	IsAvailable(ctx context.Context, bookID int) (bool, error)
	ListUnavailableBooks(ctx context.Context) ([]model.Book, error)
	ListAvailableBooks(ctx context.Context) ([]model.Book, error)
	IsLoanOpen(ctx context.Context, bookID int) (bool, error)
	IsLoanOpenForUser(ctx context.Context, bookID, userID int) (bool, error)
	UserLoanCount(ctx context.Context, userID int) (int, error)
	UserLoanedBooks(ctx context.Context, userID int) ([]model.Book, error)

	// offenders
	OffenderBooks(ctx context.Context, userID int) ([]model.Book, error)
	InsertOffender(ctx context.Context, userID, bookID int, at time.Time) error

	// books
	GetBook(ctx context.Context, bookID int) (model.Book, error)
	ListBooks(ctx context.Context, searchTerm string) ([]model.Book, error)
	InsertBooks(ctx context.Context, books []model.Book) (int, error)

	// users
	CreateUser(ctx context.Context, user model.User) error
	GetUser(ctx context.Context, username string) (model.User, error)

	// audit
	SaveEvent(ctx context.Context, eventType string, payload []byte) error
}

type repository struct {
	db  *sqlx.DB
	log *zap.Logger
}

func NewRepository(db *sqlx.DB, log *zap.Logger) (*repository, error) {
	return &repository{
		db:  db,
		log: log.Named("repo"),
	}, nil
}

const (
	bookTableName       = `book`
	ordersTableName     = `orders`
	loanRecordTableName = `loan_record`
	offenderTableName   = `offender`
	usersTableName      = `users`
	eventTableName      = `lending_event`
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// openLoanSQL keeps the single definition of "book is unavailable": an
// open loan record exists, whatever the owning order's status.
const openLoanSQL = `select book_id from loan_record where finish_time is null`

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

// CreateOrder inserts a PENDING order and opens one loan record per book in
// a single transaction. A concurrent create that already loaned one of the
// books trips the partial unique index and the whole order rolls back.
func (r *repository) CreateOrder(ctx context.Context, userID int, bookIDs []int) (model.Order, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return model.Order{}, err
	}
	defer tx.Rollback() //nolint:errcheck

	q, args, err := qb.Insert(ordersTableName).
		Columns("order_uid", "user_id", "status", "created_at").
		Values(uuid.New(), userID, model.StatusPending, time.Now().UTC()).
		Suffix("returning id, order_uid, user_id, status, created_at").
		ToSql()
	if err != nil {
		return model.Order{}, err
	}
	var order model.Order
	if err := tx.GetContext(ctx, &order, q, args...); err != nil {
		r.log.Error("CreateOrder insert", zap.String("q", q), zap.Any("args", args))
		return model.Order{}, err
	}

	now := time.Now().UTC()
	for _, bookID := range bookIDs {
		if err := openLoanTx(ctx, tx, bookID, order.ID, now); err != nil {
			var loanedErr *errs.BookAlreadyLoanedError
			if errors.As(err, &loanedErr) {
				book, bErr := r.GetBook(ctx, bookID)
				if bErr != nil {
					book = model.Book{ID: bookID}
				}
				return model.Order{}, &errs.UnavailableBooksError{Books: []model.Book{book}}
			}
			return model.Order{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return model.Order{}, err
	}
	return order, nil
}

func openLoanTx(ctx context.Context, tx sqlx.ExtContext, bookID, orderID int, at time.Time) error {
	q, args, err := qb.Insert(loanRecordTableName).
		Columns("book_id", "order_id", "start_time").
		Values(bookID, orderID, at).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, q, args...); err != nil {
		if isUniqueViolation(err) {
			return &errs.BookAlreadyLoanedError{BookID: bookID}
		}
		return err
	}
	return nil
}

// OpenLoan opens a loan record for bookID outside of the order flow.
func (r *repository) OpenLoan(ctx context.Context, bookID, orderID int, at time.Time) error {
	return openLoanTx(ctx, r.db, bookID, orderID, at)
}

// CloseLoan closes the single open loan record for bookID. Callers must
// have verified the book is loaned; a missing open record is an error.
func (r *repository) CloseLoan(ctx context.Context, bookID int) error {
	q := fmt.Sprintf(`update %s set finish_time = $2
	where book_id = $1 and finish_time is null`, loanRecordTableName)
	res, err := r.db.ExecContext(ctx, q, bookID, time.Now().UTC())
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errors.Wrapf(errs.ErrNoOpenLoan, "book %d", bookID)
	}
	return nil
}

func (r *repository) IsLoanOpen(ctx context.Context, bookID int) (bool, error) {
	var open bool
	q := fmt.Sprintf(`select exists (select 1 from %s where book_id = $1 and finish_time is null)`, loanRecordTableName)
	if err := r.db.QueryRowContext(ctx, q, bookID).Scan(&open); err != nil {
		return false, err
	}
	return open, nil
}

// IsLoanOpenForUser reports whether the book's open loan, if any, belongs
// to an order placed by userID. A book returned and re-loaned to someone
// else is open, but not for this user.
func (r *repository) IsLoanOpenForUser(ctx context.Context, bookID, userID int) (bool, error) {
	var open bool
	q := `
	select exists (
	select 1 from loan_record lr
	join orders o on o.id = lr.order_id
	where lr.book_id = $1 and o.user_id = $2 and lr.finish_time is null)
`
	if err := r.db.QueryRowContext(ctx, q, bookID, userID).Scan(&open); err != nil {
		return false, err
	}
	return open, nil
}

func (r *repository) IsAvailable(ctx context.Context, bookID int) (bool, error) {
	open, err := r.IsLoanOpen(ctx, bookID)
	if err != nil {
		return false, err
	}
	return !open, nil
}

func (r *repository) ListUnavailableBooks(ctx context.Context) ([]model.Book, error) {
	q := fmt.Sprintf(`select id, title, isbn, num_pages from %s
	where id in (%s)`, bookTableName, openLoanSQL)
	var books []model.Book
	if err := r.db.SelectContext(ctx, &books, q); err != nil {
		return nil, err
	}
	return books, nil
}

func (r *repository) ListAvailableBooks(ctx context.Context) ([]model.Book, error) {
	q := fmt.Sprintf(`select id, title, isbn, num_pages from %s
	where id not in (%s)`, bookTableName, openLoanSQL)
	var books []model.Book
	if err := r.db.SelectContext(ctx, &books, q); err != nil {
		return nil, err
	}
	return books, nil
}

func (r *repository) UserLoanCount(ctx context.Context, userID int) (int, error) {
	q := `
	select count(*) from loan_record lr
	join orders o on o.id = lr.order_id
	where o.user_id = $1 and lr.finish_time is null
`
	var count int
	if err := r.db.QueryRowContext(ctx, q, userID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *repository) UserLoanedBooks(ctx context.Context, userID int) ([]model.Book, error) {
	q := `
	select b.id, b.title, b.isbn, b.num_pages from book b
	join loan_record lr on lr.book_id = b.id
	join orders o on o.id = lr.order_id
	where o.user_id = $1 and lr.finish_time is null
	order by b.id
`
	var books []model.Book
	if err := r.db.SelectContext(ctx, &books, q, userID); err != nil {
		return nil, err
	}
	return books, nil
}

// ApproveOrder transitions a PENDING order to APPROVED and re-checks that
// the order still owns an open loan for each of its books, reopening any
// that were closed while the order sat pending.
func (r *repository) ApproveOrder(ctx context.Context, orderUid string) (model.Order, []int, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return model.Order{}, nil, err
	}
	defer tx.Rollback() //nolint:errcheck

	order, err := lockOrder(ctx, tx, orderUid)
	if err != nil {
		return model.Order{}, nil, err
	}
	if order.Status != model.StatusPending {
		return model.Order{}, nil, &errs.InvalidOrderStatusError{Status: order.Status}
	}

	type loanRow struct {
		BookID int  `db:"book_id"`
		Open   bool `db:"open"`
	}
	var loans []loanRow
	q := fmt.Sprintf(`select distinct book_id,
	bool_or(finish_time is null) as open
	from %s where order_id = $1 group by book_id`, loanRecordTableName)
	if err := tx.SelectContext(ctx, &loans, q, order.ID); err != nil {
		return model.Order{}, nil, err
	}

	now := time.Now().UTC()
	bookIDs := make([]int, 0, len(loans))
	for _, loan := range loans {
		bookIDs = append(bookIDs, loan.BookID)
		if loan.Open {
			continue
		}
		// the book was returned while pending, take it again for this order
		if err := openLoanTx(ctx, tx, loan.BookID, order.ID, now); err != nil {
			var loanedErr *errs.BookAlreadyLoanedError
			if errors.As(err, &loanedErr) {
				book, bErr := r.GetBook(ctx, loan.BookID)
				if bErr != nil {
					book = model.Book{ID: loan.BookID}
				}
				return model.Order{}, nil, &errs.UnavailableBooksError{Books: []model.Book{book}}
			}
			return model.Order{}, nil, err
		}
	}

	if err := setOrderStatus(ctx, tx, order.ID, model.StatusApproved); err != nil {
		return model.Order{}, nil, err
	}
	if err := tx.Commit(); err != nil {
		return model.Order{}, nil, err
	}
	order.Status = model.StatusApproved
	return order, bookIDs, nil
}

// RejectOrder transitions a PENDING order to REJECTED and closes all of its
// loan records. Closing is no-op tolerant here: a rejected order may own
// loans that were already returned.
func (r *repository) RejectOrder(ctx context.Context, orderUid string) (model.Order, []int, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return model.Order{}, nil, err
	}
	defer tx.Rollback() //nolint:errcheck

	order, err := lockOrder(ctx, tx, orderUid)
	if err != nil {
		return model.Order{}, nil, err
	}
	if order.Status != model.StatusPending {
		return model.Order{}, nil, &errs.InvalidOrderStatusError{Status: order.Status}
	}

	if err := setOrderStatus(ctx, tx, order.ID, model.StatusRejected); err != nil {
		return model.Order{}, nil, err
	}

	q := fmt.Sprintf(`update %s set finish_time = $2
	where order_id = $1 and finish_time is null`, loanRecordTableName)
	if _, err := tx.ExecContext(ctx, q, order.ID, time.Now().UTC()); err != nil {
		return model.Order{}, nil, err
	}

	var bookIDs []int
	qIDs := fmt.Sprintf(`select distinct book_id from %s where order_id = $1 order by book_id`, loanRecordTableName)
	if err := tx.SelectContext(ctx, &bookIDs, qIDs, order.ID); err != nil {
		return model.Order{}, nil, err
	}

	if err := tx.Commit(); err != nil {
		return model.Order{}, nil, err
	}
	order.Status = model.StatusRejected
	return order, bookIDs, nil
}

func lockOrder(ctx context.Context, tx *sqlx.Tx, orderUid string) (model.Order, error) {
	q := `
	select o.id, o.order_uid, o.user_id, o.status, o.created_at, u.username
	from orders o join users u on u.id = o.user_id
	where o.order_uid = $1 for update of o
`
	var order model.Order
	if err := tx.GetContext(ctx, &order, q, orderUid); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Order{}, errs.ErrNotFound
		}
		return model.Order{}, err
	}
	return order, nil
}

func setOrderStatus(ctx context.Context, tx sqlx.ExtContext, orderID int, status model.OrderStatus) error {
	q, args, err := qb.Update(ordersTableName).
		Set("status", status).
		Where(sq.Eq{"id": orderID}).
		ToSql()
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, q, args...)
	return err
}

func (r *repository) GetOrder(ctx context.Context, orderUid string) (model.Order, error) {
	q := `
	select o.id, o.order_uid, o.user_id, o.status, o.created_at, u.username
	from orders o join users u on u.id = o.user_id
	where o.order_uid = $1
`
	var order model.Order
	if err := r.db.GetContext(ctx, &order, q, orderUid); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Order{}, errs.ErrNotFound
		}
		return model.Order{}, err
	}
	return order, nil
}

func (r *repository) GetOrderDetail(ctx context.Context, orderUid string, userID int, staff bool) (model.OrderDetail, error) {
	order, err := r.GetOrder(ctx, orderUid)
	if err != nil {
		return model.OrderDetail{}, err
	}
	// non-staff callers only see their own orders, and learn nothing about
	// anyone else's
	if !staff && order.UserID != userID {
		return model.OrderDetail{}, errs.ErrNotFound
	}

	books, err := r.orderBooks(ctx, order.ID)
	if err != nil {
		return model.OrderDetail{}, err
	}
	return model.OrderDetail{Order: order, RequestedBooks: books}, nil
}

func (r *repository) orderBooks(ctx context.Context, orderID int) ([]model.Book, error) {
	q := `
	select distinct b.id, b.title, b.isbn, b.num_pages from book b
	join loan_record lr on lr.book_id = b.id
	where lr.order_id = $1
	order by b.id
`
	var books []model.Book
	if err := r.db.SelectContext(ctx, &books, q, orderID); err != nil {
		return nil, err
	}
	return books, nil
}

func (r *repository) ListOrders(ctx context.Context, userID int, staff bool, statuses []model.OrderStatus) ([]model.OrderDetail, error) {
	q := qb.Select("o.id", "o.order_uid", "o.user_id", "o.status", "o.created_at", "u.username").
		From(ordersTableName + " o").
		Join(usersTableName + " u on u.id = o.user_id").
		OrderBy("o.created_at desc")
	if len(statuses) > 0 {
		q = q.Where(sq.Eq{"o.status": statuses})
	}
	if !staff {
		q = q.Where(sq.Eq{"o.user_id": userID})
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}
	var orders []model.Order
	if err := r.db.SelectContext(ctx, &orders, query, args...); err != nil {
		return nil, err
	}

	details := make([]model.OrderDetail, 0, len(orders))
	for _, order := range orders {
		books, err := r.orderBooks(ctx, order.ID)
		if err != nil {
			return nil, err
		}
		details = append(details, model.OrderDetail{Order: order, RequestedBooks: books})
	}
	return details, nil
}

func (r *repository) OffenderBooks(ctx context.Context, userID int) ([]model.Book, error) {
	q := `
	select b.id, b.title, b.isbn, b.num_pages from book b
	join offender f on f.book_id = b.id
	where f.user_id = $1
	order by b.id
`
	var books []model.Book
	if err := r.db.SelectContext(ctx, &books, q, userID); err != nil {
		return nil, err
	}
	return books, nil
}

// InsertOffender tolerates duplicate firing for the same (user, book).
func (r *repository) InsertOffender(ctx context.Context, userID, bookID int, at time.Time) error {
	q := fmt.Sprintf(`insert into %s (user_id, book_id, recorded_at)
	values ($1, $2, $3) on conflict (user_id, book_id) do nothing`, offenderTableName)
	_, err := r.db.ExecContext(ctx, q, userID, bookID, at)
	return err
}

func (r *repository) GetBook(ctx context.Context, bookID int) (model.Book, error) {
	q, args, err := qb.Select("id", "title", "isbn", "num_pages").
		From(bookTableName).
		Where(sq.Eq{"id": bookID}).
		ToSql()
	if err != nil {
		return model.Book{}, err
	}
	var book model.Book
	if err := r.db.GetContext(ctx, &book, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Book{}, errs.ErrNotFound
		}
		return model.Book{}, err
	}
	return book, nil
}

func (r *repository) ListBooks(ctx context.Context, searchTerm string) ([]model.Book, error) {
	q := qb.Select("id", "title", "isbn", "num_pages").
		From(bookTableName).
		OrderBy("id")
	if searchTerm != "" {
		q = q.Where(sq.ILike{"title": "%" + searchTerm + "%"})
	}
	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}
	var books []model.Book
	if err := r.db.SelectContext(ctx, &books, query, args...); err != nil {
		return nil, err
	}
	return books, nil
}

func (r *repository) InsertBooks(ctx context.Context, books []model.Book) (int, error) {
	if len(books) == 0 {
		return 0, nil
	}
	q := qb.Insert(bookTableName).Columns("title", "isbn", "num_pages")
	for _, b := range books {
		q = q.Values(b.Title, b.ISBN, b.NumPages)
	}
	query, args, err := q.ToSql()
	if err != nil {
		return 0, err
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.log.Error("InsertBooks", zap.String("q", query), zap.Any("args", args))
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

func (r *repository) CreateUser(ctx context.Context, user model.User) error {
	q, args, err := qb.Insert(usersTableName).
		Columns("username", "email", "password", "role").
		Values(user.Username, user.Email, user.Password, user.Role).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, q, args...); err != nil {
		if isUniqueViolation(err) {
			return errs.ErrUserExists
		}
		return err
	}
	return nil
}

func (r *repository) GetUser(ctx context.Context, username string) (model.User, error) {
	q, args, err := qb.Select("id", "username", "email", "password", "role").
		From(usersTableName).
		Where(sq.Eq{"username": username}).
		ToSql()
	if err != nil {
		return model.User{}, err
	}
	var user model.User
	if err := r.db.GetContext(ctx, &user, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, errs.ErrNotFound
		}
		return model.User{}, err
	}
	return user, nil
}

func (r *repository) SaveEvent(ctx context.Context, eventType string, payload []byte) error {
	q, args, err := qb.Insert(eventTableName).
		Columns("event_type", "payload", "created_at").
		Values(eventType, payload, time.Now().UTC()).
		ToSql()
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, q, args...)
	return err
}
