package model

import (
	"strings"
	"time"
)

type OrderStatus string

const (
	StatusPending  OrderStatus = "PENDING"
	StatusApproved OrderStatus = "APPROVED"
	StatusRejected OrderStatus = "REJECTED"
)

// Terminal reports whether no further transition is legal.
func (s OrderStatus) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// ParseStatusList turns strings like `pending,approved,unknown` into the
// known statuses, dropping anything unrecognized.
func ParseStatusList(state string) []OrderStatus {
	if state == "" {
		return nil
	}
	var statuses []OrderStatus
	for _, s := range strings.Split(state, ",") {
		switch OrderStatus(strings.ToUpper(strings.TrimSpace(s))) {
		case StatusPending:
			statuses = append(statuses, StatusPending)
		case StatusApproved:
			statuses = append(statuses, StatusApproved)
		case StatusRejected:
			statuses = append(statuses, StatusRejected)
		}
	}
	return statuses
}

type Book struct {
	ID       int    `json:"id" db:"id"`
	Title    string `json:"title" db:"title"`
	ISBN     string `json:"isbn" db:"isbn"`
	NumPages int    `json:"numPages" db:"num_pages"`
}

type Order struct {
	ID        int         `json:"-" db:"id"`
	OrderUid  string      `json:"orderUid" db:"order_uid"`
	UserID    int         `json:"-" db:"user_id"`
	Username  string      `json:"username" db:"username"`
	Status    OrderStatus `json:"status" db:"status"`
	CreatedAt time.Time   `json:"createdAt" db:"created_at"`
}

type OrderDetail struct {
	Order
	RequestedBooks []Book `json:"requestedBooks"`
}

// LoanRecord is open while FinishTime is NULL; at most one open record may
// exist per book.
type LoanRecord struct {
	ID         int        `json:"-" db:"id"`
	BookID     int        `json:"bookId" db:"book_id"`
	OrderID    int        `json:"-" db:"order_id"`
	StartTime  time.Time  `json:"startTime" db:"start_time"`
	FinishTime *time.Time `json:"finishTime,omitempty" db:"finish_time"`
}

type Offender struct {
	UserID     int       `json:"-" db:"user_id"`
	BookID     int       `json:"bookId" db:"book_id"`
	RecordedAt time.Time `json:"recordedAt" db:"recorded_at"`
}

type DeferredJob struct {
	JobID    string    `db:"job_id"`
	FireTime time.Time `db:"fire_time"`
	UserID   int       `db:"user_id"`
	BookID   int       `db:"book_id"`
}

type User struct {
	ID       int    `json:"-" db:"id"`
	Username string `json:"username" db:"username"`
	Email    string `json:"email" db:"email"`
	Password string `json:"-" db:"password"`
	Role     string `json:"role" db:"role"`
}

type CreateOrderRequest struct {
	BookIDs []int `json:"bookIds" validate:"required"`
}

type CreateOrderResponse struct {
	OrderUid string `json:"orderUid"`
}

type UserCreateRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"omitempty,oneof=READER LIBRARIAN ADMIN"`
}

type AuthRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	Token string `json:"token"`
}

type AvailabilityResponse struct {
	BookID    int  `json:"bookId"`
	Available bool `json:"available"`
}

type LendingEvent struct {
	ID        int       `json:"-" db:"id"`
	EventType string    `json:"eventType" db:"event_type"`
	Payload   []byte    `json:"payload" db:"payload"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

type EventMsg struct {
	EventType string `json:"eventType"`
	OrderUid  string `json:"orderUid,omitempty"`
	Username  string `json:"username,omitempty"`
	BookIDs   []int  `json:"bookIds,omitempty"`
}

const (
	EventOrderCreated  = "ORDER_CREATED"
	EventOrderApproved = "ORDER_APPROVED"
	EventOrderRejected = "ORDER_REJECTED"
	EventBookReturned  = "BOOK_RETURNED"
	EventOffenderMark  = "OFFENDER_MARKED"
)
