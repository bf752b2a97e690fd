package handler

import (
	"context"

	"github.com/Astemirdum/lending-service/internal/model"
	"github.com/Astemirdum/lending-service/internal/service"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

type LendingService interface {
	CreateOrder(ctx context.Context, username string, bookIDs []int) (model.Order, error)
	ApproveOrder(ctx context.Context, orderUid string) (model.Order, error)
	RejectOrder(ctx context.Context, orderUid string) (model.Order, error)
	GetOrder(ctx context.Context, orderUid, username string, staff bool) (model.OrderDetail, error)
	ListOrders(ctx context.Context, username string, staff bool, state string) ([]model.OrderDetail, error)

	MarkBookReturned(ctx context.Context, bookID int) error
	GetBookAvailability(ctx context.Context, bookID int) (bool, error)
	GetBook(ctx context.Context, bookID int) (model.Book, error)
	ListBooks(ctx context.Context, searchTerm string, available *bool) ([]model.Book, error)
	UserBooks(ctx context.Context, username string) ([]model.Book, error)
	ImportBooks(ctx context.Context, books []model.Book) (int, error)

	RegisterUser(ctx context.Context, req model.UserCreateRequest) error
	GetUser(ctx context.Context, username string) (model.User, error)
}

var _ LendingService = (*service.Service)(nil)
