package handler

import (
	"encoding/csv"
	"io"
	"net/http"
	"strconv"
	"time"

	md "github.com/Astemirdum/lending-service/pkg/middleware"

	"github.com/Astemirdum/lending-service/internal/errs"
	"github.com/Astemirdum/lending-service/internal/model"
	"github.com/Astemirdum/lending-service/pkg/auth"
	"github.com/Astemirdum/lending-service/pkg/validate"
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type Handler struct {
	lendingSvc LendingService
	log        *zap.Logger
}

func New(lendingSvc LendingService, log *zap.Logger) *Handler {
	h := &Handler{
		lendingSvc: lendingSvc,
		log:        log,
	}
	return h
}

func (h *Handler) NewRouter() *echo.Echo {
	e := echo.New()
	const (
		baseRPS = 10
		apiRPS  = 100
	)
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10, // 4 KB
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodOptions, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
		AllowCredentials: true,
	}))

	base := e.Group("", md.NewRateLimiter(baseRPS))
	base.GET("/manage/health", h.Health)

	e.Validator = validate.NewCustomValidator()
	api := e.Group("/api/v1",
		middleware.RequestLoggerWithConfig(md.RequestLoggerConfig()),
		middleware.RequestID(),
		md.NewRateLimiter(apiRPS),
	)

	api.POST("/register", h.Register)
	api.POST("/authorize", h.Authorize)

	authed := api.Group("", md.JwtAuthentication)
	authed.GET("/books", h.GetBooks)
	authed.GET("/books/mine", h.GetMyBooks)
	authed.GET("/books/:bookId", h.GetBook)
	authed.GET("/books/:bookId/availability", h.GetBookAvailability)

	authed.GET("/orders", h.GetOrders)
	authed.POST("/orders", h.CreateOrder)
	authed.GET("/orders/:orderUid", h.GetOrder)

	staff := authed.Group("", md.StaffOnly)
	staff.POST("/books/:bookId/return", h.ReturnBook)
	staff.POST("/books/import", h.ImportBooks)
	staff.POST("/orders/:orderUid/approve", h.ApproveOrder)
	staff.POST("/orders/:orderUid/reject", h.RejectOrder)

	return e
}

func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

// httpError maps the domain error taxonomy onto transport codes: policy
// violations are 400 with the offending entities named, unknown entities
// are a bare 404, illegal transitions are 409 with the current state, and
// anything else is a 500.
func httpError(err error) *echo.HTTPError {
	var (
		offenderErr    *errs.UserIsOffenderError
		unavailableErr *errs.UnavailableBooksError
		statusErr      *errs.InvalidOrderStatusError
	)
	switch {
	case errors.Is(err, errs.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, errs.ErrNotFound.Error())
	case errors.Is(err, errs.ErrNoRequestedBooks),
		errors.Is(err, errs.ErrTooManyBooks),
		errors.Is(err, errs.ErrUserExists),
		errors.As(err, &offenderErr),
		errors.As(err, &unavailableErr):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.As(err, &statusErr), errors.Is(err, errs.ErrNoOpenLoan):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

func identity(c echo.Context) (auth.Identity, error) {
	id, ok := auth.FromContext(c.Request().Context())
	if !ok {
		return auth.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "no identity")
	}
	return id, nil
}

func (h *Handler) Register(c echo.Context) error {
	var req model.UserCreateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.lendingSvc.RegisterUser(c.Request().Context(), req); err != nil {
		return httpError(err)
	}
	return c.String(http.StatusCreated, "ok")
}

func (h *Handler) Authorize(c echo.Context) error {
	var credentials model.AuthRequest
	if err := c.Bind(&credentials); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&credentials); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	ctx := c.Request().Context()
	user, err := h.lendingSvc.GetUser(ctx, credentials.Username)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
		}
		return httpError(err)
	}
	if user.Password != credentials.Password {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
	}

	expirationTime := time.Now().Add(24 * time.Hour)
	claims := &auth.Claims{
		Profile: struct {
			Username string `json:"username"`
			Role     string `json:"role"`
		}{
			Username: user.Username,
			Role:     user.Role,
		},
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(auth.JWTKey)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, model.AuthResponse{Token: tokenString})
}

func (h *Handler) GetBooks(c echo.Context) error {
	var available *bool
	if raw := c.QueryParam("available"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid available param")
		}
		available = &v
	}
	books, err := h.lendingSvc.ListBooks(c.Request().Context(), c.QueryParam("search"), available)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, books)
}

func (h *Handler) GetMyBooks(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	books, err := h.lendingSvc.UserBooks(c.Request().Context(), id.Username)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, books)
}

func (h *Handler) GetBook(c echo.Context) error {
	bookID, err := strconv.Atoi(c.Param("bookId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid bookId")
	}
	book, err := h.lendingSvc.GetBook(c.Request().Context(), bookID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, book)
}

func (h *Handler) GetBookAvailability(c echo.Context) error {
	bookID, err := strconv.Atoi(c.Param("bookId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid bookId")
	}
	available, err := h.lendingSvc.GetBookAvailability(c.Request().Context(), bookID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, model.AvailabilityResponse{BookID: bookID, Available: available})
}

func (h *Handler) ReturnBook(c echo.Context) error {
	bookID, err := strconv.Atoi(c.Param("bookId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid bookId")
	}
	if err := h.lendingSvc.MarkBookReturned(c.Request().Context(), bookID); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusOK)
}

// ImportBooks reads a `;`-separated csv upload: title;isbn;num_pages.
func (h *Handler) ImportBooks(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "file is required")
	}
	f, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	defer f.Close()

	books, err := parseBooksCSV(f)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	n, err := h.lendingSvc.ImportBooks(c.Request().Context(), books)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"inserted": n})
}

func parseBooksCSV(r io.Reader) ([]model.Book, error) {
	reader := csv.NewReader(r)
	reader.Comma = ';'
	reader.FieldsPerRecord = 3

	var books []model.Book
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		numPages, err := strconv.Atoi(record[2])
		if err != nil {
			return nil, errors.Wrapf(err, "num_pages %q", record[2])
		}
		books = append(books, model.Book{
			Title:    record[0],
			ISBN:     record[1],
			NumPages: numPages,
		})
	}
	return books, nil
}

func (h *Handler) CreateOrder(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	var req model.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	order, err := h.lendingSvc.CreateOrder(c.Request().Context(), id.Username, req.BookIDs)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, model.CreateOrderResponse{OrderUid: order.OrderUid})
}

func (h *Handler) GetOrders(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	orders, err := h.lendingSvc.ListOrders(c.Request().Context(), id.Username, id.IsStaff(), c.QueryParam("state"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *Handler) GetOrder(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	orderUid := c.Param("orderUid")
	if orderUid == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "orderUid is empty")
	}
	order, err := h.lendingSvc.GetOrder(c.Request().Context(), orderUid, id.Username, id.IsStaff())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, order)
}

func (h *Handler) ApproveOrder(c echo.Context) error {
	orderUid := c.Param("orderUid")
	if orderUid == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "orderUid is empty")
	}
	order, err := h.lendingSvc.ApproveOrder(c.Request().Context(), orderUid)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, order)
}

func (h *Handler) RejectOrder(c echo.Context) error {
	orderUid := c.Param("orderUid")
	if orderUid == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "orderUid is empty")
	}
	order, err := h.lendingSvc.RejectOrder(c.Request().Context(), orderUid)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, order)
}
