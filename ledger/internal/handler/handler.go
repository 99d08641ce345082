package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	"github.com/Astemirdum/lending-ledger/ledger/internal/errs"
	"github.com/Astemirdum/lending-ledger/ledger/internal/model"
	"github.com/Astemirdum/lending-ledger/pkg/auth"
	"github.com/Astemirdum/lending-ledger/pkg/kafka"
	md "github.com/Astemirdum/lending-ledger/pkg/middleware"
	"github.com/Astemirdum/lending-ledger/pkg/validate"
	_ "github.com/Astemirdum/lending-ledger/swagger"
)

type Handler struct {
	ledgerSvc LedgerService
	enqueuer  Enqueuer
	log       *zap.Logger
}

func New(ledgerSvc LedgerService, enqueuer Enqueuer, log *zap.Logger) *Handler {
	h := &Handler{
		ledgerSvc: ledgerSvc,
		enqueuer:  enqueuer,
		log:       log,
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
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodOptions, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
		AllowCredentials: true,
	}))

	base := e.Group("", md.NewRateLimiter(baseRPS))
	base.GET("/manage/health", h.Health)
	base.GET("/swagger/*", echoSwagger.WrapHandler)

	e.Validator = validate.NewCustomValidator()

	api := e.Group("/api/v1",
		middleware.RequestLoggerWithConfig(md.RequestLoggerConfig()),
		middleware.RequestID(),
		md.NewRateLimiter(apiRPS),
		md.JwtAuthentication,
	)

	api.GET("/books", h.ListBooks)
	api.GET("/books/:bookId", h.GetBook)
	api.PATCH("/books/:bookId/copies", h.AdjustTotal, md.AdminOnly)

	api.POST("/loans", h.Borrow)
	api.GET("/loans", h.ListLoans)
	api.GET("/loans/all", h.ListAllLoans, md.AdminOnly)
	api.GET("/loans/:loanId", h.GetLoan)
	api.POST("/loans/:loanId/return", h.Return)
	api.POST("/loans/sweep", h.Sweep, md.AdminOnly)

	return e
}

func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

// Borrow lends one copy of a book to the authenticated user.
func (h *Handler) Borrow(c echo.Context) error {
	ident, ok := auth.FromContext(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "no identity")
	}
	var req model.BorrowRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	loan, err := h.ledgerSvc.Borrow(c.Request().Context(), ident.UserID, req.BookID)
	if err != nil {
		return h.outcome(c, borrowStatus(err), err.Error(), nil)
	}

	h.enqueue(kafka.NewLendingEvent(kafka.EventBorrowed, loan.UserID, loan.BookID, loan.ID))
	return h.outcome(c, http.StatusCreated, "book borrowed", &model.LoanView{Loan: loan})
}

// Return closes a loan. The owner or an admin may return it; the check
// happens here at the boundary, the workflow below stays agnostic.
func (h *Handler) Return(c echo.Context) error {
	ident, ok := auth.FromContext(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "no identity")
	}
	loanID, err := parseID(c, "loanId")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	ctx := c.Request().Context()

	view, err := h.ledgerSvc.GetLoan(ctx, loanID)
	if err != nil {
		if errors.Is(err, errs.ErrLoanNotFound) {
			return h.outcome(c, http.StatusNotFound, err.Error(), nil)
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if view.UserID != ident.UserID && !ident.IsAdmin() {
		return h.outcome(c, http.StatusForbidden, "requester is not the loan owner", nil)
	}

	loan, err := h.ledgerSvc.Return(ctx, loanID)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrLoanNotFound):
			return h.outcome(c, http.StatusNotFound, err.Error(), nil)
		case errors.Is(err, errs.ErrAlreadyReturned):
			return h.outcome(c, http.StatusConflict, err.Error(), nil)
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	h.enqueue(kafka.NewLendingEvent(kafka.EventReturned, loan.UserID, loan.BookID, loan.ID))
	return h.outcome(c, http.StatusOK, "book returned", &model.LoanView{Loan: loan})
}

// Sweep is invoked by the external scheduler; it is safe to re-run.
func (h *Handler) Sweep(c echo.Context) error {
	swept, err := h.ledgerSvc.SweepOverdue(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	for _, loan := range swept {
		h.enqueue(kafka.NewLendingEvent(kafka.EventOverdue, loan.UserID, loan.BookID, loan.ID))
	}
	return c.JSON(http.StatusOK, model.SweepResponse{Count: len(swept)})
}

func (h *Handler) ListLoans(c echo.Context) error {
	ident, ok := auth.FromContext(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "no identity")
	}
	page, size, err := paging(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	history, err := h.ledgerSvc.ListLoans(c.Request().Context(), ident.UserID, page, size)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, history)
}

func (h *Handler) ListAllLoans(c echo.Context) error {
	page, size, err := paging(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	history, err := h.ledgerSvc.ListLoans(c.Request().Context(), 0, page, size)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, history)
}

func (h *Handler) GetLoan(c echo.Context) error {
	ident, ok := auth.FromContext(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "no identity")
	}
	loanID, err := parseID(c, "loanId")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	view, err := h.ledgerSvc.GetLoan(c.Request().Context(), loanID)
	if err != nil {
		if errors.Is(err, errs.ErrLoanNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if view.UserID != ident.UserID && !ident.IsAdmin() {
		return echo.NewHTTPError(http.StatusForbidden, "requester is not the loan owner")
	}
	return c.JSON(http.StatusOK, view)
}

func (h *Handler) GetBook(c echo.Context) error {
	bookID, err := parseID(c, "bookId")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	book, err := h.ledgerSvc.GetBook(c.Request().Context(), bookID)
	if err != nil {
		if errors.Is(err, errs.ErrBookNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, book)
}

func (h *Handler) ListBooks(c echo.Context) error {
	page, size, err := paging(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	var showAll bool
	if showAllParam := c.QueryParam("showAll"); showAllParam != "" {
		if showAll, err = strconv.ParseBool(showAllParam); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, errors.New("showAll is invalid"))
		}
	}
	books, err := h.ledgerSvc.ListBooks(c.Request().Context(), showAll, page, size)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, books)
}

func (h *Handler) AdjustTotal(c echo.Context) error {
	bookID, err := parseID(c, "bookId")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	var req model.AdjustTotalRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	book, err := h.ledgerSvc.AdjustTotal(c.Request().Context(), bookID, req.TotalCopies)
	if err != nil {
		if errors.Is(err, errs.ErrBookNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, book)
}

func (h *Handler) outcome(c echo.Context, code int, msg string, record *model.LoanView) error {
	return c.JSON(code, model.Outcome{
		Success: code < http.StatusBadRequest,
		Message: msg,
		Record:  record,
	})
}

func (h *Handler) enqueue(event kafka.LendingEvent) {
	if err := h.enqueuer.Enqueue(kafka.LendingTopic, event); err != nil {
		h.log.Warn("enqueue lending event", zap.Error(err))
	}
}

func borrowStatus(err error) int {
	switch {
	case errors.Is(err, errs.ErrUserNotFound), errors.Is(err, errs.ErrBookNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrLimitExceeded),
		errors.Is(err, errs.ErrAlreadyBorrowed),
		errors.Is(err, errs.ErrOutOfStock):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func parseID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.Errorf("%s is invalid", name)
	}
	return id, nil
}

func paging(c echo.Context) (page, size int, err error) {
	if pageParam := c.QueryParam("page"); pageParam != "" {
		if page, err = strconv.Atoi(pageParam); err != nil {
			return 0, 0, errors.New("page is invalid")
		}
	}
	if sizeParam := c.QueryParam("size"); sizeParam != "" {
		if size, err = strconv.Atoi(sizeParam); err != nil {
			return 0, 0, errors.New("size is invalid")
		}
	}
	return page, size, nil
}
