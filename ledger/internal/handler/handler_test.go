package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Astemirdum/lending-ledger/ledger/internal/errs"
	"github.com/Astemirdum/lending-ledger/ledger/internal/handler"
	service_mocks "github.com/Astemirdum/lending-ledger/ledger/internal/handler/mocks"
	"github.com/Astemirdum/lending-ledger/ledger/internal/model"
	"github.com/Astemirdum/lending-ledger/pkg/auth"
	"github.com/Astemirdum/lending-ledger/pkg/kafka"
	"github.com/Astemirdum/lending-ledger/pkg/validate"
)

func withIdentity(userID int64, role auth.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			c.SetRequest(req.WithContext(auth.SetAuthContext(req.Context(), userID, role)))
			return next(c)
		}
	}
}

func TestHandler_Borrow(t *testing.T) {
	t.Parallel()
	type input struct {
		userID int64
		body   string
	}
	type response struct {
		expectedCode int
		expectedBody string
	}
	type mockBehavior func(r *service_mocks.MockLedgerService, q *service_mocks.MockEnqueuer)

	loan := model.Loan{
		ID:         1,
		UserID:     7,
		BookID:     3,
		BorrowDate: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		DueDate:    time.Date(2024, 5, 31, 10, 0, 0, 0, time.UTC),
		Status:     model.StatusBorrowed,
	}

	var tests = []struct {
		name         string
		mockBehavior mockBehavior
		input        input
		response     response
	}{
		{
			name: "ok",
			mockBehavior: func(r *service_mocks.MockLedgerService, q *service_mocks.MockEnqueuer) {
				r.EXPECT().
					Borrow(gomock.Any(), int64(7), int64(3)).
					Return(loan, nil)
				q.EXPECT().
					Enqueue(kafka.LendingTopic, gomock.Any()).
					Return(nil)
			},
			input: input{userID: 7, body: `{"bookId":3}`},
			response: response{
				expectedCode: http.StatusCreated,
			},
		},
		{
			name: "err. out of stock",
			mockBehavior: func(r *service_mocks.MockLedgerService, q *service_mocks.MockEnqueuer) {
				r.EXPECT().
					Borrow(gomock.Any(), int64(7), int64(3)).
					Return(model.Loan{}, errs.ErrOutOfStock)
			},
			input: input{userID: 7, body: `{"bookId":3}`},
			response: response{
				expectedCode: http.StatusConflict,
				expectedBody: `{"success":false,"message":"no copies available"}`,
			},
		},
		{
			name: "err. limit exceeded",
			mockBehavior: func(r *service_mocks.MockLedgerService, q *service_mocks.MockEnqueuer) {
				r.EXPECT().
					Borrow(gomock.Any(), int64(7), int64(3)).
					Return(model.Loan{}, errs.ErrLimitExceeded)
			},
			input: input{userID: 7, body: `{"bookId":3}`},
			response: response{
				expectedCode: http.StatusConflict,
				expectedBody: `{"success":false,"message":"active loan limit reached"}`,
			},
		},
		{
			name: "err. book not found",
			mockBehavior: func(r *service_mocks.MockLedgerService, q *service_mocks.MockEnqueuer) {
				r.EXPECT().
					Borrow(gomock.Any(), int64(7), int64(5)).
					Return(model.Loan{}, errs.ErrBookNotFound)
			},
			input: input{userID: 7, body: `{"bookId":5}`},
			response: response{
				expectedCode: http.StatusNotFound,
				expectedBody: `{"success":false,"message":"book not found"}`,
			},
		},
		{
			name:         "err. bookId required",
			mockBehavior: func(r *service_mocks.MockLedgerService, q *service_mocks.MockEnqueuer) {},
			input:        input{userID: 7, body: `{}`},
			response: response{
				expectedCode: http.StatusBadRequest,
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()
			svc := service_mocks.NewMockLedgerService(c)
			enq := service_mocks.NewMockEnqueuer(c)
			log := zap.NewExample().Named("test")
			h := handler.New(svc, enq, log)

			e := echo.New()
			e.Validator = validate.NewCustomValidator()
			e.POST("/api/v1/loans", h.Borrow, withIdentity(tt.input.userID, auth.RoleUser))

			r := httptest.NewRequest(http.MethodPost, "/api/v1/loans", bytes.NewBufferString(tt.input.body))
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			w := httptest.NewRecorder()

			tt.mockBehavior(svc, enq)
			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			if tt.response.expectedBody != "" {
				require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
			}
			if w.Code == http.StatusCreated {
				var out model.Outcome
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
				require.True(t, out.Success)
				require.Equal(t, "book borrowed", out.Message)
				require.NotNil(t, out.Record)
				require.Equal(t, loan.ID, out.Record.ID)
			}
		})
	}
}

func TestHandler_Return(t *testing.T) {
	t.Parallel()
	type ident struct {
		userID int64
		role   auth.Role
	}
	type response struct {
		expectedCode int
		expectedBody string
	}
	type mockBehavior func(r *service_mocks.MockLedgerService, q *service_mocks.MockEnqueuer)

	returned := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	ownedLoan := model.LoanView{Loan: model.Loan{ID: 11, UserID: 7, BookID: 3, Status: model.StatusBorrowed}}
	closedLoan := model.Loan{ID: 11, UserID: 7, BookID: 3, Status: model.StatusReturned, ReturnDate: &returned}

	var tests = []struct {
		name         string
		ident        ident
		loanID       string
		mockBehavior mockBehavior
		response     response
	}{
		{
			name:   "ok owner",
			ident:  ident{userID: 7, role: auth.RoleUser},
			loanID: "11",
			mockBehavior: func(r *service_mocks.MockLedgerService, q *service_mocks.MockEnqueuer) {
				r.EXPECT().GetLoan(gomock.Any(), int64(11)).Return(ownedLoan, nil)
				r.EXPECT().Return(gomock.Any(), int64(11)).Return(closedLoan, nil)
				q.EXPECT().Enqueue(kafka.LendingTopic, gomock.Any()).Return(nil)
			},
			response: response{expectedCode: http.StatusOK},
		},
		{
			name:   "ok admin returns someone else's loan",
			ident:  ident{userID: 1, role: auth.RoleAdmin},
			loanID: "11",
			mockBehavior: func(r *service_mocks.MockLedgerService, q *service_mocks.MockEnqueuer) {
				r.EXPECT().GetLoan(gomock.Any(), int64(11)).Return(ownedLoan, nil)
				r.EXPECT().Return(gomock.Any(), int64(11)).Return(closedLoan, nil)
				q.EXPECT().Enqueue(kafka.LendingTopic, gomock.Any()).Return(nil)
			},
			response: response{expectedCode: http.StatusOK},
		},
		{
			name:   "err. not the owner",
			ident:  ident{userID: 8, role: auth.RoleUser},
			loanID: "11",
			mockBehavior: func(r *service_mocks.MockLedgerService, q *service_mocks.MockEnqueuer) {
				r.EXPECT().GetLoan(gomock.Any(), int64(11)).Return(ownedLoan, nil)
			},
			response: response{
				expectedCode: http.StatusForbidden,
				expectedBody: `{"success":false,"message":"requester is not the loan owner"}`,
			},
		},
		{
			name:   "err. already returned",
			ident:  ident{userID: 7, role: auth.RoleUser},
			loanID: "11",
			mockBehavior: func(r *service_mocks.MockLedgerService, q *service_mocks.MockEnqueuer) {
				r.EXPECT().GetLoan(gomock.Any(), int64(11)).Return(ownedLoan, nil)
				r.EXPECT().Return(gomock.Any(), int64(11)).Return(model.Loan{}, errs.ErrAlreadyReturned)
			},
			response: response{
				expectedCode: http.StatusConflict,
				expectedBody: `{"success":false,"message":"loan already returned"}`,
			},
		},
		{
			name:   "err. loan not found",
			ident:  ident{userID: 7, role: auth.RoleUser},
			loanID: "404",
			mockBehavior: func(r *service_mocks.MockLedgerService, q *service_mocks.MockEnqueuer) {
				r.EXPECT().GetLoan(gomock.Any(), int64(404)).Return(model.LoanView{}, errs.ErrLoanNotFound)
			},
			response: response{
				expectedCode: http.StatusNotFound,
				expectedBody: `{"success":false,"message":"loan not found"}`,
			},
		},
		{
			name:         "err. invalid loan id",
			ident:        ident{userID: 7, role: auth.RoleUser},
			loanID:       "abc",
			mockBehavior: func(r *service_mocks.MockLedgerService, q *service_mocks.MockEnqueuer) {},
			response:     response{expectedCode: http.StatusBadRequest},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()
			svc := service_mocks.NewMockLedgerService(c)
			enq := service_mocks.NewMockEnqueuer(c)
			log := zap.NewExample().Named("test")
			h := handler.New(svc, enq, log)

			e := echo.New()
			e.Validator = validate.NewCustomValidator()
			e.POST("/api/v1/loans/:loanId/return", h.Return, withIdentity(tt.ident.userID, tt.ident.role))

			r := httptest.NewRequest(http.MethodPost, "/api/v1/loans/"+tt.loanID+"/return", http.NoBody)
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			w := httptest.NewRecorder()

			tt.mockBehavior(svc, enq)
			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			if tt.response.expectedBody != "" {
				require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
			}
		})
	}
}

func TestHandler_Sweep(t *testing.T) {
	t.Parallel()
	c := gomock.NewController(t)
	defer c.Finish()
	svc := service_mocks.NewMockLedgerService(c)
	enq := service_mocks.NewMockEnqueuer(c)
	log := zap.NewExample().Named("test")
	h := handler.New(svc, enq, log)

	swept := []model.Loan{
		{ID: 1, UserID: 7, BookID: 3, Status: model.StatusOverdue},
		{ID: 2, UserID: 8, BookID: 4, Status: model.StatusOverdue},
	}
	svc.EXPECT().SweepOverdue(gomock.Any()).Return(swept, nil)
	enq.EXPECT().Enqueue(kafka.LendingTopic, gomock.Any()).Return(nil).Times(2)

	e := echo.New()
	e.POST("/api/v1/loans/sweep", h.Sweep, withIdentity(1, auth.RoleAdmin))

	r := httptest.NewRequest(http.MethodPost, "/api/v1/loans/sweep", http.NoBody)
	w := httptest.NewRecorder()
	e.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, `{"count":2}`, strings.Trim(w.Body.String(), "\n"))
}
