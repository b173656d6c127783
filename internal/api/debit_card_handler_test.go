package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/debitcard-api/internal/api/shared"
	"github.com/phrazzld/debitcard-api/internal/domain"
	"github.com/phrazzld/debitcard-api/internal/mocks"
	"github.com/phrazzld/debitcard-api/internal/service"
	"github.com/phrazzld/debitcard-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var handlerNow = time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newCardRouter mounts the handler the way the server does, with userID as
// the authenticated principal. A nil userID leaves the request anonymous.
func newCardRouter(svc service.DebitCardService, userID *uuid.UUID) http.Handler {
	h := NewDebitCardHandler(svc, testLogger()).WithClock(func() time.Time { return handlerNow })

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if userID != nil {
				req = req.WithContext(shared.WithUserID(req.Context(), *userID))
			}
			next.ServeHTTP(w, req)
		})
	})
	r.Route("/api/debit-cards", func(r chi.Router) {
		r.Get("/", h.ListDebitCards)
		r.Post("/", h.CreateDebitCard)
		r.Get("/{id}", h.GetDebitCard)
		r.Put("/{id}", h.UpdateDebitCard)
		r.Delete("/{id}", h.DeleteDebitCard)
		r.Get("/{id}/transactions", h.ListDebitCardTransactions)
	})
	return r
}

func doRequest(t *testing.T, handler http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var body shared.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body.Error
}

func cardFor(t *testing.T, userID uuid.UUID) *domain.DebitCard {
	t.Helper()

	card, err := domain.NewDebitCard(userID, "Visa", "4000123412341234", handlerNow.AddDate(4, 0, 0))
	require.NoError(t, err)
	return card
}

func TestDebitCardHandler_List(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	active := cardFor(t, userID)
	inactive := cardFor(t, userID)
	inactive.SetActive(false, handlerNow.Add(-time.Hour))

	svc := &mocks.MockDebitCardService{
		ListCardsFn: func(_ context.Context, got uuid.UUID) ([]*domain.DebitCard, error) {
			assert.Equal(t, userID, got)
			return []*domain.DebitCard{active, inactive}, nil
		},
	}

	rec := doRequest(t, newCardRouter(svc, &userID), http.MethodGet, "/api/debit-cards", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body []DebitCardResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Len(t, body, 2)
	assert.Equal(t, active.ID, body[0].ID)
	assert.Equal(t, "**** **** **** 1234", body[0].Number)
	assert.Equal(t, "Visa", body[0].Type)
	assert.True(t, body[0].IsActive)
	assert.False(t, body[1].IsActive)

	_, err := time.Parse(time.RFC3339, body[0].ExpirationDate)
	assert.NoError(t, err)
}

func TestDebitCardHandler_List_Empty(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	svc := &mocks.MockDebitCardService{Cards: []*domain.DebitCard{}}

	rec := doRequest(t, newCardRouter(svc, &userID), http.MethodGet, "/api/debit-cards", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestDebitCardHandler_Unauthenticated(t *testing.T) {
	t.Parallel()

	router := newCardRouter(&mocks.MockDebitCardService{}, nil)
	cardPath := "/api/debit-cards/" + uuid.NewString()

	for _, tc := range []struct{ method, path, body string }{
		{http.MethodGet, "/api/debit-cards", ""},
		{http.MethodPost, "/api/debit-cards", `{"type":"Visa"}`},
		{http.MethodGet, cardPath, ""},
		{http.MethodPut, cardPath, `{"is_active":true}`},
		{http.MethodDelete, cardPath, ""},
		{http.MethodGet, cardPath + "/transactions", ""},
	} {
		rec := doRequest(t, router, tc.method, tc.path, tc.body)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", tc.method, tc.path)
	}
}

func TestDebitCardHandler_Create(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("success", func(t *testing.T) {
		created := cardFor(t, userID)
		svc := &mocks.MockDebitCardService{
			CreateCardFn: func(_ context.Context, got uuid.UUID, cardType string) (*domain.DebitCard, error) {
				assert.Equal(t, userID, got)
				assert.Equal(t, "Visa", cardType)
				return created, nil
			},
		}

		rec := doRequest(t, newCardRouter(svc, &userID), http.MethodPost, "/api/debit-cards", `{"type":"Visa"}`)
		require.Equal(t, http.StatusCreated, rec.Code)

		var body DebitCardResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, created.ID, body.ID)
		assert.True(t, body.IsActive)
		assert.NotContains(t, rec.Body.String(), created.Number)
	})

	badRequests := []struct {
		name string
		body string
	}{
		{"missing type", `{}`},
		{"empty type", `{"type":""}`},
		{"type too long", `{"type":"` + strings.Repeat("x", 51) + `"}`},
		{"malformed json", `{"type":`},
		{"no body", ``},
		{"type not a string", `{"type":5}`},
	}
	for _, tc := range badRequests {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mocks.MockDebitCardService{
				CreateCardFn: func(context.Context, uuid.UUID, string) (*domain.DebitCard, error) {
					t.Fatal("service must not be called")
					return nil, nil
				},
			}
			rec := doRequest(t, newCardRouter(svc, &userID), http.MethodPost, "/api/debit-cards", tc.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}

	t.Run("blank type rejected by service", func(t *testing.T) {
		svc := &mocks.MockDebitCardService{
			DefaultError: domain.NewValidationError("type", "cannot be empty", domain.ErrValidation),
		}
		rec := doRequest(t, newCardRouter(svc, &userID), http.MethodPost, "/api/debit-cards", `{"type":"   "}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid type: cannot be empty", decodeError(t, rec))
	})

	t.Run("internal failure", func(t *testing.T) {
		svc := &mocks.MockDebitCardService{DefaultError: errors.New("issuer exploded")}
		rec := doRequest(t, newCardRouter(svc, &userID), http.MethodPost, "/api/debit-cards", `{"type":"Visa"}`)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "Failed to create debit card", decodeError(t, rec))
	})
}

func TestDebitCardHandler_Get(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	card := cardFor(t, userID)

	tests := []struct {
		name       string
		path       string
		err        error
		wantStatus int
	}{
		{"success", "/api/debit-cards/" + card.ID.String(), nil, http.StatusOK},
		{"invalid id", "/api/debit-cards/not-a-uuid", nil, http.StatusBadRequest},
		{"foreign card", "/api/debit-cards/" + card.ID.String(),
			service.NewDebitCardServiceError("get", "ownership check failed", service.ErrNotOwned), http.StatusForbidden},
		{"missing card", "/api/debit-cards/" + card.ID.String(),
			service.NewDebitCardServiceError("get", "lookup failed", store.ErrDebitCardNotFound), http.StatusNotFound},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mocks.MockDebitCardService{
				GetCardFn: func(_ context.Context, gotUser, gotCard uuid.UUID) (*domain.DebitCard, error) {
					assert.Equal(t, userID, gotUser)
					assert.Equal(t, card.ID, gotCard)
					if tc.err != nil {
						return nil, tc.err
					}
					return card, nil
				},
			}

			rec := doRequest(t, newCardRouter(svc, &userID), http.MethodGet, tc.path, "")
			assert.Equal(t, tc.wantStatus, rec.Code)
		})
	}
}

func TestDebitCardHandler_Update(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	card := cardFor(t, userID)
	path := "/api/debit-cards/" + card.ID.String()

	t.Run("deactivate", func(t *testing.T) {
		svc := &mocks.MockDebitCardService{
			SetCardActiveFn: func(_ context.Context, _, gotCard uuid.UUID, active bool) (*domain.DebitCard, error) {
				assert.Equal(t, card.ID, gotCard)
				assert.False(t, active)
				updated := *card
				updated.SetActive(false, handlerNow)
				return &updated, nil
			},
		}

		rec := doRequest(t, newCardRouter(svc, &userID), http.MethodPut, path, `{"is_active":false}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var body DebitCardResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.False(t, body.IsActive)
	})

	t.Run("activate", func(t *testing.T) {
		svc := &mocks.MockDebitCardService{
			SetCardActiveFn: func(_ context.Context, _, _ uuid.UUID, active bool) (*domain.DebitCard, error) {
				assert.True(t, active)
				return card, nil
			},
		}

		rec := doRequest(t, newCardRouter(svc, &userID), http.MethodPut, path, `{"is_active":true}`)
		require.Equal(t, http.StatusOK, rec.Code)
	})

	invalid := []struct {
		name string
		body string
	}{
		{"missing flag", `{}`},
		{"null flag", `{"is_active":null}`},
		{"string flag", `{"is_active":"true"}`},
		{"numeric flag", `{"is_active":1}`},
		{"malformed", `{"is_active":tru`},
	}
	for _, tc := range invalid {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mocks.MockDebitCardService{
				SetCardActiveFn: func(context.Context, uuid.UUID, uuid.UUID, bool) (*domain.DebitCard, error) {
					t.Fatal("an invalid flag must not reach the service")
					return nil, nil
				},
			}
			rec := doRequest(t, newCardRouter(svc, &userID), http.MethodPut, path, tc.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}

	t.Run("foreign card", func(t *testing.T) {
		svc := &mocks.MockDebitCardService{DefaultError: service.ErrNotOwned}
		rec := doRequest(t, newCardRouter(svc, &userID), http.MethodPut, path, `{"is_active":true}`)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("missing card", func(t *testing.T) {
		svc := &mocks.MockDebitCardService{DefaultError: store.ErrDebitCardNotFound}
		rec := doRequest(t, newCardRouter(svc, &userID), http.MethodPut, path, `{"is_active":true}`)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestDebitCardHandler_Delete(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	cardID := uuid.New()
	path := "/api/debit-cards/" + cardID.String()

	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"success", nil, http.StatusNoContent},
		{"has transactions", service.ErrCardHasTransactions, http.StatusConflict},
		{"foreign card", service.ErrNotOwned, http.StatusForbidden},
		{"missing card", store.ErrDebitCardNotFound, http.StatusNotFound},
		{"database failure", errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mocks.MockDebitCardService{
				DeleteCardFn: func(_ context.Context, gotUser, gotCard uuid.UUID) error {
					assert.Equal(t, userID, gotUser)
					assert.Equal(t, cardID, gotCard)
					return tc.err
				},
			}

			rec := doRequest(t, newCardRouter(svc, &userID), http.MethodDelete, path, "")
			assert.Equal(t, tc.wantStatus, rec.Code)
			if tc.wantStatus == http.StatusNoContent {
				assert.Empty(t, rec.Body.String())
			}
		})
	}

	t.Run("invalid id", func(t *testing.T) {
		rec := doRequest(t, newCardRouter(&mocks.MockDebitCardService{}, &userID),
			http.MethodDelete, "/api/debit-cards/123", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestDebitCardHandler_ListTransactions(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	cardID := uuid.New()
	txn, err := domain.NewDebitCardTransaction(cardID, 15000, domain.CurrencySGD)
	require.NoError(t, err)

	svc := &mocks.MockDebitCardService{Transactions: []*domain.DebitCardTransaction{txn}}
	rec := doRequest(t, newCardRouter(svc, &userID), http.MethodGet,
		"/api/debit-cards/"+cardID.String()+"/transactions", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body []DebitCardTransactionResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Len(t, body, 1)
	assert.Equal(t, txn.ID, body[0].ID)
	assert.Equal(t, int64(15000), body[0].Amount)
	assert.Equal(t, "SGD", body[0].CurrencyCode)

	forbidden := &mocks.MockDebitCardService{DefaultError: service.ErrNotOwned}
	rec = doRequest(t, newCardRouter(forbidden, &userID), http.MethodGet,
		"/api/debit-cards/"+cardID.String()+"/transactions", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestNewDebitCardHandler_RequiresDependencies(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { NewDebitCardHandler(nil, testLogger()) })
	assert.Panics(t, func() { NewDebitCardHandler(&mocks.MockDebitCardService{}, nil) })
}
