package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/debitcard-api/internal/api/shared"
	"github.com/phrazzld/debitcard-api/internal/platform/logger"
	"github.com/phrazzld/debitcard-api/internal/redact"
	"github.com/phrazzld/debitcard-api/internal/service"
)

// DebitCardHandler handles the /api/debit-cards endpoints.
type DebitCardHandler struct {
	cardService service.DebitCardService
	logger      *slog.Logger
	timeFunc    func() time.Time
}

// NewDebitCardHandler creates a new DebitCardHandler.
func NewDebitCardHandler(cardService service.DebitCardService, logger *slog.Logger) *DebitCardHandler {
	if cardService == nil {
		panic("cardService cannot be nil for DebitCardHandler")
	}
	if logger == nil {
		panic("logger cannot be nil for DebitCardHandler")
	}

	return &DebitCardHandler{
		cardService: cardService,
		logger:      logger.With(slog.String("component", "debit_card_handler")),
		timeFunc:    time.Now,
	}
}

// WithClock overrides the clock used to compute is_active in responses.
func (h *DebitCardHandler) WithClock(fn func() time.Time) *DebitCardHandler {
	h.timeFunc = fn
	return h
}

// ListDebitCards handles GET /api/debit-cards.
func (h *DebitCardHandler) ListDebitCards(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	cards, err := h.cardService.ListCards(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list debit cards")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, debitCardsToResponse(cards, h.timeFunc()))
}

// CreateDebitCard handles POST /api/debit-cards.
func (h *DebitCardHandler) CreateDebitCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	var req CreateDebitCardRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format", slog.String("error", redact.Error(err)))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	card, err := h.cardService.CreateCard(r.Context(), userID, req.Type)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create debit card")
		return
	}

	log.Info("debit card created",
		slog.String("card_id", card.ID.String()),
		slog.String("type", card.Type))
	shared.RespondWithJSON(w, r, http.StatusCreated, debitCardToResponse(card, h.timeFunc()))
}

// GetDebitCard handles GET /api/debit-cards/{id}.
func (h *DebitCardHandler) GetDebitCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, cardID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	card, err := h.cardService.GetCard(r.Context(), userID, cardID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get debit card")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, debitCardToResponse(card, h.timeFunc()))
}

// UpdateDebitCard handles PUT /api/debit-cards/{id}.
// is_active must be a JSON boolean; anything else is rejected before the
// card is touched.
func (h *DebitCardHandler) UpdateDebitCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, cardID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req UpdateDebitCardRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format",
			slog.String("error", redact.Error(err)),
			slog.String("card_id", cardID.String()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid is_active: must be a boolean")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	card, err := h.cardService.SetCardActive(r.Context(), userID, cardID, *req.IsActive)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update debit card")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, debitCardToResponse(card, h.timeFunc()))
}

// DeleteDebitCard handles DELETE /api/debit-cards/{id}.
func (h *DebitCardHandler) DeleteDebitCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, cardID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	if err := h.cardService.DeleteCard(r.Context(), userID, cardID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete debit card")
		return
	}

	log.Info("debit card deleted", slog.String("card_id", cardID.String()))
	w.WriteHeader(http.StatusNoContent)
}

// ListDebitCardTransactions handles GET /api/debit-cards/{id}/transactions.
func (h *DebitCardHandler) ListDebitCardTransactions(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, cardID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	txns, err := h.cardService.ListCardTransactions(r.Context(), userID, cardID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list transactions")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, transactionsToResponse(txns))
}
