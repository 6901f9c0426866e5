package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"swapdesk/internal/handlers/business"
	"swapdesk/internal/models"
	dbconfig "swapdesk/pkg/config"
)

// SwapHandler serves swap submission and status endpoints.
type SwapHandler struct {
	store      business.Store
	lifecycle  *business.SwapLifecycleManager
	reconciler *business.SwapStatusReconciler
	publisher  *dbconfig.Publisher
}

// NewSwapHandler wires the handler. publisher may be nil.
func NewSwapHandler(store business.Store, lifecycle *business.SwapLifecycleManager, reconciler *business.SwapStatusReconciler, publisher *dbconfig.Publisher) *SwapHandler {
	return &SwapHandler{
		store:      store,
		lifecycle:  lifecycle,
		reconciler: reconciler,
		publisher:  publisher,
	}
}

// SubmitSwapRequest represents the request body for a swap submission
type SubmitSwapRequest struct {
	QuoteID        string `json:"quote_id" binding:"required"`
	Hash           string `json:"hash" binding:"required"`
	IdempotencyKey string `json:"idempotency_key" binding:"required"`
	Private        bool   `json:"private"`
	Type           string `json:"type"`
}

// SubmitSwap records a signed, submitted transaction against its quote.
// The client idempotency token is consumed first and released again if the
// submission fails; the (hash, chain) unique index is the second line of
// defense against duplicates.
func (h *SwapHandler) SubmitSwap(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req SubmitSwapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	key := models.IdempotencyKey{
		Token:  req.IdempotencyKey,
		UserID: userID,
	}
	if err := h.store.CreateIdempotencyKey(&key); err != nil {
		if isUniqueViolation(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "duplicate submission"})
			return
		}
		respondError(c, business.WrapUnexpected(err))
		return
	}

	quote, err := h.store.QuoteByID(req.QuoteID)
	if err != nil {
		h.releaseKey(&key)
		respondError(c, err)
		return
	}

	swap, err := h.lifecycle.CreateSwap(business.CreateSwapParams{
		UserID:    userID,
		Quote:     quote,
		Hash:      req.Hash,
		Private:   req.Private,
		Type:      parseSide(req.Type),
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		h.releaseKey(&key)
		respondError(c, err)
		return
	}

	if err := h.store.LinkIdempotencyKey(key.ID, swap.ID); err != nil {
		log.Warnf("Failed to link idempotency key %s to swap %s: %v", key.Token, swap.ID, err)
	}

	if h.publisher != nil {
		if err := h.publisher.Publish(dbconfig.QueueSwapSubmitted, map[string]any{"swap_id": swap.ID}); err != nil {
			log.Warnf("Failed to publish swap_submitted for %s: %v", swap.ID, err)
		}
	}

	c.JSON(http.StatusOK, swap)
}

// releaseKey returns a consumed idempotency token after a failed
// submission, so the client's retry with the same token is not rejected as
// a duplicate of a swap that never existed.
func (h *SwapHandler) releaseKey(key *models.IdempotencyKey) {
	if err := h.store.DeleteIdempotencyKey(key); err != nil {
		log.Errorf("Failed to release idempotency key %s: %v", key.Token, err)
	}
}

// GetSwap returns one swap by id.
func (h *SwapHandler) GetSwap(c *gin.Context) {
	swap, err := h.store.SwapByID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, swap)
}

// GetSwapStatus computes the swap's current settlement state from the
// ledger without persisting it.
func (h *SwapHandler) GetSwapStatus(c *gin.Context) {
	swap, err := h.store.SwapByID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	result := h.reconciler.GetStatus(c.Request.Context(), swap)
	c.JSON(http.StatusOK, gin.H{
		"swap_id":       swap.ID,
		"status":        result.Status,
		"failed_reason": result.FailedReason,
		"timed_out":     result.TimedOut,
	})
}

// SyncSwapStatus reconciles one swap against the ledger and returns the
// updated record.
func (h *SwapHandler) SyncSwapStatus(c *gin.Context) {
	swap, err := h.store.SwapByID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	updated, err := h.reconciler.SyncStatus(c.Request.Context(), swap)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// isUniqueViolation detects a postgres unique-constraint failure.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "duplicate key value")
}
