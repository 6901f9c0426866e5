package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"swapdesk/internal/handlers/business"
	"swapdesk/internal/models"
	dbconfig "swapdesk/pkg/config"
)

// QuoteHandler serves quote requests.
type QuoteHandler struct {
	engine *business.QuoteEngine
	fees   *business.FeeCalculator
}

// NewQuoteHandler wires the handler.
func NewQuoteHandler(engine *business.QuoteEngine, fees *business.FeeCalculator) *QuoteHandler {
	return &QuoteHandler{engine: engine, fees: fees}
}

// QuoteRequest represents the request body for a quote
type QuoteRequest struct {
	Chain          string `json:"chain"`
	SellMint       string `json:"sell_mint" binding:"required"`
	BuyMint        string `json:"buy_mint" binding:"required"`
	Amount         string `json:"amount" binding:"required"`
	Side           string `json:"side" binding:"required"`
	MaxSlippageBps int    `json:"max_slippage_bps"`
	WalletAddress  string `json:"wallet_address"`
}

// CreateQuote prices a prospective swap and persists the quote snapshot.
func (h *QuoteHandler) CreateQuote(c *gin.Context) {
	var req QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	side := parseSide(req.Side)
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid amount"})
		return
	}

	chain := req.Chain
	if chain == "" {
		chain = "solana"
	}

	sellToken, err := tokenByMint(req.SellMint)
	if err != nil {
		respondError(c, err)
		return
	}
	buyToken, err := tokenByMint(req.BuyMint)
	if err != nil {
		respondError(c, err)
		return
	}

	slippage := req.MaxSlippageBps
	if slippage <= 0 {
		slippage = 50
	}

	quote, err := h.engine.GetQuote(c.Request.Context(), business.QuoteRequest{
		Chain:          chain,
		Provider:       "jupiter",
		SellToken:      sellToken,
		BuyToken:       buyToken,
		Amount:         amount,
		Side:           side,
		MaxSlippageBps: slippage,
		FeeBps:         h.fees.FeeBps(side, sellToken.Mint, buyToken.Mint),
		WalletAddress:  req.WalletAddress,
		Timestamp:      time.Now().UTC(),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, quote)
}

func parseSide(s string) models.SwapType {
	switch models.SwapType(s) {
	case models.SwapTypeBuy:
		return models.SwapTypeBuy
	case models.SwapTypeSell:
		return models.SwapTypeSell
	default:
		return models.SwapTypeUnknown
	}
}

// tokenByMint looks up the asset registry entry for a mint.
func tokenByMint(mint string) (*models.TokenConfig, error) {
	var token models.TokenConfig
	if err := dbconfig.DB.Where("mint = ?", mint).First(&token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &business.NotFoundError{Resource: "token", ID: mint}
		}
		return nil, business.WrapUnexpected(err)
	}
	return &token, nil
}
