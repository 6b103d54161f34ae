package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/banksampah/internal/server/http/dto"
)

// TransactionHandler manages deposits and redemptions.
type TransactionHandler struct {
	facade TransactionFacade
}

// NewTransactionHandler constructs TransactionHandler.
func NewTransactionHandler(facade TransactionFacade) *TransactionHandler {
	return &TransactionHandler{facade: facade}
}

// Deposit handles POST /api/accounts/:name/deposits.
func (h *TransactionHandler) Deposit(c *gin.Context) {
	var req dto.DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "request body must be {\"material\": string, \"weight_kg\": number}")
		return
	}

	receipt, err := h.facade.Deposit(c.Request.Context(), c.Param("name"), req.Material, req.WeightKg)
	status, applied := mutationStatus(err, http.StatusOK)
	if !applied {
		writeError(c, err)
		return
	}

	c.JSON(status, dto.DepositResponse{
		Account:     receipt.Account,
		Material:    receipt.Material,
		WeightKg:    receipt.WeightKg,
		PointsAdded: receipt.Points,
		Balance:     receipt.Balance,
		Persisted:   err == nil,
	})
}

// Redeem handles POST /api/accounts/:name/redemptions.
func (h *TransactionHandler) Redeem(c *gin.Context) {
	var req dto.RedeemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "request body must be {\"reward\": string}")
		return
	}

	receipt, err := h.facade.Redeem(c.Request.Context(), c.Param("name"), req.Reward)
	status, applied := mutationStatus(err, http.StatusOK)
	if !applied {
		writeError(c, err)
		return
	}

	c.JSON(status, dto.RedemptionResponse{
		Account:   receipt.Account,
		Reward:    receipt.Offer.ID,
		Label:     receipt.Offer.Label,
		Cost:      receipt.Offer.Cost,
		Balance:   receipt.Balance,
		Persisted: err == nil,
	})
}
