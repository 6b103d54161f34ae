package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/banksampah/internal/server/http/dto"
)

// AccountHandler manages account endpoints.
type AccountHandler struct {
	facade AccountFacade
}

// NewAccountHandler constructs AccountHandler.
func NewAccountHandler(facade AccountFacade) *AccountHandler {
	return &AccountHandler{facade: facade}
}

// Create handles POST /api/accounts.
func (h *AccountHandler) Create(c *gin.Context) {
	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "request body must be {\"name\": string}")
		return
	}

	acc, err := h.facade.CreateAccount(c.Request.Context(), req.Name)
	status, applied := mutationStatus(err, http.StatusCreated)
	if !applied {
		writeError(c, err)
		return
	}

	c.JSON(status, dto.AccountResponse{Name: acc.Name, Balance: acc.Balance, Persisted: err == nil})
}

// List handles GET /api/accounts.
func (h *AccountHandler) List(c *gin.Context) {
	accounts, err := h.facade.Accounts(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	resp := make([]dto.AccountSummaryResponse, 0, len(accounts))
	for _, a := range accounts {
		resp = append(resp, dto.AccountSummaryResponse{Name: a.Name, Balance: a.Balance})
	}
	c.JSON(http.StatusOK, resp)
}

// Balance handles GET /api/accounts/:name/balance.
func (h *AccountHandler) Balance(c *gin.Context) {
	name := c.Param("name")
	balance, err := h.facade.Balance(c.Request.Context(), name)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.AccountSummaryResponse{Name: name, Balance: balance})
}

// History handles GET /api/accounts/:name/history. Records are newest first.
func (h *AccountHandler) History(c *gin.Context) {
	history, err := h.facade.History(c.Request.Context(), c.Param("name"))
	if err != nil {
		writeError(c, err)
		return
	}

	resp := make([]dto.TransactionResponse, 0, len(history))
	for _, tx := range history {
		resp = append(resp, dto.TransactionResponse{Kind: string(tx.Kind), Description: tx.Description, Delta: tx.Delta})
	}
	c.JSON(http.StatusOK, resp)
}
