package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/parmiserp/ledger_engine/internal/apperrors"
	portssvc "github.com/parmiserp/ledger_engine/internal/core/ports/services"
	"github.com/parmiserp/ledger_engine/internal/dto"
	"github.com/parmiserp/ledger_engine/internal/middleware"
)

// balanceHandler handles HTTP requests for balance snapshots.
type balanceHandler struct {
	balanceService portssvc.BalanceSvc
}

func newBalanceHandler(bs portssvc.BalanceSvc) *balanceHandler {
	return &balanceHandler{
		balanceService: bs,
	}
}

// registerBalanceRoutes registers balance routes nested under a company.
func registerBalanceRoutes(rg *gin.RouterGroup, balanceService portssvc.BalanceSvc) {
	h := newBalanceHandler(balanceService)

	balances := rg.Group("/balances")
	{
		balances.POST("/recompute", h.recomputeBalances)
		balances.GET("", h.listBalances)
		balances.POST("/accounts/:account_id", h.getBalance)
	}
}

// recomputeBalances godoc
// @Summary Recompute the balance snapshots of a period range
// @Description Rebuilds the per-account snapshots of the range from posted
// @Description document lines. Rerunning replaces the previous snapshots.
// @Tags balances
// @Accept  json
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   range body dto.RecomputeBalancesRequest true "Fiscal year and period range"
// @Success 200 {array} dto.AccountBalanceResponse
// @Failure 400 {object} map[string]string "Range outside the fiscal year"
// @Failure 404 {object} map[string]string "Fiscal year not found"
// @Failure 500 {object} map[string]string "Failed to recompute balances"
// @Router /companies/{company_id}/balances/recompute [post]
func (h *balanceHandler) recomputeBalances(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")

	var req dto.RecomputeBalancesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RecomputeBalances", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID := middleware.MustGetUserID(c)
	logger.Info("Received request to recompute balances", slog.String("fiscal_year_id", req.FiscalYearID))

	balances, err := h.balanceService.RecomputeBalances(c.Request.Context(), companyID, req, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Fiscal year not found for recompute", slog.String("error", err.Error()))
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error recomputing balances", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to recompute balances in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to recompute balances"})
		}
		return
	}

	logger.Info("Balances recomputed successfully", slog.Int("snapshot_count", len(balances)))
	c.JSON(http.StatusOK, dto.ToListAccountBalanceResponse(balances))
}

// getBalance godoc
// @Summary Get the snapshot of one account over a period range
// @Tags balances
// @Accept  json
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   account_id path string true "Account ID"
// @Param   range body dto.RecomputeBalancesRequest true "Fiscal year and period range"
// @Success 200 {object} dto.AccountBalanceResponse
// @Failure 404 {object} map[string]string "Snapshot not found"
// @Failure 500 {object} map[string]string "Failed to retrieve balance"
// @Router /companies/{company_id}/balances/accounts/{account_id} [post]
func (h *balanceHandler) getBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	accountID := c.Param("account_id")

	var req dto.RecomputeBalancesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for GetBalance", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	balance, err := h.balanceService.GetBalance(c.Request.Context(), companyID, accountID, req)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Balance snapshot not found"})
		} else {
			logger.Error("Failed to get balance from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve balance"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountBalanceResponse(balance))
}

// listBalances godoc
// @Summary List the snapshots of a fiscal year
// @Tags balances
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   fiscalYearID query string true "Fiscal year ID"
// @Param   accountID query string false "Filter by account"
// @Success 200 {array} dto.AccountBalanceResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 500 {object} map[string]string "Failed to list balances"
// @Router /companies/{company_id}/balances [get]
func (h *balanceHandler) listBalances(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")

	var params dto.ListBalancesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListBalances", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	balances, err := h.balanceService.ListBalances(c.Request.Context(), companyID, params)
	if err != nil {
		logger.Error("Failed to list balances from service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list balances"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListAccountBalanceResponse(balances))
}
