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

// fiscalHandler handles HTTP requests for fiscal years and periods.
type fiscalHandler struct {
	fiscalService portssvc.FiscalSvcFacade
}

func newFiscalHandler(fs portssvc.FiscalSvcFacade) *fiscalHandler {
	return &fiscalHandler{
		fiscalService: fs,
	}
}

// registerFiscalRoutes registers fiscal calendar routes nested under a company.
func registerFiscalRoutes(rg *gin.RouterGroup, fiscalService portssvc.FiscalSvcFacade) {
	h := newFiscalHandler(fiscalService)

	fiscalYears := rg.Group("/fiscal-years")
	{
		fiscalYears.POST("", h.createFiscalYear)
		fiscalYears.GET("", h.listFiscalYears)
		fiscalYears.GET("/available", h.listAvailableFiscalYears)
		fiscalYears.GET("/resolve", h.resolveFiscalYear)
		fiscalYears.GET("/:fiscal_year_id", h.getFiscalYear)
		fiscalYears.PUT("/:fiscal_year_id", h.updateFiscalYear)
		fiscalYears.POST("/:fiscal_year_id/close", h.closeFiscalYear)

		fiscalYears.GET("/:fiscal_year_id/periods", h.listPeriods)
		fiscalYears.POST("/:fiscal_year_id/periods", h.createPeriod)
	}

	rg.POST("/periods/:period_id/close", h.closePeriod)
}

// createFiscalYear godoc
// @Summary Create a fiscal year
// @Tags fiscal-years
// @Accept  json
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   fiscalYear body dto.CreateFiscalYearRequest true "Fiscal year details"
// @Success 201 {object} dto.FiscalYearResponse
// @Failure 400 {object} map[string]string "Invalid date range"
// @Failure 409 {object} map[string]string "Duplicate fiscal year code"
// @Failure 500 {object} map[string]string "Failed to create fiscal year"
// @Router /companies/{company_id}/fiscal-years [post]
func (h *fiscalHandler) createFiscalYear(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")

	var req dto.CreateFiscalYearRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateFiscalYear", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID := middleware.MustGetUserID(c)
	logger.Info("Received request to create fiscal year", slog.String("fiscal_year_code", req.Code))

	fiscalYear, err := h.fiscalService.CreateFiscalYear(c.Request.Context(), companyID, req, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error creating fiscal year", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrDuplicate) {
			logger.Warn("Duplicate fiscal year code", slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to create fiscal year in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create fiscal year"})
		}
		return
	}

	logger.Info("Fiscal year created successfully", slog.String("fiscal_year_id", fiscalYear.FiscalYearID))
	c.JSON(http.StatusCreated, dto.ToFiscalYearResponse(fiscalYear))
}

// getFiscalYear godoc
// @Summary Get a fiscal year by ID
// @Tags fiscal-years
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   fiscal_year_id path string true "Fiscal year ID"
// @Success 200 {object} dto.FiscalYearResponse
// @Failure 404 {object} map[string]string "Fiscal year not found"
// @Failure 500 {object} map[string]string "Failed to retrieve fiscal year"
// @Router /companies/{company_id}/fiscal-years/{fiscal_year_id} [get]
func (h *fiscalHandler) getFiscalYear(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	fiscalYearID := c.Param("fiscal_year_id")

	fiscalYear, err := h.fiscalService.GetFiscalYearByID(c.Request.Context(), companyID, fiscalYearID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Fiscal year not found"})
		} else {
			logger.Error("Failed to get fiscal year from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve fiscal year"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToFiscalYearResponse(fiscalYear))
}

// listFiscalYears godoc
// @Summary List the fiscal years of a company
// @Tags fiscal-years
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Success 200 {array} dto.FiscalYearResponse
// @Failure 500 {object} map[string]string "Failed to list fiscal years"
// @Router /companies/{company_id}/fiscal-years [get]
func (h *fiscalHandler) listFiscalYears(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")

	fiscalYears, err := h.fiscalService.ListFiscalYears(c.Request.Context(), companyID)
	if err != nil {
		logger.Error("Failed to list fiscal years from service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list fiscal years"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListFiscalYearResponse(fiscalYears))
}

// listAvailableFiscalYears godoc
// @Summary List the fiscal years available for selection
// @Description Returns the years that hold documents plus the current one.
// @Tags fiscal-years
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Success 200 {array} dto.FiscalYearResponse
// @Failure 500 {object} map[string]string "Failed to list fiscal years"
// @Router /companies/{company_id}/fiscal-years/available [get]
func (h *fiscalHandler) listAvailableFiscalYears(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")

	fiscalYears, err := h.fiscalService.ListAvailableFiscalYears(c.Request.Context(), companyID)
	if err != nil {
		logger.Error("Failed to list available fiscal years", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list fiscal years"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListFiscalYearResponse(fiscalYears))
}

// resolveFiscalYear godoc
// @Summary Resolve the fiscal year containing a date
// @Description Returns the fiscal year whose range contains the date. When
// @Description ranges overlap, the year with the latest start date wins.
// @Tags fiscal-years
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   date query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} dto.FiscalYearResponse
// @Failure 400 {object} map[string]string "Invalid date"
// @Failure 404 {object} map[string]string "No fiscal year contains the date"
// @Failure 500 {object} map[string]string "Failed to resolve fiscal year"
// @Router /companies/{company_id}/fiscal-years/resolve [get]
func (h *fiscalHandler) resolveFiscalYear(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")

	var params dto.ResolveFiscalYearParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ResolveFiscalYear", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	fiscalYear, err := h.fiscalService.ResolveFiscalYear(c.Request.Context(), companyID, params.Date)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No fiscal year contains the given date"})
		} else {
			logger.Error("Failed to resolve fiscal year", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve fiscal year"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToFiscalYearResponse(fiscalYear))
}

// updateFiscalYear godoc
// @Summary Update a fiscal year
// @Description Updates a fiscal year. A date-range change is rejected when any
// @Description attached document would fall outside the new range.
// @Tags fiscal-years
// @Accept  json
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   fiscal_year_id path string true "Fiscal year ID"
// @Param   fiscalYear body dto.UpdateFiscalYearRequest true "Fields to update"
// @Success 200 {object} dto.FiscalYearResponse
// @Failure 400 {object} map[string]string "Invalid date range"
// @Failure 404 {object} map[string]string "Fiscal year not found"
// @Failure 409 {object} map[string]string "Documents would fall outside the new range"
// @Failure 500 {object} map[string]string "Failed to update fiscal year"
// @Router /companies/{company_id}/fiscal-years/{fiscal_year_id} [put]
func (h *fiscalHandler) updateFiscalYear(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	fiscalYearID := c.Param("fiscal_year_id")

	var req dto.UpdateFiscalYearRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateFiscalYear", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID := middleware.MustGetUserID(c)
	fiscalYear, err := h.fiscalService.UpdateFiscalYear(c.Request.Context(), companyID, fiscalYearID, req, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Fiscal year not found for update", slog.String("fiscal_year_id", fiscalYearID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Fiscal year not found"})
		} else if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error updating fiscal year", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrConflict) {
			logger.Warn("Fiscal year range conflicts with documents", slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to update fiscal year in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update fiscal year"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToFiscalYearResponse(fiscalYear))
}

// closeFiscalYear godoc
// @Summary Close a fiscal year
// @Description Marks a fiscal year closed, blocking further posting into it.
// @Tags fiscal-years
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   fiscal_year_id path string true "Fiscal year ID"
// @Success 200 {object} dto.FiscalYearResponse
// @Failure 404 {object} map[string]string "Fiscal year not found"
// @Failure 409 {object} map[string]string "Fiscal year already closed"
// @Failure 500 {object} map[string]string "Failed to close fiscal year"
// @Router /companies/{company_id}/fiscal-years/{fiscal_year_id}/close [post]
func (h *fiscalHandler) closeFiscalYear(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	fiscalYearID := c.Param("fiscal_year_id")

	userID := middleware.MustGetUserID(c)
	logger.Info("Received request to close fiscal year", slog.String("fiscal_year_id", fiscalYearID))

	fiscalYear, err := h.fiscalService.CloseFiscalYear(c.Request.Context(), companyID, fiscalYearID, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Fiscal year not found"})
		} else if errors.Is(err, apperrors.ErrConflict) {
			logger.Warn("Fiscal year already closed", slog.String("fiscal_year_id", fiscalYearID))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to close fiscal year in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to close fiscal year"})
		}
		return
	}

	logger.Info("Fiscal year closed successfully", slog.String("fiscal_year_id", fiscalYearID))
	c.JSON(http.StatusOK, dto.ToFiscalYearResponse(fiscalYear))
}

// listPeriods godoc
// @Summary List the periods of a fiscal year
// @Tags fiscal-years
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   fiscal_year_id path string true "Fiscal year ID"
// @Success 200 {array} dto.PeriodResponse
// @Failure 404 {object} map[string]string "Fiscal year not found"
// @Failure 500 {object} map[string]string "Failed to list periods"
// @Router /companies/{company_id}/fiscal-years/{fiscal_year_id}/periods [get]
func (h *fiscalHandler) listPeriods(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	fiscalYearID := c.Param("fiscal_year_id")

	periods, err := h.fiscalService.ListPeriods(c.Request.Context(), companyID, fiscalYearID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Fiscal year not found"})
		} else {
			logger.Error("Failed to list periods from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list periods"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToListPeriodResponse(periods))
}

// createPeriod godoc
// @Summary Create a period inside a fiscal year
// @Description Creates a period. The period's range must lie within its fiscal
// @Description year's range.
// @Tags fiscal-years
// @Accept  json
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   fiscal_year_id path string true "Fiscal year ID"
// @Param   period body dto.CreatePeriodRequest true "Period details"
// @Success 201 {object} dto.PeriodResponse
// @Failure 400 {object} map[string]string "Period range outside the fiscal year"
// @Failure 404 {object} map[string]string "Fiscal year not found"
// @Failure 409 {object} map[string]string "Fiscal year is closed"
// @Failure 500 {object} map[string]string "Failed to create period"
// @Router /companies/{company_id}/fiscal-years/{fiscal_year_id}/periods [post]
func (h *fiscalHandler) createPeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	fiscalYearID := c.Param("fiscal_year_id")

	var req dto.CreatePeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreatePeriod", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID := middleware.MustGetUserID(c)
	period, err := h.fiscalService.CreatePeriod(c.Request.Context(), companyID, fiscalYearID, req, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Fiscal year not found"})
		} else if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error creating period", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrConflict) {
			logger.Warn("Cannot add period to closed fiscal year", slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to create period in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create period"})
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToPeriodResponse(period))
}

// closePeriod godoc
// @Summary Close a period
// @Tags fiscal-years
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   period_id path string true "Period ID"
// @Success 200 {object} dto.PeriodResponse
// @Failure 404 {object} map[string]string "Period not found"
// @Failure 409 {object} map[string]string "Period already closed"
// @Failure 500 {object} map[string]string "Failed to close period"
// @Router /companies/{company_id}/periods/{period_id}/close [post]
func (h *fiscalHandler) closePeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	periodID := c.Param("period_id")

	userID := middleware.MustGetUserID(c)
	period, err := h.fiscalService.ClosePeriod(c.Request.Context(), companyID, periodID, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Period not found"})
		} else if errors.Is(err, apperrors.ErrConflict) {
			logger.Warn("Period already closed", slog.String("period_id", periodID))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to close period in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to close period"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToPeriodResponse(period))
}
