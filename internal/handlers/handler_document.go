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

// documentHandler handles HTTP requests for financial documents.
type documentHandler struct {
	documentService portssvc.DocumentSvcFacade
}

func newDocumentHandler(ds portssvc.DocumentSvcFacade) *documentHandler {
	return &documentHandler{
		documentService: ds,
	}
}

// registerDocumentRoutes registers document routes nested under a company.
func registerDocumentRoutes(rg *gin.RouterGroup, documentService portssvc.DocumentSvcFacade) {
	h := newDocumentHandler(documentService)

	documents := rg.Group("/documents")
	{
		documents.POST("", h.createDocument)
		documents.GET("", h.listDocuments)
		documents.GET("/:document_id", h.getDocument)
		documents.PUT("/:document_id", h.updateDocument)
		documents.PUT("/:document_id/lines", h.replaceLines)
		documents.DELETE("/:document_id", h.deleteDocument)

		documents.POST("/:document_id/post", h.postDocument)
		documents.POST("/:document_id/lock", h.lockDocument)
		documents.POST("/:document_id/cancel", h.cancelDocument)
		documents.POST("/:document_id/reverse", h.reverseDocument)
	}
}

// createDocument godoc
// @Summary Create a draft document
// @Description Creates a draft document. The fiscal year is resolved from the
// @Description document date when not given, and the next per-company document
// @Description number is assigned.
// @Tags documents
// @Accept  json
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   document body dto.CreateDocumentRequest true "Document details"
// @Success 201 {object} dto.DocumentResponse
// @Failure 400 {object} map[string]string "Invalid input or line validation error"
// @Failure 404 {object} map[string]string "No fiscal year contains the document date"
// @Failure 409 {object} map[string]string "Fiscal year is closed"
// @Failure 500 {object} map[string]string "Failed to create document"
// @Router /companies/{company_id}/documents [post]
func (h *documentHandler) createDocument(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")

	var req dto.CreateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateDocument", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID := middleware.MustGetUserID(c)
	logger.Info("Received request to create document", slog.Int("line_count", len(req.Lines)))

	document, err := h.documentService.CreateDocument(c.Request.Context(), companyID, req, creatorUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error creating document", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Dependency not found creating document", slog.String("error", err.Error()))
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrConflict) {
			logger.Warn("Conflict creating document", slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to create document in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create document"})
		}
		return
	}

	logger.Info("Document created successfully",
		slog.String("document_id", document.DocumentID), slog.Int64("document_number", document.DocumentNumber))
	c.JSON(http.StatusCreated, dto.ToDocumentResponse(document))
}

// getDocument godoc
// @Summary Get a document with its lines
// @Tags documents
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   document_id path string true "Document ID"
// @Success 200 {object} dto.DocumentResponse
// @Failure 404 {object} map[string]string "Document not found"
// @Failure 500 {object} map[string]string "Failed to retrieve document"
// @Router /companies/{company_id}/documents/{document_id} [get]
func (h *documentHandler) getDocument(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	documentID := c.Param("document_id")

	document, err := h.documentService.GetDocumentByID(c.Request.Context(), companyID, documentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
		} else {
			logger.Error("Failed to get document from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve document"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToDocumentResponse(document))
}

// listDocuments godoc
// @Summary List documents
// @Description Returns a token-paginated list of documents, newest first.
// @Tags documents
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   fiscalYearID query string false "Filter by fiscal year"
// @Param   status query string false "Filter by status" Enums(DRAFT, POSTED, LOCKED, REVERSED, CANCELLED)
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Continuation token from the previous page"
// @Success 200 {object} dto.ListDocumentsResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 500 {object} map[string]string "Failed to list documents"
// @Router /companies/{company_id}/documents [get]
func (h *documentHandler) listDocuments(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")

	var params dto.ListDocumentsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListDocuments", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.documentService.ListDocuments(c.Request.Context(), companyID, params)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Invalid pagination token", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to list documents from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list documents"})
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}

// updateDocument godoc
// @Summary Update a draft document's header
// @Description Updates header fields of a draft. Changing the date re-resolves
// @Description the fiscal year.
// @Tags documents
// @Accept  json
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   document_id path string true "Document ID"
// @Param   document body dto.UpdateDocumentRequest true "Fields to update"
// @Success 200 {object} dto.DocumentResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Document not found"
// @Failure 409 {object} map[string]string "Document is not a draft"
// @Failure 500 {object} map[string]string "Failed to update document"
// @Router /companies/{company_id}/documents/{document_id} [put]
func (h *documentHandler) updateDocument(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	documentID := c.Param("document_id")

	var req dto.UpdateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateDocument", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID := middleware.MustGetUserID(c)
	document, err := h.documentService.UpdateDocument(c.Request.Context(), companyID, documentID, req, userID)
	if err != nil {
		h.respondLifecycleError(c, logger, err, "Failed to update document")
		return
	}

	c.JSON(http.StatusOK, dto.ToDocumentResponse(document))
}

// replaceLines godoc
// @Summary Replace the lines of a draft document
// @Description Atomically swaps the full line set. Only drafts accept line changes.
// @Tags documents
// @Accept  json
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   document_id path string true "Document ID"
// @Param   lines body dto.ReplaceDocumentLinesRequest true "New line set"
// @Success 200 {object} dto.DocumentResponse
// @Failure 400 {object} map[string]string "Line validation error"
// @Failure 404 {object} map[string]string "Document not found"
// @Failure 409 {object} map[string]string "Document is not a draft"
// @Failure 500 {object} map[string]string "Failed to replace lines"
// @Router /companies/{company_id}/documents/{document_id}/lines [put]
func (h *documentHandler) replaceLines(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	documentID := c.Param("document_id")

	var req dto.ReplaceDocumentLinesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ReplaceLines", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID := middleware.MustGetUserID(c)
	document, err := h.documentService.ReplaceLines(c.Request.Context(), companyID, documentID, req, userID)
	if err != nil {
		h.respondLifecycleError(c, logger, err, "Failed to replace lines")
		return
	}

	c.JSON(http.StatusOK, dto.ToDocumentResponse(document))
}

// deleteDocument godoc
// @Summary Delete a draft document
// @Tags documents
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   document_id path string true "Document ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Document not found"
// @Failure 409 {object} map[string]string "Document is not a draft"
// @Failure 500 {object} map[string]string "Failed to delete document"
// @Router /companies/{company_id}/documents/{document_id} [delete]
func (h *documentHandler) deleteDocument(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	documentID := c.Param("document_id")

	userID := middleware.MustGetUserID(c)
	if err := h.documentService.DeleteDocument(c.Request.Context(), companyID, documentID, userID); err != nil {
		h.respondLifecycleError(c, logger, err, "Failed to delete document")
		return
	}

	c.Status(http.StatusNoContent)
}

// postDocument godoc
// @Summary Post a draft document
// @Description Runs the posting validation (balance, account paths, fiscal year
// @Description state) and moves the draft to posted.
// @Tags documents
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   document_id path string true "Document ID"
// @Success 200 {object} dto.DocumentResponse
// @Failure 400 {object} map[string]string "Posting validation failed"
// @Failure 404 {object} map[string]string "Document not found"
// @Failure 409 {object} map[string]string "Document is not a draft or fiscal year is closed"
// @Failure 500 {object} map[string]string "Failed to post document"
// @Router /companies/{company_id}/documents/{document_id}/post [post]
func (h *documentHandler) postDocument(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	documentID := c.Param("document_id")

	userID := middleware.MustGetUserID(c)
	logger.Info("Received request to post document", slog.String("document_id", documentID))

	document, err := h.documentService.PostDocument(c.Request.Context(), companyID, documentID, userID)
	if err != nil {
		h.respondLifecycleError(c, logger, err, "Failed to post document")
		return
	}

	logger.Info("Document posted successfully", slog.String("document_id", documentID))
	c.JSON(http.StatusOK, dto.ToDocumentResponse(document))
}

// lockDocument godoc
// @Summary Lock a posted document
// @Tags documents
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   document_id path string true "Document ID"
// @Success 200 {object} dto.DocumentResponse
// @Failure 404 {object} map[string]string "Document not found"
// @Failure 409 {object} map[string]string "Document is not posted"
// @Failure 500 {object} map[string]string "Failed to lock document"
// @Router /companies/{company_id}/documents/{document_id}/lock [post]
func (h *documentHandler) lockDocument(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	documentID := c.Param("document_id")

	userID := middleware.MustGetUserID(c)
	document, err := h.documentService.LockDocument(c.Request.Context(), companyID, documentID, userID)
	if err != nil {
		h.respondLifecycleError(c, logger, err, "Failed to lock document")
		return
	}

	c.JSON(http.StatusOK, dto.ToDocumentResponse(document))
}

// cancelDocument godoc
// @Summary Cancel a draft document
// @Tags documents
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   document_id path string true "Document ID"
// @Success 200 {object} dto.DocumentResponse
// @Failure 404 {object} map[string]string "Document not found"
// @Failure 409 {object} map[string]string "Document is not a draft"
// @Failure 500 {object} map[string]string "Failed to cancel document"
// @Router /companies/{company_id}/documents/{document_id}/cancel [post]
func (h *documentHandler) cancelDocument(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	documentID := c.Param("document_id")

	userID := middleware.MustGetUserID(c)
	document, err := h.documentService.CancelDocument(c.Request.Context(), companyID, documentID, userID)
	if err != nil {
		h.respondLifecycleError(c, logger, err, "Failed to cancel document")
		return
	}

	c.JSON(http.StatusOK, dto.ToDocumentResponse(document))
}

// reverseDocument godoc
// @Summary Reverse a posted document
// @Description Creates and posts a compensating document with mirrored lines
// @Description and marks the original as reversed.
// @Tags documents
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   document_id path string true "Document ID"
// @Success 201 {object} dto.DocumentResponse "The compensating document"
// @Failure 404 {object} map[string]string "Document not found"
// @Failure 409 {object} map[string]string "Document is not posted or fiscal year is closed"
// @Failure 500 {object} map[string]string "Failed to reverse document"
// @Router /companies/{company_id}/documents/{document_id}/reverse [post]
func (h *documentHandler) reverseDocument(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	documentID := c.Param("document_id")

	userID := middleware.MustGetUserID(c)
	logger.Info("Received request to reverse document", slog.String("document_id", documentID))

	reversing, err := h.documentService.ReverseDocument(c.Request.Context(), companyID, documentID, userID)
	if err != nil {
		h.respondLifecycleError(c, logger, err, "Failed to reverse document")
		return
	}

	logger.Info("Document reversed successfully",
		slog.String("document_id", documentID), slog.String("reversing_document_id", reversing.DocumentID))
	c.JSON(http.StatusCreated, dto.ToDocumentResponse(reversing))
}

// respondLifecycleError maps the shared error sentinels of document operations
// to HTTP statuses.
func (h *documentHandler) respondLifecycleError(c *gin.Context, logger *slog.Logger, err error, fallback string) {
	if errors.Is(err, apperrors.ErrNotFound) {
		logger.Warn("Document not found", slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
	} else if errors.Is(err, apperrors.ErrValidation) {
		logger.Warn("Validation error on document operation", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrConflict) {
		logger.Warn("Document state conflict", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	} else {
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
