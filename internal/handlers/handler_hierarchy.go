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

// hierarchyHandler handles HTTP requests for the account categorization tree.
type hierarchyHandler struct {
	hierarchyService portssvc.HierarchySvcFacade
}

func newHierarchyHandler(hs portssvc.HierarchySvcFacade) *hierarchyHandler {
	return &hierarchyHandler{
		hierarchyService: hs,
	}
}

// registerHierarchyRoutes registers category tree routes nested under a company.
func registerHierarchyRoutes(rg *gin.RouterGroup, hierarchyService portssvc.HierarchySvcFacade) {
	h := newHierarchyHandler(hierarchyService)

	nodes := rg.Group("/category-nodes")
	{
		nodes.POST("", h.createNode)
		nodes.GET("", h.listNodes)
		nodes.GET("/:node_id", h.getNode)
		nodes.PUT("/:node_id", h.updateNode)
		nodes.DELETE("/:node_id", h.deleteNode)
	}
}

// createNode godoc
// @Summary Create a category node
// @Description Creates a node in the categorization tree. Nodes either group
// @Description other nodes or attach a detail account as a leaf.
// @Tags category-nodes
// @Accept  json
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   node body dto.CreateCategoryNodeRequest true "Node details"
// @Success 201 {object} dto.CategoryNodeResponse
// @Failure 400 {object} map[string]string "Invalid input or cycle detected"
// @Failure 404 {object} map[string]string "Parent node not found"
// @Failure 500 {object} map[string]string "Failed to create node"
// @Router /companies/{company_id}/category-nodes [post]
func (h *hierarchyHandler) createNode(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")

	var req dto.CreateCategoryNodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateNode", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID := middleware.MustGetUserID(c)
	logger.Info("Received request to create category node", slog.String("node_code", req.Code))

	node, err := h.hierarchyService.CreateNode(c.Request.Context(), companyID, req, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Parent not found creating node", slog.String("error", err.Error()))
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error creating node", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrDuplicate) {
			logger.Warn("Duplicate node code", slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to create node in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create node"})
		}
		return
	}

	logger.Info("Category node created successfully", slog.String("node_id", node.NodeID))
	c.JSON(http.StatusCreated, dto.ToCategoryNodeResponse(node))
}

// getNode godoc
// @Summary Get a category node by ID
// @Tags category-nodes
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   node_id path string true "Node ID"
// @Success 200 {object} dto.CategoryNodeResponse
// @Failure 404 {object} map[string]string "Node not found"
// @Failure 500 {object} map[string]string "Failed to retrieve node"
// @Router /companies/{company_id}/category-nodes/{node_id} [get]
func (h *hierarchyHandler) getNode(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	nodeID := c.Param("node_id")

	node, err := h.hierarchyService.GetNodeByID(c.Request.Context(), companyID, nodeID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Node not found"})
		} else {
			logger.Error("Failed to get node from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve node"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToCategoryNodeResponse(node))
}

// listNodes godoc
// @Summary List category nodes
// @Description Lists the whole tree, or one parent's children when parentNodeID
// @Description is given. An empty parentNodeID lists the roots.
// @Tags category-nodes
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   parentNodeID query string false "Parent node ID"
// @Success 200 {array} dto.CategoryNodeResponse
// @Failure 500 {object} map[string]string "Failed to list nodes"
// @Router /companies/{company_id}/category-nodes [get]
func (h *hierarchyHandler) listNodes(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")

	var params dto.ListCategoryNodesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListNodes", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	nodes, err := h.hierarchyService.ListNodes(c.Request.Context(), companyID, params)
	if err != nil {
		logger.Error("Failed to list nodes from service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list nodes"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListCategoryNodeResponse(nodes))
}

// updateNode godoc
// @Summary Update a category node
// @Description Updates a node. Changing the parent moves the whole subtree and
// @Description recomputes its depths; moves that would form a cycle are rejected.
// @Tags category-nodes
// @Accept  json
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   node_id path string true "Node ID"
// @Param   node body dto.UpdateCategoryNodeRequest true "Node details to update"
// @Success 200 {object} dto.CategoryNodeResponse
// @Failure 400 {object} map[string]string "Invalid input or cycle detected"
// @Failure 404 {object} map[string]string "Node not found"
// @Failure 500 {object} map[string]string "Failed to update node"
// @Router /companies/{company_id}/category-nodes/{node_id} [put]
func (h *hierarchyHandler) updateNode(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	nodeID := c.Param("node_id")

	var req dto.UpdateCategoryNodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateNode", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID := middleware.MustGetUserID(c)
	node, err := h.hierarchyService.UpdateNode(c.Request.Context(), companyID, nodeID, req, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Node not found for update", slog.String("node_id", nodeID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Node not found"})
		} else if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error updating node", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to update node in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update node"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToCategoryNodeResponse(node))
}

// deleteNode godoc
// @Summary Delete a category node
// @Description Deletes a leaf node. Nodes that still have children cannot be
// @Description deleted.
// @Tags category-nodes
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   node_id path string true "Node ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Node not found"
// @Failure 409 {object} map[string]string "Node has children"
// @Failure 500 {object} map[string]string "Failed to delete node"
// @Router /companies/{company_id}/category-nodes/{node_id} [delete]
func (h *hierarchyHandler) deleteNode(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	nodeID := c.Param("node_id")

	userID := middleware.MustGetUserID(c)
	if err := h.hierarchyService.DeleteNode(c.Request.Context(), companyID, nodeID, userID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Node not found for deletion", slog.String("node_id", nodeID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Node not found"})
		} else if errors.Is(err, apperrors.ErrConflict) {
			logger.Warn("Node has children and cannot be deleted", slog.String("node_id", nodeID))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to delete node in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete node"})
		}
		return
	}

	c.Status(http.StatusNoContent)
}
