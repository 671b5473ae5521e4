package handler

import (
	pipelineapp "github.com/crm/backend/internal/application/pipeline"
	"github.com/crm/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// OpportunityHandler handles opportunity and pipeline endpoints
type OpportunityHandler struct {
	BaseHandler
	opportunityService *pipelineapp.OpportunityService
}

// NewOpportunityHandler creates a new OpportunityHandler
func NewOpportunityHandler(opportunityService *pipelineapp.OpportunityService) *OpportunityHandler {
	return &OpportunityHandler{opportunityService: opportunityService}
}

// RegisterRoutes registers opportunity routes
func (h *OpportunityHandler) RegisterRoutes(rg *gin.RouterGroup) {
	opportunities := rg.Group("/opportunities")
	opportunities.Use(middleware.RequireResource("opportunities"))
	{
		opportunities.POST("", h.Create)
		opportunities.GET("", h.List)
		opportunities.GET("/pipeline", h.PipelineView)
		opportunities.GET("/:id", h.Get)
		opportunities.PUT("/:id", h.Update)
		opportunities.PATCH("/:id/stage", h.ChangeStage)
		opportunities.DELETE("/:id", h.Delete)
	}
}

// Create creates a new opportunity
func (h *OpportunityHandler) Create(c *gin.Context) {
	var req pipelineapp.CreateOpportunityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.CreatedBy = actorID(c)

	resp, err := h.opportunityService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// List returns opportunities matching the filter
func (h *OpportunityHandler) List(c *gin.Context) {
	var filter pipelineapp.OpportunityListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	opportunities, total, err := h.opportunityService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, opportunities, total, filter.Page, filter.PageSize)
}

// PipelineView returns all opportunities grouped by stage
func (h *OpportunityHandler) PipelineView(c *gin.Context) {
	view, err := h.opportunityService.PipelineView(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, view)
}

// Get returns a single opportunity
func (h *OpportunityHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid opportunity ID")
		return
	}

	resp, err := h.opportunityService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Update applies a partial update to an opportunity
func (h *OpportunityHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid opportunity ID")
		return
	}

	var req pipelineapp.UpdateOpportunityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.UpdatedBy = actorID(c)

	resp, err := h.opportunityService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// ChangeStage moves an opportunity to a new pipeline stage
func (h *OpportunityHandler) ChangeStage(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid opportunity ID")
		return
	}

	var req pipelineapp.ChangeStageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.ChangedBy = actorID(c)

	resp, err := h.opportunityService.ChangeStage(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Delete removes an opportunity
func (h *OpportunityHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid opportunity ID")
		return
	}

	if err := h.opportunityService.Delete(c.Request.Context(), id, actorID(c)); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
