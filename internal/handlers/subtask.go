package handlers

import (
	"net/http"

	dom "github.com/bilalsxadad1231231/to-do-fullstack-ai/internal/domain"
	"github.com/bilalsxadad1231231/to-do-fullstack-ai/internal/dto"

	"github.com/gin-gonic/gin"
)

// Generate godoc
// @Summary      Generate subtasks with AI
// @Description  Appends a new batch of model-generated subtasks. The body may be empty.
// @Tags         subtasks
// @Accept       json
// @Produce      json
// @Param        id    path      int                          true   "Todo ID"
// @Param        body  body      dto.GenerateSubtasksRequest  false  "Generation options"
// @Success      200   {array}   dto.SubtaskResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /todos/{id}/generate [post]
func (h *TodoHandler) Generate(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.GenerateSubtasksRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		badRequest(c, err)
		return
	}
	maxCount := 0
	if req.MaxSubtasks != nil {
		maxCount = *req.MaxSubtasks
	}

	list, err := h.svc.GenerateSubtasks(c.Request.Context(), id, maxCount)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, subtasksToResponses(list))
}

// ListSubtasks godoc
// @Summary      List subtasks of a todo
// @Tags         subtasks
// @Produce      json
// @Param        id   path      int  true  "Todo ID"
// @Success      200  {array}   dto.SubtaskResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /todos/{id}/subtasks [get]
func (h *TodoHandler) ListSubtasks(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	list, err := h.svc.ListSubtasks(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, subtasksToResponses(list))
}

// UpdateSubtask godoc
// @Summary      Update a subtask
// @Tags         subtasks
// @Accept       json
// @Produce      json
// @Param        id    path      int                       true  "Subtask ID"
// @Param        body  body      dto.UpdateSubtaskRequest  true  "Partial update"
// @Success      200   {object}  dto.SubtaskResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /subtasks/{id} [put]
func (h *TodoHandler) UpdateSubtask(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateSubtaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	st, err := h.svc.UpdateSubtask(c.Request.Context(), id, dom.SubtaskPatch{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
		OrderIndex:  req.OrderIndex,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, subtaskToResponse(st))
}
