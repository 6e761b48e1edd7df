package handlers

import (
	"net/http"

	"github.com/bilalsxadad1231231/to-do-fullstack-ai/internal/dto"

	"github.com/gin-gonic/gin"
)

// TranslateTodo godoc
// @Summary      Translate a todo
// @Description  Returns the stored translation for the language, creating it on first request.
// @Tags         translations
// @Accept       json
// @Produce      json
// @Param        id    path      int                       true  "Todo ID"
// @Param        body  body      dto.TranslateTodoRequest  true  "Target language"
// @Success      200   {object}  dto.TranslationResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /todos/{id}/translate [post]
func (h *TodoHandler) TranslateTodo(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.TranslateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	tr, err := h.svc.TranslateTodo(c.Request.Context(), id, req.TargetLanguage)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, translationToResponse(tr))
}

// ListTranslations godoc
// @Summary      List translations of a todo
// @Tags         translations
// @Produce      json
// @Param        id   path      int  true  "Todo ID"
// @Success      200  {array}   dto.TranslationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /todos/{id}/translations [get]
func (h *TodoHandler) ListTranslations(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	list, err := h.svc.ListTranslations(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, translationsToResponses(list))
}

// TranslateText godoc
// @Summary      Translate free text
// @Tags         translations
// @Accept       json
// @Produce      json
// @Param        body  body      dto.TranslateTextRequest  true  "Text and target language"
// @Success      200   {object}  dto.TranslateTextResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /translate [post]
func (h *TodoHandler) TranslateText(c *gin.Context) {
	var req dto.TranslateTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	out, err := h.svc.TranslateText(c.Request.Context(), req.Text, req.TargetLanguage)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.TranslateTextResponse{
		OriginalText:   req.Text,
		TranslatedText: out,
		TargetLanguage: req.TargetLanguage,
	})
}
