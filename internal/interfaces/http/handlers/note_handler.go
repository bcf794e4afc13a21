package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/fedicore/internal/application"
	"github.com/turtacn/fedicore/internal/application/dto"
	"github.com/turtacn/fedicore/pkg/constants"
	"github.com/turtacn/fedicore/pkg/errors"
	"github.com/turtacn/fedicore/pkg/logger"
)

// NoteHandler accepts notes for signed delivery.
type NoteHandler struct {
	federation application.FederationService
	log        logger.Logger
}

// NewNoteHandler creates a new NoteHandler.
func NewNoteHandler(federation application.FederationService, log logger.Logger) *NoteHandler {
	return &NoteHandler{federation: federation, log: log}
}

// SubmitNote godoc
// @Summary      Submit note
// @Description  Wraps the note in a Create activity, signs it with the author's key and delivers it to the inbox.
// @Tags         activitypub
// @Accept       json
// @Produce      json
// @Param        username  path  string                  true  "Author"
// @Param        note_id   path  string                  true  "Note id"
// @Param        body      body  dto.SubmitNoteRequest   true  "Delivery"
// @Success      200  {object}  dto.SubmitNoteResponse
// @Failure      400  {object}  errors.ErrorResponse
// @Failure      502  {object}  errors.ErrorResponse
// @Router       /users/{username}/notes/{note_id} [post]
func (h *NoteHandler) SubmitNote(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, constants.MaxNoteBodyBytes)

	var req dto.SubmitNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, h.log, errors.ErrInvalidParameter("body", err.Error()))
		return
	}

	resp, err := h.federation.SubmitNote(c.Request.Context(), c.Param("username"), c.Param("note_id"), &req)
	if err != nil {
		sendError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
