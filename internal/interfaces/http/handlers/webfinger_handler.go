package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/fedicore/internal/application"
	"github.com/turtacn/fedicore/pkg/constants"
	"github.com/turtacn/fedicore/pkg/logger"
)

// WebFingerHandler serves account discovery.
type WebFingerHandler struct {
	federation application.FederationService
	log        logger.Logger
}

// NewWebFingerHandler creates a new WebFingerHandler.
func NewWebFingerHandler(federation application.FederationService, log logger.Logger) *WebFingerHandler {
	return &WebFingerHandler{federation: federation, log: log}
}

// Resolve godoc
// @Summary      WebFinger
// @Description  Resolves acct:user@host to the actor document URI.
// @Tags         webfinger
// @Produce      application/jrd+json
// @Param        resource  query  string  true  "acct: URI"
// @Success      200  {object}  models.WebFinger
// @Failure      400  {object}  errors.ErrorResponse
// @Failure      404  {object}  errors.ErrorResponse
// @Router       /.well-known/webfinger [get]
func (h *WebFingerHandler) Resolve(c *gin.Context) {
	doc, err := h.federation.ResolveWebFinger(c.Request.Context(), c.Query("resource"))
	if err != nil {
		sendError(c, h.log, err)
		return
	}
	sendDocument(c, http.StatusOK, constants.ContentTypeJRDJSON, doc)
}
