package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/fedicore/internal/application"
	"github.com/turtacn/fedicore/pkg/constants"
	"github.com/turtacn/fedicore/pkg/logger"
)

// ActorHandler serves actor profile documents.
type ActorHandler struct {
	federation application.FederationService
	log        logger.Logger
}

// NewActorHandler creates a new ActorHandler.
func NewActorHandler(federation application.FederationService, log logger.Logger) *ActorHandler {
	return &ActorHandler{federation: federation, log: log}
}

// GetActor godoc
// @Summary      Actor profile
// @Description  Returns the ActivityPub Person document of a local account, minting its keypair on first access.
// @Tags         activitypub
// @Produce      application/activity+json
// @Param        username  path  string  true  "Local username"
// @Success      200  {object}  models.Actor
// @Failure      404  {object}  errors.ErrorResponse
// @Router       /users/{username} [get]
func (h *ActorHandler) GetActor(c *gin.Context) {
	actor, err := h.federation.GetActor(c.Request.Context(), c.Param("username"))
	if err != nil {
		sendError(c, h.log, err)
		return
	}
	sendDocument(c, http.StatusOK, constants.ContentTypeActivityJSON, actor)
}
