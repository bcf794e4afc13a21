package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/turtacn/fedicore/internal/domain/service/mocks"
	"github.com/turtacn/fedicore/pkg/constants"
	"github.com/turtacn/fedicore/pkg/errors"
	"github.com/turtacn/fedicore/pkg/logger"
)

func TestExtractBearer(t *testing.T) {
	assert.Equal(t, "abc", extractBearer("Bearer abc"))
	assert.Equal(t, "abc", extractBearer("bearer abc"))
	assert.Equal(t, "", extractBearer(""))
	assert.Equal(t, "", extractBearer("Basic abc"))
	assert.Equal(t, "", extractBearer("Bearer"))
	assert.Equal(t, "", extractBearer("Bearer a b"))
}

func TestRequireOperator(t *testing.T) {
	auth := new(mocks.MockOperatorAuthenticator)
	auth.On("VerifyOperatorToken", "alice-token").Return("alice", nil)
	auth.On("VerifyOperatorToken", "bad-token").Return("", errors.ErrUnauthorized("operator token rejected", nil))

	router := gin.New()
	var reached string
	router.POST("/users/:username/notes/:note_id", RequireOperator(auth, logger.NewNoopLogger()), func(c *gin.Context) {
		reached = c.GetString(string(constants.ContextKeyUsername))
		c.Status(http.StatusOK)
	})

	tests := []struct {
		name       string
		path       string
		authHeader string
		wantStatus int
	}{
		{"no header", "/users/alice/notes/1", "", http.StatusUnauthorized},
		{"wrong scheme", "/users/alice/notes/1", "Basic alice-token", http.StatusUnauthorized},
		{"invalid token", "/users/alice/notes/1", "Bearer bad-token", http.StatusUnauthorized},
		{"other account", "/users/bob/notes/1", "Bearer alice-token", http.StatusForbidden},
		{"own account", "/users/alice/notes/1", "Bearer alice-token", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reached = ""
			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodPost, tt.path, nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, "alice", reached)
			} else {
				assert.Empty(t, reached)
				assert.Equal(t, constants.BearerScheme, w.Header().Get("WWW-Authenticate"))
			}
		})
	}
	auth.AssertExpectations(t)
}
