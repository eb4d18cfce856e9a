package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"net/http"

	"petregistry/pkg/utils"
)

// currentUserID pulls the authenticated account id set by the JWT
// middleware. The second return is false when the response has already
// been written.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	raw := c.GetString("user_id")
	if raw == "" {
		utils.RespondError(c, http.StatusUnauthorized, "Not authenticated")
		return uuid.Nil, false
	}

	userID, err := uuid.Parse(raw)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, "Not authenticated")
		return uuid.Nil, false
	}

	return userID, true
}
