package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"finance-ledger/internal/ledger"
	"finance-ledger/internal/models"
	"finance-ledger/internal/util"

	"github.com/gin-gonic/gin"
)

// CurrentUserKey is the gin context key holding the acting *models.User.
const CurrentUserKey = "currentUser"

// AuthMiddleware 校验 JWT，并在 context 里放入当前用户。
// The token's user must still exist.
func AuthMiddleware(jwtSecret string, svc *ledger.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := util.TokenFromRequest(c)
		if tokenStr == "" {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "unauthorized")
			c.Abort()
			return
		}

		claims, err := util.ParseToken(jwtSecret, tokenStr)
		if err != nil {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "session expired, please log in again")
			c.Abort()
			return
		}

		user, err := svc.GetUser(c.Request.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, ledger.ErrNotFound) {
				util.Error(c, http.StatusUnauthorized, util.CodeAuth, "user does not exist")
			} else {
				slog.Error("load current user", "error", err, "user_id", claims.UserID)
				util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load user")
			}
			c.Abort()
			return
		}

		c.Set(CurrentUserKey, user)
		c.Next()
	}
}

// LocalUser serves a single-tenant deployment: every request acts as owner.
func LocalUser(owner *models.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		if owner == nil || owner.ID == 0 {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "unauthorized")
			c.Abort()
			return
		}
		u := *owner
		c.Set(CurrentUserKey, &u)
		c.Next()
	}
}
