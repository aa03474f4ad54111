package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
)

// RequireAdmin gates admin routes on the session login flag. Unauthenticated
// requests are redirected to the login form.
func RequireAdmin(store sessions.Store, sessionName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, _ := store.Get(c.Request, sessionName)
		if admin, _ := session.Values["admin"].(bool); !admin {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}
