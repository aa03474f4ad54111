package handlers

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

type loginRequest struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
}

// LoginForm answers unauthenticated GETs; admin redirects land here.
func (h *Handler) LoginForm(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "login required"})
}

// Login checks the configured admin credential pair and sets the session
// flag. There is no lockout or rate limiting.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !h.checkCredentials(req.Username, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
		return
	}

	session, _ := h.sessions.Get(c.Request, AdminSessionName)
	session.Values["admin"] = true
	if err := session.Save(c.Request, c.Writer); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged in"})
}

// Logout clears the admin flag.
func (h *Handler) Logout(c *gin.Context) {
	session, _ := h.sessions.Get(c.Request, AdminSessionName)
	delete(session.Values, "admin")
	if err := session.Save(c.Request, c.Writer); err != nil {
		respondError(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/login")
}

// checkCredentials compares against ADMIN_USERNAME plus either
// ADMIN_PASSWORD_HASH (bcrypt) or the plain ADMIN_PASSWORD.
func (h *Handler) checkCredentials(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(h.cfg.AdminUsername)) == 1

	if h.cfg.AdminPasswordHash != "" {
		err := bcrypt.CompareHashAndPassword([]byte(h.cfg.AdminPasswordHash), []byte(password))
		return userOK && err == nil
	}
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(h.cfg.AdminPassword)) == 1
	return userOK && passOK
}
