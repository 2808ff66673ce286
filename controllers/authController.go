package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"ktinsight-be/config"
	authUtils "ktinsight-be/utils"
)

// sessionCookieName is the site-gate cookie checked by the session
// endpoint.
const sessionCookieName = "kt_auth"

type siteLoginRequest struct {
	Password string `json:"password"`
}

// SiteLogin issues the session cookie on a correct site password. An
// unset password or session secret fails closed.
func SiteLogin(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.SitePassword == "" || cfg.SessionSecret == "" {
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "message": "Server password not set"})
			return
		}

		var req siteLoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "message": "Invalid JSON"})
			return
		}

		if !passwordMatches(cfg.SitePassword, req.Password) {
			c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "message": "Incorrect password"})
			return
		}

		token, err := authUtils.GenerateSessionToken(cfg.SessionSecret)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "message": "Server error"})
			return
		}

		c.SetCookie(sessionCookieName, token, int(authUtils.SessionTTL.Seconds()), "/", "", false, true)
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

// SessionCheck reports whether the caller holds a valid session cookie.
func SessionCheck(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(sessionCookieName)
		authed := err == nil && authUtils.ValidateSessionToken(cfg.SessionSecret, token)
		c.JSON(http.StatusOK, gin.H{"ok": authed})
	}
}

// passwordMatches accepts either a plaintext configured password or a
// bcrypt hash (values starting with $2).
func passwordMatches(configured, candidate string) bool {
	if strings.HasPrefix(configured, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(configured), []byte(candidate)) == nil
	}
	return configured == candidate
}
