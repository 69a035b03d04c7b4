package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"shophub/services"
)

const (
	sessionCookieName = "shophub_session"
	sessionContextKey = "session"
)

// RequestLogger logs every request once it has been handled.
func RequestLogger(logger log.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.WithFields(log.Fields{
			"method":     c.Request.Method,
			"url":        c.Request.URL.String(),
			"remoteAddr": c.ClientIP(),
			"userAgent":  c.Request.UserAgent(),
			"status":     c.Writer.Status(),
			"latency":    time.Since(start).String(),
		}).Info("handled request")
	}
}

// SessionMiddleware attaches the shopper's session to the request, minting a
// new session and cookie when the request has no valid one. A token past half
// of its lifetime is re-issued so active shoppers keep their session.
func (h *Handler) SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := uuid.Nil
		refresh := true
		if token, err := c.Cookie(sessionCookieName); err == nil && token != "" {
			if id, expiresAt, err := parseSessionToken(h.sessionSecret, token); err == nil {
				sessionID = id
				refresh = time.Until(expiresAt) < h.sessionTTL/2
			} else {
				h.logger.WithError(err).Debug("discarding invalid session token")
			}
		}

		if sessionID == uuid.Nil {
			sessionID = uuid.New()
		}
		if refresh {
			if err := h.setSessionCookie(c, sessionID); err != nil {
				h.logger.WithError(err).Error("failed to sign session token")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to start session"})
				return
			}
		}

		c.Set(sessionContextKey, h.sessions.Get(sessionID))
		c.Next()
	}
}

func (h *Handler) setSessionCookie(c *gin.Context, sessionID uuid.UUID) error {
	token, err := generateSessionToken(h.sessionSecret, sessionID, h.sessionTTL)
	if err != nil {
		return err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookieName, token, int(h.sessionTTL.Seconds()), "/", "", h.secureCookies, true)
	return nil
}

func currentSession(c *gin.Context) *services.Session {
	return c.MustGet(sessionContextKey).(*services.Session)
}
