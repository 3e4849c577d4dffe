package middleware

import (
	"log"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"blogview/notify"
	"blogview/session"
)

const sessionKey = "session"

// cookieMaxAge keeps the visitor cookie for a year; the session itself ends
// only on logout.
const cookieMaxAge = 365 * 24 * 60 * 60

// SessionMiddleware resolves the visitor from the signed cookie, minting a
// new one when it is missing or invalid, and restores their session.
func SessionMiddleware(signer *session.CookieSigner, storage session.Storage) gin.HandlerFunc {
	return func(c *gin.Context) {
		visitor := ""
		if raw, err := c.Cookie(session.CookieName); err == nil {
			if v, err := signer.Parse(raw); err == nil {
				visitor = v
			}
		}

		if visitor == "" {
			v, token, err := signer.Issue()
			if err != nil {
				log.Printf("❌ Failed to issue visitor cookie: %v", err)
				c.AbortWithStatus(http.StatusInternalServerError)
				return
			}
			visitor = v
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(session.CookieName, token, cookieMaxAge, "/", "", false, true)
		}

		holder, err := session.Open(c.Request.Context(), storage, visitor)
		if err != nil {
			log.Printf("⚠️ Session restore failed, treating visitor as anonymous: %v", err)
		}
		c.Set(sessionKey, holder)
		c.Next()
	}
}

// Session returns the holder set by SessionMiddleware.
func Session(c *gin.Context) *session.Holder {
	if v, ok := c.Get(sessionKey); ok {
		if h, ok := v.(*session.Holder); ok {
			return h
		}
	}
	return nil
}

// RequireAuth sends anonymous visitors to the login page.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := Session(c)
		if h == nil || h.Current() != session.Authenticated {
			notify.Error(c.Writer, "Please log in first")
			c.Redirect(http.StatusSeeOther, "/login?next="+url.QueryEscape(c.Request.URL.RequestURI()))
			c.Abort()
			return
		}
		c.Next()
	}
}
