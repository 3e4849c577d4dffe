// Package notify carries one transient notice across a redirect in a
// short-lived cookie. Reading the notice deletes it.
package notify

import (
	"net/http"
	"net/url"
	"strings"
)

const cookieName = "bv_flash"

type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

type Notice struct {
	Kind    Kind
	Message string
}

func (n Notice) IsError() bool { return n.Kind == KindError }

func Set(w http.ResponseWriter, n Notice) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    url.QueryEscape(string(n.Kind) + "|" + n.Message),
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func Success(w http.ResponseWriter, msg string) { Set(w, Notice{Kind: KindSuccess, Message: msg}) }

func Error(w http.ResponseWriter, msg string) { Set(w, Notice{Kind: KindError, Message: msg}) }

// Pop returns the pending notice, if any, and expires the cookie.
func Pop(w http.ResponseWriter, r *http.Request) (Notice, bool) {
	c, err := r.Cookie(cookieName)
	if err != nil {
		return Notice{}, false
	}
	http.SetCookie(w, &http.Cookie{
		Name:   cookieName,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})

	raw, err := url.QueryUnescape(c.Value)
	if err != nil {
		return Notice{}, false
	}
	kind, msg, ok := strings.Cut(raw, "|")
	if !ok || msg == "" {
		return Notice{}, false
	}
	switch Kind(kind) {
	case KindSuccess, KindError:
	default:
		return Notice{}, false
	}
	return Notice{Kind: Kind(kind), Message: msg}, true
}
