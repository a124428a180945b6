package httpserver

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/kezar0001-cpu/Mawjood/internal/adapters/observability"
	"github.com/kezar0001-cpu/Mawjood/internal/domain"
)

const SessionCookieName = "mawjood_session"

// SignSession produces the cookie value "token.signature". The HMAC lets
// the gate drop forged cookies before touching the session store; the
// store lookup still decides whether the token is live.
func SignSession(secret []byte, token string) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(token))
	return token + "." + hex.EncodeToString(mac.Sum(nil))
}

// DecodeSession verifies a cookie value and returns the bare token.
func DecodeSession(secret []byte, value string) (string, bool) {
	token, sig, ok := strings.Cut(value, ".")
	if !ok || token == "" {
		return "", false
	}
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(token))
	want := hex.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(sig), []byte(want)) {
		return "", false
	}
	return token, true
}

func (h *Handlers) sessionToken(r *http.Request) (string, bool) {
	c, err := r.Cookie(SessionCookieName)
	if err != nil || c.Value == "" {
		return "", false
	}
	return DecodeSession(h.Secret, c.Value)
}

func (h *Handlers) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    SignSession(h.Secret, token),
		Path:     "/",
		MaxAge:   int(h.SessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handlers) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func redirectToLogin(w http.ResponseWriter, r *http.Request, params url.Values) {
	u := url.URL{Path: "/login", RawQuery: params.Encode()}
	http.Redirect(w, r, u.String(), http.StatusFound)
}

// admit runs the access rule for one request: a session must exist and
// its identity must still hold an admin record. On failure it writes the
// redirect and reports false. Both the gate middleware and every
// dashboard handler call this; neither layer trusts the other to have
// run.
func (h *Handlers) admit(w http.ResponseWriter, r *http.Request) (domain.Admin, string, bool) {
	token, ok := h.sessionToken(r)
	if !ok {
		redirectToLogin(w, r, url.Values{"redirectedFrom": {r.URL.Path}})
		return domain.Admin{}, "", false
	}

	adm, err := h.Auth.RequireAdmin(r.Context(), token)
	switch {
	case err == nil:
		return adm, token, true
	case errors.Is(err, domain.ErrNotAdmin):
		// session already revoked by the auth service; drop the cookie too
		observability.ObserveAuth("access_denied")
		h.clearSessionCookie(w)
		redirectToLogin(w, r, url.Values{"error": {"access_denied"}})
	case errors.Is(err, domain.ErrNoSession):
		redirectToLogin(w, r, url.Values{"redirectedFrom": {r.URL.Path}})
	default:
		writeProblem(w, http.StatusInternalServerError, "Auth Check Failed", err.Error())
	}
	return domain.Admin{}, "", false
}

// Gate is the edge layer of the access rule, applied to the whole
// /dashboard subtree before any handler runs.
func (h *Handlers) Gate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, _, ok := h.admit(w, r); !ok {
			return
		}
		next.ServeHTTP(w, r)
	})
}
