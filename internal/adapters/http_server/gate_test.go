package httpserver_test

import (
	"context"
	"net/http"
	"net/url"
	"testing"
	"time"

	httpserver "github.com/kezar0001-cpu/Mawjood/internal/adapters/http_server"
	"github.com/kezar0001-cpu/Mawjood/internal/domain"
)

func locationOf(t *testing.T, resp http.Header) *url.URL {
	t.Helper()
	loc := resp.Get("Location")
	if loc == "" {
		t.Fatal("expected a Location header")
	}
	u, err := url.Parse(loc)
	if err != nil {
		t.Fatalf("parse location: %v", err)
	}
	return u
}

func TestGate_NoSessionRedirectsWithOrigin(t *testing.T) {
	env := newTestEnv(t)

	for _, path := range []string{"/dashboard", "/dashboard/businesses", "/dashboard/categories"} {
		rr := get(t, env.mux, path)
		if rr.Code != http.StatusFound {
			t.Fatalf("%s: expected redirect, got %d", path, rr.Code)
		}
		loc := locationOf(t, rr.Header())
		if loc.Path != "/login" {
			t.Fatalf("%s: redirect target %s", path, loc.Path)
		}
		if got := loc.Query().Get("redirectedFrom"); got != path {
			t.Fatalf("%s: redirectedFrom=%q", path, got)
		}
	}
}

func TestGate_ForgedCookieIsNoSession(t *testing.T) {
	env := newTestEnv(t)

	forged := &http.Cookie{Name: httpserver.SessionCookieName, Value: "sometoken.deadbeef"}
	rr := get(t, env.mux, "/dashboard/businesses", forged)
	if rr.Code != http.StatusFound {
		t.Fatalf("expected redirect, got %d", rr.Code)
	}
	loc := locationOf(t, rr.Header())
	if loc.Query().Get("redirectedFrom") != "/dashboard/businesses" {
		t.Fatalf("unexpected location %s", loc)
	}
}

func TestGate_SessionWithoutAdminIsRevoked(t *testing.T) {
	env := newTestEnv(t)

	// live session whose identity has no admin record
	sess := domain.Session{Token: "orphan", UserID: "ghost"}
	if err := env.sessions.Put(context.Background(), sess, time.Hour); err != nil {
		t.Fatalf("put: %v", err)
	}
	cookie := &http.Cookie{Name: httpserver.SessionCookieName, Value: httpserver.SignSession(testSecret, "orphan")}

	rr := get(t, env.mux, "/dashboard", cookie)
	if rr.Code != http.StatusFound {
		t.Fatalf("expected redirect, got %d", rr.Code)
	}
	loc := locationOf(t, rr.Header())
	if loc.Path != "/login" || loc.Query().Get("error") != "access_denied" {
		t.Fatalf("unexpected location %s", loc)
	}

	if _, ok := env.sessions.store["orphan"]; ok {
		t.Fatal("session must be force-revoked")
	}

	var cleared bool
	for _, c := range rr.Result().Cookies() {
		if c.Name == httpserver.SessionCookieName && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Fatal("expected the session cookie to be cleared")
	}

	// the revocation is final: the same cookie is now just "no session"
	rr2 := get(t, env.mux, "/dashboard", cookie)
	loc2 := locationOf(t, rr2.Header())
	if loc2.Query().Get("redirectedFrom") != "/dashboard" {
		t.Fatalf("expected plain login redirect after revocation, got %s", loc2)
	}
}

func TestGate_AdminPasses(t *testing.T) {
	env := newTestEnv(t)
	u := env.addAdmin(t, "a@b.c", "correct-horse")
	cookie := env.sessionCookie(t, u.ID)

	rr := get(t, env.mux, "/dashboard", cookie)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body)
	}
}

func TestSignSession_RoundTripAndTamper(t *testing.T) {
	v := httpserver.SignSession(testSecret, "tok-1")

	tok, ok := httpserver.DecodeSession(testSecret, v)
	if !ok || tok != "tok-1" {
		t.Fatalf("round trip failed: %q %v", tok, ok)
	}
	if _, ok := httpserver.DecodeSession([]byte("other-key"), v); ok {
		t.Fatal("signature must not verify under another key")
	}
	if _, ok := httpserver.DecodeSession(testSecret, "tok-1"); ok {
		t.Fatal("unsigned value must not verify")
	}
}
