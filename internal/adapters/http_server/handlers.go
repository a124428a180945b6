package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/kezar0001-cpu/Mawjood/internal/adapters/observability"
	"github.com/kezar0001-cpu/Mawjood/internal/app"
	"github.com/kezar0001-cpu/Mawjood/internal/domain"
)

type Handlers struct {
	Auth       *app.AuthService
	Dir        *app.DirectoryService
	Secret     []byte
	SessionTTL time.Duration
	LoginRPS   int
	LoginBurst int

	// SecureCookies marks session cookies Secure; off only in dev,
	// where there is no TLS.
	SecureCookies bool
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Get("/login", h.loginSurface)
	s.mux.With(RateLimit(h.LoginRPS, h.LoginBurst)).Post("/login", h.login)
	s.mux.Post("/register", h.register)
	s.mux.Post("/logout", h.logout)

	s.mux.Route("/dashboard", func(r chi.Router) {
		r.Use(h.Gate)
		r.Get("/", h.overview)

		r.Route("/businesses", func(r chi.Router) {
			r.Get("/", h.listBusinesses)
			r.Post("/", h.createBusiness)
			r.Get("/{id}", h.getBusiness)
			r.Put("/{id}", h.updateBusiness)
			r.Delete("/{id}", h.deleteBusiness)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", h.listCategories)
			r.Post("/", h.createCategory)
			r.Get("/{id}", h.getCategory)
			r.Put("/{id}", h.updateCategory)
			r.Delete("/{id}", h.deleteCategory)
		})
	})
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "request body must be valid JSON")
		return false
	}
	return true
}

// writeDataError maps a failed store operation onto a response. The
// raw message travels to the caller, who renders it inline.
func writeDataError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, domain.ErrValidation):
		writeProblem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	default:
		writeProblem(w, http.StatusInternalServerError, "Data Access Error", err.Error())
	}
}

// ---- auth ----

type credentials struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type adminJSON struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func toAdminJSON(a domain.Admin) adminJSON {
	return adminJSON{ID: a.ID, Email: a.Email, Role: a.Role}
}

// loginSurface is the redirect target of the gate; it echoes the denial
// reason so a client can render it.
func (h *Handlers) loginSurface(w http.ResponseWriter, r *http.Request) {
	resp := map[string]string{"login": "POST credentials to this path"}
	if r.URL.Query().Get("error") == "access_denied" {
		resp["error"] = "Access denied. Admin approval required."
	}
	if from := r.URL.Query().Get("redirectedFrom"); from != "" {
		resp["redirectedFrom"] = from
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handlers) login(w http.ResponseWriter, r *http.Request) {
	var c credentials
	if !decodeJSON(w, r, &c) {
		return
	}

	adm, sess, err := h.Auth.Login(r.Context(), c.Email, c.Password)
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		observability.ObserveAuth("login_failed")
		writeProblem(w, http.StatusUnauthorized, "Authentication Failed", err.Error())
		return
	case errors.Is(err, domain.ErrNotAdmin):
		observability.ObserveAuth("access_denied")
		writeProblem(w, http.StatusForbidden, "Access Denied", "Access denied. Admin approval required.")
		return
	case err != nil:
		writeDataError(w, err)
		return
	}

	observability.ObserveAuth("login_success")
	h.setSessionCookie(w, sess.Token)
	writeJSON(w, http.StatusOK, toAdminJSON(adm))
}

func (h *Handlers) register(w http.ResponseWriter, r *http.Request) {
	var c credentials
	if !decodeJSON(w, r, &c) {
		return
	}

	adm, err := h.Auth.Register(r.Context(), c.Email, c.Password, c.ConfirmPassword)
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeProblem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	case errors.Is(err, domain.ErrEmailTaken):
		writeProblem(w, http.StatusConflict, "Email Taken", err.Error())
		return
	case err != nil:
		writeDataError(w, err)
		return
	}

	observability.ObserveAuth("register")
	writeJSON(w, http.StatusCreated, toAdminJSON(adm))
}

func (h *Handlers) logout(w http.ResponseWriter, r *http.Request) {
	if token, ok := h.sessionToken(r); ok {
		if err := h.Auth.Logout(r.Context(), token); err != nil {
			writeDataError(w, err)
			return
		}
		observability.ObserveAuth("logout")
	}
	h.clearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}
