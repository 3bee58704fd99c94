// Package httpserver exposes the dashboard over a JSON API. Each browser gets
// a session cookie; the cookie value selects the logical session inside the
// dashboard service, which serializes that session's actions itself.
package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/Shriya-Guptaa/Regulatory-Compliance-Checker/internal/auth"
	"github.com/Shriya-Guptaa/Regulatory-Compliance-Checker/internal/dashboard"
	"github.com/Shriya-Guptaa/Regulatory-Compliance-Checker/internal/notify"
)

const sessionCookie = "compliance_session"

// maxUploadBytes caps contract uploads at 20 MiB.
const maxUploadBytes = 20 << 20

type Router struct {
	svc *dashboard.Service
}

func NewRouter(svc *dashboard.Service) http.Handler {
	r := &Router{svc: svc}
	mux := chi.NewRouter()

	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	mux.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	mux.Route("/api", func(rt chi.Router) {
		rt.Post("/login", r.wrap(r.handleLogin))
		rt.Post("/session/temp", r.wrap(r.handleTempSession))
		rt.Post("/logout", r.wrap(r.handleLogout))
		rt.Get("/me", r.wrap(r.handleMe))
		rt.Post("/analyze", r.wrap(r.handleAnalyze))
		rt.Get("/dashboard", r.wrap(r.handleDashboard))
		rt.Post("/reset", r.wrap(r.handleReset))
		rt.Post("/notify/test", r.wrap(r.handleTestEmail))
		rt.Get("/runs", r.wrap(r.handleRuns))
		rt.Get("/summary", r.wrap(r.handleSummary))
		rt.Get("/rewrites", r.wrap(r.handleRewrites))
		rt.Get("/rewrites/pdf", r.wrap(r.handleRewritesPDF))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			http.Error(w, err.Error(), statusFor(err))
		}
	}
}

// statusFor maps the service error taxonomy onto HTTP statuses.
func statusFor(err error) int {
	var ae *dashboard.AnalysisError
	var de *notify.DeliveryError
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, dashboard.ErrNotAuthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, auth.ErrInvalidEmail):
		return http.StatusBadRequest
	case errors.Is(err, notify.ErrNotEligible):
		return http.StatusForbidden
	case errors.Is(err, dashboard.ErrRunInProgress),
		errors.Is(err, dashboard.ErrRunActive):
		return http.StatusConflict
	case errors.Is(err, dashboard.ErrNoRun):
		return http.StatusNotFound
	case errors.Is(err, dashboard.ErrNoPDFRenderer),
		errors.Is(err, notify.ErrNotConfigured):
		return http.StatusServiceUnavailable
	case errors.As(err, &ae), errors.As(err, &de):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// sessionID returns the logical session behind the request, minting the
// cookie on first contact.
func (r *Router) sessionID(w http.ResponseWriter, req *http.Request) string {
	if c, err := req.Cookie(sessionCookie); err == nil && c.Value != "" {
		return c.Value
	}
	id := r.svc.NewSessionID()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

func writeJSON(w http.ResponseWriter, v any) error {
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(v)
}

// POST /api/login
// Body: {"email": "...", "password": "..."}
func (r *Router) handleLogin(w http.ResponseWriter, req *http.Request) error {
	sid := r.sessionID(w, req)
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return err
	}
	sess, err := r.svc.Login(sid, body.Email, body.Password)
	if err != nil {
		return err
	}
	return writeJSON(w, sess)
}

// POST /api/session/temp
// Body: {"email": "..."}
func (r *Router) handleTempSession(w http.ResponseWriter, req *http.Request) error {
	sid := r.sessionID(w, req)
	var body struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return err
	}
	sess, err := r.svc.StartTemporarySession(sid, body.Email)
	if err != nil {
		return err
	}
	return writeJSON(w, sess)
}

func (r *Router) handleLogout(w http.ResponseWriter, req *http.Request) error {
	sid := r.sessionID(w, req)
	r.svc.Logout(sid)
	return writeJSON(w, map[string]string{"status": "logged_out"})
}

func (r *Router) handleMe(w http.ResponseWriter, req *http.Request) error {
	sid := r.sessionID(w, req)
	return writeJSON(w, r.svc.SessionInfo(sid))
}

// POST /api/analyze accepts a multipart upload in the "contract" field. The
// file is spooled to a temp path that keeps the original extension, since the
// analyzer dispatches on it.
func (r *Router) handleAnalyze(w http.ResponseWriter, req *http.Request) error {
	sid := r.sessionID(w, req)

	req.Body = http.MaxBytesReader(w, req.Body, maxUploadBytes)
	file, header, err := req.FormFile("contract")
	if err != nil {
		return fmt.Errorf("contract file is required: %w", err)
	}
	defer file.Close()

	tmp, err := os.CreateTemp("", "contract-*"+filepath.Ext(header.Filename))
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := io.Copy(tmp, file); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if _, err := r.svc.Analyze(req.Context(), sid, header.Filename, tmp.Name()); err != nil {
		return err
	}
	view, err := r.svc.Dashboard(sid)
	if err != nil {
		return err
	}
	return writeJSON(w, view)
}

func (r *Router) handleDashboard(w http.ResponseWriter, req *http.Request) error {
	sid := r.sessionID(w, req)
	view, err := r.svc.Dashboard(sid)
	if err != nil {
		return err
	}
	return writeJSON(w, view)
}

func (r *Router) handleReset(w http.ResponseWriter, req *http.Request) error {
	sid := r.sessionID(w, req)
	if err := r.svc.Reset(sid); err != nil {
		return err
	}
	return writeJSON(w, map[string]string{"status": "reset"})
}

func (r *Router) handleTestEmail(w http.ResponseWriter, req *http.Request) error {
	sid := r.sessionID(w, req)
	msg, err := r.svc.SendTestEmail(sid)
	if err != nil {
		return err
	}
	return writeJSON(w, map[string]string{"message": msg})
}

// GET /api/runs?limit=20
func (r *Router) handleRuns(w http.ResponseWriter, req *http.Request) error {
	sid := r.sessionID(w, req)
	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))
	runs, err := r.svc.History(sid, limit)
	if err != nil {
		return err
	}
	return writeJSON(w, runs)
}

// GET /api/summary?days=7
func (r *Router) handleSummary(w http.ResponseWriter, req *http.Request) error {
	sid := r.sessionID(w, req)
	days, _ := strconv.Atoi(req.URL.Query().Get("days"))
	summary, err := r.svc.Summary(sid, days)
	if err != nil {
		return err
	}
	return writeJSON(w, summary)
}

func (r *Router) handleRewrites(w http.ResponseWriter, req *http.Request) error {
	sid := r.sessionID(w, req)
	records, err := r.svc.RewriteCandidates(sid)
	if err != nil {
		return err
	}
	return writeJSON(w, records)
}

func (r *Router) handleRewritesPDF(w http.ResponseWriter, req *http.Request) error {
	sid := r.sessionID(w, req)
	pdf, err := r.svc.RenderRewritesPDF(sid)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="rewritten_clauses.pdf"`)
	_, err = w.Write(pdf)
	return err
}
