// Package httpapi exposes the CivicSense analysis core, scheme search and
// account/history surface over HTTP.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/vanshsharma/civicsense/internal/auth"
	"github.com/vanshsharma/civicsense/internal/extract"
	"github.com/vanshsharma/civicsense/internal/notice"
	"github.com/vanshsharma/civicsense/internal/rules"
	"github.com/vanshsharma/civicsense/internal/schemes"
	"github.com/vanshsharma/civicsense/internal/store"
)

// ReportPDFRenderer renders a saved analysis to PDF bytes.
type ReportPDFRenderer interface {
	Render(ctx context.Context, res notice.Result) ([]byte, error)
}

// Config wires the server's collaborators. Accounts, translation and PDF
// rendering are optional: a nil Store/Tokens disables the authenticated
// surface, a nil Caller disables translation, a nil Renderer disables PDF.
type Config struct {
	Rules     *rules.Store
	Pipeline  *notice.Pipeline
	Matcher   *schemes.Matcher
	Extractor *extract.Extractor
	Store     *store.Store
	Tokens    *auth.Tokens
	Caller    notice.Caller
	Renderer  ReportPDFRenderer
}

type Server struct {
	rules     *rules.Store
	pipeline  *notice.Pipeline
	matcher   *schemes.Matcher
	extractor *extract.Extractor
	store     *store.Store
	tokens    *auth.Tokens
	caller    notice.Caller
	renderer  ReportPDFRenderer
}

func NewServer(cfg Config) http.Handler {
	s := &Server{
		rules:     cfg.Rules,
		pipeline:  cfg.Pipeline,
		matcher:   cfg.Matcher,
		extractor: cfg.Extractor,
		store:     cfg.Store,
		tokens:    cfg.Tokens,
		caller:    cfg.Caller,
		renderer:  cfg.Renderer,
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleRoot)
	mux.HandleFunc("/api/v1/health", s.handleHealth)
	mux.HandleFunc("/api/v1/upload-notice", s.handleUploadNotice)
	mux.HandleFunc("/api/v1/analyze-text", s.handleAnalyzeText)
	mux.HandleFunc("/api/v1/find-schemes", s.handleFindSchemes)
	mux.HandleFunc("/api/v1/schemes", s.handleListSchemes)
	mux.HandleFunc("/api/v1/schemes/refresh", s.handleRefreshSchemes)
	mux.HandleFunc("/api/v1/schemes/status", s.handleSchemesStatus)
	mux.HandleFunc("/api/v1/translate", s.handleTranslate)
	mux.HandleFunc("/api/v1/contact", s.handleContact)
	mux.HandleFunc("/api/v1/auth/signup", s.handleSignup)
	mux.HandleFunc("/api/v1/auth/login", s.handleLogin)
	mux.HandleFunc("/api/v1/auth/me", s.handleMe)
	mux.HandleFunc("/api/v1/auth/profile", s.handleProfile)
	mux.HandleFunc("/api/v1/auth/password", s.handlePassword)
	mux.HandleFunc("/api/v1/auth/logout", s.handleLogout)
	mux.HandleFunc("/api/v1/documents/save", s.handleSaveDocument)
	mux.HandleFunc("/api/v1/documents/history", s.handleHistory)
	mux.HandleFunc("/api/v1/documents/", s.handleDocumentByID)
	return traced(mux)
}

// traced opens one span per request around the mux.
func traced(next http.Handler) http.Handler {
	tracer := otel.Tracer("civicsense/httpapi")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), r.Method+" "+r.URL.Path)
		span.SetAttributes(
			attribute.String("http.method", r.Method),
			attribute.String("http.target", r.URL.Path),
		)
		defer span.End()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	var ae *Error
	if errors.As(err, &ae) {
		writeJSON(w, ae.Status, map[string]any{
			"ok": false,
			"error": map[string]any{
				"code":      ae.Code,
				"message":   ae.Message,
				"transient": ae.Transient,
			},
		})
		return
	}
	writeJSON(w, 500, map[string]any{
		"ok": false,
		"error": map[string]any{
			"code":      CodeInternal,
			"message":   err.Error(),
			"transient": true,
		},
	})
}

func readBody(r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return []byte("{}"), nil
	}
	blob, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	if len(blob) == 0 {
		blob = []byte("{}")
	}
	return blob, nil
}

func decodeJSON(r *http.Request, dst any) error {
	blob, err := readBody(r)
	if err != nil {
		return validationError("invalid body: " + err.Error())
	}
	if err := json.Unmarshal(blob, dst); err != nil {
		return validationError("invalid json: " + err.Error())
	}
	return nil
}

func methodOnly(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return false
	}
	return true
}

// currentUser resolves the bearer token to a stored user. A false return
// means the response has already been written.
func (s *Server) currentUser(w http.ResponseWriter, r *http.Request) (store.User, bool) {
	if s.store == nil || s.tokens == nil {
		writeError(w, newError(CodeUnavailable, "accounts are not enabled on this server", false))
		return store.User{}, false
	}
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if !strings.HasPrefix(header, "Bearer ") {
		writeError(w, unauthorizedError("bearer token required"))
		return store.User{}, false
	}
	email, err := s.tokens.Verify(strings.TrimSpace(strings.TrimPrefix(header, "Bearer ")))
	if err != nil {
		writeError(w, unauthorizedError("could not validate credentials"))
		return store.User{}, false
	}
	user, err := s.store.UserByEmail(email)
	if err != nil {
		writeError(w, unauthorizedError("could not validate credentials"))
		return store.User{}, false
	}
	return user, true
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if !methodOnly(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, 200, map[string]any{
		"message": "CivicSense backend is running",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodGet) {
		return
	}
	snap := s.rules.Snapshot()
	writeJSON(w, 200, map[string]any{
		"ok":             true,
		"rules_loaded":   snap.RulesLoaded,
		"schemes_loaded": snap.SchemesLoaded,
		"categories":     len(snap.Categories),
		"schemes":        len(snap.Schemes),
		"last_error":     snap.LastError,
		"loaded_at":      snap.LoadedAt,
	})
}
