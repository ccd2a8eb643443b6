package httpapi

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/vanshsharma/civicsense/internal/auth"
	"github.com/vanshsharma/civicsense/internal/notice"
	"github.com/vanshsharma/civicsense/internal/store"
)

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodPost) {
		return
	}
	if s.store == nil || s.tokens == nil {
		writeError(w, newError(CodeUnavailable, "accounts are not enabled on this server", false))
		return
	}
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		FullName string `json:"full_name"`
		Phone    string `json:"phone"`
		DOB      string `json:"dob"`
		Gender   string `json:"gender"`
		Address  string `json:"address"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if !strings.Contains(req.Email, "@") {
		writeError(w, validationError("a valid email is required"))
		return
	}
	if len(req.Password) < 8 {
		writeError(w, validationError("password must be at least 8 characters"))
		return
	}
	if strings.TrimSpace(req.FullName) == "" {
		writeError(w, validationError("full_name is required"))
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		writeError(w, internalError("failed to create account"))
		return
	}
	user, err := s.store.CreateUser(store.User{
		Email:        req.Email,
		FullName:     strings.TrimSpace(req.FullName),
		PasswordHash: hash,
		Phone:        req.Phone,
		DOB:          req.DOB,
		Gender:       req.Gender,
		Address:      req.Address,
	})
	if errors.Is(err, store.ErrDuplicateEmail) {
		writeError(w, validationError("email already registered"))
		return
	}
	if err != nil {
		log.Printf("signup failed for %s: %v", req.Email, err)
		writeError(w, internalError("failed to create account"))
		return
	}

	token, err := s.tokens.Issue(user.Email)
	if err != nil {
		writeError(w, internalError("failed to issue token"))
		return
	}
	log.Printf("new user registered: %s", user.Email)
	writeJSON(w, 201, map[string]any{"access_token": token, "token_type": "bearer"})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodPost) {
		return
	}
	if s.store == nil || s.tokens == nil {
		writeError(w, newError(CodeUnavailable, "accounts are not enabled on this server", false))
		return
	}
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	user, err := s.store.UserByEmail(strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil || !auth.VerifyPassword(req.Password, user.PasswordHash) {
		writeError(w, unauthorizedError("incorrect email or password"))
		return
	}
	token, err := s.tokens.Issue(user.Email)
	if err != nil {
		writeError(w, internalError("failed to issue token"))
		return
	}
	log.Printf("user logged in: %s", user.Email)
	writeJSON(w, 200, map[string]any{"access_token": token, "token_type": "bearer"})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodGet) {
		return
	}
	user, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	writeJSON(w, 200, user)
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodPut) {
		return
	}
	user, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	var req struct {
		FullName *string `json:"full_name"`
		Phone    *string `json:"phone"`
		DOB      *string `json:"dob"`
		Gender   *string `json:"gender"`
		Address  *string `json:"address"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	patch := map[string]string{}
	if req.FullName != nil {
		patch["full_name"] = *req.FullName
	}
	if req.Phone != nil {
		patch["phone"] = *req.Phone
	}
	if req.DOB != nil {
		patch["dob"] = *req.DOB
	}
	if req.Gender != nil {
		patch["gender"] = *req.Gender
	}
	if req.Address != nil {
		patch["address"] = *req.Address
	}
	if len(patch) == 0 {
		writeError(w, validationError("no fields to update"))
		return
	}
	updated, err := s.store.UpdateProfile(user.ID, patch)
	if err != nil {
		log.Printf("profile update failed for %s: %v", user.Email, err)
		writeError(w, internalError("failed to update profile"))
		return
	}
	log.Printf("user profile updated: %s", user.Email)
	writeJSON(w, 200, updated)
}

func (s *Server) handlePassword(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodPut) {
		return
	}
	user, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	var req struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if !auth.VerifyPassword(req.CurrentPassword, user.PasswordHash) {
		writeError(w, unauthorizedError("current password is incorrect"))
		return
	}
	if len(req.NewPassword) < 8 {
		writeError(w, validationError("password must be at least 8 characters"))
		return
	}
	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		writeError(w, internalError("failed to update password"))
		return
	}
	if err := s.store.UpdatePassword(user.ID, hash); err != nil {
		log.Printf("password update failed for %s: %v", user.Email, err)
		writeError(w, internalError("failed to update password"))
		return
	}
	log.Printf("password changed for user: %s", user.Email)
	writeJSON(w, 200, map[string]any{"message": "password updated"})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodPost) {
		return
	}
	user, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	// Tokens are stateless; the client discards it.
	log.Printf("user logged out: %s", user.Email)
	writeJSON(w, 200, map[string]any{"message": "logged out"})
}

func (s *Server) handleSaveDocument(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodPost) {
		return
	}
	user, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	var req struct {
		Filename    string          `json:"filename"`
		NoticeType  string          `json:"notice_type"`
		Severity    string          `json:"severity"`
		Explanation json.RawMessage `json:"explanation"`
		Metadata    json.RawMessage `json:"metadata"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if strings.TrimSpace(req.Filename) == "" {
		writeError(w, validationError("filename is required"))
		return
	}
	doc, err := s.store.SaveDocument(store.Document{
		UserID:      user.ID,
		Filename:    req.Filename,
		NoticeType:  req.NoticeType,
		Severity:    req.Severity,
		Explanation: req.Explanation,
		Metadata:    req.Metadata,
	})
	if err != nil {
		log.Printf("save document failed for %s: %v", user.Email, err)
		writeError(w, internalError("failed to save document"))
		return
	}
	writeJSON(w, 201, doc)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodGet) {
		return
	}
	user, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	docs, err := s.store.History(user.ID)
	if err != nil {
		log.Printf("history failed for %s: %v", user.Email, err)
		writeError(w, internalError("failed to load history"))
		return
	}
	if docs == nil {
		docs = []store.Document{}
	}
	writeJSON(w, 200, docs)
}

// handleDocumentByID serves DELETE /api/v1/documents/{id} and
// GET /api/v1/documents/{id}/report.pdf.
func (s *Server) handleDocumentByID(w http.ResponseWriter, r *http.Request) {
	user, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/v1/documents/"), "/")

	if r.Method == http.MethodGet && strings.HasSuffix(rest, "/report.pdf") {
		s.serveDocumentPDF(w, r, user, strings.TrimSuffix(rest, "/report.pdf"))
		return
	}
	if r.Method != http.MethodDelete {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	id, err := strconv.ParseInt(rest, 10, 64)
	if err != nil {
		writeError(w, validationError("invalid document id"))
		return
	}
	if err := s.store.DeleteDocument(id, user.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, newError(CodeNotFound, "document not found", false))
			return
		}
		log.Printf("delete document %d failed for %s: %v", id, user.Email, err)
		writeError(w, internalError("failed to delete document"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) serveDocumentPDF(w http.ResponseWriter, r *http.Request, user store.User, rawID string) {
	if s.renderer == nil {
		writeError(w, newError(CodeUnavailable, "PDF rendering is not available on this server", false))
		return
	}
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		writeError(w, validationError("invalid document id"))
		return
	}
	doc, err := s.store.DocumentByID(id, user.ID)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, newError(CodeNotFound, "document not found", false))
		return
	}
	if err != nil {
		writeError(w, internalError("failed to load document"))
		return
	}

	var explanation notice.Explanation
	_ = json.Unmarshal(doc.Explanation, &explanation)
	analyzedAt, _ := time.Parse(time.RFC3339, doc.CreatedAt)
	res := notice.Result{
		NoticeType:  doc.NoticeType,
		Severity:    notice.Severity(doc.Severity),
		Explanation: explanation,
		Metadata: notice.ResultMetadata{
			SourceFilename: doc.Filename,
			CompletedAt:    analyzedAt,
		},
		Disclaimer: notice.Disclaimer,
	}
	pdf, err := s.renderer.Render(r.Context(), res)
	if err != nil {
		log.Printf("pdf render failed for document %d: %v", id, err)
		writeError(w, internalError("failed to render PDF"))
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="notice-analysis.pdf"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}
