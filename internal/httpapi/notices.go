package httpapi

import (
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/vanshsharma/civicsense/internal/extract"
	"github.com/vanshsharma/civicsense/internal/notice"
	"github.com/vanshsharma/civicsense/internal/schemes"
)

const maxUploadBytes = 16 << 20

func (s *Server) handleUploadNotice(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodPost) {
		return
	}
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, validationError("invalid multipart form"))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, validationError("file field is required"))
		return
	}
	defer file.Close()

	fileBytes, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		writeError(w, internalError("failed to read uploaded file"))
		return
	}

	contentType := header.Header.Get("Content-Type")
	text, method, err := s.extractor.Text(r.Context(), fileBytes, contentType, header.Filename)
	switch {
	case errors.Is(err, extract.ErrUnsupportedType):
		writeError(w, validationError("unsupported file type, upload an image or PDF"))
		return
	case errors.Is(err, extract.ErrToolUnavailable):
		log.Printf("extraction tooling failure for %s: %v", header.Filename, err)
		writeError(w, newError(CodeExtractionFailed, "text extraction is not available on this server", true))
		return
	case err != nil:
		log.Printf("extraction failure for %s: %v", header.Filename, err)
		writeError(w, internalError("failed to extract text"))
		return
	}

	s.analyze(w, r, notice.Input{
		Text:             text,
		SourceFilename:   header.Filename,
		ExtractionMethod: method,
	})
}

func (s *Server) handleAnalyzeText(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodPost) {
		return
	}
	var req struct {
		Text string `json:"text"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	s.analyze(w, r, notice.Input{Text: req.Text, ExtractionMethod: "none"})
}

func (s *Server) analyze(w http.ResponseWriter, r *http.Request, in notice.Input) {
	result, err := s.pipeline.Analyze(r.Context(), in)
	if err != nil {
		// Internal detail was already logged inside the pipeline.
		writeError(w, internalError(notice.ErrProcessingFailed.Error()))
		return
	}
	writeJSON(w, 200, result)
}

func (s *Server) handleFindSchemes(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodPost) {
		return
	}
	var profile schemes.Profile
	if err := decodeJSON(r, &profile); err != nil {
		writeError(w, err)
		return
	}
	if profile.Age < 0 || profile.Age > 120 {
		writeError(w, validationError("age must be between 0 and 120"))
		return
	}
	if profile.Income < 0 {
		writeError(w, validationError("income must not be negative"))
		return
	}
	eligible := s.matcher.Match(profile)
	writeJSON(w, 200, map[string]any{
		"eligible_schemes": eligible,
		"total":            len(eligible),
	})
}

func (s *Server) handleListSchemes(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodGet) {
		return
	}
	catalog := s.matcher.Catalog()
	writeJSON(w, 200, map[string]any{
		"schemes": catalog,
		"total":   len(catalog),
	})
}

func (s *Server) handleRefreshSchemes(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodPost) {
		return
	}
	total := s.matcher.Refresh()
	log.Printf("scheme catalog refreshed: %d schemes", total)
	writeJSON(w, 200, map[string]any{"total": total})
}

func (s *Server) handleSchemesStatus(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodGet) {
		return
	}
	status := s.matcher.Status()
	writeJSON(w, 200, map[string]any{
		"api_key_configured": s.caller != nil,
		"data_available":     status.DataAvailable,
		"total_schemes":      status.SchemesLoaded,
		"data_source":        status.DataSource,
	})
}

func (s *Server) handleTranslate(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodPost) {
		return
	}
	var req struct {
		Text           string `json:"text"`
		TargetLanguage string `json:"target_language"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeJSON(w, 200, map[string]any{"translated_text": ""})
		return
	}
	if strings.TrimSpace(req.TargetLanguage) == "" {
		writeError(w, validationError("target_language is required"))
		return
	}
	if s.caller == nil {
		writeError(w, newError(CodeUnavailable, "translation service is not configured", false))
		return
	}

	system := "You are a professional translator. Translate content to " + req.TargetLanguage + " accurately."
	prompt := "Translate the following text to " + req.TargetLanguage + ". " +
		"Maintain the tone and formatting. Return ONLY the translated text, no introductory or concluding remarks.\n\n" +
		"Text to translate:\n" + req.Text
	translated, err := s.caller.GenerateText(r.Context(), system, prompt)
	if err != nil {
		log.Printf("translation failure: %v", err)
		writeError(w, internalError("translation service failed"))
		return
	}
	translated = strings.TrimSpace(translated)
	if strings.HasPrefix(translated, `"`) && strings.HasSuffix(translated, `"`) && len(translated) >= 2 {
		translated = translated[1 : len(translated)-1]
	}
	writeJSON(w, 200, map[string]any{"translated_text": translated})
}

func (s *Server) handleContact(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodPost) {
		return
	}
	var req struct {
		Name        string `json:"name"`
		Email       string `json:"email"`
		Description string `json:"description"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Description) == "" {
		writeError(w, validationError("name and description are required"))
		return
	}
	if !strings.Contains(req.Email, "@") {
		writeError(w, validationError("a valid email is required"))
		return
	}

	// Outbound mail is not wired up; log the request so support can follow up.
	log.Printf("contact request from %s <%s>: %s", req.Name, req.Email, req.Description)
	writeJSON(w, 200, map[string]any{"message": "Request received"})
}
