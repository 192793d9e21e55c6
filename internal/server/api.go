package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/erkantaylan/md-printer/internal/document"
	"github.com/erkantaylan/md-printer/internal/i18n"
	"github.com/erkantaylan/md-printer/internal/render"
)

type i18nResponse struct {
	Language     i18n.Language   `json:"language"`
	Default      i18n.Language   `json:"default"`
	Supported    []i18n.Language `json:"supported"`
	Saved        i18n.Language   `json:"saved,omitempty"`
	Translations i18n.Table      `json:"translations"`
}

type languageRequest struct {
	Language string `json:"language"`
}

type renderRequest struct {
	Markdown string `json:"markdown"`
}

type renderResponse struct {
	HTML  string `json:"html"`
	Title string `json:"title,omitempty"`
}

type documentResponse struct {
	Name     string `json:"name"`
	Markdown string `json:"markdown"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("server: encode response: %v", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func (s *Server) i18nState(r *http.Request) i18nResponse {
	saved, _ := s.store.SavedLanguage(r.Context())
	return i18nResponse{
		Language:     s.store.CurrentLanguage(),
		Default:      s.store.Default(),
		Supported:    s.store.Supported(),
		Saved:        saved,
		Translations: s.store.Table(),
	}
}

func (s *Server) handleGetI18n(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.i18nState(r))
}

func (s *Server) handleSetLanguage(w http.ResponseWriter, r *http.Request) {
	var req languageRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<10)).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := s.store.SetLanguage(context.WithoutCancel(r.Context()), i18n.Language(req.Language))
	if errors.Is(err, i18n.ErrUnsupportedLanguage) {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		// The language did change; the strings fall back to keys.
		log.Printf("server: %v", err)
	}
	writeJSON(w, http.StatusOK, s.i18nState(r))
}

func (s *Server) handleTranslate(w http.ResponseWriter, r *http.Request) {
	keys := r.URL.Query()["key"]
	if len(keys) == 0 {
		s.writeError(w, http.StatusBadRequest, "missing key")
		return
	}
	out := make(map[string]string, len(keys))
	for _, k := range keys {
		out[k] = s.store.Translate(k)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	html, err := s.renderer.Render([]byte(req.Markdown))
	if errors.Is(err, render.ErrEmptyDocument) {
		s.writeError(w, http.StatusBadRequest, s.store.Translate("messages.noPreviewContent"))
		return
	}
	if err != nil {
		log.Printf("server: markdown parsing error: %v", err)
		s.writeError(w, http.StatusUnprocessableEntity, s.store.Translate("messages.parseError")+err.Error())
		return
	}

	etag := render.ETag(html)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	writeJSON(w, http.StatusOK, renderResponse{HTML: html, Title: render.Title(html)})
}

func (s *Server) handleDocument(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "missing file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "failed to read file")
		return
	}

	doc, err := s.docs.Parse(header.Filename, data)
	if errors.Is(err, document.ErrUnsupportedFileType) {
		s.writeError(w, http.StatusUnsupportedMediaType, s.store.Translate("messages.fileTypeError"))
		return
	}
	if err != nil {
		s.writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, documentResponse{Name: doc.Name, Markdown: doc.Markdown})
}

// handlePrint renders the submitted Markdown into a page that opens the
// print dialog on load.
func (s *Server) handlePrint(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	md := r.PostForm.Get("markdown")
	html, err := s.renderer.Render([]byte(md))
	if errors.Is(err, render.ErrEmptyDocument) {
		http.Error(w, s.store.Translate("messages.noPrintContent"), http.StatusBadRequest)
		return
	}
	if err != nil {
		http.Error(w, s.store.Translate("messages.parseError")+err.Error(), http.StatusUnprocessableEntity)
		return
	}
	s.writePrintPage(w, r, html, strings.TrimSpace(r.PostForm.Get("title")), s.store.Translate("app.title"))
}

// handlePrintCurrent prints the content of the watched file.
func (s *Server) handlePrintCurrent(w http.ResponseWriter, r *http.Request) {
	cur := s.hub.Current()
	if cur.Type != TypeContent || strings.TrimSpace(cur.HTML) == "" {
		http.Error(w, s.store.Translate("messages.noPrintContent"), http.StatusNotFound)
		return
	}
	s.writePrintPage(w, r, cur.HTML, "", cur.Filename)
}

// writePrintPage titles the page from the request, then the first heading,
// then fallback.
func (s *Server) writePrintPage(w http.ResponseWriter, r *http.Request, body, title, fallback string) {
	if title == "" {
		title = render.Title(body)
	}
	if title == "" {
		title = fallback
	}
	page := render.Page{
		Title:     title,
		Lang:      string(s.store.CurrentLanguage()),
		AutoPrint: r.URL.Query().Get("autoprint") != "0",
	}

	var b strings.Builder
	if err := render.WriteDocument(&b, body, page); err != nil {
		log.Printf("server: render print page: %v", err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	out := b.String()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("ETag", render.ETag(out))
	_, _ = io.WriteString(w, out)
}
