package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dgallion1/recipeview/internal/importer"
	"github.com/dgallion1/recipeview/internal/recipe"
	"github.com/dgallion1/recipeview/internal/scale"
)

// ParseResponse is the body returned by the recipe endpoints.
type ParseResponse struct {
	Filename      string      `json:"filename,omitempty"`
	DocumentTitle string      `json:"document_title,omitempty"`
	Recipe        recipe.View `json:"recipe"`
}

// handleParse structures a recipe sent as a Markdown body or as a multipart
// "file" upload. The optional scale query parameter defaults to 1.
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	s.serveRecipe(w, r, false)
}

// handleScale is handleParse with a required scale.
func (s *Server) handleScale(w http.ResponseWriter, r *http.Request) {
	s.serveRecipe(w, r, true)
}

func (s *Server) serveRecipe(w http.ResponseWriter, r *http.Request, requireScale bool) {
	q := r.URL.Query()

	factor := big.NewRat(1, 1)
	if v := q.Get("scale"); v != "" {
		f, err := scale.Parse(v)
		if err != nil {
			jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
		factor = f
	} else if requireScale {
		jsonError(w, "scale query parameter is required", http.StatusBadRequest)
		return
	}

	opts, err := s.requestOptions(r)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	doc, status, err := s.readDocument(w, r)
	if err != nil {
		jsonError(w, err.Error(), status)
		return
	}

	key := cacheKey(doc.Markdown, opts, factor.RatString())
	if body, ok := s.cache.get(key); ok {
		writeJSON(w, body, "hit")
		return
	}

	p, err := recipe.NewParser(s.renderer, opts, s.log)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	rec, err := p.Parse(doc.Markdown)
	if err != nil {
		s.log.Error("parse recipe", "error", err, "filename", doc.filename)
		jsonError(w, "failed to parse recipe", http.StatusInternalServerError)
		return
	}
	defer rec.Close()

	if err := rec.Scale.Set(factor); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, scale.ErrInvalidScale) {
			status = http.StatusBadRequest
		}
		jsonError(w, err.Error(), status)
		return
	}

	body, err := json.Marshal(ParseResponse{
		Filename:      doc.filename,
		DocumentTitle: doc.Title,
		Recipe:        rec.Snapshot(),
	})
	if err != nil {
		jsonError(w, "failed to encode recipe", http.StatusInternalServerError)
		return
	}
	s.cache.set(key, body)
	writeJSON(w, body, "miss")
}

// requestOptions applies the title_heading, side_pattern and hidden_tags
// query overrides to the configured options.
func (s *Server) requestOptions(r *http.Request) (recipe.Options, error) {
	opts := s.cfg.RecipeOptions()
	q := r.URL.Query()

	if v := q.Get("title_heading"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, fmt.Errorf("invalid title_heading: %q", v)
		}
		opts.TreatFirstHeadingAsTitle = b
	}
	if q.Has("side_pattern") {
		opts.SideColumnPattern = q.Get("side_pattern")
	}
	if q.Has("hidden_tags") {
		opts.HiddenTags = nil
		for _, t := range strings.Split(q.Get("hidden_tags"), ",") {
			if t = strings.TrimSpace(t); t != "" {
				opts.HiddenTags = append(opts.HiddenTags, t)
			}
		}
	}
	return opts, nil
}

type uploadedDocument struct {
	*importer.Document
	filename string
}

// readDocument returns the recipe source of the request and, on failure, the
// HTTP status to answer with.
func (s *Server) readDocument(w http.ResponseWriter, r *http.Request) (uploadedDocument, int, error) {
	// Extra 1MB for form overhead.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		data, status, err := s.readLimited(r.Body)
		if err != nil {
			return uploadedDocument{}, status, err
		}
		return uploadedDocument{Document: &importer.Document{Markdown: string(data)}}, 0, nil
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		return uploadedDocument{}, http.StatusBadRequest, fmt.Errorf("invalid multipart form: %w", err)
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		return uploadedDocument{}, http.StatusBadRequest, fmt.Errorf("file is required: %w", err)
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	if !importer.IsSupportedExtension(filename) {
		return uploadedDocument{}, http.StatusBadRequest, fmt.Errorf("unsupported file type: %s", filepath.Ext(filename))
	}
	data, status, err := s.readLimited(file)
	if err != nil {
		return uploadedDocument{}, status, err
	}

	imp, err := importer.ForFile(filename, s.cfg.PDFFallbackPdftotext)
	if err != nil {
		return uploadedDocument{}, http.StatusBadRequest, err
	}
	doc, err := imp.Import(bytes.NewReader(data), filename)
	if err != nil {
		s.log.Warn("import failed", "filename", filename, "error", err)
		return uploadedDocument{}, http.StatusUnprocessableEntity, fmt.Errorf("failed to import %s: %w", filename, err)
	}
	return uploadedDocument{Document: doc, filename: filename}, 0, nil
}

func (s *Server) readLimited(r io.Reader) ([]byte, int, error) {
	data, err := io.ReadAll(io.LimitReader(r, s.cfg.MaxUploadBytes+1))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, http.StatusRequestEntityTooLarge, fmt.Errorf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes)
		}
		return nil, http.StatusBadRequest, fmt.Errorf("failed to read body: %w", err)
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		return nil, http.StatusRequestEntityTooLarge, fmt.Errorf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes)
	}
	return data, 0, nil
}

func writeJSON(w http.ResponseWriter, body []byte, cache string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Cache", cache)
	w.Write(body)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." || name == "/" {
		name = "unnamed"
	}
	return name
}
