package api

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dgallion1/recipeview/internal/config"
)

const soup = `# Tomato Soup

## Ingredients

- 1 1/2 cups stock
- 2 tomatoes

## Method

Simmer 20 minutes.
`

func newTestServer(t *testing.T, mutate func(*config.Config)) *Server {
	t.Helper()
	cfg := config.Default()
	if mutate != nil {
		mutate(&cfg)
	}
	return NewServer(nil, slog.New(slog.DiscardHandler), cfg)
}

func do(t *testing.T, srv http.Handler, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func decodeParse(t *testing.T, rec *httptest.ResponseRecorder) ParseResponse {
	t.Helper()
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp ParseResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body["error"]
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, func(c *config.Config) { c.APIKey = "secret" })
	rec := do(t, srv, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("unexpected health response %d %s", rec.Code, rec.Body.String())
	}
}

func TestParse_MarkdownBody(t *testing.T) {
	srv := newTestServer(t, nil)
	rec := do(t, srv, httptest.NewRequest(http.MethodPost, "/api/recipes/parse?scale=2", strings.NewReader(soup)))
	if got := rec.Header().Get("X-Cache"); got != "miss" {
		t.Errorf("expected cache miss, got %q", got)
	}
	resp := decodeParse(t, rec)

	r := resp.Recipe
	if r.Title != "Tomato Soup" {
		t.Errorf("expected title %q, got %q", "Tomato Soup", r.Title)
	}
	if r.Scale != "2" {
		t.Errorf("expected scale 2, got %q", r.Scale)
	}
	if len(r.Sections) != 1 || len(r.Sections[0].Side) != 2 {
		t.Fatalf("unexpected sections %+v", r.Sections)
	}
	if r.Sections[0].Side[1].Kind != "checkable-ingredient-list" {
		t.Errorf("expected ingredient list, got %q", r.Sections[0].Side[1].Kind)
	}
	var texts []string
	for _, q := range r.Quantities {
		texts = append(texts, q.Text)
	}
	if strings.Join(texts, "|") != "3 cups|4|40" {
		t.Errorf("expected scaled quantities, got %v", texts)
	}
}

func TestParse_Cached(t *testing.T) {
	srv := newTestServer(t, nil)
	first := do(t, srv, httptest.NewRequest(http.MethodPost, "/api/recipes/parse", strings.NewReader(soup)))
	second := do(t, srv, httptest.NewRequest(http.MethodPost, "/api/recipes/parse", strings.NewReader(soup)))

	if second.Header().Get("X-Cache") != "hit" {
		t.Errorf("expected cache hit on identical request")
	}
	if first.Body.String() != second.Body.String() {
		t.Error("expected identical cached body")
	}

	// A different scale is a different entry.
	third := do(t, srv, httptest.NewRequest(http.MethodPost, "/api/recipes/parse?scale=3", strings.NewReader(soup)))
	if third.Header().Get("X-Cache") != "miss" {
		t.Error("expected cache miss for a new scale")
	}

	stats := do(t, srv, httptest.NewRequest(http.MethodGet, "/api/stats/cache", nil))
	var body struct {
		Cache cacheStats `json:"cache"`
	}
	if err := json.NewDecoder(stats.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Cache.Items != 2 || body.Cache.Hits != 1 || body.Cache.Misses != 2 {
		t.Errorf("unexpected cache stats %+v", body.Cache)
	}
}

func TestParse_QueryOverrides(t *testing.T) {
	srv := newTestServer(t, nil)
	url := "/api/recipes/parse?title_heading=false&side_pattern=&hidden_tags=x"
	resp := decodeParse(t, do(t, srv, httptest.NewRequest(http.MethodPost, url, strings.NewReader(soup))))

	if resp.Recipe.Title != "" {
		t.Errorf("expected no title, got %q", resp.Recipe.Title)
	}
	sec := resp.Recipe.Sections[0]
	// With no side pattern and the h1 counting as a header, nothing moves
	// to the side column.
	if len(sec.Side) != 0 {
		t.Errorf("expected empty side column, got %+v", sec.Side)
	}
}

func TestParse_BadRequests(t *testing.T) {
	srv := newTestServer(t, func(c *config.Config) { c.MaxUploadBytes = 64 })

	cases := []struct {
		name string
		url  string
		body string
		want int
	}{
		{"zero scale", "/api/recipes/parse?scale=0", "x", http.StatusBadRequest},
		{"bad scale", "/api/recipes/parse?scale=abc", "x", http.StatusBadRequest},
		{"scale required", "/api/recipes/scale", "x", http.StatusBadRequest},
		{"bad title flag", "/api/recipes/parse?title_heading=maybe", "x", http.StatusBadRequest},
		{"bad pattern", "/api/recipes/parse?side_pattern=(", "x", http.StatusBadRequest},
		{"too large", "/api/recipes/parse", strings.Repeat("a", 100), http.StatusRequestEntityTooLarge},
	}
	for _, tc := range cases {
		rec := do(t, srv, httptest.NewRequest(http.MethodPost, tc.url, strings.NewReader(tc.body)))
		if rec.Code != tc.want {
			t.Errorf("%s: expected %d, got %d", tc.name, tc.want, rec.Code)
			continue
		}
		if msg := errorMessage(t, rec); msg == "" {
			t.Errorf("%s: expected error message", tc.name)
		}
	}
}

func TestScale(t *testing.T) {
	srv := newTestServer(t, nil)
	resp := decodeParse(t, do(t, srv, httptest.NewRequest(http.MethodPost, "/api/recipes/scale?scale=1/2", strings.NewReader(soup))))
	if resp.Recipe.Quantities[0].Text != "3/4 cups" {
		t.Errorf("expected %q, got %q", "3/4 cups", resp.Recipe.Quantities[0].Text)
	}
}

func multipartRequest(t *testing.T, url, filename, content string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatal(err)
	}
	fw.Write([]byte(content))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, url, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestParse_Upload(t *testing.T) {
	srv := newTestServer(t, nil)
	req := multipartRequest(t, "/api/recipes/parse", "../../bread.csv", "quantity,unit,ingredient\n2,cups,flour\n")
	resp := decodeParse(t, do(t, srv, req))

	if resp.Filename != "bread.csv" {
		t.Errorf("expected sanitized filename, got %q", resp.Filename)
	}
	if resp.DocumentTitle != "bread" {
		t.Errorf("expected document title %q, got %q", "bread", resp.DocumentTitle)
	}
	side := resp.Recipe.Sections[0].Side
	if len(side) != 2 || side[1].Kind != "checkable-ingredient-list" {
		t.Fatalf("expected ingredient list in side column, got %+v", side)
	}
	if len(resp.Recipe.Quantities) != 1 || resp.Recipe.Quantities[0].Text != "2 cups" {
		t.Errorf("unexpected quantities %+v", resp.Recipe.Quantities)
	}
}

func TestParse_UploadUnsupported(t *testing.T) {
	srv := newTestServer(t, nil)
	rec := do(t, srv, multipartRequest(t, "/api/recipes/parse", "photo.jpg", "x"))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if msg := errorMessage(t, rec); !strings.Contains(msg, ".jpg") {
		t.Errorf("expected extension in error, got %q", msg)
	}
}

func TestParse_UploadImportFailure(t *testing.T) {
	srv := newTestServer(t, func(c *config.Config) { c.PDFFallbackPdftotext = false })
	rec := do(t, srv, multipartRequest(t, "/api/recipes/parse", "card.pdf", "not a pdf"))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %d", rec.Code)
	}
}

func TestAuth(t *testing.T) {
	srv := newTestServer(t, func(c *config.Config) { c.APIKey = "secret" })

	req := httptest.NewRequest(http.MethodPost, "/api/recipes/parse", strings.NewReader(soup))
	if rec := do(t, srv, req); rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without header, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/recipes/parse", strings.NewReader(soup))
	req.Header.Set("Authorization", "Bearer wrong")
	if rec := do(t, srv, req); rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 with wrong key, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/recipes/parse", strings.NewReader(soup))
	req.Header.Set("Authorization", "Bearer secret")
	if rec := do(t, srv, req); rec.Code != http.StatusOK {
		t.Errorf("expected 200 with key, got %d", rec.Code)
	}
}

func TestSanitizeFilename(t *testing.T) {
	cases := map[string]string{
		"bread.md":          "bread.md",
		"../../etc/passwd":  "passwd",
		`C:\Users\x\a.docx`: "a.docx",
		"":                  "unnamed",
		"..":                "_",
	}
	for in, want := range cases {
		if got := sanitizeFilename(in); got != want {
			t.Errorf("%q: expected %q, got %q", in, want, got)
		}
	}
}
