package pdf

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRenderer struct {
	out   []byte
	err   error
	calls int
	html  string
}

func (f *fakeRenderer) Render(_ context.Context, html string) ([]byte, error) {
	f.calls++
	f.html = html
	return f.out, f.err
}

type fakeArchive struct {
	link string
	err  error
	got  []byte
}

func (f *fakeArchive) Store(_ context.Context, pdf []byte) (string, error) {
	f.got = pdf
	return f.link, f.err
}

func serve(h *Handler, body string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	g := gin.New()
	h.Register(g)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/generate-pdf", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	g.ServeHTTP(w, req)
	return w
}

func TestGeneratePDF(t *testing.T) {
	r := &fakeRenderer{out: []byte("%PDF-1.7 fake")}
	w := serve(NewHandler(r, nil), `{"html":"<html><body>Ada</body></html>"}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, "attachment; filename=resume.pdf", w.Header().Get("Content-Disposition"))
	assert.True(t, strings.HasPrefix(w.Body.String(), "%PDF"))
	assert.Empty(t, w.Header().Get("X-Export-URL"))
	assert.Contains(t, r.html, "Ada")
}

func TestGeneratePDFMissingHTML(t *testing.T) {
	r := &fakeRenderer{}
	for _, body := range []string{`{}`, `{"html":"   "}`, `nope`} {
		w := serve(NewHandler(r, nil), body)
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error":"HTML content missing."}`, w.Body.String())
	}
	assert.Equal(t, 0, r.calls)
}

func TestGeneratePDFRenderFailure(t *testing.T) {
	r := &fakeRenderer{err: errors.New("chrome crashed: /tmp/resume-123")}
	w := serve(NewHandler(r, nil), `{"html":"<p>x</p>"}`)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Failed to generate PDF."}`, w.Body.String())
}

func TestGeneratePDFArchive(t *testing.T) {
	r := &fakeRenderer{out: []byte("%PDF")}
	a := &fakeArchive{link: "https://minio.local/exports/x.pdf?sig=1"}
	w := serve(NewHandler(r, a), `{"html":"<p>x</p>"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, a.link, w.Header().Get("X-Export-URL"))
	assert.Equal(t, []byte("%PDF"), a.got)

	a = &fakeArchive{err: errors.New("bucket down")}
	w = serve(NewHandler(r, a), `{"html":"<p>x</p>"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("X-Export-URL"))
}

func TestChromeRendererDefaults(t *testing.T) {
	cr := NewChromeRenderer("", 0, 0)
	assert.Equal(t, 60*time.Second, cr.timeout)
	assert.True(t, cr.sem.TryAcquire(1))
	assert.False(t, cr.sem.TryAcquire(1))
	cr.sem.Release(1)
}

func TestChromeRendererHonoursCancelledContext(t *testing.T) {
	cr := NewChromeRenderer("", time.Second, 1)
	require.True(t, cr.sem.TryAcquire(1)) // occupy the only slot

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := cr.Render(ctx, "<p>x</p>")
	require.ErrorIs(t, err, context.Canceled)
	cr.sem.Release(1)
}
