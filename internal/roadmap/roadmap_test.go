package roadmap

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resumate/resumate/internal/apperr"
	"github.com/resumate/resumate/internal/llm"
)

type step struct {
	out   string
	err   error
	block bool
}

type fakeClient struct {
	mu      sync.Mutex
	steps   []step
	prompts []string
	opts    []llm.Options
}

func (f *fakeClient) Generate(ctx context.Context, prompt string, opts llm.Options) (string, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.opts = append(f.opts, opts)
	if len(f.steps) == 0 {
		f.mu.Unlock()
		return "", errors.New("unexpected call")
	}
	s := f.steps[0]
	f.steps = f.steps[1:]
	f.mu.Unlock()
	if s.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return s.out, s.err
}

func (f *fakeClient) Close() error { return nil }

func (f *fakeClient) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

var validReq = Request{JobDescription: "Go and Kubernetes", Resume: "Python dev", Duration: "60 days"}

func TestGenerateHappyPathTruncatesToTwoPhases(t *testing.T) {
	f := &fakeClient{steps: []step{
		{out: `{"missing_skills":["Go","Kubernetes"," "]}`},
		{out: "```json\n" + `{"roadmap":[
			{"week":"1-4","focus":"Go","topics_summary":"syntax","resources_summary":"go.dev","goal":"write services"},
			{"week":"5-8","focus":"K8s","topics_summary":"pods","resources_summary":"kubernetes.io","goal":"deploy apps"},
			{"week":"9","focus":"extra","topics_summary":"x","resources_summary":"y","goal":"z"}
		]}` + "\n```"},
	}}
	res, err := NewGenerator(f, time.Second).Generate(context.Background(), validReq)
	require.NoError(t, err)
	require.Len(t, res.Roadmap, MaxPhases)
	assert.Equal(t, "Go", res.Roadmap[0].Focus)
	assert.Empty(t, res.Error)

	require.Equal(t, 2, f.calls())
	assert.Contains(t, f.prompts[1], "Go, Kubernetes")
	assert.Contains(t, f.prompts[1], "60 days")
	assert.Equal(t, int32(512), f.opts[0].MaxOutputTokens)
	assert.True(t, f.opts[0].JSON)
	assert.Equal(t, int32(2048), f.opts[1].MaxOutputTokens)
}

func TestGenerateEmptyGapsSkipsSecondCall(t *testing.T) {
	f := &fakeClient{steps: []step{{out: `{"missing_skills":[]}`}}}
	res, err := NewGenerator(f, time.Second).Generate(context.Background(), validReq)
	require.NoError(t, err)
	assert.NotNil(t, res.Roadmap)
	assert.Empty(t, res.Roadmap)
	assert.Equal(t, NoGapsMessage, res.Error)
	assert.Equal(t, 1, f.calls())
}

func TestGenerateUnparseableGapsSkipsSecondCall(t *testing.T) {
	f := &fakeClient{steps: []step{{out: "I cannot help with that"}}}
	res, err := NewGenerator(f, time.Second).Generate(context.Background(), validReq)
	require.NoError(t, err)
	assert.Equal(t, NoGapsMessage, res.Error)
	assert.Equal(t, 1, f.calls())
}

func TestGenerateGapTimeoutShortCircuits(t *testing.T) {
	f := &fakeClient{steps: []step{{block: true}, {out: `{"roadmap":[]}`}}}
	_, err := NewGenerator(f, 30*time.Millisecond).Generate(context.Background(), validReq)
	var ue *apperr.UpstreamError
	require.ErrorAs(t, err, &ue)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, f.calls())
}

func TestGenerateMissingRoadmapKey(t *testing.T) {
	f := &fakeClient{steps: []step{
		{out: `{"missing_skills":["Go"]}`},
		{out: `{"plan":[{"focus":"Go"}]}`},
	}}
	res, err := NewGenerator(f, time.Second).Generate(context.Background(), validReq)
	require.NoError(t, err)
	assert.NotNil(t, res.Roadmap)
	assert.Empty(t, res.Roadmap)
	assert.Empty(t, res.Error)
}

func TestGenerateSecondCallError(t *testing.T) {
	f := &fakeClient{steps: []step{
		{out: `{"missing_skills":["Go"]}`},
		{err: errors.New("503")},
	}}
	_, err := NewGenerator(f, time.Second).Generate(context.Background(), validReq)
	assert.Equal(t, http.StatusInternalServerError, apperr.HTTPStatus(err))
}

func TestGenerateRequiresAllFields(t *testing.T) {
	f := &fakeClient{}
	for _, r := range []Request{
		{Resume: "r", Duration: "d"},
		{JobDescription: "j", Duration: "d"},
		{JobDescription: "j", Resume: "r"},
	} {
		_, err := NewGenerator(f, time.Second).Generate(context.Background(), r)
		assert.Equal(t, http.StatusBadRequest, apperr.HTTPStatus(err))
	}
	assert.Equal(t, 0, f.calls())
}

func post(g *gin.Engine, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/generate-roadmap", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	g.ServeHTTP(w, req)
	return w
}

func TestHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	g := gin.New()
	RegisterRoutes(g, NewGenerator(&fakeClient{steps: []step{{out: `{"missing_skills":[]}`}}}, time.Second))
	w := post(g, `{"jobDescription":"j","resume":"r","duration":"30 days"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"roadmap":[],"error":"Could not identify skill gaps for roadmap creation."}`, w.Body.String())

	w = post(g, `{"jobDescription":"j"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Job description, resume, and duration are required."}`, w.Body.String())

	g = gin.New()
	RegisterRoutes(g, NewGenerator(llm.Unconfigured{}, time.Second))
	w = post(g, `{"jobDescription":"j","resume":"r","duration":"30 days"}`)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Failed to generate roadmap due to an internal or API error."}`, w.Body.String())
}
