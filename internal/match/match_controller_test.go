package match

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/DhavalSuthar-24/crickpro/internal/middleware"
)

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  json.RawMessage `json:"errors"`
}

func newMatchRouter(t *testing.T, repo MatchRepository) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc := NewService(repo, nil, nil, nil, ServiceConfig{})
	r := gin.New()
	api := r.Group("/api")
	api.Use(func(c *gin.Context) {
		c.Set(middleware.AuthUserIDKey, uint(1))
		c.Next()
	})
	MatchRoutes(api, api.Group("/admin"), NewMatchController(svc, repo, nil))
	return r
}

func call(t *testing.T, r *gin.Engine, method, path string, body any) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, path, &buf))
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("%s %s: decode %q: %v", method, path, w.Body.String(), err)
	}
	return w.Code, env
}

func TestMatchHandlersFlow(t *testing.T) {
	r := newMatchRouter(t, newFakeRepo())

	if code, _ := call(t, r, http.MethodPost, "/api/match/start", nil); code != http.StatusOK {
		t.Fatalf("start = %d", code)
	}
	code, _ := call(t, r, http.MethodPost, "/api/match/teams", TeamsRequest{
		TeamA: TeamSetup{Name: "Lions"},
		TeamB: TeamSetup{Name: "Tigers"},
	})
	if code != http.StatusOK {
		t.Fatalf("teams = %d", code)
	}
	if code, _ := call(t, r, http.MethodPost, "/api/match/overs", OversSetup{TotalOvers: 2}); code != http.StatusOK {
		t.Fatalf("overs = %d", code)
	}

	code, env := call(t, r, http.MethodPost, "/api/match/balls", `{"runs":4}`)
	if code != http.StatusOK {
		t.Fatalf("ball = %d", code)
	}
	var applied BallApplied
	json.Unmarshal(env.Data, &applied)
	if applied.State.Score != 4 || applied.Outcome.Label != "4" || applied.State.RecentBalls[0] != "4" {
		t.Fatalf("applied = %+v", applied.Outcome)
	}

	code, env = call(t, r, http.MethodPost, "/api/match/balls",
		`{"is_wicket":true,"wicket":{"type":"Caught","fielder_id":"Tigers-5"}}`)
	if code != http.StatusOK {
		t.Fatalf("wicket = %d", code)
	}
	json.Unmarshal(env.Data, &applied)
	if applied.State.Wickets != 1 || applied.Outcome.Dismissal != "Caught by Tigers Player 6" {
		t.Fatalf("wicket outcome = %+v", applied.Outcome)
	}

	code, env = call(t, r, http.MethodGet, "/api/match/scorecard", nil)
	if code != http.StatusOK {
		t.Fatalf("scorecard = %d", code)
	}
	var sc Scorecard
	json.Unmarshal(env.Data, &sc)
	if sc.Score != 4 || sc.Wickets != 1 || sc.Overs != "0.2" {
		t.Fatalf("scorecard = %d/%d (%s)", sc.Score, sc.Wickets, sc.Overs)
	}

	if code, _ := call(t, r, http.MethodPost, "/api/match/swap", nil); code != http.StatusOK {
		t.Fatalf("swap = %d", code)
	}
	if code, _ := call(t, r, http.MethodGet, "/api/match/award", nil); code != http.StatusConflict {
		t.Fatalf("award before result = %d", code)
	}

	code, env = call(t, r, http.MethodPost, "/api/match/reset", nil)
	var st MatchState
	json.Unmarshal(env.Data, &st)
	if code != http.StatusOK || st.Phase != PhaseLanding {
		t.Fatalf("reset = %d phase %s", code, st.Phase)
	}
}

func TestMatchHandlersReject(t *testing.T) {
	r := newMatchRouter(t, newFakeRepo())

	tests := []struct {
		name     string
		method   string
		path     string
		body     any
		wantCode int
	}{
		{"ball before play", http.MethodPost, "/api/match/balls", `{"runs":1}`, http.StatusConflict},
		{"too many runs", http.MethodPost, "/api/match/balls", `{"runs":7}`, http.StatusBadRequest},
		{"unknown dismissal", http.MethodPost, "/api/match/balls", `{"is_wicket":true,"wicket":{"type":"Obstructed"}}`, http.StatusBadRequest},
		{"malformed json", http.MethodPost, "/api/match/balls", `{"runs":`, http.StatusBadRequest},
		{"overs in landing", http.MethodPost, "/api/match/overs", OversSetup{TotalOvers: 5}, http.StatusConflict},
		{"team id too long", http.MethodPost, "/api/match/teams", TeamsRequest{
			TeamA: TeamSetup{ID: strings.Repeat("x", 65), Name: "Lions"},
			TeamB: TeamSetup{Name: "Tigers"},
		}, http.StatusBadRequest},
		{"overs out of range", http.MethodPost, "/api/match/overs", OversSetup{TotalOvers: 51}, http.StatusBadRequest},
		{"second innings in landing", http.MethodPost, "/api/match/second-innings", nil, http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, env := call(t, r, tt.method, tt.path, tt.body)
			if code != tt.wantCode || env.Status != "error" {
				t.Fatalf("code = %d status %q, want %d", code, env.Status, tt.wantCode)
			}
		})
	}
}

func TestRejectedBallReportsUnchangedState(t *testing.T) {
	r := newMatchRouter(t, newFakeRepo())
	_, env := call(t, r, http.MethodPost, "/api/match/balls", `{"runs":6}`)

	var detail BallApplied
	if err := json.Unmarshal(env.Errors, &detail); err != nil {
		t.Fatalf("decode detail: %v", err)
	}
	if detail.Outcome.Applied || detail.State.Phase != PhaseLanding || detail.State.Score != 0 {
		t.Fatalf("detail = %+v", detail)
	}
}

func TestListMatchesHandler(t *testing.T) {
	repo := NewGormMatchRepository(openTestDB(t))
	for id := uint(1); id <= 3; id++ {
		repo.Save(context.Background(), id, NewMatchState())
	}
	r := newMatchRouter(t, repo)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/admin/matches?page=1&page_size=2", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var body struct {
		Data       []MatchSnapshot `json:"data"`
		Pagination struct {
			TotalItems int64 `json:"total_items"`
			TotalPages int   `json:"total_pages"`
		} `json:"pagination"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Data) != 2 || body.Pagination.TotalItems != 3 || body.Pagination.TotalPages != 2 {
		t.Fatalf("body = %+v", body.Pagination)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/admin/matches?page=zero", nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad page status = %d", w.Code)
	}
}
