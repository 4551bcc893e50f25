package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"todokAPI/internal/encouragement"
	"todokAPI/internal/progression"
	"todokAPI/internal/store"
	"todokAPI/internal/types/challenge"
	"todokAPI/internal/types/feed"
	"todokAPI/middleware"
	"todokAPI/services"
)

type fixedEncourager struct{ text string }

func (f fixedEncourager) EncouragementFor(ctx context.Context, title string) string { return f.text }
func (f fixedEncourager) SuggestChallenge(ctx context.Context) string               { return "하늘 사진 찍기" }

type testServer struct {
	router     *mux.Router
	dispatcher *services.EncouragementDispatcher
	board      *services.EncouragementBoard
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := zap.NewNop()
	repo := store.NewRepository(store.NewMemoryStore(), logger)

	users := services.NewUserService(repo, progression.DefaultLevels, logger)
	feedSvc := services.NewFeedService(repo, services.StaticSeed{}, logger)
	challenges := services.NewChallengeService(repo, users, feedSvc, true, logger)

	enc := fixedEncourager{text: "잘하고 있어요"}
	board := services.NewEncouragementBoard(4 * time.Second)
	dispatcher := services.NewEncouragementDispatcher(enc, board, 1, logger)
	t.Cleanup(dispatcher.Stop)

	hub := services.NewFeedHub(feedSvc, time.Hour, logger)
	go hub.Run()
	t.Cleanup(hub.Stop)

	h := &Handlers{
		User:          NewUserHandler(users, logger),
		Challenge:     NewChallengeHandler(challenges, users, dispatcher, logger),
		Feed:          NewFeedHandler(feedSvc, hub, NewCheerGate(), logger),
		Encouragement: NewEncouragementHandler(board, enc),
	}

	r := mux.NewRouter()
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.ViewerMiddleware)
	h.Register(api)

	return &testServer{router: r, dispatcher: dispatcher, board: board}
}

func (s *testServer) do(t *testing.T, method, path, body, viewer string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if viewer != "" {
		req.Header.Set(middleware.ViewerHeader, viewer)
	}
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func (s *testServer) createChallenge(t *testing.T, title string) challenge.Challenge {
	t.Helper()
	rr := s.do(t, http.MethodPost, "/api/v1/challenges", `{"title":"`+title+`","category":"POSITIVITY"}`, "")
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	return decode[challenge.Challenge](t, rr)
}

func TestGetProfileDefaults(t *testing.T) {
	s := newTestServer(t)

	rr := s.do(t, http.MethodGet, "/api/v1/user", "", "")
	require.Equal(t, http.StatusOK, rr.Code)

	profile := decode[ProfileResponse](t, rr)
	assert.False(t, profile.User.IsOnboarded)
	assert.Equal(t, 1, profile.User.Level)
	assert.Equal(t, "새싹", profile.Progress.Title)
	require.NotNil(t, profile.Progress.NextLevelXP)
	assert.Equal(t, 100, *profile.Progress.NextLevelXP)
}

func TestOnboardingAndPartialUpdate(t *testing.T) {
	s := newTestServer(t)

	rr := s.do(t, http.MethodPost, "/api/v1/user/onboarding", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, decode[ProfileResponse](t, rr).User.IsOnboarded)

	rr = s.do(t, http.MethodPut, "/api/v1/user", `{"isRestMode":true}`, "")
	require.Equal(t, http.StatusOK, rr.Code)
	profile := decode[ProfileResponse](t, rr)
	assert.True(t, profile.User.IsOnboarded)
	assert.True(t, profile.User.IsRestMode)

	rr = s.do(t, http.MethodPut, "/api/v1/user", `not json`, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestLevelsAndCategories(t *testing.T) {
	s := newTestServer(t)

	rr := s.do(t, http.MethodGet, "/api/v1/levels", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	levels := decode[progression.Table](t, rr)
	assert.Len(t, levels, 5)
	assert.Equal(t, 1000, levels[4].MinXP)

	rr = s.do(t, http.MethodGet, "/api/v1/categories", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	cats := decode[[]challenge.CategoryMeta](t, rr)
	assert.Len(t, cats, 3)
}

func TestCreateChallengeValidation(t *testing.T) {
	s := newTestServer(t)

	rr := s.do(t, http.MethodPost, "/api/v1/challenges", `{"title":"   ","category":"POSITIVITY"}`, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = s.do(t, http.MethodPost, "/api/v1/challenges", `{"title":"산책","category":"SLEEP"}`, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = s.do(t, http.MethodGet, "/api/v1/challenges", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	board := decode[challenge.ChallengeBoard](t, rr)
	assert.Empty(t, board.Active)
	assert.Empty(t, board.Completed)
}

func TestCompleteFlow(t *testing.T) {
	s := newTestServer(t)

	t.Log("Step 1: create a challenge")
	c := s.createChallenge(t, "물 한 잔")

	t.Log("Step 2: complete it")
	rr := s.do(t, http.MethodPost, "/api/v1/challenges/"+c.ID+"/complete", "", "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	res := decode[CompleteResponse](t, rr)
	assert.True(t, res.Challenge.Completed)
	assert.Equal(t, 20, res.User.XP)
	assert.Equal(t, c.ID, res.Encouragement.ChallengeID)

	t.Log("Step 3: second completion conflicts")
	rr = s.do(t, http.MethodPost, "/api/v1/challenges/"+c.ID+"/complete", "", "")
	assert.Equal(t, http.StatusConflict, rr.Code)

	t.Log("Step 4: encouragement arrives")
	require.Eventually(t, func() bool {
		rr := s.do(t, http.MethodGet, "/api/v1/encouragement", "", "")
		if rr.Code != http.StatusOK {
			return false
		}
		var toast services.Toast
		json.Unmarshal(rr.Body.Bytes(), &toast)
		return !toast.Pending && toast.Message == "잘하고 있어요"
	}, time.Second, 10*time.Millisecond)

	t.Log("Step 5: dismiss it")
	rr = s.do(t, http.MethodDelete, "/api/v1/encouragement", "", "")
	assert.Equal(t, http.StatusNoContent, rr.Code)
	rr = s.do(t, http.MethodGet, "/api/v1/encouragement", "", "")
	assert.Equal(t, http.StatusNoContent, rr.Code)

	t.Log("Step 6: reflect and publish")
	rr = s.do(t, http.MethodPut, "/api/v1/challenges/"+c.ID+"/reflection", `{"text":"개운하다"}`, "")
	require.Equal(t, http.StatusOK, rr.Code)
	reflected := decode[ReflectResponse](t, rr)
	assert.Equal(t, "개운하다", reflected.Challenge.Reflection)
	require.NotNil(t, reflected.FeedItem)

	rr = s.do(t, http.MethodGet, "/api/v1/feed", "", "v1")
	require.Equal(t, http.StatusOK, rr.Code)
	items := decode[[]feed.ItemView](t, rr)
	require.Len(t, items, 4)
	assert.Equal(t, reflected.FeedItem.ID, items[0].ID)
	assert.True(t, items[0].IsMine)
}

func TestCompleteUnknownChallenge(t *testing.T) {
	s := newTestServer(t)

	rr := s.do(t, http.MethodPost, "/api/v1/challenges/missing/complete", "", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestReflectPrivateOverride(t *testing.T) {
	s := newTestServer(t)
	c := s.createChallenge(t, "일기")

	rr := s.do(t, http.MethodPut, "/api/v1/challenges/"+c.ID+"/reflection", `{"text":"비밀","publish":false}`, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Nil(t, decode[ReflectResponse](t, rr).FeedItem)

	rr = s.do(t, http.MethodPut, "/api/v1/challenges/"+c.ID+"/reflection", `{"text":"  "}`, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRestModeBlocksChallengeMutations(t *testing.T) {
	s := newTestServer(t)
	c := s.createChallenge(t, "스트레칭")

	rr := s.do(t, http.MethodPost, "/api/v1/user/rest-mode", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	require.True(t, decode[ProfileResponse](t, rr).User.IsRestMode)

	rr = s.do(t, http.MethodPost, "/api/v1/challenges", `{"title":"산책","category":"LEARNING"}`, "")
	assert.Equal(t, http.StatusLocked, rr.Code)
	rr = s.do(t, http.MethodPost, "/api/v1/challenges/"+c.ID+"/complete", "", "")
	assert.Equal(t, http.StatusLocked, rr.Code)
	rr = s.do(t, http.MethodPut, "/api/v1/challenges/"+c.ID+"/reflection", `{"text":"x"}`, "")
	assert.Equal(t, http.StatusLocked, rr.Code)

	rr = s.do(t, http.MethodGet, "/api/v1/challenges", "", "")
	assert.Equal(t, http.StatusOK, rr.Code, "reads stay available")

	rr = s.do(t, http.MethodPost, "/api/v1/user/rest-mode", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	rr = s.do(t, http.MethodPost, "/api/v1/challenges/"+c.ID+"/complete", "", "")
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestDoubleCheerCountsOnce(t *testing.T) {
	s := newTestServer(t)

	rr := s.do(t, http.MethodPost, "/api/v1/feed/f1/cheer", "", "viewer-a")
	require.Equal(t, http.StatusOK, rr.Code)
	first := decode[CheerResponse](t, rr)
	assert.True(t, first.Counted)
	assert.Equal(t, 4, first.Cheers)

	rr = s.do(t, http.MethodPost, "/api/v1/feed/f1/cheer", "", "viewer-a")
	require.Equal(t, http.StatusOK, rr.Code)
	second := decode[CheerResponse](t, rr)
	assert.False(t, second.Counted)
	assert.Equal(t, 4, second.Cheers)

	rr = s.do(t, http.MethodPost, "/api/v1/feed/f1/cheer", "", "viewer-b")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 5, decode[CheerResponse](t, rr).Cheers)

	rr = s.do(t, http.MethodGet, "/api/v1/feed", "", "viewer-a")
	require.Equal(t, http.StatusOK, rr.Code)
	for _, item := range decode[[]feed.ItemView](t, rr) {
		assert.Equal(t, item.ID == "f1", item.CheeredByMe, item.ID)
	}
}

func TestCheerUnknownItem(t *testing.T) {
	s := newTestServer(t)

	rr := s.do(t, http.MethodPost, "/api/v1/feed/nope/cheer", "", "viewer-a")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = s.do(t, http.MethodPost, "/api/v1/feed/nope/cheer", "", "viewer-a")
	assert.Equal(t, http.StatusNotFound, rr.Code, "failed cheers are not remembered")
}

func TestSuggestion(t *testing.T) {
	s := newTestServer(t)

	rr := s.do(t, http.MethodGet, "/api/v1/suggestion", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "하늘 사진 찍기", decode[map[string]string](t, rr)["title"])
}

func TestSuggestionFallback(t *testing.T) {
	h := NewEncouragementHandler(services.NewEncouragementBoard(time.Second), encouragement.New(nil))

	rr := httptest.NewRecorder()
	h.Suggestion(rr, httptest.NewRequest(http.MethodGet, "/api/v1/suggestion", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, strings.Contains(rr.Body.String(), encouragement.FallbackSuggestion))
}

func TestCheerGate(t *testing.T) {
	g := NewCheerGate()

	assert.True(t, g.TryMark("v", "a"))
	assert.False(t, g.TryMark("v", "a"))
	assert.True(t, g.TryMark("w", "a"))
	assert.True(t, g.Has("v", "a"))

	g.Unmark("v", "a")
	assert.False(t, g.Has("v", "a"))
	assert.True(t, g.TryMark("v", "a"))
}
