package services

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"todokAPI/internal/types/challenge"
)

func TestFeedHubStreamsSnapshots(t *testing.T) {
	env := newTestEnv(t, true)
	hub := NewFeedHub(env.feed, time.Hour, zap.NewNop())
	env.feed.SetChangeListener(hub.Notify)
	go hub.Run()
	defer hub.Stop()

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.Subscribe(conn)
	}))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	var snap FeedSnapshot
	require.NoError(t, conn.ReadJSON(&snap))
	assert.Equal(t, "feed", snap.Action)
	assert.Len(t, snap.Items, 3)

	_, err = env.feed.Publish(env.ctx(), challenge.Challenge{ID: "c1", Title: "물 마시기", Category: challenge.CategoryPositivity})
	require.NoError(t, err)

	require.NoError(t, conn.ReadJSON(&snap))
	require.Len(t, snap.Items, 4)
	assert.Equal(t, "물 마시기", snap.Items[0].ChallengeTitle)
	assert.True(t, snap.Items[0].IsMine)
}
