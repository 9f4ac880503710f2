package calculator

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"go-calculator/internal/calc"
)

func dialStream(t *testing.T) (*websocket.Conn, SessionResponse) {
	t.Helper()
	router, _ := newTestRouter(t, 0)
	return dialRouter(t, router)
}

func dialRouter(t *testing.T, router http.Handler) (*websocket.Conn, SessionResponse) {
	t.Helper()
	id := createSession(t, router).SessionID

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/calculator/sessions/" + id + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	var initial SessionResponse
	require.NoError(t, conn.ReadJSON(&initial))
	assert.Equal(t, id, initial.SessionID)
	return conn, initial
}

func TestStreamAppliesKeysAndActions(t *testing.T) {
	conn, _ := dialStream(t)

	frames := []StreamFrame{
		{Key: "8"},
		{ActionRequest: ActionRequest{Type: "choose-operation", Operation: "÷"}},
		{Key: "2"},
		{Key: "Enter"},
	}

	var resp SessionResponse
	for _, f := range frames {
		require.NoError(t, conn.WriteJSON(f))
		resp = SessionResponse{}
		require.NoError(t, conn.ReadJSON(&resp))
	}

	require.NotNil(t, resp.State.CurrentOperand)
	assert.Equal(t, "4", *resp.State.CurrentOperand)
	assert.True(t, resp.State.Overwrite)
}

func TestStreamRejectsBadFrames(t *testing.T) {
	conn, _ := dialStream(t)

	for _, raw := range []string{
		`{"key":"?"}`,
		`{"type":"add-digit"}`,
		`garbage`,
	} {
		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(raw)))

		var frame ErrorFrame
		require.NoError(t, conn.ReadJSON(&frame))
		assert.NotEmpty(t, frame.Error, raw)
	}

	// The stream stays usable after a rejected frame.
	require.NoError(t, conn.WriteJSON(StreamFrame{Key: "5"}))
	var resp SessionResponse
	require.NoError(t, conn.ReadJSON(&resp))
	require.NotNil(t, resp.State.CurrentOperand)
	assert.Equal(t, "5", *resp.State.CurrentOperand)
}

func TestStreamKeepsSessionAlive(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	store := NewStore(time.Minute, 0, nil)
	store.now = clock.now
	h, err := NewHandler(store, calc.NewFormatter(language.AmericanEnglish))
	require.NoError(t, err)
	router := chi.NewRouter()
	RegisterRoutes(router, h)

	conn, initial := dialRouter(t, router)

	for i := 0; i < 4; i++ {
		clock.advance(30 * time.Second)
		require.NoError(t, conn.WriteJSON(StreamFrame{Key: "7"}))
		var resp SessionResponse
		require.NoError(t, conn.ReadJSON(&resp))
		assert.Zero(t, store.Sweep())
	}

	sess, err := store.Get(initial.SessionID)
	require.NoError(t, err)
	cur, _ := sess.State().Current.Value()
	assert.Equal(t, "7777", cur)
}
