package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
	"nhooyr.io/websocket"

	"github.com/aristath/tradedesk/internal/events"
)

func dialStream(t *testing.T, f *fixture, query string) (*websocket.Conn, context.Context) {
	t.Helper()
	srv := httptest.NewServer(f.router)
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/market-timing/stream" + query
	conn, _, err := websocket.Dial(ctx, url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close(websocket.StatusNormalClosure, "") })
	return conn, ctx
}

func readJSONFrame(t *testing.T, ctx context.Context, conn *websocket.Conn) map[string]interface{} {
	t.Helper()
	typ, payload, err := conn.Read(ctx)
	require.NoError(t, err)
	require.Equal(t, websocket.MessageText, typ)

	var frame map[string]interface{}
	require.NoError(t, json.Unmarshal(payload, &frame))
	return frame
}

func TestHandleStream_PushesSnapshots(t *testing.T) {
	f := newFixture(t)
	snap, err := f.service.Snapshot("")
	require.NoError(t, err)
	f.snapshots.snap, f.snapshots.ok = snap, true

	conn, ctx := dialStream(t, f, "")

	hello := readJSONFrame(t, ctx, conn)
	assert.Equal(t, FrameConnected, hello["type"])
	clientID := hello["client_id"].(string)
	assert.NotEmpty(t, clientID)

	initial := readJSONFrame(t, ctx, conn)
	assert.Equal(t, FrameSnapshot, initial["type"])
	assert.Equal(t, clientID, initial["client_id"])
	data := initial["data"].(map[string]interface{})
	status := data["status"].(map[string]interface{})
	assert.Equal(t, "Regular Hours", status["current"])

	assert.Equal(t, 3, f.bus.SubscriberCount())

	f.bus.Emit(events.TimingUnavailable, "test", map[string]interface{}{"error": "boom"})
	unavailable := readJSONFrame(t, ctx, conn)
	assert.Equal(t, FrameUnavailable, unavailable["type"])
	assert.Equal(t, "boom", unavailable["data"].(map[string]interface{})["error"])

	f.bus.Emit(events.SnapshotUpdated, "test", nil)
	pushed := readJSONFrame(t, ctx, conn)
	assert.Equal(t, FrameSnapshot, pushed["type"])
}

func TestHandleStream_UnsubscribesOnClose(t *testing.T) {
	f := newFixture(t)
	conn, ctx := dialStream(t, f, "")

	readJSONFrame(t, ctx, conn)
	require.Equal(t, 3, f.bus.SubscriberCount())

	conn.Close(websocket.StatusNormalClosure, "bye")
	assert.Eventually(t, func() bool { return f.bus.SubscriberCount() == 0 },
		2*time.Second, 10*time.Millisecond)
}

func TestHandleStream_Msgpack(t *testing.T) {
	f := newFixture(t)
	conn, ctx := dialStream(t, f, "?format=msgpack")

	typ, payload, err := conn.Read(ctx)
	require.NoError(t, err)
	require.Equal(t, websocket.MessageBinary, typ)

	var frame map[string]interface{}
	require.NoError(t, msgpack.Unmarshal(payload, &frame))
	assert.Equal(t, FrameConnected, frame["type"])
	assert.NotEmpty(t, frame["client_id"])
}

func TestHandleStream_BadFormat(t *testing.T) {
	f := newFixture(t)

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/market-timing/stream?format=xml", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
