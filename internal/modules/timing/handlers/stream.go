package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"
	"nhooyr.io/websocket"

	"github.com/aristath/tradedesk/internal/events"
)

const (
	streamHeartbeat    = 30 * time.Second
	streamWriteTimeout = 5 * time.Second
	streamBuffer       = 16
)

// Frame types written to stream clients.
const (
	FrameConnected   = "connected"
	FrameSnapshot    = "snapshot"
	FrameUnavailable = "unavailable"
	FrameRecovered   = "recovered"
)

// StreamFrame is one message on the timing stream.
type StreamFrame struct {
	Type      string      `json:"type"`
	ClientID  string      `json:"client_id"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data,omitempty"`
}

type frameEncoder func(StreamFrame) (websocket.MessageType, []byte, error)

func encodeJSONFrame(f StreamFrame) (websocket.MessageType, []byte, error) {
	b, err := json.Marshal(f)
	return websocket.MessageText, b, err
}

func encodeMsgpackFrame(f StreamFrame) (websocket.MessageType, []byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(f); err != nil {
		return websocket.MessageBinary, nil, err
	}
	return websocket.MessageBinary, buf.Bytes(), nil
}

// HandleStream handles GET /api/market-timing/stream
// Upgrades to a websocket and pushes every new snapshot. ?format=msgpack switches
// to binary MessagePack frames.
func (h *Handler) HandleStream(w http.ResponseWriter, r *http.Request) {
	if h.bus == nil || h.snapshots == nil {
		http.Error(w, "Snapshot streaming is disabled", http.StatusNotFound)
		return
	}

	encode := frameEncoder(encodeJSONFrame)
	format := r.URL.Query().Get("format")
	switch format {
	case "", "json":
		format = "json"
	case "msgpack":
		encode = encodeMsgpackFrame
	default:
		http.Error(w, "format must be json or msgpack", http.StatusBadRequest)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.origins,
	})
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to accept stream connection")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "stream closed")

	clientID := uuid.NewString()
	log := h.log.With().Str("client_id", clientID).Str("format", format).Logger()

	// Frames are forwarded through a buffered channel; a full channel drops the
	// frame since the next snapshot supersedes it.
	frames := make(chan StreamFrame, streamBuffer)
	forward := func(event *events.Event) {
		frame := StreamFrame{ClientID: clientID, Timestamp: event.Timestamp}
		switch event.Type {
		case events.SnapshotUpdated:
			snap, ok := h.snapshots.Latest()
			if !ok {
				return
			}
			frame.Type, frame.Data = FrameSnapshot, snap
		case events.TimingUnavailable:
			frame.Type, frame.Data = FrameUnavailable, event.Data
		case events.TimingRecovered:
			frame.Type, frame.Data = FrameRecovered, event.Data
		default:
			return
		}
		select {
		case frames <- frame:
		default:
			log.Warn().Str("event_type", string(event.Type)).Msg("Stream buffer full, dropping frame")
		}
	}

	subs := []string{
		h.bus.Subscribe(events.SnapshotUpdated, forward),
		h.bus.Subscribe(events.TimingUnavailable, forward),
		h.bus.Subscribe(events.TimingRecovered, forward),
	}
	defer func() {
		for _, id := range subs {
			h.bus.Unsubscribe(id)
		}
	}()

	h.recorder.StreamConnected()
	defer h.recorder.StreamDisconnected()
	log.Info().Msg("Client connected to timing stream")

	// CloseRead discards client messages and cancels ctx once the peer goes away.
	ctx := conn.CloseRead(r.Context())

	write := func(f StreamFrame) error {
		typ, payload, err := encode(f)
		if err != nil {
			return err
		}
		wctx, cancel := context.WithTimeout(ctx, streamWriteTimeout)
		defer cancel()
		return conn.Write(wctx, typ, payload)
	}

	hello := StreamFrame{Type: FrameConnected, ClientID: clientID, Timestamp: time.Now()}
	if err := write(hello); err != nil {
		log.Debug().Err(err).Msg("Failed to send connected frame")
		return
	}
	if snap, ok := h.snapshots.Latest(); ok {
		initial := StreamFrame{Type: FrameSnapshot, ClientID: clientID, Timestamp: time.Now(), Data: snap}
		if err := write(initial); err != nil {
			log.Debug().Err(err).Msg("Failed to send initial snapshot")
			return
		}
	}

	heartbeat := time.NewTicker(streamHeartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Client disconnected from timing stream")
			conn.Close(websocket.StatusNormalClosure, "")
			return
		case frame := <-frames:
			if err := write(frame); err != nil {
				log.Debug().Err(err).Msg("Failed to write stream frame")
				return
			}
		case <-heartbeat.C:
			pctx, cancel := context.WithTimeout(ctx, streamWriteTimeout)
			err := conn.Ping(pctx)
			cancel()
			if err != nil {
				log.Debug().Err(err).Msg("Stream heartbeat failed")
				return
			}
		}
	}
}
