package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"holidays-app/internal/contextutil"
	"holidays-app/internal/relay"
)

const (
	wsHandshakeTimeout = 30 * time.Second
	wsWriteTimeout     = 10 * time.Second
	wsMaxMessageSize   = 64 << 10
)

func newUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     checkOrigin(allowedOrigins),
	}
}

// checkOrigin accepts non-browser clients, same-origin pages and the listed origins.
func checkOrigin(allowedOrigins []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || slices.Contains(allowedOrigins, origin) {
			return true
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return strings.EqualFold(u.Host, r.Host)
	}
}

// sseWriter writes server-sent events and flushes after each one.
type sseWriter struct {
	w       io.Writer
	flusher http.Flusher
}

// newSSEWriter sets the event-stream headers and commits the response.
func newSSEWriter(w http.ResponseWriter, flusher http.Flusher) *sseWriter {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()
	return &sseWriter{w: w, flusher: flusher}
}

// writeEvent writes one event. Empty id and event fields are omitted.
// Multi-line data is split over several data fields.
func (s *sseWriter) writeEvent(id, event, data string) error {
	var b strings.Builder
	if id != "" {
		fmt.Fprintf(&b, "id: %s\n", id)
	}
	if event != "" {
		fmt.Fprintf(&b, "event: %s\n", event)
	}
	for _, line := range strings.Split(data, "\n") {
		fmt.Fprintf(&b, "data: %s\n", line)
	}
	b.WriteString("\n")

	if _, err := io.WriteString(s.w, b.String()); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}

// StreamEmit pushes every token group to the client as it becomes available.
func (h *ChatHandler) StreamEmit(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	logger := contextutil.LoggerFromContext(ctx)

	req, ok := decodeChatRequest(w, r)
	if !ok {
		return
	}
	opts, ok := relayOptions(w, r)
	if !ok {
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		logger.ErrorContext(ctx, "streaming not supported by response writer")
		writeError(w, http.StatusInternalServerError, "Streaming not supported")
		return
	}

	stream, err := h.chatService.StreamEvents(ctx, req.toService(), opts...)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to stream chat response")
		return
	}

	sse := newSSEWriter(w, flusher)
	for ev := range stream.Events() {
		data := ev.Data
		if ev.Name == relay.ErrorEventName {
			data = streamErrorMessage(stream.Wait())
		}
		if err := sse.writeEvent(ev.ID, ev.Name, data); err != nil {
			logger.WarnContext(ctx, "client went away during event stream", "session_id", stream.ID, "error", err)
			cancel()
			break
		}
	}

	if err := stream.Wait(); err != nil {
		logger.WarnContext(ctx, "event stream ended with error", "session_id", stream.ID, "error", err)
	}
}

// StreamFlux streams text deltas pulled lazily from upstream.
func (h *ChatHandler) StreamFlux(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	req, ok := decodeChatRequest(w, r)
	if !ok {
		return
	}
	opts, ok := relayOptions(w, r)
	if !ok {
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		logger.ErrorContext(ctx, "streaming not supported by response writer")
		writeError(w, http.StatusInternalServerError, "Streaming not supported")
		return
	}

	seq, err := h.chatService.StreamSequence(ctx, req.toService(), opts...)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to stream chat response")
		return
	}
	defer seq.Cancel()

	sse := newSSEWriter(w, flusher)
	for group, err := range seq.All(ctx) {
		if err != nil {
			logger.WarnContext(ctx, "sequence ended with error", "session_id", seq.ID, "error", err)
			_ = sse.writeEvent("", relay.ErrorEventName, streamErrorMessage(err))
			return
		}
		if err := sse.writeEvent("", "", group.Text); err != nil {
			logger.WarnContext(ctx, "client went away during sequence", "session_id", seq.ID, "error", err)
			return
		}
	}
}

// StreamWS relays a completion over a websocket. The first client message is the
// chat request; every token group is sent back as a text frame. Closing the
// socket cancels the upstream stream.
func (h *ChatHandler) StreamWS(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	logger := contextutil.LoggerFromContext(ctx)

	opts, ok := relayOptions(w, r)
	if !ok {
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.WarnContext(ctx, "failed to upgrade websocket", "error", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(wsMaxMessageSize)

	_ = conn.SetReadDeadline(time.Now().Add(wsHandshakeTimeout))
	var req ChatRequest
	if err := conn.ReadJSON(&req); err != nil {
		logger.WarnContext(ctx, "invalid websocket chat request", "error", err)
		closeWS(conn, websocket.CloseUnsupportedData, "invalid chat request")
		return
	}
	_ = conn.SetReadDeadline(time.Time{})

	seq, err := h.chatService.StreamSequence(ctx, req.toService(), opts...)
	if err != nil {
		logger.WarnContext(ctx, "failed to start websocket stream", "error", err)
		closeWS(conn, websocket.ClosePolicyViolation, wsErrorReason(err))
		return
	}
	defer seq.Cancel()

	// The client only speaks once; any later read error means it closed the socket.
	go func() {
		for {
			if _, _, err := conn.NextReader(); err != nil {
				seq.Cancel()
				cancel()
				return
			}
		}
	}()

	for group, err := range seq.All(ctx) {
		if err != nil {
			if errors.Is(err, relay.ErrCancelled) || errors.Is(err, context.Canceled) {
				logger.DebugContext(ctx, "websocket stream cancelled by client", "session_id", seq.ID)
				return
			}
			logger.WarnContext(ctx, "websocket stream ended with error", "session_id", seq.ID, "error", err)
			closeWS(conn, websocket.CloseInternalServerErr, streamErrorMessage(err))
			return
		}
		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		if err := conn.WriteMessage(websocket.TextMessage, []byte(group.Text)); err != nil {
			logger.WarnContext(ctx, "failed to write websocket frame", "session_id", seq.ID, "error", err)
			return
		}
	}

	closeWS(conn, websocket.CloseNormalClosure, "")
}

func closeWS(conn *websocket.Conn, code int, reason string) {
	msg := websocket.FormatCloseMessage(code, reason)
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(wsWriteTimeout))
}

func wsErrorReason(err error) string {
	var resp ErrorResponse
	resp.Error = err.Error()
	raw, _ := json.Marshal(resp)
	// Close frame reasons are limited to 123 bytes.
	if len(raw) > 123 {
		return "invalid chat request"
	}
	return string(raw)
}
