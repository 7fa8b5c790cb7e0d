package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"holidays-app/internal/contextutil"
	"holidays-app/internal/relay"
	"holidays-app/internal/service"
)

// ChatHandler handles HTTP requests for chat.
type ChatHandler struct {
	chatService service.ChatService
	renderer    *markdownRenderer
	upgrader    websocket.Upgrader
}

// NewChatHandler creates a new ChatHandler. Websockets are only accepted from
// clients that send no Origin or the server's own origin until WithAllowedOrigins is called.
func NewChatHandler(chatService service.ChatService) *ChatHandler {
	h := &ChatHandler{
		chatService: chatService,
		renderer:    newMarkdownRenderer(),
	}
	h.upgrader = newUpgrader(nil)
	return h
}

// WithAllowedOrigins also accepts websockets opened by pages on the given origins.
func (h *ChatHandler) WithAllowedOrigins(origins []string) *ChatHandler {
	h.upgrader = newUpgrader(origins)
	return h
}

// MessagePayload is one chat message in a request body.
type MessagePayload struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest represents the HTTP request payload for chat.
//
// swagger:model ChatRequest
type ChatRequest struct {
	Model       string           `json:"model,omitempty"`
	Messages    []MessagePayload `json:"messages"`
	Temperature *float64         `json:"temperature,omitempty"`
	TopP        *float64         `json:"topP,omitempty"`
	MaxTokens   int              `json:"maxTokens,omitempty"`
}

// ChatResponse represents the HTTP response payload for a completion.
//
// swagger:model ChatResponse
type ChatResponse struct {
	ID           string `json:"id,omitempty"`
	Model        string `json:"model,omitempty"`
	Reply        string `json:"reply"`
	FinishReason string `json:"finishReason,omitempty"`
}

func (r ChatRequest) toService() service.ChatRequest {
	messages := make([]service.Message, 0, len(r.Messages))
	for _, m := range r.Messages {
		messages = append(messages, service.Message{Role: m.Role, Content: m.Content})
	}
	return service.ChatRequest{
		Model:       r.Model,
		Messages:    messages,
		Temperature: r.Temperature,
		TopP:        r.TopP,
		MaxTokens:   r.MaxTokens,
	}
}

// SimpleOne answers ?q= with the default prompt as plain text.
func (h *ChatHandler) SimpleOne(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	answer, err := h.chatService.Ask(ctx, r.URL.Query().Get("q"))
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to process chat request")
		return
	}
	writeText(w, answer)
}

// SimpleTwo answers ?q= with the prompt preset named by ?preset=.
func (h *ChatHandler) SimpleTwo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()
	answer, err := h.chatService.AskWithPreset(ctx, query.Get("preset"), query.Get("q"))
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to process chat request")
		return
	}
	writeText(w, answer)
}

// Reply drafts a support answer to ?message=.
func (h *ChatHandler) Reply(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	answer, err := h.chatService.Reply(ctx, r.URL.Query().Get("message"))
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to process chat request")
		return
	}
	writeText(w, answer)
}

// WithParams runs a non-streaming completion with explicit sampling parameters.
//
// swagger:route POST /chat/withParams chatWithParams
//
// # Complete a conversation
//
// Sends the messages upstream with the given sampling parameters and returns the full reply.
//
// ---
// consumes:
// - application/json
// produces:
// - application/json
// parameters:
//   - in: body
//     name: body
//     required: true
//     schema:
//     "$ref": "#/definitions/ChatRequest"
//
// responses:
//
//	'200':
//	  description: Completed reply
//	  schema:
//	    "$ref": "#/definitions/ChatResponse"
//	'400':
//	  description: Invalid request
//	  schema:
//	    "$ref": "#/definitions/ErrorResponse"
//	'502':
//	  description: Upstream model failed
//	  schema:
//	    "$ref": "#/definitions/ErrorResponse"
//	'504':
//	  description: Upstream model timed out
//	  schema:
//	    "$ref": "#/definitions/ErrorResponse"
func (h *ChatHandler) WithParams(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := decodeChatRequest(w, r)
	if !ok {
		return
	}

	resp, err := h.chatService.Complete(ctx, req.toService())
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to process chat request")
		return
	}

	writeJSON(w, http.StatusOK, ChatResponse{
		ID:           resp.ID,
		Model:        resp.Model,
		Reply:        resp.Reply,
		FinishReason: resp.FinishReason,
	})
}

// StreamSimple streams the reply upstream and answers once it is complete.
// Clients sending Accept: text/html get the reply rendered from markdown.
func (h *ChatHandler) StreamSimple(w http.ResponseWriter, r *http.Request) {
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

	reply, err := h.chatService.StreamBuffered(ctx, req.toService(), opts...)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to stream chat response")
		return
	}

	if strings.Contains(r.Header.Get("Accept"), "text/html") {
		page, err := h.renderer.page("Chat reply", reply)
		if err != nil {
			logger.ErrorContext(ctx, "failed to render reply", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to render reply")
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(page)
		return
	}

	writeJSON(w, http.StatusOK, ChatResponse{Reply: reply})
}

func decodeChatRequest(w http.ResponseWriter, r *http.Request) (ChatRequest, bool) {
	ctx := r.Context()
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return ChatRequest{}, false
	}
	return req, true
}

// relayOptions reads per-session overrides from ?flushThreshold= and ?idleTimeout=.
func relayOptions(w http.ResponseWriter, r *http.Request) ([]relay.Option, bool) {
	query := r.URL.Query()
	var opts []relay.Option

	if raw := query.Get("flushThreshold"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "flushThreshold must be a positive integer")
			return nil, false
		}
		opts = append(opts, relay.WithFlushThreshold(n))
	}
	if raw := query.Get("idleTimeout"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d < 0 {
			writeError(w, http.StatusBadRequest, "idleTimeout must be a duration such as 30s")
			return nil, false
		}
		opts = append(opts, relay.WithIdleTimeout(d))
	}
	return opts, true
}

func writeText(w http.ResponseWriter, text string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(text))
}
