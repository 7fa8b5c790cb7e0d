package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_llm_client.go -package=mocks holidays-app/internal/service LLMClient
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_chat_service.go -package=mocks -mock_names=ChatService=MockChatService holidays-app/internal/service ChatService

import (
	"context"
	"fmt"
	"time"

	"github.com/zoobzio/pipz"

	"holidays-app/internal/contextutil"
	"holidays-app/internal/llm"
	"holidays-app/internal/relay"
)

// Built-in prompt preset names.
const (
	PresetDefault = "default"
	PresetClient  = "client"
	PresetSupport = "support"
)

// DefaultPrompts are the system prompts available without a prompts file.
var DefaultPrompts = map[string]string{
	PresetDefault: "You are a helpful assistant with knowledge of every area of life.",
	PresetClient:  "Write a polite answer to the following customer message.",
	PresetSupport: "You are a professional support assistant. Write a polite and useful answer " +
		"to the customer. Be empathetic and solve the customer's problem.",
}

// DefaultChatTimeout bounds a non-streaming completion.
const DefaultChatTimeout = 3 * time.Minute

// LLMClient is an interface for interacting with an LLM API.
// This interface is defined from the service layer's perspective (consumer-first).
type LLMClient interface {
	// Chat sends a completion request and returns the first choice.
	Chat(ctx context.Context, req llm.ChatRequest) (llm.Completion, error)
	// StreamChat sends a completion request and streams the reply via callback.
	StreamChat(ctx context.Context, req llm.ChatRequest, callback func(chunk string) error) error
}

// Message is a single chat message.
type Message struct {
	Role    string
	Content string
}

// ChatRequest represents a chat request in the domain layer.
type ChatRequest struct {
	Model       string
	Messages    []Message
	Temperature *float64
	TopP        *float64
	MaxTokens   int
}

// ChatResponse represents a chat response in the domain layer.
type ChatResponse struct {
	ID           string
	Model        string
	Reply        string
	FinishReason string
}

// ChatService provides chat functionality.
type ChatService interface {
	// Ask answers a single question with the default system prompt.
	Ask(ctx context.Context, question string) (string, error)
	// AskWithPreset answers a single question with a named system prompt.
	AskWithPreset(ctx context.Context, preset, question string) (string, error)
	// Reply drafts a support answer to a customer message.
	Reply(ctx context.Context, message string) (string, error)
	// Complete runs a non-streaming completion with explicit parameters.
	Complete(ctx context.Context, req ChatRequest) (ChatResponse, error)
	// StreamBuffered streams the reply and returns it once complete.
	StreamBuffered(ctx context.Context, req ChatRequest, opts ...relay.Option) (string, error)
	// StreamEvents streams the reply as events from a background goroutine.
	StreamEvents(ctx context.Context, req ChatRequest, opts ...relay.Option) (*relay.EventStream, error)
	// StreamSequence returns a lazily pulled stream of the reply.
	StreamSequence(ctx context.Context, req ChatRequest, opts ...relay.Option) (*relay.Sequence, error)
}

// ChatOptions configures a ChatService.
type ChatOptions struct {
	// Prompts override or extend DefaultPrompts.
	Prompts map[string]string
	// Timeout bounds non-streaming completions. Zero means DefaultChatTimeout.
	Timeout time.Duration
	// Relay holds the default streaming options.
	Relay relay.Options
}

// chatCall flows through the completion pipeline.
type chatCall struct {
	Request    llm.ChatRequest
	Completion llm.Completion
}

// chatService implements ChatService.
type chatService struct {
	llmClient LLMClient
	prompts   map[string]string
	pipeline  pipz.Chainable[*chatCall]
	relay     *relay.Relay
}

// NewChatService creates a new ChatService.
func NewChatService(llmClient LLMClient, opts ChatOptions) ChatService {
	prompts := make(map[string]string, len(DefaultPrompts)+len(opts.Prompts))
	for k, v := range DefaultPrompts {
		prompts[k] = v
	}
	for k, v := range opts.Prompts {
		prompts[k] = v
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultChatTimeout
	}

	terminal := pipz.Apply("llm-call", func(ctx context.Context, call *chatCall) (*chatCall, error) {
		completion, err := llmClient.Chat(ctx, call.Request)
		if err != nil {
			return call, err
		}
		call.Completion = completion
		return call, nil
	})
	var pipeline pipz.Chainable[*chatCall] = pipz.NewTimeout("chat-timeout", terminal, timeout)

	return &chatService{
		llmClient: llmClient,
		prompts:   prompts,
		pipeline:  pipeline,
		relay:     relay.New(relay.NewStreamOpener(llmClient.StreamChat), opts.Relay),
	}
}

func (s *chatService) Ask(ctx context.Context, question string) (string, error) {
	return s.AskWithPreset(ctx, PresetDefault, question)
}

func (s *chatService) AskWithPreset(ctx context.Context, preset, question string) (string, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if question == "" {
		logger.WarnContext(ctx, "empty question in chat request")
		return "", &ValidationError{Field: "q", Message: "cannot be empty"}
	}
	if preset == "" {
		preset = PresetDefault
	}
	system, ok := s.prompts[preset]
	if !ok {
		return "", &ValidationError{Field: "preset", Message: fmt.Sprintf("unknown preset %q", preset)}
	}

	resp, err := s.Complete(ctx, ChatRequest{
		Messages: []Message{
			{Role: "system", Content: system},
			{Role: "user", Content: question},
		},
	})
	if err != nil {
		return "", err
	}
	return resp.Reply, nil
}

func (s *chatService) Reply(ctx context.Context, message string) (string, error) {
	if message == "" {
		return "", &ValidationError{Field: "message", Message: "cannot be empty"}
	}
	return s.AskWithPreset(ctx, PresetSupport, "Customer message: "+message)
}

func (s *chatService) Complete(ctx context.Context, req ChatRequest) (ChatResponse, error) {
	logger := contextutil.LoggerFromContext(ctx)

	// Business validation
	if err := ValidateChatRequest(req); err != nil {
		logger.WarnContext(ctx, "invalid chat request", "error", err)
		return ChatResponse{}, err
	}

	// Call external LLM service
	call, err := s.pipeline.Process(ctx, &chatCall{Request: toLLMRequest(req)})
	if err != nil {
		logger.ErrorContext(ctx, "failed to get LLM response", "error", err)
		return ChatResponse{}, upstreamError(err)
	}

	logger.InfoContext(ctx, "chat request processed successfully",
		"model", call.Completion.Model,
		"messages", len(req.Messages),
		"reply_length", len(call.Completion.Content),
	)
	return ChatResponse{
		ID:           call.Completion.ID,
		Model:        call.Completion.Model,
		Reply:        call.Completion.Content,
		FinishReason: call.Completion.FinishReason,
	}, nil
}

func (s *chatService) StreamBuffered(ctx context.Context, req ChatRequest, opts ...relay.Option) (string, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if err := ValidateChatRequest(req); err != nil {
		logger.WarnContext(ctx, "invalid streaming chat request", "error", err)
		return "", err
	}

	text, err := s.relay.Buffered(ctx, toLLMRequest(req), opts...)
	if err != nil {
		logger.ErrorContext(ctx, "failed to stream LLM response", "error", err)
		return text, upstreamError(err)
	}

	logger.InfoContext(ctx, "streaming chat request processed successfully", "reply_length", len(text))
	return text, nil
}

func (s *chatService) StreamEvents(ctx context.Context, req ChatRequest, opts ...relay.Option) (*relay.EventStream, error) {
	if err := ValidateChatRequest(req); err != nil {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "invalid streaming chat request", "error", err)
		return nil, err
	}
	stream, err := s.relay.Events(ctx, toLLMRequest(req), opts...)
	if err != nil {
		return nil, upstreamError(err)
	}
	return stream, nil
}

func (s *chatService) StreamSequence(ctx context.Context, req ChatRequest, opts ...relay.Option) (*relay.Sequence, error) {
	if err := ValidateChatRequest(req); err != nil {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "invalid streaming chat request", "error", err)
		return nil, err
	}
	seq, err := s.relay.Sequence(ctx, toLLMRequest(req), opts...)
	if err != nil {
		return nil, upstreamError(err)
	}
	return seq, nil
}

func toLLMRequest(req ChatRequest) llm.ChatRequest {
	messages := make([]llm.Message, 0, len(req.Messages))
	for _, m := range req.Messages {
		messages = append(messages, llm.Message{Role: m.Role, Content: m.Content})
	}
	return llm.ChatRequest{
		Model:       req.Model,
		Messages:    messages,
		Temperature: req.Temperature,
		TopP:        req.TopP,
		MaxTokens:   req.MaxTokens,
	}
}
