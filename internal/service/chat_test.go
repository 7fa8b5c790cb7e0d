package service_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"holidays-app/internal/llm"
	"holidays-app/internal/relay"
	"holidays-app/internal/service"
	"holidays-app/internal/service/mocks"

	"go.uber.org/mock/gomock"
)

func init() {
	// Set default logger to discard output for cleaner test output
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// testContext returns a context for testing.
// The default logger is already set to discard in init().
func testContext() context.Context {
	return context.Background()
}

func userChat(content string) service.ChatRequest {
	return service.ChatRequest{Messages: []service.Message{{Role: "user", Content: content}}}
}

func streamChunks(chunks ...string) func(context.Context, llm.ChatRequest, func(string) error) error {
	return func(_ context.Context, _ llm.ChatRequest, callback func(string) error) error {
		for _, c := range chunks {
			if err := callback(c); err != nil {
				return err
			}
		}
		return nil
	}
}

func TestNewChatService(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := service.NewChatService(mocks.NewMockLLMClient(ctrl), service.ChatOptions{})
	if svc == nil {
		t.Fatal("NewChatService() returned nil")
	}
}

func TestChatService_AskWithPreset(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLLMClient := mocks.NewMockLLMClient(ctrl)
	svc := service.NewChatService(mockLLMClient, service.ChatOptions{
		Prompts: map[string]string{"pirate": "Talk like a pirate."},
	})

	tests := []struct {
		name       string
		preset     string
		question   string
		mockSetup  func()
		wantReply  string
		wantSystem string
		wantField  string
	}{
		{
			name:     "default preset",
			preset:   "",
			question: "Hello",
			mockSetup: func() {
				mockLLMClient.EXPECT().Chat(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, req llm.ChatRequest) (llm.Completion, error) {
						if len(req.Messages) != 2 || req.Messages[0].Content != service.DefaultPrompts[service.PresetDefault] {
							t.Errorf("unexpected messages %+v", req.Messages)
						}
						return llm.Completion{Content: "Hi there!"}, nil
					})
			},
			wantReply: "Hi there!",
		},
		{
			name:     "configured preset",
			preset:   "pirate",
			question: "Hello",
			mockSetup: func() {
				mockLLMClient.EXPECT().Chat(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, req llm.ChatRequest) (llm.Completion, error) {
						if req.Messages[0].Role != "system" || req.Messages[0].Content != "Talk like a pirate." {
							t.Errorf("unexpected system message %+v", req.Messages[0])
						}
						return llm.Completion{Content: "Arr"}, nil
					})
			},
			wantReply: "Arr",
		},
		{
			name:      "unknown preset",
			preset:    "nope",
			question:  "Hello",
			mockSetup: func() {},
			wantField: "preset",
		},
		{
			name:      "empty question",
			question:  "",
			mockSetup: func() {},
			wantField: "q",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()

			reply, err := svc.AskWithPreset(testContext(), tt.preset, tt.question)
			if tt.wantField != "" {
				var validationErr *service.ValidationError
				if !errors.As(err, &validationErr) || validationErr.Field != tt.wantField {
					t.Fatalf("AskWithPreset() error = %v, want validation error on %s", err, tt.wantField)
				}
				return
			}
			if err != nil {
				t.Fatalf("AskWithPreset() unexpected error: %v", err)
			}
			if reply != tt.wantReply {
				t.Errorf("AskWithPreset() reply = %v, want %v", reply, tt.wantReply)
			}
		})
	}
}

func TestChatService_Reply(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLLMClient := mocks.NewMockLLMClient(ctrl)
	svc := service.NewChatService(mockLLMClient, service.ChatOptions{})

	mockLLMClient.EXPECT().Chat(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req llm.ChatRequest) (llm.Completion, error) {
			if req.Messages[0].Content != service.DefaultPrompts[service.PresetSupport] {
				t.Errorf("Reply() system prompt = %q", req.Messages[0].Content)
			}
			if req.Messages[1].Content != "Customer message: my order is late" {
				t.Errorf("Reply() user message = %q", req.Messages[1].Content)
			}
			return llm.Completion{Content: "Sorry to hear that"}, nil
		})

	reply, err := svc.Reply(testContext(), "my order is late")
	if err != nil {
		t.Fatalf("Reply() error = %v", err)
	}
	if reply != "Sorry to hear that" {
		t.Errorf("Reply() = %v", reply)
	}

	if _, err := svc.Reply(testContext(), ""); !errors.Is(err, service.ErrInvalidInput) {
		t.Errorf("Reply() empty error = %v, want ErrInvalidInput", err)
	}
}

func TestChatService_Complete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLLMClient := mocks.NewMockLLMClient(ctrl)
	svc := service.NewChatService(mockLLMClient, service.ChatOptions{})

	temp := 0.3
	tooHot := 2.5
	badTopP := 1.5

	tests := []struct {
		name         string
		req          service.ChatRequest
		mockSetup    func()
		wantErr      bool
		wantReply    string
		checkErrType func(error) bool
	}{
		{
			name: "successful completion with params",
			req: service.ChatRequest{
				Model:       "gpt-4o-mini",
				Temperature: &temp,
				MaxTokens:   100,
				Messages:    []service.Message{{Role: "system", Content: "be brief"}, {Role: "user", Content: "Hi"}},
			},
			mockSetup: func() {
				mockLLMClient.EXPECT().Chat(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, req llm.ChatRequest) (llm.Completion, error) {
						if req.Model != "gpt-4o-mini" || req.MaxTokens != 100 || *req.Temperature != 0.3 {
							t.Errorf("parameters not forwarded: %+v", req)
						}
						return llm.Completion{ID: "c1", Model: "gpt-4o-mini", Content: "Hello", FinishReason: "stop"}, nil
					})
			},
			wantReply: "Hello",
		},
		{
			name:      "no messages",
			req:       service.ChatRequest{},
			mockSetup: func() {},
			wantErr:   true,
			checkErrType: func(err error) bool {
				var validationErr *service.ValidationError
				return errors.As(err, &validationErr) && validationErr.Field == "messages"
			},
		},
		{
			name:      "bad role",
			req:       service.ChatRequest{Messages: []service.Message{{Role: "robot", Content: "x"}}},
			mockSetup: func() {},
			wantErr:   true,
			checkErrType: func(err error) bool {
				return errors.Is(err, service.ErrInvalidInput)
			},
		},
		{
			name:      "temperature out of range",
			req:       service.ChatRequest{Temperature: &tooHot, Messages: []service.Message{{Role: "user", Content: "x"}}},
			mockSetup: func() {},
			wantErr:   true,
			checkErrType: func(err error) bool {
				var validationErr *service.ValidationError
				return errors.As(err, &validationErr) && validationErr.Field == "temperature"
			},
		},
		{
			name:      "topP out of range",
			req:       service.ChatRequest{TopP: &badTopP, Messages: []service.Message{{Role: "user", Content: "x"}}},
			mockSetup: func() {},
			wantErr:   true,
			checkErrType: func(err error) bool {
				var validationErr *service.ValidationError
				return errors.As(err, &validationErr) && validationErr.Field == "topP"
			},
		},
		{
			name:      "negative max tokens",
			req:       service.ChatRequest{MaxTokens: -1, Messages: []service.Message{{Role: "user", Content: "x"}}},
			mockSetup: func() {},
			wantErr:   true,
			checkErrType: func(err error) bool {
				var validationErr *service.ValidationError
				return errors.As(err, &validationErr) && validationErr.Field == "maxTokens"
			},
		},
		{
			name: "LLM client error",
			req:  userChat("Hello"),
			mockSetup: func() {
				mockLLMClient.EXPECT().Chat(gomock.Any(), gomock.Any()).
					Return(llm.Completion{}, errors.New("connection refused"))
			},
			wantErr: true,
			checkErrType: func(err error) bool {
				return errors.Is(err, service.ErrExternalService)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()

			resp, err := svc.Complete(testContext(), tt.req)
			if tt.wantErr {
				if err == nil {
					t.Fatal("Complete() expected error, got nil")
				}
				if tt.checkErrType != nil && !tt.checkErrType(err) {
					t.Errorf("Complete() error type check failed: %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Complete() unexpected error: %v", err)
			}
			if resp.Reply != tt.wantReply {
				t.Errorf("Complete() reply = %v, want %v", resp.Reply, tt.wantReply)
			}
		})
	}
}

func TestChatService_Complete_Timeout(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLLMClient := mocks.NewMockLLMClient(ctrl)
	svc := service.NewChatService(mockLLMClient, service.ChatOptions{Timeout: 20 * time.Millisecond})

	mockLLMClient.EXPECT().Chat(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ llm.ChatRequest) (llm.Completion, error) {
			<-ctx.Done()
			return llm.Completion{}, ctx.Err()
		})

	_, err := svc.Complete(testContext(), userChat("slow"))
	if !errors.Is(err, service.ErrExternalService) {
		t.Errorf("Complete() error = %v, want ErrExternalService", err)
	}
}

func TestChatService_StreamBuffered(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLLMClient := mocks.NewMockLLMClient(ctrl)
	svc := service.NewChatService(mockLLMClient, service.ChatOptions{Relay: relay.DefaultOptions()})

	mockLLMClient.EXPECT().StreamChat(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(streamChunks("Hel", "lo, ", "wor", "ld!"))

	text, err := svc.StreamBuffered(testContext(), userChat("Hello"))
	if err != nil {
		t.Fatalf("StreamBuffered() error = %v", err)
	}
	if text != "Hello, world!" {
		t.Errorf("StreamBuffered() = %q, want %q", text, "Hello, world!")
	}

	if _, err := svc.StreamBuffered(testContext(), service.ChatRequest{}); !errors.Is(err, service.ErrInvalidInput) {
		t.Errorf("StreamBuffered() invalid request error = %v", err)
	}
}

func TestChatService_StreamBuffered_UpstreamError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLLMClient := mocks.NewMockLLMClient(ctrl)
	svc := service.NewChatService(mockLLMClient, service.ChatOptions{Relay: relay.DefaultOptions()})

	mockLLMClient.EXPECT().StreamChat(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&llm.StatusError{StatusCode: 500, Body: "boom"})

	_, err := svc.StreamBuffered(testContext(), userChat("Hello"))
	if !errors.Is(err, service.ErrExternalService) {
		t.Errorf("StreamBuffered() error = %v, want ErrExternalService", err)
	}
	var srcErr *relay.SourceError
	if !errors.As(err, &srcErr) {
		t.Errorf("StreamBuffered() error = %v, want relay.SourceError", err)
	}
}

func TestChatService_StreamEvents(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLLMClient := mocks.NewMockLLMClient(ctrl)
	svc := service.NewChatService(mockLLMClient, service.ChatOptions{Relay: relay.DefaultOptions()})

	mockLLMClient.EXPECT().StreamChat(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(streamChunks("one ", "two"))

	stream, err := svc.StreamEvents(testContext(), userChat("count"), relay.WithFlushThreshold(2))
	if err != nil {
		t.Fatalf("StreamEvents() error = %v", err)
	}

	var got []string
	for ev := range stream.Events() {
		got = append(got, ev.Data)
	}
	if len(got) != 2 || got[0] != "one " || got[1] != "two" {
		t.Errorf("StreamEvents() events = %q", got)
	}
	if err := stream.Wait(); err != nil {
		t.Errorf("StreamEvents() Wait() = %v", err)
	}
}

func TestChatService_StreamSequence(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLLMClient := mocks.NewMockLLMClient(ctrl)
	svc := service.NewChatService(mockLLMClient, service.ChatOptions{Relay: relay.DefaultOptions()})

	mockLLMClient.EXPECT().StreamChat(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(streamChunks("a ", "b"))

	seq, err := svc.StreamSequence(testContext(), userChat("letters"))
	if err != nil {
		t.Fatalf("StreamSequence() error = %v", err)
	}
	defer seq.Cancel()

	var got string
	for g, err := range seq.All(testContext()) {
		if err != nil {
			t.Fatalf("StreamSequence() error = %v", err)
		}
		got += g.Text
	}
	if got != "a b" {
		t.Errorf("StreamSequence() text = %q, want %q", got, "a b")
	}
}
