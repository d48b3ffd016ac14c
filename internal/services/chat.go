package services

import (
	"context"
	"time"

	"github.com/physicistcolloh-png/base43/config"
	"github.com/physicistcolloh-png/base43/internal/metrics"
	openai "github.com/sashabaranov/go-openai"
)

const chatSystemPrompt = "You are an expert AI app builder assistant. Help users design, plan, and build applications. Provide code examples and architectural guidance."

const defaultChatTimeout = 60 * time.Second

// ChatMessage is one turn of the conversation history.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatCompleter is the slice of the completion client the service uses.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// ChatService is a pass-through to an external completion API. It lives
// entirely outside the session/lock core: a failed or timed-out call
// never touches session or lock state.
type ChatService struct {
	client      ChatCompleter
	model       string
	temperature float32
	maxTokens   int
	timeout     time.Duration
}

// NewChatService constructs the chat service from config. Without an API
// key the service is constructed disabled and Complete fails with
// ErrChatUnavailable.
func NewChatService(cfg config.OpenAIConfig) *ChatService {
	s := &ChatService{
		model:       cfg.Model,
		temperature: float32(cfg.Temperature),
		maxTokens:   cfg.MaxTokens,
		timeout:     defaultChatTimeout,
	}
	if cfg.APIKey == "" {
		return s
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	s.client = openai.NewClientWithConfig(clientCfg)
	return s
}

// NewChatServiceWithClient constructs the service around an existing
// client. Used by tests.
func NewChatServiceWithClient(client ChatCompleter, model string) *ChatService {
	return &ChatService{
		client:      client,
		model:       model,
		temperature: 0.7,
		maxTokens:   1500,
		timeout:     defaultChatTimeout,
	}
}

// Available reports whether a completion client is configured.
func (s *ChatService) Available() bool {
	return s.client != nil
}

// Complete sends the message with its conversation history to the
// completion API and returns the reply text. The call is bounded by the
// service timeout.
func (s *ChatService) Complete(ctx context.Context, message string, history []ChatMessage) (string, error) {
	if s.client == nil {
		return "", ErrChatUnavailable
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(history)+2)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: chatSystemPrompt,
	})
	for _, turn := range history {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    turn.Role,
			Content: turn.Content,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: message,
	})

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       s.model,
		Messages:    messages,
		Temperature: s.temperature,
		MaxTokens:   s.maxTokens,
	})
	if err != nil {
		metrics.ChatRequests.WithLabelValues("error").Inc()
		return "", err
	}
	if len(resp.Choices) == 0 {
		metrics.ChatRequests.WithLabelValues("empty").Inc()
		return "", ErrEmptyCompletion
	}

	metrics.ChatRequests.WithLabelValues("ok").Inc()
	return resp.Choices[0].Message.Content, nil
}
