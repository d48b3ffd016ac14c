package services

import (
	"context"
	"errors"
	"testing"

	"github.com/physicistcolloh-png/base43/config"
	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/require"
)

type fakeCompleter struct {
	lastRequest openai.ChatCompletionRequest
	reply       string
	err         error
}

func (f *fakeCompleter) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.lastRequest = req
	if f.err != nil {
		return openai.ChatCompletionResponse{}, f.err
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: f.reply}},
		},
	}, nil
}

func TestChatUnavailableWithoutKey(t *testing.T) {
	s := NewChatService(config.OpenAIConfig{Model: "gpt-4"})
	require.False(t, s.Available())

	_, err := s.Complete(context.Background(), "hello", nil)
	require.ErrorIs(t, err, ErrChatUnavailable)
}

func TestChatCompleteBuildsMessages(t *testing.T) {
	fake := &fakeCompleter{reply: "use a REST backend"}
	s := NewChatServiceWithClient(fake, "gpt-4")
	require.True(t, s.Available())

	history := []ChatMessage{
		{Role: "user", Content: "I want a shop app"},
		{Role: "assistant", Content: "What should it sell?"},
	}
	reply, err := s.Complete(context.Background(), "books", history)
	require.NoError(t, err)
	require.Equal(t, "use a REST backend", reply)

	msgs := fake.lastRequest.Messages
	require.Len(t, msgs, 4)
	require.Equal(t, openai.ChatMessageRoleSystem, msgs[0].Role)
	require.Equal(t, chatSystemPrompt, msgs[0].Content)
	require.Equal(t, "I want a shop app", msgs[1].Content)
	require.Equal(t, "What should it sell?", msgs[2].Content)
	require.Equal(t, openai.ChatMessageRoleUser, msgs[3].Role)
	require.Equal(t, "books", msgs[3].Content)
	require.Equal(t, "gpt-4", fake.lastRequest.Model)
}

func TestChatCompleteUpstreamError(t *testing.T) {
	upstream := errors.New("upstream down")
	s := NewChatServiceWithClient(&fakeCompleter{err: upstream}, "gpt-4")

	_, err := s.Complete(context.Background(), "hello", nil)
	require.ErrorIs(t, err, upstream)
}

func TestChatCompleteEmptyChoices(t *testing.T) {
	empty := &emptyCompleter{}
	s := NewChatServiceWithClient(empty, "gpt-4")

	_, err := s.Complete(context.Background(), "hello", nil)
	require.ErrorIs(t, err, ErrEmptyCompletion)
	require.NotErrorIs(t, err, ErrChatUnavailable)
}

type emptyCompleter struct{}

func (emptyCompleter) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	return openai.ChatCompletionResponse{}, nil
}
