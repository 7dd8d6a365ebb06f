package feature

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfred/internal/history"
	"alfred/internal/router"
)

type fakeModel struct {
	response   string
	err        error
	lastPrompt string
}

func (f *fakeModel) Complete(_ context.Context, _, prompt string) (string, error) {
	f.lastPrompt = prompt
	return f.response, f.err
}

func TestConversationHandle(t *testing.T) {
	model := &fakeModel{response: "Hello! How can I help you today?"}
	c := NewConversation(model, nil)

	reply, err := c.Handle(context.Background(), router.Message{Text: "Hey Alfred!"})
	require.NoError(t, err)
	assert.Equal(t, "Hello! How can I help you today?", reply)
	assert.Contains(t, model.lastPrompt, "You are Alfred")
	assert.Contains(t, model.lastPrompt, `"Hey Alfred!"`)
}

func TestConversationHandleEmbedsHistory(t *testing.T) {
	model := &fakeModel{response: "You're welcome!"}
	c := NewConversation(model, nil)

	msg := router.Message{
		Text: "thanks!",
		History: []history.Entry{
			{Role: history.RoleUser, Text: "schedule lunch tomorrow"},
			{Role: history.RoleAssistant, Text: "Done, lunch at noon."},
		},
	}
	_, err := c.Handle(context.Background(), msg)
	require.NoError(t, err)
	assert.Contains(t, model.lastPrompt, "Recent conversation:")
	assert.Contains(t, model.lastPrompt, "User: schedule lunch tomorrow")
	assert.Contains(t, model.lastPrompt, "Alfred: Done, lunch at noon.")
}

func TestConversationHandleModelFailure(t *testing.T) {
	model := &fakeModel{err: errors.New("model unreachable")}
	c := NewConversation(model, nil)

	reply, err := c.Handle(context.Background(), router.Message{Text: "hi"})
	require.NoError(t, err)
	assert.Equal(t, conversationFallback, reply)
}

func TestConversationNeverClaimsKeywords(t *testing.T) {
	c := NewConversation(&fakeModel{}, nil)

	for _, text := range []string{"hello", "meeting tomorrow", ""} {
		assert.False(t, c.CanHandle(text))
	}
}

func TestIntroMentionsBotName(t *testing.T) {
	assert.Contains(t, Intro(), BotName)
}
