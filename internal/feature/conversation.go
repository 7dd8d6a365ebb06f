package feature

import (
	"context"
	"fmt"
	"log/slog"

	"alfred/internal/history"
	"alfred/internal/llm"
	"alfred/internal/logging"
	"alfred/internal/router"
)

// conversationFallback is the canned reply when the model is unreachable.
// Small talk degrades to a static greeting rather than an error.
const conversationFallback = "Hello! I'm " + BotName + ", your assistant. I can help with calendar events and more. What would you like to do?"

// Conversation handles greetings, small talk and general questions in the
// assistant's voice. It is the router's designated fallback: anything no
// task feature claims ends up here.
type Conversation struct {
	model  llm.Completer
	logger *slog.Logger
}

// NewConversation creates the conversational feature.
func NewConversation(model llm.Completer, logger *slog.Logger) *Conversation {
	if logger == nil {
		logger = slog.Default()
	}
	return &Conversation{model: model, logger: logger}
}

func (c *Conversation) Name() string {
	return "Conversation"
}

func (c *Conversation) Capabilities() string {
	return `This feature handles conversational, non-task messages.

Examples of what this feature handles:
- "Hello", "Hi", "Hey Alfred"
- "How are you?", "What's up?"
- "What can you do?", "Help me"
- "Thanks!", "Thank you"
- General questions about the bot
- Small talk that doesn't involve tasks
- Questions about capabilities

This is a FALLBACK feature - use it when the message doesn't match any specific task feature`
}

// CanHandle always reports false: Conversation is reached through the
// router's fallback designation, never the keyword scan.
func (c *Conversation) CanHandle(string) bool {
	return false
}

// Handle replies in persona. A model failure degrades to a canned greeting
// instead of an error; small talk is never worth surfacing a failure for.
func (c *Conversation) Handle(ctx context.Context, msg router.Message) (string, error) {
	prompt := c.buildPrompt(msg.Text, msg.History)

	response, err := c.model.Complete(ctx, "converse", prompt)
	if err != nil {
		c.logger.Warn("conversation model call failed, using canned reply",
			logging.Feature(c.Name()),
			logging.Err(err))
		return conversationFallback, nil
	}
	return response, nil
}

func (c *Conversation) buildPrompt(text string, entries []history.Entry) string {
	return fmt.Sprintf(`%s
%s
User message: %q

You are %s responding to the user. Keep your response:
- Under 2-3 sentences
- Friendly but concise
- Task-oriented (gently guide toward how you can help)
- Natural and conversational
- Use the conversation context above to provide relevant responses
- DO NOT address the user as %q - YOU are %s, THEY are the user

If the user is just greeting you or making small talk, respond warmly but briefly offer to help with tasks.
If they're asking what you can do, explain your calendar capabilities.
If they're asking deep/philosophical questions, politely redirect to your actual purpose.

Return ONLY your response text, no extra formatting or labels.`,
		persona, history.Format(entries, BotName), text, BotName, BotName, BotName)
}
