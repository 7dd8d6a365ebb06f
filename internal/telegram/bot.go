package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	tele "gopkg.in/telebot.v3"

	"alfred/internal/feature"
	"alfred/internal/history"
	"alfred/internal/instrumentation"
	"alfred/internal/logging"
	"alfred/internal/router"
)

const (
	// DefaultPollTimeout is the long-polling timeout against the Telegram API.
	DefaultPollTimeout = 10 * time.Second

	// DefaultHandleTimeout bounds one message turn, including the model
	// calls behind it.
	DefaultHandleTimeout = 60 * time.Second

	// maxMessageLen stays under Telegram's 4096 character limit with a
	// little buffer.
	maxMessageLen = 4000
)

const clearedReply = "🧹 Conversation context cleared."

// Dispatcher routes one message to a feature and returns the reply plus
// the handling feature's name. Satisfied by *router.Router.
type Dispatcher interface {
	Dispatch(ctx context.Context, msg router.Message) (reply string, feature string)
}

// Config holds configuration for the Telegram bot.
type Config struct {
	// Token is the Telegram bot API token.
	Token string

	// Dispatcher handles routed messages.
	Dispatcher Dispatcher

	// History is the per-chat conversation window. Optional.
	History *history.Store

	// Metrics records per-message counters. Optional.
	Metrics *instrumentation.Metrics

	Logger *slog.Logger
}

// Bot runs the assistant as a long-polling Telegram bot. Each chat gets
// its own conversation window keyed by chat ID.
type Bot struct {
	bot        *tele.Bot
	dispatcher Dispatcher
	store      *history.Store
	metrics    *instrumentation.Metrics
	logger     *slog.Logger
}

// NewBot creates the Telegram bot and registers its handlers.
func NewBot(config Config) (*Bot, error) {
	if config.Token == "" {
		return nil, fmt.Errorf("telegram bot token is required")
	}
	if config.Dispatcher == nil {
		return nil, fmt.Errorf("dispatcher is required for telegram bot")
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	b, err := tele.NewBot(tele.Settings{
		Token:  config.Token,
		Poller: &tele.LongPoller{Timeout: DefaultPollTimeout},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	bot := &Bot{
		bot:        b,
		dispatcher: config.Dispatcher,
		store:      config.History,
		metrics:    config.Metrics,
		logger:     config.Logger,
	}
	bot.setupHandlers()
	return bot, nil
}

// Start begins long polling and blocks until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) {
	b.logger.Info("starting telegram bot",
		slog.String(logging.KeyTransport, "telegram"),
		slog.String("username", b.bot.Me.Username))

	go func() {
		<-ctx.Done()
		b.logger.Info("stopping telegram bot")
		b.bot.Stop()
	}()

	b.bot.Start()
}

func (b *Bot) setupHandlers() {
	b.bot.Handle("/start", func(c tele.Context) error {
		return c.Send(feature.Intro())
	})

	b.bot.Handle("/clear", func(c tele.Context) error {
		if b.store != nil {
			b.store.Clear(senderKey(c.Chat().ID))
		}
		return c.Send(clearedReply)
	})

	b.bot.Handle(tele.OnText, b.handleMessage)
}

func (b *Bot) handleMessage(c tele.Context) error {
	sender := senderKey(c.Chat().ID)
	text := c.Text()

	// Let the user see the bot is working on it.
	_ = c.Notify(tele.Typing)

	ctx, cancel := context.WithTimeout(context.Background(), DefaultHandleTimeout)
	defer cancel()

	msg := router.Message{
		Text:   text,
		Sender: sender,
	}
	if b.store != nil {
		msg.History = b.store.Recent(sender)
	}

	reply, featureName := b.dispatcher.Dispatch(ctx, msg)

	if b.store != nil {
		b.store.Append(sender, history.RoleUser, text)
		b.store.Append(sender, history.RoleAssistant, reply)
	}

	b.metrics.RecordMessage(ctx, "telegram", featureName, instrumentation.StatusSuccess)
	b.logger.Info("handled telegram message",
		slog.String(logging.KeyTransport, "telegram"),
		logging.Feature(featureName),
		logging.Sender(sender))

	return b.sendLong(c.Chat(), reply)
}

// sendLong sends text as several messages when it exceeds the Telegram
// message size limit.
func (b *Bot) sendLong(to tele.Recipient, text string) error {
	for _, chunk := range splitMessage(text, maxMessageLen) {
		if _, err := b.bot.Send(to, chunk); err != nil {
			return err
		}
	}
	return nil
}

// splitMessage cuts text into chunks of at most maxLen bytes, preferring
// to break on a newline near the limit so formatted replies stay readable.
func splitMessage(text string, maxLen int) []string {
	if text == "" {
		return []string{""}
	}

	var chunks []string
	for len(text) > maxLen {
		cut := maxLen
		for i := maxLen; i > maxLen/2; i-- {
			if text[i-1] == '\n' {
				cut = i
				break
			}
		}
		chunks = append(chunks, text[:cut])
		text = text[cut:]
	}
	return append(chunks, text)
}

func senderKey(chatID int64) string {
	return "telegram:" + strconv.FormatInt(chatID, 10)
}
