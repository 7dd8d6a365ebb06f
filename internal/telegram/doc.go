// Package telegram runs the assistant as a long-polling Telegram bot,
// one conversation window per chat.
package telegram
