// Package bot is the Telegram front end. It routes commands and quick
// buttons, feeds free text into guided entry sessions, and renders
// session replies as messages with reply keyboards.
package bot

import (
	"context"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"fintrack/internal/api"
	"fintrack/internal/session"
)

const pollTimeoutSeconds = 60

type Bot struct {
	api          *tgbotapi.BotAPI
	client       *api.Client
	sessions     *session.Manager
	dashboardURL string
}

func New(token string, client *api.Client, sessions *session.Manager, dashboardURL string) (*Bot, error) {
	botAPI, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("connect to telegram: %w", err)
	}

	return &Bot{
		api:          botAPI,
		client:       client,
		sessions:     sessions,
		dashboardURL: dashboardURL,
	}, nil
}

// Run long-polls for updates until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	config := tgbotapi.NewUpdate(0)
	config.Timeout = pollTimeoutSeconds
	updates := b.api.GetUpdatesChan(config)

	slog.InfoContext(ctx, "Bot started", "username", b.api.Self.UserName)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil || update.Message.From == nil {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.IsCommand() {
		switch msg.Command() {
		case "start":
			b.send(ctx, msg.Chat.ID, formatGreeting(msg.From.FirstName), mainKeyboard())
		case "expense":
			b.startFlow(ctx, msg, session.FlowExpense)
		case "income":
			b.startFlow(ctx, msg, session.FlowIncome)
		case "cancel":
			b.cancelFlows(ctx, msg)
		case "stats":
			b.sendStats(ctx, msg)
		case "balance":
			b.sendBalance(ctx, msg)
		case "report":
			b.send(ctx, msg.Chat.ID, formatDashboardLink(b.dashboardURL, msg.From.ID), nil)
		default:
			b.send(ctx, msg.Chat.ID, "Unknown command. Try /start.", mainKeyboard())
		}
		return
	}

	switch msg.Text {
	case buttonAddExpense:
		b.startFlow(ctx, msg, session.FlowExpense)
	case buttonAddIncome:
		b.startFlow(ctx, msg, session.FlowIncome)
	case buttonStats:
		b.sendStats(ctx, msg)
	case buttonBalance:
		b.sendBalance(ctx, msg)
	case buttonDashboard:
		b.send(ctx, msg.Chat.ID, formatDashboardLink(b.dashboardURL, msg.From.ID), nil)
	case buttonCancel:
		b.cancelFlows(ctx, msg)
	default:
		b.routeFlowInput(ctx, msg)
	}
}

func (b *Bot) startFlow(ctx context.Context, msg *tgbotapi.Message, kind session.FlowKind) {
	reply, err := b.sessions.Start(ctx, kind, msg.From.ID)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to start session", "user_id", msg.From.ID, "kind", kind, "error", err)
		b.send(ctx, msg.Chat.ID, "❌ Something went wrong. Please try again.", mainKeyboard())
		return
	}
	b.sendReply(ctx, msg.Chat.ID, reply)
}

// routeFlowInput feeds free text to whichever flow is waiting for it.
func (b *Bot) routeFlowInput(ctx context.Context, msg *tgbotapi.Message) {
	for _, kind := range []session.FlowKind{session.FlowExpense, session.FlowIncome} {
		reply, err := b.sessions.Input(ctx, kind, msg.From.ID, msg.Text)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to process input", "user_id", msg.From.ID, "kind", kind, "error", err)
			b.send(ctx, msg.Chat.ID, "❌ Something went wrong. Please try again.", mainKeyboard())
			return
		}
		if reply.Outcome != session.OutcomeNoSession {
			b.sendReply(ctx, msg.Chat.ID, reply)
			return
		}
	}
	// No flow in progress; stay quiet like any other unmatched text.
	slog.DebugContext(ctx, "Ignoring text outside a flow", "user_id", msg.From.ID)
}

func (b *Bot) cancelFlows(ctx context.Context, msg *tgbotapi.Message) {
	for _, kind := range []session.FlowKind{session.FlowExpense, session.FlowIncome} {
		if _, err := b.sessions.Cancel(ctx, kind, msg.From.ID); err != nil {
			slog.ErrorContext(ctx, "Failed to cancel session", "user_id", msg.From.ID, "kind", kind, "error", err)
		}
	}
	b.send(ctx, msg.Chat.ID, "❌ Action cancelled", mainKeyboard())
}

func (b *Bot) sendStats(ctx context.Context, msg *tgbotapi.Message) {
	summary, err := b.client.Summary(ctx, msg.From.ID)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to fetch summary", "user_id", msg.From.ID, "error", err)
		b.send(ctx, msg.Chat.ID, "❌ Could not fetch statistics", nil)
		return
	}
	byCategory, err := b.client.StatsByCategory(ctx, msg.From.ID, 30)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to fetch category stats", "user_id", msg.From.ID, "error", err)
		b.send(ctx, msg.Chat.ID, "❌ Could not fetch statistics", nil)
		return
	}
	b.sendMarkdown(ctx, msg.Chat.ID, formatStats(summary, byCategory))
}

func (b *Bot) sendBalance(ctx context.Context, msg *tgbotapi.Message) {
	balance, err := b.client.Balance(ctx, msg.From.ID)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to fetch balance", "user_id", msg.From.ID, "error", err)
		b.send(ctx, msg.Chat.ID, "❌ Could not fetch the balance", nil)
		return
	}
	b.sendMarkdown(ctx, msg.Chat.ID, formatBalance(balance))
}

// sendReply picks the keyboard that matches where the session ended up.
func (b *Bot) sendReply(ctx context.Context, chatID int64, reply session.Reply) {
	var keyboard any = mainKeyboard()
	switch reply.Outcome {
	case session.OutcomePrompt:
		if len(reply.Suggestions) > 0 {
			keyboard = suggestionKeyboard(reply.Suggestions)
		} else {
			keyboard = cancelKeyboard()
		}
	case session.OutcomeInvalid:
		// Keep whatever keyboard the user already has.
		keyboard = nil
	}
	b.send(ctx, chatID, reply.Text, keyboard)
}

func (b *Bot) send(ctx context.Context, chatID int64, text string, keyboard any) {
	msg := tgbotapi.NewMessage(chatID, text)
	if keyboard != nil {
		msg.ReplyMarkup = keyboard
	}
	if _, err := b.api.Send(msg); err != nil {
		slog.ErrorContext(ctx, "Failed to send message", "chat_id", chatID, "error", err)
	}
}

func (b *Bot) sendMarkdown(ctx context.Context, chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := b.api.Send(msg); err != nil {
		slog.ErrorContext(ctx, "Failed to send message", "chat_id", chatID, "error", err)
	}
}
