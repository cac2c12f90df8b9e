// Package slackbot answers inventory questions in Slack. It serves the
// Events API endpoint for app mentions and direct messages and a slash
// command endpoint, both verified against the app's signing secret, and
// turns message text into store queries through the keyword interpreter.
package slackbot

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"

	"github.com/stockyardhq/stockyard/internal/search"
	"github.com/stockyardhq/stockyard/internal/store"
)

// Config holds the Slack app credentials.
type Config struct {
	// SigningSecret verifies that requests come from Slack.
	SigningSecret string
	// BotToken authorizes outgoing chat.postMessage calls. Without it the
	// events endpoint still acks but cannot reply.
	BotToken string
}

// postTimeout bounds the outgoing reply after the event is acked.
const postTimeout = 10 * time.Second

// Bot handles Slack traffic for the inventory store.
type Bot struct {
	store  *store.Store
	api    *slack.Client
	config Config
	logger *zerolog.Logger
}

// New creates a Bot. The API client is only created when a bot token is
// configured.
func New(st *store.Store, cfg Config, logger *zerolog.Logger) *Bot {
	b := &Bot{
		store:  st,
		config: cfg,
		logger: logger,
	}
	if cfg.BotToken != "" {
		b.api = slack.New(cfg.BotToken)
	}
	return b
}

// Handler returns the bot's HTTP handler. Routes are relative to the mount
// point: /events for the Events API, /commands for slash commands.
func (b *Bot) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/events", b.handleEvents)
	mux.HandleFunc("/commands", b.handleCommand)
	return mux
}

// handleEvents serves the Slack Events API: URL verification during app
// setup, then app mentions and direct messages.
func (b *Bot) handleEvents(w http.ResponseWriter, r *http.Request) {
	body, ok := b.verifiedBody(w, r)
	if !ok {
		return
	}

	event, err := slackevents.ParseEvent(json.RawMessage(body), slackevents.OptionNoVerifyToken())
	if err != nil {
		http.Error(w, "unparseable event", http.StatusBadRequest)
		return
	}

	switch event.Type {
	case slackevents.URLVerification:
		var challenge slackevents.ChallengeResponse
		if err := json.Unmarshal(body, &challenge); err != nil {
			http.Error(w, "unparseable challenge", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte(challenge.Challenge))

	case slackevents.CallbackEvent:
		// Slack retries unless the event is acked within 3 seconds, so
		// replies are posted after responding.
		switch ev := event.InnerEvent.Data.(type) {
		case *slackevents.AppMentionEvent:
			go b.reply(ev.Channel, ev.Text)
		case *slackevents.MessageEvent:
			// Direct messages only; answering bot or edited messages
			// would loop.
			if ev.ChannelType == "im" && ev.BotID == "" && ev.SubType == "" {
				go b.reply(ev.Channel, ev.Text)
			}
		}
		w.WriteHeader(http.StatusOK)

	default:
		w.WriteHeader(http.StatusOK)
	}
}

// handleCommand serves the slash command endpoint. The answer rides back on
// the HTTP response, so no bot token is needed.
func (b *Bot) handleCommand(w http.ResponseWriter, r *http.Request) {
	if _, ok := b.verifiedBody(w, r); !ok {
		return
	}

	cmd, err := slack.SlashCommandParse(r)
	if err != nil {
		http.Error(w, "unparseable command", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), postTimeout)
	defer cancel()

	blocks, fallback := b.answer(ctx, cmd.Text)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"response_type": slack.ResponseTypeInChannel,
		"text":          fallback,
		"blocks":        blocks,
	})
}

// verifiedBody reads the request body and checks the Slack signature.
// SlashCommandParse re-reads the form, so the body is restored afterwards.
func (b *Bot) verifiedBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return nil, false
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
	if err != nil {
		http.Error(w, "unreadable body", http.StatusBadRequest)
		return nil, false
	}
	r.Body = io.NopCloser(bytes.NewReader(body))

	verifier, err := slack.NewSecretsVerifier(r.Header, b.config.SigningSecret)
	if err != nil {
		http.Error(w, "missing signature", http.StatusUnauthorized)
		return nil, false
	}
	if _, err := verifier.Write(body); err != nil {
		http.Error(w, "verification failed", http.StatusInternalServerError)
		return nil, false
	}
	if err := verifier.Ensure(); err != nil {
		b.logger.Warn().Str("path", r.URL.Path).Msg("Rejected request with bad Slack signature")
		http.Error(w, "invalid signature", http.StatusUnauthorized)
		return nil, false
	}
	return body, true
}

// reply answers an app mention in its channel.
func (b *Bot) reply(channel, text string) {
	if b.api == nil {
		b.logger.Warn().Msg("No bot token configured, dropping reply")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), postTimeout)
	defer cancel()

	blocks, fallback := b.answer(ctx, stripMention(text))
	_, _, err := b.api.PostMessageContext(ctx, channel,
		slack.MsgOptionText(fallback, false),
		slack.MsgOptionBlocks(blocks...),
	)
	if err != nil {
		b.logger.Error().Err(err).Str("channel", channel).Msg("Failed to post Slack reply")
	}
}

// answer interprets the question and renders the result as Block Kit
// blocks plus a plain-text fallback.
func (b *Bot) answer(ctx context.Context, text string) ([]slack.Block, string) {
	q := search.Interpret(text)

	if q.Summary {
		summary, err := b.store.Summary(ctx)
		if err != nil {
			b.logger.Error().Err(err).Msg("Summary query failed")
			return errorBlocks(), errorFallback
		}
		return summaryBlocks(summary), "Inventory summary"
	}

	items, total, err := b.store.ListItems(ctx, q.Filter)
	if err != nil {
		b.logger.Error().Err(err).Str("query", text).Msg("Item query failed")
		return errorBlocks(), errorFallback
	}
	return itemBlocks(q.Title, items, total), q.Title
}
