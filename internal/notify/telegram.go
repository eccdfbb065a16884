// Package notify posts run summaries to a Telegram chat. Alerts are
// de-duplicated through Redis so a cron schedule does not repeat the same
// message every tick; the dedup key is operational only and is never read
// by any decision logic.
package notify

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/redis/go-redis/v9"

	"airdropclient/internal/config"
	"airdropclient/internal/models"
	"airdropclient/internal/util"
)

var log = config.InitLogger()

const dedupTTL = 6 * time.Hour

type Notifier struct {
	bot    *bot.Bot
	chatID int64
	redis  *redis.Client
}

func NewNotifier(cfg *config.TelegramConfig, redisCli *redis.Client) (*Notifier, error) {
	b, err := bot.New(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	return &Notifier{
		bot:    b,
		chatID: cfg.ChatID,
		redis:  redisCli,
	}, nil
}

// NotifyRunReport sends a snapshot run summary. Fully successful runs are
// sent too: silence would be indistinguishable from a dead cron job.
func (n *Notifier) NotifyRunReport(ctx context.Context, report *models.RunReport) {
	n.send(ctx, formatRunReport(report))
}

// NotifyClaim sends a claim submission outcome.
func (n *Notifier) NotifyClaim(ctx context.Context, address, verdict, txSig string) {
	msg := fmt.Sprintf("Claim for %s: %s", address, verdict)
	if txSig != "" {
		msg += "\ntx: " + txSig
	}
	n.send(ctx, msg)
}

func (n *Notifier) send(ctx context.Context, text string) {
	if n.redis != nil {
		sum := sha256.Sum256([]byte(text))
		key := "airdrop:notify:" + hex.EncodeToString(sum[:8])
		ok, err := n.redis.SetNX(ctx, key, 1, dedupTTL).Result()
		if err != nil {
			log.Error("Redis dedup check failed: ", err)
		} else if !ok {
			log.Debug("Suppressing duplicate notification")
			return
		}
	}

	if _, err := n.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: n.chatID,
		Text:   text,
	}); err != nil {
		log.Error("Failed to send telegram notification: ", err)
	}
}

func formatRunReport(r *models.RunReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Snapshot run (%s): %s", util.FormatDay(r.CurrentDay), r.Status)
	if r.Detail != "" {
		fmt.Fprintf(&b, "\n%s", r.Detail)
	}
	for _, d := range r.Days {
		fmt.Fprintf(&b, "\n  day %d [%s]: %s", d.Day, d.Kind, d.Outcome)
		if d.Reason != models.ReasonNone && d.Reason != models.ReasonUnclassified {
			fmt.Fprintf(&b, " (%s)", d.Reason)
		}
		if d.Err != "" {
			fmt.Fprintf(&b, ": %s", d.Err)
		}
	}
	return b.String()
}
