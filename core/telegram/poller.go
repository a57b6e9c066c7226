package telegram

import (
	"strings"

	tele "gopkg.in/telebot.v4"

	coreconfig "github.com/m3rciful/cashflowbot/core/config"
)

// allowedUpdates limits delivery to the update kinds the bot routes.
var allowedUpdates = []string{"message", "callback_query"}

// BuildPoller returns a webhook listener in webhook mode and a long poller
// otherwise.
func BuildPoller(cfg *coreconfig.Config) tele.Poller {
	if strings.EqualFold(strings.TrimSpace(cfg.Telegram.RunMode), coreconfig.RunModeWebhook) {
		return &tele.Webhook{
			Listen:         cfg.Webhook.Addr(),
			Endpoint:       &tele.WebhookEndpoint{PublicURL: cfg.Webhook.URL},
			AllowedUpdates: allowedUpdates,
			DropUpdates:    cfg.Telegram.DropPending,
		}
	}
	return &tele.LongPoller{
		Timeout:        cfg.Telegram.LongPollTimeout(),
		AllowedUpdates: allowedUpdates,
	}
}
