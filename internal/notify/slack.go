package notify

import (
	"fmt"

	"github.com/slack-go/slack"

	"github.com/Shriya-Guptaa/Regulatory-Compliance-Checker/internal/config"
	"github.com/Shriya-Guptaa/Regulatory-Compliance-Checker/internal/report"
)

// SlackTransport mirrors each notification into a compliance channel. The
// recipient list is email-shaped and does not apply here; the channel is
// fixed by configuration.
type SlackTransport struct {
	api       *slack.Client
	channelID string
}

func NewSlackTransport(cfg config.Config) *SlackTransport {
	return &SlackTransport{
		api:       slack.New(cfg.SlackBotToken),
		channelID: cfg.SlackChannelID,
	}
}

func (t *SlackTransport) Name() string { return "slack" }

func (t *SlackTransport) Send(_ []string, rep report.Report) error {
	text := fmt.Sprintf("*%s*\n%s", rep.Subject, rep.PlainBody)
	_, _, err := t.api.PostMessage(t.channelID, slack.MsgOptionText(text, false))
	if err != nil {
		return fmt.Errorf("slack post: %w", err)
	}
	return nil
}
