package services

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/google/uuid"
	"github.com/rpupo63/chantier-backend/metrics"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const (
	ChannelMail      = "mail"
	ChannelDatabase  = "database"
	ChannelBroadcast = "broadcast"
)

type Recipient struct {
	UserID uuid.UUID
	Name   string
	Email  string
}

// Notice is one notification, rendered for whichever channels it lists.
type Notice struct {
	Type        string
	Subject     string
	Greeting    string
	Lines       []string
	ActionLabel string
	ActionPath  string
	Data        map[string]any
	Channels    []string
}

func (n Notice) Has(channel string) bool {
	for _, c := range n.Channels {
		if c == channel {
			return true
		}
	}
	return false
}

type MailSender interface {
	Send(ctx context.Context, email Email) error
}

type Publisher interface {
	Publish(ctx context.Context, channel string, payload any) error
}

// Notifier fans a notice out over mail and realtime broadcast. The database
// channel is written by the caller inside its own transaction.
type Notifier struct {
	mail   MailSender
	pub    Publisher
	appURL string
	logger zerolog.Logger
}

// NewNotifier accepts nil senders; the matching channel is then skipped.
func NewNotifier(mail MailSender, pub Publisher, appURL string) *Notifier {
	return &Notifier{
		mail:   mail,
		pub:    pub,
		appURL: strings.TrimRight(appURL, "/"),
		logger: log.With().Str("service", "notifier").Logger(),
	}
}

// Deliver sends to every recipient concurrently. All deliveries are attempted;
// the first failure is returned after the rest finish.
func (n *Notifier) Deliver(ctx context.Context, recipients []Recipient, notice Notice) error {
	var g errgroup.Group
	g.SetLimit(8)

	for _, recipient := range recipients {
		recipient := recipient

		if notice.Has(ChannelMail) && n.mail != nil && recipient.Email != "" {
			g.Go(func() error {
				err := n.mail.Send(ctx, Email{
					To:      []string{recipient.Email},
					Subject: notice.Subject,
					HTML:    n.RenderHTML(notice, recipient),
				})
				n.record(ChannelMail, notice, recipient, err)
				return err
			})
		}

		if notice.Has(ChannelBroadcast) && n.pub != nil {
			g.Go(func() error {
				err := n.pub.Publish(ctx, UserChannel(recipient.UserID), map[string]any{
					"type": notice.Type,
					"data": notice.Data,
				})
				n.record(ChannelBroadcast, notice, recipient, err)
				return err
			})
		}
	}

	return g.Wait()
}

func (n *Notifier) record(channel string, notice Notice, recipient Recipient, err error) {
	metrics.RecordNotificationDelivery(channel, notice.Type, err)
	if err != nil {
		n.logger.Error().
			Err(err).
			Str("channel", channel).
			Str("type", notice.Type).
			Str("userID", recipient.UserID.String()).
			Msg("Notification delivery failed")
	}
}

// RenderHTML renders the mail body. User supplied text is escaped.
func (n *Notifier) RenderHTML(notice Notice, recipient Recipient) string {
	var b strings.Builder
	greeting := notice.Greeting
	if greeting == "" {
		greeting = "Bonjour " + recipient.Name + ","
	}
	fmt.Fprintf(&b, "<p>%s</p>", html.EscapeString(greeting))
	for _, line := range notice.Lines {
		fmt.Fprintf(&b, "<p>%s</p>", html.EscapeString(line))
	}
	if notice.ActionLabel != "" {
		fmt.Fprintf(&b, `<p><a href="%s">%s</a></p>`,
			html.EscapeString(n.appURL+notice.ActionPath),
			html.EscapeString(notice.ActionLabel))
	}
	return b.String()
}
