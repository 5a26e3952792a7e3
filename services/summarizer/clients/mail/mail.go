package mail

import (
	"context"
	"fmt"
	"log/slog"

	gomail "gopkg.in/gomail.v2"
)

// Client delivers one message to one recipient per call over SMTP.
type Client struct {
	dialer *gomail.Dialer
	from   string
	log    *slog.Logger
}

func New(host string, port int, user, password, from string, log *slog.Logger) *Client {
	if from == "" {
		from = user
	}

	return &Client{
		dialer: gomail.NewDialer(host, port, user, password),
		from:   from,
		log:    log,
	}
}

func (c *Client) Send(ctx context.Context, to, subject, textBody, htmlBody string) error {
	// gomail has no context support; checking here at least keeps a
	// cancelled fan-out from opening new connections.
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", c.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", textBody)
	m.AddAlternative("text/html", htmlBody)

	c.log.Debug("sending email", slog.String("to", to), slog.String("subject", subject))

	if err := c.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send email to %s: %w", to, err)
	}

	return nil
}
