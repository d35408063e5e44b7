package mailer

import (
	"context"
	"encoding/base64"
	"fmt"

	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// Client sends mail through the Gmail API
type Client struct {
	service *gmail.Service
	from    string
}

// Config holds Gmail sender configuration
type Config struct {
	From            string
	CredentialsPath string
	CredentialsJSON []byte
}

// NewClient creates a Gmail mail sender
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.From == "" {
		return nil, fmt.Errorf("mailer: sender address is required")
	}

	var opts []option.ClientOption
	if cfg.CredentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsPath))
	} else if len(cfg.CredentialsJSON) > 0 {
		opts = append(opts, option.WithCredentialsJSON(cfg.CredentialsJSON))
	} else {
		return nil, fmt.Errorf("mailer: credentials path or JSON is required")
	}
	opts = append(opts, option.WithScopes(gmail.GmailSendScope))

	service, err := gmail.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("mailer: failed to create service: %w", err)
	}

	return &Client{
		service: service,
		from:    cfg.From,
	}, nil
}

// Send delivers one plain-text email
func (c *Client) Send(ctx context.Context, to, subject, body string) error {
	if c.service == nil {
		return fmt.Errorf("mailer: service is nil")
	}
	if to == "" {
		return fmt.Errorf("mailer: recipient is required")
	}

	raw := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s",
		c.from, to, subject, body,
	)

	msg := &gmail.Message{
		Raw: base64.URLEncoding.EncodeToString([]byte(raw)),
	}

	_, err := c.service.Users.Messages.Send("me", msg).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("mailer: send to %s: %w", to, err)
	}
	return nil
}
