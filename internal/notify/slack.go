// Package notify delivers operator-facing messages to Slack: channel
// notifications via chat.postMessage and deferred slash-command responses
// via response URLs.
package notify

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
)

const DefaultSlackURL = "https://slack.com"

// Visibility maps to Slack's response_type: public responses show in the
// channel, private ones only to the caller.
type Visibility string

const (
	VisibilityPublic  Visibility = "in_channel"
	VisibilityPrivate Visibility = "ephemeral"
)

// Slack posts text to one fixed channel with a bot token.
type Slack struct {
	http    *resty.Client
	channel string
}

// NewSlack builds a sink against baseURL (DefaultSlackURL in production, a
// test server in tests).
func NewSlack(baseURL, botToken, channel string) *Slack {
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(15 * time.Second).
		SetAuthToken(botToken)

	return &Slack{http: httpClient, channel: channel}
}

type postMessageResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

// Notify posts text to the configured channel. Slack reports API-level
// failures inside a 200 body, so the ok flag is checked too.
func (s *Slack) Notify(ctx context.Context, text string) error {
	var result postMessageResponse
	resp, err := s.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"channel": s.channel, "text": text}).
		SetResult(&result).
		Post("/api/chat.postMessage")
	if err != nil {
		return errors.Wrap(err, "slack chat.postMessage")
	}
	if !resp.IsSuccess() {
		return errors.Errorf("slack chat.postMessage: %s", resp.Status())
	}
	if !result.OK {
		return errors.Errorf("slack chat.postMessage: %s", result.Error)
	}
	return nil
}

// PostResponse delivers a deferred response to a caller-supplied response
// URL with the requested visibility.
func (s *Slack) PostResponse(ctx context.Context, responseURL, text string, visibility Visibility) error {
	resp, err := s.http.R().
		SetContext(ctx).
		SetBody(map[string]string{
			"text":          text,
			"response_type": string(visibility),
		}).
		Post(responseURL)
	if err != nil {
		return errors.Wrap(err, "slack response_url post")
	}
	if !resp.IsSuccess() {
		return errors.Errorf("slack response_url post: %s", resp.Status())
	}
	return nil
}
