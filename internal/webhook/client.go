// Package webhook forwards notifications to an external HTTP endpoint.
package webhook

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"incubation_tracker/internal/models"
)

const DefaultTimeout = 5 * time.Second

// payload is the JSON body posted for each notification.
type payload struct {
	Event        string              `json:"event"`
	Notification models.Notification `json:"notification"`
}

// Client posts notifications to a single URL.
type Client struct {
	http *resty.Client
	url  string
}

func NewClient(url string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := resty.New().
		SetHeader("Content-Type", "application/json").
		SetHeader("User-Agent", "incubation-tracker").
		SetTimeout(timeout)
	return &Client{http: c, url: url}
}

// Send posts n and fails on transport errors or non-2xx responses.
func (c *Client) Send(ctx context.Context, n models.Notification) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(payload{Event: "notification", Notification: n}).
		Post(c.url)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	if resp.StatusCode() < http.StatusOK || resp.StatusCode() >= http.StatusMultipleChoices {
		return fmt.Errorf("webhook returned %d: %s", resp.StatusCode(), resp.String())
	}
	return nil
}
