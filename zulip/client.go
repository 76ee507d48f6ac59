// Package zulip is a minimal client for the Zulip REST API: posting
// stream messages and consuming the event queue.
package zulip

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// ErrBadResponse indicates the server answered with a non-success
// result or an undecodable body.
var ErrBadResponse = errors.New("zulip: bad response")

// DeliveryResult describes a successfully posted message.
type DeliveryResult struct {
	MessageID int64
	Topic     string
}

// Message is one inbound stream message from the event queue.
type Message struct {
	ID             int64  `json:"id"`
	SenderEmail    string `json:"sender_email"`
	SenderFullName string `json:"sender_full_name"`
	Stream         string `json:"display_recipient"`
	Topic          string `json:"subject"`
	Content        string `json:"content"`
	Timestamp      int64  `json:"timestamp"`
	Type           string `json:"type"`
}

// Event is one entry from the events long-poll.
type Event struct {
	ID      int64    `json:"id"`
	Type    string   `json:"type"`
	Message *Message `json:"message,omitempty"`
}

// Queue identifies a registered event queue.
type Queue struct {
	ID          string
	LastEventID int64
}

// Client talks to one Zulip realm with bot credentials.
type Client struct {
	config *Config
	http   *http.Client
	logger *slog.Logger
}

// NewClient creates a Zulip client. The configuration must be complete.
func NewClient(config *Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Client{
		config: config,
		// Long-polls hold the connection open, so no client timeout;
		// per-request contexts bound each call instead.
		http:   &http.Client{},
		logger: slog.Default().With("component", "zulip"),
	}, nil
}

// Stream returns the configured target stream.
func (c *Client) Stream() string {
	return c.config.Stream
}

// Email returns the bot's own address, used to skip self-messages.
func (c *Client) Email() string {
	return c.config.Email
}

// Post sends a message to the configured stream under the given topic.
// Failures are logged and reported as a nil result, never an error:
// message delivery is advisory for callers.
func (c *Client) Post(ctx context.Context, topic, content string) *DeliveryResult {
	form := url.Values{
		"type":    {"stream"},
		"to":      {c.config.Stream},
		"topic":   {topic},
		"content": {content},
	}

	var body struct {
		Result string `json:"result"`
		Msg    string `json:"msg"`
		ID     int64  `json:"id"`
	}
	if err := c.call(ctx, http.MethodPost, "/api/v1/messages", form, &body); err != nil {
		c.logger.Error("failed to post message", "topic", topic, "err", err)
		return nil
	}
	if body.Result != "success" {
		c.logger.Error("message rejected", "topic", topic, "msg", body.Msg)
		return nil
	}

	c.logger.Info("posted message", "topic", topic, "id", body.ID)
	return &DeliveryResult{MessageID: body.ID, Topic: topic}
}

// Register creates an event queue limited to message events.
func (c *Client) Register(ctx context.Context) (*Queue, error) {
	form := url.Values{
		"event_types": {`["message"]`},
	}

	var body struct {
		Result      string `json:"result"`
		Msg         string `json:"msg"`
		QueueID     string `json:"queue_id"`
		LastEventID int64  `json:"last_event_id"`
	}
	if err := c.call(ctx, http.MethodPost, "/api/v1/register", form, &body); err != nil {
		return nil, err
	}
	if body.Result != "success" || body.QueueID == "" {
		return nil, fmt.Errorf("%w: register: %s", ErrBadResponse, body.Msg)
	}

	c.logger.Debug("registered event queue", "queue", body.QueueID)
	return &Queue{ID: body.QueueID, LastEventID: body.LastEventID}, nil
}

// Events long-polls the queue for events past LastEventID. On success
// the queue's LastEventID is advanced.
func (c *Client) Events(ctx context.Context, queue *Queue) ([]Event, error) {
	params := url.Values{
		"queue_id":      {queue.ID},
		"last_event_id": {strconv.FormatInt(queue.LastEventID, 10)},
	}

	var body struct {
		Result string  `json:"result"`
		Msg    string  `json:"msg"`
		Events []Event `json:"events"`
	}
	path := "/api/v1/events?" + params.Encode()
	if err := c.call(ctx, http.MethodGet, path, nil, &body); err != nil {
		return nil, err
	}
	if body.Result != "success" {
		return nil, fmt.Errorf("%w: events: %s", ErrBadResponse, body.Msg)
	}

	for _, event := range body.Events {
		if event.ID > queue.LastEventID {
			queue.LastEventID = event.ID
		}
	}
	return body.Events, nil
}

func (c *Client) call(ctx context.Context, method, path string, form url.Values, out any) error {
	var reqBody io.Reader
	if form != nil {
		reqBody = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, strings.TrimRight(c.config.Site, "/")+path, reqBody)
	if err != nil {
		return err
	}
	req.SetBasicAuth(c.config.Email, c.config.APIKey)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d: %s", ErrBadResponse, resp.StatusCode, truncate(string(data), 200))
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
