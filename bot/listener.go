// Copyright 2026 Paper Reader Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package bot

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/paperreader/paperbot/qa"
	"github.com/paperreader/paperbot/zulip"
)

const (
	// DefaultBotName is the mention name users quote when asking.
	DefaultBotName = "PaperReaderBot"

	// restartBackoff is the fixed pause before re-registering the event
	// queue after a transport failure.
	restartBackoff = 60 * time.Second
)

// Listener consumes the Zulip event stream and answers questions asked
// in paper topics. Each message is handled on a pool worker so one slow
// answer does not stall the event loop.
type Listener struct {
	client  *zulip.Client
	engine  *qa.Engine
	pool    *ants.Pool
	botName string
	backoff time.Duration
	logger  *slog.Logger
}

// ListenerOption configures a Listener.
type ListenerOption func(*Listener)

// WithBotName overrides the mention name.
func WithBotName(name string) ListenerOption {
	return func(l *Listener) {
		l.botName = name
	}
}

// WithBackoff overrides the restart backoff, mainly for tests.
func WithBackoff(d time.Duration) ListenerOption {
	return func(l *Listener) {
		l.backoff = d
	}
}

// NewListener creates a listener answering via the given engine.
func NewListener(client *zulip.Client, engine *qa.Engine, opts ...ListenerOption) (*Listener, error) {
	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	l := &Listener{
		client:  client,
		engine:  engine,
		pool:    pool,
		botName: DefaultBotName,
		backoff: restartBackoff,
		logger:  slog.Default().With("component", "listener"),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Close releases the worker pool.
func (l *Listener) Close() {
	l.pool.Release()
}

// Run supervises the subscription until the context is cancelled. A
// dead queue or transport failure triggers a fixed backoff and a fresh
// registration; the loop itself never returns an event error.
func (l *Listener) Run(ctx context.Context) error {
	for {
		if err := l.subscribe(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			l.logger.Error("event subscription failed, restarting", "backoff", l.backoff, "err", err)
		}

		select {
		case <-time.After(l.backoff):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// subscribe registers a queue and drains events until it fails.
func (l *Listener) subscribe(ctx context.Context) error {
	queue, err := l.client.Register(ctx)
	if err != nil {
		return err
	}

	l.logger.Info("listening for questions", "stream", l.client.Stream(), "bot", l.botName)

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		events, err := l.client.Events(ctx, queue)
		if err != nil {
			return err
		}

		for _, event := range events {
			if event.Type != "message" || event.Message == nil {
				continue
			}
			msg := *event.Message
			if submitErr := l.pool.Submit(func() {
				l.handle(ctx, msg)
			}); submitErr != nil {
				l.logger.Error("could not submit message to pool", "err", submitErr)
			}
		}
	}
}

// handle answers one inbound message if it is a question for us.
func (l *Listener) handle(ctx context.Context, msg zulip.Message) {
	if msg.Type != "stream" || msg.Stream != l.client.Stream() {
		return
	}
	if msg.SenderEmail == l.client.Email() {
		return
	}

	question, ok := qa.ExtractQuestion(msg.Content, l.botName)
	if !ok {
		l.logger.Debug("message is not a question for the bot", "topic", msg.Topic)
		return
	}

	answer, err := l.engine.Answer(ctx, msg.Topic, question)
	if err != nil {
		var corrErr *qa.CorrelationError
		if errors.As(err, &corrErr) {
			l.logger.Warn("question cannot be correlated", "topic", msg.Topic, "reason", corrErr.Reason)
			l.client.Post(ctx, msg.Topic, correlationReply(corrErr))
			return
		}
		l.logger.Error("failed to answer question", "topic", msg.Topic, "err", err)
		return
	}

	l.client.Post(ctx, msg.Topic, FormatReply(msg.SenderFullName, question, answer))
}

// correlationReply renders a correlation failure so the asker sees
// why no answer is coming instead of silence.
func correlationReply(err *qa.CorrelationError) string {
	switch {
	case errors.Is(err, qa.ErrIndexNotReady):
		return "This paper has not finished processing yet, please ask again a bit later."
	case errors.Is(err, qa.ErrUnknownThread):
		return "I don't know which paper this topic refers to, so I can't answer questions here."
	}
	return "I can't match this topic to a paper right now."
}
