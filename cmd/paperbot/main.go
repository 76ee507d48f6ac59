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


package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	paperbot "github.com/paperreader/paperbot"
	"github.com/paperreader/paperbot/ai"
	"github.com/paperreader/paperbot/core"
	"github.com/paperreader/paperbot/feed"
	"github.com/paperreader/paperbot/ingest"
	"github.com/paperreader/paperbot/qa"
	"github.com/paperreader/paperbot/zulip"
)

func main() {
	// Optional: local development settings.
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "paperbot",
		Usage: "Watch the daily papers feed, summarize new papers, and answer questions about them",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "db",
				Aliases: []string{"d"},
				Usage:   "Path to BadgerDB catalog directory",
				Value:   "paperbot_db",
			},
			&cli.StringFlag{
				Name:  "pdf-dir",
				Usage: "Directory for downloaded paper PDFs",
				Value: "paper_pdf",
			},
			&cli.StringFlag{
				Name:  "index-dir",
				Usage: "Directory for per-paper index files",
				Value: "embedding_db",
			},
			&cli.StringFlag{
				Name:  "ai-host",
				Usage: "OpenAI-compatible service base URL",
				Value: "https://api.openai.com/v1",
			},
			&cli.StringFlag{
				Name:  "embedding-model",
				Usage: "Embedding model name",
				Value: "text-embedding-3-small",
			},
			&cli.StringFlag{
				Name:  "chat-model",
				Usage: "Chat model name for summaries and answers",
				Value: "gpt-4o-mini",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "Run the daemon: ingestion loop plus question listener",
				Action: runCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "catalog-url",
						Usage: "Daily papers catalog URL",
						Value: feed.DefaultCatalogURL,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Retry budget for failed papers",
						Value: ingest.DefaultMaxRetries,
					},
					&cli.DurationFlag{
						Name:  "sleep-min",
						Usage: "Minimum pause between ingestion cycles",
						Value: ingest.DefaultSleepMin,
					},
					&cli.DurationFlag{
						Name:  "sleep-max",
						Usage: "Maximum pause between ingestion cycles",
						Value: ingest.DefaultSleepMax,
					},
					&cli.IntFlag{
						Name:  "top-k",
						Usage: "Chunks retrieved per question",
						Value: qa.DefaultTopK,
					},
				},
			},
			{
				Name:   "cycle",
				Usage:  "Run a single ingestion pass and exit",
				Action: cycleCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "catalog-url",
						Usage: "Daily papers catalog URL",
						Value: feed.DefaultCatalogURL,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Retry budget for failed papers",
						Value: ingest.DefaultMaxRetries,
					},
				},
			},
			{
				Name:   "list",
				Usage:  "List cataloged papers by status",
				Action: listCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "status",
						Aliases: []string{"s"},
						Usage:   "Status to list (pending, processing, completed, failed)",
						Value:   "failed",
					},
				},
			},
			{
				Name:      "ask",
				Usage:     "Ask a one-off question about a cataloged paper",
				ArgsUsage: "<paper-id> <question>",
				Action:    askCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "top-k",
						Usage: "Chunks retrieved for grounding",
						Value: qa.DefaultTopK,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// nullProvider satisfies ai.AIProvider for catalog-only commands that
// never call an AI service.
type nullProvider struct{}

func (nullProvider) Embedder() ai.Embedder     { return nil }
func (nullProvider) Summarizer() ai.Summarizer { return nil }
func (nullProvider) Answerer() ai.Answerer     { return nil }
func (nullProvider) Close() error              { return nil }

// buildApp wires the application from flags and environment. Missing
// AI credentials are rejected here, before any loop starts.
func buildApp(c *cli.Context, withAI bool) (*paperbot.App, error) {
	opts := []paperbot.AppOption{
		paperbot.WithIngestConfig(ingestConfig(c)),
	}

	if withAI {
		aiConfig := ai.NewConfig(
			ai.WithHost(c.String("ai-host")),
			ai.WithEmbeddingModel(c.String("embedding-model")),
			ai.WithChatModel(c.String("chat-model")),
			ai.WithToken(os.Getenv("OPENAI_API_KEY")),
		)
		if err := aiConfig.Validate(); err != nil {
			return nil, fmt.Errorf("AI configuration: %w (is OPENAI_API_KEY set?)", err)
		}
		opts = append(opts, paperbot.WithAIConfig(aiConfig))
	} else {
		// Catalog-only commands never talk to the AI services.
		opts = append(opts, paperbot.WithProvider(nullProvider{}))
	}

	if zulipConfig := zulipConfigFromEnv(); zulipConfig != nil {
		opts = append(opts, paperbot.WithZulipConfig(zulipConfig))
	}

	return paperbot.NewApp(c.String("db"), opts...)
}

func ingestConfig(c *cli.Context) *ingest.Config {
	opts := []ingest.ConfigOption{
		ingest.WithPDFDir(c.String("pdf-dir")),
		ingest.WithIndexDir(c.String("index-dir")),
	}
	if c.IsSet("max-retries") || c.Command.Name == "run" || c.Command.Name == "cycle" {
		opts = append(opts, ingest.WithMaxRetries(c.Int("max-retries")))
	}
	if c.Command.Name == "run" {
		opts = append(opts, ingest.WithSleepRange(c.Duration("sleep-min"), c.Duration("sleep-max")))
	}
	return ingest.DefaultConfig(opts...)
}

// zulipConfigFromEnv reads bridge settings from the environment. All
// three variables must be present for the bridge to be enabled.
func zulipConfigFromEnv() *zulip.Config {
	site := os.Getenv("ZULIP_SITE")
	email := os.Getenv("ZULIP_EMAIL")
	apiKey := os.Getenv("ZULIP_API_KEY")
	if site == "" || email == "" || apiKey == "" {
		return nil
	}

	opts := []zulip.ConfigOption{
		zulip.WithSite(site),
		zulip.WithCredentials(email, apiKey),
	}
	if stream := os.Getenv("ZULIP_STREAM"); stream != "" {
		opts = append(opts, zulip.WithStream(stream))
	}
	return zulip.DefaultConfig(opts...)
}

func runCommand(c *cli.Context) error {
	app, err := buildApp(c, true)
	if err != nil {
		return err
	}
	defer app.Close()

	pipeline, err := app.NewPipeline(feed.WithURL(c.String("catalog-url")))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if app.HasZulip() {
		listener, err := app.NewListener(qa.WithTopK(c.Int("top-k")))
		if err != nil {
			return err
		}
		defer listener.Close()

		go func() {
			if err := listener.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				slog.Error("listener stopped", "err", err)
			}
		}()
	} else {
		slog.Warn("zulip bridge not configured, summaries will not be posted")
	}

	if err := pipeline.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	slog.Info("shutting down")
	return nil
}

func cycleCommand(c *cli.Context) error {
	app, err := buildApp(c, true)
	if err != nil {
		return err
	}
	defer app.Close()

	pipeline, err := app.NewPipeline(feed.WithURL(c.String("catalog-url")))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return pipeline.Cycle(ctx)
}

func listCommand(c *cli.Context) error {
	status := core.Status(strings.ToLower(c.String("status")))
	if !status.Valid() {
		return fmt.Errorf("invalid status %q: must be one of pending, processing, completed, failed", c.String("status"))
	}

	app, err := buildApp(c, false)
	if err != nil {
		return err
	}
	defer app.Close()

	papers, err := app.Papers().ListPapersByStatus(context.Background(), status)
	if err != nil {
		return err
	}

	if len(papers) == 0 {
		fmt.Printf("no papers with status %s\n", status)
		return nil
	}

	for _, paper := range papers {
		fmt.Printf("%s  %s\n", paper.ID, paper.Title)
		fmt.Printf("    status=%s retries=%d updated=%s\n",
			paper.Status, paper.RetryCount, paper.UpdatedAt.Format(time.RFC3339))
		if paper.Topic != "" {
			fmt.Printf("    topic=%q\n", paper.Topic)
		}
		if paper.ErrorMessage != "" {
			fmt.Printf("    error=%s\n", paper.ErrorMessage)
		}
	}
	return nil
}

func askCommand(c *cli.Context) error {
	if c.NArg() < 2 {
		return fmt.Errorf("usage: paperbot ask <paper-id> <question>")
	}
	paperID := c.Args().Get(0)
	question := strings.Join(c.Args().Slice()[1:], " ")

	app, err := buildApp(c, true)
	if err != nil {
		return err
	}
	defer app.Close()

	engine := app.NewEngine(qa.WithTopK(c.Int("top-k")))

	answer, err := engine.AnswerPaper(context.Background(), paperID, question)
	if err != nil {
		return err
	}

	fmt.Println(answer)
	return nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
