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


package paperbot

import (
	"errors"
	"log/slog"

	"github.com/paperreader/paperbot/ai"
	"github.com/paperreader/paperbot/ai/openai"
	"github.com/paperreader/paperbot/bot"
	"github.com/paperreader/paperbot/download"
	"github.com/paperreader/paperbot/feed"
	"github.com/paperreader/paperbot/index"
	"github.com/paperreader/paperbot/ingest"
	"github.com/paperreader/paperbot/qa"
	"github.com/paperreader/paperbot/storage"
	"github.com/paperreader/paperbot/storage/badger"
	"github.com/paperreader/paperbot/zulip"
)

// App wires the paper reader's collaborators over one storage backend
// and one AI provider. It is the composition root used by the CLI.
type App struct {
	backend      *badger.Backend
	papers       storage.PaperRepository
	fingerprints storage.FingerprintRepository
	provider     ai.AIProvider
	config       *ingest.Config
	modelName    string
	zulipClient  *zulip.Client
	logger       *slog.Logger
}

// AppOption configures an App.
type AppOption func(*appOptions)

type appOptions struct {
	aiConfig     *ai.Config
	ingestConfig *ingest.Config
	zulipConfig  *zulip.Config
	provider     ai.AIProvider
}

// WithAIConfig sets the OpenAI-compatible service configuration.
func WithAIConfig(config *ai.Config) AppOption {
	return func(o *appOptions) {
		o.aiConfig = config
	}
}

// WithIngestConfig sets the ingestion pipeline configuration.
func WithIngestConfig(config *ingest.Config) AppOption {
	return func(o *appOptions) {
		o.ingestConfig = config
	}
}

// WithZulipConfig enables the messaging bridge. Without it the app
// ingests and answers nothing interactively; papers complete with no
// topic bound.
func WithZulipConfig(config *zulip.Config) AppOption {
	return func(o *appOptions) {
		o.zulipConfig = config
	}
}

// WithProvider injects a pre-built AI provider, mainly for tests.
func WithProvider(provider ai.AIProvider) AppOption {
	return func(o *appOptions) {
		o.provider = provider
	}
}

// NewApp opens the catalog at filePath and wires the application.
func NewApp(filePath string, opts ...AppOption) (*App, error) {
	options := &appOptions{
		aiConfig:     ai.DefaultConfig(),
		ingestConfig: ingest.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	if err := options.ingestConfig.Validate(); err != nil {
		return nil, err
	}

	backend, err := badger.OpenBackend(filePath, false)
	if err != nil {
		return nil, err
	}

	papers, err := badger.NewPaperRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	fingerprints := badger.NewFingerprintRepository(backend)

	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			backend.Close()
			return nil, err
		}
	}

	app := &App{
		backend:      backend,
		papers:       papers,
		fingerprints: fingerprints,
		provider:     provider,
		config:       options.ingestConfig,
		modelName:    options.aiConfig.EmbeddingModel,
		logger:       slog.Default(),
	}

	if options.zulipConfig != nil {
		client, err := zulip.NewClient(options.zulipConfig)
		if err != nil {
			app.Close()
			return nil, err
		}
		app.zulipClient = client
	}

	return app, nil
}

// Close releases the provider and the storage backend.
func (a *App) Close() error {
	if err := a.provider.Close(); err != nil {
		a.logger.Error("error closing AI provider", "err", err)
	}
	if err := a.backend.Close(); err != nil {
		a.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// Papers returns the paper repository.
func (a *App) Papers() storage.PaperRepository {
	return a.papers
}

// NewIndexBuilder creates the per-paper index builder.
func (a *App) NewIndexBuilder() *index.Builder {
	return index.NewBuilder(a.config.IndexDir, a.modelName, a.provider.Embedder())
}

// NewPipeline wires an ingestion pipeline, attaching the Zulip poster
// when a client is configured.
func (a *App) NewPipeline(feedOpts ...feed.FetcherOption) (*ingest.Pipeline, error) {
	detector := feed.NewDetector(feed.NewFetcher(feedOpts...), a.papers, a.fingerprints)

	var opts []ingest.Option
	if a.zulipClient != nil {
		opts = append(opts, ingest.WithPoster(bot.NewSummaryPoster(a.zulipClient)))
	}

	return ingest.NewPipeline(a.config, a.papers, detector,
		download.NewManager(), a.provider, a.NewIndexBuilder(), opts...)
}

// NewEngine wires the Q&A engine.
func (a *App) NewEngine(opts ...qa.Option) *qa.Engine {
	return qa.NewEngine(a.papers, a.NewIndexBuilder(), a.provider, opts...)
}

// NewListener wires the question listener. Requires a Zulip client.
func (a *App) NewListener(engineOpts ...qa.Option) (*bot.Listener, error) {
	if a.zulipClient == nil {
		return nil, errors.New("paperbot: listener requires zulip configuration")
	}
	return bot.NewListener(a.zulipClient, a.NewEngine(engineOpts...))
}

// HasZulip reports whether the messaging bridge is configured.
func (a *App) HasZulip() bool {
	return a.zulipClient != nil
}
