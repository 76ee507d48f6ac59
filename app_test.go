package paperbot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paperreader/paperbot/ai/mock"
	"github.com/paperreader/paperbot/ingest"
)

func newTestApp(t *testing.T, opts ...AppOption) *App {
	t.Helper()

	opts = append([]AppOption{
		WithProvider(mock.NewMockProvider()),
		WithIngestConfig(ingest.DefaultConfig(
			ingest.WithPDFDir(t.TempDir()),
			ingest.WithIndexDir(t.TempDir()),
		)),
	}, opts...)

	app, err := NewApp(filepath.Join(t.TempDir(), "catalog"), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { app.Close() })
	return app
}

func TestNewApp(t *testing.T) {
	t.Run("create new app", func(t *testing.T) {
		app := newTestApp(t)

		assert.NotNil(t, app.Papers())
		assert.NotNil(t, app.backend)
		assert.False(t, app.HasZulip())
	})

	t.Run("error with invalid path", func(t *testing.T) {
		tmpFile := filepath.Join(t.TempDir(), "not_a_dir")
		require.NoError(t, os.WriteFile(tmpFile, []byte("test"), 0o644))

		app, err := NewApp(tmpFile, WithProvider(mock.NewMockProvider()))
		assert.Error(t, err)
		assert.Nil(t, app)
	})

	t.Run("error without credentials", func(t *testing.T) {
		// No provider injected and no token: configuration is rejected
		// before anything can run.
		app, err := NewApp(filepath.Join(t.TempDir(), "catalog"))
		assert.Error(t, err)
		assert.Nil(t, app)
	})
}

func TestAppFactoryMethods(t *testing.T) {
	app := newTestApp(t)

	t.Run("can create pipeline", func(t *testing.T) {
		pipeline, err := app.NewPipeline()
		require.NoError(t, err)
		assert.NotNil(t, pipeline)
	})

	t.Run("can create engine", func(t *testing.T) {
		assert.NotNil(t, app.NewEngine())
	})

	t.Run("listener requires zulip", func(t *testing.T) {
		_, err := app.NewListener()
		assert.Error(t, err)
	})
}
