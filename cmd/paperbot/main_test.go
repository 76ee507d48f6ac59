package main

import (
	"flag"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func contextWithFlags(t *testing.T, values map[string]string) *cli.Context {
	t.Helper()

	set := flag.NewFlagSet("test", flag.ContinueOnError)
	set.String("log-level", "info", "")
	for name, value := range values {
		set.String(name, value, "")
	}
	return cli.NewContext(&cli.App{}, set, nil)
}

func TestSetupLoggerLevels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error", "DEBUG"} {
		ctx := contextWithFlags(t, nil)
		require.NoError(t, ctx.Set("log-level", level), level)
		assert.NoError(t, setupLogger(ctx), level)
	}
}

func TestSetupLoggerInvalidLevel(t *testing.T) {
	ctx := contextWithFlags(t, nil)
	require.NoError(t, ctx.Set("log-level", "verbose"))
	assert.Error(t, setupLogger(ctx))
}

func TestZulipConfigFromEnv(t *testing.T) {
	t.Setenv("ZULIP_SITE", "")
	t.Setenv("ZULIP_EMAIL", "")
	t.Setenv("ZULIP_API_KEY", "")
	t.Setenv("ZULIP_STREAM", "")
	assert.Nil(t, zulipConfigFromEnv(), "incomplete settings disable the bridge")

	t.Setenv("ZULIP_SITE", "https://chat.example.com")
	t.Setenv("ZULIP_EMAIL", "bot@example.com")
	assert.Nil(t, zulipConfigFromEnv(), "all three variables are required")

	t.Setenv("ZULIP_API_KEY", "secret")
	config := zulipConfigFromEnv()
	require.NotNil(t, config)
	assert.NoError(t, config.Validate())
	assert.Equal(t, "Paper_Reader", config.Stream)

	t.Setenv("ZULIP_STREAM", "papers-dev")
	config = zulipConfigFromEnv()
	require.NotNil(t, config)
	assert.Equal(t, "papers-dev", config.Stream)
}
