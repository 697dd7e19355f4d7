package config

import (
	"flag"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli"
)

func newContext(t *testing.T, args ...string) *cli.Context {
	t.Helper()
	set := flag.NewFlagSet("serve", flag.ContinueOnError)
	for _, f := range ServeFlags {
		f.Apply(set)
	}
	require.NoError(t, set.Parse(args))
	return cli.NewContext(cli.NewApp(), set, nil)
}

func TestFromContext_Defaults(t *testing.T) {
	cfg, err := FromContext(newContext(t))
	require.NoError(t, err)

	assert.Equal(t, Default, cfg)
	assert.Equal(t, ":8005", cfg.Addr())
}

func TestFromContext_Env(t *testing.T) {
	t.Setenv("CARDPRESS_PORT", "9000")
	t.Setenv("CARDPRESS_GAMES_REPO", "https://example.com/games.git")

	cfg, err := FromContext(newContext(t))
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "https://example.com/games.git", cfg.GamesRepo)
}

func TestFromContext_Flags(t *testing.T) {
	cfg, err := FromContext(newContext(t, "--games-dir", "/data/games", "--max-count", "20"))
	require.NoError(t, err)
	assert.Equal(t, "/data/games", cfg.GamesDir)
	assert.Equal(t, 20, cfg.MaxCount)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "port", mutate: func(c *Config) { c.Port = 0 }},
		{name: "games dir", mutate: func(c *Config) { c.GamesDir = "" }},
		{name: "output dir", mutate: func(c *Config) { c.OutputDir = "" }},
		{name: "max count", mutate: func(c *Config) { c.MaxCount = 0 }},
		{name: "workers", mutate: func(c *Config) { c.Workers = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
