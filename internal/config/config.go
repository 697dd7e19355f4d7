package config

import (
	"fmt"
	"strconv"

	"github.com/urfave/cli"
)

const envPrefix = "CARDPRESS_"

// Config holds the runtime settings of the serve command.
type Config struct {
	Port      int
	GamesDir  string
	OutputDir string
	GamesRepo string
	GamesRef  string
	MaxCount  int
	Workers   int
}

// Default matches the container image: port 8005, games in Juegos and
// documents in documentos relative to the working directory.
var Default = Config{
	Port:      8005,
	GamesDir:  "Juegos",
	OutputDir: "documentos",
	MaxCount:  10,
	Workers:   2,
}

// ServeFlags are the flags of the serve command. Every flag can also be
// set through a CARDPRESS_* environment variable.
var ServeFlags = []cli.Flag{
	cli.IntFlag{
		Name:   "port",
		Value:  Default.Port,
		Usage:  "TCP port to listen on",
		EnvVar: envPrefix + "PORT",
	},
	cli.StringFlag{
		Name:   "games-dir",
		Value:  Default.GamesDir,
		Usage:  "directory with one folder of card images per game",
		EnvVar: envPrefix + "GAMES_DIR",
	},
	cli.StringFlag{
		Name:   "output-dir",
		Value:  Default.OutputDir,
		Usage:  "directory generated documents are written to",
		EnvVar: envPrefix + "OUTPUT_DIR",
	},
	cli.StringFlag{
		Name:   "games-repo",
		Usage:  "git repository mirrored into the games directory",
		EnvVar: envPrefix + "GAMES_REPO",
	},
	cli.StringFlag{
		Name:   "games-ref",
		Usage:  "branch of the games repository",
		EnvVar: envPrefix + "GAMES_REF",
	},
	cli.IntFlag{
		Name:   "max-count",
		Value:  Default.MaxCount,
		Usage:  "maximum copies of a single card per document",
		EnvVar: envPrefix + "MAX_COUNT",
	},
	cli.IntFlag{
		Name:   "workers",
		Value:  Default.Workers,
		Usage:  "documents rendered concurrently",
		EnvVar: envPrefix + "WORKERS",
	},
}

// FromContext reads and validates the serve flags.
func FromContext(ctx *cli.Context) (Config, error) {
	cfg := Config{
		Port:      ctx.Int("port"),
		GamesDir:  ctx.String("games-dir"),
		OutputDir: ctx.String("output-dir"),
		GamesRepo: ctx.String("games-repo"),
		GamesRef:  ctx.String("games-ref"),
		MaxCount:  ctx.Int("max-count"),
		Workers:   ctx.Int("workers"),
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	switch {
	case c.Port < 1 || c.Port > 65535:
		return fmt.Errorf("invalid port %d", c.Port)
	case c.GamesDir == "":
		return fmt.Errorf("games dir is required")
	case c.OutputDir == "":
		return fmt.Errorf("output dir is required")
	case c.MaxCount < 1:
		return fmt.Errorf("max count must be positive, got %d", c.MaxCount)
	case c.Workers < 1:
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}
