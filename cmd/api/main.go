package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"

	"github.com/melih/cardpress/internal/adapters/builder"
	"github.com/melih/cardpress/internal/adapters/docker"
	"github.com/melih/cardpress/internal/adapters/filesystem"
	"github.com/melih/cardpress/internal/adapters/gitsync"
	"github.com/melih/cardpress/internal/adapters/http"
	"github.com/melih/cardpress/internal/adapters/pdf"
	"github.com/melih/cardpress/internal/config"
	"github.com/melih/cardpress/internal/core/domain"
)

const usage = `cardpress turns folders of card images into print-ready A4 PDF sheets.`

func main() {
	app := cli.NewApp()
	app.Name = "cardpress"
	app.Usage = usage

	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:   "debug",
			Usage:  "print cardpress debug logs",
			EnvVar: "CARDPRESS_DEBUG",
		},
	}

	app.Commands = []cli.Command{
		{
			Name:   "serve",
			Usage:  "run the web interface",
			Flags:  config.ServeFlags,
			Action: serve,
		},
		{
			Name:  "image",
			Usage: "build and verify the service container image",
			Subcommands: []cli.Command{
				{
					Name:  "build",
					Usage: "build the image from a directory or git URL",
					Flags: []cli.Flag{
						cli.StringFlag{Name: "source", Value: ".", Usage: "build context directory or git URL"},
						cli.StringFlag{Name: "tag", Value: "cardpress:latest", Usage: "image tag"},
						cli.BoolFlag{Name: "verify", Usage: "inspect the built image afterwards"},
					},
					Action: buildImage,
				},
				{
					Name:  "check",
					Usage: "statically check a Dockerfile against the runtime contract",
					Flags: []cli.Flag{
						cli.StringFlag{Name: "file", Value: "Dockerfile", Usage: "Dockerfile path"},
					},
					Action: checkDockerfile,
				},
			},
		},
	}

	app.Before = func(ctx *cli.Context) error {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load .env: %w", err)
		}
		if ctx.Bool("debug") {
			log.SetLevel(log.DebugLevel)
		}

		log.SetOutput(os.Stdout)
		log.SetFormatter(&prefixed.TextFormatter{
			ForceFormatting: true,
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
		return nil
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func serve(c *cli.Context) error {
	cfg, err := config.FromContext(c)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Initialize Adapters (Infrastructure)
	syncer := gitsync.NewSyncer(cfg.GamesDir, cfg.GamesRepo, cfg.GamesRef)
	if err := syncer.Sync(ctx); err != nil {
		log.Warnf("failed to sync games, serving what is on disk: %v", err)
	}
	catalog := filesystem.NewCatalog(cfg.GamesDir)
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}
	generator, err := pdf.NewGenerator(cfg.OutputDir, domain.DefaultLayout, cfg.Workers)
	if err != nil {
		return fmt.Errorf("failed to initialize generator: %w", err)
	}

	// 2. Initialize HTTP Handlers (Interface Adapters)
	deckHandler := http.NewDeckHandler(catalog, generator, syncer, cfg.MaxCount)
	app := http.NewApp(deckHandler)

	go func() {
		<-ctx.Done()
		log.Info("Shutting down...")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Errorf("shutdown failed: %v", err)
		}
	}()

	log.Infof("Server starting on %s", cfg.Addr())
	if err := app.Listen(cfg.Addr()); err != nil {
		return fmt.Errorf("server failed to start: %w", err)
	}
	return nil
}

func buildImage(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	b, err := builder.NewBuilderAdapter(os.Stdout)
	if err != nil {
		return err
	}
	tag, err := b.BuildImage(ctx, c.String("source"), c.String("tag"))
	if err != nil {
		return err
	}
	log.Infof("built image %s", tag)

	if !c.Bool("verify") {
		return nil
	}
	inspector, err := docker.NewAdapter()
	if err != nil {
		return err
	}
	if err := inspector.VerifyImage(ctx, tag, domain.DefaultImageSpec); err != nil {
		return err
	}
	log.Infof("image %s exposes %d/tcp and runs %q", tag, domain.DefaultImageSpec.Port, domain.DefaultImageSpec.Cmd)
	return nil
}

func checkDockerfile(c *cli.Context) error {
	f, err := os.Open(c.String("file"))
	if err != nil {
		return fmt.Errorf("failed to open Dockerfile: %w", err)
	}
	defer f.Close()

	if err := builder.VerifyDockerfile(f, domain.DefaultImageSpec); err != nil {
		return err
	}
	log.Infof("%s satisfies the runtime contract", c.String("file"))
	return nil
}
