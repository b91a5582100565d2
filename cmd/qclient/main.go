package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tilerow/qgame/client"
	"github.com/tilerow/qgame/config"
	"github.com/tilerow/qgame/player"
	"github.com/tilerow/qgame/strategy"
)

var (
	configPath = flag.String("config", "", "path to a client config file (JSON or YAML)")
	name       = flag.String("name", "", "player name; overrides the config file")
	debug      = flag.Bool("debug", false, "debug logging")
)

func main() {
	flag.Parse()

	cfg, err := config.LoadClientConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", *configPath).Msg("cannot load config")
	}
	if *name != "" {
		cfg.Name = *name
	}
	if cfg.Name == "" {
		log.Fatal().Msg("a player name is required (-name or the config file)")
	}

	switch {
	case *debug:
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case cfg.Quiet:
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	strat, err := buildStrategy(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot build strategy")
	}
	p := player.NewLocalPlayer(cfg.Name, strat)

	ctx, cancel := context.WithCancel(context.Background())
	sig := make(chan os.Signal, 1)
	go func() {
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		log.Info().Msg("got quit signal...")
		cancel()
	}()

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	wait := time.Duration(cfg.WaitSeconds) * time.Second
	if err := client.New(p, addr, wait).Run(ctx); err != nil {
		log.Fatal().Err(err).Str("addr", addr).Msg("client exited")
	}
}

func buildStrategy(cfg config.ClientConfig) (strategy.Strategy, error) {
	var base strategy.Strategy
	switch cfg.Strategy {
	case "", "dag":
		base = strategy.Dag{}
	case "ldasg":
		base = strategy.Ldasg{}
	default:
		return nil, fmt.Errorf("unknown strategy %q", cfg.Strategy)
	}
	if cfg.Cheat == "" {
		return base, nil
	}
	kind, ok := strategy.ParseCheatKind(cfg.Cheat)
	if !ok {
		return nil, fmt.Errorf("unknown cheat %q", cfg.Cheat)
	}
	return strategy.NewCheater(kind, base), nil
}
