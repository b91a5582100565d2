package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tilerow/qgame/config"
	"github.com/tilerow/qgame/server"
	"github.com/tilerow/qgame/wire"
)

var (
	configPath = flag.String("config", "", "path to a server config file (JSON or YAML)")
	port       = flag.Int("port", 0, "listen port; overrides the config file")
	debug      = flag.Bool("debug", false, "debug logging")
)

func main() {
	flag.Parse()

	cfg, err := config.LoadServerConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", *configPath).Msg("cannot load config")
	}
	if *port != 0 {
		cfg.Port = *port
	}

	switch {
	case *debug:
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case cfg.Quiet:
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	ctx, cancel := context.WithCancel(context.Background())
	sig := make(chan os.Signal, 1)
	go func() {
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		log.Info().Msg("got quit signal...")
		cancel()
	}()

	res, err := server.New(cfg).Run(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("match failed")
	}
	out, err := wire.EncodeResult(res)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot encode result")
	}
	fmt.Println(string(out))
}
