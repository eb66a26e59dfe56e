package main

import (
	"context"
	"flag"
	"os"

	"github.com/google/subcommands"
	"go.uber.org/zap"

	"goban/cmd/internal/play"
	"goban/cmd/internal/replay"
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	log := logger.Sugar()
	defer log.Sync()

	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(&replay.Command{}, "")
	subcommands.Register(&play.Command{}, "")

	flag.Parse()
	os.Exit(int(subcommands.Execute(context.Background(), log)))
}
