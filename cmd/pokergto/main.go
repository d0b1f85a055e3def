// Command pokergto is the pokergto engine's command-line front end: hand
// evaluation, equity estimation, Nash push/fold lookups, one-off decision
// solves, and offline CFR training, all wired onto the root engine package.
package main

import (
	"os"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
)

// version is set by ldflags during build.
var version = "dev"

type CLI struct {
	Version  kong.VersionFlag `short:"v" help:"Show version"`
	LogLevel string           `help:"Set the log level" enum:"debug,info,warn,error" default:"info"`

	Evaluate  EvaluateCmd  `cmd:"" help:"Score the best hand from hole cards plus a board"`
	Equity    EquityCmd    `cmd:"" help:"Estimate equity against an opponent range"`
	Solve     SolveCmd     `cmd:"" help:"Deal a hand and solve one player's decision"`
	PushFold  PushFoldCmd  `cmd:"push-fold" help:"Look up a Nash push/fold distribution"`
	TrainCFR  TrainCFRCmd  `cmd:"train-cfr" help:"Train a CFR blueprint and save it to disk"`
	ServeBots ServeBotsCmd `cmd:"serve-bots" help:"Accept websocket-connected external bots and play them against an in-process opponent"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("pokergto"),
		kong.Description("Real-time poker decision engine: hand evaluation, equity, Nash push/fold, and CFR/MCTS solving"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)

	level, err := log.ParseLevel(cli.LogLevel)
	if err != nil {
		ctx.FatalIfErrorf(err)
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Level:           level,
	})

	err = ctx.Run(logger)
	ctx.FatalIfErrorf(err)
}
