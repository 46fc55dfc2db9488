package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/baalimago/go_away_boilerplate/pkg/ancli"
	"github.com/baalimago/go_away_boilerplate/pkg/misc"
	"github.com/baalimago/go_away_boilerplate/pkg/shutdown"
	"github.com/baalimago/zai/internal/config"
	"github.com/baalimago/zai/internal/utils"
	"github.com/baalimago/zai/pkg/zai"
)

// Set with buildflag if built in pipeline and not using go install
var (
	BuildVersion  = ""
	BuildChecksum = ""
)

type Mode int

const (
	HELP Mode = iota
	QUERY
	MODELS
	SERVE
	VERSION
)

var errUnknownCommand = errors.New("unknown command")

func getModeFromArgs(cmd string) (Mode, error) {
	switch cmd {
	case "query", "q":
		return QUERY, nil
	case "models", "m":
		return MODELS, nil
	case "serve", "s":
		return SERVE, nil
	case "help", "h":
		return HELP, nil
	case "version", "v":
		return VERSION, nil
	default:
		return HELP, fmt.Errorf("%w: '%s'", errUnknownCommand, cmd)
	}
}

// run the command line, returning the exit code.
func run(args []string) int {
	flags, rest, err := config.ParseFlags(args, os.Stderr)
	if err != nil {
		ancli.PrintErr(fmt.Sprintf("%v\n", err))
		return 1
	}
	if len(rest) == 0 {
		fmt.Print(usage)
		return 0
	}
	mode, err := getModeFromArgs(rest[0])
	if err != nil {
		ancli.PrintErr(fmt.Sprintf("%v\n", err))
		fmt.Print(usage)
		return 1
	}

	switch mode {
	case HELP:
		fmt.Print(usage)
		return 0
	case VERSION:
		return printVersion()
	case MODELS:
		for _, m := range zai.Models() {
			fmt.Println(m)
		}
		return 0
	}

	configDir, err := utils.GetConfigDir()
	if err != nil {
		ancli.PrintErr(fmt.Sprintf("failed to find config dir path: %v\n", err))
		return 1
	}
	conf, err := config.Load(configDir)
	if err != nil {
		ancli.PrintErr(fmt.Sprintf("failed to setup: %v\n", err))
		return 1
	}
	config.ApplyFlags(&conf, flags)

	client, err := newClient(conf)
	if err != nil {
		ancli.PrintErr(fmt.Sprintf("failed to setup client: %v\n", err))
		return 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { shutdown.Monitor(cancel) }()

	switch mode {
	case QUERY:
		err = query(ctx, client, conf, flags.Stream, rest[1:])
	case SERVE:
		err = serve(ctx, client, conf)
	}
	if err != nil {
		ancli.PrintErr(fmt.Sprintf("failed to run: %v\n", err))
		return 1
	}
	if misc.Truthy(os.Getenv("DEBUG")) {
		ancli.PrintOK("things seems to have worked out. Bye bye!\n")
	}
	return 0
}

func newClient(conf config.Configurations) (*zai.Client, error) {
	return zai.New(
		zai.WithBaseURL(conf.BaseURL),
		zai.WithToken(conf.Token),
		zai.WithAnonymous(!conf.DisableAnonymous),
		zai.WithSigningSecret(conf.SigningSecret),
		zai.WithFallbackCharset(conf.FallbackCharset),
	)
}

func printVersion() int {
	if BuildVersion != "" {
		fmt.Println("version: " + BuildVersion)
		if BuildChecksum != "" {
			fmt.Println("checksum: " + BuildChecksum)
		}
		return 0
	}
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		ancli.PrintErr("failed to read build info\n")
		return 1
	}
	fmt.Println("version: " + bi.Main.Version)
	for _, dep := range bi.Deps {
		fmt.Printf("%s %s\n", dep.Path, dep.Version)
	}
	return 0
}
