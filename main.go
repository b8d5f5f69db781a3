package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"qsr-forecast/utils"
)

const usage = `usage: qsr-forecast [generate|smoketest] [-config path]

  generate   simulate the QSR sales dataset and write it to the data directory (default)
  smoketest  check dependencies, the tracking backend and the configuration
`

var flagOutput io.Writer = os.Stderr

func main() {
	logger := utils.NewLogger()

	cmd, configPath, err := parseArgs(os.Args[1:], flag.ExitOnError)
	if err != nil {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	switch cmd {
	case "generate":
		err = runGenerate(ctx, logger, configPath)
	case "smoketest":
		err = runSmokeTest(ctx, logger, configPath)
	default:
		stop()
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	stop()

	if err != nil {
		logger.Error("❌ %s failed: %v", cmd, err)
		os.Exit(1)
	}
}

// parseArgs splits an optional leading sub-command from its flags.
func parseArgs(args []string, onError flag.ErrorHandling) (cmd, configPath string, err error) {
	cmd = "generate"
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		cmd, args = args[0], args[1:]
	}

	flags := flag.NewFlagSet(cmd, onError)
	flags.SetOutput(flagOutput)
	flags.Usage = func() { fmt.Fprint(flags.Output(), usage) }
	flags.StringVar(&configPath, "config", "", "path to config.yaml (default $QSR_CONFIG, then config/config.yaml)")
	if err := flags.Parse(args); err != nil {
		return "", "", err
	}
	if flags.NArg() > 0 {
		return "", "", fmt.Errorf("unexpected arguments: %v", flags.Args())
	}
	return cmd, configPath, nil
}
