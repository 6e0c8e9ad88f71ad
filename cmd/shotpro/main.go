package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/thesavant42/shotpro/internal/api"
	"github.com/thesavant42/shotpro/internal/config"
	"github.com/thesavant42/shotpro/internal/ui"
)

const usageText = `Usage: shotpro [global flags] <command> [flags] [args]

Commands:
  capture URL          take a screenshot and print the result (-save to download it)
  capture-async URL    queue a screenshot and poll until it finishes
  history              list stored screenshots (-filter, -status, -limit, -browse, -export DIR)
  delete ID...         delete history entries
  clear                delete all history (-yes skips the prompt)
  download ID          save a stored screenshot (-dir)
  downloads            list screenshots saved from this machine
  settings             show | set FIELD=VALUE... | reset | edit
  browsers             list browser engines on the backend
  stats                show backend statistics
  health               check the backend is reachable
  recent               list recently captured URLs
  backup               copy the local database (-dir)
  tui                  interactive capture, history and settings

Global flags:
`

func usage(fs *flag.FlagSet) func() {
	return func() {
		fmt.Fprint(fs.Output(), usageText)
		fs.PrintDefaults()
	}
}

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		ui.PrintError(err.Error())
		os.Exit(2)
	}

	fs := flag.NewFlagSet("shotpro", flag.ExitOnError)
	cfg.RegisterFlags(fs)
	fs.Usage = usage(fs)
	_ = fs.Parse(os.Args[1:])

	if fs.NArg() == 0 {
		fs.Usage()
		os.Exit(2)
	}

	a, err := newApp(cfg)
	if err != nil {
		ui.PrintError(err.Error())
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	code := 0
	if err := a.run(ctx, fs.Arg(0), fs.Args()[1:]); err != nil {
		switch {
		case errors.Is(err, flag.ErrHelp):
		case errors.Is(err, errUsage):
			ui.PrintError(fmt.Sprintf("%s %q", err, fs.Arg(0)))
			fs.Usage()
			code = 2
		default:
			ui.PrintError(api.UserMessage(err))
			code = 1
		}
	}
	stop()
	a.Close()
	os.Exit(code)
}
