package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/mattn/go-colorable"
	"github.com/spf13/afero"
	"golang.org/x/term"
)

func main() {
	_ = godotenv.Load() //optional .env carrying CLOAKPROJ_* settings
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	wd, _ := os.Getwd()
	gs := &globalState{
		ctx:       ctx,
		fs:        afero.NewOsFs(),
		wd:        wd,
		stdout:    colorable.NewColorableStdout(),
		stderr:    colorable.NewColorableStderr(),
		stdoutTTY: term.IsTerminal(int(os.Stdout.Fd())),
	}
	code := newRootCommand(gs).execute(os.Args[1:])
	stop()
	os.Exit(code)
}
