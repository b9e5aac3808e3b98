// Command cli drives the signing app, either the emulator over its socket
// or a device behind a PC/SC reader.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"gopkg.in/urfave/cli.v1"

	tezos "github.com/schjonhaug/tezos-ledger-app-go"
	"github.com/schjonhaug/tezos-ledger-app-go/pipe"
)

var (
	socketFlag = cli.StringFlag{
		Name:  "socket",
		Usage: "Unix socket of the emulator",
		Value: pipe.DefaultSocket,
	}
	cardFlag = cli.BoolFlag{
		Name:  "card",
		Usage: "Use the first device found on a PC/SC reader",
	}
	debugFlag = cli.BoolFlag{
		Name:  "debug",
		Usage: "Log every command and reply",
	}

	app = &cli.App{
		Name:        filepath.Base(os.Args[0]),
		Usage:       "Tezos signing app client",
		Writer:      os.Stdout,
		HideVersion: true,
	}
)

func init() {

	app.Flags = []cli.Flag{socketFlag, cardFlag, debugFlag}
	app.Before = func(ctx *cli.Context) error {
		level := slog.LevelWarn
		if ctx.GlobalBool(debugFlag.Name) {
			level = slog.LevelDebug
		}
		tezos.SetLogLevel(level)
		return nil
	}
	app.CommandNotFound = func(ctx *cli.Context, command string) {
		fmt.Fprintf(os.Stderr, "No such command: %s\n", command)
		os.Exit(1)
	}
	app.Commands = []cli.Command{
		versionCommand,
		addressCommand,
		signCommand,
		authorizeCommand,
		deauthorizeCommand,
		setupCommand,
		hwmCommand,
		resetCommand,
		hmacCommand,
		parseCommand,
	}

}

func exit(err error) {

	if err == nil {
		os.Exit(0)
	}

	var status tezos.Status
	if errors.As(err, &status) {
		fmt.Fprintln(os.Stderr, color.RedString("device refused: %s", status.String()))
		os.Exit(2)
	}

	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)

}

func main() {

	exit(app.Run(os.Args))

}
