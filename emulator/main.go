// Command emulator runs the signing app behind a unix socket, standing in
// for a device. Prompts are answered on the terminal.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"gopkg.in/urfave/cli.v1"

	tezos "github.com/schjonhaug/tezos-ledger-app-go"
	"github.com/schjonhaug/tezos-ledger-app-go/bolos"
	"github.com/schjonhaug/tezos-ledger-app-go/pipe"
	"github.com/schjonhaug/tezos-ledger-app-go/ui"
)

var (
	configFlag = cli.StringFlag{
		Name:  "config",
		Usage: "TOML configuration file",
	}
	socketFlag = cli.StringFlag{
		Name:  "socket",
		Usage: "Unix socket to listen on",
		Value: pipe.DefaultSocket,
	}
	seedFlag = cli.StringFlag{
		Name:  "seed",
		Usage: "Hex seed, overrides the configuration",
	}
	bakingFlag = cli.BoolFlag{
		Name:  "baking",
		Usage: "Start with the baking instruction set",
	}
	autoApproveFlag = cli.BoolFlag{
		Name:  "auto-approve",
		Usage: "Approve every prompt without asking",
	}
	debugFlag = cli.BoolFlag{
		Name:  "debug",
		Usage: "Log every command and reply",
	}

	app = &cli.App{
		Name:        filepath.Base(os.Args[0]),
		Usage:       "Tezos signing app emulator",
		Writer:      os.Stdout,
		HideVersion: true,
	}
)

func init() {

	app.Flags = []cli.Flag{configFlag, socketFlag, seedFlag, bakingFlag, autoApproveFlag, debugFlag}
	app.Action = run

}

func exit(err error) {

	if err == nil {
		os.Exit(0)
	}

	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)

}

func main() {

	exit(app.Run(os.Args))

}

func loadConfig(ctx *cli.Context) (tezos.Config, error) {

	config := tezos.DefaultConfig()

	if file := ctx.String(configFlag.Name); file != "" {
		loaded, err := tezos.LoadConfig(file)
		if err != nil {
			return config, err
		}
		config = loaded
	}

	if ctx.Bool(bakingFlag.Name) {
		config.App.Mode = tezos.ModeBaking
		config.Wallet.Enabled = false
		config.Baking.Enabled = true
	}

	if seed := ctx.String(seedFlag.Name); seed != "" {
		config.Keys.Seed = seed
	}

	return config, config.Validate()

}

func run(ctx *cli.Context) error {

	config, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	level, err := config.LogLevel()
	if err != nil {
		return err
	}
	if ctx.Bool(debugFlag.Name) {
		level = slog.LevelDebug
	}
	tezos.SetLogLevel(level)

	storage, err := bolos.OpenStorage(config.Storage.Path)
	if err != nil {
		return err
	}
	defer storage.Close()

	var reviewer ui.Reviewer = ui.NewTerminalReviewer()
	if ctx.Bool(autoApproveFlag.Name) {
		reviewer = ui.AutoReviewer{Approve: true}
	}

	signingApp, err := tezos.NewApp(config, storage, tezos.WithReviewer(reviewer))
	if err != nil {
		return err
	}

	socket := ctx.String(socketFlag.Name)

	if err := os.Remove(socket); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing stale socket: %w", err)
	}

	listener, err := net.Listen("unix", socket)
	if err != nil {
		return err
	}
	defer os.Remove(socket)

	slog.Info("EMULATOR", "Socket", socket, "Mode", string(config.App.Mode))

	background, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return pipe.Serve(background, listener, signingApp)

}
