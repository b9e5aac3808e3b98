package main

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/davecgh/go-spew/spew"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"gopkg.in/urfave/cli.v1"

	tezos "github.com/schjonhaug/tezos-ledger-app-go"
	"github.com/schjonhaug/tezos-ledger-app-go/crypto"
	"github.com/schjonhaug/tezos-ledger-app-go/hwm"
	"github.com/schjonhaug/tezos-ledger-app-go/parser"
	"github.com/schjonhaug/tezos-ledger-app-go/ui"
)

var (
	curveFlag = cli.StringFlag{
		Name:  "curve",
		Usage: "ed25519, secp256k1, secp256r1 or bip32ed25519",
		Value: "ed25519",
	}
	promptFlag = cli.BoolFlag{
		Name:  "prompt",
		Usage: "Ask for confirmation on the device",
	}
	bakingFlag = cli.BoolFlag{
		Name:  "baking",
		Usage: "Sign with the authorized baking key",
	}
	dumpFlag = cli.BoolFlag{
		Name:  "dump",
		Usage: "Dump the decoded values",
	}
	chainFlag = cli.StringFlag{
		Name:  "chain",
		Usage: "Chain id in hex, 00000000 for any",
		Value: "7a06a770",
	}
	mainLevelFlag = cli.UintFlag{
		Name:  "main",
		Usage: "Main chain high-water mark",
	}
	testLevelFlag = cli.UintFlag{
		Name:  "test",
		Usage: "Test chain high-water mark",
	}
)

var (
	versionCommand = cli.Command{
		Name:   "version",
		Usage:  "Shows the app version and commit",
		Action: version,
	}
	addressCommand = cli.Command{
		Name:      "address",
		Usage:     "Shows the public key and address of a path",
		ArgsUsage: "<path>",
		Action:    address,
		Flags:     []cli.Flag{curveFlag, promptFlag},
	}
	signCommand = cli.Command{
		Name:      "sign",
		Usage:     "Signs a hex encoded operation",
		ArgsUsage: "<path> <hex>",
		Action:    sign,
		Flags:     []cli.Flag{curveFlag, bakingFlag},
	}
	authorizeCommand = cli.Command{
		Name:      "authorize",
		Usage:     "Authorizes a key for baking",
		ArgsUsage: "<path>",
		Action:    authorize,
		Flags:     []cli.Flag{curveFlag},
	}
	deauthorizeCommand = cli.Command{
		Name:   "deauthorize",
		Usage:  "Removes the baking key",
		Action: deauthorize,
	}
	setupCommand = cli.Command{
		Name:      "setup",
		Usage:     "Authorizes a key and sets both high-water marks",
		ArgsUsage: "<path>",
		Action:    setup,
		Flags:     []cli.Flag{curveFlag, chainFlag, mainLevelFlag, testLevelFlag},
	}
	hwmCommand = cli.Command{
		Name:   "hwm",
		Usage:  "Shows the high-water marks",
		Action: showHWM,
	}
	resetCommand = cli.Command{
		Name:      "reset",
		Usage:     "Moves both high-water marks to a level",
		ArgsUsage: "<level>",
		Action:    reset,
	}
	hmacCommand = cli.Command{
		Name:      "hmac",
		Usage:     "Computes the HMAC of a hex message",
		ArgsUsage: "<path> <hex>",
		Action:    hmacMessage,
		Flags:     []cli.Flag{curveFlag},
	}
	parseCommand = cli.Command{
		Name:      "parse",
		Usage:     "Decodes an operation locally",
		ArgsUsage: "<hex>",
		Action:    parse,
		Flags:     []cli.Flag{bakingFlag, dumpFlag},
	}
)

var label = color.New(color.FgCyan).SprintFunc()

// withDevice runs fn on a freshly opened device.
func withDevice(ctx *cli.Context, fn func(device *device) error) error {

	device, err := openDevice(ctx)
	if err != nil {
		return err
	}
	defer device.Close()

	return fn(device)

}

func version(ctx *cli.Context) error {

	return withDevice(ctx, func(device *device) error {

		reply, err := device.send(tezos.InsGetVersion, 0, 0, nil)
		if err != nil {
			return err
		}
		if len(reply) < 9 {
			return fmt.Errorf("short version reply %x", reply)
		}

		commit, err := device.send(tezos.InsLegacyGit, 0, 0, nil)
		if err != nil {
			return err
		}

		fmt.Printf("%s %d.%d.%d\n", label("Version"), reply[1], reply[2], reply[3])
			fmt.Printf("%s %#08x\n", label("Target"), binary.BigEndian.Uint32(reply[5:9]))
		fmt.Printf("%s %s\n", label("Commit"), string(trimZero(commit)))

		return nil

	})

}

func trimZero(data []byte) []byte {

	for i, b := range data {
		if b == 0 {
			return data[:i]
		}
	}

	return data

}

func address(ctx *cli.Context) error {

	curve, path, err := keyArguments(ctx)
	if err != nil {
		return err
	}

	var p1 byte
	if ctx.Bool(promptFlag.Name) {
		p1 = 1
	}

	return withDevice(ctx, func(device *device) error {

		reply, err := device.send(tezos.InsGetAddress, p1, byte(curve), path.Bytes())
		if err != nil {
			return err
		}

		key, rest, err := splitKey(reply)
		if err != nil {
			return err
		}

		fmt.Printf("%s %s\n", label("Path"), path)
		fmt.Printf("%s %x\n", label("Public key"), key)
		fmt.Printf("%s %s\n", label("Address"), string(rest))

		return nil

	})

}

// splitKey splits a length prefixed key off reply.
func splitKey(reply []byte) ([]byte, []byte, error) {

	if len(reply) < 1 || len(reply) < 1+int(reply[0]) {
		return nil, nil, fmt.Errorf("malformed key reply %x", reply)
	}

	size := int(reply[0])

	return reply[1 : 1+size], reply[1+size:], nil

}

func sign(ctx *cli.Context) error {

	curve, path, err := keyArguments(ctx)
	if err != nil {
		return err
	}

	payload, err := hex.DecodeString(ctx.Args().Get(1))
	if err != nil {
		return fmt.Errorf("decoding operation: %w", err)
	}

	ins := tezos.InsSign
	if ctx.Bool(bakingFlag.Name) {
		ins = tezos.InsBakerSignWithHash
	}

	return withDevice(ctx, func(device *device) error {

		reply, err := device.upload(ins, byte(curve), path.Bytes(), payload)
		if err != nil {
			return err
		}
		if len(reply) < 32 {
			return fmt.Errorf("short signature reply %x", reply)
		}

		fmt.Printf("%s %x\n", label("Digest"), reply[:32])
		fmt.Printf("%s %x\n", label("Signature"), reply[32:])

		return nil

	})

}

func authorize(ctx *cli.Context) error {

	curve, path, err := keyArguments(ctx)
	if err != nil {
		return err
	}

	return withDevice(ctx, func(device *device) error {

		reply, err := device.send(tezos.InsAuthorizeBaking, 1, byte(curve), path.Bytes())
		if err != nil {
			return err
		}

		return printBakingKey(curve, reply)

	})

}

func printBakingKey(curve crypto.Curve, reply []byte) error {

	key, _, err := splitKey(reply)
	if err != nil {
		return err
	}

	fmt.Printf("%s %x\n", label("Public key"), key)
	fmt.Printf("%s %s\n", label("Address"), crypto.NewAddress(crypto.PublicKey{Curve: curve, Bytes: key}).Base58())

	return nil

}

func deauthorize(ctx *cli.Context) error {

	return withDevice(ctx, func(device *device) error {

		if _, err := device.send(tezos.InsDeAuthorize, 1, 0, nil); err != nil {
			return err
		}

		color.Green("Baking key removed")

		return nil

	})

}

func setup(ctx *cli.Context) error {

	curve, path, err := keyArguments(ctx)
	if err != nil {
		return err
	}

	chain, err := hex.DecodeString(ctx.String(chainFlag.Name))
	if err != nil || len(chain) != 4 {
		return fmt.Errorf("chain id must be 4 hex bytes")
	}

	data := append([]byte(nil), chain...)
	data = binary.BigEndian.AppendUint32(data, uint32(ctx.Uint(mainLevelFlag.Name)))
	data = binary.BigEndian.AppendUint32(data, uint32(ctx.Uint(testLevelFlag.Name)))
	data = append(data, path.Bytes()...)

	return withDevice(ctx, func(device *device) error {

		reply, err := device.send(tezos.InsSetup, 0, byte(curve), data)
		if err != nil {
			return err
		}

		return printBakingKey(curve, reply)

	})

}

func showHWM(ctx *cli.Context) error {

	return withDevice(ctx, func(device *device) error {

		reply, err := device.send(tezos.InsQueryAllHWM, 0, 0, nil)
		if err != nil {
			return err
		}
		if len(reply) < hwm.AllLength {
			return fmt.Errorf("short high-water mark reply %x", reply)
		}

		chain := hwm.ChainID(binary.BigEndian.Uint32(reply[8:12]))

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Chain", "Main", "Test"})
		table.Append([]string{
			chain.String(),
			strconv.FormatUint(uint64(binary.BigEndian.Uint32(reply[0:4])), 10),
			strconv.FormatUint(uint64(binary.BigEndian.Uint32(reply[4:8])), 10),
		})
		table.Render()

		return nil

	})

}

func reset(ctx *cli.Context) error {

	level, err := strconv.ParseUint(ctx.Args().Get(0), 10, 32)
	if err != nil {
		return fmt.Errorf("reset requires a level: %w", err)
	}

	return withDevice(ctx, func(device *device) error {

		_, err := device.send(tezos.InsLegacyReset, 0, 0, binary.BigEndian.AppendUint32(nil, uint32(level)))

		return err

	})

}

func hmacMessage(ctx *cli.Context) error {

	curve, path, err := keyArguments(ctx)
	if err != nil {
		return err
	}

	message, err := hex.DecodeString(ctx.Args().Get(1))
	if err != nil {
		return fmt.Errorf("decoding message: %w", err)
	}

	return withDevice(ctx, func(device *device) error {

		reply, err := device.send(tezos.InsHMAC, 0, byte(curve), append(path.Bytes(), message...))
		if err != nil {
			return err
		}

		fmt.Printf("%s %x\n", label("HMAC"), reply)

		return nil

	})

}

// parse decodes an operation the way the device shows it, without a
// device.
func parse(ctx *cli.Context) error {

	data, err := hex.DecodeString(ctx.Args().Get(0))
	if err != nil {
		return fmt.Errorf("decoding operation: %w", err)
	}

	items, err := decodeItems(data, ctx.Bool(bakingFlag.Name))
	if err != nil {
		return err
	}

	messages, err := ui.Messages(items)
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Item", "Value"})
	table.SetAutoWrapText(false)
	for _, message := range messages {
		table.Append([]string{message[0], message[1]})
	}
	table.Render()

	if ctx.Bool(dumpFlag.Name) {
		spew.Dump(items)
	}

	return nil

}

func decodeItems(data []byte, baking bool) (ui.Items, error) {

	if !baking {
		if len(data) < parser.BranchSize {
			return parser.UnknownOp{Bytes: data}, nil
		}
		return parser.NewOperation(data)
	}

	rem, preamble, err := parser.ParsePreamble(data)
	if err != nil {
		return nil, err
	}

	switch {
	case preamble.IsBlock():
		_, block, err := parser.ParseBlockData(rem)
		return block, err
	case preamble.IsEndorsement():
		_, endorsement, err := parser.ParseEndorsementData(rem)
		return endorsement, err
	case preamble == parser.PreambleOperation:
		return parser.NewOperation(rem)
	}

	return nil, errors.New(preamble.String() + " cannot be decoded")

}
