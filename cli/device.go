package main

import (
	"fmt"
	"log/slog"
	"strings"

	"gopkg.in/urfave/cli.v1"

	tezos "github.com/schjonhaug/tezos-ledger-app-go"
	"github.com/schjonhaug/tezos-ledger-app-go/crypto"
)

// device sends commands through a transport and unwraps the replies.
type device struct {
	transport Transport
}

func openDevice(ctx *cli.Context) (*device, error) {

	var transport Transport
	var err error

	if ctx.GlobalBool(cardFlag.Name) {
		transport, err = connectCard()
	} else {
		transport, err = dialSocket(ctx.GlobalString(socketFlag.Name))
	}
	if err != nil {
		return nil, err
	}

	return &device{transport: transport}, nil

}

func (device *device) Close() error {

	return device.transport.Close()

}

func (device *device) send(ins tezos.Instruction, p1, p2 byte, data []byte) ([]byte, error) {

	command, err := apduWrap(ins, p1, p2, data)
	if err != nil {
		return nil, err
	}

	slog.Debug("DEVICE", "Command", fmt.Sprintf("%x", command))

	response, err := device.transport.Transmit(command)
	if err != nil {
		return nil, err
	}

	slog.Debug("DEVICE", "Response", fmt.Sprintf("%x", response))

	return apduUnwrap(response)

}

// upload sends header and payload as one multi packet upload and returns
// the reply to the last packet.
func (device *device) upload(ins tezos.Instruction, p2 byte, header, payload []byte) ([]byte, error) {

	queue := newUploadQueue(header, payload)

	slog.Debug("DEVICE", "Packets", queue.Size())

	var reply []byte

	for !queue.IsEmpty() {

		next, _ := queue.Dequeue()

		var err error

		reply, err = device.send(ins, byte(next.packetType), p2, next.data)
		if err != nil {
			return nil, fmt.Errorf("%s packet: %w", next.packetType, err)
		}

	}

	return reply, nil

}

var curveNames = map[string]crypto.Curve{
	"ed25519":      crypto.Ed25519,
	"secp256k1":    crypto.Secp256K1,
	"secp256r1":    crypto.Secp256R1,
	"p256":         crypto.Secp256R1,
	"bip32ed25519": crypto.Bip32Ed25519,
}

func parseCurveName(name string) (crypto.Curve, error) {

	curve, ok := curveNames[strings.ToLower(name)]
	if !ok {
		return 0, fmt.Errorf("unknown curve %q", name)
	}

	return curve, nil

}

// keyArguments reads the path argument and the curve flag.
func keyArguments(ctx *cli.Context) (crypto.Curve, crypto.BIP32Path, error) {

	if ctx.NArg() < 1 {
		return 0, crypto.BIP32Path{}, fmt.Errorf("%s requires a derivation path", ctx.Command.Name)
	}

	curve, err := parseCurveName(ctx.String(curveFlag.Name))
	if err != nil {
		return 0, crypto.BIP32Path{}, err
	}

	path, err := crypto.ParseBIP32Path(ctx.Args().Get(0))
	if err != nil {
		return 0, crypto.BIP32Path{}, err
	}

	return curve, path, nil

}
