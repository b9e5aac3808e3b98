package tezos

import (
	"context"
	"encoding/binary"
	"log/slog"

	"github.com/schjonhaug/tezos-ledger-app-go/crypto"
	"github.com/schjonhaug/tezos-ledger-app-go/ui"
)

// keyPrompt shows a fixed type line and the address of a baking key.
type keyPrompt struct {
	kind    string
	address crypto.Address
	accept  func(out []byte) (int, uint16)
}

func (prompt *keyPrompt) NumItems() (int, error) {

	return 2, nil

}

func (prompt *keyPrompt) RenderItem(item, page int) (string, string, int, error) {

	var title, message string

	switch item {
	case 0:
		title, message = "Type", prompt.kind
	case 1:
		title, message = "Address", prompt.address.Base58()
	default:
		return "", "", 0, ui.ErrNoData
	}

	paged, pages, err := ui.Page(message, page)

	return title, paged, pages, err

}

func (prompt *keyPrompt) Accept(out []byte) (int, uint16) {

	return prompt.accept(out)

}

func (prompt *keyPrompt) Reject(out []byte) (int, uint16) {

	return 0, uint16(CommandNotAllowed)

}

// publicKeyReply is the length prefixed public key.
func publicKeyReply(out []byte, key crypto.PublicKey) (int, uint16) {

	return putStatus(out, []byte{byte(len(key.Bytes))}, key.Bytes)

}

func handleAuthorizeBaking(ctx context.Context, app *App, request *request, out []byte) (int, error) {

	if request.P1 < 1 {
		return 0, ApduCodeConditionsNotSatisfied
	}

	curve, err := parseCurve(request.P2)
	if err != nil {
		return 0, err
	}

	path, err := parsePath(request.Data, crypto.BIP32MaxLength)
	if err != nil {
		return 0, err
	}

	address, err := app.newAddressPrompt(curve, path, false)
	if err != nil {
		return 0, err
	}

	prompt := &keyPrompt{
		kind:    "Authorize Baking",
		address: address.address,
		accept: func(out []byte) (int, uint16) {
			if err := app.bakingKey.Store(BakingKey{Curve: curve, Path: path}); err != nil {
				return 0, uint16(ExecutionError)
			}
			if err := app.hwm.Reset(0); err != nil {
				return 0, uint16(Busy)
			}
			slog.Debug("AUTHORIZE", "Address", address.address.Base58())
			return publicKeyReply(out, address.key)
		},
	}

	return app.review(ctx, app.reviewer, prompt, out)

}

func handleDeAuthorize(ctx context.Context, app *App, request *request, out []byte) (int, error) {

	if request.P1 < 1 {
		return 0, ApduCodeConditionsNotSatisfied
	}

	key, err := app.authorizedKey()
	if err != nil {
		return 0, err
	}

	address, err := app.newAddressPrompt(key.Curve, key.Path, false)
	if err != nil {
		return 0, err
	}

	prompt := &keyPrompt{
		kind:    "DeAuthorize Baking",
		address: address.address,
		accept: func(out []byte) (int, uint16) {
			if err := app.hwm.Reset(0); err != nil {
				return 0, uint16(ExecutionError)
			}
			if err := app.bakingKey.Remove(); err != nil {
				return 0, uint16(ExecutionError)
			}
			return 0, uint16(Success)
		},
	}

	return app.review(ctx, app.reviewer, prompt, out)

}

// queryAuthKeyHandler returns the authorized path, prefixed with its
// curve when withCurve is set. P1 >= 1 asks the user first.
func queryAuthKeyHandler(withCurve bool) handler {

	return func(ctx context.Context, app *App, request *request, out []byte) (int, error) {

		key, err := app.authorizedKey()
		if err != nil {
			return 0, err
		}

		address, err := app.newAddressPrompt(key.Curve, key.Path, false)
		if err != nil {
			return 0, err
		}

		prompt := &keyPrompt{
			kind:    "Query Authorized",
			address: address.address,
			accept: func(out []byte) (int, uint16) {
				var reply []byte
				if withCurve {
					reply = append(reply, byte(key.Curve))
				}
				reply = append(reply, key.Path.Bytes()...)
				return putStatus(out, reply)
			},
		}

		if request.P1 >= 1 {
			return app.review(ctx, app.reviewer, prompt, out)
		}

		return accept(prompt, out)

	}

}

const setupHeaderLength = 12

// setupPrompt confirms a baking setup: key, chain and both marks.
type setupPrompt struct {
	app       *App
	address   *addressPrompt
	key       BakingKey
	chain     uint32
	mainLevel uint32
	testLevel uint32
}

func (prompt *setupPrompt) NumItems() (int, error) {

	return 5, nil

}

func (prompt *setupPrompt) RenderItem(item, page int) (string, string, int, error) {

	var title, message string

	switch item {
	case 0:
		title, message = "Type", "Setup Baking"
	case 1:
		title, message = "Address", prompt.address.address.Base58()
	case 2:
		title, message = "Chain", chainAlias(prompt.chain)
	case 3:
		title, message = "Main Chain HWM", formatLevel(prompt.mainLevel)
	case 4:
		title, message = "Test Chain HWM", formatLevel(prompt.testLevel)
	default:
		return "", "", 0, ui.ErrNoData
	}

	paged, pages, err := ui.Page(message, page)

	return title, paged, pages, err

}

func (prompt *setupPrompt) Accept(out []byte) (int, uint16) {

	if err := prompt.app.bakingKey.Store(prompt.key); err != nil {
		return 0, uint16(ExecutionError)
	}

	if err := prompt.app.hwm.Setup(chainID(prompt.chain), prompt.mainLevel, prompt.testLevel); err != nil {
		return 0, uint16(Busy)
	}

	return publicKeyReply(out, prompt.address.key)

}

func (prompt *setupPrompt) Reject(out []byte) (int, uint16) {

	return 0, uint16(CommandNotAllowed)

}

// handleSetup takes chain id, main level, test level and the key path.
func handleSetup(ctx context.Context, app *App, request *request, out []byte) (int, error) {

	curve, err := parseCurve(request.P2)
	if err != nil {
		return 0, err
	}

	data := request.Data
	if len(data) < setupHeaderLength+1 {
		return 0, WrongLength
	}

	count := int(data[setupHeaderLength])
	if len(data) < setupHeaderLength+1+4*count {
		return 0, WrongLength
	}

	path, err := parsePath(data[setupHeaderLength:setupHeaderLength+1+4*count], crypto.BIP32MaxLength)
	if err != nil {
		return 0, err
	}

	address, err := app.newAddressPrompt(curve, path, false)
	if err != nil {
		return 0, err
	}

	prompt := &setupPrompt{
		app:       app,
		address:   address,
		key:       BakingKey{Curve: curve, Path: path},
		chain:     binary.BigEndian.Uint32(data[0:4]),
		mainLevel: binary.BigEndian.Uint32(data[4:8]),
		testLevel: binary.BigEndian.Uint32(data[8:12]),
	}

	return app.review(ctx, app.reviewer, prompt, out)

}
