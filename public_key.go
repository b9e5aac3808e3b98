package tezos

import (
	"context"
	"fmt"

	"github.com/schjonhaug/tezos-ledger-app-go/crypto"
	"github.com/schjonhaug/tezos-ledger-app-go/ui"
)

// maxAddressPathLength is the deepest path GetAddress derives.
const maxAddressPathLength = 6

// addressPrompt shows an address and returns its public key.
type addressPrompt struct {
	key         crypto.PublicKey
	address     crypto.Address
	withAddress bool
}

func (prompt *addressPrompt) NumItems() (int, error) {

	return 1, nil

}

func (prompt *addressPrompt) RenderItem(item, page int) (string, string, int, error) {

	if item != 0 {
		return "", "", 0, ui.ErrNoData
	}

	message, pages, err := ui.Page(prompt.address.Base58(), page)

	return "Address", message, pages, err

}

// Accept writes the key length, the key and optionally the address.
func (prompt *addressPrompt) Accept(out []byte) (int, uint16) {

	parts := [][]byte{{byte(len(prompt.key.Bytes))}, prompt.key.Bytes}
	if prompt.withAddress {
		parts = append(parts, []byte(prompt.address.Base58()))
	}

	return putStatus(out, parts...)

}

func (prompt *addressPrompt) Reject(out []byte) (int, uint16) {

	return 0, uint16(CommandNotAllowed)

}

func parseCurve(p2 byte) (crypto.Curve, error) {

	curve, err := crypto.CurveFromByte(p2)
	if err != nil {
		return 0, InvalidP1P2
	}

	return curve, nil

}

func parsePath(data []byte, max int) (crypto.BIP32Path, error) {

	path, err := crypto.ReadBIP32Path(data, max)
	if err != nil {
		return crypto.BIP32Path{}, DataInvalid
	}

	return path, nil

}

// newAddressPrompt derives the key at path.
func (app *App) newAddressPrompt(curve crypto.Curve, path crypto.BIP32Path, withAddress bool) (*addressPrompt, error) {

	key, err := app.signer.PublicKey(curve, path)
	if err != nil {
		return nil, fmt.Errorf("deriving %s key at %s: %w", curve, path, err)
	}

	return &addressPrompt{key: key, address: crypto.NewAddress(key), withAddress: withAddress}, nil

}

func (app *App) getAddress(ctx context.Context, request *request, out []byte, confirm, withAddress bool) (int, error) {

	curve, err := parseCurve(request.P2)
	if err != nil {
		return 0, err
	}

	path, err := parsePath(request.Data, maxAddressPathLength)
	if err != nil {
		return 0, err
	}

	prompt, err := app.newAddressPrompt(curve, path, withAddress)
	if err != nil {
		return 0, err
	}

	if confirm {
		return app.review(ctx, app.reviewer, prompt, out)
	}

	return accept(prompt, out)

}

func handleGetAddress(ctx context.Context, app *App, request *request, out []byte) (int, error) {

	return app.getAddress(ctx, request, out, request.P1 >= 1, true)

}

func handleLegacyGetPublicKey(ctx context.Context, app *App, request *request, out []byte) (int, error) {

	return app.getAddress(ctx, request, out, false, false)

}

func handleLegacyPromptPublicKey(ctx context.Context, app *App, request *request, out []byte) (int, error) {

	return app.getAddress(ctx, request, out, true, false)

}
