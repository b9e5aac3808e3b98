package tezos

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/schjonhaug/tezos-ledger-app-go/crypto"
	"github.com/schjonhaug/tezos-ledger-app-go/parser"
	"github.com/schjonhaug/tezos-ledger-app-go/ui"
)

// Uploads shorter than a branch are shown as an opaque blob.
const minParsedLength = parser.BranchSize

// checkCurveAndPath validates the init packet of a signing upload.
func checkCurveAndPath(p2 byte, payload []byte) error {

	_, _, err := curveAndPath(p2, payload)

	return err

}

func curveAndPath(p2 byte, payload []byte) (crypto.Curve, crypto.BIP32Path, error) {

	curve, err := parseCurve(p2)
	if err != nil {
		return 0, crypto.BIP32Path{}, err
	}

	path, err := parsePath(payload, crypto.BIP32MaxLength)
	if err != nil {
		return 0, crypto.BIP32Path{}, err
	}

	return curve, path, nil

}

// operationItems parses data for display. Every operation must parse.
func operationItems(data []byte, bakers parser.KnownBakers) (ui.Items, error) {

	if len(data) < minParsedLength {
		return parser.UnknownOp{Bytes: data}, nil
	}

	operation, err := parser.NewOperation(data, parser.WithKnownBakers(bakers))
	if err != nil {
		return nil, DataInvalid
	}

	if _, err := operation.NumItems(); err != nil {
		slog.Debug("SIGN", "Invalid", err.Error())
		return nil, DataInvalid
	}

	return operation, nil

}

// signPrompt signs the digest of an upload once approved.
type signPrompt struct {
	ui.Items
	signer   crypto.Signer
	curve    crypto.Curve
	path     crypto.BIP32Path
	digest   []byte
	sendHash bool
	// before runs ahead of signing and may refuse it.
	before func() Status
}

func (prompt *signPrompt) Accept(out []byte) (int, uint16) {

	if prompt.before != nil {
		if status := prompt.before(); status != Success {
			return 0, uint16(status)
		}
	}

	signature, err := prompt.signer.Sign(prompt.curve, prompt.path, prompt.digest)
	if err != nil {
		slog.Debug("SIGN", "Error", err.Error())
		return 0, uint16(ExecutionError)
	}

	if prompt.sendHash {
		return putStatus(out, prompt.digest, signature)
	}

	return putStatus(out, signature)

}

func (prompt *signPrompt) Reject(out []byte) (int, uint16) {

	return 0, uint16(CommandNotAllowed)

}

// signHandler signs operations with any key. The hash variants put the
// digest in front of the signature.
func signHandler(sendHash bool) handler {

	signUploader := uploader{accessor: accessorSign, check: checkCurveAndPath}

	return func(ctx context.Context, app *App, request *request, out []byte) (int, error) {

		upload, err := app.upload(signUploader, request)
		if err != nil || upload == nil {
			return 0, err
		}
		defer app.endSession(accessorSign)

		curve, path, err := curveAndPath(upload.p2, upload.init)
		if err != nil {
			return 0, err
		}

		items, err := operationItems(upload.data, app.config.Bakers)
		if err != nil {
			return 0, err
		}

		prompt := &signPrompt{
			Items:    items,
			signer:   app.signer,
			curve:    curve,
			path:     path,
			digest:   crypto.Blake2b256(upload.data),
			sendHash: sendHash,
		}

		slog.Debug("SIGN", "Curve", curve.String(), "Path", path.String(), "Digest", fmt.Sprintf("%x", prompt.digest))

		return app.review(ctx, app.reviewer, prompt, out)

	}

}
