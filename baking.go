package tezos

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/schjonhaug/tezos-ledger-app-go/crypto"
	"github.com/schjonhaug/tezos-ledger-app-go/hwm"
	"github.com/schjonhaug/tezos-ledger-app-go/parser"
	"github.com/schjonhaug/tezos-ledger-app-go/ui"
)

// consensusMessage is a block or an endorsement checked against the
// high-water mark.
type consensusMessage interface {
	ui.Items
	ValidateWithWaterMark(mark hwm.WaterMark) bool
	DeriveWaterMark() hwm.WaterMark
}

// authorizedKey returns the stored key, refusing when there is none.
func (app *App) authorizedKey() (*BakingKey, error) {

	key, err := app.bakingKey.Read()
	if err != nil {
		if status, ok := err.(Status); ok {
			return nil, status
		}
		return nil, ApduCodeConditionsNotSatisfied
	}

	if key == nil {
		return nil, ApduCodeConditionsNotSatisfied
	}

	return key, nil

}

func bakerSignHandler(sendHash bool) handler {

	bakingUploader := uploader{accessor: accessorBaking, check: checkCurveAndPath}

	return func(ctx context.Context, app *App, request *request, out []byte) (int, error) {

		upload, err := app.upload(bakingUploader, request)
		if err != nil || upload == nil {
			return 0, err
		}
		defer app.endSession(accessorBaking)

		curve, path, err := curveAndPath(upload.p2, upload.init)
		if err != nil {
			return 0, err
		}

		key, err := app.authorizedKey()
		if err != nil {
			return 0, err
		}

		if !key.Equal(curve, path) {
			return 0, DataInvalid
		}

		prompt := &signPrompt{
			signer:   app.signer,
			curve:    key.Curve,
			path:     key.Path,
			digest:   crypto.Blake2b256(upload.data),
			sendHash: sendHash,
		}

		rem, preamble, err := parser.ParsePreamble(upload.data)
		if err != nil {
			return 0, DataInvalid
		}

		slog.Debug("BAKE", "Preamble", preamble.String(), "Digest", fmt.Sprintf("%x", prompt.digest))

		switch {
		case preamble.IsEndorsement():
			_, endorsement, err := parser.ParseEndorsementData(rem)
			if err != nil {
				return 0, DataInvalid
			}
			return app.signConsensus(ctx, prompt, endorsement, endorsement.ChainID, out)

		case preamble.IsBlock():
			_, block, err := parser.ParseBlockData(rem)
			if err != nil {
				return 0, DataInvalid
			}
			return app.signConsensus(ctx, prompt, block, block.ChainID, out)

		case preamble == parser.PreambleOperation:
			items, err := bakerOperationItems(rem, app.config.Bakers)
			if err != nil {
				return 0, err
			}
			prompt.Items = items
			return app.review(ctx, app.reviewer, prompt, out)
		}

		return 0, CommandNotAllowed

	}

}

// signConsensus checks message against the mark of its chain and moves
// the mark forward right before signing.
func (app *App) signConsensus(ctx context.Context, prompt *signPrompt, message consensusMessage, chainID uint32, out []byte) (int, error) {

	ring := app.hwm.RingFor(chainID)

	mark, err := app.hwm.Get(ring)
	if err != nil {
		return 0, fmt.Errorf("reading %s high-water mark: %w", ring, err)
	}

	if !message.ValidateWithWaterMark(mark) {
		slog.Debug("BAKE", "Refused", mark.String(), "Ring", ring.String())
		return 0, DataInvalid
	}

	prompt.Items = message
	prompt.before = func() Status {
		if err := app.hwm.Write(ring, message.DeriveWaterMark()); err != nil {
			slog.Debug("BAKE", "Error", err.Error())
			return ExecutionError
		}
		return Success
	}

	return app.review(ctx, app.consensusReviewer, prompt, out)

}

// bakerOperation is the single delegation or reveal a baker may sign,
// shown after its branch.
type bakerOperation struct {
	operation *parser.Operation
	op        parser.Op
}

func bakerOperationItems(data []byte, bakers parser.KnownBakers) (*bakerOperation, error) {

	operation, err := parser.NewOperation(data, parser.WithKnownBakers(bakers))
	if err != nil {
		return nil, DataInvalid
	}

	op, err := operation.Ops.ParseNext()
	if err != nil || op == nil {
		return nil, DataInvalid
	}

	switch op.Type() {
	case parser.TypeDelegation, parser.TypeReveal:
		return &bakerOperation{operation: operation, op: op}, nil
	}

	return nil, CommandNotAllowed

}

func (baker *bakerOperation) NumItems() (int, error) {

	count, err := baker.op.NumItems()
	if err != nil {
		return 0, err
	}

	return count + 1, nil

}

func (baker *bakerOperation) RenderItem(item, page int) (string, string, int, error) {

	if item == 0 {
		message, pages, err := ui.Page(baker.operation.Base58Branch(), page)
		return "Operation", message, pages, err
	}

	return baker.op.RenderItem(item-1, page)

}
