package tezos

import (
	"context"
	"encoding/binary"

	"github.com/schjonhaug/tezos-ledger-app-go/bolos"
	"github.com/schjonhaug/tezos-ledger-app-go/crypto"
	"github.com/schjonhaug/tezos-ledger-app-go/ui"
)

// echoLength is what fits on two lines of the screen.
const echoLength = 2 * 17

var devHashUploader = uploader{accessor: accessorDevHash}

// handleDevHash returns the SHA-256 of the whole upload, init packet
// included.
func handleDevHash(ctx context.Context, app *App, request *request, out []byte) (int, error) {

	upload, err := app.upload(devHashUploader, request)
	if err != nil || upload == nil {
		return 0, err
	}
	defer app.endSession(accessorDevHash)

	hasher := crypto.NewSha256()
	hasher.Write(upload.init)
	hasher.Write(upload.data)

	return put(out, hasher.Sum())

}

// handleDevExcept throws the exception in P2, catching it when P1 >= 1.
func handleDevExcept(ctx context.Context, app *App, request *request, out []byte) (int, error) {

	exception, ok := bolos.ExceptionFromCode(uint16(request.P2))
	if !ok {
		return 0, InvalidP1P2
	}

	throw := func() {
		bolos.Throw(exception)
	}

	if request.P1 < 1 {
		throw()
	}

	caught := bolos.Catch(throw)

	var code [8]byte
	if thrown, ok := caught.(bolos.Exception); ok {
		binary.BigEndian.PutUint64(code[:], uint64(thrown))
	}

	return put(out, code[:])

}

type echoPrompt struct {
	message string
}

func (prompt *echoPrompt) NumItems() (int, error) {

	return 1, nil

}

func (prompt *echoPrompt) RenderItem(item, page int) (string, string, int, error) {

	if item != 0 {
		return "", "", 0, ui.ErrNoData
	}

	message, pages, err := ui.Page(prompt.message, page)

	return "Echo", message, pages, err

}

func (prompt *echoPrompt) Accept(out []byte) (int, uint16) {

	return 0, uint16(Success)

}

func (prompt *echoPrompt) Reject(out []byte) (int, uint16) {

	return 0, uint16(CommandNotAllowed)

}

func handleDevEcho(ctx context.Context, app *App, request *request, out []byte) (int, error) {

	if len(request.Data) > echoLength {
		return 0, WrongLength
	}

	return app.review(ctx, app.reviewer, &echoPrompt{message: string(request.Data)}, out)

}
