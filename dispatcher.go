package tezos

import (
	"context"
	"encoding/binary"
	"errors"
	"log/slog"

	"github.com/schjonhaug/tezos-ledger-app-go/bolos"
	"github.com/schjonhaug/tezos-ledger-app-go/ui"
)

const statusSize = 2

// HandleAPDU serves the command in buffer[:rx] and writes the reply into
// buffer. It returns the reply length, status word included.
func (app *App) HandleAPDU(ctx context.Context, buffer []byte, rx int) int {

	app.mu.Lock()
	defer app.mu.Unlock()

	tx, status := app.dispatch(ctx, buffer, rx)

	if status != Success {
		tx = 0
	}

	if len(buffer) < tx+statusSize {
		tx, status = 0, OutputBufferTooSmall
	}

	binary.BigEndian.PutUint16(buffer[tx:], uint16(status))

	slog.Debug("APDU", "Status", status.String(), "Tx", tx+statusSize)

	return tx + statusSize

}

func (app *App) dispatch(ctx context.Context, buffer []byte, rx int) (int, Status) {

	if rx < headerSize || rx > len(buffer) {
		return 0, WrongLength
	}

	request, err := parseRequest(buffer[:rx])
	if err != nil {
		return 0, statusOf(err)
	}

	slog.Debug("APDU", "Request", request.String())

	if request.Cla != CLA {
		return 0, ClaNotSupported
	}

	handle, ok := (*app.table.Get())[request.Instruction()]
	if !ok {
		return 0, CommandNotAllowed
	}

	var tx int

	caught := bolos.Catch(func() {
		tx, err = handle(ctx, app, request, buffer)
	})
	if caught != nil {
		slog.Debug("APDU", "Exception", caught.Error())
		return 0, ExecutionError
	}

	if err != nil {
		return 0, statusOf(err)
	}

	return tx, Success

}

// statusOf maps a handler error to the status word sent back.
func statusOf(err error) Status {

	var status Status
	if errors.As(err, &status) {
		return status
	}

	slog.Debug("APDU", "Error", err.Error())

	return ExecutionError

}

// review shows viewable to reviewer and runs the matching callback.
func (app *App) review(ctx context.Context, reviewer ui.Reviewer, viewable ui.Viewable, out []byte) (int, error) {

	approved, err := reviewer.Review(ctx, viewable)
	if err != nil {
		return 0, err
	}

	var tx int
	var code uint16

	if approved {
		tx, code = viewable.Accept(out)
	} else {
		tx, code = viewable.Reject(out)
	}

	slog.Debug("REVIEW", "Approved", approved, "Status", Status(code).String())

	if Status(code) != Success {
		return 0, Status(code)
	}

	return tx, nil

}

// accept runs the accept callback of viewable without asking.
func accept(viewable ui.Viewable, out []byte) (int, error) {

	tx, code := viewable.Accept(out)
	if Status(code) != Success {
		return 0, Status(code)
	}

	return tx, nil

}
