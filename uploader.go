package tezos

import (
	"errors"
	"log/slog"

	"github.com/schjonhaug/tezos-ledger-app-go/bolos"
)

// session is an upload in progress.
type session struct {
	accessor bolos.Accessor
	p2       byte
	init     []byte
}

// upload is a completed multi packet payload.
type upload struct {
	p2   byte
	init []byte
	data []byte
}

// uploader collects the packets of one command family into the shared
// buffer. check validates the init packet before anything is reset.
type uploader struct {
	accessor bolos.Accessor
	check    func(p2 byte, payload []byte) error
}

// upload feeds one packet to the session of uploader. It returns the
// whole upload on the last packet and nil before that. Once an upload
// is returned the caller must end the session.
func (app *App) upload(uploader uploader, request *request) (*upload, error) {

	packetType, err := request.PacketType()
	if err != nil {
		return nil, err
	}

	if packetType.IsInit() {

		if err := app.buffer.Acquire(uploader.accessor); err != nil {
			if errors.Is(err, bolos.ErrBusy) {
				return nil, Busy
			}
			return nil, err
		}

		if uploader.check != nil {
			if err := uploader.check(request.P2, request.Data); err != nil {
				app.endSession(uploader.accessor)
				return nil, err
			}
		}

		app.buffer.Reset()
		app.session = &session{
			accessor: uploader.accessor,
			p2:       request.P2,
			init:     append([]byte(nil), request.Data...),
		}

		slog.Debug("SESSION", "Opened", uploader.accessor, "Packet", packetType.String())

		if !packetType.IsLast() {
			return nil, nil
		}

		return app.finishUpload(), nil

	}

	if app.session == nil || app.session.accessor != uploader.accessor {
		return nil, ApduCodeConditionsNotSatisfied
	}

	if err := app.buffer.Write(request.Data); err != nil {
		app.endSession(uploader.accessor)
		if bolos.IsOverflow(err) {
			return nil, WrongLength
		}
		return nil, err
	}

	if !packetType.IsLast() {
		return nil, nil
	}

	return app.finishUpload(), nil

}

func (app *App) finishUpload() *upload {

	data := app.buffer.ReadExact()

	slog.Debug("SESSION", "Upload", len(data))

	return &upload{
		p2:   app.session.p2,
		init: app.session.init,
		data: append([]byte(nil), data...),
	}

}

// endSession drops the session of accessor and releases the buffer.
func (app *App) endSession(accessor bolos.Accessor) {

	if app.session != nil && app.session.accessor == accessor {
		app.session = nil
		slog.Debug("SESSION", "Closed", accessor)
	}

	app.buffer.Release(accessor)

}
