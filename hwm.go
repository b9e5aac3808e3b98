package tezos

import (
	"context"
	"encoding/binary"
	"strconv"

	"github.com/schjonhaug/tezos-ledger-app-go/hwm"
)

const levelLength = 4

func chainID(id uint32) hwm.ChainID {

	return hwm.ChainID(id)

}

// chainAlias names well known chains and shows the Net form otherwise.
func chainAlias(id uint32) string {

	switch chain := chainID(id); chain {
	case hwm.ChainAny, hwm.Mainnet:
		return chain.String()
	default:
		return chain.Base58()
	}

}

func formatLevel(level uint32) string {

	return strconv.FormatUint(uint64(level), 10)

}

// handleLegacyReset moves both marks to the given level.
func handleLegacyReset(ctx context.Context, app *App, request *request, out []byte) (int, error) {

	if len(request.Data) < levelLength {
		return 0, WrongLength
	}

	level := binary.BigEndian.Uint32(request.Data[:levelLength])

	if err := app.hwm.Reset(level); err != nil {
		return 0, err
	}

	return 0, nil

}

func handleQueryMainHWM(ctx context.Context, app *App, request *request, out []byte) (int, error) {

	level, err := app.hwm.MainLevel()
	if err != nil {
		return 0, err
	}

	return put(out, level[:])

}

// handleQueryAllHWM returns main level, test level and chain id.
func handleQueryAllHWM(ctx context.Context, app *App, request *request, out []byte) (int, error) {

	all, err := app.hwm.All()
	if err != nil {
		return 0, err
	}

	return put(out, all[:])

}
