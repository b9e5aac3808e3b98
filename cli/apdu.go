package main

import (
	"fmt"

	"github.com/skythen/apdu"

	tezos "github.com/schjonhaug/tezos-ledger-app-go"
)

// apduWrap builds a command for the app. Commands without data still
// carry a zero length byte, sent as Le.
func apduWrap(ins tezos.Instruction, p1, p2 byte, data []byte) ([]byte, error) {

	capdu := apdu.Capdu{Cla: tezos.CLA, Ins: byte(ins), P1: p1, P2: p2, Data: data}

	if len(data) == 0 {
		capdu.Ne = 256
	}

	return capdu.Bytes()

}

// apduUnwrap returns the data of a reply. A status other than success is
// returned as a tezos.Status error.
func apduUnwrap(value []byte) ([]byte, error) {

	rapdu, err := apdu.ParseRapdu(value)
	if err != nil {
		return nil, fmt.Errorf("parsing reply: %w", err)
	}

	if status := tezos.StatusFromBytes(rapdu.SW1, rapdu.SW2); status != tezos.Success {
		return nil, status
	}

	return rapdu.Data, nil

}
