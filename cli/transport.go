package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/ebfe/scard"

	"github.com/schjonhaug/tezos-ledger-app-go/pipe"
)

// Transport moves raw commands and replies to a device.
type Transport interface {
	Transmit(command []byte) ([]byte, error)
	Close() error
}

// socketTransport talks to the emulator.
type socketTransport struct {
	client *pipe.Client
}

func dialSocket(socket string) (*socketTransport, error) {

	client, err := pipe.Dial(socket)
	if err != nil {
		return nil, err
	}

	return &socketTransport{client: client}, nil

}

func (transport *socketTransport) Transmit(command []byte) ([]byte, error) {

	return transport.client.Exchange(command)

}

func (transport *socketTransport) Close() error {

	return transport.client.Close()

}

// cardTransport talks to a device behind a PC/SC reader.
type cardTransport struct {
	context *scard.Context
	card    *scard.Card
}

func waitUntilCardPresent(context *scard.Context, readers []string) (int, error) {

	states := make([]scard.ReaderState, len(readers))
	for i := range states {
		states[i].Reader = readers[i]
		states[i].CurrentState = scard.StateUnaware
	}

	for {
		for i := range states {
			if states[i].EventState&scard.StatePresent != 0 {
				return i, nil
			}
			states[i].CurrentState = states[i].EventState
		}
		if err := context.GetStatusChange(states, -1); err != nil {
			return -1, err
		}
	}

}

// connectCard waits for a device on any reader and connects to it.
func connectCard() (*cardTransport, error) {

	context, err := scard.EstablishContext()
	if err != nil {
		return nil, fmt.Errorf("establishing context: %w", err)
	}

	readers, err := context.ListReaders()
	if err != nil {
		context.Release()
		return nil, fmt.Errorf("listing readers: %w", err)
	}

	if len(readers) == 0 {
		context.Release()
		return nil, errors.New("no reader found")
	}

	slog.Debug("SCARD", "Readers", readers)

	index, err := waitUntilCardPresent(context, readers)
	if err != nil {
		context.Release()
		return nil, err
	}

	card, err := context.Connect(readers[index], scard.ShareExclusive, scard.ProtocolAny)
	if err != nil {
		context.Release()
		return nil, fmt.Errorf("connecting to %s: %w", readers[index], err)
	}

	slog.Debug("SCARD", "Connected", readers[index])

	return &cardTransport{context: context, card: card}, nil

}

func (transport *cardTransport) Transmit(command []byte) ([]byte, error) {

	return transport.card.Transmit(command)

}

func (transport *cardTransport) Close() error {

	if err := transport.card.Disconnect(scard.ResetCard); err != nil {
		transport.context.Release()
		return err
	}

	return transport.context.Release()

}
