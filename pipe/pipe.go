// Package pipe carries commands to an emulated device over a stream
// socket. Each command and reply is a single CBOR message.
package pipe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"

	"github.com/fxamacker/cbor/v2"
)

// DefaultSocket is where the emulator listens unless told otherwise.
const DefaultSocket = "/tmp/tezos-pipe"

// BufferSize is the size of the device IO buffer.
const BufferSize = 260

type Request struct {
	APDU []byte `cbor:"apdu"`
}

type Reply struct {
	Response []byte `cbor:"response"`
}

// Handler answers the command in buffer[:rx], returning the reply length.
type Handler interface {
	HandleAPDU(ctx context.Context, buffer []byte, rx int) int
}

var decMode cbor.DecMode

func init() {

	var err error

	decMode, err = cbor.DecOptions{ExtraReturnErrors: cbor.ExtraDecErrorUnknownField}.DecMode()
	if err != nil {
		panic(err)
	}

}

// Serve answers every connection accepted on listener until ctx is done.
func Serve(ctx context.Context, listener net.Listener, handler Handler) error {

	go func() {
		<-ctx.Done()
		listener.Close()
	}()

	var wg sync.WaitGroup
	defer wg.Wait()

	for {

		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("accepting connection: %w", err)
		}

		wg.Add(1)

		go func() {
			defer wg.Done()
			if err := ServeConn(ctx, conn, handler); err != nil {
				slog.Error("PIPE", "Error", err)
			}
		}()

	}

}

// ServeConn answers the requests of one connection until it is closed.
func ServeConn(ctx context.Context, conn net.Conn, handler Handler) error {

	defer conn.Close()

	slog.Debug("PIPE", "Connected", conn.RemoteAddr().String())

	decoder := decMode.NewDecoder(conn)
	encoder := cbor.NewEncoder(conn)

	for {

		var request Request

		if err := decoder.Decode(&request); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
				slog.Debug("PIPE", "Disconnected", conn.RemoteAddr().String())
				return nil
			}
			return fmt.Errorf("decoding request: %w", err)
		}

		buffer := make([]byte, BufferSize)
		rx := copy(buffer, request.APDU)
		if len(request.APDU) > rx {
			rx = len(request.APDU)
		}

		tx := handler.HandleAPDU(ctx, buffer, rx)

		if err := encoder.Encode(Reply{Response: buffer[:tx]}); err != nil {
			return fmt.Errorf("encoding reply: %w", err)
		}

	}

}

// Client sends commands to a device served by Serve.
type Client struct {
	mu      sync.Mutex
	conn    net.Conn
	decoder *cbor.Decoder
	encoder *cbor.Encoder
}

// Dial connects to the emulator listening on socket.
func Dial(socket string) (*Client, error) {

	conn, err := net.Dial("unix", socket)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", socket, err)
	}

	return NewClient(conn), nil

}

func NewClient(conn net.Conn) *Client {

	return &Client{
		conn:    conn,
		decoder: decMode.NewDecoder(conn),
		encoder: cbor.NewEncoder(conn),
	}

}

// Exchange sends command and waits for the reply, status word included.
func (client *Client) Exchange(command []byte) ([]byte, error) {

	client.mu.Lock()
	defer client.mu.Unlock()

	if err := client.encoder.Encode(Request{APDU: command}); err != nil {
		return nil, fmt.Errorf("sending command: %w", err)
	}

	var reply Reply

	if err := client.decoder.Decode(&reply); err != nil {
		return nil, fmt.Errorf("reading reply: %w", err)
	}

	return reply.Response, nil

}

func (client *Client) Close() error {

	return client.conn.Close()

}
