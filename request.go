package tezos

import (
	"fmt"

	"github.com/skythen/apdu"
)

const (
	// CLA is the class byte of every Tezos command.
	CLA = 0x80

	headerSize = 5
)

// request is a received command. The fifth byte is always Lc, even
// when no data follows.
type request struct {
	apdu.Capdu
}

// parseRequest decodes the header and payload of a command. Trailing
// bytes past Lc are ignored.
func parseRequest(raw []byte) (*request, error) {

	if len(raw) < headerSize {
		return nil, WrongLength
	}

	length := int(raw[4])
	if len(raw) < headerSize+length {
		return nil, WrongLength
	}

	return &request{
		Capdu: apdu.Capdu{
			Cla:  raw[0],
			Ins:  raw[1],
			P1:   raw[2],
			P2:   raw[3],
			Data: append([]byte(nil), raw[headerSize:headerSize+length]...),
		},
	}, nil

}

func (request *request) Instruction() Instruction {

	return Instruction(request.Ins)

}

func (request *request) PacketType() (PacketType, error) {

	return ParsePacketType(request.P1)

}

func (request *request) String() string {

	return fmt.Sprintf("CLA %02x INS %02x P1 %02x P2 %02x LC %d", request.Cla, request.Ins, request.P1, request.P2, len(request.Data))

}
