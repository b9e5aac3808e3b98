package tezos

// PacketType is the role of a packet in a multi packet upload, carried
// in P1.
type PacketType uint8

const (
	PacketInit         PacketType = 0x00
	PacketAdd          PacketType = 0x01
	PacketLast         PacketType = 0x02
	PacketHashOnlyNext PacketType = 0x03
	PacketInitAndLast  PacketType = 0x80
	PacketAddAndLast   PacketType = 0x81
	PacketHashAndLast  PacketType = 0x83
)

// ParsePacketType decodes P1. Unknown values are InvalidP1P2.
func ParsePacketType(p1 byte) (PacketType, error) {

	switch packetType := PacketType(p1); packetType {
	case PacketInit, PacketAdd, PacketLast, PacketHashOnlyNext,
		PacketInitAndLast, PacketAddAndLast, PacketHashAndLast:
		return packetType, nil
	}

	return 0, InvalidP1P2

}

func (packetType PacketType) IsInit() bool {

	return packetType == PacketInit || packetType == PacketInitAndLast

}

func (packetType PacketType) IsLast() bool {

	switch packetType {
	case PacketLast, PacketInitAndLast, PacketAddAndLast, PacketHashAndLast:
		return true
	}

	return false

}

// IsNext reports whether the packet only carries more data.
func (packetType PacketType) IsNext() bool {

	return !packetType.IsInit() && !packetType.IsLast()

}

func (packetType PacketType) String() string {

	switch packetType {
	case PacketInit:
		return "Init"
	case PacketAdd:
		return "Add"
	case PacketLast:
		return "Last"
	case PacketHashOnlyNext:
		return "HashOnlyNext"
	case PacketInitAndLast:
		return "InitAndLast"
	case PacketAddAndLast:
		return "AddAndLast"
	case PacketHashAndLast:
		return "HashAndLast"
	}

	return "Unknown"

}
