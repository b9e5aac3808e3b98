package hwm

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/schjonhaug/tezos-ledger-app-go/bolos"
)

// Family is the consensus protocol family a mark was written by.
type Family uint8

const (
	Emmy Family = iota
	Tenderbake
)

func (family Family) String() string {

	if family == Tenderbake {
		return "Tenderbake"
	}

	return "Emmy"

}

// Kind is the type of consensus message being signed.
type Kind uint8

const (
	Block Kind = iota
	Endorsement
	Preendorsement
)

func (kind Kind) String() string {

	switch kind {
	case Endorsement:
		return "Endorsement"
	case Preendorsement:
		return "Preendorsement"
	}

	return "Block"

}

// WaterMark is the highest consensus message signed on a chain.
// Round and HadPreendorsement are only meaningful for Tenderbake.
type WaterMark struct {
	Family            Family
	Level             uint32
	Round             uint32
	HadEndorsement    bool
	HadPreendorsement bool
}

// Reset is the mark written by a reset or a setup.
func Reset(level uint32) WaterMark {

	return WaterMark{Family: Emmy, Level: level}

}

// IsValidBlockLevel rejects the two top bits, which the wire format
// reserves.
func IsValidBlockLevel(level uint32) bool {

	return level&0xC0000000 == 0

}

// Candidate is a consensus message about to be signed.
type Candidate struct {
	Family Family
	Kind   Kind
	Level  uint32
	Round  uint32
}

// Allows reports whether candidate may be signed on top of mark.
func (mark WaterMark) Allows(candidate Candidate) bool {

	if !IsValidBlockLevel(candidate.Level) {
		return false
	}

	switch {
	case mark.Family == Tenderbake && candidate.Family == Emmy:
		return false
	case mark.Family == Emmy && candidate.Family == Tenderbake:
		return true
	}

	if candidate.Kind == Block {
		if candidate.Family == Emmy {
			return candidate.Level > mark.Level
		}
		return candidate.Level > mark.Level || (candidate.Level == mark.Level && candidate.Round > mark.Round)
	}

	if candidate.Family == Emmy {
		return candidate.Level > mark.Level || (candidate.Level == mark.Level && !mark.HadEndorsement)
	}

	if candidate.Level > mark.Level {
		return true
	}
	if candidate.Level != mark.Level {
		return false
	}
	if candidate.Round > mark.Round {
		return true
	}
	if candidate.Round != mark.Round {
		return false
	}

	if candidate.Kind == Endorsement {
		return !mark.HadEndorsement
	}

	return !mark.HadEndorsement && !mark.HadPreendorsement

}

// Next is the mark to store once candidate has been signed.
func (candidate Candidate) Next() WaterMark {

	mark := WaterMark{Family: candidate.Family, Level: candidate.Level}

	if candidate.Family == Tenderbake {
		mark.Round = candidate.Round
	}

	switch candidate.Kind {
	case Endorsement:
		mark.HadEndorsement = true
		mark.HadPreendorsement = candidate.Family == Tenderbake
	case Preendorsement:
		mark.HadPreendorsement = true
	}

	return mark

}

func (mark WaterMark) String() string {

	if mark.Family == Tenderbake {
		return fmt.Sprintf("Tenderbake{level: %d, round: %d, endorsement: %t, preendorsement: %t}",
			mark.Level, mark.Round, mark.HadEndorsement, mark.HadPreendorsement)
	}

	return fmt.Sprintf("Emmy{level: %d, endorsement: %t}", mark.Level, mark.HadEndorsement)

}

// record layout inside a wear slot:
// [0] marker | [1] family | [2:6] level | [6:10] round | [10] flags |
// [11] chain set | [12:16] chain id
const (
	recordMarker = 0x2A

	flagEndorsement    = 0x01
	flagPreendorsement = 0x02
)

var ErrInvalidRecord = errors.New("hwm: invalid record")

type record struct {
	mark     WaterMark
	chain    ChainID
	hasChain bool
}

func (r record) encode() [bolos.SlotSize]byte {

	var out [bolos.SlotSize]byte

	out[0] = recordMarker
	out[1] = byte(r.mark.Family)
	binary.BigEndian.PutUint32(out[2:6], r.mark.Level)
	binary.BigEndian.PutUint32(out[6:10], r.mark.Round)

	if r.mark.HadEndorsement {
		out[10] |= flagEndorsement
	}
	if r.mark.HadPreendorsement {
		out[10] |= flagPreendorsement
	}

	if r.hasChain {
		out[11] = 1
		binary.BigEndian.PutUint32(out[12:16], uint32(r.chain))
	}

	return out

}

func decodeRecord(data [bolos.SlotSize]byte) (record, error) {

	if data[0] != recordMarker || data[1] > byte(Tenderbake) {
		return record{}, ErrInvalidRecord
	}

	r := record{
		mark: WaterMark{
			Family:            Family(data[1]),
			Level:             binary.BigEndian.Uint32(data[2:6]),
			Round:             binary.BigEndian.Uint32(data[6:10]),
			HadEndorsement:    data[10]&flagEndorsement != 0,
			HadPreendorsement: data[10]&flagPreendorsement != 0,
		},
	}

	if data[11] == 1 {
		r.hasChain = true
		r.chain = ChainID(binary.BigEndian.Uint32(data[12:16]))
	}

	return r, nil

}
