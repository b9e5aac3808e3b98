package parser

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/schjonhaug/tezos-ledger-app-go/hwm"
	"github.com/schjonhaug/tezos-ledger-app-go/ui"
)

// Preamble is the magic byte in front of data handed to the baker signer.
type Preamble uint8

const (
	PreambleBlock                    Preamble = 0x01
	PreambleEndorsement              Preamble = 0x02
	PreambleOperation                Preamble = 0x03
	PreambleMichelson                Preamble = 0x05
	PreambleTenderbakeBlock          Preamble = 0x11
	PreambleTenderbakePreendorsement Preamble = 0x12
	PreambleTenderbakeEndorsement    Preamble = 0x13
)

func ParsePreamble(in []byte) ([]byte, Preamble, error) {

	rem, b, err := readU8(in)
	if err != nil {
		return in, 0, err
	}

	switch preamble := Preamble(b); preamble {
	case PreambleBlock, PreambleEndorsement, PreambleOperation, PreambleMichelson,
		PreambleTenderbakeBlock, PreambleTenderbakePreendorsement, PreambleTenderbakeEndorsement:
		return rem, preamble, nil
	}

	return in, 0, ErrInvalidPreamble

}

func (preamble Preamble) IsBlock() bool {

	return preamble == PreambleBlock || preamble == PreambleTenderbakeBlock

}

func (preamble Preamble) IsEndorsement() bool {

	switch preamble {
	case PreambleEndorsement, PreambleTenderbakePreendorsement, PreambleTenderbakeEndorsement:
		return true
	}

	return false

}

func (preamble Preamble) String() string {

	switch preamble {
	case PreambleBlock:
		return "Block"
	case PreambleEndorsement:
		return "Endorsement"
	case PreambleOperation:
		return "Operation"
	case PreambleMichelson:
		return "Michelson"
	case PreambleTenderbakeBlock:
		return "TenderbakeBlock"
	case PreambleTenderbakePreendorsement:
		return "TenderbakePreendorsement"
	case PreambleTenderbakeEndorsement:
		return "TenderbakeEndorsement"
	}

	return fmt.Sprintf("Preamble(%#02x)", uint8(preamble))

}

const (
	protocolEmmyZeroToFour   = 0
	protocolEmmyFiveToEleven = 1
	protocolTenderbake       = 2
)

// Fitness of a block header. Round is only set for Tenderbake.
type Fitness struct {
	Family  hwm.Family
	Version uint8
	Round   uint32
	Bytes   []byte
}

// ParseFitness reads the fitness element list. The first element holds
// the protocol version; Tenderbake puts the round in the last element.
func ParseFitness(bytes []byte) (Fitness, error) {

	_, version, err := readSized(bytes)
	if err != nil || len(version) != 1 {
		return Fitness{}, ErrInvalidProtocolVersion
	}

	fitness := Fitness{Version: version[0], Bytes: bytes}

	switch version[0] {
	case protocolEmmyZeroToFour, protocolEmmyFiveToEleven:
		fitness.Family = hwm.Emmy
	case protocolTenderbake:
		if len(bytes) < 4+1+4 {
			return Fitness{}, ErrInvalidProtocolVersion
		}
		fitness.Family = hwm.Tenderbake
		fitness.Round = binary.BigEndian.Uint32(bytes[len(bytes)-4:])
	default:
		return Fitness{}, ErrInvalidProtocolVersion
	}

	return fitness, nil

}

// BlockData is the shell header of a block to bake.
type BlockData struct {
	ChainID        uint32
	Level          uint32
	Proto          uint8
	Predecessor    []byte
	Timestamp      uint64
	ValidationPass uint8
	OperationsHash []byte
	Fitness        Fitness
}

func ParseBlockData(in []byte) ([]byte, BlockData, error) {

	var block BlockData

	rem, chainID, err := readU32(in)
	if err != nil {
		return in, block, err
	}
	block.ChainID = chainID

	if rem, block.Level, err = readU32(rem); err != nil {
		return in, block, err
	}
	if rem, block.Proto, err = readU8(rem); err != nil {
		return in, block, err
	}
	if rem, block.Predecessor, err = take(rem, 32); err != nil {
		return in, block, err
	}
	if rem, block.Timestamp, err = readU64(rem); err != nil {
		return in, block, err
	}
	if rem, block.ValidationPass, err = readU8(rem); err != nil {
		return in, block, err
	}
	if rem, block.OperationsHash, err = take(rem, 32); err != nil {
		return in, block, err
	}

	var fitness []byte
	if rem, fitness, err = readSized(rem); err != nil {
		return in, block, err
	}
	if block.Fitness, err = ParseFitness(fitness); err != nil {
		return in, block, err
	}

	return rem, block, nil

}

func (block BlockData) Candidate() hwm.Candidate {

	return hwm.Candidate{
		Family: block.Fitness.Family,
		Kind:   hwm.Block,
		Level:  block.Level,
		Round:  block.Fitness.Round,
	}

}

func (block BlockData) ValidateWithWaterMark(mark hwm.WaterMark) bool {

	return mark.Allows(block.Candidate())

}

func (block BlockData) DeriveWaterMark() hwm.WaterMark {

	return block.Candidate().Next()

}

func (block BlockData) NumItems() (int, error) {

	return 3, nil

}

func (block BlockData) field(item int) (string, string, error) {

	switch item {
	case 0:
		return "Type", "Blocklevel", nil
	case 1:
		return "ChainID", strconv.FormatUint(uint64(block.ChainID), 10), nil
	case 2:
		return "Blocklevel", strconv.FormatUint(uint64(block.Level), 10), nil
	}

	return "", "", ui.ErrNoData

}

func (block BlockData) RenderItem(item, page int) (string, string, int, error) {

	return renderField(block.field, item, page)

}

const (
	endorsementTagEmmy           = 0
	endorsementTagPreendorsement = 20
	endorsementTagEndorsement    = 21
)

// EndorsementData is a consensus vote to sign. Slot, Round and
// PayloadHash are only set for Tenderbake.
type EndorsementData struct {
	Family      hwm.Family
	Kind        hwm.Kind
	ChainID     uint32
	Branch      []byte
	Slot        uint16
	Level       uint32
	Round       uint32
	PayloadHash []byte
}

func ParseEndorsementData(in []byte) ([]byte, EndorsementData, error) {

	var endorsement EndorsementData

	rem, chainID, err := readU32(in)
	if err != nil {
		return in, endorsement, err
	}
	endorsement.ChainID = chainID

	if rem, endorsement.Branch, err = take(rem, BranchSize); err != nil {
		return in, endorsement, err
	}

	var tag uint8
	if rem, tag, err = readU8(rem); err != nil {
		return in, endorsement, err
	}

	switch tag {
	case endorsementTagEmmy:
		endorsement.Family, endorsement.Kind = hwm.Emmy, hwm.Endorsement
		if rem, endorsement.Level, err = readU32(rem); err != nil {
			return in, endorsement, err
		}
		return rem, endorsement, nil

	case endorsementTagPreendorsement:
		endorsement.Family, endorsement.Kind = hwm.Tenderbake, hwm.Preendorsement
	case endorsementTagEndorsement:
		endorsement.Family, endorsement.Kind = hwm.Tenderbake, hwm.Endorsement
	default:
		return in, endorsement, ErrInvalidEndorsementType
	}

	if rem, endorsement.Slot, err = readU16(rem); err != nil {
		return in, endorsement, err
	}
	if rem, endorsement.Level, err = readU32(rem); err != nil {
		return in, endorsement, err
	}
	if rem, endorsement.Round, err = readU32(rem); err != nil {
		return in, endorsement, err
	}
	if rem, endorsement.PayloadHash, err = take(rem, 32); err != nil {
		return in, endorsement, err
	}

	return rem, endorsement, nil

}

func (endorsement EndorsementData) IsTenderbake() bool {

	return endorsement.Family == hwm.Tenderbake

}

func (endorsement EndorsementData) Candidate() hwm.Candidate {

	return hwm.Candidate{
		Family: endorsement.Family,
		Kind:   endorsement.Kind,
		Level:  endorsement.Level,
		Round:  endorsement.Round,
	}

}

func (endorsement EndorsementData) ValidateWithWaterMark(mark hwm.WaterMark) bool {

	return mark.Allows(endorsement.Candidate())

}

func (endorsement EndorsementData) DeriveWaterMark() hwm.WaterMark {

	return endorsement.Candidate().Next()

}

func (endorsement EndorsementData) NumItems() (int, error) {

	if endorsement.IsTenderbake() {
		return 5, nil
	}

	return 4, nil

}

func (endorsement EndorsementData) field(item int) (string, string, error) {

	switch item {
	case 0:
		return "Type", endorsement.Kind.String(), nil
	case 1:
		return "Branch", hex.EncodeToString(endorsement.Branch), nil
	case 2:
		return "Blocklevel", strconv.FormatUint(uint64(endorsement.Level), 10), nil
	case 3:
		return "ChainID", strconv.FormatUint(uint64(endorsement.ChainID), 10), nil
	case 4:
		if endorsement.IsTenderbake() {
			return "Round", strconv.FormatUint(uint64(endorsement.Round), 10), nil
		}
	}

	return "", "", ui.ErrNoData

}

func (endorsement EndorsementData) RenderItem(item, page int) (string, string, int, error) {

	return renderField(endorsement.field, item, page)

}
