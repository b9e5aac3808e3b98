package parser

import (
	"encoding/hex"
	"strconv"

	"github.com/schjonhaug/tezos-ledger-app-go/crypto"
	"github.com/schjonhaug/tezos-ledger-app-go/ui"
)

type Endorsement struct {
	Level int32
}

func ParseEndorsement(in []byte) ([]byte, Endorsement, error) {

	rem, level, err := readI32(in)
	if err != nil {
		return in, Endorsement{}, err
	}

	return rem, Endorsement{Level: level}, nil

}

func (endorsement Endorsement) Type() OperationType {

	return TypeEndorsement

}

func (endorsement Endorsement) NumItems() (int, error) {

	return 2, nil

}

func (endorsement Endorsement) field(item int) (string, string, error) {

	switch item {
	case 0:
		return "Type", "Endorsement", nil
	case 1:
		return "Level", itoa(int64(endorsement.Level)), nil
	}

	return "", "", ui.ErrNoData

}

func (endorsement Endorsement) RenderItem(item, page int) (string, string, int, error) {

	return renderField(endorsement.field, item, page)

}

// inlinedEndorsement is a signed endorsement embedded in another operation.
type inlinedEndorsement struct {
	Branch      []byte
	Endorsement Endorsement
	Signature   []byte
}

// parseInlinedEndorsement reads a length prefixed branch, endorsement and
// signature.
func parseInlinedEndorsement(in []byte) ([]byte, inlinedEndorsement, error) {

	var inlined inlinedEndorsement

	rem, size, err := readU32(in)
	if err != nil {
		return in, inlined, err
	}

	sigLen := int64(size) - BranchSize - 1 - 4
	if sigLen < 0 {
		return in, inlined, ErrValueOutOfRange
	}

	if rem, inlined.Branch, err = take(rem, BranchSize); err != nil {
		return in, inlined, err
	}

	if rem, err = expectTag(rem, byte(TypeEndorsement), ErrUnknownOperation); err != nil {
		return in, inlined, err
	}

	if rem, inlined.Endorsement, err = ParseEndorsement(rem); err != nil {
		return in, inlined, err
	}

	if sigLen > int64(len(rem)) {
		return in, inlined, ErrUnexpectedBufferEnd
	}

	if rem, inlined.Signature, err = take(rem, int(sigLen)); err != nil {
		return in, inlined, err
	}

	return rem, inlined, nil

}

type EndorsementWithSlot struct {
	Branch      []byte
	Endorsement Endorsement
	Signature   []byte
	Slot        uint16
}

func ParseEndorsementWithSlot(in []byte) ([]byte, EndorsementWithSlot, error) {

	var withSlot EndorsementWithSlot

	rem, inlined, err := parseInlinedEndorsement(in)
	if err != nil {
		return in, withSlot, err
	}

	if rem, withSlot.Slot, err = readU16(rem); err != nil {
		return in, withSlot, err
	}

	withSlot.Branch = inlined.Branch
	withSlot.Endorsement = inlined.Endorsement
	withSlot.Signature = inlined.Signature

	return rem, withSlot, nil

}

func (withSlot EndorsementWithSlot) Type() OperationType {

	return TypeEndorsementWithSlot

}

func (withSlot EndorsementWithSlot) NumItems() (int, error) {

	inner, err := withSlot.Endorsement.NumItems()

	return 3 + inner - 1, err

}

func (withSlot EndorsementWithSlot) field(item int) (string, string, error) {

	switch item {
	case 0:
		return "Type", "Endorsement", nil
	case 1:
		return "Branch", crypto.Base58Check(crypto.PrefixBlock, withSlot.Branch), nil
	case 2:
		return "Slot", strconv.Itoa(int(withSlot.Slot)), nil
	}

	// the inner Type item is already shown
	return withSlot.Endorsement.field(item - 2)

}

func (withSlot EndorsementWithSlot) RenderItem(item, page int) (string, string, int, error) {

	return renderField(withSlot.field, item, page)

}

type SeedNonceRevelation struct {
	Level int32
	Nonce []byte
}

func ParseSeedNonceRevelation(in []byte) ([]byte, SeedNonceRevelation, error) {

	var revelation SeedNonceRevelation

	rem, level, err := readI32(in)
	if err != nil {
		return in, revelation, err
	}
	revelation.Level = level

	if rem, revelation.Nonce, err = take(rem, 32); err != nil {
		return in, revelation, err
	}

	return rem, revelation, nil

}

func (revelation SeedNonceRevelation) Type() OperationType {

	return TypeSeedNonceRevelation

}

func (revelation SeedNonceRevelation) NumItems() (int, error) {

	return 3, nil

}

func (revelation SeedNonceRevelation) field(item int) (string, string, error) {

	switch item {
	case 0:
		return "Type", "Nonce Revelation", nil
	case 1:
		return "Level", itoa(int64(revelation.Level)), nil
	case 2:
		return "Nonce", hex.EncodeToString(revelation.Nonce), nil
	}

	return "", "", ui.ErrNoData

}

func (revelation SeedNonceRevelation) RenderItem(item, page int) (string, string, int, error) {

	return renderField(revelation.field, item, page)

}

type DoubleEndorsementEvidence struct {
	First  inlinedEndorsement
	Second inlinedEndorsement
	Slot   uint16
}

func ParseDoubleEndorsementEvidence(in []byte) ([]byte, DoubleEndorsementEvidence, error) {

	var evidence DoubleEndorsementEvidence

	rem, first, err := parseInlinedEndorsement(in)
	if err != nil {
		return in, evidence, err
	}
	evidence.First = first

	if rem, evidence.Second, err = parseInlinedEndorsement(rem); err != nil {
		return in, evidence, err
	}

	if rem, evidence.Slot, err = readU16(rem); err != nil {
		return in, evidence, err
	}

	return rem, evidence, nil

}

func (evidence DoubleEndorsementEvidence) Type() OperationType {

	return TypeDoubleEndorsementEvidence

}

func (evidence DoubleEndorsementEvidence) NumItems() (int, error) {

	return 4, nil

}

func (evidence DoubleEndorsementEvidence) field(item int) (string, string, error) {

	switch item {
	case 0:
		return "Type", "Double Endorsement", nil
	case 1:
		return "First Level", itoa(int64(evidence.First.Endorsement.Level)), nil
	case 2:
		return "Second Level", itoa(int64(evidence.Second.Endorsement.Level)), nil
	case 3:
		return "Slot", strconv.Itoa(int(evidence.Slot)), nil
	}

	return "", "", ui.ErrNoData

}

func (evidence DoubleEndorsementEvidence) RenderItem(item, page int) (string, string, int, error) {

	return renderField(evidence.field, item, page)

}
