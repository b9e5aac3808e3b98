package parser

import "github.com/schjonhaug/tezos-ledger-app-go/ui"

// FullBlockHeader is a signed block header as found in double baking
// evidence.
type FullBlockHeader struct {
	Level          int32
	Proto          uint8
	Predecessor    []byte
	Timestamp      int64
	ValidationPass uint8
	OperationsHash []byte
	Fitness        [][]byte
	Context        []byte
	Priority       uint16
	ProofOfWork    []byte
	SeedNonceHash  []byte
	LiquidityVote  bool
	Signature      []byte
}

func parseFitnessList(in []byte) ([]byte, [][]byte, error) {

	rem, size, err := readU32(in)
	if err != nil {
		return in, nil, err
	}

	if uint64(size) > uint64(len(rem)) {
		return in, nil, ErrValueOutOfRange
	}

	rem, list, _ := take(rem, int(size))

	var fitness [][]byte

	for len(list) > 0 {
		var element []byte
		if list, element, err = readSized(list); err != nil {
			return in, nil, err
		}
		fitness = append(fitness, element)
	}

	return rem, fitness, nil

}

func ParseFullBlockHeader(in []byte) ([]byte, FullBlockHeader, error) {

	var header FullBlockHeader

	rem, level, err := readI32(in)
	if err != nil {
		return in, header, err
	}
	header.Level = level

	if rem, header.Proto, err = readU8(rem); err != nil {
		return in, header, err
	}
	if rem, header.Predecessor, err = take(rem, 32); err != nil {
		return in, header, err
	}

	var timestamp uint64
	if rem, timestamp, err = readU64(rem); err != nil {
		return in, header, err
	}
	header.Timestamp = int64(timestamp)

	if rem, header.ValidationPass, err = readU8(rem); err != nil {
		return in, header, err
	}
	if rem, header.OperationsHash, err = take(rem, 32); err != nil {
		return in, header, err
	}
	if rem, header.Fitness, err = parseFitnessList(rem); err != nil {
		return in, header, err
	}
	if rem, header.Context, err = take(rem, 32); err != nil {
		return in, header, err
	}
	if rem, header.Priority, err = readU16(rem); err != nil {
		return in, header, err
	}
	if rem, header.ProofOfWork, err = take(rem, 8); err != nil {
		return in, header, err
	}

	var hasSeedNonce bool
	if rem, hasSeedNonce, err = parseBoolean(rem); err != nil {
		return in, header, err
	}
	if hasSeedNonce {
		if rem, header.SeedNonceHash, err = take(rem, 32); err != nil {
			return in, header, err
		}
	}

	if rem, header.LiquidityVote, err = parseBoolean(rem); err != nil {
		return in, header, err
	}
	if rem, header.Signature, err = take(rem, signatureSize); err != nil {
		return in, header, err
	}

	return rem, header, nil

}

type DoubleBakingEvidence struct {
	First  FullBlockHeader
	Second FullBlockHeader
}

func ParseDoubleBakingEvidence(in []byte) ([]byte, DoubleBakingEvidence, error) {

	var evidence DoubleBakingEvidence

	rem, first, err := ParseFullBlockHeader(in)
	if err != nil {
		return in, evidence, err
	}
	evidence.First = first

	if rem, evidence.Second, err = ParseFullBlockHeader(rem); err != nil {
		return in, evidence, err
	}

	return rem, evidence, nil

}

func (evidence DoubleBakingEvidence) Type() OperationType {

	return TypeDoubleBakingEvidence

}

func (evidence DoubleBakingEvidence) NumItems() (int, error) {

	return 3, nil

}

func (evidence DoubleBakingEvidence) field(item int) (string, string, error) {

	switch item {
	case 0:
		return "Type", "Double Baking", nil
	case 1:
		return "First Level", itoa(int64(evidence.First.Level)), nil
	case 2:
		return "Second Level", itoa(int64(evidence.Second.Level)), nil
	}

	return "", "", ui.ErrNoData

}

func (evidence DoubleBakingEvidence) RenderItem(item, page int) (string, string, int, error) {

	return renderField(evidence.field, item, page)

}
