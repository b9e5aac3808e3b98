package parser

import (
	"fmt"

	"github.com/schjonhaug/tezos-ledger-app-go/crypto"
	"github.com/schjonhaug/tezos-ledger-app-go/ui"
)

// OperationType is the tag byte in front of every operation.
type OperationType uint8

const (
	TypeEndorsement               OperationType = 0x00
	TypeSeedNonceRevelation       OperationType = 0x01
	TypeDoubleEndorsementEvidence OperationType = 0x02
	TypeDoubleBakingEvidence      OperationType = 0x03
	TypeActivateAccount           OperationType = 0x04
	TypeProposals                 OperationType = 0x05
	TypeBallot                    OperationType = 0x06
	TypeEndorsementWithSlot       OperationType = 0x0A
	TypeFailingNoop               OperationType = 0x11
	TypeReveal                    OperationType = 0x6B
	TypeTransfer                  OperationType = 0x6C
	TypeOrigination               OperationType = 0x6D
	TypeDelegation                OperationType = 0x6E
	TypeUnknown                   OperationType = 0xFF
)

var operationTypeNames = map[OperationType]string{
	TypeEndorsement:               "Endorsement",
	TypeSeedNonceRevelation:       "SeedNonceRevelation",
	TypeDoubleEndorsementEvidence: "DoubleEndorsementEvidence",
	TypeDoubleBakingEvidence:      "DoubleBakingEvidence",
	TypeActivateAccount:           "ActivateAccount",
	TypeProposals:                 "Proposals",
	TypeBallot:                    "Ballot",
	TypeEndorsementWithSlot:       "EndorsementWithSlot",
	TypeFailingNoop:               "FailingNoop",
	TypeReveal:                    "Reveal",
	TypeTransfer:                  "Transfer",
	TypeOrigination:               "Origination",
	TypeDelegation:                "Delegation",
	TypeUnknown:                   "Unknown",
}

func (operationType OperationType) String() string {

	if name, ok := operationTypeNames[operationType]; ok {
		return name
	}

	return fmt.Sprintf("OperationType(%#02x)", uint8(operationType))

}

// Op is a single parsed operation.
type Op interface {
	ui.Items
	Type() OperationType
}

// ParseOp reads one tagged operation. An unrecognised tag yields an
// UnknownOp holding the rest of the input.
func ParseOp(in []byte) ([]byte, Op, error) {

	rem, tag, err := readU8(in)
	if err != nil {
		return in, nil, err
	}

	var op Op

	switch OperationType(tag) {
	case TypeEndorsement:
		rem, op, err = parseAs(rem, ParseEndorsement)
	case TypeSeedNonceRevelation:
		rem, op, err = parseAs(rem, ParseSeedNonceRevelation)
	case TypeDoubleEndorsementEvidence:
		rem, op, err = parseAs(rem, ParseDoubleEndorsementEvidence)
	case TypeDoubleBakingEvidence:
		rem, op, err = parseAs(rem, ParseDoubleBakingEvidence)
	case TypeActivateAccount:
		rem, op, err = parseAs(rem, ParseActivateAccount)
	case TypeProposals:
		rem, op, err = parseAs(rem, ParseProposals)
	case TypeBallot:
		rem, op, err = parseAs(rem, ParseBallot)
	case TypeEndorsementWithSlot:
		rem, op, err = parseAs(rem, ParseEndorsementWithSlot)
	case TypeFailingNoop:
		rem, op, err = parseAs(rem, ParseFailingNoop)
	case TypeReveal:
		rem, op, err = parseAs(rem, ParseReveal)
	case TypeTransfer:
		rem, op, err = parseAs(rem, ParseTransfer)
	case TypeOrigination:
		rem, op, err = parseAs(rem, ParseOrigination)
	case TypeDelegation:
		rem, op, err = parseAs(rem, ParseDelegation)
	default:
		return nil, UnknownOp{Bytes: in}, nil
	}

	if err != nil {
		return in, nil, fmt.Errorf("%s: %w", OperationType(tag), err)
	}

	return rem, op, nil

}

func parseAs[T Op](in []byte, parse func([]byte) ([]byte, T, error)) ([]byte, Op, error) {

	rem, op, err := parse(in)
	if err != nil {
		return in, nil, err
	}

	return rem, op, nil

}

// BranchSize is the length of the block hash an operation is anchored to.
const BranchSize = 32

// signatureSize is the length of a trailing operation signature.
const signatureSize = 64

// Operation is a branch followed by a list of operations.
type Operation struct {
	Branch []byte
	Ops    EncodedOperations
}

func NewOperation(in []byte, options ...OperationOption) (*Operation, error) {

	rem, branch, err := take(in, BranchSize)
	if err != nil {
		return nil, err
	}

	operation := &Operation{Branch: branch, Ops: EncodedOperations{source: rem}}
	for _, option := range options {
		option(operation)
	}

	return operation, nil

}

func (operation *Operation) Base58Branch() string {

	return crypto.Base58Check(crypto.PrefixBlock, operation.Branch)

}

// NumItems counts the branch item and the items of every operation.
func (operation *Operation) NumItems() (int, error) {

	total := 1
	ops := operation.Ops.rewound()

	for {

		op, err := ops.ParseNext()
		if err != nil {
			return 0, err
		}
		if op == nil {
			return total, nil
		}

		count, err := op.NumItems()
		if err != nil {
			return 0, err
		}

		total += count

	}

}

func (operation *Operation) RenderItem(item, page int) (string, string, int, error) {

	if item == 0 {
		return renderField(func(int) (string, string, error) {
			return "Operation", operation.Base58Branch(), nil
		}, item, page)
	}

	item--
	ops := operation.Ops.rewound()

	for {

		op, err := ops.ParseNext()
		if err != nil {
			return "", "", 0, err
		}
		if op == nil {
			return "", "", 0, ui.ErrNoData
		}

		count, err := op.NumItems()
		if err != nil {
			return "", "", 0, err
		}

		if item < count {
			return op.RenderItem(item, page)
		}

		item -= count

	}

}

// EncodedOperations is a cursor over the operations of an Operation.
type EncodedOperations struct {
	source []byte
	read   int
	bakers KnownBakers
}

func NewEncodedOperations(source []byte) EncodedOperations {

	return EncodedOperations{source: source}

}

func (ops EncodedOperations) rewound() EncodedOperations {

	return EncodedOperations{source: ops.source, bakers: ops.bakers}

}

// ParseNext parses the operation at the cursor and advances past it on
// success. It returns nil once the input is exhausted or only the
// trailing signature is left. An unknown tag anywhere else fails with
// ErrUnknownOperation.
func (ops *EncodedOperations) ParseNext() (Op, error) {

	rest := ops.source[ops.read:]
	if len(rest) == 0 {
		return nil, nil
	}

	rem, op, err := ParseOp(rest)
	if err != nil {
		return nil, err
	}

	if _, unknown := op.(UnknownOp); unknown {
		if len(rest) == signatureSize {
			ops.read = len(ops.source)
			return nil, nil
		}
		return nil, fmt.Errorf("%w: tag %#02x at %d", ErrUnknownOperation, rest[0], ops.read)
	}

	if delegation, ok := op.(Delegation); ok {
		delegation.Bakers = ops.bakers
		op = delegation
	}

	ops.read = len(ops.source) - len(rem)

	return op, nil

}

// PeekNext parses the next operation without moving the cursor.
func (ops *EncodedOperations) PeekNext() (Op, error) {

	peek := *ops

	return peek.ParseNext()

}

func (ops *EncodedOperations) SourceIndex() int {

	return ops.read

}

func (ops *EncodedOperations) SetSourceIndex(index int) {

	if index > len(ops.source) {
		index = len(ops.source)
	}

	ops.read = index

}

// Count parses every remaining operation without moving the cursor.
func (ops *EncodedOperations) Count() (int, error) {

	peek := *ops
	count := 0

	for {

		op, err := peek.ParseNext()
		if err != nil {
			return count, err
		}
		if op == nil {
			return count, nil
		}

		count++

	}

}
