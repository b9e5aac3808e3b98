package parser

import (
	"github.com/schjonhaug/tezos-ledger-app-go/crypto"
	"github.com/schjonhaug/tezos-ledger-app-go/ui"
)

// UnknownOp is an operation the parser does not understand. It is shown
// as the hash of its bytes.
type UnknownOp struct {
	Bytes []byte
}

func (unknown UnknownOp) Type() OperationType {

	return TypeUnknown

}

func (unknown UnknownOp) Hash() string {

	return crypto.Base58Check(nil, crypto.Blake2b256(unknown.Bytes))

}

func (unknown UnknownOp) NumItems() (int, error) {

	return 2, nil

}

func (unknown UnknownOp) field(item int) (string, string, error) {

	switch item {
	case 0:
		return "Type", "Unknown Operation", nil
	case 1:
		return "Hash", unknown.Hash(), nil
	}

	return "", "", ui.ErrNoData

}

func (unknown UnknownOp) RenderItem(item, page int) (string, string, int, error) {

	return renderField(unknown.field, item, page)

}
