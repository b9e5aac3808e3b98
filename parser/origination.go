package parser

import "github.com/schjonhaug/tezos-ledger-app-go/ui"

type Origination struct {
	manager
	Balance  Zarith
	Delegate *PublicKeyHash
	Script   Script
}

func ParseOrigination(in []byte) ([]byte, Origination, error) {

	var origination Origination

	rem, m, err := parseManager(in)
	if err != nil {
		return in, origination, err
	}
	origination.manager = m

	if rem, origination.Balance, err = parseNatural(rem); err != nil {
		return in, origination, err
	}

	if rem, origination.Delegate, err = parseOptionalHash(rem); err != nil {
		return in, origination, err
	}

	if rem, origination.Script, err = ParseScript(rem); err != nil {
		return in, origination, err
	}

	return rem, origination, nil

}

func (origination Origination) Type() OperationType {

	return TypeOrigination

}

func (origination Origination) NumItems() (int, error) {

	return 10, nil

}

func (origination Origination) field(item int) (string, string, error) {

	switch item {
	case 0:
		return "Type", "Origination", nil
	case 1:
		return "Source", origination.Source.Base58(), nil
	case 2:
		return zarithField("Balance", origination.Balance)
	case 3:
		if origination.Delegate == nil {
			return "Delegate", "no delegate", nil
		}
		return "Delegate", origination.Delegate.Base58(), nil
	case 4:
		return zarithField("Fee", origination.Fee)
	case 5:
		return "Code", hashHex(origination.Script.Code), nil
	case 6:
		return "Storage", hashHex(origination.Script.Storage), nil
	case 7:
		return zarithField("Gas Limit", origination.GasLimit)
	case 8:
		return zarithField("Storage Limit", origination.StorageLimit)
	case 9:
		return zarithField("Counter", origination.Counter)
	}

	return "", "", ui.ErrNoData

}

func (origination Origination) RenderItem(item, page int) (string, string, int, error) {

	return renderField(origination.field, item, page)

}
