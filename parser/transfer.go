package parser

import "github.com/schjonhaug/tezos-ledger-app-go/ui"

type Transfer struct {
	manager
	Amount      Zarith
	Destination ContractID
	// Parameters is nil for a plain transaction.
	Parameters *Parameters
}

func ParseTransfer(in []byte) ([]byte, Transfer, error) {

	var transfer Transfer

	rem, m, err := parseManager(in)
	if err != nil {
		return in, transfer, err
	}
	transfer.manager = m

	if rem, transfer.Amount, err = parseNatural(rem); err != nil {
		return in, transfer, err
	}

	if rem, transfer.Destination, err = ParseContractID(rem); err != nil {
		return in, transfer, err
	}

	rem, hasParameters, err := parseBoolean(rem)
	if err != nil {
		return in, transfer, err
	}

	if hasParameters {
		var parameters Parameters
		if rem, parameters, err = ParseParameters(rem); err != nil {
			return in, transfer, err
		}
		transfer.Parameters = &parameters
	}

	return rem, transfer, nil

}

func (transfer Transfer) Type() OperationType {

	return TypeTransfer

}

func (transfer Transfer) NumItems() (int, error) {

	return 9, nil

}

func (transfer Transfer) field(item int) (string, string, error) {

	switch item {
	case 0:
		if transfer.Parameters != nil {
			return "Type", "Contract Execution", nil
		}
		return "Type", "Transaction", nil
	case 1:
		return "Source", transfer.Source.Base58(), nil
	case 2:
		if transfer.Destination.Originated {
			return "Contract Addr", transfer.Destination.Base58(), nil
		}
		return "Destination", transfer.Destination.Base58(), nil
	case 3:
		return zarithField("Amount", transfer.Amount)
	case 4:
		return zarithField("Fee", transfer.Fee)
	case 5:
		if transfer.Parameters == nil {
			return "Parameters", "no parameters...", nil
		}
		return "Parameters", hashHex(transfer.Parameters.Michelson), nil
	case 6:
		return zarithField("Gas Limit", transfer.GasLimit)
	case 7:
		return zarithField("Storage Limit", transfer.StorageLimit)
	case 8:
		return zarithField("Counter", transfer.Counter)
	}

	return "", "", ui.ErrNoData

}

func (transfer Transfer) RenderItem(item, page int) (string, string, int, error) {

	return renderField(transfer.field, item, page)

}
