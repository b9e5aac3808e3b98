package parser

import "github.com/schjonhaug/tezos-ledger-app-go/ui"

type Delegation struct {
	manager
	// Delegate is nil when the delegation is withdrawn.
	Delegate *PublicKeyHash
	// Bakers names Delegate when it is a known baker.
	Bakers KnownBakers
}

func ParseDelegation(in []byte) ([]byte, Delegation, error) {

	var delegation Delegation

	rem, m, err := parseManager(in)
	if err != nil {
		return in, delegation, err
	}
	delegation.manager = m

	if rem, delegation.Delegate, err = parseOptionalHash(rem); err != nil {
		return in, delegation, err
	}

	return rem, delegation, nil

}

func parseOptionalHash(in []byte) ([]byte, *PublicKeyHash, error) {

	rem, present, err := parseBoolean(in)
	if err != nil || !present {
		return rem, nil, err
	}

	rem, pkh, err := ParsePublicKeyHash(rem)
	if err != nil {
		return in, nil, err
	}

	return rem, &pkh, nil

}

func (delegation Delegation) Type() OperationType {

	return TypeDelegation

}

func (delegation Delegation) NumItems() (int, error) {

	return 7, nil

}

func (delegation Delegation) field(item int) (string, string, error) {

	switch item {
	case 0:
		if delegation.Delegate == nil {
			return "Type", "Delegation Withdrawal", nil
		}
		return "Type", "Delegation", nil
	case 1:
		return "Source", delegation.Source.Base58(), nil
	case 2:
		if delegation.Delegate == nil {
			return "Delegation", "<REVOKED>", nil
		}
		address := delegation.Delegate.Base58()
		if name, ok := delegation.Bakers.Lookup(address); ok {
			return "Delegation", name, nil
		}
		return "Delegation", address, nil
	case 3:
		return zarithField("Fee", delegation.Fee)
	case 4:
		return zarithField("Gas Limit", delegation.GasLimit)
	case 5:
		return zarithField("Storage Limit", delegation.StorageLimit)
	case 6:
		return zarithField("Counter", delegation.Counter)
	}

	return "", "", ui.ErrNoData

}

func (delegation Delegation) RenderItem(item, page int) (string, string, int, error) {

	return renderField(delegation.field, item, page)

}
