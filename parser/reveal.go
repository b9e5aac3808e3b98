package parser

import "github.com/schjonhaug/tezos-ledger-app-go/ui"

type Reveal struct {
	manager
	PublicKey PublicKey
}

func ParseReveal(in []byte) ([]byte, Reveal, error) {

	var reveal Reveal

	rem, m, err := parseManager(in)
	if err != nil {
		return in, reveal, err
	}
	reveal.manager = m

	if rem, reveal.PublicKey, err = ParsePublicKey(rem); err != nil {
		return in, reveal, err
	}

	return rem, reveal, nil

}

func (reveal Reveal) Type() OperationType {

	return TypeReveal

}

func (reveal Reveal) NumItems() (int, error) {

	return 7, nil

}

func (reveal Reveal) field(item int) (string, string, error) {

	switch item {
	case 0:
		return "Type", "Revelation", nil
	case 1:
		return "Source", reveal.Source.Base58(), nil
	case 2:
		return "Public Key", reveal.PublicKey.Base58(), nil
	case 3:
		return zarithField("Fee", reveal.Fee)
	case 4:
		return zarithField("Gas Limit", reveal.GasLimit)
	case 5:
		return zarithField("Storage Limit", reveal.StorageLimit)
	case 6:
		return zarithField("Counter", reveal.Counter)
	}

	return "", "", ui.ErrNoData

}

func (reveal Reveal) RenderItem(item, page int) (string, string, int, error) {

	return renderField(reveal.field, item, page)

}
