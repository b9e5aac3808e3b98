package hwm

import (
	"encoding/binary"
	"fmt"

	"github.com/schjonhaug/tezos-ledger-app-go/crypto"
)

// ChainID is the chain a baker is set up for. Zero matches any chain.
type ChainID uint32

const (
	ChainAny ChainID = 0
	Mainnet  ChainID = 0x7A06A770
)

// Matches reports whether a message for chain id belongs to the main ring.
func (chainID ChainID) Matches(id uint32) bool {

	return chainID == ChainAny || uint32(chainID) == id

}

func (chainID ChainID) Bytes() [4]byte {

	var out [4]byte
	binary.BigEndian.PutUint32(out[:], uint32(chainID))

	return out

}

// Base58 is the Net form of the chain id.
func (chainID ChainID) Base58() string {

	data := chainID.Bytes()

	return crypto.Base58Check(crypto.PrefixChainID, data[:])

}

func (chainID ChainID) String() string {

	switch chainID {
	case ChainAny:
		return "any"
	case Mainnet:
		return "mainnet"
	}

	return fmt.Sprintf("%s (%08x)", chainID.Base58(), uint32(chainID))

}
