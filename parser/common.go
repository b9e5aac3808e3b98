package parser

import (
	"fmt"

	"github.com/schjonhaug/tezos-ledger-app-go/crypto"
)

// PublicKeyHash is a tagged implicit account hash.
type PublicKeyHash struct {
	Curve crypto.Curve
	Hash  []byte
}

func curveFromHashTag(tag byte) (crypto.Curve, bool) {

	switch tag {
	case 0:
		return crypto.Bip32Ed25519, true
	case 1:
		return crypto.Secp256K1, true
	case 2:
		return crypto.Secp256R1, true
	}

	return 0, false

}

// ParsePublicKeyHash reads a curve tag followed by a 20 byte hash.
func ParsePublicKeyHash(in []byte) ([]byte, PublicKeyHash, error) {

	rem, tag, err := readU8(in)
	if err != nil {
		return in, PublicKeyHash{}, err
	}

	curve, ok := curveFromHashTag(tag)
	if !ok {
		return in, PublicKeyHash{}, ErrInvalidAddress
	}

	rem, hash, err := take(rem, crypto.HashSize)
	if err != nil {
		return in, PublicKeyHash{}, err
	}

	return rem, PublicKeyHash{Curve: curve, Hash: hash}, nil

}

func (pkh PublicKeyHash) Base58() string {

	return crypto.AddressFromHash(pkh.Hash, pkh.Curve).Base58()

}

// PublicKey is a tagged public key: 32 bytes for Ed25519, 33 compressed
// bytes for the ECDSA curves.
type PublicKey struct {
	Curve crypto.Curve
	Bytes []byte
}

func ParsePublicKey(in []byte) ([]byte, PublicKey, error) {

	rem, tag, err := readU8(in)
	if err != nil {
		return in, PublicKey{}, err
	}

	curve, ok := curveFromHashTag(tag)
	if !ok {
		return in, PublicKey{}, ErrInvalidPubkeyEncoding
	}

	size := 33
	if curve.IsEd25519() {
		size = 32
	}

	rem, key, err := take(rem, size)
	if err != nil {
		return in, PublicKey{}, err
	}

	return rem, PublicKey{Curve: curve, Bytes: key}, nil

}

// Base58 is the edpk, sppk or p2pk form of the key.
func (pk PublicKey) Base58() string {

	return crypto.Base58Check(pk.Curve.PublicKeyPrefix(), pk.Bytes)

}

// ContractID is either an implicit account or an originated contract.
type ContractID struct {
	Originated bool
	Curve      crypto.Curve
	Hash       []byte
}

func ParseContractID(in []byte) ([]byte, ContractID, error) {

	rem, tag, err := readU8(in)
	if err != nil {
		return in, ContractID{}, err
	}

	switch tag {
	case 0:
		rem, pkh, err := ParsePublicKeyHash(rem)
		if err != nil {
			return in, ContractID{}, err
		}
		return rem, ContractID{Curve: pkh.Curve, Hash: pkh.Hash}, nil

	case 1:
		rem, hash, err := take(rem, crypto.HashSize)
		if err != nil {
			return in, ContractID{}, err
		}
		rem, _, err = take(rem, 1)
		if err != nil {
			return in, ContractID{}, err
		}
		return rem, ContractID{Originated: true, Hash: hash}, nil
	}

	return in, ContractID{}, ErrInvalidAddress

}

func (contractID ContractID) Base58() string {

	if contractID.Originated {
		return crypto.ContractAddress(contractID.Hash).Base58()
	}

	return crypto.AddressFromHash(contractID.Hash, contractID.Curve).Base58()

}

func parseBoolean(in []byte) ([]byte, bool, error) {

	rem, b, err := readU8(in)
	if err != nil {
		return in, false, err
	}

	switch b {
	case 0x00:
		return rem, false, nil
	case 0xFF:
		return rem, true, nil
	}

	return in, false, ErrValueOutOfRange

}

// EntrypointKind names the well known entrypoints.
type EntrypointKind uint8

const (
	EntrypointDefault        EntrypointKind = 0
	EntrypointRoot           EntrypointKind = 1
	EntrypointDo             EntrypointKind = 2
	EntrypointSetDelegate    EntrypointKind = 3
	EntrypointRemoveDelegate EntrypointKind = 4
	EntrypointCustom         EntrypointKind = 0xFF
)

type Entrypoint struct {
	Kind EntrypointKind
	// Name is only set for custom entrypoints.
	Name []byte
}

func ParseEntrypoint(in []byte) ([]byte, Entrypoint, error) {

	rem, tag, err := readU8(in)
	if err != nil {
		return in, Entrypoint{}, err
	}

	kind := EntrypointKind(tag)

	switch kind {
	case EntrypointDefault, EntrypointRoot, EntrypointDo, EntrypointSetDelegate, EntrypointRemoveDelegate:
		return rem, Entrypoint{Kind: kind}, nil

	case EntrypointCustom:
		rem, size, err := readU8(rem)
		if err != nil {
			return in, Entrypoint{}, err
		}
		rem, name, err := take(rem, int(size))
		if err != nil {
			return in, Entrypoint{}, err
		}
		return rem, Entrypoint{Kind: kind, Name: name}, nil
	}

	return in, Entrypoint{}, ErrInvalidContractName

}

func (entrypoint Entrypoint) String() string {

	switch entrypoint.Kind {
	case EntrypointDefault:
		return "default"
	case EntrypointRoot:
		return "root"
	case EntrypointDo:
		return "do"
	case EntrypointSetDelegate:
		return "set_delegate"
	case EntrypointRemoveDelegate:
		return "remove_delegate"
	case EntrypointCustom:
		return string(entrypoint.Name)
	}

	return fmt.Sprintf("entrypoint(%d)", uint8(entrypoint.Kind))

}

// Parameters of a contract call.
type Parameters struct {
	Entrypoint Entrypoint
	Michelson  []byte
}

func ParseParameters(in []byte) ([]byte, Parameters, error) {

	rem, entrypoint, err := ParseEntrypoint(in)
	if err != nil {
		return in, Parameters{}, err
	}

	rem, michelson, err := readSized(rem)
	if err != nil {
		return in, Parameters{}, err
	}

	return rem, Parameters{Entrypoint: entrypoint, Michelson: michelson}, nil

}

// Script of an origination.
type Script struct {
	Code    []byte
	Storage []byte
}

func ParseScript(in []byte) ([]byte, Script, error) {

	rem, code, err := readSized(in)
	if err != nil {
		return in, Script{}, err
	}

	rem, storage, err := readSized(rem)
	if err != nil {
		return in, Script{}, err
	}

	return rem, Script{Code: code, Storage: storage}, nil

}

// manager holds the fields every manager operation starts with.
type manager struct {
	Source       PublicKeyHash
	Fee          Zarith
	Counter      Zarith
	GasLimit     Zarith
	StorageLimit Zarith
}

func parseManager(in []byte) ([]byte, manager, error) {

	var m manager

	rem, source, err := ParsePublicKeyHash(in)
	if err != nil {
		return in, m, err
	}
	m.Source = source

	for _, field := range []*Zarith{&m.Fee, &m.Counter, &m.GasLimit, &m.StorageLimit} {
		if rem, *field, err = parseNatural(rem); err != nil {
			return in, m, err
		}
	}

	return rem, m, nil

}
