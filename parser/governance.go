package parser

import (
	"encoding/hex"
	"fmt"

	"github.com/schjonhaug/tezos-ledger-app-go/crypto"
	"github.com/schjonhaug/tezos-ledger-app-go/ui"
)

const proposalSize = 32

type Vote uint8

const (
	VoteYay Vote = iota
	VoteNay
	VotePass
)

func (vote Vote) String() string {

	switch vote {
	case VoteYay:
		return "yay"
	case VoteNay:
		return "nay"
	case VotePass:
		return "pass"
	}

	return fmt.Sprintf("vote(%d)", uint8(vote))

}

type Ballot struct {
	Source   PublicKeyHash
	Period   int32
	Proposal []byte
	Vote     Vote
}

func ParseBallot(in []byte) ([]byte, Ballot, error) {

	var ballot Ballot

	rem, source, err := ParsePublicKeyHash(in)
	if err != nil {
		return in, ballot, err
	}
	ballot.Source = source

	if rem, ballot.Period, err = readI32(rem); err != nil {
		return in, ballot, err
	}
	if rem, ballot.Proposal, err = take(rem, proposalSize); err != nil {
		return in, ballot, err
	}

	var vote uint8
	if rem, vote, err = readU8(rem); err != nil {
		return in, ballot, err
	}
	if Vote(vote) > VotePass {
		return in, ballot, ErrInvalidBallotVote
	}
	ballot.Vote = Vote(vote)

	return rem, ballot, nil

}

func (ballot Ballot) Type() OperationType {

	return TypeBallot

}

func (ballot Ballot) NumItems() (int, error) {

	return 5, nil

}

func (ballot Ballot) field(item int) (string, string, error) {

	switch item {
	case 0:
		return "Type", "Ballot", nil
	case 1:
		return "Source", ballot.Source.Base58(), nil
	case 2:
		return "Period", itoa(int64(ballot.Period)), nil
	case 3:
		return "Proposal", crypto.Base58Check(crypto.PrefixProtocol, ballot.Proposal), nil
	case 4:
		return "Vote", ballot.Vote.String(), nil
	}

	return "", "", ui.ErrNoData

}

func (ballot Ballot) RenderItem(item, page int) (string, string, int, error) {

	return renderField(ballot.field, item, page)

}

type Proposals struct {
	Source    PublicKeyHash
	Period    int32
	Proposals [][]byte
}

func ParseProposals(in []byte) ([]byte, Proposals, error) {

	var proposals Proposals

	rem, source, err := ParsePublicKeyHash(in)
	if err != nil {
		return in, proposals, err
	}
	proposals.Source = source

	if rem, proposals.Period, err = readI32(rem); err != nil {
		return in, proposals, err
	}

	var list []byte
	if rem, list, err = readSized(rem); err != nil {
		return in, proposals, err
	}
	if len(list)%proposalSize != 0 {
		return in, proposals, ErrProposalsLengthInvalid
	}

	for len(list) > 0 {
		proposals.Proposals = append(proposals.Proposals, list[:proposalSize:proposalSize])
		list = list[proposalSize:]
	}

	return rem, proposals, nil

}

func (proposals Proposals) Type() OperationType {

	return TypeProposals

}

func (proposals Proposals) NumItems() (int, error) {

	return 3 + len(proposals.Proposals), nil

}

func (proposals Proposals) field(item int) (string, string, error) {

	switch item {
	case 0:
		return "Type", "Proposals", nil
	case 1:
		return "Source", proposals.Source.Base58(), nil
	case 2:
		return "Period", itoa(int64(proposals.Period)), nil
	}

	n := item - 3
	if n < 0 || n >= len(proposals.Proposals) {
		return "", "", ui.ErrNoData
	}

	return fmt.Sprintf("Proposal #%d", n+1), crypto.Base58Check(crypto.PrefixProtocol, proposals.Proposals[n]), nil

}

func (proposals Proposals) RenderItem(item, page int) (string, string, int, error) {

	return renderField(proposals.field, item, page)

}

type ActivateAccount struct {
	PublicKeyHash PublicKeyHash
	Secret        []byte
}

func ParseActivateAccount(in []byte) ([]byte, ActivateAccount, error) {

	var activate ActivateAccount

	rem, hash, err := take(in, crypto.HashSize)
	if err != nil {
		return in, activate, err
	}
	activate.PublicKeyHash = PublicKeyHash{Curve: crypto.Bip32Ed25519, Hash: hash}

	if rem, activate.Secret, err = take(rem, 20); err != nil {
		return in, activate, err
	}

	return rem, activate, nil

}

func (activate ActivateAccount) Type() OperationType {

	return TypeActivateAccount

}

func (activate ActivateAccount) NumItems() (int, error) {

	return 3, nil

}

func (activate ActivateAccount) field(item int) (string, string, error) {

	switch item {
	case 0:
		return "Type", "Acct. Activation", nil
	case 1:
		return "Public Key Hash", activate.PublicKeyHash.Base58(), nil
	case 2:
		return "Secret", hex.EncodeToString(activate.Secret), nil
	}

	return "", "", ui.ErrNoData

}

func (activate ActivateAccount) RenderItem(item, page int) (string, string, int, error) {

	return renderField(activate.field, item, page)

}

type FailingNoop struct {
	Arbitrary []byte
}

func ParseFailingNoop(in []byte) ([]byte, FailingNoop, error) {

	rem, arbitrary, err := readSized(in)
	if err != nil {
		return in, FailingNoop{}, err
	}

	return rem, FailingNoop{Arbitrary: arbitrary}, nil

}

func (noop FailingNoop) Type() OperationType {

	return TypeFailingNoop

}

func (noop FailingNoop) NumItems() (int, error) {

	return 2, nil

}

func (noop FailingNoop) field(item int) (string, string, error) {

	switch item {
	case 0:
		return "Type", "Failing Noop", nil
	case 1:
		return "Data Hash", hashHex(noop.Arbitrary), nil
	}

	return "", "", ui.ErrNoData

}

func (noop FailingNoop) RenderItem(item, page int) (string, string, int, error) {

	return renderField(noop.field, item, page)

}
