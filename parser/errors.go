package parser

import "errors"

var (
	ErrUnexpectedBufferEnd       = errors.New("parser: unexpected buffer end")
	ErrInvalidPubkeyEncoding     = errors.New("parser: invalid public key encoding")
	ErrInvalidAddress            = errors.New("parser: invalid address")
	ErrInvalidContractName       = errors.New("parser: invalid contract name")
	ErrUnknownOperation          = errors.New("parser: unknown operation")
	ErrInvalidBallotVote         = errors.New("parser: invalid ballot vote")
	ErrProposalsLengthInvalid    = errors.New("parser: proposals length invalid")
	ErrValueOutOfRange           = errors.New("parser: value out of range")
	ErrInvalidTransactionPayload = errors.New("parser: invalid transaction payload")
	ErrInvalidEndorsementType    = errors.New("parser: invalid endorsement type")
	ErrInvalidProtocolVersion    = errors.New("parser: invalid protocol version")
	ErrInvalidPreamble           = errors.New("parser: invalid preamble")
)
