package parser

import (
	"bytes"
	"encoding/hex"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schjonhaug/tezos-ledger-app-go/crypto"
	"github.com/schjonhaug/tezos-ledger-app-go/ui"
)

const (
	sourceHex   = "0035e993d8c7aaa42b5e3ccd86a33390ececc73abd"
	sourceTz1   = "tz1QZ6KY7d3BuZDT1d19dUxoQrtFPN2QJ3hn"
	managerHex  = sourceHex + "904e" + "01" + "0a" + "0a"
	transferHex = managerHex + "e807" + "00" + sourceHex + "00"
)

func decodeHex(t *testing.T, text string) []byte {

	t.Helper()

	data, err := hex.DecodeString(text)
	require.NoError(t, err)

	return data

}

func TestZarith(t *testing.T) {

	rem, zarith, err := ParseZarith(decodeHex(t, "904eaa"), false)
	require.NoError(t, err)
	assert.Len(t, rem, 1)

	value, ok := zarith.Uint64()
	require.True(t, ok)
	assert.Equal(t, uint64(10000), value)
	assert.Equal(t, "904e", hex.EncodeToString(EncodeZarith(10000)))

	_, ok = zarith.ReadAs(8)
	assert.False(t, ok)

	_, _, err = ParseZarith(nil, false)
	assert.ErrorIs(t, err, ErrUnexpectedBufferEnd)

	_, _, err = ParseZarith([]byte{0x80, 0x80}, false)
	assert.ErrorIs(t, err, ErrUnexpectedBufferEnd)

}

func TestZarithBounds(t *testing.T) {

	largest := append(bytes.Repeat([]byte{0xFF}, 9), 0x01)

	_, zarith, err := ParseZarith(largest, false)
	require.NoError(t, err)

	value, ok := zarith.Uint64()
	require.True(t, ok)
	assert.Equal(t, uint64(math.MaxUint64), value)
	assert.Equal(t, largest, EncodeZarith(math.MaxUint64))

	_, zarith, err = ParseZarith(append(bytes.Repeat([]byte{0xFF}, 9), 0x02), false)
	require.NoError(t, err)

	_, ok = zarith.Uint64()
	assert.False(t, ok)

	_, err = zarith.Decimal()
	assert.ErrorIs(t, err, ui.ErrUnknown)

	for _, value := range []uint64{0, 1, 127, 128, 300, 1 << 40} {
		_, zarith, err := ParseZarith(EncodeZarith(value), false)
		require.NoError(t, err)
		decoded, ok := zarith.Uint64()
		require.True(t, ok)
		assert.Equal(t, value, decoded)
	}

}

func TestZarithSigned(t *testing.T) {

	_, zarith, err := ParseZarith([]byte{0x41}, true)
	require.NoError(t, err)

	negative, signed := zarith.IsNegative()
	assert.True(t, negative)
	assert.True(t, signed)
	assert.Equal(t, "-1", zarith.String())

	_, zarith, err = ParseZarith([]byte{0x81, 0x01}, true)
	require.NoError(t, err)
	assert.Equal(t, "65", zarith.String())

}

func TestContractID(t *testing.T) {

	rem, implicit, err := ParseContractID(decodeHex(t, "00"+sourceHex))
	require.NoError(t, err)
	assert.Empty(t, rem)
	assert.False(t, implicit.Originated)
	assert.Equal(t, crypto.Bip32Ed25519, implicit.Curve)
	assert.Equal(t, sourceTz1, implicit.Base58())

	rem, originated, err := ParseContractID(decodeHex(t, "016a7d4a43f51be0934a441fba4f13f9beaa47575100"))
	require.NoError(t, err)
	assert.Empty(t, rem)
	assert.True(t, originated.Originated)
	assert.Equal(t, "KT1JHqHQdHSgWBKo6H4UfG8dw3JnZSyjGkHA", originated.Base58())

	_, _, err = ParseContractID(decodeHex(t, "02"+sourceHex))
	assert.ErrorIs(t, err, ErrInvalidAddress)

}

func TestEntrypoint(t *testing.T) {

	for tag, name := range []string{"default", "root", "do", "set_delegate", "remove_delegate"} {
		_, entrypoint, err := ParseEntrypoint([]byte{byte(tag)})
		require.NoError(t, err)
		assert.Equal(t, name, entrypoint.String())
	}

	rem, custom, err := ParseEntrypoint(decodeHex(t, "ff03616263aa"))
	require.NoError(t, err)
	assert.Len(t, rem, 1)
	assert.Equal(t, Entrypoint{Kind: EntrypointCustom, Name: []byte("abc")}, custom)

	_, _, err = ParseEntrypoint([]byte{0xFF, 10, 0x61, 0x62})
	assert.ErrorIs(t, err, ErrUnexpectedBufferEnd)

	_, _, err = ParseEntrypoint([]byte{5})
	assert.ErrorIs(t, err, ErrInvalidContractName)

}

func TestParameters(t *testing.T) {

	input := decodeHex(t, "02000000070a000000020202")

	rem, parameters, err := ParseParameters(input)
	require.NoError(t, err)
	assert.Empty(t, rem)
	assert.Equal(t, EntrypointDo, parameters.Entrypoint.Kind)
	assert.Equal(t, input[5:], parameters.Michelson)

	_, _, err = ParseParameters(decodeHex(t, "000000000aabcd"))
	assert.ErrorIs(t, err, ErrUnexpectedBufferEnd)

}

func TestTransfer(t *testing.T) {

	input := append(decodeHex(t, transferHex), 0xDE, 0xEA, 0xBE, 0xEF)

	rem, transfer, err := ParseTransfer(input)
	require.NoError(t, err)
	assert.Len(t, rem, 4)

	assert.Equal(t, input[21:23], transfer.Fee.Bytes)
	assert.Equal(t, input[26:28], transfer.Amount.Bytes)
	assert.Equal(t, input[30:50], transfer.Destination.Hash)
	assert.Nil(t, transfer.Parameters)

	messages, err := ui.Messages(transfer)
	require.NoError(t, err)
	assert.Equal(t, [][2]string{
		{"Type", "Transaction"},
		{"Source", sourceTz1},
		{"Destination", sourceTz1},
		{"Amount", "1000"},
		{"Fee", "10000"},
		{"Parameters", "no parameters..."},
		{"Gas Limit", "10"},
		{"Storage Limit", "10"},
		{"Counter", "1"},
	}, messages)

	_, _, _, err = transfer.RenderItem(9, 0)
	assert.ErrorIs(t, err, ui.ErrNoData)

	_, _, err = ParseTransfer(decodeHex(t, sourceHex+"904e01"))
	assert.ErrorIs(t, err, ErrUnexpectedBufferEnd)

}

func TestContractCall(t *testing.T) {

	input := decodeHex(t, managerHex+"e807"+"00"+sourceHex+"ff"+"02000000070a000000020202")

	rem, transfer, err := ParseTransfer(input)
	require.NoError(t, err)
	assert.Empty(t, rem)
	require.NotNil(t, transfer.Parameters)
	assert.Equal(t, EntrypointDo, transfer.Parameters.Entrypoint.Kind)
	assert.Equal(t, input[56:], transfer.Parameters.Michelson)

	messages, err := ui.Messages(transfer)
	require.NoError(t, err)
	assert.Equal(t, "Contract Execution", messages[0][1])
	assert.Equal(t, hex.EncodeToString(crypto.Sha256(input[56:])), messages[5][1])

}

func TestDelegation(t *testing.T) {

	input := append(decodeHex(t, managerHex+"ff"+sourceHex), 0xDE, 0xEA, 0xBE, 0xEF)

	rem, delegation, err := ParseDelegation(input)
	require.NoError(t, err)
	assert.Len(t, rem, 4)
	require.NotNil(t, delegation.Delegate)
	assert.Equal(t, input[28:48], delegation.Delegate.Hash)

	messages, err := ui.Messages(delegation)
	require.NoError(t, err)
	assert.Equal(t, [2]string{"Type", "Delegation"}, messages[0])
	assert.Equal(t, [2]string{"Delegation", sourceTz1}, messages[2])

	delegation.Bakers = KnownBakers{sourceTz1: "Test Baker"}

	messages, err = ui.Messages(delegation)
	require.NoError(t, err)
	assert.Equal(t, [2]string{"Delegation", "Test Baker"}, messages[2])

	_, withdrawal, err := ParseDelegation(decodeHex(t, managerHex+"00"))
	require.NoError(t, err)

	messages, err = ui.Messages(withdrawal)
	require.NoError(t, err)
	assert.Equal(t, [2]string{"Type", "Delegation Withdrawal"}, messages[0])
	assert.Equal(t, [2]string{"Delegation", "<REVOKED>"}, messages[2])

}

func TestReveal(t *testing.T) {

	input := decodeHex(t, managerHex+"00ebcf82872f4942052704e95dc4bfa0538503dbece27414a39b6650bcecbff896")

	rem, reveal, err := ParseReveal(input)
	require.NoError(t, err)
	assert.Empty(t, rem)
	assert.Equal(t, crypto.Bip32Ed25519, reveal.PublicKey.Curve)
	assert.Equal(t, input[27:], reveal.PublicKey.Bytes)

	messages, err := ui.Messages(reveal)
	require.NoError(t, err)
	assert.Len(t, messages, 7)
	assert.Equal(t, "Revelation", messages[0][1])
	assert.True(t, strings.HasPrefix(messages[2][1], "edpk"))

}

func TestPublicKeyBase58Length(t *testing.T) {

	tests := []struct {
		key    PublicKey
		length int
	}{
		{PublicKey{crypto.Bip32Ed25519, make([]byte, 32)}, 54},
		{PublicKey{crypto.Bip32Ed25519, bytes.Repeat([]byte{0xFF}, 32)}, 54},
		{PublicKey{crypto.Secp256K1, make([]byte, 33)}, 55},
		{PublicKey{crypto.Secp256K1, bytes.Repeat([]byte{0xFF}, 33)}, 55},
		{PublicKey{crypto.Secp256R1, make([]byte, 33)}, 55},
		{PublicKey{crypto.Secp256R1, bytes.Repeat([]byte{0xFF}, 33)}, 55},
	}

	for _, test := range tests {
		assert.Len(t, test.key.Base58(), test.length, test.key.Curve.String())
	}

}

func TestOrigination(t *testing.T) {

	code := decodeHex(t, "020000000405000563")
	storage := decodeHex(t, "0707")

	input := decodeHex(t, managerHex+"00"+"00")
	input = append(input, 0, 0, 0, byte(len(code)))
	input = append(input, code...)
	input = append(input, 0, 0, 0, byte(len(storage)))
	input = append(input, storage...)

	rem, origination, err := ParseOrigination(input)
	require.NoError(t, err)
	assert.Empty(t, rem)
	assert.Nil(t, origination.Delegate)
	assert.Equal(t, code, origination.Script.Code)
	assert.Equal(t, storage, origination.Script.Storage)

	messages, err := ui.Messages(origination)
	require.NoError(t, err)
	assert.Len(t, messages, 10)
	assert.Equal(t, [2]string{"Balance", "0"}, messages[2])
	assert.Equal(t, [2]string{"Delegate", "no delegate"}, messages[3])
	assert.Equal(t, hex.EncodeToString(crypto.Sha256(code)), messages[5][1])

}

func TestEndorsements(t *testing.T) {

	_, endorsement, err := ParseEndorsement(decodeHex(t, "fffffed4"))
	require.NoError(t, err)
	assert.Equal(t, int32(-300), endorsement.Level)

	input := decodeHex(t, "00000027"+
		"a99b946c97ada0f42c1bdeae0383db7893351232a832d00d0cd716eb6f66e561"+
		"00"+"fffffed4"+"0001"+"007b")

	rem, withSlot, err := ParseEndorsementWithSlot(input)
	require.NoError(t, err)
	assert.Empty(t, rem)
	assert.Equal(t, input[41:43], withSlot.Signature)
	assert.Equal(t, uint16(123), withSlot.Slot)

	messages, err := ui.Messages(withSlot)
	require.NoError(t, err)
	assert.Equal(t, [][2]string{
		{"Type", "Endorsement"},
		{"Branch", "BLzyjjHKEKMULtvkpSHxuZxx6ei6fpntH2BTkYZiLgs8zLVstvX"},
		{"Slot", "123"},
		{"Level", "-300"},
	}, messages)

	_, _, err = ParseEndorsementWithSlot(decodeHex(t, "00000010"+strings.Repeat("00", 16)))
	assert.ErrorIs(t, err, ErrValueOutOfRange)

}

func TestSeedNonceRevelation(t *testing.T) {

	rem, revelation, err := ParseSeedNonceRevelation(decodeHex(t, "000063ce"+strings.Repeat("ff", 32)))
	require.NoError(t, err)
	assert.Empty(t, rem)
	assert.Equal(t, int32(25550), revelation.Level)
	assert.Equal(t, bytes.Repeat([]byte{0xFF}, 32), revelation.Nonce)

}

func TestBallot(t *testing.T) {

	proposal := "3e5e3a606afab74a59ca09e333633e2770b6492c5e594455b71e9a2f0ea92afb"

	rem, ballot, err := ParseBallot(decodeHex(t, sourceHex+"fffffed4"+proposal+"00"))
	require.NoError(t, err)
	assert.Empty(t, rem)
	assert.Equal(t, int32(-300), ballot.Period)
	assert.Equal(t, VoteYay, ballot.Vote)

	messages, err := ui.Messages(ballot)
	require.NoError(t, err)
	assert.Len(t, messages, 5)
	assert.Equal(t, [2]string{"Vote", "yay"}, messages[4])
	assert.Equal(t, "P", messages[3][1][:1])

	_, _, err = ParseBallot(decodeHex(t, sourceHex+"fffffed4"+proposal+"03"))
	assert.ErrorIs(t, err, ErrInvalidBallotVote)

}

func TestProposals(t *testing.T) {

	proposal := "3e5e3a606afab74a59ca09e333633e2770b6492c5e594455b71e9a2f0ea92afb"

	rem, proposals, err := ParseProposals(decodeHex(t, sourceHex+"000063ce"+"00000040"+proposal+proposal))
	require.NoError(t, err)
	assert.Empty(t, rem)
	assert.Equal(t, int32(25550), proposals.Period)
	assert.Len(t, proposals.Proposals, 2)

	count, err := proposals.NumItems()
	require.NoError(t, err)
	assert.Equal(t, 5, count)

	title, _, _, err := proposals.RenderItem(4, 0)
	require.NoError(t, err)
	assert.Equal(t, "Proposal #2", title)

	_, _, err = ParseProposals(decodeHex(t, sourceHex+"000063ce"+"00000021"+proposal+"00"))
	assert.ErrorIs(t, err, ErrProposalsLengthInvalid)

}

func TestActivateAccount(t *testing.T) {

	input := decodeHex(t, "b2e19a9e74440d86c59f13dab8a18ff873e889ea7d4c8c3796fdbf4869edb5703758f0e5831f5081")

	rem, activate, err := ParseActivateAccount(input)
	require.NoError(t, err)
	assert.Empty(t, rem)
	assert.Equal(t, input[:20], activate.PublicKeyHash.Hash)
	assert.Equal(t, input[20:], activate.Secret)

	messages, err := ui.Messages(activate)
	require.NoError(t, err)
	assert.Equal(t, "tz1", messages[1][1][:3])
	assert.Equal(t, hex.EncodeToString(input[20:]), messages[2][1])

}

func TestFailingNoop(t *testing.T) {

	rem, noop, err := ParseFailingNoop(decodeHex(t, "00000003abcdef"))
	require.NoError(t, err)
	assert.Empty(t, rem)
	assert.Equal(t, decodeHex(t, "abcdef"), noop.Arbitrary)

}

func TestDoubleBakingEvidence(t *testing.T) {

	header := "00000010" + "01" + strings.Repeat("11", 32) + "000000005e000000" + "02" + strings.Repeat("22", 32) +
		"0000000a" + "0000000100" + "0000000105" +
		strings.Repeat("33", 32) + "0000" + strings.Repeat("44", 8) + "00" + "00" + strings.Repeat("55", 64)

	rem, evidence, err := ParseDoubleBakingEvidence(decodeHex(t, header+header+"aa"))
	require.NoError(t, err)
	assert.Len(t, rem, 1)
	assert.Equal(t, int32(16), evidence.First.Level)
	assert.Len(t, evidence.Second.Fitness, 2)
	assert.Nil(t, evidence.First.SeedNonceHash)

	_, _, err = ParseFullBlockHeader(decodeHex(t, "00000010"+"01"+strings.Repeat("11", 32)+"000000005e000000"+"02"+strings.Repeat("22", 32)+"000000ff"))
	assert.ErrorIs(t, err, ErrValueOutOfRange)

}

func TestOperationCursor(t *testing.T) {

	branch := strings.Repeat("00", BranchSize)
	delegation := managerHex + "ff" + sourceHex

	input := decodeHex(t, branch+"6c"+transferHex+"6e"+delegation+strings.Repeat("ab", signatureSize))

	operation, err := NewOperation(input)
	require.NoError(t, err)
	assert.Len(t, operation.Base58Branch(), 51)

	peeked, err := operation.Ops.PeekNext()
	require.NoError(t, err)
	assert.Equal(t, TypeTransfer, peeked.Type())
	assert.Equal(t, 0, operation.Ops.SourceIndex())

	count, err := operation.Ops.Count()
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	items, err := operation.NumItems()
	require.NoError(t, err)
	assert.Equal(t, 1+9+7, items)

	title, _, _, err := operation.RenderItem(10, 0)
	require.NoError(t, err)
	assert.Equal(t, "Type", title)

	first, err := operation.Ops.ParseNext()
	require.NoError(t, err)
	assert.Equal(t, TypeTransfer, first.Type())
	index := operation.Ops.SourceIndex()

	second, err := operation.Ops.ParseNext()
	require.NoError(t, err)
	assert.Equal(t, TypeDelegation, second.Type())

	end, err := operation.Ops.ParseNext()
	require.NoError(t, err)
	assert.Nil(t, end)

	operation.Ops.SetSourceIndex(index)
	again, err := operation.Ops.ParseNext()
	require.NoError(t, err)
	assert.Equal(t, second, again)

	_, err = NewOperation(make([]byte, 31))
	assert.ErrorIs(t, err, ErrUnexpectedBufferEnd)

}

func TestOperationErrorKeepsCursor(t *testing.T) {

	input := decodeHex(t, strings.Repeat("00", BranchSize)+"6c"+sourceHex+"904e")

	operation, err := NewOperation(input)
	require.NoError(t, err)

	_, err = operation.Ops.ParseNext()
	assert.ErrorIs(t, err, ErrUnexpectedBufferEnd)
	assert.Equal(t, 0, operation.Ops.SourceIndex())

}

func TestOperationTrailer(t *testing.T) {

	branch := strings.Repeat("00", BranchSize)
	delegation := "6e" + managerHex + "ff" + sourceHex

	tests := []struct {
		name    string
		trailer string
		items   int
		fails   bool
		err     error
	}{
		{"signature", strings.Repeat("ab", signatureSize), 1 + 7, false, nil},
		{"none", "", 1 + 7, false, nil},
		{"malformed transfer", "6c" + strings.Repeat("ff", signatureSize-1), 0, true, nil},
		{"unknown tag", "99010203", 0, true, ErrUnknownOperation},
		{"unknown tag longer than a signature", strings.Repeat("ab", signatureSize+1), 0, true, ErrUnknownOperation},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {

			operation, err := NewOperation(decodeHex(t, branch+delegation+test.trailer))
			require.NoError(t, err)

			items, err := operation.NumItems()
			if test.fails {
				require.Error(t, err)
				if test.err != nil {
					assert.ErrorIs(t, err, test.err)
				}
				return
			}

			require.NoError(t, err)
			assert.Equal(t, test.items, items)

		})
	}

}

func TestOperationKnownBakers(t *testing.T) {

	input := decodeHex(t, strings.Repeat("00", BranchSize)+"6e"+managerHex+"ff"+sourceHex)

	named, err := NewOperation(input, WithKnownBakers(KnownBakers{sourceTz1: "Test Baker"}))
	require.NoError(t, err)

	messages, err := ui.Messages(named)
	require.NoError(t, err)
	assert.Contains(t, messages, [2]string{"Delegation", "Test Baker"})

	plain, err := NewOperation(input)
	require.NoError(t, err)

	messages, err = ui.Messages(plain)
	require.NoError(t, err)
	assert.Contains(t, messages, [2]string{"Delegation", sourceTz1})

}

func TestUnknownOperation(t *testing.T) {

	rem, op, err := ParseOp(decodeHex(t, "99aabbcc"))
	require.NoError(t, err)
	assert.Empty(t, rem)

	unknown, ok := op.(UnknownOp)
	require.True(t, ok)
	assert.Equal(t, decodeHex(t, "99aabbcc"), unknown.Bytes)

	messages, err := ui.Messages(unknown)
	require.NoError(t, err)
	assert.Equal(t, [2]string{"Type", "Unknown Operation"}, messages[0])
	assert.Equal(t, crypto.Base58Check(nil, crypto.Blake2b256(unknown.Bytes)), messages[1][1])

}
