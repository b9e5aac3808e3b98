package tezos

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schjonhaug/tezos-ledger-app-go/bolos"
	"github.com/schjonhaug/tezos-ledger-app-go/crypto"
	"github.com/schjonhaug/tezos-ledger-app-go/ui"
)

const (
	testSeed = "000102030405060708090a0b0c0d0e0f"
	// 44'/1729'/0'/0'
	pathHex = "04" + "8000002c" + "800006c1" + "80000000" + "80000000"

	sourceHex     = "0035e993d8c7aaa42b5e3ccd86a33390ececc73abd"
	managerHex    = sourceHex + "904e" + "01" + "0a" + "0a"
	delegationHex = "6e" + managerHex + "ff" + sourceHex
	transferHex   = "6c" + managerHex + "e807" + "00" + sourceHex + "00"

	blockHex = "11af1864d90009fedc021ca619c0213f69395e63dea746b6f1ab2c3b68ab5747d50a495c43ae42b1001900000000629f5e5904f4db813cb4c24e7533e853f32dc63554fb059ffc72e896ce8e4376fdb5892354000000210000000102000000040009fedc0000000000000004ffffffff000000040000000061a7fa64128a960b035958da4aebbb71eb0f7d4c79b62817d67388e120fd4f2000e98e05f5956b781ddfb5ae743cfa0d38688af551d39254d3438d1aa8f4f465000000006d9cfa359b2705000000"
	blockChain = 0xaf1864d9
	blockLevel = 655068
)

var branchHex = strings.Repeat("00", 32)

func decodeHex(t *testing.T, text string) []byte {

	t.Helper()

	data, err := hex.DecodeString(text)
	require.NoError(t, err)

	return data

}

func newTestApp(t *testing.T, mode Mode, reviewer ui.Reviewer, mutate ...func(*Config)) *App {

	t.Helper()

	config := DefaultConfig()
	config.App.Mode = mode
	config.App.Dev = true
	config.App.TargetID = 0x31100004
	config.Wallet.Enabled = mode == ModeWallet
	config.Baking.Enabled = mode == ModeBaking
	config.Keys.Seed = testSeed

	for _, m := range mutate {
		m(&config)
	}

	storage, err := bolos.OpenStorage("")
	require.NoError(t, err)
	t.Cleanup(func() { storage.Close() })

	app, err := NewApp(config, storage, WithReviewer(reviewer))
	require.NoError(t, err)

	return app

}

// command builds a CLA 0x80 command with a one byte Lc.
func command(ins Instruction, p1, p2 byte, data []byte) []byte {

	return append([]byte{CLA, byte(ins), p1, p2, byte(len(data))}, data...)

}

func exchange(t *testing.T, app *App, raw []byte) ([]byte, Status) {

	t.Helper()

	buffer := make([]byte, 260)
	rx := copy(buffer, raw)

	tx := app.HandleAPDU(context.Background(), buffer, rx)
	require.GreaterOrEqual(t, tx, 2)

	return buffer[:tx-2], StatusFromBytes(buffer[tx-2], buffer[tx-1])

}

func testPublicKey(t *testing.T, curve crypto.Curve) crypto.PublicKey {

	t.Helper()

	keyring, err := crypto.NewKeyring(decodeHex(t, testSeed))
	require.NoError(t, err)

	path, err := crypto.ReadBIP32Path(decodeHex(t, pathHex), crypto.BIP32MaxLength)
	require.NoError(t, err)

	key, err := keyring.PublicKey(curve, path)
	require.NoError(t, err)

	return key

}

func TestGetVersion(t *testing.T) {

	app := newTestApp(t, ModeWallet, ui.AutoReviewer{})

	reply, status := exchange(t, app, command(InsGetVersion, 0, 0, nil))
	require.Equal(t, Success, status)
	require.Len(t, reply, 9)

	assert.Equal(t, []byte{0x00, VersionMajor, VersionMinor, VersionPatch, 0x00, 0x31, 0x10, 0x00, 0x04}, reply)

	reply, status = exchange(t, app, command(InsLegacyGetVersion, 0, 0, nil))
	require.Equal(t, Success, status)
	assert.Equal(t, []byte{0, VersionMajor, VersionMinor, VersionPatch}, reply)

	reply, status = exchange(t, app, command(InsLegacyGit, 0, 0, nil))
	require.Equal(t, Success, status)
	assert.Equal(t, append([]byte("00000000"), 0), reply)

}

func TestDispatcherFraming(t *testing.T) {

	app := newTestApp(t, ModeWallet, ui.AutoReviewer{})

	buffer := make([]byte, 260)
	copy(buffer, []byte{CLA, byte(InsGetVersion), 0, 0})
	tx := app.HandleAPDU(context.Background(), buffer, 4)
	assert.Equal(t, 2, tx)
	assert.Equal(t, WrongLength, StatusFromBytes(buffer[0], buffer[1]))

	_, status := exchange(t, app, []byte{CLA, byte(InsGetVersion), 0, 0, 4, 1})
	assert.Equal(t, WrongLength, status)

	_, status = exchange(t, app, []byte{0xE0, byte(InsGetVersion), 0, 0, 0})
	assert.Equal(t, ClaNotSupported, status)

	_, status = exchange(t, app, command(InsLegacyReset, 0, 0, nil))
	assert.Equal(t, CommandNotAllowed, status)

	small := make([]byte, 6)
	copy(small, command(InsGetVersion, 0, 0, nil))
	tx = app.HandleAPDU(context.Background(), small, 5)
	assert.Equal(t, 2, tx)
	assert.Equal(t, OutputBufferTooSmall, StatusFromBytes(small[0], small[1]))

}

func TestUnknownInstructionPerMode(t *testing.T) {

	baking := newTestApp(t, ModeBaking, ui.AutoReviewer{})

	_, status := exchange(t, baking, command(InsLegacySignUnsafe, 0, 0, nil))
	assert.Equal(t, CommandNotAllowed, status)

	withoutDev := newTestApp(t, ModeWallet, ui.AutoReviewer{}, func(config *Config) {
		config.App.Dev = false
	})

	_, status = exchange(t, withoutDev, command(InsDevEcho, 0, 0, nil))
	assert.Equal(t, CommandNotAllowed, status)

}

func TestGetAddress(t *testing.T) {

	reviewer := &ui.ScriptedReviewer{Answers: []bool{false}}
	app := newTestApp(t, ModeWallet, reviewer)
	key := testPublicKey(t, crypto.Ed25519)

	reply, status := exchange(t, app, command(InsGetAddress, 0, 0, decodeHex(t, pathHex)))
	require.Equal(t, Success, status)
	require.Equal(t, byte(33), reply[0])
	assert.Equal(t, key.Bytes, reply[1:34])
	assert.Equal(t, crypto.NewAddress(key).Base58(), string(reply[34:]))
	assert.Empty(t, reviewer.Seen)

	_, status = exchange(t, app, command(InsGetAddress, 1, 0, decodeHex(t, pathHex)))
	assert.Equal(t, CommandNotAllowed, status)
	assert.Equal(t, [][2]string{{"Address", crypto.NewAddress(key).Base58()}}, reviewer.Last())

	reply, status = exchange(t, app, command(InsLegacyGetPublicKey, 0, 0, decodeHex(t, pathHex)))
	require.Equal(t, Success, status)
	assert.Equal(t, append([]byte{33}, key.Bytes...), reply)

	_, status = exchange(t, app, command(InsGetAddress, 0, 9, decodeHex(t, pathHex)))
	assert.Equal(t, InvalidP1P2, status)

	deep := "07" + strings.Repeat("80000000", 7)
	_, status = exchange(t, app, command(InsGetAddress, 0, 0, decodeHex(t, deep)))
	assert.Equal(t, DataInvalid, status)

}

func TestSignThreePackets(t *testing.T) {

	reviewer := &ui.ScriptedReviewer{Answers: []bool{true}}
	app := newTestApp(t, ModeWallet, reviewer)

	operation := decodeHex(t, branchHex+delegationHex)
	half := len(operation) / 2

	_, status := exchange(t, app, command(InsSign, byte(PacketInit), 0, decodeHex(t, pathHex)))
	require.Equal(t, Success, status)

	_, status = exchange(t, app, command(InsSign, byte(PacketAdd), 0, operation[:half]))
	require.Equal(t, Success, status)

	reply, status := exchange(t, app, command(InsSign, byte(PacketAddAndLast), 0, operation[half:]))
	require.Equal(t, Success, status)
	require.Len(t, reply, 32+ed25519.SignatureSize)

	digest := crypto.Blake2b256(operation)
	assert.Equal(t, digest, reply[:32])

	key := testPublicKey(t, crypto.Ed25519)
	assert.True(t, ed25519.Verify(ed25519.PublicKey(key.Bytes[1:]), digest, reply[32:]))

	messages := reviewer.Last()
	require.NotEmpty(t, messages)
	assert.Contains(t, messages, [2]string{"Type", "Delegation"})

}

func TestSignNamesKnownBaker(t *testing.T) {

	reviewer := &ui.ScriptedReviewer{Answers: []bool{true}}
	app := newTestApp(t, ModeWallet, reviewer, func(config *Config) {
		config.Bakers = map[string]string{"tz1QZ6KY7d3BuZDT1d19dUxoQrtFPN2QJ3hn": "Example Baker"}
	})

	_, status := exchange(t, app, command(InsSign, byte(PacketInit), 0, decodeHex(t, pathHex)))
	require.Equal(t, Success, status)

	_, status = exchange(t, app, command(InsSign, byte(PacketAddAndLast), 0, decodeHex(t, branchHex+delegationHex)))
	require.Equal(t, Success, status)

	assert.Contains(t, reviewer.Last(), [2]string{"Delegation", "Example Baker"})

	other := newTestApp(t, ModeWallet, ui.AutoReviewer{Approve: true})
	items, err := operationItems(decodeHex(t, branchHex+delegationHex), other.config.Bakers)
	require.NoError(t, err)

	messages, err := ui.Messages(items)
	require.NoError(t, err)
	assert.Contains(t, messages, [2]string{"Delegation", "tz1QZ6KY7d3BuZDT1d19dUxoQrtFPN2QJ3hn"})

}

func TestLegacySignWithoutHash(t *testing.T) {

	app := newTestApp(t, ModeWallet, ui.AutoReviewer{Approve: true})

	operation := decodeHex(t, branchHex+transferHex)

	_, status := exchange(t, app, command(InsLegacySign, byte(PacketInit), 0, decodeHex(t, pathHex)))
	require.Equal(t, Success, status)

	reply, status := exchange(t, app, command(InsLegacySign, byte(PacketAddAndLast), 0, operation))
	require.Equal(t, Success, status)
	assert.Len(t, reply, ed25519.SignatureSize)

}

func TestSignRejected(t *testing.T) {

	app := newTestApp(t, ModeWallet, &ui.ScriptedReviewer{Answers: []bool{false}})

	_, status := exchange(t, app, command(InsSign, byte(PacketInit), 0, decodeHex(t, pathHex)))
	require.Equal(t, Success, status)

	_, status = exchange(t, app, command(InsSign, byte(PacketAddAndLast), 0, decodeHex(t, branchHex+delegationHex)))
	assert.Equal(t, CommandNotAllowed, status)

	_, status = exchange(t, app, command(InsSign, byte(PacketAdd), 0, []byte{1, 2, 3}))
	assert.Equal(t, ApduCodeConditionsNotSatisfied, status)

}

func TestSignWithoutSession(t *testing.T) {

	app := newTestApp(t, ModeWallet, ui.AutoReviewer{Approve: true})

	_, status := exchange(t, app, command(InsSign, byte(PacketAdd), 0, []byte{1}))
	assert.Equal(t, ApduCodeConditionsNotSatisfied, status)

	_, status = exchange(t, app, command(InsSign, 0x7F, 0, nil))
	assert.Equal(t, InvalidP1P2, status)

	_, status = exchange(t, app, command(InsSign, byte(PacketInit), 0, decodeHex(t, "0b")))
	assert.Equal(t, DataInvalid, status)

	// A failed init leaves no session behind.
	_, status = exchange(t, app, command(InsSign, byte(PacketAdd), 0, []byte{1}))
	assert.Equal(t, ApduCodeConditionsNotSatisfied, status)

}

func TestSignShortDataIsUnknown(t *testing.T) {

	reviewer := &ui.ScriptedReviewer{Answers: []bool{true}}
	app := newTestApp(t, ModeWallet, reviewer)

	_, status := exchange(t, app, command(InsSign, byte(PacketInit), 0, decodeHex(t, pathHex)))
	require.Equal(t, Success, status)

	reply, status := exchange(t, app, command(InsSign, byte(PacketAddAndLast), 0, []byte("hello")))
	require.Equal(t, Success, status)
	assert.Len(t, reply, 32+ed25519.SignatureSize)

	messages := reviewer.Last()
	require.NotEmpty(t, messages)
	assert.Equal(t, [2]string{"Type", "Unknown Operation"}, messages[0])

}

func TestSignInvalidOperation(t *testing.T) {

	app := newTestApp(t, ModeWallet, ui.AutoReviewer{Approve: true})

	_, status := exchange(t, app, command(InsSign, byte(PacketInit), 0, decodeHex(t, pathHex)))
	require.Equal(t, Success, status)

	_, status = exchange(t, app, command(InsSign, byte(PacketAddAndLast), 0, decodeHex(t, branchHex+"6e00")))
	assert.Equal(t, DataInvalid, status)

}

func TestSignRejectsUnknownOperations(t *testing.T) {

	tests := []struct {
		name    string
		payload string
	}{
		{"unknown tag after delegation", branchHex + delegationHex + "99010203"},
		{"malformed transfer in signature position", branchHex + delegationHex + "6c" + strings.Repeat("ff", 63)},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {

			app := newTestApp(t, ModeWallet, ui.AutoReviewer{Approve: true})

			_, status := exchange(t, app, command(InsSign, byte(PacketInit), 0, decodeHex(t, pathHex)))
			require.Equal(t, Success, status)

			_, status = exchange(t, app, command(InsSign, byte(PacketAddAndLast), 0, decodeHex(t, test.payload)))
			assert.Equal(t, DataInvalid, status)

		})
	}

}

func TestSignOverflow(t *testing.T) {

	app := newTestApp(t, ModeWallet, ui.AutoReviewer{Approve: true}, func(config *Config) {
		config.Buffer.RAMSize = 100
		config.Buffer.FlashSize = 200
	})

	_, status := exchange(t, app, command(InsSign, byte(PacketInit), 0, decodeHex(t, pathHex)))
	require.Equal(t, Success, status)

	_, status = exchange(t, app, command(InsSign, byte(PacketAdd), 0, make([]byte, 80)))
	require.Equal(t, Success, status)

	// 150 bytes no longer fit in RAM but fit in flash.
	_, status = exchange(t, app, command(InsSign, byte(PacketAdd), 0, make([]byte, 70)))
	require.Equal(t, Success, status)

	// Flash is the whole capacity once RAM has been left.
	_, status = exchange(t, app, command(InsSign, byte(PacketAdd), 0, make([]byte, 60)))
	assert.Equal(t, WrongLength, status)

	_, status = exchange(t, app, command(InsSign, byte(PacketAdd), 0, []byte{1}))
	assert.Equal(t, ApduCodeConditionsNotSatisfied, status)

}

func TestBufferBusyAcrossFamilies(t *testing.T) {

	app := newTestApp(t, ModeWallet, ui.AutoReviewer{Approve: true})

	_, status := exchange(t, app, command(InsSign, byte(PacketInit), 0, decodeHex(t, pathHex)))
	require.Equal(t, Success, status)

	_, status = exchange(t, app, command(InsDevHash, byte(PacketInit), 0, []byte("abc")))
	assert.Equal(t, Busy, status)

	_, status = exchange(t, app, command(InsDevHash, byte(PacketAdd), 0, []byte("abc")))
	assert.Equal(t, ApduCodeConditionsNotSatisfied, status)

	// The sign session is untouched.
	reply, status := exchange(t, app, command(InsSign, byte(PacketAddAndLast), 0, []byte("hello")))
	require.Equal(t, Success, status)
	assert.Len(t, reply, 32+ed25519.SignatureSize)

	_, status = exchange(t, app, command(InsDevHash, byte(PacketInitAndLast), 0, []byte("abc")))
	assert.Equal(t, Success, status)

}

func TestDevHash(t *testing.T) {

	app := newTestApp(t, ModeWallet, ui.AutoReviewer{})

	_, status := exchange(t, app, command(InsDevHash, byte(PacketInit), 0, []byte("ab")))
	require.Equal(t, Success, status)

	_, status = exchange(t, app, command(InsDevHash, byte(PacketAdd), 0, []byte("cd")))
	require.Equal(t, Success, status)

	reply, status := exchange(t, app, command(InsDevHash, byte(PacketAddAndLast), 0, []byte("ef")))
	require.Equal(t, Success, status)
	assert.Equal(t, crypto.Sha256([]byte("abcdef")), reply)

}

func TestDevHashAcrossTiers(t *testing.T) {

	app := newTestApp(t, ModeWallet, ui.AutoReviewer{}, func(config *Config) {
		config.Buffer.RAMSize = 100
		config.Buffer.FlashSize = 200
	})

	first := []byte("init")
	second := bytes.Repeat([]byte{0x22}, 80)
	last := bytes.Repeat([]byte{0x33}, 70)

	_, status := exchange(t, app, command(InsDevHash, byte(PacketInit), 0, first))
	require.Equal(t, Success, status)

	_, status = exchange(t, app, command(InsDevHash, byte(PacketAdd), 0, second))
	require.Equal(t, Success, status)

	reply, status := exchange(t, app, command(InsDevHash, byte(PacketAddAndLast), 0, last))
	require.Equal(t, Success, status)

	whole := append(append(append([]byte{}, first...), second...), last...)
	assert.Equal(t, crypto.Sha256(whole), reply)

}

func TestDevExcept(t *testing.T) {

	app := newTestApp(t, ModeWallet, ui.AutoReviewer{})

	reply, status := exchange(t, app, command(InsDevExcept, 1, 3, nil))
	require.Equal(t, Success, status)
	assert.Equal(t, []byte{0, 0, 0, 0, 0, 0, 0, 3}, reply)

	_, status = exchange(t, app, command(InsDevExcept, 0, 3, nil))
	assert.Equal(t, ExecutionError, status)

	_, status = exchange(t, app, command(InsDevExcept, 1, 0, nil))
	assert.Equal(t, InvalidP1P2, status)

}

func TestDevEcho(t *testing.T) {

	reviewer := &ui.ScriptedReviewer{Answers: []bool{true}}
	app := newTestApp(t, ModeWallet, reviewer)

	reply, status := exchange(t, app, command(InsDevEcho, 0, 0, []byte("hello")))
	require.Equal(t, Success, status)
	assert.Empty(t, reply)
	assert.Equal(t, [][2]string{{"Echo", "hello"}}, reviewer.Last())

	_, status = exchange(t, app, command(InsDevEcho, 0, 0, make([]byte, echoLength+1)))
	assert.Equal(t, WrongLength, status)

}
