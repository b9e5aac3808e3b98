package tezos

import (
	"context"
	"fmt"

	"github.com/schjonhaug/tezos-ledger-app-go/bolos"
)

// Instruction is the INS byte of a command.
type Instruction uint8

// Instructions shared by both modes.
const (
	InsLegacyGetVersion      Instruction = 0x00
	InsLegacyGetPublicKey    Instruction = 0x02
	InsLegacyPromptPublicKey Instruction = 0x03
	InsLegacyGit             Instruction = 0x09
	InsGetVersion            Instruction = 0x10
	InsGetAddress            Instruction = 0x11
	InsSign                  Instruction = 0x12
)

// Wallet instructions.
const (
	InsLegacySign         Instruction = 0x04
	InsLegacySignUnsafe   Instruction = 0x05
	InsLegacySignWithHash Instruction = 0x0F
)

// Baking instructions. 0x04 and 0x0F sign with the authorized key.
const (
	InsAuthorizeBaking       Instruction = 0x01
	InsBakerSign             Instruction = 0x04
	InsLegacyReset           Instruction = 0x06
	InsQueryAuthKey          Instruction = 0x07
	InsQueryMainHWM          Instruction = 0x08
	InsSetup                 Instruction = 0x0A
	InsQueryAllHWM           Instruction = 0x0B
	InsDeAuthorize           Instruction = 0x0C
	InsQueryAuthKeyWithCurve Instruction = 0x0D
	InsHMAC                  Instruction = 0x0E
	InsBakerSignWithHash     Instruction = 0x0F
)

// Development instructions.
const (
	InsDevHash   Instruction = 0xF0
	InsDevExcept Instruction = 0xF1
	InsDevEcho   Instruction = 0xF2
)

func (instruction Instruction) String() string {

	return fmt.Sprintf("INS(%#02x)", uint8(instruction))

}

// handler serves one command. Output is written to out starting at 0;
// the returned error, when non nil, is the status word of the reply.
type handler func(ctx context.Context, app *App, request *request, out []byte) (int, error)

type instructionTable map[Instruction]handler

// newInstructionTable builds the table of the active instruction set.
func newInstructionTable(config Config) bolos.PIC[instructionTable] {

	table := instructionTable{
		InsLegacyGetVersion:      handleLegacyGetVersion,
		InsLegacyGit:             handleLegacyGit,
		InsGetVersion:            handleGetVersion,
		InsLegacyGetPublicKey:    handleLegacyGetPublicKey,
		InsLegacyPromptPublicKey: handleLegacyPromptPublicKey,
		InsGetAddress:            handleGetAddress,
		InsSign:                  signHandler(true),
	}

	if config.IsBaking() {
		table[InsAuthorizeBaking] = handleAuthorizeBaking
		table[InsBakerSign] = bakerSignHandler(false)
		table[InsBakerSignWithHash] = bakerSignHandler(true)
		table[InsLegacyReset] = handleLegacyReset
		table[InsQueryAuthKey] = queryAuthKeyHandler(false)
		table[InsQueryAuthKeyWithCurve] = queryAuthKeyHandler(true)
		table[InsQueryMainHWM] = handleQueryMainHWM
		table[InsQueryAllHWM] = handleQueryAllHWM
		table[InsSetup] = handleSetup
		table[InsDeAuthorize] = handleDeAuthorize
		table[InsHMAC] = handleHMAC
	} else {
		table[InsLegacySign] = signHandler(false)
		table[InsLegacySignUnsafe] = signHandler(false)
		table[InsLegacySignWithHash] = signHandler(true)
	}

	if config.App.Dev {
		table[InsDevHash] = handleDevHash
		table[InsDevExcept] = handleDevExcept
		table[InsDevEcho] = handleDevEcho
	}

	return bolos.NewPIC(table)

}
