package tezos

import (
	"context"
	"encoding/binary"
)

const commitHashLength = 8

func handleGetVersion(ctx context.Context, app *App, request *request, out []byte) (int, error) {

	var version [9]byte

	version[1] = VersionMajor
	version[2] = VersionMinor
	version[3] = VersionPatch
	binary.BigEndian.PutUint32(version[5:], app.config.App.TargetID)

	return put(out, version[:])

}

func handleLegacyGetVersion(ctx context.Context, app *App, request *request, out []byte) (int, error) {

	var baking byte
	if app.config.IsBaking() {
		baking = 1
	}

	return put(out, []byte{baking, VersionMajor, VersionMinor, VersionPatch})

}

// handleLegacyGit returns the short commit hash, NUL terminated.
func handleLegacyGit(ctx context.Context, app *App, request *request, out []byte) (int, error) {

	commit := []byte(app.config.App.GitCommit)[:commitHashLength]

	return put(out, commit, []byte{0})

}

// put copies parts back to back into out.
func put(out []byte, parts ...[]byte) (int, error) {

	tx := 0

	for _, part := range parts {
		if len(out)-tx < len(part) {
			return 0, OutputBufferTooSmall
		}
		tx += copy(out[tx:], part)
	}

	return tx, nil

}

// putStatus is put for accept callbacks.
func putStatus(out []byte, parts ...[]byte) (int, uint16) {

	tx, err := put(out, parts...)
	if err != nil {
		return 0, uint16(OutputBufferTooSmall)
	}

	return tx, uint16(Success)

}
