package tezos

import (
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/schjonhaug/tezos-ledger-app-go/bolos"
	"github.com/schjonhaug/tezos-ledger-app-go/crypto"
	"github.com/schjonhaug/tezos-ledger-app-go/hwm"
	"github.com/schjonhaug/tezos-ledger-app-go/ui"
)

const (
	VersionMajor = 3
	VersionMinor = 0
	VersionPatch = 0
)

// NVM region holding the flash tier of the upload buffer.
const bufferRegion = "swapping_buffer"

// Buffer accessors, one per command family uploading data.
const (
	accessorSign bolos.Accessor = iota + 1
	accessorBaking
	accessorDevHash
)

// App is the signing application. It answers one command at a time.
type App struct {
	mu sync.Mutex

	config    Config
	table     bolos.PIC[instructionTable]
	buffer    *bolos.SwappingBuffer
	signer    crypto.Signer
	hwm       *hwm.Store
	bakingKey *BakingKeyStore

	reviewer          ui.Reviewer
	consensusReviewer ui.Reviewer

	session *session
}

type Option func(*App)

// WithReviewer sets who approves prompts. Without one every prompt is
// rejected.
func WithReviewer(reviewer ui.Reviewer) Option {

	return func(app *App) {
		app.reviewer = reviewer
	}

}

// WithConsensusReviewer sets who approves blocks and endorsements.
func WithConsensusReviewer(reviewer ui.Reviewer) Option {

	return func(app *App) {
		app.consensusReviewer = reviewer
	}

}

// WithSigner replaces the keyring derived from the configured seed.
func WithSigner(signer crypto.Signer) Option {

	return func(app *App) {
		app.signer = signer
	}

}

// NewApp builds the application on top of storage.
func NewApp(config Config, storage bolos.Storage, options ...Option) (*App, error) {

	if err := config.Validate(); err != nil {
		return nil, err
	}

	flash, err := bolos.NewNVM(bufferRegion, config.Buffer.FlashSize, storage)
	if err != nil {
		return nil, fmt.Errorf("opening buffer: %w", err)
	}

	store, err := hwm.OpenStore(storage)
	if err != nil {
		return nil, fmt.Errorf("opening high-water mark: %w", err)
	}

	bakingKey, err := OpenBakingKeyStore(storage)
	if err != nil {
		return nil, fmt.Errorf("opening baking key: %w", err)
	}

	app := &App{
		config:    config,
		table:     newInstructionTable(config),
		buffer:    bolos.NewSwappingBuffer(config.Buffer.RAMSize, flash),
		hwm:       store,
		bakingKey: bakingKey,
	}

	for _, option := range options {
		option(app)
	}

	if app.signer == nil {
		seed, err := config.Seed()
		if err != nil {
			return nil, err
		}
		keyring, err := crypto.NewKeyring(seed)
		if err != nil {
			return nil, err
		}
		app.signer = keyring
	}

	if app.reviewer == nil {
		app.reviewer = ui.AutoReviewer{Approve: false}
	}

	if app.consensusReviewer == nil {
		if config.Baking.AutoApproveConsensus {
			app.consensusReviewer = ui.AutoReviewer{Approve: true}
		} else {
			app.consensusReviewer = app.reviewer
		}
	}

	slog.Debug("APP", "Mode", string(config.App.Mode), "Dev", config.App.Dev, "Instructions", len(*app.table.Get()))

	return app, nil

}

// Config returns the configuration the app was built with.
func (app *App) Config() Config {

	return app.config

}

// HWM exposes the high-water mark store.
func (app *App) HWM() *hwm.Store {

	return app.hwm

}

// EnableDebugLogging sends debug level logs to stderr.
func EnableDebugLogging() {

	SetLogLevel(slog.LevelDebug)

}

// SetLogLevel installs a text handler on stderr at level.
func SetLogLevel(level slog.Level) {

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))

}
