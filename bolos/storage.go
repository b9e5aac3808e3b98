package bolos

import (
	"bytes"
	"encoding/binary"
	"log/slog"
	"os"

	"github.com/syndtr/goleveldb/leveldb"
	lvlerrors "github.com/syndtr/goleveldb/leveldb/errors"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
)

const (
	storageVersion    = 1
	storageVersionKey = "version"
	nvmPrefix         = "nvm:"
)

// Storage persists named NVM regions.
// Load returns nil and no error when the region was never saved.
type Storage interface {
	Load(name string) ([]byte, error)
	Save(name string, data []byte) error
	Close() error
}

// LevelStorage keeps NVM images in a leveldb database, one key per region.
type LevelStorage struct {
	db *leveldb.DB
}

// OpenStorage opens the database at path.
// If no path is given an in-memory database is used.
func OpenStorage(path string) (*LevelStorage, error) {

	var db *leveldb.DB
	var err error

	if path == "" {
		db, err = leveldb.Open(storage.NewMemStorage(), nil)
	} else {
		db, err = openPersistentDB(path)
	}

	if err != nil {
		return nil, err
	}

	return &LevelStorage{db: db}, nil

}

// openPersistentDB opens a leveldb file database, flushing it when the
// stored layout version differs from the current one.
func openPersistentDB(path string) (*leveldb.DB, error) {

	db, err := leveldb.OpenFile(path, &opt.Options{OpenFilesCacheCapacity: 5})
	if _, corrupted := err.(*lvlerrors.ErrCorrupted); corrupted {
		db, err = leveldb.RecoverFile(path, nil)
	}
	if err != nil {
		return nil, err
	}

	currentVersion := make([]byte, binary.MaxVarintLen64)
	currentVersion = currentVersion[:binary.PutVarint(currentVersion, storageVersion)]

	blob, err := db.Get([]byte(storageVersionKey), nil)

	switch err {
	case leveldb.ErrNotFound:
		if err := db.Put([]byte(storageVersionKey), currentVersion, nil); err != nil {
			db.Close()
			return nil, err
		}
	case nil:
		if !bytes.Equal(blob, currentVersion) {
			oldVersion, _ := binary.Varint(blob)
			slog.Info("NVM layout changed, flushing storage", "Old", oldVersion, "New", storageVersion)
			db.Close()
			if err := os.RemoveAll(path); err != nil {
				return nil, err
			}
			return openPersistentDB(path)
		}
	default:
		db.Close()
		return nil, err
	}

	return db, nil

}

func (levelStorage *LevelStorage) Load(name string) ([]byte, error) {

	data, err := levelStorage.db.Get([]byte(nvmPrefix+name), nil)

	if err == leveldb.ErrNotFound {
		return nil, nil
	}

	return data, err

}

func (levelStorage *LevelStorage) Save(name string, data []byte) error {

	return levelStorage.db.Put([]byte(nvmPrefix+name), data, &opt.WriteOptions{Sync: true})

}

// Close flushes and closes the database files.
func (levelStorage *LevelStorage) Close() error {

	return levelStorage.db.Close()

}
