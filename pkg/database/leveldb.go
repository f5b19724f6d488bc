package database

import (
	"github.com/syndtr/goleveldb/leveldb"
	ldberrors "github.com/syndtr/goleveldb/leveldb/errors"
	ldbutil "github.com/syndtr/goleveldb/leveldb/util"
)

// LDB is a database backend persisted with LevelDB.
type LDB struct {
	db *leveldb.DB
}

// NewLDB opens (creating if needed) a LevelDB database at path.
func NewLDB(path string) (*LDB, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, err
	}
	return &LDB{db: db}, nil
}

// Has implements the database interface
func (l *LDB) Has(key []byte) (bool, error) {
	return l.db.Has(key, nil)
}

// Put implements the database interface
func (l *LDB) Put(key []byte, value []byte) error {
	return l.db.Put(key, value, nil)
}

// Get implements the database interface
func (l *LDB) Get(key []byte) ([]byte, error) {
	val, err := l.db.Get(key, nil)
	if err == ldberrors.ErrNotFound {
		return nil, ErrNotFound
	}
	return val, err
}

// Delete implements the database interface
func (l *LDB) Delete(key []byte) error {
	return l.db.Delete(key, nil)
}

// Prefix implements the database interface
func (l *LDB) Prefix(prefix []byte) ([][]byte, error) {
	var values [][]byte
	iter := l.db.NewIterator(ldbutil.BytesPrefix(prefix), nil)
	defer iter.Release()
	for iter.Next() {
		val := make([]byte, len(iter.Value()))
		copy(val, iter.Value())
		values = append(values, val)
	}
	return values, iter.Error()
}

// Close implements the database interface
func (l *LDB) Close() error {
	return l.db.Close()
}
