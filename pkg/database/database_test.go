package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backends(t *testing.T) map[string]Database {
	ldb, err := NewLDB(filepath.Join(t.TempDir(), "ldb"))
	require.NoError(t, err)
	bdb, err := NewBoltDB(filepath.Join(t.TempDir(), "bolt.db"))
	require.NoError(t, err)

	return map[string]Database{
		"memory":  NewMemDB(),
		"leveldb": ldb,
		"bolt":    bdb,
	}
}

func TestPutGetDelete(t *testing.T) {
	for name, db := range backends(t) {
		t.Run(name, func(t *testing.T) {
			defer db.Close()

			_, err := db.Get([]byte("missing"))
			assert.Equal(t, ErrNotFound, err)

			require.NoError(t, db.Put([]byte("key"), []byte("value")))
			ok, err := db.Has([]byte("key"))
			require.NoError(t, err)
			assert.True(t, ok)

			val, err := db.Get([]byte("key"))
			require.NoError(t, err)
			assert.Equal(t, []byte("value"), val)

			require.NoError(t, db.Delete([]byte("key")))
			ok, err = db.Has([]byte("key"))
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestPrefixScan(t *testing.T) {
	for name, db := range backends(t) {
		t.Run(name, func(t *testing.T) {
			defer db.Close()

			require.NoError(t, db.Put([]byte("HE\x00"), []byte("a")))
			require.NoError(t, db.Put([]byte("HE\x01"), []byte("b")))
			require.NoError(t, db.Put([]byte("LH"), []byte("c")))

			vals, err := db.Prefix([]byte("HE"))
			require.NoError(t, err)
			assert.Len(t, vals, 2)
		})
	}
}

func TestTablePrefixesKeys(t *testing.T) {
	db := NewMemDB()
	headers := NewTable(db, []byte("HE"))

	require.NoError(t, headers.Put([]byte("k"), []byte("v")))

	// The raw key carries the table prefix.
	val, err := db.Get([]byte("HEk"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), val)

	val, err = headers.Get([]byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), val)
}
