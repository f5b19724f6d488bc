package database

//Table is an abstract data structure built on top of a db
type Table struct {
	prefix []byte
	db     Database
}

//NewTable creates a new table on the given database
func NewTable(db Database, prefix []byte) *Table {
	return &Table{
		prefix,
		db,
	}
}

func (t *Table) key(key []byte) []byte {
	prefixed := make([]byte, 0, len(t.prefix)+len(key))
	prefixed = append(prefixed, t.prefix...)
	return append(prefixed, key...)
}

// Has implements the database interface
func (t *Table) Has(key []byte) (bool, error) {
	return t.db.Has(t.key(key))
}

// Put implements the database interface
func (t *Table) Put(key []byte, value []byte) error {
	return t.db.Put(t.key(key), value)
}

// Get implements the database interface
func (t *Table) Get(key []byte) ([]byte, error) {
	return t.db.Get(t.key(key))
}

// Delete implements the database interface
func (t *Table) Delete(key []byte) error {
	return t.db.Delete(t.key(key))
}

// Prefix implements the database interface
func (t *Table) Prefix(key []byte) ([][]byte, error) {
	return t.db.Prefix(t.key(key))
}

// Close implements the database interface
func (t *Table) Close() error {
	return nil
}
