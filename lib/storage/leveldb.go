package storage

import (
	"bytes"
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"
	leveldbIterator "github.com/syndtr/goleveldb/leveldb/iterator"
	leveldbOpt "github.com/syndtr/goleveldb/leveldb/opt"
	leveldbStorage "github.com/syndtr/goleveldb/leveldb/storage"
	leveldbUtil "github.com/syndtr/goleveldb/leveldb/util"

	"github.com/photonwings/lottery-smart-contract/lib/common"
	"github.com/photonwings/lottery-smart-contract/lib/errors"
)

// core is what `*leveldb.DB` and `*leveldb.Transaction` have in common.
type core interface {
	Has([]byte, *leveldbOpt.ReadOptions) (bool, error)
	Get([]byte, *leveldbOpt.ReadOptions) ([]byte, error)
	NewIterator(*leveldbUtil.Range, *leveldbOpt.ReadOptions) leveldbIterator.Iterator
	Put([]byte, []byte, *leveldbOpt.WriteOptions) error
	Write(*leveldb.Batch, *leveldbOpt.WriteOptions) error
	Delete([]byte, *leveldbOpt.WriteOptions) error
}

// LevelDBBackend stores JSON encoded records. A backend returned by
// `OpenTransaction` writes into the transaction until `Commit`.
type LevelDBBackend struct {
	db   *leveldb.DB
	core core
}

func coreError(err error) error {
	if err == nil {
		return nil
	}

	return errors.Wrap(errors.StorageCoreError, err)
}

func (st *LevelDBBackend) Init(config *Config) error {
	var (
		db  *leveldb.DB
		err error
	)
	switch config.Scheme {
	case "file":
		db, err = leveldb.OpenFile(config.Path, nil)
	case "memory":
		db, err = leveldb.Open(leveldbStorage.NewMemStorage(), nil)
	default:
		err = fmt.Errorf("unknown storage scheme: %q", config.Scheme)
	}
	if err != nil {
		return coreError(err)
	}

	st.db = db
	st.core = db

	return nil
}

func (st *LevelDBBackend) Close() error {
	return st.db.Close()
}

func (st *LevelDBBackend) transaction() (*leveldb.Transaction, bool) {
	ts, ok := st.core.(*leveldb.Transaction)
	return ts, ok
}

func (st *LevelDBBackend) IsTransaction() bool {
	_, ok := st.transaction()
	return ok
}

// OpenTransaction returns a new backend writing into a leveldb transaction;
// nothing is visible from `st` until `Commit`. Transactions do not nest.
func (st *LevelDBBackend) OpenTransaction() (*LevelDBBackend, error) {
	if st.IsTransaction() {
		return nil, coreError(fmt.Errorf("transaction already opened"))
	}

	ts, err := st.db.OpenTransaction()
	if err != nil {
		return nil, coreError(err)
	}

	return &LevelDBBackend{db: st.db, core: ts}, nil
}

func (st *LevelDBBackend) Discard() error {
	ts, ok := st.transaction()
	if !ok {
		return coreError(fmt.Errorf("not a transaction"))
	}
	ts.Discard()

	return nil
}

func (st *LevelDBBackend) Commit() error {
	ts, ok := st.transaction()
	if !ok {
		return coreError(fmt.Errorf("not a transaction"))
	}

	return coreError(ts.Commit())
}

func (st *LevelDBBackend) Has(k string) (bool, error) {
	found, err := st.core.Has([]byte(k), nil)
	switch {
	case err == leveldb.ErrNotFound:
		return false, nil
	case err != nil:
		return false, coreError(err)
	}

	return found, nil
}

func (st *LevelDBBackend) GetRaw(k string) ([]byte, error) {
	b, err := st.core.Get([]byte(k), nil)
	switch {
	case err == leveldb.ErrNotFound:
		return nil, errors.StorageRecordDoesNotExist
	case err != nil:
		return nil, coreError(err)
	}

	return b, nil
}

func (st *LevelDBBackend) Get(k string, v interface{}) error {
	b, err := st.GetRaw(k)
	if err != nil {
		return err
	}

	return coreError(common.DecodeJSONValue(b, v))
}

func encodeValue(v interface{}) ([]byte, error) {
	if s, ok := v.(common.Serializable); ok {
		return s.Serialize()
	}

	return common.EncodeJSONValue(v)
}

type writeMode int

const (
	writeAny writeMode = iota
	writeNew
	writeExisting
)

func (st *LevelDBBackend) checkMode(k string, mode writeMode) error {
	if mode == writeAny {
		return nil
	}

	exists, err := st.Has(k)
	switch {
	case err != nil:
		return err
	case exists && mode == writeNew:
		return errors.StorageRecordAlreadyExists
	case !exists && mode == writeExisting:
		return errors.StorageRecordDoesNotExist
	}

	return nil
}

func (st *LevelDBBackend) write(k string, v interface{}, mode writeMode) error {
	encoded, err := encodeValue(v)
	if err != nil {
		return coreError(err)
	}
	if err := st.checkMode(k, mode); err != nil {
		return err
	}

	return coreError(st.core.Put([]byte(k), encoded, nil))
}

// New stores a new record; it fails when `k` already exists.
func (st *LevelDBBackend) New(k string, v interface{}) error {
	return st.write(k, v, writeNew)
}

// Set updates the existing record; it fails when `k` does not exist.
func (st *LevelDBBackend) Set(k string, v interface{}) error {
	return st.write(k, v, writeExisting)
}

// Put stores the record whether `k` exists or not.
func (st *LevelDBBackend) Put(k string, v interface{}) error {
	return st.write(k, v, writeAny)
}

// News stores all the items in one batch, or none of them when one key
// already exists.
func (st *LevelDBBackend) News(items ...Item) error {
	if len(items) < 1 {
		return coreError(fmt.Errorf("empty values"))
	}

	batch := new(leveldb.Batch)
	for _, item := range items {
		if err := st.checkMode(item.Key, writeNew); err != nil {
			return err
		}

		encoded, err := encodeValue(item.Value)
		if err != nil {
			return coreError(err)
		}
		batch.Put([]byte(item.Key), encoded)
	}

	return coreError(st.core.Write(batch, nil))
}

func (st *LevelDBBackend) Remove(k string) error {
	if err := st.checkMode(k, writeExisting); err != nil {
		return err
	}

	return coreError(st.core.Delete([]byte(k), nil))
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}

	return append([]byte(nil), b...)
}

// GetIterator walks the records under `prefix`. The cursor is inclusive; in
// reverse order it starts from the last key which is not greater than the
// cursor. The second function releases the iterator early.
func (st *LevelDBBackend) GetIterator(prefix string, options ListOptions) (func() (IterItem, bool), func()) {
	var (
		reverse bool
		cursor  []byte
		limit   uint64
	)
	if options != nil {
		reverse = options.Reverse()
		cursor = options.Cursor()
		limit = options.Limit()
	}

	var keyRange *leveldbUtil.Range
	if len(prefix) > 0 {
		keyRange = leveldbUtil.BytesPrefix([]byte(prefix))
	}
	iter := st.core.NewIterator(keyRange, nil)

	first := func() bool {
		switch {
		case len(cursor) > 0 && reverse:
			if !iter.Seek(cursor) {
				return iter.Last()
			}
			if bytes.Equal(iter.Key(), cursor) {
				return true
			}
			return iter.Prev()
		case len(cursor) > 0:
			return iter.Seek(cursor)
		case reverse:
			return iter.Last()
		default:
			return iter.First()
		}
	}

	var n uint64
	next := func() (IterItem, bool) {
		if limit > 0 && n >= limit {
			iter.Release()
			return IterItem{}, false
		}

		var ok bool
		switch {
		case n == 0:
			ok = first()
		case reverse:
			ok = iter.Prev()
		default:
			ok = iter.Next()
		}
		if !ok {
			iter.Release()
			return IterItem{}, false
		}

		n++
		return IterItem{N: n, Key: cloneBytes(iter.Key()), Value: cloneBytes(iter.Value())}, true
	}

	return next, iter.Release
}
