package storage

import (
	"fmt"
	"io/ioutil"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/photonwings/lottery-smart-contract/lib/errors"
)

func TestLevelDBBackendInitFileStorage(t *testing.T) {
	path, _ := ioutil.TempDir("", "lottery")
	defer CleanDB(path)

	config, err := NewConfigFromString("file://" + path)
	require.NoError(t, err)
	require.Equal(t, path, config.Path)

	st := &LevelDBBackend{}
	require.NoError(t, st.Init(config))
	require.NoError(t, st.Close())
}

func TestLevelDBBackendInitMemStorage(t *testing.T) {
	config, err := NewConfigFromString("memory://")
	require.NoError(t, err)

	st := &LevelDBBackend{}
	require.NoError(t, st.Init(config))
	require.NoError(t, st.Close())
}

func TestNewConfigFromStringUnknownScheme(t *testing.T) {
	_, err := NewConfigFromString("showme://killme")
	require.Error(t, err)

	_, err = NewConfigFromString("file://")
	require.Error(t, err)
}

func TestLevelDBBackendNew(t *testing.T) {
	st := NewTestStorage()
	defer st.Close()

	key := uuid.New().String()
	input := map[int]string{
		90: "99",
		91: "91",
		92: "92",
	}
	require.NoError(t, st.New(key, input))

	fetched := map[int]string{}
	require.NoError(t, st.Get(key, &fetched))
	require.Equal(t, input, fetched)

	err := st.New(key, input)
	require.Equal(t, errors.StorageRecordAlreadyExists, err)
}

func TestLevelDBBackendNews(t *testing.T) {
	st := NewTestStorage()
	defer st.Close()

	var items []Item
	for i := 0; i < 10; i++ {
		items = append(items, Item{Key: uuid.New().String(), Value: i})
	}
	require.NoError(t, st.News(items...))

	for _, item := range items {
		var fetched int
		require.NoError(t, st.Get(item.Key, &fetched))
		require.Equal(t, item.Value, fetched)
	}

	require.Equal(t, errors.StorageRecordAlreadyExists, st.News(items[0]))
}

func TestLevelDBBackendHas(t *testing.T) {
	st := NewTestStorage()
	defer st.Close()

	key := uuid.New().String()

	exists, err := st.Has(key)
	require.NoError(t, err)
	require.False(t, exists)

	require.NoError(t, st.New(key, "findme"))

	exists, err = st.Has(key)
	require.NoError(t, err)
	require.True(t, exists)
}

func TestLevelDBBackendGetMissing(t *testing.T) {
	st := NewTestStorage()
	defer st.Close()

	var v string
	err := st.Get(uuid.New().String(), &v)
	require.Equal(t, errors.StorageRecordDoesNotExist, err)
}

func TestLevelDBBackendSet(t *testing.T) {
	st := NewTestStorage()
	defer st.Close()

	key := uuid.New().String()
	require.Equal(t, errors.StorageRecordDoesNotExist, st.Set(key, "showme"))

	require.NoError(t, st.New(key, "showme"))
	require.NoError(t, st.Set(key, "killme"))

	var fetched string
	require.NoError(t, st.Get(key, &fetched))
	require.Equal(t, "killme", fetched)
}

func TestLevelDBBackendPut(t *testing.T) {
	st := NewTestStorage()
	defer st.Close()

	key := uuid.New().String()
	require.NoError(t, st.Put(key, "showme"))
	require.NoError(t, st.Put(key, "killme"))

	var fetched string
	require.NoError(t, st.Get(key, &fetched))
	require.Equal(t, "killme", fetched)
}

func TestLevelDBBackendRemove(t *testing.T) {
	st := NewTestStorage()
	defer st.Close()

	key := uuid.New().String()
	require.Equal(t, errors.StorageRecordDoesNotExist, st.Remove(key))

	require.NoError(t, st.New(key, "showme"))
	require.NoError(t, st.Remove(key))

	exists, err := st.Has(key)
	require.NoError(t, err)
	require.False(t, exists)
}

func TestLevelDBBackendTransaction(t *testing.T) {
	st := NewTestStorage()
	defer st.Close()

	{ // commit
		ts, err := st.OpenTransaction()
		require.NoError(t, err)
		require.True(t, ts.IsTransaction())

		require.NoError(t, ts.New("showme", 1))

		exists, _ := st.Has("showme")
		require.False(t, exists)

		require.NoError(t, ts.Commit())

		exists, _ = st.Has("showme")
		require.True(t, exists)
	}

	{ // discard
		ts, err := st.OpenTransaction()
		require.NoError(t, err)

		require.NoError(t, ts.New("killme", 1))
		require.NoError(t, ts.Discard())

		exists, _ := st.Has("killme")
		require.False(t, exists)
	}

	{ // nested transaction is not allowed
		ts, err := st.OpenTransaction()
		require.NoError(t, err)
		defer ts.Discard()

		_, err = ts.OpenTransaction()
		require.Error(t, err)
	}

	require.Error(t, st.Commit())
	require.Error(t, st.Discard())
}

func prepareIteratorStorage(t *testing.T, total int) (*LevelDBBackend, []string) {
	st := NewTestStorage()

	var keys []string
	for i := 0; i < total; i++ {
		key := fmt.Sprintf("%03d", i)
		require.NoError(t, st.New(key, i))
		keys = append(keys, key)
	}

	return st, keys
}

func collectKeys(st *LevelDBBackend, prefix string, option ListOptions) []string {
	var collected []string
	it, closeFunc := st.GetIterator(prefix, option)
	defer closeFunc()

	for {
		v, hasNext := it()
		if !hasNext {
			break
		}
		collected = append(collected, string(v.Key))
	}

	return collected
}

func TestLevelDBIterator(t *testing.T) {
	st, expected := prepareIteratorStorage(t, 300)
	defer st.Close()

	require.Equal(t, expected, collectKeys(st, "", NewDefaultListOptions(false, nil, 0)))
	require.Equal(t, expected, collectKeys(st, "", nil))
}

func TestLevelDBIteratorPrefix(t *testing.T) {
	st, expected := prepareIteratorStorage(t, 300)
	defer st.Close()

	require.Equal(t, expected[100:200], collectKeys(st, "1", nil))
}

func TestLevelDBIteratorSeek(t *testing.T) {
	st, expected := prepareIteratorStorage(t, 300)
	defer st.Close()

	option := NewDefaultListOptions(false, []byte("100"), 0)
	require.Equal(t, expected[100:], collectKeys(st, "", option))
}

func TestLevelDBIteratorLimit(t *testing.T) {
	st, expected := prepareIteratorStorage(t, 300)
	defer st.Close()

	option := NewDefaultListOptions(false, nil, 100)
	require.Equal(t, expected[:100], collectKeys(st, "", option))
}

func TestLevelDBIteratorReverseOrder(t *testing.T) {
	st, keys := prepareIteratorStorage(t, 30)
	defer st.Close()

	var expected []string
	for i := len(keys) - 1; i >= 0; i-- {
		expected = append(expected, keys[i])
	}

	require.Equal(t, expected, collectKeys(st, "", NewDefaultListOptions(true, nil, 0)))

	{ // with cursor and limit
		option := NewDefaultListOptions(true, []byte("020"), 5)
		require.Equal(t, expected[9:14], collectKeys(st, "", option))
	}
}

func TestNewDefaultListOptionsFromQuery(t *testing.T) {
	option, err := NewDefaultListOptionsFromQuery(NewDefaultListOptions(true, []byte("020"), 5).URLValues())
	require.NoError(t, err)
	require.True(t, option.Reverse())
	require.Equal(t, []byte("020"), option.Cursor())
	require.Equal(t, uint64(5), option.Limit())

	option, err = NewDefaultListOptionsFromQuery(nil)
	require.NoError(t, err)
	require.False(t, option.Reverse())
	require.Equal(t, DefaultMaxLimitListOptions, option.Limit())

	_, err = NewDefaultListOptionsFromQuery(map[string][]string{"limit": {"showme"}})
	require.Error(t, err)
}
