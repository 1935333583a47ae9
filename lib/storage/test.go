package storage

import "os"

func CleanDB(path string) {
	os.RemoveAll(path)
}

func NewTestMemoryLevelDBBackend() (*LevelDBBackend, error) {
	config, err := NewConfigFromString("memory://")
	if err != nil {
		return nil, err
	}

	st := &LevelDBBackend{}
	if err := st.Init(config); err != nil {
		return nil, err
	}

	return st, nil
}

// NewTestStorage returns an empty memory backend and panics on failure.
func NewTestStorage() *LevelDBBackend {
	st, err := NewTestMemoryLevelDBBackend()
	if err != nil {
		panic(err)
	}

	return st
}
