package jsonrpc

import (
	"net/http"

	"github.com/photonwings/lottery-smart-contract/lib/storage"
)

// MaxLimitListOptions caps `DB.GetIterator`; a zero limit asks for the cap.
const MaxLimitListOptions uint64 = 10000

type (
	DBHasArgs   string
	DBHasResult bool

	DBGetArgs   string
	DBGetResult storage.IterItem
)

type GetIteratorOptions struct {
	Reverse bool   `json:"reverse"`
	Cursor  []byte `json:"cursor"`
	Limit   uint64 `json:"limit"`
}

type DBGetIteratorArgs struct {
	Prefix  string             `json:"prefix"`
	Options GetIteratorOptions `json:"options"`
}

type DBGetIteratorResult struct {
	Limit uint64             `json:"limit"`
	Items []storage.IterItem `json:"items"`
}

// DBService reads the raw records, e.g. "raffle-round" or the
// "raffle-result-" prefix. It never writes.
type DBService struct {
	st *storage.LevelDBBackend
}

func (s *DBService) Has(_ *http.Request, args *DBHasArgs, result *DBHasResult) error {
	found, err := s.st.Has(string(*args))
	if err != nil {
		return err
	}
	*result = DBHasResult(found)

	return nil
}

func (s *DBService) Get(_ *http.Request, args *DBGetArgs, result *DBGetResult) error {
	b, err := s.st.GetRaw(string(*args))
	if err != nil {
		return err
	}
	*result = DBGetResult{Key: []byte(*args), Value: b}

	return nil
}

func (s *DBService) GetIterator(_ *http.Request, args *DBGetIteratorArgs, result *DBGetIteratorResult) error {
	limit := args.Options.Limit
	if limit < 1 || limit > MaxLimitListOptions {
		limit = MaxLimitListOptions
	}

	next, release := s.st.GetIterator(
		args.Prefix,
		storage.NewDefaultListOptions(args.Options.Reverse, args.Options.Cursor, limit),
	)
	defer release()

	result.Limit = limit
	result.Items = []storage.IterItem{}
	for item, ok := next(); ok; item, ok = next() {
		result.Items = append(result.Items, item)
	}

	return nil
}
