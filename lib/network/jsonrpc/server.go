package jsonrpc

import (
	"net/http"

	"github.com/gorilla/rpc"
	rpcjson "github.com/gorilla/rpc/json"

	"github.com/photonwings/lottery-smart-contract/lib/raffle"
	"github.com/photonwings/lottery-smart-contract/lib/storage"
)

const DefaultPath = "/jsonrpc"

// Server exposes the raffle operations used by keepers and oracles, and a
// read only view of the storage. Only the fulfillments signed by the
// `coordinator` address are accepted; with an empty address every
// fulfillment is rejected.
type Server struct {
	engine      *raffle.Engine
	st          *storage.LevelDBBackend
	coordinator string
}

func NewServer(engine *raffle.Engine, st *storage.LevelDBBackend, coordinator string) *Server {
	return &Server{
		engine:      engine,
		st:          st,
		coordinator: coordinator,
	}
}

type internalServer struct {
	*rpc.Server
}

func (s *internalServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set(
		"Access-Control-Allow-Headers",
		"Accept, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization",
	)

	if r.Method == "OPTIONS" {
		return
	}

	s.Server.ServeHTTP(w, r)
}

// Handler registers the "Raffle" and "DB" services.
func (s *Server) Handler() (http.Handler, error) {
	is := &internalServer{Server: rpc.NewServer()}
	is.RegisterCodec(rpcjson.NewCodec(), "application/json")
	is.RegisterCodec(rpcjson.NewCodec(), "application/json;charset=UTF-8")

	if err := is.RegisterService(&RaffleService{engine: s.engine, coordinator: s.coordinator}, "Raffle"); err != nil {
		return nil, err
	}
	if err := is.RegisterService(&DBService{st: s.st}, "DB"); err != nil {
		return nil, err
	}

	return is, nil
}
