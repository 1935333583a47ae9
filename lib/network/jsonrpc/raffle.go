package jsonrpc

import (
	"net/http"

	"github.com/photonwings/lottery-smart-contract/lib/raffle"
)

type CheckUpkeepArgs struct{}

type CheckUpkeepResult struct {
	UpkeepNeeded bool   `json:"upkeep_needed"`
	PerformData  []byte `json:"perform_data"`
}

type PerformUpkeepArgs struct {
	Proof []byte `json:"proof"`
}

type PerformUpkeepResult struct {
	RequestID raffle.RequestID `json:"request_id"`
}

// FulfillRandomnessArgs carries the words as decimal strings, signed by the
// coordinator.
type FulfillRandomnessArgs struct {
	RequestID   raffle.RequestID `json:"request_id"`
	RandomWords []string         `json:"random_words"`
	Signature   string           `json:"signature"`
}

type FulfillRandomnessResult struct {
	Round        uint64 `json:"round"`
	RecentWinner string `json:"recent_winner"`
}

type StateArgs struct{}

type StateResult raffle.Round

type RaffleService struct {
	engine      *raffle.Engine
	coordinator string
}

func (s *RaffleService) CheckUpkeep(r *http.Request, args *CheckUpkeepArgs, result *CheckUpkeepResult) error {
	result.UpkeepNeeded, result.PerformData = s.engine.CheckUpkeep()
	return nil
}

func (s *RaffleService) PerformUpkeep(r *http.Request, args *PerformUpkeepArgs, result *PerformUpkeepResult) error {
	id, err := s.engine.PerformUpkeep(r.Context(), args.Proof)
	if err != nil {
		return err
	}

	result.RequestID = id
	return nil
}

func (s *RaffleService) FulfillRandomness(r *http.Request, args *FulfillRandomnessArgs, result *FulfillRandomnessResult) error {
	words, err := raffle.ParseWords(args.RandomWords)
	if err != nil {
		return err
	}

	if err := raffle.VerifyFulfillment(s.coordinator, args.RequestID, words, args.Signature); err != nil {
		return err
	}

	if err := s.engine.FulfillRandomness(args.RequestID, words); err != nil {
		return err
	}

	round := s.engine.Round()
	result.Round = round.Number
	result.RecentWinner = round.RecentWinner

	return nil
}

func (s *RaffleService) State(r *http.Request, args *StateArgs, result *StateResult) error {
	*result = StateResult(*s.engine.Round())
	return nil
}
