package raffle

import (
	"encoding/json"
	"fmt"
)

type State uint8

const (
	StateOpen State = iota
	StateCalculating
)

func (s State) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateCalculating:
		return "calculating"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(s))
	}
}

func (s State) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *State) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err != nil {
		return err
	}

	switch str {
	case "open":
		*s = StateOpen
	case "calculating":
		*s = StateCalculating
	default:
		return fmt.Errorf("unknown raffle state: %q", str)
	}

	return nil
}
