package raffle

import (
	"math/big"

	"github.com/photonwings/lottery-smart-contract/lib/errors"
)

// ParseWords parses the random words from their decimal strings. Words are
// 256 bit integers, so they do not fit in a json number.
func ParseWords(l []string) ([]*big.Int, error) {
	var words []*big.Int
	for _, s := range l {
		w, ok := new(big.Int).SetString(s, 10)
		if !ok || w.Sign() < 0 {
			return nil, errors.InvalidRandomWords.Clone().SetData("word", s)
		}
		words = append(words, w)
	}

	return words, nil
}

func FormatWords(words []*big.Int) []string {
	l := make([]string, len(words))
	for i, w := range words {
		l[i] = w.String()
	}

	return l
}
