package common

import (
	"encoding/hex"
	"testing"

	"github.com/btcsuite/btcutil/base58"
	"github.com/stretchr/testify/require"
)

func TestMakeHash(t *testing.T) {
	require.Equal(
		t,
		"c5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470",
		hex.EncodeToString(MakeHash(nil)),
	)
}

func TestMakeObjectHash(t *testing.T) {
	type record struct {
		Winner string
		Amount Amount
	}

	a := record{Winner: "showme", Amount: Amount(100)}
	b := record{Winner: "showme", Amount: Amount(101)}

	ha, err := MakeObjectHash(a)
	require.NoError(t, err)
	require.Equal(t, 32, len(ha))

	again, err := MakeObjectHash(a)
	require.NoError(t, err)
	require.Equal(t, ha, again)

	hb, err := MakeObjectHash(b)
	require.NoError(t, err)
	require.NotEqual(t, ha, hb)

	s, err := MakeObjectHashString(a)
	require.NoError(t, err)
	require.Equal(t, ha, base58.Decode(s))
}

func TestMakeObjectHashUnsupported(t *testing.T) {
	type signed struct {
		Timestamp int64
	}

	_, err := MakeObjectHash(signed{Timestamp: 1})
	require.Error(t, err)

	_, err = MakeObjectHashString(signed{Timestamp: 1})
	require.Error(t, err)
}
