package key

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/photonwings/lottery-smart-contract/lib/common/keypair"
)

func TestGenerateKP(t *testing.T) {
	kp, err := generateKP("")
	require.NoError(t, err)
	require.True(t, keypair.IsValidAddress(kp.Address()))

	parsed, err := generateKP(kp.Seed())
	require.NoError(t, err)
	require.Equal(t, kp.Address(), parsed.Address())

	_, err = generateKP(kp.Address())
	require.Error(t, err)

	_, err = generateKP("showme")
	require.Error(t, err)
}

func TestKeyEncoders(t *testing.T) {
	kp, err := generateKP("")
	require.NoError(t, err)
	v := keyPair{Seed: kp.Seed(), Address: kp.Address()}

	var b bytes.Buffer
	require.NoError(t, encoders["oneline"](v, &b))
	require.Equal(t, kp.Seed()+" "+kp.Address()+"\n", b.String())

	b.Reset()
	require.NoError(t, encoders["default"](v, &b))
	require.True(t, strings.Contains(b.String(), "Public Address: "+kp.Address()))

	b.Reset()
	require.NoError(t, encoders["yaml"](v, &b))
	require.True(t, strings.Contains(b.String(), "address: "+kp.Address()))
}
