package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/sha3"
)

func TestSignRecoverRoundtrip(t *testing.T) {
	signer, err := NewSigner()
	require.NoError(t, err)

	digest := sha3.Sum256([]byte("approve me"))
	sig, err := signer.Sign(digest[:])
	require.NoError(t, err)
	require.Len(t, []byte(sig), SignatureLength)

	recovered, err := RecoverSigner(digest[:], sig)
	require.NoError(t, err)
	assert.Equal(t, signer.Address(), recovered)
}

func TestRecoverIsDeterministic(t *testing.T) {
	signer := SignerFromSeed([]byte("deterministic"))
	digest := sha3.Sum256([]byte("payload"))

	sig, err := signer.Sign(digest[:])
	require.NoError(t, err)

	first, err := RecoverSigner(digest[:], sig)
	require.NoError(t, err)
	second, err := RecoverSigner(digest[:], sig)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRecoverRejectsMalformedInput(t *testing.T) {
	signer := SignerFromSeed([]byte("key"))
	digest := sha3.Sum256([]byte("payload"))
	sig, err := signer.Sign(digest[:])
	require.NoError(t, err)

	cases := map[string]struct {
		digest []byte
		sig    Signature
	}{
		"short signature":  {digest: digest[:], sig: sig[:10]},
		"empty signature":  {digest: digest[:], sig: nil},
		"short digest":     {digest: digest[:16], sig: sig},
		"empty digest":     {digest: nil, sig: sig},
		"corrupted header": {digest: digest[:], sig: append(Signature{0xff}, sig[1:]...)},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := RecoverSigner(tc.digest, tc.sig)
			require.Error(t, err)
			assert.True(t, ErrInvalidSignature.Is(err), "want ErrInvalidSignature, got %+v", err)
		})
	}
}

func TestDifferentDigestRecoversDifferentSigner(t *testing.T) {
	// A signature moved to another digest must not recover the original
	// signer (with overwhelming probability it recovers garbage).
	signer := SignerFromSeed([]byte("key"))
	digest := sha3.Sum256([]byte("original"))
	other := sha3.Sum256([]byte("replayed"))

	sig, err := signer.Sign(digest[:])
	require.NoError(t, err)

	recovered, err := RecoverSigner(other[:], sig)
	if err != nil {
		return
	}
	assert.NotEqual(t, signer.Address(), recovered)
}

func TestSeededSignersAreStable(t *testing.T) {
	a := SignerFromSeed([]byte("seed"))
	b := SignerFromSeed([]byte("seed"))
	c := SignerFromSeed([]byte("other"))

	assert.Equal(t, a.Address(), b.Address())
	assert.NotEqual(t, a.Address(), c.Address())
	require.NoError(t, a.Address().Validate())
}
