package ledger

import (
	"chat-relay/errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewSigner_From_Seed(t *testing.T) {
	req := require.New(t)
	generated, err := GenerateSigner()
	req.NoError(err)

	// When a signer is rebuilt from the generated seed
	restored, err := NewSigner(generated.Seed())

	// Then it has the same identity
	req.NoError(err)
	req.Equal(generated.Address(), restored.Address())

	signature := restored.Sign([]byte("payload"))
	req.True(Verify(generated.Address(), []byte("payload"), signature))
	req.False(Verify(generated.Address(), []byte("other"), signature))
	req.False(Verify("not-hex", []byte("payload"), signature))
}

func TestNewSigner_Invalid_Seed(t *testing.T) {
	for _, seed := range []string{"", "zz", "abcd"} {
		_, err := NewSigner(seed)
		require.ErrorIs(t, err, errors.ErrInvalidSignerSeed)
	}
}
