package wallet

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"strings"
	"testing"
	"time"

	"vyns/internal/common"

	"github.com/stellar/go/keypair"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSolanaKey(t *testing.T) (string, ed25519.PrivateKey) {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	return EncodeSolanaAddress(pub), priv
}

func TestVerify_Solana(t *testing.T) {
	v := NewVerifier()
	address, priv := newSolanaKey(t)
	otherAddress, otherPriv := newSolanaKey(t)
	msg := LoginMessage(address, time.Now())
	sig := ed25519.Sign(priv, []byte(msg))

	t.Run("base64 signature from own key", func(t *testing.T) {
		ok, err := v.Verify(ChainSolana, address, msg, base64.StdEncoding.EncodeToString(sig))
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("hex signature from own key", func(t *testing.T) {
		ok, err := v.Verify(ChainSolana, address, msg, hex.EncodeToString(sig))
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("signature from another key is false, not an error", func(t *testing.T) {
		otherSig := ed25519.Sign(otherPriv, []byte(msg))
		ok, err := v.Verify(ChainSolana, address, msg, base64.StdEncoding.EncodeToString(otherSig))
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("signature over another message is false", func(t *testing.T) {
		ok, err := v.Verify(ChainSolana, address, msg+"!", base64.StdEncoding.EncodeToString(sig))
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("signature checked against the wrong address is false", func(t *testing.T) {
		ok, err := v.Verify(ChainSolana, otherAddress, msg, base64.StdEncoding.EncodeToString(sig))
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestVerify_Stellar(t *testing.T) {
	v := NewVerifier()
	kp, err := keypair.Random()
	require.NoError(t, err)
	other, err := keypair.Random()
	require.NoError(t, err)

	msg := LoginMessage(kp.Address(), time.Now())
	sig, err := kp.Sign([]byte(msg))
	require.NoError(t, err)
	otherSig, err := other.Sign([]byte(msg))
	require.NoError(t, err)

	ok, err := v.Verify(ChainStellar, kp.Address(), msg, base64.StdEncoding.EncodeToString(sig))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = v.Verify(ChainStellar, kp.Address(), msg, base64.StdEncoding.EncodeToString(otherSig))
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = v.Verify(ChainStellar, "GNOTAKEY", msg, base64.StdEncoding.EncodeToString(sig))
	assert.True(t, errors.Is(err, ErrInvalidKeyFormat))
}

func TestVerify_MalformedInput(t *testing.T) {
	v := NewVerifier()
	address, priv := newSolanaKey(t)
	goodSig := base64.StdEncoding.EncodeToString(ed25519.Sign(priv, []byte("hello")))

	tests := []struct {
		name      string
		chain     Chain
		address   string
		signature string
		wantErr   error
	}{
		{"address with non-base58 characters", ChainSolana, "0OIl" + address[4:], goodSig, ErrInvalidKeyFormat},
		{"address of the wrong length", ChainSolana, EncodeSolanaAddress(make([]byte, 16)), goodSig, ErrInvalidKeyFormat},
		{"signature that is not base64 or hex", ChainSolana, address, "%%%not-a-signature%%%", ErrInvalidSignatureFormat},
		{"signature of the wrong length", ChainSolana, address, base64.StdEncoding.EncodeToString([]byte("short")), ErrInvalidSignatureFormat},
		{"unknown chain", Chain("ethereum"), address, goodSig, ErrUnsupportedChain},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := v.Verify(tt.chain, tt.address, "hello", tt.signature)
			assert.False(t, ok)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			assert.Equal(t, common.KindValidation, common.KindOf(err))
		})
	}
}

func TestParseChain(t *testing.T) {
	c, err := ParseChain("")
	require.NoError(t, err)
	assert.Equal(t, ChainSolana, c)

	c, err = ParseChain(" Stellar ")
	require.NoError(t, err)
	assert.Equal(t, ChainStellar, c)

	_, err = ParseChain("bitcoin")
	assert.ErrorIs(t, err, ErrUnsupportedChain)
}

func TestKeypairProvider_SignsVerifiableMessages(t *testing.T) {
	v := NewVerifier()
	ctx := context.Background()

	for _, chain := range []Chain{ChainSolana, ChainStellar} {
		t.Run(string(chain), func(t *testing.T) {
			p, err := NewKeypairProvider(chain)
			require.NoError(t, err)
			assert.Equal(t, chain, p.Chain())

			_, err = p.SignMessage(ctx, "too early")
			assert.ErrorIs(t, err, ErrNotConnected)

			address, err := p.Connect(ctx)
			require.NoError(t, err)
			assert.Equal(t, p.Address(), address)

			msg := LoginMessage(address, time.UnixMilli(1700000000000))
			assert.True(t, strings.HasSuffix(msg, "Timestamp: 1700000000000"))

			sig, err := p.SignMessage(ctx, msg)
			require.NoError(t, err)

			ok, err := v.Verify(chain, address, msg, sig)
			require.NoError(t, err)
			assert.True(t, ok)

			require.NoError(t, p.Disconnect(ctx))
			_, err = p.SignMessage(ctx, msg)
			assert.ErrorIs(t, err, ErrNotConnected)
		})
	}

	_, err := NewKeypairProvider(Chain("dogecoin"))
	assert.ErrorIs(t, err, ErrUnsupportedChain)
}
