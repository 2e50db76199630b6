// Package wallet verifies that a signature was produced by the private key
// behind a wallet address, and provides keypair-backed wallet adapters.
package wallet

import (
	"crypto/ed25519"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"vyns/internal/common"

	"github.com/mr-tron/base58"
	"github.com/stellar/go/keypair"
)

// Chain selects the address and signature scheme of a wallet.
type Chain string

const (
	ChainSolana  Chain = "solana"
	ChainStellar Chain = "stellar"
)

var (
	ErrInvalidKeyFormat       = common.NewError(common.KindValidation, "Invalid wallet address")
	ErrInvalidSignatureFormat = common.NewError(common.KindValidation, "Invalid signature encoding")
	ErrUnsupportedChain       = common.NewError(common.KindValidation, "Unsupported wallet chain")
)

var hexSignature = regexp.MustCompile(`^[0-9a-fA-F]{128}$`)

// ParseChain maps a request value to a Chain. Empty means Solana.
func ParseChain(s string) (Chain, error) {
	switch Chain(strings.ToLower(strings.TrimSpace(s))) {
	case "", ChainSolana:
		return ChainSolana, nil
	case ChainStellar:
		return ChainStellar, nil
	default:
		return "", ErrUnsupportedChain
	}
}

// Verifier checks detached ed25519 signatures over a plain-text message.
type Verifier struct{}

func NewVerifier() *Verifier {
	return &Verifier{}
}

// Verify reports whether signature was made by address's key over exactly
// message. A mismatch is (false, nil); only malformed input is an error.
func (v *Verifier) Verify(chain Chain, address, message, signature string) (bool, error) {
	sig, err := DecodeSignature(signature)
	if err != nil {
		return false, err
	}

	switch chain {
	case ChainSolana:
		pub, err := DecodeSolanaAddress(address)
		if err != nil {
			return false, err
		}
		return ed25519.Verify(pub, []byte(message), sig), nil

	case ChainStellar:
		kp, err := keypair.ParseAddress(address)
		if err != nil {
			return false, fmt.Errorf("%w: %v", ErrInvalidKeyFormat, err)
		}
		if err := kp.Verify([]byte(message), sig); err != nil {
			if errors.Is(err, keypair.ErrInvalidSignature) {
				return false, nil
			}
			return false, fmt.Errorf("stellar verify: %w", err)
		}
		return true, nil

	default:
		return false, ErrUnsupportedChain
	}
}

// DecodeSolanaAddress decodes a base58 Solana address into an ed25519 public key.
func DecodeSolanaAddress(address string) (ed25519.PublicKey, error) {
	raw, err := base58.Decode(address)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKeyFormat, err)
	}
	if len(raw) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("%w: want %d bytes, got %d", ErrInvalidKeyFormat, ed25519.PublicKeySize, len(raw))
	}
	return ed25519.PublicKey(raw), nil
}

// EncodeSolanaAddress is the inverse of DecodeSolanaAddress.
func EncodeSolanaAddress(pub ed25519.PublicKey) string {
	return base58.Encode(pub)
}

// DecodeSignature accepts a 64-byte signature as 128 hex characters or as
// standard, unpadded or URL-safe base64.
func DecodeSignature(signature string) ([]byte, error) {
	s := strings.TrimSpace(signature)
	if hexSignature.MatchString(s) {
		raw, err := hex.DecodeString(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidSignatureFormat, err)
		}
		return raw, nil
	}

	for _, enc := range []*base64.Encoding{base64.StdEncoding, base64.RawStdEncoding, base64.URLEncoding, base64.RawURLEncoding} {
		raw, err := enc.DecodeString(s)
		if err != nil {
			continue
		}
		if len(raw) != ed25519.SignatureSize {
			return nil, fmt.Errorf("%w: want %d bytes, got %d", ErrInvalidSignatureFormat, ed25519.SignatureSize, len(raw))
		}
		return raw, nil
	}
	return nil, ErrInvalidSignatureFormat
}
