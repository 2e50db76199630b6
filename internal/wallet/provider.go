package wallet

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"sync"

	"github.com/stellar/go/keypair"
)

var ErrNotConnected = errors.New("wallet not connected")

// Provider is the client side of a wallet: connect to learn the address,
// sign login messages, disconnect. One adapter exists per supported chain.
type Provider interface {
	Chain() Chain
	Connect(ctx context.Context) (string, error)
	SignMessage(ctx context.Context, message string) (string, error)
	Disconnect(ctx context.Context) error
}

type signer interface {
	address() string
	sign(msg []byte) ([]byte, error)
}

// KeypairProvider is a Provider backed by a locally held private key. It is
// what tooling and tests use in place of a browser wallet extension.
type KeypairProvider struct {
	chain  Chain
	signer signer

	mu        sync.Mutex
	connected bool
}

// NewKeypairProvider creates a provider for chain with a freshly generated key.
func NewKeypairProvider(chain Chain) (*KeypairProvider, error) {
	switch chain {
	case ChainSolana:
		_, priv, err := ed25519.GenerateKey(rand.Reader)
		if err != nil {
			return nil, fmt.Errorf("generate solana key: %w", err)
		}
		return &KeypairProvider{chain: chain, signer: solanaSigner{priv: priv}}, nil
	case ChainStellar:
		kp, err := keypair.Random()
		if err != nil {
			return nil, fmt.Errorf("generate stellar key: %w", err)
		}
		return &KeypairProvider{chain: chain, signer: stellarSigner{kp: kp}}, nil
	default:
		return nil, ErrUnsupportedChain
	}
}

// NewSolanaProvider wraps an existing ed25519 private key.
func NewSolanaProvider(priv ed25519.PrivateKey) *KeypairProvider {
	return &KeypairProvider{chain: ChainSolana, signer: solanaSigner{priv: priv}}
}

func (p *KeypairProvider) Chain() Chain { return p.chain }

// Address is available without connecting.
func (p *KeypairProvider) Address() string { return p.signer.address() }

func (p *KeypairProvider) Connect(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.connected = true
	return p.signer.address(), nil
}

// SignMessage returns the base64 detached signature of message.
func (p *KeypairProvider) SignMessage(ctx context.Context, message string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	p.mu.Lock()
	connected := p.connected
	p.mu.Unlock()
	if !connected {
		return "", ErrNotConnected
	}

	sig, err := p.signer.sign([]byte(message))
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(sig), nil
}

func (p *KeypairProvider) Disconnect(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.connected = false
	return nil
}

type solanaSigner struct {
	priv ed25519.PrivateKey
}

func (s solanaSigner) address() string {
	return EncodeSolanaAddress(s.priv.Public().(ed25519.PublicKey))
}

func (s solanaSigner) sign(msg []byte) ([]byte, error) {
	return ed25519.Sign(s.priv, msg), nil
}

type stellarSigner struct {
	kp *keypair.Full
}

func (s stellarSigner) address() string { return s.kp.Address() }

func (s stellarSigner) sign(msg []byte) ([]byte, error) {
	return s.kp.Sign(msg)
}
