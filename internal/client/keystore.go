package client

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/AlexZinkM/wave-portal/internal/crypto"
	"github.com/AlexZinkM/wave-portal/wave"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

type passwordKey struct{}

// WithPassword attaches a key file password to ctx for KeystoreProvider.RequestAccounts
func WithPassword(ctx context.Context, password []byte) context.Context {
	return context.WithValue(ctx, passwordKey{}, password)
}

func passwordFrom(ctx context.Context) []byte {
	password, _ := ctx.Value(passwordKey{}).([]byte)
	return password
}

// KeystoreProvider is a wallet provider over an encrypted .cwt key file.
// Unlocking the file with its password is the user's authorization.
type KeystoreProvider struct {
	filePath string
	chainID  *big.Int

	mu      sync.RWMutex
	address common.Address
	key     *ecdsa.PrivateKey
}

// NewKeystoreProvider creates a locked provider for the key file at filePath
func NewKeystoreProvider(filePath string, chainID *big.Int) (*KeystoreProvider, error) {
	if filePath == "" {
		return nil, errors.New("WALLET_FILE_PATH not set")
	}
	address, err := crypto.ReadWalletAddress(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read wallet address: %w", err)
	}
	if !common.IsHexAddress(address) {
		return nil, fmt.Errorf("invalid address in key file: %q", address)
	}
	return &KeystoreProvider{
		filePath: filePath,
		chainID:  chainID,
		address:  common.HexToAddress(address),
	}, nil
}

// Address returns the address recorded in the key file
func (p *KeystoreProvider) Address() common.Address {
	return p.address
}

// Unlock decrypts the key file. A wrong password is reported as a user rejection.
// password must be []byte for security (caller should zero it after use)
func (p *KeystoreProvider) Unlock(password []byte) error {
	_, walletData, err := crypto.DecryptWallet(p.filePath, password)
	if err != nil {
		if errors.Is(err, crypto.ErrInvalidPassword) {
			return fmt.Errorf("%w: %v", wave.ErrUserRejected, err)
		}
		return fmt.Errorf("failed to decrypt wallet: %w", err)
	}
	defer clear(walletData.PrivateKey)

	key, err := ethcrypto.ToECDSA(walletData.PrivateKey)
	if err != nil {
		return fmt.Errorf("invalid private key: %w", err)
	}
	if ethcrypto.PubkeyToAddress(key.PublicKey) != p.address {
		return errors.New("private key does not match address")
	}

	p.mu.Lock()
	p.key = key
	p.mu.Unlock()
	return nil
}

// Unlocked reports whether the key is in memory
func (p *KeystoreProvider) Unlocked() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.key != nil
}

// Accounts returns the key file address once unlocked, and nothing before
func (p *KeystoreProvider) Accounts(ctx context.Context) ([]common.Address, error) {
	if !p.Unlocked() {
		return nil, nil
	}
	return []common.Address{p.address}, nil
}

// RequestAccounts unlocks the key file with the password carried by ctx
func (p *KeystoreProvider) RequestAccounts(ctx context.Context) ([]common.Address, error) {
	password := passwordFrom(ctx)
	if len(password) == 0 {
		if p.Unlocked() {
			return []common.Address{p.address}, nil
		}
		return nil, fmt.Errorf("%w: no password given", wave.ErrUserRejected)
	}
	if err := p.Unlock(password); err != nil {
		return nil, err
	}
	return []common.Address{p.address}, nil
}

// Transactor returns signing options for the unlocked key
func (p *KeystoreProvider) Transactor(ctx context.Context, account common.Address) (*bind.TransactOpts, error) {
	p.mu.RLock()
	key := p.key
	p.mu.RUnlock()

	if key == nil || account != p.address {
		return nil, fmt.Errorf("%w: account %s is not unlocked", wave.ErrUserRejected, account.Hex())
	}
	opts, err := bind.NewKeyedTransactorWithChainID(key, p.chainID)
	if err != nil {
		return nil, fmt.Errorf("failed to create transactor: %w", err)
	}
	opts.Context = ctx
	return opts, nil
}
