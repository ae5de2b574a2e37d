package client

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/AlexZinkM/wave-portal/wave"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/accounts/external"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// externalSigner is the part of the clef API the provider uses
type externalSigner interface {
	Accounts() []accounts.Account
	SignTx(account accounts.Account, tx *types.Transaction, chainID *big.Int) (*types.Transaction, error)
}

// ClefProvider is a wallet provider backed by a clef external signer. Every
// account listing and every signature is approved by the user in clef.
type ClefProvider struct {
	endpoint string
	chainID  *big.Int
	dial     func(endpoint string) (externalSigner, error)

	mu         sync.Mutex
	signer     externalSigner
	authorized []common.Address
}

// NewClefProvider creates a provider for the clef instance at endpoint.
// The connection is opened on the first account request.
func NewClefProvider(endpoint string, chainID *big.Int) *ClefProvider {
	return &ClefProvider{
		endpoint: endpoint,
		chainID:  chainID,
		dial: func(endpoint string) (externalSigner, error) {
			return external.NewExternalSigner(endpoint)
		},
	}
}

func (p *ClefProvider) connect() (externalSigner, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.signer != nil {
		return p.signer, nil
	}
	signer, err := p.dial(p.endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to clef at %s: %w", p.endpoint, err)
	}
	p.signer = signer
	return signer, nil
}

// Accounts returns the accounts approved by an earlier RequestAccounts
func (p *ClefProvider) Accounts(ctx context.Context) ([]common.Address, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]common.Address(nil), p.authorized...), nil
}

// RequestAccounts asks clef to list accounts, which the user must approve
func (p *ClefProvider) RequestAccounts(ctx context.Context) ([]common.Address, error) {
	signer, err := p.connect()
	if err != nil {
		return nil, err
	}

	// clef reports a denied listing as an empty result
	listed := signer.Accounts()
	if len(listed) == 0 {
		return nil, fmt.Errorf("%w: clef returned no accounts", wave.ErrUserRejected)
	}

	addresses := make([]common.Address, 0, len(listed))
	for _, a := range listed {
		addresses = append(addresses, a.Address)
	}

	p.mu.Lock()
	p.authorized = addresses
	p.mu.Unlock()
	return append([]common.Address(nil), addresses...), nil
}

// Transactor returns signing options that route signatures through clef
func (p *ClefProvider) Transactor(ctx context.Context, account common.Address) (*bind.TransactOpts, error) {
	signer, err := p.connect()
	if err != nil {
		return nil, err
	}
	return &bind.TransactOpts{
		From:    account,
		Context: ctx,
		Signer: func(address common.Address, tx *types.Transaction) (*types.Transaction, error) {
			if address != account {
				return nil, bind.ErrNotAuthorized
			}
			signed, err := signer.SignTx(accounts.Account{Address: address}, tx, p.chainID)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", wave.ErrUserRejected, err)
			}
			return signed, nil
		},
	}, nil
}

var (
	_ wave.Provider = (*ClefProvider)(nil)
	_ wave.Provider = (*KeystoreProvider)(nil)
)
