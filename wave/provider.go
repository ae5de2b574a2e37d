// Package wave implements the wave portal core: the wallet session, the
// contract gateway, the country directory and the wave feed.
package wave

import (
	"context"
	"math/big"

	"github.com/AlexZinkM/wave-portal/internal/contract"
	"github.com/AlexZinkM/wave-portal/internal/model"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/event"
)

// Provider is the wallet capability injected into the session and the gateway.
type Provider interface {
	// Accounts returns the already authorized accounts without prompting (eth_accounts).
	Accounts(ctx context.Context) ([]common.Address, error)
	// RequestAccounts asks the user to authorize access (eth_requestAccounts).
	// A declined request returns an error wrapping ErrUserRejected.
	RequestAccounts(ctx context.Context) ([]common.Address, error)
	// Transactor returns signing options for an authorized account.
	Transactor(ctx context.Context, account common.Address) (*bind.TransactOpts, error)
}

// Ledger is the contract surface the gateway needs. *contract.WavePortal implements it.
type Ledger interface {
	GetAllWaves(opts *bind.CallOpts) ([]contract.WavePortalWave, error)
	GetTotalWaves(opts *bind.CallOpts) (*big.Int, error)
	Wave(opts *bind.TransactOpts, message string, countryCode string) (*types.Transaction, error)
	WatchNewWave(opts *bind.WatchOpts, sink chan<- *contract.WavePortalNewWave) (event.Subscription, error)
	FilterNewWave(opts *bind.FilterOpts) ([]*contract.WavePortalNewWave, error)
}

// Chain is the node surface used to wait for receipts and to poll for logs.
// *ethclient.Client implements it.
type Chain interface {
	bind.DeployBackend
	BlockNumber(ctx context.Context) (uint64, error)
}

// CountrySource fetches the country reference table
type CountrySource interface {
	FetchCountries(ctx context.Context) ([]model.Country, error)
}

// MediaSource fetches the decorative GIF
type MediaSource interface {
	FetchGIF(ctx context.Context, id string) (*model.Media, error)
}

var _ Ledger = (*contract.WavePortal)(nil)
