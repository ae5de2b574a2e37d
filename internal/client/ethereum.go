package client

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/ethclient"
)

// EthereumClient is a node connection with a resolved chain ID
type EthereumClient struct {
	*ethclient.Client
	rpcURL  string
	chainID *big.Int
}

// DialEthereum connects to rpcURL. A chainID of 0 is resolved from the node.
func DialEthereum(ctx context.Context, rpcURL string, chainID int64) (*EthereumClient, error) {
	c, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", rpcURL, err)
	}

	id := big.NewInt(chainID)
	if chainID == 0 {
		id, err = c.ChainID(ctx)
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("failed to get chain id: %w", err)
		}
	}

	return &EthereumClient{
		Client:  c,
		rpcURL:  rpcURL,
		chainID: id,
	}, nil
}

// SigningChainID returns the chain ID used to sign transactions
func (c *EthereumClient) SigningChainID() *big.Int {
	return new(big.Int).Set(c.chainID)
}

// URL returns the endpoint the client is connected to
func (c *EthereumClient) URL() string {
	return c.rpcURL
}
