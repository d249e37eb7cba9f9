// Package evm provides the go-ethereum backed deployment facility.
package evm

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
)

// Client wraps an ethclient connection to one network.
type Client struct {
	rpcURL  string
	client  *ethclient.Client
	chainID *big.Int
}

// NewClient creates a new EVM client.
func NewClient(rpcURL string) *Client {
	return &Client{
		rpcURL: rpcURL,
	}
}

// Connect establishes a connection to the EVM RPC endpoint.
func (c *Client) Connect(ctx context.Context) error {
	client, err := ethclient.DialContext(ctx, c.rpcURL)
	if err != nil {
		return fmt.Errorf("failed to connect to EVM RPC: %w", redactErr(err))
	}
	c.client = client

	// Cache chain ID
	chainID, err := client.ChainID(ctx)
	if err != nil {
		client.Close()
		c.client = nil
		return fmt.Errorf("failed to get chain ID: %w", redactErr(err))
	}
	c.chainID = chainID

	return nil
}

// Backend returns the connected ethclient as a deployment backend.
func (c *Client) Backend() (Backend, error) {
	if c.client == nil {
		return nil, fmt.Errorf("client not connected")
	}
	return c.client, nil
}

// GetBalance retrieves the latest balance of an address in wei.
func (c *Client) GetBalance(ctx context.Context, address common.Address) (*big.Int, error) {
	if c.client == nil {
		return nil, fmt.Errorf("client not connected")
	}

	balance, err := c.client.BalanceAt(ctx, address, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get balance: %w", redactErr(err))
	}

	return balance, nil
}

// GetNonce retrieves the pending nonce for an address.
func (c *Client) GetNonce(ctx context.Context, address common.Address) (uint64, error) {
	if c.client == nil {
		return 0, fmt.Errorf("client not connected")
	}

	nonce, err := c.client.PendingNonceAt(ctx, address)
	if err != nil {
		return 0, fmt.Errorf("failed to get nonce: %w", redactErr(err))
	}

	return nonce, nil
}

// SuggestGasPrice returns the node's current gas price suggestion in wei.
func (c *Client) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	if c.client == nil {
		return nil, fmt.Errorf("client not connected")
	}

	price, err := c.client.SuggestGasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get gas price: %w", redactErr(err))
	}

	return price, nil
}

// ChainID returns the cached chain ID.
func (c *Client) ChainID() *big.Int {
	if c.chainID == nil {
		return nil
	}
	return new(big.Int).Set(c.chainID)
}

// Close closes the client connection.
func (c *Client) Close() error {
	if c.client != nil {
		c.client.Close()
		c.client = nil
	}
	return nil
}
