// Package deploy runs the one-shot deployment procedure: request deployment of
// a named contract, wait for confirmation, report the address.
package deploy

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// DefaultContract is deployed when no contract name is given.
const DefaultContract = "SocialMedia"

// Pending is a submitted, not yet confirmed deployment.
type Pending struct {
	Contract string
	// Address is where the contract will live once the transaction is mined.
	Address common.Address
	TxHash  common.Hash
	Tx      *types.Transaction
}

// Deployment is a confirmed deployment.
type Deployment struct {
	Contract    string
	Address     common.Address
	TxHash      common.Hash
	BlockNumber uint64
	GasUsed     uint64
}

// Facility publishes contracts on a chain. Implementations sign and broadcast
// the creation transaction and watch for its receipt.
type Facility interface {
	// DeployContract submits the creation transaction for the named contract.
	DeployContract(ctx context.Context, name string) (*Pending, error)

	// WaitForDeployment blocks until the transaction is mined and code is at
	// the address.
	WaitForDeployment(ctx context.Context, pending *Pending) (*Deployment, error)
}
