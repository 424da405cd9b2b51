// Package eth implements the Ethereum-compatible JSON-RPC facade: the
// query, transaction and mining methods of the eth namespace served on
// top of the chain, pool and consensus collaborators.
package eth

import (
	"github.com/emberchain/node/rpc"
	"github.com/cometbft/cometbft/libs/log"
)

func NewBackend(chain Chain, executor Executor, pool Pool, miner MiningCoordinator, logger log.Logger) *Backend {
	logger = logger.With("module", "eth")
	return &Backend{
		logger:   logger,
		chain:    chain,
		executor: executor,
		pool:     pool,
		miner:    miner,
		signer:   newDevSigner(logger),
	}
}

// RegisterAPI publishes the facade receivers under the eth namespace.
func (b *Backend) RegisterAPI() {
	rpc.RegisterName("eth", &ReadAPI{b: b})
	rpc.RegisterName("eth", &TxAPI{b: b})
	rpc.RegisterName("eth", &MiningAPI{b: b})
}
