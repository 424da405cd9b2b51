package eth

import (
	"math/big"

	"github.com/emberchain/node/consensus"
	"github.com/emberchain/node/events"
	"github.com/emberchain/node/store"
	"github.com/emberchain/node/transactor"
	"github.com/emberchain/node/types"
	"github.com/cometbft/cometbft/libs/log"
	"github.com/cosmos/iavl"
	"github.com/ethereum/go-ethereum/common"
)

// The facade consumes the node through narrow collaborator interfaces
// so the RPC surface stays decoupled from chain internals.

// ChainState provides point-in-time account state lookups.
type ChainState interface {
	LatestBlock() *types.Block
	StateAt(height uint64) (*iavl.ImmutableTree, error)
	SyncProgress() *events.SyncEvent
	GetTd() *big.Int
}

// ChainHistory provides block, transaction and receipt lookups over the
// canonical chain.
type ChainHistory interface {
	BlockByHeight(height uint64) *types.Block
	BlockByHash(hash types.Hash) *types.Block
	Receipts(blockHash types.Hash) types.Receipts
	TxLookup(txHash types.Hash) *store.TxLookup
	TdAt(height uint64, hash types.Hash) *big.Int
}

// Executor runs sandboxed message executions with all writes discarded.
type Executor interface {
	CallAt(height uint64, msg *transactor.Message) (*transactor.CallResult, error)
	EstimateGasAt(height uint64, msg *transactor.Message, gasCap uint64, capOnRevert bool) (uint64, error)
	PendingBlock(txs types.Txs, coinbase types.Address) (*types.Block, types.Receipts, error)
}

// Pool admits transactions and exposes the not-yet-included view.
type Pool interface {
	AddLocal(tx *types.Transaction) error
	Get(hash types.TxHash) *types.Transaction
	Pending() types.Txs
	PendingNonce(addr types.Address, stateNonce uint64) uint64
}

// MiningCoordinator owns sealing work and hashrate state.
type MiningCoordinator interface {
	IsRunning() bool
	Coinbase() types.Address
	Hashrate() uint64
	CurrentWork() (*consensus.Work, error)
	SubmitWork(nonce types.BlockNonce, sealHash types.Hash) bool
	SubmitHashrate(rate uint64, id common.Hash) bool
}

// Chain is the combined read view a facade backend needs.
type Chain interface {
	ChainState
	ChainHistory
}

// Backend binds the collaborators together for the API receivers.
type Backend struct {
	logger   log.Logger
	chain    Chain
	executor Executor
	pool     Pool
	miner    MiningCoordinator
	signer   *devSigner
}

// snapshot is one call's resolved view: the block plus, lazily, its
// state. It never changes after resolution even if the head advances.
type snapshot struct {
	block   *types.Block
	pending bool
}

func (s *snapshot) height() uint64 {
	return s.block.Header.Height.Uint64()
}

// resolve binds a block identifier to a snapshot. A nil snapshot with a
// nil error means the identifier is well formed but denotes no block,
// the caller shapes that per the absence table.
func (b *Backend) resolve(id BlockID) (*snapshot, error) {
	switch id.tag {
	case tagEarliest:
		block := b.chain.BlockByHeight(genesisHeight)
		if block == nil {
			return nil, errResolution("earliest block pruned or unavailable")
		}
		return &snapshot{block: block}, nil
	case tagPending:
		block, _, err := b.executor.PendingBlock(b.pool.Pending(), b.miner.Coinbase())
		if err != nil {
			// No speculative view, degrade to the head.
			b.logger.Debug("pending block unavailable", "err", err)
			return &snapshot{block: b.chain.LatestBlock()}, nil
		}
		return &snapshot{block: block, pending: true}, nil
	case tagHeight:
		block := b.chain.BlockByHeight(id.height)
		if block == nil {
			return nil, nil
		}
		return &snapshot{block: block}, nil
	default:
		return &snapshot{block: b.chain.LatestBlock()}, nil
	}
}

// resolveHash binds a block hash, nil when off the canonical chain.
func (b *Backend) resolveHash(hash common.Hash) *snapshot {
	block := b.chain.BlockByHash(hash.Bytes())
	if block == nil {
		return nil
	}
	return &snapshot{block: block}
}

// stateOf opens the resolved block's state. Pending has no committed
// version, its reads degrade to the head snapshot.
func (b *Backend) stateOf(s *snapshot) (*iavl.ImmutableTree, error) {
	height := s.height()
	if s.pending {
		height = b.chain.LatestBlock().Header.Height.Uint64()
	}
	state, err := b.chain.StateAt(height)
	if err != nil {
		return nil, errResolution("state at height %d: %v", height, err)
	}
	return state, nil
}

// stateHeight is the version sandboxed executions run against.
func (b *Backend) stateHeight(s *snapshot) uint64 {
	if s.pending {
		return b.chain.LatestBlock().Header.Height.Uint64()
	}
	return s.height()
}

const genesisHeight = 1
