package core

import (
	"bytes"
	"errors"
	"fmt"
	"math/big"
	"path/filepath"
	"sync"

	"github.com/emberchain/node/config"
	"github.com/emberchain/node/events"
	"github.com/emberchain/node/flags"
	"github.com/emberchain/node/store"
	"github.com/emberchain/node/transactor"
	"github.com/emberchain/node/types"
	"github.com/cometbft/cometbft/libs/log"
	cosmosdb "github.com/cosmos/cosmos-db"
	"github.com/cosmos/iavl"
	lru "github.com/hashicorp/golang-lru"
	"github.com/spf13/viper"
)

// ErrPrunedState reports a state version that is no longer retained.
var ErrPrunedState = errors.New("state unavailable, version pruned")

const blockCacheSize = 256

type BlockChain struct {
	logger     log.Logger
	blockStore *store.BlockStore
	stateDb    cosmosdb.DB

	mu          sync.RWMutex // guards latestBlock and td
	latestBlock *types.Block
	td          *big.Int

	stateMu sync.Mutex // guards the shared mutable tree
	state   *iavl.MutableTree

	blockCache *lru.Cache // most recently touched canonical blocks

	progress progressTracker
}

func NewBlockChain(logger log.Logger) (*BlockChain, error) {
	blockStore, err := store.NewBlockStore(logger)
	if err != nil {
		return nil, err
	}

	homeDir := viper.GetString(flags.Home)
	db, err := cosmosdb.NewDB("state", cosmosdb.BackendType(viper.GetString(flags.DB_Engine)), filepath.Join(homeDir, "data"))
	if err != nil {
		return nil, err
	}

	blockCache, _ := lru.New(blockCacheSize)
	bc := &BlockChain{
		blockStore: blockStore,
		logger:     logger.With("module", "blockchain"),
		stateDb:    db,
		blockCache: blockCache,
	}

	var block *types.Block
	if headBlockHash := blockStore.ReadHeadBlockHash(); headBlockHash != nil {
		if height := blockStore.ReadHeightByHash(headBlockHash); height != nil {
			block = blockStore.ReadBlock(*height, headBlockHash)
		}
		bc.logger.Info("found head block", "hash", headBlockHash, "block", block)
	}
	if block == nil {
		block, err = bc.writeGenesis()
		if err != nil {
			return nil, err
		}
	}
	bc.latestBlock = block
	bc.td = blockStore.ReadTd(block.Header.Height.Uint64(), block.Hash())
	return bc, nil
}

// writeGenesis commits the allocation state and persists the first
// block.
func (bc *BlockChain) writeGenesis() (*types.Block, error) {
	tree, err := iavl.NewMutableTree(bc.stateDb, 128, false)
	if err != nil {
		return nil, err
	}
	root, err := commitGenesisState(tree)
	if err != nil {
		return nil, err
	}
	block := types.NewBlockWithHeader(genesisHeader(root))
	var (
		hash   = block.Hash()
		height = block.Header.Height.Uint64()
	)
	bc.blockStore.WriteBlock(block)
	bc.blockStore.WriteHashByHeight(height, hash)
	bc.blockStore.WriteTd(height, hash, block.Header.Difficulty)
	bc.blockStore.WriteHeadBlockHash(hash)
	bc.logger.Info("wrote genesis block", "hash", hash, "root", root)
	return block, nil
}

func (bc *BlockChain) Close() {
	if err := bc.stateDb.Close(); err != nil {
		bc.logger.Error("error closing state database", "err", err)
	}
	if err := bc.blockStore.Close(); err != nil {
		bc.logger.Error("error closing block store", "err", err)
	}
}

func gasLimit() uint64 {
	return config.BlockGasLimit
}

// LatestBlock retrieves the latest head block of the canonical chain.
// The returned block is immutable; the pointer may be read concurrently
// with head updates.
func (bc *BlockChain) LatestBlock() *types.Block {
	bc.mu.RLock()
	defer bc.mu.RUnlock()
	return bc.latestBlock
}

// GetTd returns the total difficulty accumulated up to the current head.
func (bc *BlockChain) GetTd() *big.Int {
	bc.mu.RLock()
	defer bc.mu.RUnlock()
	return bc.td
}

// BlockByHeight returns the canonical block at the given height, nil if
// the height is beyond the head or below genesis.
func (bc *BlockChain) BlockByHeight(height uint64) *types.Block {
	hash := bc.blockStore.ReadHashByHeight(height)
	if hash == nil {
		return nil
	}
	if cached, ok := bc.blockCache.Get(hash.String()); ok {
		return cached.(*types.Block)
	}
	block := bc.blockStore.ReadBlock(height, hash)
	if block != nil {
		bc.blockCache.Add(hash.String(), block)
	}
	return block
}

// BlockByHash returns the block with the given hash if it is part of the
// canonical chain.
func (bc *BlockChain) BlockByHash(hash types.Hash) *types.Block {
	height := bc.blockStore.ReadHeightByHash(hash)
	if height == nil {
		return nil
	}
	// Only canonical blocks are visible through queries.
	if !bytes.Equal(bc.blockStore.ReadHashByHeight(*height), hash) {
		return nil
	}
	if cached, ok := bc.blockCache.Get(hash.String()); ok {
		return cached.(*types.Block)
	}
	block := bc.blockStore.ReadBlock(*height, hash)
	if block != nil {
		bc.blockCache.Add(hash.String(), block)
	}
	return block
}

// TdAt returns the total difficulty stored for a canonical block.
func (bc *BlockChain) TdAt(height uint64, hash types.Hash) *big.Int {
	return bc.blockStore.ReadTd(height, hash)
}

// Receipts returns the stored execution receipts of a block.
func (bc *BlockChain) Receipts(blockHash types.Hash) types.Receipts {
	return bc.blockStore.ReadReceipts(blockHash)
}

// TxLookup locates an included transaction by hash.
func (bc *BlockChain) TxLookup(txHash types.Hash) *store.TxLookup {
	return bc.blockStore.ReadTxLookup(txHash)
}

// MinerIndex exposes the optional sealed-by index.
func (bc *BlockChain) MinerIndex() store.MinerStore {
	return bc.blockStore.MinerDb
}

// StateAt returns an immutable state snapshot for the given height. The
// snapshot stays valid for the whole call even if the head advances.
func (bc *BlockChain) StateAt(height uint64) (*iavl.ImmutableTree, error) {
	bc.stateMu.Lock()
	defer bc.stateMu.Unlock()
	tree, err := bc.mutableStateLocked()
	if err != nil {
		return nil, err
	}
	state, err := tree.GetImmutable(int64(height))
	if err != nil {
		return nil, fmt.Errorf("%w: height %d: %v", ErrPrunedState, height, err)
	}
	return state, nil
}

// LatestState returns the state snapshot of the current head.
func (bc *BlockChain) LatestState() (*iavl.ImmutableTree, error) {
	return bc.StateAt(bc.LatestBlock().Header.Height.Uint64())
}

// mutableStateLocked returns the shared working tree at the latest
// version. Callers must hold stateMu.
func (bc *BlockChain) mutableStateLocked() (*iavl.MutableTree, error) {
	if bc.state != nil {
		return bc.state, nil
	}

	tree, err := iavl.NewMutableTree(bc.stateDb, 128, false)
	if err != nil {
		bc.logger.Error("failed to open block state", "err", err)
		return nil, err
	}
	latest := bc.LatestBlock()
	if _, err := tree.LazyLoadVersionForOverwriting(latest.Header.Height.Int64()); err != nil {
		bc.logger.Error("failed to open block state", "err", err)
		return nil, err
	}
	if tree.Version() != latest.Header.Height.Int64() {
		bc.logger.Error("version mismatch", "stateVersion", tree.Version(), "latestBlock", latest.Header.Height)
		return nil, errors.New("bad state version in db")
	}
	hash, err := tree.Hash()
	if err != nil {
		bc.logger.Error("failed to open block state", "err", err)
		return nil, err
	}
	if !bytes.Equal(hash, latest.Header.Root) {
		bc.logger.Error("root hash mismatch", "state", hash, "latestBlock", latest.Header.Root)
		return nil, errors.New("bad state hash in db")
	}
	bc.state = tree
	return tree, nil
}

// Simulate executes txs against the current head state and discards all
// mutations. Used by the miner to derive the roots of a work block.
func (bc *BlockChain) Simulate(txs types.Txs, coinbase types.Address) (*transactor.ExecutionResult, error) {
	bc.stateMu.Lock()
	defer bc.stateMu.Unlock()
	state, err := bc.mutableStateLocked()
	if err != nil {
		return nil, err
	}
	defer state.Rollback()
	return transactor.ApplyTxs(state, txs, coinbase)
}

// ApplyBlock validates and executes a sealed block, persists it and
// promotes it to the new canonical head.
func (bc *BlockChain) ApplyBlock(block *types.Block) error {
	bc.stateMu.Lock()
	defer bc.stateMu.Unlock()

	latest := bc.LatestBlock()
	if err := block.Header.IsValid(latest.Header); err != nil {
		return fmt.Errorf("rejecting block at height %v: %w", block.Header.Height, err)
	}
	state, err := bc.mutableStateLocked()
	if err != nil {
		return err
	}

	result, err := transactor.ApplyTxs(state, block.Txs, block.Header.Miner)
	if err != nil {
		state.Rollback()
		return err
	}
	if len(result.Rejected) > 0 {
		state.Rollback()
		return fmt.Errorf("block carries %d invalid transactions", len(result.Rejected))
	}
	if !bytes.Equal(block.Header.Root, result.StateRoot) {
		state.Rollback()
		return fmt.Errorf("state hash mismatch, block root %v, got %v", block.Header.Root, result.StateRoot)
	}
	if block.Header.GasUsed != result.GasUsed {
		state.Rollback()
		return fmt.Errorf("gas used mismatch, block %d, got %d", block.Header.GasUsed, result.GasUsed)
	}

	hash, version, err := state.SaveVersion()
	if err != nil {
		return err
	}
	if block.Header.Height.Cmp(big.NewInt(version)) != 0 {
		state.DeleteVersion(version)
		return fmt.Errorf("state version mismatch, want %v, got %v", block.Header.Height, version)
	}
	if !bytes.Equal(block.Header.Root, hash) {
		state.DeleteVersion(version)
		return fmt.Errorf("state hash mismatch, block root %v, got %v", block.Header.Root, hash)
	}

	bc.setHead(block, result.Receipts)
	return nil
}

// setHead persists the block with its indexes and promotes it.
func (bc *BlockChain) setHead(block *types.Block, receipts types.Receipts) {
	bc.logger.Info("head block", "head", block.Header)
	var (
		hash   = block.Hash()
		height = block.Header.Height.Uint64()
	)
	bc.blockStore.WriteBlock(block)
	bc.blockStore.WriteHashByHeight(height, hash)
	bc.blockStore.WriteReceipts(hash, receipts)
	bc.blockStore.WriteTxLookupEntries(block)
	bc.blockStore.MinerDb.AddMiner(height, block.Header.Miner)

	bc.mu.Lock()
	td := new(big.Int).Add(bc.td, block.Header.Difficulty)
	bc.blockStore.WriteTd(height, hash, td)
	bc.blockStore.WriteHeadBlockHash(hash)
	bc.latestBlock = block
	bc.td = td
	bc.mu.Unlock()

	bc.blockCache.Add(hash.String(), block)
	bc.progress.update(height)
	events.NewChainHead.Send(block)
}
