package core

import (
	"fmt"
	"math/big"
	"time"

	"github.com/emberchain/node/transactor"
	"github.com/emberchain/node/types"
	"github.com/cosmos/iavl"
)

// sandboxAt opens a private working tree pinned to the given version.
// Mutations made by the caller never reach the shared tree or the
// database, every execution path must end in Rollback.
func (bc *BlockChain) sandboxAt(height uint64) (*iavl.MutableTree, error) {
	tree, err := iavl.NewMutableTree(bc.stateDb, 128, true)
	if err != nil {
		return nil, err
	}
	if _, err := tree.LoadVersion(int64(height)); err != nil {
		return nil, fmt.Errorf("%w: height %d: %v", ErrPrunedState, height, err)
	}
	return tree, nil
}

// CallAt executes a read-only message against the state of the block at
// the given height and discards all mutations.
func (bc *BlockChain) CallAt(height uint64, msg *transactor.Message) (*transactor.CallResult, error) {
	tree, err := bc.sandboxAt(height)
	if err != nil {
		return nil, err
	}
	defer tree.Rollback()
	return transactor.Call(tree, msg)
}

// EstimateGasAt searches for the lowest gas allowance letting the
// message execute at the given height.
func (bc *BlockChain) EstimateGasAt(height uint64, msg *transactor.Message, gasCap uint64, capOnRevert bool) (uint64, error) {
	tree, err := bc.sandboxAt(height)
	if err != nil {
		return 0, err
	}
	defer tree.Rollback()
	return transactor.EstimateGas(tree, msg, gasCap, capOnRevert)
}

// PendingBlock builds a speculative next block holding the given pool
// transactions on top of the current head. The block is unsealed, its
// nonce stays zero and it is never persisted.
func (bc *BlockChain) PendingBlock(txs types.Txs, coinbase types.Address) (*types.Block, types.Receipts, error) {
	parent := bc.LatestBlock()

	result, err := bc.Simulate(txs, coinbase)
	if err != nil {
		return nil, nil, err
	}

	now := uint64(time.Now().Unix())
	if parentTime := parent.Header.Time; now <= parentTime {
		now = parentTime + 1
	}
	header := &types.Header{
		ParentHash: parent.Hash(),
		UncleHash:  types.Headers{}.Hash(),
		Miner:      coinbase,
		Root:       result.StateRoot,
		Difficulty: types.CalcDifficulty(now, parent.Header),
		Height:     new(big.Int).Add(parent.Header.Height, big.NewInt(1)),
		GasLimit:   gasLimit(),
		GasUsed:    result.GasUsed,
		Time:       now,
	}
	block := types.NewBlockWithHeader(header)
	block.Txs = result.Included
	block.Header.TxHash = result.TxRoot
	block.Header.ReceiptHash = result.ReceiptRoot
	return block, result.Receipts, nil
}
