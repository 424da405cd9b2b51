package eth

import (
	"math/big"

	"github.com/emberchain/node/config"
	"github.com/emberchain/node/transactor"
	"github.com/emberchain/node/types"
	"github.com/emberchain/node/version"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// ReadAPI serves the query methods of the eth namespace. Every method
// resolves its block identifier once and answers from that snapshot,
// head advancement mid-call never mixes two chain views.
type ReadAPI struct {
	b *Backend
}

func (api *ReadAPI) ProtocolVersion() hexutil.Uint {
	return hexutil.Uint(version.ProtocolVersion)
}

func (api *ReadAPI) ChainId() *hexutil.Big {
	return (*hexutil.Big)(config.ChainID())
}

func (api *ReadAPI) BlockNumber() hexutil.Uint64 {
	return hexutil.Uint64(api.b.chain.LatestBlock().Header.Height.Uint64())
}

// Syncing returns false when the node is caught up and a progress
// object while it imports behind the network head.
func (api *ReadAPI) Syncing() (interface{}, error) {
	progress := api.b.chain.SyncProgress()
	if progress == nil {
		return false, nil
	}
	return map[string]interface{}{
		"startingBlock": hexutil.Uint64(progress.StartingBlock),
		"currentBlock":  hexutil.Uint64(progress.CurrentBlock),
		"highestBlock":  hexutil.Uint64(progress.HighestBlock),
	}, nil
}

func (api *ReadAPI) GetBalance(address common.Address, id *BlockID) (*hexutil.Big, error) {
	snap, err := api.b.resolve(deref(id))
	if err != nil {
		return nil, shape(err)
	}
	if snap == nil {
		return nil, absent("getBalance")
	}
	state, err := api.b.stateOf(snap)
	if err != nil {
		return nil, shape(err)
	}
	account, err := transactor.GetAccount(state, address)
	if err != nil {
		return nil, shape(err)
	}
	return (*hexutil.Big)(account.Balance), nil
}

func (api *ReadAPI) GetStorageAt(address common.Address, position string, id *BlockID) (hexutil.Bytes, error) {
	raw, err := decodeStorageSlot(position)
	if err != nil {
		return nil, err
	}
	snap, err := api.b.resolve(deref(id))
	if err != nil {
		return nil, shape(err)
	}
	if snap == nil {
		return nil, absent("getStorageAt")
	}
	state, err := api.b.stateOf(snap)
	if err != nil {
		return nil, shape(err)
	}
	word, err := transactor.GetStorage(state, address, raw)
	if err != nil {
		return nil, shape(err)
	}
	return word[:], nil
}

// decodeStorageSlot accepts any hex quantity up to 32 bytes and left
// pads it into a storage key.
func decodeStorageSlot(position string) ([32]byte, error) {
	var slot [32]byte
	value, err := hexutil.DecodeBig(position)
	if err != nil {
		return slot, errMalformed("invalid storage position " + position)
	}
	if value.BitLen() > 256 {
		return slot, errMalformed("storage position out of range")
	}
	value.FillBytes(slot[:])
	return slot, nil
}

// GetTransactionCount returns the account nonce. The pending tag counts
// consecutive pooled transactions on top of the state nonce.
func (api *ReadAPI) GetTransactionCount(address common.Address, id *BlockID) (*hexutil.Uint64, error) {
	snap, err := api.b.resolve(deref(id))
	if err != nil {
		return nil, shape(err)
	}
	if snap == nil {
		return nil, absent("getTransactionCount")
	}
	state, err := api.b.stateOf(snap)
	if err != nil {
		return nil, shape(err)
	}
	account, err := transactor.GetAccount(state, address)
	if err != nil {
		return nil, shape(err)
	}
	nonce := account.Nonce
	if snap.pending {
		nonce = api.b.pool.PendingNonce(address, nonce)
	}
	result := hexutil.Uint64(nonce)
	return &result, nil
}

func (api *ReadAPI) GetCode(address common.Address, id *BlockID) (hexutil.Bytes, error) {
	snap, err := api.b.resolve(deref(id))
	if err != nil {
		return nil, shape(err)
	}
	if snap == nil {
		return nil, absent("getCode")
	}
	state, err := api.b.stateOf(snap)
	if err != nil {
		return nil, shape(err)
	}
	code, err := transactor.GetCode(state, address)
	if err != nil {
		return nil, shape(err)
	}
	return hexutil.Bytes(code), nil
}

func (api *ReadAPI) GetBlockByHash(hash common.Hash, fullTx bool) (map[string]interface{}, error) {
	snap := api.b.resolveHash(hash)
	if snap == nil {
		return nil, absent("getBlockByHash")
	}
	return marshalBlock(snap.block, fullTx, api.b.tdOf(snap.block), false), nil
}

func (api *ReadAPI) GetBlockByNumber(id *BlockID, fullTx bool) (map[string]interface{}, error) {
	snap, err := api.b.resolve(deref(id))
	if err != nil {
		return nil, shape(err)
	}
	if snap == nil {
		return nil, absent("getBlockByNumber")
	}
	if snap.pending {
		return marshalBlock(snap.block, fullTx, nil, true), nil
	}
	return marshalBlock(snap.block, fullTx, api.b.tdOf(snap.block), false), nil
}

func (api *ReadAPI) GetBlockTransactionCountByHash(hash common.Hash) (*hexutil.Uint, error) {
	snap := api.b.resolveHash(hash)
	if snap == nil {
		return nil, absent("getBlockTransactionCountByHash")
	}
	count := hexutil.Uint(len(snap.block.Txs))
	return &count, nil
}

func (api *ReadAPI) GetBlockTransactionCountByNumber(id *BlockID) (*hexutil.Uint, error) {
	snap, err := api.b.resolve(deref(id))
	if err != nil {
		return nil, shape(err)
	}
	if snap == nil {
		return nil, absent("getBlockTransactionCountByNumber")
	}
	count := hexutil.Uint(len(snap.block.Txs))
	return &count, nil
}

func (api *ReadAPI) GetUncleCountByBlockHash(hash common.Hash) (*hexutil.Uint, error) {
	snap := api.b.resolveHash(hash)
	if snap == nil {
		return nil, absent("getUncleCountByBlockHash")
	}
	count := hexutil.Uint(len(snap.block.Uncles))
	return &count, nil
}

func (api *ReadAPI) GetUncleCountByBlockNumber(id *BlockID) (*hexutil.Uint, error) {
	snap, err := api.b.resolve(deref(id))
	if err != nil {
		return nil, shape(err)
	}
	if snap == nil {
		return nil, absent("getUncleCountByBlockNumber")
	}
	count := hexutil.Uint(len(snap.block.Uncles))
	return &count, nil
}

// GetTransactionByHash finds an included or still pooled transaction,
// null when the hash is unknown.
func (api *ReadAPI) GetTransactionByHash(hash common.Hash) (*RPCTransaction, error) {
	if tx, blockHash, height, index := api.b.includedTx(hash); tx != nil {
		return newRPCTransaction(tx, blockHash, height, index), nil
	}
	if tx := api.b.pool.Get(types.TxHash(hash)); tx != nil {
		return newRPCTransaction(tx, nil, 0, 0), nil
	}
	return nil, absent("getTransactionByHash")
}

func (api *ReadAPI) GetTransactionByBlockHashAndIndex(hash common.Hash, index hexutil.Uint) (*RPCTransaction, error) {
	snap := api.b.resolveHash(hash)
	if snap == nil || int(index) >= len(snap.block.Txs) {
		return nil, absent("getTransactionByBlockHashAndIndex")
	}
	return newRPCTransaction(snap.block.Txs[index], snap.block.Hash(), snap.height(), uint64(index)), nil
}

func (api *ReadAPI) GetTransactionByBlockNumberAndIndex(id *BlockID, index hexutil.Uint) (*RPCTransaction, error) {
	snap, err := api.b.resolve(deref(id))
	if err != nil {
		return nil, shape(err)
	}
	if snap == nil || int(index) >= len(snap.block.Txs) {
		return nil, absent("getTransactionByBlockNumberAndIndex")
	}
	if snap.pending {
		return newRPCTransaction(snap.block.Txs[index], nil, 0, uint64(index)), nil
	}
	return newRPCTransaction(snap.block.Txs[index], snap.block.Hash(), snap.height(), uint64(index)), nil
}

// GetTransactionReceipt returns the receipt of an included transaction.
// Pooled-but-not-included is absence, receipts exist only post
// inclusion.
func (api *ReadAPI) GetTransactionReceipt(hash common.Hash) (map[string]interface{}, error) {
	lookup := api.b.chain.TxLookup(hash.Bytes())
	if lookup == nil {
		return nil, absent("getTransactionReceipt")
	}
	block := api.b.chain.BlockByHeight(lookup.Height)
	if block == nil || lookup.Index >= uint64(len(block.Txs)) {
		return nil, absent("getTransactionReceipt")
	}
	receipts := api.b.chain.Receipts(block.Hash())
	if lookup.Index >= uint64(len(receipts)) {
		return nil, absent("getTransactionReceipt")
	}
	var logIndexBase uint64
	for i := uint64(0); i < lookup.Index; i++ {
		logIndexBase += uint64(len(receipts[i].Logs))
	}
	tx := block.Txs[lookup.Index]
	receipt := receipts[lookup.Index]
	return marshalReceipt(receipt, tx, block.Hash(), lookup.Height, lookup.Index, logIndexBase), nil
}

func (api *ReadAPI) GetUncleByBlockHashAndIndex(hash common.Hash, index hexutil.Uint) (map[string]interface{}, error) {
	snap := api.b.resolveHash(hash)
	if snap == nil || int(index) >= len(snap.block.Uncles) {
		return nil, absent("getUncleByBlockHashAndIndex")
	}
	return marshalUncle(snap.block.Uncles[index]), nil
}

func (api *ReadAPI) GetUncleByBlockNumberAndIndex(id *BlockID, index hexutil.Uint) (map[string]interface{}, error) {
	snap, err := api.b.resolve(deref(id))
	if err != nil {
		return nil, shape(err)
	}
	if snap == nil || int(index) >= len(snap.block.Uncles) {
		return nil, absent("getUncleByBlockNumberAndIndex")
	}
	return marshalUncle(snap.block.Uncles[index]), nil
}

func marshalUncle(header *types.Header) map[string]interface{} {
	block := types.NewBlockWithHeader(header)
	return marshalBlock(block, false, nil, false)
}

// GetLogs enumerates the inclusive block range of the filter and
// returns matching logs ordered by height, transaction index and log
// index.
func (api *ReadAPI) GetLogs(crit FilterCriteria) ([]*RPCLog, error) {
	from, err := api.b.resolve(crit.FromBlock)
	if err != nil {
		return nil, shape(err)
	}
	to, err := api.b.resolve(crit.ToBlock)
	if err != nil {
		return nil, shape(err)
	}
	if from == nil || to == nil {
		return nil, absent("getLogs")
	}
	fromHeight, toHeight := api.b.stateHeight(from), api.b.stateHeight(to)
	if fromHeight > toHeight {
		return nil, errMalformed("filter range is inverted")
	}
	return api.b.collectLogs(fromHeight, toHeight, &crit), nil
}

// includedTx locates a transaction inside the canonical chain.
func (b *Backend) includedTx(hash common.Hash) (*types.Transaction, types.Hash, uint64, uint64) {
	lookup := b.chain.TxLookup(hash.Bytes())
	if lookup == nil {
		return nil, nil, 0, 0
	}
	block := b.chain.BlockByHeight(lookup.Height)
	if block == nil || lookup.Index >= uint64(len(block.Txs)) {
		return nil, nil, 0, 0
	}
	return block.Txs[lookup.Index], block.Hash(), lookup.Height, lookup.Index
}

// tdOf returns the stored total difficulty at the block, nil when the
// block carries none (not yet indexed).
func (b *Backend) tdOf(block *types.Block) *big.Int {
	return b.chain.TdAt(block.Header.Height.Uint64(), block.Hash())
}

func deref(id *BlockID) BlockID {
	if id == nil {
		return LatestBlockID
	}
	return *id
}
