package eth

import (
	"math/big"
	"os"
	"testing"

	"github.com/emberchain/node/config"
	"github.com/emberchain/node/consensus"
	"github.com/emberchain/node/core"
	"github.com/emberchain/node/flags"
	"github.com/emberchain/node/mempool"
	"github.com/emberchain/node/transactor"
	"github.com/emberchain/node/types"
	"github.com/cometbft/cometbft/libs/log"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// devKey controls the first genesis allocation.
const (
	devKey   = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	devHex   = "0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266"
	minerHex = "0x70997970c51812dc3a010c7d01b50e0d17dc79c8"
)

func newTestBackend(t *testing.T) (*Backend, *core.BlockChain, *mempool.Mempool) {
	viper.SetDefault(flags.DB_Engine, "memdb")
	viper.Set(flags.Mine_Threads, -1)
	viper.Set(flags.Mine_Miner, minerHex)
	viper.Set(flags.Eth_Keys, []string{devKey})
	logger := log.NewTMLogger(log.NewSyncWriter(os.Stdout))
	chain, err := core.NewBlockChain(logger)
	require.NoError(t, err)
	t.Cleanup(chain.Close)
	pool := mempool.NewMempool(chain, logger)
	miner := consensus.New(chain, pool, logger)
	return NewBackend(chain, chain, pool, miner, logger), chain, pool
}

func devTx(t *testing.T, nonce uint64, to *types.Address, value int64, gasPrice *big.Int, data []byte) *types.Transaction {
	key, err := crypto.HexToECDSA(devKey)
	require.NoError(t, err)
	gas, err := transactor.IntrinsicGas(data, to == nil)
	require.NoError(t, err)
	tx, err := types.SignTx(&types.Transaction{
		Nonce:    nonce,
		GasPrice: gasPrice,
		Gas:      gas,
		To:       to,
		Value:    big.NewInt(value),
		Data:     data,
	}, key)
	require.NoError(t, err)
	return tx
}

func devTransfer(t *testing.T, nonce uint64, to types.Address, value int64) *types.Transaction {
	return devTx(t, nonce, &to, value, big.NewInt(1), nil)
}

func advance(t *testing.T, chain *core.BlockChain, txs types.Txs) *types.Block {
	block, _, err := chain.PendingBlock(txs, common.HexToAddress(minerHex))
	require.NoError(t, err)
	require.NoError(t, chain.ApplyBlock(block))
	return block
}

func blockAt(height uint64) *BlockID {
	id := BlockIDFromHeight(height)
	return &id
}

func TestChainMetadata(t *testing.T) {
	b, chain, _ := newTestBackend(t)
	api := &ReadAPI{b: b}
	assert.Zero(t, config.ChainID().Cmp((*big.Int)(api.ChainId())))
	assert.NotZero(t, api.ProtocolVersion())
	assert.EqualValues(t, 1, api.BlockNumber())
	advance(t, chain, types.Txs{})
	assert.EqualValues(t, 2, api.BlockNumber())
}

func TestSyncing(t *testing.T) {
	b, chain, _ := newTestBackend(t)
	api := &ReadAPI{b: b}
	status, err := api.Syncing()
	require.NoError(t, err)
	assert.Equal(t, false, status)

	chain.StartSync(10)
	status, err = api.Syncing()
	require.NoError(t, err)
	fields, ok := status.(map[string]interface{})
	require.True(t, ok)
	assert.EqualValues(t, hexutil.Uint64(1), fields["startingBlock"])
	assert.EqualValues(t, hexutil.Uint64(10), fields["highestBlock"])

	chain.FinishSync()
	status, err = api.Syncing()
	require.NoError(t, err)
	assert.Equal(t, false, status)
}

func TestGetBalance(t *testing.T) {
	b, chain, _ := newTestBackend(t)
	api := &ReadAPI{b: b}
	to := common.HexToAddress("0x1111111111111111111111111111111111111111")
	advance(t, chain, types.Txs{devTransfer(t, 0, to, 5)})

	balance, err := api.GetBalance(to, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 5, (*big.Int)(balance).Int64())

	earliest := EarliestBlockID
	balance, err = api.GetBalance(to, &earliest)
	require.NoError(t, err)
	assert.Zero(t, (*big.Int)(balance).Sign())

	balance, err = api.GetBalance(to, blockAt(2))
	require.NoError(t, err)
	assert.EqualValues(t, 5, (*big.Int)(balance).Int64())

	// Accounts never touched read as zero, not as missing.
	balance, err = api.GetBalance(common.HexToAddress("0x2222222222222222222222222222222222222222"), nil)
	require.NoError(t, err)
	assert.Zero(t, (*big.Int)(balance).Sign())

	// A height beyond the head is a resolution failure for state reads.
	_, err = api.GetBalance(to, blockAt(9))
	require.Error(t, err)
	assert.Equal(t, codeResolution, errorCode(t, err))
}

func TestGetTransactionCount(t *testing.T) {
	b, chain, pool := newTestBackend(t)
	api := &ReadAPI{b: b}
	dev := common.HexToAddress(devHex)
	to := common.HexToAddress("0x1111111111111111111111111111111111111111")
	advance(t, chain, types.Txs{devTransfer(t, 0, to, 5)})

	count, err := api.GetTransactionCount(dev, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 1, *count)

	earliest := EarliestBlockID
	count, err = api.GetTransactionCount(dev, &earliest)
	require.NoError(t, err)
	assert.EqualValues(t, 0, *count)

	// Pending counts consecutive pooled transactions on top of the state.
	require.NoError(t, pool.AddLocal(devTransfer(t, 1, to, 5)))
	pending := PendingBlockID
	count, err = api.GetTransactionCount(dev, &pending)
	require.NoError(t, err)
	assert.EqualValues(t, 2, *count)
}

func TestGetCodeAndStorage(t *testing.T) {
	b, chain, _ := newTestBackend(t)
	api := &ReadAPI{b: b}
	payload := []byte{0xde, 0xad, 0xbe, 0xef}
	advance(t, chain, types.Txs{devTx(t, 0, nil, 0, big.NewInt(1), payload)})
	created := types.CreatedAddress(common.HexToAddress(devHex), 0)

	code, err := api.GetCode(created, nil)
	require.NoError(t, err)
	assert.EqualValues(t, payload, code)

	// Plain accounts carry no code.
	code, err = api.GetCode(common.HexToAddress(devHex), nil)
	require.NoError(t, err)
	assert.Empty(t, code)

	// Never-written slots read as a zero word.
	word, err := api.GetStorageAt(created, "0x1", nil)
	require.NoError(t, err)
	assert.Equal(t, make(hexutil.Bytes, 32), word)

	_, err = api.GetStorageAt(created, "bogus", nil)
	require.Error(t, err)
	assert.Equal(t, codeMalformed, errorCode(t, err))
}

func TestGetBlockLatestOnFreshChain(t *testing.T) {
	b, _, _ := newTestBackend(t)
	api := &ReadAPI{b: b}

	// An omitted block id defaults to latest, the genesis block here.
	block, err := api.GetBlockByNumber(nil, false)
	require.NoError(t, err)
	require.NotNil(t, block)
	assert.EqualValues(t, 1, (*big.Int)(block["number"].(*hexutil.Big)).Int64())
	assert.NotNil(t, block["hash"])
	assert.NotNil(t, block["totalDifficulty"])
	txs := block["transactions"].([]interface{})
	require.NotNil(t, txs)
	assert.Empty(t, txs)
}

func TestGetBlockByNumberAndHash(t *testing.T) {
	b, chain, _ := newTestBackend(t)
	api := &ReadAPI{b: b}
	to := common.HexToAddress("0x1111111111111111111111111111111111111111")
	tx := devTransfer(t, 0, to, 5)
	mined := advance(t, chain, types.Txs{tx})

	byNumber, err := api.GetBlockByNumber(blockAt(2), false)
	require.NoError(t, err)
	require.NotNil(t, byNumber)
	byHash, err := api.GetBlockByHash(common.BytesToHash(mined.Hash()), false)
	require.NoError(t, err)
	require.NotNil(t, byHash)
	assert.Equal(t, byNumber["hash"], byHash["hash"])
	assert.Equal(t, byNumber["stateRoot"], byHash["stateRoot"])

	assert.EqualValues(t, 2, (*big.Int)(byNumber["number"].(*hexutil.Big)).Int64())
	assert.NotNil(t, byNumber["totalDifficulty"])
	hashes := byNumber["transactions"].([]interface{})
	require.Len(t, hashes, 1)
	assert.Equal(t, common.BytesToHash(tx.Hash()), hashes[0])

	full, err := api.GetBlockByNumber(blockAt(2), true)
	require.NoError(t, err)
	txs := full["transactions"].([]interface{})
	require.Len(t, txs, 1)
	rpcTx := txs[0].(*RPCTransaction)
	assert.Equal(t, common.HexToAddress(devHex), rpcTx.From)
	require.NotNil(t, rpcTx.BlockHash)
	assert.Equal(t, common.BytesToHash(mined.Hash()), *rpcTx.BlockHash)

	// Unknown blocks are null results, not errors.
	missing, err := api.GetBlockByNumber(blockAt(9), false)
	require.NoError(t, err)
	assert.Nil(t, missing)
	missing, err = api.GetBlockByHash(common.Hash{0x01}, false)
	require.NoError(t, err)
	assert.Nil(t, missing)
	missing, err = api.GetBlockByNumber(blockAt(0), false)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestGetBlockPending(t *testing.T) {
	b, _, pool := newTestBackend(t)
	api := &ReadAPI{b: b}
	to := common.HexToAddress("0x1111111111111111111111111111111111111111")
	require.NoError(t, pool.AddLocal(devTransfer(t, 0, to, 5)))

	pending := PendingBlockID
	fields, err := api.GetBlockByNumber(&pending, true)
	require.NoError(t, err)
	require.NotNil(t, fields)
	// A speculative block has no settled identity yet.
	assert.Nil(t, fields["hash"])
	assert.Nil(t, fields["nonce"])
	assert.Nil(t, fields["miner"])
	txs := fields["transactions"].([]interface{})
	require.Len(t, txs, 1)
	assert.Nil(t, txs[0].(*RPCTransaction).BlockHash)
	assert.EqualValues(t, 2, (*big.Int)(fields["number"].(*hexutil.Big)).Int64())
}

func TestBlockTransactionCounts(t *testing.T) {
	b, chain, _ := newTestBackend(t)
	api := &ReadAPI{b: b}
	to := common.HexToAddress("0x1111111111111111111111111111111111111111")
	mined := advance(t, chain, types.Txs{devTransfer(t, 0, to, 5), devTransfer(t, 1, to, 6)})

	count, err := api.GetBlockTransactionCountByNumber(blockAt(2))
	require.NoError(t, err)
	assert.EqualValues(t, 2, *count)
	count, err = api.GetBlockTransactionCountByHash(common.BytesToHash(mined.Hash()))
	require.NoError(t, err)
	assert.EqualValues(t, 2, *count)

	count, err = api.GetBlockTransactionCountByNumber(blockAt(9))
	require.NoError(t, err)
	assert.Nil(t, count)

	// Uncles never exist on this chain but the endpoints stay wired.
	uncles, err := api.GetUncleCountByBlockNumber(blockAt(2))
	require.NoError(t, err)
	assert.EqualValues(t, 0, *uncles)
	missingUncle, err := api.GetUncleByBlockHashAndIndex(common.BytesToHash(mined.Hash()), 0)
	require.NoError(t, err)
	assert.Nil(t, missingUncle)
}

func TestGetTransactionByHash(t *testing.T) {
	b, chain, pool := newTestBackend(t)
	api := &ReadAPI{b: b}
	to := common.HexToAddress("0x1111111111111111111111111111111111111111")
	tx := devTransfer(t, 0, to, 5)
	mined := advance(t, chain, types.Txs{tx})

	found, err := api.GetTransactionByHash(common.BytesToHash(tx.Hash()))
	require.NoError(t, err)
	require.NotNil(t, found)
	require.NotNil(t, found.BlockHash)
	assert.Equal(t, common.BytesToHash(mined.Hash()), *found.BlockHash)
	assert.EqualValues(t, 2, (*big.Int)(found.BlockNumber).Int64())
	assert.EqualValues(t, 0, *found.TransactionIndex)

	// Pooled transactions are visible without inclusion context.
	pooled := devTransfer(t, 1, to, 7)
	require.NoError(t, pool.AddLocal(pooled))
	found, err = api.GetTransactionByHash(common.BytesToHash(pooled.Hash()))
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Nil(t, found.BlockHash)
	assert.Nil(t, found.BlockNumber)
	assert.Nil(t, found.TransactionIndex)

	missing, err := api.GetTransactionByHash(common.Hash{0x01})
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestGetTransactionByBlockAndIndex(t *testing.T) {
	b, chain, _ := newTestBackend(t)
	api := &ReadAPI{b: b}
	to := common.HexToAddress("0x1111111111111111111111111111111111111111")
	tx := devTransfer(t, 0, to, 5)
	mined := advance(t, chain, types.Txs{tx})

	found, err := api.GetTransactionByBlockNumberAndIndex(blockAt(2), 0)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, common.BytesToHash(tx.Hash()), found.Hash)

	found, err = api.GetTransactionByBlockHashAndIndex(common.BytesToHash(mined.Hash()), 0)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, common.BytesToHash(tx.Hash()), found.Hash)

	missing, err := api.GetTransactionByBlockNumberAndIndex(blockAt(2), 7)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestGetTransactionReceipt(t *testing.T) {
	b, chain, pool := newTestBackend(t)
	api := &ReadAPI{b: b}
	to := common.HexToAddress("0x1111111111111111111111111111111111111111")
	transfer := devTransfer(t, 0, to, 5)
	deploy := devTx(t, 1, nil, 0, big.NewInt(1), []byte{0x01})
	mined := advance(t, chain, types.Txs{transfer, deploy})

	receipt, err := api.GetTransactionReceipt(common.BytesToHash(transfer.Hash()))
	require.NoError(t, err)
	require.NotNil(t, receipt)
	assert.Equal(t, common.BytesToHash(mined.Hash()), receipt["blockHash"])
	assert.EqualValues(t, hexutil.Uint(types.TxStatusSuccess), receipt["status"])
	assert.Equal(t, to, receipt["to"])
	assert.Nil(t, receipt["contractAddress"])
	logs := receipt["logs"].([]*RPCLog)
	require.Len(t, logs, 1)
	assert.Equal(t, to, logs[0].Address)
	assert.EqualValues(t, 0, logs[0].LogIndex)

	receipt, err = api.GetTransactionReceipt(common.BytesToHash(deploy.Hash()))
	require.NoError(t, err)
	require.NotNil(t, receipt)
	assert.Nil(t, receipt["to"])
	assert.Equal(t, common.Address(types.CreatedAddress(common.HexToAddress(devHex), 1)), receipt["contractAddress"])

	// Pooled transactions have no receipt yet.
	pooled := devTransfer(t, 2, to, 7)
	require.NoError(t, pool.AddLocal(pooled))
	receipt, err = api.GetTransactionReceipt(common.BytesToHash(pooled.Hash()))
	require.NoError(t, err)
	assert.Nil(t, receipt)
}

func TestCall(t *testing.T) {
	b, _, _ := newTestBackend(t)
	api := &TxAPI{b: b}
	dev := common.HexToAddress(devHex)
	to := common.HexToAddress("0x1111111111111111111111111111111111111111")

	output, err := api.Call(TransactionArgs{
		From:  &dev,
		To:    &to,
		Value: (*hexutil.Big)(big.NewInt(5)),
	}, nil)
	require.NoError(t, err)
	assert.Empty(t, output)

	// A revert is a successful call carrying the revert payload.
	huge, _ := new(big.Int).SetString("20000000000000000000000", 10)
	output, err = api.Call(TransactionArgs{
		From:  &dev,
		To:    &to,
		Value: (*hexutil.Big)(huge),
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "insufficient balance for transfer", transactor.DecodeRevertReason(output))

	_, err = api.Call(TransactionArgs{From: &dev, To: &to}, blockAt(9))
	require.Error(t, err)
	assert.Equal(t, codeResolution, errorCode(t, err))
}

func TestEstimateGas(t *testing.T) {
	b, _, _ := newTestBackend(t)
	api := &TxAPI{b: b}
	dev := common.HexToAddress(devHex)
	to := common.HexToAddress("0x1111111111111111111111111111111111111111")

	gas, err := api.EstimateGas(TransactionArgs{
		From:  &dev,
		To:    &to,
		Value: (*hexutil.Big)(big.NewInt(5)),
	}, nil)
	require.NoError(t, err)
	assert.EqualValues(t, transactor.TxGas, gas)

	// Reverting estimates surface the payload by default.
	huge, _ := new(big.Int).SetString("20000000000000000000000", 10)
	reverting := TransactionArgs{From: &dev, To: &to, Value: (*hexutil.Big)(huge)}
	_, err = api.EstimateGas(reverting, nil)
	require.Error(t, err)
	assert.Equal(t, codeExecution, errorCode(t, err))
	var data interface{ ErrorData() interface{} }
	require.ErrorAs(t, err, &data)

	// The cap policy returns the allowance ceiling instead.
	viper.Set(flags.Eth_EstimateRevert, "cap")
	t.Cleanup(func() { viper.Set(flags.Eth_EstimateRevert, "error") })
	gas, err = api.EstimateGas(reverting, nil)
	require.NoError(t, err)
	assert.EqualValues(t, defaultGasCap, gas)
}

func TestSendRawTransaction(t *testing.T) {
	b, _, pool := newTestBackend(t)
	api := &TxAPI{b: b}
	to := common.HexToAddress("0x1111111111111111111111111111111111111111")
	tx := devTransfer(t, 0, to, 5)
	raw, err := tx.Encode()
	require.NoError(t, err)

	hash, err := api.SendRawTransaction(raw)
	require.NoError(t, err)
	assert.Equal(t, common.BytesToHash(tx.Hash()), hash)
	assert.True(t, pool.Has(tx.Key()))

	// Byte-identical resubmission is idempotent.
	again, err := api.SendRawTransaction(raw)
	require.NoError(t, err)
	assert.Equal(t, hash, again)
	assert.Equal(t, 1, pool.Stats())

	_, err = api.SendRawTransaction(hexutil.Bytes{0x01, 0x02})
	require.Error(t, err)
	assert.Equal(t, codeMalformed, errorCode(t, err))
}

func TestSendTransaction(t *testing.T) {
	b, _, pool := newTestBackend(t)
	api := &TxAPI{b: b}
	dev := common.HexToAddress(devHex)
	to := common.HexToAddress("0x1111111111111111111111111111111111111111")

	_, err := api.SendTransaction(TransactionArgs{To: &to})
	require.Error(t, err)
	assert.Equal(t, codeMalformed, errorCode(t, err))

	hash, err := api.SendTransaction(TransactionArgs{
		From:  &dev,
		To:    &to,
		Value: (*hexutil.Big)(big.NewInt(5)),
	})
	require.NoError(t, err)
	tx := pool.Get(types.TxHash(hash))
	require.NotNil(t, tx)
	assert.EqualValues(t, 0, tx.Nonce)
	assert.EqualValues(t, transactor.TxGas, tx.Gas)
	assert.True(t, tx.GasPrice.Sign() > 0)

	// The follow-up request takes the next pooled nonce.
	hash, err = api.SendTransaction(TransactionArgs{
		From:  &dev,
		To:    &to,
		Value: (*hexutil.Big)(big.NewInt(7)),
	})
	require.NoError(t, err)
	tx = pool.Get(types.TxHash(hash))
	require.NotNil(t, tx)
	assert.EqualValues(t, 1, tx.Nonce)

	// Signing requires an unlocked key.
	stranger := common.HexToAddress("0x2222222222222222222222222222222222222222")
	_, err = api.SendTransaction(TransactionArgs{From: &stranger, To: &to})
	require.Error(t, err)
	assert.Equal(t, codeBackend, errorCode(t, err))
}

func TestAccounts(t *testing.T) {
	b, _, _ := newTestBackend(t)
	api := &TxAPI{b: b}
	assert.Equal(t, []types.Address{common.HexToAddress(devHex)}, api.Accounts())
}

func TestGasPrice(t *testing.T) {
	b, chain, _ := newTestBackend(t)
	api := &TxAPI{b: b}

	// No history: the configured floor, 1 gwei by default.
	price, err := api.GasPrice()
	require.NoError(t, err)
	assert.EqualValues(t, defaultGasPrice, (*big.Int)(price).Int64())

	to := common.HexToAddress("0x1111111111111111111111111111111111111111")
	gwei := int64(1e9)
	advance(t, chain, types.Txs{
		devTx(t, 0, &to, 1, big.NewInt(2*gwei), nil),
		devTx(t, 1, &to, 1, big.NewInt(3*gwei), nil),
		devTx(t, 2, &to, 1, big.NewInt(4*gwei), nil),
	})
	price, err = api.GasPrice()
	require.NoError(t, err)
	assert.EqualValues(t, 3*gwei, (*big.Int)(price).Int64())
}

func TestGetLogs(t *testing.T) {
	b, chain, _ := newTestBackend(t)
	api := &ReadAPI{b: b}
	toA := common.HexToAddress("0x1111111111111111111111111111111111111111")
	toB := common.HexToAddress("0x2222222222222222222222222222222222222222")
	advance(t, chain, types.Txs{devTransfer(t, 0, toA, 5)})
	advance(t, chain, types.Txs{devTransfer(t, 1, toA, 6), devTransfer(t, 2, toB, 7)})

	logs, err := api.GetLogs(FilterCriteria{FromBlock: EarliestBlockID})
	require.NoError(t, err)
	require.Len(t, logs, 3)
	// Total order: height, then transaction index.
	assert.EqualValues(t, 2, logs[0].BlockNumber)
	assert.EqualValues(t, 3, logs[1].BlockNumber)
	assert.EqualValues(t, 3, logs[2].BlockNumber)
	assert.EqualValues(t, 0, logs[1].TransactionIndex)
	assert.EqualValues(t, 1, logs[2].TransactionIndex)

	logs, err = api.GetLogs(FilterCriteria{
		FromBlock: EarliestBlockID,
		Addresses: []common.Address{toB},
	})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, toB, logs[0].Address)

	// Position 1 holds the sender of the transfer.
	fromTopic := common.BytesToHash(common.HexToAddress(devHex).Bytes())
	logs, err = api.GetLogs(FilterCriteria{
		FromBlock: EarliestBlockID,
		Topics:    [][]common.Hash{nil, {fromTopic}},
	})
	require.NoError(t, err)
	assert.Len(t, logs, 3)

	logs, err = api.GetLogs(FilterCriteria{
		FromBlock: EarliestBlockID,
		Topics:    [][]common.Hash{{common.Hash{0x01}}},
	})
	require.NoError(t, err)
	assert.Empty(t, logs)

	_, err = api.GetLogs(FilterCriteria{FromBlock: BlockIDFromHeight(3), ToBlock: BlockIDFromHeight(2)})
	require.Error(t, err)
	assert.Equal(t, codeMalformed, errorCode(t, err))

	_, err = api.GetLogs(FilterCriteria{FromBlock: BlockIDFromHeight(9)})
	require.Error(t, err)
	assert.Equal(t, codeResolution, errorCode(t, err))
}

func TestMiningFacade(t *testing.T) {
	b, _, _ := newTestBackend(t)
	api := &MiningAPI{b: b}

	assert.False(t, api.Mining())
	coinbase, err := api.Coinbase()
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress(minerHex), coinbase)

	// No sealing task prepared yet.
	_, err = api.GetWork()
	require.Error(t, err)
	assert.Equal(t, codeBackend, errorCode(t, err))
	assert.False(t, api.SubmitWork(types.BlockNonce{}, common.Hash{0x01}, common.Hash{}))

	assert.EqualValues(t, 0, api.Hashrate())
	assert.True(t, api.SubmitHashrate(42, common.Hash{0x01}))
	assert.EqualValues(t, 42, api.Hashrate())
}
