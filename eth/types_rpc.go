package eth

import (
	"math/big"

	"github.com/emberchain/node/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// RPCTransaction is the wire form of an included or pooled transaction.
// Inclusion fields are nil while the transaction is still pooled.
type RPCTransaction struct {
	BlockHash        *common.Hash    `json:"blockHash"`
	BlockNumber      *hexutil.Big    `json:"blockNumber"`
	From             common.Address  `json:"from"`
	Gas              hexutil.Uint64  `json:"gas"`
	GasPrice         *hexutil.Big    `json:"gasPrice"`
	Hash             common.Hash     `json:"hash"`
	Input            hexutil.Bytes   `json:"input"`
	Nonce            hexutil.Uint64  `json:"nonce"`
	To               *common.Address `json:"to"`
	TransactionIndex *hexutil.Uint64 `json:"transactionIndex"`
	Value            *hexutil.Big    `json:"value"`
	V                *hexutil.Big    `json:"v"`
	R                *hexutil.Big    `json:"r"`
	S                *hexutil.Big    `json:"s"`
}

func newRPCTransaction(tx *types.Transaction, blockHash types.Hash, blockNumber uint64, index uint64) *RPCTransaction {
	from, _ := tx.Sender()
	var to *common.Address
	if tx.To != nil {
		addr := common.Address(*tx.To)
		to = &addr
	}
	result := &RPCTransaction{
		From:     from,
		Gas:      hexutil.Uint64(tx.Gas),
		GasPrice: (*hexutil.Big)(tx.GasPrice),
		Hash:     common.BytesToHash(tx.Hash()),
		Input:    hexutil.Bytes(tx.Data),
		Nonce:    hexutil.Uint64(tx.Nonce),
		To:       to,
		Value:    (*hexutil.Big)(tx.Value),
		V:        (*hexutil.Big)(tx.V),
		R:        (*hexutil.Big)(tx.R),
		S:        (*hexutil.Big)(tx.S),
	}
	if blockHash != nil {
		hash := common.BytesToHash(blockHash)
		idx := hexutil.Uint64(index)
		result.BlockHash = &hash
		result.BlockNumber = (*hexutil.Big)(new(big.Int).SetUint64(blockNumber))
		result.TransactionIndex = &idx
	}
	return result
}

// RPCLog is the wire form of a log entry with inclusion context.
type RPCLog struct {
	Address          common.Address `json:"address"`
	Topics           []common.Hash  `json:"topics"`
	Data             hexutil.Bytes  `json:"data"`
	BlockNumber      hexutil.Uint64 `json:"blockNumber"`
	TransactionHash  common.Hash    `json:"transactionHash"`
	TransactionIndex hexutil.Uint64 `json:"transactionIndex"`
	BlockHash        common.Hash    `json:"blockHash"`
	LogIndex         hexutil.Uint64 `json:"logIndex"`
	Removed          bool           `json:"removed"`
}

func newRPCLog(lg *types.Log, blockHash types.Hash, blockNumber uint64, txHash types.Hash, txIndex uint64, logIndex uint64) *RPCLog {
	return &RPCLog{
		Address:          lg.Address,
		Topics:           lg.Topics,
		Data:             hexutil.Bytes(lg.Data),
		BlockNumber:      hexutil.Uint64(blockNumber),
		TransactionHash:  common.BytesToHash(txHash),
		TransactionIndex: hexutil.Uint64(txIndex),
		BlockHash:        common.BytesToHash(blockHash),
		LogIndex:         hexutil.Uint64(logIndex),
	}
}

// marshalReceipt builds the wire form of an execution receipt.
func marshalReceipt(receipt *types.Receipt, tx *types.Transaction, blockHash types.Hash, blockNumber uint64, index uint64, logIndexBase uint64) map[string]interface{} {
	from, _ := tx.Sender()
	fields := map[string]interface{}{
		"transactionHash":   common.BytesToHash(tx.Hash()),
		"transactionIndex":  hexutil.Uint64(index),
		"blockHash":         common.BytesToHash(blockHash),
		"blockNumber":       hexutil.Uint64(blockNumber),
		"from":              from,
		"to":                nil,
		"gasUsed":           hexutil.Uint64(receipt.GasUsed),
		"cumulativeGasUsed": hexutil.Uint64(receipt.CumulativeGasUsed),
		"contractAddress":   nil,
		"status":            hexutil.Uint(receipt.Status),
	}
	if tx.To != nil {
		fields["to"] = common.Address(*tx.To)
	}
	if receipt.ContractAddress != nil {
		fields["contractAddress"] = common.Address(*receipt.ContractAddress)
	}
	logs := make([]*RPCLog, len(receipt.Logs))
	for i, lg := range receipt.Logs {
		logs[i] = newRPCLog(lg, blockHash, blockNumber, tx.Hash(), index, logIndexBase+uint64(i))
	}
	fields["logs"] = logs
	return fields
}

// marshalBlock builds the wire form of a block. fullTx selects between
// transaction objects and bare hashes. td is nil for pending blocks.
func marshalBlock(block *types.Block, fullTx bool, td *big.Int, pending bool) map[string]interface{} {
	head := block.Header
	fields := map[string]interface{}{
		"number":           (*hexutil.Big)(head.Height),
		"parentHash":       common.BytesToHash(head.ParentHash),
		"nonce":            head.Nonce,
		"sha3Uncles":       common.BytesToHash(head.UncleHash),
		"stateRoot":        common.BytesToHash(head.Root),
		"transactionsRoot": common.BytesToHash(head.TxHash),
		"receiptsRoot":     common.BytesToHash(head.ReceiptHash),
		"miner":            head.Miner,
		"difficulty":       (*hexutil.Big)(head.Difficulty),
		"extraData":        hexutil.Bytes(head.Extra),
		"gasLimit":         hexutil.Uint64(head.GasLimit),
		"gasUsed":          hexutil.Uint64(head.GasUsed),
		"timestamp":        hexutil.Uint64(head.Time),
	}
	if pending {
		// A speculative block has no settled identity yet.
		fields["hash"] = nil
		fields["nonce"] = nil
		fields["miner"] = nil
	} else {
		fields["hash"] = common.BytesToHash(block.Hash())
	}
	if td != nil {
		fields["totalDifficulty"] = (*hexutil.Big)(td)
	}

	var blockHash types.Hash
	if !pending {
		blockHash = block.Hash()
	}
	height := head.Height.Uint64()
	txs := make([]interface{}, len(block.Txs))
	for i, tx := range block.Txs {
		if fullTx {
			txs[i] = newRPCTransaction(tx, blockHash, height, uint64(i))
		} else {
			txs[i] = common.BytesToHash(tx.Hash())
		}
	}
	fields["transactions"] = txs

	uncles := make([]common.Hash, len(block.Uncles))
	for i, uncle := range block.Uncles {
		uncles[i] = common.BytesToHash(uncle.Hash())
	}
	fields["uncles"] = uncles
	return fields
}
