package transactor

import (
	"math/big"

	"github.com/emberchain/node/types"
	"github.com/cosmos/iavl"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// transferTopic is the first topic of the log emitted for every
// successful value transfer.
var transferTopic = crypto.Keccak256Hash([]byte("Transfer(address,address,uint256)"))

// Message is one unit of execution: either a signed transaction that was
// resolved to its sender, or a synthetic call that never entered the
// pool.
type Message struct {
	From     types.Address
	To       *types.Address // nil deploys Data as code
	Nonce    uint64
	Gas      uint64
	GasPrice *big.Int
	Value    *big.Int
	Data     []byte
	Coinbase types.Address
}

type execResult struct {
	gasUsed  uint64
	reverted bool
	output   []byte
	logs     []*types.Log
	contract *types.Address
}

// execute runs one message against the tree. A returned error means
// execution could not start and no state was touched; a reverted result
// means fees were charged and the nonce consumed, but the transfer was
// rolled back.
func execute(tree *iavl.MutableTree, msg *Message, bumpNonce bool) (*execResult, error) {
	gasUsed, err := IntrinsicGas(msg.Data, msg.To == nil)
	if err != nil {
		return nil, err
	}
	if msg.Gas < gasUsed {
		return nil, ErrIntrinsicGas
	}

	sender, err := GetAccount(tree, msg.From)
	if err != nil {
		return nil, err
	}

	fee := new(big.Int)
	if msg.GasPrice != nil && msg.GasPrice.Sign() > 0 {
		fee.Mul(msg.GasPrice, new(big.Int).SetUint64(gasUsed))
		if sender.Balance.Cmp(fee) < 0 {
			return nil, ErrInsufficientFunds
		}
		sender.Balance = new(big.Int).Sub(sender.Balance, fee)
	}
	if bumpNonce {
		sender.Nonce++
	}

	value := msg.Value
	if value == nil {
		value = new(big.Int)
	}
	result := &execResult{gasUsed: gasUsed}
	if sender.Balance.Cmp(value) < 0 {
		// The transfer itself cannot be honored: fees stay charged,
		// the nonce stays consumed, everything else rolls back.
		result.reverted = true
		result.output = EncodeRevert("insufficient balance for transfer")
		if err := setAccount(tree, msg.From, sender); err != nil {
			return nil, err
		}
	} else {
		sender.Balance = new(big.Int).Sub(sender.Balance, value)
		if err := setAccount(tree, msg.From, sender); err != nil {
			return nil, err
		}
		if msg.To == nil {
			created := types.CreatedAddress(msg.From, msg.Nonce)
			if err := setCode(tree, created, msg.Data); err != nil {
				return nil, err
			}
			if err := credit(tree, created, value); err != nil {
				return nil, err
			}
			result.contract = &created
		} else {
			if err := credit(tree, *msg.To, value); err != nil {
				return nil, err
			}
			result.logs = append(result.logs, &types.Log{
				Address: *msg.To,
				Topics: []common.Hash{
					transferTopic,
					addressWord(msg.From),
					addressWord(*msg.To),
				},
				Data: valueWord(value),
			})
		}
	}

	if fee.Sign() > 0 {
		if err := credit(tree, msg.Coinbase, fee); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func credit(tree *iavl.MutableTree, addr types.Address, amount *big.Int) error {
	acc, err := GetAccount(tree, addr)
	if err != nil {
		return err
	}
	acc.Balance = new(big.Int).Add(acc.Balance, amount)
	return setAccount(tree, addr, acc)
}

func addressWord(addr types.Address) common.Hash {
	return common.BytesToHash(addr.Bytes())
}

func valueWord(value *big.Int) []byte {
	word := make([]byte, 32)
	value.FillBytes(word)
	return word
}

type rejectedTx struct {
	Index int    `json:"index"`
	Err   string `json:"error"`
}

type ExecutionResult struct {
	StateRoot   types.Hash     `json:"stateRoot"`
	TxRoot      types.Hash     `json:"txRoot"`
	ReceiptRoot types.Hash     `json:"receiptsRoot"`
	Receipts    types.Receipts `json:"receipts"`
	GasUsed     uint64         `json:"gasUsed"`
	Included    types.Txs      `json:"-"`
	Rejected    []*rejectedTx  `json:"rejected,omitempty"`
}

// ApplyTxs executes txs in order against the tree. Transactions that
// cannot start execution are rejected and excluded from the roots;
// reverted transactions are included with a failed receipt.
func ApplyTxs(tree *iavl.MutableTree, txs types.Txs, coinbase types.Address) (*ExecutionResult, error) {
	var (
		rejectedTxs   []*rejectedTx
		includedTxs   types.Txs
		receipts      = make(types.Receipts, 0)
		cumulativeGas uint64
	)
	for i, tx := range txs {
		from, err := tx.Sender()
		if err != nil {
			rejectedTxs = append(rejectedTxs, &rejectedTx{i, err.Error()})
			continue
		}
		acc, err := GetAccount(tree, from)
		if err != nil {
			return nil, err
		}
		if tx.Nonce < acc.Nonce {
			rejectedTxs = append(rejectedTxs, &rejectedTx{i, ErrNonceTooLow.Error()})
			continue
		}
		if tx.Nonce > acc.Nonce {
			rejectedTxs = append(rejectedTxs, &rejectedTx{i, ErrNonceTooHigh.Error()})
			continue
		}
		result, err := execute(tree, &Message{
			From:     from,
			To:       tx.To,
			Nonce:    tx.Nonce,
			Gas:      tx.Gas,
			GasPrice: tx.GasPrice,
			Value:    tx.Value,
			Data:     tx.Data,
			Coinbase: coinbase,
		}, true)
		if err != nil {
			rejectedTxs = append(rejectedTxs, &rejectedTx{i, err.Error()})
			continue
		}
		includedTxs = append(includedTxs, tx)
		cumulativeGas += result.gasUsed
		receipt := &types.Receipt{
			TxHash:            tx.Hash(),
			Status:            types.TxStatusSuccess,
			GasUsed:           result.gasUsed,
			CumulativeGasUsed: cumulativeGas,
			ContractAddress:   result.contract,
			Logs:              result.logs,
		}
		if result.reverted {
			receipt.Status = types.TxStatusFailed
			receipt.Output = result.output
		}
		receipts = append(receipts, receipt)
	}
	root, err := tree.WorkingHash()
	if err != nil {
		return nil, err
	}
	return &ExecutionResult{
		StateRoot:   root,
		TxRoot:      includedTxs.Hash(),
		ReceiptRoot: receipts.Hash(),
		Receipts:    receipts,
		GasUsed:     cumulativeGas,
		Included:    includedTxs,
		Rejected:    rejectedTxs,
	}, nil
}
