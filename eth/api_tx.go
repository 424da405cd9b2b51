package eth

import (
	"errors"
	"math/big"
	"sort"

	"github.com/emberchain/node/core"
	"github.com/emberchain/node/flags"
	"github.com/emberchain/node/mempool"
	"github.com/emberchain/node/transactor"
	"github.com/emberchain/node/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/viper"
)

const (
	defaultGasPrice = 1e9  // 1 gwei floor when no price is configured
	defaultGasCap   = 50e6 // estimation and call allowance ceiling
	priceBlocks     = 20   // sample window for gas price suggestions
)

// TransactionArgs is the wire form of both CallRequest and
// TransactionRequest: every field optional, gaps filled server side.
type TransactionArgs struct {
	From     *common.Address `json:"from"`
	To       *common.Address `json:"to"`
	Gas      *hexutil.Uint64 `json:"gas"`
	GasPrice *hexutil.Big    `json:"gasPrice"`
	Value    *hexutil.Big    `json:"value"`
	Nonce    *hexutil.Uint64 `json:"nonce"`
	Data     *hexutil.Bytes  `json:"data"`
	Input    *hexutil.Bytes  `json:"input"`
}

func (args *TransactionArgs) data() []byte {
	if args.Input != nil {
		return *args.Input
	}
	if args.Data != nil {
		return *args.Data
	}
	return nil
}

func (args *TransactionArgs) from() types.Address {
	if args.From != nil {
		return *args.From
	}
	return types.Address{}
}

// toMessage builds a sandboxed execution message, defaulting gas to the
// given cap and missing numeric fields to zero.
func (args *TransactionArgs) toMessage(gasCap uint64, coinbase types.Address) *transactor.Message {
	gas := gasCap
	if args.Gas != nil {
		gas = uint64(*args.Gas)
	}
	gasPrice := new(big.Int)
	if args.GasPrice != nil {
		gasPrice = (*big.Int)(args.GasPrice)
	}
	value := new(big.Int)
	if args.Value != nil {
		value = (*big.Int)(args.Value)
	}
	var to *types.Address
	if args.To != nil {
		addr := types.Address(*args.To)
		to = &addr
	}
	msg := &transactor.Message{
		From:     args.from(),
		To:       to,
		Gas:      gas,
		GasPrice: gasPrice,
		Value:    value,
		Data:     args.data(),
		Coinbase: coinbase,
	}
	return msg
}

// TxAPI serves transaction submission, sandboxed calls and gas pricing.
type TxAPI struct {
	b *Backend
}

// Accounts lists addresses the node can sign for.
func (api *TxAPI) Accounts() []types.Address {
	return api.b.signer.Accounts()
}

// GasPrice suggests a price from the median of recent included
// transactions, bounded below by the configured floor.
func (api *TxAPI) GasPrice() (*hexutil.Big, error) {
	floor := big.NewInt(viper.GetInt64(flags.Eth_GasPrice))
	if floor.Sign() == 0 {
		floor = big.NewInt(defaultGasPrice)
	}

	var prices []*big.Int
	head := api.b.chain.LatestBlock().Header.Height.Uint64()
	for height := head; height+priceBlocks > head && height >= genesisHeight; height-- {
		block := api.b.chain.BlockByHeight(height)
		if block == nil {
			break
		}
		for _, tx := range block.Txs {
			prices = append(prices, tx.GasPrice)
		}
	}
	if len(prices) == 0 {
		return (*hexutil.Big)(floor), nil
	}
	sort.Slice(prices, func(i, j int) bool { return prices[i].Cmp(prices[j]) < 0 })
	median := prices[len(prices)/2]
	if median.Cmp(floor) < 0 {
		median = floor
	}
	return (*hexutil.Big)(new(big.Int).Set(median)), nil
}

// SendTransaction fills the gaps of a transaction request, signs it
// with an unlocked account and admits it to the pool. The returned hash
// promises pool admission, not inclusion.
func (api *TxAPI) SendTransaction(args TransactionArgs) (common.Hash, error) {
	if args.From == nil {
		return common.Hash{}, errMalformed("missing from address")
	}
	from := *args.From

	gasPrice := (*big.Int)(args.GasPrice)
	if gasPrice == nil || gasPrice.Sign() == 0 {
		suggested, err := api.GasPrice()
		if err != nil {
			return common.Hash{}, shape(err)
		}
		gasPrice = (*big.Int)(suggested)
	}

	var nonce uint64
	if args.Nonce != nil {
		nonce = uint64(*args.Nonce)
	} else {
		state, err := api.b.chain.StateAt(api.b.chain.LatestBlock().Header.Height.Uint64())
		if err != nil {
			return common.Hash{}, shape(err)
		}
		account, err := transactor.GetAccount(state, from)
		if err != nil {
			return common.Hash{}, shape(err)
		}
		nonce = api.b.pool.PendingNonce(from, account.Nonce)
	}

	var gas uint64
	if args.Gas != nil {
		gas = uint64(*args.Gas)
	} else {
		estimated, err := api.EstimateGas(args, nil)
		if err != nil {
			return common.Hash{}, err
		}
		gas = uint64(estimated)
	}

	var to *types.Address
	if args.To != nil {
		addr := types.Address(*args.To)
		to = &addr
	}
	value := new(big.Int)
	if args.Value != nil {
		value = (*big.Int)(args.Value)
	}
	tx := &types.Transaction{
		Nonce:    nonce,
		GasPrice: gasPrice,
		Gas:      gas,
		To:       to,
		Value:    value,
		Data:     args.data(),
	}
	signed, err := api.b.signer.SignTx(from, tx)
	if err != nil {
		return common.Hash{}, shape(err)
	}
	return api.admit(signed)
}

// SendRawTransaction admits a pre-signed transaction, its bytes are
// never altered. Byte-identical resubmission returns the same hash.
func (api *TxAPI) SendRawTransaction(input hexutil.Bytes) (common.Hash, error) {
	tx, err := types.DecodeTx(input)
	if err != nil {
		return common.Hash{}, errMalformed("invalid raw transaction: " + err.Error())
	}
	if _, err := tx.Sender(); err != nil {
		return common.Hash{}, errMalformed("invalid transaction signature: " + err.Error())
	}
	return api.admit(tx)
}

func (api *TxAPI) admit(tx *types.Transaction) (common.Hash, error) {
	err := api.b.pool.AddLocal(tx)
	if err != nil && !errors.Is(err, mempool.ErrAlreadyKnown) {
		return common.Hash{}, shape(err)
	}
	return common.BytesToHash(tx.Hash()), nil
}

// Call executes a synthetic message against the resolved block's state
// with all writes discarded. A revert is a successful call whose output
// carries the revert payload.
func (api *TxAPI) Call(args TransactionArgs, id *BlockID) (hexutil.Bytes, error) {
	snap, err := api.b.resolve(deref(id))
	if err != nil {
		return nil, shape(err)
	}
	if snap == nil {
		return nil, absent("call")
	}
	msg := args.toMessage(gasCap(), api.b.miner.Coinbase())
	result, err := api.b.executor.CallAt(api.b.stateHeight(snap), msg)
	if err != nil {
		return nil, shapeExec(err)
	}
	return hexutil.Bytes(result.Output), nil
}

// EstimateGas searches for the lowest allowance letting the message
// execute at the resolved block. Revert-at-cap behavior follows the
// eth.estimaterevert setting, an error carrying the payload by default.
func (api *TxAPI) EstimateGas(args TransactionArgs, id *BlockID) (hexutil.Uint64, error) {
	snap, err := api.b.resolve(deref(id))
	if err != nil {
		return 0, shape(err)
	}
	if snap == nil {
		return 0, absent("estimateGas")
	}
	cap := gasCap()
	capOnRevert := viper.GetString(flags.Eth_EstimateRevert) == "cap"
	msg := args.toMessage(cap, api.b.miner.Coinbase())
	gas, err := api.b.executor.EstimateGasAt(api.b.stateHeight(snap), msg, cap, capOnRevert)
	if err != nil {
		return 0, shapeExec(err)
	}
	return hexutil.Uint64(gas), nil
}

func gasCap() uint64 {
	if cap := viper.GetUint64(flags.Eth_GasCap); cap > 0 {
		return cap
	}
	return defaultGasCap
}

// shapeExec maps sandbox failures: pruned snapshots are resolution
// errors, reverts keep their payload, the rest could not even start.
func shapeExec(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, core.ErrPrunedState) {
		return errResolution("%v", err)
	}
	var revert *transactor.RevertError
	if errors.As(err, &revert) {
		return shape(err)
	}
	var coded interface{ ErrorCode() int }
	if errors.As(err, &coded) {
		return err
	}
	return &rpcError{code: codeExecution, msg: err.Error()}
}
