package types

import (
	"crypto/ecdsa"
	"math/big"

	"github.com/cometbft/cometbft/crypto/merkle"
	"github.com/emberchain/node/config"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
)

// Transaction is a signed value transfer or code deployment. A nil To
// address deploys the payload as code at the derived contract address.
type Transaction struct {
	Nonce    uint64   `json:"nonce"`
	GasPrice *big.Int `json:"gasPrice"`
	Gas      uint64   `json:"gas"`
	To       *Address `json:"to" rlp:"nil"`
	Value    *big.Int `json:"value"`
	Data     HexBytes `json:"input"`
	V        *big.Int `json:"v"`
	R        *big.Int `json:"r"`
	S        *big.Int `json:"s"`
}

func (tx *Transaction) Hash() Hash {
	return rlpHash(tx)
}

// Key returns the transaction hash as a fixed-size map key.
func (tx *Transaction) Key() TxHash {
	var key TxHash
	copy(key[:], tx.Hash())
	return key
}

// sigHashPayload is the signed portion of a transaction, bound to the
// chain ID so signatures cannot be replayed across networks.
type sigHashPayload struct {
	Nonce    uint64
	GasPrice *big.Int
	Gas      uint64
	To       *Address `rlp:"nil"`
	Value    *big.Int
	Data     []byte
	ChainID  *big.Int
	Zero1    uint
	Zero2    uint
}

func (tx *Transaction) SigHash() Hash {
	return rlpHash(&sigHashPayload{
		Nonce:    tx.Nonce,
		GasPrice: tx.GasPrice,
		Gas:      tx.Gas,
		To:       tx.To,
		Value:    tx.Value,
		Data:     tx.Data,
		ChainID:  config.ChainID(),
	})
}

// Sender recovers the signing address. Only chain-bound signatures are
// accepted.
func (tx *Transaction) Sender() (Address, error) {
	if tx.V == nil || tx.R == nil || tx.S == nil {
		return Address{}, ErrInvalidSignature
	}
	recovery := new(big.Int).Sub(tx.V, big.NewInt(35))
	recovery.Sub(recovery, new(big.Int).Mul(config.ChainID(), big2))
	if !recovery.IsUint64() || recovery.Uint64() > 1 {
		return Address{}, ErrInvalidChainID
	}
	sig := make([]byte, crypto.SignatureLength)
	tx.R.FillBytes(sig[:32])
	tx.S.FillBytes(sig[32:64])
	sig[64] = byte(recovery.Uint64())
	pub, err := crypto.SigToPub(tx.SigHash(), sig)
	if err != nil {
		return Address{}, ErrInvalidSignature
	}
	return crypto.PubkeyToAddress(*pub), nil
}

// Cost returns value + gas * gasPrice, the maximum balance a transaction
// can consume.
func (tx *Transaction) Cost() *big.Int {
	cost := new(big.Int).SetUint64(tx.Gas)
	cost.Mul(cost, tx.GasPrice)
	return cost.Add(cost, tx.Value)
}

func (tx *Transaction) Encode() ([]byte, error) {
	return rlp.EncodeToBytes(tx)
}

// DecodeTx decodes an RLP-encoded transaction, the eth_sendRawTransaction
// payload format. The bytes are not altered or re-encoded.
func DecodeTx(data []byte) (*Transaction, error) {
	tx := new(Transaction)
	if err := rlp.DecodeBytes(data, tx); err != nil {
		return nil, err
	}
	return tx, nil
}

// SignTx signs the transaction with the given key, binding it to the
// configured chain ID.
func SignTx(tx *Transaction, prv *ecdsa.PrivateKey) (*Transaction, error) {
	sig, err := crypto.Sign(tx.SigHash(), prv)
	if err != nil {
		return nil, err
	}
	signed := *tx
	signed.R = new(big.Int).SetBytes(sig[:32])
	signed.S = new(big.Int).SetBytes(sig[32:64])
	signed.V = new(big.Int).SetUint64(uint64(sig[64]) + 35)
	signed.V.Add(signed.V, new(big.Int).Mul(config.ChainID(), big2))
	return &signed, nil
}

// CreatedAddress derives the contract address for a deployment by sender
// and nonce.
func CreatedAddress(from Address, nonce uint64) Address {
	return crypto.CreateAddress(from, nonce)
}

type Txs []*Transaction

func (txs Txs) Hash() []byte {
	return merkle.HashFromByteSlices(txs.hashList())
}

func (txs Txs) hashList() [][]byte {
	hl := make([][]byte, len(txs))
	for i := 0; i < len(txs); i++ {
		hl[i] = txs[i].Hash()
	}
	return hl
}
