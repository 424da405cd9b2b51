package types

import (
	"github.com/cometbft/cometbft/crypto/merkle"
	cmtbytes "github.com/cometbft/cometbft/libs/bytes"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
)

type Hash = cmtbytes.HexBytes
type HexBytes = cmtbytes.HexBytes
type Address = common.Address
type BlockNonce = ethtypes.BlockNonce

// TxHash is a fixed-size transaction hash usable as a map key.
type TxHash [32]byte

var EncodeNonce = ethtypes.EncodeNonce

type TxStatus = uint8

// Transaction execution outcomes, append only.
const (
	TxStatusFailed  TxStatus = iota // execution started but reverted
	TxStatusSuccess                 // executed and state committed
)

// Log is an event record emitted during transaction execution. Positional
// context (block, transaction index, log index) is derived when a log is
// read back out of a block, never stored.
type Log struct {
	Address Address       `json:"address"`
	Topics  []common.Hash `json:"topics"`
	Data    HexBytes      `json:"data"`
}

// Receipt is the persisted execution result of one included transaction.
type Receipt struct {
	TxHash            Hash     `json:"transactionHash"`
	Status            TxStatus `json:"status"`
	GasUsed           uint64   `json:"gasUsed"`
	CumulativeGasUsed uint64   `json:"cumulativeGasUsed"`
	ContractAddress   *Address `json:"contractAddress" rlp:"nil"`
	Logs              []*Log   `json:"logs"`
	Output            HexBytes `json:"output"` // revert payload when Status is failed
}

func (r *Receipt) Hash() Hash {
	return rlpHash(r)
}

type Receipts []*Receipt

func (rs Receipts) Hash() []byte {
	return merkle.HashFromByteSlices(rs.hashList())
}

func (rs Receipts) hashList() [][]byte {
	hl := make([][]byte, len(rs))
	for i := 0; i < len(rs); i++ {
		hl[i] = rs[i].Hash()
	}
	return hl
}
