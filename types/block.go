package types

import (
	"bytes"
	"math/big"
	"time"

	"github.com/cometbft/cometbft/crypto/merkle"
)

// allowedFutureBlockTime is the maximum clock drift tolerated before a
// block timestamp is rejected as coming from the future.
const allowedFutureBlockTime = 15 * time.Second

type Header struct {
	ParentHash  Hash       `json:"parentHash"       gencodec:"required"`
	UncleHash   Hash       `json:"sha3Uncles"       gencodec:"required"`
	Miner       Address    `json:"miner"            gencodec:"required"`
	Root        Hash       `json:"stateRoot"        gencodec:"required"`
	TxHash      Hash       `json:"transactionsRoot" gencodec:"required"`
	ReceiptHash Hash       `json:"receiptsRoot"     gencodec:"required"`
	Difficulty  *big.Int   `json:"difficulty"       gencodec:"required"`
	Height      *big.Int   `json:"height"           gencodec:"required"`
	GasLimit    uint64     `json:"gasLimit"         gencodec:"required"`
	GasUsed     uint64     `json:"gasUsed"          gencodec:"required"`
	Time        uint64     `json:"timestamp"        gencodec:"required"`
	Extra       HexBytes   `json:"extraData"        gencodec:"required"`
	Nonce       BlockNonce `json:"nonce"`
}

func (h *Header) Hash() Hash {
	return rlpHash(h)
}

// SealHash is the hash a proof-of-work solution must be bound to: the
// header hash with the nonce zeroed. Remote miners receive this value in
// work packages and must echo it back with their solutions.
func (h *Header) SealHash() Hash {
	sealed := CopyHeader(h)
	sealed.Nonce = BlockNonce{}
	return rlpHash(sealed)
}

func (h *Header) IsValid(parent *Header) error {
	if h.Height.Uint64() != parent.Height.Uint64()+1 ||
		!bytes.Equal(h.ParentHash, parent.Hash()) {
		return ErrNotContiguous
	}
	if h.Time > uint64(time.Now().Add(allowedFutureBlockTime).Unix()) {
		return ErrFutureBlock
	}
	if h.Time <= parent.Time ||
		h.Difficulty.Cmp(CalcDifficulty(h.Time, parent)) != 0 {
		return ErrInvalidBlock
	}
	return nil
}

func CopyHeader(h *Header) *Header {
	cpy := *h
	if cpy.Difficulty = new(big.Int); h.Difficulty != nil {
		cpy.Difficulty.Set(h.Difficulty)
	}
	if cpy.Height = new(big.Int); h.Height != nil {
		cpy.Height.Set(h.Height)
	}
	if len(h.Extra) > 0 {
		cpy.Extra = make([]byte, len(h.Extra))
		copy(cpy.Extra, h.Extra)
	}
	return &cpy
}

type Headers []*Header

func (rs Headers) Hash() []byte {
	return merkle.HashFromByteSlices(rs.hashList())
}

func (rs Headers) hashList() [][]byte {
	hl := make([][]byte, len(rs))
	for i := 0; i < len(rs); i++ {
		hl[i] = rs[i].Hash()
	}
	return hl
}

type Block struct {
	Header *Header `json:"header"`
	Txs    Txs     `json:"txs"`
	Uncles Headers `json:"uncles"`
}

func NewBlockWithHeader(header *Header) *Block {
	return &Block{Header: CopyHeader(header)}
}

// fillHeader fills in any remaining header fields that are a function of
// the block data.
func (b *Block) fillHeader() {
	if b.Header.UncleHash == nil {
		b.Header.UncleHash = b.Uncles.Hash()
	}
	if b.Header.TxHash == nil {
		b.Header.TxHash = b.Txs.Hash()
	}
}

// Hash computes and returns the block hash.
func (b *Block) Hash() Hash {
	if b == nil {
		return nil
	}

	b.fillHeader()
	return b.Header.Hash()
}

// Some weird constants to avoid constant memory allocs for them.
var (
	expDiffPeriod = big.NewInt(100000)
	big1          = big.NewInt(1)
	big2          = big.NewInt(2)
	big10         = big.NewInt(10)
	bigMinus99    = big.NewInt(-99)

	DifficultyBoundDivisor = big.NewInt(2048)   // The bound divisor of the difficulty, used in the update calculations.
	GenesisDifficulty      = big.NewInt(131072) // Difficulty of the Genesis block.
	MinimumDifficulty      = big.NewInt(131072) // The minimum that the difficulty may ever be.
)

func CalcDifficulty(time uint64, parent *Header) *big.Int {
	// algorithm:
	// diff = (parent_diff +
	//         (parent_diff / 2048 * max(1 - (block_timestamp - parent_timestamp) // 10, -99))
	//        ) + 2^(periodCount - 2)

	x := new(big.Int).SetUint64(time - parent.Time)
	x.Div(x, big10)
	x.Sub(big1, x)

	// max(1 - (block_timestamp - parent_timestamp) // 10, -99)
	if x.Cmp(bigMinus99) < 0 {
		x.Set(bigMinus99)
	}
	y := new(big.Int)
	y.Div(parent.Difficulty, DifficultyBoundDivisor)
	x.Mul(y, x)
	x.Add(parent.Difficulty, x)

	// minimum difficulty can ever be (before exponential factor)
	if x.Cmp(MinimumDifficulty) < 0 {
		x.Set(MinimumDifficulty)
	}
	// the exponential factor, commonly referred to as "the bomb"
	// diff = diff + 2^(periodCount - 2)
	periodCount := new(big.Int).Add(parent.Height, big1)
	periodCount.Div(periodCount, expDiffPeriod)
	if periodCount.Cmp(big1) > 0 {
		y.Sub(periodCount, big2)
		y.Exp(big2, y, nil)
		x.Add(x, y)
	}
	return x
}
