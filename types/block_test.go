package types_test

import (
	"math/big"
	"testing"
	"time"

	"github.com/emberchain/node/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
)

func testHeader() *types.Header {
	return &types.Header{
		ParentHash: []byte{0},
		Miner:      common.Address{},
		Root:       []byte{0},
		TxHash:     []byte{0},
		Difficulty: common.Big0,
		Height:     common.Big0,
		Time:       1700000000,
		Extra:      []byte{0},
		Nonce:      types.EncodeNonce(0),
	}
}

func TestHeaderHash(t *testing.T) {
	h := testHeader()
	hash := h.Hash()
	hCopy := types.CopyHeader(h)
	assert.Equal(t, hash, hCopy.Hash())

	hCopy.ParentHash[0] = 1
	assert.NotEqual(t, hash, hCopy.Hash())

	hCopy = types.CopyHeader(h)
	hCopy.Root[0] = 1
	assert.NotEqual(t, hash, hCopy.Hash())

	hCopy = types.CopyHeader(h)
	hCopy.Difficulty = common.Big1
	assert.NotEqual(t, hash, hCopy.Hash())

	hCopy = types.CopyHeader(h)
	hCopy.Height = common.Big1
	assert.NotEqual(t, hash, hCopy.Hash())

	hCopy = types.CopyHeader(h)
	hCopy.GasUsed = 42
	assert.NotEqual(t, hash, hCopy.Hash())

	hCopy = types.CopyHeader(h)
	hCopy.Nonce = types.EncodeNonce(7)
	assert.NotEqual(t, hash, hCopy.Hash())
}

func TestSealHashIgnoresNonce(t *testing.T) {
	h := testHeader()
	sealed := h.SealHash()

	h.Nonce = types.EncodeNonce(12345)
	assert.Equal(t, sealed, h.SealHash())
	assert.NotEqual(t, sealed, h.Hash())

	h.Height = common.Big1
	assert.NotEqual(t, sealed, h.SealHash())
}

func TestBlockFillHeader(t *testing.T) {
	header := testHeader()
	header.TxHash = nil
	header.UncleHash = nil
	block := types.NewBlockWithHeader(header)
	block.Hash()
	assert.Equal(t, types.Hash(types.Txs{}.Hash()), block.Header.TxHash)
	assert.Equal(t, types.Hash(types.Headers{}.Hash()), block.Header.UncleHash)
}

func TestCalcDifficulty(t *testing.T) {
	parent := testHeader()
	parent.Difficulty = new(big.Int).Set(types.MinimumDifficulty)
	parent.Height = common.Big1

	// A fast block raises difficulty.
	diff := types.CalcDifficulty(parent.Time+1, parent)
	assert.True(t, diff.Cmp(types.MinimumDifficulty) > 0)

	// A slow block cannot fall below the minimum.
	diff = types.CalcDifficulty(parent.Time+1000, parent)
	assert.Equal(t, 0, diff.Cmp(types.MinimumDifficulty))
}

func TestHeaderIsValid(t *testing.T) {
	parent := testHeader()
	parent.Difficulty = new(big.Int).Set(types.MinimumDifficulty)
	parent.Height = common.Big1

	child := types.CopyHeader(parent)
	child.Height = common.Big2
	child.ParentHash = parent.Hash()
	child.Time = parent.Time + 5
	child.Difficulty = types.CalcDifficulty(child.Time, parent)
	assert.NoError(t, child.IsValid(parent))

	skipped := types.CopyHeader(child)
	skipped.Height = big.NewInt(5)
	assert.ErrorIs(t, skipped.IsValid(parent), types.ErrNotContiguous)

	wrongDiff := types.CopyHeader(child)
	wrongDiff.Difficulty = common.Big1
	assert.ErrorIs(t, wrongDiff.IsValid(parent), types.ErrInvalidBlock)

	stale := types.CopyHeader(child)
	stale.Time = parent.Time
	assert.ErrorIs(t, stale.IsValid(parent), types.ErrInvalidBlock)

	future := types.CopyHeader(child)
	future.Time = uint64(time.Now().Add(time.Hour).Unix())
	assert.ErrorIs(t, future.IsValid(parent), types.ErrFutureBlock)
}
