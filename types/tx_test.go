package types_test

import (
	"math/big"
	"testing"

	"github.com/emberchain/node/config"
	"github.com/emberchain/node/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedTransfer(t *testing.T) (*types.Transaction, types.Address) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	to := types.Address{0x42}
	tx := &types.Transaction{
		Nonce:    3,
		GasPrice: big.NewInt(1e9),
		Gas:      21000,
		To:       &to,
		Value:    big.NewInt(1000),
	}
	signed, err := types.SignTx(tx, key)
	require.NoError(t, err)
	return signed, crypto.PubkeyToAddress(key.PublicKey)
}

func TestSignAndRecover(t *testing.T) {
	signed, addr := signedTransfer(t)
	from, err := signed.Sender()
	require.NoError(t, err)
	assert.Equal(t, addr, from)
}

func TestSenderRejectsUnsigned(t *testing.T) {
	tx := &types.Transaction{GasPrice: big.NewInt(1), Value: big.NewInt(0)}
	_, err := tx.Sender()
	assert.ErrorIs(t, err, types.ErrInvalidSignature)
}

func TestSenderRejectsForeignChain(t *testing.T) {
	signed, _ := signedTransfer(t)
	// Shift V onto another chain id.
	signed.V = new(big.Int).Add(signed.V, big.NewInt(2))
	_, err := signed.Sender()
	assert.ErrorIs(t, err, types.ErrInvalidChainID)
}

func TestSignatureBoundToChainID(t *testing.T) {
	signed, _ := signedTransfer(t)
	want := new(big.Int).Add(new(big.Int).Mul(config.ChainID(), big.NewInt(2)), big.NewInt(35))
	recovery := new(big.Int).Sub(signed.V, want)
	assert.True(t, recovery.Uint64() <= 1)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	signed, addr := signedTransfer(t)
	raw, err := signed.Encode()
	require.NoError(t, err)

	decoded, err := types.DecodeTx(raw)
	require.NoError(t, err)
	assert.Equal(t, signed.Hash(), decoded.Hash())

	from, err := decoded.Sender()
	require.NoError(t, err)
	assert.Equal(t, addr, from)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := types.DecodeTx([]byte{0x01, 0x02, 0x03})
	assert.Error(t, err)
}

func TestCost(t *testing.T) {
	to := types.Address{1}
	tx := &types.Transaction{GasPrice: big.NewInt(2), Gas: 21000, To: &to, Value: big.NewInt(58)}
	assert.Equal(t, big.NewInt(2*21000+58), tx.Cost())
}

func TestCreatedAddressDeterministic(t *testing.T) {
	from := types.Address{0xaa}
	assert.Equal(t, types.CreatedAddress(from, 1), types.CreatedAddress(from, 1))
	assert.NotEqual(t, types.CreatedAddress(from, 1), types.CreatedAddress(from, 2))
}
