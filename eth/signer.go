package eth

import (
	"crypto/ecdsa"
	"fmt"
	"sort"
	"strings"

	"github.com/emberchain/node/flags"
	"github.com/emberchain/node/types"
	"github.com/cometbft/cometbft/libs/log"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/viper"
)

// devSigner holds unlocked private keys handed in through the eth.keys
// flag. Meant for development networks, keys live in memory only.
type devSigner struct {
	keys      map[types.Address]*ecdsa.PrivateKey
	addresses []types.Address
}

func newDevSigner(logger log.Logger) *devSigner {
	signer := &devSigner{keys: make(map[types.Address]*ecdsa.PrivateKey)}
	for _, raw := range viper.GetStringSlice(flags.Eth_Keys) {
		key, err := crypto.HexToECDSA(strings.TrimPrefix(raw, "0x"))
		if err != nil {
			logger.Error("skipping malformed private key", "err", err)
			continue
		}
		addr := crypto.PubkeyToAddress(key.PublicKey)
		if _, ok := signer.keys[addr]; ok {
			continue
		}
		signer.keys[addr] = key
		signer.addresses = append(signer.addresses, addr)
	}
	sort.Slice(signer.addresses, func(i, j int) bool {
		return signer.addresses[i].Hex() < signer.addresses[j].Hex()
	})
	if len(signer.addresses) > 0 {
		logger.Info("unlocked dev accounts", "count", len(signer.addresses))
	}
	return signer
}

// Accounts lists the unlocked addresses in a stable order.
func (s *devSigner) Accounts() []types.Address {
	return s.addresses
}

// SignTx signs the transaction if the from address is unlocked.
func (s *devSigner) SignTx(from types.Address, tx *types.Transaction) (*types.Transaction, error) {
	key, ok := s.keys[from]
	if !ok {
		return nil, fmt.Errorf("unknown account %s", from.Hex())
	}
	return types.SignTx(tx, key)
}
