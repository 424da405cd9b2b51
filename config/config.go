package config

import (
	"math/big"

	"github.com/emberchain/node/flags"
	"github.com/spf13/viper"
)

// DefaultChainID identifies the ember test network.
const DefaultChainID = 5151

// BlockGasLimit is the fixed gas limit carried by every block header.
const BlockGasLimit uint64 = 30_000_000

var chainID = big.NewInt(DefaultChainID)

func Init() {
	if id := viper.GetInt64(flags.Chain_ID); id > 0 {
		chainID = big.NewInt(id)
	}
}

// ChainID returns the chain identifier bound into transaction signatures.
func ChainID() *big.Int {
	return chainID
}
