package store

import (
	"github.com/emberchain/node/types"
	"github.com/cometbft/cometbft/libs/log"
)

// MinerStore indexes canonical blocks by the address that sealed them.
// The default implementation is a no-op; build with the sqlite tag to
// get a queryable index.
type MinerStore interface {
	Close()
	AddMiner(height uint64, miner types.Address) bool
	RemoveMinerFromHeight(height uint64) bool
	CountBlockByMiner(miner types.Address) int
	QueryBlockByMiner(miner types.Address, limit int, page int) []uint64
}

type minerStoreNop struct{}

var newMinerStore = func(log.Logger) MinerStore {
	return &minerStoreNop{}
}

func (*minerStoreNop) Close() {}

func (*minerStoreNop) AddMiner(height uint64, miner types.Address) bool { return true }

func (*minerStoreNop) RemoveMinerFromHeight(height uint64) bool { return true }

func (*minerStoreNop) CountBlockByMiner(miner types.Address) int { return 0 }

func (*minerStoreNop) QueryBlockByMiner(miner types.Address, limit int, page int) []uint64 {
	return nil
}
