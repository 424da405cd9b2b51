package events

import (
	"github.com/emberchain/node/types"
)

var (
	NewChainHead  = &FeedOf[*types.Block]{}       // Chain switched to a new head block.
	NewMinedBlock = &FeedOf[*types.Block]{}       // A new block is mined into current chain.
	NewTx         = &FeedOf[*types.Transaction]{} // A new transaction was admitted to the pool.
	SyncStarted   = &FeedOf[SyncEvent]{}          // Chain download started.
	SyncFinished  = &FeedOf[SyncEvent]{}          // Chain download finished.
)

// SyncEvent reports download progress against a known remote height.
type SyncEvent struct {
	StartingBlock uint64
	CurrentBlock  uint64
	HighestBlock  uint64
}
