package core

import (
	"sync"

	"github.com/emberchain/node/events"
)

// progressTracker records how far block import has caught up with the
// best known height. Queries report the snapshot taken when the current
// import round started.
type progressTracker struct {
	mu      sync.Mutex
	syncing bool
	status  events.SyncEvent
}

func (p *progressTracker) start(starting, highest uint64) {
	p.mu.Lock()
	p.syncing = true
	p.status = events.SyncEvent{
		StartingBlock: starting,
		CurrentBlock:  starting,
		HighestBlock:  highest,
	}
	p.mu.Unlock()
}

func (p *progressTracker) update(current uint64) {
	p.mu.Lock()
	if p.syncing && current > p.status.CurrentBlock {
		p.status.CurrentBlock = current
	}
	p.mu.Unlock()
}

func (p *progressTracker) finish() {
	p.mu.Lock()
	p.syncing = false
	p.mu.Unlock()
}

func (p *progressTracker) snapshot() (events.SyncEvent, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status, p.syncing
}

// StartSync marks the chain as catching up towards the given height.
func (bc *BlockChain) StartSync(highest uint64) {
	starting := bc.LatestBlock().Header.Height.Uint64()
	bc.progress.start(starting, highest)
	events.SyncStarted.Send(events.SyncEvent{
		StartingBlock: starting,
		CurrentBlock:  starting,
		HighestBlock:  highest,
	})
}

// FinishSync marks import as caught up with the network.
func (bc *BlockChain) FinishSync() {
	status, syncing := bc.progress.snapshot()
	bc.progress.finish()
	if syncing {
		status.CurrentBlock = bc.LatestBlock().Header.Height.Uint64()
		events.SyncFinished.Send(status)
	}
}

// SyncProgress returns the active sync status, or nil when the node is
// not importing behind the network head.
func (bc *BlockChain) SyncProgress() *events.SyncEvent {
	status, syncing := bc.progress.snapshot()
	if !syncing {
		return nil
	}
	status.CurrentBlock = bc.LatestBlock().Header.Height.Uint64()
	return &status
}
