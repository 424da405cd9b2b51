package consensus

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math/big"
	"sync"
	"time"

	"github.com/emberchain/node/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// ErrNoWork is returned when no sealing task has been prepared yet.
var ErrNoWork = errors.New("no mining work available yet")

const (
	epochLength  = 30000
	hashrateTTL  = 10 * time.Second
	localMinerID = "local"
)

// Work is a sealing package handed to remote miners.
type Work struct {
	SealHash types.Hash // hash of the unsealed header
	SeedHash types.Hash // epoch seed of the block being mined
	Target   types.Hash // boundary condition, 2^256 / difficulty
	Height   uint64
}

// seedHash derives the epoch seed of the given height by repeated
// hashing, one round per elapsed epoch.
func seedHash(height uint64) types.Hash {
	seed := make([]byte, 32)
	for i := uint64(0); i < height/epochLength; i++ {
		seed = crypto.Keccak256(seed)
	}
	return seed
}

// CurrentWork returns the sealing package of the block currently being
// mined.
func (c *Consensus) CurrentWork() (*Work, error) {
	c.workMu.Lock()
	defer c.workMu.Unlock()
	if c.current == nil {
		return nil, ErrNoWork
	}
	height := c.current.Header.Height.Uint64()
	target := make(types.Hash, 32)
	c.target.FillBytes(target)
	return &Work{
		SealHash: c.current.Header.SealHash(),
		SeedHash: seedHash(height),
		Target:   target,
		Height:   height,
	}, nil
}

// SubmitWork tries to complete the current sealing task with the given
// solution. Returns false for stale or invalid solutions.
func (c *Consensus) SubmitWork(nonce types.BlockNonce, sealHash types.Hash) bool {
	c.workMu.Lock()
	if c.current == nil {
		c.workMu.Unlock()
		return false
	}
	block := types.NewBlockWithHeader(c.current.Header)
	block.Txs = c.current.Txs
	target := new(big.Int).Set(c.target)
	c.workMu.Unlock()

	if !bytes.Equal(block.Header.SealHash(), sealHash) {
		c.Logger.Debug("stale work submitted", "sealHash", sealHash)
		return false
	}

	block.Header.Nonce = nonce
	if new(big.Int).SetBytes(block.Header.Hash()).Cmp(target) > 0 {
		c.Logger.Debug("invalid proof of work submitted", "nonce", binary.BigEndian.Uint64(nonce[:]))
		return false
	}

	select {
	case c.resultCh <- block:
		return true
	case <-c.Quit():
		return false
	}
}

// SubmitHashrate records the self-reported hashrate of a remote miner.
func (c *Consensus) SubmitHashrate(rate uint64, id common.Hash) bool {
	c.hashrate.submit(id.Hex(), rate)
	return true
}

// Hashrate aggregates the measured local rate with the rates remote
// miners reported within the expiry window.
func (c *Consensus) Hashrate() uint64 {
	return c.hashrate.total()
}

// hashrateTracker accumulates hash attempt counts per miner and turns
// them into a rate over a sliding window.
type hashrateTracker struct {
	mu     sync.Mutex
	meters map[string]*hashrateMeter
}

type hashrateMeter struct {
	rate     uint64
	attempts uint64
	since    time.Time
	seen     time.Time
}

func newHashrateTracker() *hashrateTracker {
	return &hashrateTracker{meters: make(map[string]*hashrateMeter)}
}

// record accumulates locally measured attempts and folds them into a
// rate once a full window has elapsed.
func (t *hashrateTracker) record(id string, attempts uint64) {
	now := time.Now()
	t.mu.Lock()
	defer t.mu.Unlock()
	m := t.meters[id]
	if m == nil {
		m = &hashrateMeter{since: now}
		t.meters[id] = m
	}
	m.attempts += attempts
	m.seen = now
	if elapsed := now.Sub(m.since); elapsed >= hashrateTTL {
		m.rate = uint64(float64(m.attempts) / elapsed.Seconds())
		m.attempts = 0
		m.since = now
	}
}

// submit stores a remote miner's self-reported rate.
func (t *hashrateTracker) submit(id string, rate uint64) {
	now := time.Now()
	t.mu.Lock()
	defer t.mu.Unlock()
	t.meters[id] = &hashrateMeter{rate: rate, since: now, seen: now}
}

func (t *hashrateTracker) total() uint64 {
	now := time.Now()
	t.mu.Lock()
	defer t.mu.Unlock()
	var sum uint64
	for id, m := range t.meters {
		if now.Sub(m.seen) > hashrateTTL {
			delete(t.meters, id)
			continue
		}
		sum += m.rate
	}
	return sum
}
