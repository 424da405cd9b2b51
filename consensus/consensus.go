package consensus

import (
	crand "crypto/rand"
	"encoding/binary"
	"math"
	"math/big"
	"math/rand"
	"runtime"
	"sync"
	"time"

	"github.com/emberchain/node/core"
	"github.com/emberchain/node/events"
	"github.com/emberchain/node/flags"
	"github.com/emberchain/node/mempool"
	"github.com/emberchain/node/types"
	"github.com/cometbft/cometbft/libs/log"
	"github.com/cometbft/cometbft/libs/service"
	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/viper"
)

// two256 is a big integer representing 2^256
var two256 = new(big.Int).Exp(big.NewInt(2), big.NewInt(256), big.NewInt(0))

type Consensus struct {
	service.BaseService
	wg       sync.WaitGroup
	taskCh   chan struct{}
	resultCh chan *types.Block
	chain    *core.BlockChain
	pool     *mempool.Mempool
	coinbase types.Address

	workMu   sync.Mutex
	current  *types.Block // current working block
	receipts types.Receipts
	target   *big.Int // current difficulty target

	hashrate *hashrateTracker
}

func New(chain *core.BlockChain, pool *mempool.Mempool, logger log.Logger) *Consensus {
	consensus := &Consensus{
		taskCh:   make(chan struct{}),
		resultCh: make(chan *types.Block),
		chain:    chain,
		pool:     pool,
		hashrate: newHashrateTracker(),
	}
	if miner := viper.GetString(flags.Mine_Miner); miner != "" {
		consensus.coinbase = common.HexToAddress(miner)
	}
	consensus.BaseService = *service.NewBaseService(logger.With("module", "consensus"), "Consensus", consensus)
	consensus.registerEventHandlers()
	return consensus
}

// Coinbase returns the address block rewards and fees are credited to.
func (c *Consensus) Coinbase() types.Address {
	return c.coinbase
}

func (c *Consensus) OnStart() error {
	c.wg.Add(3)
	go c.mainLoop()
	go c.resultLoop()
	go c.newWorkLoop()
	return nil
}

func (c *Consensus) OnReset() error {
	c.Wait()
	return nil
}

func (c *Consensus) Wait() {
	c.wg.Wait()
}

func (c *Consensus) registerEventHandlers() {
	events.NewChainHead.Subscribe(c.String(), func(*types.Block) {
		// chain head changed, now commit a new work.
		if c.IsRunning() {
			c.commitWork()
		}
	})
	events.SyncStarted.Subscribe(c.String(), func(events.SyncEvent) {
		// Enter syncing, now stop mining.
		c.Stop()
		c.Reset()
	})
	events.SyncFinished.Subscribe(c.String(), func(events.SyncEvent) {
		// Sync finished, now start mining.
		c.Start() // May fail if still stopping, but will start on next sync finished event when stopped.
	})
}

// the main mining loop
func (c *Consensus) mainLoop() {
	defer c.wg.Done()
	var stopCh chan struct{}
	for {
		select {
		case <-c.taskCh:
			if stopCh != nil {
				close(stopCh)
				stopCh = nil
			}
			stopCh = make(chan struct{})
			if err := c.startMine(stopCh); err != nil {
				c.Logger.Error("block sealing failed", "err", err)
			}
		case <-c.Quit():
			if stopCh != nil {
				close(stopCh)
				stopCh = nil
			}
			return
		}
	}
}

// start a multi thread mining, threads = num of logical CPUs
func (c *Consensus) startMine(stop chan struct{}) error {
	abort := make(chan struct{})
	found := make(chan *types.Block)
	threads := viper.GetInt(flags.Mine_Threads)
	if threads == 0 {
		threads = runtime.NumCPU()
	}
	seed, err := crand.Int(crand.Reader, big.NewInt(math.MaxInt64))
	if err != nil {
		return err
	}
	rand := rand.New(rand.NewSource(seed.Int64()))
	c.Logger.Info("start a new mine round", "threads", threads)
	var pend sync.WaitGroup
	for i := 0; i < threads; i++ {
		pend.Add(1)
		go func(id int, nonce uint64) {
			defer pend.Done()
			c.mine(id, nonce, abort, found)
		}(i, uint64(rand.Int63()))
	}

	// Wait until sealing is terminated or a nonce is found
	go func() {
		var result *types.Block
		select {
		case <-stop:
			// Outside abort, stop all miner threads
			close(abort)
		case result = <-found:
			// One of the threads found a block, abort all others
			select {
			case c.resultCh <- result:
			default:
				c.Logger.Info("result is not read by miner", "header", result.Header, "hash", result.Hash())
			}
			close(abort)
		case <-c.Quit():
			// Outside abort, stop all miner threads
			close(abort)
		}
		// Wait for all miners to terminate
		pend.Wait()
	}()
	return nil
}

// actual mining function
func (c *Consensus) mine(id int, seed uint64, abort chan struct{}, found chan *types.Block) {
	c.workMu.Lock()
	var (
		target = new(big.Int).Set(c.target)
		block  = types.NewBlockWithHeader(c.current.Header)
		txs    = c.current.Txs
	)
	c.workMu.Unlock()

	var (
		attempts  = int64(0)
		nonce     = seed
		powBuffer = new(big.Int)
		logger    = c.Logger.With("miner", id)
		header    = block.Header
	)
	block.Txs = txs

	logger.Debug("started search for new nonces", "seed", seed, "target", target.Text(16))

search:
	for {
		select {
		case <-abort:
			logger.Debug("nonce search aborted", "attempts", nonce-seed)
			break search

		default:
			attempts++
			if (attempts % (1 << 15)) == 0 {
				c.hashrate.record(localMinerID, 1<<15)
				logger.Debug("nonce searching", "attempts", nonce-seed)
				attempts = 0
			}
			// Compute the PoW value of this nonce
			binary.BigEndian.PutUint64(header.Nonce[:], nonce)
			hash := header.Hash()
			if powBuffer.SetBytes(hash).Cmp(target) <= 0 {
				select {
				case found <- block:
					logger.Debug("nonce found and reported", "attempts", nonce-seed, "nonce", nonce, "hash", hash)
				case <-abort:
					logger.Debug("nonce found but discarded", "attempts", nonce-seed, "nonce", nonce)
				}
				break search
			}
			nonce++
		}
	}
}

// waiting for mining results
func (c *Consensus) resultLoop() {
	defer c.wg.Done()
	for {
		select {
		case block := <-c.resultCh:
			if err := c.chain.ApplyBlock(block); err != nil {
				c.Logger.Error("error applying found block", "err", err)
			}
			events.NewMinedBlock.Send(block)
			c.commitWork()

		case <-c.Quit():
			return
		}
	}
}

// waiting for submitting new works
func (c *Consensus) newWorkLoop() {
	defer c.wg.Done()

	recommit := 1 * time.Second
	timer := time.NewTimer(recommit)
	defer timer.Stop()

	for {
		select {
		case <-timer.C:
			c.commitWork()
			timer.Reset(recommit)
		case <-c.Quit():
			return
		}
	}
}

// commitWork packs pending pool transactions into a fresh unsealed block
// on top of the current head and hands it to the sealing loops.
func (c *Consensus) commitWork() {
	block, receipts, err := c.chain.PendingBlock(c.pool.Pending(), c.coinbase)
	if err != nil {
		c.Logger.Error("failed to build work block", "err", err)
		return
	}

	c.workMu.Lock()
	c.current = block
	c.receipts = receipts
	c.target = new(big.Int).Div(two256, block.Header.Difficulty)
	c.workMu.Unlock()

	select {
	case c.taskCh <- struct{}{}:
	case <-c.Quit():
		c.Logger.Info("exiting, work not committed")
		return
	}
}
