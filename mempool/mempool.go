package mempool

import (
	"errors"
	"sort"
	"sync"

	"github.com/emberchain/node/core"
	"github.com/emberchain/node/events"
	"github.com/emberchain/node/transactor"
	"github.com/emberchain/node/types"
	"github.com/cometbft/cometbft/libs/log"
	"github.com/cometbft/cometbft/libs/service"
)

const poolCapacity = 4096

var (
	ErrAlreadyKnown   = errors.New("already known")
	ErrTxPoolOverflow = errors.New("txpool is full")
	ErrNonceTooLow    = errors.New("nonce too low")
	ErrUnderpriced    = errors.New("transaction underpriced")
	ErrOversizedData  = errors.New("oversized data")
)

// Mempool holds signed transactions waiting for inclusion. Accepted
// transactions are announced on the NewTx feed, a head change triggers a
// demotion pass dropping everything the new state no longer accepts.
type Mempool struct {
	service.BaseService
	chain *core.BlockChain

	mu  sync.RWMutex
	all *txLookup

	reqResetCh      chan *types.Header
	reorgShutdownCh chan struct{}
	wg              sync.WaitGroup
}

func NewMempool(chain *core.BlockChain, logger log.Logger) *Mempool {
	pool := &Mempool{
		chain:           chain,
		all:             newTxLookup(),
		reqResetCh:      make(chan *types.Header, 16),
		reorgShutdownCh: make(chan struct{}),
	}
	pool.BaseService = *service.NewBaseService(logger.With("module", "mempool"), "mempool", pool)
	return pool
}

func (pool *Mempool) OnStart() error {
	events.NewChainHead.Subscribe(pool.String(), func(block *types.Block) {
		select {
		case pool.reqResetCh <- block.Header:
		case <-pool.reorgShutdownCh:
		}
	})
	pool.wg.Add(1)
	go pool.resetLoop()
	return nil
}

func (pool *Mempool) OnStop() {
	events.NewChainHead.Unsubscribe(pool.String())
	close(pool.reorgShutdownCh)
	pool.wg.Wait()
}

func (pool *Mempool) resetLoop() {
	defer pool.wg.Done()
	for {
		select {
		case head := <-pool.reqResetCh:
			pool.reset(head)
		case <-pool.reorgShutdownCh:
			return
		}
	}
}

// reset drops every pooled transaction the state at the new head no
// longer accepts, either included or invalidated.
func (pool *Mempool) reset(head *types.Header) {
	state, err := pool.chain.StateAt(head.Height.Uint64())
	if err != nil {
		pool.Logger.Error("failed to load state for pool reset", "err", err, "height", head.Height)
		return
	}

	pool.mu.Lock()
	defer pool.mu.Unlock()

	var drop []types.TxHash
	pool.all.Range(func(hash types.TxHash, tx *types.Transaction) bool {
		from, err := tx.Sender()
		if err != nil {
			drop = append(drop, hash)
			return true
		}
		account, err := transactor.GetAccount(state, from)
		if err != nil {
			return true
		}
		if tx.Nonce < account.Nonce || account.Balance.Cmp(tx.Cost()) < 0 {
			drop = append(drop, hash)
		}
		return true
	})
	for _, hash := range drop {
		pool.all.Remove(hash)
	}
	if len(drop) > 0 {
		pool.Logger.Debug("demoted stale transactions", "count", len(drop), "head", head.Height)
	}
}

func (pool *Mempool) Stats() int {
	pool.mu.RLock()
	defer pool.mu.RUnlock()
	return pool.all.Count()
}

// Get returns a pooled transaction by hash, nil if unknown.
func (pool *Mempool) Get(hash types.TxHash) *types.Transaction {
	pool.mu.RLock()
	defer pool.mu.RUnlock()
	return pool.all.Get(hash)
}

// Has reports whether the pool holds the transaction.
func (pool *Mempool) Has(hash types.TxHash) bool {
	return pool.Get(hash) != nil
}

func (pool *Mempool) validateTx(tx *types.Transaction) error {
	if len(tx.Data) > 128*1024 {
		return ErrOversizedData
	}
	if tx.GasPrice.Sign() <= 0 {
		return ErrUnderpriced
	}
	from, err := tx.Sender()
	if err != nil {
		return err
	}
	intrinsic, err := transactor.IntrinsicGas(tx.Data, tx.To == nil)
	if err != nil {
		return err
	}
	if tx.Gas < intrinsic {
		return transactor.ErrIntrinsicGas
	}
	state, err := pool.chain.LatestState()
	if err != nil {
		return err
	}
	account, err := transactor.GetAccount(state, from)
	if err != nil {
		return err
	}
	if tx.Nonce < account.Nonce {
		return ErrNonceTooLow
	}
	if account.Balance.Cmp(tx.Cost()) < 0 {
		return transactor.ErrInsufficientFunds
	}
	return nil
}

// AddLocal enqueues a single transaction, validating it against the
// latest state. Re-adding a known transaction returns ErrAlreadyKnown.
func (pool *Mempool) AddLocal(tx *types.Transaction) error {
	return pool.AddTxs(types.Txs{tx})[0]
}

// AddTxs enqueues a batch, returning one error slot per transaction.
func (pool *Mempool) AddTxs(txs types.Txs) []error {
	errs := make([]error, len(txs))
	var added types.Txs

	pool.mu.Lock()
	for i, tx := range txs {
		if pool.all.Get(tx.Key()) != nil {
			errs[i] = ErrAlreadyKnown
			continue
		}
		if pool.all.Count() >= poolCapacity {
			errs[i] = ErrTxPoolOverflow
			continue
		}
		if err := pool.validateTx(tx); err != nil {
			errs[i] = err
			continue
		}
		pool.all.Add(tx)
		added = append(added, tx)
	}
	pool.mu.Unlock()

	for _, tx := range added {
		events.NewTx.Send(tx)
	}
	return errs
}

// Pending returns executable pooled transactions ordered by sender and
// nonce, ready to be packed into a block.
func (pool *Mempool) Pending() types.Txs {
	pool.mu.RLock()
	defer pool.mu.RUnlock()

	bySender := make(map[types.Address]types.Txs)
	pool.all.Range(func(hash types.TxHash, tx *types.Transaction) bool {
		from, err := tx.Sender()
		if err != nil {
			return true
		}
		bySender[from] = append(bySender[from], tx)
		return true
	})

	senders := make([]types.Address, 0, len(bySender))
	for from := range bySender {
		senders = append(senders, from)
	}
	sort.Slice(senders, func(i, j int) bool {
		return senders[i].Hex() < senders[j].Hex()
	})

	var pending types.Txs
	for _, from := range senders {
		list := bySender[from]
		sort.Slice(list, func(i, j int) bool { return list[i].Nonce < list[j].Nonce })
		pending = append(pending, list...)
	}
	return pending
}

// PendingNonce returns the next usable nonce for the address, counting
// consecutive pooled transactions on top of the state nonce.
func (pool *Mempool) PendingNonce(addr types.Address, stateNonce uint64) uint64 {
	pool.mu.RLock()
	defer pool.mu.RUnlock()

	nonces := make(map[uint64]bool)
	pool.all.Range(func(hash types.TxHash, tx *types.Transaction) bool {
		if from, err := tx.Sender(); err == nil && from == addr {
			nonces[tx.Nonce] = true
		}
		return true
	})
	next := stateNonce
	for nonces[next] {
		next++
	}
	return next
}

// txLookup tracks pooled transactions by hash so that peeking does not
// contend on the pool mutex internals.
type txLookup struct {
	lock sync.RWMutex
	txs  map[types.TxHash]*types.Transaction
}

func newTxLookup() *txLookup {
	return &txLookup{txs: make(map[types.TxHash]*types.Transaction)}
}

// Range calls f on each entry until f returns false.
func (t *txLookup) Range(f func(hash types.TxHash, tx *types.Transaction) bool) {
	t.lock.RLock()
	defer t.lock.RUnlock()
	for key, value := range t.txs {
		if !f(key, value) {
			return
		}
	}
}

func (t *txLookup) Get(hash types.TxHash) *types.Transaction {
	t.lock.RLock()
	defer t.lock.RUnlock()
	return t.txs[hash]
}

func (t *txLookup) Count() int {
	t.lock.RLock()
	defer t.lock.RUnlock()
	return len(t.txs)
}

func (t *txLookup) Add(tx *types.Transaction) {
	t.lock.Lock()
	defer t.lock.Unlock()
	t.txs[tx.Key()] = tx
}

func (t *txLookup) Remove(hash types.TxHash) {
	t.lock.Lock()
	defer t.lock.Unlock()
	delete(t.txs, hash)
}
