package core

import (
	"context"
	"math/big"

	"github.com/emberchain/node/events"
	"github.com/emberchain/node/rpc"
	"github.com/emberchain/node/types"
	ethrpc "github.com/ethereum/go-ethereum/rpc"
)

// API exposes chain internals under the ember namespace for debugging
// and explorers. The standard query surface lives in the eth namespace.
type API struct {
	chain *BlockChain
}

type SubAPI struct {
	chain *BlockChain
}

func RegisterAPI(chain *BlockChain) {
	rpc.RegisterName("ember", &API{chain: chain})
	rpc.RegisterName("eth", &SubAPI{chain: chain})
}

func (a *API) GetBlockByHeight(height uint64) *types.Block {
	return a.chain.BlockByHeight(height)
}

func (a *API) GetBlockHashByHeight(height uint64) types.Hash {
	return a.chain.blockStore.ReadHashByHeight(height)
}

func (a *API) GetBlockTD(hash types.Hash) *big.Int {
	height := a.chain.blockStore.ReadHeightByHash(hash)
	if height == nil {
		return nil
	}
	return a.chain.blockStore.ReadTd(*height, hash)
}

func (a *API) CurrentHeight() uint64 {
	return a.chain.LatestBlock().Header.Height.Uint64()
}

func (a *API) CurrentTD() *big.Int {
	return a.chain.GetTd()
}

// CountBlocksByMiner reports how many canonical blocks the address has
// sealed. Requires the sqlite miner index, returns zero otherwise.
func (a *API) CountBlocksByMiner(miner types.Address) int {
	return a.chain.MinerIndex().CountBlockByMiner(miner)
}

// GetBlocksByMiner pages through heights of blocks sealed by the
// address, most recent first. Requires the sqlite miner index.
func (a *API) GetBlocksByMiner(miner types.Address, limit int, page int) []uint64 {
	return a.chain.MinerIndex().QueryBlockByMiner(miner, limit, page)
}

// NewHeads sends a notification each time a new block is appended to
// the chain.
func (api *SubAPI) NewHeads(ctx context.Context) (*ethrpc.Subscription, error) {
	notifier, supported := ethrpc.NotifierFromContext(ctx)
	if !supported {
		return &ethrpc.Subscription{}, ethrpc.ErrNotificationsUnsupported
	}

	rpcSub := notifier.CreateSubscription()

	go func() {
		events.NewChainHead.Subscribe(string(rpcSub.ID), func(data *types.Block) {
			notifier.Notify(rpcSub.ID, data.Header)
		})

	Wait:
		for {
			select {
			case <-rpcSub.Err():
				break Wait
			case <-notifier.Closed():
				break Wait
			}
		}
		events.NewChainHead.Unsubscribe(string(rpcSub.ID))
	}()

	return rpcSub, nil
}

// NewPendingTransactions sends the hash of each transaction accepted
// into the pool.
func (api *SubAPI) NewPendingTransactions(ctx context.Context) (*ethrpc.Subscription, error) {
	notifier, supported := ethrpc.NotifierFromContext(ctx)
	if !supported {
		return &ethrpc.Subscription{}, ethrpc.ErrNotificationsUnsupported
	}

	rpcSub := notifier.CreateSubscription()

	go func() {
		events.NewTx.Subscribe(string(rpcSub.ID), func(tx *types.Transaction) {
			notifier.Notify(rpcSub.ID, tx.Hash())
		})

	Wait:
		for {
			select {
			case <-rpcSub.Err():
				break Wait
			case <-notifier.Closed():
				break Wait
			}
		}
		events.NewTx.Unsubscribe(string(rpcSub.ID))
	}()

	return rpcSub, nil
}

// Syncing streams sync status transitions: a start object when catch-up
// begins and false when it completes.
func (api *SubAPI) Syncing(ctx context.Context) (*ethrpc.Subscription, error) {
	notifier, supported := ethrpc.NotifierFromContext(ctx)
	if !supported {
		return &ethrpc.Subscription{}, ethrpc.ErrNotificationsUnsupported
	}

	rpcSub := notifier.CreateSubscription()

	go func() {
		events.SyncStarted.Subscribe(string(rpcSub.ID), func(data events.SyncEvent) {
			notifier.Notify(rpcSub.ID, data)
		})
		events.SyncFinished.Subscribe(string(rpcSub.ID), func(events.SyncEvent) {
			notifier.Notify(rpcSub.ID, false)
		})

	Wait:
		for {
			select {
			case <-rpcSub.Err():
				break Wait
			case <-notifier.Closed():
				break Wait
			}
		}
		events.SyncStarted.Unsubscribe(string(rpcSub.ID))
		events.SyncFinished.Unsubscribe(string(rpcSub.ID))
	}()

	return rpcSub, nil
}
