package mempool

import (
	"github.com/emberchain/node/rpc"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

type API struct {
	pool *Mempool
}

// Status returns the number of transactions waiting in the pool.
func (s *API) Status() map[string]hexutil.Uint {
	return map[string]hexutil.Uint{
		"pending": hexutil.Uint(s.pool.Stats()),
	}
}

func (pool *Mempool) RegisterAPI() {
	rpc.RegisterName("txpool", &API{pool: pool})
}
