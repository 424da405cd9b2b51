package node

import (
	"github.com/emberchain/node/consensus"
	"github.com/emberchain/node/core"
	"github.com/emberchain/node/eth"
	"github.com/emberchain/node/flags"
	"github.com/emberchain/node/mempool"
	"github.com/emberchain/node/rpc"
	"github.com/cometbft/cometbft/libs/log"
	"github.com/cometbft/cometbft/libs/service"
	"github.com/spf13/viper"
)

//------------------------------------------------------------------------------

// Node is the highest level interface to a full node.
// It includes all configuration information and running services.
type Node struct {
	service.BaseService
	rpc *rpc.RPC

	chain     *core.BlockChain
	mempool   *mempool.Mempool
	consensus *consensus.Consensus
}

// Option sets a parameter for the node.
type Option func(*Node)

// NewNode returns a new, ready to go, ember node.
func NewNode(logger log.Logger, options ...Option) (*Node, error) {
	chain, err := core.NewBlockChain(logger)
	if err != nil {
		return nil, err
	}
	pool := mempool.NewMempool(chain, logger)

	node := &Node{
		rpc: rpc.NewRPC(logger),

		chain:     chain,
		mempool:   pool,
		consensus: consensus.New(chain, pool, logger),
	}
	node.BaseService = *service.NewBaseService(logger.With("module", "node"), "Node", node)

	for _, option := range options {
		option(node)
	}

	RegisterAPI(node)
	core.RegisterAPI(node.chain)
	eth.NewBackend(node.chain, node.chain, node.mempool, node.consensus, logger).RegisterAPI()
	node.mempool.RegisterAPI()

	return node, nil
}

// OnStart starts the Node. It implements service.Service.
func (n *Node) OnStart() error {
	if err := n.rpc.Start(); err != nil {
		return err
	}
	if err := n.mempool.Start(); err != nil {
		return err
	}
	if viper.GetBool(flags.Mine_Enabled) {
		if err := n.consensus.Start(); err != nil {
			return err
		}
	}
	return nil
}

// OnStop stops the Node. It implements service.Service.
func (n *Node) OnStop() {
	if n.consensus.IsRunning() {
		n.consensus.Stop()
		defer n.Logger.Info("waiting for consensus to finish stopping")
		defer n.consensus.Wait()
	}
	n.rpc.Stop()
	n.mempool.Stop()

	n.chain.Close()
}

func (n *Node) Chain() *core.BlockChain {
	return n.chain
}
