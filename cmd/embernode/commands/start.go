package commands

import (
	"fmt"

	"github.com/emberchain/node/config"
	"github.com/emberchain/node/flags"
	"github.com/emberchain/node/node"
	"github.com/cometbft/cometbft/libs/os"
	"github.com/spf13/cobra"
)

// addFlags exposes configuration options for starting a node.
func addFlags(cmd *cobra.Command) {
	cmd.Flags().String(flags.DB_Engine, "goleveldb", "backing database implementation, goleveldb or memdb")
	cmd.Flags().Int64(flags.Chain_ID, config.DefaultChainID, "chain identifier bound into transaction signatures")
	cmd.Flags().String(flags.RPC_Addr, "127.0.0.1:8545", "RPC server listen address")
	cmd.Flags().StringSlice(flags.RPC_CORSDomains, nil, "origins allowed to call the RPC server cross-site")
	cmd.Flags().Bool(flags.Mine_Enabled, false, "start sealing blocks on node start")
	cmd.Flags().Int(flags.Mine_Threads, 0, "number of sealing threads, 0 means one per logical CPU")
	cmd.Flags().String(flags.Mine_Miner, "", "address block rewards and fees are credited to")
	cmd.Flags().StringSlice(flags.Eth_Keys, nil, "hex private keys unlocked for eth_accounts and eth_sendTransaction")
	cmd.Flags().Int64(flags.Eth_GasPrice, 0, "minimum suggested gas price in wei, 0 means 1 gwei")
	cmd.Flags().Uint64(flags.Eth_GasCap, 0, "gas ceiling for eth_call and eth_estimateGas, 0 means 50 million")
	cmd.Flags().String(flags.Eth_EstimateRevert, "error", "eth_estimateGas behavior when execution reverts at the cap: error or cap")
}

// StartCmd is the command that allows the CLI to start a node.
var StartCmd = &cobra.Command{
	Use:     "start",
	Aliases: []string{"node", "run"},
	Short:   "Run the ember node",
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := node.NewNode(logger)
		if err != nil {
			return fmt.Errorf("failed to create node: %w", err)
		}

		if err := n.Start(); err != nil {
			return fmt.Errorf("failed to start node: %w", err)
		}

		logger.Info("started node")

		// Stop upon receiving SIGTERM or CTRL-C.
		os.TrapSignal(logger, func() {
			if n.IsRunning() {
				if err := n.Stop(); err != nil {
					logger.Error("unable to stop the node", "error", err)
				}
			}
		})

		// Run forever.
		select {}
	},
}

func init() {
	addFlags(StartCmd)
}
