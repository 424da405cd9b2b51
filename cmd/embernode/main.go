package main

import (
	"os"
	"path/filepath"

	"github.com/emberchain/node/cmd/embernode/commands"

	"github.com/cometbft/cometbft/libs/cli"
)

func main() {
	cmd := cli.PrepareBaseCmd(commands.RootCmd, "EMBER", os.ExpandEnv(filepath.Join("$HOME", ".embernode")))

	if err := cmd.Execute(); err != nil {
		panic(err)
	}
}
