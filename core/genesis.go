package core

import (
	"math/big"

	"github.com/emberchain/node/transactor"
	"github.com/emberchain/node/types"
	"github.com/cosmos/iavl"
	"github.com/ethereum/go-ethereum/common"
)

// GenesisAlloc funds the development accounts. The chain starts at
// height 1 because iavl versions cannot go back to zero.
var GenesisAlloc = map[types.Address]*big.Int{
	common.HexToAddress("0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266"): devBalance(),
	common.HexToAddress("0x70997970c51812dc3a010c7d01b50e0d17dc79c8"): devBalance(),
	common.HexToAddress("0x3c44cdddb6a900fa2b585dd299e03d12fa4293bc"): devBalance(),
}

func devBalance() *big.Int {
	// 10000 ether
	b, _ := new(big.Int).SetString("10000000000000000000000", 10)
	return b
}

// commitGenesisState writes the allocation as state version 1 and
// returns the resulting root hash.
func commitGenesisState(tree *iavl.MutableTree) (types.Hash, error) {
	for addr, balance := range GenesisAlloc {
		if err := transactor.SetBalance(tree, addr, balance); err != nil {
			return nil, err
		}
	}
	hash, _, err := tree.SaveVersion()
	if err != nil {
		return nil, err
	}
	return hash, nil
}

// genesisHeader builds the header of the first block from the committed
// genesis state root.
func genesisHeader(root types.Hash) *types.Header {
	return &types.Header{
		Difficulty: new(big.Int).Set(types.MinimumDifficulty),
		Height:     big.NewInt(1),
		GasLimit:   gasLimit(),
		Root:       root,
		TxHash:     types.Txs{}.Hash(),
		UncleHash:  types.Headers{}.Hash(),
	}
}
