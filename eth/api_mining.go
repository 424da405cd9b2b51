package eth

import (
	"github.com/emberchain/node/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// MiningAPI serves the proof-of-work coordination sub-protocol. Work
// and hashrate are live backend state, nothing here is cached between
// calls.
type MiningAPI struct {
	b *Backend
}

// Coinbase returns the address mining rewards are credited to.
func (api *MiningAPI) Coinbase() (types.Address, error) {
	coinbase := api.b.miner.Coinbase()
	if coinbase == (types.Address{}) {
		return types.Address{}, &rpcError{code: codeBackend, msg: "mining coinbase not configured"}
	}
	return coinbase, nil
}

// Mining reports whether the sealing loops are running.
func (api *MiningAPI) Mining() bool {
	return api.b.miner.IsRunning()
}

// Hashrate aggregates local threads and live remote miner reports.
func (api *MiningAPI) Hashrate() hexutil.Uint64 {
	return hexutil.Uint64(api.b.miner.Hashrate())
}

// GetWork returns the current job as [sealHash, seedHash, target],
// recomputed against the live sealing task on every call.
func (api *MiningAPI) GetWork() ([3]string, error) {
	work, err := api.b.miner.CurrentWork()
	if err != nil {
		return [3]string{}, shape(err)
	}
	return [3]string{
		hexutil.Encode(work.SealHash),
		hexutil.Encode(work.SeedHash),
		hexutil.Encode(work.Target),
	}, nil
}

// SubmitWork hands a solution to the sealer. False means the job is
// stale or the proof does not meet the target, never an RPC error.
func (api *MiningAPI) SubmitWork(nonce types.BlockNonce, powHash, mixDigest common.Hash) bool {
	return api.b.miner.SubmitWork(nonce, powHash.Bytes())
}

// SubmitHashrate records a remote miner's self-reported rate under its
// chosen identifier.
func (api *MiningAPI) SubmitHashrate(rate hexutil.Uint64, id common.Hash) bool {
	return api.b.miner.SubmitHashrate(uint64(rate), id)
}
