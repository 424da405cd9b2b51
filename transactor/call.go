package transactor

import (
	"github.com/cosmos/iavl"
)

// CallResult is the outcome of a sandboxed execution. A revert is a
// successful execution carrying failure-shaped output, not an error.
type CallResult struct {
	Output   []byte
	GasUsed  uint64
	Reverted bool
}

// Call executes msg against the tree without consuming a nonce. The
// caller owns the sandbox: all mutations must be rolled back afterwards.
func Call(tree *iavl.MutableTree, msg *Message) (*CallResult, error) {
	result, err := execute(tree, msg, false)
	if err != nil {
		return nil, err
	}
	return &CallResult{
		Output:   result.output,
		GasUsed:  result.gasUsed,
		Reverted: result.reverted,
	}, nil
}

// EstimateGas binary-searches the smallest gas allowance that lets msg
// execute. When the call still reverts at gasCap the outcome depends on
// capOnRevert: either the cap is returned as a best-effort overestimate
// or a RevertError carrying the revert payload. A revert is never
// reported as a zero estimate.
func EstimateGas(tree *iavl.MutableTree, msg *Message, gasCap uint64, capOnRevert bool) (uint64, error) {
	var (
		lo = TxGas - 1
		hi = gasCap
	)
	if msg.Gas >= TxGas && msg.Gas < gasCap {
		hi = msg.Gas
	}

	// run executes one trial allowance inside its own discarded sandbox.
	run := func(gas uint64) (*CallResult, error) {
		trial := *msg
		trial.Gas = gas
		result, err := Call(tree, &trial)
		tree.Rollback()
		return result, err
	}

	// Check the cap first: if execution cannot succeed at the maximum
	// there is no point bisecting.
	result, err := run(hi)
	if err != nil {
		return 0, err
	}
	if result.Reverted {
		if capOnRevert {
			return hi, nil
		}
		return 0, &RevertError{Output: result.Output}
	}

	for lo+1 < hi {
		mid := (lo + hi) / 2
		result, err := run(mid)
		if err != nil || result.Reverted {
			lo = mid
			continue
		}
		hi = mid
	}
	return hi, nil
}
