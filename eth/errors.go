package eth

import (
	"errors"
	"fmt"

	"github.com/emberchain/node/transactor"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// JSON-RPC error codes used by the facade. Absence is not an error and
// never carries a code, optional-result methods surface it as null.
const (
	codeBackend    = -32000 // collaborator failure, detail passed through
	codeResolution = -32001 // block identifier could not be resolved
	codeExecution  = -32015 // sandboxed execution could not start
	codeMalformed  = -32602 // structurally invalid parameter
)

type rpcError struct {
	code int
	msg  string
}

func (e *rpcError) Error() string  { return e.msg }
func (e *rpcError) ErrorCode() int { return e.code }

func errMalformed(msg string) error {
	return &rpcError{code: codeMalformed, msg: msg}
}

func errResolution(format string, args ...interface{}) error {
	return &rpcError{code: codeResolution, msg: fmt.Sprintf(format, args...)}
}

// revertError carries the ABI-encoded revert payload so tooling can
// decode the reason.
type revertError struct {
	reason string
	output hexutil.Bytes
}

func (e *revertError) Error() string {
	if e.reason == "" {
		return "execution reverted"
	}
	return "execution reverted: " + e.reason
}

func (e *revertError) ErrorCode() int { return codeExecution }

func (e *revertError) ErrorData() interface{} { return e.output }

// optionalResult is the central absence policy: methods listed here
// return null when the requested entity does not exist, every other
// method turns a missing target into a resolution error. Tests
// enumerate this table against the registered method set.
var optionalResult = map[string]bool{
	"getBlockByHash":                      true,
	"getBlockByNumber":                    true,
	"getBlockTransactionCountByHash":      true,
	"getBlockTransactionCountByNumber":    true,
	"getUncleCountByBlockHash":            true,
	"getUncleCountByBlockNumber":          true,
	"getTransactionByHash":                true,
	"getTransactionByBlockHashAndIndex":   true,
	"getTransactionByBlockNumberAndIndex": true,
	"getTransactionReceipt":               true,
	"getUncleByBlockHashAndIndex":         true,
	"getUncleByBlockNumberAndIndex":       true,

	"getBalance":          false,
	"getStorageAt":        false,
	"getTransactionCount": false,
	"getCode":             false,
	"getLogs":             false,
	"call":                false,
	"estimateGas":         false,
}

// absent shapes a missing target for the given method: nil error when
// the method's result is optional, a resolution error otherwise.
func absent(method string) error {
	if optionalResult[method] {
		return nil
	}
	return errResolution("%s: block not found", method)
}

// shape maps a collaborator failure onto the error taxonomy. Reverts
// keep their payload, everything else becomes a coded backend error.
func shape(err error) error {
	if err == nil {
		return nil
	}
	var coded interface{ ErrorCode() int }
	if errors.As(err, &coded) {
		return err
	}
	var revert *transactor.RevertError
	if errors.As(err, &revert) {
		return &revertError{
			reason: transactor.DecodeRevertReason(revert.Output),
			output: hexutil.Bytes(revert.Output),
		}
	}
	return &rpcError{code: codeBackend, msg: err.Error()}
}
