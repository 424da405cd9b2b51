package transactor

import "errors"

// Gas schedule for the native transfer ledger.
const (
	TxGas            uint64 = 21000 // base cost of any transaction
	TxCreateGas      uint64 = 32000 // extra base cost of a deployment
	TxDataZeroGas    uint64 = 4     // per zero byte of payload
	TxDataNonZeroGas uint64 = 16    // per non-zero byte of payload
	CodeDepositGas   uint64 = 200   // per byte of deployed code
)

var (
	ErrIntrinsicGas      = errors.New("intrinsic gas too low")
	ErrGasUintOverflow   = errors.New("gas uint64 overflow")
	ErrInsufficientFunds = errors.New("insufficient funds for gas * price")
	ErrNonceTooLow       = errors.New("nonce too low")
	ErrNonceTooHigh      = errors.New("nonce too high")
)

// IntrinsicGas computes the gas consumed before any transfer logic runs.
func IntrinsicGas(data []byte, isCreate bool) (uint64, error) {
	gas := TxGas
	if isCreate {
		gas += TxCreateGas
	}
	if len(data) > 0 {
		var nonZero uint64
		for _, b := range data {
			if b != 0 {
				nonZero++
			}
		}
		zero := uint64(len(data)) - nonZero
		if (maxUint64-gas)/TxDataNonZeroGas < nonZero {
			return 0, ErrGasUintOverflow
		}
		gas += nonZero * TxDataNonZeroGas
		if (maxUint64-gas)/TxDataZeroGas < zero {
			return 0, ErrGasUintOverflow
		}
		gas += zero * TxDataZeroGas
	}
	if isCreate {
		deposit := uint64(len(data)) * CodeDepositGas
		if maxUint64-gas < deposit {
			return 0, ErrGasUintOverflow
		}
		gas += deposit
	}
	return gas, nil
}

const maxUint64 = 1<<64 - 1
