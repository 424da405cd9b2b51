package transactor

import (
	"encoding/binary"
	"fmt"

	"github.com/ethereum/go-ethereum/crypto"
)

// revertSelector is the 4-byte selector of Error(string), the canonical
// solidity revert payload shape clients know how to decode.
var revertSelector = crypto.Keccak256([]byte("Error(string)"))[:4]

// EncodeRevert packs a human-readable reason the way Error(string) is
// ABI-encoded: selector, offset word, length word, padded string bytes.
func EncodeRevert(reason string) []byte {
	msg := []byte(reason)
	padded := (len(msg) + 31) / 32 * 32
	out := make([]byte, 4+32+32+padded)
	copy(out, revertSelector)
	binary.BigEndian.PutUint64(out[4+24:4+32], 32)
	binary.BigEndian.PutUint64(out[4+32+24:4+64], uint64(len(msg)))
	copy(out[4+64:], msg)
	return out
}

// DecodeRevertReason extracts the reason string from an Error(string)
// payload, or returns an empty string if the payload has another shape.
func DecodeRevertReason(output []byte) string {
	if len(output) < 4+64 || string(output[:4]) != string(revertSelector) {
		return ""
	}
	length := binary.BigEndian.Uint64(output[4+32+24 : 4+64])
	if uint64(len(output)) < 4+64+length {
		return ""
	}
	return string(output[4+64 : 4+64+uint64(length)])
}

// RevertError is returned by gas estimation when the call reverts at the
// maximum allowed gas, carrying the revert payload for the client.
type RevertError struct {
	Output []byte
}

func (e *RevertError) Error() string {
	if reason := DecodeRevertReason(e.Output); reason != "" {
		return fmt.Sprintf("execution reverted: %s", reason)
	}
	return "execution reverted"
}
