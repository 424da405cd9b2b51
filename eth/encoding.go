package eth

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// decodeFixedHex parses a 0x-prefixed hex string into exactly length
// bytes. Wrong-length input is malformed, not an absence.
func decodeFixedHex(s string, length int) ([]byte, error) {
	b, err := hexutil.Decode(s)
	if err != nil {
		return nil, errMalformed(fmt.Sprintf("invalid hex string %q: %v", s, err))
	}
	if len(b) != length {
		return nil, errMalformed(fmt.Sprintf("hex string %q: want %d bytes, got %d", s, length, len(b)))
	}
	return b, nil
}
