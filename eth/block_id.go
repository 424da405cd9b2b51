package eth

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// BlockID is a client-supplied block identifier: a hex quantity or one
// of the tags earliest, latest, pending. The zero value means latest,
// matching the default for methods called without an identifier.
type BlockID struct {
	height uint64
	tag    blockTag
}

type blockTag int

const (
	tagLatest blockTag = iota // zero value, also the omitted-param default
	tagEarliest
	tagPending
	tagHeight
)

var (
	EarliestBlockID = BlockID{tag: tagEarliest}
	LatestBlockID   = BlockID{tag: tagLatest}
	PendingBlockID  = BlockID{tag: tagPending}
)

func BlockIDFromHeight(height uint64) BlockID {
	return BlockID{height: height, tag: tagHeight}
}

func (id *BlockID) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return errMalformed(fmt.Sprintf("invalid block identifier: %s", data))
	}
	switch raw {
	case "earliest":
		id.tag = tagEarliest
	case "latest", "":
		id.tag = tagLatest
	case "pending":
		id.tag = tagPending
	default:
		height, err := hexutil.DecodeUint64(raw)
		if err != nil {
			return errMalformed(fmt.Sprintf("invalid block identifier %q", raw))
		}
		if height > math.MaxInt64 {
			return errMalformed(fmt.Sprintf("block height %d out of range", height))
		}
		id.tag = tagHeight
		id.height = height
	}
	return nil
}

func (id BlockID) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.String())
}

func (id BlockID) String() string {
	switch id.tag {
	case tagEarliest:
		return "earliest"
	case tagPending:
		return "pending"
	case tagHeight:
		return hexutil.EncodeUint64(id.height)
	default:
		return "latest"
	}
}
