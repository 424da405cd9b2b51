package eth

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlockIDUnmarshal(t *testing.T) {
	cases := map[string]BlockID{
		`"latest"`:   LatestBlockID,
		`""`:         LatestBlockID,
		`"earliest"`: EarliestBlockID,
		`"pending"`:  PendingBlockID,
		`"0x0"`:      BlockIDFromHeight(0),
		`"0x2"`:      BlockIDFromHeight(2),
		`"0x1b4"`:    BlockIDFromHeight(436),
	}
	for raw, want := range cases {
		var id BlockID
		require.NoError(t, json.Unmarshal([]byte(raw), &id), raw)
		assert.Equal(t, want, id, raw)
	}
}

func TestBlockIDUnmarshalRejectsMalformed(t *testing.T) {
	for _, raw := range []string{
		`"2"`,    // missing 0x prefix
		`"0xzz"`, // not hex
		`5`,      // not a string
		`"0xffffffffffffffff"`, // beyond the signed height range
		`["latest"]`,
	} {
		var id BlockID
		err := json.Unmarshal([]byte(raw), &id)
		require.Error(t, err, raw)
		var coded interface{ ErrorCode() int }
		require.ErrorAs(t, err, &coded, raw)
		assert.Equal(t, codeMalformed, coded.ErrorCode(), raw)
	}
}

func TestBlockIDZeroValueIsLatest(t *testing.T) {
	var id BlockID
	assert.Equal(t, tagLatest, id.tag)
	assert.Equal(t, "latest", id.String())
}

func TestBlockIDMarshal(t *testing.T) {
	for id, want := range map[BlockID]string{
		LatestBlockID:          `"latest"`,
		EarliestBlockID:        `"earliest"`,
		PendingBlockID:         `"pending"`,
		BlockIDFromHeight(436): `"0x1b4"`,
	} {
		raw, err := json.Marshal(id)
		require.NoError(t, err)
		assert.Equal(t, want, string(raw))
	}
}
