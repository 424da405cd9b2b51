package eth

import (
	"encoding/json"
	"testing"

	"github.com/emberchain/node/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterCriteriaUnmarshal(t *testing.T) {
	var crit FilterCriteria
	require.NoError(t, json.Unmarshal([]byte(`{
		"fromBlock": "0x1",
		"toBlock": "latest",
		"address": "0x1111111111111111111111111111111111111111",
		"topics": [
			"0x0000000000000000000000000000000000000000000000000000000000000001",
			null,
			["0x0000000000000000000000000000000000000000000000000000000000000002",
			 "0x0000000000000000000000000000000000000000000000000000000000000003"]
		]
	}`), &crit))
	assert.Equal(t, BlockIDFromHeight(1), crit.FromBlock)
	assert.Equal(t, LatestBlockID, crit.ToBlock)
	require.Len(t, crit.Addresses, 1)
	assert.Equal(t, common.HexToAddress("0x1111111111111111111111111111111111111111"), crit.Addresses[0])
	require.Len(t, crit.Topics, 3)
	assert.Len(t, crit.Topics[0], 1)
	assert.Nil(t, crit.Topics[1])
	assert.Len(t, crit.Topics[2], 2)
}

func TestFilterCriteriaUnmarshalAddressList(t *testing.T) {
	var crit FilterCriteria
	require.NoError(t, json.Unmarshal([]byte(`{
		"address": ["0x1111111111111111111111111111111111111111",
		            "0x2222222222222222222222222222222222222222"]
	}`), &crit))
	assert.Len(t, crit.Addresses, 2)
	// Block range defaults to latest on both ends.
	assert.Equal(t, LatestBlockID, crit.FromBlock)
	assert.Equal(t, LatestBlockID, crit.ToBlock)
}

func TestFilterCriteriaUnmarshalRejectsMalformed(t *testing.T) {
	for _, raw := range []string{
		`{"address": 5}`,
		`{"address": "0x12"}`,
		`{"address": [5]}`,
		`{"topics": [5]}`,
		`{"topics": ["0x12"]}`,
		`{"fromBlock": "12"}`,
	} {
		var crit FilterCriteria
		err := json.Unmarshal([]byte(raw), &crit)
		require.Error(t, err, raw)
	}
}

func TestFilterMatches(t *testing.T) {
	var (
		addr1  = common.HexToAddress("0x1111111111111111111111111111111111111111")
		addr2  = common.HexToAddress("0x2222222222222222222222222222222222222222")
		topicA = common.Hash{0x0a}
		topicB = common.Hash{0x0b}
		topicC = common.Hash{0x0c}
	)
	lg := &types.Log{Address: addr1, Topics: []common.Hash{topicA, topicB}}

	// Empty criteria match everything.
	assert.True(t, (&FilterCriteria{}).matches(lg))

	assert.True(t, (&FilterCriteria{Addresses: []common.Address{addr1}}).matches(lg))
	assert.True(t, (&FilterCriteria{Addresses: []common.Address{addr2, addr1}}).matches(lg))
	assert.False(t, (&FilterCriteria{Addresses: []common.Address{addr2}}).matches(lg))

	// Positional topics: position i constrains topic i only.
	assert.True(t, (&FilterCriteria{Topics: [][]common.Hash{{topicA}}}).matches(lg))
	assert.True(t, (&FilterCriteria{Topics: [][]common.Hash{nil, {topicB}}}).matches(lg))
	assert.True(t, (&FilterCriteria{Topics: [][]common.Hash{{topicC, topicA}}}).matches(lg))
	assert.False(t, (&FilterCriteria{Topics: [][]common.Hash{{topicB}}}).matches(lg))
	assert.False(t, (&FilterCriteria{Topics: [][]common.Hash{{topicA}, {topicA}}}).matches(lg))

	// More positions than the log carries can never match.
	assert.False(t, (&FilterCriteria{Topics: [][]common.Hash{{topicA}, {topicB}, {topicC}}}).matches(lg))
}
