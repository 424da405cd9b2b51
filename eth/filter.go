package eth

import (
	"encoding/json"
	"fmt"

	"github.com/emberchain/node/types"
	"github.com/ethereum/go-ethereum/common"
)

// FilterCriteria is the log query predicate: an inclusive block range,
// an optional address set and positional topic sets. A missing field
// matches everything, topic position i constrains a log's topic i only.
type FilterCriteria struct {
	FromBlock BlockID
	ToBlock   BlockID
	Addresses []common.Address
	Topics    [][]common.Hash
}

func (c *FilterCriteria) UnmarshalJSON(data []byte) error {
	type rawCriteria struct {
		FromBlock *BlockID      `json:"fromBlock"`
		ToBlock   *BlockID      `json:"toBlock"`
		Addresses interface{}   `json:"address"`
		Topics    []interface{} `json:"topics"`
	}
	var raw rawCriteria
	if err := json.Unmarshal(data, &raw); err != nil {
		return errMalformed(fmt.Sprintf("invalid filter: %v", err))
	}
	if raw.FromBlock != nil {
		c.FromBlock = *raw.FromBlock
	}
	if raw.ToBlock != nil {
		c.ToBlock = *raw.ToBlock
	}

	// address is either a single address or a list.
	switch address := raw.Addresses.(type) {
	case nil:
	case string:
		addr, err := decodeAddress(address)
		if err != nil {
			return err
		}
		c.Addresses = []common.Address{addr}
	case []interface{}:
		for _, entry := range address {
			str, ok := entry.(string)
			if !ok {
				return errMalformed("non-string address in filter")
			}
			addr, err := decodeAddress(str)
			if err != nil {
				return err
			}
			c.Addresses = append(c.Addresses, addr)
		}
	default:
		return errMalformed("invalid address field in filter")
	}

	// Each topic position is null (any), a single topic or a list.
	for i, entry := range raw.Topics {
		switch topic := entry.(type) {
		case nil:
			c.Topics = append(c.Topics, nil)
		case string:
			parsed, err := decodeTopic(topic)
			if err != nil {
				return err
			}
			c.Topics = append(c.Topics, []common.Hash{parsed})
		case []interface{}:
			var set []common.Hash
			for _, item := range topic {
				str, ok := item.(string)
				if !ok {
					return errMalformed(fmt.Sprintf("non-string topic at position %d", i))
				}
				parsed, err := decodeTopic(str)
				if err != nil {
					return err
				}
				set = append(set, parsed)
			}
			c.Topics = append(c.Topics, set)
		default:
			return errMalformed(fmt.Sprintf("invalid topic at position %d", i))
		}
	}
	return nil
}

func decodeAddress(s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, errMalformed(fmt.Sprintf("invalid address %q", s))
	}
	return common.HexToAddress(s), nil
}

func decodeTopic(s string) (common.Hash, error) {
	b, err := decodeFixedHex(s, 32)
	if err != nil {
		return common.Hash{}, errMalformed(fmt.Sprintf("invalid topic %q", s))
	}
	return common.BytesToHash(b), nil
}

// matches applies the address and positional topic predicates.
func (c *FilterCriteria) matches(lg *types.Log) bool {
	if len(c.Addresses) > 0 {
		included := false
		for _, addr := range c.Addresses {
			if addr == lg.Address {
				included = true
				break
			}
		}
		if !included {
			return false
		}
	}
	if len(c.Topics) > len(lg.Topics) {
		return false
	}
	for i, set := range c.Topics {
		if len(set) == 0 {
			continue // wildcard position
		}
		match := false
		for _, topic := range set {
			if topic == lg.Topics[i] {
				match = true
				break
			}
		}
		if !match {
			return false
		}
	}
	return true
}

// collectLogs walks blocks [from, to] in ascending order and returns
// matching logs ordered by (height, tx index, log index). The range is
// deliberately uncapped, expensive scans are the caller's choice.
func (b *Backend) collectLogs(from, to uint64, crit *FilterCriteria) []*RPCLog {
	logs := []*RPCLog{}
	for height := from; height <= to; height++ {
		block := b.chain.BlockByHeight(height)
		if block == nil {
			break
		}
		if len(block.Txs) == 0 {
			continue
		}
		receipts := b.chain.Receipts(block.Hash())
		var logIndex uint64
		for txIndex, receipt := range receipts {
			if txIndex >= len(block.Txs) {
				break
			}
			tx := block.Txs[txIndex]
			for _, lg := range receipt.Logs {
				if crit.matches(lg) {
					logs = append(logs, newRPCLog(lg, block.Hash(), height, tx.Hash(), uint64(txIndex), logIndex))
				}
				logIndex++
			}
		}
	}
	return logs
}
