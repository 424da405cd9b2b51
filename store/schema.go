package store

import (
	"encoding/binary"

	"github.com/emberchain/node/types"
)

var (
	headerPrefix       = []byte("h") // headerPrefix + num (uint64 big endian) + hash -> header
	headerTDSuffix     = []byte("t") // headerPrefix + num (uint64 big endian) + hash + headerTDSuffix -> td
	headerHashPrefix   = []byte("n") // headerHashPrefix + num (uint64 big endian) -> hash
	headerHeightPrefix = []byte("H") // headerHeightPrefix + hash -> num (uint64 big endian)
	bodyPrefix         = []byte("b") // bodyPrefix + hash -> block body (txs, uncles)
	receiptsPrefix     = []byte("r") // receiptsPrefix + hash -> receipts
	txLookupPrefix     = []byte("l") // txLookupPrefix + tx hash -> (height, index)

	// headBlockKey tracks the latest known full block's hash.
	headBlockKey = []byte("LastBlock")
)

// encodeBlockHeight encodes a block height as big endian uint64
func encodeBlockHeight(height uint64) []byte {
	enc := make([]byte, 8)
	binary.BigEndian.PutUint64(enc, height)
	return enc
}

func decodeBlockHeight(enc []byte) uint64 {
	return binary.BigEndian.Uint64(enc)
}

// headerKey = headerPrefix + num (uint64 big endian) + hash
func headerKey(height uint64, hash types.Hash) []byte {
	return append(append(headerPrefix, encodeBlockHeight(height)...), hash.Bytes()...)
}

// headerTDKey = headerPrefix + num (uint64 big endian) + hash + headerTDSuffix
func headerTDKey(height uint64, hash types.Hash) []byte {
	return append(headerKey(height, hash), headerTDSuffix...)
}

// headerHashKey = headerHashPrefix + num (uint64 big endian)
func headerHashKey(height uint64) []byte {
	return append(headerHashPrefix, encodeBlockHeight(height)...)
}

// headerHeightKey = headerHeightPrefix + hash
func headerHeightKey(hash types.Hash) []byte {
	return append(headerHeightPrefix, hash.Bytes()...)
}

// bodyKey = bodyPrefix + hash
func bodyKey(hash types.Hash) []byte {
	return append(bodyPrefix, hash.Bytes()...)
}

// receiptsKey = receiptsPrefix + hash
func receiptsKey(hash types.Hash) []byte {
	return append(receiptsPrefix, hash.Bytes()...)
}

// txLookupKey = txLookupPrefix + tx hash
func txLookupKey(hash types.Hash) []byte {
	return append(txLookupPrefix, hash.Bytes()...)
}
