package store

import (
	"github.com/emberchain/node/types"
)

func (bs *BlockStore) ReadHashByHeight(height uint64) types.Hash {
	hash, err := bs.db.Get(headerHashKey(height))
	if err != nil {
		bs.Logger.Error("failed to read hash by height", "err", err, "height", height)
		return nil
	}

	if len(hash) == 0 {
		return nil
	}
	return hash
}

// WriteHashByHeight stores hash by height for the canonical chain.
func (bs *BlockStore) WriteHashByHeight(height uint64, hash types.Hash) {
	if err := bs.db.Set(headerHashKey(height), hash); err != nil {
		bs.Logger.Error("failed to store header hash by height", "err", err, "height", height, "hash", hash)
		panic(err)
	}
}

func (bs *BlockStore) ReadHeightByHash(hash types.Hash) *uint64 {
	bz, err := bs.db.Get(headerHeightKey(hash))
	if err != nil {
		bs.Logger.Error("failed to read height by hash", "err", err, "hash", hash)
		return nil
	}
	if len(bz) != 8 {
		return nil
	}
	height := decodeBlockHeight(bz)
	return &height
}

func (bs *BlockStore) WriteHeightByHash(hash types.Hash, height uint64) {
	if err := bs.db.Set(headerHeightKey(hash), encodeBlockHeight(height)); err != nil {
		bs.Logger.Error("failed to store height by hash", "err", err, "height", height, "hash", hash)
		panic(err)
	}
}

func (bs *BlockStore) ReadHeadBlockHash() types.Hash {
	hash, err := bs.db.Get(headBlockKey)
	if err != nil {
		bs.Logger.Error("failed to read head block hash", "err", err)
		return nil
	}
	if len(hash) == 0 {
		return nil
	}
	return hash
}

func (bs *BlockStore) WriteHeadBlockHash(hash types.Hash) {
	if err := bs.db.Set(headBlockKey, hash); err != nil {
		bs.Logger.Error("failed to store head block hash", "err", err, "hash", hash)
		panic(err)
	}
}
