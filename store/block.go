package store

import (
	"bytes"
	"math/big"
	"path/filepath"

	cmtdb "github.com/cometbft/cometbft-db"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/spf13/viper"

	"github.com/emberchain/node/flags"
	"github.com/emberchain/node/types"
	"github.com/cometbft/cometbft/libs/log"
)

type BlockStore struct {
	log.Logger
	db      cmtdb.DB
	MinerDb MinerStore
}

func NewBlockStore(logger log.Logger) (*BlockStore, error) {
	homeDir := viper.GetString(flags.Home)
	db, err := cmtdb.NewDB("chaindata", cmtdb.BackendType(viper.GetString(flags.DB_Engine)), filepath.Join(homeDir, "data"))
	if err != nil {
		return nil, err
	}
	return &BlockStore{
		Logger:  logger.With("module", "blockStore"),
		db:      db,
		MinerDb: newMinerStore(logger),
	}, nil
}

func (bs *BlockStore) Close() error {
	bs.MinerDb.Close()
	return bs.db.Close()
}

// blockBody is the storage form of everything in a block besides its
// header.
type blockBody struct {
	Txs    types.Txs
	Uncles types.Headers
}

func (bs *BlockStore) ReadBlock(height uint64, hash types.Hash) *types.Block {
	header := bs.ReadHeader(height, hash)
	if header == nil {
		return nil
	}
	block := types.NewBlockWithHeader(header)
	if body := bs.readBody(hash); body != nil {
		block.Txs = body.Txs
		block.Uncles = body.Uncles
	}
	return block
}

func (bs *BlockStore) WriteBlock(block *types.Block) {
	block.Hash() // call hash to fill header if needed
	bs.WriteHeader(block.Header)
	bs.writeBody(block)
}

// ReadHeader retrieves the block header corresponding to the hash.
func (bs *BlockStore) ReadHeader(height uint64, hash types.Hash) *types.Header {
	bz, err := bs.db.Get(headerKey(height, hash))
	if err != nil {
		bs.Logger.Error("failed to read block header", "err", err, "height", height, "hash", hash)
		return nil
	}

	if len(bz) == 0 {
		return nil
	}

	header := new(types.Header)
	if err := rlp.Decode(bytes.NewReader(bz), header); err != nil {
		bs.Logger.Error("invalid block header RLP", "err", err, "height", height, "hash", hash)
		return nil
	}
	return header
}

// WriteHeader writes the block header corresponding to the hash.
func (bs *BlockStore) WriteHeader(header *types.Header) {
	var (
		hash   = header.Hash()
		height = header.Height.Uint64()
	)

	data, err := rlp.EncodeToBytes(header)
	if err != nil {
		bs.Logger.Error("failed to RLP encode header", "err", err)
		panic(err)
	}
	if err := bs.db.Set(headerKey(height, hash), data); err != nil {
		bs.Logger.Error("failed to store header by hash", "err", err)
		panic(err)
	}
	bs.WriteHeightByHash(hash, height)
}

func (bs *BlockStore) readBody(hash types.Hash) *blockBody {
	bz, err := bs.db.Get(bodyKey(hash))
	if err != nil {
		bs.Logger.Error("failed to read block body", "err", err, "hash", hash)
		return nil
	}
	if len(bz) == 0 {
		return nil
	}
	body := new(blockBody)
	if err := rlp.Decode(bytes.NewReader(bz), body); err != nil {
		bs.Logger.Error("invalid block body RLP", "hash", hash, "err", err)
		return nil
	}
	return body
}

func (bs *BlockStore) writeBody(block *types.Block) {
	data, err := rlp.EncodeToBytes(&blockBody{Txs: block.Txs, Uncles: block.Uncles})
	if err != nil {
		bs.Logger.Error("failed to RLP encode block body", "err", err)
		panic(err)
	}
	if err := bs.db.Set(bodyKey(block.Hash()), data); err != nil {
		bs.Logger.Error("failed to store block body", "err", err)
		panic(err)
	}
}

// ReadReceipts retrieves all execution receipts of a block.
func (bs *BlockStore) ReadReceipts(hash types.Hash) types.Receipts {
	bz, err := bs.db.Get(receiptsKey(hash))
	if err != nil {
		bs.Logger.Error("failed to read receipts", "err", err, "hash", hash)
		return nil
	}
	if len(bz) == 0 {
		return nil
	}
	var receipts types.Receipts
	if err := rlp.Decode(bytes.NewReader(bz), &receipts); err != nil {
		bs.Logger.Error("invalid receipts RLP", "hash", hash, "err", err)
		return nil
	}
	return receipts
}

func (bs *BlockStore) WriteReceipts(hash types.Hash, receipts types.Receipts) {
	data, err := rlp.EncodeToBytes(receipts)
	if err != nil {
		bs.Logger.Error("failed to RLP encode receipts", "err", err)
		panic(err)
	}
	if err := bs.db.Set(receiptsKey(hash), data); err != nil {
		bs.Logger.Error("failed to store receipts", "err", err)
		panic(err)
	}
}

// TxLookup locates a transaction inside the canonical chain.
type TxLookup struct {
	Height uint64
	Index  uint64
}

// ReadTxLookup returns the location of the transaction with the given
// hash, or nil if it is not part of any stored block.
func (bs *BlockStore) ReadTxLookup(hash types.Hash) *TxLookup {
	bz, err := bs.db.Get(txLookupKey(hash))
	if err != nil {
		bs.Logger.Error("failed to read tx lookup entry", "err", err, "hash", hash)
		return nil
	}
	if len(bz) == 0 {
		return nil
	}
	entry := new(TxLookup)
	if err := rlp.Decode(bytes.NewReader(bz), entry); err != nil {
		bs.Logger.Error("invalid tx lookup RLP", "hash", hash, "err", err)
		return nil
	}
	return entry
}

// WriteTxLookupEntries indexes every transaction of a block by hash.
func (bs *BlockStore) WriteTxLookupEntries(block *types.Block) {
	height := block.Header.Height.Uint64()
	for i, tx := range block.Txs {
		data, err := rlp.EncodeToBytes(&TxLookup{Height: height, Index: uint64(i)})
		if err != nil {
			bs.Logger.Error("failed to RLP encode tx lookup entry", "err", err)
			panic(err)
		}
		if err := bs.db.Set(txLookupKey(tx.Hash()), data); err != nil {
			bs.Logger.Error("failed to store tx lookup entry", "err", err)
			panic(err)
		}
	}
}

// ReadTd reads the total difficulty accumulated up to the given block.
func (bs *BlockStore) ReadTd(height uint64, hash types.Hash) *big.Int {
	bz, err := bs.db.Get(headerTDKey(height, hash))
	if err != nil {
		bs.Logger.Error("failed to read total difficulty", "err", err, "height", height, "hash", hash)
		return nil
	}
	if len(bz) == 0 {
		return nil
	}
	td := new(big.Int)
	if err := rlp.Decode(bytes.NewReader(bz), td); err != nil {
		bs.Logger.Error("invalid total difficulty RLP", "hash", hash, "err", err)
		return nil
	}
	return td
}

func (bs *BlockStore) WriteTd(height uint64, hash types.Hash, td *big.Int) {
	data, err := rlp.EncodeToBytes(td)
	if err != nil {
		bs.Logger.Error("failed to RLP encode total difficulty", "err", err)
		panic(err)
	}
	if err := bs.db.Set(headerTDKey(height, hash), data); err != nil {
		bs.Logger.Error("failed to store total difficulty", "err", err)
		panic(err)
	}
}
