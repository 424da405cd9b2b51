//go:build sqlite

package store

import (
	"database/sql"
	"path/filepath"

	"github.com/emberchain/node/flags"
	"github.com/emberchain/node/types"
	"github.com/cometbft/cometbft/libs/log"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/viper"

	_ "github.com/mattn/go-sqlite3"
)

func init() {
	newMinerStore = func(logger log.Logger) MinerStore {
		s := &sqliteStore{Logger: logger.With("module", "minerStore")}
		path := filepath.Join(viper.GetString(flags.Home), "data", "miner.db")
		if !s.open(path) {
			return &minerStoreNop{}
		}
		return s
	}
}

type sqliteStore struct {
	log.Logger
	db *sql.DB
}

func (s *sqliteStore) open(path string) bool {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		s.Logger.Error("failed to open miner index", "err", err)
		return false
	}
	ddl := "CREATE TABLE IF NOT EXISTS miner_block (id INTEGER PRIMARY KEY, miner_address TEXT, block_height INTEGER)"
	if _, err = db.Exec(ddl); err != nil {
		s.Logger.Error("failed to create miner index table", "err", err)
		return false
	}
	s.db = db
	return true
}

func (s *sqliteStore) Close() {
	if err := s.db.Close(); err != nil {
		s.Logger.Error("failed to close miner index", "err", err)
	}
}

func (s *sqliteStore) AddMiner(height uint64, miner types.Address) bool {
	_, err := s.db.Exec("INSERT INTO miner_block (miner_address,block_height) VALUES (?,?)", hexutil.Encode(miner.Bytes()), height)
	if err != nil {
		s.Logger.Error("failed to index block miner", "err", err)
		return false
	}
	return true
}

func (s *sqliteStore) RemoveMinerFromHeight(height uint64) bool {
	_, err := s.db.Exec("DELETE FROM miner_block where block_height>=?", height)
	if err != nil {
		s.Logger.Error("failed to unwind miner index", "err", err)
		return false
	}
	return true
}

func (s *sqliteStore) CountBlockByMiner(miner types.Address) int {
	var total int
	err := s.db.QueryRow("SELECT COUNT(*) FROM miner_block where miner_address=?", hexutil.Encode(miner.Bytes())).Scan(&total)
	if err != nil {
		s.Logger.Error("failed to count blocks by miner", "err", err)
		return 0
	}
	return total
}

func (s *sqliteStore) QueryBlockByMiner(miner types.Address, limit int, page int) []uint64 {
	offset := (page - 1) * limit
	rows, err := s.db.Query("SELECT block_height FROM miner_block where miner_address=? order by block_height asc LIMIT ? OFFSET ?", hexutil.Encode(miner.Bytes()), limit, offset)
	if err != nil {
		s.Logger.Error("failed to query blocks by miner", "err", err)
		return nil
	}
	defer rows.Close()

	var heights []uint64
	for rows.Next() {
		var height int64
		if err = rows.Scan(&height); err != nil {
			s.Logger.Error("failed to scan miner index row", "err", err)
			return nil
		}
		heights = append(heights, uint64(height))
	}
	return heights
}
