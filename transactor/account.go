package transactor

import (
	"math/big"

	"github.com/emberchain/node/types"
	"github.com/cosmos/iavl"
	"github.com/ethereum/go-ethereum/rlp"
)

// StateReader is the read-only view both iavl tree flavors satisfy.
type StateReader interface {
	Get(key []byte) ([]byte, error)
}

var _ StateReader = (*iavl.ImmutableTree)(nil)
var _ StateReader = (*iavl.MutableTree)(nil)

var (
	accountPrefix = []byte("a") // accountPrefix + address -> account record
	codePrefix    = []byte("c") // codePrefix + address -> code bytes
	storagePrefix = []byte("s") // storagePrefix + address + slot -> 32-byte word
)

func accountKey(addr types.Address) []byte {
	return append(accountPrefix, addr.Bytes()...)
}

func codeKey(addr types.Address) []byte {
	return append(codePrefix, addr.Bytes()...)
}

func storageKey(addr types.Address, slot [32]byte) []byte {
	return append(append(storagePrefix, addr.Bytes()...), slot[:]...)
}

// Account is the persisted record of an address. Addresses with no
// record behave exactly like an account holding the zero value of every
// field.
type Account struct {
	Nonce   uint64
	Balance *big.Int
}

func newAccount() *Account {
	return &Account{Balance: new(big.Int)}
}

// GetAccount reads the account record for addr. A missing record yields
// a zero-valued account, never an error.
func GetAccount(state StateReader, addr types.Address) (*Account, error) {
	bz, err := state.Get(accountKey(addr))
	if err != nil {
		return nil, err
	}
	if len(bz) == 0 {
		return newAccount(), nil
	}
	acc := new(Account)
	if err := rlp.DecodeBytes(bz, acc); err != nil {
		return nil, err
	}
	return acc, nil
}

func setAccount(tree *iavl.MutableTree, addr types.Address, acc *Account) error {
	bz, err := rlp.EncodeToBytes(acc)
	if err != nil {
		return err
	}
	_, err = tree.Set(accountKey(addr), bz)
	return err
}

// GetCode returns the code stored at addr, empty for plain accounts.
func GetCode(state StateReader, addr types.Address) ([]byte, error) {
	return state.Get(codeKey(addr))
}

func setCode(tree *iavl.MutableTree, addr types.Address, code []byte) error {
	_, err := tree.Set(codeKey(addr), code)
	return err
}

// GetStorage returns the 32-byte word at the given slot, zero-filled for
// never-written slots.
func GetStorage(state StateReader, addr types.Address, slot [32]byte) ([32]byte, error) {
	var word [32]byte
	bz, err := state.Get(storageKey(addr, slot))
	if err != nil {
		return word, err
	}
	if len(bz) > 32 {
		bz = bz[:32]
	}
	copy(word[32-len(bz):], bz)
	return word, nil
}

// SetStorage writes a storage word, used by genesis allocation.
func SetStorage(tree *iavl.MutableTree, addr types.Address, slot, word [32]byte) error {
	_, err := tree.Set(storageKey(addr, slot), word[:])
	return err
}

// SetBalance overwrites the balance of addr, used by genesis allocation.
func SetBalance(tree *iavl.MutableTree, addr types.Address, balance *big.Int) error {
	acc, err := GetAccount(tree, addr)
	if err != nil {
		return err
	}
	acc.Balance = new(big.Int).Set(balance)
	return setAccount(tree, addr, acc)
}

// SetCode stores code at addr directly, used by genesis allocation.
func SetCode(tree *iavl.MutableTree, addr types.Address, code []byte) error {
	return setCode(tree, addr, code)
}
