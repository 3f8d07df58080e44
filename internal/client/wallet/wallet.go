// Package wallet provides the signing capability the dashboard connects
// with: an address, the network it is attached to, and a transactor.
package wallet

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"io/fs"
	"math/big"
	"os"
	"path/filepath"

	pscommon "github.com/dmitrijs2005/paystream/internal/common"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
)

// Wallet is the opaque capability handed to the session holder.
type Wallet interface {
	Address() common.Address
	ChainID(ctx context.Context) (*big.Int, error)
	Transactor(chainID *big.Int) (*bind.TransactOpts, error)
}

// ChainIDReader reports the network id of the node a wallet is attached to.
// *ethclient.Client satisfies it.
type ChainIDReader interface {
	ChainID(ctx context.Context) (*big.Int, error)
}

// KeystoreWallet signs with a key decrypted from an Ethereum v3 keystore file.
type KeystoreWallet struct {
	key   *ecdsa.PrivateKey
	addr  common.Address
	chain ChainIDReader
}

// Open decrypts the keystore file at path and attaches the key to chain.
func Open(path string, passphrase []byte, chain ChainIDReader) (*KeystoreWallet, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty keystore path", pscommon.ErrConnection)
	}
	keyJSON, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read keystore: %w", pscommon.ErrConnection, err)
	}
	key, err := keystore.DecryptKey(keyJSON, string(passphrase))
	if err != nil {
		return nil, fmt.Errorf("%w: decrypt keystore: %w", pscommon.ErrConnection, err)
	}
	return New(key.PrivateKey, chain), nil
}

// New wraps an already loaded private key.
func New(key *ecdsa.PrivateKey, chain ChainIDReader) *KeystoreWallet {
	return &KeystoreWallet{key: key, addr: crypto.PubkeyToAddress(key.PublicKey), chain: chain}
}

func (w *KeystoreWallet) Address() common.Address { return w.addr }

func (w *KeystoreWallet) ChainID(ctx context.Context) (*big.Int, error) {
	if w.chain == nil {
		return nil, fmt.Errorf("%w: wallet not attached to a node", pscommon.ErrConnection)
	}
	id, err := w.chain.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: chain id: %w", pscommon.ErrConnection, err)
	}
	return id, nil
}

func (w *KeystoreWallet) Transactor(chainID *big.Int) (*bind.TransactOpts, error) {
	opts, err := bind.NewKeyedTransactorWithChainID(w.key, chainID)
	if err != nil {
		return nil, fmt.Errorf("%w: transactor: %w", pscommon.ErrConnection, err)
	}
	return opts, nil
}

// Create generates a new key and writes it to path as a keystore file
// encrypted with passphrase. An existing file is never overwritten.
func Create(path string, passphrase []byte, scryptN, scryptP int) (common.Address, error) {
	if path == "" {
		return common.Address{}, errors.New("wallet: empty keystore path")
	}
	if _, err := os.Stat(path); err == nil {
		return common.Address{}, fmt.Errorf("wallet: %s already exists", path)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return common.Address{}, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return common.Address{}, err
	}

	pk, err := crypto.GenerateKey()
	if err != nil {
		return common.Address{}, err
	}
	key := &keystore.Key{
		Id:         uuid.New(),
		Address:    crypto.PubkeyToAddress(pk.PublicKey),
		PrivateKey: pk,
	}
	keyJSON, err := keystore.EncryptKey(key, string(passphrase), scryptN, scryptP)
	if err != nil {
		return common.Address{}, err
	}
	if err := os.WriteFile(path, keyJSON, 0o600); err != nil {
		return common.Address{}, err
	}
	return key.Address, nil
}
