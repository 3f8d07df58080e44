package wallet

import (
	"context"
	"errors"
	"math/big"
	"os"
	"path/filepath"
	"testing"

	pscommon "github.com/dmitrijs2005/paystream/internal/common"
	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChain struct {
	id  *big.Int
	err error
}

func (f fakeChain) ChainID(context.Context) (*big.Int, error) { return f.id, f.err }

func TestCreateAndOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys", "owner.json")
	addr, err := Create(path, []byte("pw"), keystore.LightScryptN, keystore.LightScryptP)
	require.NoError(t, err)

	w, err := Open(path, []byte("pw"), fakeChain{id: big.NewInt(666888)})
	require.NoError(t, err)
	assert.Equal(t, addr, w.Address())

	id, err := w.ChainID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(666888), id.Int64())

	opts, err := w.Transactor(id)
	require.NoError(t, err)
	assert.Equal(t, addr, opts.From)

	_, err = Create(path, []byte("pw"), keystore.LightScryptN, keystore.LightScryptP)
	require.Error(t, err)
}

func TestCreate_WritesDecryptableKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key.json")
	addr, err := Create(path, []byte("pw"), keystore.LightScryptN, keystore.LightScryptP)
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	key, err := keystore.DecryptKey(raw, "pw")
	require.NoError(t, err)

	assert.Equal(t, addr, key.Address)
	assert.Equal(t, addr, crypto.PubkeyToAddress(key.PrivateKey.PublicKey))
	assert.NotEqual(t, uuid.Nil, key.Id)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestOpen_Errors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "k.json")
	_, err := Create(path, []byte("right"), keystore.LightScryptN, keystore.LightScryptP)
	require.NoError(t, err)

	_, err = Open(path, []byte("wrong"), nil)
	require.ErrorIs(t, err, pscommon.ErrConnection)

	_, err = Open(filepath.Join(t.TempDir(), "missing.json"), nil, nil)
	require.ErrorIs(t, err, pscommon.ErrConnection)

	_, err = Open("", nil, nil)
	require.ErrorIs(t, err, pscommon.ErrConnection)
}

func TestChainID_Errors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "k.json")
	_, err := Create(path, []byte("pw"), keystore.LightScryptN, keystore.LightScryptP)
	require.NoError(t, err)

	w, err := Open(path, []byte("pw"), fakeChain{err: errors.New("down")})
	require.NoError(t, err)
	_, err = w.ChainID(context.Background())
	require.ErrorIs(t, err, pscommon.ErrConnection)

	w.chain = nil
	_, err = w.ChainID(context.Background())
	require.ErrorIs(t, err, pscommon.ErrConnection)
}
