package services

import (
	"context"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/paystream/internal/client/ledger/ledgertest"
	"github.com/dmitrijs2005/paystream/internal/client/models"
	"github.com/dmitrijs2005/paystream/internal/clock"
	"github.com/dmitrijs2005/paystream/internal/common"
	"github.com/dmitrijs2005/paystream/internal/logging"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

var (
	hrAddr    = ethcommon.HexToAddress("0xAAAA00000000000000000000000000000000000A")
	ownerAddr = ethcommon.HexToAddress("0xBBBB00000000000000000000000000000000000B")
	alice     = ethcommon.HexToAddress("0x1111111111111111111111111111111111111111")
	bob       = ethcommon.HexToAddress("0x2222222222222222222222222222222222222222")
	epoch     = time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
)

// memJournal is an in-memory txlog.Repository.
type memJournal struct {
	mu      sync.Mutex
	records []models.TxRecord
}

func (j *memJournal) Insert(_ context.Context, rec models.TxRecord) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.records = append(j.records, rec)
	return nil
}

func (j *memJournal) UpdateStatus(_ context.Context, id, hash string, status models.TxStatus, errText string, at time.Time) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	for i := range j.records {
		if j.records[i].Id == id {
			j.records[i].Hash, j.records[i].Status, j.records[i].Error, j.records[i].UpdatedAt = hash, status, errText, at
			return nil
		}
	}
	return common.ErrNotFound
}

func (j *memJournal) Recent(_ context.Context, limit int) ([]models.TxRecord, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]models.TxRecord, 0, len(j.records))
	for i := len(j.records) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, j.records[i])
	}
	return out, nil
}

func (j *memJournal) Operation(_ context.Context, opID string) ([]models.TxRecord, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	var out []models.TxRecord
	for _, r := range j.records {
		if r.OperationId == opID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (j *memJournal) all() []models.TxRecord {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]models.TxRecord(nil), j.records...)
}

type harness struct {
	ledger  *ledgertest.Fake
	clock   *clock.FakeClock
	journal *memJournal
	orch    *Orchestrator
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	f := ledgertest.New()
	f.SetPrivileged(hrAddr, ownerAddr)
	clk := clock.Fake(epoch)
	j := &memJournal{}
	return &harness{
		ledger:  f,
		clock:   clk,
		journal: j,
		orch:    NewOrchestrator(f, j, clk, logging.Nop()),
	}
}

// tokens converts a decimal token string into base units.
func tokens(t *testing.T, s string) *big.Int {
	t.Helper()
	v, err := models.ParseToken(s)
	require.NoError(t, err)
	return v
}

func salary(gross, rate int64, active, paused bool) models.SalaryInfo {
	return models.SalaryInfo{
		GrossEarned:   big.NewInt(gross),
		NetEarned:     big.NewInt(gross),
		RatePerSecond: big.NewInt(rate),
		Active:        active,
		Paused:        paused,
	}
}
