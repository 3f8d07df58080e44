package cli

import (
	"bytes"
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/paystream/internal/client/models"
	"github.com/dmitrijs2005/paystream/internal/client/services"
	"github.com/stretchr/testify/assert"
)

func TestStreamStatus(t *testing.T) {
	tests := []struct {
		name           string
		active, paused bool
		rate           *big.Int
		want           string
	}{
		{"streaming", true, false, big.NewInt(5), "streaming"},
		{"paused", true, true, big.NewInt(5), "paused"},
		{"terminated", false, false, big.NewInt(5), "terminated"},
		{"never started", false, false, new(big.Int), "not started"},
		{"nil rate", false, false, nil, "not started"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, streamStatus(tt.active, tt.paused, tt.rate))
		})
	}
}

func TestRenderBonuses(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	list := []models.ScheduledBonus{
		{Index: 0, Amount: tokens("5"), ReleaseTime: now.Add(-time.Minute), Exists: true},
		{Index: 2, Amount: tokens("7"), ReleaseTime: now.Add(time.Hour), Exists: true},
		{Index: 3, Amount: tokens("1"), ReleaseTime: now.Add(-time.Hour), Exists: true, Claimed: true},
	}

	var out bytes.Buffer
	renderBonuses(&out, list, now)
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")

	assert.Len(t, lines, 4)
	assert.Contains(t, lines[1], "claimable")
	assert.Contains(t, lines[2], "pending")
	assert.Contains(t, lines[3], "claimed")

	out.Reset()
	renderBonuses(&out, nil, now)
	assert.Equal(t, "No scheduled bonuses.\n", out.String())
}

func TestRenderEmployee_LiveEstimate(t *testing.T) {
	snap := services.EmployeeSnapshot{
		Salary: &models.SalaryInfo{GrossEarned: tokens("10"), RatePerSecond: tokens("1"), Active: true},
	}

	var out bytes.Buffer
	renderEmployee(&out, snap, tokens("12.5"), time.Now())
	assert.Contains(t, out.String(), "12.5000 (live estimate)")

	out.Reset()
	snap.Salary.Paused = true
	renderEmployee(&out, snap, tokens("12.5"), time.Now())
	assert.Contains(t, out.String(), "10.0000")
	assert.NotContains(t, out.String(), "live estimate")
}

func TestRenderHistory_Empty(t *testing.T) {
	var out bytes.Buffer
	renderHistory(&out, nil)
	assert.Equal(t, "No journaled transactions.\n", out.String())
}
