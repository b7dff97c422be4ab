package commands

import (
	"bytes"
	"encoding/json"
	"testing"

	"shop-admin/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintDriftTable(t *testing.T) {
	jsonOutput = false
	var buf bytes.Buffer

	require.NoError(t, printDrift(&buf, []models.OrderTotals{{
		OrderID:    7,
		Stored:     decimal.RequireFromString("100"),
		LinesTotal: decimal.RequireFromString("39.97"),
		LineCount:  2,
	}}))

	out := buf.String()
	assert.Contains(t, out, "ORDER")
	assert.Contains(t, out, "100.00")
	assert.Contains(t, out, "39.97")
	assert.Contains(t, out, "60.03")
}

func TestPrintDriftClean(t *testing.T) {
	jsonOutput = false
	var buf bytes.Buffer

	require.NoError(t, printDrift(&buf, nil))
	assert.Equal(t, "All order totals match their lines.\n", buf.String())
}

func TestPrintDriftJSON(t *testing.T) {
	jsonOutput = true
	defer func() { jsonOutput = false }()
	var buf bytes.Buffer

	require.NoError(t, printDrift(&buf, []models.OrderTotals{{
		OrderID:    3,
		Stored:     decimal.RequireFromString("5"),
		LinesTotal: decimal.Zero,
	}}))

	var decoded []map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, float64(3), decoded[0]["order_id"])
	assert.Equal(t, "5", decoded[0]["stored"])
}

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["check-totals"])
	assert.True(t, names["reconcile"])
}
