package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/supplymate/core/model"
)

func sampleRecords() []*model.Record {
	served := model.NewRecord("FAM001")
	served.Add("Water Bottle", 4, 10, 1)
	served.Add("Blanket", 1, 6, 3)
	served.ComputeScore(2)
	return []*model.Record{served, model.NewRecord("FAM002")}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleRecords()))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, csvHeader, rows[0])
	assert.Equal(t, []string{"FAM001", "Water Bottle", "4", "46", "7", "13.14"}, rows[1])
	assert.Equal(t, []string{"FAM001", "Blanket", "1", "46", "7", "13.14"}, rows[2])
	assert.Equal(t, []string{"FAM002", "", "0", "0", "0", "0.00"}, rows[3])
}

func TestWriteCSVSkipsNil(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, []*model.Record{nil}))
	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleRecords()))

	var out []model.Record
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	require.Len(t, out, 2)
	assert.Equal(t, "FAM001", out[0].RecipientID)
	assert.Equal(t, 46, out[0].TotalValue)
	assert.Empty(t, out[1].Lines)
}

func TestWriteJSONNil(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())
}
