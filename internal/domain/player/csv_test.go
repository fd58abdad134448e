package player

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVRoundTrip(t *testing.T) {
	in := []Player{
		{ID: 2544, Name: "LeBron James", Team: "LAL", Position: "SF", Stats: Stats{Points: 24.4, Rebounds: 7.8, Assists: 8.2, Steals: 1, Blocks: 0.6}, FantasyValue: 47.3, FantasyRank: 1, Status: StatusDrafted, DraftPrice: 2, DraftTeam: "Alpha"},
		{ID: 77, Name: "Luka Doncic", Team: "DAL", Position: "PG", Stats: Stats{Points: 28.1}, FantasyValue: 41.5, FantasyRank: 2, Status: StatusAvailable},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, in, Columns))

	rows, err := ReadCSV(&buf)
	require.NoError(t, err)

	out, rejected := Ingest(rows)
	require.Empty(t, rejected)
	assert.Equal(t, in, out)
}

func TestReadCSV_ToleratesExtraColumnsAndBOM(t *testing.T) {
	src := "\ufeffname,points,rebounds,assists,steals,blocks,fantasy_value,source\n" +
		"Nikola Jokic,26.4,12.4,9,1.4,0.7,52.1,bbref\n"

	rows, err := ReadCSV(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 2, rows[0].Row)
	assert.Equal(t, "Nikola Jokic", rows[0].Fields[ColName])
	assert.Equal(t, "bbref", rows[0].Fields["source"])
}

func TestReadCSV_Empty(t *testing.T) {
	rows, err := ReadCSV(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, rows)
}
