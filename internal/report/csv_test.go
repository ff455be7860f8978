package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"
)

func exportRows() []Row {
	return []Row{
		{
			"e1", "作図", "計画図, 第2版", "A-100",
			"2025-03-03T09:00:00Z", "2025-03-03T10:30:00Z", "PP02", "E1001",
			"", "", "", "", "draft", "", "project", "計画", "",
			"2025-03-03T12:00:00Z", "2025-03-03T12:00:00Z",
		},
		{
			"e2", `検図 "最終"`, "line1\nline2", "",
			"2025-03-04T13:00:00Z", "2025-03-04T14:00:00Z", "DS07", "E1001",
			"EQ-9", "ポンプ", "", "D10", "draft", "", "project", "設計", "",
			"2025-03-04T15:00:00Z", "2025-03-04T15:00:00Z",
		},
	}
}

func TestWriteCSV_Golden(t *testing.T) {
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, exportRows()))
	g.Assert(t, "month_export", buf.Bytes())

	buf.Reset()
	require.NoError(t, WriteCSV(&buf, nil))
	g.Assert(t, "empty_export", buf.Bytes())
}

func TestWriteCSV_OneLinePerRow(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, exportRows()))

	out := buf.String()
	require.True(t, strings.HasPrefix(out, "\uFEFF"))
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 3)
}

func TestFileName(t *testing.T) {
	now := time.Date(2025, 4, 2, 8, 0, 0, 0, time.UTC)
	require.Equal(t, "zisseki_data_2025_3_2025-04-02.csv", FileName(2025, 3, now))
}
