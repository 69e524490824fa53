package heart

import (
	"strings"
	"testing"

	"github.com/soltixdb/eda/internal/analytics/summary"
	"github.com/soltixdb/eda/internal/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const heartCSV = `Age,Sex,Disease,Serum cholesterol in mg/dl,Maximum heart rate achieved,Exercise induced angina
63,male,True,233,150,No
67,male,True,286,108,Yes
67,male,True,229,129,Yes
37,male,False,250,187,No
41,female,False,204,172,No
56,male,False,236,178,No
62,female,True,268,160,No
57,female,False,354,163,Yes
`

func loadTable(t *testing.T, data string) *dataset.Table {
	t.Helper()
	table, err := dataset.ReadTable(strings.NewReader(data))
	require.NoError(t, err)
	return table
}

func TestWhoSuffersMore_Men(t *testing.T) {
	cmp, err := WhoSuffersMore(loadTable(t, heartCSV))
	require.NoError(t, err)

	assert.Equal(t, GroupMen, cmp.Group)
	assert.Equal(t, 3, cmp.MenWithDisease)
	assert.Equal(t, 1, cmp.WomenWithDisease)
	assert.InDelta(t, 66.666666, cmp.PercentDifference, 1e-5)
	assert.Equal(t, "Men suffer more from heart disease by 66.67%.", cmp.Sentence())
}

func TestWhoSuffersMore_Women(t *testing.T) {
	data := "Sex,Disease\nfemale,True\nfemale,True\nmale,True\nmale,False\n"
	cmp, err := WhoSuffersMore(loadTable(t, data))
	require.NoError(t, err)

	assert.Equal(t, GroupWomen, cmp.Group)
	assert.InDelta(t, 50.0, cmp.PercentDifference, 1e-12)
	assert.Equal(t, "Women suffer more from heart disease by 50.00%.", cmp.Sentence())
}

func TestWhoSuffersMore_TieReportsWomen(t *testing.T) {
	data := "Sex,Disease\nfemale,True\nmale,True\n"
	cmp, err := WhoSuffersMore(loadTable(t, data))
	require.NoError(t, err)

	assert.Equal(t, GroupWomen, cmp.Group)
	assert.Equal(t, 0.0, cmp.PercentDifference)
}

func TestWhoSuffersMore_Errors(t *testing.T) {
	_, err := WhoSuffersMore(loadTable(t, "Sex,Age\nmale,40\n"))
	assert.ErrorIs(t, err, dataset.ErrMissingColumn)
	assert.ErrorIs(t, err, summary.ErrInvalidInput)

	_, err = WhoSuffersMore(loadTable(t, "Sex,Disease\nmale,1\n"))
	assert.ErrorIs(t, err, summary.ErrTypeMismatch)

	_, err = WhoSuffersMore(loadTable(t, "Sex,Disease\nmale,False\nfemale,False\n"))
	assert.ErrorIs(t, err, summary.ErrInvalidInput)
}

func TestAverageCholesterol(t *testing.T) {
	groups, err := AverageCholesterol(loadTable(t, heartCSV))
	require.NoError(t, err)
	require.Len(t, groups, 4)

	assert.Equal(t, GroupMean{Sex: "female", Disease: false, Count: 2, Mean: 279}, groups[0])
	assert.Equal(t, GroupMean{Sex: "female", Disease: true, Count: 1, Mean: 268}, groups[1])
	assert.Equal(t, GroupMean{Sex: "male", Disease: false, Count: 2, Mean: 243}, groups[2])
	assert.Equal(t, "male", groups[3].Sex)
	assert.True(t, groups[3].Disease)
	assert.InDelta(t, 249.333333, groups[3].Mean, 1e-5)
}

func TestAverageCholesterol_MissingColumn(t *testing.T) {
	_, err := AverageCholesterol(loadTable(t, "Sex,Disease\nmale,True\n"))
	assert.ErrorIs(t, err, dataset.ErrMissingColumn)
	assert.Contains(t, err.Error(), ColumnCholesterol)
}

func TestAgeHistogram(t *testing.T) {
	h, err := AgeHistogram(loadTable(t, heartCSV), DefaultAgeBins)
	require.NoError(t, err)

	assert.Equal(t, DefaultAgeBins, h.Bins())
	assert.Equal(t, 4, h.Total())
	assert.Equal(t, 62.0, h.Edges[0])
	assert.Equal(t, 67.0, h.Edges[DefaultAgeBins])
}

func TestAgeHistogram_NoDiseasedPatients(t *testing.T) {
	_, err := AgeHistogram(loadTable(t, "Age,Disease\n40,False\n"), DefaultAgeBins)
	assert.ErrorIs(t, err, summary.ErrInvalidInput)
}

func TestMaxHeartRateBoxPlot(t *testing.T) {
	boxes, err := MaxHeartRateBoxPlot(loadTable(t, heartCSV))
	require.NoError(t, err)
	require.Len(t, boxes, 2)

	assert.Equal(t, LabelNoDisease, boxes[0].Label)
	assert.Equal(t, 4, boxes[0].Count)
	assert.Equal(t, LabelDisease, boxes[1].Label)
	assert.Equal(t, 4, boxes[1].Count)
	assert.Equal(t, 108.0, boxes[1].Min)
	assert.Equal(t, 160.0, boxes[1].Max)
}

func TestMaxHeartRateBoxPlot_SkipsEmptyGroup(t *testing.T) {
	boxes, err := MaxHeartRateBoxPlot(loadTable(t, "Maximum heart rate achieved,Disease\n150,True\n140,True\n"))
	require.NoError(t, err)
	require.Len(t, boxes, 1)
	assert.Equal(t, LabelDisease, boxes[0].Label)
}

func TestAnginaFrequency(t *testing.T) {
	ct, err := AnginaFrequency(loadTable(t, heartCSV))
	require.NoError(t, err)

	assert.Equal(t, []string{"No", "Yes"}, ct.Rows)
	assert.Equal(t, []string{"false", "true"}, ct.Columns)
	assert.Equal(t, 3, ct.Count("No", "false"))
	assert.Equal(t, 2, ct.Count("No", "true"))
	assert.Equal(t, 1, ct.Count("Yes", "false"))
	assert.Equal(t, 2, ct.Count("Yes", "true"))
}

func TestCharts(t *testing.T) {
	charts, err := Charts(loadTable(t, heartCSV), DefaultAgeBins)
	require.NoError(t, err)
	require.Len(t, charts, 3)

	for _, c := range charts {
		assert.NoError(t, c.Validate(), c.Title)
	}
}

func TestCharts_MissingColumn(t *testing.T) {
	_, err := Charts(loadTable(t, "Age,Disease\n40,True\n"), DefaultAgeBins)
	assert.ErrorIs(t, err, dataset.ErrMissingColumn)
}
