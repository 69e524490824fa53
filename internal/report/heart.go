package report

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/soltixdb/eda/internal/analytics/chart"
	"github.com/soltixdb/eda/internal/dataset"
	"github.com/soltixdb/eda/internal/heart"
)

// HeartReport is the analysis of one heart-disease dataset
type HeartReport struct {
	ID          string            `json:"id"`
	GeneratedAt time.Time         `json:"generated_at"`
	Rows        int               `json:"rows"`
	Comparison  heart.Comparison  `json:"comparison"`
	Cholesterol []heart.GroupMean `json:"cholesterol"`
	Figures     []chart.Chart     `json:"charts"`
}

// Heart runs the heart-disease analyses on t
func Heart(t *dataset.Table, ageBins int) (*HeartReport, error) {
	if ageBins <= 0 {
		ageBins = heart.DefaultAgeBins
	}

	comparison, err := heart.WhoSuffersMore(t)
	if err != nil {
		return nil, err
	}
	cholesterol, err := heart.AverageCholesterol(t)
	if err != nil {
		return nil, err
	}
	figures, err := heart.Charts(t, ageBins)
	if err != nil {
		return nil, err
	}

	r := &HeartReport{
		ID:          uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Rows:        t.Len(),
		Comparison:  comparison,
		Cholesterol: cholesterol,
		Figures:     figures,
	}
	for i := range r.Figures {
		r.Figures[i].ID = fmt.Sprintf("%s-%s", r.ID, r.Figures[i].Kind)
	}
	return r, nil
}

// LoadHeart reads the dataset at path and runs Heart on it
func LoadHeart(path string, ageBins int) (*HeartReport, error) {
	t, err := dataset.LoadTable(path)
	if err != nil {
		return nil, err
	}
	return Heart(t, ageBins)
}

// ReportID implements Report
func (r *HeartReport) ReportID() string { return r.ID }

// Kind implements Report
func (r *HeartReport) Kind() string { return KindHeart }

// Charts returns the age histogram, heart rate box plot and angina cross tab
func (r *HeartReport) Charts() []chart.Chart {
	return r.Figures
}

// WriteText prints the comparison sentence followed by the cholesterol table
func (r *HeartReport) WriteText(w io.Writer) error {
	p := &printer{w: w}

	p.println(r.Comparison.Sentence())
	p.println("\nAverage Serum Cholesterol Levels by Sex and Disease:")
	if p.err != nil {
		return p.err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	p.w = tw
	p.printf("\t%s\t%s\t%s\t\n", heart.ColumnSex, heart.ColumnDisease, heart.ColumnCholesterol)
	for i, g := range r.Cholesterol {
		p.printf("%d\t%s\t%s\t%s\t\n", i, g.Sex, strconv.FormatBool(g.Disease), strconv.FormatFloat(g.Mean, 'f', 6, 64))
	}
	if p.err != nil {
		return p.err
	}
	return tw.Flush()
}
