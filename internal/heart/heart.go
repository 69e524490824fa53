// Package heart analyses the heart-disease dataset: which sex is affected
// more often, cholesterol by group, and the chart data for ages, maximum
// heart rate and exercise induced angina.
package heart

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/soltixdb/eda/internal/analytics/chart"
	"github.com/soltixdb/eda/internal/analytics/summary"
	"github.com/soltixdb/eda/internal/dataset"
)

// Dataset column names
const (
	ColumnAge          = "Age"
	ColumnSex          = "Sex"
	ColumnDisease      = "Disease"
	ColumnCholesterol  = "Serum cholesterol in mg/dl"
	ColumnMaxHeartRate = "Maximum heart rate achieved"
	ColumnAngina       = "Exercise induced angina"
)

const (
	SexMale   = "male"
	SexFemale = "female"

	GroupMen   = "men"
	GroupWomen = "women"

	LabelNoDisease = "No Disease"
	LabelDisease   = "Disease"

	DefaultAgeBins = 10
)

// Comparison says which sex has more patients with the disease and by how
// much, relative to the higher count.
type Comparison struct {
	Group             string  `json:"group"`
	MenWithDisease    int     `json:"men_with_disease"`
	WomenWithDisease  int     `json:"women_with_disease"`
	PercentDifference float64 `json:"percent_difference"`
}

// Sentence renders the comparison the way the report prints it
func (c Comparison) Sentence() string {
	group := c.Group
	if group != "" {
		group = strings.ToUpper(group[:1]) + group[1:]
	}
	return fmt.Sprintf("%s suffer more from heart disease by %.2f%%.", group, c.PercentDifference)
}

// WhoSuffersMore counts diseased men and women. Men win only on a strictly
// greater count; a tie reports women with a 0% difference.
func WhoSuffersMore(t *dataset.Table) (Comparison, error) {
	if err := t.HasColumns(ColumnSex, ColumnDisease); err != nil {
		return Comparison{}, err
	}
	disease, err := t.Bools(ColumnDisease)
	if err != nil {
		return Comparison{}, err
	}
	sex, err := t.Strings(ColumnSex)
	if err != nil {
		return Comparison{}, err
	}

	var men, women int
	for i, d := range disease {
		if !d {
			continue
		}
		switch sex[i] {
		case SexMale:
			men++
		case SexFemale:
			women++
		}
	}

	higher, lower := men, women
	if women > men {
		higher, lower = women, men
	}
	if higher == 0 {
		return Comparison{}, summary.InvalidInputf("who_suffers_more", "no diseased men or women in dataset")
	}

	group := GroupWomen
	if men > women {
		group = GroupMen
	}

	return Comparison{
		Group:             group,
		MenWithDisease:    men,
		WomenWithDisease:  women,
		PercentDifference: float64(higher-lower) / float64(higher) * 100,
	}, nil
}

// GroupMean is the mean serum cholesterol of one (sex, disease) group
type GroupMean struct {
	Sex     string  `json:"sex"`
	Disease bool    `json:"disease"`
	Count   int     `json:"count"`
	Mean    float64 `json:"mean"`
}

// AverageCholesterol groups rows by sex and disease and averages the serum
// cholesterol. Groups are ordered by sex, then disease (false first).
func AverageCholesterol(t *dataset.Table) ([]GroupMean, error) {
	if err := t.HasColumns(ColumnSex, ColumnDisease, ColumnCholesterol); err != nil {
		return nil, err
	}
	sex, err := t.Strings(ColumnSex)
	if err != nil {
		return nil, err
	}
	disease, err := t.Bools(ColumnDisease)
	if err != nil {
		return nil, err
	}
	chol, err := t.Floats(ColumnCholesterol)
	if err != nil {
		return nil, err
	}

	type key struct {
		sex     string
		disease bool
	}
	values := make(map[key]summary.Sample)
	for i := range sex {
		k := key{sex: sex[i], disease: disease[i]}
		values[k] = append(values[k], chol[i])
	}

	out := make([]GroupMean, 0, len(values))
	for k, v := range values {
		s, err := summary.Summarize(v)
		if err != nil {
			return nil, fmt.Errorf("cholesterol for %s/%t: %w", k.sex, k.disease, err)
		}
		out = append(out, GroupMean{Sex: k.sex, Disease: k.disease, Count: s.Count, Mean: s.Mean})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Sex != out[j].Sex {
			return out[i].Sex < out[j].Sex
		}
		return !out[i].Disease && out[j].Disease
	})
	return out, nil
}

// AgeHistogram bins the ages of patients with the disease
func AgeHistogram(t *dataset.Table, bins int) (*chart.Histogram, error) {
	if err := t.HasColumns(ColumnAge, ColumnDisease); err != nil {
		return nil, err
	}
	ages, err := t.Floats(ColumnAge)
	if err != nil {
		return nil, err
	}
	disease, err := t.Bools(ColumnDisease)
	if err != nil {
		return nil, err
	}

	var withDisease summary.Sample
	for i, d := range disease {
		if d {
			withDisease = append(withDisease, ages[i])
		}
	}
	return chart.NewHistogram(withDisease, bins)
}

// MaxHeartRateBoxPlot returns box statistics of the maximum heart rate for
// patients without and with the disease, in that order. An empty group is
// left out.
func MaxHeartRateBoxPlot(t *dataset.Table) ([]chart.BoxPlot, error) {
	if err := t.HasColumns(ColumnMaxHeartRate, ColumnDisease); err != nil {
		return nil, err
	}
	rates, err := t.Floats(ColumnMaxHeartRate)
	if err != nil {
		return nil, err
	}
	disease, err := t.Bools(ColumnDisease)
	if err != nil {
		return nil, err
	}

	var healthy, sick summary.Sample
	for i, d := range disease {
		if d {
			sick = append(sick, rates[i])
		} else {
			healthy = append(healthy, rates[i])
		}
	}

	boxes := make([]chart.BoxPlot, 0, 2)
	for _, g := range []struct {
		label  string
		sample summary.Sample
	}{{LabelNoDisease, healthy}, {LabelDisease, sick}} {
		if len(g.sample) == 0 {
			continue
		}
		box, err := chart.NewBoxPlot(g.label, g.sample)
		if err != nil {
			return nil, err
		}
		boxes = append(boxes, box)
	}
	if len(boxes) == 0 {
		return nil, summary.InvalidInputf("boxplot", "dataset has no rows")
	}
	return boxes, nil
}

// AnginaFrequency counts patients per exercise induced angina value and
// disease presence. Disease columns are labelled "false" and "true".
func AnginaFrequency(t *dataset.Table) (*chart.CrossTab, error) {
	if err := t.HasColumns(ColumnAngina, ColumnDisease); err != nil {
		return nil, err
	}
	angina, err := t.Strings(ColumnAngina)
	if err != nil {
		return nil, err
	}
	disease, err := t.Bools(ColumnDisease)
	if err != nil {
		return nil, err
	}

	labels := make([]string, len(disease))
	for i, d := range disease {
		labels[i] = strconv.FormatBool(d)
	}
	return chart.NewCrossTab(ColumnAngina, ColumnDisease, angina, labels)
}

// Charts builds the three figures of the heart report
func Charts(t *dataset.Table, ageBins int) ([]chart.Chart, error) {
	hist, err := AgeHistogram(t, ageBins)
	if err != nil {
		return nil, fmt.Errorf("age histogram: %w", err)
	}
	boxes, err := MaxHeartRateBoxPlot(t)
	if err != nil {
		return nil, fmt.Errorf("heart rate box plot: %w", err)
	}
	freq, err := AnginaFrequency(t)
	if err != nil {
		return nil, fmt.Errorf("angina frequency: %w", err)
	}

	return []chart.Chart{
		{
			Kind:      chart.KindHistogram,
			Title:     "Age Distribution of Patients with Heart Disease",
			XLabel:    "Age",
			YLabel:    "Frequency",
			Histogram: hist,
		},
		{
			Kind:     chart.KindBoxPlot,
			Title:    "Maximum Heart Rate Achieved by Disease Presence",
			XLabel:   "Disease Presence",
			YLabel:   "Maximum Heart Rate Achieved (bpm)",
			BoxPlots: boxes,
		},
		{
			Kind:     chart.KindCrossTab,
			Title:    "Frequency of Exercise Induced angina",
			XLabel:   "Exercise induced angina",
			YLabel:   "Frequency",
			CrossTab: freq,
		},
	}, nil
}
