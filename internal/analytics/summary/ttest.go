package summary

import (
	"fmt"
	"math"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/soltixdb/eda/internal/utils"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// TestResult is the outcome of a two-sided one-sample t-test.
type TestResult struct {
	Statistic        float64 `json:"statistic"`
	PValue           float64 `json:"p_value"`
	DegreesOfFreedom float64 `json:"degrees_of_freedom"`
}

// testResultJSON is the wire form of TestResult. JSON has no infinities, so
// an infinite statistic travels as the string "+Inf" or "-Inf".
type testResultJSON struct {
	Statistic        interface{} `json:"statistic"`
	PValue           float64     `json:"p_value"`
	DegreesOfFreedom float64     `json:"degrees_of_freedom"`
}

// MarshalJSON implements json.Marshaler
func (r TestResult) MarshalJSON() ([]byte, error) {
	var statistic interface{} = r.Statistic
	if math.IsInf(r.Statistic, 0) {
		statistic = strconv.FormatFloat(r.Statistic, 'g', -1, 64)
	}
	return json.Marshal(testResultJSON{
		Statistic:        statistic,
		PValue:           r.PValue,
		DegreesOfFreedom: r.DegreesOfFreedom,
	})
}

// UnmarshalJSON implements json.Unmarshaler
func (r *TestResult) UnmarshalJSON(data []byte) error {
	var raw testResultJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch v := raw.Statistic.(type) {
	case nil:
		r.Statistic = 0
	case float64:
		r.Statistic = v
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid t statistic %q: %w", v, err)
		}
		r.Statistic = f
	default:
		return fmt.Errorf("invalid t statistic %v", v)
	}
	r.PValue = raw.PValue
	r.DegreesOfFreedom = raw.DegreesOfFreedom
	return nil
}

// OneSampleTTest compares the sample mean against hypothesizedMean.
// The statistic uses the sample standard deviation (n-1 denominator) and the
// p-value is two-sided under Student's t with n-1 degrees of freedom.
func OneSampleTTest(sample Sample, hypothesizedMean float64) (TestResult, error) {
	if err := validate("ttest", sample); err != nil {
		return TestResult{}, err
	}
	if !utils.IsFinite(hypothesizedMean) {
		return TestResult{}, InvalidInputf("ttest", "hypothesized mean %v is not finite", hypothesizedMean)
	}
	n := len(sample)
	if n < 2 {
		return TestResult{}, InvalidInputf("ttest", "need at least 2 values, got %d", n)
	}

	df := float64(n - 1)

	// A constant sample has no spread. Its mean can differ from the common
	// value by rounding, so the comparison uses the value itself.
	if isConstant(sample) {
		return noSpread(sample[0], hypothesizedMean, df), nil
	}

	mean, variance := stat.MeanVariance(sample, nil)
	stdErr := math.Sqrt(variance / float64(n))
	if stdErr == 0 {
		return noSpread(mean, hypothesizedMean, df), nil
	}

	t := (mean - hypothesizedMean) / stdErr
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	p := 2 * dist.CDF(-math.Abs(t))

	return TestResult{
		Statistic:        t,
		PValue:           math.Min(1, math.Max(0, p)),
		DegreesOfFreedom: df,
	}, nil
}

func isConstant(sample Sample) bool {
	for _, v := range sample[1:] {
		if v != sample[0] {
			return false
		}
	}
	return true
}

// noSpread is the limit of the t-test as the spread goes to zero
func noSpread(value, hypothesizedMean, df float64) TestResult {
	switch {
	case value == hypothesizedMean:
		return TestResult{Statistic: 0, PValue: 1, DegreesOfFreedom: df}
	case value > hypothesizedMean:
		return TestResult{Statistic: math.Inf(1), PValue: 0, DegreesOfFreedom: df}
	default:
		return TestResult{Statistic: math.Inf(-1), PValue: 0, DegreesOfFreedom: df}
	}
}
