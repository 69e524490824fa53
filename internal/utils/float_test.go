package utils

import (
	"encoding/json"
	"math"
	"testing"
)

func TestToFloat64(t *testing.T) {
	tests := []struct {
		name     string
		input    interface{}
		expected float64
		ok       bool
	}{
		{"float64", float64(3.14), 3.14, true},
		{"float32", float32(2.5), 2.5, true},
		{"int", int(42), 42, true},
		{"int8", int8(8), 8, true},
		{"int64", int64(64), 64, true},
		{"uint16", uint16(16), 16, true},
		{"negative float64", float64(-3.14), -3.14, true},
		{"json number", json.Number("170.5"), 170.5, true},
		{"bad json number", json.Number("abc"), 0, false},
		{"string", "hello", 0, false},
		{"numeric string", "42", 0, false},
		{"bool", true, 0, false},
		{"nil", nil, 0, false},
		{"slice", []int{1, 2, 3}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, ok := ToFloat64(tt.input)
			if ok != tt.ok {
				t.Errorf("ToFloat64(%v) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if result != tt.expected {
				t.Errorf("ToFloat64(%v) = %v, want %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestToFloat64s(t *testing.T) {
	values, bad := ToFloat64s([]interface{}{1, 2.5, int64(3)})
	if bad != -1 {
		t.Fatalf("expected all values numeric, first bad index %d", bad)
	}
	want := []float64{1, 2.5, 3}
	for i := range want {
		if values[i] != want[i] {
			t.Errorf("values[%d] = %v, want %v", i, values[i], want[i])
		}
	}

	values, bad = ToFloat64s([]interface{}{1, "two", 3})
	if bad != 1 {
		t.Errorf("expected first bad index 1, got %d", bad)
	}
	if values != nil {
		t.Errorf("expected nil values on failure, got %v", values)
	}

	values, bad = ToFloat64s(nil)
	if bad != -1 || len(values) != 0 {
		t.Errorf("expected empty result for nil input, got %v (%d)", values, bad)
	}
}

func TestToInt(t *testing.T) {
	tests := []struct {
		name     string
		input    interface{}
		expected int
		ok       bool
	}{
		{"int", 1000, 1000, true},
		{"whole float", 50.0, 50, true},
		{"fractional float", 50.5, 0, false},
		{"infinity", math.Inf(1), 0, false},
		{"string", "50", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, ok := ToInt(tt.input)
			if ok != tt.ok || result != tt.expected {
				t.Errorf("ToInt(%v) = (%d, %v), want (%d, %v)", tt.input, result, ok, tt.expected, tt.ok)
			}
		})
	}
}

func TestIsFinite(t *testing.T) {
	if !IsFinite(1.5) {
		t.Error("1.5 should be finite")
	}
	if IsFinite(math.NaN()) || IsFinite(math.Inf(-1)) {
		t.Error("NaN and -Inf should not be finite")
	}
}
