package core

import (
	"math"
	"testing"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		min      float64
		max      float64
		expected float64
	}{
		{name: "inside", value: 0.5, min: 0, max: 1, expected: 0.5},
		{name: "below", value: -1, min: 0, max: 1, expected: 0},
		{name: "above", value: 2, min: 0, max: 1, expected: 1},
		{name: "swapped", value: 2, min: 1, max: 0, expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Clamp(tt.value, tt.min, tt.max)
			if got != tt.expected {
				t.Fatalf("Clamp() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestClipInPlace(t *testing.T) {
	buf := []float64{-2, -0.5, 0, 0.5, 2}
	ClipInPlace(buf, 1)

	want := []float64{-1, -0.5, 0, 0.5, 1}
	for i := range buf {
		if buf[i] != want[i] {
			t.Fatalf("buf[%d] = %v, want %v", i, buf[i], want[i])
		}
	}
}

func TestDBConversions(t *testing.T) {
	linear := DBToLinear(-6)
	db := LinearToDB(linear)
	if !NearlyEqual(db, -6, 1e-10) {
		t.Fatalf("LinearToDB(DBToLinear(-6)) = %v, want -6", db)
	}
	if !math.IsInf(LinearToDB(0), -1) {
		t.Fatal("expected -Inf for zero")
	}
	if !math.IsNaN(LinearToDB(-1)) {
		t.Fatal("expected NaN for negative amplitude")
	}
}

func TestSmoothingCoeffFloorsAtOneSample(t *testing.T) {
	if got, want := SmoothingCoeff(0, 48000), math.Exp(-1); got != want {
		t.Fatalf("SmoothingCoeff(0) = %v, want %v", got, want)
	}

	got := SmoothingCoeff(10, 48000)
	want := math.Exp(-1 / 480.0)
	if !NearlyEqual(got, want, 1e-12) {
		t.Fatalf("SmoothingCoeff(10ms) = %v, want %v", got, want)
	}
}

func TestValidateRange(t *testing.T) {
	tests := []struct {
		name    string
		v       float64
		wantErr bool
	}{
		{"low edge", 0, false},
		{"high edge", 1, false},
		{"below", -0.01, true},
		{"above", 1.01, true},
		{"nan", math.NaN(), true},
		{"inf", math.Inf(1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRange("mix", tt.v, 0, 1)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRange() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateFeedbackExcludesUnity(t *testing.T) {
	if err := ValidateFeedback("fb", 0.999); err != nil {
		t.Fatalf("ValidateFeedback(0.999) error = %v", err)
	}
	if err := ValidateFeedback("fb", 1); err == nil {
		t.Fatal("ValidateFeedback(1) expected error")
	}
	if err := ValidateFeedback("fb", -0.1); err == nil {
		t.Fatal("ValidateFeedback(-0.1) expected error")
	}
}

func TestValidateSampleRate(t *testing.T) {
	for _, sr := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		if err := ValidateSampleRate(sr); err == nil {
			t.Errorf("ValidateSampleRate(%v) expected error", sr)
		}
	}
	if err := ValidateSampleRate(44100); err != nil {
		t.Errorf("ValidateSampleRate(44100) error = %v", err)
	}
}
