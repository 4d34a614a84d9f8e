package domain_test

import (
	"math"
	"testing"
	"time"

	"fitreport/internal/domain"
)

func almostEqual(a, b, epsilon float64) bool {
	return math.Abs(a-b) < epsilon
}

func TestConvertWeight(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		from, to string
		want     float64
	}{
		{"kg to lb", 100.0, "kg", "lbs", 220.462},
		{"lb to kg", 220.462, "lb", "kg", 100.0},
		{"same unit kg", 80.0, "kg", "kg", 80.0},
		{"same unit lb", 180.0, "lbs", "pounds", 180.0},
		{"unknown units", 50.0, "st", "kg", 50.0},
		{"zero value", 0, "kg", "lbs", 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := domain.ConvertWeight(tc.value, tc.from, tc.to)
			if !almostEqual(got, tc.want, 0.001) {
				t.Errorf("ConvertWeight(%v, %q, %q) = %v; want %v",
					tc.value, tc.from, tc.to, got, tc.want)
			}
		})
	}
}

func TestNormalizeUnit(t *testing.T) {
	tests := map[string]string{
		"lb": domain.UnitLb, " LBS ": domain.UnitLb, "Kilograms": domain.UnitKg,
		"kg": domain.UnitKg, "stone": "", "": "",
	}
	for in, want := range tests {
		if got := domain.NormalizeUnit(in); got != want {
			t.Errorf("NormalizeUnit(%q) = %q; want %q", in, got, want)
		}
	}
}

func TestPoundsRoundTrip(t *testing.T) {
	lbs := domain.ToPounds(80, domain.UnitKg)
	if got := domain.WeightInPrefUnits(lbs, domain.UnitKg); !almostEqual(got, 80, 1e-9) {
		t.Errorf("round trip gave %v", got)
	}
}

func TestNormalizeDayKey(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"2024-01-03", "2024-01-03"},
		{"1/3/2024", "2024-01-03"},
		{"12/31/2023", "2023-12-31"},
		{"1704240000000", "2024-01-03"},
		{"2024-01-03T10:00:00Z", "2024-01-03"},
		{" 2024-01-03 ", "2024-01-03"},
	}
	for _, tc := range tests {
		t.Run(tc.key, func(t *testing.T) {
			got, err := domain.NormalizeDayKey(tc.key, time.UTC)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("got %s, want %s", got, tc.want)
			}
		})
	}

	if _, err := domain.NormalizeDayKey("last tuesday", time.UTC); err == nil {
		t.Error("expected an error for an unrecognised key")
	}
}

func TestNormalizeDayKey_EpochUsesLocation(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("no tzdata: %v", err)
	}
	// 2024-01-03T02:00:00Z is still Jan 2 in New York.
	got, err := domain.NormalizeDayKey("1704247200000", ny)
	if err != nil {
		t.Fatal(err)
	}
	if got != "2024-01-02" {
		t.Errorf("got %s, want 2024-01-02", got)
	}
}

func TestParseWeight(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
		ok   bool
	}{
		{"180", 180, true},
		{" 171.26 ", 171.26, true},
		{"", 0, false},
		{"heavy", 0, false},
		{"0", 0, false},
		{"-4", 0, false},
		{"NaN", 0, false},
		{"Inf", 0, false},
	}
	for _, tc := range tests {
		got, ok := domain.ParseWeight(tc.raw)
		if ok != tc.ok || got != tc.want {
			t.Errorf("ParseWeight(%q) = %v, %v; want %v, %v", tc.raw, got, ok, tc.want, tc.ok)
		}
	}
}

func TestFormatWeight(t *testing.T) {
	if got := domain.FormatWeight(171.5); got != "171.5" {
		t.Errorf("got %q", got)
	}
}

func TestParseWeekday(t *testing.T) {
	tests := map[string]time.Weekday{
		"monday": time.Monday, "Sun": time.Sunday, " SATURDAY ": time.Saturday, "wed": time.Wednesday,
	}
	for in, want := range tests {
		got, err := domain.ParseWeekday(in)
		if err != nil || got != want {
			t.Errorf("ParseWeekday(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := domain.ParseWeekday("someday"); err == nil {
		t.Error("expected error")
	}
}

func TestProfileIsGaining(t *testing.T) {
	if !(&domain.Profile{Mode: domain.ModeBulk}).IsGaining() {
		t.Error("bulk should be gaining")
	}
	if (&domain.Profile{Mode: domain.ModeCut}).IsGaining() {
		t.Error("cut should not be gaining")
	}
}
