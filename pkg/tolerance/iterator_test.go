package tolerance

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

var expectedMagnitudes = []float64{
	1.00325, 2.00845, 3.01648, 4.02856,
	5.04641, 6.0724, 7.10981, 8.16315,
	9.2386, 10.3446, 11.4928, 12.6989,
	13.9843, 15.3781, 16.9195, 18.6617,
	20.6764, 23.0605, 25.9441, 29.5025,
	33.9709, 39.6651, 47.0085, 56.568,
	69.1026, 85.6267,
}

func approx(a, b float64) bool {
	return math.Abs(a-b) <= 1e-4*math.Max(1, math.Abs(b))
}

func TestExponential(t *testing.T) {
	for i, want := range expectedMagnitudes {
		step := float64(i + 1)
		if got := Exponential(step, 100); !approx(got, want) {
			t.Errorf("Exponential(%v, 100) = %v, want %v", step, got, want)
		}
	}
	if got := Exponential(27, 100); got <= 100 {
		t.Errorf("Exponential(27, 100) = %v, want > 100", got)
	}
}

func TestIteratorSequence(t *testing.T) {
	it := New(100, nil)

	if !it.Next() {
		t.Fatal("first Next() = false")
	}
	if it.Value() != 0 {
		t.Fatalf("first Value() = %v, want 0", it.Value())
	}

	i := 0
	for it.Next() {
		idx := i / 2
		if idx >= len(expectedMagnitudes) {
			t.Fatalf("iterator produced too many values: %v", it.Value())
		}
		want := expectedMagnitudes[idx]
		if i%2 == 0 {
			want = -want
		}
		if got := it.Value(); !approx(got, want) {
			t.Errorf("value %d = %v, want %v", i, got, want)
		}
		i++
	}
	if i != 2*len(expectedMagnitudes) {
		t.Errorf("produced %d offsets, want %d", i, 2*len(expectedMagnitudes))
	}
	if it.CapHit() {
		t.Error("CapHit() = true for a normal tolerance")
	}
}

func TestIteratorZeroTolerance(t *testing.T) {
	it := New(0, nil)
	if !it.Next() || it.Value() != 0 {
		t.Fatal("zero tolerance should still yield the anchor itself")
	}
	if it.Next() {
		t.Errorf("zero tolerance produced offset %v", it.Value())
	}
}

func TestIteratorReset(t *testing.T) {
	it := New(10, nil)
	var first []float64
	for it.Next() {
		first = append(first, it.Value())
	}

	it.Reset()
	if it.Tried() != 0 {
		t.Errorf("Tried() after Reset = %d, want 0", it.Tried())
	}
	var second []float64
	for it.Next() {
		second = append(second, it.Value())
	}

	if len(first) != len(second) {
		t.Fatalf("lengths differ after reset: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("value %d differs after reset: %v vs %v", i, first[i], second[i])
		}
	}
}

func TestIteratorCap(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf)

	flat := func(step, tolerance float64) float64 { return 0.01 }
	it := New(100, flat, WithLogger(logger), WithSpacing(40))

	n := 0
	for it.Next() {
		n++
	}
	if n != MaxValues {
		t.Errorf("produced %d values, want %d", n, MaxValues)
	}
	if !it.CapHit() {
		t.Error("CapHit() = false after exhausting the cap")
	}
	if !strings.Contains(buf.String(), "huge number of placements") {
		t.Errorf("expected cap warning, got log %q", buf.String())
	}
	for _, field := range []string{"tolerance=100", "spacing=40"} {
		if !strings.Contains(buf.String(), field) {
			t.Errorf("cap warning missing %s: %q", field, buf.String())
		}
	}

	it.Reset()
	if it.CapHit() {
		t.Error("Reset should clear CapHit")
	}
}
