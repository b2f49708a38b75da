package filter

import (
	"math"
	"testing"
)

func TestNewMedianRejectsEvenWindow(t *testing.T) {
	if _, err := NewMedian(4); err == nil {
		t.Fatalf("even window should be rejected")
	}
	if _, err := NewMedian(0); err == nil {
		t.Fatalf("zero window should be rejected")
	}
}

func TestMedianSuppressesSpike(t *testing.T) {
	m, err := NewMedian(3)
	if err != nil {
		t.Fatalf("NewMedian: %v", err)
	}

	inputs := []float64{1, 1, 100, 1, 1}
	for _, v := range inputs {
		got := m.Filter([]float64{v})
		if math.Abs(got[0]-1) > 1e-12 {
			t.Fatalf("spike should be suppressed: input=%f got=%f", v, got[0])
		}
	}
}

func TestMedianPadsWithOldestValue(t *testing.T) {
	m, err := NewMedian(5)
	if err != nil {
		t.Fatalf("NewMedian: %v", err)
	}

	// 履歴が1件しか無くても最古値で窓を埋めるので、そのまま返る
	got := m.Filter([]float64{3, -2, 7})
	want := []float64{3, -2, 7}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Fatalf("channel %d: got=%f want=%f", i, got[i], want[i])
		}
	}
}

func TestMedianFiltersChannelsIndependently(t *testing.T) {
	m, err := NewMedian(3)
	if err != nil {
		t.Fatalf("NewMedian: %v", err)
	}

	m.Filter([]float64{1, 10})
	m.Filter([]float64{2, 20})
	got := m.Filter([]float64{3, 30})

	if math.Abs(got[0]-2) > 1e-12 || math.Abs(got[1]-20) > 1e-12 {
		t.Fatalf("per-channel medians wrong: got=%v", got)
	}
}

func TestMedianResetsOnChannelChange(t *testing.T) {
	m, err := NewMedian(3)
	if err != nil {
		t.Fatalf("NewMedian: %v", err)
	}

	m.Filter([]float64{100, 100, 100})
	got := m.Filter([]float64{5, 6})
	if math.Abs(got[0]-5) > 1e-12 || math.Abs(got[1]-6) > 1e-12 {
		t.Fatalf("channel change should reset history: got=%v", got)
	}
}

func TestSetWindowResetsHistory(t *testing.T) {
	m, err := NewMedian(3)
	if err != nil {
		t.Fatalf("NewMedian: %v", err)
	}

	m.Filter([]float64{100})
	if err := m.SetWindow(5); err != nil {
		t.Fatalf("SetWindow: %v", err)
	}
	got := m.Filter([]float64{1})
	if math.Abs(got[0]-1) > 1e-12 {
		t.Fatalf("history should be dropped after SetWindow: got=%f", got[0])
	}

	if err := m.SetWindow(2); err == nil {
		t.Fatalf("even window should be rejected")
	}
}
