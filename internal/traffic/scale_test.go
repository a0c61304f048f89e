package traffic

import (
	"math"
	"testing"
)

func TestFlowBucketQuantization(t *testing.T) {
	cases := map[float64]float64{
		0:    0,
		0.2:  0,
		0.34: 0.5,
		0.5:  0.5,
		0.66: 0.5,
		0.67: 1,
		1:    1,
		-0.5: 0,
		1.5:  1,
	}
	for in, want := range cases {
		if got := FlowBucket(in); got != want {
			t.Fatalf("FlowBucket(%v) = %v want %v", in, got, want)
		}
	}
	if got := FlowBucket(math.NaN()); got != UndefinedRatioBucket {
		t.Fatalf("NaN should map to %v, got %v", UndefinedRatioBucket, got)
	}
}

func TestRatioBucketZeroTraffic(t *testing.T) {
	if _, ok := DepartureRatio(StationTraffic{}); ok {
		t.Fatalf("ratio should be undefined with zero traffic")
	}
	if got := RatioBucket(StationTraffic{}); got != UndefinedRatioBucket {
		t.Fatalf("expected default bucket, got %v", got)
	}
	if got := RatioBucket(StationTraffic{Departures: 3, Total: 3}); got != 1 {
		t.Fatalf("all departures should map to 1, got %v", got)
	}
}

func TestRadiusScaleMonotoneAndClamped(t *testing.T) {
	s := RadiusScale{DomainMax: 100, RangeMax: DefaultRadius}
	if s.Radius(0) != 0 {
		t.Fatalf("radius(0) should be 0")
	}
	prev := 0.0
	for v := 0; v <= 100; v += 5 {
		r := s.Radius(v)
		if r < prev {
			t.Fatalf("radius not monotone at %d: %v < %v", v, r, prev)
		}
		prev = r
	}
	if s.Radius(100) != DefaultRadius {
		t.Fatalf("radius(max) = %v want %v", s.Radius(100), DefaultRadius)
	}
	if s.Radius(250) != s.Radius(100) {
		t.Fatalf("values above domain should clamp")
	}
	if math.Abs(s.Radius(25)-DefaultRadius/2) > 1e-9 {
		t.Fatalf("sqrt shape expected radius(25) = %v, got %v", DefaultRadius/2, s.Radius(25))
	}
}

func TestRadiusScaleEmptyDomain(t *testing.T) {
	s := NewRadiusScale(nil, Unfiltered())
	if s.DomainMax != 0 {
		t.Fatalf("expected zero domain, got %v", s.DomainMax)
	}
	if r := s.Radius(10); r != 0 || math.IsNaN(r) {
		t.Fatalf("expected 0 radius on empty domain, got %v", r)
	}
}

func TestNewRadiusScaleRange(t *testing.T) {
	traffic := []StationTraffic{{Total: 4}, {Total: 9}}
	if s := NewRadiusScale(traffic, Unfiltered()); s.RangeMax != DefaultRadius || s.DomainMax != 9 {
		t.Fatalf("unexpected unfiltered scale %+v", s)
	}
	if s := NewRadiusScale(traffic, At(60)); s.RangeMax != FilteredRadius {
		t.Fatalf("unexpected filtered scale %+v", s)
	}
}
