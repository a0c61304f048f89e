package traffic

import "math"

const (
	DefaultRadius  = 12.0
	FilteredRadius = 18.0

	// UndefinedRatioBucket is used when a station has no traffic and the
	// departure ratio would be 0/0.
	UndefinedRatioBucket = 0.5
)

// FlowBuckets are the quantized departure-ratio levels, low to high.
var FlowBuckets = [...]float64{0, 0.5, 1}

// RadiusScale maps total traffic to a circle radius so that circle area is
// proportional to traffic. Inputs are clamped to [0, DomainMax].
type RadiusScale struct {
	DomainMax float64
	RangeMax  float64
}

// NewRadiusScale uses the larger range when a time filter is active so
// markers stay readable on the smaller subset.
func NewRadiusScale(traffic []StationTraffic, f TimeFilter) RadiusScale {
	r := DefaultRadius
	if f.Active() {
		r = FilteredRadius
	}
	return RadiusScale{
		DomainMax: float64(MaxTotal(traffic)),
		RangeMax:  r,
	}
}

func (s RadiusScale) Radius(total int) float64 {
	return s.Scale(float64(total))
}

func (s RadiusScale) Scale(v float64) float64 {
	if s.DomainMax <= 0 || math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v > s.DomainMax {
		v = s.DomainMax
	}
	return s.RangeMax * math.Sqrt(v/s.DomainMax)
}

// FlowBucket quantizes a departure fraction in [0, 1] into one of
// FlowBuckets using equal-width intervals; a value on a threshold goes to
// the upper bucket. NaN yields UndefinedRatioBucket.
func FlowBucket(fraction float64) float64 {
	if math.IsNaN(fraction) {
		return UndefinedRatioBucket
	}
	n := len(FlowBuckets)
	i := 0
	for i < n-1 && fraction >= float64(i+1)/float64(n) {
		i++
	}
	return FlowBuckets[i]
}

// DepartureRatio reports false when the station has no traffic.
func DepartureRatio(st StationTraffic) (float64, bool) {
	if st.Total == 0 {
		return math.NaN(), false
	}
	return float64(st.Departures) / float64(st.Total), true
}

func RatioBucket(st StationTraffic) float64 {
	ratio, ok := DepartureRatio(st)
	if !ok {
		return UndefinedRatioBucket
	}
	return FlowBucket(ratio)
}
