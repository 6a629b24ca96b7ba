package vitals

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// BoundKind selects one side of a Bound.
type BoundKind string

const (
	BoundMin BoundKind = "min"
	BoundMax BoundKind = "max"
)

// ParseBoundKind returns the bound kind with the given name.
func ParseBoundKind(s string) (BoundKind, bool) {
	switch BoundKind(s) {
	case BoundMin, BoundMax:
		return BoundKind(s), true
	}
	return "", false
}

// Bound is an inclusive healthy range. Either side may be NaN when the
// user typed something that is not a number.
type Bound struct {
	Min float64
	Max float64
}

// Get returns the requested side of the bound.
func (b Bound) Get(kind BoundKind) float64 {
	if kind == BoundMax {
		return b.Max
	}
	return b.Min
}

// With returns a copy of b with one side replaced.
func (b Bound) With(kind BoundKind, v float64) Bound {
	if kind == BoundMax {
		b.Max = v
	} else {
		b.Min = v
	}
	return b
}

type boundJSON struct {
	Min *float64 `json:"min"`
	Max *float64 `json:"max"`
}

// MarshalJSON encodes non-finite sides as null, since JSON has no NaN.
func (b Bound) MarshalJSON() ([]byte, error) {
	return json.Marshal(boundJSON{Min: finiteOrNil(b.Min), Max: finiteOrNil(b.Max)})
}

// UnmarshalJSON decodes null or missing sides as NaN.
func (b *Bound) UnmarshalJSON(data []byte) error {
	var raw boundJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	b.Min = math.NaN()
	b.Max = math.NaN()
	if raw.Min != nil {
		b.Min = *raw.Min
	}
	if raw.Max != nil {
		b.Max = *raw.Max
	}
	return nil
}

func finiteOrNil(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// RangeConfig maps every metric to its healthy bound.
type RangeConfig map[Metric]Bound

// DefaultRanges returns the built-in healthy ranges.
func DefaultRanges() RangeConfig {
	return RangeConfig{
		MetricBPM:         {Min: 60, Max: 100},
		MetricO2InBlood:   {Min: 95, Max: 100},
		MetricSistolica:   {Min: 90, Max: 120},
		MetricDiastolica:  {Min: 60, Max: 80},
		MetricTemperature: {Min: 36, Max: 37.5},
	}
}

// Clone returns an independent copy of the config.
func (c RangeConfig) Clone() RangeConfig {
	out := make(RangeConfig, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// With returns a new config where only the given side of one metric changed.
func (c RangeConfig) With(m Metric, kind BoundKind, v float64) RangeConfig {
	out := c.Clone()
	out[m] = out[m].With(kind, v)
	return out
}

// Complete reports whether every metric has a bound.
func (c RangeConfig) Complete() bool {
	for _, m := range Metrics {
		if _, ok := c[m]; !ok {
			return false
		}
	}
	return true
}

// ParseRanges decodes a serialized config. Configs missing any metric are
// rejected so callers never end up with a partial set.
func ParseRanges(data []byte) (RangeConfig, error) {
	var cfg RangeConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("decode ranges: %w", err)
	}
	if !cfg.Complete() {
		var missing []string
		for _, m := range Metrics {
			if _, ok := cfg[m]; !ok {
				missing = append(missing, string(m))
			}
		}
		return nil, fmt.Errorf("ranges missing %s", strings.Join(missing, ", "))
	}
	for k := range cfg {
		if _, ok := ParseMetric(string(k)); !ok {
			delete(cfg, k)
		}
	}
	return cfg, nil
}

// ParseNumber converts user input to a bound value. Blank input is zero and
// anything that does not parse is NaN.
func ParseNumber(input string) float64 {
	s := strings.TrimSpace(input)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// FormatNumber renders a value in its shortest form.
func FormatNumber(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
