package vitals

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Reading is one snapshot of every vital sign. A nil field means the
// source did not report the value.
type Reading struct {
	BPM         *float64 `json:"bpm"`
	O2InBlood   *float64 `json:"o2InBlood"`
	Presion     Pressure `json:"presion"`
	Temperature *float64 `json:"temperature"`
}

// Pressure holds both blood pressure components.
type Pressure struct {
	Sistolica  *float64 `json:"sistolica"`
	Diastolica *float64 `json:"diastolica"`
}

// Float returns a pointer to v, for building readings by hand.
func Float(v float64) *float64 {
	return &v
}

// Value returns the value of the given metric, or nil if it is missing.
func (r Reading) Value(m Metric) *float64 {
	switch m {
	case MetricBPM:
		return r.BPM
	case MetricO2InBlood:
		return r.O2InBlood
	case MetricSistolica:
		return r.Presion.Sistolica
	case MetricDiastolica:
		return r.Presion.Diastolica
	case MetricTemperature:
		return r.Temperature
	default:
		return nil
	}
}

// wireReading is the raw payload shape. Fields stay raw so each one can be
// validated on its own.
type wireReading struct {
	BPM         json.RawMessage `json:"bpm"`
	O2InBlood   json.RawMessage `json:"o2InBlood"`
	Presion     json.RawMessage `json:"presion"`
	Temperature json.RawMessage `json:"temperature"`
}

type wirePressure struct {
	Sistolica  json.RawMessage `json:"sistolica"`
	Diastolica json.RawMessage `json:"diastolica"`
}

// DecodeReading parses a stream payload into a Reading.
//
// Numeric fields accept a JSON number, a numeric string or null. Missing
// fields decode as nil. Any other shape is rejected so malformed events
// never reach the window.
func DecodeReading(data []byte) (Reading, error) {
	var w wireReading
	if err := json.Unmarshal(data, &w); err != nil {
		return Reading{}, fmt.Errorf("reading payload: %w", err)
	}

	var r Reading
	var err error
	if r.BPM, err = decodeNumber(MetricBPM, w.BPM); err != nil {
		return Reading{}, err
	}
	if r.O2InBlood, err = decodeNumber(MetricO2InBlood, w.O2InBlood); err != nil {
		return Reading{}, err
	}
	if r.Temperature, err = decodeNumber(MetricTemperature, w.Temperature); err != nil {
		return Reading{}, err
	}

	if !isNull(w.Presion) {
		var p wirePressure
		if err := json.Unmarshal(w.Presion, &p); err != nil {
			return Reading{}, fmt.Errorf("presion: expected object: %w", err)
		}
		if r.Presion.Sistolica, err = decodeNumber(MetricSistolica, p.Sistolica); err != nil {
			return Reading{}, err
		}
		if r.Presion.Diastolica, err = decodeNumber(MetricDiastolica, p.Diastolica); err != nil {
			return Reading{}, err
		}
	}

	return r, nil
}

// decodeNumber converts one raw field into an optional float.
func decodeNumber(m Metric, raw json.RawMessage) (*float64, error) {
	if isNull(raw) {
		return nil, nil
	}

	var n json.Number
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("%s: %w", m, err)
	}

	switch t := v.(type) {
	case json.Number:
		n = t
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return nil, nil
		}
		n = json.Number(s)
	default:
		return nil, fmt.Errorf("%s: expected number, got %s", m, string(raw))
	}

	f, err := strconv.ParseFloat(n.String(), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("%s: %q is not a number", m, n.String())
	}
	return &f, nil
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
