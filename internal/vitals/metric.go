package vitals

// Metric identifies a single vital sign. The string value is the key used
// in the stream payload, the persisted range config and the CSV header.
type Metric string

const (
	MetricBPM         Metric = "bpm"
	MetricO2InBlood   Metric = "o2InBlood"
	MetricSistolica   Metric = "sistolica"
	MetricDiastolica  Metric = "diastolica"
	MetricTemperature Metric = "temperature"
)

// Metrics lists every metric in display and export order.
var Metrics = []Metric{
	MetricBPM,
	MetricO2InBlood,
	MetricSistolica,
	MetricDiastolica,
	MetricTemperature,
}

// ParseMetric returns the metric with the given key.
func ParseMetric(s string) (Metric, bool) {
	for _, m := range Metrics {
		if string(m) == s {
			return m, true
		}
	}
	return "", false
}

// Label returns the human-readable name of the metric.
func (m Metric) Label() string {
	switch m {
	case MetricBPM:
		return "Ritmo Cardíaco"
	case MetricO2InBlood:
		return "Oxígeno en Sangre"
	case MetricSistolica:
		return "Sistólica"
	case MetricDiastolica:
		return "Diastólica"
	case MetricTemperature:
		return "Temperatura"
	default:
		return string(m)
	}
}

// Unit returns the display unit of the metric.
func (m Metric) Unit() string {
	switch m {
	case MetricBPM:
		return "BPM"
	case MetricO2InBlood:
		return "%"
	case MetricSistolica, MetricDiastolica:
		return "mmHg"
	case MetricTemperature:
		return "C°"
	default:
		return ""
	}
}

// Group identifies a dashboard card. Visibility toggles work per group.
type Group string

const (
	GroupRitmoCardiaco Group = "ritmoCardiaco"
	GroupOxigeno       Group = "oxigeno"
	GroupPresion       Group = "presion"
	GroupTemperatura   Group = "temperatura"
)

// Groups lists every display group in toggle order.
var Groups = []Group{
	GroupRitmoCardiaco,
	GroupOxigeno,
	GroupPresion,
	GroupTemperatura,
}

// ParseGroup returns the group with the given key.
func ParseGroup(s string) (Group, bool) {
	for _, g := range Groups {
		if string(g) == s {
			return g, true
		}
	}
	return "", false
}

// Label returns the card title of the group.
func (g Group) Label() string {
	switch g {
	case GroupRitmoCardiaco:
		return "Ritmo Cardíaco"
	case GroupOxigeno:
		return "Oxígeno en Sangre"
	case GroupPresion:
		return "Presión Arterial"
	case GroupTemperatura:
		return "Temperatura Corporal"
	default:
		return string(g)
	}
}

// Metrics returns the metrics rendered by the group.
func (g Group) Metrics() []Metric {
	switch g {
	case GroupRitmoCardiaco:
		return []Metric{MetricBPM}
	case GroupOxigeno:
		return []Metric{MetricO2InBlood}
	case GroupPresion:
		return []Metric{MetricSistolica, MetricDiastolica}
	case GroupTemperatura:
		return []Metric{MetricTemperature}
	default:
		return nil
	}
}
