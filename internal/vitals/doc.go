// Package vitals holds the domain model of the vital-signs monitor.
//
// A Reading is one snapshot of every vital sign received from the stream.
// The Window keeps the last N readings as timestamped Samples for charting
// and export. RangeConfig carries the healthy [min, max] bound of each
// metric, and the threshold helpers decide which readings are out of range.
//
// # Metrics and Groups
//
// Five metrics are tracked:
//
//	bpm          heart rate
//	o2InBlood    blood oxygen saturation
//	sistolica    systolic blood pressure
//	diastolica   diastolic blood pressure
//	temperature  body temperature
//
// The dashboard renders them as four display groups. The presion group
// bundles both pressure metrics:
//
//	ritmoCardiaco -> bpm
//	oxigeno       -> o2InBlood
//	presion       -> sistolica, diastolica
//	temperatura   -> temperature
//
// # Missing Values
//
// Every numeric field of a Reading is optional. A nil value means "not yet
// reported" and is never treated as out of range.
package vitals
