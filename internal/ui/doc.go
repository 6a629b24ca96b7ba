// Package ui provides styled terminal output for the vitals CLI commands
// that do not run the full-screen dashboard.
//
// # Components
//
//	Spinner       - Animated indicator with a label that can change while it spins
//	PhaseDisplay  - One line per step of a headless command (connect, collect, export)
//	Tables        - Range and doctor tables built on Bubbles table
//	Header        - "vitals vX" banner with label/value details
//
// # Color Scheme
//
// The palette is electric synthwave in hex: neon green for success, hot
// red-pink for errors, amber for warnings and cyan for information. Use
// DisableColors() for --no-color.
package ui
