package monitor

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Braille character rendering for high-resolution terminal graphs.
//
// Braille patterns use a 2x4 dot matrix per character:
//
//	  Col 0  Col 1
//	Row 0:   ⠁      ⠈     (dots 1, 4)
//	Row 1:   ⠂      ⠐     (dots 2, 5)
//	Row 2:   ⠄      ⠠     (dots 3, 6)
//	Row 3:   ⡀      ⢀     (dots 7, 8)
//
// Unicode braille starts at U+2800 (empty) and uses bit patterns:
// bit 0 = dot 1, bit 1 = dot 2, bit 2 = dot 3, bit 3 = dot 4,
// bit 4 = dot 5, bit 5 = dot 6, bit 6 = dot 7, bit 7 = dot 8

const brailleBase = '\u2800'

// sparklineBlocks are block characters for 8-level vertical resolution (lowest to highest).
var sparklineBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// ColorFunc picks the color for a plotted value.
type ColorFunc func(v float64) lipgloss.Color

// findMinMax returns the minimum and maximum values in a slice.
// Vital signs move within narrow bands, so the scale always follows the data.
func findMinMax(data []float64) (minVal, maxVal float64) {
	if len(data) == 0 {
		return 0, 1
	}

	minVal, maxVal = data[0], data[0]
	for _, v := range data {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	return minVal, maxVal
}

// normalizeValue converts a value to 0-1 range given min/max bounds.
func normalizeValue(val, minVal, maxVal float64) float64 {
	if maxVal > minVal {
		return (val - minVal) / (maxVal - minVal)
	}
	return 0.5
}

// clampInt clamps an integer to a range [0, maxVal].
func clampInt(val, maxVal int) int {
	if val < 0 {
		return 0
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

// brailleDots maps row/column to the bit offset for braille pattern
// [row][col] where row is 0-3 (top to bottom) and col is 0-1 (left to right)
var brailleDots = [4][2]uint8{
	{0, 3}, // Row 0: dots 1 and 4
	{1, 4}, // Row 1: dots 2 and 5
	{2, 5}, // Row 2: dots 3 and 6
	{6, 7}, // Row 3: dots 7 and 8
}

// RenderBrailleSparkline renders a sparkline graph using braille characters.
// Each character represents 2 horizontal data points with 4 vertical levels.
//
// Parameters:
//   - data: values to plot, scaled to their own min/max
//   - width: number of braille characters (each represents 2 data points)
//   - height: number of rows (each row represents 4 vertical levels)
//   - colorFor: picks each column's color from the latest value plotted in it;
//     nil draws everything in ColorGraph
func RenderBrailleSparkline(data []float64, width, height int, colorFor ColorFunc) string {
	if len(data) == 0 || width <= 0 || height <= 0 {
		return ""
	}

	minVal, maxVal := findMinMax(data)
	totalDots := height * 4
	targetPoints := width * 2

	// Only downsample if we have more data than display width.
	// If we have less data, use it directly (graph fills from right).
	resampled := data
	if len(data) > targetPoints {
		resampled = resampleData(data, targetPoints)
	}

	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = make([]rune, width)
		for j := range grid[i] {
			grid[i][j] = brailleBase
		}
	}

	colValues := make([]float64, width)
	colSet := make([]bool, width)

	// Right-align data when we have less than full width
	horizOffset := targetPoints - len(resampled)
	if horizOffset < 0 {
		horizOffset = 0
	}

	for i, val := range resampled {
		normalized := normalizeValue(val, minVal, maxVal)
		// Always light at least one dot so flat series stay visible
		dotHeight := clampInt(int(normalized*float64(totalDots-1))+1, totalDots)

		charCol := (i + horizOffset) / 2
		if charCol >= width {
			continue
		}
		colValues[charCol] = val
		colSet[charCol] = true

		subCol := (i + horizOffset) % 2

		// Fill dots from bottom up
		for dot := 0; dot < dotHeight; dot++ {
			row := height - 1 - (dot / 4)
			if row < 0 {
				continue
			}
			subRow := 3 - (dot % 4)
			bitOffset := brailleDots[subRow][subCol]
			grid[row][charCol] |= rune(1 << bitOffset)
		}
	}

	var lines []string
	for _, row := range grid {
		var lineBuilder strings.Builder
		for colIdx, char := range row {
			color := ColorGraph
			if colorFor != nil && colSet[colIdx] {
				color = colorFor(colValues[colIdx])
			}
			style := lipgloss.NewStyle().Foreground(color).Background(ColorSurfaceBg)
			lineBuilder.WriteString(style.Render(string(char)))
		}
		lines = append(lines, lineBuilder.String())
	}

	return strings.Join(lines, "\n")
}

// RenderMiniSparkline renders a single-row sparkline using block characters.
// This is more compact than braille and good for narrow cards.
func RenderMiniSparkline(data []float64, width int) string {
	if len(data) == 0 || width <= 0 {
		return ""
	}

	minVal, maxVal := findMinMax(data)
	resampled := data
	if len(data) > width {
		resampled = resampleData(data, width)
	}

	var result strings.Builder
	for _, val := range resampled {
		normalized := normalizeValue(val, minVal, maxVal)
		idx := clampInt(int(normalized*float64(len(sparklineBlocks)-1)), len(sparklineBlocks)-1)
		result.WriteRune(sparklineBlocks[idx])
	}

	return result.String()
}

// RenderColoredMiniSparkline renders a mini sparkline colored by its most
// recent value.
func RenderColoredMiniSparkline(data []float64, width int, colorFor ColorFunc) string {
	sparkline := RenderMiniSparkline(data, width)
	if len(data) == 0 || colorFor == nil {
		return sparkline
	}
	color := colorFor(data[len(data)-1])
	return lipgloss.NewStyle().Foreground(color).Render(sparkline)
}

// resampleData resamples data to the target size.
// When downsampling (compressing), uses max-based sampling to preserve peaks/spikes.
// When upsampling (expanding), uses linear interpolation.
func resampleData(data []float64, targetSize int) []float64 {
	if len(data) == 0 || targetSize <= 0 {
		return nil
	}

	if len(data) == targetSize {
		return data
	}

	result := make([]float64, targetSize)

	if len(data) == 1 {
		for i := range result {
			result[i] = data[0]
		}
		return result
	}

	// Downsampling: use max within each bucket to preserve peaks
	if len(data) > targetSize {
		bucketSize := float64(len(data)) / float64(targetSize)
		for i := 0; i < targetSize; i++ {
			start := int(float64(i) * bucketSize)
			end := int(float64(i+1) * bucketSize)
			if end > len(data) {
				end = len(data)
			}
			if start >= end {
				start = end - 1
			}
			if start < 0 {
				start = 0
			}

			maxVal := data[start]
			for j := start + 1; j < end; j++ {
				if data[j] > maxVal {
					maxVal = data[j]
				}
			}
			result[i] = maxVal
		}
		return result
	}

	// Upsampling: linear interpolation
	scale := float64(len(data)-1) / float64(targetSize-1)
	for i := 0; i < targetSize; i++ {
		pos := float64(i) * scale
		idx := int(pos)
		frac := pos - float64(idx)

		if idx >= len(data)-1 {
			result[i] = data[len(data)-1]
		} else {
			result[i] = data[idx]*(1-frac) + data[idx+1]*frac
		}
	}

	return result
}
