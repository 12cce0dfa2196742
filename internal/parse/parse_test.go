package parse

import (
	"testing"

	"github.com/plugcheck/plugcheck/schema"
	"github.com/stretchr/testify/assert"
)

func TestParseTestStats(t *testing.T) {
	tests := []struct {
		name string
		text string
		want schema.TestStats
	}{
		{
			name: "mocha all passing",
			text: "  12 passing (340ms)\n",
			want: schema.TestStats{Passed: 12, Failed: 0, Total: 12},
		},
		{
			name: "mocha with failures",
			text: "  10 passing (1s)\n  2 failing\n",
			want: schema.TestStats{Passed: 10, Failed: 2, Total: 12},
		},
		{
			name: "jest summary",
			text: "Tests:       2 failed, 18 passed, 20 total\nSnapshots:   0 total\n",
			want: schema.TestStats{Passed: 18, Failed: 2, Total: 20},
		},
		{
			name: "jest all passing",
			text: "Tests:       20 passed, 20 total\n",
			want: schema.TestStats{Passed: 20, Failed: 0, Total: 20},
		},
		{
			name: "no recognizable pattern",
			text: "done in 0.8s",
			want: schema.TestStats{},
		},
		{
			name: "empty input",
			text: "",
			want: schema.TestStats{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseTestStats(tt.text))
		})
	}
}

func TestParseCoveragePercentage(t *testing.T) {
	tests := []struct {
		name string
		text string
		want *float64
	}{
		{
			name: "istanbul table",
			text: "----------|---------|\nAll files |   85.71 |   72.72 |\n",
			want: ptr(85.71),
		},
		{
			name: "text summary",
			text: "Statements: 96% (24/25)\nLines: 95% (19/20)\n",
			want: ptr(95.0),
		},
		{
			name: "garbage",
			text: "nothing useful here",
			want: nil,
		},
		{
			name: "empty",
			text: "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseCoveragePercentage(tt.text)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			assert.NotNil(t, got)
			assert.InDelta(t, *tt.want, *got, 0.001)
		})
	}
}

func TestParseQualityScore(t *testing.T) {
	got := ParseQualityScore("Validation complete.\nQuality score: 87.5%\n")
	assert.NotNil(t, got)
	assert.InDelta(t, 87.5, *got, 0.001)

	assert.Nil(t, ParseQualityScore("score unknown"))
	assert.Nil(t, ParseQualityScore(""))
}

func TestParsersAreIdempotent(t *testing.T) {
	text := "  3 passing\n  1 failing\nAll files | 77.7 |\nQuality score: 50%\n"
	assert.Equal(t, ParseTestStats(text), ParseTestStats(text))
	assert.Equal(t, *ParseCoveragePercentage(text), *ParseCoveragePercentage(text))
	assert.Equal(t, *ParseQualityScore(text), *ParseQualityScore(text))
}

func ptr(v float64) *float64 {
	return &v
}
