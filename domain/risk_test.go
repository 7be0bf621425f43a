package domain

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRiskLabel_FromString(t *testing.T) {
	tests := []struct {
		input    string
		expected RiskLabel
		wantErr  bool
	}{
		{"Low", RiskLabelLow, false},
		{"Medium", RiskLabelMedium, false},
		{"High", RiskLabelHigh, false},
		{"LOW", RiskLabel{}, true},
		{"", RiskLabel{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result, err := RiskLabelFromString(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.expected.Equal(result))
		})
	}
}

func TestRiskLabel_Color(t *testing.T) {
	assert.Equal(t, "green", RiskLabelLow.Color())
	assert.Equal(t, "orange", RiskLabelMedium.Color())
	assert.Equal(t, "red", RiskLabelHigh.Color())
	assert.Equal(t, "", RiskLabel{}.Color())
}

func TestRiskLabel_IsZero(t *testing.T) {
	var zero RiskLabel
	assert.True(t, zero.IsZero())
	assert.False(t, RiskLabelHigh.IsZero())
}

func TestRiskLabel_JSON(t *testing.T) {
	data, err := json.Marshal(RiskResult{Score: 72.5, Label: RiskLabelMedium})
	require.NoError(t, err)
	assert.JSONEq(t, `{"score":72.5,"label":"Medium"}`, string(data))

	var decoded RiskResult
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, decoded.Label.Equal(RiskLabelMedium))

	require.Error(t, json.Unmarshal([]byte(`{"label":"Critical"}`), &decoded))
}

func TestRiskResult_Progress(t *testing.T) {
	tests := []struct {
		name     string
		score    float64
		expected int
	}{
		{"negative clamps to zero", -42.3, 0},
		{"rounds down", 59.4, 59},
		{"rounds half away from zero", 59.5, 60},
		{"exact", 85, 85},
		{"above hundred clamps", 180.7, 100},
		{"NaN is empty", math.NaN(), 0},
		{"positive infinity clamps", math.Inf(1), 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, RiskResult{Score: tt.score}.Progress())
		})
	}
}

func TestRiskResult_DisplayScore(t *testing.T) {
	assert.Equal(t, 80.0, RiskResult{Score: 80}.DisplayScore())
	assert.Equal(t, 84.12, RiskResult{Score: 84.1234}.DisplayScore())
	assert.Equal(t, -1797.3, RiskResult{Score: -1797.3}.DisplayScore())
	assert.True(t, math.IsNaN(RiskResult{Score: math.NaN()}.DisplayScore()))
}

func TestFieldSpecs_MatchDefaults(t *testing.T) {
	specs := FieldSpecs()
	require.Len(t, specs, 15)

	raw, err := json.Marshal(DefaultRiskInputs())
	require.NoError(t, err)
	var defaults map[string]float64
	require.NoError(t, json.Unmarshal(raw, &defaults))

	seen := map[string]bool{}
	for _, spec := range specs {
		assert.False(t, seen[spec.Key], "duplicate key %s", spec.Key)
		seen[spec.Key] = true

		def, ok := defaults[spec.Key]
		require.True(t, ok, "catalog key %s is not a RiskInputs field", spec.Key)
		assert.Equal(t, def, spec.Default, spec.Key)
		assert.LessOrEqual(t, spec.Min, spec.Default, spec.Key)
		assert.GreaterOrEqual(t, spec.Max, spec.Default, spec.Key)
	}
}

func TestSubmission_Document(t *testing.T) {
	s := Submission{Documents: []Document{
		{Name: "gst.pdf", Data: []byte("a")},
		{Name: "bank.csv", Data: []byte("b")},
	}}

	doc, ok := s.Document("bank.csv")
	require.True(t, ok)
	assert.Equal(t, []byte("b"), doc.Data)

	_, ok = s.Document("missing.txt")
	assert.False(t, ok)

	assert.Equal(t, []string{"gst.pdf", "bank.csv"}, s.DocumentNames())
}
