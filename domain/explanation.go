package domain

// Contribution is the number of points one input field added to (or took from) a score.
type Contribution struct {
	Field  string  `json:"field"`
	Label  string  `json:"label"`
	Points float64 `json:"points"`
}

const (
	ExplanationSourceModel = "model"
	ExplanationSourceRules = "rules"
)

// Explanation is a scored assessment with a per-field breakdown and a short narrative.
// Source reports whether the narrative came from the language model or the built-in rules.
type Explanation struct {
	Result        RiskResult     `json:"result"`
	Contributions []Contribution `json:"contributions"`
	Narrative     string         `json:"narrative"`
	Source        string         `json:"source"`
}
