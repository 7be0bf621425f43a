package domain

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// RiskInputs holds the 15 indicators collected for an MSME.
// JSON names match the collector form keys.
type RiskInputs struct {
	EMIToProfitRatio                float64 `json:"EMI_to_Profit_Ratio" validate:"gte=0,lte=10"`
	ProfitLossRatio                 float64 `json:"Profit_Loss_Ratio" validate:"gte=-1,lte=2"`
	AverageMonthlyBankBalance       float64 `json:"Average_Monthly_Bank_Balance" validate:"gte=0,lte=10000000"`
	GSTFilingConsistency            float64 `json:"GST_Filing_Consistency" validate:"gte=0,lte=1"`
	GSTGrowthRate                   float64 `json:"GST_Growth_Rate" validate:"gte=-100,lte=500"`
	PayrollConsistencyScore         float64 `json:"Payroll_Consistency_Score" validate:"gte=0,lte=1"`
	SalaryDelayInstancesLast6Months int     `json:"Salary_Delay_Instances_Last_6_Months" validate:"gte=0,lte=6"`
	CompliancePaymentConsistency    float64 `json:"Compliance_Payment_Consistency" validate:"gte=0,lte=1"`
	LoanDefaultHistory              int     `json:"Loan_Default_History" validate:"oneof=0 1"`
	DaysPastDueOnExistingLoans      int     `json:"Days_Past_Due_on_Existing_Loans" validate:"gte=0,lte=365"`
	NumOverdueLoans                 int     `json:"Num_Overdue_Loans" validate:"gte=0,lte=10"`
	TotalOverdueAmount              float64 `json:"Total_Overdue_Amount" validate:"gte=0,lte=10000000"`
	PreviousLoanApprovalRate        float64 `json:"Previous_Loan_Approval_Rate" validate:"gte=0,lte=1"`
	ReceivablesAging90PlusPercent   float64 `json:"Receivables_Aging_90plus_Percent" validate:"gte=0,lte=100"`
	EmployeeCount                   int     `json:"Employee_Count" validate:"gte=1,lte=1000"`
}

// DefaultRiskInputs returns the values the collector form starts with.
// Decoding a request on top of it leaves omitted fields at these defaults.
func DefaultRiskInputs() RiskInputs {
	return RiskInputs{
		EMIToProfitRatio:                0.5,
		ProfitLossRatio:                 0.1,
		AverageMonthlyBankBalance:       100000,
		GSTFilingConsistency:            1.0,
		GSTGrowthRate:                   10.0,
		PayrollConsistencyScore:         0.8,
		SalaryDelayInstancesLast6Months: 0,
		CompliancePaymentConsistency:    1.0,
		LoanDefaultHistory:              0,
		DaysPastDueOnExistingLoans:      0,
		NumOverdueLoans:                 0,
		TotalOverdueAmount:              0,
		PreviousLoanApprovalRate:        1.0,
		ReceivablesAging90PlusPercent:   10.0,
		EmployeeCount:                   10,
	}
}

// RiskLabel is an immutable value object for the three risk tiers.
type RiskLabel struct {
	value string
}

var (
	RiskLabelLow    = RiskLabel{value: "Low"}
	RiskLabelMedium = RiskLabel{value: "Medium"}
	RiskLabelHigh   = RiskLabel{value: "High"}
)

// RiskLabelFromString reconstructs a RiskLabel from its string representation.
func RiskLabelFromString(s string) (RiskLabel, error) {
	switch s {
	case "Low":
		return RiskLabelLow, nil
	case "Medium":
		return RiskLabelMedium, nil
	case "High":
		return RiskLabelHigh, nil
	default:
		return RiskLabel{}, fmt.Errorf("invalid risk label: %q", s)
	}
}

// String returns the string representation.
func (l RiskLabel) String() string {
	return l.value
}

// Color is the dashboard colour keyed to the label.
func (l RiskLabel) Color() string {
	switch l.value {
	case "Low":
		return "green"
	case "Medium":
		return "orange"
	case "High":
		return "red"
	default:
		return ""
	}
}

// IsZero returns true if the RiskLabel has not been set.
func (l RiskLabel) IsZero() bool {
	return l.value == ""
}

// Equal checks equality with another RiskLabel.
func (l RiskLabel) Equal(other RiskLabel) bool {
	return l.value == other.value
}

func (l RiskLabel) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.value)
}

func (l *RiskLabel) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := RiskLabelFromString(s)
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// RiskResult is the output of the scorer.
type RiskResult struct {
	Score float64   `json:"score"`
	Label RiskLabel `json:"label"`
}

// DisplayScore rounds the score to two decimals for display.
func (r RiskResult) DisplayScore() float64 {
	if math.IsNaN(r.Score) || math.IsInf(r.Score, 0) {
		return r.Score
	}
	return decimal.NewFromFloat(r.Score).Round(2).InexactFloat64()
}

// Progress is the width of the dashboard bar: clamp(round(score), 0, 100).
func (r RiskResult) Progress() int {
	if math.IsNaN(r.Score) {
		return 0
	}
	rounded := math.Round(r.Score)
	switch {
	case rounded < 0:
		return 0
	case rounded > 100:
		return 100
	default:
		return int(rounded)
	}
}
