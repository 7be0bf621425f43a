package service

import "msme-risk/domain"

// contributionFields holds the key and label of each term, in form order.
var contributionFields = domain.FieldSpecs()

// RiskScorer computes the MSME risk score with a fixed linear model.
// It holds no state and is safe for concurrent use.
type RiskScorer struct{}

// NewRiskScorer creates a new RiskScorer.
func NewRiskScorer() *RiskScorer {
	return &RiskScorer{}
}

// Score applies the weighted sum and classifies the result.
// It never fails: inputs are not range-checked here.
func (s *RiskScorer) Score(inputs domain.RiskInputs) domain.RiskResult {
	score := 0.0
	for _, p := range terms(inputs) {
		score += p
	}

	return domain.RiskResult{
		Score: score,
		Label: ClassifyScore(score),
	}
}

// Contributions returns the signed term of every field in form order.
// Summing Points left to right from zero gives exactly the score.
func (s *RiskScorer) Contributions(inputs domain.RiskInputs) []domain.Contribution {
	points := terms(inputs)
	out := make([]domain.Contribution, len(points))
	for i, p := range points {
		out[i] = domain.Contribution{
			Field:  contributionFields[i].Key,
			Label:  contributionFields[i].Label,
			Points: p,
		}
	}
	return out
}

func terms(inputs domain.RiskInputs) [15]float64 {
	return [15]float64{
		(1 - inputs.EMIToProfitRatio) * 10,
		inputs.ProfitLossRatio * 10,
		inputs.AverageMonthlyBankBalance / 100000,
		inputs.GSTFilingConsistency * 10,
		inputs.GSTGrowthRate * 5,
		inputs.PayrollConsistencyScore * 10,
		-(float64(inputs.SalaryDelayInstancesLast6Months) * 2),
		inputs.CompliancePaymentConsistency * 10,
		-(float64(inputs.LoanDefaultHistory) * 20),
		-(float64(inputs.DaysPastDueOnExistingLoans) / 5),
		-(float64(inputs.NumOverdueLoans) * 2),
		-(inputs.TotalOverdueAmount / 100000),
		inputs.PreviousLoanApprovalRate * 10,
		-(inputs.ReceivablesAging90PlusPercent * 5),
		float64(inputs.EmployeeCount) / 10,
	}
}

// ClassifyScore maps a score to its tier. Bands are closed on the lower end.
func ClassifyScore(score float64) domain.RiskLabel {
	switch {
	case score >= LowRiskThreshold:
		return domain.RiskLabelLow
	case score >= MediumRiskThreshold:
		return domain.RiskLabelMedium
	default:
		return domain.RiskLabelHigh
	}
}
