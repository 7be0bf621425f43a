package service

import (
	"math"
	"math/rand/v2"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"msme-risk/domain"
)

func idealInputs() domain.RiskInputs {
	return domain.RiskInputs{
		EMIToProfitRatio:              0,
		ProfitLossRatio:               1,
		AverageMonthlyBankBalance:     1_000_000,
		GSTFilingConsistency:          1,
		GSTGrowthRate:                 0,
		PayrollConsistencyScore:       1,
		CompliancePaymentConsistency:  1,
		PreviousLoanApprovalRate:      1,
		ReceivablesAging90PlusPercent: 0,
		EmployeeCount:                 100,
	}
}

func worstInputs() domain.RiskInputs {
	return domain.RiskInputs{
		EMIToProfitRatio:                10,
		SalaryDelayInstancesLast6Months: 6,
		LoanDefaultHistory:              1,
		DaysPastDueOnExistingLoans:      365,
		NumOverdueLoans:                 10,
		TotalOverdueAmount:              10_000_000,
		ReceivablesAging90PlusPercent:   100,
		EmployeeCount:                   1,
	}
}

func minimumInputs() domain.RiskInputs {
	return domain.RiskInputs{
		ProfitLossRatio: -1,
		GSTGrowthRate:   -100,
		EmployeeCount:   1,
	}
}

func TestScore_IdealDefaults(t *testing.T) {
	result := NewRiskScorer().Score(idealInputs())

	assert.Equal(t, 80.0, result.Score)
	assert.True(t, domain.RiskLabelMedium.Equal(result.Label), "got %s", result.Label)
}

func TestScore_WorstCase(t *testing.T) {
	result := NewRiskScorer().Score(worstInputs())

	assert.InDelta(t, -814.9, result.Score, 1e-9)
	assert.True(t, domain.RiskLabelHigh.Equal(result.Label))
}

func TestScore_DomainMinimum(t *testing.T) {
	scorer := NewRiskScorer()
	first := scorer.Score(minimumInputs())
	second := scorer.Score(minimumInputs())

	assert.InDelta(t, -499.9, first.Score, 1e-9)
	assert.True(t, domain.RiskLabelHigh.Equal(first.Label))
	assert.Equal(t, first, second)
}

func TestScore_LowBoundary(t *testing.T) {
	inputs := idealInputs()
	inputs.GSTGrowthRate = 1

	result := NewRiskScorer().Score(inputs)
	require.Equal(t, 85.0, result.Score)
	assert.True(t, domain.RiskLabelLow.Equal(result.Label))

	inputs.TotalOverdueAmount = 100
	result = NewRiskScorer().Score(inputs)
	assert.InDelta(t, 84.999, result.Score, 1e-9)
	assert.True(t, domain.RiskLabelMedium.Equal(result.Label))
}

func TestScore_MediumBoundary(t *testing.T) {
	inputs := idealInputs()
	inputs.LoanDefaultHistory = 1

	result := NewRiskScorer().Score(inputs)
	require.Equal(t, 60.0, result.Score)
	assert.True(t, domain.RiskLabelMedium.Equal(result.Label))
}

func TestScore_IntegerFieldsUseRealDivision(t *testing.T) {
	inputs := domain.RiskInputs{DaysPastDueOnExistingLoans: 7, EmployeeCount: 15}

	// 10 - 7/5 + 15/10
	assert.InDelta(t, 10.1, NewRiskScorer().Score(inputs).Score, 1e-9)
}

func TestClassifyScore(t *testing.T) {
	tests := []struct {
		name     string
		score    float64
		expected domain.RiskLabel
	}{
		{"far above", 1e6, domain.RiskLabelLow},
		{"exactly 85", 85, domain.RiskLabelLow},
		{"just below 85", 84.999, domain.RiskLabelMedium},
		{"just below 85 by ulp", math.Nextafter(85, 0), domain.RiskLabelMedium},
		{"exactly 60", 60, domain.RiskLabelMedium},
		{"just below 60", 59.999, domain.RiskLabelHigh},
		{"zero", 0, domain.RiskLabelHigh},
		{"negative", -814.9, domain.RiskLabelHigh},
		{"positive infinity", math.Inf(1), domain.RiskLabelLow},
		{"negative infinity", math.Inf(-1), domain.RiskLabelHigh},
		{"NaN", math.NaN(), domain.RiskLabelHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ClassifyScore(tt.score)
			assert.True(t, tt.expected.Equal(result),
				"expected %s for score %v, got %s", tt.expected, tt.score, result)
		})
	}
}

func TestScore_AcceptsOutOfRangeInputs(t *testing.T) {
	inputs := domain.RiskInputs{
		EMIToProfitRatio:                -50,
		AverageMonthlyBankBalance:       -1e12,
		SalaryDelayInstancesLast6Months: -3,
		LoanDefaultHistory:              7,
		EmployeeCount:                   0,
	}

	assert.NotPanics(t, func() {
		result := NewRiskScorer().Score(inputs)
		assert.False(t, result.Label.IsZero())
	})
}

func randomValidInputs(r *rand.Rand) domain.RiskInputs {
	between := func(lo, hi float64) float64 { return lo + r.Float64()*(hi-lo) }
	return domain.RiskInputs{
		EMIToProfitRatio:                between(0, 10),
		ProfitLossRatio:                 between(-1, 2),
		AverageMonthlyBankBalance:       between(0, 10_000_000),
		GSTFilingConsistency:            between(0, 1),
		GSTGrowthRate:                   between(-100, 500),
		PayrollConsistencyScore:         between(0, 1),
		SalaryDelayInstancesLast6Months: r.IntN(7),
		CompliancePaymentConsistency:    between(0, 1),
		LoanDefaultHistory:              r.IntN(2),
		DaysPastDueOnExistingLoans:      r.IntN(366),
		NumOverdueLoans:                 r.IntN(11),
		TotalOverdueAmount:              between(0, 10_000_000),
		PreviousLoanApprovalRate:        between(0, 1),
		ReceivablesAging90PlusPercent:   between(0, 100),
		EmployeeCount:                   1 + r.IntN(1000),
	}
}

func TestScore_FiniteAndDeterministic(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 11))
	scorer := NewRiskScorer()

	for i := 0; i < 1000; i++ {
		inputs := randomValidInputs(r)
		first := scorer.Score(inputs)
		second := scorer.Score(inputs)

		require.False(t, math.IsNaN(first.Score) || math.IsInf(first.Score, 0), "inputs %+v", inputs)
		require.Equal(t, first, second)
		require.True(t, ClassifyScore(first.Score).Equal(first.Label))
	}
}

func TestScore_Monotonicity(t *testing.T) {
	type bump func(in *domain.RiskInputs)

	increasing := map[string]bump{
		"Profit_Loss_Ratio":              func(in *domain.RiskInputs) { in.ProfitLossRatio += 0.25 },
		"Average_Monthly_Bank_Balance":   func(in *domain.RiskInputs) { in.AverageMonthlyBankBalance += 50_000 },
		"GST_Filing_Consistency":         func(in *domain.RiskInputs) { in.GSTFilingConsistency += 0.1 },
		"GST_Growth_Rate":                func(in *domain.RiskInputs) { in.GSTGrowthRate += 3 },
		"Payroll_Consistency_Score":      func(in *domain.RiskInputs) { in.PayrollConsistencyScore += 0.1 },
		"Compliance_Payment_Consistency": func(in *domain.RiskInputs) { in.CompliancePaymentConsistency += 0.1 },
		"Previous_Loan_Approval_Rate":    func(in *domain.RiskInputs) { in.PreviousLoanApprovalRate += 0.1 },
		"Employee_Count":                 func(in *domain.RiskInputs) { in.EmployeeCount++ },
	}
	decreasing := map[string]bump{
		"EMI_to_Profit_Ratio":                  func(in *domain.RiskInputs) { in.EMIToProfitRatio += 0.5 },
		"Salary_Delay_Instances_Last_6_Months": func(in *domain.RiskInputs) { in.SalaryDelayInstancesLast6Months++ },
		"Loan_Default_History":                 func(in *domain.RiskInputs) { in.LoanDefaultHistory++ },
		"Days_Past_Due_on_Existing_Loans":      func(in *domain.RiskInputs) { in.DaysPastDueOnExistingLoans += 30 },
		"Num_Overdue_Loans":                    func(in *domain.RiskInputs) { in.NumOverdueLoans++ },
		"Total_Overdue_Amount":                 func(in *domain.RiskInputs) { in.TotalOverdueAmount += 250_000 },
		"Receivables_Aging_90plus_Percent":     func(in *domain.RiskInputs) { in.ReceivablesAging90PlusPercent += 5 },
	}

	scorer := NewRiskScorer()
	r := rand.New(rand.NewPCG(3, 5))
	bases := []domain.RiskInputs{idealInputs(), worstInputs(), minimumInputs(), domain.DefaultRiskInputs()}
	for i := 0; i < 50; i++ {
		bases = append(bases, randomValidInputs(r))
	}

	for field, apply := range increasing {
		t.Run("increasing "+field, func(t *testing.T) {
			for _, base := range bases {
				bumped := base
				apply(&bumped)
				assert.GreaterOrEqual(t, scorer.Score(bumped).Score, scorer.Score(base).Score)
			}
		})
	}
	for field, apply := range decreasing {
		t.Run("decreasing "+field, func(t *testing.T) {
			for _, base := range bases {
				bumped := base
				apply(&bumped)
				assert.LessOrEqual(t, scorer.Score(bumped).Score, scorer.Score(base).Score)
			}
		})
	}
}

func TestScore_ConcurrentUse(t *testing.T) {
	scorer := NewRiskScorer()
	want := scorer.Score(idealInputs())

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				assert.Equal(t, want, scorer.Score(idealInputs()))
			}
		}()
	}
	wg.Wait()
}

func TestScore_DoesNotAllocate(t *testing.T) {
	scorer := NewRiskScorer()
	inputs := idealInputs()

	allocs := testing.AllocsPerRun(100, func() {
		_ = scorer.Score(inputs)
	})
	assert.Zero(t, allocs)
}
