package domain

// FieldKind tells the collector how to prompt for a field.
type FieldKind string

const (
	FieldKindReal    FieldKind = "real"
	FieldKindInteger FieldKind = "integer"
	FieldKindFlag    FieldKind = "flag"
)

type FieldSpec struct {
	Key         string    `json:"key"`
	Label       string    `json:"label"`
	Kind        FieldKind `json:"kind"`
	Min         float64   `json:"min"`
	Max         float64   `json:"max"`
	Default     float64   `json:"default"`
	Explanation string    `json:"explanation"`
	Source      string    `json:"source"`
}

// FieldSpecs returns the collector catalog in form order.
func FieldSpecs() []FieldSpec {
	d := DefaultRiskInputs()
	return []FieldSpec{
		{
			Key: "EMI_to_Profit_Ratio", Label: "EMI to Profit Ratio", Kind: FieldKindReal,
			Min: 0, Max: 10, Default: d.EMIToProfitRatio,
			Explanation: "Total Monthly EMI ÷ Estimated Monthly Profit",
			Source:      "Loan statements + Profit & Loss",
		},
		{
			Key: "Profit_Loss_Ratio", Label: "Profit/Loss Ratio", Kind: FieldKindReal,
			Min: -1, Max: 2, Default: d.ProfitLossRatio,
			Explanation: "Net Profit ÷ Annual Revenue",
			Source:      "Profit & Loss Statement",
		},
		{
			Key: "Average_Monthly_Bank_Balance", Label: "Average Monthly Bank Balance (INR)", Kind: FieldKindReal,
			Min: 0, Max: 10_000_000, Default: d.AverageMonthlyBankBalance,
			Explanation: "Average of closing bank balance across last 6 months",
			Source:      "Bank statements",
		},
		{
			Key: "GST_Filing_Consistency", Label: "GST Filing Consistency (0-1)", Kind: FieldKindReal,
			Min: 0, Max: 1, Default: d.GSTFilingConsistency,
			Explanation: "Fraction of months GST was filed on time in last 6 months",
			Source:      "GST Portal/Returns",
		},
		{
			Key: "GST_Growth_Rate", Label: "GST Growth Rate (6 months, %)", Kind: FieldKindReal,
			Min: -100, Max: 500, Default: d.GSTGrowthRate,
			Explanation: "Percentage change in GST revenue between the most recent 3 months and the previous 3-month period: " +
				"(GST in Recent 3 Months − GST in Previous 3 Months) / GST in Previous 3 Months × 100",
			Source: "GST filings (GSTR-3B or GSTR-1)",
		},
		{
			Key: "Payroll_Consistency_Score", Label: "Payroll Consistency Score (0-1)", Kind: FieldKindReal,
			Min: 0, Max: 1, Default: d.PayrollConsistencyScore,
			Explanation: "Fraction of months salaries were paid on time (before 15th) in last 6 months",
			Source:      "Payroll software/sheets",
		},
		{
			Key: "Salary_Delay_Instances_Last_6_Months", Label: "Salary Delay Instances (Last 6 Months)", Kind: FieldKindInteger,
			Min: 0, Max: 6, Default: float64(d.SalaryDelayInstancesLast6Months),
			Explanation: "Number of months in which salaries were paid post 15th",
			Source:      "Payroll reports",
		},
		{
			Key: "Compliance_Payment_Consistency", Label: "Compliance Payment Consistency (0-1)", Kind: FieldKindReal,
			Min: 0, Max: 1, Default: d.CompliancePaymentConsistency,
			Explanation: "Fraction of on-time PF/ESI/TDS/Professional Tax payments",
			Source:      "Compliance challans",
		},
		{
			Key: "Loan_Default_History", Label: "Loan Default History", Kind: FieldKindFlag,
			Min: 0, Max: 1, Default: float64(d.LoanDefaultHistory),
			Explanation: "1 if there were past loan defaults, 0 if never defaulted",
			Source:      "Credit Bureau Report",
		},
		{
			Key: "Days_Past_Due_on_Existing_Loans", Label: "Max Days Past Due on Existing Loans", Kind: FieldKindInteger,
			Min: 0, Max: 365, Default: float64(d.DaysPastDueOnExistingLoans),
			Explanation: "Max no. of days an unpaid installment is overdue, among all current loans",
			Source:      "Loan statements/Credit Bureau",
		},
		{
			Key: "Num_Overdue_Loans", Label: "Number of Overdue Loans", Kind: FieldKindInteger,
			Min: 0, Max: 10, Default: float64(d.NumOverdueLoans),
			Explanation: "Active loans with at least one missed payment",
			Source:      "Loan account summary",
		},
		{
			Key: "Total_Overdue_Amount", Label: "Total Overdue Amount (INR)", Kind: FieldKindReal,
			Min: 0, Max: 10_000_000, Default: d.TotalOverdueAmount,
			Explanation: "Sum of overdue principal + interest, on all delinquent loans",
			Source:      "Loan statements",
		},
		{
			Key: "Previous_Loan_Approval_Rate", Label: "Previous Loan Approval Rate (0-1)", Kind: FieldKindReal,
			Min: 0, Max: 1, Default: d.PreviousLoanApprovalRate,
			Explanation: "# of approved loans ÷ total loan applications",
			Source:      "Lender records",
		},
		{
			Key: "Receivables_Aging_90plus_Percent", Label: "Receivables >90 Days (%)", Kind: FieldKindReal,
			Min: 0, Max: 100, Default: d.ReceivablesAging90PlusPercent,
			Explanation: "Percentage of receivables that are unpaid for >90 days",
			Source:      "Balance Sheet / Invoices",
		},
		{
			Key: "Employee_Count", Label: "Employee Count", Kind: FieldKindInteger,
			Min: 1, Max: 1000, Default: float64(d.EmployeeCount),
			Explanation: "Total number of salaried employees",
			Source:      "Payroll reports",
		},
	}
}
