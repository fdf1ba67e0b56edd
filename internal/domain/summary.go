package domain

import "github.com/shopspring/decimal"

// MonthlySummary is the dashboard read model. Monthly figures cover the
// half-open calendar-month interval; TotalBalance is lifetime.
type MonthlySummary struct {
	TotalBalance       decimal.Decimal            `json:"totalBalance"`
	MonthlyIncome      decimal.Decimal            `json:"monthlyIncome"`
	MonthlyExpense     decimal.Decimal            `json:"monthlyExpense"`
	MonthlySavings     decimal.Decimal            `json:"monthlySavings"`
	TotalSaved         decimal.Decimal            `json:"totalSaved"`
	ExpensesByCategory []*CategoryTotal           `json:"expensesByCategory"`
	RecentTransactions []*TransactionWithCategory `json:"recentTransactions"`
}
