package service

const (
	MaxDependents     = 20                // dependents above this are treated as input errors
	MaxCurrencyAmount = 1_000_000_000_000 // one lakh crore rupees
	MinCibilScore     = 300
	MaxCibilScore     = 900

	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 1000
)
