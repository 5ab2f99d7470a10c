package common

const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	AdjustmentCredit = "credit"
	AdjustmentDebit  = "debit"
)
