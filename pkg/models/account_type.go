package models

// AccountType classifies a money location.
type AccountType string

const (
	AccountCash          AccountType = "cash"
	AccountBank          AccountType = "bank_account"
	AccountPension       AccountType = "pension_account"
	AccountRealEstate    AccountType = "real_estate"
	AccountInvestment    AccountType = "investment"
	AccountEducationFund AccountType = "education_fund"
)

// AccountTypes returns every known account type.
func AccountTypes() []AccountType {
	return []AccountType{
		AccountCash,
		AccountBank,
		AccountPension,
		AccountRealEstate,
		AccountInvestment,
		AccountEducationFund,
	}
}

// ParseAccountType validates an account type string.
func ParseAccountType(s string) (AccountType, error) {
	t := AccountType(s)
	switch t {
	case AccountCash, AccountBank, AccountPension,
		AccountRealEstate, AccountInvestment, AccountEducationFund:
		return t, nil
	}
	return "", &ValidationError{Field: "account_type", Message: "unknown account type: " + s}
}

// Available reports whether balances of this type count as spendable wealth.
// Pension and education funds are locked until withdrawal conditions are met.
func (t AccountType) Available() bool {
	switch t {
	case AccountCash, AccountBank, AccountRealEstate, AccountInvestment:
		return true
	case AccountPension, AccountEducationFund:
		return false
	}
	return false
}

// Label returns the human-readable name for the account type.
func (t AccountType) Label() string {
	switch t {
	case AccountCash:
		return "Cash"
	case AccountBank:
		return "Bank Account"
	case AccountPension:
		return "Pension Account"
	case AccountRealEstate:
		return "Real Estate"
	case AccountInvestment:
		return "Investment"
	case AccountEducationFund:
		return "Education Fund"
	}
	return string(t)
}
