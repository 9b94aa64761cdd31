package models

import "time"

// MoneyLocation is a user-tracked account or asset holding a balance.
type MoneyLocation struct {
	ID          string      `json:"money_location_id"`
	UserID      string      `json:"user_id"`
	Name        string      `json:"location_name"`
	Amount      float64     `json:"amount"`
	Currency    Currency    `json:"currency"`
	AccountType AccountType `json:"account_type"`
	LastChecked time.Time   `json:"last_checked"`

	// Real-estate only fields.
	PropertyAddress string     `json:"property_address,omitempty"`
	PurchaseDate    *time.Time `json:"purchase_date,omitempty"`
	PurchasePrice   float64    `json:"purchase_price,omitempty"`

	Notes         string   `json:"notes,omitempty"`
	AttachedFiles []string `json:"attached_files,omitempty"`
}

// Validate checks the fields required when a location is created.
func (m *MoneyLocation) Validate() error {
	if m.ID == "" {
		return &ValidationError{Field: "money_location_id", Message: "required"}
	}
	if m.UserID == "" {
		return &ValidationError{Field: "user_id", Message: "required"}
	}
	if m.Name == "" {
		return &ValidationError{Field: "location_name", Message: "required"}
	}
	if _, err := ParseCurrency(string(m.Currency)); err != nil {
		return &ValidationError{Field: "currency", Message: err.Error()}
	}
	if _, err := ParseAccountType(string(m.AccountType)); err != nil {
		return &ValidationError{Field: "account_type", Message: "unknown account type: " + string(m.AccountType)}
	}
	if m.AccountType == AccountRealEstate && m.PropertyAddress == "" {
		return &ValidationError{Field: "property_address", Message: "required for real estate locations"}
	}
	return nil
}
