package models

import "time"

// Goal is a savings target with a deadline, optionally tracking the balance
// of a money location.
type Goal struct {
	ID            string    `json:"goal_id"`
	UserID        string    `json:"user_id"`
	Name          string    `json:"name"`
	TargetAmount  float64   `json:"target_amount"`
	CurrentAmount float64   `json:"current_amount"`
	Deadline      time.Time `json:"deadline"`
	Category      string    `json:"category"`
	Currency      Currency  `json:"currency,omitempty"`
	Description   string    `json:"description,omitempty"`

	// While MoneyLocationID is set, CurrentAmount is derived from the linked
	// location's balance and should not be edited directly.
	MoneyLocationID   string `json:"money_location_id,omitempty"`
	MoneyLocationName string `json:"money_location_name,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Linked reports whether the goal tracks a money location.
func (g *Goal) Linked() bool {
	return g.MoneyLocationID != ""
}

// EffectiveCurrency returns the goal's currency, defaulting to USD when unset.
func (g *Goal) EffectiveCurrency() Currency {
	if g.Currency == "" {
		return USD
	}
	return g.Currency
}

// Validate checks the fields required when a goal is created.
func (g *Goal) Validate(now time.Time) error {
	if g.ID == "" {
		return &ValidationError{Field: "goal_id", Message: "required"}
	}
	if g.UserID == "" {
		return &ValidationError{Field: "user_id", Message: "required"}
	}
	if g.Name == "" {
		return &ValidationError{Field: "name", Message: "required"}
	}
	if g.TargetAmount <= 0 {
		return &ValidationError{Field: "target_amount", Message: "must be positive"}
	}
	if !g.Deadline.After(now) {
		return &ValidationError{Field: "deadline", Message: "must be in the future"}
	}
	if g.Currency != "" {
		if _, err := ParseCurrency(string(g.Currency)); err != nil {
			return &ValidationError{Field: "currency", Message: err.Error()}
		}
	}
	return nil
}
