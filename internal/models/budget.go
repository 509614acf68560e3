package models

// BudgetPeriod represents the recurrence window of a budget
type BudgetPeriod string

const (
	BudgetPeriodDaily   BudgetPeriod = "daily"
	BudgetPeriodWeekly  BudgetPeriod = "weekly"
	BudgetPeriodMonthly BudgetPeriod = "monthly"
	BudgetPeriodYearly  BudgetPeriod = "yearly"
)

// Budget represents a spending limit, optionally scoped to a category.
// A nil CategoryID means the budget covers all of the user's expenses.
type Budget struct {
	Base
	UserID     uint         `gorm:"not null;index" json:"user_id"`
	CategoryID *uint        `json:"category_id,omitempty"`
	Name       string       `gorm:"not null" json:"name"`
	Amount     float64      `gorm:"not null" json:"amount"`
	Period     BudgetPeriod `gorm:"not null;default:monthly" json:"period"`

	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}
