package models

import "time"

// ExpenseType represents the direction of a record. The expenses table
// holds both expense and income rows, distinguished by this field.
type ExpenseType string

const (
	ExpenseTypeIncome  ExpenseType = "income"
	ExpenseTypeExpense ExpenseType = "expense"
)

// Expense represents a single expense or income record.
type Expense struct {
	Base
	UserID      uint        `gorm:"not null;index" json:"user_id"`
	CategoryID  uint        `gorm:"not null;index" json:"category_id"`
	Amount      float64     `gorm:"not null" json:"amount"`
	Description string      `gorm:"not null" json:"description"`
	Date        time.Time   `gorm:"not null;index" json:"date"`
	Type        ExpenseType `gorm:"not null;default:expense" json:"type"`

	Category Category `gorm:"foreignKey:CategoryID" json:"category"`
}
