package services

import (
	"io"
	"time"

	"fintrack/internal/models"
	"fintrack/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	ListUsers() ([]models.User, error)
}

// TokenServicer defines the contract for the persisted refresh-token
// store. A stored row is what keeps a refresh token honored; deleting
// it revokes the session even while the signature is still valid.
type TokenServicer interface {
	StoreRefreshToken(userID uint, token string) error
	RefreshTokenExists(token string) (bool, error)
	RevokeRefreshToken(token string) error
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	CreateCategory(userID uint, name string, categoryType models.CategoryType, color, icon string) (*models.Category, error)
	GetUserCategories(userID uint, categoryType *models.CategoryType, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error)
	GetCategoryByID(userID, categoryID uint) (*models.Category, error)
	DeleteCategory(userID, categoryID uint) error
}

// ExpenseFilter holds optional filter parameters for listing expenses.
// Date bounds are inclusive on both ends.
type ExpenseFilter struct {
	StartDate  *time.Time
	EndDate    *time.Time
	CategoryID *uint
	Type       *models.ExpenseType
}

// ExpenseUpdate holds the partial-update fields for an expense. Nil
// fields are left unchanged.
type ExpenseUpdate struct {
	Amount      *float64
	Description *string
	Date        *time.Time
	CategoryID  *uint
	Type        *models.ExpenseType
}

// ExpenseServicer defines the contract for expense-related business logic.
type ExpenseServicer interface {
	CreateExpense(userID, categoryID uint, amount float64, description string, date time.Time, expenseType models.ExpenseType) (*models.Expense, error)
	GetUserExpenses(userID uint, page pagination.PageRequest, filter ExpenseFilter) (*pagination.PageResponse[models.Expense], error)
	GetExpenseByID(userID, expenseID uint) (*models.Expense, error)
	UpdateExpense(userID, expenseID uint, update ExpenseUpdate) (*models.Expense, error)
	DeleteExpense(userID, expenseID uint) error
	ExportCSV(w io.Writer, userID uint, filter ExpenseFilter) error
}

// BudgetProgress contains spending vs budget data for a budget's current period.
type BudgetProgress struct {
	Budget      *models.Budget `json:"budget"`
	Spent       float64        `json:"spent"`
	Remaining   float64        `json:"remaining"`
	Percentage  float64        `json:"percentage"`
	PeriodStart time.Time      `json:"periodStart"`
	PeriodEnd   time.Time      `json:"periodEnd"`
}

// BudgetServicer defines the contract for budget-related business logic.
type BudgetServicer interface {
	CreateBudget(userID uint, name string, amount float64, period models.BudgetPeriod, categoryID *uint) (*models.Budget, error)
	GetUserBudgets(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Budget], error)
	GetBudgetByID(userID, budgetID uint) (*models.Budget, error)
	UpdateBudget(userID, budgetID uint, name string, amount *float64, period *models.BudgetPeriod, categoryID *uint) (*models.Budget, error)
	DeleteBudget(userID, budgetID uint) error
	GetBudgetProgress(userID, budgetID uint) (*BudgetProgress, error)
}

// CategorySummary is one category's share of the dashboard breakdown,
// grouped across both record types.
type CategorySummary struct {
	Category   string             `json:"category"`
	CategoryID uint               `json:"categoryId"`
	Color      string             `json:"color"`
	Icon       string             `json:"icon"`
	Amount     float64            `json:"amount"`
	Count      int                `json:"count"`
	Type       models.ExpenseType `json:"type"`
}

// PeriodComparison carries prior-period sums and percentage deltas for
// the dashboard summary.
type PeriodComparison struct {
	Income        float64 `json:"income"`
	Expenses      float64 `json:"expenses"`
	IncomeChange  float64 `json:"incomeChange"`
	ExpenseChange float64 `json:"expenseChange"`
}

// DashboardSummary aggregates a user's records over a window.
type DashboardSummary struct {
	TotalIncome       float64           `json:"totalIncome"`
	TotalExpenses     float64           `json:"totalExpenses"`
	Balance           float64           `json:"balance"`
	Savings           float64           `json:"savings"`
	TransactionCount  int               `json:"transactionCount"`
	CategoryBreakdown []CategorySummary `json:"categoryBreakdown"`
	Comparison        *PeriodComparison `json:"comparison,omitempty"`
}

// BreakdownEntry is one slice of the standalone category breakdown.
type BreakdownEntry struct {
	Name       string  `json:"name"`
	CategoryID uint    `json:"categoryId"`
	Value      float64 `json:"value"`
	Count      int     `json:"count"`
	Color      string  `json:"color"`
	Icon       string  `json:"icon"`
}

// MonthlyTrend is one month's income/expense/savings totals.
type MonthlyTrend struct {
	Month    string  `json:"month"`
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
	Savings  float64 `json:"savings"`
}

// TopCategory is one entry of the top-categories ranking.
type TopCategory struct {
	CategoryID uint    `json:"categoryId"`
	Name       string  `json:"name"`
	Color      string  `json:"color"`
	Icon       string  `json:"icon"`
	Total      float64 `json:"total"`
	Count      int     `json:"count"`
}

// AnalyticsServicer defines the contract for the aggregation engine.
type AnalyticsServicer interface {
	GetDashboardSummary(userID uint, startDate, endDate *time.Time) (*DashboardSummary, error)
	GetCategoryBreakdown(userID uint, startDate, endDate *time.Time, expenseType *models.ExpenseType) ([]BreakdownEntry, error)
	GetMonthlyTrends(userID uint, months int) ([]MonthlyTrend, error)
	GetTopCategories(userID uint, expenseType models.ExpenseType, limit int) ([]TopCategory, error)
}
