package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"fintrack/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestCategory creates an expense category with a unique name.
func CreateTestCategory(t *testing.T, db *gorm.DB, userID uint) *models.Category {
	t.Helper()
	name := fmt.Sprintf("Category %d", nextID())
	return CreateTestCategoryWithType(t, db, userID, name, models.CategoryTypeExpense)
}

// CreateTestCategoryWithType creates a category with the given name and type.
func CreateTestCategoryWithType(t *testing.T, db *gorm.DB, userID uint, name string, categoryType models.CategoryType) *models.Category {
	t.Helper()

	category := &models.Category{
		UserID: userID,
		Name:   name,
		Type:   categoryType,
		Color:  "#8884d8",
		Icon:   "tag",
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestExpense creates an expense record dated now.
func CreateTestExpense(t *testing.T, db *gorm.DB, userID, categoryID uint, amount float64) *models.Expense {
	t.Helper()
	return CreateTestExpenseOn(t, db, userID, categoryID, amount, time.Now(), models.ExpenseTypeExpense)
}

// CreateTestExpenseOn creates a record with an explicit date and type.
func CreateTestExpenseOn(t *testing.T, db *gorm.DB, userID, categoryID uint, amount float64, date time.Time, expenseType models.ExpenseType) *models.Expense {
	t.Helper()

	expense := &models.Expense{
		UserID:      userID,
		CategoryID:  categoryID,
		Amount:      amount,
		Description: fmt.Sprintf("Test expense %d", nextID()),
		Date:        date,
		Type:        expenseType,
	}
	if err := db.Create(expense).Error; err != nil {
		t.Fatalf("failed to create test expense: %v", err)
	}
	return expense
}

// CreateTestBudget creates a monthly budget without a category scope.
func CreateTestBudget(t *testing.T, db *gorm.DB, userID uint, amount float64) *models.Budget {
	t.Helper()
	return CreateTestBudgetWithPeriod(t, db, userID, amount, models.BudgetPeriodMonthly, nil)
}

// CreateTestBudgetWithPeriod creates a budget with the given period and
// optional category scope.
func CreateTestBudgetWithPeriod(t *testing.T, db *gorm.DB, userID uint, amount float64, period models.BudgetPeriod, categoryID *uint) *models.Budget {
	t.Helper()

	budget := &models.Budget{
		UserID:     userID,
		Name:       fmt.Sprintf("Budget %d", nextID()),
		Amount:     amount,
		Period:     period,
		CategoryID: categoryID,
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}

// CreateTestRefreshToken stores a refresh token row for the user.
func CreateTestRefreshToken(t *testing.T, db *gorm.DB, userID uint, token string) *models.RefreshToken {
	t.Helper()

	row := &models.RefreshToken{
		UserID: userID,
		Token:  token,
	}
	if err := db.Create(row).Error; err != nil {
		t.Fatalf("failed to create test refresh token: %v", err)
	}
	return row
}
