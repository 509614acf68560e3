package services

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
)

// expenseService handles expense-related business logic.
type expenseService struct {
	db *gorm.DB
}

// NewExpenseService creates a new ExpenseServicer.
func NewExpenseService(db *gorm.DB) ExpenseServicer {
	return &expenseService{db: db}
}

// CreateExpense creates a new expense or income record. The referenced
// category must belong to the same user; a foreign category is reported
// as not found rather than forbidden.
func (s *expenseService) CreateExpense(
	userID, categoryID uint,
	amount float64,
	description string,
	date time.Time,
	expenseType models.ExpenseType,
) (*models.Expense, error) {
	if amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Amount must be a positive number")
	}
	if strings.TrimSpace(description) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Description is required")
	}
	if expenseType == "" {
		expenseType = models.ExpenseTypeExpense
	}
	if date.IsZero() {
		date = time.Now()
	}

	// Verify category exists and belongs to user
	var category models.Category
	if err := s.db.Where("id = ? AND user_id = ?", categoryID, userID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	expense := &models.Expense{
		UserID:      userID,
		CategoryID:  categoryID,
		Amount:      amount,
		Description: description,
		Date:        date,
		Type:        expenseType,
	}

	if err := s.db.Create(expense).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	expense.Category = category
	return expense, nil
}

// applyFilter narrows a query by the optional filter predicates. Date
// bounds are inclusive on both ends.
func applyFilter(q *gorm.DB, filter ExpenseFilter) *gorm.DB {
	if filter.StartDate != nil {
		q = q.Where("date >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		q = q.Where("date <= ?", *filter.EndDate)
	}
	if filter.CategoryID != nil {
		q = q.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.Type != nil {
		q = q.Where("type = ?", *filter.Type)
	}
	return q
}

// GetUserExpenses returns a paginated list of the user's expenses
// matching the filter, newest date first.
func (s *expenseService) GetUserExpenses(
	userID uint,
	page pagination.PageRequest,
	filter ExpenseFilter,
) (*pagination.PageResponse[models.Expense], error) {
	page.Defaults()

	base := applyFilter(s.db.Model(&models.Expense{}).Where("user_id = ?", userID), filter)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var expenses []models.Expense
	if err := base.Preload("Category").Order("date DESC").
		Scopes(pagination.Paginate(page)).Find(&expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(expenses, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetExpenseByID returns an expense by ID if it belongs to the user.
func (s *expenseService) GetExpenseByID(userID, expenseID uint) (*models.Expense, error) {
	var expense models.Expense
	if err := s.db.Preload("Category").
		Where("id = ? AND user_id = ?", expenseID, userID).First(&expense).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrExpenseNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &expense, nil
}

// UpdateExpense applies a partial update after an ownership check. A
// category change re-checks ownership of the new category.
func (s *expenseService) UpdateExpense(userID, expenseID uint, update ExpenseUpdate) (*models.Expense, error) {
	expense, err := s.GetExpenseByID(userID, expenseID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if update.Amount != nil {
		if *update.Amount <= 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Amount must be a positive number")
		}
		updates["amount"] = *update.Amount
	}
	if update.Description != nil {
		updates["description"] = *update.Description
	}
	if update.Date != nil {
		updates["date"] = *update.Date
	}
	if update.Type != nil {
		updates["type"] = *update.Type
	}
	if update.CategoryID != nil && *update.CategoryID != expense.CategoryID {
		var category models.Category
		if err := s.db.Where("id = ? AND user_id = ?", *update.CategoryID, userID).First(&category).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.ErrCategoryNotFound
			}
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		updates["category_id"] = *update.CategoryID
	}

	if len(updates) > 0 {
		if err := s.db.Model(expense).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return s.GetExpenseByID(userID, expenseID)
}

// DeleteExpense deletes an expense after an ownership check.
func (s *expenseService) DeleteExpense(userID, expenseID uint) error {
	expense, err := s.GetExpenseByID(userID, expenseID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(expense).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// ExportCSV streams the user's filtered expenses as CSV, newest first.
// Only the description cell is quoted (with embedded quotes doubled);
// the remaining cells never contain commas.
func (s *expenseService) ExportCSV(w io.Writer, userID uint, filter ExpenseFilter) error {
	var expenses []models.Expense
	q := applyFilter(s.db.Where("user_id = ?", userID), filter)
	if err := q.Preload("Category").Order("date DESC").Find(&expenses).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if _, err := io.WriteString(w, "Date,Description,Category,Type,Amount"); err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	for _, e := range expenses {
		description := `"` + strings.ReplaceAll(e.Description, `"`, `""`) + `"`
		row := fmt.Sprintf("\n%s,%s,%s,%s,%.2f",
			e.Date.Format("02/01/2006"),
			description,
			e.Category.Name,
			e.Type,
			e.Amount,
		)
		if _, err := io.WriteString(w, row); err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return nil
}
