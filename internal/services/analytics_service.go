package services

import (
	"math"
	"sort"
	"time"

	"gorm.io/gorm"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
)

// analyticsService aggregates a user's expense records into dashboard
// views. All grouping is a single pass over the filtered record set in
// application memory.
type analyticsService struct {
	db *gorm.DB
	// now is swappable in tests so trend windows are deterministic.
	now func() time.Time
}

// NewAnalyticsService creates a new AnalyticsServicer.
func NewAnalyticsService(db *gorm.DB) AnalyticsServicer {
	return &analyticsService{db: db, now: time.Now}
}

// roundTo1 rounds to one decimal place.
func roundTo1(v float64) float64 {
	return math.Round(v*10) / 10
}

// fetchRecords loads a user's records within an inclusive date window,
// optionally restricted to a single type, with categories preloaded.
func (s *analyticsService) fetchRecords(
	userID uint,
	startDate, endDate *time.Time,
	expenseType *models.ExpenseType,
) ([]models.Expense, error) {
	q := s.db.Where("user_id = ?", userID)
	if startDate != nil {
		q = q.Where("date >= ?", *startDate)
	}
	if endDate != nil {
		q = q.Where("date <= ?", *endDate)
	}
	if expenseType != nil {
		q = q.Where("type = ?", *expenseType)
	}

	var records []models.Expense
	if err := q.Preload("Category").Find(&records).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return records, nil
}

// sumByType partitions records by type and sums each partition.
func sumByType(records []models.Expense) (income, expenses float64) {
	for _, r := range records {
		if r.Type == models.ExpenseTypeIncome {
			income += r.Amount
		} else {
			expenses += r.Amount
		}
	}
	return income, expenses
}

// percentChange computes the percentage delta against a baseline,
// rounded to one decimal. A zero baseline yields exactly 0 — never a
// division by zero.
func percentChange(current, previous float64) float64 {
	if previous <= 0 {
		return 0
	}
	return roundTo1((current - previous) / previous * 100)
}

// GetDashboardSummary computes totals, the category breakdown, and —
// when both window bounds are given — percentage deltas against an
// equal-length window immediately preceding the requested one.
func (s *analyticsService) GetDashboardSummary(
	userID uint,
	startDate, endDate *time.Time,
) (*DashboardSummary, error) {
	records, err := s.fetchRecords(userID, startDate, endDate, nil)
	if err != nil {
		return nil, err
	}

	totalIncome, totalExpenses := sumByType(records)

	summary := &DashboardSummary{
		TotalIncome:       totalIncome,
		TotalExpenses:     totalExpenses,
		Balance:           totalIncome - totalExpenses,
		Savings:           totalIncome - totalExpenses,
		TransactionCount:  len(records),
		CategoryBreakdown: breakdownByCategory(records),
	}

	if startDate != nil && endDate != nil {
		periodLength := endDate.Sub(*startDate)
		previousStart := startDate.Add(-periodLength)
		previousEnd := *startDate

		previous, err := s.fetchRecords(userID, &previousStart, &previousEnd, nil)
		if err != nil {
			return nil, err
		}
		previousIncome, previousExpenses := sumByType(previous)

		summary.Comparison = &PeriodComparison{
			Income:        previousIncome,
			Expenses:      previousExpenses,
			IncomeChange:  percentChange(totalIncome, previousIncome),
			ExpenseChange: percentChange(totalExpenses, previousExpenses),
		}
	}

	return summary, nil
}

// breakdownByCategory groups records by category regardless of type,
// summing amounts and counting occurrences, sorted by amount descending.
func breakdownByCategory(records []models.Expense) []CategorySummary {
	index := make(map[uint]int)
	breakdown := make([]CategorySummary, 0)

	for _, r := range records {
		if i, ok := index[r.CategoryID]; ok {
			breakdown[i].Amount += r.Amount
			breakdown[i].Count++
			continue
		}
		index[r.CategoryID] = len(breakdown)
		breakdown = append(breakdown, CategorySummary{
			Category:   r.Category.Name,
			CategoryID: r.CategoryID,
			Color:      r.Category.Color,
			Icon:       r.Category.Icon,
			Amount:     r.Amount,
			Count:      1,
			Type:       r.Type,
		})
	}

	sort.SliceStable(breakdown, func(i, j int) bool {
		return breakdown[i].Amount > breakdown[j].Amount
	})
	return breakdown
}

// GetCategoryBreakdown groups matching records by category, summing
// amounts, sorted by value descending.
func (s *analyticsService) GetCategoryBreakdown(
	userID uint,
	startDate, endDate *time.Time,
	expenseType *models.ExpenseType,
) ([]BreakdownEntry, error) {
	records, err := s.fetchRecords(userID, startDate, endDate, expenseType)
	if err != nil {
		return nil, err
	}

	index := make(map[uint]int)
	breakdown := make([]BreakdownEntry, 0)

	for _, r := range records {
		if i, ok := index[r.CategoryID]; ok {
			breakdown[i].Value += r.Amount
			breakdown[i].Count++
			continue
		}
		color := r.Category.Color
		if color == "" {
			color = "#8884d8"
		}
		index[r.CategoryID] = len(breakdown)
		breakdown = append(breakdown, BreakdownEntry{
			Name:       r.Category.Name,
			CategoryID: r.CategoryID,
			Value:      r.Amount,
			Count:      1,
			Color:      color,
			Icon:       r.Category.Icon,
		})
	}

	sort.SliceStable(breakdown, func(i, j int) bool {
		return breakdown[i].Value > breakdown[j].Value
	})
	return breakdown, nil
}

// GetMonthlyTrends groups the last `months` calendar months of records
// by month key, sorted ascending. Keys are zero-padded YYYY-MM in UTC,
// so lexicographic order is chronological order.
func (s *analyticsService) GetMonthlyTrends(userID uint, months int) ([]MonthlyTrend, error) {
	if months <= 0 {
		months = 6
	}

	end := s.now()
	start := end.AddDate(0, -months, 0)

	records, err := s.fetchRecords(userID, &start, &end, nil)
	if err != nil {
		return nil, err
	}

	type bucket struct {
		income   float64
		expenses float64
	}
	monthly := make(map[string]*bucket)

	for _, r := range records {
		key := r.Date.UTC().Format("2006-01")
		b, ok := monthly[key]
		if !ok {
			b = &bucket{}
			monthly[key] = b
		}
		if r.Type == models.ExpenseTypeIncome {
			b.income += r.Amount
		} else {
			b.expenses += r.Amount
		}
	}

	trends := make([]MonthlyTrend, 0, len(monthly))
	for month, b := range monthly {
		trends = append(trends, MonthlyTrend{
			Month:    month,
			Income:   b.income,
			Expenses: b.expenses,
			Savings:  b.income - b.expenses,
		})
	}

	sort.Slice(trends, func(i, j int) bool {
		return trends[i].Month < trends[j].Month
	})
	return trends, nil
}

// GetTopCategories ranks categories of the given type by total amount
// and truncates to the limit.
func (s *analyticsService) GetTopCategories(
	userID uint,
	expenseType models.ExpenseType,
	limit int,
) ([]TopCategory, error) {
	if expenseType == "" {
		expenseType = models.ExpenseTypeExpense
	}
	if limit <= 0 {
		limit = 5
	}

	records, err := s.fetchRecords(userID, nil, nil, &expenseType)
	if err != nil {
		return nil, err
	}

	index := make(map[uint]int)
	totals := make([]TopCategory, 0)

	for _, r := range records {
		if i, ok := index[r.CategoryID]; ok {
			totals[i].Total += r.Amount
			totals[i].Count++
			continue
		}
		index[r.CategoryID] = len(totals)
		totals = append(totals, TopCategory{
			CategoryID: r.CategoryID,
			Name:       r.Category.Name,
			Color:      r.Category.Color,
			Icon:       r.Category.Icon,
			Total:      r.Amount,
			Count:      1,
		})
	}

	sort.SliceStable(totals, func(i, j int) bool {
		return totals[i].Total > totals[j].Total
	})

	if len(totals) > limit {
		totals = totals[:limit]
	}
	return totals, nil
}
