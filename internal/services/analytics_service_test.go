package services

import (
	"testing"
	"time"

	"fintrack/internal/models"
	"fintrack/internal/testutil"
)

func TestPercentChange(t *testing.T) {
	cases := []struct {
		name     string
		current  float64
		previous float64
		want     float64
	}{
		{"zero_baseline", 100, 0, 0},
		{"negative_baseline", 100, -5, 0},
		{"doubling", 200, 100, 100},
		{"decrease", 50, 100, -50},
		{"rounds_to_one_decimal", 100, 300, -66.7},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := percentChange(tc.current, tc.previous); got != tc.want {
				t.Errorf("percentChange(%v, %v) = %v, want %v", tc.current, tc.previous, got, tc.want)
			}
		})
	}
}

func TestGetDashboardSummary(t *testing.T) {
	t.Run("totals_and_balance", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAnalyticsService(db)
		user := testutil.CreateTestUser(t, db)
		salary := testutil.CreateTestCategoryWithType(t, db, user.ID, "Salary", models.CategoryTypeIncome)
		food := testutil.CreateTestCategoryWithType(t, db, user.ID, "Food", models.CategoryTypeExpense)

		jan := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
		testutil.CreateTestExpenseOn(t, db, user.ID, salary.ID, 2000, jan, models.ExpenseTypeIncome)
		testutil.CreateTestExpenseOn(t, db, user.ID, food.ID, 50, jan, models.ExpenseTypeExpense)

		summary, err := svc.GetDashboardSummary(user.ID, nil, nil)
		testutil.AssertNoError(t, err)

		if summary.TotalIncome != 2000 {
			t.Errorf("expected income 2000, got %v", summary.TotalIncome)
		}
		if summary.TotalExpenses != 50 {
			t.Errorf("expected expenses 50, got %v", summary.TotalExpenses)
		}
		if summary.Balance != 1950 {
			t.Errorf("expected balance 1950, got %v", summary.Balance)
		}
		if summary.Savings != summary.Balance {
			t.Errorf("expected savings to equal balance, got %v vs %v", summary.Savings, summary.Balance)
		}
		if summary.TransactionCount != 2 {
			t.Errorf("expected 2 transactions, got %d", summary.TransactionCount)
		}
		if summary.Comparison != nil {
			t.Error("expected no comparison without a full window")
		}
	})

	t.Run("breakdown_sums_match_records", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAnalyticsService(db)
		user := testutil.CreateTestUser(t, db)
		food := testutil.CreateTestCategoryWithType(t, db, user.ID, "Food", models.CategoryTypeExpense)
		rent := testutil.CreateTestCategoryWithType(t, db, user.ID, "Rent", models.CategoryTypeExpense)

		now := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
		testutil.CreateTestExpenseOn(t, db, user.ID, food.ID, 30, now, models.ExpenseTypeExpense)
		testutil.CreateTestExpenseOn(t, db, user.ID, food.ID, 20, now, models.ExpenseTypeExpense)
		testutil.CreateTestExpenseOn(t, db, user.ID, rent.ID, 900, now, models.ExpenseTypeExpense)

		summary, err := svc.GetDashboardSummary(user.ID, nil, nil)
		testutil.AssertNoError(t, err)

		if len(summary.CategoryBreakdown) != 2 {
			t.Fatalf("expected 2 breakdown entries, got %d", len(summary.CategoryBreakdown))
		}

		// Sorted by amount descending.
		if summary.CategoryBreakdown[0].Category != "Rent" || summary.CategoryBreakdown[0].Amount != 900 {
			t.Errorf("expected Rent 900 first, got %s %v",
				summary.CategoryBreakdown[0].Category, summary.CategoryBreakdown[0].Amount)
		}
		if summary.CategoryBreakdown[1].Category != "Food" || summary.CategoryBreakdown[1].Amount != 50 {
			t.Errorf("expected Food 50 second, got %s %v",
				summary.CategoryBreakdown[1].Category, summary.CategoryBreakdown[1].Amount)
		}
		if summary.CategoryBreakdown[1].Count != 2 {
			t.Errorf("expected Food count 2, got %d", summary.CategoryBreakdown[1].Count)
		}

		var total float64
		for _, entry := range summary.CategoryBreakdown {
			total += entry.Amount
		}
		if total != summary.TotalExpenses {
			t.Errorf("breakdown total %v does not match expense total %v", total, summary.TotalExpenses)
		}
	})

	t.Run("comparison_against_preceding_window", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAnalyticsService(db)
		user := testutil.CreateTestUser(t, db)
		food := testutil.CreateTestCategoryWithType(t, db, user.ID, "Food", models.CategoryTypeExpense)

		// Requested window: March 2024. Preceding window of equal
		// length ends where the requested one starts.
		start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)

		testutil.CreateTestExpenseOn(t, db, user.ID, food.ID, 300, start.AddDate(0, 0, 5), models.ExpenseTypeExpense)
		testutil.CreateTestExpenseOn(t, db, user.ID, food.ID, 150, start.AddDate(0, 0, -10), models.ExpenseTypeExpense)

		summary, err := svc.GetDashboardSummary(user.ID, &start, &end)
		testutil.AssertNoError(t, err)

		if summary.Comparison == nil {
			t.Fatal("expected comparison with a full window")
		}
		if summary.Comparison.Expenses != 150 {
			t.Errorf("expected previous expenses 150, got %v", summary.Comparison.Expenses)
		}
		if summary.Comparison.ExpenseChange != 100 {
			t.Errorf("expected expense change 100%%, got %v", summary.Comparison.ExpenseChange)
		}
		if summary.Comparison.IncomeChange != 0 {
			t.Errorf("expected zero income change on zero baseline, got %v", summary.Comparison.IncomeChange)
		}
	})
}

func TestGetCategoryBreakdown(t *testing.T) {
	t.Run("sorted_descending_with_default_color", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAnalyticsService(db)
		user := testutil.CreateTestUser(t, db)

		plain := &models.Category{UserID: user.ID, Name: "Plain", Type: models.CategoryTypeExpense}
		if err := db.Create(plain).Error; err != nil {
			t.Fatalf("failed to create category: %v", err)
		}
		colored := testutil.CreateTestCategoryWithType(t, db, user.ID, "Colored", models.CategoryTypeExpense)

		now := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
		testutil.CreateTestExpenseOn(t, db, user.ID, plain.ID, 10, now, models.ExpenseTypeExpense)
		testutil.CreateTestExpenseOn(t, db, user.ID, colored.ID, 90, now, models.ExpenseTypeExpense)

		breakdown, err := svc.GetCategoryBreakdown(user.ID, nil, nil, nil)
		testutil.AssertNoError(t, err)

		if len(breakdown) != 2 {
			t.Fatalf("expected 2 entries, got %d", len(breakdown))
		}
		if breakdown[0].Name != "Colored" || breakdown[0].Value != 90 {
			t.Errorf("expected Colored 90 first, got %s %v", breakdown[0].Name, breakdown[0].Value)
		}
		if breakdown[1].Color != "#8884d8" {
			t.Errorf("expected default color for uncolored category, got %s", breakdown[1].Color)
		}
	})

	t.Run("type_filter", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAnalyticsService(db)
		user := testutil.CreateTestUser(t, db)
		salary := testutil.CreateTestCategoryWithType(t, db, user.ID, "Salary", models.CategoryTypeIncome)
		food := testutil.CreateTestCategoryWithType(t, db, user.ID, "Food", models.CategoryTypeExpense)

		now := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
		testutil.CreateTestExpenseOn(t, db, user.ID, salary.ID, 2000, now, models.ExpenseTypeIncome)
		testutil.CreateTestExpenseOn(t, db, user.ID, food.ID, 50, now, models.ExpenseTypeExpense)

		income := models.ExpenseTypeIncome
		breakdown, err := svc.GetCategoryBreakdown(user.ID, nil, nil, &income)
		testutil.AssertNoError(t, err)

		if len(breakdown) != 1 || breakdown[0].Name != "Salary" {
			t.Errorf("expected only Salary, got %v", breakdown)
		}
	})
}

func TestGetMonthlyTrends(t *testing.T) {
	t.Run("sorted_ascending_for_unordered_input", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		fixedNow := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
		svc := &analyticsService{db: db, now: func() time.Time { return fixedNow }}
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, user.ID)

		// Inserted deliberately out of chronological order.
		testutil.CreateTestExpenseOn(t, db, user.ID, cat.ID, 30,
			time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC), models.ExpenseTypeExpense)
		testutil.CreateTestExpenseOn(t, db, user.ID, cat.ID, 10,
			time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC), models.ExpenseTypeExpense)
		testutil.CreateTestExpenseOn(t, db, user.ID, cat.ID, 20,
			time.Date(2024, 4, 10, 0, 0, 0, 0, time.UTC), models.ExpenseTypeExpense)

		trends, err := svc.GetMonthlyTrends(user.ID, 6)
		testutil.AssertNoError(t, err)

		if len(trends) != 3 {
			t.Fatalf("expected 3 months, got %d", len(trends))
		}
		want := []string{"2024-02", "2024-04", "2024-05"}
		for i, month := range want {
			if trends[i].Month != month {
				t.Errorf("expected month %s at position %d, got %s", month, i, trends[i].Month)
			}
		}
	})

	t.Run("savings_per_month", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		fixedNow := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
		svc := &analyticsService{db: db, now: func() time.Time { return fixedNow }}
		user := testutil.CreateTestUser(t, db)
		salary := testutil.CreateTestCategoryWithType(t, db, user.ID, "Salary", models.CategoryTypeIncome)
		food := testutil.CreateTestCategoryWithType(t, db, user.ID, "Food", models.CategoryTypeExpense)

		may := time.Date(2024, 5, 5, 0, 0, 0, 0, time.UTC)
		testutil.CreateTestExpenseOn(t, db, user.ID, salary.ID, 3000, may, models.ExpenseTypeIncome)
		testutil.CreateTestExpenseOn(t, db, user.ID, food.ID, 450, may, models.ExpenseTypeExpense)

		trends, err := svc.GetMonthlyTrends(user.ID, 0) // defaults to 6
		testutil.AssertNoError(t, err)

		if len(trends) != 1 {
			t.Fatalf("expected 1 month, got %d", len(trends))
		}
		if trends[0].Income != 3000 || trends[0].Expenses != 450 {
			t.Errorf("expected 3000/450, got %v/%v", trends[0].Income, trends[0].Expenses)
		}
		if trends[0].Savings != 2550 {
			t.Errorf("expected savings 2550, got %v", trends[0].Savings)
		}
	})

	t.Run("window_excludes_older_months", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		fixedNow := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
		svc := &analyticsService{db: db, now: func() time.Time { return fixedNow }}
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, user.ID)

		testutil.CreateTestExpenseOn(t, db, user.ID, cat.ID, 10,
			time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC), models.ExpenseTypeExpense)
		testutil.CreateTestExpenseOn(t, db, user.ID, cat.ID, 20,
			time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), models.ExpenseTypeExpense)

		trends, err := svc.GetMonthlyTrends(user.ID, 3)
		testutil.AssertNoError(t, err)

		if len(trends) != 1 || trends[0].Month != "2024-05" {
			t.Errorf("expected only 2024-05 in a 3-month window, got %v", trends)
		}
	})
}

func TestGetTopCategories(t *testing.T) {
	t.Run("ranked_and_truncated", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAnalyticsService(db)
		user := testutil.CreateTestUser(t, db)

		now := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
		amounts := []float64{10, 50, 30}
		names := []string{"Small", "Big", "Medium"}
		for i, name := range names {
			cat := testutil.CreateTestCategoryWithType(t, db, user.ID, name, models.CategoryTypeExpense)
			testutil.CreateTestExpenseOn(t, db, user.ID, cat.ID, amounts[i], now, models.ExpenseTypeExpense)
		}

		top, err := svc.GetTopCategories(user.ID, models.ExpenseTypeExpense, 2)
		testutil.AssertNoError(t, err)

		if len(top) != 2 {
			t.Fatalf("expected 2 entries after truncation, got %d", len(top))
		}
		if top[0].Name != "Big" || top[1].Name != "Medium" {
			t.Errorf("expected Big then Medium, got %s then %s", top[0].Name, top[1].Name)
		}
	})

	t.Run("defaults_to_expense_type", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAnalyticsService(db)
		user := testutil.CreateTestUser(t, db)
		salary := testutil.CreateTestCategoryWithType(t, db, user.ID, "Salary", models.CategoryTypeIncome)
		food := testutil.CreateTestCategoryWithType(t, db, user.ID, "Food", models.CategoryTypeExpense)

		now := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
		testutil.CreateTestExpenseOn(t, db, user.ID, salary.ID, 2000, now, models.ExpenseTypeIncome)
		testutil.CreateTestExpenseOn(t, db, user.ID, food.ID, 50, now, models.ExpenseTypeExpense)

		top, err := svc.GetTopCategories(user.ID, "", 0)
		testutil.AssertNoError(t, err)

		if len(top) != 1 || top[0].Name != "Food" {
			t.Errorf("expected only Food with default type, got %v", top)
		}
	})
}
