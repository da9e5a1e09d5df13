package analytics

import (
	"time"

	"fintrack/models"
)

// Totals 收入/支出/结余
type Totals struct {
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Balance float64 `json:"balance"`
}

func (t *Totals) add(tx *models.Transaction) {
	if tx.Type == models.TypeIncome {
		t.Income += tx.Amount
	} else {
		t.Expense += tx.Amount
	}
	t.Balance = t.Income - t.Expense
}

// MonthlySummary 月度汇总
type MonthlySummary struct {
	Year             int              `json:"year"`
	Month            int              `json:"month"`
	TotalIncome      float64          `json:"total_income"`
	TotalExpense     float64          `json:"total_expense"`
	Balance          float64          `json:"balance"`
	TransactionCount int              `json:"transaction_count"`
	AvgDailySpend    float64          `json:"avg_daily_spend"`
	SavingsRate      float64          `json:"savings_rate"`
	CategorySpending map[uint]float64 `json:"category_spending"`
}

// MonthBucket 年度汇总中的单月数据，Month 取 1-12
type MonthBucket struct {
	Month int `json:"month"`
	Totals
}

// YearlySummary 年度汇总
type YearlySummary struct {
	Year             int              `json:"year"`
	TotalIncome      float64          `json:"total_income"`
	TotalExpense     float64          `json:"total_expense"`
	Balance          float64          `json:"balance"`
	TransactionCount int              `json:"transaction_count"`
	SavingsRate      float64          `json:"savings_rate"`
	Months           [12]MonthBucket  `json:"months"`
	CategorySpending map[uint]float64 `json:"category_spending"`
}

// AllTimeSummary 全部时间汇总
type AllTimeSummary struct {
	TotalIncome          float64          `json:"total_income"`
	TotalExpense         float64          `json:"total_expense"`
	Balance              float64          `json:"balance"`
	TransactionCount     int              `json:"transaction_count"`
	SavingsRate          float64          `json:"savings_rate"`
	FirstTransactionDate *int64           `json:"first_transaction_date"`
	CategorySpending     map[uint]float64 `json:"category_spending"`
	YearlyData           map[int]Totals   `json:"yearly_data"`
}

// Monthly 统计某月收支。当月的日均支出按今天的日期计算，其它月份按整月天数
func Monthly(txs []models.Transaction, year int, month time.Month, now time.Time, loc *time.Location) MonthlySummary {
	start, end := MonthWindow(year, month, loc)

	s := MonthlySummary{
		Year:             year,
		Month:            int(month),
		CategorySpending: map[uint]float64{},
	}
	for i := range txs {
		tx := &txs[i]
		if !inWindow(tx.Date, start, end) {
			continue
		}
		s.TransactionCount++
		if tx.Type == models.TypeIncome {
			s.TotalIncome += tx.Amount
		} else {
			s.TotalExpense += tx.Amount
			s.CategorySpending[tx.CategoryID] += tx.Amount
		}
	}

	s.Balance = s.TotalIncome - s.TotalExpense
	s.SavingsRate = savingsRate(s.TotalIncome, s.TotalExpense)

	days := DaysInMonth(year, month, loc)
	today := now.In(loc)
	if today.Year() == year && today.Month() == month {
		days = today.Day()
	}
	if days > 0 {
		s.AvgDailySpend = s.TotalExpense / float64(days)
	}
	return s
}

// Yearly 统计某年收支，并按自然月分桶
func Yearly(txs []models.Transaction, year int, loc *time.Location) YearlySummary {
	start, end := YearWindow(year, loc)

	s := YearlySummary{
		Year:             year,
		CategorySpending: map[uint]float64{},
	}
	for i := range s.Months {
		s.Months[i].Month = i + 1
	}

	for i := range txs {
		tx := &txs[i]
		if !inWindow(tx.Date, start, end) {
			continue
		}
		s.TransactionCount++
		m := tx.Time(loc).Month() - 1
		s.Months[m].add(tx)
		if tx.Type == models.TypeIncome {
			s.TotalIncome += tx.Amount
		} else {
			s.TotalExpense += tx.Amount
			s.CategorySpending[tx.CategoryID] += tx.Amount
		}
	}

	s.Balance = s.TotalIncome - s.TotalExpense
	s.SavingsRate = savingsRate(s.TotalIncome, s.TotalExpense)
	return s
}

// AllTime 不限时间的汇总，额外记录最早流水时间和按年统计
func AllTime(txs []models.Transaction, loc *time.Location) AllTimeSummary {
	s := AllTimeSummary{
		CategorySpending: map[uint]float64{},
		YearlyData:       map[int]Totals{},
	}

	for i := range txs {
		tx := &txs[i]
		if s.FirstTransactionDate == nil || tx.Date < *s.FirstTransactionDate {
			d := tx.Date
			s.FirstTransactionDate = &d
		}

		year := tx.Time(loc).Year()
		bucket := s.YearlyData[year]
		bucket.add(tx)
		s.YearlyData[year] = bucket

		if tx.Type == models.TypeIncome {
			s.TotalIncome += tx.Amount
		} else {
			s.TotalExpense += tx.Amount
			s.CategorySpending[tx.CategoryID] += tx.Amount
		}
	}

	s.TransactionCount = len(txs)
	s.Balance = s.TotalIncome - s.TotalExpense
	s.SavingsRate = savingsRate(s.TotalIncome, s.TotalExpense)
	return s
}
