package analytics

import (
	"math"
	"time"

	"fintrack/models"
)

const dayMillis = 24 * 60 * 60 * 1000

// GoalProgress 储蓄目标及其进度
type GoalProgress struct {
	models.SavingsGoal
	CurrentAmount float64 `json:"current_amount"`
	Percentage    float64 `json:"percentage"`
	DaysLeft      int     `json:"days_left"`
	IsCompleted   bool    `json:"is_completed"`
	IsOverdue     bool    `json:"is_overdue"`
}

// GoalsWithProgress 以关联流水金额之和作为目标当前进度
func GoalsWithProgress(goals []models.SavingsGoal, txs []models.Transaction, now time.Time) []GoalProgress {
	saved := map[uint]float64{}
	for i := range txs {
		if txs[i].GoalID != nil {
			saved[*txs[i].GoalID] += txs[i].Amount
		}
	}

	nowMs := now.UnixMilli()
	out := make([]GoalProgress, 0, len(goals))
	for _, g := range goals {
		current := saved[g.ID]
		raw := 0.0
		if g.TargetAmount > 0 {
			raw = current / g.TargetAmount * 100
		}

		daysLeft := int(math.Ceil(float64(g.TargetDate-nowMs) / dayMillis))
		if daysLeft < 0 {
			daysLeft = 0
		}

		out = append(out, GoalProgress{
			SavingsGoal:   g,
			CurrentAmount: current,
			Percentage:    math.Max(0, math.Min(raw, 100)),
			DaysLeft:      daysLeft,
			IsCompleted:   raw >= 100,
			IsOverdue:     g.TargetDate < nowMs && raw < 100,
		})
	}
	return out
}
