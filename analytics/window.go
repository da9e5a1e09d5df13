// Package analytics 从流水中实时汇总报表数据。
//
// 所有函数都是纯函数：调用方负责按用户加载数据，这里只做线性遍历和分组，
// 不缓存、不修改任何状态。时间窗口按调用方传入的时区计算，两端都包含。
package analytics

import (
	"time"
)

// MonthWindow 返回某月第一毫秒和最后一毫秒的时间戳
func MonthWindow(year int, month time.Month, loc *time.Location) (start, end int64) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	next := first.AddDate(0, 1, 0)
	return first.UnixMilli(), next.UnixMilli() - 1
}

// YearWindow 返回某年第一毫秒和最后一毫秒的时间戳
func YearWindow(year int, loc *time.Location) (start, end int64) {
	first := time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
	next := first.AddDate(1, 0, 0)
	return first.UnixMilli(), next.UnixMilli() - 1
}

// DaysInMonth 某月天数
func DaysInMonth(year int, month time.Month, loc *time.Location) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
}

// MonthKey 时间戳所在月份，格式 YYYY-MM
func MonthKey(ms int64, loc *time.Location) string {
	return time.UnixMilli(ms).In(loc).Format("2006-01")
}

func inWindow(ms, start, end int64) bool {
	return ms >= start && ms <= end
}

func savingsRate(income, expense float64) float64 {
	if income > 0 {
		return (income - expense) / income * 100
	}
	return 0
}
