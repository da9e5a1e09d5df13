package service

import (
	"fmt"
	"html"
	"sort"
	"strings"
	"time"

	"fintrack/analytics"
	"fintrack/config"
	"fintrack/models"

	"github.com/shopspring/decimal"
	"gopkg.in/gomail.v2"
)

// EmailService 邮件服务
type EmailService struct {
	cfg *config.EmailConfig
}

// NewEmailService 创建邮件服务
func NewEmailService(cfg *config.EmailConfig) *EmailService {
	return &EmailService{cfg: cfg}
}

// Enabled 邮件服务是否启用
func (s *EmailService) Enabled() bool {
	return s.cfg != nil && s.cfg.Enabled
}

// CategoryLine 月报中的一行分类支出
type CategoryLine struct {
	Name   string
	Color  string
	Amount float64
}

// MonthlyReport 月报内容
type MonthlyReport struct {
	UserName   string
	Currency   string
	Year       int
	Month      time.Month
	Summary    analytics.MonthlySummary
	Categories []CategoryLine
}

// NewMonthlyReport 由月度汇总生成月报，分类支出按金额倒序
func NewMonthlyReport(user *models.User, summary analytics.MonthlySummary, categories []models.Category) *MonthlyReport {
	idx := analytics.IndexCategories(categories)
	lines := make([]CategoryLine, 0, len(summary.CategorySpending))
	for id, amount := range summary.CategorySpending {
		name, color, _ := idx.Lookup(id)
		lines = append(lines, CategoryLine{Name: name, Color: color, Amount: amount})
	}
	sort.Slice(lines, func(i, j int) bool {
		if lines[i].Amount != lines[j].Amount {
			return lines[i].Amount > lines[j].Amount
		}
		return lines[i].Name < lines[j].Name
	})

	return &MonthlyReport{
		UserName:   user.Name,
		Currency:   user.Currency,
		Year:       summary.Year,
		Month:      time.Month(summary.Month),
		Summary:    summary,
		Categories: lines,
	}
}

// SendMonthlyReport 发送月度收支报告
func (s *EmailService) SendMonthlyReport(toEmail string, report *MonthlyReport) error {
	if !s.Enabled() {
		return fmt.Errorf("邮件服务未启用，请配置 FINTRACK_EMAIL_ENABLED=true")
	}

	subject := fmt.Sprintf("【记账】%d年%d月收支报告", report.Year, int(report.Month))
	return s.sendEmail(toEmail, subject, s.generateMonthlyReportBody(report))
}

func money(v float64, currency string) string {
	amount := decimal.NewFromFloat(v).StringFixed(2)
	if currency == "" {
		return amount
	}
	return amount + " " + html.EscapeString(currency)
}

// generateMonthlyReportBody 生成月报邮件内容
func (s *EmailService) generateMonthlyReportBody(r *MonthlyReport) string {
	var rows strings.Builder
	for _, line := range r.Categories {
		fmt.Fprintf(&rows, `<tr><td><span class="dot" style="background:%s"></span>%s</td><td class="num">%s</td></tr>`,
			html.EscapeString(line.Color), html.EscapeString(line.Name), money(line.Amount, r.Currency))
	}
	if len(r.Categories) == 0 {
		rows.WriteString(`<tr><td colspan="2" class="empty">本月暂无支出</td></tr>`)
	}

	name := r.UserName
	if name == "" {
		name = "您"
	}
	sum := r.Summary

	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: 'Microsoft YaHei', Arial, sans-serif; background: #f5f5f5; margin: 0; padding: 20px; }
        .container { max-width: 600px; margin: 0 auto; background: #fff; border-radius: 12px; overflow: hidden; box-shadow: 0 4px 20px rgba(0,0,0,0.1); }
        .header { background: linear-gradient(135deg, #10b981, #059669); color: white; padding: 30px; text-align: center; }
        .header h1 { margin: 0; font-size: 24px; }
        .content { padding: 30px; }
        .content p { color: #333; line-height: 1.8; margin: 0 0 16px; }
        table { width: 100%%; border-collapse: collapse; margin-bottom: 24px; }
        td { padding: 8px 4px; border-bottom: 1px solid #eee; color: #333; }
        .num { text-align: right; font-family: 'Courier New', monospace; }
        .dot { display: inline-block; width: 10px; height: 10px; border-radius: 50%%; margin-right: 8px; }
        .empty { text-align: center; color: #999; }
        .footer { background: #f8f9fa; padding: 20px 30px; text-align: center; color: #6c757d; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>%d年%d月收支报告</h1>
        </div>
        <div class="content">
            <p>%s好，以下是本月的收支情况：</p>
            <table>
                <tr><td>收入</td><td class="num">%s</td></tr>
                <tr><td>支出</td><td class="num">%s</td></tr>
                <tr><td>结余</td><td class="num">%s</td></tr>
                <tr><td>储蓄率</td><td class="num">%s%%</td></tr>
                <tr><td>日均支出</td><td class="num">%s</td></tr>
                <tr><td>交易笔数</td><td class="num">%d</td></tr>
            </table>
            <p>分类支出：</p>
            <table>%s</table>
        </div>
        <div class="footer">
            <p>此邮件由系统自动发送，请勿回复</p>
        </div>
    </div>
</body>
</html>
`, r.Year, int(r.Month),
		html.EscapeString(name),
		money(sum.TotalIncome, r.Currency),
		money(sum.TotalExpense, r.Currency),
		money(sum.Balance, r.Currency),
		decimal.NewFromFloat(sum.SavingsRate).StringFixed(1),
		money(sum.AvgDailySpend, r.Currency),
		sum.TransactionCount,
		rows.String())
}

// sendEmail 发送邮件
func (s *EmailService) sendEmail(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.cfg.Username, s.cfg.From))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("发送邮件失败: %w", err)
	}

	return nil
}
