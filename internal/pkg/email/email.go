package email

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"mime"
	"net/smtp"
	"strings"
	"time"

	"github.com/cmlabs-hris/commission-backend-go/internal/config"
	"github.com/cmlabs-hris/commission-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/commission-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/commission-backend-go/internal/domain/sale"
	"github.com/cmlabs-hris/commission-backend-go/internal/pkg/money"
	"github.com/cmlabs-hris/commission-backend-go/internal/pkg/utils"
	"github.com/shopspring/decimal"
)

//go:embed templates/*.html
var templateFS embed.FS

const displayDateLayout = "02/01/2006"

type sendFunc func(ctx context.Context, addr string, a smtp.Auth, from string, to []string, msg []byte) error

type mailer struct {
	cfg       config.SMTPConfig
	appName   string
	rate      decimal.Decimal
	loc       *time.Location
	templates *template.Template
	send      sendFunc
}

// NewMailer returns a notification.Sender delivering HTML mail over SMTP.
// With no SMTP host configured mails are logged and reported as sent.
func NewMailer(cfg config.SMTPConfig, appName string, rate decimal.Decimal, loc *time.Location) (notification.Sender, error) {
	return newMailer(cfg, appName, rate, loc, sendMail)
}

func newMailer(cfg config.SMTPConfig, appName string, rate decimal.Decimal, loc *time.Location, send sendFunc) (*mailer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}
	if loc == nil {
		loc = time.Local
	}
	return &mailer{
		cfg:       cfg,
		appName:   appName,
		rate:      rate,
		loc:       loc,
		templates: tmpl,
		send:      send,
	}, nil
}

type common struct {
	AppName string
	Year    int
}

func (m *mailer) common() common {
	return common{AppName: m.appName, Year: time.Now().In(m.loc).Year()}
}

type saleCommissionData struct {
	common
	SellerName string
	SaleID     int64
	Amount     string
	SoldAt     string
	Commission string
}

func (m *mailer) SendSaleCommission(ctx context.Context, s sale.Sale) bool {
	if s.Seller == nil {
		slog.ErrorContext(ctx, "Sale commission mail without seller", "sale_id", s.ID)
		return false
	}

	data := saleCommissionData{
		common:     m.common(),
		SellerName: s.Seller.Name,
		SaleID:     s.ID,
		Amount:     money.FormatCurrency(s.Amount),
		SoldAt:     s.SoldAt.In(m.loc).Format("02/01/2006 15:04"),
		Commission: money.FormatCurrency(s.CommissionAmount),
	}
	return m.deliver(ctx, s.Seller.Email, "Nova Venda Realizada - Comissão Disponível", "sale_commission.html", data)
}

type dailySellerData struct {
	common
	SellerName  string
	Date        string
	Count       int
	TotalAmount string
	Rate        string
	Commission  string
}

func (m *mailer) SendDailySellerCommission(ctx context.Context, summary report.SellerDailySummary) bool {
	date := displayDate(summary.Date)
	data := dailySellerData{
		common:      m.common(),
		SellerName:  summary.Seller.Name,
		Date:        date,
		Count:       summary.Count,
		TotalAmount: money.FormatCurrency(summary.TotalAmount),
		Rate:        formatRate(m.rate),
		Commission:  money.FormatCurrency(summary.Commission),
	}
	return m.deliver(ctx, summary.Seller.Email, "Resumo de Vendas - "+date, "daily_seller_commission.html", data)
}

type dailyAdminData struct {
	common
	Date        string
	TotalSales  int
	TotalAmount string
	AverageSale string
}

func (m *mailer) SendDailyAdminSummary(ctx context.Context, to string, summary report.DailySalesSummary) bool {
	date := displayDate(summary.Date)
	data := dailyAdminData{
		common:      m.common(),
		Date:        date,
		TotalSales:  summary.TotalSales,
		TotalAmount: money.FormatCurrency(summary.TotalAmount),
		AverageSale: money.FormatCurrency(summary.AverageSale),
	}
	return m.deliver(ctx, to, "Resumo Geral de Vendas - "+date, "daily_admin_summary.html", data)
}

// deliver renders and sends one mail, logging instead of returning failures
func (m *mailer) deliver(ctx context.Context, to, subject, tmpl string, data any) bool {
	var body bytes.Buffer
	if err := m.templates.ExecuteTemplate(&body, tmpl, data); err != nil {
		slog.ErrorContext(ctx, "Failed to render email", "template", tmpl, "to", to, "error", err)
		return false
	}
	if err := m.sendHTML(ctx, to, subject, body.String()); err != nil {
		slog.ErrorContext(ctx, "Failed to send email", "to", to, "subject", subject, "error", err)
		return false
	}
	return true
}

func (m *mailer) sendHTML(ctx context.Context, to, subject, htmlBody string) error {
	// Skip sending if SMTP is not configured
	if m.cfg.Host == "" {
		slog.Warn("SMTP not configured, skipping email send", "to", to, "subject", subject)
		return nil
	}

	from := m.cfg.From

	var headers strings.Builder
	fmt.Fprintf(&headers, "From: %s <%s>\r\n", mime.QEncoding.Encode("UTF-8", m.cfg.FromName), from)
	fmt.Fprintf(&headers, "To: %s\r\n", to)
	fmt.Fprintf(&headers, "Subject: %s\r\n", mime.QEncoding.Encode("UTF-8", subject))
	headers.WriteString("MIME-Version: 1.0\r\n")
	headers.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	headers.WriteString("\r\n")

	message := []byte(headers.String() + htmlBody)

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}
	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)

	if err := m.send(ctx, addr, auth, from, []string{to}, message); err != nil {
		return err
	}
	slog.Info("Email sent successfully", "to", to, "subject", subject)
	return nil
}

// displayDate turns YYYY-MM-DD into dd/mm/yyyy, leaving other input as is
func displayDate(date string) string {
	t, err := time.Parse(utils.DateLayout, date)
	if err != nil {
		return date
	}
	return t.Format(displayDateLayout)
}

// formatRate renders 0.085 as "8,5%"
func formatRate(rate decimal.Decimal) string {
	return strings.Replace(rate.Mul(decimal.NewFromInt(100)).String(), ".", ",", 1) + "%"
}
