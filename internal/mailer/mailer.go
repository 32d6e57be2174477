// Package mailer sends invoice emails after a purchase has committed.
// Sending is best-effort: failures are logged and never reach the caller,
// because the purchase is already durable when the mailer runs.
package mailer

import (
	"fmt"
	"net/smtp"
	"strings"

	"go.uber.org/zap"

	"github.com/yuvan-fsdev/billing-system/internal/service"
	"github.com/yuvan-fsdev/billing-system/pkg/config"
	"github.com/yuvan-fsdev/billing-system/pkg/logger"
)

// Mailer delivers invoice summaries over SMTP.
type Mailer struct {
	cfg config.SMTPConfig
}

// New builds a Mailer from SMTP configuration.
func New(cfg config.SMTPConfig) *Mailer {
	return &Mailer{cfg: cfg}
}

// InvoiceCreated implements service.Notifier. When SMTP is not configured
// the send is skipped with a log line, matching a register running without
// an outbound mail relay.
func (m *Mailer) InvoiceCreated(purchaseID uint, recipient string, summary *service.PurchaseSummary) {
	log := logger.GetLogger()

	if m.cfg.Host == "" || m.cfg.FromEmail == "" {
		log.Info("SMTP not configured, skipping invoice email",
			zap.Uint("purchase_id", purchaseID))
		return
	}

	body := buildBody(purchaseID, summary)
	msg := strings.Join([]string{
		"From: " + m.cfg.FromEmail,
		"To: " + recipient,
		fmt.Sprintf("Subject: Your Invoice #%d", purchaseID),
		"",
		body,
	}, "\r\n")

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	if err := smtp.SendMail(addr, auth, m.cfg.FromEmail, []string{recipient}, []byte(msg)); err != nil {
		log.Error("Failed to send invoice email",
			zap.Uint("purchase_id", purchaseID),
			zap.String("recipient", recipient),
			zap.Error(err))
		return
	}

	log.Info("Invoice email sent",
		zap.Uint("purchase_id", purchaseID),
		zap.String("recipient", recipient))
}

func buildBody(purchaseID uint, summary *service.PurchaseSummary) string {
	lines := []string{
		fmt.Sprintf("Invoice #%d", purchaseID),
		"",
		fmt.Sprintf("Total (rounded): %d", summary.RoundedDownNetPrice),
		fmt.Sprintf("Paid amount: %s", summary.PaidAmount),
		fmt.Sprintf("Change due: %s (remainder: %d)", summary.BalancePayableToCustomer, summary.ChangeRemainder),
		"",
		"Line items:",
	}
	for _, item := range summary.Lines {
		lines = append(lines, fmt.Sprintf("- %s (#%s) x%d = %s",
			item.ProductName, item.ProductCode, item.Quantity, item.TotalPriceOfItem))
	}
	lines = append(lines, "", "Thank you for shopping with us.")
	return strings.Join(lines, "\n")
}
