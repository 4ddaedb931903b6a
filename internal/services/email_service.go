package services

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"

	"github.com/resend/resend-go/v2"

	"github.com/edusupply/schola-api/internal/config"
	"github.com/edusupply/schola-api/internal/models"
	"github.com/edusupply/schola-api/pkg/logger"
)

//go:embed templates/email/*.html
var emailTemplates embed.FS

type EmailService struct {
	config       *config.Config
	resendClient *resend.Client
}

func NewEmailService(cfg *config.Config) *EmailService {
	client := resend.NewClient(cfg.ResendAPIKey)
	return &EmailService{
		config:       cfg,
		resendClient: client,
	}
}

// overdueInvoiceLine is one invoice row of a reminder email
type overdueInvoiceLine struct {
	Number      string
	InvoiceDate string
	Amount      string
	Outstanding string
	DaysOverdue int
}

// SendOverdueReminder emails a school a summary of its overdue invoices.
// Schools without an email address on file are skipped.
func (s *EmailService) SendOverdueReminder(ctx context.Context, school *models.School, invoices []models.Invoice, overdueDays int) error {
	if school.Email == "" {
		logger.Warn("no email on file, skipping reminder", "school_id", school.ID, "school", school.Name)
		return nil
	}

	var lines []overdueInvoiceLine
	var total float64
	for i := range invoices {
		inv := &invoices[i]
		lines = append(lines, overdueInvoiceLine{
			Number:      inv.InvoiceNumber,
			InvoiceDate: inv.InvoiceDate.Format("02/01/2006"),
			Amount:      fmt.Sprintf("%.2f", inv.TotalRevenue),
			Outstanding: fmt.Sprintf("%.2f", inv.Outstanding()),
			DaysOverdue: overdueDays,
		})
		total += inv.Outstanding()
	}
	if len(lines) == 0 {
		return nil
	}

	data := struct {
		SchoolName    string
		PrincipalName string
		CompanyName   string
		Invoices      []overdueInvoiceLine
		TotalDue      string
	}{
		SchoolName:    school.Name,
		PrincipalName: school.PrincipalName,
		CompanyName:   s.config.CompanyName,
		Invoices:      lines,
		TotalDue:      fmt.Sprintf("%.2f", total),
	}

	body, err := s.renderTemplate("overdue_reminder.html", data)
	if err != nil {
		return err
	}

	params := &resend.SendEmailRequest{
		From:    s.config.FromEmail,
		To:      []string{school.Email},
		Subject: fmt.Sprintf("Payment reminder - %d overdue invoice(s)", len(lines)),
		Html:    body,
	}
	if _, err := s.resendClient.Emails.Send(params); err != nil {
		logger.Error(fmt.Sprintf("Failed to send email to %s: %v", school.Email, err))
		return err
	}

	logger.Info(fmt.Sprintf("📧 [Email Sent] To: %s | Overdue invoices: %d", school.Email, len(lines)))
	return nil
}

// SendAccountCreated welcomes a new back-office user
func (s *EmailService) SendAccountCreated(ctx context.Context, user *models.User) error {
	data := struct {
		Name        string
		CompanyName string
	}{
		Name:        user.FullName,
		CompanyName: s.config.CompanyName,
	}

	body, err := s.renderTemplate("account_created.html", data)
	if err != nil {
		return err
	}

	params := &resend.SendEmailRequest{
		From:    s.config.FromEmail,
		To:      []string{user.Email},
		Subject: fmt.Sprintf("Welcome to %s", s.config.CompanyName),
		Html:    body,
	}
	if _, err := s.resendClient.Emails.Send(params); err != nil {
		logger.Error(fmt.Sprintf("Failed to send email to %s: %v", user.Email, err))
		return err
	}

	logger.Info(fmt.Sprintf("📧 [Email Sent] To: %s | Subject: Welcome", user.Email))
	return nil
}

func (s *EmailService) renderTemplate(name string, data interface{}) (string, error) {
	tmpl, err := template.ParseFS(emailTemplates, "templates/email/"+name)
	if err != nil {
		return "", fmt.Errorf("failed to parse template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}

	return buf.String(), nil
}
