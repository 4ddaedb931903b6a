package services

import (
	"testing"

	"github.com/edusupply/schola-api/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestEmailService_RenderOverdueReminder(t *testing.T) {
	service := NewEmailService(&config.Config{CompanyName: "Schola Supplies Ltd"})

	data := struct {
		SchoolName    string
		PrincipalName string
		CompanyName   string
		Invoices      []overdueInvoiceLine
		TotalDue      string
	}{
		SchoolName:    "Hillcrest Primary",
		PrincipalName: "J. Mwangi",
		CompanyName:   "Schola Supplies Ltd",
		Invoices: []overdueInvoiceLine{
			{Number: "INV-0042", InvoiceDate: "01/02/2025", Amount: "820.00", Outstanding: "500.00"},
		},
		TotalDue: "500.00",
	}

	body, err := service.renderTemplate("overdue_reminder.html", data)
	assert.NoError(t, err)
	assert.Contains(t, body, "Hillcrest Primary")
	assert.Contains(t, body, "J. Mwangi")
	assert.Contains(t, body, "INV-0042")
	assert.Contains(t, body, "Total due: KES 500.00")
}

func TestEmailService_RenderAccountCreated(t *testing.T) {
	service := NewEmailService(&config.Config{CompanyName: "Schola Supplies Ltd"})

	body, err := service.renderTemplate("account_created.html", struct {
		Name        string
		CompanyName string
	}{Name: "Ann", CompanyName: "Schola Supplies Ltd"})
	assert.NoError(t, err)
	assert.Contains(t, body, "Hello Ann")
	assert.Contains(t, body, "Schola Supplies Ltd")
}
