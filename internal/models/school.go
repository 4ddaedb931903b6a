package models

import (
	"time"
)

// School represents a customer institution buying supplies on credit
type School struct {
	ID             uint    `gorm:"primaryKey" json:"id"`
	Name           string  `gorm:"not null;index" json:"name"`
	PrincipalName  string  `json:"principal_name"`
	PhoneNumber    string  `json:"phone_number"`
	Email          string  `json:"email"`
	ContactDetails string  `json:"contact_details"` // physical address / location
	CreditLimit    float64 `gorm:"type:decimal(15,2);default:0" json:"credit_limit"`

	// Running balances, updated in lockstep by the posting workflows.
	// Invariant: OutstandingBalance = TotalInvoiced - TotalPaid.
	TotalInvoiced      float64 `gorm:"type:decimal(15,2);default:0" json:"total_invoiced"`
	TotalPaid          float64 `gorm:"type:decimal(15,2);default:0" json:"total_paid"`
	OutstandingBalance float64 `gorm:"type:decimal(15,2);default:0" json:"outstanding_balance"`

	// Days it took to settle each fully paid invoice
	PaymentDaysHistory []int `gorm:"serializer:json" json:"payment_days_history"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (School) TableName() string {
	return "schools"
}

// AveragePaymentDays returns the mean of the school's settlement history, 0 when empty
func (s *School) AveragePaymentDays() float64 {
	if len(s.PaymentDaysHistory) == 0 {
		return 0
	}
	sum := 0
	for _, d := range s.PaymentDaysHistory {
		sum += d
	}
	return float64(sum) / float64(len(s.PaymentDaysHistory))
}

// SchoolResponse is the JSON response format for schools
type SchoolResponse struct {
	ID                 uint    `json:"id"`
	Name               string  `json:"name"`
	PrincipalName      string  `json:"principal_name"`
	PhoneNumber        string  `json:"phone_number"`
	Email              string  `json:"email"`
	ContactDetails     string  `json:"contact_details"`
	CreditLimit        float64 `json:"credit_limit"`
	TotalInvoiced      float64 `json:"total_invoiced"`
	TotalPaid          float64 `json:"total_paid"`
	OutstandingBalance float64 `json:"outstanding_balance"`
	AveragePaymentDays float64 `json:"average_payment_days"`
	CreditAvailable    float64 `json:"credit_available"`
}

// ToResponse converts School to SchoolResponse
func (s *School) ToResponse() SchoolResponse {
	return SchoolResponse{
		ID:                 s.ID,
		Name:               s.Name,
		PrincipalName:      s.PrincipalName,
		PhoneNumber:        s.PhoneNumber,
		Email:              s.Email,
		ContactDetails:     s.ContactDetails,
		CreditLimit:        s.CreditLimit,
		TotalInvoiced:      s.TotalInvoiced,
		TotalPaid:          s.TotalPaid,
		OutstandingBalance: s.OutstandingBalance,
		AveragePaymentDays: s.AveragePaymentDays(),
		CreditAvailable:    s.CreditLimit - s.OutstandingBalance,
	}
}
