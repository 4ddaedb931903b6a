package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"

	"github.com/edusupply/schola-api/internal/models"
	"github.com/edusupply/schola-api/internal/repository"
	"github.com/edusupply/schola-api/internal/storage"

	"gorm.io/gorm"
)

// PaymentService reads posted payments and manages their receipt scans.
// Recording a payment goes through the posting workflow.
type PaymentService struct {
	repo     repository.PaymentRepository
	storage  *storage.LocalStorage
	auditSvc *AuditService
}

func NewPaymentService(repo repository.PaymentRepository, storage *storage.LocalStorage, auditSvc *AuditService) *PaymentService {
	return &PaymentService{
		repo:     repo,
		storage:  storage,
		auditSvc: auditSvc,
	}
}

func (s *PaymentService) FindByID(ctx context.Context, id uint) (*models.Payment, error) {
	payment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return payment, nil
}

func (s *PaymentService) List(ctx context.Context, query *repository.ListQuery) ([]models.Payment, int64, error) {
	return s.repo.List(ctx, query)
}

// AttachReceipt stores an uploaded cheque or deposit-slip scan against a payment
func (s *PaymentService) AttachReceipt(ctx context.Context, paymentID uint, file multipart.File, header *multipart.FileHeader, actorID uint) (*models.Payment, error) {
	payment, err := s.FindByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	path, err := s.storage.Upload(file, header, "receipts")
	if err != nil {
		return nil, fmt.Errorf("failed to store receipt: %w", err)
	}

	payment.ReceiptPath = &path
	if err := s.repo.Update(ctx, payment); err != nil {
		return nil, err
	}

	s.auditSvc.Log(ctx, actorID, models.AuditActionUpdate, "payment", payment.ID,
		"Attached receipt scan", "", "")
	return payment, nil
}

// ReceiptPath resolves the stored receipt file for download
func (s *PaymentService) ReceiptPath(ctx context.Context, paymentID uint) (string, error) {
	payment, err := s.FindByID(ctx, paymentID)
	if err != nil {
		return "", err
	}
	if payment.ReceiptPath == nil || *payment.ReceiptPath == "" {
		return "", ErrNotFound
	}
	return s.storage.FullPath(*payment.ReceiptPath), nil
}
