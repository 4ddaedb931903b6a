package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/edusupply/schola-api/internal/jobs"
	"github.com/edusupply/schola-api/internal/models"
	"github.com/edusupply/schola-api/internal/repository"
)

// UserService handles back-office account management
type UserService struct {
	repo         repository.UserRepository
	worker       *jobs.Worker
	emailService *EmailService
	auditSvc     *AuditService
}

func NewUserService(repo repository.UserRepository, worker *jobs.Worker, emailService *EmailService, auditSvc *AuditService) *UserService {
	return &UserService{
		repo:         repo,
		worker:       worker,
		emailService: emailService,
		auditSvc:     auditSvc,
	}
}

func (s *UserService) FindByID(ctx context.Context, id uint) (*models.User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *UserService) List(ctx context.Context, query *repository.ListQuery) ([]models.User, int64, error) {
	return s.repo.List(ctx, query)
}

func (s *UserService) Create(ctx context.Context, user *models.User, password string, actorID uint) error {
	user.Email = strings.ToLower(user.Email)
	if user.Role == "" {
		user.Role = models.RoleOperator
	}
	hashedPassword, err := HashPassword(password)
	if err != nil {
		return err
	}
	user.PasswordHash = hashedPassword
	user.Active = true
	if err := s.repo.Create(ctx, user); err != nil {
		return err
	}

	// Welcome email is best effort.
	created := *user
	s.worker.EnqueueAsync(func(ctx context.Context) error {
		return s.emailService.SendAccountCreated(ctx, &created)
	})

	return s.auditSvc.Log(ctx, actorID, models.AuditActionCreate, "user", user.ID,
		fmt.Sprintf("Created user %s (%s), role %s", user.FullName, user.Email, user.Role), "", "")
}

func (s *UserService) Update(ctx context.Context, user *models.User, actorID uint) error {
	if err := s.repo.Update(ctx, user); err != nil {
		return err
	}
	return s.auditSvc.Log(ctx, actorID, models.AuditActionUpdate, "user", user.ID,
		fmt.Sprintf("Updated user %s", user.Email), "", "")
}

// ToggleActive enables or disables an account
func (s *UserService) ToggleActive(ctx context.Context, id uint, actorID uint) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Active = !user.Active
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	s.auditSvc.Log(ctx, actorID, models.AuditActionUpdate, "user", id,
		fmt.Sprintf("Set active=%t for %s", user.Active, user.Email), "", "")
	return user, nil
}

func (s *UserService) ChangePassword(ctx context.Context, userID uint, currentPassword, newPassword string) error {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if !VerifyPassword(currentPassword, user.PasswordHash) {
		return ErrInvalidPassword
	}
	hashedPassword, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = hashedPassword
	if err := s.repo.Update(ctx, user); err != nil {
		return err
	}
	return s.auditSvc.Log(ctx, userID, models.AuditActionUpdate, "user", userID,
		"Password changed", "", "")
}
