package admin

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"pctracer-svc/src/internal/config"
	"pctracer-svc/src/internal/models"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

type Service interface {
	List(ctx context.Context) ([]Summary, error)
	Create(ctx context.Context, req CreateRequest) (*Admin, error)
	Delete(ctx context.Context, id string) error
	UpdatePassword(ctx context.Context, id, password string) error
	Authenticate(ctx context.Context, email, password string) (*Admin, error)
	EnsureDefaultAdmin(ctx context.Context, seed *config.SeedSettings) (bool, error)
}

type adminService struct {
	adminRepository Repository
	cost            int
	minPassword     int
}

func NewAdminService(adminRepository Repository, cfg *config.SecuritySettings) Service {
	cost := cfg.BcryptCost
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &adminService{
		adminRepository: adminRepository,
		cost:            cost,
		minPassword:     cfg.MinPasswordLn,
	}
}

func (s *adminService) List(ctx context.Context) ([]Summary, error) {
	return s.adminRepository.List(ctx)
}

func (s *adminService) Create(ctx context.Context, req CreateRequest) (*Admin, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: name, email and password are required", models.ErrInvalidParams)
	}

	_, err := s.adminRepository.FindByEmail(ctx, req.Email)
	switch {
	case err == nil:
		return nil, fmt.Errorf("%w: admin with email %s already exists", models.ErrDuplicateRecord, req.Email)
	case !errors.Is(err, models.ErrAdminNotFound):
		return nil, err
	}

	hash, err := s.hash(req.Password)
	if err != nil {
		return nil, err
	}

	admin := &Admin{Name: req.Name, Email: req.Email, Password: hash}
	if err := s.adminRepository.Create(ctx, admin); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"admin_id": admin.ID.Hex(),
		"email":    admin.Email,
	}).Info("Admin created")
	return admin, nil
}

func (s *adminService) Delete(ctx context.Context, id string) error {
	objectID, err := parseID(id)
	if err != nil {
		return err
	}

	if err := s.adminRepository.DeleteByID(ctx, objectID); err != nil {
		return err
	}

	logrus.WithField("admin_id", id).Info("Admin deleted")
	return nil
}

func (s *adminService) UpdatePassword(ctx context.Context, id, password string) error {
	if utf8.RuneCountInString(password) < s.minPassword {
		return fmt.Errorf("%w: password must be at least %d characters", models.ErrInvalidParams, s.minPassword)
	}

	objectID, err := parseID(id)
	if err != nil {
		return err
	}

	hash, err := s.hash(password)
	if err != nil {
		return err
	}

	if err := s.adminRepository.UpdatePassword(ctx, objectID, hash); err != nil {
		return err
	}

	logrus.WithField("admin_id", id).Info("Admin password updated")
	return nil
}

// Authenticate returns ErrAdminNotFound for an unknown email and ErrWrongPassword
// when the hash does not match.
func (s *adminService) Authenticate(ctx context.Context, email, password string) (*Admin, error) {
	admin, err := s.adminRepository.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(password)); err != nil {
		return nil, models.ErrWrongPassword
	}
	return admin, nil
}

// EnsureDefaultAdmin creates the seed admin when no admin exists and reports
// whether it did.
func (s *adminService) EnsureDefaultAdmin(ctx context.Context, seed *config.SeedSettings) (bool, error) {
	count, err := s.adminRepository.Count(ctx)
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	_, err = s.Create(ctx, CreateRequest{
		Name:     seed.AdminName,
		Email:    seed.AdminEmail,
		Password: seed.AdminPassword,
	})
	if err != nil {
		return false, err
	}

	logrus.WithField("email", seed.AdminEmail).Warn("Default admin created, change its password")
	return true, nil
}

func (s *adminService) hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", fmt.Errorf("%w: password must not exceed 72 bytes", models.ErrInvalidParams)
	}
	if err != nil {
		logrus.WithError(err).Error("Failed to hash password")
		return "", fmt.Errorf("%w: %v", models.ErrPasswordHasing, err)
	}
	return string(hash), nil
}

func parseID(id string) (primitive.ObjectID, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q is not a valid admin id", models.ErrInvalidID, id)
	}
	return objectID, nil
}
