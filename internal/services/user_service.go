package services

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"ecopool/internal/models"
	"ecopool/internal/repositories/interfaces"
	"ecopool/internal/utils"
	"ecopool/pkg/logger"
)

// UserService covers profile access, role management and the driver
// verification flow with its trust-score side effects.
type UserService struct {
	userRepo interfaces.UserRepository
	notifier *NotificationService
	log      *logger.Logger
}

func NewUserService(userRepo interfaces.UserRepository, notifier *NotificationService, log *logger.Logger) *UserService {
	return &UserService{userRepo: userRepo, notifier: notifier, log: log}
}

func (s *UserService) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	return user, nil
}

type UpdateProfileInput struct {
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	ProfileImage string `json:"profile_image"`
	UPIID        string `json:"upi_id"`
}

func (s *UserService) UpdateProfile(ctx context.Context, id primitive.ObjectID, input *UpdateProfileInput) (*models.User, error) {
	updates := map[string]interface{}{}
	if input.Name != "" {
		updates["name"] = input.Name
	}
	if input.Phone != "" {
		updates["phone"] = input.Phone
	}
	if input.ProfileImage != "" {
		updates["profile_image"] = input.ProfileImage
	}
	if input.UPIID != "" {
		updates["upi_id"] = input.UPIID
	}
	if len(updates) == 0 {
		return nil, fmt.Errorf("%w: nothing to update", ErrValidation)
	}

	if err := s.userRepo.Update(ctx, id, updates); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return s.GetByID(ctx, id)
}

// SubmitVerification files a driver's documents and moves the account to
// PENDING review.
func (s *UserService) SubmitVerification(ctx context.Context, id primitive.ObjectID, details models.VerificationDetails) error {
	if details.LicenseNumber == "" || details.VehiclePlate == "" {
		return fmt.Errorf("%w: license number and vehicle plate are required", ErrValidation)
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return ErrNotFound
	}
	if user.VerificationStatus == models.VerificationVerified {
		return fmt.Errorf("%w: already verified", ErrValidation)
	}

	updates := map[string]interface{}{
		"verification_status":  models.VerificationPending,
		"verification_details": details,
	}
	if err := s.userRepo.Update(ctx, id, updates); err != nil {
		return fmt.Errorf("failed to submit verification: %w", err)
	}
	return nil
}

// ReviewVerification records an admin's decision and adjusts the subject's
// trust score accordingly.
func (s *UserService) ReviewVerification(ctx context.Context, reviewerID, subjectID primitive.ObjectID, approve bool) error {
	reviewer, err := s.userRepo.GetByID(ctx, reviewerID)
	if err != nil {
		return ErrNotFound
	}
	if !reviewer.HasRole(models.RoleAdmin) {
		return ErrRoleRequired
	}

	subject, err := s.userRepo.GetByID(ctx, subjectID)
	if err != nil {
		return ErrNotFound
	}
	if subject.VerificationStatus != models.VerificationPending {
		return fmt.Errorf("%w: no pending verification", ErrValidation)
	}

	status := models.VerificationRejected
	delta := utils.TrustDeltaRejected
	title := "Verification rejected"
	body := "Your driver verification was rejected. Check your documents and resubmit."
	if approve {
		status = models.VerificationVerified
		delta = utils.TrustDeltaVerified
		title = "Verification approved"
		body = "Your driver verification was approved. You can now publish trips."
	}

	if err := s.userRepo.SetVerification(ctx, subjectID, status, approve); err != nil {
		return fmt.Errorf("failed to set verification: %w", err)
	}

	newScore := models.ClampTrustScore(subject.TrustScore + delta)
	if err := s.userRepo.SetTrustScore(ctx, subjectID, newScore); err != nil {
		s.log.WithError(err).WithUserID(subjectID).Error("failed to adjust trust score")
	}

	s.notifier.Dispatch(ctx, subjectID, models.NotificationTypeSystem, title, body, nil, "")
	return nil
}
