package service

import (
	"context"
	"fmt"
	"time"

	"crowdfund/internal/middleware"
	"crowdfund/internal/models"
	"crowdfund/internal/repository"
)

type DonationService struct {
	donationRepo repository.DonationRepository
	projectRepo  repository.ProjectRepository
	minDonation  int64
	now          func() time.Time
}

type CreateDonationInput struct {
	UserID    uint
	ProjectID uint
	Amount    int64
}

func NewDonationService(
	donationRepo repository.DonationRepository,
	projectRepo repository.ProjectRepository,
	minDonation int64,
) *DonationService {
	return &DonationService{
		donationRepo: donationRepo,
		projectRepo:  projectRepo,
		minDonation:  minDonation,
		now:          time.Now,
	}
}

// CreateDonation records a contribution. The project must be active and still
// inside its funding window, and the amount must meet the configured minimum.
func (s *DonationService) CreateDonation(ctx context.Context, in CreateDonationInput) (*models.Donation, models.Notices, error) {
	if in.Amount <= 0 {
		return nil, nil, models.NewValidationError("Donation amount must be positive")
	}
	if in.Amount < s.minDonation {
		return nil, nil, models.NewValidationError(fmt.Sprintf("Minimum donation is %d", s.minDonation))
	}

	project, err := s.projectRepo.GetByID(ctx, in.ProjectID)
	if err != nil {
		return nil, nil, err
	}
	if project.Status != models.ProjectStatusActive {
		return nil, nil, models.NewValidationError("Project is not accepting donations")
	}
	if s.now().After(project.EndTime) {
		return nil, nil, models.NewValidationError("Project funding period has ended")
	}

	userID := in.UserID
	donation := &models.Donation{
		ProjectID: in.ProjectID,
		UserID:    &userID,
		Amount:    in.Amount,
	}
	if err := s.donationRepo.Create(ctx, donation); err != nil {
		return nil, nil, err
	}

	middleware.DonationsTotal.Inc()
	middleware.DonationAmount.Observe(float64(in.Amount))

	notices := models.Notices{}.Success("Thank you for your donation")
	if project.TotalDonations+in.Amount >= project.TotalTarget {
		notices = notices.Info("This project is now fully funded")
	}
	return donation, notices, nil
}

func (s *DonationService) ListProjectDonations(ctx context.Context, projectID uint, limit, offset int) ([]*models.Donation, error) {
	if _, err := s.projectRepo.GetByID(ctx, projectID); err != nil {
		return nil, err
	}
	return s.donationRepo.ListByProject(ctx, projectID, limit, offset)
}

func (s *DonationService) ListUserDonations(ctx context.Context, userID uint, limit, offset int) ([]*models.Donation, error) {
	return s.donationRepo.ListByUser(ctx, userID, limit, offset)
}
