package services

import (
	"context"
	"math"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"ecopool/internal/models"
	"ecopool/internal/repositories/interfaces"
	"ecopool/internal/utils"
	"ecopool/pkg/logger"
)

// RewardResult summarizes what a single reward application granted.
type RewardResult struct {
	CarbonSavedGrams float64 `json:"carbon_saved_grams"`
	CreditsEarned    int     `json:"credits_earned"`
	PointsEarned     int     `json:"points_earned"`
	Level            string  `json:"level"`
}

// RewardService converts completed travel distance into carbon savings,
// ride credits and loyalty points, and applies them to the user document.
// Awarding is best-effort: every failure is logged and reported as a
// zero-effect result, never propagated to the caller.
type RewardService struct {
	userRepo interfaces.UserRepository
	log      *logger.Logger
}

func NewRewardService(userRepo interfaces.UserRepository, log *logger.Logger) *RewardService {
	return &RewardService{userRepo: userRepo, log: log}
}

// Award applies the reward formulas for distanceMeters of shared travel to
// the given user. isDriver currently does not change the formula; both sides
// of a trip earn at the same rate.
func (s *RewardService) Award(ctx context.Context, userID primitive.ObjectID, distanceMeters float64, isDriver bool) *RewardResult {
	if distanceMeters <= 0 {
		return &RewardResult{}
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		s.log.WithError(err).WithUserID(userID).Warn("reward skipped: user lookup failed")
		return &RewardResult{}
	}

	distanceKm := distanceMeters / 1000.0

	// Savings relative to a solo fossil-fuel car over the same distance.
	benchmarkGrams := distanceKm * utils.CarbonGramsPerKmGasCar
	actualGrams := benchmarkGrams * utils.PoolEfficiencyFactor
	carbonGrams := math.Max(0, benchmarkGrams-actualGrams)
	carbonGrams = math.Round(carbonGrams*100) / 100

	credits := int(math.Round(carbonGrams / 1000.0 * utils.CreditsPerKgCO2))
	points := int(math.Round(distanceKm * utils.PointsPerKm))

	newPoints := user.LoyaltyPoints + points
	level := models.LevelForPoints(newPoints, user.Level)

	if err := s.userRepo.ApplyRewardDeltas(ctx, userID, carbonGrams, credits, points, level); err != nil {
		s.log.WithError(err).WithUserID(userID).Error("failed to apply reward deltas")
		return &RewardResult{}
	}

	return &RewardResult{
		CarbonSavedGrams: carbonGrams,
		CreditsEarned:    credits,
		PointsEarned:     points,
		Level:            level,
	}
}
