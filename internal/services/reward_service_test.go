package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"ecopool/internal/models"
	"ecopool/pkg/logger"
)

func TestRewardServiceAward(t *testing.T) {
	ctx := context.Background()

	newService := func() (*RewardService, *fakeUserRepo, primitive.ObjectID) {
		userRepo := newFakeUserRepo()
		user := &models.User{
			Name:  "Asha",
			Email: "asha@example.com",
			Roles: []models.Role{models.RolePassenger},
			Level: models.LevelGreenNewbie,
		}
		require.NoError(t, userRepo.Create(ctx, user))
		return NewRewardService(userRepo, logger.NewNop()), userRepo, user.ID
	}

	t.Run("ten kilometer trip", func(t *testing.T) {
		svc, userRepo, userID := newService()

		result := svc.Award(ctx, userID, 10000, true)
		assert.InDelta(t, 480.0, result.CarbonSavedGrams, 0.01)
		assert.Equal(t, 5, result.CreditsEarned)
		assert.Equal(t, 50, result.PointsEarned)

		user, err := userRepo.GetByID(ctx, userID)
		require.NoError(t, err)
		assert.InDelta(t, 480.0, user.CarbonSaved, 0.01)
		assert.Equal(t, 5, user.RideCredits)
		assert.Equal(t, 50, user.LoyaltyPoints)
	})

	t.Run("driver and passenger earn identically", func(t *testing.T) {
		svc, _, userID := newService()
		asDriver := svc.Award(ctx, userID, 10000, true)
		asPassenger := svc.Award(ctx, userID, 10000, false)
		assert.Equal(t, asDriver.CarbonSavedGrams, asPassenger.CarbonSavedGrams)
		assert.Equal(t, asDriver.CreditsEarned, asPassenger.CreditsEarned)
		assert.Equal(t, asDriver.PointsEarned, asPassenger.PointsEarned)
	})

	t.Run("zero distance produces zero deltas", func(t *testing.T) {
		svc, userRepo, userID := newService()
		result := svc.Award(ctx, userID, 0, false)
		assert.Zero(t, result.CarbonSavedGrams)
		assert.Zero(t, result.CreditsEarned)
		assert.Zero(t, result.PointsEarned)

		user, err := userRepo.GetByID(ctx, userID)
		require.NoError(t, err)
		assert.Zero(t, user.CarbonSaved)
	})

	t.Run("totals never decrease", func(t *testing.T) {
		svc, userRepo, userID := newService()
		var lastCarbon float64
		var lastCredits, lastPoints int
		for _, distance := range []float64{10000, 0, 2500, 100000} {
			svc.Award(ctx, userID, distance, false)
			user, err := userRepo.GetByID(ctx, userID)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, user.CarbonSaved, lastCarbon)
			assert.GreaterOrEqual(t, user.RideCredits, lastCredits)
			assert.GreaterOrEqual(t, user.LoyaltyPoints, lastPoints)
			lastCarbon, lastCredits, lastPoints = user.CarbonSaved, user.RideCredits, user.LoyaltyPoints
		}
	})

	t.Run("missing user yields zero result, not an error", func(t *testing.T) {
		svc, _, _ := newService()
		result := svc.Award(ctx, primitive.NewObjectID(), 10000, false)
		assert.Zero(t, result.CarbonSavedGrams)
		assert.Zero(t, result.CreditsEarned)
	})

	t.Run("persistence failure yields zero result", func(t *testing.T) {
		svc, userRepo, userID := newService()
		userRepo.failRewardFor[userID] = true
		result := svc.Award(ctx, userID, 10000, false)
		assert.Zero(t, result.CreditsEarned)
	})

	t.Run("level re-derived from new total", func(t *testing.T) {
		svc, userRepo, userID := newService()
		// 101 km per award earns 505 points.
		svc.Award(ctx, userID, 101000, false)
		user, err := userRepo.GetByID(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, models.LevelRookieSaver, user.Level)
	})
}

func TestLevelForPoints(t *testing.T) {
	assert.Equal(t, models.LevelEcoWarrior, models.LevelForPoints(5001, models.LevelGreenNewbie))
	assert.Equal(t, models.LevelGreenCommuter, models.LevelForPoints(2001, models.LevelGreenNewbie))
	assert.Equal(t, models.LevelRookieSaver, models.LevelForPoints(501, models.LevelGreenNewbie))
	// At or below the lowest threshold the current level is kept.
	assert.Equal(t, models.LevelGreenNewbie, models.LevelForPoints(500, models.LevelGreenNewbie))
	assert.Equal(t, models.LevelGreenNewbie, models.LevelForPoints(0, ""))
}
