package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Role string
type VerificationStatus string

const (
	RoleTraveller Role = "TRAVELLER"
	RolePassenger Role = "PASSENGER"
	RoleAdmin     Role = "ADMIN"

	VerificationUnverified VerificationStatus = "UNVERIFIED"
	VerificationPending    VerificationStatus = "PENDING"
	VerificationVerified   VerificationStatus = "VERIFIED"
	VerificationRejected   VerificationStatus = "REJECTED"
)

// Loyalty levels, derived purely from cumulative loyalty points.
const (
	LevelGreenNewbie   = "Green Newbie"
	LevelRookieSaver   = "Rookie Saver"
	LevelGreenCommuter = "Green Commuter"
	LevelEcoWarrior    = "Eco-Warrior"
)

type VerificationDetails struct {
	LicenseNumber string `json:"license_number" bson:"license_number"`
	VehiclePlate  string `json:"vehicle_plate" bson:"vehicle_plate"`
	VehicleModel  string `json:"vehicle_model" bson:"vehicle_model"`
	DocumentURL   string `json:"document_url" bson:"document_url"`
}

// User is an account holding one or more roles simultaneously; each role is a
// separate identity at login, so authorization is a membership test on the
// role set rather than a single-type comparison.
type User struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name         string             `json:"name" bson:"name" validate:"required"`
	Email        string             `json:"email" bson:"email" validate:"required,email"`
	Password     string             `json:"-" bson:"password"`
	Roles        []Role             `json:"roles" bson:"roles"`
	Phone        string             `json:"phone" bson:"phone"`
	ProfileImage string             `json:"profile_image" bson:"profile_image"`
	UPIID        string             `json:"upi_id" bson:"upi_id"`

	RatingAvg  float64 `json:"rating_avg" bson:"rating_avg"`
	TrustScore int     `json:"trust_score" bson:"trust_score"` // clamped to [0,100]

	CarbonSaved   float64 `json:"carbon_saved" bson:"carbon_saved"` // grams, never decreases
	RideCredits   int     `json:"ride_credits" bson:"ride_credits"`
	LoyaltyPoints int     `json:"loyalty_points" bson:"loyalty_points"`
	Level         string  `json:"level" bson:"level"`

	IsVerified          bool                `json:"is_verified" bson:"is_verified"`
	VerificationStatus  VerificationStatus  `json:"verification_status" bson:"verification_status"`
	VerificationDetails VerificationDetails `json:"verification_details" bson:"verification_details"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// HasRole reports membership in the account's capability set.
func (u *User) HasRole(role Role) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// LevelForPoints maps a loyalty point total to its tier, highest threshold
// wins. Totals at or below the lowest threshold keep the current level.
func LevelForPoints(points int, current string) string {
	switch {
	case points > 5000:
		return LevelEcoWarrior
	case points > 2000:
		return LevelGreenCommuter
	case points > 500:
		return LevelRookieSaver
	}
	if current == "" {
		return LevelGreenNewbie
	}
	return current
}

// ClampTrustScore keeps the reputation figure inside [0,100].
func ClampTrustScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
