package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"ecopool/internal/services"
	"ecopool/internal/utils"
)

func callerID(c *gin.Context) (primitive.ObjectID, bool) {
	value, exists := c.Get("user_id")
	if !exists {
		utils.UnauthorizedResponse(c)
		return primitive.NilObjectID, false
	}
	userID, ok := value.(primitive.ObjectID)
	if !ok {
		utils.UnauthorizedResponse(c)
		return primitive.NilObjectID, false
	}
	return userID, true
}

func pathID(c *gin.Context, param string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(param))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid "+param)
		return primitive.NilObjectID, false
	}
	return id, true
}

// respondServiceError maps domain sentinel errors onto the response
// envelope. Anything unrecognized is a 500.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		utils.NotFoundResponse(c, "Resource")
	case errors.Is(err, services.ErrValidation):
		utils.ValidationErrorResponse(c, err.Error())
	case errors.Is(err, services.ErrFareMismatch):
		utils.ValidationErrorResponse(c, err.Error())
	case errors.Is(err, services.ErrNotAuthorized):
		utils.ForbiddenResponse(c, "You are not allowed to perform this action")
	case errors.Is(err, services.ErrRoleRequired):
		utils.ForbiddenResponse(c, err.Error())
	case errors.Is(err, services.ErrNotEnoughSeats):
		utils.ConflictResponse(c, "Not enough seats available")
	case errors.Is(err, services.ErrSeatsUnavailable):
		utils.ErrorResponse(c, http.StatusConflict, "SEATS_UNAVAILABLE", "Seats are no longer available")
	case errors.Is(err, services.ErrTripNotOpen):
		utils.ConflictResponse(c, "Trip is not open for booking")
	case errors.Is(err, services.ErrTerminalState):
		utils.ConflictResponse(c, "No further changes allowed in the current status")
	default:
		utils.InternalServerErrorResponse(c)
	}
}
