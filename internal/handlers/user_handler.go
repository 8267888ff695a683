package handlers

import (
	"github.com/gin-gonic/gin"

	"ecopool/internal/models"
	"ecopool/internal/services"
	"ecopool/internal/utils"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Me returns the authenticated user's profile
func (h *UserHandler) Me(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	user, err := h.userService.GetByID(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Profile retrieved successfully", user)
}

// UpdateProfile patches the authenticated user's profile
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	var input services.UpdateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), userID, &input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Profile updated successfully", user)
}

// SubmitVerification files driver documents for review
func (h *UserHandler) SubmitVerification(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	var details models.VerificationDetails
	if err := c.ShouldBindJSON(&details); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	if err := h.userService.SubmitVerification(c.Request.Context(), userID, details); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Verification submitted for review", nil)
}

// ReviewVerification records an admin decision on a pending verification
func (h *UserHandler) ReviewVerification(c *gin.Context) {
	subjectID, ok := pathID(c, "id")
	if !ok {
		return
	}
	reviewerID, ok := callerID(c)
	if !ok {
		return
	}

	var request struct {
		Approve bool `json:"approve"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	if err := h.userService.ReviewVerification(c.Request.Context(), reviewerID, subjectID, request.Approve); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Verification reviewed", nil)
}
