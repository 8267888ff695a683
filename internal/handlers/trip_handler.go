package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"ecopool/internal/models"
	"ecopool/internal/services"
	"ecopool/internal/utils"
)

type TripHandler struct {
	tripService *services.TripService
}

func NewTripHandler(tripService *services.TripService) *TripHandler {
	return &TripHandler{tripService: tripService}
}

// CreateTrip publishes a new trip for the authenticated driver
func (h *TripHandler) CreateTrip(c *gin.Context) {
	driverID, ok := callerID(c)
	if !ok {
		return
	}

	var input services.CreateTripInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	trip, err := h.tripService.Create(c.Request.Context(), driverID, &input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, "Trip published successfully", trip)
}

// SearchTrips finds open trips matching a pickup/drop leg
func (h *TripHandler) SearchTrips(c *gin.Context) {
	input := services.SearchTripsInput{}

	var err error
	if input.PickupLat, err = strconv.ParseFloat(c.Query("pickup_lat"), 64); err != nil {
		utils.BadRequestResponse(c, "Invalid or missing pickup_lat")
		return
	}
	if input.PickupLng, err = strconv.ParseFloat(c.Query("pickup_lng"), 64); err != nil {
		utils.BadRequestResponse(c, "Invalid or missing pickup_lng")
		return
	}
	if input.DropLat, err = strconv.ParseFloat(c.Query("drop_lat"), 64); err != nil {
		utils.BadRequestResponse(c, "Invalid or missing drop_lat")
		return
	}
	if input.DropLng, err = strconv.ParseFloat(c.Query("drop_lng"), 64); err != nil {
		utils.BadRequestResponse(c, "Invalid or missing drop_lng")
		return
	}
	if raw := c.Query("date"); raw != "" {
		date, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			utils.BadRequestResponse(c, "Invalid date, expected RFC3339")
			return
		}
		input.Date = &date
	}
	if raw := c.Query("max_distance_km"); raw != "" {
		if input.MaxDistanceKm, err = strconv.ParseFloat(raw, 64); err != nil {
			utils.BadRequestResponse(c, "Invalid max_distance_km")
			return
		}
	}

	trips, err := h.tripService.Search(c.Request.Context(), &input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Trips matched successfully", trips)
}

// GetTrip returns a single trip
func (h *TripHandler) GetTrip(c *gin.Context) {
	tripID, ok := pathID(c, "id")
	if !ok {
		return
	}

	trip, err := h.tripService.GetByID(c.Request.Context(), tripID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Trip retrieved successfully", trip)
}

// ListOpenTrips returns every open trip with a future departure
func (h *TripHandler) ListOpenTrips(c *gin.Context) {
	trips, err := h.tripService.ListOpen(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Open trips retrieved successfully", trips)
}

// MyTrips returns the authenticated driver's trips, paginated
func (h *TripHandler) MyTrips(c *gin.Context) {
	driverID, ok := callerID(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	trips, total, err := h.tripService.ListByDriver(c.Request.Context(), driverID, params)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	meta := &utils.Meta{Pagination: utils.NewPaginationMeta(params, total)}
	utils.SuccessResponseWithMeta(c, "Trips retrieved successfully", trips, meta)
}

// StartTrip moves a trip to ONGOING
func (h *TripHandler) StartTrip(c *gin.Context) {
	tripID, ok := pathID(c, "id")
	if !ok {
		return
	}
	userID, ok := callerID(c)
	if !ok {
		return
	}

	trip, err := h.tripService.Start(c.Request.Context(), tripID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Trip started successfully", trip)
}

// CompleteTrip finishes a trip and fans out rewards
func (h *TripHandler) CompleteTrip(c *gin.Context) {
	tripID, ok := pathID(c, "id")
	if !ok {
		return
	}
	userID, ok := callerID(c)
	if !ok {
		return
	}

	report, err := h.tripService.Complete(c.Request.Context(), tripID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Trip completed successfully", report)
}

// AddExpense appends an expense to the trip's ledger
func (h *TripHandler) AddExpense(c *gin.Context) {
	tripID, ok := pathID(c, "id")
	if !ok {
		return
	}
	userID, ok := callerID(c)
	if !ok {
		return
	}

	var expense models.Expense
	if err := c.ShouldBindJSON(&expense); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	trip, err := h.tripService.AddExpense(c.Request.Context(), tripID, userID, expense)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Expense added successfully", trip)
}
