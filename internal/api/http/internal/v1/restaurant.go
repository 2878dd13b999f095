package v1

import (
	"net/http"

	"github.com/yemektaxi/backend/internal/domain"
	"github.com/yemektaxi/backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func (h *Handler) initRestaurantRoutes(api *gin.RouterGroup) {
	api.POST("/SaveRestaurant", h.userIdentityMiddleware, h.saveRestaurant)
}

type saveRestaurantRequest struct {
	Name        string `json:"name" binding:"required,min=2,max=100"`
	Email       string `json:"email" binding:"required,email,max=255"`
	PhoneNumber string `json:"phoneNumber" binding:"required,phonenumber"`
	Address     string `json:"address" binding:"required,max=500"`
	Description string `json:"description" binding:"max=1000"`
}

type restaurantResponse struct {
	ID                 uuid.UUID `json:"id"`
	OwnerID            uuid.UUID `json:"ownerId"`
	Name               string    `json:"name"`
	Email              string    `json:"email"`
	PhoneNumber        string    `json:"phoneNumber"`
	Address            string    `json:"address"`
	Description        string    `json:"description"`
	ConfirmationStatus string    `json:"confirmationStatus"`
}

func newRestaurantResponse(r *domain.Restaurant) restaurantResponse {
	return restaurantResponse{
		ID:                 r.ID,
		OwnerID:            r.OwnerID,
		Name:               r.Name,
		Email:              r.Email,
		PhoneNumber:        r.PhoneNumber,
		Address:            r.Address,
		Description:        r.Description,
		ConfirmationStatus: string(r.ConfirmationStatus),
	}
}

// @Summary Save restaurant
// @Tags Restaurants
// @Description Create the restaurant of a fully verified user and grant the RestaurantOwner role
// @ModuleID saveRestaurant
// @Accept  json
// @Produce  json
// @Param input body saveRestaurantRequest true "Restaurant data"
// @Success 201 {object} response{data=restaurantResponse}
// @Failure 400 {object} response{item=requirementItem}
// @Failure 401 {object} response
// @Failure 404 {object} response
// @Failure 500 {object} response
// @Security UserAuth
// @Router /SaveRestaurant [post]
func (h *Handler) saveRestaurant(c *gin.Context) {
	userID, err := getUserUUID(c)
	if err != nil {
		errorResponse(c, err)
		return
	}

	var req saveRestaurantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationErrorResponse(c, err)
		return
	}

	restaurant, err := h.services.Restaurants.Create(c.Request.Context(), userID, service.CreateRestaurantInput{
		Name:        req.Name,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Address:     req.Address,
		Description: req.Description,
	})
	if err != nil {
		errorResponse(c, err)
		return
	}

	successResponse(c, http.StatusCreated, "Restoran kaydı alındı.", newRestaurantResponse(restaurant))
}
