package v1

import (
	"errors"
	"io"
	"net/http"

	"github.com/yemektaxi/backend/internal/service"

	"github.com/gin-gonic/gin"
)

func (h *Handler) initVerificationRoutes(api *gin.RouterGroup) {
	authorized := api.Group("", h.userIdentityMiddleware)
	{
		authorized.POST("/CheckUser", h.checkUser)
		authorized.POST("/SendConfirmationEmail", h.sendConfirmationEmail)
		authorized.POST("/VerifyEmail", h.verifyEmail)
		authorized.POST("/SendOtpCode", h.sendOtpCode)
		authorized.POST("/OtpVerification", h.otpVerification)
	}
}

type checkUserRequest struct {
	IdentityNumber string `json:"identityNumber" binding:"required"`
	FirstName      string `json:"firstName" binding:"omitempty,min=2,max=50"`
	LastName       string `json:"lastName" binding:"omitempty,min=2,max=50"`
	YearOfBirth    int    `json:"yearOfBirth" binding:"omitempty,birthyear"`
}

type checkUserResponse struct {
	Verified bool   `json:"verified"`
	Message  string `json:"message"`
}

type verifyCodeRequest struct {
	Code string `json:"code" binding:"required,max=10"`
}

type sendOtpRequest struct {
	PhoneNumber string `json:"phoneNumber" binding:"omitempty,phonenumber"`
}

// @Summary Check identity
// @Tags Verification
// @Description Validate the identity number and confirm it against the national registry
// @ModuleID checkUser
// @Accept  json
// @Produce  json
// @Param input body checkUserRequest true "Identity data, names and birth year default to the registered ones"
// @Success 200 {object} response{item=checkUserResponse}
// @Failure 400 {object} response
// @Failure 401 {object} response
// @Failure 404 {object} response
// @Failure 500 {object} response
// @Security UserAuth
// @Router /CheckUser [post]
func (h *Handler) checkUser(c *gin.Context) {
	userID, err := getUserUUID(c)
	if err != nil {
		errorResponse(c, err)
		return
	}

	var req checkUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationErrorResponse(c, err)
		return
	}

	res, err := h.services.Identities.Check(c.Request.Context(), userID, service.CheckIdentityInput{
		IdentityNumber: req.IdentityNumber,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		YearOfBirth:    req.YearOfBirth,
	})
	if err != nil {
		errorResponse(c, err)
		return
	}

	itemResponse(c, http.StatusOK, "Kimlik doğrulandı.", checkUserResponse{Verified: res.Verified, Message: res.Message})
}

// @Summary Send confirmation email
// @Tags Verification
// @Description Mail a verification code valid for 24 hours
// @ModuleID sendConfirmationEmail
// @Produce  json
// @Success 200 {object} response
// @Failure 400 {object} response
// @Failure 401 {object} response
// @Failure 404 {object} response
// @Failure 500 {object} response
// @Security UserAuth
// @Router /SendConfirmationEmail [post]
func (h *Handler) sendConfirmationEmail(c *gin.Context) {
	userID, err := getUserUUID(c)
	if err != nil {
		errorResponse(c, err)
		return
	}

	if err := h.services.EmailVerifications.Send(c.Request.Context(), userID); err != nil {
		errorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, "Email başarıyla gönderildi.", nil)
}

// @Summary Verify email
// @Tags Verification
// @Description Consume the emailed code
// @ModuleID verifyEmail
// @Accept  json
// @Produce  json
// @Param input body verifyCodeRequest true "Code"
// @Success 200 {object} response
// @Failure 400 {object} response
// @Failure 401 {object} response
// @Failure 404 {object} response
// @Failure 500 {object} response
// @Security UserAuth
// @Router /VerifyEmail [post]
func (h *Handler) verifyEmail(c *gin.Context) {
	userID, err := getUserUUID(c)
	if err != nil {
		errorResponse(c, err)
		return
	}

	var req verifyCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationErrorResponse(c, err)
		return
	}

	if err := h.services.EmailVerifications.Verify(c.Request.Context(), userID, req.Code); err != nil {
		errorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, "Email başarıyla doğrulandı.", nil)
}

// @Summary Send OTP code
// @Tags Verification
// @Description Text a one time code. The registered phone is used when phoneNumber is omitted.
// @ModuleID sendOtpCode
// @Accept  json
// @Produce  json
// @Param input body sendOtpRequest false "Target phone"
// @Success 200 {object} response{item=cooldownItem}
// @Failure 400 {object} response{item=cooldownItem}
// @Failure 401 {object} response
// @Failure 404 {object} response
// @Failure 500 {object} response
// @Security UserAuth
// @Router /SendOtpCode [post]
func (h *Handler) sendOtpCode(c *gin.Context) {
	userID, err := getUserUUID(c)
	if err != nil {
		errorResponse(c, err)
		return
	}

	var req sendOtpRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		validationErrorResponse(c, err)
		return
	}

	remaining, err := h.services.Otps.Send(c.Request.Context(), userID, req.PhoneNumber)
	if err != nil {
		errorResponse(c, err)
		return
	}

	itemResponse(c, http.StatusOK, "Kod gönderildi.", cooldownItem{RemainingTime: remaining})
}

// @Summary Verify OTP code
// @Tags Verification
// @Description Confirm the phone with the texted code
// @ModuleID otpVerification
// @Accept  json
// @Produce  json
// @Param input body verifyCodeRequest true "Code"
// @Success 200 {object} response
// @Failure 400 {object} response
// @Failure 401 {object} response
// @Failure 500 {object} response
// @Security UserAuth
// @Router /OtpVerification [post]
func (h *Handler) otpVerification(c *gin.Context) {
	userID, err := getUserUUID(c)
	if err != nil {
		errorResponse(c, err)
		return
	}

	var req verifyCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationErrorResponse(c, err)
		return
	}

	if err := h.services.Otps.Verify(c.Request.Context(), userID, req.Code); err != nil {
		errorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, "Kod doğrulandı.", nil)
}
