package v1

import (
	"net/http"
	"time"

	"github.com/yemektaxi/backend/internal/domain"
	"github.com/yemektaxi/backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func (h *Handler) initAuthRoutes(api *gin.RouterGroup) {
	api.POST("/Signup", h.signup)
	api.POST("/Login", h.login)
	api.GET("/RefreshToken", h.refreshToken)
	api.POST("/RefreshToken", h.refreshToken)
	api.GET("/Me", h.userIdentityMiddleware, h.me)
}

type signupRequest struct {
	FirstName      string `json:"firstName" binding:"required,min=2,max=50"`
	LastName       string `json:"lastName" binding:"required,min=2,max=50"`
	Email          string `json:"email" binding:"required,email,max=255"`
	PhoneNumber    string `json:"phoneNumber" binding:"required,phonenumber"`
	Password       string `json:"password" binding:"required,min=6,max=72"`
	IdentityNumber string `json:"identityNumber" binding:"omitempty,tckn"`
	YearOfBirth    int    `json:"yearOfBirth" binding:"required,birthyear"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type refreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" form:"refreshToken" binding:"required"`
}

type userResponse struct {
	ID                 uuid.UUID  `json:"id"`
	FirstName          string     `json:"firstName"`
	LastName           string     `json:"lastName"`
	Email              string     `json:"email"`
	PhoneNumber        string     `json:"phoneNumber"`
	YearOfBirth        int        `json:"yearOfBirth"`
	EmailVerification  bool       `json:"emailVerification"`
	PhoneVerification  bool       `json:"phoneVerification"`
	IdentityChecked    bool       `json:"identityChecked"`
	ConfirmationStatus string     `json:"confirmationStatus"`
	Status             string     `json:"status"`
	IsNewUser          bool       `json:"isNewUser"`
	RestaurantID       *uuid.UUID `json:"restaurantId,omitempty"`
	LastLoginDate      *time.Time `json:"lastLoginDate,omitempty"`
}

type authResponse struct {
	AccessToken        string       `json:"accessToken"`
	AccessTokenExpiry  time.Time    `json:"accessTokenExpiry"`
	RefreshToken       string       `json:"refreshToken"`
	RefreshTokenExpiry time.Time    `json:"refreshTokenExpiry"`
	User               userResponse `json:"user"`
	Roles              []string     `json:"roles"`
}

type profileResponse struct {
	User  userResponse `json:"user"`
	Roles []string     `json:"roles"`
}

func newUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:                 u.ID,
		FirstName:          u.FirstName,
		LastName:           u.LastName,
		Email:              u.Email,
		PhoneNumber:        u.PhoneNumber,
		YearOfBirth:        u.YearOfBirth,
		EmailVerification:  u.EmailVerification,
		PhoneVerification:  u.PhoneVerification,
		IdentityChecked:    u.IdentityChecked,
		ConfirmationStatus: string(u.ConfirmationStatus),
		Status:             string(u.Status),
		IsNewUser:          u.IsNewUser,
		RestaurantID:       u.RestaurantID,
		LastLoginDate:      u.LastLoginDate,
	}
}

func newAuthResponse(res *service.AuthResult) authResponse {
	return authResponse{
		AccessToken:        res.Tokens.AccessToken,
		AccessTokenExpiry:  res.Tokens.AccessExpiresAt,
		RefreshToken:       res.Tokens.RefreshToken,
		RefreshTokenExpiry: res.Tokens.RefreshExpiresAt,
		User:               newUserResponse(res.User),
		Roles:              res.Roles,
	}
}

// @Summary Signup
// @Tags Auth
// @Description Register a new user. The account starts in Pending confirmation.
// @ModuleID signup
// @Accept  json
// @Produce  json
// @Param input body signupRequest true "Signup data"
// @Success 201 {object} response{data=authResponse}
// @Failure 400 {object} response
// @Failure 500 {object} response
// @Router /Signup [post]
func (h *Handler) signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationErrorResponse(c, err)
		return
	}

	res, err := h.services.Auth.Signup(c.Request.Context(), service.SignupInput{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		PhoneNumber:    req.PhoneNumber,
		Password:       req.Password,
		IdentityNumber: req.IdentityNumber,
		YearOfBirth:    req.YearOfBirth,
	})
	if err != nil {
		errorResponse(c, err)
		return
	}

	successResponse(c, http.StatusCreated, "Kayıt işleminiz alındı.", newAuthResponse(res))
}

// @Summary Login
// @Tags Auth
// @Description Authenticate an approved user by email and password
// @ModuleID login
// @Accept  json
// @Produce  json
// @Param input body loginRequest true "Credentials"
// @Success 200 {object} response{data=authResponse}
// @Failure 400 {object} response
// @Failure 401 {object} response
// @Failure 500 {object} response
// @Router /Login [post]
func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationErrorResponse(c, err)
		return
	}

	res, err := h.services.Auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		errorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, "Giriş başarılı.", newAuthResponse(res))
}

// @Summary Refresh token
// @Tags Auth
// @Description Rotate the token pair. GET reads the refreshToken query parameter, POST the JSON body.
// @ModuleID refreshToken
// @Accept  json
// @Produce  json
// @Param refreshToken query string false "Refresh token (GET)"
// @Param input body refreshTokenRequest false "Refresh token (POST)"
// @Success 200 {object} response{data=authResponse}
// @Failure 400 {object} response
// @Failure 401 {object} response
// @Failure 500 {object} response
// @Router /RefreshToken [get]
// @Router /RefreshToken [post]
func (h *Handler) refreshToken(c *gin.Context) {
	var req refreshTokenRequest

	var err error
	if c.Request.Method == http.MethodGet {
		err = c.ShouldBindQuery(&req)
	} else {
		err = c.ShouldBindJSON(&req)
	}
	if err != nil {
		validationErrorResponse(c, err)
		return
	}

	res, err := h.services.Auth.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		errorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, "Oturum yenilendi.", newAuthResponse(res))
}

// @Summary Me
// @Tags Auth
// @Description Profile, roles and verification state of the authenticated user
// @ModuleID me
// @Produce  json
// @Success 200 {object} response{data=profileResponse}
// @Failure 401 {object} response
// @Failure 404 {object} response
// @Failure 500 {object} response
// @Security UserAuth
// @Router /Me [get]
func (h *Handler) me(c *gin.Context) {
	userID, err := getUserUUID(c)
	if err != nil {
		errorResponse(c, err)
		return
	}

	profile, err := h.services.Auth.Me(c.Request.Context(), userID)
	if err != nil {
		errorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, "Kullanıcı bilgileri.", profileResponse{
		User:  newUserResponse(profile.User),
		Roles: profile.Roles,
	})
}
