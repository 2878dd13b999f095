package v1

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/yemektaxi/backend/internal/service"
	"github.com/yemektaxi/backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

type ErrorCode int

// Errors
const (
	UnknownErrorCode ErrorCode = 0

	ValidationErrorCode             ErrorCode = 1000
	EmailAlreadyExistsCode          ErrorCode = 1001
	UserNotFoundCode                ErrorCode = 1002
	PhoneAlreadyExistsCode          ErrorCode = 1003
	IdentityNumberAlreadyExistsCode ErrorCode = 1004
	InvalidCredentialsCode          ErrorCode = 1005
	InvalidOrExpiredTokenCode       ErrorCode = 1006
	InvalidIdentityNumberCode       ErrorCode = 1007
	IdentityNumberMismatchCode      ErrorCode = 1008
	IdentityNotVerifiedCode         ErrorCode = 1009
	EmailAlreadyVerifiedCode        ErrorCode = 1010
	EmailVerificationPendingCode    ErrorCode = 1011
	InvalidOrExpiredCodeCode        ErrorCode = 1012
	OtpCooldownCode                 ErrorCode = 1013
	VerificationRequiredCode        ErrorCode = 1014
	RestaurantAlreadyOwnedCode      ErrorCode = 1015
	RestaurantNameExistsCode        ErrorCode = 1016
	RestaurantEmailExistsCode       ErrorCode = 1017
	RestaurantPhoneExistsCode       ErrorCode = 1018
	UpstreamProviderCode            ErrorCode = 1019
	UnauthorizedCode                ErrorCode = 1020
	IntegrityCheckFailedCode        ErrorCode = 1021
	InvalidRequestBodyCode          ErrorCode = 1022
)

const (
	unknownErrorMessage       = "Beklenmeyen bir hata oluştu."
	validationErrorMessage    = "Doğrulama hatası."
	invalidRequestBodyMessage = "Geçersiz istek gövdesi."
	unauthorizedMessage       = "Yetkisiz erişim."
	integrityFailedMessage    = "İstek bütünlüğü doğrulanamadı."
)

type apiError struct {
	status  int
	code    ErrorCode
	message string
}

var sentinelErrors = []struct {
	target error
	apiError
}{
	{service.ErrUserNotFound, apiError{http.StatusNotFound, UserNotFoundCode, "Kullanıcı bulunamadı."}},
	{service.ErrEmailAlreadyExists, apiError{http.StatusBadRequest, EmailAlreadyExistsCode, "Bu email adresi zaten kayıtlı."}},
	{service.ErrPhoneAlreadyExists, apiError{http.StatusBadRequest, PhoneAlreadyExistsCode, "Bu telefon numarası zaten kayıtlı."}},
	{service.ErrIdentityNumberAlreadyExists, apiError{http.StatusBadRequest, IdentityNumberAlreadyExistsCode, "Bu kimlik numarası zaten kayıtlı."}},
	{service.ErrInvalidCredentials, apiError{http.StatusUnauthorized, InvalidCredentialsCode, "Geçersiz email veya şifre."}},
	{service.ErrInvalidOrExpiredToken, apiError{http.StatusUnauthorized, InvalidOrExpiredTokenCode, "Geçersiz veya süresi dolmuş oturum."}},
	{service.ErrInvalidIdentityNumber, apiError{http.StatusBadRequest, InvalidIdentityNumberCode, "Geçersiz kimlik numarası."}},
	{service.ErrIdentityNumberMismatch, apiError{http.StatusBadRequest, IdentityNumberMismatchCode, "Kimlik numarası kayıtlı numara ile eşleşmiyor."}},
	{service.ErrIdentityNotVerified, apiError{http.StatusBadRequest, IdentityNotVerifiedCode, "Kimlik bilgileri resmi kayıtlarla eşleşmiyor."}},
	{service.ErrEmailAlreadyVerified, apiError{http.StatusBadRequest, EmailAlreadyVerifiedCode, "Email adresi zaten doğrulanmış."}},
	{service.ErrEmailVerificationPending, apiError{http.StatusBadRequest, EmailVerificationPendingCode, "Bu email adresi için zaten bir doğrulama kodu gönderildi."}},
	{service.ErrInvalidOrExpiredCode, apiError{http.StatusBadRequest, InvalidOrExpiredCodeCode, "Kod geçersiz veya süresi dolmuş."}},
	{service.ErrRestaurantAlreadyOwned, apiError{http.StatusBadRequest, RestaurantAlreadyOwnedCode, "Kullanıcının zaten bir restoranı var."}},
	{service.ErrRestaurantNameExists, apiError{http.StatusBadRequest, RestaurantNameExistsCode, "Bu restoran adı zaten kayıtlı."}},
	{service.ErrRestaurantEmailExists, apiError{http.StatusBadRequest, RestaurantEmailExistsCode, "Bu restoran email adresi zaten kayıtlı."}},
	{service.ErrRestaurantPhoneExists, apiError{http.StatusBadRequest, RestaurantPhoneExistsCode, "Bu restoran telefon numarası zaten kayıtlı."}},
}

type cooldownItem struct {
	RemainingTime int `json:"RemainingTime"`
}

type requirementItem struct {
	Requirement string `json:"requirement"`
}

// errorResponse logs err and writes the envelope matching it. Unknown errors become 500.
func errorResponse(c *gin.Context, err error) {
	var (
		cooldown   *service.CooldownError
		required   *service.VerificationRequiredError
		upstream   *service.UpstreamError
		validation *service.ValidationError
	)

	switch {
	case errors.As(err, &validation):
		abortWith(c, http.StatusBadRequest, response{
			Message:   validationErrorMessage,
			ErrorCode: ValidationErrorCode,
			Errors:    []ValidationError{{Field: validation.Field, Message: validation.Message}},
		})
		return
	case errors.As(err, &cooldown):
		logger.Info("otp cooldown active", zap.Int("remaining_time", cooldown.RemainingTime))
		abortWith(c, http.StatusBadRequest, response{
			Message:   "Kod gönderme süresi dolmadı.",
			ErrorCode: OtpCooldownCode,
			Item:      cooldownItem{RemainingTime: cooldown.RemainingTime},
		})
		return
	case errors.As(err, &required):
		logger.Info("verification required", zap.String("requirement", string(required.Requirement)))
		abortWith(c, http.StatusBadRequest, response{
			Message:   fmt.Sprintf("Restoran oluşturmadan önce doğrulama gerekli: %s.", required.Requirement),
			ErrorCode: VerificationRequiredCode,
			Item:      requirementItem{Requirement: string(required.Requirement)},
		})
		return
	case errors.As(err, &upstream):
		logger.Error("upstream provider failed", zap.String("provider", upstream.Provider), zap.Error(upstream.Err))
		abortWith(c, http.StatusBadRequest, response{
			Message:   fmt.Sprintf("%s servisi hatası: %v", upstream.Provider, upstream.Err),
			ErrorCode: UpstreamProviderCode,
		})
		return
	}

	for _, e := range sentinelErrors {
		if errors.Is(err, e.target) {
			logger.Info("request rejected", zap.Int("error_code", int(e.code)), zap.Error(err))
			abortWith(c, e.status, response{Message: e.message, ErrorCode: e.code})
			return
		}
	}

	logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
	abortWith(c, http.StatusInternalServerError, response{Message: unknownErrorMessage, ErrorCode: UnknownErrorCode})
}

func validationErrorResponse(c *gin.Context, err error) {
	var verr validator.ValidationErrors
	if !errors.As(err, &verr) {
		logger.Debug("bind request failed", zap.Error(err))
		abortWith(c, http.StatusBadRequest, response{Message: invalidRequestBodyMessage, ErrorCode: InvalidRequestBodyCode})
		return
	}

	out := make([]ValidationError, len(verr))
	for i, ferr := range verr {
		out[i] = ValidationError{Field: ferr.Field(), Message: msgForTag(ferr.Tag(), ferr.Param())}
	}

	abortWith(c, http.StatusBadRequest, response{
		Message:   validationErrorMessage,
		ErrorCode: ValidationErrorCode,
		Errors:    out,
	})
}

func msgForTag(tag string, value string) string {
	switch tag {
	case "required":
		return "Bu alan zorunludur."
	case "email":
		return "Geçersiz email formatı."
	case "number":
		return "Bu alan sayısal olmalıdır."
	case "min":
		return fmt.Sprintf("Bu alan en az %v karakter olmalıdır.", value)
	case "max":
		return fmt.Sprintf("Bu alan en fazla %v karakter olmalıdır.", value)
	case "len":
		return fmt.Sprintf("Bu alan %v karakter olmalıdır.", value)
	case "phonenumber":
		return "Geçersiz telefon numarası formatı."
	case "tckn":
		return "Geçersiz kimlik numarası."
	case "birthyear":
		return "Yaş 13 ile 120 arasında olmalıdır."
	}
	return tag
}
