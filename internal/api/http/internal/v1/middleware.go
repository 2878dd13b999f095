package v1

import (
	"errors"
	"net/http"
	"strings"

	"github.com/yemektaxi/backend/internal/integrity"
	"github.com/yemektaxi/backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	authorizationHeader = "Authorization"
	userCtx             = "userId"
)

var errEmptyAuthHeader = errors.New("empty auth header")

func (h *Handler) userIdentityMiddleware(c *gin.Context) {
	id, err := h.parseAuthHeader(c)
	if err != nil {
		if errors.Is(err, errEmptyAuthHeader) {
			abortWith(c, http.StatusUnauthorized, response{Message: unauthorizedMessage, ErrorCode: UnauthorizedCode})
			return
		}
		if !errors.Is(err, jwt.ErrTokenExpired) {
			logger.Info("parse auth header failed", zap.Error(err))
		}
		abortWith(c, http.StatusUnauthorized, response{
			Message:   "Geçersiz veya süresi dolmuş oturum.",
			ErrorCode: InvalidOrExpiredTokenCode,
		})
		return
	}

	c.Set(userCtx, id)
	c.Next()
}

func (h *Handler) parseAuthHeader(c *gin.Context) (uuid.UUID, error) {
	header := c.GetHeader(authorizationHeader)
	if header == "" {
		return uuid.Nil, errEmptyAuthHeader
	}

	headerParts := strings.Split(header, " ")
	if len(headerParts) != 2 || headerParts[0] != "Bearer" {
		return uuid.Nil, errors.New("invalid auth header")
	}

	if len(headerParts[1]) == 0 {
		return uuid.Nil, errors.New("token is empty")
	}

	claims, err := h.tokenManager.ParseAccess(headerParts[1])
	if err != nil {
		return uuid.Nil, err
	}

	return uuid.Parse(claims.UserID)
}

func getUserUUID(c *gin.Context) (uuid.UUID, error) {
	id, ok := c.Get(userCtx)
	if !ok {
		return uuid.Nil, errors.New("user id not found")
	}

	userID, ok := id.(uuid.UUID)
	if !ok {
		return uuid.Nil, errors.New("user id has unexpected type")
	}

	return userID, nil
}

// integrityMiddleware rejects requests whose X-Integrity header is not derived
// from the current or previous minute window.
func (h *Handler) integrityMiddleware(c *gin.Context) {
	if !h.integrity.Check(c.GetHeader(integrity.HeaderName)) {
		logger.Info("integrity check failed", zap.String("ip", c.ClientIP()), zap.String("path", c.FullPath()))
		abortWith(c, http.StatusForbidden, response{Message: integrityFailedMessage, ErrorCode: IntegrityCheckFailedCode})
		return
	}

	c.Next()
}
