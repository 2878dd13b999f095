package v1

import (
	"github.com/gin-gonic/gin"
)

type response struct {
	Success   bool              `json:"success"`
	Message   string            `json:"message"`
	ErrorCode ErrorCode         `json:"errorCode,omitempty"`
	Data      any               `json:"data,omitempty"`
	Item      any               `json:"item,omitempty"`
	Errors    []ValidationError `json:"errors,omitempty"`
} // @name Response

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
} // @name ValidationError

func successResponse(c *gin.Context, status int, message string, data any) {
	c.JSON(status, response{Success: true, Message: message, Data: data})
}

func itemResponse(c *gin.Context, status int, message string, item any) {
	c.JSON(status, response{Success: true, Message: message, Item: item})
}

func abortWith(c *gin.Context, status int, resp response) {
	resp.Success = false
	c.AbortWithStatusJSON(status, resp)
}
