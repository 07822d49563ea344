package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// BaseResponse is the uniform API envelope
type BaseResponse struct {
	Success bool        `json:"success"`
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// Respond sends the uniform envelope with the given status code
func Respond(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, BaseResponse{
		Success: statusCode/100 == 2,
		Status:  statusCode,
		Message: message,
		Data:    data,
	})
}

// Success sends a 200 response
func Success(c *gin.Context, message string, data interface{}) {
	Respond(c, http.StatusOK, message, data)
}

// Created sends a 201 response
func Created(c *gin.Context, message string, data interface{}) {
	Respond(c, http.StatusCreated, message, data)
}

// NoContent sends a 204-style acknowledgement. The envelope still carries
// the message, so the body is written with a 200 code.
func NoContent(c *gin.Context, message string) {
	Respond(c, http.StatusOK, message, nil)
}

// BadRequest sends a 400 response
func BadRequest(c *gin.Context, message string, data interface{}) {
	Respond(c, http.StatusBadRequest, message, data)
}

// Unauthorized sends a 401 response
func Unauthorized(c *gin.Context, message string) {
	Respond(c, http.StatusUnauthorized, message, nil)
}

// Forbidden sends a 403 response
func Forbidden(c *gin.Context, message string) {
	Respond(c, http.StatusForbidden, message, nil)
}

// NotFound sends a 404 response
func NotFound(c *gin.Context, message string) {
	Respond(c, http.StatusNotFound, message, nil)
}

// InternalServerError sends a 500 response
func InternalServerError(c *gin.Context, message string, data interface{}) {
	Respond(c, http.StatusInternalServerError, message, data)
}
