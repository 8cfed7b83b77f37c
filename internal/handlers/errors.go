package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/akylbek/payment-system/payment-service/internal/service"
)

type errorResponse struct {
	Code    service.ErrorKind `json:"code"`
	Message string            `json:"message"`
}

func statusFor(kind service.ErrorKind) int {
	switch kind {
	case service.KindValidation, service.KindBusinessRule:
		return http.StatusBadRequest
	case service.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, err error) {
	var svcErr *service.Error
	if !errors.As(err, &svcErr) {
		svcErr = &service.Error{Kind: service.KindInternal, Message: err.Error()}
	}
	c.JSON(statusFor(svcErr.Kind), errorResponse{Code: svcErr.Kind, Message: svcErr.Message})
}

// NotFound answers any route the router does not know.
func NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, errorResponse{Code: service.KindNotFound, Message: "Endpoint not found"})
}
