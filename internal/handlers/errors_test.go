package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/akylbek/payment-system/payment-service/internal/service"
)

func TestWriteErrorStatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		err    error
		status int
		body   string
	}{
		{&service.Error{Kind: service.KindValidation, Message: "bad"}, http.StatusBadRequest, `{"code":"VALIDATION_ERROR","message":"bad"}`},
		{&service.Error{Kind: service.KindBusinessRule, Message: "no"}, http.StatusBadRequest, `{"code":"BUSINESS_RULE","message":"no"}`},
		{&service.Error{Kind: service.KindNotFound, Message: "gone"}, http.StatusNotFound, `{"code":"NOT_FOUND","message":"gone"}`},
		{errors.New("connection refused"), http.StatusInternalServerError, `{"code":"INTERNAL_ERROR","message":"connection refused"}`},
	}

	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		writeError(c, tc.err)

		assert.Equal(t, tc.status, w.Code)
		assert.JSONEq(t, tc.body, w.Body.String())
	}
}
