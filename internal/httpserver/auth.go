package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"clubsignup/internal/commerce7"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type testAuthResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Status  int             `json:"status"`
	Data    json.RawMessage `json:"data"`
}

// testAuthHandler probes the upstream credential with one read-only call.
// The credential itself is never logged or echoed.
func testAuthHandler(auth authChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := loggerFrom(c)

		check, err := auth.CheckAuth(c.Request.Context())
		if err != nil {
			log.Warn("upstream auth check failed", zap.Error(err))
			msg := "authentication check failed"
			var apiErr *commerce7.APIError
			if errors.As(err, &apiErr) {
				msg = apiErr.PublicMessage()
			}
			c.JSON(http.StatusInternalServerError, errorResponse{Error: msg})
			return
		}

		data := check.Data
		if len(data) == 0 {
			data = json.RawMessage("null")
		}
		c.JSON(http.StatusOK, testAuthResponse{
			Success: true,
			Message: "Authentication successful",
			Status:  check.Status,
			Data:    data,
		})
	}
}
