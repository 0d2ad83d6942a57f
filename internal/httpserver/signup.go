package httpserver

import (
	"errors"
	"net/http"

	"clubsignup/internal/domain"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type signupResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	CustomerID   string `json:"customerId"`
	MembershipID string `json:"membershipId"`
}

type errorResponse struct {
	Success       bool     `json:"success"`
	Error         string   `json:"error"`
	ErrorKind     string   `json:"errorKind,omitempty"`
	Step          string   `json:"step,omitempty"`
	MissingFields []string `json:"missingFields,omitempty"`
	InvalidFields []string `json:"invalidFields,omitempty"`
}

func signupHandler(svc signupProcessor) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := loggerFrom(c)

		var req domain.SignupRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			log.Info("rejected signup body", zap.Error(err))
			c.JSON(http.StatusBadRequest, bindErrorResponse(err))
			return
		}

		res, err := svc.ProcessClubSignup(c.Request.Context(), req)
		if err != nil {
			status, body := signupErrorResponse(err)
			c.JSON(status, body)
			return
		}

		c.JSON(http.StatusOK, signupResponse{
			Success:      true,
			Message:      "Club membership created successfully",
			CustomerID:   res.CustomerID,
			MembershipID: res.MembershipID,
		})
	}
}

func bindErrorResponse(err error) errorResponse {
	resp := errorResponse{
		Error:     "invalid request body",
		ErrorKind: string(domain.KindValidation),
		Step:      string(domain.StepValidating),
	}
	var unknown *domain.UnknownFieldsError
	if errors.As(err, &unknown) {
		resp.Error = unknown.Error()
		resp.InvalidFields = unknown.Fields
	}
	return resp
}

// signupErrorResponse maps a signup failure onto the response envelope.
// Partial ids are never returned.
func signupErrorResponse(err error) (int, errorResponse) {
	e, ok := domain.AsError(err)
	if !ok {
		return http.StatusInternalServerError, errorResponse{
			Error:     "an unexpected error occurred during signup",
			ErrorKind: string(domain.KindUnexpected),
		}
	}
	resp := errorResponse{
		Error:     e.Message,
		ErrorKind: string(e.Kind),
		Step:      string(e.Step),
	}
	if e.Kind == domain.KindValidation {
		resp.MissingFields = e.MissingFields
		resp.InvalidFields = e.InvalidFields
		return http.StatusBadRequest, resp
	}
	return http.StatusInternalServerError, resp
}
