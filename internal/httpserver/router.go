package httpserver

import (
	"context"
	"time"

	"clubsignup/internal/commerce7"
	"clubsignup/internal/config"
	"clubsignup/internal/domain"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type signupProcessor interface {
	ProcessClubSignup(ctx context.Context, req domain.SignupRequest) (*domain.SignupResult, error)
}

type authChecker interface {
	CheckAuth(ctx context.Context) (*commerce7.AuthCheck, error)
}

// Deps are the services behind the HTTP routes.
type Deps struct {
	Signup signupProcessor
	Auth   authChecker
}

// buildRouter wires routes for the API.
func buildRouter(cfg config.Config, logger *zap.Logger, deps Deps) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(requestID(), requestLogger(logger), gin.Recovery())
	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", requestIDHeader},
		ExposeHeaders:    []string{requestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/healthz", healthHandler)

	limiter := newIPRateLimiter(cfg.MaxRequestsPerMin, logger)
	signup := signupHandler(deps.Signup)
	testAuth := testAuthHandler(deps.Auth)

	// The signup UI has shipped against both the bare and the /api paths.
	for _, prefix := range []string{"", "/api"} {
		router.POST(prefix+"/club-signup", limiter.middleware(), signup)
		router.GET(prefix+"/test-auth", testAuth)
	}

	return router
}
