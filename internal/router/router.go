package router

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"habitgrid/internal/auth"
	"habitgrid/internal/config"
	"habitgrid/internal/errors"
	"habitgrid/internal/handler"
	"habitgrid/internal/model"
	"habitgrid/internal/repository"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	userRepo repository.UserRepository,
	tokenStore auth.TokenStoreInterface,
	authHandler *handler.AuthHandler,
	habitHandler *handler.HabitHandler,
	trackingHandler *handler.TrackingHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.HTTPErrorHandler = newHTTPErrorHandler(e, cfg)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// Public routes
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/refresh", authHandler.Refresh)
	e.POST("/auth/logout", authHandler.Logout)

	// Secured routes: jwt verification, then subject resolution. Handlers
	// read the resolved user from context and never re-check credentials.
	lookup := func(c echo.Context, claims *auth.Claims) (*model.User, error) {
		return userRepo.FindByID(c.Request().Context(), claims.UserID)
	}
	habits := e.Group("/habits",
		echojwt.WithConfig(echojwt.Config{
			SigningKey: []byte(cfg.JWTSecret),
			NewClaimsFunc: func(c echo.Context) jwt.Claims {
				return new(auth.Claims)
			},
			ErrorHandler: auth.ErrorHandler,
		}),
		auth.UserContext(lookup, tokenStore),
	)

	habits.GET("", habitHandler.List)
	habits.POST("", habitHandler.Create)
	habits.PUT("/:id", habitHandler.Update)
	habits.DELETE("/:id", habitHandler.Delete)

	habits.POST("/:id/track", trackingHandler.Track)
	habits.GET("/:id/track", trackingHandler.GetYear)
	habits.GET("/:id/stats", trackingHandler.GetStats)
}

// newHTTPErrorHandler hides internal error detail unless running in
// development mode, then defers to echo's default handler.
func newHTTPErrorHandler(e *echo.Echo, cfg *config.Config) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if _, ok := err.(*echo.HTTPError); !ok {
			resp := errors.ErrorResponse{
				Error: "internal server error",
				Code:  "INTERNAL_ERROR",
			}
			if cfg.IsDevelopment() {
				resp.Error = err.Error()
			}
			err = echo.NewHTTPError(http.StatusInternalServerError, resp)
		}
		e.DefaultHTTPErrorHandler(err, c)
	}
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
