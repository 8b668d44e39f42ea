package webservice

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/facebookgo/grace/gracehttp"

	"github.com/airenas/scribe/internal/pkg/auth"
	"github.com/airenas/scribe/internal/pkg/persistence"
	"github.com/airenas/scribe/internal/pkg/reporting"
	"github.com/airenas/scribe/internal/pkg/roles"
	"github.com/airenas/scribe/internal/pkg/utils"
	"github.com/airenas/scribe/internal/pkg/workflow"

	"github.com/airenas/go-app/pkg/goapp"

	"github.com/labstack/echo-contrib/prometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Tokens mints and verifies bearer credentials
type Tokens interface {
	Mint(id string, role roles.Role) (string, error)
	Verify(token string) (*auth.Identity, error)
}

// UserDB provides user persistence
type UserDB interface {
	InsertUser(ctx context.Context, user *persistence.User) error
	LoadUser(ctx context.Context, id string) (*persistence.User, error)
	LoadUserByUsername(ctx context.Context, username string) (*persistence.User, error)
	ListUsers(ctx context.Context) ([]*persistence.User, error)
}

// AudioDB provides audio record persistence
type AudioDB interface {
	InsertAudio(ctx context.Context, audio *persistence.Audio) error
	ListAudio(ctx context.Context) ([]*persistence.Audio, error)
}

// Workflow executes the gated state transitions
type Workflow interface {
	Assign(ctx context.Context, audioID string, caller *auth.Identity) (*persistence.Audio, error)
	SubmitTranscriber(ctx context.Context, audioID string, caller *auth.Identity,
		text string, isUnsuitable bool, comments string) (*persistence.Transcription, error)
	SubmitController(ctx context.Context, audioID string, caller *auth.Identity,
		isCorrect, isUnsuitable bool, comments string) (*persistence.Transcription, error)
	GetDetail(ctx context.Context, audioID string, caller *auth.Identity) (*workflow.Detail, error)
}

// Reports provides read only aggregates
type Reports interface {
	StatusCounts(ctx context.Context) (map[string]int64, error)
	WorkReport(ctx context.Context) ([]*reporting.WorkItem, error)
	TranscriberStats(ctx context.Context) ([]*persistence.UserTotals, error)
	ControllerStats(ctx context.Context) ([]*persistence.UserTotals, error)
	SelfStats(ctx context.Context, userID string) (*persistence.UserTotals, error)
	ControllerSelfStats(ctx context.Context, userID string) (*persistence.UserTotals, error)
	History(ctx context.Context, audioID string) ([]*reporting.HistoryEntry, error)
}

// Liveness reports backing store readiness
type Liveness interface {
	Live(ctx context.Context) error
}

// Data keeps data required for service work
type Data struct {
	Port      int
	Tokens    Tokens
	Users     UserDB
	Audio     AudioDB
	Workflow  Workflow
	Reports   Reports
	WSHandler WSConnHandler
	Health    Liveness
}

// StartWebServer starts echo web service
func StartWebServer(data *Data) error {
	goapp.Log.Info().Msgf("Starting HTTP SCRIBE service at %d", data.Port)
	if err := validate(data); err != nil {
		return err
	}

	portStr := strconv.Itoa(data.Port)

	e := initRoutes(data)

	e.Server.Addr = ":" + portStr
	e.Server.ReadHeaderTimeout = 5 * time.Second
	e.Server.ReadTimeout = 30 * time.Second
	e.Server.WriteTimeout = 30 * time.Second

	gracehttp.SetLogger(log.New(goapp.Log, "", 0))

	return gracehttp.Serve(e.Server)
}

func validate(data *Data) error {
	if data.Tokens == nil {
		return fmt.Errorf("no tokens")
	}
	if data.Users == nil {
		return fmt.Errorf("no users DB")
	}
	if data.Audio == nil {
		return fmt.Errorf("no audio DB")
	}
	if data.Workflow == nil {
		return fmt.Errorf("no workflow")
	}
	if data.Reports == nil {
		return fmt.Errorf("no reports")
	}
	if data.WSHandler == nil {
		return fmt.Errorf("no WSHandler")
	}
	return nil
}

var promMdlw *prometheus.Prometheus

func init() {
	promMdlw = prometheus.NewPrometheus("scribe", nil)
}

func initRoutes(data *Data) *echo.Echo {
	e := echo.New()
	e.Use(middleware.Logger())
	e.HTTPErrorHandler = errorHandler
	promMdlw.Use(e)

	e.POST("/auth/register", register(data))
	e.POST("/auth/login", login(data))
	e.GET("/live", live(data))
	e.GET("/subscribe", subscribeHandler(data))

	authMdlw := auth.Authenticate(data.Tokens)

	ag := e.Group("/audio", authMdlw)
	ag.POST("", createAudio(data), auth.RequireRole(roles.Admin))
	ag.GET("", listAudio(data), auth.RequireRole(roles.Admin))
	ag.GET("/stats", statusCounts(data), auth.RequireRole(roles.Admin))
	ag.GET("/work-report", workReport(data), auth.RequireRole(roles.Admin))
	ag.GET("/:id", getAudio(data))
	ag.PUT("/:id/assign", assignAudio(data), auth.RequireRole(roles.Transcriber))
	ag.PUT("/:id/transcriber", submitTranscriber(data), auth.RequireRole(roles.Transcriber))
	ag.PUT("/:id/controller", submitController(data), auth.RequireRole(roles.Controller))

	tg := e.Group("/transcriptions", authMdlw)
	tg.POST("", createTranscription(data), auth.RequireRole(roles.Transcriber))
	tg.PUT("/transcriber/:audioId", submitTranscriberByAudio(data), auth.RequireRole(roles.Transcriber))
	tg.PUT("/controller/:audioId", submitControllerByAudio(data), auth.RequireRole(roles.Controller))
	tg.GET("/audio/:audioId", getTranscription(data))
	tg.GET("/stats", verificationStats(data), auth.RequireRole(roles.Admin))
	tg.GET("/history/:audioId", history(data), auth.RequireRole(roles.Admin))
	tg.GET("/user-stats", userStats(data), auth.RequireRole(roles.Transcriber))
	tg.GET("/controller-stats", controllerStats(data), auth.RequireRole(roles.Controller))

	ug := e.Group("/users", authMdlw, auth.RequireRole(roles.Admin))
	ug.GET("", listUsers(data))
	ug.GET("/:id", getUser(data))

	goapp.Log.Info().Msg("Routes:")
	for _, r := range e.Routes() {
		goapp.Log.Info().Msgf("  %s %s", r.Method, r.Path)
	}
	return e
}

type errResp struct {
	Msg string `json:"msg"`
}

// errorHandler maps workflow errors to codes, body is always {"msg": ...}
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code := http.StatusInternalServerError
	msg := "Service error"
	var he *echo.HTTPError
	var fe *utils.ErrField
	switch {
	case errors.As(err, &he):
		code = he.Code
		if s, ok := he.Message.(string); ok {
			msg = s
		}
	case errors.As(err, &fe):
		code, msg = http.StatusBadRequest, fe.Error()
	case errors.Is(err, utils.ErrUnauthorized):
		code, msg = http.StatusUnauthorized, "Token is not valid"
	case errors.Is(err, utils.ErrForbidden):
		code, msg = http.StatusForbidden, "Access denied"
	case errors.Is(err, utils.ErrNotFound):
		code, msg = http.StatusNotFound, "Not found"
	case errors.Is(err, utils.ErrConflict):
		code, msg = http.StatusConflict, "Conflict"
	case errors.Is(err, utils.ErrUnavailable):
		code, msg = http.StatusServiceUnavailable, "Try again later"
	}
	if code >= http.StatusInternalServerError {
		goapp.Log.Error().Err(err).Send()
	} else {
		goapp.Log.Debug().Err(err).Send()
	}
	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}
	_ = c.JSON(code, errResp{Msg: msg})
}

func live(data *Data) func(echo.Context) error {
	return func(c echo.Context) error {
		if data.Health != nil {
			if err := data.Health.Live(c.Request().Context()); err != nil {
				return fmt.Errorf("not live: %v: %w", err, utils.ErrUnavailable)
			}
		}
		return c.JSONBlob(http.StatusOK, []byte(`{"service":"OK"}`))
	}
}
