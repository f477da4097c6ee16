package services

import (
	"fmt"
	"os"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/alphabatem/common/context"

	_ "github.com/deutschai/deutschai_api/docs"
	"github.com/deutschai/deutschai_api/services/handlers"
	"github.com/deutschai/deutschai_api/shared"
)

// HttpService owns the public API surface. Handlers stay thin; every
// domain decision lives in the services behind them.
type HttpService struct {
	context.DefaultService

	authSvc       *AuthService
	userSvc       *UserService
	progressSvc   *ProgressService
	vocabSvc      *VocabularyService
	tutorSvc      *TutorService
	rateLimitSvc  *RateLimitService
	monitoringSvc *MonitoringService

	port   int
	server *fiber.App
}

const HTTP_SVC = "http_svc"

func (svc HttpService) Id() string {
	return HTTP_SVC
}

func (svc *HttpService) Configure(ctx *context.Context) error {
	if port := os.Getenv("HTTP_PORT"); port != "" {
		var err error
		if svc.port, err = strconv.Atoi(port); err != nil {
			return err
		}
	} else {
		svc.port = 8000
	}

	return svc.DefaultService.Configure(ctx)
}

func (svc *HttpService) Start() error {
	svc.authSvc = svc.Service(AUTH_SVC).(*AuthService)
	svc.userSvc = svc.Service(USER_SVC).(*UserService)
	svc.progressSvc = svc.Service(PROGRESS_SVC).(*ProgressService)
	svc.vocabSvc = svc.Service(VOCAB_SVC).(*VocabularyService)
	svc.tutorSvc = svc.Service(TUTOR_SVC).(*TutorService)
	svc.rateLimitSvc = svc.Service(RATE_LIMIT_SVC).(*RateLimitService)
	svc.monitoringSvc = svc.Service(MONITORING_SVC).(*MonitoringService)

	app := fiber.New(fiber.Config{
		AppName:      "DeutschAI API",
		JSONEncoder:  shared.JSONAPI.Marshal,
		JSONDecoder:  shared.JSONAPI.Unmarshal,
		ErrorHandler: svc.errorHandler,
	})

	app.Use(recover.New())
	app.Use(requestID())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(MonitoringMiddleware(svc.monitoringSvc))

	svc.registerRoutes(app)

	svc.server = app

	log.Info().Int("port", svc.port).Msg("HTTP server started")
	return app.Listen(fmt.Sprintf(":%v", svc.port))
}

func (svc *HttpService) registerRoutes(app *fiber.App) {
	authHandler := handlers.NewAuthHandler(svc.authSvc)
	userHandler := handlers.NewUserHandler(svc.userSvc, svc.progressSvc)
	vocabHandler := handlers.NewVocabularyHandler(svc.vocabSvc)
	tutorHandler := handlers.NewTutorHandler(svc.tutorSvc)

	app.Get("/ping", svc.ping)
	app.Get("/swagger/*", swagger.HandlerDefault)

	v1 := app.Group("/api/v1")

	auth := v1.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)

	user := v1.Group("/user", svc.authSvc.RequiredAuth())
	user.Get("/profile", userHandler.GetProfile)
	user.Put("/profile", userHandler.UpdateProfile)
	user.Get("/progress", userHandler.GetProgress)

	activity := v1.Group("/activity", svc.authSvc.RequiredAuth())
	activity.Get("/recent", userHandler.GetRecentActivity)

	vocab := v1.Group("/vocabulary", svc.authSvc.RequiredAuth())
	vocab.Post("/", vocabHandler.Add)
	vocab.Get("/", vocabHandler.List)
	vocab.Delete("/:id", vocabHandler.Delete)

	tutor := v1.Group("/tutor", svc.authSvc.RequiredAuth(), svc.rateLimitSvc.TutorLimit())
	tutor.Post("/chat", tutorHandler.Chat)
	tutor.Post("/practice", tutorHandler.Practice)
	tutor.Post("/call", tutorHandler.Call)
}

// requestID tags every request so a response can be matched to its log
// lines. Inbound ids are trusted; absent ones are minted.
func requestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rid := c.Get(fiber.HeaderXRequestID)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set(fiber.HeaderXRequestID, rid)
		c.Locals("request_id", rid)
		return c.Next()
	}
}

// errorHandler renders AppErrors with their own status and payload and
// hides everything else behind a generic 500.
func (svc *HttpService) errorHandler(c *fiber.Ctx, err error) error {
	if appErr, ok := shared.GetAppError(err); ok {
		if appErr.StatusCode >= 500 {
			log.Error().Err(appErr.Err).Str("path", c.Path()).Msg(appErr.Message)
		}
		return shared.ResponseJSON(c, appErr.StatusCode, appErr.Message, appErr.Data)
	}

	if fiberErr, ok := err.(*fiber.Error); ok {
		return shared.ResponseJSON(c, fiberErr.Code, fiberErr.Message, nil)
	}

	log.Error().Err(err).Str("path", c.Path()).Msg("Unhandled error")
	return shared.ResponseJSON(c, fiber.StatusInternalServerError, "Internal Server Error", nil)
}

func (svc *HttpService) Shutdown() {
	if svc.server != nil {
		_ = svc.server.Shutdown()
	}
}

// @Summary Ping
// @Description This endpoint checks the health of the service
// @Tags health
// @Accept  json
// @Produce json
// @Success 200 {object} shared.Response{data=string}
// @Router /ping [get]
func (svc *HttpService) ping(c *fiber.Ctx) error {
	c.Set(fiber.HeaderCacheControl, "max-age=10")

	return shared.ResponseOK(c, "pong")
}
