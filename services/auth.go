package services

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/alphabatem/common/context"

	"github.com/deutschai/deutschai_api/dto"
	"github.com/deutschai/deutschai_api/model"
	"github.com/deutschai/deutschai_api/shared"
)

// AuthService covers registration, login and the auth middleware.
type AuthService struct {
	context.DefaultService

	sqlSvc *SqlService
	jwtSvc *JWTService
}

const AUTH_SVC = "auth_svc"

// Login failures always surface this message so a caller cannot probe
// which emails have accounts.
const loginFailedMessage = "Invalid email or password"

func (svc AuthService) Id() string {
	return AUTH_SVC
}

func (svc *AuthService) Configure(ctx *context.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *AuthService) Start() error {
	svc.sqlSvc = svc.Service(SQL_SVC).(*SqlService)
	svc.jwtSvc = svc.Service(JWT_SVC).(*JWTService)
	return nil
}

func (svc *AuthService) Register(req dto.RegisterRequest) (*dto.RegisterResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, shared.NewBadRequestError(err, "Validation failed").WithData(dto.CreateValidationErrorResponse(err))
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	taken, err := svc.sqlSvc.Users.IsEmailTaken(email, 0)
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}
	if taken {
		return nil, shared.NewConflictError(nil, "Email is already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to process password")
	}

	user := &model.User{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          email,
		Password:       string(hash),
		TargetLanguage: req.TargetLanguage,
		NativeLanguage: req.NativeLanguage,
		Level:          req.Level,
	}

	if err := svc.sqlSvc.Users.CreateUser(user); err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}

	log.WithField("user_id", user.ID).Info("User registered")

	return &dto.RegisterResponse{
		UserID:  user.ID,
		Message: "Registration successful",
	}, nil
}

func (svc *AuthService) Login(req dto.LoginRequest) (*dto.LoginResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, shared.NewBadRequestError(err, "Validation failed").WithData(dto.CreateValidationErrorResponse(err))
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := svc.sqlSvc.Users.GetUserByEmail(email)
	if err != nil {
		if svc.sqlSvc.IsNotFound(err) {
			return nil, shared.NewUnauthorizedError(nil, loginFailedMessage)
		}
		return nil, svc.sqlSvc.HandleError(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, shared.NewUnauthorizedError(nil, loginFailedMessage)
	}

	pair, err := svc.jwtSvc.GenerateTokenPair(user.ID)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to issue token")
	}

	if err := svc.sqlSvc.Users.UpdateLastLogin(user.ID); err != nil {
		log.WithError(err).WithField("user_id", user.ID).Warn("Failed to record login time")
	}

	return &dto.LoginResponse{
		AccessToken: pair.AccessToken,
		ExpiresIn:   pair.ExpiresIn,
		User:        toUserProfile(user),
	}, nil
}

// RequiredAuth rejects requests without a valid bearer token and stores
// the account id in the request locals.
func (svc *AuthService) RequiredAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		token, err := svc.jwtSvc.ExtractTokenFromHeader(authHeader)
		if err != nil {
			return shared.ResponseUnauthorized(c)
		}

		userID, err := svc.jwtSvc.VerifyJWTToken(token)
		if err != nil || userID == 0 {
			return shared.ResponseUnauthorized(c)
		}

		c.Locals(shared.UserID, userID)
		return c.Next()
	}
}
