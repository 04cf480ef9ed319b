package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/ev-station-booking/internal/booking"
	"github.com/iliyamo/ev-station-booking/internal/config"
	"github.com/iliyamo/ev-station-booking/internal/model"
	"github.com/iliyamo/ev-station-booking/internal/repository"
	"github.com/iliyamo/ev-station-booking/internal/utils"
)

// AuthHandler bundles dependencies for auth endpoints.  Registration
// runs the booking validators over the applicant's NIC, phone and
// email, so malformed identity data never reaches the database.
type AuthHandler struct {
	Cfg   config.Config
	Users *repository.UserRepo
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(cfg config.Config, users *repository.UserRepo) *AuthHandler {
	if users == nil {
		panic("nil repository passed to NewAuthHandler")
	}
	return &AuthHandler{Cfg: cfg, Users: users}
}

// ----- DTOs -----

type registerReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"` // OWNER | BACKOFFICE | OPERATOR
	NIC      string `json:"nic"`
	Phone    string `json:"phone"`
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type authResp struct {
	User   model.User `json:"user"`
	Token  string     `json:"token"`
	Expire time.Time  `json:"expires"`
}

// Register handles POST /v1/auth/register.  Identity fields go through
// the booking validators; failures come back with the offending field
// named so the form can highlight it.
func (h *AuthHandler) Register(c echo.Context) error {
	var body registerReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	body.Email = strings.TrimSpace(strings.ToLower(body.Email))
	if res := booking.ValidateEmail(body.Email); !res.Valid {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation_failed", "field": "email", "message": res.Message})
	}
	if res := booking.ValidateNIC(body.NIC); !res.Valid {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation_failed", "field": "nic", "message": res.Message})
	}
	if res := booking.ValidatePhone(body.Phone); !res.Valid {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation_failed", "field": "phone", "message": res.Message})
	}
	if res := booking.ValidatePassword(body.Password); !res.Valid {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation_failed", "field": "password", "message": res.Message})
	}
	role := strings.ToUpper(strings.TrimSpace(body.Role))
	if role != model.RoleOwner && role != model.RoleBackoffice && role != model.RoleOperator {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation_failed", "field": "role", "message": "role must be OWNER, BACKOFFICE or OPERATOR"})
	}
	hash, err := utils.HashPassword(body.Password, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to hash password"})
	}
	u := &model.User{
		ID:           uuid.NewString(),
		Email:        body.Email,
		PasswordHash: hash,
		Role:         role,
		NIC:          strings.ToUpper(strings.TrimSpace(body.NIC)),
		Phone:        strings.TrimSpace(body.Phone),
		CreatedAt:    time.Now().UTC(),
	}
	if err := h.Users.Create(c.Request().Context(), u); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already registered"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create user"})
	}
	return h.respondWithToken(c, http.StatusCreated, u)
}

// Login handles POST /v1/auth/login.  Invalid email and wrong password
// are indistinguishable in the response.
func (h *AuthHandler) Login(c echo.Context) error {
	var body loginReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	u, err := h.Users.GetByEmail(c.Request().Context(), strings.TrimSpace(strings.ToLower(body.Email)))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load user"})
	}
	if !utils.VerifyPassword(u.PasswordHash, body.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}
	return h.respondWithToken(c, http.StatusOK, u)
}

// Me handles GET /v1/me and returns the authenticated account.
func (h *AuthHandler) Me(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	u, err := h.Users.GetByID(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load user"})
	}
	return c.JSON(http.StatusOK, echo.Map{"user": u})
}

func (h *AuthHandler) respondWithToken(c echo.Context, status int, u *model.User) error {
	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.Role, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to sign token"})
	}
	return c.JSON(status, authResp{User: *u, Token: access.Token, Expire: access.Exp})
}
