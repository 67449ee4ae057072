package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/apperr"
	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/middleware"
	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/models"
	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/services/directory"
	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/utils"
)

type AuthHandler struct {
	Users        *directory.DirectoryService
	JWTSecret    string
	Expires      int
	SecureCookie bool
}

type RegisterReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	UserType string `json:"user_type"`
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterReq
	if err := c.BodyParser(&req); err != nil {
		return errBadBody
	}
	role := req.Role
	if role == "" {
		role = req.UserType
	}

	u, err := h.Users.Register(c.UserContext(), directory.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     role,
	})
	if err != nil {
		return err
	}
	if err := h.startSession(c, u); err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, "registered", fiber.Map{"user": toUserDTO(u)})
}

type LoginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginReq
	if err := c.BodyParser(&req); err != nil {
		return errBadBody
	}
	u, err := h.Users.Authenticate(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	if err := h.startSession(c, u); err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "logged in", fiber.Map{"user": toUserDTO(u)})
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	setSessionCookie(c, "", -1, h.SecureCookie)
	return respond(c, fiber.StatusOK, "logged out", nil)
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	uid, ok := middleware.UserID(c)
	if !ok {
		return apperr.New(apperr.CodeUnauthenticated, "authentication required")
	}
	u, err := h.Users.Get(c.UserContext(), uid)
	if apperr.Is(err, apperr.CodeNotFound) {
		return apperr.New(apperr.CodeUnauthenticated, "user no longer exists")
	}
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "", toUserDTO(u))
}

func (h *AuthHandler) startSession(c *fiber.Ctx, u *models.User) error {
	token, err := utils.SignJWT(h.JWTSecret, u.ID.String(), string(u.Role), h.Expires)
	if err != nil {
		return apperr.Wrap(err, apperr.CodeInternal, "sign token")
	}
	setSessionCookie(c, token, h.Expires*60, h.SecureCookie)
	return nil
}

func setSessionCookie(c *fiber.Ctx, token string, maxAge int, secure bool) {
	c.Cookie(&fiber.Cookie{
		Name:     utils.TokenCookie,
		Value:    token,
		Path:     "/",
		HTTPOnly: true,
		Secure:   secure,
		SameSite: fiber.CookieSameSiteLaxMode,
		MaxAge:   maxAge,
	})
}
