package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/kajbd/kajbd-backend/internal/middleware"
	"github.com/kajbd/kajbd-backend/internal/models"
	"github.com/kajbd/kajbd-backend/internal/storage"
	"github.com/kajbd/kajbd-backend/internal/utils"
)

type AuthHandler struct {
	Store        storage.Storage
	JWTSecret    string
	Expires      int
	SecureCookie bool
}

func (h *AuthHandler) setAuthCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.CookieName,
		Value:    token,
		Path:     "/",
		HTTPOnly: true,
		Secure:   h.SecureCookie,
		SameSite: "Lax",
		MaxAge:   h.Expires * 60,
	})
}

func (h *AuthHandler) clearAuthCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   h.SecureCookie,
		SameSite: "Lax",
	})
}

type RegisterReq struct {
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Password string   `json:"password"`
	FullName string   `json:"fullName"`
	Role     string   `json:"role"`
	City     string   `json:"city"`
	Avatar   string   `json:"avatar"`
	Bio      string   `json:"bio"`
	Skills   []string `json:"skills"`
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterReq
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	password := strings.TrimSpace(req.Password)
	fullName := strings.TrimSpace(req.FullName)
	role := models.Role(strings.TrimSpace(req.Role))

	errs := FieldErrors{}
	if username == "" {
		errs.Add("username", "Username is required")
	}
	if email == "" {
		errs.Add("email", "Email is required")
	} else if !strings.Contains(email, "@") {
		errs.Add("email", "Invalid email format")
	}
	if password == "" {
		errs.Add("password", "Password is required")
	} else if len(password) < 6 {
		errs.Add("password", "Password must be at least 6 characters")
	}
	if fullName == "" {
		errs.Add("fullName", "Full name is required")
	}
	if !role.Valid() {
		errs.Add("role", "Role must be job_seeker, employer or freelancer")
	}
	if len(errs) > 0 {
		return validationFail(c, errs)
	}

	existing, err := h.Store.GetUserByEmail(c.Context(), email)
	if err != nil {
		return storageError(c, err)
	}
	if existing != nil {
		return conflict(c, "User already exists")
	}

	byUsername, err := h.Store.GetUserByUsername(c.Context(), username)
	if err != nil {
		return storageError(c, err)
	}
	if byUsername != nil {
		return conflict(c, "Username already taken")
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		return storageError(c, err)
	}

	skills := req.Skills
	if skills == nil {
		skills = []string{}
	}
	u := models.User{
		Username: username,
		Email:    email,
		Password: hashed,
		FullName: fullName,
		Role:     role,
		City:     strings.TrimSpace(req.City),
		Avatar:   strings.TrimSpace(req.Avatar),
		Bio:      req.Bio,
		Skills:   skills,
	}

	if err := h.Store.CreateUser(c.Context(), &u); err != nil {
		if err == storage.ErrDuplicate {
			return conflict(c, "User already exists")
		}
		return storageError(c, err)
	}

	token, err := utils.SignJWT(h.JWTSecret, u.ID, string(u.Role), h.Expires)
	if err != nil {
		return storageError(c, err)
	}
	h.setAuthCookie(c, token)

	return c.JSON(fiber.Map{"user": u})
}

type LoginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginReq
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	password := strings.TrimSpace(req.Password)

	errs := FieldErrors{}
	if email == "" {
		errs.Add("email", "Email is required")
	}
	if password == "" {
		errs.Add("password", "Password is required")
	}
	if len(errs) > 0 {
		return validationFail(c, errs)
	}

	u, err := h.Store.GetUserByEmail(c.Context(), email)
	if err != nil {
		return storageError(c, err)
	}
	if u == nil || !utils.CheckPassword(u.Password, password) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Invalid credentials",
		})
	}

	token, err := utils.SignJWT(h.JWTSecret, u.ID, string(u.Role), h.Expires)
	if err != nil {
		return storageError(c, err)
	}
	h.setAuthCookie(c, token)

	return c.JSON(fiber.Map{"user": u})
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.clearAuthCookie(c)
	return c.JSON(fiber.Map{"message": "Logged out successfully"})
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	u, err := h.Store.GetUser(c.Context(), middleware.UserID(c))
	if err != nil {
		return storageError(c, err)
	}
	if u == nil {
		return notFound(c, "User not found")
	}
	return c.JSON(fiber.Map{"user": u})
}

type UpdateProfileReq struct {
	FullName *string   `json:"fullName"`
	City     *string   `json:"city"`
	Avatar   *string   `json:"avatar"`
	Bio      *string   `json:"bio"`
	Skills   *[]string `json:"skills"`
	Password *string   `json:"password"`
}

func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	var req UpdateProfileReq
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	upd := storage.UserUpdate{
		FullName: req.FullName,
		City:     req.City,
		Avatar:   req.Avatar,
		Bio:      req.Bio,
		Skills:   req.Skills,
	}
	if req.Password != nil {
		if len(strings.TrimSpace(*req.Password)) < 6 {
			errs := FieldErrors{}
			errs.Add("password", "Password must be at least 6 characters")
			return validationFail(c, errs)
		}
		hashed, err := utils.HashPassword(strings.TrimSpace(*req.Password))
		if err != nil {
			return storageError(c, err)
		}
		upd.Password = &hashed
	}

	u, err := h.Store.UpdateUser(c.Context(), middleware.UserID(c), upd)
	if err != nil {
		return storageError(c, err)
	}
	if u == nil {
		return notFound(c, "User not found")
	}
	return c.JSON(fiber.Map{"user": u})
}
