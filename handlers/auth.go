// handlers/auth.go - Registration and login
package handlers

import (
	"fmt"
	"time"

	"quizarena/middleware"
	"quizarena/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type GuestLoginRequest struct {
	GuestName string `json:"guest_name,omitempty"`
}

type AuthResponse struct {
	Success bool               `json:"success"`
	Token   string             `json:"token,omitempty"`
	User    *models.PublicInfo `json:"user,omitempty"`
	Error   string             `json:"error,omitempty"`
}

// Register creates a new account and returns a signed token.
func Register(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req RegisterRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}
		if req.Username == "" || req.Email == "" || req.Password == "" {
			return badRequest(c, "Username, email and password are required")
		}

		var existing models.User
		err := db.Where("username = ? OR email = ?", req.Username, req.Email).First(&existing).Error
		if err == nil {
			return c.Status(400).JSON(AuthResponse{
				Success: false,
				Error:   "User with that email or username already exists",
			})
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return c.Status(500).JSON(AuthResponse{Success: false, Error: "Failed to hash password"})
		}

		user := models.User{
			Username:  req.Username,
			Email:     &req.Email,
			Password:  string(hash),
			LastLogin: time.Now(),
		}
		if err := db.Create(&user).Error; err != nil {
			return c.Status(500).JSON(AuthResponse{Success: false, Error: "Failed to create account"})
		}

		token, err := generateToken(user)
		if err != nil {
			return c.Status(500).JSON(AuthResponse{Success: false, Error: "Failed to generate token"})
		}

		info := user.Public()
		return c.Status(201).JSON(AuthResponse{Success: true, Token: token, User: &info})
	}
}

// Login verifies credentials and returns a signed token.
func Login(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req LoginRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}

		var user models.User
		if err := db.Where("email = ?", req.Email).First(&user).Error; err != nil {
			return c.Status(401).JSON(AuthResponse{Success: false, Error: "Invalid credentials"})
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
			return c.Status(401).JSON(AuthResponse{Success: false, Error: "Invalid credentials"})
		}

		user.LastLogin = time.Now()
		db.Model(&user).Update("last_login", user.LastLogin)

		token, err := generateToken(user)
		if err != nil {
			return c.Status(500).JSON(AuthResponse{Success: false, Error: "Failed to generate token"})
		}

		info := user.Public()
		return c.JSON(AuthResponse{Success: true, Token: token, User: &info})
	}
}

// GuestLogin creates a throwaway guest account.
func GuestLogin(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req GuestLoginRequest
		_ = c.BodyParser(&req) // empty body is fine

		guestName := req.GuestName
		if guestName == "" {
			guestName = fmt.Sprintf("Guest_%s", uuid.New().String()[:8])
		}
		guestEmail := fmt.Sprintf("guest_%s@quizarena.local", uuid.New().String()[:8])

		user := models.User{
			Username:  guestName,
			Email:     &guestEmail,
			Password:  "",
			IsGuest:   true,
			LastLogin: time.Now(),
		}
		if err := db.Create(&user).Error; err != nil {
			return c.Status(500).JSON(AuthResponse{Success: false, Error: "Failed to create guest account"})
		}

		token, err := generateToken(user)
		if err != nil {
			return c.Status(500).JSON(AuthResponse{Success: false, Error: "Failed to generate token"})
		}

		info := user.Public()
		return c.JSON(AuthResponse{Success: true, Token: token, User: &info})
	}
}

func generateToken(user models.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"is_guest": user.IsGuest,
		"exp":      time.Now().Add(24 * time.Hour).Unix(),
		"iat":      time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(middleware.JWTSecret())
}
