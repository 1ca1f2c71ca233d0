package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/visadesk/backend/internal/config"
	"github.com/visadesk/backend/internal/database"
	"github.com/visadesk/backend/internal/utils"
)

// AuthHandler handles identity bootstrap: local signup and login.
type AuthHandler struct {
	db  *gorm.DB
	jwt config.JWTConfig
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(db *gorm.DB, jwt config.JWTConfig) *AuthHandler {
	return &AuthHandler{db: db, jwt: jwt}
}

// SignupRequest represents the request body for signup. Admin accounts
// are seeded out of band; self-registration is applicant or officer.
type SignupRequest struct {
	Email       string        `json:"email" binding:"required,email"`
	Password    string        `json:"password" binding:"required,min=8"`
	DisplayName string        `json:"display_name" binding:"required"`
	Role        database.Role `json:"role" binding:"required"`
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse carries a signed bearer token.
type TokenResponse struct {
	AccessToken string        `json:"access_token"`
	TokenType   string        `json:"token_type"`
	Role        database.Role `json:"role"`
}

// Signup registers a new identity and returns a token.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "validation_error", "error": err.Error()})
		return
	}

	if req.Role != database.RoleApplicant && req.Role != database.RoleOfficer {
		c.JSON(http.StatusBadRequest, gin.H{"code": "validation_error", "error": "role must be applicant or officer"})
		return
	}

	var existing database.User
	if result := h.db.Where("email = ?", req.Email).First(&existing); result.RowsAffected > 0 {
		c.JSON(http.StatusConflict, gin.H{"code": "conflict", "error": "Email already in use"})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": "server_error", "error": "Failed to process password"})
		return
	}

	user := database.User{
		Email:       req.Email,
		Password:    string(hashedPassword),
		DisplayName: req.DisplayName,
		Role:        req.Role,
	}
	if err := h.db.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": "server_error", "error": "Failed to create user"})
		return
	}

	token, err := utils.GenerateToken(h.jwt.Secret, user.ID, user.Role, h.jwt.Expiration)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": "server_error", "error": "Failed to issue token"})
		return
	}

	c.JSON(http.StatusCreated, TokenResponse{AccessToken: token, TokenType: "Bearer", Role: user.Role})
}

// Login authenticates an identity and returns a token carrying the role
// recorded on the user row, never a client-supplied one.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "validation_error", "error": err.Error()})
		return
	}

	var user database.User
	if err := h.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"code": "auth_error", "error": "Invalid email or password"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"code": "auth_error", "error": "Invalid email or password"})
		return
	}

	token, err := utils.GenerateToken(h.jwt.Secret, user.ID, user.Role, h.jwt.Expiration)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": "server_error", "error": "Failed to issue token"})
		return
	}

	c.JSON(http.StatusOK, TokenResponse{AccessToken: token, TokenType: "Bearer", Role: user.Role})
}
