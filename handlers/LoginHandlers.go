package handlers

import (
	"database/sql"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/rsahana30/AUMA-DZ/models"
	"github.com/rsahana30/AUMA-DZ/storage"
	"github.com/rsahana30/AUMA-DZ/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

const sessionLifetime = 12 * time.Hour

type credentials struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Signup godoc
// @Summary      Register a user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      object  true  "email and password"
// @Success      200   {object}  models.MessageResponse
// @Failure      400   {object}  models.ErrorResponse
// @Router       /api/signup [post]
func Signup(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var creds credentials
		if err := c.ShouldBindJSON(&creds); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
			return
		}

		hash, err := utils.HashPassword(creds.Password)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Signup failed"})
			return
		}

		_, err = db.Exec(`INSERT INTO users (email, password) VALUES ($1, $2)`,
			strings.ToLower(strings.TrimSpace(creds.Email)), hash)
		if err != nil {
			if pqErr, ok := err.(*pq.Error); ok && pqErr.Code.Name() == "unique_violation" {
				c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
				return
			}
			log.Printf("signup insert failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Signup failed"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Signup successful"})
	}
}

// Login godoc
// @Summary      Log in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      object  true  "email and password"
// @Success      200   {object}  object
// @Failure      401   {object}  models.ErrorResponse
// @Router       /api/login [post]
func Login(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var creds credentials
		if err := c.ShouldBindJSON(&creds); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
			return
		}

		var user models.User
		err := db.QueryRow(`SELECT id, email, password FROM users WHERE email = $1`,
			strings.ToLower(strings.TrimSpace(creds.Email))).
			Scan(&user.ID, &user.Email, &user.Password)
		if err != nil || !utils.ValidatePassword(user.Password, creds.Password) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}

		token, err := utils.GenerateJWT(user.Email)
		if err != nil {
			log.Printf("jwt generation failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
			return
		}

		session := &models.Session{
			UserID:    user.ID,
			SessionID: uuid.NewString(),
			CreatedAt: time.Now(),
			ExpiresAt: time.Now().Add(sessionLifetime),
		}
		if err := storage.SaveSession(db, session); err != nil {
			log.Printf("session save failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"token":      token,
			"session_id": session.SessionID,
			"expires_at": session.ExpiresAt,
		})
	}
}

// ValidateSession godoc
// @Summary      Validate the current session
// @Tags         auth
// @Produce      json
// @Success      200  {object}  object
// @Failure      401  {object}  models.ErrorResponse
// @Router       /api/validate-session [post]
func ValidateSession(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader("Authorization")
		if sessionID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing session_id"})
			return
		}
		userID, err := storage.GetSessionUser(db, sessionID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"valid": true, "user_id": userID})
	}
}

// CurrentUser godoc
// @Summary      Resolve the logged-in user from the access token
// @Tags         auth
// @Produce      json
// @Success      200  {object}  object
// @Failure      401  {object}  utils.Response
// @Router       /api/me [get]
func CurrentUser(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("X-Auth-Token")
		if token == "" {
			utils.ErrorResponse(c, "No token provided", http.StatusUnauthorized)
			return
		}

		parsedToken, err := utils.ValidateJWT(token)
		if err != nil {
			utils.ErrorResponse(c, "Invalid token", http.StatusUnauthorized)
			return
		}

		claims := parsedToken.Claims.(jwt.MapClaims)
		exp, ok := claims["exp"].(float64)
		if !ok || time.Now().Unix() > int64(exp) {
			utils.ErrorResponse(c, "Token expired", http.StatusUnauthorized)
			return
		}

		email, ok := claims["email"].(string)
		if !ok {
			utils.ErrorResponse(c, "Invalid token claims", http.StatusUnauthorized)
			return
		}

		user, err := storage.GetUserByEmail(db, email)
		if err != nil {
			utils.ErrorResponse(c, "User not found", http.StatusUnauthorized)
			return
		}

		c.JSON(http.StatusOK, gin.H{"user_id": user.ID, "email": user.Email})
	}
}

// Logout godoc
// @Summary      Log out and drop the current session
// @Tags         auth
// @Produce      json
// @Success      200  {object}  utils.Response
// @Failure      401  {object}  models.ErrorResponse
// @Router       /api/logout [post]
func Logout(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader("Authorization")
		if sessionID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing session_id"})
			return
		}
		userID, err := storage.GetSessionUser(db, sessionID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session"})
			return
		}
		if err := storage.DeleteSession(db, userID); err != nil {
			log.Printf("session delete failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Logout failed"})
			return
		}
		utils.SuccessResponse(c, "Logged out", http.StatusOK)
	}
}

// RequireSession guards mutating endpoints: the Authorization header must be
// an unexpired session id.
func RequireSession(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader("Authorization")
		if sessionID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing session_id"})
			return
		}
		userID, err := storage.GetSessionUser(db, sessionID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid session"})
			return
		}
		c.Set("user_id", userID)
		c.Next()
	}
}
