package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/enrudae/TutorToolkit/internal/models"
	"github.com/enrudae/TutorToolkit/internal/services"
)

// AuthMiddleware создает middleware для авторизации
func AuthMiddleware(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Получаем токен из заголовка Authorization
		var token string
		if authHeader := c.GetHeader("Authorization"); authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
				token = parts[1]
			}
		}
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		// Валидируем токен
		user, err := authService.ValidateToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		// Сохраняем данные пользователя в контексте: user_id как
		// uuid.UUID, user_role как models.UserRole
		c.Set("user", user)
		c.Set("user_id", user.ID)
		c.Set("user_role", user.Role)

		c.Next()
	}
}

// TutorOnlyMiddleware создает middleware только для репетиторов
func TutorOnlyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		roleVal, exists := c.Get("user_role")
		role, ok := roleVal.(models.UserRole)
		if !exists || !ok || role != models.RoleTutor {
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied. Tutor role required."})
			c.Abort()
			return
		}
		c.Next()
	}
}

// StudentOnlyMiddleware создает middleware только для учеников
func StudentOnlyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		roleVal, exists := c.Get("user_role")
		role, ok := roleVal.(models.UserRole)
		if !exists || !ok || role != models.RoleStudent {
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied. Student role required."})
			c.Abort()
			return
		}
		c.Next()
	}
}

// CORSMiddleware создает middleware для CORS
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization, X-Requested-With")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// currentUserID достает uuid пользователя из контекста запроса
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	value, _ := c.Get("user_id")
	id, ok := value.(uuid.UUID)
	return id, ok
}

// currentUserRole достает роль пользователя из контекста запроса
func currentUserRole(c *gin.Context) models.UserRole {
	value, _ := c.Get("user_role")
	role, _ := value.(models.UserRole)
	return role
}
