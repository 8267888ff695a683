package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"ecopool/internal/models"
	"ecopool/internal/utils"
)

// JWTClaims is the token payload. Roles carries the account's full
// capability set; role gates are membership tests, not equality checks.
type JWTClaims struct {
	UserID string   `json:"user_id"`
	Roles  []string `json:"roles"`
	jwt.RegisteredClaims
}

// AuthRequired validates the bearer token and stores the caller's identity
// on the request context.
func AuthRequired(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.UnauthorizedResponse(c)
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			utils.UnauthorizedResponse(c)
			c.Abort()
			return
		}

		token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			utils.UnauthorizedResponse(c)
			c.Abort()
			return
		}

		claims, ok := token.Claims.(*JWTClaims)
		if !ok {
			utils.UnauthorizedResponse(c)
			c.Abort()
			return
		}

		userID, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			utils.UnauthorizedResponse(c)
			c.Abort()
			return
		}

		c.Set("user_id", userID)
		c.Set("roles", claims.Roles)
		c.Next()
	}
}

// RoleRequired gates a route on membership of one role.
func RoleRequired(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		roles, exists := c.Get("roles")
		if !exists {
			utils.UnauthorizedResponse(c)
			c.Abort()
			return
		}

		roleList, ok := roles.([]string)
		if !ok {
			utils.UnauthorizedResponse(c)
			c.Abort()
			return
		}

		for _, r := range roleList {
			if models.Role(r) == role {
				c.Next()
				return
			}
		}

		utils.ForbiddenResponse(c, string(role)+" role required")
		c.Abort()
	}
}

// GetUserID returns the authenticated caller's id from the request context.
func GetUserID(c *gin.Context) (primitive.ObjectID, bool) {
	value, exists := c.Get("user_id")
	if !exists {
		return primitive.NilObjectID, false
	}
	userID, ok := value.(primitive.ObjectID)
	return userID, ok
}
