package middleware

import (
	"errors"

	"github.com/civiclens/civic-lens-backend/internal/authz"
	"github.com/civiclens/civic-lens-backend/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// GetClaims extracts the verified identity from the JWT that JWTProtected
// stored in context locals.
func GetClaims(c *fiber.Ctx) (authz.Claims, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return authz.Claims{}, errors.New("invalid token in context")
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return authz.Claims{}, errors.New("invalid claims")
	}

	sub, ok := mapClaims["sub"].(string)
	if !ok {
		return authz.Claims{}, errors.New("missing sub claim")
	}
	accountID, err := uuid.Parse(sub)
	if err != nil {
		return authz.Claims{}, errors.New("malformed sub claim")
	}

	role, _ := mapClaims["role"].(string)
	username, _ := mapClaims["username"].(string)
	department, _ := mapClaims["department"].(string)
	pincode, _ := mapClaims["pincode"].(string)

	return authz.Claims{
		AccountID:  accountID,
		Role:       authz.Role(role),
		Username:   username,
		Department: models.Category(department),
		Pincode:    pincode,
	}, nil
}
