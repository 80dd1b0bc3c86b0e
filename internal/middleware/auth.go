package middleware

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/yukikurage/dropoff-point-api/internal/constants"
	apierrors "github.com/yukikurage/dropoff-point-api/internal/errors"
	"github.com/yukikurage/dropoff-point-api/internal/models"
	"github.com/yukikurage/dropoff-point-api/internal/services"
)

var errNoCredentials = errors.New("no credentials")

// AccountLoader loads the acting account.
type AccountLoader interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Account, error)
}

// RequireAuth resolves the acting account from a Bearer token signed with
// signingKey or, failing that, from the account ID stored in the session.
func RequireAuth(accounts AccountLoader, signingKey []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		accountID, err := bearerAccountID(c, signingKey)
		if errors.Is(err, errNoCredentials) {
			accountID, err = sessionAccountID(c)
		}
		if err != nil {
			apierrors.Unauthorized(c, "Could not validate credentials")
			c.Abort()
			return
		}

		account, err := accounts.Get(c.Request.Context(), accountID)
		if err != nil {
			if errors.Is(err, services.ErrAccountNotFound) {
				apierrors.Unauthorized(c, "Could not validate credentials")
			} else {
				apierrors.InternalError(c, "")
			}
			c.Abort()
			return
		}

		if !account.IsActive {
			apierrors.Forbidden(c, "Inactive account")
			c.Abort()
			return
		}

		// Store account in context for easy access in handlers
		c.Set(constants.ContextKeyAccountID, account.ID)
		c.Set(constants.ContextKeyAccount, account)
		c.Next()
	}
}

func bearerAccountID(c *gin.Context, signingKey []byte) (uuid.UUID, error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return uuid.Nil, errNoCredentials
	}

	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || raw == "" {
		return uuid.Nil, fmt.Errorf("malformed authorization header")
	}

	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (interface{}, error) {
		return signingKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return uuid.Nil, err
	}

	return uuid.Parse(claims.Subject)
}

func sessionAccountID(c *gin.Context) (uuid.UUID, error) {
	session := sessions.Default(c)
	switch v := session.Get(constants.ContextKeyAccountID).(type) {
	case string:
		return uuid.Parse(v)
	case nil:
		return uuid.Nil, errNoCredentials
	default:
		return uuid.Nil, fmt.Errorf("unexpected session value %T", v)
	}
}

// GetAccount retrieves the current account from context
func GetAccount(c *gin.Context) (*models.Account, bool) {
	value, exists := c.Get(constants.ContextKeyAccount)
	if !exists {
		return nil, false
	}
	account, ok := value.(*models.Account)
	return account, ok && account != nil
}

// GetAccountID retrieves the current account ID from context
func GetAccountID(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get(constants.ContextKeyAccountID)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := value.(uuid.UUID)
	return id, ok
}
