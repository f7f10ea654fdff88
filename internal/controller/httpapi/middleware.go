package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"

	"officehours/internal/model"
)

type contextKey string

const (
	userIDKey contextKey = "userID"
	roleKey   contextKey = "role"
)

// Claims carries the authenticated identity inside the JWT.
type Claims struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// IssueToken signs a JWT for the user.
func IssueToken(secret []byte, user *model.User, ttl time.Duration) (string, error) {
	claims := Claims{
		UserID: user.ID.String(),
		Role:   string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// Authenticate verifies the Bearer token and stores the caller's id and
// role in the request context.
func (h *Handler) Authenticate(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		header := r.Header.Get("Authorization")
		if header == "" {
			writeFail(w, http.StatusUnauthorized, "Missing token")
			return
		}
		if !strings.HasPrefix(header, "Bearer ") {
			writeFail(w, http.StatusUnauthorized, "Invalid token format")
			return
		}

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(header[7:], claims, func(token *jwt.Token) (any, error) {
			return h.jwtSecret, nil
		})
		if err != nil || !token.Valid {
			writeFail(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		userID, err := uuid.Parse(claims.UserID)
		if err != nil || !model.ValidRole(claims.Role) {
			writeFail(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		ctx = context.WithValue(ctx, roleKey, model.Role(claims.Role))
		next(w, r.WithContext(ctx), ps)
	}
}

// RequireRole gates a handler to one role. The identity must already be
// set by Authenticate.
func (h *Handler) RequireRole(role model.Role, next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if callerRole(r.Context()) != role {
			writeFail(w, http.StatusForbidden, "Access denied")
			return
		}
		next(w, r, ps)
	}
}

func callerID(ctx context.Context) uuid.UUID {
	id, _ := ctx.Value(userIDKey).(uuid.UUID)
	return id
}

func callerRole(ctx context.Context) model.Role {
	role, _ := ctx.Value(roleKey).(model.Role)
	return role
}
