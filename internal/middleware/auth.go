package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type contextKey string

const (
	SessionIDKey contextKey = "session_id"
	VisitorIDKey contextKey = "visitor_id"
)

const visitorTokenTTL = 24 * time.Hour

type JWTAuth struct {
	Secret []byte
}

func NewJWTAuth(secret string) *JWTAuth {
	return &JWTAuth{Secret: []byte(secret)}
}

// GenerateVisitorToken creates a JWT binding a browser to one chat session.
func (j *JWTAuth) GenerateVisitorToken(sessionID, visitorID uuid.UUID) (string, time.Time, error) {
	expiresAt := time.Now().Add(visitorTokenTTL)
	claims := jwt.MapClaims{
		"session_id": sessionID.String(),
		"visitor_id": visitorID.String(),
		"exp":        expiresAt.Unix(),
		"iat":        time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(j.Secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ParseVisitorToken verifies a token and returns the ids it carries.
func (j *JWTAuth) ParseVisitorToken(tokenStr string) (sessionID, visitorID uuid.UUID, err error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return j.Secret, nil
	})
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return uuid.Nil, uuid.Nil, jwt.ErrTokenInvalidClaims
	}

	sessionStr, _ := claims["session_id"].(string)
	visitorStr, _ := claims["visitor_id"].(string)

	sessionID, err = uuid.Parse(sessionStr)
	if err != nil {
		return uuid.Nil, uuid.Nil, jwt.ErrTokenInvalidClaims
	}
	visitorID, err = uuid.Parse(visitorStr)
	if err != nil {
		return uuid.Nil, uuid.Nil, jwt.ErrTokenInvalidClaims
	}
	return sessionID, visitorID, nil
}

// Middleware validates the visitor token and attaches its ids to the context
func (j *JWTAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing authorization header", r)
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid authorization format", r)
			return
		}

		sessionID, visitorID, err := j.ParseVisitorToken(parts[1])
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				writeError(w, http.StatusUnauthorized, "TOKEN_EXPIRED", "Token has expired", r)
			} else {
				writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid token", r)
			}
			return
		}

		next.ServeHTTP(w, r.WithContext(WithVisitor(r.Context(), sessionID, visitorID)))
	})
}

// WithVisitor stores the token ids in ctx.
func WithVisitor(ctx context.Context, sessionID, visitorID uuid.UUID) context.Context {
	ctx = context.WithValue(ctx, SessionIDKey, sessionID)
	return context.WithValue(ctx, VisitorIDKey, visitorID)
}

func GetSessionID(ctx context.Context) uuid.UUID {
	id, _ := ctx.Value(SessionIDKey).(uuid.UUID)
	return id
}

func GetVisitorID(ctx context.Context) uuid.UUID {
	id, _ := ctx.Value(VisitorIDKey).(uuid.UUID)
	return id
}

func writeError(w http.ResponseWriter, status int, code, message string, r *http.Request) {
	requestID := r.Header.Get("X-Request-ID")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]interface{}{
			"code":       code,
			"message":    message,
			"request_id": requestID,
		},
	})
}
