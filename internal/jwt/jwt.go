package jwt

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/concreteguy/homepage/internal/domain"
	internal_errors "github.com/concreteguy/homepage/internal/errors"
	"github.com/concreteguy/homepage/internal/logger"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// JwtService signs and verifies the session cookie. The token carries only
// the session id; the session itself lives in the database.
type JwtService interface {
	NewToken(session domain.Session) (string, error)
	DecodeToken(jwtStr string) (domain.SessionId, error)
}

type Jwt struct {
	secretKey []byte
}

func New(secretKey string) JwtService {
	return &Jwt{secretKey: []byte(secretKey)}
}

func (j *Jwt) NewToken(session domain.Session) (string, error) {
	claims := jwt.MapClaims{
		"sid": session.Id.String(),
		"iat": session.CreatedAt.Unix(),
		"exp": session.ExpiresAt.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(j.secretKey)
	if err != nil {
		logger.Log.Error("failed to sign session token", "error", err)
		return "", errors.New("Can't create token")
	}
	return tokenString, nil
}

func (j *Jwt) DecodeToken(jwtStr string) (domain.SessionId, error) {
	token, err := jwt.Parse(jwtStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return uuid.Nil, &internal_errors.ErrorWithStatusCode{Message: "Invalid session token", StatusCode: http.StatusUnauthorized}
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, &internal_errors.ErrorWithStatusCode{Message: "Invalid session token", StatusCode: http.StatusUnauthorized}
	}
	sid, ok := claims["sid"].(string)
	if !ok {
		return uuid.Nil, &internal_errors.ErrorWithStatusCode{Message: "Invalid session token", StatusCode: http.StatusUnauthorized}
	}
	id, err := uuid.Parse(sid)
	if err != nil {
		return uuid.Nil, &internal_errors.ErrorWithStatusCode{Message: "Invalid session token", StatusCode: http.StatusUnauthorized}
	}
	return id, nil
}
