package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"learnhub-storefront-api/database"
	"learnhub-storefront-api/models"
)

const (
	AccessTokenDuration  = 15 * time.Minute
	RefreshTokenDuration = 7 * 24 * time.Hour
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrMemberInactive     = errors.New("member account inactive")
	ErrTokenExpired       = errors.New("token expired")
	ErrInvalidToken       = errors.New("invalid token")
)

type JWTService struct {
	secretKey []byte
	issuer    string
	db        *database.Connection
}

type Claims struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	IsActive  int    `json:"is_active"`
	TokenType string `json:"token_type"` // "access" or "refresh"
	jwt.RegisteredClaims
}

func NewJWTService(secretKey, issuer string, db *database.Connection) *JWTService {
	return &JWTService{
		secretKey: []byte(secretKey),
		issuer:    issuer,
		db:        db,
	}
}

// Authenticate checks the member's credentials and issues an access/refresh
// token pair. Passphrases are stored as SHA-256 hex, same scheme as the
// legacy member table.
func (j *JWTService) Authenticate(username, password string) (*models.AuthResponse, error) {
	hasher := sha256.New()
	hasher.Write([]byte(password))
	hashedPassword := hex.EncodeToString(hasher.Sum(nil))

	member, err := j.db.GetMemberByCredentials(username, hashedPassword)
	if err != nil {
		return nil, fmt.Errorf("database error: %v", err)
	}
	if member == nil {
		return nil, ErrInvalidCredentials
	}
	if member.IsActive != 1 {
		return nil, ErrMemberInactive
	}

	authUser := models.AuthUser{
		Username: member.Username,
		Email:    member.Email,
		Name:     member.Name,
		IsActive: member.IsActive,
	}

	accessToken, err := j.GenerateToken(authUser, "access", AccessTokenDuration)
	if err != nil {
		return nil, fmt.Errorf("error generating access token: %v", err)
	}

	refreshToken, err := j.GenerateToken(authUser, "refresh", RefreshTokenDuration)
	if err != nil {
		return nil, fmt.Errorf("error generating refresh token: %v", err)
	}

	return &models.AuthResponse{
		Token:        accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    time.Now().Add(AccessTokenDuration),
		User:         authUser,
	}, nil
}

func (j *JWTService) GenerateToken(user models.AuthUser, tokenType string, duration time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Username:  user.Username,
		Email:     user.Email,
		Name:      user.Name,
		IsActive:  user.IsActive,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			Issuer:    j.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(duration)),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.secretKey)
}

// ValidateToken checks an access token and returns the member it belongs to.
func (j *JWTService) ValidateToken(tokenString string) (*models.AuthUser, error) {
	claims, err := j.parseClaims(tokenString)
	if err != nil {
		return nil, err
	}

	if claims.TokenType != "access" {
		return nil, ErrInvalidToken
	}

	return &models.AuthUser{
		Username: claims.Username,
		Email:    claims.Email,
		Name:     claims.Name,
		IsActive: claims.IsActive,
	}, nil
}

// RefreshToken exchanges a valid refresh token for a fresh pair, re-checking
// the member row so deactivated accounts cannot renew.
func (j *JWTService) RefreshToken(refreshTokenString string) (*models.AuthResponse, error) {
	claims, err := j.parseClaims(refreshTokenString)
	if err != nil {
		return nil, err
	}

	if claims.TokenType != "refresh" {
		return nil, ErrInvalidToken
	}

	member, err := j.db.GetMemberByUsername(claims.Username)
	if err != nil {
		return nil, fmt.Errorf("database error: %v", err)
	}
	if member == nil {
		return nil, ErrInvalidCredentials
	}
	if member.IsActive != 1 {
		return nil, ErrMemberInactive
	}

	user := models.AuthUser{
		Username: member.Username,
		Email:    member.Email,
		Name:     member.Name,
		IsActive: member.IsActive,
	}

	accessToken, err := j.GenerateToken(user, "access", AccessTokenDuration)
	if err != nil {
		return nil, fmt.Errorf("error generating new access token: %v", err)
	}

	newRefreshToken, err := j.GenerateToken(user, "refresh", RefreshTokenDuration)
	if err != nil {
		return nil, fmt.Errorf("error generating new refresh token: %v", err)
	}

	return &models.AuthResponse{
		Token:        accessToken,
		RefreshToken: newRefreshToken,
		ExpiresAt:    time.Now().Add(AccessTokenDuration),
		User:         user,
	}, nil
}

func (j *JWTService) parseClaims(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.secretKey, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
