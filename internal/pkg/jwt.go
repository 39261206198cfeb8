package pkg

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenExpired      = errors.New("token expired")
	ErrTokenInvalid      = errors.New("token invalid")
	ErrRefreshExpired    = errors.New("refresh expired")
	ErrRefreshInvalid    = errors.New("refresh invalid")
	ErrTokenParseFailure = errors.New("token parse failure")
)

const (
	AccessTTL  = time.Minute * 30
	RefreshTTL = time.Hour * 24
)

var accessSecret = []byte("dev-access-secret")
var refreshSecret = []byte("dev-refresh-secret")

// SetSecrets installs the signing keys from config. Call once at startup.
func SetSecrets(access, refresh string) {
	accessSecret = []byte(access)
	refreshSecret = []byte(refresh)
}

type Claims struct {
	UserID uint64 `json:"user_id"`
	jwt.RegisteredClaims
}

type Pair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func GeneratePair(userID uint64) (*Pair, error) {
	now := time.Now()

	access := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(AccessTTL)),
			Subject:   "access",
		},
	})
	accessToken, err := access.SignedString(accessSecret)
	if err != nil {
		return nil, err
	}

	refresh := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(RefreshTTL)),
			Subject:   "refresh",
		},
	})
	refreshToken, err := refresh.SignedString(refreshSecret)
	if err != nil {
		return nil, err
	}

	return &Pair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// ParseAccess validates an access token and returns its claims.
func ParseAccess(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		return accessSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenNotValidYet):
			return nil, ErrTokenInvalid
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		default:
			return nil, err
		}
	}
	if !token.Valid {
		return nil, ErrTokenParseFailure
	}
	return token.Claims.(*Claims), nil
}

// Refresh exchanges a valid refresh token for a new pair.
func Refresh(refreshToken string) (*Pair, error) {
	token, err := jwt.ParseWithClaims(refreshToken, &Claims{}, func(t *jwt.Token) (any, error) {
		return refreshSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenNotValidYet):
			return nil, ErrRefreshInvalid
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrRefreshExpired
		}
		return nil, err
	}
	if !token.Valid {
		return nil, err
	}
	claims := token.Claims.(*Claims)
	return GeneratePair(claims.UserID)
}
