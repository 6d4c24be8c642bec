package security

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/johncpakin/pinged/internal/core/domain"
)

const (
	TokenAccess  = "access"
	TokenRefresh = "refresh"

	Issuer = "pinged-identity"
)

var ErrWrongTokenType = errors.New("wrong token type")

// UserClaims étend les claims standards ; Type empêche d'utiliser un refresh comme access.
type UserClaims struct {
	Type     string `json:"typ"`
	Email    string `json:"email,omitempty"`
	Username string `json:"username,omitempty"`
	jwt.RegisteredClaims
}

type JWTProvider struct {
	privateKey    *rsa.PrivateKey
	publicKey     *rsa.PublicKey
	accessExpiry  time.Duration
	refreshExpiry time.Duration
	issuer        string
	now           func() time.Time
}

// NewJWTProvider charge les clés RSA depuis du PEM.
func NewJWTProvider(privateKeyPEM, publicKeyPEM []byte) (*JWTProvider, error) {
	privKey, err := jwt.ParseRSAPrivateKeyFromPEM(privateKeyPEM)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}
	pubKey, err := jwt.ParseRSAPublicKeyFromPEM(publicKeyPEM)
	if err != nil {
		return nil, fmt.Errorf("failed to parse public key: %w", err)
	}

	return &JWTProvider{
		privateKey:    privKey,
		publicKey:     pubKey,
		accessExpiry:  15 * time.Minute,   // Court
		refreshExpiry: 7 * 24 * time.Hour, // Long
		issuer:        Issuer,
		now:           time.Now,
	}, nil
}

// NewJWTProviderFromFiles lit les deux clés sur disque.
func NewJWTProviderFromFiles(privatePath, publicPath string) (*JWTProvider, error) {
	priv, err := os.ReadFile(privatePath)
	if err != nil {
		return nil, fmt.Errorf("read private key: %w", err)
	}
	pub, err := os.ReadFile(publicPath)
	if err != nil {
		return nil, fmt.Errorf("read public key: %w", err)
	}
	return NewJWTProvider(priv, pub)
}

func (j *JWTProvider) AccessTTL() time.Duration { return j.accessExpiry }

// GenerateTokens crée la paire Access + Refresh
func (j *JWTProvider) GenerateTokens(user *domain.User) (string, string, error) {
	now := j.now()

	access, err := j.sign(UserClaims{
		Type:     TokenAccess,
		Email:    user.Email,
		Username: user.Username,
		RegisteredClaims: j.registered(user.ID, now, j.accessExpiry, "acc"),
	})
	if err != nil {
		return "", "", err
	}

	// Le refresh sert juste à identifier l'user pour renouveler
	refresh, err := j.sign(UserClaims{
		Type:             TokenRefresh,
		RegisteredClaims: j.registered(user.ID, now, j.refreshExpiry, "ref"),
	})
	if err != nil {
		return "", "", err
	}

	return access, refresh, nil
}

// Validate n'accepte que les access tokens et retourne l'UserID (Subject).
func (j *JWTProvider) Validate(token string) (string, error) {
	return j.validate(token, TokenAccess)
}

func (j *JWTProvider) ValidateRefresh(token string) (string, error) {
	return j.validate(token, TokenRefresh)
}

func (j *JWTProvider) validate(tokenString, want string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &UserClaims{}, func(token *jwt.Token) (any, error) {
		// Refuse "none" ou HS256 forgé avec la clé publique
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.publicKey, nil
	},
		jwt.WithIssuer(j.issuer),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		return "", err // expiré ou signature invalide
	}

	claims, ok := token.Claims.(*UserClaims)
	if !ok || !token.Valid {
		return "", errors.New("invalid token claims")
	}
	if claims.Type != want {
		return "", ErrWrongTokenType
	}
	return claims.Subject, nil
}

func (j *JWTProvider) sign(claims UserClaims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(j.privateKey)
}

func (j *JWTProvider) registered(userID string, now time.Time, ttl time.Duration, suffix string) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		Issuer:    j.issuer,
		Subject:   userID,
		ID:        fmt.Sprintf("%s-%s-%d", userID, suffix, now.UnixNano()), // JTI unique
	}
}
