package auth

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/ivankudzin/estate-backoffice/internal/domain/enums"
	"github.com/ivankudzin/estate-backoffice/internal/domain/model"
)

var ErrUnauthorized = errors.New("unauthorized")

const (
	audienceOperator = "backoffice"
	audienceUser     = "marketplace"
)

// JWTManager verifies tokens minted by the identity service. Issuing lives
// here too so tools and tests can produce compatible tokens.
type JWTManager struct {
	secret    []byte
	accessTTL time.Duration
	now       func() time.Time
}

type tokenClaims struct {
	Role        string   `json:"role,omitempty"`
	Permissions []string `json:"perms,omitempty"`
	jwt.RegisteredClaims
}

func NewJWTManager(secret string, accessTTL time.Duration) *JWTManager {
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}

	return &JWTManager{
		secret:    []byte(secret),
		accessTTL: accessTTL,
		now:       time.Now,
	}
}

func (m *JWTManager) GenerateOperatorToken(operator model.Operator) (string, time.Time, error) {
	perms := make([]string, 0, len(operator.Permissions))
	for _, p := range operator.Permissions {
		perms = append(perms, string(p))
	}
	return m.generate(operator.ID, audienceOperator, string(operator.Role), perms)
}

func (m *JWTManager) GenerateUserToken(userID int64) (string, time.Time, error) {
	return m.generate(userID, audienceUser, "", nil)
}

func (m *JWTManager) generate(subjectID int64, audience, role string, perms []string) (string, time.Time, error) {
	if len(m.secret) == 0 {
		return "", time.Time{}, fmt.Errorf("jwt secret is empty")
	}
	if subjectID <= 0 {
		return "", time.Time{}, fmt.Errorf("invalid access token payload")
	}

	now := m.now().UTC()
	expiresAt := now.Add(m.accessTTL)
	claims := tokenClaims{
		Role:        role,
		Permissions: perms,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(subjectID, 10),
			Audience:  jwt.ClaimStrings{audience},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign access token: %w", err)
	}

	return signed, expiresAt, nil
}

func (m *JWTManager) ParseOperatorToken(raw string) (model.Operator, error) {
	claims, subjectID, err := m.parse(raw, audienceOperator)
	if err != nil {
		return model.Operator{}, err
	}

	perms := make([]enums.Category, 0, len(claims.Permissions))
	for _, p := range claims.Permissions {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			perms = append(perms, enums.Category(p))
		}
	}

	return model.Operator{
		ID:          subjectID,
		Role:        enums.ParseRole(claims.Role),
		Permissions: perms,
	}, nil
}

func (m *JWTManager) ParseUserToken(raw string) (int64, error) {
	_, subjectID, err := m.parse(raw, audienceUser)
	return subjectID, err
}

func (m *JWTManager) parse(raw, audience string) (*tokenClaims, int64, error) {
	if strings.TrimSpace(raw) == "" || len(m.secret) == 0 {
		return nil, 0, ErrUnauthorized
	}

	claims := &tokenClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(_ *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithAudience(audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || token == nil || !token.Valid {
		return nil, 0, ErrUnauthorized
	}

	subjectID, parseErr := strconv.ParseInt(claims.Subject, 10, 64)
	if parseErr != nil || subjectID <= 0 {
		return nil, 0, ErrUnauthorized
	}

	return claims, subjectID, nil
}
