package auth

import (
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

var jwtKey = []byte(os.Getenv("JWT_KEY"))

// SessionClaims is the signed session payload consulted by every
// protected handler.
type SessionClaims struct {
	FacultyID  string   `json:"faculty_id"`
	Name       string   `json:"name"`
	Email      string   `json:"email"`
	AmizoneID  string   `json:"amizone_id"`
	Position   string   `json:"position"`
	Roles      []string `json:"roles"`
	Department string   `json:"department"`
	CardID     string   `json:"card_id"`
	jwt.RegisteredClaims
}

func GenerateSessionToken(f *Faculty, cardID primitive.ObjectID, duration time.Duration) (string, error) {
	claims := &SessionClaims{
		FacultyID:  f.ID.Hex(),
		Name:       f.Name,
		Email:      f.Email,
		AmizoneID:  f.AmizoneID,
		Position:   f.Position,
		Roles:      f.Roles,
		Department: f.Department,
		CardID:     cardID.Hex(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(duration)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtKey)
}

func ValidateSessionToken(tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return jwtKey, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.ExpiresAt != nil && claims.ExpiresAt.Before(time.Now()) {
		return nil, errors.New("token expired")
	}
	return claims, nil
}

func GetJWTKey() []byte {
	return jwtKey
}

func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(hashed), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
