package serializers

import (
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
)

const stateTTL = 10 * time.Minute

// redirectStateSerializer signs the post-login redirect target into a compact
// state parameter for the OAuth kick-off, so the target cannot be tampered
// with between the kick-off and the callback.
type redirectStateSerializer struct {
	hmacSecret string
}

func NewRedirectStateSerializer(hmacSecret string) *redirectStateSerializer {
	return &redirectStateSerializer{
		hmacSecret: hmacSecret,
	}
}

func (serializer *redirectStateSerializer) Serialize(redirect string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"redirect": redirect,
		"iat":      now.Unix(),
		"exp":      now.Add(stateTTL).Unix(),
	})
	return token.SignedString([]byte(serializer.hmacSecret))
}

func (serializer *redirectStateSerializer) Deserialize(state string) (string, error) {
	token, err := jwt.Parse(state, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(serializer.hmacSecret), nil
	})
	if err != nil {
		return "", err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("invalid state token")
	}
	redirect, ok := claims["redirect"].(string)
	if !ok {
		return "", fmt.Errorf("state token carries no redirect claim")
	}
	return redirect, nil
}
