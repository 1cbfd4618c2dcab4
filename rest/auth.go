package rest

import (
	"context"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/dgrijalva/jwt-go"

	"github.com/vgeorgieva/Social-Network/model"
)

const userContextKey = "user"

func jwtSecret() []byte {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "secret"
	}
	return []byte(secret)
}

// JwtVerify parses the Authorization header ("Token <jwt>" or "Bearer <jwt>")
// and puts the claims in the request context. Handlers read the caller id
// back out with callerID and pass it explicitly into the service.
func JwtVerify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token := strings.TrimPrefix(strings.TrimPrefix(header, "Token "), "Bearer ")
		if token == "" {
			respondWithError(w, http.StatusUnauthorized, "Missing auth token")
			return
		}

		claims := &model.UserToken{}
		_, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
			return jwtSecret(), nil
		})
		if err != nil {
			respondWithError(w, http.StatusUnauthorized, "Invalid auth token")
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func callerID(r *http.Request) (int, bool) {
	claims, ok := r.Context().Value(userContextKey).(*model.UserToken)
	if !ok {
		return 0, false
	}
	id, err := strconv.Atoi(claims.UserID)
	if err != nil {
		return 0, false
	}
	return id, true
}
