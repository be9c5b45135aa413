package admin

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/aukawellness/studio-api/pkg/logging"
)

// roleClaims carries the studio role inside the admin JWT.
type roleClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// RoleHandler answers the admin role check. A missing, malformed or
// expired token is never an error response: the caller gets
// {"isAdmin": false} and is expected to sign the user out. There is no
// partial-admin state.
type RoleHandler struct {
	secret string
	logger *logging.Logger
}

// NewRoleHandler creates a role check handler verifying HMAC-signed JWTs.
func NewRoleHandler(secret string, logger *logging.Logger) *RoleHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &RoleHandler{secret: secret, logger: logger}
}

type roleResponse struct {
	IsAdmin bool `json:"isAdmin"`
}

// Check handles GET /admin/role.
func (h *RoleHandler) Check(w http.ResponseWriter, r *http.Request) {
	writeRole(w, h.isAdmin(r))
}

func (h *RoleHandler) isAdmin(r *http.Request) bool {
	if h.secret == "" {
		return false
	}
	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return false
	}
	tokenString := strings.TrimPrefix(auth, "Bearer ")

	claims := &roleClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(h.secret), nil
	})
	if err != nil || !token.Valid {
		return false
	}
	return claims.Role == "admin"
}

func writeRole(w http.ResponseWriter, isAdmin bool) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(roleResponse{IsAdmin: isAdmin})
}
