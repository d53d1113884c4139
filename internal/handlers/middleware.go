package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

type contextKey int

const accountIDKey contextKey = iota

// requireSession authenticates the Bearer token and stores the resolved
// account id on the request context.
func (h *Handler) requireSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accountID, err := h.auth.Authenticate(bearerToken(r))
		if err != nil {
			h.respondError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), accountIDKey, accountID)
		next(w, r.WithContext(ctx))
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimPrefix(header, prefix)
}

// accountIDFrom returns the authenticated account id placed by requireSession.
func accountIDFrom(ctx context.Context) uuid.UUID {
	accountID, _ := ctx.Value(accountIDKey).(uuid.UUID)
	return accountID
}
