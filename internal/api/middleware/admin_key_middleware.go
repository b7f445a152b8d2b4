package middleware

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"

	"github.com/RoyceAzure/lab/pickup/internal/constants"
)

// AdminKeyMiddleware header x-admin-key 或 query key 必須等於管理密碼
// secret 每次請求重新取得, 設定檔更新後立即生效
func AdminKeyMiddleware(secret func() string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(constants.AdminKeyHeader)
			if key == "" {
				key = r.URL.Query().Get(constants.AdminKeyQuery)
			}

			expected := secret()
			if expected == "" || subtle.ConstantTimeCompare([]byte(key), []byte(expected)) != 1 {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]string{"error": "Unauthorized"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
