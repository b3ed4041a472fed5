package handlers

import (
	"encoding/json"
	"net/http"
	"regexp"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
)

// 한국 종목코드: 6자리 숫자
var stockCodeRe = regexp.MustCompile(`^[0-9]{6}$`)

// pathCode extracts and validates the {code} path variable
func pathCode(r *http.Request) (string, bool) {
	code := mux.Vars(r)["code"]
	return code, stockCodeRe.MatchString(code)
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}

// queryInt reads an integer query parameter, falling back on the default
// when absent or malformed
func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

// queryDecimal reads a decimal query parameter, zero when absent or malformed
func queryDecimal(r *http.Request, name string) decimal.Decimal {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero
	}
	return d
}
