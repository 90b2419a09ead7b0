package web

import (
	"crypto/sha256"
	"crypto/subtle"
	"net/http"
	"strconv"

	"depdash/internal/config"
)

// requireBasicAuth gates every request behind HTTP basic auth when enabled.
func requireBasicAuth(cfg config.BasicAuth, next http.Handler) http.Handler {
	if !cfg.Enabled {
		return next
	}
	wantUser := sha256.Sum256([]byte(cfg.Username))
	wantPass := sha256.Sum256([]byte(cfg.Password))
	challenge := "Basic realm=" + strconv.Quote(cfg.Realm)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if ok {
			gotUser := sha256.Sum256([]byte(user))
			gotPass := sha256.Sum256([]byte(pass))
			// Compare both halves unconditionally so timing doesn't reveal
			// which one was wrong.
			userOK := subtle.ConstantTimeCompare(gotUser[:], wantUser[:]) == 1
			passOK := subtle.ConstantTimeCompare(gotPass[:], wantPass[:]) == 1
			if userOK && passOK {
				next.ServeHTTP(w, r)
				return
			}
		}
		w.Header().Set("WWW-Authenticate", challenge)
		writeStatus(w, http.StatusUnauthorized)
	})
}
