package session

import (
	"github.com/jbchangelogs/gateway/pkg/common"
	"net/http"
	"time"
)

// undefinedToken guards against a known client bug class where the literal
// string "undefined" ends up stored as the cookie value.
const undefinedToken = "undefined"

// Store is the single boundary through which the session cookie is read and
// written. The token is treated as an opaque credential, validity is enforced
// entirely upstream.
type Store struct {
	CookieName       string
	LegacyCookieName string
	Path             string
	Domain           string
	Secure           bool
	TTLHours         int
}

func NewStore(cookieName string, legacyCookieName string, path string, domain string, secure bool, ttlHours int) *Store {
	return &Store{
		CookieName:       cookieName,
		LegacyCookieName: legacyCookieName,
		Path:             path,
		Domain:           domain,
		Secure:           secure,
		TTLHours:         ttlHours,
	}
}

// Read returns the session token if present and not the literal "undefined".
func (store *Store) Read(request *http.Request) (common.Token, bool) {
	return store.read(request, store.CookieName)
}

// ReadLegacy reads the legacy cookie variant kept for the email-linking flow.
func (store *Store) ReadLegacy(request *http.Request) (common.Token, bool) {
	if store.LegacyCookieName == "" {
		return "", false
	}
	return store.read(request, store.LegacyCookieName)
}

func (store *Store) read(request *http.Request, name string) (common.Token, bool) {
	cookie, err := request.Cookie(name)
	if err != nil || cookie.Value == "" || cookie.Value == undefinedToken {
		return "", false
	}
	return common.Token(cookie.Value), true
}

func (store *Store) Set(writer http.ResponseWriter, token common.Token) {
	http.SetCookie(writer, &http.Cookie{
		Name:     store.CookieName,
		Value:    string(token),
		Path:     store.Path,
		Domain:   store.Domain,
		Expires:  time.Now().Add(time.Hour * time.Duration(store.TTLHours)),
		HttpOnly: true,
		Secure:   store.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Clear overwrites the cookie with an empty value and MaxAge<0, which emits
// Max-Age=0 and guarantees removal regardless of prior attributes.
func (store *Store) Clear(writer http.ResponseWriter) {
	http.SetCookie(writer, &http.Cookie{
		Name:     store.CookieName,
		Value:    "",
		Path:     store.Path,
		Domain:   store.Domain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   store.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
