package handlers

import (
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"

	"learnhub-storefront-api/config"
)

const cartSessionName = "cart-session"

// NewSessionStore builds the cookie store that carries the guest cart key.
func NewSessionStore(cfg *config.Config) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(cfg.Session.Secret))
	store.Options = &sessions.Options{
		Path:     "/",
		Domain:   cfg.Session.Domain,
		MaxAge:   cfg.Session.MaxAge,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

// cartKey returns the cart key bound to this browser session, minting one on
// first contact. The key is what the cart store indexes snapshots by.
func cartKey(store *sessions.CookieStore, w http.ResponseWriter, r *http.Request) string {
	session, err := store.Get(r, cartSessionName)
	if err != nil {
		log.Printf("Error getting cart session, minting new key: %v", err)
	}

	key, ok := session.Values["cart_key"].(string)
	if !ok || key == "" {
		key = uuid.NewString()
		session.Values["cart_key"] = key
		if err := session.Save(r, w); err != nil {
			log.Printf("Error saving cart session: %v", err)
		}
	}
	return key
}
