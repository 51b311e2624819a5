package backend

import "resume-studio/internal/store"

// Tokens keeps the session token pair in the persistence bridge so every
// surface sharing the bridge sees the same session.
type Tokens struct {
	bridge store.Bridge
}

func NewTokens(bridge store.Bridge) *Tokens {
	return &Tokens{bridge: bridge}
}

func (t *Tokens) Access() string {
	v, _ := t.bridge.Get(store.KeyAccessToken)
	return v
}

func (t *Tokens) Refresh() string {
	v, _ := t.bridge.Get(store.KeyRefreshToken)
	return v
}

// Set stores the pair. An empty refresh leaves the stored refresh token in
// place, matching a refresh response that rotates only the access token.
func (t *Tokens) Set(access, refresh string) {
	_ = t.bridge.Set(store.KeyAccessToken, access)
	if refresh != "" {
		_ = t.bridge.Set(store.KeyRefreshToken, refresh)
	}
}

func (t *Tokens) Clear() {
	_ = t.bridge.Delete(store.KeyAccessToken)
	_ = t.bridge.Delete(store.KeyRefreshToken)
}
