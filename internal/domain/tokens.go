package domain

// TokenPair carries the credentials issued on a successful login: a
// short-lived access token and a longer-lived refresh token. Neither is
// persisted; both are verified cryptographically at presentation time.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}
