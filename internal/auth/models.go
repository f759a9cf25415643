package auth

// DevAuthRequest — запрос dev-токена, subject необязателен
type DevAuthRequest struct {
	Subject string `json:"subject"`
}

// DevAuthResponse — ответ на dev-авторизацию
type DevAuthResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
	Subject     string `json:"subject"`
}
