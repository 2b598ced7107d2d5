package payment

// zohoHostedPageResponse is the envelope of hosted page create and fetch calls
type zohoHostedPageResponse struct {
	Code       int             `json:"code"`
	Message    string          `json:"message"`
	HostedPage *zohoHostedPage `json:"hostedpage"`
}

type zohoHostedPage struct {
	HostedPageID          string `json:"hostedpage_id"`
	DecryptedHostedPageID string `json:"decrypted_hosted_page_id"`
	Status                string `json:"status"`
	URL                   string `json:"url"`
	ExpiringTime          string `json:"expiring_time"`
}

// zohoTokenResponse is the OAuth refresh answer. Zoho reports grant errors
// with HTTP 200 and an "error" field.
type zohoTokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	TokenType   string `json:"token_type"`
	Error       string `json:"error"`
}
