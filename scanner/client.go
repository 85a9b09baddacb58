package scanner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// ClaimRequest is the payload submitted to the claim endpoint.
type ClaimRequest struct {
	QRCode    string  `json:"qr_code"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// ClaimClient submits an authenticated loyalty claim.
type ClaimClient interface {
	Claim(ctx context.Context, token string, req ClaimRequest) error
}

// ClaimError carries the HTTP status and backend message of a rejected
// claim so the session can classify it for the user.
type ClaimError struct {
	StatusCode int
	Message    string
}

func (e *ClaimError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("claim rejected with status %d", e.StatusCode)
}

// HTTPClaimClient posts claims to the loyalty backend.
type HTTPClaimClient struct {
	BaseURL string
	Client  *http.Client
}

func NewHTTPClaimClient(baseURL string) *HTTPClaimClient {
	return &HTTPClaimClient{
		BaseURL: baseURL,
		Client:  http.DefaultClient,
	}
}

func (c *HTTPClaimClient) Claim(ctx context.Context, token string, claim ClaimRequest) error {
	body, err := json.Marshal(claim)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/claims", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	return &ClaimError{
		StatusCode: resp.StatusCode,
		Message:    responseMessage(resp.Body),
	}
}

// responseMessage pulls the message out of the standard response envelope,
// tolerating bodies that are not the envelope at all.
func responseMessage(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 64<<10))
	if err != nil {
		return ""
	}

	var envelope struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &envelope); err == nil && envelope.Message != "" {
		return envelope.Message
	}
	return string(bytes.TrimSpace(data))
}
