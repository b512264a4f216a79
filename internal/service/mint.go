package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"nomadlink/internal/models"
	"nomadlink/pkg/errors"
)

// MintService forwards mint requests to an external chain client. The
// contract logic itself lives entirely on the other side; this is a relay.
type MintService struct {
	endpoint string
	client   *http.Client
}

func NewMintService(endpoint string) *MintService {
	return &MintService{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// RequestMint forwards the request and reports whether it was accepted.
func (s *MintService) RequestMint(ctx context.Context, user *models.User, tokenURI string) error {
	if s.endpoint == "" {
		return errors.New("mint: no chain client configured")
	}

	payload, err := json.Marshal(map[string]string{
		"wallet_address": user.WalletAddress,
		"token_uri":      tokenURI,
	})
	if err != nil {
		return errors.Wrap(err, "encode mint request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(payload))
	if err != nil {
		return errors.Wrap(err, "build mint request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "forward mint request")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return errors.New(fmt.Sprintf("chain client returned %d", resp.StatusCode))
	}
	return nil
}
