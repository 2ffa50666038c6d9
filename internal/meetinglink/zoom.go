package meetinglink

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"
)

const (
	zoomTokenURL = "https://zoom.us/oauth/token"
	zoomAPIBase  = "https://api.zoom.us/v2"
)

// ZoomProvider реализует Provider через Zoom Server-to-Server OAuth
type ZoomProvider struct {
	accountID    string
	clientID     string
	clientSecret string
	httpClient   *http.Client

	mu          sync.Mutex
	accessToken string
	tokenExp    time.Time
}

func NewZoomProvider(accountID, clientID, clientSecret string) *ZoomProvider {
	return &ZoomProvider{
		accountID:    accountID,
		clientID:     clientID,
		clientSecret: clientSecret,
		httpClient:   &http.Client{Timeout: 15 * time.Second},
	}
}

// token возвращает действующий access token, при необходимости запрашивая
// новый по гранту account_credentials
func (p *ZoomProvider) token(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.accessToken != "" && time.Now().Before(p.tokenExp) {
		return p.accessToken, nil
	}

	form := url.Values{}
	form.Set("grant_type", "account_credentials")
	form.Set("account_id", p.accountID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, zoomTokenURL+"?"+form.Encode(), nil)
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(p.clientID, p.clientSecret)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("zoom token request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("zoom token request returned %d: %s", resp.StatusCode, string(body))
	}

	var tokenResp struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return "", fmt.Errorf("failed to decode zoom token response: %w", err)
	}

	p.accessToken = tokenResp.AccessToken
	// Обновляем токен чуть раньше реального истечения
	p.tokenExp = time.Now().Add(time.Duration(tokenResp.ExpiresIn-60) * time.Second)
	return p.accessToken, nil
}

func (p *ZoomProvider) Create(ctx context.Context, topic string, startTime time.Time, durationMinutes int) (*Meeting, error) {
	accessToken, err := p.token(ctx)
	if err != nil {
		return nil, err
	}

	payload := map[string]interface{}{
		"topic":      topic,
		"type":       2, // запланированная встреча
		"start_time": startTime.UTC().Format("2006-01-02T15:04:05Z"),
		"duration":   durationMinutes,
		"timezone":   "UTC",
		"settings": map[string]interface{}{
			"host_video":        true,
			"participant_video": true,
			"join_before_host":  false,
			"mute_upon_entry":   true,
			"waiting_room":      true,
			"approval_type":     0,
			"audio":             "both",
			"auto_recording":    "none",
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, zoomAPIBase+"/users/me/meetings", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("zoom create meeting failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("zoom create meeting returned %d: %s", resp.StatusCode, string(respBody))
	}

	var meetingResp struct {
		ID       int64  `json:"id"`
		JoinURL  string `json:"join_url"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&meetingResp); err != nil {
		return nil, fmt.Errorf("failed to decode zoom meeting response: %w", err)
	}

	return &Meeting{
		ExternalID: strconv.FormatInt(meetingResp.ID, 10),
		JoinURL:    meetingResp.JoinURL,
		Password:   meetingResp.Password,
	}, nil
}

func (p *ZoomProvider) Delete(ctx context.Context, externalID string) error {
	accessToken, err := p.token(ctx)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, zoomAPIBase+"/meetings/"+externalID, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("zoom delete meeting failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusNotFound {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("zoom delete meeting returned %d: %s", resp.StatusCode, string(body))
	}
	return nil
}
