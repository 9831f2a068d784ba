package providers

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

	"finsight/internal/config"
	"finsight/internal/errors"
)

const (
	kisLiveBase  = "https://openapi.koreainvestment.com:9443"
	kisPaperBase = "https://openapivts.koreainvestment.com:29443"

	// tr_id for domestic stock price inquiry
	kisQuoteTrID = "FHKST01010100"
)

// KISClient is a quote adapter for the Korea Investment & Securities REST
// API. Access tokens are cached until shortly before expiry.
type KISClient struct {
	creds      config.KISCredentials
	httpClient *http.Client

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

// NewKISClient creates a KIS quote client.
func NewKISClient(creds config.KISCredentials, timeout time.Duration) *KISClient {
	return &KISClient{
		creds:      creds,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Configured reports whether credentials are present.
func (c *KISClient) Configured() bool {
	return c.creds.AppKey != "" && c.creds.AppSecret != ""
}

func (c *KISClient) base() string {
	if c.creds.Paper {
		return kisPaperBase
	}
	return kisLiveBase
}

// accessToken returns a cached token, refreshing it when within a minute
// of expiry.
func (c *KISClient) accessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Now().Before(c.tokenExpiry.Add(-time.Minute)) {
		return c.token, nil
	}

	payload, _ := json.Marshal(map[string]string{
		"grant_type": "client_credentials",
		"appkey":     c.creds.AppKey,
		"appsecret":  c.creds.AppSecret,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base()+"/oauth2/tokenP", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token request returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var tokenResp struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return "", err
	}
	if tokenResp.AccessToken == "" {
		return "", fmt.Errorf("empty access token")
	}

	c.token = tokenResp.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(tokenResp.ExpiresIn) * time.Second)
	return c.token, nil
}

// LastPrice fetches the current price for a domestic symbol.
func (c *KISClient) LastPrice(ctx context.Context, symbol string) (float64, error) {
	if !c.Configured() {
		return 0, errors.Wrap(errors.ErrDataUnavailable, "kis credentials not configured")
	}

	token, err := c.accessToken(ctx)
	if err != nil {
		return 0, errors.NewFetchError("kis-token", symbol, err)
	}

	endpoint := fmt.Sprintf("%s/uapi/domestic-stock/v1/quotations/inquire-price?FID_COND_MRKT_DIV_CODE=J&FID_INPUT_ISCD=%s",
		c.base(), url.QueryEscape(symbol))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("authorization", "Bearer "+token)
	req.Header.Set("appkey", c.creds.AppKey)
	req.Header.Set("appsecret", c.creds.AppSecret)
	req.Header.Set("tr_id", kisQuoteTrID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, errors.NewFetchError("kis-quote", symbol, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, errors.NewFetchError("kis-quote", symbol, fmt.Errorf("status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, errors.NewFetchError("kis-quote", symbol, err)
	}

	var quoteResp struct {
		Output struct {
			Price string `json:"stck_prpr"`
		} `json:"output"`
	}
	if err := json.Unmarshal(body, &quoteResp); err != nil {
		return 0, errors.NewFetchError("kis-quote", symbol, err)
	}

	price, err := strconv.ParseFloat(quoteResp.Output.Price, 64)
	if err != nil || price <= 0 {
		return 0, errors.Wrapf(errors.ErrDataUnavailable, "kis quote for %s", symbol)
	}
	return price, nil
}
