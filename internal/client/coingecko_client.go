package client

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

// PriceClient defines the interface for fetching the base currency's fiat
// reference price.
type PriceClient interface {
	// GetAdaPriceUSD returns the current ADA/USD price. Unlike the indexer
	// client this call is unauthenticated and best-effort only.
	GetAdaPriceUSD(ctx context.Context) (float64, error)
}

// coinGeckoClientImpl is the fasthttp-backed implementation of PriceClient.
type coinGeckoClientImpl struct {
	client  *fasthttp.Client
	baseURL string
	timeout time.Duration
	logger  *zap.Logger
}

// NewCoinGeckoClient creates a new instance of coinGeckoClientImpl.
func NewCoinGeckoClient(baseURL string, timeout time.Duration, logger *zap.Logger) PriceClient {
	return &coinGeckoClientImpl{
		client:  &fasthttp.Client{},
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		logger:  logger.Named("CoinGeckoClient"),
	}
}

// GetAdaPriceUSD implements PriceClient.
func (c *coinGeckoClientImpl) GetAdaPriceUSD(ctx context.Context) (float64, error) {
	requestURL := c.baseURL + "/simple/price?ids=cardano&vs_currencies=usd"
	c.logger.Debug("Requesting ADA price from CoinGecko", zap.String("url", requestURL))

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(requestURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.SetContentType("application/json")

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	var err error
	if deadline, ok := ctx.Deadline(); ok {
		err = c.client.DoDeadline(req, resp, deadline)
	} else {
		err = c.client.DoTimeout(req, resp, c.timeout)
	}
	if err != nil {
		c.logger.Warn("Failed to execute request to CoinGecko", zap.String("url", requestURL), zap.Error(err))
		return 0, fmt.Errorf("failed to execute request to %s: %w", requestURL, err)
	}

	rawBody := resp.Body()
	if resp.StatusCode() != fasthttp.StatusOK {
		c.logger.Warn("CoinGecko API request failed",
			zap.String("url", requestURL),
			zap.Int("statusCode", resp.StatusCode()),
			zap.ByteString("responseBody", rawBody),
		)
		return 0, fmt.Errorf("CoinGecko request to %s failed with status %d", requestURL, resp.StatusCode())
	}

	var priceResp struct {
		Cardano struct {
			USD float64 `json:"usd"`
		} `json:"cardano"`
	}
	if err := json.Unmarshal(rawBody, &priceResp); err != nil {
		c.logger.Warn("Failed to unmarshal CoinGecko response",
			zap.ByteString("responseBody", rawBody),
			zap.Error(err),
		)
		return 0, fmt.Errorf("failed to unmarshal CoinGecko response: %w", err)
	}

	return priceResp.Cardano.USD, nil
}
