package client

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ishchuktaras/wallet-explorer/internal/entity"
	"github.com/ishchuktaras/wallet-explorer/pkg/metrics"

	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// IndexerClient defines the interface for interacting with the Blockfrost
// indexer API. It translates logical queries into HTTP calls and maps
// non-2xx responses to *entity.APIError; it carries no retry or backoff
// logic and keeps no local state.
type IndexerClient interface {
	GetAddressInfo(ctx context.Context, address string) (*entity.WalletData, error)
	GetAddressUTXOs(ctx context.Context, address string) ([]entity.Utxo, error)
	GetAssetDetail(ctx context.Context, assetID string) (*entity.AssetDetail, error)
	// GetAddressTransactionHashes lists transaction references for the
	// address, newest first. An empty list signals end of pagination, not
	// an error. page starts at 1; page <= 0 means the first page.
	GetAddressTransactionHashes(ctx context.Context, address string, count, page int) ([]entity.TxRef, error)
	GetTransaction(ctx context.Context, hash string) (*entity.Transaction, error)
}

// blockfrostClientImpl is the fasthttp-backed implementation of IndexerClient.
type blockfrostClientImpl struct {
	client    *fasthttp.Client
	baseURL   string
	projectID string
	timeout   time.Duration
	logger    *zap.Logger
}

// NewBlockfrostClient creates a new instance of blockfrostClientImpl.
func NewBlockfrostClient(baseURL, projectID string, timeout time.Duration, logger *zap.Logger) IndexerClient {
	return &blockfrostClientImpl{
		client:    &fasthttp.Client{},
		baseURL:   strings.TrimRight(baseURL, "/"),
		projectID: projectID,
		timeout:   timeout,
		logger:    logger.Named("BlockfrostClient"),
	}
}

// get performs one authenticated GET against the indexer and decodes the
// body into out on 2xx. endpointLabel is the logical endpoint name used for
// metrics, not the concrete path.
func (c *blockfrostClientImpl) get(ctx context.Context, endpointLabel, path string, out any) error {
	requestURL := c.baseURL + path
	c.logger.Debug("Requesting from Blockfrost", zap.String("url", requestURL))

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(requestURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.SetContentType("application/json")
	req.Header.Set("project_id", c.projectID)

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	var err error
	if deadline, ok := ctx.Deadline(); ok {
		err = c.client.DoDeadline(req, resp, deadline)
	} else {
		err = c.client.DoTimeout(req, resp, c.timeout)
	}
	if err != nil {
		metrics.IndexerRequestsTotal.WithLabelValues(endpointLabel, "network_error").Inc()
		c.logger.Error("Failed to execute request to Blockfrost", zap.String("url", requestURL), zap.Error(err))
		return &entity.APIError{Kind: entity.KindNetworkUnreachable, Body: err.Error()}
	}

	status := resp.StatusCode()
	rawBody := resp.Body()

	if status < 200 || status > 299 {
		apiErr := classifyStatus(status, rawBody)
		metrics.IndexerRequestsTotal.WithLabelValues(endpointLabel, outcomeLabel(apiErr.Kind)).Inc()
		c.logger.Warn("Blockfrost API request failed",
			zap.String("url", requestURL),
			zap.Int("statusCode", status),
			zap.ByteString("responseBody", rawBody),
		)
		return apiErr
	}

	if err := json.Unmarshal(rawBody, out); err != nil {
		metrics.IndexerRequestsTotal.WithLabelValues(endpointLabel, "upstream_error").Inc()
		c.logger.Error("Failed to unmarshal Blockfrost response",
			zap.String("url", requestURL),
			zap.ByteString("responseBody", rawBody),
			zap.Error(err),
		)
		return &entity.APIError{Kind: entity.KindUpstream, Status: status, Body: fmt.Sprintf("malformed response body: %v", err)}
	}

	metrics.IndexerRequestsTotal.WithLabelValues(endpointLabel, "ok").Inc()
	return nil
}

func classifyStatus(status int, body []byte) *entity.APIError {
	switch {
	case status == fasthttp.StatusNotFound:
		return &entity.APIError{Kind: entity.KindNotFound, Status: status, Body: string(body)}
	case status == fasthttp.StatusTooManyRequests:
		return &entity.APIError{Kind: entity.KindRateLimited, Status: status, Body: string(body)}
	case status == fasthttp.StatusUnauthorized || status == fasthttp.StatusForbidden:
		return &entity.APIError{Kind: entity.KindUnauthorized, Status: status, Body: string(body)}
	default:
		return &entity.APIError{Kind: entity.KindUpstream, Status: status, Body: string(body)}
	}
}

func outcomeLabel(kind entity.ErrorKind) string {
	switch kind {
	case entity.KindNotFound:
		return "not_found"
	case entity.KindRateLimited:
		return "rate_limited"
	case entity.KindUnauthorized:
		return "unauthorized"
	case entity.KindNetworkUnreachable:
		return "network_error"
	default:
		return "upstream_error"
	}
}

// GetAddressInfo implements IndexerClient.
func (c *blockfrostClientImpl) GetAddressInfo(ctx context.Context, address string) (*entity.WalletData, error) {
	var data entity.WalletData
	if err := c.get(ctx, "address_info", "/addresses/"+address, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetAddressUTXOs implements IndexerClient.
func (c *blockfrostClientImpl) GetAddressUTXOs(ctx context.Context, address string) ([]entity.Utxo, error) {
	var utxos []entity.Utxo
	if err := c.get(ctx, "address_utxos", "/addresses/"+address+"/utxos", &utxos); err != nil {
		return nil, err
	}
	return utxos, nil
}

// GetAssetDetail implements IndexerClient. A NotFound error here is an
// expected outcome for assets without registered metadata; callers handle
// it, this client just reports it.
func (c *blockfrostClientImpl) GetAssetDetail(ctx context.Context, assetID string) (*entity.AssetDetail, error) {
	var detail entity.AssetDetail
	if err := c.get(ctx, "asset_detail", "/assets/"+assetID, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// GetAddressTransactionHashes implements IndexerClient.
func (c *blockfrostClientImpl) GetAddressTransactionHashes(ctx context.Context, address string, count, page int) ([]entity.TxRef, error) {
	path := fmt.Sprintf("/addresses/%s/transactions?order=desc&count=%d", address, count)
	if page > 1 {
		path += fmt.Sprintf("&page=%d", page)
	}
	var refs []entity.TxRef
	if err := c.get(ctx, "address_transactions", path, &refs); err != nil {
		return nil, err
	}
	return refs, nil
}

// GetTransaction implements IndexerClient.
func (c *blockfrostClientImpl) GetTransaction(ctx context.Context, hash string) (*entity.Transaction, error) {
	var tx entity.Transaction
	if err := c.get(ctx, "transaction", "/txs/"+hash, &tx); err != nil {
		return nil, err
	}
	return &tx, nil
}
