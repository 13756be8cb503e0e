package service

import (
	"context"
	"math/big"
	"time"

	"github.com/ishchuktaras/wallet-explorer/internal/client"
	"github.com/ishchuktaras/wallet-explorer/internal/config"
	"github.com/ishchuktaras/wallet-explorer/internal/entity"
	"github.com/ishchuktaras/wallet-explorer/internal/metadata"
	"github.com/ishchuktaras/wallet-explorer/internal/port"
	"github.com/ishchuktaras/wallet-explorer/pkg/metrics"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// walletServiceImpl implements port.WalletService. It owns the load policy:
// which sub-fetches are fatal, which degrade to missing data, and how the
// fan-outs are joined.
type walletServiceImpl struct {
	indexer client.IndexerClient
	price   port.PriceService
	recent  port.RecentStore
	logger  *zap.Logger

	limiter     *rate.Limiter
	detailCache *cache.Cache

	txPageSize      int
	countProbeSize  int
	maxAssetDetails int
}

// NewWalletService creates a new instance of walletServiceImpl.
func NewWalletService(
	indexer client.IndexerClient,
	price port.PriceService,
	recent port.RecentStore,
	cfg *config.Config,
	logger *zap.Logger,
) port.WalletService {
	return &walletServiceImpl{
		indexer: indexer,
		price:   price,
		recent:  recent,
		logger:  logger.Named("WalletService"),
		limiter: rate.NewLimiter(rate.Limit(cfg.Blockfrost.RateLimit), cfg.Blockfrost.BurstLimit),
		detailCache: cache.New(
			time.Duration(cfg.Cache.AssetDetailTTLMinutes)*time.Minute,
			time.Duration(cfg.Cache.CleanupMinutes)*time.Minute,
		),
		txPageSize:      cfg.Blockfrost.TransactionsPerPage,
		countProbeSize:  cfg.Blockfrost.CountProbeSize,
		maxAssetDetails: cfg.Blockfrost.MaxAssetDetails,
	}
}

// LoadWallet implements port.WalletService. The address record and UTXO set
// are load-bearing: either failing aborts the run with no partial snapshot.
// The transaction count, the transaction page, asset metadata, and the fiat
// price all degrade to missing data.
func (s *walletServiceImpl) LoadWallet(ctx context.Context, address string) (*entity.WalletSnapshot, error) {
	s.logger.Info("Loading wallet", zap.String("address", address))

	info, err := s.fetchAddressInfo(ctx, address)
	if err != nil {
		metrics.WalletLoadsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	txCount := s.estimateTransactionCount(ctx, address, info)

	transactions, err := s.fetchTransactionPage(ctx, address, 1)
	if err != nil {
		s.logger.Warn("Transaction page fetch failed, proceeding without history",
			zap.String("address", address), zap.Error(err))
		transactions = nil
	}

	utxos, err := s.fetchUTXOs(ctx, address)
	if err != nil {
		metrics.WalletLoadsTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	balances, assets := deriveAssets(utxos)

	s.fetchAssetMetadata(ctx, assets)

	snapshot := &entity.WalletSnapshot{
		Address:      address,
		Balances:     balances,
		Transactions: transactions,
		TxCount:      txCount,
		Assets:       assets,
		AdaPriceUSD:  s.price.GetAdaPriceUSD(ctx),
		StakeAddress: info.StakeAddress,
		Script:       info.Script,
	}

	if err := s.recent.Record(address); err != nil {
		s.logger.Warn("Failed to record recent search", zap.String("address", address), zap.Error(err))
	}

	metrics.WalletLoadsTotal.WithLabelValues("ok").Inc()
	s.logger.Info("Wallet loaded",
		zap.String("address", address),
		zap.Int("transactions", len(transactions)),
		zap.Int("assets", len(assets)),
	)
	return snapshot, nil
}

// LoadMoreTransactions implements port.WalletService. An empty result means
// the history is exhausted and the caller must stop paginating.
func (s *walletServiceImpl) LoadMoreTransactions(ctx context.Context, address string, page int) ([]entity.Transaction, error) {
	if page < 1 {
		page = 1
	}
	return s.fetchTransactionPage(ctx, address, page)
}

func (s *walletServiceImpl) fetchAddressInfo(ctx context.Context, address string) (*entity.WalletData, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, &entity.APIError{Kind: entity.KindNetworkUnreachable, Body: err.Error()}
	}
	return s.indexer.GetAddressInfo(ctx, address)
}

func (s *walletServiceImpl) fetchUTXOs(ctx context.Context, address string) ([]entity.Utxo, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, &entity.APIError{Kind: entity.KindNetworkUnreachable, Body: err.Error()}
	}
	return s.indexer.GetAddressUTXOs(ctx, address)
}

// estimateTransactionCount probes the history with one bounded listing.
// Fewer refs than the probe size is an exact total. A full probe page only
// proves the total is at least that large, so the count is reported
// non-exact rather than pretending the probe size is the answer. Probe
// failure falls back to the count carried on the address record, else zero;
// none of this ever fails the load.
func (s *walletServiceImpl) estimateTransactionCount(ctx context.Context, address string, info *entity.WalletData) entity.TransactionCount {
	if err := s.limiter.Wait(ctx); err != nil {
		return entity.TransactionCount{Total: info.TxCount, Exact: false}
	}

	refs, err := s.indexer.GetAddressTransactionHashes(ctx, address, s.countProbeSize, 1)
	if err != nil {
		s.logger.Warn("Transaction count probe failed, using address record fallback",
			zap.String("address", address), zap.Error(err))
		return entity.TransactionCount{Total: info.TxCount, Exact: false}
	}

	if len(refs) < s.countProbeSize {
		return entity.TransactionCount{Total: len(refs), Exact: true}
	}
	return entity.TransactionCount{Total: len(refs), Exact: false}
}

// fetchTransactionPage lists one page of transaction references and fans
// out a detail fetch per hash. All detail fetches join before the page is
// assembled; individual failures drop that record and keep the rest, in
// listing order.
func (s *walletServiceImpl) fetchTransactionPage(ctx context.Context, address string, page int) ([]entity.Transaction, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, &entity.APIError{Kind: entity.KindNetworkUnreachable, Body: err.Error()}
	}

	refs, err := s.indexer.GetAddressTransactionHashes(ctx, address, s.txPageSize, page)
	if err != nil {
		return nil, err
	}
	if len(refs) == 0 {
		return []entity.Transaction{}, nil
	}

	results := make([]*entity.Transaction, len(refs))
	g, gctx := errgroup.WithContext(ctx)
	for i, ref := range refs {
		g.Go(func() error {
			if err := s.limiter.Wait(gctx); err != nil {
				return nil
			}
			tx, err := s.indexer.GetTransaction(gctx, ref.TxHash)
			if err != nil {
				s.logger.Warn("Transaction detail fetch failed, dropping record",
					zap.String("hash", ref.TxHash), zap.Error(err))
				return nil
			}
			results[i] = tx
			return nil
		})
	}
	_ = g.Wait()

	transactions := make([]entity.Transaction, 0, len(refs))
	for _, tx := range results {
		if tx != nil {
			transactions = append(transactions, *tx)
		}
	}
	return transactions, nil
}

// deriveAssets folds the UTXO set into the balance list and asset views.
// Every lovelace amount is summed into one synthetic entry at the head of
// the balances; every other amount becomes its own asset view in discovery
// order, metadata initially absent. The sum uses big.Int: quantities are
// decimal strings that may not fit an int64.
func deriveAssets(utxos []entity.Utxo) ([]entity.Amount, []entity.AssetView) {
	totalLovelace := new(big.Int)
	var assets []entity.AssetView

	for _, utxo := range utxos {
		for _, amount := range utxo.Amount {
			if amount.Unit == entity.LovelaceUnit {
				if quantity, ok := new(big.Int).SetString(amount.Quantity, 10); ok {
					totalLovelace.Add(totalLovelace, quantity)
				}
				continue
			}
			assets = append(assets, entity.AssetView{
				Unit:     amount.Unit,
				Quantity: amount.Quantity,
			})
		}
	}

	balances := make([]entity.Amount, 0, len(assets)+1)
	balances = append(balances, entity.Amount{Unit: entity.LovelaceUnit, Quantity: totalLovelace.String()})
	for _, asset := range assets {
		balances = append(balances, entity.Amount{Unit: asset.Unit, Quantity: asset.Quantity})
	}
	return balances, assets
}

// fetchAssetMetadata resolves metadata for the first maxAssetDetails assets
// in discovery order; the rest keep metadata absent for this run as a
// rate-limit mitigation. Fetches run concurrently with per-index result
// slots so one failure cannot fail or delay the others, and only successes
// are merged.
func (s *walletServiceImpl) fetchAssetMetadata(ctx context.Context, assets []entity.AssetView) {
	limit := len(assets)
	if limit > s.maxAssetDetails {
		s.logger.Info("Capping asset metadata fetches",
			zap.Int("total", len(assets)), zap.Int("cap", s.maxAssetDetails))
		limit = s.maxAssetDetails
	}

	details := make([]*entity.AssetDetail, limit)
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < limit; i++ {
		unit := assets[i].Unit
		g.Go(func() error {
			detail, err := s.fetchAssetDetail(gctx, unit)
			if err != nil {
				// NotFound is routine here: plenty of assets simply have
				// no registered metadata.
				if entity.IsNotFound(err) {
					s.logger.Debug("Asset has no registered metadata", zap.String("unit", unit))
				} else {
					s.logger.Warn("Asset detail fetch failed, skipping",
						zap.String("unit", unit), zap.Error(err))
				}
				return nil
			}
			details[i] = detail
			return nil
		})
	}
	_ = g.Wait()

	for i, detail := range details {
		if detail != nil {
			assets[i].Metadata = metadata.Normalize(detail)
		}
	}
}

func (s *walletServiceImpl) fetchAssetDetail(ctx context.Context, unit string) (*entity.AssetDetail, error) {
	if cached, found := s.detailCache.Get(unit); found {
		metrics.AssetDetailCacheHitsTotal.Inc()
		return cached.(*entity.AssetDetail), nil
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, &entity.APIError{Kind: entity.KindNetworkUnreachable, Body: err.Error()}
	}
	detail, err := s.indexer.GetAssetDetail(ctx, unit)
	if err != nil {
		return nil, err
	}
	s.detailCache.Set(unit, detail, cache.DefaultExpiration)
	return detail, nil
}
