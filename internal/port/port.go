package port

import (
	"context"

	"github.com/ishchuktaras/wallet-explorer/internal/entity"
)

// WalletService is the single entry point presentation talks to.
type WalletService interface {
	// LoadWallet assembles a full snapshot for the address. The returned
	// error, when non-nil, is an *entity.APIError from one of the fatal
	// sub-fetches; no partial snapshot is ever returned alongside it.
	LoadWallet(ctx context.Context, address string) (*entity.WalletSnapshot, error)

	// LoadMoreTransactions fetches one further page of full transaction
	// records. An empty result means the history is exhausted.
	LoadMoreTransactions(ctx context.Context, address string, page int) ([]entity.Transaction, error)
}

// PriceService provides the fiat reference price for the base currency.
// It never fails: lookups degrade to zero.
type PriceService interface {
	GetAdaPriceUSD(ctx context.Context) float64
}

// RecentStore keeps the bounded, de-duplicated list of previously queried
// addresses, persisted across runs.
type RecentStore interface {
	Record(address string) error
	List() []string
	Remove(address string) error
}
