package main

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"os"
	"time"

	"github.com/ishchuktaras/wallet-explorer/internal/client"
	"github.com/ishchuktaras/wallet-explorer/internal/config"
	"github.com/ishchuktaras/wallet-explorer/internal/entity"
	"github.com/ishchuktaras/wallet-explorer/internal/service"
	"github.com/ishchuktaras/wallet-explorer/internal/storage"
	"github.com/ishchuktaras/wallet-explorer/pkg/metrics"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "warning: failed to load .env file: %v\n", err)
	}

	var cfgPath string

	rootCmd := &cobra.Command{
		Use:   "wallet-explorer-cli",
		Short: "Explore Cardano wallets from the terminal",
		Long:  `wallet-explorer-cli looks up a Cardano address via Blockfrost and prints its balance, assets, and recent transactions.`,
	}
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "config/config.yaml", "path to configuration file")

	lookupCmd := &cobra.Command{
		Use:   "lookup <address>",
		Short: "Load a wallet snapshot for one address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLookup(cfgPath, args[0])
		},
	}

	recentCmd := &cobra.Command{
		Use:   "recent",
		Short: "List recently queried addresses",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecent(cfgPath)
		},
	}

	rootCmd.AddCommand(lookupCmd, recentCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runLookup(cfgPath, address string) error {
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		return err
	}

	logger := zap.NewNop()
	metrics.MustRegisterMetrics()

	kv, err := storage.NewFileKeyValueStore(cfg.Storage.Path)
	if err != nil {
		return err
	}
	recentStore := storage.NewRecentQueryStore(kv, logger)

	indexerClient := client.NewBlockfrostClient(
		cfg.Blockfrost.BaseURL,
		cfg.Blockfrost.ProjectID,
		time.Duration(cfg.Blockfrost.RequestTimeoutMillis)*time.Millisecond,
		logger,
	)
	priceClient := client.NewCoinGeckoClient(
		cfg.CoinGecko.BaseURL,
		time.Duration(cfg.CoinGecko.RequestTimeoutMillis)*time.Millisecond,
		logger,
	)
	priceService := service.NewPriceService(
		priceClient,
		time.Duration(cfg.Cache.PriceTTLMinutes)*time.Minute,
		time.Duration(cfg.Cache.CleanupMinutes)*time.Minute,
		logger,
	)
	walletService := service.NewWalletService(indexerClient, priceService, recentStore, cfg, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	snapshot, err := walletService.LoadWallet(ctx, address)
	if err != nil {
		var apiErr *entity.APIError
		if errors.As(err, &apiErr) {
			return fmt.Errorf("%s", apiErr.UserMessage())
		}
		return err
	}

	printSnapshot(snapshot)
	return nil
}

func runRecent(cfgPath string) error {
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		return err
	}
	kv, err := storage.NewFileKeyValueStore(cfg.Storage.Path)
	if err != nil {
		return err
	}
	recentStore := storage.NewRecentQueryStore(kv, zap.NewNop())

	addresses := recentStore.List()
	if len(addresses) == 0 {
		fmt.Println("No recent searches.")
		return nil
	}
	for i, addr := range addresses {
		fmt.Printf("%d. %s\n", i+1, addr)
	}
	return nil
}

func printSnapshot(snapshot *entity.WalletSnapshot) {
	fmt.Printf("Address: %s\n", snapshot.Address)
	if snapshot.StakeAddress != nil {
		fmt.Printf("Stake address: %s\n", *snapshot.StakeAddress)
	}

	fmt.Printf("Balance: %s ADA", formatLovelace(snapshot.Balances[0].Quantity))
	if snapshot.AdaPriceUSD > 0 {
		fmt.Printf(" (1 ADA = $%.4f)", snapshot.AdaPriceUSD)
	}
	fmt.Println()

	if snapshot.TxCount.Exact {
		fmt.Printf("Transactions: %d (showing %d)\n", snapshot.TxCount.Total, snapshot.CountLoaded())
	} else {
		fmt.Printf("Transactions: at least %d (showing %d)\n", snapshot.TxCount.Total, snapshot.CountLoaded())
	}

	fmt.Printf("Assets: %d\n", len(snapshot.Assets))
	for _, asset := range snapshot.Assets {
		name := asset.Unit
		if asset.Metadata != nil {
			name = asset.Metadata.DisplayName
		}
		fmt.Printf("  - %s x%s\n", name, asset.Quantity)
	}
}

// formatLovelace renders a lovelace quantity as an ADA amount with six
// decimal places.
func formatLovelace(quantity string) string {
	lovelace, ok := new(big.Int).SetString(quantity, 10)
	if !ok {
		return quantity
	}
	ada := new(big.Float).Quo(new(big.Float).SetInt(lovelace), big.NewFloat(1_000_000))
	return ada.Text('f', 6)
}
