package restapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/ishchuktaras/wallet-explorer/internal/entity"
	"github.com/ishchuktaras/wallet-explorer/internal/port"
	"github.com/ishchuktaras/wallet-explorer/internal/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// APITransactionsResponse is the payload for the paginated transaction
// endpoint. HasMore goes false when a page comes back empty.
type APITransactionsResponse struct {
	Transactions []entity.Transaction `json:"transactions"`
	Page         int                  `json:"page"`
	HasMore      bool                 `json:"has_more"`
}

// APIErrorResponse carries the user-facing message for a failed request.
type APIErrorResponse struct {
	Error string `json:"error"`
}

// WalletHandler handles HTTP requests for wallet snapshots, transaction
// pages, recent searches, and presentation preferences.
type WalletHandler struct {
	walletService port.WalletService
	recentStore   port.RecentStore
	preferences   *storage.PreferenceStore
	logger        *zap.Logger
}

// NewWalletHandler creates a new instance of WalletHandler.
func NewWalletHandler(
	ws port.WalletService,
	rs port.RecentStore,
	prefs *storage.PreferenceStore,
	logger *zap.Logger,
) *WalletHandler {
	return &WalletHandler{
		walletService: ws,
		recentStore:   rs,
		preferences:   prefs,
		logger:        logger.Named("WalletHandler"),
	}
}

// GetWalletHandler serves the assembled snapshot for one address.
func (h *WalletHandler) GetWalletHandler(c *gin.Context) {
	address := c.Param("address")
	snapshot, err := h.walletService.LoadWallet(c.Request.Context(), address)
	if err != nil {
		status, message := mapError(err)
		h.logger.Warn("Wallet load failed",
			zap.String("address", address), zap.Int("status", status), zap.Error(err))
		c.JSON(status, APIErrorResponse{Error: message})
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

// GetTransactionsHandler serves one further page of transaction records.
func (h *WalletHandler) GetTransactionsHandler(c *gin.Context) {
	address := c.Param("address")
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		c.JSON(http.StatusBadRequest, APIErrorResponse{Error: "page must be a positive integer"})
		return
	}

	transactions, err := h.walletService.LoadMoreTransactions(c.Request.Context(), address, page)
	if err != nil {
		status, message := mapError(err)
		h.logger.Warn("Transaction page load failed",
			zap.String("address", address), zap.Int("page", page), zap.Error(err))
		c.JSON(status, APIErrorResponse{Error: message})
		return
	}

	c.JSON(http.StatusOK, APITransactionsResponse{
		Transactions: transactions,
		Page:         page,
		HasMore:      len(transactions) > 0,
	})
}

// GetRecentSearchesHandler serves the persisted recent-query list.
func (h *WalletHandler) GetRecentSearchesHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"addresses": h.recentStore.List()})
}

// RemoveRecentSearchHandler deletes one address from the recent-query list.
func (h *WalletHandler) RemoveRecentSearchHandler(c *gin.Context) {
	address := c.Param("address")
	if err := h.recentStore.Remove(address); err != nil {
		h.logger.Error("Failed to remove recent search", zap.String("address", address), zap.Error(err))
		c.JSON(http.StatusInternalServerError, APIErrorResponse{Error: "failed to update recent searches"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"addresses": h.recentStore.List()})
}

// GetPreferencesHandler serves the persisted presentation preferences.
func (h *WalletHandler) GetPreferencesHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"view_mode": h.preferences.ViewMode()})
}

// PutPreferencesHandler updates the persisted presentation preferences.
func (h *WalletHandler) PutPreferencesHandler(c *gin.Context) {
	var body struct {
		ViewMode string `json:"view_mode"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, APIErrorResponse{Error: "invalid request body"})
		return
	}
	if err := h.preferences.SetViewMode(body.ViewMode); err != nil {
		c.JSON(http.StatusBadRequest, APIErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"view_mode": h.preferences.ViewMode()})
}

// mapError converts a service failure into an HTTP status and the
// user-facing message for it.
func mapError(err error) (int, string) {
	var apiErr *entity.APIError
	if !errors.As(err, &apiErr) {
		return http.StatusInternalServerError, "Failed to fetch wallet data. Please check the address and try again."
	}

	switch apiErr.Kind {
	case entity.KindNotFound:
		return http.StatusNotFound, apiErr.UserMessage()
	case entity.KindRateLimited:
		return http.StatusTooManyRequests, apiErr.UserMessage()
	case entity.KindUnauthorized:
		return http.StatusBadGateway, apiErr.UserMessage()
	case entity.KindNetworkUnreachable:
		return http.StatusBadGateway, apiErr.UserMessage()
	default:
		return http.StatusBadGateway, apiErr.UserMessage()
	}
}
