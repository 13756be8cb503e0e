package restapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRouter wires the API routes onto a gin engine. Middleware (CORS,
// request logging, recovery) is attached by the caller so tests can work
// with a bare engine.
func SetupRouter(router *gin.Engine, handler *WalletHandler) {
	v1 := router.Group("/api/v1")
	{
		v1.GET("/wallets/:address", handler.GetWalletHandler)
		v1.GET("/wallets/:address/transactions", handler.GetTransactionsHandler)
		v1.GET("/recent", handler.GetRecentSearchesHandler)
		v1.DELETE("/recent/:address", handler.RemoveRecentSearchHandler)
		v1.GET("/preferences", handler.GetPreferencesHandler)
		v1.PUT("/preferences", handler.PutPreferencesHandler)
	}

	router.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
