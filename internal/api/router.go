package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/AlexZinkM/midnight-hello/docs"
	"github.com/AlexZinkM/midnight-hello/internal/handler"
)

// SetupRouter sets up router with handlers.
// allowedOrigins are the front end origins permitted to call the API with credentials.
func SetupRouter(h *handler.MidnightHandler, allowedOrigins []string) http.Handler {
	mux := http.NewServeMux()

	// Swagger UI
	mux.HandleFunc("/swagger/", httpSwagger.WrapHandler)

	// Prometheus metrics
	mux.Handle("/metrics", promhttp.Handler())

	// Page and static descriptor
	mux.HandleFunc("/", h.Index)
	mux.HandleFunc("/deployment.json", h.DeploymentJSON)

	// Contract endpoints
	mux.HandleFunc("/api/contract", h.Contract)
	mux.HandleFunc("/api/message", h.Message)
	mux.HandleFunc("/api/transactions", h.Transactions)

	// Wallet endpoints
	mux.HandleFunc("/api/wallet", h.Wallet)
	mux.HandleFunc("/api/wallet/connect", h.Connect)
	mux.HandleFunc("/api/wallet/state", h.WalletState)

	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
	})
	return c.Handler(mux)
}
