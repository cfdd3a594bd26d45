package api

import (
	"net/http"
	"os"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

func RegisterRoutes(h *Handler) http.Handler {
	router := mux.NewRouter()

	router.HandleFunc("/", h.Index).Methods("GET")

	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/health", h.Health).Methods("GET")
	api.HandleFunc("/options", h.Options).Methods("GET")

	// Stateless endpoints
	api.HandleFunc("/dashboard", h.GetStatelessDashboard).Methods("GET")
	api.HandleFunc("/plots/{plot:[a-z]+}.{format:[a-z]+}", h.GetStatelessPlot).Methods("GET")

	// Session endpoints
	api.HandleFunc("/sessions", h.CreateSession).Methods("POST")
	api.HandleFunc("/sessions/{session_id}", h.DeleteSession).Methods("DELETE")
	api.HandleFunc("/sessions/{session_id}/selection", h.GetSelection).Methods("GET")
	api.HandleFunc("/sessions/{session_id}/selection", h.UpdateSelection).Methods("PUT")
	api.HandleFunc("/sessions/{session_id}/dashboard", h.GetDashboard).Methods("GET")
	api.HandleFunc("/sessions/{session_id}/metrics", h.GetMetrics).Methods("GET")
	api.HandleFunc("/sessions/{session_id}/correlation", h.GetCorrelation).Methods("GET")
	api.HandleFunc("/sessions/{session_id}/comparison", h.GetComparison).Methods("GET")
	api.HandleFunc("/sessions/{session_id}/table", h.GetTable).Methods("GET")
	api.HandleFunc("/sessions/{session_id}/plots/{plot:[a-z]+}.{format:[a-z]+}", h.GetSessionPlot).Methods("GET")

	// Add CORS support
	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)

	return handlers.LoggingHandler(os.Stdout,
		handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(
			handlers.CompressHandler(cors(router)),
		),
	)
}
