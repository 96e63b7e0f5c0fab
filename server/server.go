package server

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ray-remotestate/littlelemon/handlers"
	"github.com/ray-remotestate/littlelemon/middlewares"
	"github.com/ray-remotestate/littlelemon/models"
)

type Server struct {
	Router *mux.Router
	server *http.Server
}

const (
	readTimeout       = 5 * time.Minute
	readHeaderTimeout = 30 * time.Second
	writeTimeout      = 5 * time.Minute
)

func SetupRoutes() *Server {
	router := mux.NewRouter()
	router.Use(middlewares.Metrics, middlewares.RequestLogger)

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		io.WriteString(w, `{"alive": true}`)
	}).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	router.HandleFunc("/register", handlers.Register).Methods("POST")
	router.HandleFunc("/refresh", handlers.RefreshToken).Methods("POST")
	router.HandleFunc("/login", handlers.Login).Methods("POST")

	authRoutes := router.PathPrefix("/api").Subrouter()
	authRoutes.Use(middlewares.AuthMiddleware)
	authRoutes.HandleFunc("/logout", handlers.Logout).Methods("POST")

	// catalog: reads need an authenticated caller, writes are not
	// independently role-gated
	authRoutes.HandleFunc("/menu-items", handlers.ListMenuItems).Methods("GET")
	authRoutes.HandleFunc("/menu-items", handlers.CreateMenuItem).Methods("POST")
	authRoutes.HandleFunc("/menu-items/{id}", handlers.GetMenuItem).Methods("GET")
	authRoutes.HandleFunc("/menu-items/{id}", handlers.UpdateMenuItem).Methods("PUT")
	authRoutes.HandleFunc("/menu-items/{id}", handlers.PatchMenuItem).Methods("PATCH")
	authRoutes.HandleFunc("/menu-items/{id}", handlers.DeleteMenuItem).Methods("DELETE")

	authRoutes.HandleFunc("/cart/menu-items", handlers.ListCart).Methods("GET")
	authRoutes.HandleFunc("/cart/menu-items", handlers.AddToCart).Methods("POST")
	authRoutes.HandleFunc("/cart/menu-items", handlers.ClearCart).Methods("DELETE")
	authRoutes.HandleFunc("/cart/menu-items/{id}", handlers.RemoveCartItem).Methods("DELETE")

	// order transitions carry their own per-method role checks
	authRoutes.HandleFunc("/orders", handlers.ListOrders).Methods("GET")
	authRoutes.HandleFunc("/orders", handlers.CreateOrder).Methods("POST")
	authRoutes.HandleFunc("/orders/{id}", handlers.GetOrder).Methods("GET")
	authRoutes.HandleFunc("/orders/{id}", handlers.AssignOrder).Methods("PUT")
	authRoutes.HandleFunc("/orders/{id}", handlers.SetOrderStatus).Methods("PATCH")
	authRoutes.HandleFunc("/orders/{id}", handlers.DeleteOrder).Methods("DELETE")

	// manager only
	groups := authRoutes.PathPrefix("/groups").Subrouter()
	groups.Use(middlewares.RoleBasedMiddleware(models.RoleManager))

	groups.HandleFunc("/manager/users", handlers.ListManagers).Methods("GET")
	groups.HandleFunc("/manager/users", handlers.AddManager).Methods("POST")
	groups.HandleFunc("/manager/users/{id}", handlers.RemoveManager).Methods("DELETE")
	groups.HandleFunc("/delivery-crew/users", handlers.ListDeliveryCrew).Methods("GET")
	groups.HandleFunc("/delivery-crew/users", handlers.AddDeliveryCrew).Methods("POST")
	groups.HandleFunc("/delivery-crew/users/{id}", handlers.RemoveDeliveryCrew).Methods("DELETE")

	return &Server{
		Router: router,
	}
}

func (svr *Server) Run(port string) error {
	svr.server = &http.Server{
		Addr:              port,
		Handler:           svr.Router,
		ReadTimeout:       readTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      writeTimeout,
	}
	return svr.server.ListenAndServe()
}

func (svr *Server) Shutdown(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return svr.server.Shutdown(ctx)
}
