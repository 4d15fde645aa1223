package api

import (
	"log"
	"net/http"

	"github.com/Karla-castillo01/EasyShopApp/internal/api/middleware"
	"github.com/Karla-castillo01/EasyShopApp/internal/auth"
	"github.com/Karla-castillo01/EasyShopApp/internal/domain/user"
)

// RouterConfig holds the dependencies the router wires together
type RouterConfig struct {
	CartHandlers *CartHandlers
	AuthHandlers *AuthHandlers
	Codec        *auth.TokenCodec
}

func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()
	requireAuth := middleware.Auth(cfg.Codec)
	requireAdmin := middleware.RequireRole(user.RoleAdmin)

	// Auth
	mux.HandleFunc("/register", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			cfg.AuthHandlers.Register(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})

	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			cfg.AuthHandlers.Login(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})

	mux.HandleFunc("/logout", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			cfg.AuthHandlers.Logout(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})

	// Cart (authenticated)
	mux.Handle("/cart", requireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			cfg.CartHandlers.GetCart(w, r)
		case http.MethodDelete:
			cfg.CartHandlers.ClearCart(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})))

	mux.Handle("/cart/products/", requireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			cfg.CartHandlers.AddProduct(w, r)
		case http.MethodPut:
			cfg.CartHandlers.UpdateQuantity(w, r)
		case http.MethodDelete:
			cfg.CartHandlers.RemoveProduct(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})))

	// Admin (role-gated)
	mux.Handle("/admin/carts/", requireAuth(requireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			cfg.CartHandlers.AdminGetCart(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}))))

	return withLogging(mux)
}

func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Printf("[API] %s %s", r.Method, r.URL.Path)
		next.ServeHTTP(w, r)
	})
}
