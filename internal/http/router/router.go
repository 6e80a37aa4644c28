package router

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/HaBsawy/creiden-task/internal/http/handlers"
	"github.com/HaBsawy/creiden-task/internal/http/middleware"
	"github.com/HaBsawy/creiden-task/internal/http/response"
	"github.com/HaBsawy/creiden-task/internal/security"
	"github.com/HaBsawy/creiden-task/internal/service"
)

// Deps is everything the route table needs.
type Deps struct {
	Logger   zerolog.Logger
	DB       handlers.Pinger
	Tokens   *security.TokenIssuer
	Admins   *service.AuthService
	UserAuth *service.AuthService
	Users    *service.UserService
	Storages *service.StorageService
	Items    *service.ItemService
}

// Policy lists the access rule of every named route. The gate denies any
// route missing from it.
var Policy = middleware.Policy{
	"health": middleware.Public,

	"admins.register": middleware.Public,
	"admins.login":    middleware.Public,
	"admins.logout":   middleware.Admin,

	"users.register": middleware.Public,
	"users.login":    middleware.Public,
	"users.logout":   middleware.User,
	"users.items":    middleware.User,

	"users.index":   middleware.Admin,
	"users.store":   middleware.Admin,
	"users.show":    middleware.Admin,
	"users.update":  middleware.Admin,
	"users.destroy": middleware.Admin,

	"storages.index":   middleware.Admin,
	"storages.store":   middleware.Admin,
	"storages.show":    middleware.Admin,
	"storages.update":  middleware.Admin,
	"storages.destroy": middleware.Admin,

	"items.index":   middleware.Admin,
	"items.store":   middleware.Admin,
	"items.show":    middleware.Admin,
	"items.update":  middleware.Admin,
	"items.destroy": middleware.Admin,
}

// Setup builds the API handler: request id, access log and panic recovery
// around a mux router whose /api routes sit behind the realm gate.
func Setup(deps Deps) http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(notFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)

	api := r.PathPrefix("/api").Subrouter()
	api.NotFoundHandler = http.HandlerFunc(notFound)
	api.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)
	api.Use(middleware.Gate(Policy, deps.Tokens))

	healthHandler := handlers.NewHealthHandler(deps.DB)
	adminAuth := handlers.NewAuthHandler(deps.Admins)
	userAuth := handlers.NewAuthHandler(deps.UserAuth)
	adminHandler := handlers.NewAdminHandler(deps.Users)
	storageHandler := handlers.NewStorageHandler(deps.Storages)
	itemHandler := handlers.NewItemHandler(deps.Items)

	api.HandleFunc("/health", healthHandler.Health).Methods("GET").Name("health")

	api.HandleFunc("/admins/auth/register", adminAuth.Register).Methods("POST").Name("admins.register")
	api.HandleFunc("/admins/auth/login", adminAuth.Login).Methods("POST").Name("admins.login")
	api.HandleFunc("/admins/auth/logout", adminAuth.Logout).Methods("POST").Name("admins.logout")

	api.HandleFunc("/users/auth/register", userAuth.Register).Methods("POST").Name("users.register")
	api.HandleFunc("/users/auth/login", userAuth.Login).Methods("POST").Name("users.login")
	api.HandleFunc("/users/auth/logout", userAuth.Logout).Methods("POST").Name("users.logout")
	api.HandleFunc("/users/items", itemHandler.Create).Methods("POST").Name("users.items")

	api.HandleFunc("/users", adminHandler.ListUsers).Methods("GET").Name("users.index")
	api.HandleFunc("/users", adminHandler.CreateUser).Methods("POST").Name("users.store")
	api.HandleFunc("/users/{id}", adminHandler.GetUser).Methods("GET").Name("users.show")
	api.HandleFunc("/users/{id}", adminHandler.UpdateUser).Methods("PUT").Name("users.update")
	api.HandleFunc("/users/{id}", adminHandler.DeleteUser).Methods("DELETE").Name("users.destroy")

	api.HandleFunc("/storages", storageHandler.List).Methods("GET").Name("storages.index")
	api.HandleFunc("/storages", storageHandler.Create).Methods("POST").Name("storages.store")
	api.HandleFunc("/storages/{id}", storageHandler.Get).Methods("GET").Name("storages.show")
	api.HandleFunc("/storages/{id}", storageHandler.Update).Methods("PUT").Name("storages.update")
	api.HandleFunc("/storages/{id}", storageHandler.Delete).Methods("DELETE").Name("storages.destroy")

	api.HandleFunc("/items", itemHandler.List).Methods("GET").Name("items.index")
	api.HandleFunc("/items", itemHandler.Create).Methods("POST").Name("items.store")
	api.HandleFunc("/items/{id}", itemHandler.Get).Methods("GET").Name("items.show")
	api.HandleFunc("/items/{id}", itemHandler.Update).Methods("PUT").Name("items.update")
	api.HandleFunc("/items/{id}", itemHandler.Delete).Methods("DELETE").Name("items.destroy")

	return middleware.Chain(r,
		middleware.RequestID(),
		middleware.Logger(deps.Logger),
		middleware.Recover(),
	)
}

func notFound(w http.ResponseWriter, _ *http.Request) {
	response.NotFound(w)
}

func methodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	response.MethodNotAllowed(w)
}
