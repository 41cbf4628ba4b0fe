package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pieceworks/order-system/order-service/application"
	"github.com/pieceworks/order-system/order-service/auth"
	"github.com/pieceworks/order-system/shared/faults"
	"github.com/pieceworks/order-system/shared/models"
)

// OrderHandlers contains order HTTP handlers. Authorization happens here:
// the use cases receive a client ID the handlers have already vetted.
type OrderHandlers struct {
	createOrder        *application.CreateOrder
	getOrder           *application.GetOrder
	listOrders         *application.ListOrders
	listOrdersByClient *application.ListOrdersByClient
	getSagaHistory     *application.GetSagaHistory
	verifier           *auth.Verifier
	keys               *auth.PublicKeyStore
}

// NewOrderHandlers creates new order handlers
func NewOrderHandlers(
	createOrder *application.CreateOrder,
	getOrder *application.GetOrder,
	listOrders *application.ListOrders,
	listOrdersByClient *application.ListOrdersByClient,
	getSagaHistory *application.GetSagaHistory,
	verifier *auth.Verifier,
	keys *auth.PublicKeyStore,
) *OrderHandlers {
	return &OrderHandlers{
		createOrder:        createOrder,
		getOrder:           getOrder,
		listOrders:         listOrders,
		listOrdersByClient: listOrdersByClient,
		getSagaHistory:     getSagaHistory,
		verifier:           verifier,
		keys:               keys,
	}
}

// Health reports readiness. The service cannot authenticate anyone until the
// identity service's public key has been fetched.
func (h *OrderHandlers) Health(w http.ResponseWriter, r *http.Request) {
	if !h.keys.Ready() {
		http.Error(w, "waiting for public key", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// CreateOrder handles order creation requests. The client ID comes from the
// authenticated principal, never from the request body.
func (h *OrderHandlers) CreateOrder(w http.ResponseWriter, r *http.Request) {
	principal, err := auth.PrincipalFromContext(r.Context())
	if err != nil {
		http.Error(w, err.Error(), faults.HTTPStatus(err))
		return
	}

	var cmd application.CreateOrderCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	cmd.ClientID = principal.ClientID.String()

	response, err := h.createOrder.Execute(r.Context(), &cmd)
	if err != nil {
		http.Error(w, err.Error(), faults.HTTPStatus(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(response)
}

// GetOrder handles single order retrieval
func (h *OrderHandlers) GetOrder(w http.ResponseWriter, r *http.Request) {
	principal, err := auth.PrincipalFromContext(r.Context())
	if err != nil {
		http.Error(w, err.Error(), faults.HTTPStatus(err))
		return
	}

	orderID := chi.URLParam(r, "id")
	if orderID == "" {
		http.Error(w, "Order ID is required", http.StatusBadRequest)
		return
	}

	order, err := h.getOrder.Execute(r.Context(), &application.GetOrderQuery{OrderID: orderID})
	if err != nil {
		http.Error(w, err.Error(), faults.HTTPStatus(err))
		return
	}

	if !principal.CanAccessClient(order.ClientID) {
		http.Error(w, "order belongs to another client", http.StatusForbidden)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(order)
}

// ListOrders handles order listing. Without a client_id query parameter it
// lists every order, which only admins may do; with one it lists that
// client's orders, allowed for admins and the client itself.
func (h *OrderHandlers) ListOrders(w http.ResponseWriter, r *http.Request) {
	principal, err := auth.PrincipalFromContext(r.Context())
	if err != nil {
		http.Error(w, err.Error(), faults.HTTPStatus(err))
		return
	}

	clientID := r.URL.Query().Get("client_id")
	if clientID == "" {
		if !principal.Admin {
			http.Error(w, "listing all orders requires admin", http.StatusForbidden)
			return
		}

		orders, err := h.listOrders.Execute(r.Context())
		if err != nil {
			http.Error(w, err.Error(), faults.HTTPStatus(err))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(orders)
		return
	}

	id, err := models.NewID(clientID)
	if err != nil {
		http.Error(w, "Invalid client ID", http.StatusBadRequest)
		return
	}
	if !principal.CanAccessClient(id) {
		http.Error(w, "orders belong to another client", http.StatusForbidden)
		return
	}

	orders, err := h.listOrdersByClient.Execute(r.Context(), &application.ListOrdersByClientQuery{ClientID: clientID})
	if err != nil {
		http.Error(w, err.Error(), faults.HTTPStatus(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(orders)
}

// GetSagaHistory handles saga audit trail retrieval, admin-only.
func (h *OrderHandlers) GetSagaHistory(w http.ResponseWriter, r *http.Request) {
	principal, err := auth.PrincipalFromContext(r.Context())
	if err != nil {
		http.Error(w, err.Error(), faults.HTTPStatus(err))
		return
	}
	if !principal.Admin {
		http.Error(w, "saga history requires admin", http.StatusForbidden)
		return
	}

	orderID := chi.URLParam(r, "id")
	if orderID == "" {
		http.Error(w, "Order ID is required", http.StatusBadRequest)
		return
	}

	entries, err := h.getSagaHistory.Execute(r.Context(), &application.GetSagaHistoryQuery{OrderID: orderID})
	if err != nil {
		http.Error(w, err.Error(), faults.HTTPStatus(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entries)
}

// RegisterRoutes registers order routes
func (h *OrderHandlers) RegisterRoutes(r chi.Router) {
	r.Route("/order", func(r chi.Router) {
		r.Get("/health", h.Health)

		r.Group(func(r chi.Router) {
			r.Use(h.verifier.Middleware)
			r.Post("/", h.CreateOrder)
			r.Get("/", h.ListOrders)
			r.Get("/sagashistory/{id}", h.GetSagaHistory)
			r.Get("/{id}", h.GetOrder)
		})
	})
}
