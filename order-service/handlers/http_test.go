package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pieceworks/order-system/order-service/application"
	"github.com/pieceworks/order-system/order-service/auth"
	"github.com/pieceworks/order-system/order-service/domain"
	"github.com/pieceworks/order-system/order-service/mocks"
	"github.com/pieceworks/order-system/shared/messaging"
	"github.com/pieceworks/order-system/shared/models"
)

type handlersFixture struct {
	handlers  *OrderHandlers
	orders    *mocks.MockOrderRepository
	history   *mocks.MockSagaHistoryRepository
	publisher *mocks.MockPublisher
	keys      *auth.PublicKeyStore
}

func newHandlersFixture(t *testing.T) *handlersFixture {
	t.Helper()

	orders := mocks.NewMockOrderRepository(t)
	history := mocks.NewMockSagaHistoryRepository(t)
	publisher := mocks.NewMockPublisher(t)
	keys := auth.NewPublicKeyStore("http://localhost:0", zap.NewNop())

	handlers := NewOrderHandlers(
		application.NewCreateOrder(orders, history, publisher),
		application.NewGetOrder(orders),
		application.NewListOrders(orders),
		application.NewListOrdersByClient(orders),
		application.NewGetSagaHistory(history),
		auth.NewVerifier(keys),
		keys,
	)

	return &handlersFixture{
		handlers:  handlers,
		orders:    orders,
		history:   history,
		publisher: publisher,
		keys:      keys,
	}
}

// authedRequest builds a request carrying the principal and, when id is
// non-empty, the chi URL parameter the handlers read.
func authedRequest(method, target, body string, principal *auth.Principal, id string) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, target, reader)
	ctx := req.Context()
	if principal != nil {
		ctx = auth.WithPrincipal(ctx, principal)
	}
	if id != "" {
		routeCtx := chi.NewRouteContext()
		routeCtx.URLParams.Add("id", id)
		ctx = context.WithValue(ctx, chi.RouteCtxKey, routeCtx)
	}
	return req.WithContext(ctx)
}

func TestHealth(t *testing.T) {
	f := newHandlersFixture(t)

	res := httptest.NewRecorder()
	f.handlers.Health(res, httptest.NewRequest(http.MethodGet, "/order/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, res.Code)
	assert.Contains(t, res.Body.String(), "waiting for public key")
}

func TestCreateOrderHandler(t *testing.T) {
	f := newHandlersFixture(t)
	clientID := models.GenerateUUID()
	principal := &auth.Principal{ClientID: clientID}

	f.orders.EXPECT().Insert(mock.Anything, mock.MatchedBy(func(order *domain.Order) bool {
		return order.ClientID == clientID &&
			order.NumberOfPieces == 3 &&
			order.Status == domain.OrderStatusDeliveryPending
	})).Return(nil).Once()
	f.history.EXPECT().Append(mock.Anything, mock.Anything).Return(nil).Once()
	f.publisher.EXPECT().Publish(mock.Anything, messaging.ChannelCommands, mock.MatchedBy(func(msg *messaging.Message) bool {
		return msg.Topic == application.TopicDeliveryCheck
	})).Return(nil).Once()

	req := authedRequest(http.MethodPost, "/order/", `{"number_of_pieces":3,"description":"three gears"}`, principal, "")
	res := httptest.NewRecorder()
	f.handlers.CreateOrder(res, req)

	assert.Equal(t, http.StatusCreated, res.Code)
	assert.Contains(t, res.Body.String(), clientID.String())
}

func TestCreateOrderHandlerIgnoresClientIDInBody(t *testing.T) {
	f := newHandlersFixture(t)
	clientID := models.GenerateUUID()
	principal := &auth.Principal{ClientID: clientID}

	// The body claims to be someone else; the persisted order must belong to
	// the authenticated principal.
	f.orders.EXPECT().Insert(mock.Anything, mock.MatchedBy(func(order *domain.Order) bool {
		return order.ClientID == clientID
	})).Return(nil).Once()
	f.history.EXPECT().Append(mock.Anything, mock.Anything).Return(nil).Once()
	f.publisher.EXPECT().Publish(mock.Anything, messaging.ChannelCommands, mock.Anything).Return(nil).Once()

	body := `{"number_of_pieces":1,"id_client":"` + models.GenerateUUID().String() + `"}`
	req := authedRequest(http.MethodPost, "/order/", body, principal, "")
	res := httptest.NewRecorder()
	f.handlers.CreateOrder(res, req)

	assert.Equal(t, http.StatusCreated, res.Code)
}

func TestCreateOrderHandlerRejectsInvalidPieces(t *testing.T) {
	f := newHandlersFixture(t)
	principal := &auth.Principal{ClientID: models.GenerateUUID()}

	req := authedRequest(http.MethodPost, "/order/", `{"number_of_pieces":0}`, principal, "")
	res := httptest.NewRecorder()
	f.handlers.CreateOrder(res, req)

	assert.Equal(t, http.StatusBadRequest, res.Code)
}

func TestGetOrderHandler(t *testing.T) {
	owner := models.GenerateUUID()
	order := &domain.Order{
		ID:             models.GenerateUUID(),
		ClientID:       owner,
		NumberOfPieces: 2,
		Status:         domain.OrderStatusQueued,
	}

	tests := []struct {
		name         string
		principal    *auth.Principal
		expectedCode int
	}{
		{"owner reads own order", &auth.Principal{ClientID: owner}, http.StatusOK},
		{"admin reads any order", &auth.Principal{ClientID: models.GenerateUUID(), Admin: true}, http.StatusOK},
		{"other client rejected", &auth.Principal{ClientID: models.GenerateUUID()}, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newHandlersFixture(t)
			f.orders.EXPECT().FindByID(mock.Anything, order.ID).Return(order, nil).Once()

			req := authedRequest(http.MethodGet, "/order/"+order.ID.String(), "", tt.principal, order.ID.String())
			res := httptest.NewRecorder()
			f.handlers.GetOrder(res, req)

			assert.Equal(t, tt.expectedCode, res.Code)
		})
	}
}

func TestGetOrderHandlerNotFound(t *testing.T) {
	f := newHandlersFixture(t)
	orderID := models.GenerateUUID()

	f.orders.EXPECT().FindByID(mock.Anything, orderID).Return(nil, nil).Once()

	req := authedRequest(http.MethodGet, "/order/"+orderID.String(), "", &auth.Principal{ClientID: models.GenerateUUID()}, orderID.String())
	res := httptest.NewRecorder()
	f.handlers.GetOrder(res, req)

	assert.Equal(t, http.StatusNotFound, res.Code)
}

func TestListOrdersHandler(t *testing.T) {
	clientID := models.GenerateUUID()

	t.Run("all orders requires admin", func(t *testing.T) {
		f := newHandlersFixture(t)

		req := authedRequest(http.MethodGet, "/order/", "", &auth.Principal{ClientID: clientID}, "")
		res := httptest.NewRecorder()
		f.handlers.ListOrders(res, req)

		assert.Equal(t, http.StatusForbidden, res.Code)
	})

	t.Run("admin lists all orders", func(t *testing.T) {
		f := newHandlersFixture(t)
		f.orders.EXPECT().FindAll(mock.Anything).Return([]*domain.Order{}, nil).Once()

		req := authedRequest(http.MethodGet, "/order/", "", &auth.Principal{ClientID: clientID, Admin: true}, "")
		res := httptest.NewRecorder()
		f.handlers.ListOrders(res, req)

		assert.Equal(t, http.StatusOK, res.Code)
	})

	t.Run("client lists own orders", func(t *testing.T) {
		f := newHandlersFixture(t)
		owned := []*domain.Order{{ID: models.GenerateUUID(), ClientID: clientID}}
		f.orders.EXPECT().FindByClientID(mock.Anything, clientID).Return(owned, nil).Once()

		req := authedRequest(http.MethodGet, "/order/?client_id="+clientID.String(), "", &auth.Principal{ClientID: clientID}, "")
		res := httptest.NewRecorder()
		f.handlers.ListOrders(res, req)

		assert.Equal(t, http.StatusOK, res.Code)
	})

	t.Run("client cannot list another client's orders", func(t *testing.T) {
		f := newHandlersFixture(t)

		req := authedRequest(http.MethodGet, "/order/?client_id="+models.GenerateUUID().String(), "", &auth.Principal{ClientID: clientID}, "")
		res := httptest.NewRecorder()
		f.handlers.ListOrders(res, req)

		assert.Equal(t, http.StatusForbidden, res.Code)
	})
}

func TestGetSagaHistoryHandler(t *testing.T) {
	orderID := models.GenerateUUID()

	t.Run("admin reads history", func(t *testing.T) {
		f := newHandlersFixture(t)
		entries := []*domain.SagaHistoryEntry{
			domain.NewSagaHistoryEntry(orderID, domain.OrderStatusDeliveryPending),
		}
		f.history.EXPECT().FindByOrderID(mock.Anything, orderID).Return(entries, nil).Once()

		req := authedRequest(http.MethodGet, "/order/sagashistory/"+orderID.String(), "", &auth.Principal{ClientID: models.GenerateUUID(), Admin: true}, orderID.String())
		res := httptest.NewRecorder()
		f.handlers.GetSagaHistory(res, req)

		require.Equal(t, http.StatusOK, res.Code)
		assert.Contains(t, res.Body.String(), orderID.String())
	})

	t.Run("non-admin rejected", func(t *testing.T) {
		f := newHandlersFixture(t)

		req := authedRequest(http.MethodGet, "/order/sagashistory/"+orderID.String(), "", &auth.Principal{ClientID: models.GenerateUUID()}, orderID.String())
		res := httptest.NewRecorder()
		f.handlers.GetSagaHistory(res, req)

		assert.Equal(t, http.StatusForbidden, res.Code)
	})
}
