package transport

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"storefront/internal/middleware"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockPaymentService struct {
	checkoutErr error
	token       string
	tokenErr    error

	gotBuyer uuid.UUID
	gotNonce string
	gotCart  []service.CartItem
}

func (m *mockPaymentService) ClientToken(ctx context.Context) (string, error) {
	return m.token, m.tokenErr
}

func (m *mockPaymentService) Checkout(ctx context.Context, buyerID uuid.UUID, nonce string, cart []service.CartItem) error {
	m.gotBuyer = buyerID
	m.gotNonce = nonce
	m.gotCart = cart
	return m.checkoutErr
}

// signedInAs injects an authenticated identity the way the auth
// middleware would
func signedInAs(userID uuid.UUID) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), middleware.UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func paymentRouter(svc service.PaymentService, buyer uuid.UUID) chi.Router {
	r := chi.NewRouter()
	NewPaymentHandler(svc, zap.NewNop()).RegisterRoutes(r, signedInAs(buyer))
	return r
}

func checkoutBody(t *testing.T, nonce string, cart []CartItemDTO) *strings.Reader {
	t.Helper()
	payload, err := json.Marshal(CheckoutRequest{Nonce: nonce, Cart: cart})
	require.NoError(t, err)
	return strings.NewReader(string(payload))
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestCheckoutHandler_Success(t *testing.T) {
	svc := &mockPaymentService{}
	buyer := uuid.New()
	router := paymentRouter(svc, buyer)

	productID := uuid.New()
	req := httptest.NewRequest("POST", "/payment", checkoutBody(t, "nonce-abc", []CartItemDTO{
		{ID: productID.String(), Price: 19.99},
	}))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true}`, w.Body.String())

	assert.Equal(t, buyer, svc.gotBuyer)
	assert.Equal(t, "nonce-abc", svc.gotNonce)
	require.Len(t, svc.gotCart, 1)
	assert.Equal(t, productID, svc.gotCart[0].ProductID)
	assert.Equal(t, 19.99, svc.gotCart[0].Price)
}

func TestCheckoutHandler_MissingFieldsIs400(t *testing.T) {
	svc := &mockPaymentService{checkoutErr: service.ErrMissingPaymentFields}
	router := paymentRouter(svc, uuid.New())

	req := httptest.NewRequest("POST", "/payment", checkoutBody(t, "", nil))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "nonce and cart are required", decodeBody(t, w)["error"])
}

func TestCheckoutHandler_DeclinedIsBare500(t *testing.T) {
	for _, svcErr := range []error{service.ErrPaymentDeclined, service.ErrOrderNotRecorded} {
		svc := &mockPaymentService{checkoutErr: svcErr}
		router := paymentRouter(svc, uuid.New())

		req := httptest.NewRequest("POST", "/payment", checkoutBody(t, "nonce-abc", []CartItemDTO{
			{ID: uuid.New().String(), Price: 10},
		}))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		// No error detail leaks for declined or unrecorded charges
		assert.JSONEq(t, `{"ok":false}`, w.Body.String())
	}
}

func TestCheckoutHandler_GatewayErrorSurfacesMessage(t *testing.T) {
	// Transport failures relay the gateway's own message verbatim
	svc := &mockPaymentService{checkoutErr: errors.New("gateway unreachable: connection refused")}
	router := paymentRouter(svc, uuid.New())

	req := httptest.NewRequest("POST", "/payment", checkoutBody(t, "nonce-abc", []CartItemDTO{
		{ID: uuid.New().String(), Price: 10},
	}))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, false, body["ok"])
	assert.Equal(t, "gateway unreachable: connection refused", body["error"])
}

func TestCheckoutHandler_BadProductIDIs400(t *testing.T) {
	svc := &mockPaymentService{}
	router := paymentRouter(svc, uuid.New())

	req := httptest.NewRequest("POST", "/payment", checkoutBody(t, "nonce-abc", []CartItemDTO{
		{ID: "not-a-uuid", Price: 10},
	}))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, svc.gotNonce, "service must not be reached")
}

func TestClientTokenHandler(t *testing.T) {
	svc := &mockPaymentService{token: "client-token-xyz"}
	router := paymentRouter(svc, uuid.New())

	req := httptest.NewRequest("GET", "/payment/token", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, "client-token-xyz", body["clientToken"])
}

func TestClientTokenHandler_GatewayError(t *testing.T) {
	svc := &mockPaymentService{tokenErr: errors.New("gateway unreachable")}
	router := paymentRouter(svc, uuid.New())

	req := httptest.NewRequest("GET", "/payment/token", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, false, body["ok"])
	assert.Equal(t, "gateway unreachable", body["error"])
}
