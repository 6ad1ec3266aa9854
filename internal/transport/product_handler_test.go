package transport

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront/internal/domain"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func productRouter(svc service.CatalogService) chi.Router {
	r := chi.NewRouter()
	NewProductHandler(svc, zap.NewNop()).RegisterRoutes(r, passthrough, passthrough)
	return r
}

func productRequestBody(t *testing.T, photo []byte) *bytes.Reader {
	t.Helper()

	price := 9.99
	quantity := 5
	shipping := true
	category := uuid.New().String()
	payload, err := json.Marshal(ProductRequest{
		Name:        "Novel",
		Description: "a description",
		Price:       &price,
		Category:    &category,
		Quantity:    &quantity,
		Shipping:    &shipping,
		Photo:       base64.StdEncoding.EncodeToString(photo),
	})
	require.NoError(t, err)
	return bytes.NewReader(payload)
}

// The size cap is on the photo bytes, not the base64 text carrying
// them. An 800 KB photo encodes to just over 1 MB of text and must
// still be accepted.
func TestCreateProductHandler_PhotoSizeIsDecodedBytes(t *testing.T) {
	svc := &mockCatalogService{product: &domain.Product{ID: uuid.New(), Name: "Novel"}}
	router := productRouter(svc)

	photo := bytes.Repeat([]byte{0xAB}, 800_000)
	req := httptest.NewRequest("POST", "/product", productRequestBody(t, photo))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code, "body: %s", w.Body.String())
	assert.Equal(t, int64(800_000), svc.gotInput.PhotoSize)
}

func TestCreateProductHandler_PhotoSizeExactAtEveryPaddingWidth(t *testing.T) {
	svc := &mockCatalogService{product: &domain.Product{ID: uuid.New(), Name: "Novel"}}
	router := productRouter(svc)

	// Base64 pads to a multiple of three input bytes; each remainder
	// produces a different padding width
	for _, size := range []int{service.MaxPhotoBytes, service.MaxPhotoBytes + 1, service.MaxPhotoBytes + 2, 0} {
		photo := bytes.Repeat([]byte{0xCD}, size)
		req := httptest.NewRequest("POST", "/product", productRequestBody(t, photo))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, int64(size), svc.gotInput.PhotoSize, "size %d", size)
	}
}

func TestCreateProductHandler_OversizedPhotoIs400(t *testing.T) {
	svc := &mockCatalogService{productErr: service.ErrPhotoTooLarge}
	router := productRouter(svc)

	photo := bytes.Repeat([]byte{0xEF}, service.MaxPhotoBytes+1)
	req := httptest.NewRequest("POST", "/product", productRequestBody(t, photo))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Photo provided should be less than 1MB"}`, w.Body.String())
}

func TestCreateProductHandler_NameCollisionIs409(t *testing.T) {
	svc := &mockCatalogService{productErr: service.ErrProductExists}
	router := productRouter(svc)

	req := httptest.NewRequest("POST", "/product", productRequestBody(t, nil))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.JSONEq(t, `{"error":"already exists"}`, w.Body.String())
}
