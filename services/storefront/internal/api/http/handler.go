package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/shestoi/GoBigTech/services/storefront/internal/service"
)

// maxBodyBytes ограничивает размер тела запроса
const maxBodyBytes = 1 << 20

// Handler содержит HTTP-обработчики Storefront Service.
// Зависит от service слоя и не знает, какое хранилище под ним.
type Handler struct {
	products *service.ProductService
	carts    *service.CartService
	logger   *zap.Logger
}

// NewHandler создаёт новый HTTP handler
func NewHandler(products *service.ProductService, carts *service.CartService, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		products: products,
		carts:    carts,
		logger:   logger,
	}
}

// decodeJSON читает тело запроса в v. Пустое тело не считается ошибкой.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
