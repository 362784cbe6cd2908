package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shestoi/GoBigTech/services/storefront/internal/repository"
	"github.com/shestoi/GoBigTech/services/storefront/internal/service"
)

// ProductResponse представляет товар в HTTP ответе.
// Price отдаётся JSON числом без потери точности.
type ProductResponse struct {
	ID          string      `json:"_id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Code        string      `json:"code"`
	Price       json.Number `json:"price"`
	Stock       int         `json:"stock"`
	CreatedAt   *time.Time  `json:"createdAt,omitempty"`
	UpdatedAt   *time.Time  `json:"updatedAt,omitempty"`
}

// PageResponse - страница каталога в формате mongoose-paginate-v2 (docs переименован в payload)
type PageResponse struct {
	Payload       []ProductResponse `json:"payload"`
	TotalDocs     int64             `json:"totalDocs"`
	Limit         int               `json:"limit"`
	TotalPages    int               `json:"totalPages"`
	Page          int               `json:"page"`
	PagingCounter int               `json:"pagingCounter"`
	HasPrevPage   bool              `json:"hasPrevPage"`
	HasNextPage   bool              `json:"hasNextPage"`
	PrevPage      *int              `json:"prevPage"`
	NextPage      *int              `json:"nextPage"`
}

// CartItemResponse - позиция сохранённой корзины
type CartItemResponse struct {
	Product  string `json:"product"`
	Quantity int    `json:"quantity"`
}

// CartResponse - корзина в ответах на изменения
type CartResponse struct {
	ID        string             `json:"_id"`
	Products  []CartItemResponse `json:"products"`
	CreatedAt *time.Time         `json:"createdAt,omitempty"`
	UpdatedAt *time.Time         `json:"updatedAt,omitempty"`
}

// CartSummaryItem - позиция краткой проекции корзины
type CartSummaryItem struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
}

// CartSummaryResponse - краткая проекция после добавления товара
type CartSummaryResponse struct {
	ID       string            `json:"_id"`
	Products []CartSummaryItem `json:"products"`
}

// ResolvedItemResponse - позиция корзины с данными товара
type ResolvedItemResponse struct {
	Product  ProductResponse `json:"product"`
	Quantity int             `json:"quantity"`
}

// CartViewResponse - корзина с подставленными товарами
type CartViewResponse struct {
	ID        string                 `json:"_id"`
	Products  []ResolvedItemResponse `json:"products"`
	CreatedAt *time.Time             `json:"createdAt,omitempty"`
	UpdatedAt *time.Time             `json:"updatedAt,omitempty"`
}

type productMessage struct {
	Message string          `json:"message"`
	Product ProductResponse `json:"product"`
}

type cartMessage struct {
	Message string      `json:"message"`
	Cart    interface{} `json:"cart"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse - тело ответа с ошибкой. Details заполняется только для 500.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// ProductRequest - тело POST/PUT /products. Поля-указатели различают "не передано" и пустое значение.
type ProductRequest struct {
	Title       *string      `json:"title"`
	Description *string      `json:"description"`
	Code        *string      `json:"code"`
	Price       *json.Number `json:"price"`
	Stock       *json.Number `json:"stock"`
}

// OrderItemRequest - позиция заказа или новой версии корзины.
// Товар можно указать как "id" или как "product".
type OrderItemRequest struct {
	ID       string          `json:"id"`
	Product  string          `json:"product"`
	Quantity json.RawMessage `json:"quantity"`
}

// ItemsRequest - тело POST /carts и PUT /carts/{cid}
type ItemsRequest struct {
	Products json.RawMessage `json:"products"`
}

// QuantityRequest - тело запросов на изменение количества
type QuantityRequest struct {
	Quantity json.RawMessage `json:"quantity"`
}

var errInvalidQuantity = errors.New("quantity must be a positive integer")

func toProductResponse(p repository.Product) ProductResponse {
	resp := ProductResponse{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Code:        p.Code,
		Price:       json.Number(p.Price.String()),
		Stock:       p.Stock,
	}
	resp.CreatedAt = timePtr(p.CreatedAt)
	resp.UpdatedAt = timePtr(p.UpdatedAt)
	return resp
}

func toPageResponse(page service.Page) PageResponse {
	payload := make([]ProductResponse, 0, len(page.Payload))
	for _, p := range page.Payload {
		payload = append(payload, toProductResponse(p))
	}
	return PageResponse{
		Payload:       payload,
		TotalDocs:     page.TotalDocs,
		Limit:         page.Limit,
		TotalPages:    page.TotalPages,
		Page:          page.Page,
		PagingCounter: page.PagingCounter,
		HasPrevPage:   page.HasPrevPage,
		HasNextPage:   page.HasNextPage,
		PrevPage:      page.PrevPage,
		NextPage:      page.NextPage,
	}
}

func toCartResponse(c repository.Cart) CartResponse {
	items := make([]CartItemResponse, 0, len(c.Items))
	for _, item := range c.Items {
		items = append(items, CartItemResponse{Product: item.ProductID, Quantity: item.Quantity})
	}
	return CartResponse{
		ID:        c.ID,
		Products:  items,
		CreatedAt: timePtr(c.CreatedAt),
		UpdatedAt: timePtr(c.UpdatedAt),
	}
}

func toCartSummaryResponse(s service.CartSummary) CartSummaryResponse {
	items := make([]CartSummaryItem, 0, len(s.Items))
	for _, item := range s.Items {
		items = append(items, CartSummaryItem{ID: item.ProductID, Quantity: item.Quantity})
	}
	return CartSummaryResponse{ID: s.ID, Products: items}
}

func toCartViewResponse(v service.CartView) CartViewResponse {
	items := make([]ResolvedItemResponse, 0, len(v.Items))
	for _, item := range v.Items {
		items = append(items, ResolvedItemResponse{
			Product:  toProductResponse(item.Product),
			Quantity: item.Quantity,
		})
	}
	return CartViewResponse{
		ID:        v.ID,
		Products:  items,
		CreatedAt: timePtr(v.CreatedAt),
		UpdatedAt: timePtr(v.UpdatedAt),
	}
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

// decodeItems разбирает поле products: оно обязано быть JSON массивом
func decodeItems(raw json.RawMessage) ([]repository.LineItem, bool, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return nil, false, nil
	}
	var reqItems []OrderItemRequest
	if err := json.Unmarshal(raw, &reqItems); err != nil {
		return nil, true, err
	}

	items := make([]repository.LineItem, 0, len(reqItems))
	for _, item := range reqItems {
		productID := item.ID
		if productID == "" {
			productID = item.Product
		}
		quantity, err := parseQuantity(item.Quantity, true)
		if err != nil {
			return nil, true, err
		}
		items = append(items, repository.LineItem{ProductID: productID, Quantity: quantity})
	}
	return items, true, nil
}

// parseQuantity разбирает количество: целое число > 0.
// loose разрешает числовые строки ("3"): клиенты витрины присылают количество строкой.
func parseQuantity(raw json.RawMessage, loose bool) (int, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return 0, errInvalidQuantity
	}

	text := string(raw)
	if raw[0] == '"' {
		if !loose {
			return 0, errInvalidQuantity
		}
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, errInvalidQuantity
		}
		text = strings.TrimSpace(s)
	} else if raw[0] == '{' || raw[0] == '[' || raw[0] == 't' || raw[0] == 'f' {
		return 0, errInvalidQuantity
	}

	return parsePositiveInt(text)
}

func parsePositiveInt(text string) (int, error) {
	d, err := decimal.NewFromString(text)
	if err != nil || !d.IsInteger() || !d.IsPositive() {
		return 0, errInvalidQuantity
	}
	if d.GreaterThan(decimal.NewFromInt(int64(maxInt))) {
		return 0, errInvalidQuantity
	}
	return int(d.IntPart()), nil
}

const maxInt = int(^uint(0) >> 1)

// parseInteger разбирает целое число (возможно отрицательное) из JSON числа
func parseInteger(n json.Number) (int, bool) {
	d, err := decimal.NewFromString(n.String())
	if err != nil || !d.IsInteger() {
		return 0, false
	}
	if d.Abs().GreaterThan(decimal.NewFromInt(int64(maxInt))) {
		return 0, false
	}
	return int(d.IntPart()), true
}

// parsePageParam повторяет parseInt: берёт ведущие цифры, остальное отбрасывает.
// Нечисловое значение даёт 0, и сервис подставит значение по умолчанию.
func parsePageParam(raw string) int {
	s := strings.TrimSpace(raw)
	negative := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		negative = s[0] == '-'
		s = s[1:]
	}
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		// переполнение: значение всё равно будет ограничено сервисом
		n = maxInt
	}
	if negative {
		return -n
	}
	return n
}
