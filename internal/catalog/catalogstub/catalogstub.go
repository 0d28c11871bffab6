// Package catalogstub serves the catalog REST contract from memory. It backs
// the client tests and cmd/catalogstub.
package catalogstub

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"

	"github.com/gorilla/mux"
	"github.com/nikolayk812/cartstore/internal/domain"
)

// Seed mirrors the document layout of the storefront's mock API.
type Seed struct {
	Products []domain.Product `json:"products"`
	Stock    []domain.Stock   `json:"stock"`
}

type Catalog struct {
	mu       sync.Mutex
	products map[int64]domain.Product
	stock    map[int64]int
	failing  bool

	stockReads   int
	productReads int
}

func New() *Catalog {
	return &Catalog{
		products: make(map[int64]domain.Product),
		stock:    make(map[int64]int),
	}
}

func LoadSeed(r io.Reader) (*Catalog, error) {
	var seed Seed
	if err := json.NewDecoder(r).Decode(&seed); err != nil {
		return nil, fmt.Errorf("json.Decode: %w", err)
	}

	c := New()
	for _, p := range seed.Products {
		c.products[p.ID] = p
	}
	for _, s := range seed.Stock {
		c.stock[s.ID] = s.Amount
	}

	return c, nil
}

// Put registers a product together with its stock level.
func (c *Catalog) Put(p domain.Product, stock int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.products[p.ID] = p
	c.stock[p.ID] = stock
}

func (c *Catalog) SetStock(productID int64, amount int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stock[productID] = amount
}

// SetFailing makes every request answer 500 until reset.
func (c *Catalog) SetFailing(failing bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.failing = failing
}

// Reads reports how many stock and product lookups were served.
func (c *Catalog) Reads() (stock, product int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.stockReads, c.productReads
}

func (c *Catalog) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/stock/{id:[0-9]+}", c.getStock).Methods(http.MethodGet)
	r.HandleFunc("/products/{id:[0-9]+}", c.getProduct).Methods(http.MethodGet)
	return r
}

func (c *Catalog) getStock(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	c.mu.Lock()
	c.stockReads++
	failing := c.failing
	amount, found := c.stock[id]
	c.mu.Unlock()

	switch {
	case failing:
		http.Error(w, "catalog unavailable", http.StatusInternalServerError)
	case !found:
		http.NotFound(w, r)
	default:
		writeJSON(w, domain.Stock{ID: id, Amount: amount})
	}
}

func (c *Catalog) getProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	c.mu.Lock()
	c.productReads++
	failing := c.failing
	product, found := c.products[id]
	c.mu.Unlock()

	switch {
	case failing:
		http.Error(w, "catalog unavailable", http.StatusInternalServerError)
	case !found:
		http.NotFound(w, r)
	default:
		writeJSON(w, product)
	}
}

func productID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
