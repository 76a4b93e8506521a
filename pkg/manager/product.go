package manager

import (
	"context"

	"github.com/shamank/odoo-sdk-go/pkg/model"
)

// ProductModel is the model name of product variants.
const ProductModel = "product.product"

// ProductManager reads and creates product.product records.
type ProductManager struct {
	ex Executor
}

// NewProductManager returns a manager over ex.
func NewProductManager(ex Executor) *ProductManager {
	return &ProductManager{ex: ex}
}

// List returns active products ordered by q.Order (name by default).
func (m *ProductManager) List(ctx context.Context, q Query) ([]model.Product, error) {
	if q.Order == "" {
		q.Order = "name"
	}
	rows, err := searchRead(ctx, m.ex, ProductModel, model.Domain{}, model.ProductFields, q)
	if err != nil {
		return nil, err
	}
	out := make([]model.Product, 0, len(rows))
	for _, row := range rows {
		out = append(out, model.DecodeProduct(row))
	}
	return out, nil
}

// Get reads one product.
func (m *ProductManager) Get(ctx context.Context, id int64) (model.Product, error) {
	row, err := readOne(ctx, m.ex, ProductModel, id, model.ProductFields)
	if err != nil {
		return model.Product{}, err
	}
	return model.DecodeProduct(row), nil
}

// FindByCode returns the product with the given internal reference.
func (m *ProductManager) FindByCode(ctx context.Context, code string) (model.Product, error) {
	row, err := findOne(ctx, m.ex, ProductModel, model.Where("default_code", "=", code), model.ProductFields, "code "+code)
	if err != nil {
		return model.Product{}, err
	}
	return model.DecodeProduct(row), nil
}

// Create inserts p and returns its id.
func (m *ProductManager) Create(ctx context.Context, p model.Product) (int64, error) {
	return create(ctx, m.ex, ProductModel, p.Vals())
}
