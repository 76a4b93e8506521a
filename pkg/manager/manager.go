package manager

import (
	"context"
	"fmt"

	"github.com/shamank/odoo-sdk-go/pkg/model"
	"github.com/shamank/odoo-sdk-go/pkg/rpcerr"
)

// Executor runs one model method on the server. *client.Executor implements it.
type Executor interface {
	Execute(ctx context.Context, model, method string, args []any, kwargs map[string]any) (any, error)
}

// Query bounds a search. Zero values leave the server defaults.
type Query struct {
	Limit  int
	Offset int
	Order  string
}

func (q Query) kwargs(fields []string) map[string]any {
	kw := map[string]any{"fields": fields}
	if q.Limit > 0 {
		kw["limit"] = q.Limit
	}
	if q.Offset > 0 {
		kw["offset"] = q.Offset
	}
	if q.Order != "" {
		kw["order"] = q.Order
	}
	return kw
}

func searchRead(ctx context.Context, ex Executor, modelName string, domain model.Domain, fields []string, q Query) ([]map[string]any, error) {
	reply, err := ex.Execute(ctx, modelName, "search_read", []any{domain.List()}, q.kwargs(fields))
	if err != nil {
		return nil, err
	}
	rows, err := model.Records(reply)
	if err != nil {
		return nil, rpcerr.Data(modelName, err.Error())
	}
	return rows, nil
}

// readOne reads a single record by id.
func readOne(ctx context.Context, ex Executor, modelName string, id int64, fields []string) (map[string]any, error) {
	reply, err := ex.Execute(ctx, modelName, "read", []any{[]any{id}}, map[string]any{"fields": fields})
	if err != nil {
		return nil, err
	}
	rows, err := model.Records(reply)
	if err != nil {
		return nil, rpcerr.Data(modelName, err.Error())
	}
	if len(rows) == 0 {
		return nil, rpcerr.Data(modelName, fmt.Sprintf("record %d not found", id))
	}
	return rows[0], nil
}

// findOne returns the first record matching domain.
func findOne(ctx context.Context, ex Executor, modelName string, domain model.Domain, fields []string, what string) (map[string]any, error) {
	rows, err := searchRead(ctx, ex, modelName, domain, fields, Query{Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, rpcerr.Data(modelName, "no record with "+what)
	}
	return rows[0], nil
}

func create(ctx context.Context, ex Executor, modelName string, vals map[string]any) (int64, error) {
	reply, err := ex.Execute(ctx, modelName, "create", []any{vals}, nil)
	if err != nil {
		return 0, err
	}
	// create answers an id, or a list of ids on servers that batch it.
	if ids := model.IDs(reply); len(ids) > 0 {
		return ids[0], nil
	}
	if id := model.Int(reply); id > 0 {
		return id, nil
	}
	return 0, rpcerr.Data(modelName, fmt.Sprintf("create returned %v instead of an id", reply))
}

// call runs a button-style method (action_post, action_cancel, ...) on one record.
func call(ctx context.Context, ex Executor, modelName, method string, id int64) error {
	_, err := ex.Execute(ctx, modelName, method, []any{[]any{id}}, nil)
	return err
}
