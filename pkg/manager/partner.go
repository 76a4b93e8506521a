package manager

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/shamank/odoo-sdk-go/pkg/model"
	"github.com/shamank/odoo-sdk-go/pkg/rpcerr"
)

// PartnerModel is the model name of contacts and companies.
const PartnerModel = "res.partner"

// PartnerManager reads and writes res.partner records.
type PartnerManager struct {
	ex Executor
}

// NewPartnerManager returns a manager over ex.
func NewPartnerManager(ex Executor) *PartnerManager {
	return &PartnerManager{ex: ex}
}

// Search returns the partners matching domain.
func (m *PartnerManager) Search(ctx context.Context, domain model.Domain, q Query) ([]model.Partner, error) {
	rows, err := searchRead(ctx, m.ex, PartnerModel, domain, model.PartnerFields, q)
	if err != nil {
		return nil, err
	}
	out := make([]model.Partner, 0, len(rows))
	for _, row := range rows {
		out = append(out, model.DecodePartner(row))
	}
	return out, nil
}

// Get reads one partner.
func (m *PartnerManager) Get(ctx context.Context, id int64) (model.Partner, error) {
	row, err := readOne(ctx, m.ex, PartnerModel, id, model.PartnerFields)
	if err != nil {
		return model.Partner{}, err
	}
	return model.DecodePartner(row), nil
}

// FindByEmail returns the active partner whose email matches
// case-insensitively.
func (m *PartnerManager) FindByEmail(ctx context.Context, email string) (model.Partner, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return model.Partner{}, rpcerr.Data(PartnerModel, "empty email")
	}
	row, err := findOne(ctx, m.ex, PartnerModel, model.Where("email", "=ilike", email), model.PartnerFields, "email "+email)
	if err != nil {
		return model.Partner{}, err
	}
	return model.DecodePartner(row), nil
}

// Create inserts p and returns its id. p.ID is ignored.
func (m *PartnerManager) Create(ctx context.Context, p model.Partner) (int64, error) {
	id, err := create(ctx, m.ex, PartnerModel, p.Vals())
	if err != nil {
		return 0, err
	}
	zap.L().Debug("created partner", zap.Int64("id", id), zap.String("name", p.Name))
	return id, nil
}

// Update writes vals to the partner.
func (m *PartnerManager) Update(ctx context.Context, id int64, vals map[string]any) error {
	if len(vals) == 0 {
		return nil
	}
	_, err := m.ex.Execute(ctx, PartnerModel, "write", []any{[]any{id}, vals}, nil)
	return err
}

// Archive deactivates the partner.
func (m *PartnerManager) Archive(ctx context.Context, id int64) error {
	return call(ctx, m.ex, PartnerModel, "action_archive", id)
}
