package vats

import (
	"fmt"

	"github.com/ledgerkit-dev/ledgerkit/internal/model"
)

// Service provides in-memory lookup over configured VAT rates. It is the
// VAT-lookup collaborator consumed by the posting core.
type Service struct {
	rates  []model.Vat
	byCode map[string]model.Vat
}

// NewService creates a Service from a slice of VAT rates, rejecting
// duplicate codes and negative rates.
func NewService(rates []model.Vat) (*Service, error) {
	byCode := make(map[string]model.Vat, len(rates))
	for _, v := range rates {
		if v.Code == "" {
			return nil, fmt.Errorf("VAT rate %q has no code", v.Name)
		}
		if v.Rate.IsNegative() {
			return nil, fmt.Errorf("VAT rate %q has a negative rate %s", v.Code, v.Rate)
		}
		if _, dup := byCode[v.Code]; dup {
			return nil, fmt.Errorf("duplicate VAT code %q", v.Code)
		}
		byCode[v.Code] = v
	}
	return &Service{rates: rates, byCode: byCode}, nil
}

// All returns all configured VAT rates.
func (s *Service) All() []model.Vat {
	return s.rates
}

// Vat returns a VAT rate by code.
func (s *Service) Vat(code string) (model.Vat, bool) {
	v, ok := s.byCode[code]
	return v, ok
}
