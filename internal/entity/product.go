package entity

import (
	"time"

	"github.com/google/uuid"
)

type Product struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Slug          string    `json:"slug"`
	Active        bool      `json:"active"`
	SDRPercent    float64   `json:"sdr_percent"`    // default do produto para SDR
	CloserPercent float64   `json:"closer_percent"` // default do produto para closer
	CreatedAt     time.Time `json:"created_at"`
}

func NewProduct(name, slug string, sdrPercent, closerPercent float64) *Product {
	return &Product{
		ID:            uuid.New().String(),
		Name:          name,
		Slug:          slug,
		Active:        true,
		SDRPercent:    sdrPercent,
		CloserPercent: closerPercent,
		CreatedAt:     time.Now(),
	}
}

// DefaultPercent devolve o default do produto para o papel pedido.
func (p *Product) DefaultPercent(role string) float64 {
	switch role {
	case RoleSDR:
		return p.SDRPercent
	case RoleCloser:
		return p.CloserPercent
	}
	return 0
}
