package usecase

import "github.com/xavierca1/ligue-crm/internal/entity"

// ResolvePercent resolve o percentual de comissão para um destinatário.
// Ordem: override de pessoa > override de papel > default do produto > 0.
// Dentro do mesmo nível, regra amarrada ao produto ganha da regra global.
// Função pura: tudo que ela enxerga chega por parâmetro.
func ResolvePercent(product *entity.Product, rules []entity.CommissionRule, role, userID string) float64 {
	var personGlobal, roleScoped, roleGlobal *entity.CommissionRule

	for i := range rules {
		r := rules[i]
		if !r.Active || r.Role != role {
			continue
		}
		if r.ProductID != "" && r.ProductID != product.ID {
			continue
		}

		if r.PersonOverride() {
			if userID == "" || r.UserID != userID {
				continue
			}
			if r.ProductID == product.ID {
				// pessoa + produto: não existe match mais específico
				return r.Percent
			}
			personGlobal = &rules[i]
			continue
		}

		if r.ProductID == product.ID {
			roleScoped = &rules[i]
		} else {
			roleGlobal = &rules[i]
		}
	}

	switch {
	case personGlobal != nil:
		return personGlobal.Percent
	case roleScoped != nil:
		return roleScoped.Percent
	case roleGlobal != nil:
		return roleGlobal.Percent
	}

	return product.DefaultPercent(role)
}
