package entity

// CommissionRule é configuração lida de fora (tela de admin, fora de escopo).
// Campos vazios funcionam como curinga: ProductID vazio vale para qualquer
// produto, UserID vazio para qualquer pessoa do papel.
type CommissionRule struct {
	ID        string  `json:"id"`
	ProductID string  `json:"product_id,omitempty"`
	Role      string  `json:"role"`
	UserID    string  `json:"user_id,omitempty"`
	Percent   float64 `json:"percent"`
	Active    bool    `json:"active"`
}

// PersonOverride: regra para uma pessoa específica.
func (r CommissionRule) PersonOverride() bool { return r.UserID != "" }

// RoleOverride: regra para o papel inteiro, sem pessoa fixa.
func (r CommissionRule) RoleOverride() bool { return r.UserID == "" }
