package entity

// Papéis de acesso. Autenticação em si é responsabilidade de outro serviço;
// aqui só checamos "o chamador tem papel X".
const (
	UserRoleSDR    = "sdr"
	UserRoleCloser = "closer"
	UserRoleAdmin  = "admin"
)

type User struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Active bool   `json:"active"`
}
