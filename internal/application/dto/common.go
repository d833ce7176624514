package dto

// PageRequest paginación para listados (page desde 1).
type PageRequest struct {
	Page  int `query:"page"`
	Limit int `query:"limit"`
}

// DefaultPage aplica valores por defecto si Page/Limit son menores a 1.
func (p *PageRequest) DefaultPage() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = 20
	}
}

// Offset devuelve el desplazamiento de la página actual.
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.Limit
}

// MessageResponse cuerpo genérico de confirmación.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}
