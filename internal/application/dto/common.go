package dto

// PageRequest paginación y filtros de listado (query string).
type PageRequest struct {
	Page   int    `query:"page"`
	Limit  int    `query:"limit"`
	Status string `query:"status"`
	Search string `query:"search"`
}

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// ErrorResponse cuerpo de error HTTP. Violaciones solo en errores de validación (422).
type ErrorResponse struct {
	Code        string   `json:"code"`
	Message     string   `json:"message"`
	Violaciones []string `json:"violaciones,omitempty"`
}
