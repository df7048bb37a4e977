package profileservice

// Customer модель клиента из ProfileService
type Customer struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// Performer модель исполнителя (Дед Мороз) из ProfileService
type Performer struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	District  string `json:"district"`
	BasePrice int64  `json:"base_price"`
	IsActive  bool   `json:"is_active"`
}

// ErrorResponse модель ошибки от ProfileService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
