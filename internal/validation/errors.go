package validation

// ValidationError описывает ошибку валидации конкретного поля
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return e.Field + " " + e.Message
}
