package domain

// Slot: объявленное барбером окно для записи, как оно пришло из хранилища.
// StartTime хранится строкой: некорректное значение превращается в предупреждение резолвера, а не в ошибку декодирования.
type Slot struct {
	ID              string `json:"id"`
	ProviderID      string `json:"providerId"`
	Date            string `json:"date"`
	StartTime       string `json:"startTime"`
	DurationMinutes int    `json:"durationMinutes"`
}
