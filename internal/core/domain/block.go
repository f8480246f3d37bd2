package domain

// Block: ручная блокировка времени, частичная или на весь день
type Block struct {
	ID         string  `json:"id"`
	ProviderID string  `json:"providerId"`
	Date       string  `json:"date"`
	StartTime  *string `json:"startTime,omitempty"`
	EndTime    *string `json:"endTime,omitempty"`
	Reason     string  `json:"reason"`
	IsFullDay  bool    `json:"isFullDay"`
}
