package domain

type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

func (s AppointmentStatus) IsValid() bool {
	switch s {
	case AppointmentStatusPending, AppointmentStatusConfirmed, AppointmentStatusCompleted, AppointmentStatusCancelled:
		return true
	}
	return false
}

// IsTerminal completed и cancelled: из них переходов нет
func (s AppointmentStatus) IsTerminal() bool {
	return s == AppointmentStatusCompleted || s == AppointmentStatusCancelled
}

// Occupies занимает ли запись слот. completed нужен только для истории и слот не держит.
func (s AppointmentStatus) Occupies() bool {
	return s == AppointmentStatusPending || s == AppointmentStatusConfirmed
}

// CanTransitionTo pending -> confirmed -> completed, pending|confirmed -> cancelled
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	switch s {
	case AppointmentStatusPending:
		return next == AppointmentStatusConfirmed || next == AppointmentStatusCancelled
	case AppointmentStatusConfirmed:
		return next == AppointmentStatusCompleted || next == AppointmentStatusCancelled
	}
	return false
}

// Appointment: запись клиента. ClientID пустой, если барбер записал клиента без аккаунта (WalkInName).
type Appointment struct {
	ID         string            `json:"id"`
	ProviderID string            `json:"providerId"`
	Date       string            `json:"date"`
	StartTime  string            `json:"startTime"`
	ClientID   *string           `json:"clientId"`
	WalkInName string            `json:"walkInName,omitempty"`
	ServiceID  string            `json:"serviceId"`
	Status     AppointmentStatus `json:"status"`
}

// ClientLabel то, что показывается в занятом слоте
func (a Appointment) ClientLabel() string {
	if a.WalkInName != "" {
		return a.WalkInName
	}
	if a.ClientID != nil {
		return *a.ClientID
	}
	return ""
}
