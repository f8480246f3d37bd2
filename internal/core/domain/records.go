package domain

// DayRecords: сырые записи хранилища для пары (барбер, дата)
type DayRecords struct {
	Slots        []Slot        `json:"slots"`
	Blocks       []Block       `json:"blocks"`
	Appointments []Appointment `json:"appointments"`
}
