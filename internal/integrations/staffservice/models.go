package staffservice

// Doctor модель профиля врача из StaffService
type Doctor struct {
	ID                  int64  `json:"id"`
	FullName            string `json:"full_name"`
	DepartmentID        *int64 `json:"department_id,omitempty"`
	Specialization      string `json:"specialization"`
	IsAcceptingPatients bool   `json:"is_accepting_patients"`
	// MaxPatientsPerDay дневной лимит приёмов; 0 = без лимита
	MaxPatientsPerDay int `json:"max_patients_per_day"`
}

// StaffMember модель сотрудника из StaffService
type StaffMember struct {
	ID       int64  `json:"id"`
	FullName string `json:"full_name"`
	Role     string `json:"role"` // doctor | nurse | receptionist | admin
}

// ErrorResponse модель ошибки от StaffService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
