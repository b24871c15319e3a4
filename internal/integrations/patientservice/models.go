package patientservice

// Patient модель профиля пациента из PatientService
type Patient struct {
	ID       int64  `json:"id"`
	UserID   int64  `json:"user_id"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
}

// ErrorResponse модель ошибки от PatientService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
