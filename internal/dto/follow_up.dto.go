package dto

type FollowUpDTO struct {
	AppointmentID uint   `json:"appointment_id"`
	VisitDate     string `json:"visit_date"`
	FollowUpDate  string `json:"follow_up_date"`
	State         string `json:"state"`
	PatientID     uint   `json:"patient_id"`
	PatientName   string `json:"patient_name"`
	PatientPhone  string `json:"patient_phone"`
	DoctorName    string `json:"doctor_name"`
}
