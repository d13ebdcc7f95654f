package domain

// AppointmentCategory категория типа приема
type AppointmentCategory string

const (
	CategoryConsultation AppointmentCategory = "consultation"
	CategoryFollowUp     AppointmentCategory = "follow-up"
	CategoryEmergency    AppointmentCategory = "emergency"
	CategoryRoutine      AppointmentCategory = "routine"
	CategorySpecialized  AppointmentCategory = "specialized"
)

// AppointmentType справочный тип приема
type AppointmentType struct {
	ID          string
	Name        string
	Description string
	Duration    int
	Color       string
	Category    AppointmentCategory
}

// AppointmentTypes статический справочник
var AppointmentTypes = []AppointmentType{
	{ID: "consultation", Name: "Consultation", Description: "Initial consultation with a new patient", Duration: 30, Color: "#3B82F6", Category: CategoryConsultation},
	{ID: "follow_up", Name: "Follow-up", Description: "Follow-up visit after treatment", Duration: 15, Color: "#10B981", Category: CategoryFollowUp},
	{ID: "emergency", Name: "Emergency", Description: "Urgent same-day visit", Duration: 30, Color: "#EF4444", Category: CategoryEmergency},
	{ID: "routine_checkup", Name: "Routine Checkup", Description: "Periodic health checkup", Duration: 45, Color: "#8B5CF6", Category: CategoryRoutine},
	{ID: "telemedicine", Name: "Telemedicine", Description: "Remote video consultation", Duration: 20, Color: "#F59E0B", Category: CategoryConsultation},
	{ID: "specialist", Name: "Specialist Visit", Description: "Visit with a specialist", Duration: 60, Color: "#EC4899", Category: CategorySpecialized},
}

// FindAppointmentType ищет тип приема по идентификатору
func FindAppointmentType(id string) (AppointmentType, bool) {
	for _, t := range AppointmentTypes {
		if t.ID == id {
			return t, true
		}
	}
	return AppointmentType{}, false
}
