package anamnesis

// Questionnaire is the patient-filled anamnesis form. Conditional fields
// become required when their toggle is on; submission is atomic, so the
// whole form validates at once.
type Questionnaire struct {
	// Basics
	PatientName  string `json:"patient_name"`
	PatientPhone string `json:"patient_phone"`

	// Health history
	HasMedicationAllergy  bool   `json:"has_medication_allergy"`
	AllergyDescription    string `json:"allergy_description"`
	UsesMedication        bool   `json:"uses_medication"`
	MedicationDescription string `json:"medication_description"`
	HasPreviousProcedures bool   `json:"has_previous_procedures"`
	PreviousProcedureType string `json:"previous_procedure_type"`
	PreviousProcedureText string `json:"previous_procedure_text"`

	// Expectations
	Expectations string `json:"expectations"`
	AwareOfRisks bool   `json:"aware_of_risks"`
}

// Form steps in fill order.
const (
	StepBasics       = "collecting-basics"
	StepHealth       = "health-questionnaire"
	StepExpectations = "expectations"
	StepSubmitReady  = "submit-ready"
)

// PreviousProcedureOptions is the closed set for the previous-procedures
// selector; "outro" unlocks the free-text field.
var PreviousProcedureOptions = []string{
	"toxina_botulinica",
	"preenchimento",
	"peeling",
	"laser",
	"outro",
}

var validPreviousProcedureTypes = func() map[string]bool {
	m := make(map[string]bool, len(PreviousProcedureOptions))
	for _, o := range PreviousProcedureOptions {
		m[o] = true
	}
	return m
}()

func (q *Questionnaire) basicsComplete() bool {
	return q.PatientName != "" && q.PatientPhone != ""
}

func (q *Questionnaire) healthComplete() bool {
	if q.HasMedicationAllergy && q.AllergyDescription == "" {
		return false
	}
	if q.UsesMedication && q.MedicationDescription == "" {
		return false
	}
	if q.HasPreviousProcedures {
		if !validPreviousProcedureTypes[q.PreviousProcedureType] {
			return false
		}
		if q.PreviousProcedureType == "outro" && q.PreviousProcedureText == "" {
			return false
		}
	}
	return true
}

func (q *Questionnaire) expectationsComplete() bool {
	return q.Expectations != "" && q.AwareOfRisks
}

// Step returns the first incomplete form step.
func (q *Questionnaire) Step() string {
	switch {
	case !q.basicsComplete():
		return StepBasics
	case !q.healthComplete():
		return StepHealth
	case !q.expectationsComplete():
		return StepExpectations
	default:
		return StepSubmitReady
	}
}

// CanSubmit is a pure predicate over the current field state: true only when
// every step, including active conditional requirements, is complete.
func (q *Questionnaire) CanSubmit() bool {
	return q.basicsComplete() && q.healthComplete() && q.expectationsComplete()
}
