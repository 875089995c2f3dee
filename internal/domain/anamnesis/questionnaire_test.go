package anamnesis

import "testing"

func completeQuestionnaire() *Questionnaire {
	return &Questionnaire{
		PatientName:  "Maria Silva",
		PatientPhone: "11987654321",
		Expectations: "Suavizar linhas de expressão",
		AwareOfRisks: true,
	}
}

func TestCanSubmitMinimalComplete(t *testing.T) {
	q := completeQuestionnaire()
	if !q.CanSubmit() {
		t.Error("complete questionnaire should be submittable")
	}
	if q.Step() != StepSubmitReady {
		t.Errorf("Step = %q, want %q", q.Step(), StepSubmitReady)
	}
}

func TestCanSubmitRequiresBasics(t *testing.T) {
	q := completeQuestionnaire()
	q.PatientName = ""
	if q.CanSubmit() {
		t.Error("missing name should block submit")
	}
	if q.Step() != StepBasics {
		t.Errorf("Step = %q, want %q", q.Step(), StepBasics)
	}

	q = completeQuestionnaire()
	q.PatientPhone = ""
	if q.CanSubmit() {
		t.Error("missing phone should block submit")
	}
}

func TestAllergyToggleRevealsRequiredDescription(t *testing.T) {
	q := completeQuestionnaire()
	q.HasMedicationAllergy = true
	if q.CanSubmit() {
		t.Error("allergy without description should block submit")
	}
	if q.Step() != StepHealth {
		t.Errorf("Step = %q, want %q", q.Step(), StepHealth)
	}

	q.AllergyDescription = "Dipirona"
	if !q.CanSubmit() {
		t.Error("allergy with description should be submittable")
	}
}

func TestMedicationToggleRevealsRequiredDescription(t *testing.T) {
	q := completeQuestionnaire()
	q.UsesMedication = true
	if q.CanSubmit() {
		t.Error("medication use without description should block submit")
	}
	q.MedicationDescription = "Losartana 50mg"
	if !q.CanSubmit() {
		t.Error("medication with description should be submittable")
	}
}

func TestPreviousProceduresRevealOptionThenOther(t *testing.T) {
	q := completeQuestionnaire()
	q.HasPreviousProcedures = true
	if q.CanSubmit() {
		t.Error("previous procedures without option should block submit")
	}

	q.PreviousProcedureType = "laser"
	if !q.CanSubmit() {
		t.Error("named option should be submittable")
	}

	q.PreviousProcedureType = "outro"
	if q.CanSubmit() {
		t.Error("option outro without text should block submit")
	}
	q.PreviousProcedureText = "Microagulhamento"
	if !q.CanSubmit() {
		t.Error("outro with text should be submittable")
	}

	q.PreviousProcedureType = "inexistente"
	if q.CanSubmit() {
		t.Error("unknown option should block submit")
	}
}

func TestCanSubmitRequiresExpectationsAndAwareness(t *testing.T) {
	q := completeQuestionnaire()
	q.Expectations = ""
	if q.CanSubmit() {
		t.Error("missing expectations should block submit")
	}
	if q.Step() != StepExpectations {
		t.Errorf("Step = %q, want %q", q.Step(), StepExpectations)
	}

	q = completeQuestionnaire()
	q.AwareOfRisks = false
	if q.CanSubmit() {
		t.Error("missing risk awareness should block submit")
	}
}
