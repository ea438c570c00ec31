// Package catalog holds the fixed mapping from diagnosed conditions to the
// clinic's doctors. The same doctor may cover several conditions.
package catalog

import "sort"

var doctorByCondition = map[string]string{
	"Acne":                "Dr. Sophia Miller - Dermatologist",
	"Arthritis":           "Dr. David Smith - Orthopedist",
	"Bronchial Asthma":    "Dr. Richard Lee - General Physician",
	"Cervical spondylosis": "Dr. James Taylor - Orthopedist",
	"Chicken pox":         "Dr. Emma Brown - Dermatologist",
	"Common Cold":         "Dr. Mary Johnson - General Physician",
	"Dengue":              "Dr. Oliver Garcia - General Physician",
	"Dimorphic Hemorrhoids": "Dr. Ethan Wilson - Gastroenterologist",
	"Fungal infection":    "Dr. Ava Martinez - Dermatologist",
	"Hypertension":        "Dr. Lucas Thompson - Cardiologist",
	"Impetigo":            "Dr. Mia Rodriguez - Dermatologist",
	"Jaundice":            "Dr. Amelia Harris - Gastroenterologist",
	"Malaria":             "Dr. Mason Clark - General Physician",
	"Migraine":            "Dr. Michael Lewis - Neurologist",
	"Pneumonia":           "Dr. Jacob Robinson - General Physician",
	"Psoriasis":           "Dr. Emily Davis - Dermatologist",
	"Typhoid":             "Dr. Benjamin Lopez - Gastroenterologist",
	"Varicose Veins":      "Dr. Jack Walker - Orthopedist",
	"allergy":             "Dr. Charlotte King - General Physician",
	"diabetes":            "Dr. Daniel Wright - General Physician",
	"drug reaction":       "Dr. Henry Hall - General Physician",
	"gastroesophageal reflux disease": "Dr. Isabella Young - Gastroenterologist",
	"peptic ulcer disease":            "Dr. Alexander Allen - Gastroenterologist",
	"urinary tract infection":         "Dr. William Scott - Gastroenterologist",
}

// DoctorFor returns the doctor covering the given condition.
func DoctorFor(condition string) (string, bool) {
	doctor, ok := doctorByCondition[condition]
	return doctor, ok
}

// Doctors returns the distinct doctor list, sorted for stable presentation.
func Doctors() []string {
	seen := make(map[string]bool, len(doctorByCondition))
	var out []string
	for _, doctor := range doctorByCondition {
		if !seen[doctor] {
			seen[doctor] = true
			out = append(out, doctor)
		}
	}
	sort.Strings(out)
	return out
}

// IsDoctor reports whether name is one of the clinic's doctors.
func IsDoctor(name string) bool {
	for _, doctor := range doctorByCondition {
		if doctor == name {
			return true
		}
	}
	return false
}
