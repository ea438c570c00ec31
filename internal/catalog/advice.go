package catalog

var adviceByCondition = map[string]string{
	"Acne":                "Keep the affected skin clean and avoid picking at lesions.",
	"Arthritis":           "Gentle regular movement and warm compresses can ease joint stiffness.",
	"Bronchial Asthma":    "Avoid known triggers and keep your reliever inhaler within reach.",
	"Cervical spondylosis": "Mind your posture and take frequent breaks from screens.",
	"Chicken pox":         "Rest, stay hydrated and avoid scratching to prevent scarring.",
	"Common Cold":         "Rest, warm fluids and steam inhalation usually help within a week.",
	"Dengue":              "Hydrate well and monitor for warning signs such as bleeding gums.",
	"Dimorphic Hemorrhoids": "A high-fibre diet and plenty of water ease symptoms considerably.",
	"Fungal infection":    "Keep the area dry and avoid sharing towels or clothing.",
	"Hypertension":        "Reduce salt intake and monitor your blood pressure regularly.",
	"Impetigo":            "Keep sores clean and covered; avoid close contact until treated.",
	"Jaundice":            "Rest, avoid alcohol and eat light, easily digestible meals.",
	"Malaria":             "Complete the full course of treatment and use mosquito protection.",
	"Migraine":            "Rest in a dark, quiet room and note your personal triggers.",
	"Pneumonia":           "Rest, stay hydrated and finish any prescribed antibiotics.",
	"Psoriasis":           "Moisturise daily and manage stress, which commonly triggers flares.",
	"Typhoid":             "Drink only safe water and complete the prescribed antibiotics.",
	"Varicose Veins":      "Elevate your legs when resting and avoid standing for long periods.",
	"allergy":             "Identify and avoid the allergen; antihistamines can relieve symptoms.",
	"diabetes":            "Watch your diet, stay active and keep track of blood sugar levels.",
	"drug reaction":       "Stop the suspected medication and consult a doctor promptly.",
	"gastroesophageal reflux disease": "Avoid late heavy meals and raise the head of your bed.",
	"peptic ulcer disease":            "Avoid NSAIDs, alcohol and smoking while the ulcer heals.",
	"urinary tract infection":         "Drink plenty of water and do not delay passing urine.",
}

// AdviceFor returns a short self-care note for the condition.
func AdviceFor(condition string) string {
	if advice, ok := adviceByCondition[condition]; ok {
		return advice
	}
	return "No advice available"
}
