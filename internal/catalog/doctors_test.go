package catalog

import (
	"sort"
	"testing"
)

func TestDoctorForKnownCondition(t *testing.T) {
	doctor, ok := DoctorFor("Migraine")
	if !ok {
		t.Fatal("expected a doctor for Migraine")
	}
	if doctor != "Dr. Michael Lewis - Neurologist" {
		t.Fatalf("unexpected doctor: %s", doctor)
	}
	if _, ok := DoctorFor("Not A Condition"); ok {
		t.Fatal("expected no doctor for unknown condition")
	}
}

func TestDoctorsDistinctAndSorted(t *testing.T) {
	doctors := Doctors()
	if len(doctors) == 0 {
		t.Fatal("expected a non-empty doctor list")
	}
	if !sort.StringsAreSorted(doctors) {
		t.Fatal("expected sorted doctor list")
	}
	seen := make(map[string]bool)
	for _, d := range doctors {
		if seen[d] {
			t.Fatalf("duplicate doctor in list: %s", d)
		}
		seen[d] = true
		if !IsDoctor(d) {
			t.Fatalf("IsDoctor(%q) = false for listed doctor", d)
		}
	}
}

func TestAdviceFor(t *testing.T) {
	if AdviceFor("Common Cold") == "No advice available" {
		t.Fatal("expected advice for a known condition")
	}
	if AdviceFor("mystery ailment") != "No advice available" {
		t.Fatal("expected fallback for unknown condition")
	}
}
