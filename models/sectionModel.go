package models

import "time"

// The three patient record sections share one schema and differ only by
// table. SectionRecord is the row shape the generic section repository
// reads and writes with an explicit Table() override.
type SectionRecord struct {
	ID        string    `gorm:"primaryKey;column:id" json:"id"`
	PatientID string    `gorm:"column:patient_id;not null;index" json:"patient_id"`
	Title     string    `gorm:"column:title;not null" json:"title"`
	Content   string    `gorm:"column:content" json:"content"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

// Note model
type Note struct {
	SectionRecord
}

func (Note) TableName() string {
	return "note"
}

// MedicalHistory model
type MedicalHistory struct {
	SectionRecord
}

func (MedicalHistory) TableName() string {
	return "medical_history"
}

// TreatmentPlan model
type TreatmentPlan struct {
	SectionRecord
}

func (TreatmentPlan) TableName() string {
	return "treatment_plan"
}

// SectionTables maps the public collection names to their tables.
var SectionTables = map[string]string{
	"notes":          Note{}.TableName(),
	"medicalhistory": MedicalHistory{}.TableName(),
	"treatmentplans": TreatmentPlan{}.TableName(),
}
