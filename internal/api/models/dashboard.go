package models

// DashboardResponse is the complete dashboard payload for one patient.
type DashboardResponse struct {
	PatientID    string          `json:"patientId"`
	Demographics Demographics    `json:"demographics"`
	Conditions   []ConditionRow  `json:"conditions"`
	Medications  []MedicationRow `json:"medications"`
	Location     Location        `json:"location"`
	MapURL       string          `json:"mapUrl"`
	Chart        Chart           `json:"chart"`
	Advisory     string          `json:"advisory"`
	GeneratedAt  Timestamp       `json:"generatedAt"`
}

// Demographics is the extracted patient summary.
type Demographics struct {
	Name      string `json:"name"`
	Sex       string `json:"sex"`
	BirthDate string `json:"birthDate"`
	Address   string `json:"address"`
}

// ConditionRow is one row of the conditions table.
type ConditionRow struct {
	Name               string `json:"name"`
	ClinicalStatus     string `json:"clinicalStatus"`
	VerificationStatus string `json:"verificationStatus"`
}

// MedicationRow is one row of the medications table.
type MedicationRow struct {
	Name   string `json:"name"`
	Status string `json:"status"`
}

// Location is the geocoded patient address.
type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Chart carries the two chart segments. The reading at exactly the
// generation instant appears at the end of Observed and the start of
// Forecast so the rendered segments join without a gap.
type Chart struct {
	Observed []ChartPoint `json:"observed"`
	Forecast []ChartPoint `json:"forecast"`
}

// ChartPoint is one plotted reading.
type ChartPoint struct {
	Time Timestamp `json:"time"`
	AQI  int       `json:"aqi"`
}
