package models

import "time"

// PersonStatus is the legal standing of a person of interest.
type PersonStatus string

const (
	PersonWanted             PersonStatus = "Wanted"
	PersonConvicted          PersonStatus = "Convicted"
	PersonReleased           PersonStatus = "Released"
	PersonUnderInvestigation PersonStatus = "Under Investigation"
)

// IsValid reports whether s is one of the known person statuses.
func (s PersonStatus) IsValid() bool {
	switch s {
	case PersonWanted, PersonConvicted, PersonReleased, PersonUnderInvestigation:
		return true
	}
	return false
}

// RiskLevel grades how dangerous a person of interest is considered.
type RiskLevel string

const (
	RiskLow      RiskLevel = "Low"
	RiskMedium   RiskLevel = "Medium"
	RiskHigh     RiskLevel = "High"
	RiskCritical RiskLevel = "Critical"
)

// IsValid reports whether r is one of the known risk levels.
func (r RiskLevel) IsValid() bool {
	switch r {
	case RiskLow, RiskMedium, RiskHigh, RiskCritical:
		return true
	}
	return false
}

// Sighting is a place and time a person was last observed.
type Sighting struct {
	Area        string    `json:"area" yaml:"area"`
	Coordinates GeoPoint  `json:"coordinates" yaml:"coordinates"`
	Timestamp   time.Time `json:"timestamp" yaml:"timestamp"`
}

// PhysicalMetadata holds identifying physical traits.
type PhysicalMetadata struct {
	Height  string   `json:"height,omitempty" yaml:"height,omitempty"`
	Weight  string   `json:"weight,omitempty" yaml:"weight,omitempty"`
	Marks   []string `json:"marks,omitempty" yaml:"marks,omitempty"`
	Tattoos []string `json:"tattoos,omitempty" yaml:"tattoos,omitempty"`
}

// Person is a person-of-interest record with a face feature vector.
type Person struct {
	ID        string            `json:"id" yaml:"id"`
	Dataset   string            `json:"dataset" yaml:"-"`
	PersonID  string            `json:"personId" yaml:"person_id"`
	Name      string            `json:"name" yaml:"name"`
	Aliases   []string          `json:"aliases" yaml:"aliases"`
	Features  []float64         `json:"features" yaml:"features"`
	Mugshots  []string          `json:"mugshots" yaml:"mugshots"`
	LastSeen  Date              `json:"lastSeen" yaml:"last_seen"`
	Status    PersonStatus      `json:"status" yaml:"status"`
	Charges   []string          `json:"charges" yaml:"charges"`
	Locations []Sighting        `json:"locations" yaml:"locations"`
	RiskLevel RiskLevel         `json:"riskLevel" yaml:"risk_level"`
	Metadata  *PhysicalMetadata `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Key returns the globally unique identity of the person across datasets.
func (p *Person) Key() string {
	return recordKey("person", p.Dataset, p.ID)
}
