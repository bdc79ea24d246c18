// Package models defines records, queries and result types shared across the engine.
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/hyperjump/crime360/internal/geo"
)

// recordNamespace scopes the name-based UUIDs produced by Key.
var recordNamespace = uuid.MustParse("6f1c2d4e-8a3b-5c7d-9e0f-1a2b3c4d5e6f")

// CaseStatus is the lifecycle state of an incident.
type CaseStatus string

const (
	StatusPending            CaseStatus = "Pending"
	StatusUnderInvestigation CaseStatus = "Under Investigation"
	StatusResolved           CaseStatus = "Resolved"
	StatusClosed             CaseStatus = "Closed"
)

// IsValid reports whether s is one of the known case statuses.
func (s CaseStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusUnderInvestigation, StatusResolved, StatusClosed:
		return true
	}
	return false
}

// Priority is the urgency assigned to an incident.
type Priority string

const (
	PriorityLow      Priority = "Low"
	PriorityMedium   Priority = "Medium"
	PriorityHigh     Priority = "High"
	PriorityCritical Priority = "Critical"
)

// IsValid reports whether p is one of the known priorities.
func (p Priority) IsValid() bool {
	return p.rank() > 0
}

// Weight is the heatmap intensity for p. Unknown priorities weigh 1.
func (p Priority) Weight() int {
	if r := p.rank(); r > 0 {
		return r
	}
	return 1
}

func (p Priority) rank() int {
	switch p {
	case PriorityLow:
		return 1
	case PriorityMedium:
		return 2
	case PriorityHigh:
		return 3
	case PriorityCritical:
		return 4
	}
	return 0
}

// GeoPoint is a WGS84 coordinate in degrees.
type GeoPoint struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lon float64 `json:"lon" yaml:"lon"`
}

// Valid reports whether the point lies within latitude/longitude bounds.
func (p GeoPoint) Valid() bool {
	return geo.ValidateCoordinates(p.Lat, p.Lon)
}

// Complainant is the person who filed the report.
type Complainant struct {
	Name    string `json:"name" yaml:"name"`
	Age     int    `json:"age" yaml:"age"`
	Address string `json:"address" yaml:"address"`
	Phone   string `json:"phone" yaml:"phone"`
}

// Accused describes the suspect named in the report.
type Accused struct {
	Name         string   `json:"name" yaml:"name"`
	Age          *int     `json:"age,omitempty" yaml:"age,omitempty"`
	Description  string   `json:"description" yaml:"description"`
	KnownAliases []string `json:"knownAliases" yaml:"known_aliases"`
}

// Location is where the incident took place.
type Location struct {
	Area        string   `json:"area" yaml:"area"`
	Coordinates GeoPoint `json:"coordinates" yaml:"coordinates"`
	Address     string   `json:"address" yaml:"address"`
}

// Incident is a filed complaint (first information report) and its case state.
type Incident struct {
	ID          string      `json:"id" yaml:"id"`
	Dataset     string      `json:"dataset" yaml:"-"`
	CaseNumber  string      `json:"firNumber" yaml:"case_number"`
	Type        string      `json:"type" yaml:"type"`
	Complainant Complainant `json:"complainant" yaml:"complainant"`
	Accused     Accused     `json:"accused" yaml:"accused"`
	Status      CaseStatus  `json:"status" yaml:"status"`
	Priority    Priority    `json:"priority" yaml:"priority"`
	Date        Date        `json:"date" yaml:"date"`
	ResolvedOn  *Date       `json:"resolvedOn,omitempty" yaml:"resolved_on,omitempty"`
	Location    Location    `json:"location" yaml:"location"`
	Officer     string      `json:"officer" yaml:"officer"`
	Description string      `json:"description" yaml:"description"`
	Evidence    []string    `json:"evidence" yaml:"evidence"`
	Keywords    []string    `json:"keywords" yaml:"keywords"`
	Timestamp   time.Time   `json:"timestamp" yaml:"timestamp"`
}

// Key returns the globally unique identity of the incident across datasets.
func (i *Incident) Key() string {
	return recordKey("incident", i.Dataset, i.ID)
}

func recordKey(kind, dataset, id string) string {
	return uuid.NewSHA1(recordNamespace, []byte(kind+"/"+dataset+"/"+id)).String()
}
