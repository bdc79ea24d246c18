// Package store holds the immutable record snapshot and the sources it is loaded from.
package store

import (
	"fmt"
	"time"

	"github.com/hyperjump/crime360/internal/models"
)

// Dataset is a named collection of incidents and persons. Record ids are unique within
// a dataset; the same id may appear in different datasets.
type Dataset struct {
	Name      string            `json:"name" yaml:"name"`
	Incidents []models.Incident `json:"incidents" yaml:"incidents"`
	Persons   []models.Person   `json:"persons" yaml:"persons"`
}

// Snapshot is a validated, read-only view of all records. It is safe for concurrent reads
// and is never modified after NewSnapshot returns.
type Snapshot struct {
	incidents []models.Incident
	persons   []models.Person
	datasets  []string
	source    string
	loadedAt  time.Time
}

// NewSnapshot validates datasets and flattens them in order. It fails with
// models.ErrInvalidRecord or models.ErrDuplicateRecord on bad input.
func NewSnapshot(source string, datasets []Dataset) (*Snapshot, error) {
	s := &Snapshot{
		incidents: make([]models.Incident, 0),
		persons:   make([]models.Person, 0),
		datasets:  make([]string, 0, len(datasets)),
		source:    source,
		loadedAt:  time.Now(),
	}
	seenDataset := make(map[string]bool)
	incidentIDs := make(map[string]bool)
	personIDs := make(map[string]bool)

	for _, ds := range datasets {
		if ds.Name == "" {
			return nil, fmt.Errorf("%w: dataset without a name", models.ErrInvalidRecord)
		}
		if !seenDataset[ds.Name] {
			seenDataset[ds.Name] = true
			s.datasets = append(s.datasets, ds.Name)
		}
		for _, inc := range ds.Incidents {
			inc.Dataset = ds.Name
			if err := validateIncident(&inc); err != nil {
				return nil, err
			}
			key := ds.Name + "/" + inc.ID
			if incidentIDs[key] {
				return nil, fmt.Errorf("%w: incident %s", models.ErrDuplicateRecord, key)
			}
			incidentIDs[key] = true
			s.incidents = append(s.incidents, inc)
		}
		for _, p := range ds.Persons {
			p.Dataset = ds.Name
			if err := validatePerson(&p); err != nil {
				return nil, err
			}
			key := ds.Name + "/" + p.ID
			if personIDs[key] {
				return nil, fmt.Errorf("%w: person %s", models.ErrDuplicateRecord, key)
			}
			personIDs[key] = true
			s.persons = append(s.persons, p)
		}
	}
	return s, nil
}

func validateIncident(inc *models.Incident) error {
	ref := inc.Dataset + "/" + inc.ID
	switch {
	case inc.ID == "":
		return fmt.Errorf("%w: incident without id in dataset %s", models.ErrInvalidRecord, inc.Dataset)
	case !inc.Status.IsValid():
		return fmt.Errorf("%w: incident %s has status %q", models.ErrInvalidRecord, ref, inc.Status)
	case !inc.Priority.IsValid():
		return fmt.Errorf("%w: incident %s has priority %q", models.ErrInvalidRecord, ref, inc.Priority)
	case inc.Date.IsZero():
		return fmt.Errorf("%w: incident %s has no filing date", models.ErrInvalidRecord, ref)
	case !inc.Location.Coordinates.Valid():
		return fmt.Errorf("%w: incident %s has coordinates out of range", models.ErrInvalidRecord, ref)
	case inc.ResolvedOn != nil && inc.ResolvedOn.Compare(inc.Date) < 0:
		return fmt.Errorf("%w: incident %s resolved before it was filed", models.ErrInvalidRecord, ref)
	}
	return nil
}

func validatePerson(p *models.Person) error {
	ref := p.Dataset + "/" + p.ID
	switch {
	case p.ID == "":
		return fmt.Errorf("%w: person without id in dataset %s", models.ErrInvalidRecord, p.Dataset)
	case !p.Status.IsValid():
		return fmt.Errorf("%w: person %s has status %q", models.ErrInvalidRecord, ref, p.Status)
	case !p.RiskLevel.IsValid():
		return fmt.Errorf("%w: person %s has risk level %q", models.ErrInvalidRecord, ref, p.RiskLevel)
	}
	return nil
}

// Incidents returns all incidents in load order. Callers must not modify the slice.
func (s *Snapshot) Incidents() []models.Incident { return s.incidents }

// Persons returns all persons in load order. Callers must not modify the slice.
func (s *Snapshot) Persons() []models.Person { return s.persons }

// Datasets returns dataset names in load order.
func (s *Snapshot) Datasets() []string { return append([]string(nil), s.datasets...) }

// Source describes where the snapshot was loaded from.
func (s *Snapshot) Source() string { return s.source }

// LoadedAt is when the snapshot was built.
func (s *Snapshot) LoadedAt() time.Time { return s.loadedAt }

// Split regroups the snapshot into datasets, preserving record order.
func (s *Snapshot) Split() []Dataset {
	out := make([]Dataset, len(s.datasets))
	pos := make(map[string]int, len(s.datasets))
	for i, name := range s.datasets {
		out[i].Name = name
		pos[name] = i
	}
	for _, inc := range s.incidents {
		i := pos[inc.Dataset]
		out[i].Incidents = append(out[i].Incidents, inc)
	}
	for _, p := range s.persons {
		i := pos[p.Dataset]
		out[i].Persons = append(out[i].Persons, p)
	}
	return out
}
