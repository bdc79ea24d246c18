package keyword

import (
	"context"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/hyperjump/crime360/internal/models"
)

// textFields are the analyzed fields of an indexed incident.
var textFields = []string{"case_number", "type", "complainant", "accused", "description", "area", "keywords", "officer"}

// incidentDoc is the indexed projection of an incident.
type incidentDoc struct {
	CaseNumber  string `json:"case_number"`
	Type        string `json:"type"`
	Complainant string `json:"complainant"`
	Accused     string `json:"accused"`
	Description string `json:"description"`
	Area        string `json:"area"`
	Keywords    string `json:"keywords"`
	Officer     string `json:"officer"`
}

func newIncidentDoc(inc *models.Incident) incidentDoc {
	return incidentDoc{
		CaseNumber:  inc.CaseNumber,
		Type:        inc.Type,
		Complainant: inc.Complainant.Name,
		Accused:     strings.Join(append([]string{inc.Accused.Name}, inc.Accused.KnownAliases...), " "),
		Description: inc.Description,
		Area:        inc.Location.Area,
		Keywords:    strings.Join(inc.Keywords, " "),
		Officer:     inc.Officer,
	}
}

// BleveIndex implements KeywordIndex with an in-memory Bleve index.
type BleveIndex struct {
	index bleve.Index
}

// NewBleveIndex creates an empty in-memory index. The index is rebuilt from each snapshot,
// so nothing is persisted.
func NewBleveIndex() (*BleveIndex, error) {
	im := bleve.NewIndexMapping()

	docMapping := bleve.NewDocumentMapping()
	textFieldMapping := bleve.NewTextFieldMapping()
	// Standard analyzer lowercases and tokenizes without stemming so suggestions are real words.
	textFieldMapping.Analyzer = standard.Name
	for _, f := range textFields {
		docMapping.AddFieldMappingsAt(f, textFieldMapping)
	}
	im.AddDocumentMapping("incident", docMapping)
	im.DefaultType = "incident"
	im.DefaultMapping = docMapping

	index, err := bleve.NewMemOnly(im)
	if err != nil {
		return nil, fmt.Errorf("failed to create Bleve index: %w", err)
	}
	return &BleveIndex{index: index}, nil
}

// IndexIncidents adds incidents in a single batch, keyed by models.Incident.Key.
func (b *BleveIndex) IndexIncidents(ctx context.Context, incidents []models.Incident) error {
	batch := b.index.NewBatch()
	for i := range incidents {
		if err := ctx.Err(); err != nil {
			return err
		}
		inc := &incidents[i]
		if err := batch.Index(inc.Key(), newIncidentDoc(inc)); err != nil {
			return fmt.Errorf("failed to index incident %s/%s: %w", inc.Dataset, inc.ID, err)
		}
	}
	if err := b.index.Batch(batch); err != nil {
		return fmt.Errorf("Bleve batch failed: %w", err)
	}
	return nil
}

// Search runs a match query over all text fields and returns up to limit results.
func (b *BleveIndex) Search(ctx context.Context, query string, limit int) ([]*KeywordResult, error) {
	q := bleve.NewMatchQuery(query)
	req := bleve.NewSearchRequest(q)
	req.Size = limit
	results, err := b.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("Bleve search failed: %w", err)
	}
	out := make([]*KeywordResult, len(results.Hits))
	for i, hit := range results.Hits {
		out[i] = &KeywordResult{ID: hit.ID, Score: hit.Score}
	}
	return out, nil
}

// DocCount returns the total number of documents in the index.
func (b *BleveIndex) DocCount() (uint64, error) {
	return b.index.DocCount()
}

// Close closes the Bleve index.
func (b *BleveIndex) Close() error {
	return b.index.Close()
}

// GetAllTerms returns all unique terms across the text fields.
func (b *BleveIndex) GetAllTerms() ([]string, error) {
	terms := make([]string, 0)
	seen := make(map[string]struct{})
	for _, field := range textFields {
		dict, err := b.index.FieldDict(field)
		if err != nil {
			return nil, fmt.Errorf("failed to read terms for %s: %w", field, err)
		}
		for {
			entry, err := dict.Next()
			if err != nil || entry == nil {
				break
			}
			if _, ok := seen[entry.Term]; !ok {
				terms = append(terms, entry.Term)
				seen[entry.Term] = struct{}{}
			}
		}
		_ = dict.Close()
	}
	return terms, nil
}

// GetTermFrequency returns the number of documents containing term.
func (b *BleveIndex) GetTermFrequency(term string) (int, error) {
	req := bleve.NewSearchRequest(bleve.NewMatchQuery(term))
	req.Size = 0
	results, err := b.index.Search(req)
	if err != nil {
		return 0, fmt.Errorf("failed to search for term frequency: %w", err)
	}
	return int(results.Total), nil
}
