package commands

import (
	"context"
	"fmt"
	"strings"

	"wintertree/internal/application"
	"wintertree/internal/ports"
)

// SearchConceptsResult contains the result of a concept search
type SearchConceptsResult struct {
	Hits    []ports.ConceptHit
	Message string
}

// SearchConceptsCommand searches the concept index by name or OpenAlex ID.
type SearchConceptsCommand struct {
	index ports.ConceptIndex

	Query string
	Limit int
}

// NewSearchConceptsCommand creates a new SearchConceptsCommand
func NewSearchConceptsCommand(index ports.ConceptIndex, query string, limit int) *SearchConceptsCommand {
	return &SearchConceptsCommand{index: index, Query: query, Limit: limit}
}

// Validate checks if the search operation is valid
func (c *SearchConceptsCommand) Validate() error {
	if strings.TrimSpace(c.Query) == "" {
		return &application.ValidationError{
			Field:   "query",
			Message: "query is required",
		}
	}
	if c.Limit <= 0 {
		return &application.ValidationError{
			Field:   "limit",
			Message: "limit must be positive",
		}
	}
	return nil
}

// Execute runs the search command
func (c *SearchConceptsCommand) Execute(ctx context.Context) (*SearchConceptsResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	hits, err := c.index.SearchConcepts(c.Query, c.Limit)
	if err != nil {
		return nil, fmt.Errorf("concept search failed: %w", err)
	}

	return &SearchConceptsResult{
		Hits:    hits,
		Message: formatHits(hits),
	}, nil
}

// BirthsBetweenResult contains the result of a birth range query
type BirthsBetweenResult struct {
	Hits    []ports.ConceptHit
	Message string
}

// BirthsBetweenCommand lists concepts whose earliest activity falls inside a
// year range.
type BirthsBetweenCommand struct {
	index ports.ConceptIndex

	FromYear int
	ToYear   int
	Limit    int
}

// NewBirthsBetweenCommand creates a new BirthsBetweenCommand
func NewBirthsBetweenCommand(index ports.ConceptIndex, fromYear, toYear, limit int) *BirthsBetweenCommand {
	return &BirthsBetweenCommand{index: index, FromYear: fromYear, ToYear: toYear, Limit: limit}
}

// Validate checks if the range query is valid
func (c *BirthsBetweenCommand) Validate() error {
	if c.FromYear > c.ToYear {
		return &application.ValidationError{
			Field:   "fromYear",
			Message: fmt.Sprintf("range start %d is after range end %d", c.FromYear, c.ToYear),
		}
	}
	if c.Limit <= 0 {
		return &application.ValidationError{
			Field:   "limit",
			Message: "limit must be positive",
		}
	}
	return nil
}

// Execute runs the range query
func (c *BirthsBetweenCommand) Execute(ctx context.Context) (*BirthsBetweenResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	hits, err := c.index.BirthsBetween(c.FromYear, c.ToYear, c.Limit)
	if err != nil {
		return nil, fmt.Errorf("birth range query failed: %w", err)
	}

	return &BirthsBetweenResult{
		Hits:    hits,
		Message: formatHits(hits),
	}, nil
}

func formatHits(hits []ports.ConceptHit) string {
	if len(hits) == 0 {
		return "No concepts found"
	}
	var b strings.Builder
	for _, h := range hits {
		birth := "-"
		if h.Birth != "" {
			birth = string(h.Birth)
		}
		fmt.Fprintf(&b, "%6d  L%d  %-40s  birth %-7s  %d works\n",
			h.Concept.Idx, h.Concept.Level, h.Concept.Name, birth, h.Concept.WorksCount)
	}
	return strings.TrimRight(b.String(), "\n")
}
