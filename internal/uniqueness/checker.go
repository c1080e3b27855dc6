package uniqueness

import (
	"context"
	"fmt"

	"docum/internal/domain/repositories"
)

// Finder is the read side of a Store the checker needs.
type Finder interface {
	Find(ctx context.Context, collection string, filter repositories.Filter, limit int) ([]repositories.StoredItem, error)
}

// Decision is the outcome of a constraint check.
type Decision struct {
	// Conflict is true when storing the candidate would violate a constraint
	Conflict bool

	// ExistingID is the id of a conflicting stored record, if any
	ExistingID string

	// Fields is the violated clause, when it could be identified
	Fields []string

	// Matches is how many stored records matched the combined query (capped at 2)
	Matches int
}

// Checker decides whether a candidate record may be written.
type Checker struct {
	registry *Registry
	finder   Finder
}

// NewChecker creates a checker over the given registry and store.
func NewChecker(registry *Registry, finder Finder) *Checker {
	return &Checker{registry: registry, finder: finder}
}

// Check runs the combined existence query for rec in collection.
//
//   - no constraints declared: never a conflict
//   - one match with the candidate's own id: the candidate is updating itself
//   - one match with another id: conflict
//   - more than one match: the store already holds a violation; conflict
func (c *Checker) Check(ctx context.Context, collection, kind string, rec Record) (Decision, error) {
	filter, err := c.registry.Filter(kind, rec)
	if err != nil {
		return Decision{}, err
	}
	if filter.IsEmpty() {
		return Decision{}, nil
	}

	matches, err := c.finder.Find(ctx, collection, filter, 2)
	if err != nil {
		return Decision{}, fmt.Errorf("check %s constraints: %w", kind, err)
	}

	decision := Decision{Matches: len(matches)}
	switch len(matches) {
	case 0:
		return decision, nil
	case 1:
		if matches[0].ItemID() == rec.RecordID() {
			return decision, nil
		}
		decision.Conflict = true
		decision.ExistingID = matches[0].ItemID()
	default:
		decision.Conflict = true
		for _, m := range matches {
			if m.ItemID() != rec.RecordID() {
				decision.ExistingID = m.ItemID()
				break
			}
		}
	}

	decision.Fields = c.violatedClause(ctx, collection, filter, rec.RecordID())
	return decision, nil
}

// violatedClause probes clauses one at a time to name the one that matched
// another record. Only runs on the rejection path.
func (c *Checker) violatedClause(ctx context.Context, collection string, filter repositories.Filter, selfID string) []string {
	for _, clause := range filter {
		matches, err := c.finder.Find(ctx, collection, repositories.Filter{clause}, 2)
		if err != nil {
			return nil
		}
		for _, m := range matches {
			if m.ItemID() != selfID || len(matches) > 1 {
				fields := make([]string, 0, len(clause))
				for _, cond := range clause {
					fields = append(fields, cond.Field)
				}
				return fields
			}
		}
	}
	return nil
}
