package backend

import (
	"encoding/json"
	"fmt"
	"net/url"
)

// Where is a backend where-clause, e.g.
//
//	Where{"buildingId": 3, "start": Where{"between": []string{a, b}}}
type Where map[string]any

// Filter is the backend's query filter, sent JSON-encoded in ?filter=.
type Filter struct {
	Where   Where    `json:"where,omitempty"`
	Order   []string `json:"order,omitempty"`
	Limit   int      `json:"limit,omitempty"`
	Skip    int      `json:"skip,omitempty"`
	Include []any    `json:"include,omitempty"`
}

// Relation names a related model to embed in results.
type Relation struct {
	Relation string `json:"relation"`
}

// Like builds a case-insensitive substring match.
func Like(substr string) Where {
	return Where{"like": "%" + substr + "%", "options": "i"}
}

func filterQuery(f Filter) (url.Values, error) {
	raw, err := json.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("encode filter: %w", err)
	}
	return url.Values{"filter": []string{string(raw)}}, nil
}

func whereQuery(w Where) (url.Values, error) {
	if len(w) == 0 {
		return nil, nil
	}
	raw, err := json.Marshal(w)
	if err != nil {
		return nil, fmt.Errorf("encode where: %w", err)
	}
	return url.Values{"where": []string{string(raw)}}, nil
}
