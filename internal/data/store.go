package data

//go:generate mockgen -source=store.go -destination=store_mock.go -package=data

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Collection names.
const (
	CollectionUsers        = "users"
	CollectionTokens       = "tokens"
	CollectionTransactions = "transactions"
	CollectionBudgets      = "budgets"
	CollectionGoals        = "goals"
	CollectionInvestments  = "investments"
)

// Filter operators supported by every store.
const (
	OpEqual    = "=="
	OpNotEqual = "!="
)

// Document is a record as the store sees it: a flat JSON object.
type Document map[string]any

// Filter matches a top level document field against a string value.
type Filter struct {
	Field string
	Op    string
	Value string
}

// Query selects documents in a collection. All filters must match.
type Query struct {
	Filters []Filter
}

// ByUser is the common query scoping a collection to one user.
func ByUser(userID string, extra ...Filter) Query {
	return Query{Filters: append([]Filter{{Field: "user_id", Op: OpEqual, Value: userID}}, extra...)}
}

// DocumentStore is the persistence collaborator. Implementations must be
// safe for concurrent use.
type DocumentStore interface {
	Insert(ctx context.Context, collection, id string, doc Document) error
	Get(ctx context.Context, collection, id string) (Document, error)
	Replace(ctx context.Context, collection, id string, doc Document) error
	Delete(ctx context.Context, collection, id string) error
	Find(ctx context.Context, collection string, q Query) ([]Document, error)
	Close() error
}

// numericFields lists, per collection, the fields read permissively: a
// missing, null or non-numeric value decodes as 0.
var numericFields = map[string][]string{
	CollectionTransactions: {"amount"},
	CollectionBudgets:      {"limit"},
	CollectionGoals:        {"target_amount", "saved_amount"},
	CollectionInvestments:  {"quantity", "buy_price", "current_price"},
}

// toDocument flattens v into a Document through its JSON form.
func toDocument(v any) (Document, error) {
	js, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var doc Document
	if err := json.Unmarshal(js, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// fromDocument decodes doc into a new T, coercing the collection's
// numeric fields first.
func fromDocument[T any](collection string, doc Document) (*T, error) {
	coerced := make(Document, len(doc))
	for k, v := range doc {
		coerced[k] = v
	}
	for _, field := range numericFields[collection] {
		coerced[field] = coerceNumber(coerced[field])
	}
	js, err := json.Marshal(coerced)
	if err != nil {
		return nil, err
	}
	var out T
	if err := json.Unmarshal(js, &out); err != nil {
		return nil, fmt.Errorf("decode %s document: %w", collection, err)
	}
	return &out, nil
}

// coerceNumber returns a decimal string for anything that reads as a
// number and "0" for everything else.
func coerceNumber(v any) string {
	switch n := v.(type) {
	case float64:
		return decimal.NewFromFloat(n).String()
	case int64:
		return decimal.NewFromInt(n).String()
	case int:
		return decimal.NewFromInt(int64(n)).String()
	case string:
		if d, err := decimal.NewFromString(strings.TrimSpace(n)); err == nil {
			return d.String()
		}
	case json.Number:
		if d, err := decimal.NewFromString(n.String()); err == nil {
			return d.String()
		}
	}
	return "0"
}

// findAll runs q and decodes every match.
func findAll[T any](ctx context.Context, store DocumentStore, collection string, q Query) ([]*T, error) {
	docs, err := store.Find(ctx, collection, q)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", collection, err)
	}
	out := make([]*T, 0, len(docs))
	for _, doc := range docs {
		item, err := fromDocument[T](collection, doc)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

// getOwned fetches id and checks that it belongs to userID. Another user's
// record reads as not found.
func getOwned[T any](ctx context.Context, store DocumentStore, collection, id, userID string) (*T, error) {
	doc, err := store.Get(ctx, collection, id)
	if err != nil {
		return nil, err
	}
	if owner, _ := doc["user_id"].(string); owner != userID {
		return nil, ErrGeneralRecordNotFound
	}
	return fromDocument[T](collection, doc)
}

// matches reports whether doc satisfies every filter. Values are compared
// by their string form.
func matches(doc Document, q Query) bool {
	for _, f := range q.Filters {
		got := fieldString(doc[f.Field])
		switch f.Op {
		case OpNotEqual:
			if got == f.Value {
				return false
			}
		default:
			if got != f.Value {
				return false
			}
		}
	}
	return true
}

func fieldString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprint(s)
	}
}
