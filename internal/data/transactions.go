package data

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/Blue-Davinci/WealthWise/internal/validator"
	"github.com/shopspring/decimal"
)

type TransactionModel struct {
	Store DocumentStore
}

const (
	DefaultTransactionDBContextTimeout = 5 * time.Second
	// maxRecurringCatchUp bounds how many occurrences one pass spawns for a
	// single series.
	maxRecurringCatchUp = 400
)

type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

type Recurrence string

const (
	RecurrenceNone    Recurrence = "None"
	RecurrenceDaily   Recurrence = "Daily"
	RecurrenceWeekly  Recurrence = "Weekly"
	RecurrenceMonthly Recurrence = "Monthly"
	RecurrenceYearly  Recurrence = "Yearly"
)

type Transaction struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Type        TransactionType `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Date        time.Time       `json:"date"`
	Recurrence  Recurrence      `json:"recurrence"`
	NextDate    *time.Time      `json:"next_date"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// TransactionFilter narrows a user's transactions. Zero fields match
// everything.
type TransactionFilter struct {
	Type     TransactionType
	Category string
	Start    *time.Time
	End      *time.Time
}

// IsRecurring reports whether the transaction repeats.
func (t *Transaction) IsRecurring() bool {
	return t.Recurrence != "" && t.Recurrence != RecurrenceNone
}

// Prepare normalizes user input before validation and storage.
func (t *Transaction) Prepare() {
	t.Title = SanitizeText(t.Title)
	t.Description = SanitizeText(t.Description)
	t.Category = NormalizeCategory(t.Category)
	if t.Recurrence == "" {
		t.Recurrence = RecurrenceNone
	}
	if !t.IsRecurring() {
		t.NextDate = nil
		return
	}
	if t.NextDate == nil && !t.Date.IsZero() {
		next := NextOccurrence(t.Date, t.Recurrence)
		t.NextDate = &next
	}
}

// NextOccurrence returns the occurrence after from. Monthly and yearly
// steps clamp to the last day of a shorter target month.
func NextOccurrence(from time.Time, r Recurrence) time.Time {
	switch r {
	case RecurrenceDaily:
		return from.AddDate(0, 0, 1)
	case RecurrenceWeekly:
		return from.AddDate(0, 0, 7)
	case RecurrenceMonthly:
		return addMonthsClamped(from, 1)
	case RecurrenceYearly:
		return addMonthsClamped(from, 12)
	default:
		return from
	}
}

func addMonthsClamped(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(months), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	last := time.Date(first.Year(), first.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
	if d > last {
		d = last
	}
	return first.AddDate(0, 0, d-1)
}

func ValidateTransaction(v *validator.Validator, t *Transaction) {
	v.Check(t.Title != "", "title", "must be provided")
	v.Check(len(t.Title) <= 100, "title", "must not be more than 100 characters")
	v.Check(len(t.Description) <= 500, "description", "must not be more than 500 characters")
	v.Check(validator.PermittedValue(t.Type, TransactionTypeIncome, TransactionTypeExpense), "type", "must be either income or expense")
	v.Check(t.Amount.IsPositive(), "amount", "must be greater than zero")
	v.Check(t.Amount.LessThanOrEqual(decimal.NewFromInt(999_999_999)), "amount", "must not exceed 999,999,999")
	v.Check(len(t.Category) <= 50, "category", "must not be more than 50 characters")
	v.Check(!t.Date.IsZero(), "date", "must be provided")
	v.Check(validator.PermittedValue(t.Recurrence, RecurrenceNone, RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly, RecurrenceYearly),
		"recurrence", "must be one of None, Daily, Weekly, Monthly, Yearly")
}

// Insert assigns an ID and timestamps and saves the transaction.
func (m TransactionModel) Insert(ctx context.Context, t *Transaction) error {
	ctx, cancel := contextGenerator(ctx, DefaultTransactionDBContextTimeout)
	defer cancel()
	now := time.Now().UTC()
	t.ID = newID()
	t.CreatedAt = now
	t.UpdatedAt = now
	doc, err := toDocument(t)
	if err != nil {
		return err
	}
	return m.Store.Insert(ctx, CollectionTransactions, t.ID, doc)
}

// Get returns the transaction if it belongs to userID.
func (m TransactionModel) Get(ctx context.Context, userID, id string) (*Transaction, error) {
	ctx, cancel := contextGenerator(ctx, DefaultTransactionDBContextTimeout)
	defer cancel()
	return getOwned[Transaction](ctx, m.Store, CollectionTransactions, id, userID)
}

// Update replaces the stored transaction with t.
func (m TransactionModel) Update(ctx context.Context, t *Transaction) error {
	ctx, cancel := contextGenerator(ctx, DefaultTransactionDBContextTimeout)
	defer cancel()
	t.UpdatedAt = time.Now().UTC()
	doc, err := toDocument(t)
	if err != nil {
		return err
	}
	return m.Store.Replace(ctx, CollectionTransactions, t.ID, doc)
}

// Delete removes the transaction if it belongs to userID.
func (m TransactionModel) Delete(ctx context.Context, userID, id string) error {
	ctx, cancel := contextGenerator(ctx, DefaultTransactionDBContextTimeout)
	defer cancel()
	if _, err := getOwned[Transaction](ctx, m.Store, CollectionTransactions, id, userID); err != nil {
		return err
	}
	return m.Store.Delete(ctx, CollectionTransactions, id)
}

// GetAllForUser returns every transaction the user has recorded.
func (m TransactionModel) GetAllForUser(ctx context.Context, userID string) ([]*Transaction, error) {
	ctx, cancel := contextGenerator(ctx, DefaultTransactionDBContextTimeout)
	defer cancel()
	return findAll[Transaction](ctx, m.Store, CollectionTransactions, ByUser(userID))
}

// GetForUser returns one page of the user's transactions matching filter,
// sorted as filters asks.
func (m TransactionModel) GetForUser(ctx context.Context, userID string, filter TransactionFilter, filters Filters) ([]*Transaction, Metadata, error) {
	all, err := m.GetAllForUser(ctx, userID)
	if err != nil {
		return nil, Metadata{}, err
	}
	matched := FilterTransactions(all, filter)
	SortTransactions(matched, filters)
	return paginate(matched, filters), calculateMetadata(len(matched), filters.Page, filters.PageSize), nil
}

// FilterTransactions keeps the transactions matching filter, in order.
func FilterTransactions(transactions []*Transaction, filter TransactionFilter) []*Transaction {
	category := ""
	if filter.Category != "" {
		category = NormalizeCategory(filter.Category)
	}
	out := make([]*Transaction, 0, len(transactions))
	for _, t := range transactions {
		switch {
		case filter.Type != "" && t.Type != filter.Type:
			continue
		case category != "" && NormalizeCategory(t.Category) != category:
			continue
		case filter.Start != nil && t.Date.Before(*filter.Start):
			continue
		case filter.End != nil && t.Date.After(*filter.End):
			continue
		}
		out = append(out, t)
	}
	return out
}

// SortTransactions orders transactions in place by the filters' sort key.
func SortTransactions(transactions []*Transaction, filters Filters) {
	column := filters.sortColumn()
	desc := filters.sortDescending()
	sort.SliceStable(transactions, func(i, j int) bool {
		a, b := transactions[i], transactions[j]
		var less bool
		switch column {
		case "amount":
			less = a.Amount.LessThan(b.Amount)
			if desc {
				less = a.Amount.GreaterThan(b.Amount)
			}
		default:
			less = a.Date.Before(b.Date)
			if desc {
				less = a.Date.After(b.Date)
			}
		}
		return less
	})
}

// GetDueRecurring returns up to limit recurring transactions whose next
// occurrence is at or before now. An empty userID searches every user.
func (m TransactionModel) GetDueRecurring(ctx context.Context, userID string, now time.Time, limit int) ([]*Transaction, error) {
	ctx, cancel := contextGenerator(ctx, DefaultTransactionDBContextTimeout)
	defer cancel()
	q := Query{Filters: []Filter{{Field: "recurrence", Op: OpNotEqual, Value: string(RecurrenceNone)}}}
	if userID != "" {
		q = ByUser(userID, q.Filters...)
	}
	recurring, err := findAll[Transaction](ctx, m.Store, CollectionTransactions, q)
	if err != nil {
		return nil, err
	}
	var due []*Transaction
	for _, t := range recurring {
		if !t.IsRecurring() || t.NextDate == nil || t.NextDate.After(now) {
			continue
		}
		due = append(due, t)
		if limit > 0 && len(due) == limit {
			break
		}
	}
	return due, nil
}

// SpawnDueRecurring materializes every occurrence of parent's series that
// is due by now. Each spawned child takes over the recurrence and the
// previous holder is reset to a one-off. It returns how many were created.
func (m TransactionModel) SpawnDueRecurring(ctx context.Context, parent *Transaction, now time.Time) (int, error) {
	spawned := 0
	current := parent
	for current.IsRecurring() && current.NextDate != nil && !current.NextDate.After(now) {
		if spawned >= maxRecurringCatchUp {
			return spawned, errors.New("recurring catch-up limit reached")
		}
		child := *current
		child.Date = *current.NextDate
		next := NextOccurrence(child.Date, child.Recurrence)
		child.NextDate = &next
		if err := m.Insert(ctx, &child); err != nil {
			return spawned, err
		}

		recurrence, nextDate := current.Recurrence, current.NextDate
		current.Recurrence = RecurrenceNone
		current.NextDate = nil
		if err := m.Update(ctx, current); err != nil {
			// Only one record of a series may stay recurring.
			current.Recurrence, current.NextDate = recurrence, nextDate
			if delErr := m.rollbackInsert(ctx, child.ID); delErr != nil {
				return spawned, errors.Join(err, delErr)
			}
			return spawned, err
		}
		spawned++
		current = &child
	}
	return spawned, nil
}

func (m TransactionModel) rollbackInsert(ctx context.Context, id string) error {
	ctx, cancel := contextGenerator(ctx, DefaultTransactionDBContextTimeout)
	defer cancel()
	return m.Store.Delete(ctx, CollectionTransactions, id)
}
