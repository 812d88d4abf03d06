// Package ledger holds the category forest of a budget and derives every
// computed figure from it.
//
// Categories live in an arena: an ordered slice in collection order plus an
// id index. Parent, child and income links are plain ids resolved on demand,
// so the store never holds pointers between records and every traversal is
// an explicit loop guarded against malformed (cyclic) parent chains.
package ledger

import (
	"strings"

	"github.com/shopspring/decimal"

	apperrors "budgetree/internal/errors"
	"budgetree/internal/models"
)

// Store owns the authoritative collection of categories.
// It is not safe for concurrent use; callers serialize access.
type Store struct {
	categories []models.Category
	index      map[string]int
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{index: make(map[string]int)}
}

// CreateInput carries the user-supplied fields of a new category.
type CreateInput struct {
	Name           string
	Type           models.CategoryType
	ParentID       *string
	Budget         decimal.Decimal
	SourceIncomeID *string
}

// UpdateInput carries optional edits. Nil fields are left untouched. An empty
// ParentID moves the category to the root level and an empty SourceIncomeID
// unlinks it from its income source.
type UpdateInput struct {
	Name           *string
	Budget         *decimal.Decimal
	Color          *string
	Icon           *string
	ParentID       *string
	SourceIncomeID *string
}

// Len returns the number of categories.
func (s *Store) Len() int {
	return len(s.categories)
}

// All returns a copy of every category in collection order.
func (s *Store) All() []models.Category {
	out := make([]models.Category, len(s.categories))
	for i, c := range s.categories {
		out[i] = c.Clone()
	}
	return out
}

// Get returns a copy of the category with the given id.
func (s *Store) Get(id string) (*models.Category, error) {
	i, ok := s.index[id]
	if !ok {
		return nil, apperrors.ErrCategoryNotFound
	}
	c := s.categories[i].Clone()
	return &c, nil
}

// Create validates in and appends a new leaf category with a zero amount.
func (s *Store) Create(in CreateInput) (*models.Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
	}
	if !in.Type.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category type must be income or expense")
	}
	if in.Budget.IsNegative() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "budget cannot be negative")
	}

	parentID := normalizeRef(in.ParentID)
	if parentID != nil {
		i, ok := s.index[*parentID]
		if !ok {
			return nil, apperrors.WithMessage(apperrors.ErrCategoryNotFound, "parent category not found")
		}
		if s.categories[i].Type != in.Type {
			return nil, apperrors.ErrCategoryTypeMismatch
		}
	}

	sourceID, err := s.checkIncomeSource(in.Type, in.SourceIncomeID)
	if err != nil {
		return nil, err
	}

	n := len(s.categories)
	category := models.Category{
		Base:           models.NewBase(),
		ParentID:       parentID,
		Name:           name,
		Type:           in.Type,
		Amount:         decimal.Zero,
		Budget:         in.Budget,
		Color:          colorFor(n),
		Icon:           iconFor(in.Type, n),
		SourceIncomeID: sourceID,
	}

	s.categories = append(s.categories, category)
	s.index[category.ID] = n

	out := category.Clone()
	return &out, nil
}

// UpdateAmount replaces the directly-entered amount of a category. Ancestors
// are unaffected: their figures are always recomputed from their children.
// On a group the stored amount is inert until the group loses its children.
func (s *Store) UpdateAmount(id string, value decimal.Decimal) error {
	i, ok := s.index[id]
	if !ok {
		return apperrors.ErrCategoryNotFound
	}
	s.categories[i].Amount = value
	s.categories[i].Touch()
	return nil
}

// Update applies metadata edits and re-parenting.
func (s *Store) Update(id string, in UpdateInput) (*models.Category, error) {
	i, ok := s.index[id]
	if !ok {
		return nil, apperrors.ErrCategoryNotFound
	}
	current := s.categories[i]
	next := current.Clone()

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name cannot be empty")
		}
		next.Name = name
	}
	if in.Budget != nil {
		if in.Budget.IsNegative() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "budget cannot be negative")
		}
		next.Budget = *in.Budget
	}
	if in.Color != nil && *in.Color != "" {
		next.Color = *in.Color
	}
	if in.Icon != nil && *in.Icon != "" {
		next.Icon = *in.Icon
	}

	if in.ParentID != nil {
		parentID, err := s.checkParentMove(current, normalizeRef(in.ParentID))
		if err != nil {
			return nil, err
		}
		next.ParentID = parentID
	}

	if in.SourceIncomeID != nil {
		sourceID, err := s.checkIncomeSource(current.Type, in.SourceIncomeID)
		if err != nil {
			return nil, err
		}
		next.SourceIncomeID = sourceID
	}

	next.Touch()
	s.categories[i] = next

	out := next.Clone()
	return &out, nil
}

// Descendants returns id followed by every category below it, breadth first.
func (s *Store) Descendants(id string) ([]string, error) {
	i, ok := s.index[id]
	if !ok {
		return nil, apperrors.ErrCategoryNotFound
	}
	closure := s.closure(i)
	ids := make([]string, len(closure))
	for k, idx := range closure {
		ids[k] = s.categories[idx].ID
	}
	return ids, nil
}

// Delete removes id and all of its descendants, clears every surviving
// SourceIncomeID that pointed into the removed set and returns the removed ids.
func (s *Store) Delete(id string) ([]string, error) {
	removed, err := s.Descendants(id)
	if err != nil {
		return nil, err
	}

	gone := make(map[string]bool, len(removed))
	for _, rid := range removed {
		gone[rid] = true
	}

	kept := make([]models.Category, 0, len(s.categories))
	for _, c := range s.categories {
		if gone[c.ID] {
			continue
		}
		if c.SourceIncomeID != nil && gone[*c.SourceIncomeID] {
			c.SourceIncomeID = nil
			c.Touch()
		}
		kept = append(kept, c)
	}

	s.categories = kept
	s.reindex()
	return removed, nil
}

// Load replaces the contents of the store with categories, in order.
// The snapshot is not checked for hierarchy consistency; traversals tolerate
// dangling and cyclic parent references.
func (s *Store) Load(categories []models.Category) error {
	index := make(map[string]int, len(categories))
	loaded := make([]models.Category, len(categories))
	for i, c := range categories {
		if c.ID == "" {
			return apperrors.WithMessage(apperrors.ErrInvalidInput, "category id is required")
		}
		if _, dup := index[c.ID]; dup {
			return apperrors.WithMessage(apperrors.ErrInvalidInput, "duplicate category id "+c.ID)
		}
		index[c.ID] = i
		loaded[i] = c.Clone()
	}
	s.categories = loaded
	s.index = index
	return nil
}

// closure collects the descendant set of the category at index root by
// repeated scans until no new child is found. The visited set makes it
// terminate on cyclic data.
func (s *Store) closure(root int) []int {
	visited := map[string]bool{s.categories[root].ID: true}
	order := []int{root}
	for next := 0; next < len(order); next++ {
		parentID := s.categories[order[next]].ID
		for i, c := range s.categories {
			if c.ParentID == nil || *c.ParentID != parentID || visited[c.ID] {
				continue
			}
			visited[c.ID] = true
			order = append(order, i)
		}
	}
	return order
}

func (s *Store) checkParentMove(current models.Category, parentID *string) (*string, error) {
	if parentID == nil {
		return nil, nil
	}
	if *parentID == current.ID {
		return nil, apperrors.ErrSelfParentCategory
	}
	i, ok := s.index[*parentID]
	if !ok {
		return nil, apperrors.WithMessage(apperrors.ErrCategoryNotFound, "parent category not found")
	}
	if s.categories[i].Type != current.Type {
		return nil, apperrors.ErrCategoryTypeMismatch
	}
	for _, idx := range s.closure(s.index[current.ID]) {
		if idx == i {
			return nil, apperrors.WithMessage(apperrors.ErrCycleDetected, "cannot move a category below one of its descendants")
		}
	}
	return parentID, nil
}

func (s *Store) checkIncomeSource(t models.CategoryType, ref *string) (*string, error) {
	id := normalizeRef(ref)
	if id == nil {
		return nil, nil
	}
	if t != models.CategoryTypeExpense {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "only expense categories can draw from an income source")
	}
	i, ok := s.index[*id]
	if !ok {
		return nil, apperrors.WithMessage(apperrors.ErrCategoryNotFound, "income source not found")
	}
	if s.categories[i].Type != models.CategoryTypeIncome {
		return nil, apperrors.ErrInvalidIncomeSource
	}
	return id, nil
}

func (s *Store) reindex() {
	s.index = make(map[string]int, len(s.categories))
	for i, c := range s.categories {
		s.index[c.ID] = i
	}
}

// normalizeRef maps nil and blank references to nil.
func normalizeRef(ref *string) *string {
	if ref == nil {
		return nil
	}
	id := strings.TrimSpace(*ref)
	if id == "" {
		return nil
	}
	return &id
}
