package models

import "github.com/shopspring/decimal"

// CategoryType represents the type of category
type CategoryType string

const (
	CategoryTypeIncome  CategoryType = "income"
	CategoryTypeExpense CategoryType = "expense"
)

// Valid reports whether t is one of the known category types.
func (t CategoryType) Valid() bool {
	return t == CategoryTypeIncome || t == CategoryTypeExpense
}

// Category is a node of the income or expense forest.
//
// Amount is only meaningful for leaves: a category with children reports the
// sum of its children instead. Budget is an independent cap where zero means
// "no cap configured". SourceIncomeID links an expense to the income category
// it draws from; nil means the common pool.
type Category struct {
	Base
	ParentID       *string         `json:"parent_id,omitempty"`
	Name           string          `json:"name"`
	Type           CategoryType    `json:"type"`
	Amount         decimal.Decimal `json:"amount"`
	Budget         decimal.Decimal `json:"budget"`
	Color          string          `json:"color"`
	Icon           string          `json:"icon"`
	SourceIncomeID *string         `json:"source_income_id,omitempty"`
}

// IsRoot reports whether the category has no parent.
func (c *Category) IsRoot() bool {
	return c.ParentID == nil
}

// Clone returns a deep copy so callers never share pointer fields with the store.
func (c Category) Clone() Category {
	out := c
	if c.ParentID != nil {
		p := *c.ParentID
		out.ParentID = &p
	}
	if c.SourceIncomeID != nil {
		s := *c.SourceIncomeID
		out.SourceIncomeID = &s
	}
	return out
}
