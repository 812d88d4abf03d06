package validator

import (
	"testing"

	"github.com/go-playground/validator/v10"
)

type sample struct {
	Color    string `validate:"omitempty,hex_color"`
	Type     string `validate:"omitempty,category_type"`
	Currency string `validate:"omitempty,currency_code"`
}

func newValidate(t *testing.T) *validator.Validate {
	t.Helper()
	v := validator.New()
	for tag, fn := range map[string]validator.Func{
		"hex_color":     validateHexColor,
		"category_type": validateCategoryType,
		"currency_code": validateCurrencyCode,
	} {
		if err := v.RegisterValidation(tag, fn); err != nil {
			t.Fatalf("failed to register %s: %v", tag, err)
		}
	}
	return v
}

func TestValidators(t *testing.T) {
	v := newValidate(t)

	tests := []struct {
		name  string
		input sample
		valid bool
	}{
		{"empty", sample{}, true},
		{"short color", sample{Color: "#fff"}, true},
		{"long color", sample{Color: "#13ec6a"}, true},
		{"color without hash", sample{Color: "13ec6a"}, false},
		{"color bad digits", sample{Color: "#zzzzzz"}, false},
		{"income", sample{Type: "income"}, true},
		{"expense", sample{Type: "expense"}, true},
		{"unknown type", sample{Type: "savings"}, false},
		{"supported currency", sample{Currency: "EUR"}, true},
		{"lowercase currency", sample{Currency: "cop"}, true},
		{"unsupported currency", sample{Currency: "JPY"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.input)
			if tt.valid && err != nil {
				t.Errorf("expected valid, got %v", err)
			}
			if !tt.valid && err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
