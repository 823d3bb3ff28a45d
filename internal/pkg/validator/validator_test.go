package validator

import (
	"testing"
	"time"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		got := IsEmpty(c.input)
		if got != c.want {
			t.Errorf("IsEmpty(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestIsValidEmail(t *testing.T) {
	valid := []string{"test@example.com", "user.name+1@domain.co", "a@b.cd"}
	invalid := []string{"test@", "@example.com", "test@.com", "test@com", "test@domain", " ", ""}
	for _, email := range valid {
		if !IsValidEmail(email) {
			t.Errorf("IsValidEmail(%q) = false, want true", email)
		}
	}
	for _, email := range invalid {
		if IsValidEmail(email) {
			t.Errorf("IsValidEmail(%q) = true, want false", email)
		}
	}
}

func TestIsNumeric(t *testing.T) {
	valid := []string{"123", "0", "9876543210"}
	invalid := []string{"abc", "123a", "", "-123"}
	for _, s := range valid {
		if !IsNumeric(s) {
			t.Errorf("IsNumeric(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if IsNumeric(s) {
			t.Errorf("IsNumeric(%q) = true, want false", s)
		}
	}
}

func TestIsValidDate(t *testing.T) {
	valid := []string{"2023-01-01", "2000-12-31"}
	invalid := []string{"2023-13-01", "2023-01-32", "2023/01/01", "01-01-2023", ""}
	for _, s := range valid {
		_, ok := IsValidDate(s)
		if !ok {
			t.Errorf("IsValidDate(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		_, ok := IsValidDate(s)
		if ok {
			t.Errorf("IsValidDate(%q) = true, want false", s)
		}
	}
}

func TestParseDateTime(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)

	valid := map[string]time.Time{
		"2024-01-15T10:30:00Z":      time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
		"2024-01-15T10:30:00-03:00": time.Date(2024, 1, 15, 13, 30, 0, 0, time.UTC),
		"2024-01-15 10:30:00":       time.Date(2024, 1, 15, 10, 30, 0, 0, loc),
		"2024-01-15T10:30":          time.Date(2024, 1, 15, 10, 30, 0, 0, loc),
		"2024-01-15":                time.Date(2024, 1, 15, 0, 0, 0, 0, loc),
	}
	for input, want := range valid {
		got, ok := ParseDateTime(input, loc)
		if !ok {
			t.Errorf("ParseDateTime(%q) failed", input)
			continue
		}
		if !got.Equal(want) {
			t.Errorf("ParseDateTime(%q) = %v, want %v", input, got, want)
		}
	}

	invalid := []string{"", "yesterday", "15/01/2024", "2024-13-01"}
	for _, input := range invalid {
		if _, ok := ParseDateTime(input, loc); ok {
			t.Errorf("ParseDateTime(%q) = ok, want failure", input)
		}
	}
}

func TestValidationErrors_Error(t *testing.T) {
	errs := ValidationErrors{
		{Field: "email", Message: "invalid"},
		{Field: "amount", Message: "required"},
	}
	got := errs.Error()
	want := "email: invalid; amount: required"
	if got != want {
		t.Errorf("ValidationErrors.Error() = %q, want %q", got, want)
	}
}

func TestValidationErrors_ToMap(t *testing.T) {
	errs := ValidationErrors{
		{Field: "email", Message: "invalid"},
		{Field: "amount", Message: "required"},
		{Field: "email", Message: "too long"},
	}
	got := errs.ToMap()
	if len(got) != 2 {
		t.Fatalf("ValidationErrors.ToMap() length = %d, want 2", len(got))
	}
	if len(got["email"]) != 2 || got["email"][0] != "invalid" || got["email"][1] != "too long" {
		t.Errorf("ValidationErrors.ToMap()[email] = %v", got["email"])
	}
	if len(got["amount"]) != 1 || got["amount"][0] != "required" {
		t.Errorf("ValidationErrors.ToMap()[amount] = %v", got["amount"])
	}
}
