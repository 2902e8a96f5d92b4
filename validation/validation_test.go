package validation

import (
	stderrors "errors"
	"regexp"
	"strings"
	"testing"

	"github.com/kbukum/dagdeps/errors"
)

type sampleTask struct {
	ID       string `yaml:"task_id" validate:"required"`
	Triggers string `yaml:"triggers" validate:"excluded_with=WaitsFor"`
	WaitsFor string `yaml:"waits_for"`
}

type sampleView struct {
	Orientation string   `mapstructure:"orientation" validate:"oneof=LR TB RL BT"`
	Deps        []string `yaml:"deps" validate:"dive,required"`
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name    string
		in      any
		wantErr string
	}{
		{"valid plain task", sampleTask{ID: "t1"}, ""},
		{"valid trigger", sampleTask{ID: "t1", Triggers: "B"}, ""},
		{"missing id", sampleTask{}, "task_id: is required"},
		{"both kinds", sampleTask{ID: "t1", Triggers: "B", WaitsFor: "C"}, "triggers: cannot be combined with waits_for"},
		{"bad orientation", sampleView{Orientation: "XY"}, "orientation: must be one of: LR TB RL BT"},
		{"empty dependency", sampleView{Orientation: "LR", Deps: []string{"A", ""}}, "deps[1]: is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.in)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestValidateReturnsInvalidInput(t *testing.T) {
	err := Validate(sampleTask{})

	var appErr *errors.AppError
	if !stderrors.As(err, &appErr) {
		t.Fatalf("expected *errors.AppError, got %T", err)
	}
	if appErr.Code != errors.ErrCodeInvalidInput {
		t.Errorf("code = %s", appErr.Code)
	}
	fields, ok := appErr.Details["fields"].([]FieldError)
	if !ok || len(fields) != 1 || fields[0].Field != "task_id" {
		t.Errorf("unexpected field details: %#v", appErr.Details["fields"])
	}
}

func TestValidatorCollectsErrors(t *testing.T) {
	size := regexp.MustCompile(`^\d+(px|%)?$`)

	v := New().
		Required("title", "  ").
		OneOf("orientation", "XY", []string{"LR", "TB"}).
		Pattern("width", "wide", size).
		Pattern("height", "800", size).
		Min("interval", -1, 0).
		MaxLength("name", "abcdef", 3).
		Custom(false, "source", "must be set")

	if len(v.Errors()) != 6 {
		t.Fatalf("expected 6 errors, got %d: %v", len(v.Errors()), v.Errors())
	}
	appErr := v.Validate()
	if appErr == nil {
		t.Fatal("expected AppError")
	}
	if !strings.Contains(appErr.Message, "width: does not match required format") {
		t.Errorf("message = %q", appErr.Message)
	}
}

func TestValidatorSkipsEmptyOptionalValues(t *testing.T) {
	v := New().
		OneOf("orientation", "", []string{"LR"}).
		Pattern("width", "", regexp.MustCompile(`^\d+$`))
	if v.HasErrors() {
		t.Errorf("unexpected errors: %v", v.Errors())
	}
	if v.Validate() != nil {
		t.Error("expected nil AppError")
	}
}

func TestToSnakeCase(t *testing.T) {
	tests := map[string]string{
		"WaitsFor":           "waits_for",
		"ID":                 "i_d",
		"refresh":            "refresh",
		"ImplicitDependency": "implicit_dependency",
	}
	for in, want := range tests {
		if got := toSnakeCase(in); got != want {
			t.Errorf("toSnakeCase(%q) = %q, want %q", in, got, want)
		}
	}
}
