package application

import (
	"errors"
	"testing"
)

func TestValidateRequired(t *testing.T) {
	tests := []struct {
		name      string
		fieldName string
		value     string
		wantErr   bool
	}{
		{
			name:      "valid value",
			fieldName: "treeID",
			value:     "8f1c2b9e-5d7a-4a63-9a53-0f7c2b1e6d11",
			wantErr:   false,
		},
		{
			name:      "empty string",
			fieldName: "treeID",
			value:     "",
			wantErr:   true,
		},
		{
			name:      "whitespace only",
			fieldName: "url",
			value:     "   ",
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRequired(tt.fieldName, tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRequired() error = %v, wantErr %v", err, tt.wantErr)
			}

			if err != nil {
				var valErr *ValidationError
				if !errors.As(err, &valErr) {
					t.Fatalf("expected ValidationError, got %T", err)
				}
				if valErr.Field != tt.fieldName {
					t.Errorf("expected field %s, got %s", tt.fieldName, valErr.Field)
				}
			}
		})
	}
}

func TestValidateRequired_Message(t *testing.T) {
	err := ValidateRequired("treeID", "")
	if err == nil || err.Error() != "treeID: tree ID is required" {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidateTreeID(t *testing.T) {
	tests := []struct {
		name        string
		id          string
		wantErr     bool
		wantInvalid bool
	}{
		{name: "uuid", id: "8f1c2b9e-5d7a-4a63-9a53-0f7c2b1e6d11"},
		{name: "uuid with spaces", id: " 8f1c2b9e-5d7a-4a63-9a53-0f7c2b1e6d11 "},
		{name: "empty", id: "", wantErr: true},
		{name: "not a uuid", id: "S01.11", wantErr: true, wantInvalid: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := ValidateTreeID("treeID", tt.id)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateTreeID() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && id.String() != "8f1c2b9e-5d7a-4a63-9a53-0f7c2b1e6d11" {
				t.Errorf("unexpected id %s", id)
			}
			if tt.wantInvalid {
				if !errors.Is(err, ErrInvalidID) {
					t.Errorf("expected ErrInvalidID, got %v", err)
				}
				var valErr *ValidationError
				if !errors.As(err, &valErr) {
					t.Errorf("expected ValidationError, got %T", err)
				}
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		value   string
		wantErr bool
	}{
		{"https://go.dev/doc/", false},
		{"http://localhost:8080/x", false},
		{"", true},
		{"go.dev", true},
		{"ftp://example.com/file", true},
		{"javascript:alert(1)", true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			err := ValidateURL("url", tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
		})
	}
}

func TestDocumentError_Is(t *testing.T) {
	cause := errors.New("bad path")
	err := error(&DocumentError{ID: "abc", Reason: "current path", Err: cause})

	if !errors.Is(err, ErrInvalidDocument) {
		t.Error("expected DocumentError to match ErrInvalidDocument")
	}
	if !errors.Is(err, cause) {
		t.Error("expected DocumentError to unwrap its cause")
	}
	if err.Error() != "invalid document abc: current path" {
		t.Errorf("unexpected message %q", err.Error())
	}
}
