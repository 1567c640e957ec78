package models

import (
	"encoding/json"
	"testing"
)

func TestNullableString_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name      string
		json      string
		wantSet   bool
		wantValid bool
		wantValue string
	}{
		{
			name:      "field present with string value",
			json:      `{"description": "hello"}`,
			wantSet:   true,
			wantValid: true,
			wantValue: "hello",
		},
		{
			name:      "field present with null value",
			json:      `{"description": null}`,
			wantSet:   true,
			wantValid: false,
			wantValue: "",
		},
		{
			name:      "field absent",
			json:      `{}`,
			wantSet:   false,
			wantValid: false,
			wantValue: "",
		},
		{
			name:      "field present with empty string",
			json:      `{"description": ""}`,
			wantSet:   true,
			wantValid: true,
			wantValue: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var result struct {
				Description NullableString `json:"description"`
			}
			err := json.Unmarshal([]byte(tt.json), &result)
			if err != nil {
				t.Fatalf("Unmarshal error: %v", err)
			}

			if result.Description.Set != tt.wantSet {
				t.Errorf("Set = %v, want %v", result.Description.Set, tt.wantSet)
			}
			if result.Description.Valid != tt.wantValid {
				t.Errorf("Valid = %v, want %v", result.Description.Valid, tt.wantValid)
			}
			if result.Description.Value != tt.wantValue {
				t.Errorf("Value = %q, want %q", result.Description.Value, tt.wantValue)
			}
		})
	}
}

func TestNullableString_ToPtr(t *testing.T) {
	tests := []struct {
		name    string
		ns      NullableString
		wantNil bool
		wantVal string
	}{
		{
			name:    "valid string",
			ns:      NullableString{Value: "hello", Valid: true, Set: true},
			wantNil: false,
			wantVal: "hello",
		},
		{
			name:    "null value",
			ns:      NullableString{Valid: false, Set: true},
			wantNil: true,
		},
		{
			name:    "not set",
			ns:      NullableString{Valid: false, Set: false},
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ptr := tt.ns.ToPtr()
			if tt.wantNil {
				if ptr != nil {
					t.Errorf("ToPtr() = %v, want nil", *ptr)
				}
			} else {
				if ptr == nil {
					t.Errorf("ToPtr() = nil, want %q", tt.wantVal)
				} else if *ptr != tt.wantVal {
					t.Errorf("ToPtr() = %q, want %q", *ptr, tt.wantVal)
				}
			}
		})
	}
}

func TestUpdateHabitRequest_NullableDescription(t *testing.T) {
	var cleared UpdateHabitRequest
	if err := json.Unmarshal([]byte(`{"description": null}`), &cleared); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if !cleared.Description.Set || cleared.Description.Valid {
		t.Errorf("explicit null: Set=%v Valid=%v, want Set=true Valid=false",
			cleared.Description.Set, cleared.Description.Valid)
	}

	var untouched UpdateHabitRequest
	if err := json.Unmarshal([]byte(`{"name": "Run"}`), &untouched); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if untouched.Description.Set {
		t.Error("Description.Set = true when field is absent")
	}
	if untouched.Name == nil || *untouched.Name != "Run" {
		t.Errorf("Name = %v, want Run", untouched.Name)
	}

	var replaced UpdateHabitRequest
	if err := json.Unmarshal([]byte(`{"description": "morning run"}`), &replaced); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if got := replaced.Description.ToPtr(); got == nil || *got != "morning run" {
		t.Errorf("Description.ToPtr() = %v, want morning run", got)
	}
}
