package webhook

import (
	"encoding/json"
	"testing"
)

const samplePayload = `{
	"object": "page",
	"entry": [{
		"changes": [{
			"field": "leadgen",
			"value": {
				"leadgen_id": "4444444444",
				"field_data": [
					{"name": "full_name", "values": ["Jordan Buyer"]},
					{"name": "email", "values": ["jordan@example.com"]},
					{"name": "phone_number", "values": ["+19195550142"]},
					{"name": "Which state are you looking in", "values": ["nc"]},
					{"name": "message", "values": ["Interested in HUD homes near Raleigh"]}
				]
			}
		}]
	}]
}`

func TestExtractLead_MapsKnownFields(t *testing.T) {
	var payload leadgenPayload
	if err := json.Unmarshal([]byte(samplePayload), &payload); err != nil {
		t.Fatalf("failed to parse sample payload: %v", err)
	}

	lead := extractLead(payload.Entry[0].Changes[0].Value)

	if lead.FullName != "Jordan Buyer" {
		t.Fatalf("expected full name, got %q", lead.FullName)
	}
	if lead.Email != "jordan@example.com" {
		t.Fatalf("expected email, got %q", lead.Email)
	}
	if lead.Phone != "+19195550142" {
		t.Fatalf("expected phone, got %q", lead.Phone)
	}
	if lead.State != "NC" {
		t.Fatalf("expected uppercased state, got %q", lead.State)
	}
	if lead.Message != "Interested in HUD homes near Raleigh" {
		t.Fatalf("expected message, got %q", lead.Message)
	}
}

func TestExtractLead_IgnoresEmptyAndUnknownFields(t *testing.T) {
	value := leadgenValue{
		FieldData: []struct {
			Name   string   `json:"name"`
			Values []string `json:"values"`
		}{
			{Name: "full_name", Values: []string{"   "}},
			{Name: "favorite_color", Values: []string{"blue"}},
			{Name: "email", Values: nil},
		},
	}

	lead := extractLead(value)
	if lead.FullName != "" || lead.Email != "" {
		t.Fatalf("expected empty lead, got %+v", lead)
	}
}
