// Package webhook captures Facebook Lead Ads submissions and turns them into
// consultations.
package webhook

import (
	"strings"
)

// Lead is a normalized lead extracted from a webhook payload.
type Lead struct {
	FullName string
	Email    string
	Phone    string
	State    string
	Address  string
	Message  string
}

// leadgenPayload mirrors the Facebook webhook POST body, reduced to the
// fields this capture path reads.
type leadgenPayload struct {
	Object string `json:"object"`
	Entry  []struct {
		Changes []struct {
			Field string       `json:"field"`
			Value leadgenValue `json:"value"`
		} `json:"changes"`
	} `json:"entry"`
}

type leadgenValue struct {
	LeadgenID string `json:"leadgen_id"`
	FieldData []struct {
		Name   string   `json:"name"`
		Values []string `json:"values"`
	} `json:"field_data"`
}

// extractLead maps Lead Ads field_data entries onto a Lead. Field names vary
// between form builders, so matching is loose: lowercase with common aliases.
func extractLead(value leadgenValue) Lead {
	var lead Lead

	for _, field := range value.FieldData {
		if len(field.Values) == 0 {
			continue
		}
		fieldValue := strings.TrimSpace(field.Values[0])
		if fieldValue == "" {
			continue
		}

		switch normalizeFieldName(field.Name) {
		case "full_name", "name":
			lead.FullName = fieldValue
		case "email", "email_address":
			lead.Email = fieldValue
		case "phone_number", "phone":
			lead.Phone = fieldValue
		case "state", "us_state", "which_state_are_you_looking_in":
			lead.State = strings.ToUpper(fieldValue)
		case "street_address", "address":
			lead.Address = fieldValue
		case "message", "comments", "how_can_we_help":
			lead.Message = fieldValue
		}
	}

	return lead
}

func normalizeFieldName(name string) string {
	lowered := strings.ToLower(strings.TrimSpace(name))
	return strings.ReplaceAll(lowered, " ", "_")
}
