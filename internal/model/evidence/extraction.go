package evidence

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnsupportedValue is returned when a field item is neither a string nor a number.
var ErrUnsupportedValue = errors.New("unsupported extraction value")

// Extraction mirrors the extracted_info object of a chat response.
// A nil list means the backend omitted the field.
type Extraction struct {
	UPIIDs         StringList `json:"upi_ids,omitempty"`
	PhoneNumbers   StringList `json:"phone_numbers,omitempty"`
	BankAccounts   StringList `json:"bank_accounts,omitempty"`
	SusLinks       StringList `json:"sus_links,omitempty"`
	Amounts        StringList `json:"amounts,omitempty"`
	ScammerName    StringList `json:"scammer_name,omitempty"`
	ScammerAddress StringList `json:"scammer_address,omitempty"`
}

// Get returns the items carried for f.
func (e Extraction) Get(f Field) []string {
	switch f {
	case FieldUPIIDs:
		return e.UPIIDs
	case FieldPhoneNumbers:
		return e.PhoneNumbers
	case FieldBankAccounts:
		return e.BankAccounts
	case FieldSusLinks:
		return e.SusLinks
	case FieldAmounts:
		return e.Amounts
	case FieldScammerName:
		return e.ScammerName
	case FieldScammerAddress:
		return e.ScammerAddress
	}
	return nil
}

// ParseExtraction decodes the raw extracted_info payload.
// It returns (nil, nil) when the payload is absent or JSON null, which callers
// must distinguish from a present object with empty lists.
func ParseExtraction(raw json.RawMessage) (*Extraction, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	if trimmed[0] != '{' {
		return nil, fmt.Errorf("extracted_info must be an object, got %.32s", trimmed)
	}

	var extraction Extraction
	if err := json.Unmarshal(trimmed, &extraction); err != nil {
		return nil, fmt.Errorf("decode extracted_info: %w", err)
	}
	return &extraction, nil
}

// StringList is an ordered list of display strings. It also accepts a lone
// string or number, which the backend occasionally sends for single-valued
// fields such as scammer_name.
type StringList []string

// UnmarshalJSON implements json.Unmarshaler.
func (l *StringList) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*l = nil
		return nil
	}

	if trimmed[0] != '[' {
		item, err := scalarString(trimmed)
		if err != nil {
			return err
		}
		if item == "" {
			*l = nil
			return nil
		}
		*l = StringList{item}
		return nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return err
	}

	out := make(StringList, 0, len(items))
	for i, raw := range items {
		item, err := scalarString(raw)
		if err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
		out = append(out, item)
	}
	*l = out
	return nil
}

func scalarString(raw json.RawMessage) (string, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var value any
	if err := dec.Decode(&value); err != nil {
		return "", err
	}

	switch v := value.(type) {
	case string:
		return v, nil
	case json.Number:
		return v.String(), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedValue, bytes.TrimSpace(raw))
	}
}
