// Package evidence models the entities the analysis backend extracts from a
// conversation and the report it assembles from them.
package evidence

// Field names one dashboard slot. Values match the extracted_info keys.
type Field string

const (
	FieldUPIIDs         Field = "upi_ids"
	FieldPhoneNumbers   Field = "phone_numbers"
	FieldBankAccounts   Field = "bank_accounts"
	FieldSusLinks       Field = "sus_links"
	FieldAmounts        Field = "amounts"
	FieldScammerName    Field = "scammer_name"
	FieldScammerAddress Field = "scammer_address"
)

// Fields lists every dashboard field in display order.
var Fields = []Field{
	FieldUPIIDs,
	FieldPhoneNumbers,
	FieldBankAccounts,
	FieldSusLinks,
	FieldAmounts,
	FieldScammerName,
	FieldScammerAddress,
}

var fieldLabels = map[Field]string{
	FieldUPIIDs:         "UPI IDs",
	FieldPhoneNumbers:   "Phone Numbers",
	FieldBankAccounts:   "Bank Accounts",
	FieldSusLinks:       "Suspicious Links",
	FieldAmounts:        "Amounts",
	FieldScammerName:    "Scammer Name",
	FieldScammerAddress: "Scammer Address",
}

// Label returns the human readable heading for the field.
func (f Field) Label() string {
	if label, ok := fieldLabels[f]; ok {
		return label
	}
	return string(f)
}
