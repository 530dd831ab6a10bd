package branches

import (
	"partner-console/internal/common/validation"
)

// formSchema declares the branch form rules. Labels feed the inline message
// text, so they read as field names, not JSON keys.
var formSchema = validation.FormSchema{
	Required: []string{
		"name", "name_ar", "address", "address_ar", "phone",
		"latitude", "longitude", "city_id", "zone_id", "status",
	},
	Fields: map[string]validation.Field{
		"name":       {Type: "string", Label: "Name (English)", MinLength: validation.IntPtr(2)},
		"name_ar":    {Type: "string", Label: "Name (Arabic)", MinLength: validation.IntPtr(2)},
		"address":    {Type: "string", Label: "Address (English)"},
		"address_ar": {Type: "string", Label: "Address (Arabic)"},
		"phone":      {Type: "string", Label: "Phone", MinLength: validation.IntPtr(5)},
		"latitude":   {Type: "string", Label: "Latitude", Pattern: validation.StrPtr(`^-?\d{1,2}(\.\d+)?$`)},
		"longitude":  {Type: "string", Label: "Longitude", Pattern: validation.StrPtr(`^-?\d{1,3}(\.\d+)?$`)},
		"city_id":    {Type: "string", Label: "City"},
		"zone_id":    {Type: "string", Label: "Zone"},
		"status":     {Type: "string", Label: "Status", Enum: []string{"0", "1", "2"}},
	},
}

// validateForm runs the declarative rules over the form values and returns
// the per-field error map, empty when the form is valid.
func validateForm(values map[string]interface{}) map[string]string {
	result := validation.ValidateForm(values, formSchema)
	if result.Valid {
		return nil
	}
	return result.FieldErrors()
}
