// Package message holds the default English messages for validation issues.
// Keys mostly mirror kanon issue codes; a few refinement-specific keys
// ("starts_with", "never", ...) select a more precise template.
package message

// T renders the message for key using data as template parameters. Unknown
// keys render as the key itself.
func T(key string, data map[string]string) string {
	switch key {
	case "invalid_type":
		return "expected " + data["expected"] + ", received " + data["received"]
	case "never":
		return "no value is accepted, received " + data["received"]
	case "required":
		return "required"
	case "duplicate_key":
		return "duplicate key \"" + data["key"] + "\""
	case "unknown_key":
		return "unrecognized key \"" + data["key"] + "\""
	case "too_short":
		return "must contain at least " + data["min"] + " " + data["unit"]
	case "too_long":
		return "must contain at most " + data["max"] + " " + data["unit"]
	case "exact_length":
		return "must contain exactly " + data["length"] + " " + data["unit"]
	case "too_small":
		if data["inclusive"] == "true" {
			return "must be greater than or equal to " + data["min"]
		}
		return "must be greater than " + data["min"]
	case "too_big":
		if data["inclusive"] == "true" {
			return "must be less than or equal to " + data["max"]
		}
		return "must be less than " + data["max"]
	case "date_too_early":
		return "must be on or after " + data["min"]
	case "date_too_late":
		return "must be on or before " + data["max"]
	case "not_integer":
		return "expected integer, received float"
	case "not_finite":
		return "must be finite"
	case "not_multiple_of":
		return "must be a multiple of " + data["multipleOf"]
	case "invalid_format":
		return "invalid " + data["format"]
	case "pattern":
		return "must match pattern " + data["pattern"]
	case "starts_with":
		return "must start with \"" + data["prefix"] + "\""
	case "ends_with":
		return "must end with \"" + data["suffix"] + "\""
	case "includes":
		return "must include \"" + data["substring"] + "\""
	case "invalid_literal":
		return "expected literal " + data["expected"] + ", received " + data["received"]
	case "invalid_enum":
		return "expected one of: " + data["options"] + ", received " + data["received"]
	case "invalid_union":
		return "expected one of: " + data["options"]
	case "invalid_length":
		return "expected tuple of length " + data["expected"] + ", received " + data["received"]
	case "coercion_failed":
		return "cannot convert " + data["received"] + " to " + data["expected"]
	case "custom":
		return "invalid value"
	case "parse_error":
		return "parse error"
	case "canceled":
		return "validation canceled"
	}
	return key
}
