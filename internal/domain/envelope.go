package domain

// Envelope keys the upstream has used to carry the forecast list.
var forecastEnvelopeKeys = []string{"forecast", "result"}

// Envelope keys the upstream has used to carry the current-conditions object.
var currentEnvelopeKeys = []string{"result", "data"}

// ExtractForecastRecords locates the raw forecast list inside a decoded
// upstream payload. Payloads have shipped as a bare top-level array and as an
// object wrapping the array under "forecast" or "result"; the bare array
// wins, then the keys in order. A payload with no array in any accepted
// location yields no records.
func ExtractForecastRecords(payload any) []RawForecastRecord {
	if list, ok := payload.([]any); ok {
		return toRawRecords(list)
	}

	obj, ok := payload.(map[string]any)
	if !ok {
		return nil
	}
	for _, key := range forecastEnvelopeKeys {
		if list, ok := obj[key].([]any); ok {
			return toRawRecords(list)
		}
	}
	return nil
}

// ExtractCurrentRecord unwraps the current-conditions object from its
// envelope, or returns the payload itself when it is already a bare object.
func ExtractCurrentRecord(payload any) map[string]any {
	obj, ok := payload.(map[string]any)
	if !ok {
		return nil
	}
	for _, key := range currentEnvelopeKeys {
		if inner, ok := obj[key].(map[string]any); ok {
			return inner
		}
	}
	return obj
}

// toRawRecords keeps the array elements that are JSON objects. Anything else
// could never satisfy the normalizer, so it is dropped here.
func toRawRecords(list []any) []RawForecastRecord {
	records := make([]RawForecastRecord, 0, len(list))
	for _, el := range list {
		if obj, ok := el.(map[string]any); ok {
			records = append(records, RawForecastRecord(obj))
		}
	}
	return records
}
