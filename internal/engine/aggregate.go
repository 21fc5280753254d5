package engine

// Aggregate deduplicates and finalizes one document's records. Non-NA
// records with an identical (request_type, sub_request_type) pair collapse
// to the first occurrence, preserving its extraction. Among the survivors
// the strictly highest confidence becomes primary, earliest first on ties.
// When every record is NA (or the input is empty) a single NA sentinel
// record is returned with is_primary set. Idempotent.
func Aggregate(records []Record) []Record {
	type key struct{ requestType, subType string }

	out := make([]Record, 0, len(records))
	seen := make(map[key]bool, len(records))

	for _, r := range records {
		r.IsPrimary = false
		if r.RequestType != TypeNA {
			k := key{r.RequestType, r.SubRequestType}
			if seen[k] {
				continue
			}
			seen[k] = true
		}
		out = append(out, r)
	}

	primary := -1
	for i, r := range out {
		if r.RequestType == TypeNA {
			continue
		}
		if primary == -1 || r.Confidence > out[primary].Confidence {
			primary = i
		}
	}

	if primary == -1 {
		sentinel := naRecord("No meaningful content found.")
		if len(out) > 0 {
			sentinel = out[0]
		}
		sentinel.IsPrimary = true
		return []Record{sentinel}
	}

	out[primary].IsPrimary = true
	return out
}
