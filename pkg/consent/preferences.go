package consent

// AcceptAll grants every optional category. Essential categories are left
// out because they never need consent.
func AcceptAll(m Manifest) Record {
	return markOptional(m, Granted)
}

// RejectAll denies every optional category.
func RejectAll(m Manifest) Record {
	return markOptional(m, Denied)
}

func markOptional(m Manifest, marker string) Record {
	rec := make(Record, len(m))
	for _, c := range m.Optional() {
		if _, seen := rec[c.Name]; seen {
			continue
		}
		rec[c.Name] = marker
	}
	return rec
}

// FromSelections builds a record from exactly the submitted form groups.
// Categories absent from the form are omitted, not defaulted.
func FromSelections(selections map[string]string) Record {
	rec := make(Record, len(selections))
	for k, v := range selections {
		rec[k] = v
	}
	return rec
}
