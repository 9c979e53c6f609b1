package contacts

// DedupeKey returns the identity used to collapse duplicate entries: the
// primary email, else the profile picture URL, else the display name;
// first non-empty wins. Records that pass the HasName filter always produce
// a non-empty key.
func DedupeKey(c Contact) string {
	if c.PrimaryEmail != "" {
		return c.PrimaryEmail
	}
	if c.ProfilePicture != "" {
		return c.ProfilePicture
	}
	return c.Name
}

// Dedupe collapses entries sharing a DedupeKey, keeping the first
// occurrence's field values and preserving first-seen order. Providers that
// expose both a primary and a secondary contact list routinely overlap;
// this is where the overlap disappears.
func Dedupe(list []Contact) []Contact {
	seen := make(map[string]struct{}, len(list))
	out := make([]Contact, 0, len(list))
	for _, c := range list {
		key := DedupeKey(c)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, c)
	}
	return out
}
