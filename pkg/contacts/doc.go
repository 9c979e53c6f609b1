// Package contacts defines the canonical contact schema that every provider
// importer normalizes into, together with the shared pure helpers used during
// normalization (name handling, partial calendar dates, address line
// splitting, label→value flattening) and deduplication.
//
// The canonical record is the contract between provider adapters and the
// caller: adapters populate it, the import pipeline deduplicates it, and the
// caller persists or discards it. Records are created fresh per import run
// and carry no durable state.
//
// Sequence fields (Emails, Addresses, PhoneNumbers, Dates) are always
// non-nil on records built via NewContact, so consumers never need presence
// checks:
//
//	c := contacts.NewContact()
//	c.AddEmail("home", "a@example.com")
//	for _, e := range c.Emails { ... } // safe even when empty
package contacts
