package contacts

// Email is a labelled email address. Labels are open strings because
// providers invent their own ("home", "preferred", "account", ...).
type Email struct {
	Label   string `json:"label"`
	Address string `json:"address"`
}

// Phone is a labelled phone number. The label "main" is a derived
// convention marking a single unlabelled personal number, not a value any
// provider sends.
type Phone struct {
	Label  string `json:"label"`
	Number string `json:"number"`
}

// Address is a labelled postal address. Only Line1 is commonly present;
// everything else depends on how structured the provider's data was.
type Address struct {
	Label    string `json:"label"`
	Line1    string `json:"line1,omitempty"`
	Line2    string `json:"line2,omitempty"`
	City     string `json:"city,omitempty"`
	Region   string `json:"region,omitempty"`
	Country  string `json:"country,omitempty"`
	Postcode string `json:"postcode,omitempty"`
}

// Event is a labelled provider-specific date (anniversary, custom event).
type Event struct {
	Label string `json:"label"`
	Date  Date   `json:"date"`
}

// Contact is the provider-independent record all adapters populate.
// ID is the provider-native identifier and is opaque: it must not be
// compared across providers.
type Contact struct {
	ID             string    `json:"id,omitempty"`
	FirstName      string    `json:"first_name,omitempty"`
	LastName       string    `json:"last_name,omitempty"`
	Name           string    `json:"name,omitempty"`
	Emails         []Email   `json:"emails"`
	PrimaryEmail   string    `json:"primary_email,omitempty"`
	Gender         string    `json:"gender,omitempty"`
	Birthday       Date      `json:"birthday,omitzero"`
	ProfilePicture string    `json:"profile_picture,omitempty"`
	Relation       string    `json:"relation,omitempty"`
	Addresses      []Address `json:"addresses"`
	PhoneNumbers   []Phone   `json:"phone_numbers"`
	Dates          []Event   `json:"dates"`
	EmailHashes    []string  `json:"email_hashes,omitempty"`
	Company        string    `json:"company,omitempty"`
	Position       string    `json:"position,omitempty"`
}

// User is the authenticating account's own profile. It carries the
// credentials the pipeline uses for provider calls; the core never persists
// them.
type User struct {
	Contact
	AccessToken string `json:"access_token,omitempty"`
	TokenType   string `json:"token_type,omitempty"`
}

// NewContact returns a Contact with all sequence fields initialized to
// empty non-nil slices.
func NewContact() Contact {
	return Contact{
		Emails:       []Email{},
		Addresses:    []Address{},
		PhoneNumbers: []Phone{},
		Dates:        []Event{},
	}
}

// AddEmail appends a labelled email address, ignoring empty values, and
// records the first address added as the primary email.
func (c *Contact) AddEmail(label, address string) {
	if address == "" {
		return
	}
	c.Emails = append(c.Emails, Email{Label: label, Address: address})
	if c.PrimaryEmail == "" {
		c.PrimaryEmail = address
	}
}

// HasName reports whether the record carries any name at all. Unnamed
// records are placeholder rows some providers emit and are never part of an
// import result.
func (c *Contact) HasName() bool {
	return c.Name != "" || c.FirstName != ""
}
