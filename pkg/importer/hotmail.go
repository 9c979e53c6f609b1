package importer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrymomot/omnicontacts/pkg/contacts"
)

const (
	hotmailAuthHost      = "login.live.com"
	hotmailAuthorizePath = "/oauth20_authorize.srf"
	hotmailTokenPath     = "/oauth20_token.srf"

	hotmailAPIHost       = "apis.live.net"
	hotmailContactsPath  = "/v5.0/me/contacts"
	hotmailSelfPath      = "/v5.0/me"
	hotmailPictureFormat = "https://apis.live.net/v5.0/%s/picture"

	hotmailDefaultScope = "wl.signin wl.basic wl.birthday wl.emails wl.contacts_birthday wl.contacts_photos"
)

// HotmailConfig holds the tunables of the Hotmail adapter.
type HotmailConfig struct {
	Scope string `env:"HOTMAIL_OAUTH_SCOPE"`
}

// Hotmail imports contacts through the Live API. A single list call is
// made per run. Emails, phones and addresses arrive keyed by label instead
// of as lists and are flattened through the shared label normalizer.
type Hotmail struct {
	transport Transport
	scope     string
}

// NewHotmail constructs the Hotmail adapter. A nil transport falls back to
// the default HTTP transport.
func NewHotmail(transport Transport, cfg HotmailConfig) *Hotmail {
	if transport == nil {
		transport = NewHTTPTransport(0)
	}
	if cfg.Scope == "" {
		cfg.Scope = hotmailDefaultScope
	}
	return &Hotmail{
		transport: transport,
		scope:     cfg.Scope,
	}
}

func (h *Hotmail) ProviderID() string { return "hotmail" }

func (h *Hotmail) Endpoints() Endpoints {
	return Endpoints{
		AuthHost:      hotmailAuthHost,
		AuthorizePath: hotmailAuthorizePath,
		TokenPath:     hotmailTokenPath,
	}
}

func (h *Hotmail) Scope() string { return h.scope }

// FetchProfile maps the /me endpoint into a canonical user. The profile
// picture is synthesized from the user id, never taken from the payload.
func (h *Hotmail) FetchProfile(ctx context.Context, accessToken, tokenType string) (*contacts.User, error) {
	body, err := h.transport.Get(ctx, hotmailAPIHost, hotmailSelfPath, nil, authHeader(tokenType, accessToken))
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}

	var raw hotmailProfile
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, errors.Join(ErrMalformedResponse, err)
	}

	user := &contacts.User{
		Contact:     contacts.NewContact(),
		AccessToken: accessToken,
		TokenType:   tokenType,
	}
	user.ID = raw.ID
	user.FirstName = contacts.NormalizeName(raw.FirstName)
	user.LastName = contacts.NormalizeName(raw.LastName)
	user.Name = contacts.NormalizeName(raw.Name)
	if user.Name == "" {
		user.Name = contacts.FullName(user.FirstName, user.LastName)
	}
	user.Gender = raw.Gender
	user.Birthday = contacts.DateOf(intOrZero(raw.BirthYear), intOrZero(raw.BirthMonth), intOrZero(raw.BirthDay))
	user.ProfilePicture = hotmailPictureURL(raw.ID)
	if raw.Emails != nil {
		user.AddEmail("account", raw.Emails.Account)
	}
	return user, nil
}

// FetchContacts issues the single list call and normalizes each entry. The
// "data" container is strictly required; its absence means the response is
// not a contacts list at all.
func (h *Hotmail) FetchContacts(ctx context.Context, accessToken, tokenType string) ([]contacts.Contact, error) {
	body, err := h.transport.Get(ctx, hotmailAPIHost, hotmailContactsPath, nil, authHeader(tokenType, accessToken))
	if err != nil {
		return nil, err
	}

	var resp struct {
		Data []hotmailEntry `json:"data"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, errors.Join(ErrMalformedResponse, err)
	}
	if resp.Data == nil {
		return nil, fmt.Errorf("%w: missing data container", ErrMalformedResponse)
	}

	out := make([]contacts.Contact, 0, len(resp.Data))
	for _, entry := range resp.Data {
		if c, ok := h.normalize(entry); ok {
			out = append(out, c)
		}
	}
	return out, nil
}

// normalize maps one Live API entry into a canonical contact. When the
// provider's name field is itself an email address, first/last/display name
// are derived from its local part instead of trusting the literal string.
func (h *Hotmail) normalize(entry hotmailEntry) (contacts.Contact, bool) {
	c := contacts.NewContact()
	c.ID = entry.UserID
	if c.ID == "" {
		c.ID = entry.ID
	}

	preferred := ""
	if entry.Emails != nil {
		preferred = entry.Emails.Preferred
	}

	if contacts.IsEmailAddress(entry.Name) {
		if preferred == "" {
			preferred = entry.Name
		}
		c.FirstName, c.LastName, c.Name = contacts.EmailToName(preferred)
	} else {
		c.FirstName = contacts.NormalizeName(entry.FirstName)
		c.LastName = contacts.NormalizeName(entry.LastName)
		c.Name = contacts.NormalizeName(entry.Name)
		if c.Name == "" {
			c.Name = contacts.FullName(c.FirstName, c.LastName)
		}
	}

	c.Birthday = contacts.DateOf(intOrZero(entry.BirthYear), intOrZero(entry.BirthMonth), intOrZero(entry.BirthDay))
	c.Gender = entry.Gender
	c.ProfilePicture = hotmailPictureURL(entry.UserID)
	c.EmailHashes = entry.EmailHashes

	if entry.Emails != nil {
		for _, p := range contacts.FlattenLabeled(entry.Emails.labeled()) {
			c.AddEmail(p.Label, p.Value)
		}
	}
	if c.PrimaryEmail == "" && preferred != "" {
		// Name-as-email with no emails map: adopt the derived address.
		c.AddEmail("account", preferred)
	}

	if entry.Phones != nil {
		for _, p := range contacts.FlattenLabeled(entry.Phones.labeled()) {
			c.PhoneNumbers = append(c.PhoneNumbers, contacts.Phone{Label: p.Label, Number: p.Value})
		}
	}

	for _, la := range entry.Addresses.labeled() {
		a := la.addr
		addr := contacts.Address{Label: la.label}
		addr.Line1, addr.Line2 = contacts.SplitAddressLines(a.Street)
		if addr.Line2 == "" {
			addr.Line2 = a.Street2
		}
		addr.City = a.City
		addr.Region = a.State
		// Live puts the country under "region".
		addr.Country = a.Region
		addr.Postcode = a.PostalCode
		c.Addresses = append(c.Addresses, addr)
	}

	return c, c.HasName()
}

func hotmailPictureURL(id string) string {
	if id == "" {
		return ""
	}
	return fmt.Sprintf(hotmailPictureFormat, id)
}

func intOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

type hotmailProfile struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	FirstName  string         `json:"first_name"`
	LastName   string         `json:"last_name"`
	Gender     string         `json:"gender"`
	Emails     *hotmailEmails `json:"emails"`
	BirthDay   *int           `json:"birth_day"`
	BirthMonth *int           `json:"birth_month"`
	BirthYear  *int           `json:"birth_year"`
}

type hotmailEntry struct {
	ID          string            `json:"id"`
	UserID      string            `json:"user_id"`
	Name        string            `json:"name"`
	FirstName   string            `json:"first_name"`
	LastName    string            `json:"last_name"`
	Gender      string            `json:"gender"`
	Emails      *hotmailEmails    `json:"emails"`
	Phones      *hotmailPhones    `json:"phones"`
	Addresses   *hotmailAddresses `json:"addresses"`
	EmailHashes []string          `json:"email_hashes"`
	BirthDay    *int              `json:"birth_day"`
	BirthMonth  *int              `json:"birth_month"`
	BirthYear   *int              `json:"birth_year"`
}

// Labelled maps arrive as fixed-key objects; flattening walks the keys in
// the provider's documented order so canonical sequences stay deterministic.

type hotmailEmails struct {
	Preferred string `json:"preferred"`
	Account   string `json:"account"`
	Personal  string `json:"personal"`
	Business  string `json:"business"`
	Other     string `json:"other"`
}

func (e *hotmailEmails) labeled() []contacts.Labeled {
	return []contacts.Labeled{
		{Label: "preferred", Value: e.Preferred},
		{Label: "account", Value: e.Account},
		{Label: "personal", Value: e.Personal},
		{Label: "business", Value: e.Business},
		{Label: "other", Value: e.Other},
	}
}

type hotmailPhones struct {
	Personal string `json:"personal"`
	Business string `json:"business"`
	Mobile   string `json:"mobile"`
}

func (p *hotmailPhones) labeled() []contacts.Labeled {
	return []contacts.Labeled{
		{Label: "personal", Value: p.Personal},
		{Label: "business", Value: p.Business},
		{Label: "mobile", Value: p.Mobile},
	}
}

type hotmailAddress struct {
	Street     string `json:"street"`
	Street2    string `json:"street_2"`
	City       string `json:"city"`
	State      string `json:"state"`
	Region     string `json:"region"`
	PostalCode string `json:"postal_code"`
}

type hotmailAddresses struct {
	Personal *hotmailAddress `json:"personal"`
	Business *hotmailAddress `json:"business"`
}

type labeledAddress struct {
	label string
	addr  *hotmailAddress
}

func (a *hotmailAddresses) labeled() []labeledAddress {
	if a == nil {
		return nil
	}
	out := make([]labeledAddress, 0, 2)
	if a.Personal != nil {
		out = append(out, labeledAddress{label: "personal", addr: a.Personal})
	}
	if a.Business != nil {
		out = append(out, labeledAddress{label: "business", addr: a.Business})
	}
	return out
}

var _ ProviderAdapter = (*Hotmail)(nil)
