package importer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/dmitrymomot/omnicontacts/pkg/contacts"
)

const (
	gmailAuthHost      = "accounts.google.com"
	gmailAuthorizePath = "/o/oauth2/auth"
	gmailTokenPath     = "/o/oauth2/token"

	gmailPeopleHost        = "people.googleapis.com"
	gmailConnectionsPath   = "/v1/people/me/connections"
	gmailOtherContactsPath = "/v1/otherContacts"

	gmailProfileHost = "www.googleapis.com"
	gmailProfilePath = "/oauth2/v3/userinfo"

	gmailPersonFields = "names,emailAddresses,birthdays,genders,relations,addresses,phoneNumbers,events,calendarUrls,organizations"
	gmailOtherMask    = "names,emailAddresses,phoneNumbers"

	gmailDefaultScope = "https://www.googleapis.com/auth/contacts.readonly " +
		"https://www.googleapis.com/auth/contacts.other.readonly " +
		"https://www.googleapis.com/auth/userinfo.email " +
		"https://www.googleapis.com/auth/userinfo.profile"

	gmailDefaultPageSize = 100
)

// GmailConfig holds the tunables of the Gmail adapter. Client credentials
// live in FlowConfig, not here: the adapter only declares endpoints, scope
// and mapping behavior.
type GmailConfig struct {
	Scope    string `env:"GMAIL_OAUTH_SCOPE"`
	PageSize int    `env:"GMAIL_PAGE_SIZE" envDefault:"100"`
}

// Gmail imports contacts through the Google People API. Two list calls are
// made per run, the "connections" list and the "other contacts" list, and
// the secondary results are appended to the primary ones before
// normalization so both are mapped uniformly.
type Gmail struct {
	transport Transport
	scope     string
	pageSize  int
}

// NewGmail constructs the Gmail adapter. A nil transport falls back to the
// default HTTP transport; a zero page size falls back to 100.
func NewGmail(transport Transport, cfg GmailConfig) *Gmail {
	if transport == nil {
		transport = NewHTTPTransport(0)
	}
	if cfg.Scope == "" {
		cfg.Scope = gmailDefaultScope
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = gmailDefaultPageSize
	}
	return &Gmail{
		transport: transport,
		scope:     cfg.Scope,
		pageSize:  cfg.PageSize,
	}
}

func (g *Gmail) ProviderID() string { return "gmail" }

func (g *Gmail) Endpoints() Endpoints {
	return Endpoints{
		AuthHost:      gmailAuthHost,
		AuthorizePath: gmailAuthorizePath,
		TokenPath:     gmailTokenPath,
	}
}

func (g *Gmail) Scope() string { return g.scope }

// FetchProfile maps the userinfo endpoint into a canonical user. Google
// omits most of these fields under reduced scope grants; whatever is absent
// simply stays empty.
func (g *Gmail) FetchProfile(ctx context.Context, accessToken, tokenType string) (*contacts.User, error) {
	body, err := g.transport.Get(ctx, gmailProfileHost, gmailProfilePath, nil, authHeader(tokenType, accessToken))
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}

	var raw gmailProfile
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, errors.Join(ErrMalformedResponse, err)
	}

	user := &contacts.User{
		Contact:     contacts.NewContact(),
		AccessToken: accessToken,
		TokenType:   tokenType,
	}
	user.ID = raw.ID
	if user.ID == "" {
		user.ID = raw.Sub
	}
	user.FirstName = contacts.NormalizeName(raw.GivenName)
	user.LastName = contacts.NormalizeName(raw.FamilyName)
	user.Name = contacts.NormalizeName(raw.Name)
	if user.Name == "" {
		user.Name = contacts.FullName(user.FirstName, user.LastName)
	}
	user.Gender = raw.Gender
	user.Birthday = contacts.ParseDate(raw.Birthday)
	user.ProfilePicture = raw.Picture
	user.AddEmail("account", raw.Email)
	return user, nil
}

// FetchContacts merges the connections and other-contacts lists and
// normalizes the concatenation. An absent "connections" container means an
// empty primary list; an absent "otherContacts" container is malformed,
// since that call's whole purpose is the container.
func (g *Gmail) FetchContacts(ctx context.Context, accessToken, tokenType string) ([]contacts.Contact, error) {
	header := authHeader(tokenType, accessToken)
	header.Set("GData-Version", "3.0")

	body, err := g.transport.Get(ctx, gmailPeopleHost, gmailConnectionsPath, g.connectionsParams(), header)
	if err != nil {
		return nil, err
	}
	var primary struct {
		Connections []gmailPerson `json:"connections"`
	}
	if err := json.Unmarshal(body, &primary); err != nil {
		return nil, errors.Join(ErrMalformedResponse, err)
	}

	body, err = g.transport.Get(ctx, gmailPeopleHost, gmailOtherContactsPath, g.otherContactsParams(), header)
	if err != nil {
		return nil, err
	}
	var secondary struct {
		OtherContacts []gmailPerson `json:"otherContacts"`
	}
	if err := json.Unmarshal(body, &secondary); err != nil {
		return nil, errors.Join(ErrMalformedResponse, err)
	}
	if secondary.OtherContacts == nil {
		return nil, fmt.Errorf("%w: missing otherContacts container", ErrMalformedResponse)
	}

	entries := append(primary.Connections, secondary.OtherContacts...)
	out := make([]contacts.Contact, 0, len(entries))
	for _, entry := range entries {
		if c, ok := g.normalize(entry); ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (g *Gmail) connectionsParams() url.Values {
	return url.Values{
		"pageSize":     {strconv.Itoa(g.pageSize)},
		"personFields": {gmailPersonFields},
		"sources":      {"READ_SOURCE_TYPE_CONTACT"},
		"alt":          {"json"},
	}
}

func (g *Gmail) otherContactsParams() url.Values {
	return url.Values{
		"pageSize": {strconv.Itoa(g.pageSize)},
		"readMask": {gmailOtherMask},
	}
}

// normalize maps one People API person into a canonical contact. Every
// field is optional-safe: absence leaves the canonical field empty. Records
// without any name are placeholder rows and are dropped, not reported.
func (g *Gmail) normalize(entry gmailPerson) (contacts.Contact, bool) {
	c := contacts.NewContact()
	c.ID = entry.ResourceName

	if len(entry.Names) > 0 {
		n := entry.Names[0]
		c.FirstName = contacts.NormalizeName(n.GivenName)
		c.LastName = contacts.NormalizeName(n.FamilyName)
		// The first structured name wins; an unstructured name is used
		// verbatim only when present.
		if un := contacts.NormalizeName(n.UnstructuredName); un != "" {
			c.Name = un
		} else {
			c.Name = contacts.FullName(c.FirstName, c.LastName)
		}
	}

	for _, e := range entry.EmailAddresses {
		c.AddEmail(typeOrOther(e.FormattedType), e.Value)
	}

	if len(entry.Birthdays) > 0 {
		b := entry.Birthdays[0]
		c.Birthday = contacts.ParseDate(b.Text)
		if c.Birthday.IsZero() && b.Date != nil {
			c.Birthday = contacts.DateOf(b.Date.Year, b.Date.Month, b.Date.Day)
		}
	}

	if len(entry.Genders) > 0 {
		c.Gender = entry.Genders[0].FormattedValue
	}
	if len(entry.Relations) > 0 {
		c.Relation = entry.Relations[0].Type
	}

	for _, a := range entry.Addresses {
		addr := contacts.Address{Label: typeOrOther(a.FormattedType)}
		line := a.StreetAddress
		if line == "" {
			line = a.FormattedValue
		}
		addr.Line1, addr.Line2 = contacts.SplitAddressLines(line)
		if addr.Line2 == "" {
			addr.Line2 = a.ExtendedAddress
		}
		addr.City = a.City
		addr.Region = a.Region
		addr.Country = a.CountryCode
		addr.Postcode = a.PostalCode
		c.Addresses = append(c.Addresses, addr)
	}

	if len(entry.Organizations) > 0 {
		c.Company = entry.Organizations[0].Name
		c.Position = entry.Organizations[0].Title
	}

	for _, p := range entry.PhoneNumbers {
		c.PhoneNumbers = append(c.PhoneNumbers, contacts.Phone{
			Label:  typeOrOther(p.FormattedType),
			Number: p.Value,
		})
	}
	promoteMainPhone(&c)

	for _, e := range entry.Events {
		ev := contacts.Event{Label: typeOrOther(e.FormattedType)}
		if e.Date != nil {
			ev.Date = contacts.DateOf(e.Date.Year, e.Date.Month, e.Date.Day)
		}
		c.Dates = append(c.Dates, ev)
	}

	return c, c.HasName()
}

// promoteMainPhone marks a single unlabelled personal number as primary:
// when the contact has no company and every phone label is "other", the
// first phone's label becomes "main".
func promoteMainPhone(c *contacts.Contact) {
	if c.Company != "" || len(c.PhoneNumbers) == 0 {
		return
	}
	for _, p := range c.PhoneNumbers {
		if p.Label != "other" {
			return
		}
	}
	c.PhoneNumbers[0].Label = "main"
}

type gmailProfile struct {
	ID         string `json:"id"`
	Sub        string `json:"sub"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
	Gender     string `json:"gender"`
	Birthday   string `json:"birthday"`
	Picture    string `json:"picture"`
}

type gmailPerson struct {
	ResourceName string `json:"resourceName"`
	Names        []struct {
		GivenName        string `json:"givenName"`
		FamilyName       string `json:"familyName"`
		UnstructuredName string `json:"unstructuredName"`
	} `json:"names"`
	EmailAddresses []gmailTypedValue `json:"emailAddresses"`
	Birthdays      []struct {
		Text string     `json:"text"`
		Date *gmailDate `json:"date"`
	} `json:"birthdays"`
	Genders []struct {
		FormattedValue string `json:"formattedValue"`
	} `json:"genders"`
	Relations []struct {
		Type string `json:"type"`
	} `json:"relations"`
	Addresses []struct {
		FormattedType   string `json:"formattedType"`
		FormattedValue  string `json:"formattedValue"`
		StreetAddress   string `json:"streetAddress"`
		ExtendedAddress string `json:"extendedAddress"`
		City            string `json:"city"`
		Region          string `json:"region"`
		CountryCode     string `json:"countryCode"`
		PostalCode      string `json:"postalCode"`
	} `json:"addresses"`
	PhoneNumbers []gmailTypedValue `json:"phoneNumbers"`
	Events       []struct {
		FormattedType string     `json:"formattedType"`
		Date          *gmailDate `json:"date"`
	} `json:"events"`
	Organizations []struct {
		Name  string `json:"name"`
		Title string `json:"title"`
	} `json:"organizations"`
}

type gmailTypedValue struct {
	FormattedType string `json:"formattedType"`
	Value         string `json:"value"`
}

type gmailDate struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

var _ ProviderAdapter = (*Gmail)(nil)
