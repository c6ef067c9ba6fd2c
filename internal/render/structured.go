package render

import (
	"bytes"
	"encoding/json"
	"strings"

	"beginnings/internal/page"
	"beginnings/internal/site"
)

// StructuredDataOptions holds the fixed metadata stamped on every location.
type StructuredDataOptions struct {
	BaseURL      string
	Type         string
	OpeningHours string
	PriceRange   string
	AreaServed   string
	Credential   string
	Country      string
}

func (o StructuredDataOptions) withDefaults() StructuredDataOptions {
	if o.BaseURL == "" {
		o.BaseURL = "https://beginningsschools.org"
	}
	o.BaseURL = strings.TrimRight(o.BaseURL, "/")
	if o.Type == "" {
		o.Type = "ChildCare"
	}
	if o.OpeningHours == "" {
		o.OpeningHours = "Mo-Fr 07:00-18:00"
	}
	if o.PriceRange == "" {
		o.PriceRange = "$$"
	}
	if o.AreaServed == "" {
		o.AreaServed = "Seattle"
	}
	if o.Credential == "" {
		o.Credential = "NAEYC Accreditation"
	}
	if o.Country == "" {
		o.Country = "US"
	}
	return o
}

// LocationDocument is the schema.org description of one location.
type LocationDocument struct {
	Context       string        `json:"@context"`
	Type          string        `json:"@type"`
	Name          string        `json:"name"`
	Description   string        `json:"description"`
	Address       PostalAddress `json:"address"`
	Telephone     string        `json:"telephone"`
	Email         string        `json:"email"`
	URL           string        `json:"url"`
	OpeningHours  string        `json:"openingHours"`
	PriceRange    string        `json:"priceRange"`
	AreaServed    Place         `json:"areaServed"`
	HasCredential Credential    `json:"hasCredential"`
}

type PostalAddress struct {
	Type            string `json:"@type"`
	StreetAddress   string `json:"streetAddress"`
	AddressLocality string `json:"addressLocality"`
	AddressRegion   string `json:"addressRegion"`
	PostalCode      string `json:"postalCode"`
	AddressCountry  string `json:"addressCountry"`
}

type Place struct {
	Type string `json:"@type"`
	Name string `json:"name"`
}

type Credential struct {
	Type               string `json:"@type"`
	CredentialCategory string `json:"credentialCategory"`
}

func (r *Renderer) locationDocument(loc site.Location) LocationDocument {
	return LocationDocument{
		Context:     "https://schema.org",
		Type:        r.ld.Type,
		Name:        loc.FullName,
		Description: loc.Description,
		Address: PostalAddress{
			Type:            "PostalAddress",
			StreetAddress:   loc.Address.Street,
			AddressLocality: loc.Address.City,
			AddressRegion:   loc.Address.State,
			PostalCode:      loc.Address.Zip,
			AddressCountry:  r.ld.Country,
		},
		Telephone:    loc.Phone,
		Email:        loc.Email,
		URL:          r.ld.BaseURL + "/locations/" + loc.ID,
		OpeningHours: r.ld.OpeningHours,
		PriceRange:   r.ld.PriceRange,
		AreaServed:   Place{Type: "City", Name: r.ld.AreaServed},
		HasCredential: Credential{
			Type:               "EducationalOccupationalCredential",
			CredentialCategory: r.ld.Credential,
		},
	}
}

// LocationDocuments returns one document per configured location, in
// configuration order. It returns nil before configuration is loaded.
func (r *Renderer) LocationDocuments(sc *site.Context) []LocationDocument {
	if sc == nil {
		return nil
	}
	var docs []LocationDocument
	sc.Config.Locations.Each(func(_ string, loc site.Location) {
		docs = append(docs, r.locationDocument(loc))
	})
	return docs
}

// scriptBlock serializes doc with HTML escaping so the JSON cannot close the
// surrounding script element.
func scriptBlock(doc LocationDocument) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(true)
	if err := enc.Encode(doc); err != nil {
		return "", err
	}
	return `<script type="application/ld+json">` + strings.TrimSpace(buf.String()) + `</script>`, nil
}

// StructuredData appends one JSON-LD script block per location to <head>.
func (r *Renderer) StructuredData(sc *site.Context, doc *page.Document) Outcome {
	out := Outcome{Widget: WidgetStructuredData, Status: StatusNoData}
	docs := r.LocationDocuments(sc)
	if len(docs) == 0 {
		return out
	}
	blocks := make([]string, 0, len(docs))
	for _, d := range docs {
		b, err := scriptBlock(d)
		if err != nil {
			r.logger.Error("render.structured_data", "err", err)
			out.Status = StatusFailed
			return out
		}
		blocks = append(blocks, b)
	}
	for _, b := range blocks {
		if !doc.AppendHead(b) {
			out.Status = StatusMissingContainer
			return out
		}
	}
	out.Status = StatusRendered
	out.Sections = len(blocks)
	return out
}
