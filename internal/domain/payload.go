package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ListingPayload is the autosaved submission body. The draft layer treats it
// as an opaque document except for the recognized fields below, which the
// duplicate-suppression policy and the publish remapping inspect by
// convention. Everything else the form sends survives round-trips in Extra.
type ListingPayload struct {
	Title         string         `json:"-"`
	Description   string         `json:"-"`
	Price         *float64       `json:"-"`
	Bedrooms      *float64       `json:"-"`
	Bathrooms     *float64       `json:"-"`
	Region        string         `json:"-"`
	City          string         `json:"-"`
	Location      string         `json:"-"`
	PropertyType  string         `json:"-"`
	LandSizeValue *float64       `json:"-"`
	LotSizeValue  *float64       `json:"-"`
	LandSizeUnit  string         `json:"-"`
	LotSizeUnit   string         `json:"-"`
	ListedByType  string         `json:"-"`
	OwnerEmail    string         `json:"-"`
	ContactEmail  string         `json:"-"`
	Images        []ListingImage `json:"-"`
	Extra         map[string]any `json:"-"`
}

// ListingImage is one entry of the payload's images array. Forms send either
// a bare URL string or an object with an explicit primary flag.
type ListingImage struct {
	URL       string `json:"url"`
	IsPrimary bool   `json:"is_primary"`
	SortOrder int    `json:"sort_order"`
}

// UnmarshalJSON accepts both "https://…" and {"url": …, "is_primary": …}.
func (i *ListingImage) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var url string
		if err := json.Unmarshal(data, &url); err != nil {
			return err
		}
		*i = ListingImage{URL: url}
		return nil
	}
	type alias ListingImage
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*i = ListingImage(a)
	return nil
}

// recognized payload keys, lifted out of the raw document on unmarshal
const (
	keyTitle         = "title"
	keyDescription   = "description"
	keyPrice         = "price"
	keyBedrooms      = "bedrooms"
	keyBathrooms     = "bathrooms"
	keyRegion        = "region"
	keyCity          = "city"
	keyLocation      = "location"
	keyPropertyType  = "property_type"
	keyLandSizeValue = "land_size_value"
	keyLotSizeValue  = "lot_size_value"
	keyLandSizeUnit  = "land_size_unit"
	keyLotSizeUnit   = "lot_size_unit"
	keyListedByType  = "listed_by_type"
	keyOwnerEmail    = "owner_email"
	keyContactEmail  = "contact_email"
	keyImages        = "images"
)

// UnmarshalJSON splits the document into recognized fields plus Extra.
// Unmarshaling is the sanitize pass: anything that is not plain JSON data
// cannot survive it.
func (p *ListingPayload) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	out := ListingPayload{}
	takeString := func(key string, dst *string) {
		if v, ok := raw[key]; ok {
			if json.Unmarshal(v, dst) == nil {
				delete(raw, key)
			}
		}
	}
	takeNumber := func(key string, dst **float64) {
		if v, ok := raw[key]; ok {
			var f float64
			if json.Unmarshal(v, &f) == nil {
				*dst = &f
				delete(raw, key)
				return
			}
			// forms occasionally send numbers as strings
			var s string
			if json.Unmarshal(v, &s) == nil {
				if parsed, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
					*dst = &parsed
					delete(raw, key)
				}
			}
		}
	}

	takeString(keyTitle, &out.Title)
	takeString(keyDescription, &out.Description)
	takeNumber(keyPrice, &out.Price)
	takeNumber(keyBedrooms, &out.Bedrooms)
	takeNumber(keyBathrooms, &out.Bathrooms)
	takeString(keyRegion, &out.Region)
	takeString(keyCity, &out.City)
	takeString(keyLocation, &out.Location)
	takeString(keyPropertyType, &out.PropertyType)
	takeNumber(keyLandSizeValue, &out.LandSizeValue)
	takeNumber(keyLotSizeValue, &out.LotSizeValue)
	takeString(keyLandSizeUnit, &out.LandSizeUnit)
	takeString(keyLotSizeUnit, &out.LotSizeUnit)
	takeString(keyListedByType, &out.ListedByType)
	takeString(keyOwnerEmail, &out.OwnerEmail)
	takeString(keyContactEmail, &out.ContactEmail)

	if v, ok := raw[keyImages]; ok {
		var images []ListingImage
		if json.Unmarshal(v, &images) == nil {
			out.Images = images
			delete(raw, keyImages)
		}
	}

	if len(raw) > 0 {
		out.Extra = make(map[string]any, len(raw))
		for k, v := range raw {
			var val any
			if err := json.Unmarshal(v, &val); err != nil {
				continue
			}
			out.Extra[k] = val
		}
	}

	*p = out
	return nil
}

// MarshalJSON re-merges recognized fields and Extra into one flat document.
func (p ListingPayload) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.AsMap())
}

// AsMap returns the payload as a flat document, recognized fields included.
// Absent optional fields are omitted, matching what the form submitted.
func (p *ListingPayload) AsMap() map[string]any {
	out := make(map[string]any, len(p.Extra)+17)
	for k, v := range p.Extra {
		out[k] = v
	}
	putString := func(key, v string) {
		if v != "" {
			out[key] = v
		}
	}
	putNumber := func(key string, v *float64) {
		if v != nil {
			out[key] = *v
		}
	}
	putString(keyTitle, p.Title)
	putString(keyDescription, p.Description)
	putNumber(keyPrice, p.Price)
	putNumber(keyBedrooms, p.Bedrooms)
	putNumber(keyBathrooms, p.Bathrooms)
	putString(keyRegion, p.Region)
	putString(keyCity, p.City)
	putString(keyLocation, p.Location)
	putString(keyPropertyType, p.PropertyType)
	putNumber(keyLandSizeValue, p.LandSizeValue)
	putNumber(keyLotSizeValue, p.LotSizeValue)
	putString(keyLandSizeUnit, p.LandSizeUnit)
	putString(keyLotSizeUnit, p.LotSizeUnit)
	putString(keyListedByType, p.ListedByType)
	putString(keyOwnerEmail, p.OwnerEmail)
	putString(keyContactEmail, p.ContactEmail)
	if len(p.Images) > 0 {
		out[keyImages] = p.Images
	}
	return out
}

// Clone deep-copies the payload through a serialize/deserialize pass.
func (p *ListingPayload) Clone() (*ListingPayload, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	var out ListingPayload
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Value implements driver.Valuer so the payload persists as a JSON column.
func (p ListingPayload) Value() (driver.Value, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner for the JSON column.
func (p *ListingPayload) Scan(value interface{}) error {
	if value == nil {
		*p = ListingPayload{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, p)
	case string:
		return json.Unmarshal([]byte(v), p)
	default:
		return errors.New("unsupported draft_data column type")
	}
}

// Summary builds the list-view one-liner: property type, location and price
// joined by " • ", skipping whatever is still blank.
func (p *ListingPayload) Summary(draftType string) string {
	var parts []string
	if p.PropertyType != "" {
		parts = append(parts, p.PropertyType)
	} else if draftType != "" {
		parts = append(parts, draftType)
	}
	if p.Location != "" {
		parts = append(parts, p.Location)
	} else if p.City != "" {
		parts = append(parts, p.City)
	} else if p.Region != "" {
		parts = append(parts, p.Region)
	}
	if p.Price != nil {
		parts = append(parts, "$"+formatPrice(*p.Price))
	}
	if len(parts) == 0 {
		return "Incomplete Draft"
	}
	return strings.Join(parts, " • ")
}

// formatPrice renders 250000 as "250,000"; fractional prices keep two digits.
func formatPrice(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if strings.Contains(s, ".") {
		s = fmt.Sprintf("%.2f", v)
	}
	intPart, frac, _ := strings.Cut(s, ".")
	neg := strings.HasPrefix(intPart, "-")
	if neg {
		intPart = intPart[1:]
	}
	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	out := b.String()
	if neg {
		out = "-" + out
	}
	if frac != "" {
		out += "." + frac
	}
	return out
}
