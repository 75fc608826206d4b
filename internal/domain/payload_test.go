package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func num(v float64) *float64 { return &v }

func TestListingPayloadUnmarshalSplitsKnownAndExtra(t *testing.T) {
	raw := `{
		"title": "Lot 5 Sale",
		"price": 250000,
		"bedrooms": 3,
		"region": "Demerara-Mahaica",
		"property_type": "House",
		"has_pool": true,
		"amenities": ["garage", "fence"]
	}`

	var p ListingPayload
	err := json.Unmarshal([]byte(raw), &p)

	assert.NoError(t, err)
	assert.Equal(t, "Lot 5 Sale", p.Title)
	assert.Equal(t, num(250000), p.Price)
	assert.Equal(t, num(3), p.Bedrooms)
	assert.Equal(t, "House", p.PropertyType)
	assert.Equal(t, true, p.Extra["has_pool"])
	assert.Contains(t, p.Extra, "amenities")
	assert.NotContains(t, p.Extra, "price")
}

func TestListingPayloadRoundTripKeepsUnknownKeys(t *testing.T) {
	raw := `{"price": 100, "custom_field": "kept", "nested": {"a": 1}}`

	var p ListingPayload
	assert.NoError(t, json.Unmarshal([]byte(raw), &p))

	out, err := json.Marshal(p)
	assert.NoError(t, err)

	var back map[string]any
	assert.NoError(t, json.Unmarshal(out, &back))
	assert.Equal(t, float64(100), back["price"])
	assert.Equal(t, "kept", back["custom_field"])
	assert.Equal(t, map[string]any{"a": float64(1)}, back["nested"])
}

func TestListingPayloadNumbersAsStrings(t *testing.T) {
	raw := `{"price": "250000", "bedrooms": " 3 "}`

	var p ListingPayload
	assert.NoError(t, json.Unmarshal([]byte(raw), &p))
	assert.Equal(t, num(250000), p.Price)
	assert.Equal(t, num(3), p.Bedrooms)
}

func TestListingImageAcceptsStringAndObject(t *testing.T) {
	raw := `{"images": ["https://cdn/a.jpg", {"url": "https://cdn/b.jpg", "is_primary": true}]}`

	var p ListingPayload
	assert.NoError(t, json.Unmarshal([]byte(raw), &p))
	assert.Len(t, p.Images, 2)
	assert.Equal(t, "https://cdn/a.jpg", p.Images[0].URL)
	assert.False(t, p.Images[0].IsPrimary)
	assert.Equal(t, "https://cdn/b.jpg", p.Images[1].URL)
	assert.True(t, p.Images[1].IsPrimary)
}

func TestListingPayloadScanValue(t *testing.T) {
	p := ListingPayload{
		Price:  num(99000),
		Region: "Berbice",
		Extra:  map[string]any{"note": "corner lot"},
	}

	v, err := p.Value()
	assert.NoError(t, err)

	var back ListingPayload
	assert.NoError(t, back.Scan(v))
	assert.Equal(t, p.Price, back.Price)
	assert.Equal(t, "Berbice", back.Region)
	assert.Equal(t, "corner lot", back.Extra["note"])
}

func TestListingPayloadScanNil(t *testing.T) {
	var p ListingPayload
	assert.NoError(t, p.Scan(nil))
	assert.Nil(t, p.Price)
}

func TestSummaryDerivation(t *testing.T) {
	tests := []struct {
		name      string
		payload   ListingPayload
		draftType string
		want      string
	}{
		{
			"full payload",
			ListingPayload{PropertyType: "House", Location: "Georgetown", Price: num(250000)},
			"sale",
			"House • Georgetown • $250,000",
		},
		{
			"city fallback",
			ListingPayload{City: "Linden", Price: num(1500.50)},
			"rent",
			"rent • Linden • $1,500.50",
		},
		{
			"region fallback",
			ListingPayload{PropertyType: "Land", Region: "Berbice"},
			"sale",
			"Land • Berbice",
		},
		{
			"nothing usable",
			ListingPayload{},
			"",
			"Incomplete Draft",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.payload.Summary(tt.draftType))
		})
	}
}

func TestCloneIsDeep(t *testing.T) {
	p := ListingPayload{
		Price: num(100),
		Extra: map[string]any{"k": "v"},
	}

	clone, err := p.Clone()
	assert.NoError(t, err)

	*clone.Price = 999
	clone.Extra["k"] = "changed"

	assert.Equal(t, float64(100), *p.Price)
	assert.Equal(t, "v", p.Extra["k"])
}
