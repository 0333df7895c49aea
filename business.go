package mapscan

// Unspecified is the canonical placeholder for fields that cannot be
// determined from markup and have no override.
const Unspecified = "unspecified"

// Business represents one extracted business listing.
//
// After ApplyDefaults every string field is populated (with Unspecified
// where nothing better is known) and Name is non-empty. Rating is the one
// field allowed to stay absent: a nil pointer means no parseable rating
// was present.
type Business struct {
	Name        string   `json:"name"`
	Rating      *float64 `json:"rating"`
	ReviewCount int      `json:"reviewCount"`
	Category    string   `json:"category"`
	Address     string   `json:"address"`
	City        string   `json:"city"`
	Phone       string   `json:"phone"`
	Website     string   `json:"website"`
	OpenStatus  string   `json:"openStatus"`
}

// Validate returns an error if the business contains invalid fields.
func (b *Business) Validate() error {
	if b.Name == "" {
		return Errorf(EINVALID, "business name required")
	}
	return nil
}

// Overrides carries caller-supplied values that unconditionally replace
// the corresponding field for every record in a batch. It is scoped to a
// single batch run and threaded explicitly through the call chain, never
// carried as ambient state.
type Overrides struct {
	// City, if set, replaces any inferred or absent city.
	City string

	// Category, if set, replaces the category. The category is never
	// inferred from markup, so without an override it stays Unspecified.
	Category string
}

// ApplyDefaults fills missing optional fields with the Unspecified
// placeholder and applies overrides. Overrides win over anything inferred
// from markup.
func (b *Business) ApplyDefaults(ov Overrides) {
	if ov.Category != "" {
		b.Category = ov.Category
	} else if b.Category == "" {
		b.Category = Unspecified
	}

	if ov.City != "" {
		b.City = ov.City
	} else if b.City == "" {
		b.City = Unspecified
	}

	if b.Address == "" {
		b.Address = Unspecified
	}
	if b.Phone == "" {
		b.Phone = Unspecified
	}
	if b.Website == "" {
		b.Website = Unspecified
	}
	if b.OpenStatus == "" {
		b.OpenStatus = Unspecified
	}
}
