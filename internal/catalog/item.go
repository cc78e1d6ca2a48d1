package catalog

// Item is one flattened, numbered catalog entry. IDs and SKUs are positional
// and only meaningful within a single build.
type Item struct {
	ID          int     `json:"id" yaml:"id"`
	SKU         string  `json:"sku" yaml:"sku"`
	Name        string  `json:"name" yaml:"name"`
	Subtitle    string  `json:"subtitle,omitempty" yaml:"subtitle,omitempty"`
	IsBase      bool    `json:"isBase" yaml:"isBase"`
	BaseID      string  `json:"baseId" yaml:"baseId"`
	ImageURL    string  `json:"imageUrl,omitempty" yaml:"imageUrl,omitempty"`
	Price       float64 `json:"price" yaml:"price"`
	Audience    string  `json:"audience,omitempty" yaml:"audience,omitempty"`
	Purpose     string  `json:"purpose,omitempty" yaml:"purpose,omitempty"`
	Material    string  `json:"material,omitempty" yaml:"material,omitempty"`
	Color       string  `json:"color,omitempty" yaml:"color,omitempty"`
	PriceBand   string  `json:"priceBand,omitempty" yaml:"priceBand,omitempty"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
}

// Response is the body of the catalog endpoints.
type Response struct {
	Items []Item `json:"items" yaml:"items"`
}

// Report counts what a build kept and what it dropped. It never changes the
// build output; it exists so skipped records are visible in logs and metrics.
type Report struct {
	Bases      int `json:"bases"`
	Variations int `json:"variations"`

	FilesScanned int  `json:"filesScanned"`
	FilesIgnored int  `json:"filesIgnored"`
	ScanFailed   bool `json:"scanFailed"`

	// Inferred variations whose base id has no base product.
	UnknownBase int `json:"unknownBase"`
	// Variations that could not be matched to a base when emitting.
	Unresolved int `json:"unresolved"`
	// Variations replaced by a later record with the same key.
	Replaced int `json:"replaced"`
}

// Skipped is the number of variation records that did not make it into the
// output for lack of a base product.
func (r Report) Skipped() int {
	return r.UnknownBase + r.Unresolved
}
