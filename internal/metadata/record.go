package metadata

import "strings"

// Attributes holds the inheritable product fields. A nil field means the
// value was not authored and should be taken from the base product.
type Attributes struct {
	Audience    *string  `yaml:"audience,omitempty" json:"audience,omitempty"`
	Purpose     *string  `yaml:"purpose,omitempty" json:"purpose,omitempty"`
	Material    *string  `yaml:"material,omitempty" json:"material,omitempty"`
	Color       *string  `yaml:"color,omitempty" json:"color,omitempty"`
	PriceBand   *string  `yaml:"priceBand,omitempty" json:"priceBand,omitempty"`
	Price       *float64 `yaml:"price,omitempty" json:"price,omitempty"`
	Model       *string  `yaml:"model,omitempty" json:"model,omitempty"`
	Description *string  `yaml:"description,omitempty" json:"description,omitempty"`
	ImageURL    *string  `yaml:"imageUrl,omitempty" json:"imageUrl,omitempty"`
}

// Record is one entry of the metadata store: either a base product
// ("Base_NN") or an explicit variation ("Var_NN_K").
type Record struct {
	ID     string  `yaml:"id" json:"id"`
	IsBase *bool   `yaml:"isBase,omitempty" json:"isBase,omitempty"`
	BaseID string  `yaml:"baseId,omitempty" json:"baseId,omitempty"`
	Name   *string `yaml:"name,omitempty" json:"name,omitempty"`

	Attributes `yaml:",inline"`
}

const (
	BasePrefix      = "Base_"
	VariationPrefix = "Var_"
)

// IsBaseProduct reports whether the record is authoritative for a model.
func (r Record) IsBaseProduct() bool {
	if r.ID == "" {
		return false
	}
	if r.IsBase != nil && *r.IsBase {
		return true
	}
	return strings.HasPrefix(r.ID, BasePrefix)
}

// IsExplicitVariation reports whether the record is an authored variation:
// flagged isBase: false, or named Var_. A Var_ record flagged as a base is
// both a base and a variation.
func (r Record) IsExplicitVariation() bool {
	if r.ID == "" {
		return false
	}
	if r.IsBase != nil && !*r.IsBase {
		return true
	}
	return strings.HasPrefix(r.ID, VariationPrefix)
}

// Str, Num and Bool return pointers for building records in code.
func Str(s string) *string { return &s }

func Num(f float64) *float64 { return &f }

func Bool(b bool) *bool { return &b }
