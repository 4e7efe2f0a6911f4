package schemadef

import (
	"fmt"

	"github.com/reoring/kanon"
)

// Options controls how definition documents are turned into schemas.
type Options struct {
	// Unknown is the unknown-key policy of objects that do not set "unknown".
	Unknown kanon.UnknownPolicy
	// Strict turns unrecognized node options into errors instead of
	// warnings.
	Strict bool
	// Compile returns kanon.Compile of the root schema.
	Compile bool
	// Env holds extra variables visible to check expressions next to value.
	Env map[string]any
}

// Diag carries non-fatal warnings produced while loading.
type Diag interface {
	HasWarnings() bool
	Warnings() []string
}

type simpleDiag struct{ ws []string }

func (d *simpleDiag) HasWarnings() bool        { return len(d.ws) > 0 }
func (d *simpleDiag) Warnings() []string       { return append([]string(nil), d.ws...) }
func (d *simpleDiag) warnf(f string, a ...any) { d.ws = append(d.ws, fmt.Sprintf(f, a...)) }

// Check is a boolean expr-lang expression evaluated against value.
type Check struct {
	Expr    string `mapstructure:"expr"`
	Message string `mapstructure:"message"`
}

// nodeSpec holds the scalar options of one schema node. Structural keys
// (fields, items, options, key, value) are read from the YAML tree directly
// so their order survives.
type nodeSpec struct {
	Type     string `mapstructure:"type"`
	Message  string `mapstructure:"message"`
	Coerce   bool   `mapstructure:"coerce"`
	Optional bool   `mapstructure:"optional"`
	Nullable bool   `mapstructure:"nullable"`

	// string, array, number, bigint
	Min    *float64 `mapstructure:"min"`
	Max    *float64 `mapstructure:"max"`
	Length *int     `mapstructure:"length"`

	// string
	Format     string `mapstructure:"format"`
	Pattern    string `mapstructure:"pattern"`
	StartsWith string `mapstructure:"startsWith"`
	EndsWith   string `mapstructure:"endsWith"`
	Includes   string `mapstructure:"includes"`

	// number
	Gt          *float64 `mapstructure:"gt"`
	Lt          *float64 `mapstructure:"lt"`
	Int         bool     `mapstructure:"int"`
	Finite      bool     `mapstructure:"finite"`
	Positive    bool     `mapstructure:"positive"`
	Negative    bool     `mapstructure:"negative"`
	NonNegative bool     `mapstructure:"nonNegative"`
	NonPositive bool     `mapstructure:"nonPositive"`
	MultipleOf  *float64 `mapstructure:"multipleOf"`

	// date (RFC 3339)
	After  string `mapstructure:"after"`
	Before string `mapstructure:"before"`

	// map, set, record
	MinSize *int `mapstructure:"minSize"`
	MaxSize *int `mapstructure:"maxSize"`
	Size    *int `mapstructure:"size"`

	// object
	Unknown string `mapstructure:"unknown"`

	Literal any      `mapstructure:"literal"`
	Values  []string `mapstructure:"values"`
	Ref     string   `mapstructure:"ref"`

	Check  string  `mapstructure:"check"`
	Checks []Check `mapstructure:"checks"`
}

func parseUnknown(s string) (kanon.UnknownPolicy, bool) {
	switch s {
	case "passthrough":
		return kanon.UnknownPassthrough, true
	case "strict":
		return kanon.UnknownStrict, true
	case "strip":
		return kanon.UnknownStrip, true
	}
	return 0, false
}
