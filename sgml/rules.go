package sgml

import (
	"fmt"
	"regexp"
	"strconv"
)

// Rule defines one business-level constraint to check against a parsed
// document, independent of the structural checks Validator runs during
// parsing. Where Validator enforces "is this markup well-formed against
// its DTD", Rule enforces "does this value make business sense" — a
// required field, a numeric range, an enumerated set, a regular
// expression — expressed against Query paths.
type Rule struct {
	Path     string
	Required bool
	Type     string // "string", "int", "float"; empty skips type checking
	Min      float64
	Max      float64
	Regex    string
	Enum     []string
}

// ApplyRules runs every rule against doc and returns one message per
// violation, in rule order. A Rule whose Path matches nothing is reported
// only if Required.
func ApplyRules(doc *Node, rules []Rule) []string {
	var errs []string
	for _, r := range rules {
		val, ok := doc.QueryString(r.Path)
		if !ok {
			if r.Required {
				errs = append(errs, "missing required value: "+r.Path)
			}
			continue
		}

		switch r.Type {
		case "int", "float":
			n, err := strconv.ParseFloat(val, 64)
			if err != nil {
				errs = append(errs, fmt.Sprintf("%s: %q is not numeric", r.Path, val))
				continue
			}
			if r.Min != 0 && n < r.Min {
				errs = append(errs, fmt.Sprintf("%s: %v is less than minimum %v", r.Path, n, r.Min))
			}
			if r.Max != 0 && n > r.Max {
				errs = append(errs, fmt.Sprintf("%s: %v is greater than maximum %v", r.Path, n, r.Max))
			}
		}

		if r.Regex != "" {
			matched, err := regexp.MatchString(r.Regex, val)
			if err != nil {
				errs = append(errs, fmt.Sprintf("%s: invalid rule regex %q: %v", r.Path, r.Regex, err))
			} else if !matched {
				errs = append(errs, fmt.Sprintf("%s: %q does not match %s", r.Path, val, r.Regex))
			}
		}
		if len(r.Enum) > 0 {
			found := false
			for _, allowed := range r.Enum {
				if val == allowed {
					found = true
					break
				}
			}
			if !found {
				errs = append(errs, fmt.Sprintf("%s: %q is not one of %v", r.Path, val, r.Enum))
			}
		}
	}
	return errs
}
