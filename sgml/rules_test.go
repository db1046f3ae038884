package sgml

import "testing"

func TestApplyRulesRequiredMissing(t *testing.T) {
	doc := mustParse(t, `<order><id>1</id></order>`)
	errs := ApplyRules(doc, []Rule{
		{Path: "order/customer", Required: true},
	})
	if len(errs) != 1 {
		t.Fatalf("errs = %v, want 1 violation for missing required field", errs)
	}
}

func TestApplyRulesNumericRange(t *testing.T) {
	doc := mustParse(t, `<order><quantity>150</quantity></order>`)
	errs := ApplyRules(doc, []Rule{
		{Path: "order/quantity", Type: "int", Min: 1, Max: 100},
	})
	if len(errs) != 1 {
		t.Fatalf("errs = %v, want 1 violation for out-of-range quantity", errs)
	}
}

func TestApplyRulesRegexAndEnum(t *testing.T) {
	doc := mustParse(t, `<order><sku>abc</sku><status>pending</status></order>`)
	errs := ApplyRules(doc, []Rule{
		{Path: "order/sku", Regex: `^[A-Z0-9]+$`},
		{Path: "order/status", Enum: []string{"open", "closed"}},
	})
	if len(errs) != 2 {
		t.Fatalf("errs = %v, want 2 violations (regex mismatch + enum mismatch)", errs)
	}
}

func TestApplyRulesAllPass(t *testing.T) {
	doc := mustParse(t, `<order><sku>SKU1</sku><status>open</status><quantity>10</quantity></order>`)
	errs := ApplyRules(doc, []Rule{
		{Path: "order/sku", Regex: `^[A-Z0-9]+$`},
		{Path: "order/status", Enum: []string{"open", "closed"}},
		{Path: "order/quantity", Type: "int", Min: 1, Max: 100},
	})
	if len(errs) != 0 {
		t.Fatalf("errs = %v, want no violations", errs)
	}
}
