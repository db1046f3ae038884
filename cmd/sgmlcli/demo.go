package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kxml/sgml/sgml"
)

// demoRegistry links the name given to `sgmlcli demo <name>` to the
// scenario it runs, in the same flat-map-plus-ordered-sequence shape the
// rest of this codebase's demo gallery has always used.
var demoRegistry = map[string]func(){
	"basic":        demoBasicParsing,
	"doctype-ok":   demoDoctypeAccepts,
	"doctype-bad":  demoMismatchedTag,
	"entities":     demoEntityExpansion,
	"undefined":    demoUndefinedEntity,
	"external-dtd": demoExternalDTDFailure,
}

var demoSequence = []string{
	"basic", "doctype-ok", "doctype-bad", "entities", "undefined", "external-dtd",
}

func newDemoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demo [name]",
		Short: "Run one of the built-in end-to-end scenarios, or all of them",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			name := "all"
			if len(args) == 1 {
				name = args[0]
			}
			if name == "all" {
				for _, n := range demoSequence {
					printHeader(n)
					demoRegistry[n]()
				}
				return nil
			}
			fn, ok := demoRegistry[name]
			if !ok {
				return fmt.Errorf("no such demo %q, available: %v", name, demoSequence)
			}
			printHeader(name)
			fn()
			return nil
		},
	}
}

func printHeader(name string) {
	fmt.Println("----------------------------------------")
	fmt.Println(name)
	fmt.Println("----------------------------------------")
}

func demoBasicParsing() {
	doc, err := sgml.New().ParseString(`<book><title>Dune</title><author>Herbert</author></book>`)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Print(doc.String())
}

func demoDoctypeAccepts() {
	src := `<!DOCTYPE book [
  <!ELEMENT book (title, author)>
  <!ELEMENT title (#PCDATA)>
  <!ELEMENT author (#PCDATA)>
]>
<book><title>Dune</title><author>Herbert</author></book>`
	doc, err := sgml.New(sgml.WithValidation(true)).ParseString(src)
	if err != nil {
		fmt.Println("unexpected error:", err)
		return
	}
	fmt.Println("accepted")
	fmt.Print(doc.String())
}

func demoMismatchedTag() {
	src := `<!DOCTYPE book [
  <!ELEMENT book (title)>
  <!ELEMENT title (#PCDATA)>
]>
<book><title>Dune</author></book>`
	_, err := sgml.New(sgml.WithValidation(true)).ParseString(src)
	if err == nil {
		fmt.Println("expected a TagNotMatching error, got none")
		return
	}
	fmt.Println("rejected:", err)
}

func demoEntityExpansion() {
	src := `<!DOCTYPE note [
  <!ENTITY writer "Herbert &amp; Sons">
]>
<note>&writer;</note>`
	doc, err := sgml.New().ParseString(src)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Print(doc.String())
}

func demoUndefinedEntity() {
	nonValidating := sgml.New()
	doc, err := nonValidating.ParseString(`<note>&nosuch;</note>`)
	if err != nil {
		fmt.Println("unexpected error in non-validating mode:", err)
	} else {
		fmt.Println("non-validating: parsed with undefined entities", nonValidating.UndefinedEntities())
		fmt.Print(doc.String())
	}

	_, err = sgml.New(sgml.WithValidation(true)).ParseString(`<note>&nosuch;</note>`)
	fmt.Println("validating:", err)
}

func demoExternalDTDFailure() {
	src := `<!DOCTYPE book SYSTEM "does-not-exist.dtd">
<book>hello</book>`
	p := sgml.New()
	doc, err := p.ParseString(src)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println("fetch errors:", p.FetchErrors())
	fmt.Print(doc.String())
}
