// Package validate decides whether an application document may be
// submitted.
//
// Validation findings are data, not errors: Evaluate reports a
// field -> message mapping and fails only on a malformed rule. The engine is
// stateless and is re-run in full on every document change.
package validate

import (
	"sort"

	"github.com/boilerrat/grant-attestoor/application"
	"github.com/boilerrat/grant-attestoor/compliance"
)

// Errors maps a scalar field name to the message shown against it. A field
// without an entry has no error.
type Errors map[string]string

// Fields returns the fields carrying an error, sorted.
func (e Errors) Fields() []string {
	out := make([]string, 0, len(e))
	for f := range e {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// Advisory is a non-blocking finding (or a blocking one under Strict).
type Advisory struct {
	RuleID  string
	Field   string
	Message string
}

// Options controls evaluation. The zero value is Permissive.
type Options struct {
	Mode compliance.Mode
}

// Result is the outcome of one evaluation.
type Result struct {
	Errors     Errors
	Advisories []Advisory
}

// Submittable reports whether the evaluated document may be submitted.
func (r Result) Submittable() bool { return len(r.Errors) == 0 }

// Evaluate runs every rule against doc.
//
// Errors always contains the required-field and acceptance-flag findings.
// Under compliance.Strict, an advisory finding is added to Errors for any
// field that has no error yet. The only failure is a malformed rule.
func Evaluate(doc application.Document, opts Options) (Result, error) {
	errs, err := ApplyRules(doc, gatingRules())
	if err != nil {
		return Result{}, err
	}
	advisories, err := ApplyRulesAll(doc, AdvisoryRules())
	if err != nil {
		return Result{}, err
	}
	if opts.Mode == compliance.Strict {
		for _, a := range advisories {
			if _, ok := errs[a.Field]; !ok {
				errs[a.Field] = a.Message
			}
		}
	}
	return Result{Errors: errs, Advisories: advisories}, nil
}

// Validate returns the Permissive error mapping for doc.
func Validate(doc application.Document) (Errors, error) {
	return ApplyRules(doc, gatingRules())
}

// Submittable reports whether doc passes Permissive validation: every text
// scalar is non-blank and every acceptance flag is true.
func Submittable(doc application.Document) bool {
	errs, err := Validate(doc)
	return err == nil && len(errs) == 0
}

func gatingRules() []Rule {
	return append(RequiredRules(), AcceptanceRules()...)
}
