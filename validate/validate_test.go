package validate

import (
	"math/rand"
	"reflect"
	"strings"
	"testing"

	"github.com/boilerrat/grant-attestoor/application"
	"github.com/boilerrat/grant-attestoor/compliance"
)

func completeDocument() application.Document {
	doc := application.New()
	doc.GrantType = application.Builder
	doc.SafeAddress = "0xABC"
	doc.RequestAmount = "5000"
	doc.ProjectDetails = "An attestation tool for grant applications."
	doc.ProblemSolving = "Grant reviews lack verifiable records."
	doc.EcosystemBenefit = "Transparent funding decisions."
	doc.ValueProposition = "Tamper-evident applications."
	doc.Differentiation = "No comparable tool."
	doc.TeamExperience = "Years of smart contract work."
	doc.KYCAgreement = true
	doc.TermsAndConditions = true
	doc.FollowUpReports = true
	doc.SocialMediaLinks = nil
	doc.TeamMembers = nil
	doc.Milestones = nil
	doc.PriorFunding = nil
	return doc
}

func mustValidate(t *testing.T, doc application.Document) Errors {
	t.Helper()
	errs, err := Validate(doc)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	return errs
}

func mustEvaluate(t *testing.T, doc application.Document, opts Options) Result {
	t.Helper()
	res, err := Evaluate(doc, opts)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	return res
}

func TestCompleteDocumentIsSubmittable(t *testing.T) {
	doc := completeDocument()
	errs := mustValidate(t, doc)
	if len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
	if !Submittable(doc) {
		t.Fatalf("expected submittable")
	}
}

func TestMissingKYCAgreement(t *testing.T) {
	doc := completeDocument()
	doc.KYCAgreement = false
	errs := mustValidate(t, doc)
	want := Errors{application.FieldKYCAgreement: "Must accept KYC Agreement"}
	if !reflect.DeepEqual(errs, want) {
		t.Fatalf("got %v, want %v", errs, want)
	}
	if Submittable(doc) {
		t.Fatalf("expected not submittable")
	}
}

func TestNewDocumentReportsEveryRequiredField(t *testing.T) {
	errs := mustValidate(t, application.New())
	for _, f := range application.TextFields() {
		if errs[f] != MsgRequired {
			t.Fatalf("expected %s Required, got %q", f, errs[f])
		}
	}
	if errs[application.FieldTermsAndConditions] != MsgTermsAndConditions {
		t.Fatalf("unexpected terms message %q", errs[application.FieldTermsAndConditions])
	}
	if errs[application.FieldFollowUpReports] != MsgFollowUpReports {
		t.Fatalf("unexpected follow-up message %q", errs[application.FieldFollowUpReports])
	}
	if len(errs) != len(application.TextFields())+len(application.FlagFields()) {
		t.Fatalf("unexpected error count %d: %v", len(errs), errs)
	}
}

func TestWhitespaceOnlyIsRequired(t *testing.T) {
	doc := completeDocument()
	doc.TeamExperience = " \n\t "
	errs := mustValidate(t, doc)
	if errs[application.FieldTeamExperience] != MsgRequired || len(errs) != 1 {
		t.Fatalf("expected only teamExperience Required, got %v", errs)
	}
}

func TestGroupsAreNotValidated(t *testing.T) {
	doc := completeDocument()
	doc.TeamMembers = []application.TeamMember{{}, {}}
	doc.Milestones = []application.Milestone{{Summary: ""}}
	if !Submittable(doc) {
		t.Fatalf("blank group records must not block submission: %v", mustValidate(t, doc))
	}
}

// submittable iff every text scalar is non-blank and every flag is true.
func TestSubmittableProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	values := []string{"", " ", "x", "  y  ", "\t"}
	for i := 0; i < 500; i++ {
		doc := application.New()
		want := true
		for _, f := range application.TextFields() {
			v := values[rng.Intn(len(values))]
			var err error
			doc, err = application.SetScalar(doc, f, v)
			if err != nil {
				t.Fatalf("SetScalar: %v", err)
			}
			if strings.TrimSpace(v) == "" {
				want = false
			}
		}
		for _, f := range application.FlagFields() {
			b := rng.Intn(4) != 0
			var err error
			doc, err = application.SetScalar(doc, f, b)
			if err != nil {
				t.Fatalf("SetScalar: %v", err)
			}
			if !b {
				want = false
			}
		}
		if got := Submittable(doc); got != want {
			t.Fatalf("iteration %d: Submittable = %v, want %v (%v)", i, got, want, mustValidate(t, doc))
		}
	}
}

func TestEvaluateIsDeterministic(t *testing.T) {
	doc := application.New()
	doc.ValueProposition = strings.Repeat("word ", 150)
	first := mustEvaluate(t, doc, Options{})
	for i := 0; i < 20; i++ {
		if got := mustEvaluate(t, doc, Options{}); !reflect.DeepEqual(got, first) {
			t.Fatalf("evaluation %d differs: %+v vs %+v", i, got, first)
		}
	}
}

func TestAdvisoriesDoNotGateInPermissiveMode(t *testing.T) {
	doc := completeDocument()
	doc.GrantType = "Marketing"
	doc.RequestAmount = "five thousand"
	doc.ValueProposition = strings.Repeat("word ", 101)

	res := mustEvaluate(t, doc, Options{})
	if !res.Submittable() {
		t.Fatalf("advisories must not gate permissive submission: %v", res.Errors)
	}
	got := map[string]string{}
	for _, a := range res.Advisories {
		got[a.Field] = a.RuleID
	}
	want := map[string]string{
		application.FieldValueProposition: "GRANT-ADV-301",
		application.FieldGrantType:        "GRANT-ADV-311",
		application.FieldRequestAmount:    "GRANT-ADV-321",
		application.FieldSafeAddress:      "GRANT-ADV-331",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("advisories = %v, want %v", got, want)
	}
}

func TestStrictModePromotesAdvisories(t *testing.T) {
	doc := completeDocument()
	doc.SafeAddress = "0x" + strings.Repeat("ab", 20)
	if res := mustEvaluate(t, doc, Options{Mode: compliance.Strict}); !res.Submittable() {
		t.Fatalf("expected well-formed document to pass strict mode: %v", res.Errors)
	}

	doc.RequestAmount = "-5"
	res := mustEvaluate(t, doc, Options{Mode: compliance.Strict})
	if res.Submittable() {
		t.Fatalf("expected strict mode to block")
	}
	if res.Errors[application.FieldRequestAmount] != "Must be a non-negative number" {
		t.Fatalf("unexpected errors %v", res.Errors)
	}

	// A required error is not replaced by an advisory.
	doc.ProjectDetails = ""
	res = mustEvaluate(t, doc, Options{Mode: compliance.Strict})
	if res.Errors[application.FieldProjectDetails] != MsgRequired {
		t.Fatalf("expected Required to win, got %v", res.Errors)
	}
}

func TestErrorsFieldsSorted(t *testing.T) {
	errs := Errors{"b": "x", "a": "y", "c": "z"}
	if got := errs.Fields(); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Fatalf("unexpected order %v", got)
	}
}

func TestRuleIDsAreUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, r := range gatingRules() {
		if r.ID == "" {
			t.Fatalf("rule for %s has no ID", r.Field)
		}
		if seen[r.ID] {
			t.Fatalf("duplicate rule ID %s", r.ID)
		}
		seen[r.ID] = true
	}
}

func TestNilCheckIsInternalError(t *testing.T) {
	rules := []Rule{
		{ID: "GRANT-VAL-101", Field: application.FieldGrantType, Check: func(application.Document) string { return "" }},
		{ID: "GRANT-VAL-999", Field: application.FieldSafeAddress},
	}
	for name, run := range map[string]func() error{
		"ApplyRules": func() error {
			_, err := ApplyRules(application.New(), rules)
			return err
		},
		"ApplyRulesAll": func() error {
			_, err := ApplyRulesAll(application.New(), rules)
			return err
		},
	} {
		err := run()
		if err == nil {
			t.Fatalf("%s: expected error for nil check", name)
		}
		if !application.IsKind(err, application.KindInternal) {
			t.Fatalf("%s: expected KindInternal, got %v", name, err)
		}
		if got := application.RuleID(err); got != "GRANT-VAL-000" {
			t.Fatalf("%s: rule ID = %q", name, got)
		}
	}
}

func TestNonNFCTextIsAdvisory(t *testing.T) {
	doc := completeDocument()
	doc.TeamExperience = "Cafe\u0301 owners"

	res := mustEvaluate(t, doc, Options{})
	if !res.Submittable() {
		t.Fatalf("NFC advisory must not gate permissive submission: %v", res.Errors)
	}
	want := []Advisory{{RuleID: "GRANT-ADV-341", Field: application.FieldTeamExperience, Message: MsgNotNFC}}
	if !reflect.DeepEqual(res.Advisories, want) {
		t.Fatalf("advisories = %+v, want %+v", res.Advisories, want)
	}

	strict := mustEvaluate(t, doc, Options{Mode: compliance.Strict})
	if strict.Errors[application.FieldTeamExperience] != MsgNotNFC {
		t.Fatalf("expected strict mode to block decomposed text, got %v", strict.Errors)
	}

	doc.TeamExperience = "Caf\u00e9 owners"
	if res := mustEvaluate(t, doc, Options{Mode: compliance.Strict}); !res.Submittable() {
		t.Fatalf("composed text must pass strict mode: %v", res.Errors)
	}
}
