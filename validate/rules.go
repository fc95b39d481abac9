package validate

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/boilerrat/grant-attestoor/application"
)

// Rule is an explicit, named check of one field.
//
// ID must be stable across versions. Check must be deterministic and side-effect
// free; it returns the message to show against Field, or "" when satisfied.
type Rule struct {
	ID    string
	Field string
	Check func(application.Document) string
}

func (r Rule) apply(doc application.Document) (string, error) {
	if r.Check == nil {
		return "", application.NewError(application.KindInternal, "GRANT-VAL-000", "nil check for rule "+r.ID)
	}
	return r.Check(doc), nil
}

// Messages shown against fields.
const (
	MsgRequired           = "Required"
	MsgKYCAgreement       = "Must accept KYC Agreement"
	MsgTermsAndConditions = "Must accept Terms and Conditions"
	MsgFollowUpReports    = "Must accept Follow-up/Milestone Reports"
	MsgNotNFC             = "Text is not in Unicode NFC form"
)

var requiredRuleIDs = map[string]string{
	application.FieldGrantType:        "GRANT-VAL-101",
	application.FieldSafeAddress:      "GRANT-VAL-102",
	application.FieldRequestAmount:    "GRANT-VAL-103",
	application.FieldProjectDetails:   "GRANT-VAL-104",
	application.FieldProblemSolving:   "GRANT-VAL-105",
	application.FieldEcosystemBenefit: "GRANT-VAL-106",
	application.FieldValueProposition: "GRANT-VAL-107",
	application.FieldDifferentiation:  "GRANT-VAL-108",
	application.FieldTeamExperience:   "GRANT-VAL-109",
}

// RequiredRules returns one rule per text scalar: the trimmed value must be
// non-empty.
func RequiredRules() []Rule {
	fields := application.TextFields()
	rules := make([]Rule, 0, len(fields))
	for _, f := range fields {
		f := f // per-iteration copy for closures (go 1.21 loop semantics)
		rules = append(rules, Rule{
			ID:    requiredRuleIDs[f],
			Field: f,
			Check: func(doc application.Document) string {
				v, _ := doc.Text(f)
				if strings.TrimSpace(v) == "" {
					return MsgRequired
				}
				return ""
			},
		})
	}
	return rules
}

// AcceptanceRules returns one rule per acceptance flag: it must be true.
func AcceptanceRules() []Rule {
	accept := func(id, field, msg string) Rule {
		return Rule{ID: id, Field: field, Check: func(doc application.Document) string {
			if ok, _ := doc.Flag(field); !ok {
				return msg
			}
			return ""
		}}
	}
	return []Rule{
		accept("GRANT-VAL-201", application.FieldKYCAgreement, MsgKYCAgreement),
		accept("GRANT-VAL-202", application.FieldTermsAndConditions, MsgTermsAndConditions),
		accept("GRANT-VAL-203", application.FieldFollowUpReports, MsgFollowUpReports),
	}
}

var (
	amountPattern  = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?$`)
	addressPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)
)

// AdvisoryRules returns the checks behind the hints printed on the form:
// word ceilings on the long answers, the grant type menu, the shape of the
// requested amount and of the Safe address. A last group flags text that is
// not in Unicode NFC: such text is fingerprinted as stored, so it hashes
// differently from the composed spelling a reviewer would retype. Empty
// values are left to the required rules.
func AdvisoryRules() []Rule {
	var rules []Rule
	for _, f := range application.TextFields() {
		f := f // per-iteration copy for closures (go 1.21 loop semantics)
		limit, ok := application.WordLimit(f)
		if !ok {
			continue
		}
		rules = append(rules, Rule{ID: "GRANT-ADV-301", Field: f, Check: func(doc application.Document) string {
			v, _ := doc.Text(f)
			if n := application.WordCount(v); n > limit {
				return fmt.Sprintf("Exceeds %d word limit (%d words)", limit, n)
			}
			return ""
		}})
	}

	names := make([]string, 0, 4)
	for _, g := range application.GrantTypes() {
		names = append(names, string(g))
	}
	rules = append(rules,
		Rule{ID: "GRANT-ADV-311", Field: application.FieldGrantType, Check: func(doc application.Document) string {
			if strings.TrimSpace(string(doc.GrantType)) == "" || doc.GrantType.Known() {
				return ""
			}
			return "Must be one of " + strings.Join(names, ", ")
		}},
		Rule{ID: "GRANT-ADV-321", Field: application.FieldRequestAmount, Check: func(doc application.Document) string {
			v := strings.TrimSpace(doc.RequestAmount)
			if v == "" || amountPattern.MatchString(v) {
				return ""
			}
			return "Must be a non-negative number"
		}},
		Rule{ID: "GRANT-ADV-331", Field: application.FieldSafeAddress, Check: func(doc application.Document) string {
			v := strings.TrimSpace(doc.SafeAddress)
			if v == "" || addressPattern.MatchString(v) {
				return ""
			}
			return "Must be a 0x-prefixed 20-byte address"
		}},
	)
	for _, f := range application.TextFields() {
		f := f // per-iteration copy for closures (go 1.21 loop semantics)
		rules = append(rules, Rule{ID: "GRANT-ADV-341", Field: f, Check: func(doc application.Document) string {
			v, _ := doc.Text(f)
			if norm.NFC.IsNormalString(v) {
				return ""
			}
			return MsgNotNFC
		}})
	}
	return rules
}

// ApplyRules runs rules in order and returns the first message per field.
//
// Rule order is the evaluation order; keep it stable.
func ApplyRules(doc application.Document, rules []Rule) (Errors, error) {
	out := Errors{}
	for _, r := range rules {
		if _, seen := out[r.Field]; seen {
			continue
		}
		msg, err := r.apply(doc)
		if err != nil {
			return nil, err
		}
		if msg != "" {
			out[r.Field] = msg
		}
	}
	return out, nil
}

// ApplyRulesAll runs every rule in order and returns every finding.
func ApplyRulesAll(doc application.Document, rules []Rule) ([]Advisory, error) {
	var out []Advisory
	for _, r := range rules {
		msg, err := r.apply(doc)
		if err != nil {
			return nil, err
		}
		if msg != "" {
			out = append(out, Advisory{RuleID: r.ID, Field: r.Field, Message: msg})
		}
	}
	return out, nil
}
