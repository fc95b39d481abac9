package application

import (
	"encoding/json"
	"slices"
)

// GrantType is the grant program an application targets.
type GrantType string

const (
	Builder    GrantType = "Builder"
	Research   GrantType = "Research"
	Governance GrantType = "Governance"
	Growth     GrantType = "Growth"
)

// GrantTypes returns the offered grant types in menu order.
func GrantTypes() []GrantType {
	return []GrantType{Builder, Research, Governance, Growth}
}

// Known reports whether g is one of the offered grant types.
func (g GrantType) Known() bool {
	return slices.Contains(GrantTypes(), g)
}

// Scalar field names.
const (
	FieldGrantType        = "grantType"
	FieldSafeAddress      = "safeAddress"
	FieldRequestAmount    = "requestAmount"
	FieldProjectDetails   = "projectDetails"
	FieldProblemSolving   = "problemSolving"
	FieldEcosystemBenefit = "ecosystemBenefit"
	FieldValueProposition = "valueProposition"
	FieldDifferentiation  = "differentiation"
	FieldTeamExperience   = "teamExperience"

	FieldKYCAgreement       = "kycAgreement"
	FieldTermsAndConditions = "termsAndConditions"
	FieldFollowUpReports    = "followUpReports"
)

// Repeating group names.
const (
	GroupSocialMediaLinks = "socialMediaLinks"
	GroupTeamMembers      = "teamMembers"
	GroupMilestones       = "milestones"
	GroupPriorFunding     = "priorFunding"
)

// Document is one in-progress grant application.
//
// A Document is a value: the mutation functions in this package return a new
// Document and never write to the slices of their input, so a Document held
// by a reader is never observed half-written.
//
// Records inside a group are identified by position only.
type Document struct {
	GrantType        GrantType `json:"grantType"`
	SafeAddress      string    `json:"safeAddress"`
	RequestAmount    string    `json:"requestAmount"`
	ProjectDetails   string    `json:"projectDetails"`
	ProblemSolving   string    `json:"problemSolving"`
	EcosystemBenefit string    `json:"ecosystemBenefit"`
	ValueProposition string    `json:"valueProposition"`
	Differentiation  string    `json:"differentiation"`
	TeamExperience   string    `json:"teamExperience"`

	KYCAgreement       bool `json:"kycAgreement"`
	TermsAndConditions bool `json:"termsAndConditions"`
	FollowUpReports    bool `json:"followUpReports"`

	SocialMediaLinks []SocialMediaLink `json:"socialMediaLinks"`
	TeamMembers      []TeamMember      `json:"teamMembers"`
	Milestones       []Milestone       `json:"milestones"`
	PriorFunding     []FundingRecord   `json:"priorFunding"`
}

// New returns an empty document with every group seeded with one blank
// record, giving an editor an initial row to fill.
func New() Document {
	return Document{
		SocialMediaLinks: []SocialMediaLink{{}},
		TeamMembers:      []TeamMember{{}},
		Milestones:       []Milestone{{}},
		PriorFunding:     []FundingRecord{{}},
	}
}

// Clone returns a deep copy of d. Nil groups become empty groups.
func (d Document) Clone() Document {
	out := d
	out.SocialMediaLinks = cloneRecords(d.SocialMediaLinks)
	out.TeamMembers = cloneRecords(d.TeamMembers)
	out.Milestones = cloneRecords(d.Milestones)
	out.PriorFunding = cloneRecords(d.PriorFunding)
	return out
}

// Equal reports whether d and o hold the same logical content.
// A nil group equals an empty group.
func (d Document) Equal(o Document) bool {
	if d.GrantType != o.GrantType ||
		d.SafeAddress != o.SafeAddress ||
		d.RequestAmount != o.RequestAmount ||
		d.ProjectDetails != o.ProjectDetails ||
		d.ProblemSolving != o.ProblemSolving ||
		d.EcosystemBenefit != o.EcosystemBenefit ||
		d.ValueProposition != o.ValueProposition ||
		d.Differentiation != o.Differentiation ||
		d.TeamExperience != o.TeamExperience {
		return false
	}
	if d.KYCAgreement != o.KYCAgreement ||
		d.TermsAndConditions != o.TermsAndConditions ||
		d.FollowUpReports != o.FollowUpReports {
		return false
	}
	return slices.Equal(d.SocialMediaLinks, o.SocialMediaLinks) &&
		slices.Equal(d.TeamMembers, o.TeamMembers) &&
		slices.Equal(d.Milestones, o.Milestones) &&
		slices.Equal(d.PriorFunding, o.PriorFunding)
}

// MarshalJSON renders groups as arrays even when they are nil.
func (d Document) MarshalJSON() ([]byte, error) {
	type plain Document
	return json.Marshal(plain(d.Clone()))
}

// MarshalIndent renders d as indented JSON for display.
func MarshalIndent(d Document) ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// Text returns the value of a text scalar.
func (d Document) Text(field string) (string, error) {
	switch field {
	case FieldGrantType:
		return string(d.GrantType), nil
	case FieldSafeAddress:
		return d.SafeAddress, nil
	case FieldRequestAmount:
		return d.RequestAmount, nil
	case FieldProjectDetails:
		return d.ProjectDetails, nil
	case FieldProblemSolving:
		return d.ProblemSolving, nil
	case FieldEcosystemBenefit:
		return d.EcosystemBenefit, nil
	case FieldValueProposition:
		return d.ValueProposition, nil
	case FieldDifferentiation:
		return d.Differentiation, nil
	case FieldTeamExperience:
		return d.TeamExperience, nil
	}
	return "", InvalidField(field)
}

// Flag returns the value of an acceptance flag.
func (d Document) Flag(field string) (bool, error) {
	switch field {
	case FieldKYCAgreement:
		return d.KYCAgreement, nil
	case FieldTermsAndConditions:
		return d.TermsAndConditions, nil
	case FieldFollowUpReports:
		return d.FollowUpReports, nil
	}
	return false, InvalidField(field)
}

// Records returns a copy of the named group as its slice type
// ([]SocialMediaLink, []TeamMember, []Milestone or []FundingRecord).
func (d Document) Records(group string) (any, error) {
	switch group {
	case GroupSocialMediaLinks:
		return cloneRecords(d.SocialMediaLinks), nil
	case GroupTeamMembers:
		return cloneRecords(d.TeamMembers), nil
	case GroupMilestones:
		return cloneRecords(d.Milestones), nil
	case GroupPriorFunding:
		return cloneRecords(d.PriorFunding), nil
	}
	return nil, InvalidField(group)
}

// Len returns the number of records in the named group.
func (d Document) Len(group string) (int, error) {
	switch group {
	case GroupSocialMediaLinks:
		return len(d.SocialMediaLinks), nil
	case GroupTeamMembers:
		return len(d.TeamMembers), nil
	case GroupMilestones:
		return len(d.Milestones), nil
	case GroupPriorFunding:
		return len(d.PriorFunding), nil
	}
	return 0, InvalidField(group)
}

// SetScalar returns a copy of doc with one scalar replaced.
//
// Text fields take a string (or GrantType for grantType); acceptance flags
// take a bool. Any other field name or value type fails with an
// InvalidField error and doc is returned unchanged.
func SetScalar(doc Document, field string, value any) (Document, error) {
	if IsFlagField(field) {
		b, ok := value.(bool)
		if !ok {
			return doc, InvalidFieldValue(field, value)
		}
		out := doc.Clone()
		switch field {
		case FieldKYCAgreement:
			out.KYCAgreement = b
		case FieldTermsAndConditions:
			out.TermsAndConditions = b
		case FieldFollowUpReports:
			out.FollowUpReports = b
		}
		return out, nil
	}
	if !IsTextField(field) {
		return doc, InvalidField(field)
	}

	var s string
	switch v := value.(type) {
	case string:
		s = v
	case GrantType:
		if field != FieldGrantType {
			return doc, InvalidFieldValue(field, value)
		}
		s = string(v)
	default:
		return doc, InvalidFieldValue(field, value)
	}

	out := doc.Clone()
	switch field {
	case FieldGrantType:
		out.GrantType = GrantType(s)
	case FieldSafeAddress:
		out.SafeAddress = s
	case FieldRequestAmount:
		out.RequestAmount = s
	case FieldProjectDetails:
		out.ProjectDetails = s
	case FieldProblemSolving:
		out.ProblemSolving = s
	case FieldEcosystemBenefit:
		out.EcosystemBenefit = s
	case FieldValueProposition:
		out.ValueProposition = s
	case FieldDifferentiation:
		out.Differentiation = s
	case FieldTeamExperience:
		out.TeamExperience = s
	}
	return out, nil
}

// SetGroup returns a copy of doc with one repeating group replaced as a
// whole. records must be the group's slice type; it is copied, so the caller
// may keep using it.
func SetGroup(doc Document, group string, records any) (Document, error) {
	out := doc.Clone()
	switch group {
	case GroupSocialMediaLinks:
		r, ok := records.([]SocialMediaLink)
		if !ok {
			return doc, InvalidFieldValue(group, records)
		}
		out.SocialMediaLinks = cloneRecords(r)
	case GroupTeamMembers:
		r, ok := records.([]TeamMember)
		if !ok {
			return doc, InvalidFieldValue(group, records)
		}
		out.TeamMembers = cloneRecords(r)
	case GroupMilestones:
		r, ok := records.([]Milestone)
		if !ok {
			return doc, InvalidFieldValue(group, records)
		}
		out.Milestones = cloneRecords(r)
	case GroupPriorFunding:
		r, ok := records.([]FundingRecord)
		if !ok {
			return doc, InvalidFieldValue(group, records)
		}
		out.PriorFunding = cloneRecords(r)
	default:
		return doc, InvalidField(group)
	}
	return out, nil
}

func cloneRecords[R any](in []R) []R {
	out := make([]R, len(in))
	copy(out, in)
	return out
}
