package application

import (
	"slices"
	"strings"
)

// TextFields returns the free-text scalar fields in form order.
func TextFields() []string {
	return []string{
		FieldGrantType,
		FieldSafeAddress,
		FieldRequestAmount,
		FieldProjectDetails,
		FieldProblemSolving,
		FieldEcosystemBenefit,
		FieldValueProposition,
		FieldDifferentiation,
		FieldTeamExperience,
	}
}

// FlagFields returns the acceptance checkboxes in form order.
func FlagFields() []string {
	return []string{FieldKYCAgreement, FieldTermsAndConditions, FieldFollowUpReports}
}

// Groups returns the repeating groups in form order.
func Groups() []string {
	return []string{GroupSocialMediaLinks, GroupTeamMembers, GroupMilestones, GroupPriorFunding}
}

func IsTextField(name string) bool { return slices.Contains(TextFields(), name) }
func IsFlagField(name string) bool { return slices.Contains(FlagFields(), name) }
func IsGroup(name string) bool     { return slices.Contains(Groups(), name) }

// RecordFields returns the field names of the records held by group.
func RecordFields(group string) ([]string, error) {
	switch group {
	case GroupSocialMediaLinks:
		return SocialMediaLink{}.Fields(), nil
	case GroupTeamMembers:
		return TeamMember{}.Fields(), nil
	case GroupMilestones:
		return Milestone{}.Fields(), nil
	case GroupPriorFunding:
		return FundingRecord{}.Fields(), nil
	}
	return nil, InvalidField(group)
}

// wordLimits are the ceilings printed next to the long-form questions. They
// are advisory only.
var wordLimits = map[string]int{
	FieldProjectDetails:   300,
	FieldProblemSolving:   300,
	FieldEcosystemBenefit: 300,
	FieldValueProposition: 100,
	FieldDifferentiation:  300,
	FieldTeamExperience:   300,
}

// WordLimit returns the advisory word ceiling for field, if it has one.
func WordLimit(field string) (int, bool) {
	n, ok := wordLimits[field]
	return n, ok
}

// WordCount counts whitespace-separated words.
func WordCount(text string) int {
	return len(strings.Fields(text))
}
