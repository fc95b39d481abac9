package application

// Record field names, as they appear in the serialized document.
const (
	FieldName = "name"
	FieldURL  = "url"

	FieldPrimarySocialMedia = "primarySocialMedia"
	FieldLink               = "link"
	FieldEthAddressOrENS    = "ethAddressOrENS"

	FieldSummary         = "summary"
	FieldMonth           = "month"
	FieldYear            = "year"
	FieldFundingRequired = "fundingRequired"

	FieldSource = "source"
	FieldAmount = "amount"
)

// SocialMediaLink is one entry of the socialMediaLinks group.
type SocialMediaLink struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

func (SocialMediaLink) Fields() []string { return []string{FieldName, FieldURL} }

func (r SocialMediaLink) Field(name string) (string, error) {
	switch name {
	case FieldName:
		return r.Name, nil
	case FieldURL:
		return r.URL, nil
	}
	return "", InvalidField(name)
}

func (r SocialMediaLink) WithField(name, value string) (SocialMediaLink, error) {
	switch name {
	case FieldName:
		r.Name = value
	case FieldURL:
		r.URL = value
	default:
		return r, InvalidField(name)
	}
	return r, nil
}

// TeamMember is one entry of the teamMembers group.
type TeamMember struct {
	Name               string `json:"name"`
	PrimarySocialMedia string `json:"primarySocialMedia"`
	Link               string `json:"link"`
	EthAddressOrENS    string `json:"ethAddressOrENS"`
}

func (TeamMember) Fields() []string {
	return []string{FieldName, FieldPrimarySocialMedia, FieldLink, FieldEthAddressOrENS}
}

func (r TeamMember) Field(name string) (string, error) {
	switch name {
	case FieldName:
		return r.Name, nil
	case FieldPrimarySocialMedia:
		return r.PrimarySocialMedia, nil
	case FieldLink:
		return r.Link, nil
	case FieldEthAddressOrENS:
		return r.EthAddressOrENS, nil
	}
	return "", InvalidField(name)
}

func (r TeamMember) WithField(name, value string) (TeamMember, error) {
	switch name {
	case FieldName:
		r.Name = value
	case FieldPrimarySocialMedia:
		r.PrimarySocialMedia = value
	case FieldLink:
		r.Link = value
	case FieldEthAddressOrENS:
		r.EthAddressOrENS = value
	default:
		return r, InvalidField(name)
	}
	return r, nil
}

// Milestone is one entry of the milestones group.
type Milestone struct {
	Summary         string `json:"summary"`
	Month           string `json:"month"`
	Year            string `json:"year"`
	FundingRequired string `json:"fundingRequired"`
}

func (Milestone) Fields() []string {
	return []string{FieldSummary, FieldMonth, FieldYear, FieldFundingRequired}
}

func (r Milestone) Field(name string) (string, error) {
	switch name {
	case FieldSummary:
		return r.Summary, nil
	case FieldMonth:
		return r.Month, nil
	case FieldYear:
		return r.Year, nil
	case FieldFundingRequired:
		return r.FundingRequired, nil
	}
	return "", InvalidField(name)
}

func (r Milestone) WithField(name, value string) (Milestone, error) {
	switch name {
	case FieldSummary:
		r.Summary = value
	case FieldMonth:
		r.Month = value
	case FieldYear:
		r.Year = value
	case FieldFundingRequired:
		r.FundingRequired = value
	default:
		return r, InvalidField(name)
	}
	return r, nil
}

// FundingRecord is one entry of the priorFunding group.
type FundingRecord struct {
	Source string `json:"source"`
	Amount string `json:"amount"`
}

func (FundingRecord) Fields() []string { return []string{FieldSource, FieldAmount} }

func (r FundingRecord) Field(name string) (string, error) {
	switch name {
	case FieldSource:
		return r.Source, nil
	case FieldAmount:
		return r.Amount, nil
	}
	return "", InvalidField(name)
}

func (r FundingRecord) WithField(name, value string) (FundingRecord, error) {
	switch name {
	case FieldSource:
		r.Source = value
	case FieldAmount:
		r.Amount = value
	default:
		return r, InvalidField(name)
	}
	return r, nil
}
