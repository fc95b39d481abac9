package model

import "github.com/boilerrat/grant-attestoor/application"

type ComplianceMode string

const (
	CompliancePermissive ComplianceMode = "permissive"
	ComplianceStrict     ComplianceMode = "strict"
)

// Advisory is a non-blocking validation finding.
type Advisory struct {
	RuleID  string `json:"ruleID"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Snapshot is one consistent view of an editing session: the document and
// everything derived from it at the same commit.
//
// Errors is never null; an empty object means no field carries an error.
// RecordIDs lists the stable record IDs of each group in positional order.
type Snapshot struct {
	Document    application.Document `json:"document"`
	Errors      map[string]string    `json:"errors"`
	Advisories  []Advisory           `json:"advisories"`
	Submittable bool                 `json:"submittable"`
	Fingerprint string               `json:"fingerprint"`
	CID         string               `json:"cid"`
	Algorithm   string               `json:"algorithm"`
	Encoding    string               `json:"encoding"`
	Compliance  ComplianceMode       `json:"compliance"`
	RecordIDs   map[string][]string  `json:"recordIDs,omitempty"`
}

// Submission is what is handed to a submitter: the document together with
// the exact bytes its fingerprint was computed over.
//
// JSON note: Canonical is encoded as base64 by encoding/json.
type Submission struct {
	Document    application.Document `json:"document"`
	Canonical   []byte               `json:"canonical"`
	Fingerprint string               `json:"fingerprint"`
	CID         string               `json:"cid"`
	Algorithm   string               `json:"algorithm"`
	Encoding    string               `json:"encoding"`
}

// Verification reports whether a document reproduces an expected fingerprint.
type Verification struct {
	Algorithm string `json:"algorithm"`
	Expected  string `json:"expected"`
	Computed  string `json:"computed"`
	CID       string `json:"cid"`
	Match     bool   `json:"match"`
}
