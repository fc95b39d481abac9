package form

import (
	"github.com/boilerrat/grant-attestoor/application"
	"github.com/boilerrat/grant-attestoor/canonical"
	"github.com/boilerrat/grant-attestoor/fingerprint"
	"github.com/boilerrat/grant-attestoor/model"
	"github.com/boilerrat/grant-attestoor/validate"
)

// Derived is everything computed from one document value. All fields
// describe the same document.
type Derived struct {
	Document    application.Document
	Result      validate.Result
	Canonical   []byte
	Encoding    canonical.Encoding
	Fingerprint fingerprint.Fingerprint
	CID         string
	Mode        string
}

// Derive validates doc and fingerprints its canonical bytes.
//
// Derive fails only when doc cannot be serialized (a string that is not
// valid UTF-8) or opts names an unsupported algorithm or encoding.
func Derive(doc application.Document, opts Options) (Derived, error) {
	opts = opts.withDefaults()
	doc = doc.Clone()

	canon, err := canonical.MarshalWith(doc, opts.Encoding)
	if err != nil {
		return Derived{}, err
	}
	fp, err := fingerprint.Sum(opts.Algorithm, canon)
	if err != nil {
		return Derived{}, err
	}
	cid, err := fp.CID()
	if err != nil {
		return Derived{}, application.WrapError(application.KindInternal, "GRANT-HASH-301", "CID derivation failed", err)
	}
	res, err := validate.Evaluate(doc, validate.Options{Mode: opts.Mode})
	if err != nil {
		return Derived{}, err
	}
	return Derived{
		Document:    doc,
		Result:      res,
		Canonical:   canon,
		Encoding:    opts.Encoding,
		Fingerprint: fp,
		CID:         cid,
		Mode:        opts.Mode.String(),
	}, nil
}

// Submittable reports whether the derived document may be submitted.
func (d Derived) Submittable() bool { return d.Result.Submittable() }

// Submission returns the payload handed to a submitter. It shares no
// storage with d.
func (d Derived) Submission() model.Submission {
	return model.Submission{
		Document:    d.Document.Clone(),
		Canonical:   append([]byte(nil), d.Canonical...),
		Fingerprint: d.Fingerprint.String(),
		CID:         d.CID,
		Algorithm:   string(d.Fingerprint.Algorithm()),
		Encoding:    string(d.Encoding),
	}
}

// Snapshot returns the boundary view of d.
func (d Derived) Snapshot() model.Snapshot {
	errs := make(map[string]string, len(d.Result.Errors))
	for f, msg := range d.Result.Errors {
		errs[f] = msg
	}
	advisories := make([]model.Advisory, 0, len(d.Result.Advisories))
	for _, a := range d.Result.Advisories {
		advisories = append(advisories, model.Advisory{RuleID: a.RuleID, Field: a.Field, Message: a.Message})
	}
	return model.Snapshot{
		Document:    d.Document.Clone(),
		Errors:      errs,
		Advisories:  advisories,
		Submittable: d.Submittable(),
		Fingerprint: d.Fingerprint.String(),
		CID:         d.CID,
		Algorithm:   string(d.Fingerprint.Algorithm()),
		Encoding:    string(d.Encoding),
		Compliance:  model.ComplianceMode(d.Mode),
	}
}
