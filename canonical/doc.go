// Package canonical produces the byte sequence that an application document
// is fingerprinted over.
//
// The default encoding is canonical JSON. Given a copy of a document, a
// verifier reproduces the bytes as follows:
//
//  1. Build one JSON object holding every scalar and every group of the
//     document. Nothing is omitted: empty text is "", flags are true or
//     false, an empty group is [].
//  2. Keep every string value exactly as stored. No Unicode normalization
//     and no trimming is applied, so "Caf\u00e9" and "Cafe\u0301" differ.
//     Text must be valid UTF-8.
//  3. Sort object keys, at every level, by byte order. All keys are ASCII.
//  4. Emit no whitespace between tokens; separators are "," and ":".
//  5. Escape strings as Go's encoding/json does with HTML escaping turned
//     off: '"', '\\' and control characters are escaped (\b, \f, \n, \r, \t
//     short forms, others as \u00XX), U+2028 and U+2029 as \u2028 and \u2029, and
//     every other character is written as raw UTF-8.
//  6. Do not append a trailing newline.
//
// For example the document returned by application.New() serializes to
//
//	{"differentiation":"","ecosystemBenefit":"","followUpReports":false,"grantType":"","kycAgreement":false,"milestones":[{"fundingRequired":"","month":"","summary":"","year":""}],"priorFunding":[{"amount":"","source":""}],"problemSolving":"","projectDetails":"","requestAmount":"","safeAddress":"","socialMediaLinks":[{"name":"","url":""}],"teamExperience":"","teamMembers":[{"ethAddressOrENS":"","link":"","name":"","primarySocialMedia":""}],"termsAndConditions":false,"valueProposition":""}
//
// The alternative CBOR encoding serializes the same object under RFC 8949
// core deterministic encoding rules.
//
// All fingerprinting MUST pass through Marshal or MarshalWith.
package canonical
