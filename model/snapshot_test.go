package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/boilerrat/grant-attestoor/application"
	"github.com/boilerrat/grant-attestoor/fingerprint"
)

func TestSnapshot_Verification_JSONShape(t *testing.T) {
	v := Verification{
		Algorithm: "keccak256",
		Expected:  "0xaa",
		Computed:  "0xbb",
		CID:       "bafkr-1",
		Match:     false,
	}

	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		t.Fatalf("MarshalIndent failed: %v", err)
	}

	const want = "{\n" +
		"  \"algorithm\": \"keccak256\",\n" +
		"  \"expected\": \"0xaa\",\n" +
		"  \"computed\": \"0xbb\",\n" +
		"  \"cid\": \"bafkr-1\",\n" +
		"  \"match\": false\n" +
		"}"

	if string(b) != want {
		t.Fatalf("snapshot mismatch:\n%s", string(b))
	}
}

func TestSnapshot_Snapshot_JSONShape(t *testing.T) {
	s := Snapshot{
		Document:    application.New(),
		Errors:      map[string]string{"kycAgreement": "Must accept KYC Agreement"},
		Advisories:  []Advisory{{RuleID: "GRANT-ADV-311", Field: "grantType", Message: "Must be one of Builder, Research, Governance, Growth"}},
		Fingerprint: "0x01",
		CID:         "bafkr-1",
		Algorithm:   "keccak256",
		Encoding:    "json",
		Compliance:  CompliancePermissive,
	}
	b, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	for _, part := range []string{
		`"errors":{"kycAgreement":"Must accept KYC Agreement"}`,
		`"advisories":[{"ruleID":"GRANT-ADV-311","field":"grantType","message":"Must be one of Builder, Research, Governance, Growth"}]`,
		`"submittable":false`,
		`"compliance":"permissive"`,
		`"socialMediaLinks":[{"name":"","url":""}]`,
	} {
		if !strings.Contains(string(b), part) {
			t.Fatalf("expected %s in %s", part, b)
		}
	}
	if strings.Contains(string(b), "recordIDs") {
		t.Fatalf("empty recordIDs must be omitted: %s", b)
	}
}

func TestFromError(t *testing.T) {
	cases := []struct {
		err  error
		want ErrorCode
	}{
		{application.InvalidField("nope"), ErrInvalidField},
		{application.IndexOutOfRange(3, 1), ErrIndexOutOfRange},
		{application.NewError(application.KindInvalidDocument, "GRANT-DOC-001", "invalid JSON"), ErrInvalidDocument},
		{application.NewError(application.KindCanonical, "GRANT-CANON-004", "not canonical"), ErrInvalidDocument},
		{fmt.Errorf("verify: %w", fingerprint.ErrMismatch), ErrFingerprintMismatch},
		{NewError(ErrNotSubmittable, "blocked"), ErrNotSubmittable},
		{errors.New("boom"), ErrInternal},
	}
	for _, tc := range cases {
		got := FromError(tc.err)
		if got == nil || got.Code != tc.want {
			t.Fatalf("FromError(%v) = %v, want %s", tc.err, got, tc.want)
		}
	}
	if FromError(nil) != nil {
		t.Fatalf("FromError(nil) must be nil")
	}
}
