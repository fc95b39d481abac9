package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boilerrat/grant-attestoor/application"
	"github.com/boilerrat/grant-attestoor/canonical"
	"github.com/boilerrat/grant-attestoor/fingerprint"
)

var vectorRoot = filepath.Join("..", "..", "testdata", "conformance", "grant-1")

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code := run(args, &out, &errOut)
	return code, out.String(), errOut.String()
}

func vector(t *testing.T, name string) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join(vectorRoot, name))
	require.NoError(t, err)
	return strings.TrimSpace(string(b))
}

func TestUsage(t *testing.T) {
	code, _, errOut := runCLI(t)
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "Usage:")

	code, out, _ := runCLI(t, "help")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "grant-attestoor fingerprint")

	code, _, errOut = runCLI(t, "sign")
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "unknown command: sign")
}

func TestNewPrintsSeededDocument(t *testing.T) {
	code, out, _ := runCLI(t, "new")
	require.Equal(t, 0, code)
	doc, err := application.DecodeJSON([]byte(out))
	require.NoError(t, err)
	assert.True(t, doc.Equal(application.New()))
}

func TestEditAppliesEditsInOrder(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.json")

	code, _, errOut := runCLI(t, "edit",
		"--set", "grantType=Research",
		"--set", "kycAgreement=true",
		"--append", "teamMembers",
		"--update", "teamMembers:1.name=Bo",
		"--remove", "teamMembers:0",
		"--remove", "priorFunding:0",
		"--out", path,
	)
	require.Equal(t, 0, code, errOut)

	doc := readFile(t, path)
	assert.Equal(t, application.Research, doc.GrantType)
	assert.True(t, doc.KYCAgreement)
	require.Len(t, doc.TeamMembers, 1)
	assert.Equal(t, "Bo", doc.TeamMembers[0].Name)
	assert.Empty(t, doc.PriorFunding)

	// A later edit starts from the written file.
	code, out, errOut := runCLI(t, "edit", "--in", path, "--set", "termsAndConditions=true")
	require.Equal(t, 0, code, errOut)
	doc, err := application.DecodeJSON([]byte(out))
	require.NoError(t, err)
	assert.True(t, doc.TermsAndConditions)
	assert.Equal(t, "Bo", doc.TeamMembers[0].Name)
}

func TestEditRejectsBadInput(t *testing.T) {
	cases := []struct {
		args []string
		code int
		msg  string
	}{
		{[]string{"--set", "grantType"}, 2, "expected field=value"},
		{[]string{"--set", "kycAgreement=maybe"}, 2, "takes true or false"},
		{[]string{"--set", "budget=1"}, 1, "INVALID_FIELD"},
		{[]string{"--remove", "milestones:7"}, 1, "INDEX_OUT_OF_RANGE"},
		{[]string{"--remove", "milestones"}, 2, "expected group:index"},
		{[]string{"--update", "milestones:0.amount=1"}, 1, "INVALID_FIELD"},
	}
	for _, tc := range cases {
		code, _, errOut := runCLI(t, append([]string{"edit"}, tc.args...)...)
		assert.Equal(t, tc.code, code, tc.args)
		assert.Contains(t, errOut, tc.msg, tc.args)
	}
}

func TestValidate(t *testing.T) {
	path := writeFile(t, "new.json", mustNewJSON(t))
	code, out, _ := runCLI(t, "validate", path)
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "kycAgreement: Must accept KYC Agreement\n")
	assert.Contains(t, out, "grantType: Required\n")

	code, out, _ = runCLI(t, "validate", filepath.Join(vectorRoot, "application_1.json"))
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "submittable")

	code, out, _ = runCLI(t, "validate", "--json", filepath.Join(vectorRoot, "application_1.json"))
	assert.Equal(t, 0, code)
	assert.Contains(t, out, `"submittable": true`)
	assert.Contains(t, out, `"fingerprint": "0x`+vector(t, "application_1.keccak256")+`"`)
}

func TestValidateStrictMode(t *testing.T) {
	doc := readFile(t, filepath.Join(vectorRoot, "application_1.json"))
	doc.GrantType = "Marketing"
	b, err := application.MarshalIndent(doc)
	require.NoError(t, err)
	path := writeFile(t, "app.json", b)

	code, out, _ := runCLI(t, "validate", path)
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "advisory GRANT-ADV-311 grantType")

	code, out, _ = runCLI(t, "validate", "--mode", "strict", path)
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "grantType: Must be one of Builder, Research, Governance, Growth")
}

func TestCanonicalNormalizesInput(t *testing.T) {
	code, out, errOut := runCLI(t, "canonical", filepath.Join(vectorRoot, "application_1.noncanonical_indent.json"))
	require.Equal(t, 0, code, errOut)
	assert.Equal(t, vector(t, "application_1.json"), out)
	assert.False(t, strings.HasSuffix(out, "\n"))
}

func TestFingerprintAndCID(t *testing.T) {
	path := filepath.Join(vectorRoot, "application_1.noncanonical_unsorted.json")

	code, out, _ := runCLI(t, "fingerprint", path)
	require.Equal(t, 0, code)
	assert.Equal(t, "0x"+vector(t, "application_1.keccak256")+"\n", out)

	code, out, _ = runCLI(t, "fingerprint", "--hex", "--alg", "sha256", path)
	require.Equal(t, 0, code)
	assert.Equal(t, vector(t, "application_1.sha256")+"\n", out)

	code, out, _ = runCLI(t, "cid", path)
	require.Equal(t, 0, code)
	assert.Equal(t, vector(t, "application_1.cid")+"\n", out)

	code, _, errOut := runCLI(t, "fingerprint", "--alg", "md5", path)
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "invalid settings")
}

func TestInvalidUTF8InputIsRejected(t *testing.T) {
	path := writeFile(t, "bad.json", []byte("{\"teamExperience\":\"bad \xff byte\"}"))
	for _, cmd := range []string{"fingerprint", "cid", "validate", "canonical"} {
		code, out, errOut := runCLI(t, cmd, path)
		assert.Equal(t, 1, code, cmd)
		assert.Empty(t, out, cmd)
		assert.Contains(t, errOut, "INVALID_DOCUMENT", cmd)
	}
}

func TestBOMPrefixedInputIsAccepted(t *testing.T) {
	canon := []byte(vector(t, "application_1.json"))
	path := writeFile(t, "bom.json", append([]byte{0xEF, 0xBB, 0xBF}, canon...))

	code, out, errOut := runCLI(t, "fingerprint", path)
	require.Equal(t, 0, code, errOut)
	assert.Equal(t, "0x"+vector(t, "application_1.keccak256")+"\n", out)

	code, out, errOut = runCLI(t, "canonical", path)
	require.Equal(t, 0, code, errOut)
	assert.Equal(t, string(canon), out)

	code, _, errOut = runCLI(t, "validate", path)
	assert.Equal(t, 0, code, errOut)
}

func TestVerify(t *testing.T) {
	canonPath := filepath.Join(vectorRoot, "application_1.json")
	indentPath := filepath.Join(vectorRoot, "application_1.noncanonical_indent.json")
	want := vector(t, "application_1.keccak256")

	code, out, errOut := runCLI(t, "verify", "--expect", "0x"+want, indentPath)
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, `"match": true`)

	code, _, errOut = runCLI(t, "verify", "--expect", vector(t, "application_1.cid"), "--strict-canonical", canonPath)
	assert.Equal(t, 0, code, errOut)

	code, _, errOut = runCLI(t, "verify", "--expect", vector(t, "application_1.sha3-256"), "--alg", "sha3-256", canonPath)
	assert.Equal(t, 0, code, errOut)

	code, _, errOut = runCLI(t, "verify", "--expect", want, "--strict-canonical", indentPath)
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "INVALID_DOCUMENT")

	other := vector(t, "new.keccak256")
	code, out, errOut = runCLI(t, "verify", "--expect", other, canonPath)
	assert.Equal(t, 1, code)
	assert.Contains(t, out, `"match": false`)
	assert.Contains(t, errOut, "FINGERPRINT_MISMATCH")

	code, _, _ = runCLI(t, "verify", "--expect", "0x1234", canonPath)
	assert.Equal(t, 2, code)
}

func TestSubmit(t *testing.T) {
	t.Setenv("GRANT_LOG_FORMAT", "json")

	path := writeFile(t, "new.json", mustNewJSON(t))
	code, _, errOut := runCLI(t, "submit", path)
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "NOT_SUBMITTABLE")

	code, out, errOut := runCLI(t, "submit", filepath.Join(vectorRoot, "application_1.json"))
	require.Equal(t, 0, code, errOut)
	assert.Equal(t, "0x"+vector(t, "application_1.keccak256")+"\n", out)
	assert.Contains(t, errOut, `"msg":"application submitted"`)
}

func TestEnvFileSetsDefaults(t *testing.T) {
	envPath := writeFile(t, "grant.env", []byte("GRANT_HASH_ALG=sha3-256\n"))
	code, out, errOut := runCLI(t, "fingerprint", "--hex", "--env-file", envPath, filepath.Join(vectorRoot, "application_1.json"))
	require.Equal(t, 0, code, errOut)
	assert.Equal(t, vector(t, "application_1.sha3-256")+"\n", out)

	code, _, _ = runCLI(t, "fingerprint", "--env-file", filepath.Join(t.TempDir(), "missing.env"), filepath.Join(vectorRoot, "application_1.json"))
	assert.Equal(t, 2, code)
}

func TestCBOREncoding(t *testing.T) {
	path := filepath.Join(vectorRoot, "application_1.json")
	code, out, errOut := runCLI(t, "fingerprint", "--encoding", "cbor", path)
	require.Equal(t, 0, code, errOut)

	doc := readFile(t, path)
	b, err := canonical.MarshalWith(doc, canonical.CBOR)
	require.NoError(t, err)
	assert.Equal(t, fingerprint.Keccak256(b).String()+"\n", out)
}

func mustNewJSON(t *testing.T) []byte {
	t.Helper()
	b, err := application.MarshalIndent(application.New())
	require.NoError(t, err)
	return b
}

func writeFile(t *testing.T, name string, b []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func readFile(t *testing.T, path string) application.Document {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	doc, err := application.DecodeJSON(b)
	require.NoError(t, err)
	return doc
}
