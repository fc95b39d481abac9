package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/boilerrat/grant-attestoor/application"
	"github.com/boilerrat/grant-attestoor/canonical"
	"github.com/boilerrat/grant-attestoor/compliance"
	"github.com/boilerrat/grant-attestoor/fingerprint"
	"github.com/boilerrat/grant-attestoor/form"
	"github.com/boilerrat/grant-attestoor/internal/config"
	"github.com/boilerrat/grant-attestoor/internal/logging"
	"github.com/boilerrat/grant-attestoor/model"
	"github.com/boilerrat/grant-attestoor/submit"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		printUsage(errOut)
		return 2
	}

	switch args[0] {
	case "new":
		return cmdNew(args[1:], out, errOut)
	case "edit":
		return cmdEdit(args[1:], out, errOut)
	case "validate":
		return cmdValidate(args[1:], out, errOut)
	case "canonical":
		return cmdCanonical(args[1:], out, errOut)
	case "fingerprint":
		return cmdFingerprint(args[1:], out, errOut)
	case "cid":
		return cmdCID(args[1:], out, errOut)
	case "verify":
		return cmdVerify(args[1:], out, errOut)
	case "submit":
		return cmdSubmit(args[1:], out, errOut)
	case "help", "-h", "--help":
		printUsage(out)
		return 0
	default:
		fmt.Fprintf(errOut, "unknown command: %s\n\n", args[0])
		printUsage(errOut)
		return 2
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "grant-attestoor: grant application fingerprinting CLI")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  grant-attestoor new [--out <file>]")
	fmt.Fprintln(w, "  grant-attestoor edit [--in <file>] [--set field=value ...] [--append group ...] [--update group:index.field=value ...] [--remove group:index ...] [--out <file>]")
	fmt.Fprintln(w, "  grant-attestoor validate [--mode permissive|strict] [--json] <file>")
	fmt.Fprintln(w, "  grant-attestoor canonical [--encoding json|cbor] <file>")
	fmt.Fprintln(w, "  grant-attestoor fingerprint [--alg keccak256|sha3-256|sha256] [--encoding json|cbor] [--hex] <file>")
	fmt.Fprintln(w, "  grant-attestoor cid [--alg ...] [--encoding ...] <file>")
	fmt.Fprintln(w, "  grant-attestoor verify --expect <0xhex|CID> [--strict-canonical] [--alg ...] [--encoding ...] <file>")
	fmt.Fprintln(w, "  grant-attestoor submit [--mode ...] [--include-document] <file>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Notes:")
	fmt.Fprintln(w, "  - <file> is application JSON; any key order and whitespace is accepted unless --strict-canonical")
	fmt.Fprintln(w, "  - defaults come from GRANT_* environment variables or a .env file (--env-file); flags win")
	fmt.Fprintln(w, "  - edit applies --set, then --append, then --update, then --remove, each in the order given")
	fmt.Fprintln(w, "  - canonical writes canonical bytes to stdout (no trailing newline)")
	fmt.Fprintln(w, "  - fingerprint prints the 0x-prefixed digest (EVM bytes32 form)")
	fmt.Fprintln(w, "  - validate and submit exit 1 while any field needs attention")
}

// settings are the options shared by every subcommand that fingerprints.
type settings struct {
	envFile  string
	alg      string
	encoding string
	mode     string
}

func (s *settings) register(fs *flag.FlagSet) {
	fs.StringVar(&s.envFile, "env-file", "", "Read defaults from this .env file")
	fs.StringVar(&s.alg, "alg", "", "Hash algorithm: keccak256, sha3-256 or sha256")
	fs.StringVar(&s.encoding, "encoding", "", "Canonical encoding: json or cbor")
	fs.StringVar(&s.mode, "mode", "", "Compliance mode: permissive or strict")
}

// resolve merges flags over configuration and builds session options and
// the logger. Every error it returns is a usage error.
func (s *settings) resolve(errOut io.Writer) (form.Options, *zap.Logger, error) {
	cfg, err := config.Load(s.envFile)
	if err != nil {
		return form.Options{}, nil, err
	}
	if s.alg != "" {
		cfg.HashAlg = s.alg
	}
	if s.encoding != "" {
		cfg.Encoding = s.encoding
	}
	if s.mode != "" {
		cfg.Compliance = s.mode
	}
	logger := logging.New(cfg.LogLevel, cfg.LogFormat, errOut)
	opts, err := cfg.FormOptions(logger)
	if err != nil {
		return form.Options{}, nil, err
	}
	return opts, logger, nil
}

func readDocument(path string) (application.Document, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return application.Document{}, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	return application.DecodeJSON(b)
}

func writeDocument(doc application.Document, path string, out io.Writer) error {
	b, err := application.MarshalIndent(doc)
	if err != nil {
		return err
	}
	b = append(b, '\n')
	if path == "" {
		_, err = out.Write(b)
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

func reportError(errOut io.Writer, err error) {
	fmt.Fprintln(errOut, model.FromError(err).Error())
}

func cmdNew(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("new", flag.ContinueOnError)
	fs.SetOutput(errOut)
	var outPath string
	fs.StringVar(&outPath, "out", "", "Write the document to this file instead of stdout")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(errOut, "usage: grant-attestoor new [--out <file>]")
		return 2
	}
	if err := writeDocument(application.New(), outPath, out); err != nil {
		fmt.Fprintf(errOut, "write document: %v\n", err)
		return 1
	}
	return 0
}

func cmdValidate(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	fs.SetOutput(errOut)
	var st settings
	var asJSON bool
	st.register(fs)
	fs.BoolVar(&asJSON, "json", false, "Print the full snapshot as JSON")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: grant-attestoor validate [--mode permissive|strict] [--json] <file>")
		return 2
	}
	opts, _, err := st.resolve(errOut)
	if err != nil {
		fmt.Fprintf(errOut, "invalid settings: %v\n", err)
		return 2
	}
	doc, err := readDocument(fs.Arg(0))
	if err != nil {
		reportError(errOut, err)
		return 1
	}
	d, err := form.Derive(doc, opts)
	if err != nil {
		reportError(errOut, err)
		return 1
	}

	if asJSON {
		b, err := json.MarshalIndent(d.Snapshot(), "", "  ")
		if err != nil {
			reportError(errOut, err)
			return 1
		}
		_, _ = fmt.Fprintln(out, string(b))
	} else {
		for _, f := range d.Result.Errors.Fields() {
			_, _ = fmt.Fprintf(out, "%s: %s\n", f, d.Result.Errors[f])
		}
		for _, a := range d.Result.Advisories {
			_, _ = fmt.Fprintf(out, "advisory %s %s: %s\n", a.RuleID, a.Field, a.Message)
		}
		if d.Submittable() {
			_, _ = fmt.Fprintln(out, "submittable")
		}
	}
	if !d.Submittable() {
		return 1
	}
	return 0
}

func cmdCanonical(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("canonical", flag.ContinueOnError)
	fs.SetOutput(errOut)
	var st settings
	st.register(fs)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: grant-attestoor canonical [--encoding json|cbor] <file>")
		return 2
	}
	opts, _, err := st.resolve(errOut)
	if err != nil {
		fmt.Fprintf(errOut, "invalid settings: %v\n", err)
		return 2
	}
	doc, err := readDocument(fs.Arg(0))
	if err != nil {
		reportError(errOut, err)
		return 1
	}
	b, err := canonical.MarshalWith(doc, opts.Encoding)
	if err != nil {
		reportError(errOut, err)
		return 1
	}
	_, _ = out.Write(b)
	return 0
}

func cmdFingerprint(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("fingerprint", flag.ContinueOnError)
	fs.SetOutput(errOut)
	var st settings
	var bare bool
	st.register(fs)
	fs.BoolVar(&bare, "hex", false, "Print lowercase hex without the 0x prefix")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: grant-attestoor fingerprint [--alg ...] [--encoding ...] [--hex] <file>")
		return 2
	}
	d, code := deriveFile(&st, fs.Arg(0), errOut)
	if code != 0 {
		return code
	}
	if bare {
		_, _ = fmt.Fprintln(out, d.Fingerprint.Hex())
	} else {
		_, _ = fmt.Fprintln(out, d.Fingerprint.String())
	}
	return 0
}

func cmdCID(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("cid", flag.ContinueOnError)
	fs.SetOutput(errOut)
	var st settings
	st.register(fs)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: grant-attestoor cid [--alg ...] [--encoding ...] <file>")
		return 2
	}
	d, code := deriveFile(&st, fs.Arg(0), errOut)
	if code != 0 {
		return code
	}
	_, _ = fmt.Fprintln(out, d.CID)
	return 0
}

func deriveFile(st *settings, path string, errOut io.Writer) (form.Derived, int) {
	opts, _, err := st.resolve(errOut)
	if err != nil {
		fmt.Fprintf(errOut, "invalid settings: %v\n", err)
		return form.Derived{}, 2
	}
	doc, err := readDocument(path)
	if err != nil {
		reportError(errOut, err)
		return form.Derived{}, 1
	}
	d, err := form.Derive(doc, opts)
	if err != nil {
		reportError(errOut, err)
		return form.Derived{}, 1
	}
	return d, 0
}

func cmdVerify(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("verify", flag.ContinueOnError)
	fs.SetOutput(errOut)
	var st settings
	var expect string
	var strict bool
	st.register(fs)
	fs.StringVar(&expect, "expect", "", "Expected fingerprint (0x-prefixed or bare hex) or CID")
	fs.BoolVar(&strict, "strict-canonical", false, "Require <file> to already be canonical JSON bytes")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if expect == "" || fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: grant-attestoor verify --expect <0xhex|CID> [--strict-canonical] <file>")
		return 2
	}
	opts, _, err := st.resolve(errOut)
	if err != nil {
		fmt.Fprintf(errOut, "invalid settings: %v\n", err)
		return 2
	}
	want, err := parseExpected(expect, opts.Algorithm)
	if err != nil {
		fmt.Fprintf(errOut, "invalid --expect: %v\n", err)
		return 2
	}
	opts.Algorithm = want.Algorithm()

	b, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(errOut, "read %s: %v\n", filepath.Base(fs.Arg(0)), err)
		return 1
	}
	var doc application.Document
	if strict {
		if opts.Encoding != canonical.JSON {
			fmt.Fprintln(errOut, "--strict-canonical requires --encoding json")
			return 2
		}
		doc, err = canonical.Parse(b)
	} else {
		doc, err = application.DecodeJSON(b)
	}
	if err != nil {
		reportError(errOut, err)
		return 1
	}
	d, err := form.Derive(doc, opts)
	if err != nil {
		reportError(errOut, err)
		return 1
	}

	verr := fingerprint.Verify(d.Canonical, want)
	v := model.Verification{
		Algorithm: string(want.Algorithm()),
		Expected:  want.String(),
		Computed:  d.Fingerprint.String(),
		CID:       d.CID,
		Match:     verr == nil,
	}
	b, err = json.MarshalIndent(v, "", "  ")
	if err != nil {
		reportError(errOut, err)
		return 1
	}
	_, _ = fmt.Fprintln(out, string(b))
	if verr != nil {
		reportError(errOut, verr)
		return 1
	}
	return 0
}

// parseExpected accepts a hex digest for alg or a CID, which carries its own
// algorithm.
func parseExpected(s string, alg fingerprint.Algorithm) (fingerprint.Fingerprint, error) {
	s = strings.TrimSpace(s)
	fp, hexErr := fingerprint.Parse(alg, s)
	if hexErr == nil {
		return fp, nil
	}
	fp, cidErr := fingerprint.ParseCID(s)
	if cidErr == nil {
		return fp, nil
	}
	return fingerprint.Fingerprint{}, fmt.Errorf("%v; %v", hexErr, cidErr)
}

func cmdSubmit(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("submit", flag.ContinueOnError)
	fs.SetOutput(errOut)
	var st settings
	var includeDoc bool
	st.register(fs)
	fs.BoolVar(&includeDoc, "include-document", false, "Include the full document in the submission log entry")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: grant-attestoor submit [--mode ...] [--include-document] <file>")
		return 2
	}
	opts, logger, err := st.resolve(errOut)
	if err != nil {
		fmt.Fprintf(errOut, "invalid settings: %v\n", err)
		return 2
	}
	defer func() { _ = logger.Sync() }()

	doc, err := readDocument(fs.Arg(0))
	if err != nil {
		reportError(errOut, err)
		return 1
	}
	s, err := form.Open(doc, opts)
	if err != nil {
		reportError(errOut, err)
		return 1
	}
	if err := s.Submit(context.Background(), submit.LogSubmitter{Logger: logger, IncludeDocument: includeDoc}); err != nil {
		reportError(errOut, err)
		if opts.Mode == compliance.Strict {
			fmt.Fprintln(errOut, "note: strict mode treats advisories as errors")
		}
		return 1
	}
	_, _ = fmt.Fprintln(out, s.Snapshot().Fingerprint)
	return 0
}
