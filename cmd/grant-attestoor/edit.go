package main

import (
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/boilerrat/grant-attestoor/application"
	"github.com/boilerrat/grant-attestoor/form"
)

type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }
func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func cmdEdit(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("edit", flag.ContinueOnError)
	fs.SetOutput(errOut)
	var st settings
	var inPath, outPath string
	var sets, appends, updates, removes stringList
	st.register(fs)
	fs.StringVar(&inPath, "in", "", "Start from this document (default: a new document)")
	fs.StringVar(&outPath, "out", "", "Write the document to this file instead of stdout")
	fs.Var(&sets, "set", "Set a scalar as field=value (repeatable; flags take true/false)")
	fs.Var(&appends, "append", "Append a blank record to a group (repeatable)")
	fs.Var(&updates, "update", "Set a record field as group:index.field=value (repeatable)")
	fs.Var(&removes, "remove", "Remove a record as group:index (repeatable)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(errOut, "usage: grant-attestoor edit [--in <file>] [--set field=value ...] [--append group ...] [--update group:index.field=value ...] [--remove group:index ...] [--out <file>]")
		return 2
	}
	opts, logger, err := st.resolve(errOut)
	if err != nil {
		fmt.Fprintf(errOut, "invalid settings: %v\n", err)
		return 2
	}
	defer func() { _ = logger.Sync() }()

	doc := application.New()
	if inPath != "" {
		if doc, err = readDocument(inPath); err != nil {
			reportError(errOut, err)
			return 1
		}
	}
	s, err := form.Open(doc, opts)
	if err != nil {
		reportError(errOut, err)
		return 1
	}

	for _, kv := range sets {
		field, value, ok := strings.Cut(kv, "=")
		if !ok {
			fmt.Fprintf(errOut, "invalid --set %q (expected field=value)\n", kv)
			return 2
		}
		var v any = value
		if application.IsFlagField(field) {
			b, perr := strconv.ParseBool(value)
			if perr != nil {
				fmt.Fprintf(errOut, "invalid --set %q: %s takes true or false\n", kv, field)
				return 2
			}
			v = b
		}
		if err := s.SetScalar(field, v); err != nil {
			reportError(errOut, err)
			return 1
		}
	}
	for _, g := range appends {
		if _, err := s.AppendRecord(g); err != nil {
			reportError(errOut, err)
			return 1
		}
	}
	for _, u := range updates {
		ref, value, ok := strings.Cut(u, "=")
		if !ok {
			fmt.Fprintf(errOut, "invalid --update %q (expected group:index.field=value)\n", u)
			return 2
		}
		loc, field, ok := strings.Cut(ref, ".")
		if !ok {
			fmt.Fprintf(errOut, "invalid --update %q (expected group:index.field=value)\n", u)
			return 2
		}
		g, index, perr := parseRecordRef(loc)
		if perr != nil {
			fmt.Fprintf(errOut, "invalid --update %q: %v\n", u, perr)
			return 2
		}
		if err := s.UpdateRecord(g, index, field, value); err != nil {
			reportError(errOut, err)
			return 1
		}
	}
	for _, r := range removes {
		g, index, perr := parseRecordRef(r)
		if perr != nil {
			fmt.Fprintf(errOut, "invalid --remove %q: %v\n", r, perr)
			return 2
		}
		if err := s.RemoveRecord(g, index); err != nil {
			reportError(errOut, err)
			return 1
		}
	}

	snap := s.Snapshot()
	if err := writeDocument(snap.Document, outPath, out); err != nil {
		fmt.Fprintf(errOut, "write document: %v\n", err)
		return 1
	}
	logger.Info("document written",
		zap.String("fingerprint", snap.Fingerprint),
		zap.Bool("submittable", snap.Submittable),
		zap.Int("errors", len(snap.Errors)),
	)
	return 0
}

// parseRecordRef parses "group:index".
func parseRecordRef(s string) (string, int, error) {
	g, idx, ok := strings.Cut(s, ":")
	if !ok {
		return "", 0, fmt.Errorf("expected group:index")
	}
	index, err := strconv.Atoi(idx)
	if err != nil {
		return "", 0, fmt.Errorf("index %q is not a number", idx)
	}
	return g, index, nil
}
