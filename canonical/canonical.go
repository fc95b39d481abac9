package canonical

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/boilerrat/grant-attestoor/application"
)

// Encoding names a canonical byte encoding.
type Encoding string

const (
	// JSON is the default encoding, documented in the package comment.
	JSON Encoding = "json"
	// CBOR is RFC 8949 core deterministic CBOR of the same object.
	CBOR Encoding = "cbor"
)

// ParseEncoding parses an encoding name. The empty string selects JSON.
func ParseEncoding(s string) (Encoding, error) {
	switch Encoding(strings.ToLower(strings.TrimSpace(s))) {
	case "", JSON:
		return JSON, nil
	case CBOR:
		return CBOR, nil
	}
	return "", fmt.Errorf("unknown encoding %q (want json or cbor)", s)
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Marshal returns the canonical JSON bytes of doc.
func Marshal(doc application.Document) ([]byte, error) {
	return MarshalWith(doc, JSON)
}

// MarshalWith returns the canonical bytes of doc under enc.
//
// Two documents with equal logical content always produce identical bytes,
// regardless of the order in which they were built.
func MarshalWith(doc application.Document, enc Encoding) ([]byte, error) {
	obj, err := project(doc)
	if err != nil {
		return nil, err
	}
	switch enc {
	case JSON, "":
		var buf bytes.Buffer
		if err := writeValue(&buf, obj); err != nil {
			return nil, application.WrapError(application.KindInternal, "GRANT-CANON-000", "canonical JSON encoding failed", err)
		}
		return buf.Bytes(), nil
	case CBOR:
		em, err := cborMode()
		if err != nil {
			return nil, application.WrapError(application.KindInternal, "GRANT-CANON-000", "CBOR encoder unavailable", err)
		}
		out, err := em.Marshal(obj)
		if err != nil {
			return nil, application.WrapError(application.KindInternal, "GRANT-CANON-000", "canonical CBOR encoding failed", err)
		}
		return out, nil
	}
	return nil, application.NewError(application.KindInternal, "GRANT-CANON-000", fmt.Sprintf("unknown encoding %q", enc))
}

// Parse is the strict verifier entry point: it decodes data and rejects it
// unless data is byte-for-byte the canonical JSON of the decoded document.
func Parse(data []byte) (application.Document, error) {
	if err := applyParseRules(data, parseRules()); err != nil {
		return application.Document{}, err
	}
	doc, err := application.DecodeJSON(data)
	if err != nil {
		return application.Document{}, err
	}
	want, err := Marshal(doc)
	if err != nil {
		return application.Document{}, err
	}
	if !bytes.Equal(data, want) {
		return application.Document{}, application.NewError(application.KindCanonical, "GRANT-CANON-004", "input is not in canonical form")
	}
	return doc, nil
}

// Normalize decodes any valid document JSON and returns its canonical JSON
// bytes. A leading byte order mark is ignored, as in application.DecodeJSON.
func Normalize(data []byte) ([]byte, error) {
	doc, err := application.DecodeJSON(data)
	if err != nil {
		return nil, err
	}
	return Marshal(doc)
}

type recordFields interface {
	Fields() []string
	Field(name string) (string, error)
}

// project builds the object that is serialized: every scalar and every group,
// with strings exactly as stored.
func project(doc application.Document) (map[string]any, error) {
	obj := make(map[string]any, 16)
	for _, f := range application.TextFields() {
		v, err := doc.Text(f)
		if err != nil {
			return nil, err
		}
		if err := checkUTF8(f, v); err != nil {
			return nil, err
		}
		obj[f] = v
	}
	for _, f := range application.FlagFields() {
		v, err := doc.Flag(f)
		if err != nil {
			return nil, err
		}
		obj[f] = v
	}

	var err error
	if obj[application.GroupSocialMediaLinks], err = projectGroup(application.GroupSocialMediaLinks, doc.SocialMediaLinks); err != nil {
		return nil, err
	}
	if obj[application.GroupTeamMembers], err = projectGroup(application.GroupTeamMembers, doc.TeamMembers); err != nil {
		return nil, err
	}
	if obj[application.GroupMilestones], err = projectGroup(application.GroupMilestones, doc.Milestones); err != nil {
		return nil, err
	}
	if obj[application.GroupPriorFunding], err = projectGroup(application.GroupPriorFunding, doc.PriorFunding); err != nil {
		return nil, err
	}
	return obj, nil
}

func projectGroup[R recordFields](group string, records []R) ([]any, error) {
	out := make([]any, 0, len(records))
	for i, r := range records {
		rec := map[string]any{}
		for _, name := range r.Fields() {
			v, err := r.Field(name)
			if err != nil {
				return nil, err
			}
			if err := checkUTF8(fmt.Sprintf("%s[%d].%s", group, i, name), v); err != nil {
				return nil, err
			}
			rec[name] = v
		}
		out = append(out, rec)
	}
	return out, nil
}

// checkUTF8 rejects text that encoding/json would silently rewrite to U+FFFD.
func checkUTF8(path, s string) error {
	if !utf8.ValidString(s) {
		return application.NewError(application.KindCanonical, "GRANT-CANON-001", fmt.Sprintf("%s is not valid UTF-8", path))
	}
	return nil
}

func writeValue(buf *bytes.Buffer, v any) error {
	switch x := v.(type) {
	case string:
		return writeString(buf, x)
	case bool:
		if x {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
		return nil
	case []any:
		buf.WriteByte('[')
		for i, e := range x {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeValue(buf, e); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeString(buf, k); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := writeValue(buf, x[k]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
		return nil
	}
	return fmt.Errorf("unsupported value type %T", v)
}

func writeString(buf *bytes.Buffer, s string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	buf.Write(bytes.TrimSuffix(tmp.Bytes(), []byte("\n")))
	return nil
}
