package application

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/xeipuuv/gojsonschema"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

//go:embed schema.json
var schemaJSON []byte

var loadSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaJSON))
})

// SchemaJSON returns the JSON Schema that DecodeJSON enforces.
func SchemaJSON() []byte {
	return append([]byte(nil), schemaJSON...)
}

// DecodeJSON decodes a serialized document.
//
// The payload must match the document schema: known keys only, strings for
// text fields, booleans for flags, arrays (or null) of well-formed records
// for groups. Missing keys decode to empty values. A leading UTF-8 byte order
// mark is ignored. Input that is not valid UTF-8 is rejected rather than
// decoded with replacement characters.
func DecodeJSON(data []byte) (Document, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		return Document{}, NewError(KindInvalidDocument, "GRANT-DOC-004", "document is not valid UTF-8")
	}
	schema, err := loadSchema()
	if err != nil {
		return Document{}, WrapError(KindInternal, "GRANT-DOC-000", "document schema failed to load", err)
	}
	res, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return Document{}, WrapError(KindInvalidDocument, "GRANT-DOC-001", "document is not valid JSON", err)
	}
	if !res.Valid() {
		msgs := make([]string, 0, len(res.Errors()))
		for _, e := range res.Errors() {
			msgs = append(msgs, e.String())
		}
		return Document{}, NewError(KindInvalidDocument, "GRANT-DOC-002", "document does not match schema: "+strings.Join(msgs, "; "))
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, WrapError(KindInvalidDocument, "GRANT-DOC-003", "document decode failed", err)
	}
	return doc.Clone(), nil
}
