// Package export renders the session artifacts: the standalone JSON-LD
// file, the page-embed snippet and the reloadable configuration snapshot.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/semantika/orgforge/internal/entity"
	"github.com/semantika/orgforge/internal/errors"
	"github.com/semantika/orgforge/internal/jsonld"
)

// snapshot is the reloadable configuration document.
type snapshot struct {
	Entity      *entity.Record      `json:"entity"`
	SocialLinks *entity.SocialLinks `json:"social_links"`
}

// marshalPretty renders v with two-space indentation and without HTML
// escaping, so accented labels and URLs stay readable in the artifact.
func marshalPretty(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, errors.Newf("failed to encode export artifact: %w", err).
			Component("export").
			Category(errors.CategoryFileIO).
			Build()
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// JSONLD renders the document as a standalone pretty-printed file.
func JSONLD(doc *jsonld.Document) ([]byte, error) {
	return marshalPretty(doc)
}

// Snippet wraps the document in the fixed page-embed template.
func Snippet(doc *jsonld.Document) ([]byte, error) {
	body, err := marshalPretty(doc)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	buf.WriteString("<script type=\"application/ld+json\">\n")
	buf.Write(body)
	buf.WriteString("\n</script>")
	return buf.Bytes(), nil
}

// Snapshot renders the full session configuration, field for field, for a
// later reload.
func Snapshot(record *entity.Record, links *entity.SocialLinks) ([]byte, error) {
	return marshalPretty(snapshot{Entity: record, SocialLinks: links})
}

// LoadSnapshot parses a configuration snapshot back into a record and
// social links.
func LoadSnapshot(data []byte) (*entity.Record, *entity.SocialLinks, error) {
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, nil, errors.Newf("failed to parse configuration snapshot: %w", err).
			Component("export").
			Category(errors.CategoryJSONParsing).
			Build()
	}
	if snap.Entity == nil {
		return nil, nil, errors.Newf("configuration snapshot has no entity").
			Component("export").
			Category(errors.CategoryValidation).
			Build()
	}
	if snap.SocialLinks == nil {
		snap.SocialLinks = &entity.SocialLinks{}
	}
	return snap.Entity, snap.SocialLinks, nil
}

// FilenameStem picks the export filename stem: registry number first, then
// the entity id, then a generic fallback.
func FilenameStem(record *entity.Record) string {
	switch {
	case record.SIREN != "":
		return record.SIREN
	case record.QID != "":
		return record.QID
	default:
		return "export"
	}
}

// JSONLDFilename is the standalone document filename for a record.
func JSONLDFilename(record *entity.Record) string {
	return fmt.Sprintf("jsonld_%s.json", FilenameStem(record))
}

// SnapshotFilename is the configuration snapshot filename for a record.
func SnapshotFilename(record *entity.Record) string {
	return fmt.Sprintf("config_%s.json", FilenameStem(record))
}
