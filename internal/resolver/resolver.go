// Package resolver establishes the parent-organization linkage of a record
// from the available sources in strict priority order.
package resolver

import (
	"context"
	"io"
	"log"
	"log/slog"
	"path/filepath"

	"github.com/semantika/orgforge/internal/entity"
	"github.com/semantika/orgforge/internal/logging"
	"github.com/semantika/orgforge/internal/mistral"
	"github.com/semantika/orgforge/internal/wikidata"
)

// Package-level logger specific to the resolver service
var (
	logger          *slog.Logger
	serviceLevelVar = new(slog.LevelVar)
	closeLogger     func() error
)

func init() {
	var err error
	logFilePath := filepath.Join("logs", "resolver.log")
	serviceLevelVar.Set(slog.LevelDebug)

	logger, closeLogger, err = logging.NewFileLogger(logFilePath, "resolver", serviceLevelVar)
	if err != nil {
		log.Printf("FATAL: Failed to initialize resolver file logger at %s: %v. Service logging disabled.", logFilePath, err)
		fbHandler := slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{Level: serviceLevelVar})
		logger = slog.New(fbHandler).With("service", "resolver")
		closeLogger = func() error { return nil }
	}
}

// KnowledgeBase is the subset of the knowledge-base client the resolver needs.
type KnowledgeBase interface {
	Search(ctx context.Context, query string) []wikidata.SearchResult
	GetEntity(ctx context.Context, qid string) wikidata.EntityDetail
	GetLabel(ctx context.Context, qid string) string
	GetRegistryNumber(ctx context.Context, qid string) string
}

// Registry resolves a company name to its registry number.
type Registry interface {
	ResolveSiren(ctx context.Context, name string) string
}

// Assistant provides the lowest-confidence enrichment source.
type Assistant interface {
	Enrich(ctx context.Context, facts mistral.Facts) *mistral.Enrichment
}

// Resolver walks the parent sources in priority order: the subject's
// parent-organization claim, then its owned-by claim, then (only on explicit
// request) the assistant's guess.
type Resolver struct {
	kb        KnowledgeBase
	registry  Registry
	assistant Assistant
}

// New creates a resolver. registry and assistant may be nil; the
// corresponding steps are then skipped.
func New(kb KnowledgeBase, registry Registry, assistant Assistant) *Resolver {
	return &Resolver{kb: kb, registry: registry, assistant: assistant}
}

// Close cleans up resolver resources.
func (r *Resolver) Close() {
	if closeLogger != nil {
		if err := closeLogger(); err != nil {
			log.Printf("Error closing resolver logger: %v", err)
		}
	}
}

// Resolve fills the record's parent linkage from the subject's own claims.
// An already-attributed linkage is left untouched. A record without a QID, or
// a subject without parent claims, resolves to nothing; that is not an error.
func (r *Resolver) Resolve(ctx context.Context, record *entity.Record) error {
	if record == nil {
		return nil
	}
	if record.ParentOrgSource != "" {
		logger.Debug("parent already resolved, skipping",
			"qid", record.QID, "source", record.ParentOrgSource)
		return nil
	}
	if record.QID == "" {
		logger.Debug("record has no entity id, nothing to resolve", "name", record.Name)
		return nil
	}

	detail := r.kb.GetEntity(ctx, record.QID)

	if detail.ParentQID != "" {
		return r.establish(ctx, record, detail.ParentQID, entity.SourceParentOrg)
	}
	if detail.OwnedByQID != "" {
		return r.establish(ctx, record, detail.OwnedByQID, entity.SourceOwnedBy)
	}

	logger.Info("no parent claims on subject", "qid", record.QID)
	return nil
}

// ResolveWithAssistant runs Resolve and, if the claims yielded nothing, asks
// the assistant for a parent guess. A guessed name without an entity id is
// completed by a best-effort knowledge-base search on the name.
func (r *Resolver) ResolveWithAssistant(ctx context.Context, record *entity.Record) error {
	if err := r.Resolve(ctx, record); err != nil {
		return err
	}
	if record == nil || record.ParentOrgSource != "" || r.assistant == nil {
		return nil
	}

	enrichment := r.assistant.Enrich(ctx, mistral.Facts{
		Name:  record.Name,
		SIREN: record.SIREN,
		QID:   record.QID,
	})
	if enrichment == nil || enrichment.ParentOrgName == "" && enrichment.ParentOrgQID == "" {
		logger.Info("assistant offered no parent", "name", record.Name)
		return nil
	}

	name := enrichment.ParentOrgName
	qid := enrichment.ParentOrgQID
	if qid == "" && name != "" {
		if hits := r.kb.Search(ctx, name); len(hits) > 0 {
			qid = hits[0].QID
			logger.Debug("completed assistant parent via search",
				"parent_name", name, "parent_qid", qid)
		}
	}
	if name == "" && qid != "" {
		name = r.kb.GetLabel(ctx, qid)
	}
	if name == "" {
		logger.Warn("assistant parent unusable, no name", "parent_qid", qid)
		return nil
	}

	if err := record.SetParent(name, qid, entity.SourceAssistant); err != nil {
		return err
	}
	logger.Info("parent resolved from assistant",
		"parent_name", name, "parent_qid", qid)
	r.enrichParentSiren(ctx, record)
	return nil
}

// establish records a parent found in the subject's claims and then tries to
// enrich it with a registry number.
func (r *Resolver) establish(ctx context.Context, record *entity.Record, parentQID, source string) error {
	name := r.kb.GetLabel(ctx, parentQID)
	if err := record.SetParent(name, parentQID, source); err != nil {
		return err
	}
	logger.Info("parent resolved from claims",
		"qid", record.QID, "parent_qid", parentQID, "parent_name", name, "source", source)
	r.enrichParentSiren(ctx, record)
	return nil
}

// enrichParentSiren fills the parent's registry number from the parent's own
// claims, falling back to a registry name lookup. Failure leaves the field
// empty.
func (r *Resolver) enrichParentSiren(ctx context.Context, record *entity.Record) {
	if record.ParentOrgQID != "" {
		if siren := r.kb.GetRegistryNumber(ctx, record.ParentOrgQID); siren != "" {
			if err := record.SetParentSIREN(siren); err == nil {
				logger.Debug("parent registry number from claims",
					"parent_qid", record.ParentOrgQID, "parent_siren", siren)
			}
			return
		}
	}
	if r.registry == nil || record.ParentOrgName == "" {
		return
	}
	if siren := r.registry.ResolveSiren(ctx, record.ParentOrgName); siren != "" {
		if err := record.SetParentSIREN(siren); err == nil {
			logger.Debug("parent registry number from registry lookup",
				"parent_name", record.ParentOrgName, "parent_siren", siren)
		}
	}
}
