package classifications

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	gaconfig "github.com/JaimeStill/go-agents/pkg/config"

	"github.com/opsdesk/mailtriage/internal/documents"
	"github.com/opsdesk/mailtriage/internal/workflow"
	"github.com/opsdesk/mailtriage/pkg/pagination"
	"github.com/opsdesk/mailtriage/pkg/query"
	"github.com/opsdesk/mailtriage/pkg/repository"
)

type repo struct {
	db         *sql.DB
	rt         *workflow.Runtime
	agent      gaconfig.AgentConfig
	docs       documents.System
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a classification repository implementing the System interface.
// The agent config is only consulted for provenance columns; the runtime
// carries the live scoring engine.
func New(
	db *sql.DB,
	rt *workflow.Runtime,
	agent gaconfig.AgentConfig,
	docs documents.System,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		rt:         rt,
		agent:      agent,
		docs:       docs,
		logger:     logger.With("system", "classifications"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Classification], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "RequestType", "Reason")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count classifications: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanClassification)
	if err != nil {
		return nil, fmt.Errorf("query classifications: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Classification, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	c, err := repository.QueryOne(ctx, r.db, q, args, scanClassification)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &c, nil
}

func (r *repo) ByDocument(ctx context.Context, documentID uuid.UUID) ([]Classification, error) {
	qb := query.
		NewBuilder(projection, query.SortField{Field: "Position"}).
		WhereEquals("DocumentID", &documentID)

	q, args := qb.Build()
	items, err := repository.QueryMany(ctx, r.db, q, args, scanClassification)
	if err != nil {
		return nil, fmt.Errorf("query document classifications: %w", err)
	}

	return items, nil
}

// Classify downloads the document blob, runs the triage workflow against it,
// and replaces the document's stored records with the new result set.
// Reclassification is idempotent: prior rows are discarded in the same
// transaction that inserts the replacements.
func (r *repo) Classify(ctx context.Context, documentID uuid.UUID) ([]Classification, error) {
	data, doc, err := r.docs.Download(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("fetch document %s: %w", documentID, err)
	}

	dir, err := os.MkdirTemp("", "mailtriage-classify-*")
	if err != nil {
		return nil, fmt.Errorf("create scratch dir: %w", err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, filepath.Base(doc.Filename))
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return nil, fmt.Errorf("stage document: %w", err)
	}

	result, err := workflow.Execute(ctx, r.rt, path)
	if err != nil {
		return nil, fmt.Errorf("classify document %s: %w", documentID, err)
	}

	status := documents.StatusClassified
	var duplicateOf *string
	if result.DuplicateOf != "" {
		status = documents.StatusDuplicate
		duplicateOf = &result.DuplicateOf
	}

	insertQ := `
		INSERT INTO classifications(
			document_id, position, request_type, sub_request_type, confidence,
			reason, extracted_data, is_primary, assigned_team, duplicate_of,
			model_name, provider_name
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, document_id, position, request_type, sub_request_type, confidence,
				  reason, extracted_data, is_primary, assigned_team, duplicate_of,
				  model_name, provider_name, classified_at`

	stored, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) ([]Classification, error) {
		if _, err := tx.ExecContext(
			ctx,
			"DELETE FROM classifications WHERE document_id = $1",
			documentID,
		); err != nil {
			return nil, fmt.Errorf("clear prior classifications: %w", err)
		}

		rows := make([]Classification, 0, len(result.Records))
		for i, rec := range result.Records {
			extracted := []byte("{}")
			if len(rec.ExtractedData) > 0 {
				extracted, err = json.Marshal(rec.ExtractedData)
				if err != nil {
					return nil, fmt.Errorf("marshal extracted_data: %w", err)
				}
			}

			var team *string
			if rec.AssignedTeam != "" {
				team = &rec.AssignedTeam
			}

			args := []any{
				documentID,
				i,
				rec.RequestType,
				rec.SubRequestType,
				rec.Confidence,
				rec.Reason,
				extracted,
				rec.IsPrimary,
				team,
				duplicateOf,
				r.agent.Model.Name,
				r.agent.Provider.Name,
			}

			c, err := repository.QueryOne(ctx, tx, insertQ, args, scanClassification)
			if err != nil {
				return nil, fmt.Errorf("insert classification: %w", err)
			}

			rows = append(rows, c)
		}

		if err := repository.ExecExpectOne(
			ctx, tx,
			"UPDATE documents SET status = $2, updated_at = now() WHERE id = $1",
			documentID, status,
		); err != nil {
			return nil, fmt.Errorf("update document status: %w", err)
		}

		return rows, nil
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("document classified",
		"document_id", documentID,
		"records", len(stored),
		"status", status,
	)
	return stored, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM classifications WHERE id = $1",
			id,
		); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("classification deleted", "id", id)
	return nil
}
