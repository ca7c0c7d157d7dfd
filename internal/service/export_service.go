package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"mathdoc-be/internal/dto"
	"mathdoc-be/internal/entity"
	"mathdoc-be/internal/pkg/logger"
	"mathdoc-be/internal/pkg/serverutils"
	"mathdoc-be/internal/repository/specification"
	"mathdoc-be/internal/repository/unitofwork"
	"mathdoc-be/pkg/events"
	"mathdoc-be/pkg/lexical"
	"mathdoc-be/pkg/rendercache"
	"mathdoc-be/pkg/site"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

var exportTracer = otel.Tracer("mathdoc-be/export")

type IExportService interface {
	// ExportAll writes every published document and the index below root.
	// An empty root uses the configured one.
	ExportAll(ctx context.Context, root string) (*dto.ExportReport, error)
	// ExportOne rewrites a single post and the index. Unpublished documents
	// are removed from the site instead.
	ExportOne(ctx context.Context, root string, documentId uuid.UUID) (*dto.ExportReport, error)
	// Remove deletes the post with the given handle and rewrites the index.
	Remove(ctx context.Context, root string, handle string) (*dto.ExportReport, error)
}

type ExportOptions struct {
	Root    string
	Workers int
	Minify  bool
}

type exportService struct {
	uowFactory     unitofwork.RepositoryFactory
	assembler      *site.Assembler
	engine         *renderEngine
	opts           ExportOptions
	eventPublisher events.Publisher
	log            logger.ILogger

	indexMu sync.Mutex
}

func NewExportService(
	uowFactory unitofwork.RepositoryFactory,
	assembler *site.Assembler,
	cache *rendercache.Cache,
	opts ExportOptions,
	eventPublisher events.Publisher,
	log logger.ILogger,
) IExportService {
	if opts.Workers <= 0 {
		opts.Workers = 4
	}
	return &exportService{
		uowFactory:     uowFactory,
		assembler:      assembler,
		engine:         newRenderEngine(assembler.Renderer(), cache),
		opts:           opts,
		eventPublisher: eventPublisher,
		log:            log,
	}
}

type pageResult struct {
	entry   site.IndexEntry
	path    string
	failure *dto.ExportFailure
}

func (s *exportService) writer(root string) (*site.Writer, string) {
	if root == "" {
		root = s.opts.Root
	}
	return site.NewWriter(root, s.opts.Minify), root
}

func (s *exportService) ExportAll(ctx context.Context, root string) (*dto.ExportReport, error) {
	start := time.Now()
	writer, root := s.writer(root)

	ctx, span := exportTracer.Start(ctx, "export.all", trace.WithAttributes(attribute.String("export.root", root)))
	defer span.End()

	uow := s.uowFactory.NewUnitOfWork(ctx)
	docs, err := uow.DocumentRepository().FindAll(ctx,
		specification.Published{},
		specification.OrderBy{Field: "updated_at", Desc: true},
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "load documents")
		return nil, fmt.Errorf("load published documents: %w", err)
	}

	results := make([]pageResult, len(docs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Workers)
	for i, doc := range docs {
		i, doc := i, doc
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = s.exportDocument(gctx, writer, doc)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "export cancelled")
		return nil, err
	}

	report := &dto.ExportReport{
		Root:    root,
		Written: make([]string, 0, len(results)),
		Failed:  make([]dto.ExportFailure, 0),
	}
	entries := make([]site.IndexEntry, 0, len(results))
	for _, r := range results {
		if r.path != "" {
			report.Written = append(report.Written, r.path)
			entries = append(entries, r.entry)
		}
		if r.failure != nil {
			report.Failed = append(report.Failed, *r.failure)
		}
	}

	indexPath, err := s.writeIndex(writer, entries)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "write index")
		return nil, err
	}
	report.IndexPath = indexPath
	report.ElapsedMs = time.Since(start).Milliseconds()

	span.SetAttributes(
		attribute.Int("export.written", len(report.Written)),
		attribute.Int("export.failed", len(report.Failed)),
	)
	s.log.Info("EXPORT", "Export finished", map[string]interface{}{
		"root":       root,
		"written":    len(report.Written),
		"failed":     len(report.Failed),
		"elapsed_ms": report.ElapsedMs,
	})
	s.publishCompleted(ctx, report)

	return report, nil
}

func (s *exportService) ExportOne(ctx context.Context, root string, documentId uuid.UUID) (*dto.ExportReport, error) {
	start := time.Now()
	writer, root := s.writer(root)

	ctx, span := exportTracer.Start(ctx, "export.one", trace.WithAttributes(
		attribute.String("export.root", root),
		attribute.String("document.id", documentId.String()),
	))
	defer span.End()

	uow := s.uowFactory.NewUnitOfWork(ctx)
	doc, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: documentId})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if doc == nil {
		return nil, serverutils.NotFound("document")
	}
	if !doc.Published {
		return s.Remove(ctx, root, doc.Handle)
	}

	result := s.exportDocument(ctx, writer, doc)
	report := &dto.ExportReport{Root: root, Written: []string{}, Failed: []dto.ExportFailure{}}
	if result.path != "" {
		report.Written = append(report.Written, result.path)
	}
	if result.failure != nil {
		report.Failed = append(report.Failed, *result.failure)
	}

	if report.IndexPath, err = s.rebuildIndex(ctx, writer); err != nil {
		span.RecordError(err)
		return nil, err
	}
	report.ElapsedMs = time.Since(start).Milliseconds()
	return report, nil
}

func (s *exportService) Remove(ctx context.Context, root string, handle string) (*dto.ExportReport, error) {
	start := time.Now()
	writer, root := s.writer(root)
	if handle == "" {
		return nil, serverutils.BadRequest("handle is required")
	}

	if err := writer.RemovePost(handle); err != nil {
		return nil, err
	}
	s.log.Info("EXPORT", "Post removed", map[string]interface{}{"root": root, "handle": handle})

	indexPath, err := s.rebuildIndex(ctx, writer)
	if err != nil {
		return nil, err
	}
	return &dto.ExportReport{
		Root:      root,
		IndexPath: indexPath,
		Written:   []string{},
		Failed:    []dto.ExportFailure{},
		ElapsedMs: time.Since(start).Milliseconds(),
	}, nil
}

// exportDocument renders and writes one post. Render failures produce an
// error page; load and write failures leave the existing file untouched.
func (s *exportService) exportDocument(ctx context.Context, writer *site.Writer, doc *entity.Document) pageResult {
	meta := site.Meta{Title: doc.Name, Author: doc.AuthorName, Date: doc.PublishedAt()}
	result := pageResult{entry: site.IndexEntry{
		Handle: doc.Handle,
		Title:  doc.Name,
		Author: doc.AuthorName,
		Date:   meta.Date,
	}}
	fail := func(err error) {
		result.failure = &dto.ExportFailure{DocumentId: doc.Id, Handle: doc.Handle, Error: err.Error()}
		s.log.Error("EXPORT", "Document export failed", map[string]interface{}{
			"document_id": doc.Id.String(),
			"handle":      doc.Handle,
			"error":       err.Error(),
		})
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	rev, err := headRevision(ctx, uow, doc)
	if err != nil {
		fail(fmt.Errorf("load revision: %w", err))
		return result
	}

	var page string
	if rev == nil {
		page = s.assembler.Page(lexical.FallbackNoContent, meta)
	} else if body, err := s.engine.HTML(ctx, rev.Data); err != nil {
		fail(fmt.Errorf("render: %w", err))
		page = s.assembler.ErrorPage(meta)
	} else {
		page = s.assembler.Page(body, meta)
		result.entry.Excerpt = excerptOf(rev.Data)
	}

	path, err := writer.WritePost(doc.Handle, page)
	if err != nil {
		fail(err)
		return result
	}
	result.path = path
	return result
}

// rebuildIndex lists every published document again and rewrites the index.
func (s *exportService) rebuildIndex(ctx context.Context, writer *site.Writer) (string, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	docs, err := uow.DocumentRepository().FindAll(ctx, specification.Published{})
	if err != nil {
		return "", fmt.Errorf("load published documents: %w", err)
	}

	entries := make([]site.IndexEntry, 0, len(docs))
	for _, doc := range docs {
		entry := site.IndexEntry{
			Handle: doc.Handle,
			Title:  doc.Name,
			Author: doc.AuthorName,
			Date:   doc.PublishedAt(),
		}
		rev, err := headRevision(ctx, uow, doc)
		if err != nil {
			return "", fmt.Errorf("load revision of %s: %w", doc.Handle, err)
		}
		if rev != nil {
			entry.Excerpt = excerptOf(rev.Data)
		}
		entries = append(entries, entry)
	}
	return s.writeIndex(writer, entries)
}

func (s *exportService) writeIndex(writer *site.Writer, entries []site.IndexEntry) (string, error) {
	s.indexMu.Lock()
	defer s.indexMu.Unlock()

	path, err := writer.WriteIndex(s.assembler.RenderIndex(entries))
	if err != nil {
		return "", fmt.Errorf("write index: %w", err)
	}
	return path, nil
}

func (s *exportService) publishCompleted(ctx context.Context, report *dto.ExportReport) {
	if s.eventPublisher == nil {
		return
	}
	evt := events.NewExportCompleted(report.Root, len(report.Written), len(report.Failed), time.Duration(report.ElapsedMs)*time.Millisecond)
	if err := s.eventPublisher.Publish(ctx, evt); err != nil {
		s.log.Warn("EXPORT", "Failed to publish export event", map[string]interface{}{"error": err.Error()})
	}
}
