package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
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
)

const defaultListLimit = 50

type IDocumentService interface {
	List(ctx context.Context, req *dto.ListDocumentsRequest) ([]*dto.DocumentListItem, error)
	Create(ctx context.Context, req *dto.CreateDocumentRequest) (*dto.CreateDocumentResponse, error)
	Show(ctx context.Context, id uuid.UUID) (*dto.ShowDocumentResponse, error)
	Update(ctx context.Context, req *dto.UpdateDocumentRequest) (*dto.UpdateDocumentResponse, error)
	SaveRevision(ctx context.Context, req *dto.SaveRevisionRequest) (*dto.SaveRevisionResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Move(ctx context.Context, req *dto.MoveDocumentRequest) (*dto.MoveDocumentResponse, error)
	Render(ctx context.Context, id uuid.UUID) (*dto.RenderDocumentResponse, error)
	RenderMarkdown(ctx context.Context, id uuid.UUID) (*dto.RenderDocumentResponse, error)
	Preview(ctx context.Context, req *dto.PreviewRequest) (*dto.PreviewResponse, error)
}

type documentService struct {
	uowFactory       unitofwork.RepositoryFactory
	assembler        *site.Assembler
	engine           *renderEngine
	publisherService IPublisherService
	eventPublisher   events.Publisher
	log              logger.ILogger
}

// NewDocumentService wires the document use cases. publisherService and
// eventPublisher may be nil; saves then skip export jobs and bus events.
func NewDocumentService(
	uowFactory unitofwork.RepositoryFactory,
	assembler *site.Assembler,
	cache *rendercache.Cache,
	publisherService IPublisherService,
	eventPublisher events.Publisher,
	log logger.ILogger,
) IDocumentService {
	return &documentService{
		uowFactory:       uowFactory,
		assembler:        assembler,
		engine:           newRenderEngine(assembler.Renderer(), cache),
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
		log:              log,
	}
}

func (c *documentService) List(ctx context.Context, req *dto.ListDocumentsRequest) ([]*dto.DocumentListItem, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	specs := []specification.Specification{}
	if req.DirectoryId != nil {
		specs = append(specs, specification.ByDirectoryID{DirectoryID: req.DirectoryId})
	}
	if req.PublishedOnly {
		specs = append(specs, specification.Published{})
	}
	limit := req.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	specs = append(specs,
		specification.OrderBy{Field: "updated_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: req.Offset},
	)

	docs, err := uow.DocumentRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.DocumentListItem, 0, len(docs))
	for _, doc := range docs {
		result = append(result, &dto.DocumentListItem{
			Id:          doc.Id,
			Handle:      doc.Handle,
			Name:        doc.Name,
			AuthorName:  doc.AuthorName,
			DirectoryId: doc.DirectoryId,
			Published:   doc.Published,
			CreatedAt:   doc.CreatedAt,
			UpdatedAt:   doc.UpdatedAt,
		})
	}
	return result, nil
}

func (c *documentService) Create(ctx context.Context, req *dto.CreateDocumentRequest) (*dto.CreateDocumentResponse, error) {
	var data []byte
	if len(bytes.TrimSpace(req.Data)) > 0 && !bytes.Equal(bytes.TrimSpace(req.Data), []byte("null")) {
		var err error
		if data, err = canonicalDocument(req.Data); err != nil {
			return nil, err
		}
	}

	uow := c.uowFactory.NewUnitOfWork(ctx)

	if req.DirectoryId != nil {
		if err := requireDirectory(ctx, uow, *req.DirectoryId); err != nil {
			return nil, err
		}
	}

	base := req.Handle
	if base == "" {
		base = req.Name
	}
	handle, err := site.UniqueHandle(base, handleTaken(ctx, uow, uuid.Nil))
	if err != nil {
		return nil, err
	}

	now := time.Now()
	doc := entity.Document{
		Id:          uuid.New(),
		Handle:      handle,
		Name:        req.Name,
		AuthorName:  req.AuthorName,
		DirectoryId: req.DirectoryId,
		Published:   req.Published,
		CreatedAt:   now,
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.DocumentRepository().Create(ctx, &doc); err != nil {
		return nil, err
	}

	var rev *entity.Revision
	if data != nil {
		rev = &entity.Revision{
			Id:         uuid.New(),
			DocumentId: doc.Id,
			Data:       data,
			AuthorName: req.AuthorName,
			CreatedAt:  now,
		}
		if err := uow.RevisionRepository().Create(ctx, rev); err != nil {
			return nil, err
		}
		doc.HeadRevisionId = &rev.Id
		if err := uow.DocumentRepository().Update(ctx, &doc); err != nil {
			return nil, err
		}
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	if rev != nil {
		c.afterSave(ctx, &doc, rev)
	}

	return &dto.CreateDocumentResponse{Id: doc.Id, Handle: doc.Handle}, nil
}

func (c *documentService) Show(ctx context.Context, id uuid.UUID) (*dto.ShowDocumentResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	doc, err := findDocument(ctx, uow, id)
	if err != nil {
		return nil, err
	}

	breadcrumb, err := buildBreadcrumb(ctx, uow, doc.DirectoryId)
	if err != nil {
		return nil, err
	}

	rev, err := headRevision(ctx, uow, doc)
	if err != nil {
		return nil, err
	}

	res := &dto.ShowDocumentResponse{
		Id:             doc.Id,
		Handle:         doc.Handle,
		Name:           doc.Name,
		AuthorName:     doc.AuthorName,
		DirectoryId:    doc.DirectoryId,
		Published:      doc.Published,
		HeadRevisionId: doc.HeadRevisionId,
		Breadcrumb:     breadcrumb,
		CreatedAt:      doc.CreatedAt,
		UpdatedAt:      doc.UpdatedAt,
	}
	if rev != nil {
		res.Data = json.RawMessage(rev.Data)
	}
	return res, nil
}

func (c *documentService) Update(ctx context.Context, req *dto.UpdateDocumentRequest) (*dto.UpdateDocumentResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	doc, err := findDocument(ctx, uow, req.Id)
	if err != nil {
		return nil, err
	}

	oldHandle := doc.Handle
	wasPublished := doc.Published

	if req.Name != nil {
		doc.Name = *req.Name
	}
	if req.AuthorName != nil {
		doc.AuthorName = *req.AuthorName
	}
	if req.Published != nil {
		doc.Published = *req.Published
	}
	if req.Handle != nil && site.Handle(*req.Handle) != doc.Handle {
		handle, err := site.UniqueHandle(*req.Handle, handleTaken(ctx, uow, doc.Id))
		if err != nil {
			return nil, err
		}
		doc.Handle = handle
	}

	now := time.Now()
	doc.UpdatedAt = &now
	if err := uow.DocumentRepository().Update(ctx, doc); err != nil {
		return nil, err
	}

	if wasPublished && (!doc.Published || doc.Handle != oldHandle) {
		c.enqueueExport(ctx, dto.ExportJobMessage{Action: dto.ExportActionRemove, DocumentId: doc.Id, Handle: oldHandle})
	}
	if doc.Published {
		c.enqueueExport(ctx, dto.ExportJobMessage{Action: dto.ExportActionWrite, DocumentId: doc.Id})
	}

	return &dto.UpdateDocumentResponse{Id: doc.Id, Handle: doc.Handle}, nil
}

// SaveRevision stores a new editor state and makes it the document head.
func (c *documentService) SaveRevision(ctx context.Context, req *dto.SaveRevisionRequest) (*dto.SaveRevisionResponse, error) {
	data, err := canonicalDocument(req.Data)
	if err != nil {
		return nil, err
	}

	uow := c.uowFactory.NewUnitOfWork(ctx)

	doc, err := findDocument(ctx, uow, req.DocumentId)
	if err != nil {
		return nil, err
	}

	author := req.AuthorName
	if author == "" {
		author = doc.AuthorName
	}
	now := time.Now()
	rev := entity.Revision{
		Id:         uuid.New(),
		DocumentId: doc.Id,
		Data:       data,
		AuthorName: author,
		CreatedAt:  now,
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.RevisionRepository().Create(ctx, &rev); err != nil {
		return nil, err
	}
	doc.HeadRevisionId = &rev.Id
	doc.UpdatedAt = &now
	if err := uow.DocumentRepository().Update(ctx, doc); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	c.afterSave(ctx, doc, &rev)

	return &dto.SaveRevisionResponse{
		DocumentId: doc.Id,
		RevisionId: rev.Id,
		CreatedAt:  rev.CreatedAt,
	}, nil
}

func (c *documentService) Delete(ctx context.Context, id uuid.UUID) error {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	doc, err := findDocument(ctx, uow, id)
	if err != nil {
		return err
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.RevisionRepository().DeleteByDocumentId(ctx, id); err != nil {
		return err
	}
	if err := uow.DocumentRepository().Delete(ctx, id); err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	if doc.Published {
		c.enqueueExport(ctx, dto.ExportJobMessage{Action: dto.ExportActionRemove, DocumentId: doc.Id, Handle: doc.Handle})
	}
	c.publishEvent(ctx, events.NewDocumentDeleted(doc.Id.String(), doc.Handle))
	return nil
}

func (c *documentService) Move(ctx context.Context, req *dto.MoveDocumentRequest) (*dto.MoveDocumentResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	doc, err := findDocument(ctx, uow, req.Id)
	if err != nil {
		return nil, err
	}

	if req.DirectoryId != nil {
		if err := requireDirectory(ctx, uow, *req.DirectoryId); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	doc.DirectoryId = req.DirectoryId
	doc.UpdatedAt = &now
	if err := uow.DocumentRepository().Update(ctx, doc); err != nil {
		return nil, err
	}

	return &dto.MoveDocumentResponse{Id: doc.Id}, nil
}

// Render returns the HTML body of the head revision.
func (c *documentService) Render(ctx context.Context, id uuid.UUID) (*dto.RenderDocumentResponse, error) {
	doc, rev, err := c.loadHead(ctx, id)
	if err != nil {
		return nil, err
	}

	res := &dto.RenderDocumentResponse{Id: doc.Id, Handle: doc.Handle, Html: lexical.FallbackNoContent}
	if rev == nil {
		return res, nil
	}

	html, err := c.engine.HTML(ctx, rev.Data)
	if err != nil {
		c.log.Error("RENDER", "Stored revision failed to render", map[string]interface{}{
			"document_id": doc.Id.String(),
			"revision_id": rev.Id.String(),
			"error":       err.Error(),
		})
		html = lexical.FallbackRenderError
	}
	res.Html = html
	return res, nil
}

func (c *documentService) RenderMarkdown(ctx context.Context, id uuid.UUID) (*dto.RenderDocumentResponse, error) {
	doc, rev, err := c.loadHead(ctx, id)
	if err != nil {
		return nil, err
	}

	res := &dto.RenderDocumentResponse{Id: doc.Id, Handle: doc.Handle}
	if rev == nil {
		return res, nil
	}

	md, err := c.engine.Markdown(ctx, rev.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", serverutils.ErrInvalidDocument, err)
	}
	res.Markdown = md
	return res, nil
}

// Preview renders posted editor state without storing it.
func (c *documentService) Preview(ctx context.Context, req *dto.PreviewRequest) (*dto.PreviewResponse, error) {
	format := req.Format
	if format == "" {
		format = dto.PreviewFormatHTML
	}

	res := &dto.PreviewResponse{Format: format}
	switch format {
	case dto.PreviewFormatMarkdown:
		md, err := c.engine.Markdown(ctx, req.Data)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", serverutils.ErrInvalidDocument, err)
		}
		res.Content = md
	case dto.PreviewFormatPage:
		res.Content = c.assembler.RenderPage([]byte(req.Data), site.Meta{Title: req.Title, Date: time.Now()})
	default:
		res.Content = c.assembler.RenderBody([]byte(req.Data))
	}
	return res, nil
}

func (c *documentService) loadHead(ctx context.Context, id uuid.UUID) (*entity.Document, *entity.Revision, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	doc, err := findDocument(ctx, uow, id)
	if err != nil {
		return nil, nil, err
	}
	rev, err := headRevision(ctx, uow, doc)
	if err != nil {
		return nil, nil, err
	}
	return doc, rev, nil
}

func (c *documentService) afterSave(ctx context.Context, doc *entity.Document, rev *entity.Revision) {
	c.publishEvent(ctx, events.NewRevisionSaved(doc.Id.String(), rev.Id.String(), doc.Handle, doc.Published))
	if doc.Published {
		c.enqueueExport(ctx, dto.ExportJobMessage{Action: dto.ExportActionWrite, DocumentId: doc.Id})
	}
}

// enqueueExport schedules a site update. The document change is already
// committed, so failures are logged rather than returned.
func (c *documentService) enqueueExport(ctx context.Context, job dto.ExportJobMessage) {
	if c.publisherService == nil {
		return
	}
	if err := c.publisherService.PublishExportJob(ctx, job); err != nil {
		c.log.Warn("DOCUMENT", "Failed to enqueue export job", map[string]interface{}{
			"document_id": job.DocumentId.String(),
			"action":      job.Action,
			"error":       err.Error(),
		})
	}
}

func (c *documentService) publishEvent(ctx context.Context, evt events.Event) {
	if c.eventPublisher == nil {
		return
	}
	if err := c.eventPublisher.Publish(ctx, evt); err != nil {
		c.log.Warn("DOCUMENT", "Failed to publish event", map[string]interface{}{
			"type":  evt.EventType(),
			"error": err.Error(),
		})
	}
}

// canonicalDocument checks that data is editor state and compacts it so equal
// documents hash to the same cache key.
func canonicalDocument(data json.RawMessage) ([]byte, error) {
	if _, err := lexical.ParseDocument([]byte(data)); err != nil {
		return nil, fmt.Errorf("%w: %v", serverutils.ErrInvalidDocument, err)
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, data); err != nil {
		return nil, fmt.Errorf("%w: %v", serverutils.ErrInvalidDocument, err)
	}
	return buf.Bytes(), nil
}

func findDocument(ctx context.Context, uow unitofwork.UnitOfWork, id uuid.UUID) (*entity.Document, error) {
	doc, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, serverutils.NotFound("document")
	}
	return doc, nil
}

func requireDirectory(ctx context.Context, uow unitofwork.UnitOfWork, id uuid.UUID) error {
	count, err := uow.DirectoryRepository().Count(ctx, specification.ByID{ID: id})
	if err != nil {
		return err
	}
	if count == 0 {
		return serverutils.NotFound("directory")
	}
	return nil
}

// handleTaken reports whether another document than self uses a handle.
func handleTaken(ctx context.Context, uow unitofwork.UnitOfWork, self uuid.UUID) func(string) (bool, error) {
	return func(handle string) (bool, error) {
		doc, err := uow.DocumentRepository().FindOne(ctx, specification.ByHandle{Handle: handle})
		if err != nil {
			return false, err
		}
		return doc != nil && doc.Id != self, nil
	}
}
