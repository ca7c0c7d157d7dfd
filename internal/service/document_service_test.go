package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"mathdoc-be/internal/dto"
	"mathdoc-be/internal/entity"
	"mathdoc-be/internal/pkg/logger"
	"mathdoc-be/internal/pkg/serverutils"
	"mathdoc-be/pkg/events"
	"mathdoc-be/pkg/lexical"
	"mathdoc-be/pkg/rendercache"
	"mathdoc-be/pkg/site"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const helloDoc = `{"root":{"children":[{"type":"paragraph","children":[{"type":"text","text":"Hello","format":1}]}]}}`

func seedDocument(s *store, doc entity.Document) uuid.UUID {
	if doc.Id == uuid.Nil {
		doc.Id = uuid.New()
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	s.documents[doc.Id] = &doc
	return doc.Id
}

func seedRevision(s *store, documentId uuid.UUID, data string) uuid.UUID {
	id := uuid.New()
	s.revisions[id] = &entity.Revision{Id: id, DocumentId: documentId, Data: []byte(data), CreatedAt: time.Now()}
	s.documents[documentId].HeadRevisionId = &id
	return id
}

type documentFixture struct {
	store  *store
	jobs   *recordingPublisher
	events *recordingEvents
	svc    IDocumentService
}

func newDocumentFixture() *documentFixture {
	f := &documentFixture{
		store:  newStore(),
		jobs:   &recordingPublisher{},
		events: &recordingEvents{},
	}
	f.svc = NewDocumentService(
		f.store,
		site.NewAssembler(nil, site.DefaultShell()),
		rendercache.New(time.Minute),
		f.jobs,
		f.events,
		logger.NewNopLogger(),
	)
	return f
}

func TestDocumentService_CreateAssignsUniqueHandles(t *testing.T) {
	f := newDocumentFixture()
	ctx := context.Background()

	first, err := f.svc.Create(ctx, &dto.CreateDocumentRequest{Name: "Group Theory"})
	require.NoError(t, err)
	assert.Equal(t, "group-theory", first.Handle)

	second, err := f.svc.Create(ctx, &dto.CreateDocumentRequest{Name: "Group   theory!"})
	require.NoError(t, err)
	assert.Equal(t, "group-theory-2", second.Handle)

	custom, err := f.svc.Create(ctx, &dto.CreateDocumentRequest{Name: "x", Handle: "My Custom"})
	require.NoError(t, err)
	assert.Equal(t, "my-custom", custom.Handle)

	assert.Empty(t, f.events.types())
	assert.Empty(t, f.jobs.jobs)
}

func TestDocumentService_CreateWithData(t *testing.T) {
	f := newDocumentFixture()
	ctx := context.Background()

	res, err := f.svc.Create(ctx, &dto.CreateDocumentRequest{
		Name:      "Intro",
		Published: true,
		Data:      json.RawMessage("{ \"root\" : {\"children\": []} }"),
	})
	require.NoError(t, err)

	doc := f.store.documents[res.Id]
	require.NotNil(t, doc.HeadRevisionId)
	assert.Equal(t, `{"root":{"children":[]}}`, string(f.store.revisions[*doc.HeadRevisionId].Data))
	assert.Equal(t, []string{events.RevisionSaved}, f.events.types())
	assert.Equal(t, []dto.ExportJobMessage{{Action: dto.ExportActionWrite, DocumentId: res.Id}}, f.jobs.jobs)

	_, err = f.svc.Create(ctx, &dto.CreateDocumentRequest{Name: "Bad", Data: json.RawMessage(`[1]`)})
	assert.ErrorIs(t, err, serverutils.ErrInvalidDocument)
}

func TestDocumentService_SaveRevisionMovesHead(t *testing.T) {
	f := newDocumentFixture()
	ctx := context.Background()
	id := seedDocument(f.store, entity.Document{Handle: "draft", AuthorName: "Ann"})

	res, err := f.svc.SaveRevision(ctx, &dto.SaveRevisionRequest{DocumentId: id, Data: json.RawMessage(helloDoc)})
	require.NoError(t, err)

	doc := f.store.documents[id]
	assert.Equal(t, res.RevisionId, *doc.HeadRevisionId)
	assert.Equal(t, "Ann", f.store.revisions[res.RevisionId].AuthorName)
	assert.Equal(t, []string{events.RevisionSaved}, f.events.types())
	assert.Empty(t, f.jobs.jobs, "drafts are not exported")

	_, err = f.svc.SaveRevision(ctx, &dto.SaveRevisionRequest{DocumentId: id, Data: json.RawMessage(`{"nope":1}`)})
	assert.ErrorIs(t, err, serverutils.ErrInvalidDocument)

	_, err = f.svc.SaveRevision(ctx, &dto.SaveRevisionRequest{DocumentId: uuid.New(), Data: json.RawMessage(helloDoc)})
	assert.ErrorIs(t, err, serverutils.ErrNotFound)
}

func TestDocumentService_SaveRevisionSurvivesQueueFailure(t *testing.T) {
	f := newDocumentFixture()
	f.jobs.err = errors.New("queue closed")
	id := seedDocument(f.store, entity.Document{Handle: "live", Published: true})

	_, err := f.svc.SaveRevision(context.Background(), &dto.SaveRevisionRequest{DocumentId: id, Data: json.RawMessage(helloDoc)})
	require.NoError(t, err)
	assert.Len(t, f.jobs.jobs, 1)
}

func TestDocumentService_ShowIncludesHeadData(t *testing.T) {
	f := newDocumentFixture()
	dir := seedDirectory(f.store, "Math", nil)
	id := seedDocument(f.store, entity.Document{Handle: "h", Name: "H", DirectoryId: &dir})
	seedRevision(f.store, id, helloDoc)

	res, err := f.svc.Show(context.Background(), id)
	require.NoError(t, err)
	assert.JSONEq(t, helloDoc, string(res.Data))
	assert.Equal(t, []dto.BreadcrumbItem{{Id: dir, Name: "Math"}}, res.Breadcrumb)
}

func TestDocumentService_RenderUsesHeadRevision(t *testing.T) {
	f := newDocumentFixture()
	ctx := context.Background()
	id := seedDocument(f.store, entity.Document{Handle: "h"})

	res, err := f.svc.Render(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, lexical.FallbackNoContent, res.Html)

	seedRevision(f.store, id, helloDoc)
	res, err = f.svc.Render(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "<p><strong>Hello</strong></p>", res.Html)

	md, err := f.svc.RenderMarkdown(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "**Hello**\n", md.Markdown)

	seedRevision(f.store, id, `"not a document"`)
	res, err = f.svc.Render(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, lexical.FallbackRenderError, res.Html)
}

func TestDocumentService_UpdateHandleRepublishes(t *testing.T) {
	f := newDocumentFixture()
	ctx := context.Background()
	id := seedDocument(f.store, entity.Document{Handle: "old", Name: "Old", Published: true})
	seedDocument(f.store, entity.Document{Handle: "taken"})

	handle := "Taken"
	res, err := f.svc.Update(ctx, &dto.UpdateDocumentRequest{Id: id, Handle: &handle})
	require.NoError(t, err)
	assert.Equal(t, "taken-2", res.Handle)

	assert.Equal(t, []dto.ExportJobMessage{
		{Action: dto.ExportActionRemove, DocumentId: id, Handle: "old"},
		{Action: dto.ExportActionWrite, DocumentId: id},
	}, f.jobs.jobs)

	f.jobs.jobs = nil
	unpublish := false
	_, err = f.svc.Update(ctx, &dto.UpdateDocumentRequest{Id: id, Published: &unpublish})
	require.NoError(t, err)
	assert.Equal(t, []dto.ExportJobMessage{{Action: dto.ExportActionRemove, DocumentId: id, Handle: "taken-2"}}, f.jobs.jobs)
}

func TestDocumentService_UpdateKeepsOwnHandle(t *testing.T) {
	f := newDocumentFixture()
	id := seedDocument(f.store, entity.Document{Handle: "mine"})

	same := "Mine"
	res, err := f.svc.Update(context.Background(), &dto.UpdateDocumentRequest{Id: id, Handle: &same})
	require.NoError(t, err)
	assert.Equal(t, "mine", res.Handle)
}

func TestDocumentService_DeleteRemovesRevisions(t *testing.T) {
	f := newDocumentFixture()
	id := seedDocument(f.store, entity.Document{Handle: "bye", Published: true})
	seedRevision(f.store, id, helloDoc)

	require.NoError(t, f.svc.Delete(context.Background(), id))
	assert.Empty(t, f.store.documents)
	assert.Empty(t, f.store.revisions)
	assert.Equal(t, []string{events.DocumentDeleted}, f.events.types())
	assert.Equal(t, []dto.ExportJobMessage{{Action: dto.ExportActionRemove, DocumentId: id, Handle: "bye"}}, f.jobs.jobs)
}

func TestDocumentService_MoveAndList(t *testing.T) {
	f := newDocumentFixture()
	ctx := context.Background()
	dir := seedDirectory(f.store, "d", nil)
	a := seedDocument(f.store, entity.Document{Handle: "a", Published: true})
	seedDocument(f.store, entity.Document{Handle: "b"})

	_, err := f.svc.Move(ctx, &dto.MoveDocumentRequest{Id: a, DirectoryId: &dir})
	require.NoError(t, err)

	missing := uuid.New()
	_, err = f.svc.Move(ctx, &dto.MoveDocumentRequest{Id: a, DirectoryId: &missing})
	assert.ErrorIs(t, err, serverutils.ErrNotFound)

	inDir, err := f.svc.List(ctx, &dto.ListDocumentsRequest{DirectoryId: &dir})
	require.NoError(t, err)
	require.Len(t, inDir, 1)
	assert.Equal(t, "a", inDir[0].Handle)

	all, err := f.svc.List(ctx, &dto.ListDocumentsRequest{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	published, err := f.svc.List(ctx, &dto.ListDocumentsRequest{PublishedOnly: true, Limit: 5})
	require.NoError(t, err)
	assert.Len(t, published, 1)
}

func TestDocumentService_Preview(t *testing.T) {
	f := newDocumentFixture()
	ctx := context.Background()

	html, err := f.svc.Preview(ctx, &dto.PreviewRequest{Data: json.RawMessage(helloDoc)})
	require.NoError(t, err)
	assert.Equal(t, dto.PreviewFormatHTML, html.Format)
	assert.Equal(t, "<p><strong>Hello</strong></p>", html.Content)

	broken, err := f.svc.Preview(ctx, &dto.PreviewRequest{Data: json.RawMessage(`[]`)})
	require.NoError(t, err)
	assert.Equal(t, lexical.FallbackRenderError, broken.Content)

	page, err := f.svc.Preview(ctx, &dto.PreviewRequest{Data: json.RawMessage(helloDoc), Format: dto.PreviewFormatPage, Title: "T"})
	require.NoError(t, err)
	assert.Contains(t, page.Content, `<h1 class="post-title">T</h1>`)

	md, err := f.svc.Preview(ctx, &dto.PreviewRequest{Data: json.RawMessage(helloDoc), Format: dto.PreviewFormatMarkdown})
	require.NoError(t, err)
	assert.Equal(t, "**Hello**\n", md.Content)

	assert.Empty(t, f.store.revisions)
}
