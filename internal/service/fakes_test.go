package service

import (
	"context"
	"errors"
	"sort"
	"sync"

	"mathdoc-be/internal/dto"
	"mathdoc-be/internal/entity"
	"mathdoc-be/internal/repository/contract"
	"mathdoc-be/internal/repository/specification"
	"mathdoc-be/internal/repository/unitofwork"
	"mathdoc-be/pkg/events"

	"github.com/google/uuid"
)

// store is an in-memory database shared by every unit of work of a test.
// It understands the specifications the services use.
type store struct {
	mu          sync.Mutex
	directories map[uuid.UUID]*entity.Directory
	documents   map[uuid.UUID]*entity.Document
	revisions   map[uuid.UUID]*entity.Revision
	commits     int
	failFind    error
}

func newStore() *store {
	return &store{
		directories: map[uuid.UUID]*entity.Directory{},
		documents:   map[uuid.UUID]*entity.Document{},
		revisions:   map[uuid.UUID]*entity.Revision{},
	}
}

func (s *store) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &fakeUow{s: s}
}

type fakeUow struct {
	s      *store
	inTx   bool
	staged []func()
}

func (u *fakeUow) Begin(ctx context.Context) error {
	if u.inTx {
		return unitofwork.ErrTxAlreadyStarted
	}
	u.inTx = true
	return nil
}

func (u *fakeUow) Commit() error {
	if !u.inTx {
		return unitofwork.ErrNoTransaction
	}
	u.s.mu.Lock()
	for _, apply := range u.staged {
		apply()
	}
	u.s.commits++
	u.s.mu.Unlock()
	u.staged = nil
	u.inTx = false
	return nil
}

func (u *fakeUow) Rollback() error {
	u.staged = nil
	u.inTx = false
	return nil
}

// write applies fn now, or at commit time inside a transaction.
func (u *fakeUow) write(fn func()) {
	if u.inTx {
		u.staged = append(u.staged, fn)
		return
	}
	u.s.mu.Lock()
	fn()
	u.s.mu.Unlock()
}

func (u *fakeUow) DirectoryRepository() contract.DirectoryRepository { return &fakeDirectoryRepo{u} }
func (u *fakeUow) DocumentRepository() contract.DocumentRepository   { return &fakeDocumentRepo{u} }
func (u *fakeUow) RevisionRepository() contract.RevisionRepository   { return &fakeRevisionRepo{u} }

type filter struct {
	id, parent, directory, document *uuid.UUID
	ids                             []uuid.UUID
	rootOnly, unfiled, published    bool
	handle                          *string
	limit, offset                   int
}

func parseSpecs(specs []specification.Specification) filter {
	var f filter
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByID:
			id := s.ID
			f.id = &id
		case specification.ByIDs:
			f.ids = s.IDs
		case specification.ByParentID:
			if s.ParentID == nil {
				f.rootOnly = true
			} else {
				f.parent = s.ParentID
			}
		case specification.ByDirectoryID:
			if s.DirectoryID == nil {
				f.unfiled = true
			} else {
				f.directory = s.DirectoryID
			}
		case specification.ByDocumentID:
			id := s.DocumentID
			f.document = &id
		case specification.ByHandle:
			h := s.Handle
			f.handle = &h
		case specification.Published:
			f.published = true
		case specification.Pagination:
			f.limit, f.offset = s.Limit, s.Offset
		}
	}
	return f
}

func (f filter) matchID(id uuid.UUID) bool {
	if f.id != nil && *f.id != id {
		return false
	}
	if f.ids != nil {
		for _, x := range f.ids {
			if x == id {
				return true
			}
		}
		return false
	}
	return true
}

func samePtr(a, b *uuid.UUID) bool {
	return b == nil || (a != nil && *a == *b)
}

func page[T any](items []T, f filter) []T {
	if f.offset > 0 {
		if f.offset >= len(items) {
			return items[:0]
		}
		items = items[f.offset:]
	}
	if f.limit > 0 && f.limit < len(items) {
		items = items[:f.limit]
	}
	return items
}

type fakeDirectoryRepo struct{ u *fakeUow }

func (r *fakeDirectoryRepo) Create(ctx context.Context, d *entity.Directory) error {
	cp := *d
	r.u.write(func() { r.u.s.directories[cp.Id] = &cp })
	return nil
}

func (r *fakeDirectoryRepo) Update(ctx context.Context, d *entity.Directory) error {
	return r.Create(ctx, d)
}

func (r *fakeDirectoryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.u.write(func() { delete(r.u.s.directories, id) })
	return nil
}

func (r *fakeDirectoryRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Directory, error) {
	all, err := r.FindAll(ctx, specs...)
	if err != nil || len(all) == 0 {
		return nil, err
	}
	return all[0], nil
}

func (r *fakeDirectoryRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Directory, error) {
	if err := r.u.s.failFind; err != nil {
		return nil, err
	}
	f := parseSpecs(specs)
	r.u.s.mu.Lock()
	defer r.u.s.mu.Unlock()

	out := []*entity.Directory{}
	for _, d := range r.u.s.directories {
		if !f.matchID(d.Id) || !samePtr(d.ParentId, f.parent) || (f.rootOnly && d.ParentId != nil) {
			continue
		}
		cp := *d
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, f), nil
}

func (r *fakeDirectoryRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, err := r.FindAll(ctx, specs...)
	return int64(len(all)), err
}

type fakeDocumentRepo struct{ u *fakeUow }

func (r *fakeDocumentRepo) Create(ctx context.Context, d *entity.Document) error {
	cp := *d
	r.u.write(func() { r.u.s.documents[cp.Id] = &cp })
	return nil
}

func (r *fakeDocumentRepo) Update(ctx context.Context, d *entity.Document) error {
	return r.Create(ctx, d)
}

func (r *fakeDocumentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.u.write(func() { delete(r.u.s.documents, id) })
	return nil
}

func (r *fakeDocumentRepo) DetachFromDirectory(ctx context.Context, directoryId uuid.UUID) error {
	r.u.write(func() {
		for _, d := range r.u.s.documents {
			if d.DirectoryId != nil && *d.DirectoryId == directoryId {
				d.DirectoryId = nil
			}
		}
	})
	return nil
}

func (r *fakeDocumentRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Document, error) {
	all, err := r.FindAll(ctx, specs...)
	if err != nil || len(all) == 0 {
		return nil, err
	}
	return all[0], nil
}

func (r *fakeDocumentRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Document, error) {
	if err := r.u.s.failFind; err != nil {
		return nil, err
	}
	f := parseSpecs(specs)
	r.u.s.mu.Lock()
	defer r.u.s.mu.Unlock()

	out := []*entity.Document{}
	for _, d := range r.u.s.documents {
		if !f.matchID(d.Id) || !samePtr(d.DirectoryId, f.directory) || (f.unfiled && d.DirectoryId != nil) {
			continue
		}
		if (f.published && !d.Published) || (f.handle != nil && d.Handle != *f.handle) {
			continue
		}
		cp := *d
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Handle < out[j].Handle })
	return page(out, f), nil
}

func (r *fakeDocumentRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, err := r.FindAll(ctx, specs...)
	return int64(len(all)), err
}

type fakeRevisionRepo struct{ u *fakeUow }

func (r *fakeRevisionRepo) Create(ctx context.Context, rev *entity.Revision) error {
	cp := *rev
	r.u.write(func() { r.u.s.revisions[cp.Id] = &cp })
	return nil
}

func (r *fakeRevisionRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Revision, error) {
	all, err := r.FindAll(ctx, specs...)
	if err != nil || len(all) == 0 {
		return nil, err
	}
	return all[0], nil
}

func (r *fakeRevisionRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Revision, error) {
	f := parseSpecs(specs)
	r.u.s.mu.Lock()
	defer r.u.s.mu.Unlock()

	out := []*entity.Revision{}
	for _, rev := range r.u.s.revisions {
		if !f.matchID(rev.Id) || (f.document != nil && rev.DocumentId != *f.document) {
			continue
		}
		cp := *rev
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, f), nil
}

func (r *fakeRevisionRepo) FindLatest(ctx context.Context, documentId uuid.UUID) (*entity.Revision, error) {
	return r.FindOne(ctx, specification.ByDocumentID{DocumentID: documentId})
}

func (r *fakeRevisionRepo) DeleteByDocumentId(ctx context.Context, documentId uuid.UUID) error {
	r.u.write(func() {
		for id, rev := range r.u.s.revisions {
			if rev.DocumentId == documentId {
				delete(r.u.s.revisions, id)
			}
		}
	})
	return nil
}

func (r *fakeRevisionRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, err := r.FindAll(ctx, specs...)
	return int64(len(all)), err
}

type recordingPublisher struct {
	mu   sync.Mutex
	jobs []dto.ExportJobMessage
	err  error
}

func (p *recordingPublisher) Publish(ctx context.Context, payload []byte) error {
	return errors.New("unexpected raw publish")
}

func (p *recordingPublisher) PublishExportJob(ctx context.Context, job dto.ExportJobMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.jobs = append(p.jobs, job)
	return p.err
}

type recordingEvents struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingEvents) Publish(ctx context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingEvents) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.EventType()
	}
	return out
}
