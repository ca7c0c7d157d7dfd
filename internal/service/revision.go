package service

import (
	"context"

	"mathdoc-be/internal/entity"
	"mathdoc-be/internal/repository/specification"
	"mathdoc-be/internal/repository/unitofwork"
	"mathdoc-be/pkg/lexical"
)

const excerptLength = 200

// headRevision returns the revision a document points at, falling back to
// the newest one when the pointer is unset or dangling.
func headRevision(ctx context.Context, uow unitofwork.UnitOfWork, doc *entity.Document) (*entity.Revision, error) {
	if doc.HeadRevisionId != nil {
		rev, err := uow.RevisionRepository().FindOne(ctx, specification.ByID{ID: *doc.HeadRevisionId})
		if err != nil || rev != nil {
			return rev, err
		}
	}
	return uow.RevisionRepository().FindLatest(ctx, doc.Id)
}

func excerptOf(data []byte) string {
	doc, err := lexical.ParseDocument(data)
	if err != nil {
		return ""
	}
	return lexical.Excerpt(doc, excerptLength)
}
