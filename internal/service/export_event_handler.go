package service

import (
	"context"
	"errors"
	"fmt"

	"mathdoc-be/internal/pkg/serverutils"
	"mathdoc-be/pkg/events"

	"github.com/google/uuid"
)

// NewExportEventHandler keeps an exported site in step with document events
// received from the bus. Events for documents that no longer exist are
// ignored so they are not redelivered.
func NewExportEventHandler(exportService IExportService, root string) func(ctx context.Context, event events.Event) error {
	return func(ctx context.Context, event events.Event) error {
		switch event.EventType() {
		case events.RevisionSaved:
			id, err := uuid.Parse(events.StringField(event, "document_id"))
			if err != nil {
				return nil
			}
			_, err = exportService.ExportOne(ctx, root, id)
			if errors.Is(err, serverutils.ErrNotFound) {
				return nil
			}
			return err
		case events.DocumentDeleted:
			handle := events.StringField(event, "handle")
			if handle == "" {
				return nil
			}
			_, err := exportService.Remove(ctx, root, handle)
			return err
		default:
			return fmt.Errorf("unexpected event %s", event.EventType())
		}
	}
}
