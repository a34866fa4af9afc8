package adapter

import "context"

// SheetAppender is the hex port for the spreadsheet side channel used by the
// registration-confirmation flow. One row per call.
type SheetAppender interface {
	AppendRow(ctx context.Context, row []string) error
}
