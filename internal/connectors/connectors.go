package connectors

import (
	"context"

	"stockfinder/internal"
)

// RowSource returns every record of one worksheet, in sheet order.
type RowSource interface {
	FetchAllRows(ctx context.Context, sheetID, worksheet string) ([]internal.Row, error)
}
