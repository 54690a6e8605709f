package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/staffworx/recruiting/modules/recruitment/domain/calendar"
	"github.com/staffworx/recruiting/pkg/composables"
)

func pgUUID(id uuid.UUID) pgtype.UUID {
	return pgtype.UUID{Bytes: id, Valid: true}
}

// pgNullableUUID maps uuid.Nil to SQL NULL.
func pgNullableUUID(id uuid.UUID) pgtype.UUID {
	if id == uuid.Nil {
		return pgtype.UUID{}
	}
	return pgUUID(id)
}

func uuidFromPg(v pgtype.UUID) uuid.UUID {
	if !v.Valid {
		return uuid.Nil
	}
	return v.Bytes
}

func pgDate(d time.Time) pgtype.Date {
	if d.IsZero() {
		return pgtype.Date{}
	}
	return pgtype.Date{Time: calendar.NormalizeDay(d), Valid: true}
}

func pgNullableDate(d *time.Time) pgtype.Date {
	if d == nil {
		return pgtype.Date{}
	}
	return pgDate(*d)
}

func dateFromPg(v pgtype.Date) time.Time {
	if !v.Valid {
		return time.Time{}
	}
	return calendar.NormalizeDay(v.Time)
}

func nullableDateFromPg(v pgtype.Date) *time.Time {
	if !v.Valid {
		return nil
	}
	d := calendar.NormalizeDay(v.Time)
	return &d
}

func pgNullableInt4(n *int) pgtype.Int4 {
	if n == nil {
		return pgtype.Int4{}
	}
	return pgtype.Int4{Int32: int32(*n), Valid: true}
}

func intFromPg(v pgtype.Int4) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int32)
	return &n
}

func tenantIDs(ctx context.Context) (uuid.UUID, pgtype.UUID, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return uuid.Nil, pgtype.UUID{}, fmt.Errorf("failed to get tenant from context: %w", err)
	}
	return tenantID, pgUUID(tenantID), nil
}
