package sqlite

import (
	"database/sql"
	"math"
	"time"

	"forcemap/internal/domain"
)

// ============================================================================
// Null Type Conversion Helpers
// ============================================================================

// floatToNull stores NaN (an unplaced coordinate) as NULL
func floatToNull(v float64) sql.NullFloat64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}

// nullToFloat returns def for NULL
func nullToFloat(nf sql.NullFloat64, def float64) float64 {
	if nf.Valid {
		return nf.Float64
	}
	return def
}

// ============================================================================
// Identifier Helpers
// ============================================================================

// idToColumns splits an identifier into its text and numeric flag
func idToColumns(id domain.NodeID) (string, bool) {
	return id.String(), id.IsNumeric()
}

// columnsToID rebuilds an identifier from its stored columns
func columnsToID(text string, numeric bool) (domain.NodeID, error) {
	if numeric {
		return domain.NumberID(text)
	}
	return domain.StringID(text), nil
}

// ============================================================================
// Time Helpers
// ============================================================================

func timeToColumn(t time.Time) int64 {
	return t.UTC().UnixNano()
}

func columnToTime(ns int64) time.Time {
	return time.Unix(0, ns).UTC()
}
