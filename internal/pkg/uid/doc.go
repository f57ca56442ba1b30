// Package uid provides ID generators used across the application.
//
// NumberID produces time-ordered numeric IDs for database rows (snowflake),
// StringID produces opaque string IDs (UUID for correlation/token IDs, hex
// object IDs for refresh and session handles).
package uid
