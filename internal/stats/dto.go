package stats

import (
	"github.com/agrihub/agrihub-backend/internal/audit"
	"github.com/agrihub/agrihub-backend/internal/uploads"
)

// CountBucket is one labelled slice of a grouped count.
type CountBucket struct {
	Label string `json:"label"`
	Count int64  `json:"count"`
}

// Overview is the dashboard payload: catalog totals, the most common product
// types and crops, and the latest import and audit activity.
type Overview struct {
	TotalProducts  int64                `json:"total_products"`
	ActiveProducts int64                `json:"active_products"`
	TotalViews     int64                `json:"total_views"`
	TotalUsers     int64                `json:"total_users"`
	ActiveSessions int64                `json:"active_sessions"`
	ProductsByType []CountBucket        `json:"products_by_type"`
	ProductsByCrop []CountBucket        `json:"products_by_crop"`
	RecentUploads  []uploads.HistoryDTO `json:"recent_uploads"`
	RecentActivity []audit.LogDTO       `json:"recent_activity"`
}
