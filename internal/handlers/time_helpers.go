package handlers

import (
	"time"

	"github.com/careops/careops-server/internal/models"
	"github.com/careops/careops-server/internal/timezone"
)

// --------------------------------------------------
// Workspace-local time parsing
// --------------------------------------------------

func locationFromWorkspace(ws *models.Workspace) *time.Location {
	if ws != nil {
		return timezone.Location(ws.Timezone)
	}
	return timezone.Location("")
}

func parseDateInWorkspace(ws *models.Workspace, dateStr string) (time.Time, error) {
	return time.ParseInLocation(
		"2006-01-02",
		dateStr,
		locationFromWorkspace(ws),
	)
}

func parseDateTimeInWorkspace(
	ws *models.Workspace,
	dateStr string,
	timeStr string,
) (time.Time, error) {
	return time.ParseInLocation(
		"2006-01-02 15:04",
		dateStr+" "+timeStr,
		locationFromWorkspace(ws),
	)
}
