package handlers

import (
	"database/sql"
	"net/http"

	"github.com/carpenike/liftplan/internal/models"
)

// Backups holds dependencies for the backup dump handler.
type Backups struct {
	DB *sql.DB
}

// Dump streams the whole store as one JSON document.
func (h *Backups) Dump(w http.ResponseWriter, r *http.Request) {
	backup, err := models.DumpBackup(h.DB)
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, backup)
}
