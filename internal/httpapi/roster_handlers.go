package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/xuri/excelize/v2"

	"nccportal.org/internal/audit"
	"nccportal.org/internal/identity"
)

func (a *API) handleAdminNominalRoll(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	id, ok := requireKind(w, r, identity.KindAdmin)
	if !ok {
		return
	}
	a.generateNominalRoll(w, r, id.AnoID)
}

func (a *API) handleMasterNominalRoll(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	if _, ok := requireKind(w, r, identity.KindMaster); !ok {
		return
	}
	a.generateNominalRoll(w, r, "")
}

var rosterHeader = []string{
	"S.No", "Regimental Number", "Name", "Email", "Contact",
	"ANO ID", "Wing", "Category", "Institution", "Year",
}

// generateNominalRoll streams an Excel workbook of approved cadets; an empty
// anoID exports the whole platform.
func (a *API) generateNominalRoll(w http.ResponseWriter, r *http.Request, anoID string) {
	rows, err := a.store.Cadets().Roster(r.Context(), anoID)
	if err != nil {
		handlePortalError(w, r, err)
		return
	}

	f := excelize.NewFile()
	defer f.Close()
	const sheet = "Nominal Roll"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	for col, title := range rosterHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		_ = f.SetCellValue(sheet, cell, title)
	}
	for i, row := range rows {
		values := []any{
			i + 1, row.RegimentalNumber, row.Name, row.Email, row.Contact,
			row.AnoID, row.Wing, row.Category, row.InstitutionName, row.CurrentYear,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}
	_ = f.SetColWidth(sheet, "B", "D", 24)
	_ = f.SetColWidth(sheet, "I", "I", 28)

	scope := anoID
	if scope == "" {
		scope = "all-units"
	}
	filename := fmt.Sprintf("nominal-roll-%s-%s.xlsx", scope, time.Now().UTC().Format("2006-01-02"))

	_ = audit.LogEvent(r.Context(), "roster.export", map[string]any{
		"scope":  scope,
		"cadets": len(rows),
	})

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if err := f.Write(w); err != nil {
		// Headers are already gone; nothing useful to send.
		return
	}
}
