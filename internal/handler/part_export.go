package handler

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"strconv"

	"github.com/isabella232/azure-intelligent-edge-patterns/internal/domain"
	"github.com/xuri/excelize/v2"
)

func (h PartHandler) export(w http.ResponseWriter, r *http.Request) {
	filter, err := parseDemoFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid is_demo")
		return
	}
	items, err := h.Repo.List(r.Context(), filter)
	if err != nil {
		writeErrorWithErr(w, http.StatusInternalServerError, "list parts", err)
		return
	}

	format := r.URL.Query().Get("format")
	var (
		body        []byte
		contentType string
		filename    string
	)
	switch format {
	case "", "csv":
		body, err = exportPartsCSV(items)
		contentType = "text/csv"
		filename = "parts.csv"
	case "xlsx":
		body, err = exportPartsXLSX(items)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		filename = "parts.xlsx"
	default:
		writeError(w, http.StatusBadRequest, "format must be csv or xlsx")
		return
	}
	if err != nil {
		writeErrorWithErr(w, http.StatusInternalServerError, "export parts", err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

var partExportHeader = []string{"ID", "Name", "Description", "Demo", "Created", "Updated"}

func exportPartsCSV(items []domain.Part) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write(partExportHeader)
	for _, p := range items {
		_ = w.Write([]string{
			strconv.FormatInt(p.ID, 10),
			p.Name,
			p.Description,
			strconv.FormatBool(p.IsDemo),
			p.CreatedAt.Format("2006-01-02 15:04:05"),
			p.UpdatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func exportPartsXLSX(items []domain.Part) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := "Parts"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	_ = f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	for c, v := range partExportHeader {
		cell, _ := excelize.CoordinatesToCellName(c+1, 1)
		_ = f.SetCellValue(sheet, cell, v)
	}
	for r, p := range items {
		row := r + 2
		values := []any{
			p.ID,
			p.Name,
			p.Description,
			p.IsDemo,
			p.CreatedAt.Format("2006-01-02 15:04:05"),
			p.UpdatedAt.Format("2006-01-02 15:04:05"),
		}
		for c, v := range values {
			cell, _ := excelize.CoordinatesToCellName(c+1, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	_ = f.SetColWidth(sheet, "A", "A", 8)
	_ = f.SetColWidth(sheet, "B", "B", 20)
	_ = f.SetColWidth(sheet, "C", "C", 32)
	_ = f.SetColWidth(sheet, "D", "D", 8)
	_ = f.SetColWidth(sheet, "E", "F", 20)

	style, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#1F2937"}, Pattern: 1},
	})
	_ = f.SetCellStyle(sheet, "A1", "F1", style)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
