package infra

// pdf.go — arqueo report generation using go-pdf/fpdf.
// One page per cierre: opening/closing amounts, expected vs declared, and the
// movements posted during the session. Saved to storagePath/cierre_{id}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/AlesandroCasanova/hilos-y-coo-sub000/internal/model"

	"github.com/go-pdf/fpdf"
)

// GenerateCierrePDF renders the close report for a finished session.
// Returns the absolute path to the generated file.
func GenerateCierrePDF(sesion *model.SesionCaja, movimientos []model.Movimiento, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	filePath := filepath.Join(storagePath, fmt.Sprintf("cierre_%s.pdf", sesion.ID))

	pdf := fpdf.New("P", "mm", "A5", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 20

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentW, 8, "Hilos y Coo", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, "Cierre de caja", "", 1, "C", false, 0, "")
	pdf.Ln(3)

	// ── Session data ─────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 5, fmt.Sprintf("Sesion: %s", sesion.ID), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 5, fmt.Sprintf("Apertura: %s", sesion.OpenedAt.Format("02/01/2006 15:04")), "", 1, "L", false, 0, "")
	if sesion.ClosedAt != nil {
		pdf.CellFormat(contentW, 5, fmt.Sprintf("Cierre: %s", sesion.ClosedAt.Format("02/01/2006 15:04")), "", 1, "L", false, 0, "")
	}
	pdf.Ln(2)
	pdf.Line(10, pdf.GetY(), pageW-10, pdf.GetY())
	pdf.Ln(2)

	// ── Amounts ──────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(contentW/2, 6, "Monto inicial:", "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW/2, 6, "$"+sesion.MontoInicial.StringFixed(2), "", 1, "R", false, 0, "")

	if sesion.MontoEsperado != nil {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(contentW/2, 6, "Esperado:", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(contentW/2, 6, "$"+sesion.MontoEsperado.StringFixed(2), "", 1, "R", false, 0, "")
	}
	if sesion.MontoDeclarado != nil {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(contentW/2, 6, "Declarado:", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(contentW/2, 6, "$"+sesion.MontoDeclarado.StringFixed(2), "", 1, "R", false, 0, "")
	}
	pdf.Ln(2)
	pdf.Line(10, pdf.GetY(), pageW-10, pdf.GetY())
	pdf.Ln(2)

	// ── Movements table ──────────────────────────────────────────────────────
	col1 := contentW * 0.30
	col2 := contentW * 0.45
	col3 := contentW * 0.25

	pdf.SetFont("Helvetica", "B", 7)
	pdf.CellFormat(col1, 5, "Tipo", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 5, "Descripcion", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 5, "Monto", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	for _, mov := range movimientos {
		descr := mov.Descripcion
		if len(descr) > 34 {
			descr = descr[:33] + "…"
		}
		pdf.CellFormat(col1, 5, mov.Tipo, "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, descr, "", 0, "L", false, 0, "")
		pdf.CellFormat(col3, 5, "$"+mov.MontoFirmado().StringFixed(2), "", 1, "R", false, 0, "")
	}

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write %s: %w", filePath, err)
	}
	return filePath, nil
}
