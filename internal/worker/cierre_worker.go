package worker

// cierre_worker.go
// Processes arqueo-report jobs from QueueCierre: renders the close summary
// as a PDF and mails it to the configured address. Best effort — a failed
// report never touches the ledger.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/AlesandroCasanova/hilos-y-coo-sub000/internal/infra"
	"github.com/AlesandroCasanova/hilos-y-coo-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// CierreJobPayload is the job envelope sent to QueueCierre.
type CierreJobPayload struct {
	SesionID string `json:"sesion_id"`
}

type CierreWorker struct {
	cajaRepo       repository.CajaRepository
	movRepo        repository.MovimientoRepository
	mailer         *infra.Mailer
	pdfStoragePath string
	reporteEmail   string
}

func NewCierreWorker(
	cajaRepo repository.CajaRepository,
	movRepo repository.MovimientoRepository,
	mailer *infra.Mailer,
	pdfStoragePath string,
	reporteEmail string,
) *CierreWorker {
	return &CierreWorker{
		cajaRepo:       cajaRepo,
		movRepo:        movRepo,
		mailer:         mailer,
		pdfStoragePath: pdfStoragePath,
		reporteEmail:   reporteEmail,
	}
}

// Process handles a single cierre job:
//  1. Parse CierreJobPayload
//  2. Fetch the closed session and its movements
//  3. Render the PDF report
//  4. Mail it when a recipient is configured
func (w *CierreWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload CierreJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("cierre_worker: invalid payload")
		return
	}

	sesionID, err := uuid.Parse(payload.SesionID)
	if err != nil {
		log.Error().Str("sesion_id", payload.SesionID).Msg("cierre_worker: invalid sesion_id")
		return
	}

	sesion, err := w.cajaRepo.FindSesionByID(ctx, sesionID)
	if err != nil {
		log.Error().Err(err).Str("sesion_id", payload.SesionID).Msg("cierre_worker: sesion not found")
		return
	}

	movimientos, err := w.movRepo.ListBySesion(ctx, sesionID)
	if err != nil {
		log.Error().Err(err).Str("sesion_id", payload.SesionID).Msg("cierre_worker: movements lookup failed")
		return
	}

	pdfPath, err := infra.GenerateCierrePDF(sesion, movimientos, w.pdfStoragePath)
	if err != nil {
		log.Error().Err(err).Str("sesion_id", payload.SesionID).Msg("cierre_worker: PDF generation failed")
		return
	}
	log.Info().Str("sesion_id", payload.SesionID).Str("pdf", pdfPath).Msg("cierre_worker: report generated")

	if w.reporteEmail == "" {
		return
	}
	subject := fmt.Sprintf("Cierre de caja %s", sesion.OpenedAt.Format("02/01/2006"))
	body := fmt.Sprintf("Se adjunta el reporte del cierre de caja %s.", sesion.ID)
	if err := w.mailer.SendReporte(w.reporteEmail, subject, body, pdfPath); err != nil {
		log.Error().Err(err).Str("sesion_id", payload.SesionID).Msg("cierre_worker: email delivery failed")
	}
}
