package worker

// export_email_worker.go
// Processes report export jobs from QueueExportEmail: builds the xlsx for the
// requested filter and mails it through the SMTP circuit breaker.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Tatelord8/nb-preorder-pro-sub002/internal/dto"
	"github.com/Tatelord8/nb-preorder-pro-sub002/internal/infra"

	"github.com/rs/zerolog/log"
)

// ExportEmailPayload is the job envelope sent to QueueExportEmail.
type ExportEmailPayload struct {
	ToEmail       string            `json:"to_email"`
	Filtro        dto.ReporteFilter `json:"filtro"`
	SolicitadoPor string            `json:"solicitado_por"`
}

// GeneradorExport builds the spreadsheet for a filter.
type GeneradorExport interface {
	ExportarXLSX(ctx context.Context, filtro dto.ReporteFilter) (data []byte, filename string, err error)
}

// Mailer sends one message with an attachment.
type Mailer interface {
	EnviarAdjunto(to, subject, body, filename string, data []byte) error
}

type ExportEmailWorker struct {
	reportes GeneradorExport
	mailer   Mailer
	cb       *infra.CircuitBreaker
}

func NewExportEmailWorker(reportes GeneradorExport, mailer Mailer, cb *infra.CircuitBreaker) *ExportEmailWorker {
	return &ExportEmailWorker{reportes: reportes, mailer: mailer, cb: cb}
}

// Process is the Handler registered for JobExportEmail.
func (w *ExportEmailWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload ExportEmailPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("%w: payload inválido: %v", ErrPermanente, err)
	}
	if payload.ToEmail == "" {
		return fmt.Errorf("%w: to_email vacío", ErrPermanente)
	}

	data, filename, err := w.reportes.ExportarXLSX(ctx, payload.Filtro)
	if err != nil {
		return fmt.Errorf("export_email: generar xlsx: %w", err)
	}

	titulo := payload.Filtro.Titulo
	if titulo == "" {
		titulo = "Reporte de pedidos"
	}
	enviar := func() error {
		return w.mailer.EnviarAdjunto(payload.ToEmail, titulo, "Adjuntamos el reporte solicitado.", filename, data)
	}
	if w.cb != nil {
		err = w.cb.Ejecutar(enviar)
	} else {
		err = enviar()
	}
	if err != nil {
		return fmt.Errorf("export_email: enviar a %s: %w", payload.ToEmail, err)
	}

	log.Info().Str("to", payload.ToEmail).Str("file", filename).Msg("export_email: report sent")
	return nil
}
