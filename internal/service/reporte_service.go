package service

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Tatelord8/nb-preorder-pro-sub002/internal/dto"
	"github.com/Tatelord8/nb-preorder-pro-sub002/internal/infra"
	"github.com/Tatelord8/nb-preorder-pro-sub002/internal/report"
	"github.com/Tatelord8/nb-preorder-pro-sub002/internal/repository"
	"github.com/Tatelord8/nb-preorder-pro-sub002/internal/schema"
	"github.com/Tatelord8/nb-preorder-pro-sub002/internal/view"
	"github.com/Tatelord8/nb-preorder-pro-sub002/internal/worker"

	"github.com/rs/zerolog/log"
)

// ReporteService produces the reporting stats and their exports.
type ReporteService interface {
	// Estadisticas aggregates every order matching the filter. Results are
	// cached per filter until an order, client or vendor changes.
	Estadisticas(ctx context.Context, filtro dto.ReporteFilter) (*dto.ReportStats, error)
	// Panel renders the stats in the requested grouping.
	Panel(ctx context.Context, filtro dto.ReporteFilter) (view.Vista, error)
	ExportarXLSX(ctx context.Context, filtro dto.ReporteFilter) ([]byte, string, error)
	EncolarExportEmail(ctx context.Context, req dto.ExportarEmailRequest, solicitante string) error
}

// Encolador enqueues export jobs; *worker.Dispatcher implements it.
type Encolador interface {
	EnqueueExportEmail(ctx context.Context, payload worker.ExportEmailPayload) error
}

type reporteService struct {
	pedidos repository.PedidoRepository
	cache   *infra.Cache
	ttl     time.Duration
	cola    Encolador
}

func NewReporteService(pedidos repository.PedidoRepository, cache *infra.Cache, ttl time.Duration, cola Encolador) ReporteService {
	return &reporteService{pedidos: pedidos, cache: cache, ttl: ttl, cola: cola}
}

// claveFiltro hashes the fields that change the rollup. Agrupacion and
// Titulo only change the rendering, so every mode shares one cache entry.
func claveFiltro(f dto.ReporteFilter) string {
	f.Agrupacion, f.Titulo = "", ""
	b, _ := json.Marshal(f)
	sum := sha1.Sum(b)
	return prefijoReportes + "stats:" + hex.EncodeToString(sum[:])
}

func (s *reporteService) Estadisticas(ctx context.Context, filtro dto.ReporteFilter) (*dto.ReportStats, error) {
	return infra.Recordar(ctx, s.cache, claveFiltro(filtro), s.ttl,
		func(ctx context.Context) (*dto.ReportStats, error) {
			f, err := repository.FiltroDesdeReporte(filtro)
			if err != nil {
				return nil, err
			}
			pedidos, err := s.pedidos.ListCompletos(ctx, f)
			if err != nil {
				return nil, err
			}
			stats := report.Agregar(pedidos)
			if err := report.Conciliar(stats); err != nil {
				var mismatch *report.AggregationMismatch
				if errors.As(err, &mismatch) {
					log.Error().
						Str("dimension", mismatch.Dimension).
						Str("metrica", mismatch.Metrica).
						Str("esperado", mismatch.Esperado).
						Str("obtenido", mismatch.Obtenido).
						Msg("reportes: agregación inconsistente")
				}
			}
			return stats, nil
		})
}

func (s *reporteService) Panel(ctx context.Context, filtro dto.ReporteFilter) (view.Vista, error) {
	modo, err := report.ParseAgrupacion(filtro.Agrupacion)
	if err != nil {
		return nil, err
	}
	stats, err := s.Estadisticas(ctx, filtro)
	if err != nil {
		return nil, err
	}
	return view.Panel{Stats: stats, Titulo: filtro.Titulo, Modo: modo}.Render()
}

func (s *reporteService) ExportarXLSX(ctx context.Context, filtro dto.ReporteFilter) ([]byte, string, error) {
	stats, err := s.Estadisticas(ctx, filtro)
	if err != nil {
		return nil, "", err
	}
	data, err := infra.ExportarXLSX(stats, filtro.Titulo)
	if err != nil {
		return nil, "", err
	}
	return data, infra.NombreArchivoXLSX(filtro.Titulo), nil
}

func (s *reporteService) EncolarExportEmail(ctx context.Context, req dto.ExportarEmailRequest, solicitante string) error {
	if s.cola == nil {
		return ErrExportNoDisponible
	}
	if req.Email == "" {
		return schema.Campo("email", "required")
	}
	if _, err := report.ParseAgrupacion(req.Filtro.Agrupacion); err != nil {
		return err
	}
	if err := s.cola.EnqueueExportEmail(ctx, worker.ExportEmailPayload{
		ToEmail:       req.Email,
		Filtro:        req.Filtro,
		SolicitadoPor: solicitante,
	}); err != nil {
		return fmt.Errorf("%w: %v", ErrExportNoDisponible, err)
	}
	return nil
}
