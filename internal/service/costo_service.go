package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/mncort/forestalApp-sub000/internal/model"
	"github.com/mncort/forestalApp-sub000/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// CostoService is the temporally-versioned cost ledger.
//
// Invariant: per product, at most one entry is open-ended at any time.
// AsignarCosto enforces it by closing the previous open entry (FechaHasta =
// nueva FechaDesde − 1 día) before inserting; the whole sequence runs under a
// per-product lock so concurrent writers cannot leave two open entries.
type CostoService interface {
	AsignarCosto(ctx context.Context, productoID string, monto decimal.Decimal, moneda string, desde model.Fecha, hasta *model.Fecha) (*model.CostoProducto, error)
	// CostoVigente returns the entry whose [FechaDesde, FechaHasta) contains
	// alDia, or nil when none does. When overlapping entries exist (manual
	// edits, data races) the one with the latest FechaDesde wins.
	CostoVigente(ctx context.Context, productoID string, alDia model.Fecha) (*model.CostoProducto, error)
	// Historial returns past entries newest-first, merging the live collection
	// with the archived one, excluding today's vigente entry.
	Historial(ctx context.Context, productoID string) ([]model.CostoProducto, error)
}

type costoService struct {
	repo  repository.CostoRepository
	rdb   *redis.Client
	locks cerrojos
}

func NewCostoService(repo repository.CostoRepository, rdb *redis.Client) CostoService {
	return &costoService{repo: repo, rdb: rdb}
}

func (s *costoService) AsignarCosto(ctx context.Context, productoID string, monto decimal.Decimal, moneda string, desde model.Fecha, hasta *model.Fecha) (*model.CostoProducto, error) {
	if monto.LessThanOrEqual(decimal.Zero) {
		return nil, ErrMontoInvalido
	}
	if hasta != nil && !hasta.After(desde.Time) {
		return nil, fmt.Errorf("%w: fecha_hasta debe ser posterior a fecha_desde", ErrVigenciaInvalida)
	}

	unlock := s.locks.Lock("costo:" + productoID)
	defer unlock()

	entradas, err := s.repo.ListByProducto(ctx, productoID)
	if err != nil {
		return nil, fmt.Errorf("listar costos de %s: %w", productoID, err)
	}

	if abierta := buscarAbierta(entradas); abierta != nil {
		// Closing the open entry to "desde − 1 día" would invert its interval
		// if the new entry does not start strictly after it. Reject instead of
		// silently corrupting the timeline.
		if !desde.After(abierta.FechaDesde.Time) {
			return nil, fmt.Errorf("%w: ya existe un costo abierto desde %s", ErrVigenciaInvalida, abierta.FechaDesde)
		}
		if err := s.repo.CerrarCosto(ctx, abierta.ID, desde.AddDias(-1)); err != nil {
			return nil, fmt.Errorf("cerrar costo %s: %w", abierta.ID, err)
		}
	}

	nuevo := &model.CostoProducto{
		ProductoID: productoID,
		Monto:      monto,
		Moneda:     moneda,
		FechaDesde: desde,
		FechaHasta: hasta,
	}
	if err := s.repo.Create(ctx, nuevo); err != nil {
		return nil, fmt.Errorf("crear costo: %w", err)
	}

	s.invalidarCachePrecio(ctx, productoID)
	return nuevo, nil
}

func (s *costoService) CostoVigente(ctx context.Context, productoID string, alDia model.Fecha) (*model.CostoProducto, error) {
	entradas, err := s.repo.ListByProducto(ctx, productoID)
	if err != nil {
		return nil, fmt.Errorf("listar costos de %s: %w", productoID, err)
	}

	var vigente *model.CostoProducto
	for i := range entradas {
		c := &entradas[i]
		if !c.VigenteEn(alDia) {
			continue
		}
		if vigente == nil || c.FechaDesde.After(vigente.FechaDesde.Time) {
			vigente = c
		}
	}
	return vigente, nil
}

func (s *costoService) Historial(ctx context.Context, productoID string) ([]model.CostoProducto, error) {
	vivas, err := s.repo.ListByProducto(ctx, productoID)
	if err != nil {
		return nil, fmt.Errorf("listar costos de %s: %w", productoID, err)
	}
	archivadas, err := s.repo.ListArchivados(ctx, productoID)
	if err != nil {
		return nil, fmt.Errorf("listar costos archivados de %s: %w", productoID, err)
	}

	vigente, err := s.CostoVigente(ctx, productoID, model.Hoy())
	if err != nil {
		return nil, err
	}

	historial := make([]model.CostoProducto, 0, len(vivas)+len(archivadas))
	for _, c := range append(vivas, archivadas...) {
		if vigente != nil && c.ID == vigente.ID {
			continue
		}
		historial = append(historial, c)
	}
	sort.Slice(historial, func(i, j int) bool {
		return historial[i].FechaDesde.After(historial[j].FechaDesde.Time)
	})
	return historial, nil
}

// buscarAbierta returns the open-ended entry, preferring the latest FechaDesde
// when the invariant was already violated upstream.
func buscarAbierta(entradas []model.CostoProducto) *model.CostoProducto {
	var abierta *model.CostoProducto
	for i := range entradas {
		c := &entradas[i]
		if !c.Abierto() {
			continue
		}
		if abierta == nil || c.FechaDesde.After(abierta.FechaDesde.Time) {
			abierta = c
		}
	}
	return abierta
}

// invalidarCachePrecio drops the cached public price after a cost change.
// Best effort: a stale entry expires by TTL anyway.
func (s *costoService) invalidarCachePrecio(ctx context.Context, productoID string) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, "precio:"+productoID).Err(); err != nil {
		log.Warn().Err(err).Str("producto_id", productoID).Msg("no se pudo invalidar cache de precio")
	}
}
