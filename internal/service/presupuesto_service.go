package service

import (
	"context"
	"fmt"

	"github.com/mncort/forestalApp-sub000/internal/dto"
	"github.com/mncort/forestalApp-sub000/internal/model"
	"github.com/mncort/forestalApp-sub000/internal/repository"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// IVA rates by payment method. Cash quotes carry the reduced rate.
var (
	tasaIVAEfectivo = decimal.NewFromFloat(10.5)
	tasaIVAOtro     = decimal.NewFromInt(21)
)

// RenderizadorPDF produces the printable snapshot of a quote.
type RenderizadorPDF interface {
	Render(p *model.Presupuesto, cliente *model.Cliente, items []model.PresupuestoItem, tot model.Totales) ([]byte, error)
}

// AlmacenPDF stores rendered PDFs and returns an opaque reference.
type AlmacenPDF interface {
	Store(nombre string, data []byte) (string, error)
	Fetch(ref string) ([]byte, error)
}

// NotificadorEmail queues the "quote sent" email. Delivery is asynchronous
// and best effort.
type NotificadorEmail interface {
	EncolarEmailPresupuesto(ctx context.Context, to, asunto, cuerpo, pdfRef string) error
}

// PresupuestoService owns quote documents end to end: creation, the line
// item ledger while in borrador, totals, and the lifecycle state machine.
type PresupuestoService interface {
	Crear(ctx context.Context, req dto.CrearPresupuestoRequest) (*model.Presupuesto, error)
	Obtener(ctx context.Context, id string) (*model.Presupuesto, []model.PresupuestoItem, model.Totales, error)
	Listar(ctx context.Context, filter dto.PresupuestoFilter) ([]model.Presupuesto, int64, error)

	AgregarItem(ctx context.Context, presupuestoID string, req dto.AgregarItemRequest) (*model.PresupuestoItem, error)
	ActualizarCantidad(ctx context.Context, itemID string, cantidad int) (*model.PresupuestoItem, error)
	EliminarItem(ctx context.Context, itemID string) error
	// ConfirmarCambios applies a staged change set against one draft:
	// deletions, then quantity changes, then additions. It stops at the first
	// failure; already-applied changes stay applied, and the rest of the set
	// is preserved client-side for retry.
	ConfirmarCambios(ctx context.Context, presupuestoID string, cambios dto.CambiosPendientes) error

	CambiarEstado(ctx context.Context, id string, a model.EstadoPresupuesto) (*model.Presupuesto, error)
	// PDF returns the stored snapshot bytes, or ErrSinPDF for drafts.
	PDF(ctx context.Context, id string) ([]byte, error)
}

type presupuestoService struct {
	repo     repository.PresupuestoRepository
	clientes repository.ClienteRepository
	precios  PrecioService
	pdf      RenderizadorPDF
	blobs    AlmacenPDF
	emails   NotificadorEmail
	locks    cerrojos
}

func NewPresupuestoService(
	repo repository.PresupuestoRepository,
	clientes repository.ClienteRepository,
	precios PrecioService,
	pdf RenderizadorPDF,
	blobs AlmacenPDF,
	emails NotificadorEmail,
) PresupuestoService {
	return &presupuestoService{
		repo:     repo,
		clientes: clientes,
		precios:  precios,
		pdf:      pdf,
		blobs:    blobs,
		emails:   emails,
	}
}

// CalcularTotales sums the line items and applies IVA by payment method.
// An empty quote totals to zero in ARS. When items mix currencies the first
// item's currency labels the totals; the amounts are not converted.
func CalcularTotales(items []model.PresupuestoItem, metodo model.MetodoPago) model.Totales {
	tasa := tasaIVAOtro
	if metodo == model.MetodoEfectivo {
		tasa = tasaIVAEfectivo
	}

	if len(items) == 0 {
		return model.Totales{
			Subtotal: decimal.Zero,
			TasaIVA:  tasa,
			MontoIVA: decimal.Zero,
			Total:    decimal.Zero,
			Moneda:   model.MonedaARS,
		}
	}

	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.PrecioUnitario.Mul(decimal.NewFromInt(int64(item.Cantidad))))
	}
	iva := subtotal.Mul(tasa).Div(cien)

	return model.Totales{
		Subtotal: subtotal,
		TasaIVA:  tasa,
		MontoIVA: iva,
		Total:    subtotal.Add(iva),
		Moneda:   items[0].Moneda,
	}
}

func (s *presupuestoService) Crear(ctx context.Context, req dto.CrearPresupuestoRequest) (*model.Presupuesto, error) {
	if _, err := s.clientes.FindByID(ctx, req.ClienteID); err != nil {
		return nil, fmt.Errorf("cliente %s: %w", req.ClienteID, err)
	}

	p := &model.Presupuesto{
		ClienteID:   req.ClienteID,
		Descripcion: req.Descripcion,
		MetodoPago:  model.MetodoPago(req.MetodoPago),
		Estado:      model.EstadoBorrador,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("crear presupuesto: %w", err)
	}
	return p, nil
}

func (s *presupuestoService) Obtener(ctx context.Context, id string) (*model.Presupuesto, []model.PresupuestoItem, model.Totales, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, nil, model.Totales{}, err
	}
	items, err := s.repo.ItemsByPresupuesto(ctx, id)
	if err != nil {
		return nil, nil, model.Totales{}, fmt.Errorf("items de presupuesto %s: %w", id, err)
	}
	return p, items, CalcularTotales(items, p.MetodoPago), nil
}

func (s *presupuestoService) Listar(ctx context.Context, filter dto.PresupuestoFilter) ([]model.Presupuesto, int64, error) {
	return s.repo.List(ctx, filter)
}

func (s *presupuestoService) AgregarItem(ctx context.Context, presupuestoID string, req dto.AgregarItemRequest) (*model.PresupuestoItem, error) {
	unlock := s.locks.Lock("presupuesto:" + presupuestoID)
	defer unlock()

	p, err := s.repo.FindByID(ctx, presupuestoID)
	if err != nil {
		return nil, err
	}
	if !p.Estado.EsEditable() {
		return nil, ErrPresupuestoNoEditable
	}
	if req.Cantidad <= 0 {
		return nil, ErrCantidadInvalida
	}

	precio, producto, err := s.precios.CalcularPrecio(ctx, req.ProductoID, model.Hoy())
	if err != nil {
		return nil, err
	}
	if !precio.TieneCosto {
		return nil, fmt.Errorf("%w: %s", ErrSinCosto, producto.Nombre)
	}

	item := &model.PresupuestoItem{
		PresupuestoID:  presupuestoID,
		ProductoID:     producto.ID,
		ProductoNombre: producto.Nombre,
		ProductoCodigo: producto.Codigo,
		Cantidad:       req.Cantidad,
		PrecioUnitario: precio.PrecioUnitario,
		Markup:         precio.Markup,
		Moneda:         precio.Moneda,
	}
	if err := s.repo.CreateItem(ctx, item); err != nil {
		return nil, fmt.Errorf("crear item: %w", err)
	}
	return item, nil
}

func (s *presupuestoService) ActualizarCantidad(ctx context.Context, itemID string, cantidad int) (*model.PresupuestoItem, error) {
	item, err := s.repo.FindItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock("presupuesto:" + item.PresupuestoID)
	defer unlock()

	if err := s.verificarEditable(ctx, item.PresupuestoID); err != nil {
		return nil, err
	}
	if cantidad <= 0 {
		return nil, ErrCantidadInvalida
	}

	if err := s.repo.UpdateItemCantidad(ctx, itemID, cantidad); err != nil {
		return nil, fmt.Errorf("actualizar item %s: %w", itemID, err)
	}
	item.Cantidad = cantidad
	return item, nil
}

func (s *presupuestoService) EliminarItem(ctx context.Context, itemID string) error {
	item, err := s.repo.FindItem(ctx, itemID)
	if err != nil {
		return err
	}

	unlock := s.locks.Lock("presupuesto:" + item.PresupuestoID)
	defer unlock()

	if err := s.verificarEditable(ctx, item.PresupuestoID); err != nil {
		return err
	}
	if err := s.repo.DeleteItem(ctx, itemID); err != nil {
		return fmt.Errorf("eliminar item %s: %w", itemID, err)
	}
	return nil
}

func (s *presupuestoService) ConfirmarCambios(ctx context.Context, presupuestoID string, cambios dto.CambiosPendientes) error {
	unlock := s.locks.Lock("presupuesto:" + presupuestoID)
	defer unlock()

	p, err := s.repo.FindByID(ctx, presupuestoID)
	if err != nil {
		return err
	}
	if !p.Estado.EsEditable() {
		return ErrPresupuestoNoEditable
	}

	for _, itemID := range cambios.Bajas {
		if err := s.repo.DeleteItem(ctx, itemID); err != nil {
			return fmt.Errorf("baja de item %s: %w", itemID, err)
		}
	}
	for _, c := range cambios.Cambios {
		if c.Cantidad <= 0 {
			return fmt.Errorf("%w: item %s", ErrCantidadInvalida, c.ItemID)
		}
		if err := s.repo.UpdateItemCantidad(ctx, c.ItemID, c.Cantidad); err != nil {
			return fmt.Errorf("cambio de item %s: %w", c.ItemID, err)
		}
	}
	for _, alta := range cambios.Altas {
		if err := s.crearItemAlta(ctx, presupuestoID, alta); err != nil {
			return err
		}
	}
	return nil
}

// crearItemAlta is AgregarItem without the lock and editability check; the
// caller already holds both.
func (s *presupuestoService) crearItemAlta(ctx context.Context, presupuestoID string, alta dto.AltaItemRequest) error {
	if alta.Cantidad <= 0 {
		return ErrCantidadInvalida
	}
	precio, producto, err := s.precios.CalcularPrecio(ctx, alta.ProductoID, model.Hoy())
	if err != nil {
		return err
	}
	if !precio.TieneCosto {
		return fmt.Errorf("%w: %s", ErrSinCosto, producto.Nombre)
	}
	item := &model.PresupuestoItem{
		PresupuestoID:  presupuestoID,
		ProductoID:     producto.ID,
		ProductoNombre: producto.Nombre,
		ProductoCodigo: producto.Codigo,
		Cantidad:       alta.Cantidad,
		PrecioUnitario: precio.PrecioUnitario,
		Markup:         precio.Markup,
		Moneda:         precio.Moneda,
	}
	if err := s.repo.CreateItem(ctx, item); err != nil {
		return fmt.Errorf("crear item: %w", err)
	}
	return nil
}

func (s *presupuestoService) CambiarEstado(ctx context.Context, id string, a model.EstadoPresupuesto) (*model.Presupuesto, error) {
	unlock := s.locks.Lock("presupuesto:" + id)
	defer unlock()

	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !model.PuedeTransicionar(p.Estado, a) {
		return nil, fmt.Errorf("%w: %s → %s", ErrTransicionInvalida, p.Estado, a)
	}

	if p.Estado == model.EstadoBorrador && a == model.EstadoEnviado {
		return s.enviar(ctx, p)
	}

	if err := s.repo.ActualizarEstado(ctx, id, a); err != nil {
		return nil, fmt.Errorf("actualizar estado de %s: %w", id, err)
	}
	p.Estado = a
	return p, nil
}

// enviar executes the borrador → enviado transition: render the PDF, store
// it, then persist the new state together with the PDF reference in a single
// write. Any failure before that write leaves the quote in borrador with no
// visible change. An orphaned blob from a failed write is harmless; a retry
// renders a fresh one.
func (s *presupuestoService) enviar(ctx context.Context, p *model.Presupuesto) (*model.Presupuesto, error) {
	items, err := s.repo.ItemsByPresupuesto(ctx, p.ID)
	if err != nil {
		return nil, fmt.Errorf("items de presupuesto %s: %w", p.ID, err)
	}
	if len(items) == 0 {
		return nil, ErrPresupuestoVacio
	}

	cliente, err := s.clientes.FindByID(ctx, p.ClienteID)
	if err != nil {
		return nil, fmt.Errorf("cliente %s: %w", p.ClienteID, err)
	}

	tot := CalcularTotales(items, p.MetodoPago)
	data, err := s.pdf.Render(p, cliente, items, tot)
	if err != nil {
		return nil, fmt.Errorf("renderizar pdf de %s: %w", p.ID, err)
	}

	ref, err := s.blobs.Store(fmt.Sprintf("presupuesto_%s.pdf", p.ID), data)
	if err != nil {
		return nil, fmt.Errorf("almacenar pdf de %s: %w", p.ID, err)
	}

	if err := s.repo.ActualizarEstadoYPDF(ctx, p.ID, model.EstadoEnviado, ref); err != nil {
		return nil, fmt.Errorf("actualizar estado de %s: %w", p.ID, err)
	}
	p.Estado = model.EstadoEnviado
	p.PdfRef = ref

	s.notificarEnvio(ctx, p, cliente)
	return p, nil
}

func (s *presupuestoService) notificarEnvio(ctx context.Context, p *model.Presupuesto, cliente *model.Cliente) {
	if s.emails == nil || cliente.Email == "" {
		return
	}
	asunto := fmt.Sprintf("Presupuesto %s", p.ID)
	cuerpo := fmt.Sprintf("Hola %s,\n\nLe enviamos el presupuesto solicitado. Encontrará el detalle en el PDF adjunto.\n\nSaludos", cliente.Nombre)
	if err := s.emails.EncolarEmailPresupuesto(ctx, cliente.Email, asunto, cuerpo, p.PdfRef); err != nil {
		log.Warn().Err(err).Str("presupuesto_id", p.ID).Msg("no se pudo encolar email de presupuesto")
	}
}

func (s *presupuestoService) PDF(ctx context.Context, id string) ([]byte, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.PdfRef == "" {
		return nil, ErrSinPDF
	}
	data, err := s.blobs.Fetch(p.PdfRef)
	if err != nil {
		return nil, fmt.Errorf("leer pdf de %s: %w", id, err)
	}
	return data, nil
}

func (s *presupuestoService) verificarEditable(ctx context.Context, presupuestoID string) error {
	p, err := s.repo.FindByID(ctx, presupuestoID)
	if err != nil {
		return err
	}
	if !p.Estado.EsEditable() {
		return ErrPresupuestoNoEditable
	}
	return nil
}
