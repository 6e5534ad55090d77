package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/mncort/forestalApp-sub000/internal/dto"
	"github.com/mncort/forestalApp-sub000/internal/infra"
	"github.com/mncort/forestalApp-sub000/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────

// stubPresupuestoRepo is an in-memory PresupuestoRepository.
type stubPresupuestoRepo struct {
	presupuestos map[string]*model.Presupuesto
	items        map[string]*model.PresupuestoItem
	seq          int
	patchCalls   []string // records which mutation methods ran, in order
}

func newStubPresupuestoRepo() *stubPresupuestoRepo {
	return &stubPresupuestoRepo{
		presupuestos: make(map[string]*model.Presupuesto),
		items:        make(map[string]*model.PresupuestoItem),
	}
}

func (r *stubPresupuestoRepo) Create(_ context.Context, p *model.Presupuesto) error {
	r.seq++
	p.ID = fmt.Sprintf("q%d", r.seq)
	copia := *p
	r.presupuestos[p.ID] = &copia
	return nil
}

func (r *stubPresupuestoRepo) FindByID(_ context.Context, id string) (*model.Presupuesto, error) {
	p, ok := r.presupuestos[id]
	if !ok {
		return nil, infra.ErrNoEncontrado
	}
	copia := *p
	return &copia, nil
}

func (r *stubPresupuestoRepo) List(_ context.Context, _ dto.PresupuestoFilter) ([]model.Presupuesto, int64, error) {
	var out []model.Presupuesto
	for _, p := range r.presupuestos {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *stubPresupuestoRepo) ActualizarEstado(_ context.Context, id string, estado model.EstadoPresupuesto) error {
	p, ok := r.presupuestos[id]
	if !ok {
		return infra.ErrNoEncontrado
	}
	p.Estado = estado
	r.patchCalls = append(r.patchCalls, "estado")
	return nil
}

func (r *stubPresupuestoRepo) ActualizarEstadoYPDF(_ context.Context, id string, estado model.EstadoPresupuesto, pdfRef string) error {
	p, ok := r.presupuestos[id]
	if !ok {
		return infra.ErrNoEncontrado
	}
	p.Estado = estado
	p.PdfRef = pdfRef
	r.patchCalls = append(r.patchCalls, "estado+pdf")
	return nil
}

func (r *stubPresupuestoRepo) ItemsByPresupuesto(_ context.Context, presupuestoID string) ([]model.PresupuestoItem, error) {
	var out []model.PresupuestoItem
	for _, item := range r.items {
		if item.PresupuestoID == presupuestoID {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (r *stubPresupuestoRepo) FindItem(_ context.Context, itemID string) (*model.PresupuestoItem, error) {
	item, ok := r.items[itemID]
	if !ok {
		return nil, infra.ErrNoEncontrado
	}
	copia := *item
	return &copia, nil
}

func (r *stubPresupuestoRepo) CreateItem(_ context.Context, item *model.PresupuestoItem) error {
	r.seq++
	item.ID = fmt.Sprintf("i%d", r.seq)
	copia := *item
	r.items[item.ID] = &copia
	r.patchCalls = append(r.patchCalls, "alta:"+item.ProductoID)
	return nil
}

func (r *stubPresupuestoRepo) UpdateItemCantidad(_ context.Context, itemID string, cantidad int) error {
	item, ok := r.items[itemID]
	if !ok {
		return infra.ErrNoEncontrado
	}
	item.Cantidad = cantidad
	r.patchCalls = append(r.patchCalls, "cambio:"+itemID)
	return nil
}

func (r *stubPresupuestoRepo) DeleteItem(_ context.Context, itemID string) error {
	if _, ok := r.items[itemID]; !ok {
		return infra.ErrNoEncontrado
	}
	delete(r.items, itemID)
	r.patchCalls = append(r.patchCalls, "baja:"+itemID)
	return nil
}

// stubClienteRepo resolves every id to the same client.
type stubClienteRepo struct {
	email string
}

func (r *stubClienteRepo) FindByID(_ context.Context, id string) (*model.Cliente, error) {
	if id == "fantasma" {
		return nil, infra.ErrNoEncontrado
	}
	return &model.Cliente{ID: id, Nombre: "Corralón San Martín", Email: r.email}, nil
}

// stubPrecios serves fixed pricing snapshots per product.
type stubPrecios struct {
	precios map[string]*ResultadoPrecio
}

func (s *stubPrecios) CalcularPrecio(_ context.Context, productoID string, _ model.Fecha) (*ResultadoPrecio, *model.Producto, error) {
	res, ok := s.precios[productoID]
	if !ok {
		return nil, nil, infra.ErrNoEncontrado
	}
	return res, &model.Producto{ID: productoID, Nombre: "Producto " + productoID, Codigo: "C-" + productoID}, nil
}

type stubPDF struct {
	fail    bool
	renders int
}

func (s *stubPDF) Render(*model.Presupuesto, *model.Cliente, []model.PresupuestoItem, model.Totales) ([]byte, error) {
	if s.fail {
		return nil, errors.New("render roto")
	}
	s.renders++
	return []byte("%PDF-fake"), nil
}

type stubBlobs struct {
	fail  bool
	blobs map[string][]byte
}

func newStubBlobs() *stubBlobs { return &stubBlobs{blobs: make(map[string][]byte)} }

func (s *stubBlobs) Store(nombre string, data []byte) (string, error) {
	if s.fail {
		return "", errors.New("disco lleno")
	}
	s.blobs[nombre] = data
	return nombre, nil
}

func (s *stubBlobs) Fetch(ref string) ([]byte, error) {
	data, ok := s.blobs[ref]
	if !ok {
		return nil, errors.New("blob inexistente")
	}
	return data, nil
}

type stubEmails struct {
	enviados []string
}

func (s *stubEmails) EncolarEmailPresupuesto(_ context.Context, to, _, _, _ string) error {
	s.enviados = append(s.enviados, to)
	return nil
}

// ── Fixture ───────────────────────────────────────────────────────────────────

type fixture struct {
	repo   *stubPresupuestoRepo
	blobs  *stubBlobs
	pdf    *stubPDF
	emails *stubEmails
	svc    PresupuestoService
}

func newFixture() *fixture {
	f := &fixture{
		repo:   newStubPresupuestoRepo(),
		blobs:  newStubBlobs(),
		pdf:    &stubPDF{},
		emails: &stubEmails{},
	}
	precios := &stubPrecios{precios: map[string]*ResultadoPrecio{
		"p1": {TieneCosto: true, PrecioUnitario: decimal.NewFromInt(100), Markup: decimal.NewFromInt(15), Moneda: model.MonedaARS},
		"p2": {TieneCosto: true, PrecioUnitario: decimal.NewFromInt(250), Markup: decimal.NewFromInt(10), Moneda: model.MonedaARS},
		"sincosto": {TieneCosto: false, Moneda: model.MonedaARS},
	}}
	f.svc = NewPresupuestoService(f.repo, &stubClienteRepo{email: "cliente@corralon.ar"}, precios, f.pdf, f.blobs, f.emails)
	return f
}

func (f *fixture) crearBorrador(t *testing.T, metodo string) *model.Presupuesto {
	t.Helper()
	p, err := f.svc.Crear(context.Background(), dto.CrearPresupuestoRequest{
		ClienteID:   "cli1",
		Descripcion: "Pedido de maderas",
		MetodoPago:  metodo,
	})
	require.NoError(t, err)
	require.Equal(t, model.EstadoBorrador, p.Estado)
	return p
}

// ── Totales ───────────────────────────────────────────────────────────────────

func TestCalcularTotalesEfectivo(t *testing.T) {
	items := []model.PresupuestoItem{
		{Cantidad: 2, PrecioUnitario: decimal.NewFromInt(100), Moneda: model.MonedaARS},
	}
	tot := CalcularTotales(items, model.MetodoEfectivo)

	assert.True(t, tot.Subtotal.Equal(decimal.NewFromInt(200)))
	assert.True(t, tot.TasaIVA.Equal(decimal.NewFromFloat(10.5)))
	assert.True(t, tot.MontoIVA.Equal(decimal.NewFromInt(21)), "iva %s", tot.MontoIVA)
	assert.True(t, tot.Total.Equal(decimal.NewFromInt(221)), "total %s", tot.Total)
	assert.Equal(t, model.MonedaARS, tot.Moneda)
}

func TestCalcularTotalesOtroMetodo(t *testing.T) {
	items := []model.PresupuestoItem{
		{Cantidad: 2, PrecioUnitario: decimal.NewFromInt(100), Moneda: model.MonedaARS},
	}
	tot := CalcularTotales(items, model.MetodoOtro)

	assert.True(t, tot.TasaIVA.Equal(decimal.NewFromInt(21)))
	assert.True(t, tot.MontoIVA.Equal(decimal.NewFromInt(42)))
	assert.True(t, tot.Total.Equal(decimal.NewFromInt(242)))
}

func TestCalcularTotalesPresupuestoVacio(t *testing.T) {
	tot := CalcularTotales(nil, model.MetodoOtro)

	assert.True(t, tot.Subtotal.IsZero())
	assert.True(t, tot.MontoIVA.IsZero())
	assert.True(t, tot.Total.IsZero())
	assert.Equal(t, model.MonedaARS, tot.Moneda)
}

// ── Item ledger ───────────────────────────────────────────────────────────────

func TestAgregarItemTomaSnapshotDePrecio(t *testing.T) {
	f := newFixture()
	p := f.crearBorrador(t, "efectivo")

	item, err := f.svc.AgregarItem(context.Background(), p.ID, dto.AgregarItemRequest{ProductoID: "p1", Cantidad: 3})
	require.NoError(t, err)
	assert.Equal(t, "Producto p1", item.ProductoNombre)
	assert.Equal(t, "C-p1", item.ProductoCodigo)
	assert.True(t, item.PrecioUnitario.Equal(decimal.NewFromInt(100)))
	assert.True(t, item.Markup.Equal(decimal.NewFromInt(15)))
}

func TestAgregarItemRechazaCantidadInvalida(t *testing.T) {
	f := newFixture()
	p := f.crearBorrador(t, "efectivo")

	_, err := f.svc.AgregarItem(context.Background(), p.ID, dto.AgregarItemRequest{ProductoID: "p1", Cantidad: 0})
	assert.ErrorIs(t, err, ErrCantidadInvalida)

	_, err = f.svc.AgregarItem(context.Background(), p.ID, dto.AgregarItemRequest{ProductoID: "p1", Cantidad: -2})
	assert.ErrorIs(t, err, ErrCantidadInvalida)
}

func TestAgregarItemRechazaProductoSinCosto(t *testing.T) {
	f := newFixture()
	p := f.crearBorrador(t, "efectivo")

	_, err := f.svc.AgregarItem(context.Background(), p.ID, dto.AgregarItemRequest{ProductoID: "sincosto", Cantidad: 1})
	assert.ErrorIs(t, err, ErrSinCosto)
}

func TestMutacionesSoloEnBorrador(t *testing.T) {
	f := newFixture()
	p := f.crearBorrador(t, "efectivo")
	ctx := context.Background()

	item, err := f.svc.AgregarItem(ctx, p.ID, dto.AgregarItemRequest{ProductoID: "p1", Cantidad: 1})
	require.NoError(t, err)

	_, err = f.svc.CambiarEstado(ctx, p.ID, model.EstadoEnviado)
	require.NoError(t, err)

	// Every mutation on a sent quote is rejected, checked before anything else
	_, err = f.svc.AgregarItem(ctx, p.ID, dto.AgregarItemRequest{ProductoID: "p2", Cantidad: 0})
	assert.ErrorIs(t, err, ErrPresupuestoNoEditable)

	_, err = f.svc.ActualizarCantidad(ctx, item.ID, 5)
	assert.ErrorIs(t, err, ErrPresupuestoNoEditable)

	err = f.svc.EliminarItem(ctx, item.ID)
	assert.ErrorIs(t, err, ErrPresupuestoNoEditable)

	err = f.svc.ConfirmarCambios(ctx, p.ID, dto.CambiosPendientes{Bajas: []string{item.ID}})
	assert.ErrorIs(t, err, ErrPresupuestoNoEditable)
}

func TestSnapshotDeItemNoCambiaConElPrecio(t *testing.T) {
	f := newFixture()
	p := f.crearBorrador(t, "otro")
	ctx := context.Background()

	precios := &stubPrecios{precios: map[string]*ResultadoPrecio{
		"p1": {TieneCosto: true, PrecioUnitario: decimal.NewFromInt(100), Moneda: model.MonedaARS},
	}}
	f.svc = NewPresupuestoService(f.repo, &stubClienteRepo{}, precios, f.pdf, f.blobs, f.emails)

	_, err := f.svc.AgregarItem(ctx, p.ID, dto.AgregarItemRequest{ProductoID: "p1", Cantidad: 1})
	require.NoError(t, err)

	// Price changes after the item was added
	precios.precios["p1"].PrecioUnitario = decimal.NewFromInt(900)

	_, items, tot, err := f.svc.Obtener(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, items[0].PrecioUnitario.Equal(decimal.NewFromInt(100)))
	assert.True(t, tot.Subtotal.Equal(decimal.NewFromInt(100)))
}

// ── Staged change sets ────────────────────────────────────────────────────────

func TestConfirmarCambiosAplicaEnOrden(t *testing.T) {
	f := newFixture()
	p := f.crearBorrador(t, "efectivo")
	ctx := context.Background()

	viejo, err := f.svc.AgregarItem(ctx, p.ID, dto.AgregarItemRequest{ProductoID: "p1", Cantidad: 1})
	require.NoError(t, err)
	cambiable, err := f.svc.AgregarItem(ctx, p.ID, dto.AgregarItemRequest{ProductoID: "p2", Cantidad: 2})
	require.NoError(t, err)

	f.repo.patchCalls = nil
	err = f.svc.ConfirmarCambios(ctx, p.ID, dto.CambiosPendientes{
		Bajas:   []string{viejo.ID},
		Cambios: []dto.CambioCantidad{{ItemID: cambiable.ID, Cantidad: 7}},
		Altas:   []dto.AltaItemRequest{{ProductoID: "p1", Cantidad: 4}},
	})
	require.NoError(t, err)

	require.Len(t, f.repo.patchCalls, 3)
	assert.Equal(t, "baja:"+viejo.ID, f.repo.patchCalls[0])
	assert.Equal(t, "cambio:"+cambiable.ID, f.repo.patchCalls[1])
	assert.Equal(t, "alta:p1", f.repo.patchCalls[2])

	_, items, _, err := f.svc.Obtener(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestConfirmarCambiosSeDetieneEnElPrimerError(t *testing.T) {
	f := newFixture()
	p := f.crearBorrador(t, "efectivo")
	ctx := context.Background()

	baja, err := f.svc.AgregarItem(ctx, p.ID, dto.AgregarItemRequest{ProductoID: "p1", Cantidad: 1})
	require.NoError(t, err)

	err = f.svc.ConfirmarCambios(ctx, p.ID, dto.CambiosPendientes{
		Bajas: []string{baja.ID},
		Altas: []dto.AltaItemRequest{{ProductoID: "sincosto", Cantidad: 1}},
	})
	assert.ErrorIs(t, err, ErrSinCosto)

	// The deletion before the failing addition stays applied
	_, items, _, err := f.svc.Obtener(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

// ── Lifecycle ─────────────────────────────────────────────────────────────────

func TestEnviarGeneraPDFYActualizaEstadoJunto(t *testing.T) {
	f := newFixture()
	p := f.crearBorrador(t, "efectivo")
	ctx := context.Background()

	_, err := f.svc.AgregarItem(ctx, p.ID, dto.AgregarItemRequest{ProductoID: "p1", Cantidad: 2})
	require.NoError(t, err)

	f.repo.patchCalls = nil
	enviado, err := f.svc.CambiarEstado(ctx, p.ID, model.EstadoEnviado)
	require.NoError(t, err)

	assert.Equal(t, model.EstadoEnviado, enviado.Estado)
	assert.NotEmpty(t, enviado.PdfRef)
	// State and PDF reference flip in one write
	assert.Equal(t, []string{"estado+pdf"}, f.repo.patchCalls)
	// Email queued for the client
	assert.Equal(t, []string{"cliente@corralon.ar"}, f.emails.enviados)
}

func TestEnviarPresupuestoVacio(t *testing.T) {
	f := newFixture()
	p := f.crearBorrador(t, "efectivo")

	_, err := f.svc.CambiarEstado(context.Background(), p.ID, model.EstadoEnviado)
	assert.ErrorIs(t, err, ErrPresupuestoVacio)
}

func TestEnviarFallaRenderDejaBorrador(t *testing.T) {
	f := newFixture()
	f.pdf.fail = true
	p := f.crearBorrador(t, "efectivo")
	ctx := context.Background()

	_, err := f.svc.AgregarItem(ctx, p.ID, dto.AgregarItemRequest{ProductoID: "p1", Cantidad: 1})
	require.NoError(t, err)

	_, err = f.svc.CambiarEstado(ctx, p.ID, model.EstadoEnviado)
	require.Error(t, err)

	actual, _, _, err := f.svc.Obtener(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, model.EstadoBorrador, actual.Estado)
	assert.Empty(t, actual.PdfRef)
	assert.Empty(t, f.emails.enviados)
}

func TestEnviarFallaAlmacenDejaBorrador(t *testing.T) {
	f := newFixture()
	f.blobs.fail = true
	p := f.crearBorrador(t, "efectivo")
	ctx := context.Background()

	_, err := f.svc.AgregarItem(ctx, p.ID, dto.AgregarItemRequest{ProductoID: "p1", Cantidad: 1})
	require.NoError(t, err)

	_, err = f.svc.CambiarEstado(ctx, p.ID, model.EstadoEnviado)
	require.Error(t, err)

	actual, _, _, err := f.svc.Obtener(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, model.EstadoBorrador, actual.Estado)
}

func TestTransicionesIlegales(t *testing.T) {
	f := newFixture()
	p := f.crearBorrador(t, "efectivo")
	ctx := context.Background()

	// borrador → aprobado sin pasar por enviado
	_, err := f.svc.CambiarEstado(ctx, p.ID, model.EstadoAprobado)
	assert.ErrorIs(t, err, ErrTransicionInvalida)

	_, err = f.svc.AgregarItem(ctx, p.ID, dto.AgregarItemRequest{ProductoID: "p1", Cantidad: 1})
	require.NoError(t, err)
	_, err = f.svc.CambiarEstado(ctx, p.ID, model.EstadoEnviado)
	require.NoError(t, err)

	// enviado → borrador no existe
	_, err = f.svc.CambiarEstado(ctx, p.ID, model.EstadoBorrador)
	assert.ErrorIs(t, err, ErrTransicionInvalida)

	_, err = f.svc.CambiarEstado(ctx, p.ID, model.EstadoAprobado)
	require.NoError(t, err)

	// aprobado es terminal
	_, err = f.svc.CambiarEstado(ctx, p.ID, model.EstadoRechazado)
	assert.ErrorIs(t, err, ErrTransicionInvalida)
}

func TestAprobarNoRegeneraPDF(t *testing.T) {
	f := newFixture()
	p := f.crearBorrador(t, "otro")
	ctx := context.Background()

	_, err := f.svc.AgregarItem(ctx, p.ID, dto.AgregarItemRequest{ProductoID: "p1", Cantidad: 1})
	require.NoError(t, err)
	enviado, err := f.svc.CambiarEstado(ctx, p.ID, model.EstadoEnviado)
	require.NoError(t, err)
	refOriginal := enviado.PdfRef

	aprobado, err := f.svc.CambiarEstado(ctx, p.ID, model.EstadoAprobado)
	require.NoError(t, err)
	assert.Equal(t, refOriginal, aprobado.PdfRef)
	assert.Equal(t, 1, f.pdf.renders)
}

func TestPDFDeBorradorNoExiste(t *testing.T) {
	f := newFixture()
	p := f.crearBorrador(t, "efectivo")

	_, err := f.svc.PDF(context.Background(), p.ID)
	assert.ErrorIs(t, err, ErrSinPDF)
}

func TestPDFDevuelveSnapshotAlmacenado(t *testing.T) {
	f := newFixture()
	p := f.crearBorrador(t, "efectivo")
	ctx := context.Background()

	_, err := f.svc.AgregarItem(ctx, p.ID, dto.AgregarItemRequest{ProductoID: "p1", Cantidad: 1})
	require.NoError(t, err)
	_, err = f.svc.CambiarEstado(ctx, p.ID, model.EstadoEnviado)
	require.NoError(t, err)

	data, err := f.svc.PDF(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-fake"), data)
}

func TestCrearRechazaClienteInexistente(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Crear(context.Background(), dto.CrearPresupuestoRequest{
		ClienteID:   "fantasma",
		Descripcion: "Pedido",
		MetodoPago:  "efectivo",
	})
	assert.ErrorIs(t, err, infra.ErrNoEncontrado)
}
