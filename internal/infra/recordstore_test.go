package infra

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordStoreListDecodaEnvelope(t *testing.T) {
	var gotToken, gotWhere string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get("xc-token")
		gotWhere = r.URL.Query().Get("where")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"list":[{"Id":"1","Nombre":"Pino"}],"pageInfo":{"totalRows":42}}`))
	}))
	defer srv.Close()

	store := NewRecordStore(srv.URL, "secreto")

	var out []map[string]string
	total, err := store.List(context.Background(), "productos", ListQuery{Where: "(Activo,eq,true)"}, &out)
	require.NoError(t, err)
	assert.Equal(t, int64(42), total)
	require.Len(t, out, 1)
	assert.Equal(t, "Pino", out[0]["Nombre"])
	assert.Equal(t, "secreto", gotToken)
	assert.Equal(t, "(Activo,eq,true)", gotWhere)
}

func TestRecordStoreGet404(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	store := NewRecordStore(srv.URL, "")

	var out map[string]string
	err := store.Get(context.Background(), "productos", "nope", &out)
	assert.ErrorIs(t, err, ErrNoEncontrado)
}

func TestRecordStore404NoCuentaParaElBreaker(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	store := NewRecordStore(srv.URL, "")

	// Well past the failure threshold; a missing record is a valid answer,
	// not a store outage.
	for i := 0; i < 10; i++ {
		var out map[string]string
		err := store.Get(context.Background(), "productos", "nope", &out)
		require.ErrorIs(t, err, ErrNoEncontrado)
	}
	assert.Equal(t, CBClosed, store.EstadoCB())
}

func TestRecordStore500AbreElBreaker(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	store := NewRecordStore(srv.URL, "")

	for i := 0; i < 5; i++ {
		var out map[string]string
		_ = store.Get(context.Background(), "productos", "x", &out)
	}
	assert.Equal(t, CBOpen, store.EstadoCB())

	var out map[string]string
	err := store.Get(context.Background(), "productos", "x", &out)
	assert.ErrorIs(t, err, ErrCircuitOpen)
}

func TestRecordStoreUpdateMandaPatch(t *testing.T) {
	var gotMethod, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	store := NewRecordStore(srv.URL, "")

	err := store.Update(context.Background(), "presupuestos", "q1", map[string]interface{}{"Estado": "enviado"})
	require.NoError(t, err)
	assert.Equal(t, http.MethodPatch, gotMethod)
	assert.Equal(t, "/presupuestos/q1", gotPath)
}
