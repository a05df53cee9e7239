package infra

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func servidorStore(t *testing.T, handler http.HandlerFunc) *StoreClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewStoreClient(srv.URL, "admin@tienda.local", "secreto")
}

func TestStoreClientAutenticaYLista(t *testing.T) {
	var auths atomic.Int32
	client := servidorStore(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/admins/auth-with-password":
			auths.Add(1)
			var creds map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
			assert.Equal(t, "admin@tienda.local", creds["identity"])
			json.NewEncoder(w).Encode(map[string]string{"token": "tok_1"})
		case "/api/collections/productos/records":
			assert.Equal(t, "Bearer tok_1", r.Header.Get("Authorization"))
			assert.Equal(t, `codigo = "A-1"`, r.URL.Query().Get("filter"))
			json.NewEncoder(w).Encode(ListResult{
				Page:       1,
				TotalItems: 1,
				Items:      []json.RawMessage{json.RawMessage(`{"id":"p1","codigo":"A-1"}`)},
			})
		default:
			t.Fatalf("ruta inesperada %s", r.URL.Path)
		}
	})

	res, err := client.List(context.Background(), "productos", `codigo = "A-1"`)
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, 1, res.TotalItems)

	// Second call reuses the cached token.
	_, err = client.List(context.Background(), "productos", `codigo = "A-1"`)
	require.NoError(t, err)
	assert.Equal(t, int32(1), auths.Load())
}

func TestStoreClientReintentaCon401(t *testing.T) {
	var auths, listados atomic.Int32
	client := servidorStore(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/admins/auth-with-password":
			n := auths.Add(1)
			json.NewEncoder(w).Encode(map[string]string{"token": map[int32]string{1: "viejo", 2: "nuevo"}[n]})
		default:
			if listados.Add(1) == 1 {
				// The store expired the first token.
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			assert.Equal(t, "Bearer nuevo", r.Header.Get("Authorization"))
			json.NewEncoder(w).Encode(ListResult{})
		}
	})

	_, err := client.List(context.Background(), "productos", "")
	require.NoError(t, err)
	assert.Equal(t, int32(2), auths.Load())
	assert.Equal(t, int32(2), listados.Load())
}

func TestStoreClientPropagaErroresConEstado(t *testing.T) {
	client := servidorStore(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/admins/auth-with-password" {
			json.NewEncoder(w).Encode(map[string]string{"token": "tok"})
			return
		}
		http.Error(w, "no existe", http.StatusNotFound)
	})

	err := client.Get(context.Background(), "importaciones", "nope", &struct{}{})
	require.Error(t, err)

	var storeErr *StoreError
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, http.StatusNotFound, storeErr.Status)
}

func TestStoreClientCreaYParchea(t *testing.T) {
	client := servidorStore(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/api/admins/auth-with-password":
			json.NewEncoder(w).Encode(map[string]string{"token": "tok"})
		case r.Method == http.MethodPost:
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			body["id"] = "rec_1"
			json.NewEncoder(w).Encode(body)
		case r.Method == http.MethodPatch:
			assert.Equal(t, "/api/collections/productos/records/rec_1", r.URL.Path)
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("{}"))
		}
	})

	var creado struct {
		ID     string `json:"id"`
		Nombre string `json:"nombre"`
	}
	err := client.Create(context.Background(), "productos", map[string]string{"nombre": "Lavadora"}, &creado)
	require.NoError(t, err)
	assert.Equal(t, "rec_1", creado.ID)
	assert.Equal(t, "Lavadora", creado.Nombre)

	err = client.Update(context.Background(), "productos", "rec_1", map[string]any{"stock_actual": 3})
	require.NoError(t, err)
}

func TestEscapeFilterValue(t *testing.T) {
	assert.Equal(t, `nombre \"raro\"`, EscapeFilterValue(`nombre "raro"`))
}
