// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/crocante/catalog"
	"github.com/danielhkuo/crocante/cep"
	"github.com/danielhkuo/crocante/models"
	"github.com/danielhkuo/crocante/reviews"
	"github.com/danielhkuo/crocante/testutil"
)

func TestCatalogTypes(t *testing.T) {
	handler := NewCatalogHandler(catalog.NewStore(catalog.Default()))

	req := httptest.NewRequest("GET", "/api/catalogo/tipos", nil)
	w := httptest.NewRecorder()
	handler.ListTypes(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var types []catalog.Type
	testutil.AssertJSON(t, w, &types)
	if len(types) != 6 {
		t.Fatalf("Expected 6 types, got %d", len(types))
	}
	if types[0].Tipo != "coxinha" {
		t.Errorf("Expected coxinha first, got '%s'", types[0].Tipo)
	}
}

func TestCatalogFlavors(t *testing.T) {
	handler := NewCatalogHandler(catalog.NewStore(catalog.Default()))

	testCases := []struct {
		name     string
		tipo     string
		status   int
		expected int
	}{
		{"coxinha", "coxinha", http.StatusOK, 6},
		{"enroladinho", "enroladinho", http.StatusOK, 2},
		{"unknown", "pastel", http.StatusNotFound, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/catalogo/tipos/"+tc.tipo+"/sabores", nil)
			req.SetPathValue("tipo", tc.tipo)
			w := httptest.NewRecorder()
			handler.ListFlavors(w, req)

			testutil.AssertStatus(t, w, tc.status)
			if tc.status != http.StatusOK {
				return
			}

			var flavors []catalog.Flavor
			testutil.AssertJSON(t, w, &flavors)
			if len(flavors) != tc.expected {
				t.Errorf("Expected %d flavors, got %d", tc.expected, len(flavors))
			}
		})
	}
}

func TestCatalogFollowsStore(t *testing.T) {
	store := catalog.NewStore(catalog.Default())
	handler := NewCatalogHandler(store)

	small, err := catalog.Parse([]byte("tipos:\n  - tipo: pastel\n    nome: Pastel\n"))
	if err != nil {
		t.Fatalf("Failed to parse catalog: %v", err)
	}
	store.Replace(small)

	req := httptest.NewRequest("GET", "/api/catalogo/tipos", nil)
	w := httptest.NewRecorder()
	handler.ListTypes(w, req)

	var types []catalog.Type
	testutil.AssertJSON(t, w, &types)
	if len(types) != 1 || types[0].Tipo != "pastel" {
		t.Errorf("Expected the replaced catalog, got %+v", types)
	}
}

func TestCatalogProducts(t *testing.T) {
	handler := NewCatalogHandler(catalog.NewStore(catalog.Default()))

	req := httptest.NewRequest("GET", "/api/catalogo/produtos", nil)
	w := httptest.NewRecorder()
	handler.ListProducts(w, req)

	var products []catalog.Product
	testutil.AssertJSON(t, w, &products)
	if len(products) != 6 {
		t.Errorf("Expected 6 products, got %d", len(products))
	}
}

func TestCatalogReviews(t *testing.T) {
	handler := NewCatalogHandler(catalog.NewStore(catalog.Default()))

	req := httptest.NewRequest("GET", "/api/avaliacoes", nil)
	w := httptest.NewRecorder()
	handler.ListReviews(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var cards []reviews.Card
	testutil.AssertJSON(t, w, &cards)
	if len(cards) != 4 {
		t.Fatalf("Expected 4 reviews, got %d", len(cards))
	}
	half := cards[1].Estrelas
	if half.Full != 4 || !half.Half || half.Empty != 0 || half.Label != "4.5" {
		t.Errorf("Expected 4.5 stars, got %+v", half)
	}
	if cards[3].Review.Autor != "Carlos M." {
		t.Errorf("Expected Carlos M. last, got '%s'", cards[3].Review.Autor)
	}
}

func TestAddressLookup(t *testing.T) {
	viacep := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ws/01001000/json/":
			w.Write([]byte(`{"cep":"01001-000","logradouro":"Praça da Sé","bairro":"Sé","localidade":"São Paulo","uf":"SP"}`))
		case "/ws/99999999/json/":
			w.Write([]byte(`{"erro":true}`))
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer viacep.Close()

	handler := NewAddressHandler(cep.NewClient(viacep.URL))

	testCases := []struct {
		name    string
		cep     string
		status  int
		message string
	}{
		{"found", "01001-000", http.StatusOK, ""},
		{"too short", "0100", http.StatusBadRequest, "CEP inválido. Digite um CEP com 8 dígitos."},
		{"not found", "99999999", http.StatusNotFound, "CEP não encontrado."},
		{"upstream error", "12345678", http.StatusBadGateway, "Erro ao buscar o CEP. Tente novamente."},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/cep/"+tc.cep, nil)
			req.SetPathValue("cep", tc.cep)
			w := httptest.NewRecorder()
			handler.Lookup(w, req)

			testutil.AssertStatus(t, w, tc.status)

			if tc.status == http.StatusOK {
				var addr cep.Address
				testutil.AssertJSON(t, w, &addr)
				if addr.Logradouro != "Praça da Sé" || addr.UF != "SP" {
					t.Errorf("Unexpected address %+v", addr)
				}
				return
			}

			var resp models.ErrorResponse
			testutil.AssertJSON(t, w, &resp)
			if resp.Message != tc.message {
				t.Errorf("Expected message '%s', got '%s'", tc.message, resp.Message)
			}
		})
	}
}
