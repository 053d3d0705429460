// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package cep looks up Brazilian postal codes on ViaCEP.
package cep

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultBaseURL = "https://viacep.com.br"
	DefaultTimeout = 10 * time.Second
)

var (
	ErrInvalidCEP   = errors.New("CEP inválido. Digite um CEP com 8 dígitos.")
	ErrNotFound     = errors.New("CEP não encontrado.")
	ErrLookupFailed = errors.New("Erro ao buscar o CEP. Tente novamente.")
)

// Address holds the fields copied into the delivery form
type Address struct {
	CEP         string `json:"cep"`
	Logradouro  string `json:"logradouro"`
	Complemento string `json:"complemento"`
	Bairro      string `json:"bairro"`
	Localidade  string `json:"localidade"`
	UF          string `json:"uf"`
}

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: DefaultTimeout},
	}
}

// Normalize strips everything but digits and checks there are exactly 8
func Normalize(raw string) (string, error) {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() != 8 {
		return "", ErrInvalidCEP
	}
	return b.String(), nil
}

// Lookup resolves raw into an address. It never retries.
func (c *Client) Lookup(ctx context.Context, raw string) (Address, error) {
	code, err := Normalize(raw)
	if err != nil {
		return Address{}, err
	}

	url := fmt.Sprintf("%s/ws/%s/json/", c.BaseURL, code)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Address{}, fmt.Errorf("%w: %v", ErrLookupFailed, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		slog.Error("cep lookup failed", "cep", code, "error", err)
		return Address{}, fmt.Errorf("%w: %v", ErrLookupFailed, err)
	}
	defer resp.Body.Close()

	// ViaCEP answers 400 for malformed codes
	if resp.StatusCode == http.StatusBadRequest {
		return Address{}, ErrInvalidCEP
	}
	if resp.StatusCode != http.StatusOK {
		slog.Error("cep lookup failed", "cep", code, "status", resp.StatusCode)
		return Address{}, fmt.Errorf("%w: status %d", ErrLookupFailed, resp.StatusCode)
	}

	var body struct {
		Address
		Erro any `json:"erro"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Address{}, fmt.Errorf("%w: %v", ErrLookupFailed, err)
	}
	if notFound(body.Erro) {
		return Address{}, ErrNotFound
	}

	slog.Info("cep resolved", "cep", code, "city", body.Localidade, "uf", body.UF)
	return body.Address, nil
}

// notFound accepts both forms ViaCEP has used: true and "true"
func notFound(v any) bool {
	switch e := v.(type) {
	case bool:
		return e
	case string:
		return e == "true"
	}
	return false
}
