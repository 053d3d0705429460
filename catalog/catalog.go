// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/danielhkuo/crocante/loyalty"
)

//go:embed default.yaml
var defaultYAML []byte

var (
	ErrInvalidCatalog = errors.New("invalid catalog")
	ErrUnknownType    = errors.New("unknown type")
)

// MaxRating is the top of the review scale
const MaxRating = 5

const (
	// FlagshipID is the product suggested when there is no history to go on
	FlagshipID = 1

	FlagshipMessage = "Experimente o nosso carro-chefe!"
	SimilarMessage  = "Que tal experimentar este?"
)

type Flavor struct {
	Sabor  string  `yaml:"sabor" json:"sabor"`
	Nome   string  `yaml:"nome" json:"nome"`
	Preco  float64 `yaml:"preco" json:"preco"`
	Imagem string  `yaml:"imagem" json:"imagem,omitempty"`
}

type Type struct {
	Tipo    string   `yaml:"tipo" json:"tipo"`
	Nome    string   `yaml:"nome" json:"nome"`
	Sabores []Flavor `yaml:"sabores" json:"sabores"`
}

// ItemName is the cart line name for a flavor of this type, e.g.
// "Coxinha de Frango"
func (t Type) ItemName(f Flavor) string {
	return t.Nome + " de " + f.Nome
}

type Product struct {
	ID    int     `yaml:"id" json:"id"`
	Nome  string  `yaml:"nome" json:"nome"`
	Preco float64 `yaml:"preco" json:"preco"`
	Tipo  string  `yaml:"tipo" json:"tipo"`
}

// Review is a customer comment shown in the rotating testimonials
type Review struct {
	Autor string  `yaml:"autor" json:"autor"`
	Texto string  `yaml:"texto" json:"texto"`
	Nota  float64 `yaml:"nota" json:"nota"`
}

type Suggestion struct {
	Product Product `json:"produto"`
	Message string  `json:"mensagem"`
}

// Catalog is immutable once parsed; share it freely.
type Catalog struct {
	Tipos      []Type    `yaml:"tipos"`
	Produtos   []Product `yaml:"produtos"`
	Avaliacoes []Review  `yaml:"avaliacoes"`

	byTipo map[string]int
}

// Parse decodes and validates a YAML catalog
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Load reads and parses the catalog file at path
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return Parse(data)
}

// Default returns the built-in menu
func Default() *Catalog {
	c, err := Parse(defaultYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog: %v", err))
	}
	return c
}

func (c *Catalog) validate() error {
	if len(c.Tipos) == 0 {
		return fmt.Errorf("%w: no types", ErrInvalidCatalog)
	}

	c.byTipo = make(map[string]int, len(c.Tipos))
	for i, t := range c.Tipos {
		key := strings.TrimSpace(t.Tipo)
		if key == "" {
			return fmt.Errorf("%w: type %d has no key", ErrInvalidCatalog, i)
		}
		if _, dup := c.byTipo[key]; dup {
			return fmt.Errorf("%w: duplicate type %q", ErrInvalidCatalog, key)
		}
		c.Tipos[i].Tipo = key
		c.byTipo[key] = i

		for _, f := range t.Sabores {
			if !validPrice(f.Preco) {
				return fmt.Errorf("%w: %s/%s has invalid price %v", ErrInvalidCatalog, key, f.Sabor, f.Preco)
			}
		}
	}

	ids := make(map[int]bool, len(c.Produtos))
	for _, p := range c.Produtos {
		if ids[p.ID] {
			return fmt.Errorf("%w: duplicate product id %d", ErrInvalidCatalog, p.ID)
		}
		ids[p.ID] = true
		if !validPrice(p.Preco) {
			return fmt.Errorf("%w: product %d has invalid price %v", ErrInvalidCatalog, p.ID, p.Preco)
		}
	}

	for i, r := range c.Avaliacoes {
		if math.IsNaN(r.Nota) || r.Nota < 0 || r.Nota > MaxRating {
			return fmt.Errorf("%w: review %d has rating %v", ErrInvalidCatalog, i, r.Nota)
		}
	}
	return nil
}

func validPrice(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}

// Types returns the types in menu order
func (c *Catalog) Types() []Type {
	out := make([]Type, len(c.Tipos))
	copy(out, c.Tipos)
	return out
}

func (c *Catalog) Type(tipo string) (Type, bool) {
	i, ok := c.byTipo[tipo]
	if !ok {
		return Type{}, false
	}
	return c.Tipos[i], true
}

// Flavors returns the flavors of tipo, or ErrUnknownType
func (c *Catalog) Flavors(tipo string) ([]Flavor, error) {
	t, ok := c.Type(tipo)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, tipo)
	}
	out := make([]Flavor, len(t.Sabores))
	copy(out, t.Sabores)
	return out, nil
}

func (c *Catalog) Products() []Product {
	out := make([]Product, len(c.Produtos))
	copy(out, c.Produtos)
	return out
}

// Reviews returns the testimonials in rotation order
func (c *Catalog) Reviews() []Review {
	out := make([]Review, len(c.Avaliacoes))
	copy(out, c.Avaliacoes)
	return out
}

// Suggest picks products for a customer. With order history it offers the
// products sharing the last order's tipo; otherwise, or when none match, it
// falls back to the flagship.
func (c *Catalog) Suggest(customer loyalty.Customer, registered bool) []Suggestion {
	if registered {
		if last, ok := customer.LastOrder(); ok && last.Tipo != "" {
			var out []Suggestion
			for _, p := range c.Produtos {
				if p.Tipo == last.Tipo {
					out = append(out, Suggestion{Product: p, Message: SimilarMessage})
				}
			}
			if len(out) > 0 {
				return out
			}
		}
	}

	if p, ok := c.flagship(); ok {
		return []Suggestion{{Product: p, Message: FlagshipMessage}}
	}
	return nil
}

func (c *Catalog) flagship() (Product, bool) {
	for _, p := range c.Produtos {
		if p.ID == FlagshipID {
			return p, true
		}
	}
	if len(c.Produtos) > 0 {
		return c.Produtos[0], true
	}
	return Product{}, false
}
