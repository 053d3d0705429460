package models

import (
	"encoding/json"
	"time"
)

// Delivery modes
const (
	DeliveryPickup = "retirar"
	DeliveryHome   = "entrega"
)

// Checkout modes
const (
	CheckoutStore    = "store"
	CheckoutAPI      = "api"
	CheckoutWhatsApp = "whatsapp"
)

// Request types

type LineItem struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

type CreateOrderRequest struct {
	Items     []LineItem `json:"items"`
	Total     float64    `json:"total"`
	Date      string     `json:"date"`
	Delivery  *Delivery  `json:"delivery,omitempty"`
	ClienteID string     `json:"clienteId,omitempty"`
}

type RegisterCustomerRequest struct {
	Nome     string `json:"nome"`
	Telefone string `json:"telefone"`
}

type RedeemRequest struct {
	Pontos int `json:"pontos"`
}

// Price may arrive as a number or as the raw data-price string
type AddItemRequest struct {
	Name  string          `json:"name"`
	Price json.RawMessage `json:"price"`
}

type CheckoutRequest struct {
	Delivery Delivery `json:"delivery"`
}

type SelectTypeRequest struct {
	Tipo string `json:"tipo"`
}

type SelectFlavorRequest struct {
	Index     int  `json:"index"`
	AddToCart bool `json:"add_to_cart,omitempty"`
}

// X is the pointer position for touch actions; Index is the lock target
type CarouselActionRequest struct {
	X     float64 `json:"x"`
	Index *int    `json:"index,omitempty"`
}

// Response types

type CreateSessionResponse struct {
	SessionID string `json:"session_id"`
	Token     string `json:"token"`
}

type BalanceResponse struct {
	Pontos    int           `json:"pontos"`
	Historico []Transaction `json:"historico"`
}

type RedeemResponse struct {
	Sucesso bool `json:"sucesso"`
	Pontos  int  `json:"pontos"`
}

type ListOrdersResponse struct {
	Pedidos []Order `json:"pedidos"`
}

type ThemeResponse struct {
	Theme string `json:"theme"`
}

// Domain types

type Delivery struct {
	Mode        string `json:"mode"`
	CEP         string `json:"cep,omitempty"`
	Rua         string `json:"rua,omitempty"`
	Numero      string `json:"numero,omitempty"`
	Complemento string `json:"complemento,omitempty"`
	Bairro      string `json:"bairro,omitempty"`
	Cidade      string `json:"cidade,omitempty"`
	Estado      string `json:"estado,omitempty"`
}

type OrderCustomer struct {
	Nome     string `json:"nome"`
	Telefone string `json:"telefone"`
}

type Order struct {
	ID        string         `json:"id"`
	Code      string         `json:"code"`
	Items     []LineItem     `json:"items"`
	Total     float64        `json:"total"`
	Date      string         `json:"date"`
	Delivery  *Delivery      `json:"delivery,omitempty"`
	Cliente   *OrderCustomer `json:"cliente,omitempty"`
	ClienteID string         `json:"clienteId,omitempty"`
	CriadoEm  time.Time      `json:"criadoEm"`
}

type Customer struct {
	ID       string    `json:"id"`
	Nome     string    `json:"nome"`
	Telefone string    `json:"telefone"`
	Pontos   int       `json:"pontos"`
	CriadoEm time.Time `json:"-"`
}

type Transaction struct {
	ClienteID string    `json:"clienteId"`
	Descricao string    `json:"descricao"`
	Pontos    int       `json:"pontos"`
	CriadoEm  time.Time `json:"criadoEm"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
