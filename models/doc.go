// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

Field names follow the storefront's Portuguese wire format (nome, telefone,
pontos, pedidos) wherever the page already spoke it.

# Request Types

Types for parsing incoming JSON:

  - CreateOrderRequest: items, total, date, delivery, clienteId
  - RegisterCustomerRequest: nome, telefone
  - RedeemRequest: pontos
  - AddItemRequest: name, price (number or string)
  - CheckoutRequest: delivery
  - SelectTypeRequest: tipo
  - SelectFlavorRequest: index
  - CarouselActionRequest: x, index

# Response Types

  - CreateSessionResponse: session_id, token
  - BalanceResponse: pontos, historico
  - RedeemResponse: sucesso, pontos
  - ListOrdersResponse: pedidos
  - ThemeResponse: theme
  - ErrorResponse: error, message

# Domain Types

  - Order: a placed order with its line items and optional delivery address
  - Delivery: pickup or home delivery with the address form fields
  - Customer: a server-side loyalty account
  - Transaction: one loyalty points movement

# Constants

Delivery modes:

	DeliveryPickup = "retirar"
	DeliveryHome   = "entrega"

Checkout modes:

	CheckoutStore    = "store"
	CheckoutAPI      = "api"
	CheckoutWhatsApp = "whatsapp"
*/
package models
