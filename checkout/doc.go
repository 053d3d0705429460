// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package checkout turns a cart into an order.

Service.Checkout rejects an empty cart before anything is sent and requires
CEP, street and number when the visitor chose home delivery. The order then
goes to a Dispatcher:

  - StoreDispatcher saves it through the order repository
  - APIDispatcher posts it to a remote POST /api/pedidos
  - WhatsAppDispatcher renders it as a message and returns a wa.me link

Only after a successful dispatch is the purchase credited to the loyalty
wallet (tagged with the first item's type for suggestions) and the cart
cleared. A failed dispatch leaves both untouched.

UserMessage maps checkout errors to the text shown to the visitor.
*/
package checkout
