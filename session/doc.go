// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package session keeps one storefront page per visitor: a cart, a loyalty
// wallet, a theme preference and the two product carousels ("tipos-salgado"
// and "sabores"). Wallet and theme live in the shared storage.Store under
// sessions/<id>/, so the Manager can rebuild an expired session from a
// signed token.
package session
