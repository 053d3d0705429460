// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package reviews renders customer ratings as star rows and rotates the
// testimonials shown on the storefront, one every few seconds.
package reviews
