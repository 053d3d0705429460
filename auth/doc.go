// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides token signing and ID generation utilities.

# Session Tokens

A visitor session is identified by a signed token:

	token := auth.SignSession(sessionID, salt)      // "<id>.<hmac>"
	id, err := auth.ValidateSessionToken(token, salt)

The signature is HMAC-SHA256, URL-safe base64 without padding. A token whose
signature does not match returns ErrInvalidSignature; one without the dot
separator returns ErrInvalidToken.

# Order Codes

Short codes customers can quote at the counter:

	code := auth.OrderCode(orderID, salt)

Codes are base62 encoded (alphanumeric only) and deterministic from the order
ID and salt.

# ID Generation

Random hex IDs for database records:

	id, err := auth.GenerateID(16)  // 32 hex characters

# Phone Hashing

Phone numbers never reach the logs in clear:

	digest := auth.HashPhone(phone, salt)

Returns first 8 bytes (16 hex chars) of HMAC-SHA256.
*/
package auth
