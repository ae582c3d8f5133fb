// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api is the client side of the LegiChat answer endpoint.
//
// The backend receives one user message per request and answers with a single
// completed assistant message. There is no streaming.
//
// # Key Types
//
//   - Client: the interface the chat controller depends on
//   - HTTPClient: resty-based client for POST {baseURL}/chat
//   - SimulatedClient: offline stand-in that replies after a fixed delay
//   - RequestError: HTTP status or transport failure
//
// # Usage
//
//	client := api.NewHTTPClient("http://localhost:5000/api").
//	    WithTimeout(60 * time.Second).
//	    WithMaxRetries(2)
//
//	reply, err := client.Submit(ctx, conv.ID, "Qu'est-ce qu'un bail ?")
//	if api.IsCancellation(err) {
//	    // the user stopped the generation
//	}
package api
