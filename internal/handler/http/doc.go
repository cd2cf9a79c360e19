// SPDX-License-Identifier: Apache-2.0

// Package http implements the HTTP transport layer of the application.
// It provides middleware, route handlers, and request/response utilities
// for the REST API. Session resolution, encryption-token propagation,
// logging, and tracing are all handled at this layer before requests are
// forwarded to the service layer.
package http
