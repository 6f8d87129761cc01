// Package api implements the HTTP handlers for quiz generation submission,
// task status polling, and the standalone transcript extraction utility
// endpoint. Handlers translate between the JSON wire format and the domain
// layer and map errors to the status codes the polling protocol relies on.
package api
