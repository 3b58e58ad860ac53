// StreamAtlas - Streaming Catalog Analytics and Composition Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamatlas

/*
Package supervisor builds the suture supervision tree that keeps the
long-running server mode alive.

The tree has two child layers under the root: the ingest layer holds the
periodic catalog refresh scheduler, and the api layer holds the HTTP
server. A panic or error in either layer restarts only that layer's
services with exponential backoff; supervision events are logged through
sutureslog into the application's structured logger.
*/
package supervisor
