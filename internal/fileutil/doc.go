// Package fileutil resolves and checks the paths handed to a controller.
//
// ResolveExisting and ResolveReadable turn a possibly relative path into an
// absolute one and verify it exists (and can be opened) before any process is
// spawned. EnsureDir prepares directories such as the port lock directory.
package fileutil
