// Package portlock serializes server launches on the same host:port across
// processes.
//
// Two test binaries that start a server on the same port race between the
// occupancy probe and the spawn. Holding an exclusive file lock named after
// host:port for that window makes the loser observe the winner's listener
// instead of spawning a second server that fails to bind.
package portlock
