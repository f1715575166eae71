// Package process owns the spawned server process.
//
// It defines Server, the handle returned by Start that wraps the native
// *exec.Cmd, the Platform strategies that build the launch command and tear
// down the process tree (PosixPlatform and WindowsPlatform), WaitUntil for
// bounded polling, and StopAndNil for clearing a handle after termination.
package process
