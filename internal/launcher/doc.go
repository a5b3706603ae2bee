// Package launcher runs an external script through the host command
// interpreter and relays its output into a sink. Start spawns the process
// and returns immediately; stdout chunks, stderr chunks and the exit
// event are delivered to a single consumer goroutine that writes the sink.
// The Launcher serializes launches that share a sink.
package launcher
