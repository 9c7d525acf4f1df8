// Package app contains the core application logic. It wires configuration,
// services and game graphs into an App and runs it either as a console game
// or as a socket.io server, decoupled from any specific entrypoint.
package app
