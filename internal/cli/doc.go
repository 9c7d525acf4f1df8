// Package cli turns command-line arguments into an app.Config.
//
// Flags are applied on top of the configuration read from TALEGRID_*
// environment variables, so a flag always wins over the environment. The
// merged result is validated by app.NewConfig. Usage and validation problems
// come back as *ExitError carrying the process exit code.
package cli
