// Package commands defines the mrzscan CLI and wires configuration and
// logging for subcommands.
//
// Commands
//
//   - parse      Parse two MRZ lines given as arguments
//   - scan       Read the MRZ from an image, hOCR or text file
//   - checksum   Compute or verify the check digit of a field
//
// # Configuration
//
// Settings are read from the environment and from an optional .env file
// (see internal/config). Flags given on the command line take precedence.
// Results are written to stdout as text, JSON or CSV; logs go to stderr.
package commands
