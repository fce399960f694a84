// Package commands provides the command-line interface for the envenc tool.
//
// It implements commands for:
//   - encryption
//   - decryption
//   - printing encrypted env files
//
// Flags can also be set through ENVENC_ prefixed environment variables,
// merged by viper and validated before any file is touched.
package commands
