// Package iocli is the terminal surface of the command-line client.
package iocli

//go:generate moq -out io_mock.go . IO

// IO is where the CLI prints and reads from. It is also an io.Writer
// so tabular output can go through text/tabwriter.
type IO interface {
	Println(a ...any)
	Printf(format string, a ...any)
	ReadInput(prompt string) (string, error)
	ReadPassword(prompt string) (string, error)
	Write(p []byte) (n int, err error)
}
