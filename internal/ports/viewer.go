package ports

import "os/exec"

// DocumentViewer shows a stored change document in an external program
type DocumentViewer interface {
	// Command prepares the program that displays doc. cleanup removes whatever
	// Command created and must be called once the program has exited.
	Command(name string, doc []byte) (cmd *exec.Cmd, cleanup func(), err error)
}
