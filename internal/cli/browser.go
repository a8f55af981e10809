package cli

import (
	"os/exec"
	"runtime"
)

// OpenBrowser launches the platform's default handler for uri without waiting for it.
func OpenBrowser(uri string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", uri)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", "", uri)
	default:
		cmd = exec.Command("xdg-open", uri)
	}
	return cmd.Start()
}
