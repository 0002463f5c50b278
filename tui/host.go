package tui

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/atotto/clipboard"
)

// Host provides the side effects this program delegates to the desktop
type Host interface {
	OpenURL(target string) error
	Copy(text string) error
}

// SystemHost opens URLs with the platform opener and copies with the system clipboard
type SystemHost struct{}

func (SystemHost) Copy(text string) error {
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("copy to clipboard: %w", err)
	}
	return nil
}

// OpenURL prefers $BROWSER, then the platform's default handler
func (SystemHost) OpenURL(target string) error {
	if target == "" {
		return fmt.Errorf("empty URL")
	}

	if browser := strings.Fields(os.Getenv("BROWSER")); len(browser) > 0 {
		args := append(browser[1:], target)
		if err := exec.Command(browser[0], args...).Start(); err == nil {
			return nil
		}
	}

	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", target)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", target)
	default:
		cmd = exec.Command("xdg-open", target)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("open %s: %w", target, err)
	}
	return nil
}
