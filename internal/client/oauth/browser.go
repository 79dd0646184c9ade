package oauth

import (
	"os/exec"
	"runtime"
	"sync"
)

// SystemBrowser opens URLs through the platform's URL handler
type SystemBrowser struct {
	// command builds the launcher invocation; overridable in tests
	command func(url string) *exec.Cmd
}

// NewSystemBrowser creates a browser for the current platform
func NewSystemBrowser() *SystemBrowser {
	return &SystemBrowser{command: platformCommand}
}

func platformCommand(url string) *exec.Cmd {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", url)
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return exec.Command("xdg-open", url)
	}
}

// Open launches the handler and returns a liveness handle
func (b *SystemBrowser) Open(url string) (Process, error) {
	cmd := b.command(url)
	if err := cmd.Start(); err != nil {
		return nil, err
	}

	p := &launcherProcess{}
	go func() {
		err := cmd.Wait()
		p.mu.Lock()
		p.done = true
		p.failed = err != nil
		p.mu.Unlock()
	}()

	return p, nil
}

// launcherProcess tracks the URL-handler process. Launchers like
// xdg-open exit as soon as they hand the URL to the real browser, so
// a clean exit still counts as alive; only a failed launch counts as
// the browser being gone.
type launcherProcess struct {
	mu     sync.Mutex
	done   bool
	failed bool
}

func (p *launcherProcess) Alive() (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.done && p.failed {
		return false, nil
	}
	return true, nil
}
