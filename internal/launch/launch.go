package launch

import (
	"fmt"
	"os"
	"os/exec"
	"sync"

	log "github.com/sirupsen/logrus"
)

// Launcher starts external programs detached from the viewer. Finished
// processes are reaped in the background.
type Launcher struct {
	running sync.WaitGroup
}

func New() *Launcher {
	return &Launcher{}
}

// Launch starts command with args and returns without waiting for it
func (l *Launcher) Launch(command string, args ...string) error {
	cmd := exec.Command(command, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", command, err)
	}

	log.WithFields(log.Fields{"command": command, "args": args, "pid": cmd.Process.Pid}).Info("Started external viewer")

	l.running.Add(1)
	go func() {
		defer l.running.Done()
		if err := cmd.Wait(); err != nil {
			log.WithField("command", command).WithError(err).Warn("External viewer failed")
		}
	}()
	return nil
}

// wait blocks until every launched process has exited
func (l *Launcher) wait() {
	l.running.Wait()
}
