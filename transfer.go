package torchrom

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// ErrTransport is returned when fetching or publishing a schematic
// fails.
var ErrTransport = errors.New("schematic transfer failed")

// Server identifies the remote host holding schematic files. Transfers
// run scp as a subprocess and block until it exits.
type Server struct {
	Host string
	User string
	Port int
	// Dir is the remote directory containing schematic files.
	Dir string
	// Log receives one entry per scp invocation. Defaults to
	// slog.Default.
	Log *slog.Logger
}

// Fetch downloads the named schematic and returns its raw bytes.
func (s *Server) Fetch(name string) ([]byte, error) {
	local := s.tempPath()
	defer os.Remove(local)

	if err := s.scp(s.remotePath(name), local); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(local)
	if err != nil {
		return nil, fmt.Errorf("read fetched schematic: %w", err)
	}
	return data, nil
}

// Publish uploads raw schematic bytes under the given remote name.
func (s *Server) Publish(data []byte, name string) error {
	local := s.tempPath()
	defer os.Remove(local)

	if err := os.WriteFile(local, data, 0o644); err != nil {
		return fmt.Errorf("stage schematic for upload: %w", err)
	}
	return s.scp(local, s.remotePath(name))
}

// scp copies src to dst, where either side may be a user@host:path
// remote specifier.
func (s *Server) scp(src, dst string) error {
	port := s.Port
	if port == 0 {
		port = 22
	}
	cmd := exec.Command("scp", "-P", strconv.Itoa(port), src, dst)
	s.logger().Info("running scp", "command", strings.Join(cmd.Args, " "))

	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: scp %s to %s: %v: %s", ErrTransport, src, dst, err, bytes.TrimSpace(out))
	}
	return nil
}

func (s *Server) remotePath(name string) string {
	return fmt.Sprintf("%s@%s:%s", s.User, s.Host, path.Join(s.Dir, name+".schem"))
}

// tempPath returns a unique local staging path so concurrent runs never
// clobber each other's downloads.
func (s *Server) tempPath() string {
	return filepath.Join(os.TempDir(), "torchrom-"+uuid.NewString()+".schem")
}

func (s *Server) logger() *slog.Logger {
	if s.Log != nil {
		return s.Log
	}
	return slog.Default()
}
