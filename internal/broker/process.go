package broker

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"os/exec"
	"sync"

	"github.com/hamr-launcher/hamrd/internal/herrors"
	"github.com/hamr-launcher/hamrd/internal/types"
)

// conn is the minimal bidirectional line-stream abstraction shared by
// stdio-backed and socket-backed plugins, so the rest of the broker never
// has to branch on HandlerKind once a process is spawned.
type conn interface {
	io.Closer
	send(Request) error
	recv() (Response, error)
}

// pipeConn wraps a running child process's stdin/stdout, one JSON object
// per line each way -- the same line-oriented split the teacher's
// websocket hub uses for its readPump/writePump pair, adapted from frames
// to lines.
type pipeConn struct {
	cmd    *exec.Cmd
	writer *bufio.Writer
	reader *bufio.Scanner
	mu     sync.Mutex
}

func spawnStdio(command []string, workingDir string) (*pipeConn, error) {
	if len(command) == 0 {
		return nil, herrors.New(herrors.KindConfigError, "plugin has no command configured")
	}
	cmd := exec.Command(command[0], command[1:]...)
	cmd.Dir = workingDir

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, err
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, err
	}

	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 64*1024), 8*1024*1024)
	return &pipeConn{cmd: cmd, writer: bufio.NewWriter(stdin), reader: scanner}, nil
}

func (p *pipeConn) send(req Request) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	data, err := json.Marshal(req)
	if err != nil {
		return err
	}
	if _, err := p.writer.Write(data); err != nil {
		return err
	}
	if err := p.writer.WriteByte('\n'); err != nil {
		return err
	}
	return p.writer.Flush()
}

func (p *pipeConn) recv() (Response, error) {
	if !p.reader.Scan() {
		if err := p.reader.Err(); err != nil {
			return Response{}, err
		}
		return Response{}, io.EOF
	}
	var resp Response
	err := json.Unmarshal(p.reader.Bytes(), &resp)
	return resp, err
}

func (p *pipeConn) Close() error {
	if p.cmd.Process != nil {
		_ = p.cmd.Process.Kill()
	}
	return p.cmd.Wait()
}

// alive reports whether the child process has not yet exited.
func (p *pipeConn) alive() bool {
	return p.cmd.ProcessState == nil
}

// socketConn wraps a net.Conn to a socket-handler plugin.
type socketConn struct {
	nc     net.Conn
	writer *bufio.Writer
	reader *bufio.Scanner
	mu     sync.Mutex
}

func dialSocket(path string) (*socketConn, error) {
	nc, err := net.Dial("unix", path)
	if err != nil {
		return nil, err
	}
	scanner := bufio.NewScanner(nc)
	scanner.Buffer(make([]byte, 64*1024), 8*1024*1024)
	return &socketConn{nc: nc, writer: bufio.NewWriter(nc), reader: scanner}, nil
}

func (s *socketConn) send(req Request) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := json.Marshal(req)
	if err != nil {
		return err
	}
	if _, err := s.writer.Write(data); err != nil {
		return err
	}
	if err := s.writer.WriteByte('\n'); err != nil {
		return err
	}
	return s.writer.Flush()
}

func (s *socketConn) recv() (Response, error) {
	if !s.reader.Scan() {
		if err := s.reader.Err(); err != nil {
			return Response{}, err
		}
		return Response{}, io.EOF
	}
	var resp Response
	err := json.Unmarshal(s.reader.Bytes(), &resp)
	return resp, err
}

func (s *socketConn) Close() error { return s.nc.Close() }

// ActiveProcess is the daemon's handle to a running, session-scoped plugin
// process (spec §3 "Active Plugin Process"). One exists per open,
// non-background plugin; background daemons instead live in Broker.daemons
// and are shared across sessions.
type ActiveProcess struct {
	PluginID     string
	SessionToken uint64
	conn         conn
	Defunct      bool
}

// daemonProcess is a background-daemon connection kept alive across
// sessions, per spec §4.3 "one instance serves many sessions".
type daemonProcess struct {
	plugin  *types.Plugin
	conn    conn
	mu      sync.Mutex
	defunct bool
}

func connectPlugin(p *types.Plugin) (conn, error) {
	switch p.EffectiveHandler() {
	case types.HandlerSocket:
		if len(p.Manifest.Command) == 0 {
			return nil, &herrors.Error{Kind: herrors.KindConfigError, Plugin: p.ID, Message: "socket plugin has no socket path configured"}
		}
		return dialSocket(p.Manifest.Command[0])
	default:
		return spawnStdio(p.Manifest.Command, p.WorkingDir)
	}
}

func fmtPluginErr(pluginID string, err error) error {
	return fmt.Errorf("plugin %s: %w", pluginID, err)
}
