package ffmpeg

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"sync"

	"animutools/internal/services"
)

// ProgressUpdate captures one block of ffmpeg -progress output.
type ProgressUpdate struct {
	// Seconds is the output timestamp ffmpeg has reached, or -1 when
	// the block carried no usable timestamp.
	Seconds float64
	FPS     float64
	Speed   string
	Done    bool
}

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string, onStdout, onStderr func(string)) error
}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// Client wraps ffmpeg CLI interactions.
type Client struct {
	binary string
	exec   Executor
}

// New constructs an ffmpeg client.
func New(binary string, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("ffmpeg binary required")
	}
	client := &Client{binary: binary, exec: commandExecutor{}}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Binary returns the configured ffmpeg executable.
func (c *Client) Binary() string {
	return c.binary
}

// stderrTailLines bounds how much encoder stderr is retained for error
// reporting. ffmpeg writes its diagnostics there.
const stderrTailLines = 30

// Encode runs ffmpeg with the provided arguments. When progress is
// non-nil the machine-readable progress stream is requested on stdout
// and parsed into ProgressUpdate callbacks. A non-zero exit surfaces as
// an ErrExternalTool-tagged error carrying the tail of stderr.
func (c *Client) Encode(ctx context.Context, args []string, progress func(ProgressUpdate)) error {
	if len(args) == 0 {
		return errors.New("ffmpeg encode: empty argument list")
	}

	full := args
	if progress != nil {
		full = append([]string{"-nostats", "-progress", "pipe:1"}, args...)
	}

	var (
		tailMu sync.Mutex
		tail   []string
	)
	onStderr := func(line string) {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			return
		}
		tailMu.Lock()
		tail = append(tail, line)
		if len(tail) > stderrTailLines {
			tail = tail[len(tail)-stderrTailLines:]
		}
		tailMu.Unlock()
	}

	parser := newProgressParser(progress)
	onStdout := func(line string) {
		parser.feed(line)
	}

	if err := c.exec.Run(ctx, c.binary, full, onStdout, onStderr); err != nil {
		tailMu.Lock()
		detail := strings.Join(tail, "\n")
		tailMu.Unlock()
		return services.Wrap(services.ErrExternalTool, "ffmpeg", "encode", detail, err)
	}
	parser.flush()
	return nil
}

// progressParser accumulates key=value lines until a progress= record
// terminates the block, then emits one update.
type progressParser struct {
	emit    func(ProgressUpdate)
	current ProgressUpdate
	seen    bool
}

func newProgressParser(emit func(ProgressUpdate)) *progressParser {
	return &progressParser{emit: emit, current: ProgressUpdate{Seconds: -1}}
}

func (p *progressParser) feed(line string) {
	if p == nil || p.emit == nil {
		return
	}
	key, value, ok := strings.Cut(strings.TrimSpace(line), "=")
	if !ok {
		return
	}
	value = strings.TrimSpace(value)
	switch key {
	case "out_time_us", "out_time_ms":
		// Both keys are microseconds in ffmpeg's progress output.
		if us, err := strconv.ParseInt(value, 10, 64); err == nil && us >= 0 {
			p.current.Seconds = float64(us) / 1e6
		}
		p.seen = true
	case "out_time":
		if p.current.Seconds < 0 {
			if secs, ok := parseClock(value); ok {
				p.current.Seconds = secs
			}
		}
		p.seen = true
	case "fps":
		if fps, err := strconv.ParseFloat(value, 64); err == nil {
			p.current.FPS = fps
		}
		p.seen = true
	case "speed":
		p.current.Speed = value
		p.seen = true
	case "progress":
		p.current.Done = value == "end"
		p.emit(p.current)
		p.current = ProgressUpdate{Seconds: -1}
		p.seen = false
	}
}

// flush emits a trailing partial block, if any.
func (p *progressParser) flush() {
	if p == nil || p.emit == nil || !p.seen {
		return
	}
	p.emit(p.current)
	p.current = ProgressUpdate{Seconds: -1}
	p.seen = false
}

// parseClock converts ffmpeg's HH:MM:SS.micro timestamps to seconds.
func parseClock(value string) (float64, bool) {
	parts := strings.Split(value, ":")
	if len(parts) != 3 {
		return 0, false
	}
	hours, err1 := strconv.ParseFloat(parts[0], 64)
	minutes, err2 := strconv.ParseFloat(parts[1], 64)
	seconds, err3 := strconv.ParseFloat(parts[2], 64)
	if err1 != nil || err2 != nil || err3 != nil {
		return 0, false
	}
	return hours*3600 + minutes*60 + seconds, true
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string, onStdout, onStderr func(string)) error {
	cmd := exec.CommandContext(ctx, binary, args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start command: %w", err)
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		scanner := bufio.NewScanner(stdout)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			if onStdout != nil {
				onStdout(scanner.Text())
			}
		}
	}()
	go func() {
		defer wg.Done()
		scanner := bufio.NewScanner(stderr)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			if onStderr != nil {
				onStderr(scanner.Text())
			}
		}
	}()

	wg.Wait()
	if err := cmd.Wait(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	return nil
}
