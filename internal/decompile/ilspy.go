package decompile

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"datamine/internal/services"
)

// Decompiler lists and decompiles types of one assembly.
type Decompiler interface {
	ListTypes(ctx context.Context, assembly string, refDirs []string) ([]TypeRef, error)
	DecompileTypes(ctx context.Context, assembly string, refDirs []string, types []TypeRef) ([]byte, error)
}

// Runner abstracts command execution for the ilspycmd wrapper.
type Runner interface {
	Output(ctx context.Context, binary string, args []string) ([]byte, error)
}

type commandRunner struct{}

func (commandRunner) Output(ctx context.Context, binary string, args []string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return out, fmt.Errorf("%w: %s", err, msg)
		}
		return out, err
	}
	return out, nil
}

// listKinds selects classes, interfaces, structs, delegates, and enums.
var listKinds = []string{"c", "i", "s", "d", "e"}

// ILSpy runs the ilspycmd command line tool.
type ILSpy struct {
	binary  string
	timeout time.Duration
	runner  Runner
}

// NewILSpy builds an ilspycmd wrapper. A nil runner uses os/exec.
func NewILSpy(binary string, timeout time.Duration, runner Runner) *ILSpy {
	if runner == nil {
		runner = commandRunner{}
	}
	return &ILSpy{binary: strings.TrimSpace(binary), timeout: timeout, runner: runner}
}

// ListTypes returns the types ilspycmd lists for assembly.
func (s *ILSpy) ListTypes(ctx context.Context, assembly string, refDirs []string) ([]TypeRef, error) {
	args := []string{assembly}
	for _, kind := range listKinds {
		args = append(args, "-l", kind)
	}
	args = append(args, referenceArgs(refDirs)...)
	out, err := s.run(ctx, args)
	if err != nil {
		return nil, err
	}
	return parseTypeList(out), nil
}

// DecompileTypes decompiles each type with -t and concatenates the sources.
func (s *ILSpy) DecompileTypes(ctx context.Context, assembly string, refDirs []string, types []TypeRef) ([]byte, error) {
	var buf bytes.Buffer
	for i, t := range types {
		args := append([]string{assembly, "-t", t.FullName()}, referenceArgs(refDirs)...)
		out, err := s.run(ctx, args)
		if err != nil {
			return nil, err
		}
		if i > 0 {
			buf.WriteByte('\n')
		}
		buf.Write(bytes.ReplaceAll(out, []byte("\r\n"), []byte("\n")))
	}
	return buf.Bytes(), nil
}

func (s *ILSpy) run(ctx context.Context, args []string) ([]byte, error) {
	if s.binary == "" {
		return nil, services.Wrap(services.ErrConfiguration, "decompile", "run", "decompiler binary not configured", nil)
	}
	runCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	out, err := s.runner.Output(runCtx, s.binary, args)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			return nil, services.Wrap(services.ErrExternalTool, "decompile", "run", fmt.Sprintf("timed out after %s", s.timeout), err)
		}
		return nil, err
	}
	return out, nil
}

func referenceArgs(dirs []string) []string {
	var args []string
	for _, d := range dirs {
		if d = strings.TrimSpace(d); d != "" {
			args = append(args, "-r", d)
		}
	}
	return args
}

// parseTypeList reads "<Kind> <FullName>" lines.
func parseTypeList(out []byte) []TypeRef {
	var types []TypeRef
	scanner := bufio.NewScanner(bytes.NewReader(out))
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		_, name, ok := strings.Cut(line, " ")
		if !ok {
			continue
		}
		types = append(types, ParseTypeRef(name))
	}
	return types
}
