package speech

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// CommandSource runs a recorder command (e.g. sox/arecord with a silence or
// duration stop condition) and exposes its stdout as the capture stream.
// The command must exit when the utterance ends so the stream reaches EOF.
type CommandSource struct {
	argv []string
}

// NewCommandSource parses a recorder command line. Returns nil for an empty
// command, which leaves the capture capability unavailable.
func NewCommandSource(command string) *CommandSource {
	argv := strings.Fields(command)
	if len(argv) == 0 {
		return nil
	}
	return &CommandSource{argv: argv}
}

// Open starts the recorder and returns its stdout stream. Cancelling ctx
// kills the recorder.
func (s *CommandSource) Open(ctx context.Context) (io.ReadCloser, error) {
	cmd := exec.CommandContext(ctx, s.argv[0], s.argv[1:]...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open recorder stdout: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start recorder %s: %w", s.argv[0], err)
	}
	return &commandStream{cmd: cmd, stdout: stdout}, nil
}

type commandStream struct {
	cmd    *exec.Cmd
	stdout io.ReadCloser
}

func (c *commandStream) Read(p []byte) (int, error) { return c.stdout.Read(p) }

func (c *commandStream) Close() error {
	c.stdout.Close()
	return c.cmd.Wait()
}

// CommandSink pipes audio bytes into a player command (e.g. aplay/mpv).
type CommandSink struct {
	argv []string
}

// NewCommandSink parses a player command line. Returns nil for an empty
// command, which leaves the playback capability unavailable.
func NewCommandSink(command string) *CommandSink {
	argv := strings.Fields(command)
	if len(argv) == 0 {
		return nil
	}
	return &CommandSink{argv: argv}
}

// Play feeds the audio to the player command and waits for it to finish.
// Cancelling ctx kills the player, cutting the utterance short.
func (s *CommandSink) Play(ctx context.Context, audio []byte) error {
	cmd := exec.CommandContext(ctx, s.argv[0], s.argv[1:]...)
	cmd.Stdin = bytes.NewReader(audio)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("player %s failed: %w", s.argv[0], err)
	}
	return nil
}
