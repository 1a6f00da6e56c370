package adapter

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os/exec"
	"regexp"
	"time"

	m "retype.dev/pkg/retype/internal/model"
)

// Normalizer rewrites the compiled program into the syntactic subset the
// annotation walk understands.
type Normalizer interface {
	Normalize(ctx context.Context, src []byte) ([]byte, error)
}

// IdentityNormalizer returns its input unchanged.
type IdentityNormalizer struct{}

// Normalize returns src.
func (IdentityNormalizer) Normalize(_ context.Context, src []byte) ([]byte, error) {
	return src, nil
}

// Fixup is a textual repair applied after the command passes.
type Fixup struct {
	Pattern     *regexp.Regexp
	Replacement string
	// All replaces every match instead of the first one.
	All bool
}

// Apply runs the fixup on src.
func (f Fixup) Apply(src []byte) []byte {
	if f.All {
		return f.Pattern.ReplaceAll(src, []byte(f.Replacement))
	}

	loc := f.Pattern.FindSubmatchIndex(src)
	if loc == nil {
		return src
	}

	var out []byte

	out = append(out, src[:loc[0]]...)
	out = f.Pattern.Expand(out, []byte(f.Replacement), src, loc)
	out = append(out, src[loc[1]:]...)

	return out
}

// DefaultPasses are the transform groups handed to a lebab-compatible command.
// multi-var runs twice because a single pass leaves nested declarations split
// only halfway.
var DefaultPasses = [][]string{
	{"--transform", "multi-var"},
	{"--transform", "multi-var"},
	{"--transform", "template,arrow,arrow-return,let,arg-spread,arg-rest,obj-method,obj-shorthand,exponent,for-of,includes"},
}

// DefaultFixups repair the constructs the transforms above are known to break
// in the game bundle.
var DefaultFixups = []Fixup{
	{Pattern: regexp.MustCompile(`window\.ig\.Class = \(\) => \{\}`), Replacement: "window.ig.Class = function() {}"},
	{Pattern: regexp.MustCompile(`let g;(\s+if \(this.attackCounter <= 3)`), Replacement: "var g;$1"},
	{Pattern: regexp.MustCompile(`new ig\.TileSheet\.createFromJson`), Replacement: "ig.TileSheet.createFromJson", All: true},
}

// CommandNormalizer pipes the program through an external command once per
// pass and caches the result by the hash of its input.
type CommandNormalizer struct {
	command  []string
	passes   [][]string
	fixups   []Fixup
	cacheDir m.Path
	timeout  time.Duration
	fs       SourceFSAdapter
}

// NewCommandNormalizer constructs a CommandNormalizer. command holds the
// executable followed by its fixed arguments. An empty cacheDir disables
// caching.
func NewCommandNormalizer(fsAdapter SourceFSAdapter, command []string, cacheDir m.Path) *CommandNormalizer {
	return &CommandNormalizer{
		command:  command,
		passes:   DefaultPasses,
		fixups:   DefaultFixups,
		cacheDir: cacheDir,
		timeout:  10 * time.Minute,
		fs:       fsAdapter,
	}
}

// WithPasses replaces the argument groups, one command run per group.
func (n *CommandNormalizer) WithPasses(passes [][]string) *CommandNormalizer {
	n.passes = passes
	return n
}

// WithFixups replaces the textual fixups.
func (n *CommandNormalizer) WithFixups(fixups []Fixup) *CommandNormalizer {
	n.fixups = fixups
	return n
}

// Normalize returns the cached normalization of src or computes and stores it.
func (n *CommandNormalizer) Normalize(ctx context.Context, src []byte) ([]byte, error) {
	if len(n.command) == 0 {
		return src, nil
	}

	sum := sha256.Sum256(src)
	key := hex.EncodeToString(sum[:])

	var cachePath m.Path
	if n.cacheDir != "" {
		cachePath = n.fs.JoinPath(ctx, string(n.cacheDir), key+".js")

		cached, err := n.fs.ReadFile(ctx, cachePath)
		if err == nil {
			slog.Debug("normalize cache hit", "path", cachePath)
			return cached, nil
		}

		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read normalize cache: %w", err)
		}
	}

	code := src

	for i, pass := range n.passes {
		slog.Debug("normalize pass", "pass", i+1, "args", pass)

		out, err := n.run(ctx, pass, code)
		if err != nil {
			slog.Error("normalize pass failed", "pass", i+1, "error", err)
			return nil, fmt.Errorf("normalize pass %d: %w", i+1, err)
		}

		code = out
	}

	for _, fixup := range n.fixups {
		code = fixup.Apply(code)
	}

	if cachePath != "" {
		if err := n.fs.WriteFile(ctx, cachePath, code, 0o644); err != nil {
			return nil, fmt.Errorf("write normalize cache: %w", err)
		}
	}

	return code, nil
}

func (n *CommandNormalizer) run(ctx context.Context, pass []string, input []byte) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	args := append(append([]string{}, n.command[1:]...), pass...)

	//nolint:gosec // The command comes from the user's own configuration.
	cmd := exec.CommandContext(ctx, n.command[0], args...)

	var stdout, stderr bytes.Buffer

	cmd.Stdin = bytes.NewReader(input)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%w: %s", err, stderr.String())
	}

	return stdout.Bytes(), nil
}
