package builder

import (
	"errors"
	"fmt"
	"io"
	"path"
	"slices"
	"strconv"
	"strings"

	"github.com/moby/buildkit/frontend/dockerfile/parser"

	"github.com/melih/cardpress/internal/core/domain"
)

// Instruction is one Dockerfile instruction with its arguments.
type Instruction struct {
	Line    int
	Command string
	Args    []string
	Flags   []string
	JSON    bool
	Stage   int
	// Heredocs holds the bodies of RUN <<EOF style instructions.
	Heredocs []string
}

// ParseDockerfile parses a Dockerfile and tags every instruction with the
// index of the build stage it belongs to.
func ParseDockerfile(r io.Reader) ([]Instruction, error) {
	res, err := parser.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Dockerfile: %w", err)
	}

	var out []Instruction
	stage := -1
	for _, node := range res.AST.Children {
		ins := Instruction{
			Line:    node.StartLine,
			Command: strings.ToUpper(node.Value),
			Flags:   node.Flags,
			JSON:    node.Attributes["json"],
		}
		for n := node.Next; n != nil; n = n.Next {
			ins.Args = append(ins.Args, n.Value)
		}
		for _, h := range node.Heredocs {
			ins.Heredocs = append(ins.Heredocs, h.Content)
		}
		if ins.Command == "FROM" {
			stage++
		}
		ins.Stage = stage
		out = append(out, ins)
	}
	return out, nil
}

// Sources returns the source operands of a COPY or ADD instruction.
func (ins Instruction) Sources() []string {
	if len(ins.Args) < 2 {
		return nil
	}
	return ins.Args[:len(ins.Args)-1]
}

// FromStage reports whether a COPY reads from another stage or image.
func (ins Instruction) FromStage() bool {
	for _, f := range ins.Flags {
		if strings.HasPrefix(f, "--from=") {
			return true
		}
	}
	return false
}

// Cmd returns the command in exec form; the shell form is wrapped in /bin/sh -c.
func (ins Instruction) Cmd() []string {
	if ins.JSON {
		return ins.Args
	}
	return []string{"/bin/sh", "-c", strings.Join(ins.Args, " ")}
}

// VerifyDockerfile checks the packaging contract of the recipe: the module
// manifest is copied and downloaded before the full source copy, the games
// directory reaches the final stage, the port is exposed and the default
// command matches.
func VerifyDockerfile(r io.Reader, expect domain.ImageSpec) error {
	instructions, err := ParseDockerfile(r)
	if err != nil {
		return err
	}

	manifestCopy, depInstall, sourceCopy := -1, -1, -1
	finalStage := 0
	if n := len(instructions); n > 0 {
		finalStage = instructions[n-1].Stage
	}
	gamesShipped := expect.GamesDir == ""
	exposed := false
	var cmd []string

	for i, ins := range instructions {
		switch ins.Command {
		case "COPY", "ADD":
			srcs := ins.Sources()
			if ins.Stage == finalStage && !gamesShipped {
				for _, src := range srcs {
					clean := path.Clean(src)
					if clean == "." || path.Base(clean) == expect.GamesDir {
						gamesShipped = true
					}
				}
			}
			if ins.FromStage() {
				continue
			}
			for _, src := range srcs {
				if path.Base(src) == "go.mod" && manifestCopy < 0 {
					manifestCopy = i
				}
				if path.Clean(src) == "." && sourceCopy < 0 {
					sourceCopy = i
				}
			}
		case "RUN":
			body := strings.Join(append(slices.Clone(ins.Args), ins.Heredocs...), "\n")
			if strings.Contains(body, "go mod download") && depInstall < 0 {
				depInstall = i
			}
		case "EXPOSE":
			for _, p := range ins.Args {
				port, proto, _ := strings.Cut(p, "/")
				if port == strconv.Itoa(expect.Port) && (proto == "" || proto == "tcp") {
					exposed = true
				}
			}
		case "CMD":
			cmd = ins.Cmd()
		}
	}

	var errs []error
	switch {
	case manifestCopy < 0:
		errs = append(errs, errors.New("go.mod is never copied on its own"))
	case depInstall < 0:
		errs = append(errs, errors.New("dependencies are never downloaded"))
	case sourceCopy < 0:
		errs = append(errs, errors.New("source tree is never copied"))
	case !(manifestCopy < depInstall && depInstall < sourceCopy):
		errs = append(errs, fmt.Errorf("dependency download (line %d) must come after the manifest copy and before the source copy (line %d)",
			instructions[depInstall].Line, instructions[sourceCopy].Line))
	}
	if !gamesShipped {
		errs = append(errs, fmt.Errorf("final stage does not copy the %s directory", expect.GamesDir))
	}
	if !exposed {
		errs = append(errs, fmt.Errorf("port %d/tcp is not exposed", expect.Port))
	}
	if !slices.Equal(cmd, expect.Cmd) {
		errs = append(errs, fmt.Errorf("default command is %q, want %q", cmd, expect.Cmd))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", domain.ErrImageMismatch, errors.Join(errs...))
	}
	return nil
}
