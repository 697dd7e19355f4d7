package builder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/archive"
	"github.com/docker/docker/pkg/jsonmessage"
	"github.com/go-git/go-git/v5"
	"github.com/moby/patternmatcher/ignorefile"
	log "github.com/sirupsen/logrus"
)

type Adapter struct {
	cli *client.Client
	out io.Writer
}

// NewBuilderAdapter creates a builder that writes build progress to out.
func NewBuilderAdapter(out io.Writer) (*Adapter, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("failed to create docker client: %w", err)
	}
	if out == nil {
		out = io.Discard
	}
	return &Adapter{cli: cli, out: out}, nil
}

// BuildImage builds a Docker image from a local directory or a git URL.
func (a *Adapter) BuildImage(ctx context.Context, source string, imageName string) (string, error) {
	contextDir := source
	if IsRemote(source) {
		tmpDir, err := os.MkdirTemp("", "cardpress-build-*")
		if err != nil {
			return "", fmt.Errorf("failed to create temp dir: %w", err)
		}
		defer os.RemoveAll(tmpDir)

		log.Infof("Cloning %s into %s...", source, tmpDir)
		_, err = git.PlainCloneContext(ctx, tmpDir, false, &git.CloneOptions{
			URL:   source,
			Depth: 1,
		})
		if err != nil {
			return "", fmt.Errorf("failed to clone repo: %w", err)
		}
		contextDir = tmpDir
	}

	excludes, err := readDockerignore(contextDir)
	if err != nil {
		return "", err
	}

	tar, err := archive.TarWithOptions(contextDir, &archive.TarOptions{ExcludePatterns: excludes})
	if err != nil {
		return "", fmt.Errorf("failed to create build context: %w", err)
	}
	defer tar.Close()

	log.Infof("Building Docker image: %s...", imageName)
	resp, err := a.cli.ImageBuild(ctx, tar, types.ImageBuildOptions{
		Tags:       []string{imageName},
		Dockerfile: "Dockerfile",
		Remove:     true,
	})
	if err != nil {
		return "", fmt.Errorf("failed to build image: %w", err)
	}
	defer resp.Body.Close()

	// The daemon reports build failures inside the stream, not as an HTTP error.
	if err := jsonmessage.DisplayJSONMessagesStream(resp.Body, a.out, 0, false, nil); err != nil {
		return "", fmt.Errorf("failed to build image: %w", err)
	}

	return imageName, nil
}

// IsRemote reports whether source should be cloned instead of read from disk.
func IsRemote(source string) bool {
	for _, prefix := range []string{"https://", "http://", "git://", "ssh://", "git@"} {
		if strings.HasPrefix(source, prefix) {
			return true
		}
	}
	return false
}

func readDockerignore(dir string) ([]string, error) {
	f, err := os.Open(filepath.Join(dir, ".dockerignore"))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open .dockerignore: %w", err)
	}
	defer f.Close()

	patterns, err := ignorefile.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse .dockerignore: %w", err)
	}
	return patterns, nil
}
