package docker

import (
	"context"
	"fmt"
	"slices"
	"strconv"

	"github.com/containerd/errdefs"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/client"
	"github.com/docker/go-connections/nat"

	"github.com/melih/cardpress/internal/core/domain"
)

// Adapter implements ports.ImageInspector using Docker SDK
type Adapter struct {
	cli *client.Client
}

// NewAdapter creates a new Docker adapter instance
func NewAdapter() (*Adapter, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("failed to create docker client: %w", err)
	}
	return &Adapter{cli: cli}, nil
}

// VerifyImage inspects a local image and checks its exposed port and default command.
func (a *Adapter) VerifyImage(ctx context.Context, imageName string, expect domain.ImageSpec) error {
	info, _, err := a.cli.ImageInspectWithRaw(ctx, imageName)
	if err != nil {
		if errdefs.IsNotFound(err) {
			return fmt.Errorf("%w: %s", domain.ErrImageNotFound, imageName)
		}
		return fmt.Errorf("failed to inspect image: %w", err)
	}
	return CheckConfig(info.Config, expect)
}

// CheckConfig compares an image config with the expected runtime contract.
func CheckConfig(cfg *container.Config, expect domain.ImageSpec) error {
	if cfg == nil {
		return fmt.Errorf("%w: image has no config", domain.ErrImageMismatch)
	}

	port, err := nat.NewPort("tcp", strconv.Itoa(expect.Port))
	if err != nil {
		return fmt.Errorf("invalid expected port: %w", err)
	}
	if _, ok := cfg.ExposedPorts[port]; !ok {
		return fmt.Errorf("%w: port %s is not exposed", domain.ErrImageMismatch, port)
	}
	if len(cfg.Entrypoint) > 0 {
		return fmt.Errorf("%w: unexpected entrypoint %q", domain.ErrImageMismatch, []string(cfg.Entrypoint))
	}
	if !slices.Equal([]string(cfg.Cmd), expect.Cmd) {
		return fmt.Errorf("%w: default command is %q, want %q", domain.ErrImageMismatch, []string(cfg.Cmd), expect.Cmd)
	}
	return nil
}
