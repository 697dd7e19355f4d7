package docker

import (
	"testing"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/strslice"
	"github.com/docker/go-connections/nat"
	"github.com/stretchr/testify/assert"

	"github.com/melih/cardpress/internal/core/domain"
)

func TestCheckConfig(t *testing.T) {
	valid := func() *container.Config {
		return &container.Config{
			ExposedPorts: nat.PortSet{"8005/tcp": struct{}{}},
			Cmd:          strslice.StrSlice{"cardpress", "serve"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*container.Config) *container.Config
		wantErr string
	}{
		{name: "valid", mutate: func(c *container.Config) *container.Config { return c }},
		{name: "nil config", mutate: func(*container.Config) *container.Config { return nil }, wantErr: "no config"},
		{
			name:    "udp only",
			mutate:  func(c *container.Config) *container.Config { c.ExposedPorts = nat.PortSet{"8005/udp": {}}; return c },
			wantErr: "8005/tcp is not exposed",
		},
		{
			name:    "extra token",
			mutate:  func(c *container.Config) *container.Config { c.Cmd = append(c.Cmd, "--debug"); return c },
			wantErr: "default command",
		},
		{
			name:    "entrypoint",
			mutate:  func(c *container.Config) *container.Config { c.Entrypoint = strslice.StrSlice{"/bin/sh"}; return c },
			wantErr: "entrypoint",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckConfig(tt.mutate(valid()), domain.DefaultImageSpec)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, domain.ErrImageMismatch)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
