package ports

import (
	"context"

	"github.com/melih/cardpress/internal/core/domain"
)

// BuilderService defines operations for building container images from source code.
type BuilderService interface {
	// BuildImage builds a Docker image from a local directory or a git URL.
	// It returns the tag of the built image or an error.
	BuildImage(ctx context.Context, source string, imageName string) (string, error)
}

// ImageInspector checks a built image against its runtime contract.
type ImageInspector interface {
	VerifyImage(ctx context.Context, imageName string, expect domain.ImageSpec) error
}
