package domain

// ImageSpec is the runtime contract a built service image must honour.
type ImageSpec struct {
	Port int
	Cmd  []string
	// GamesDir must be copied into the final stage so the image starts with a catalog.
	GamesDir string
}

// DefaultImageSpec matches the Dockerfile at the repository root.
var DefaultImageSpec = ImageSpec{
	Port:     8005,
	Cmd:      []string{"cardpress", "serve"},
	GamesDir: "Juegos",
}
