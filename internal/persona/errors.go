package persona

import (
	"errors"
)

var (
	// ErrGeneration is returned when the generator's output could not
	// be parsed as a persona. The pipeline aborts without persisting.
	ErrGeneration = errors.New("persona generation failed")
	// ErrNotConnected is returned when the target instance is not
	// connected; the pipeline requires an open connection.
	ErrNotConnected = errors.New("instance is not connected")
	// ErrNoPhotos is returned when the asset directory holds no usable
	// photo.
	ErrNoPhotos = errors.New("no photos available in the asset directory")
)
