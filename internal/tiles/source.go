package tiles

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/Faultbox/geoar/pkg/geo"
)

// ErrTileMissing is returned by sources that have no data for a tile.
var ErrTileMissing = errors.New("tile data missing")

// Source provides the content attached to a materialized tile node.
type Source interface {
	Fetch(id geo.TileID) (any, error)
}

// StaticSource materializes every tile with its ID as content.
type StaticSource struct{}

// Fetch returns id.
func (StaticSource) Fetch(id geo.TileID) (any, error) {
	return id, nil
}

// DirSource serves tiles from a {root}/{z}/{x}/{y}.{ext} tree.
type DirSource struct {
	Root string
	Ext  string
}

// Path returns the file path of a tile.
func (s DirSource) Path(id geo.TileID) string {
	return filepath.Join(s.Root, strconv.Itoa(id.Zoom), strconv.Itoa(id.X), fmt.Sprintf("%d.%s", id.Y, s.Ext))
}

// Fetch returns the tile's file path if the file exists.
func (s DirSource) Fetch(id geo.TileID) (any, error) {
	path := s.Path(id)
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrTileMissing, path)
		}
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrTileMissing, path)
	}
	return path, nil
}
