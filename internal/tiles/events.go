package tiles

import "github.com/Faultbox/geoar/pkg/geo"

// Listener receives streamer lifecycle events. Handlers run synchronously
// inside the streamer call that fired them and must not call Pan or
// ChangeZoom.
type Listener interface {
	OnTileAdded(id geo.TileID)
	OnTileRemoved(id geo.TileID)
	OnZoomChanged()
	OnAllTilesSettled()
}

// ListenerFuncs adapts optional callbacks to Listener.
type ListenerFuncs struct {
	TileAdded       func(id geo.TileID)
	TileRemoved     func(id geo.TileID)
	ZoomChanged     func()
	AllTilesSettled func()
}

func (f ListenerFuncs) OnTileAdded(id geo.TileID) {
	if f.TileAdded != nil {
		f.TileAdded(id)
	}
}

func (f ListenerFuncs) OnTileRemoved(id geo.TileID) {
	if f.TileRemoved != nil {
		f.TileRemoved(id)
	}
}

func (f ListenerFuncs) OnZoomChanged() {
	if f.ZoomChanged != nil {
		f.ZoomChanged()
	}
}

func (f ListenerFuncs) OnAllTilesSettled() {
	if f.AllTilesSettled != nil {
		f.AllTilesSettled()
	}
}
