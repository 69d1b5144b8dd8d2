package directions

import "math"

// Position is a WGS84 coordinate.
type Position struct {
	Lon float64
	Lat float64
}

// Bounds is the bounding box of a set of positions.
type Bounds struct {
	SouthWest Position
	NorthEast Position
}

// Extend grows b to contain p.
func (b Bounds) Extend(p Position) Bounds {
	b.SouthWest.Lon = math.Min(b.SouthWest.Lon, p.Lon)
	b.SouthWest.Lat = math.Min(b.SouthWest.Lat, p.Lat)
	b.NorthEast.Lon = math.Max(b.NorthEast.Lon, p.Lon)
	b.NorthEast.Lat = math.Max(b.NorthEast.Lat, p.Lat)
	return b
}

// Positions converts the [lon, lat] pairs of g. Pairs with fewer than two
// components are skipped.
func (g Geometry) Positions() []Position {
	out := make([]Position, 0, len(g.Coordinates))
	for _, c := range g.Coordinates {
		if len(c) < 2 {
			continue
		}
		out = append(out, Position{Lon: c[0], Lat: c[1]})
	}
	return out
}

// Bounds returns the bounding box of g, false when g has no positions.
func (g Geometry) Bounds() (Bounds, bool) {
	ps := g.Positions()
	if len(ps) == 0 {
		return Bounds{}, false
	}
	b := Bounds{SouthWest: ps[0], NorthEast: ps[0]}
	for _, p := range ps[1:] {
		b = b.Extend(p)
	}
	return b, true
}

// Position returns the snapped location of the waypoint.
func (w Waypoint) Position() (Position, bool) {
	if len(w.Location) < 2 {
		return Position{}, false
	}
	return Position{Lon: w.Location[0], Lat: w.Location[1]}, true
}

// Best returns the recommended route. The API orders routes by preference,
// so this is the first one.
func (r Response) Best() (Route, bool) {
	if len(r.Routes) == 0 {
		return Route{}, false
	}
	return r.Routes[0], true
}

// Bounds covers every route geometry and waypoint of r.
func (r Response) Bounds() (Bounds, bool) {
	var (
		b  Bounds
		ok bool
	)
	add := func(p Position) {
		if !ok {
			b, ok = Bounds{SouthWest: p, NorthEast: p}, true
			return
		}
		b = b.Extend(p)
	}
	for _, rt := range r.Routes {
		for _, p := range rt.Geometry.Positions() {
			add(p)
		}
	}
	for _, w := range r.Waypoints {
		if p, has := w.Position(); has {
			add(p)
		}
	}
	return b, ok
}
