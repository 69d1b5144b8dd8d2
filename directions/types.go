package directions

// Indication is a lane arrow.
type Indication string

const (
	IndicationLeft     Indication = "left"
	IndicationStraight Indication = "straight"
)

// Class is the road class reported by the streets tileset.
type Class string

const (
	ClassPrimary   Class = "primary"
	ClassSecondary Class = "secondary"
	ClassStreet    Class = "street"
)

// Response is the top-level directions payload.
type Response struct {
	Routes    []Route
	Waypoints []Waypoint
	Code      string
	UUID      string
}

// Route is one alternative path between the waypoints.
type Route struct {
	WeightName string
	Weight     float64
	Duration   float64 // seconds
	Distance   float64 // meters
	Legs       []Leg
	Geometry   Geometry
}

// Geometry is a GeoJSON LineString; coordinates are [longitude, latitude].
type Geometry struct {
	Coordinates [][]float64
	Type        string
}

// Leg is the part of a route between two consecutive waypoints.
type Leg struct {
	ViaWaypoints []any
	Admins       []Admin
	Weight       float64
	Duration     float64
	Steps        []Step
	Distance     float64
	Summary      string
}

// Admin is an administrative region crossed by a leg.
type Admin struct {
	CountryCodeAlpha3 string
	CountryCode       string
}

type Step struct {
	Intersections []Intersection
	Maneuver      Maneuver
	Name          string
	Duration      float64
	Distance      float64
	DrivingSide   string
	Weight        float64
	Mode          string
	Geometry      Geometry
}

// Intersection describes a node along a step. Nil pointers and a nil Lanes
// slice are absent on the wire.
type Intersection struct {
	Entry           []bool
	Bearings        []int
	Duration        *float64
	MapboxStreetsV8 *MapboxStreetsV8
	IsUrban         *bool
	AdminIndex      int
	Out             *int
	Weight          *float64
	GeometryIndex   int
	Location        []float64
	In              *int
	TurnWeight      *float64
	TurnDuration    *float64
	TrafficSignal   *bool
	Lanes           []Lane
}

type Lane struct {
	Indications     []Indication
	ValidIndication *Indication
	Valid           bool
	Active          bool
}

type MapboxStreetsV8 struct {
	Class Class
}

type Maneuver struct {
	Type          string
	Instruction   string
	BearingAfter  int
	BearingBefore int
	Location      []float64
	Modifier      *string
}

type Waypoint struct {
	Distance float64
	Name     string
	Location []float64
}
