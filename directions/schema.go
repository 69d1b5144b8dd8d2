package directions

import s "github.com/reoring/skema"

// Schema names registered in Registry.
const (
	SchemaResponse        = "DirectionsResponse"
	SchemaRoute           = "Route"
	SchemaGeometry        = "Geometry"
	SchemaLeg             = "Leg"
	SchemaAdmin           = "Admin"
	SchemaStep            = "Step"
	SchemaIntersection    = "Intersection"
	SchemaLane            = "Lane"
	SchemaMapboxStreetsV8 = "MapboxStreetsV8"
	SchemaManeuver        = "Maneuver"
	SchemaWaypoint        = "Waypoint"
	SchemaIndication      = "Indication"
	SchemaClass           = "Class"
)

// Registry holds the directions schema graph. It is built once and shared
// read-only.
var Registry = newRegistry()

func newRegistry() *s.Registry {
	coords := s.Array(s.Number())
	return s.NewRegistryBuilder().
		Register(SchemaResponse, s.Object(
			s.Field("routes", "Routes", s.Array(s.Ref(SchemaRoute))),
			s.Field("waypoints", "Waypoints", s.Array(s.Ref(SchemaWaypoint))),
			s.Field("code", "Code", s.String()),
			s.Field("uuid", "UUID", s.String()),
		)).
		Register(SchemaRoute, s.Object(
			s.Field("weight_name", "WeightName", s.String()),
			s.Field("weight", "Weight", s.Number()),
			s.Field("duration", "Duration", s.Number()),
			s.Field("distance", "Distance", s.Number()),
			s.Field("legs", "Legs", s.Array(s.Ref(SchemaLeg))),
			s.Field("geometry", "Geometry", s.Ref(SchemaGeometry)),
		)).
		Register(SchemaGeometry, s.Object(
			s.Field("coordinates", "Coordinates", s.Array(coords)),
			s.Field("type", "Type", s.String()),
		)).
		Register(SchemaLeg, s.Object(
			s.Field("via_waypoints", "ViaWaypoints", s.Array(s.Any())),
			s.Field("admins", "Admins", s.Array(s.Ref(SchemaAdmin))),
			s.Field("weight", "Weight", s.Number()),
			s.Field("duration", "Duration", s.Number()),
			s.Field("steps", "Steps", s.Array(s.Ref(SchemaStep))),
			s.Field("distance", "Distance", s.Number()),
			s.Field("summary", "Summary", s.String()),
		)).
		Register(SchemaAdmin, s.Object(
			s.Field("iso_3166_1_alpha3", "CountryCodeAlpha3", s.String()),
			s.Field("iso_3166_1", "CountryCode", s.String()),
		)).
		Register(SchemaStep, s.Object(
			s.Field("intersections", "Intersections", s.Array(s.Ref(SchemaIntersection))),
			s.Field("maneuver", "Maneuver", s.Ref(SchemaManeuver)),
			s.Field("name", "Name", s.String()),
			s.Field("duration", "Duration", s.Number()),
			s.Field("distance", "Distance", s.Number()),
			s.Field("driving_side", "DrivingSide", s.String()),
			s.Field("weight", "Weight", s.Number()),
			s.Field("mode", "Mode", s.String()),
			s.Field("geometry", "Geometry", s.Ref(SchemaGeometry)),
		)).
		Register(SchemaIntersection, s.Object(
			s.Field("entry", "Entry", s.Array(s.Boolean())),
			s.Field("bearings", "Bearings", s.Array(s.Number())),
			s.Field("duration", "Duration", s.Optional(s.Number())),
			s.Field("mapbox_streets_v8", "MapboxStreetsV8", s.Optional(s.Ref(SchemaMapboxStreetsV8))),
			s.Field("is_urban", "IsUrban", s.Optional(s.Boolean())),
			s.Field("admin_index", "AdminIndex", s.Number()),
			s.Field("out", "Out", s.Optional(s.Number())),
			s.Field("weight", "Weight", s.Optional(s.Number())),
			s.Field("geometry_index", "GeometryIndex", s.Number()),
			s.Field("location", "Location", coords),
			s.Field("in", "In", s.Optional(s.Number())),
			s.Field("turn_weight", "TurnWeight", s.Optional(s.Number())),
			s.Field("turn_duration", "TurnDuration", s.Optional(s.Number())),
			s.Field("traffic_signal", "TrafficSignal", s.Optional(s.Boolean())),
			s.Field("lanes", "Lanes", s.Optional(s.Array(s.Ref(SchemaLane)))),
		)).
		Register(SchemaLane, s.Object(
			s.Field("indications", "Indications", s.Array(s.Ref(SchemaIndication))),
			s.Field("valid_indication", "ValidIndication", s.Optional(s.Ref(SchemaIndication))),
			s.Field("valid", "Valid", s.Boolean()),
			s.Field("active", "Active", s.Boolean()),
		)).
		Register(SchemaMapboxStreetsV8, s.Object(
			s.Field("class", "Class", s.Ref(SchemaClass)),
		)).
		Register(SchemaManeuver, s.Object(
			s.Field("type", "Type", s.String()),
			s.Field("instruction", "Instruction", s.String()),
			s.Field("bearing_after", "BearingAfter", s.Number()),
			s.Field("bearing_before", "BearingBefore", s.Number()),
			s.Field("location", "Location", coords),
			s.Field("modifier", "Modifier", s.Optional(s.String())),
		)).
		Register(SchemaWaypoint, s.Object(
			s.Field("distance", "Distance", s.Number()),
			s.Field("name", "Name", s.String()),
			s.Field("location", "Location", coords),
		)).
		Register(SchemaIndication, s.Enum(string(IndicationLeft), string(IndicationStraight))).
		Register(SchemaClass, s.Enum(string(ClassPrimary), string(ClassSecondary), string(ClassStreet))).
		MustBuild()
}
