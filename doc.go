// Package skema provides:
//
// - A declarative schema graph (String/Number/Boolean/Array/Object/Union/Enum/Ref/Any)
// - An immutable Registry resolving named references, validated once at Build
// - A single recursive transformer that decodes wire JSON into records keyed by
//   internal names and encodes records back under their wire names
// - A stable error model via Issues (JSON Pointer, code, message)
//
// Design policy:
// - Keep only public APIs in the root package; put the token engine under internal/.
// - Validation failures are Issues; schema misconfiguration is a ConfigError.
// - Decode and Encode are fail-fast: the first issue aborts the call.
//
// Typical usage:
//
//  b := skema.NewRegistryBuilder()
//  b.Register("Point", skema.Object(
//      skema.Field("lng", "Lng", skema.Number()),
//      skema.Field("lat", "Lat", skema.Number()),
//  ))
//  reg := b.MustBuild()
//
//  rec, err := reg.Decode([]byte(`{"lng":1,"lat":2}`), "Point")
//  wire, err := reg.Encode(rec, "Point")
//
package skema
